package output

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func sample() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	return img
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"png", PNG},
		{"PNG", PNG},
		{"jpg", JPEG},
		{"jpeg", JPEG},
		{" pdf ", PDF},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
	if _, err := ParseFormat("gif"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("gif err = %v", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	if f, err := FormatFromPath("/tmp/out.JPG"); err != nil || f != JPEG {
		t.Fatalf("got %q, %v", f, err)
	}
	if _, err := FormatFromPath("/tmp/out"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("no extension err = %v", err)
	}
}

func TestWriteFilePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.png")
	abs, err := WriteFile(path, sample(), "")
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if !filepath.IsAbs(abs) {
		t.Fatalf("path %q not absolute", abs)
	}
	f, err := os.Open(abs)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
}

func TestEncodeJPEGFlattensAlpha(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4)), JPEG); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	img, err := jpeg.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r, g, b, _ := img.At(1, 1).RGBA()
	if r>>8 < 250 || g>>8 < 250 || b>>8 < 250 {
		t.Fatalf("transparent pixel not flattened to white: %d %d %d", r>>8, g>>8, b>>8)
	}
}

func TestEncodePDF(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, sample(), PDF); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("missing PDF header")
	}
	if !bytes.Contains(buf.Bytes(), []byte("/Subtype /Image")) {
		t.Fatalf("page image missing")
	}
	if !bytes.Contains(buf.Bytes(), []byte("%%EOF")) {
		t.Fatalf("missing PDF trailer")
	}
}

func TestWriteFileErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := WriteFile(filepath.Join(dir, "a.png"), nil, ""); err == nil {
		t.Fatal("expected error for nil image")
	}
	if _, err := WriteFile(filepath.Join(dir, "a.gif"), sample(), ""); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("gif err = %v", err)
	}
}
