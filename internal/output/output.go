// Package output writes exported annotation rasters to disk as PNG, JPEG or
// single-page PDF documents.
package output

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Format names an output encoding.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	PDF  Format = "pdf"
)

// JPEGQuality is used for every JPEG written by this package.
const JPEGQuality = 92

// ErrUnknownFormat is returned when a format name or file extension is not
// recognised.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat accepts png, jpeg, jpg or pdf in any case.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	case "pdf":
		return PDF, nil
	}
	return "", fmt.Errorf("%q: %w", name, ErrUnknownFormat)
}

// FormatFromPath derives the format from the file extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%s has no extension: %w", path, ErrUnknownFormat)
	}
	return ParseFormat(ext)
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, flatten(img), &jpeg.Options{Quality: JPEGQuality})
	case PDF:
		return encodePDF(w, img)
	}
	return fmt.Errorf("%q: %w", string(f), ErrUnknownFormat)
}

// WriteFile encodes img into path and returns the absolute path written. An
// empty format is derived from the extension.
func WriteFile(path string, img image.Image, f Format) (string, error) {
	if img == nil {
		return "", fmt.Errorf("write %s: no image", path)
	}
	if f == "" {
		var err error
		if f, err = FormatFromPath(path); err != nil {
			return "", err
		}
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create output dir: %w", err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create output %q: %w", path, err)
	}
	if err := Encode(out, img, f); err != nil {
		if cerr := out.Close(); cerr != nil {
			log.Printf("close %s: %v", path, cerr)
		}
		return "", fmt.Errorf("write %s to %q: %w", strings.ToUpper(string(f)), path, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path, nil
}

// flatten composites img over white; JPEG and PDF pages carry no alpha.
func flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Over)
	return out
}

// encodePDF places img on a single page sized to it, one point per pixel.
func encodePDF(w io.Writer, img image.Image) error {
	b := img.Bounds()
	if b.Empty() {
		return fmt.Errorf("empty image")
	}
	wd, ht := float64(b.Dx()), float64(b.Dy())
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("polyanno", true)
	pdf.AddPage()

	var buf bytes.Buffer
	if err := png.Encode(&buf, flatten(img)); err != nil {
		return fmt.Errorf("encode page image: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("export", opts, &buf)
	pdf.ImageOptions("export", 0, 0, wd, ht, false, opts, 0, "")
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
