package prefs

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissing(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := p.Fill(); ok {
		t.Fatal("missing file should have no fill")
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "prefs.toml")
	var p Prefs
	want := color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xFF}
	p.SetFill(want)
	if err := Save(path, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.FillColor != "#123456" {
		t.Fatalf("FillColor = %q", got.FillColor)
	}
	c, ok := got.Fill()
	if !ok || c != want {
		t.Fatalf("Fill = %v %v", c, ok)
	}
}

func TestLoadFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte("fill_color = \"#00FF0080\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	c, ok := p.Fill()
	if !ok || c != (color.RGBA{G: 0x80, A: 0x80}) {
		t.Fatalf("Fill = %v %v", c, ok)
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte("fill_color = [1,"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
