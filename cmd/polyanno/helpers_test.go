package main

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"path/filepath"
	"testing"

	"github.com/example/polyanno/internal/config"
	"github.com/example/polyanno/internal/theme"
)

func newTestRoot(t *testing.T) (*root, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return &root{
		program:     "polyanno",
		config:      config.New(),
		prefsPath:   filepath.Join(t.TempDir(), "prefs.toml"),
		activeTheme: theme.Default(),
		stdout:      &out,
	}, &out
}

func whiteImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

func newTestRunner(t *testing.T) (*scriptRunner, *root, *bytes.Buffer) {
	t.Helper()
	r, out := newTestRoot(t)
	return newScriptRunner(r.newSession(), whiteImage(100, 100), out), r, out
}

func mustExec(t *testing.T, sr *scriptRunner, lines ...string) {
	t.Helper()
	for _, l := range lines {
		if err := sr.exec(l); err != nil {
			t.Fatalf("exec %q: %v", l, err)
		}
	}
}
