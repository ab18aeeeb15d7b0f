// Package prefs persists user choices made while editing, such as the last
// fill colour, between runs.
package prefs

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/example/polyanno/internal/theme"
)

// Prefs is the content of the preferences file.
type Prefs struct {
	FillColor string `toml:"fill_color,omitempty"`
}

// Fill returns the stored fill colour premultiplied, if a valid one is
// stored.
func (p Prefs) Fill() (color.RGBA, bool) {
	if p.FillColor == "" {
		return color.RGBA{}, false
	}
	c, err := theme.ParseFill(p.FillColor)
	if err != nil {
		return color.RGBA{}, false
	}
	return c, true
}

// SetFill stores c as a straight alpha hex string.
func (p *Prefs) SetFill(c color.RGBA) { p.FillColor = theme.FillHex(c) }

// DefaultPath returns ~/.config/polyanno/prefs.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "polyanno", "prefs.toml")
}

// Load reads the preferences at path. A missing file yields empty
// preferences.
func Load(path string) (Prefs, error) {
	var p Prefs
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, err
	}
	if err := toml.Unmarshal(data, &p); err != nil {
		return Prefs{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return p, nil
}

// Save writes p to path, creating its directory.
func Save(path string, p Prefs) error {
	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
