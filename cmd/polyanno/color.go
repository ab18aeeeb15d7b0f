package main

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/example/polyanno/internal/theme"
)

// defaultFillAlpha is applied to named colours, which are always opaque.
const defaultFillAlpha = 0x80

// parseColor accepts an SVG colour name or a straight alpha hex value and
// returns a premultiplied fill colour. Named colours get half opacity so the
// base image stays visible.
func parseColor(s string) (color.RGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	if c, ok := colornames.Map[spec]; ok {
		return theme.ParseFill(fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, defaultFillAlpha))
	}
	if strings.HasPrefix(spec, "#") {
		c, err := theme.ParseFill(spec)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return c, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid color %q", s)
}
