package theme

import (
	"embed"
	"image/color"
)

// EmbeddedThemes holds the themes shipped with the binary.
//
//go:embed defaults/*.theme
var EmbeddedThemes embed.FS

// Theme defines the colours used by the editor view. Polygon fills are not
// part of a theme; they come from the polygons themselves.
type Theme struct {
	Name string

	// Window
	Background color.RGBA
	Foreground color.RGBA

	// Status bar
	StatusBackground color.RGBA
	StatusText       color.RGBA

	// Canvas
	CheckerLight color.RGBA
	CheckerDark  color.RGBA

	// Overlay
	Outline         color.RGBA
	OutlineSelected color.RGBA
	Point           color.RGBA
	PointSelected   color.RGBA
	PointBorder     color.RGBA
	Draft           color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:             "Default",
		Background:       color.RGBA{220, 220, 220, 255},
		Foreground:       color.RGBA{0, 0, 0, 255},
		StatusBackground: color.RGBA{200, 200, 200, 255},
		StatusText:       color.RGBA{0, 0, 0, 255},
		CheckerLight:     color.RGBA{220, 220, 220, 255},
		CheckerDark:      color.RGBA{192, 192, 192, 255},
		Outline:          color.RGBA{255, 255, 255, 255},
		OutlineSelected:  color.RGBA{255, 200, 0, 255},
		Point:            color.RGBA{255, 255, 255, 255},
		PointSelected:    color.RGBA{255, 64, 64, 255},
		PointBorder:      color.RGBA{0, 0, 0, 255},
		Draft:            color.RGBA{0, 160, 255, 255},
	}
}
