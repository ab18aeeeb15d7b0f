// Package viewport converts between screen space and the content space of the
// base image under pan and zoom.
package viewport

import (
	"math"

	"github.com/example/polyanno/internal/geom"
)

const (
	MinScale = 0.1
	MaxScale = 10

	// DefaultZoomFactor is applied once per wheel tick.
	DefaultZoomFactor = 1.02
)

// Transform maps content coordinates to screen coordinates as
// screen = content*Scale + Offset.
type Transform struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// Identity returns the transform that draws content at its native size with
// its origin at the screen origin.
func Identity() Transform { return Transform{Scale: 1} }

// ClampScale limits s to [MinScale, MaxScale].
func ClampScale(s float64) float64 {
	if math.IsNaN(s) || s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}

// FitScale returns the largest scale at which content of size contentW×contentH
// fits inside the container minus margin on every side. It returns 1 if any
// dimension is zero.
func FitScale(containerW, containerH, contentW, contentH, margin float64) float64 {
	if containerW == 0 || containerH == 0 || contentW == 0 || contentH == 0 {
		return 1
	}
	sx := (containerW - 2*margin) / contentW
	sy := (containerH - 2*margin) / contentH
	return ClampScale(math.Min(sx, sy))
}

// FitToContainer returns a transform that fits the content inside the
// container and centres it with symmetric offsets.
func FitToContainer(containerW, containerH, contentW, contentH, margin float64) Transform {
	if containerW == 0 || containerH == 0 || contentW == 0 || contentH == 0 {
		return Identity()
	}
	s := FitScale(containerW, containerH, contentW, contentH, margin)
	return Transform{
		Scale:   s,
		OffsetX: (containerW - contentW*s) / 2,
		OffsetY: (containerH - contentH*s) / 2,
	}
}

// ScreenToContent converts a screen position to content space.
func (t Transform) ScreenToContent(px, py float64) geom.Point {
	return geom.Pt((px-t.OffsetX)/t.Scale, (py-t.OffsetY)/t.Scale)
}

// ContentToScreen converts a content position to screen space.
func (t Transform) ContentToScreen(p geom.Point) (x, y float64) {
	return p.X*t.Scale + t.OffsetX, p.Y*t.Scale + t.OffsetY
}

// ZoomAt applies one wheel tick at the screen position (px, py). A negative
// deltaSign (wheel up) zooms in; invert flips the direction, which is how
// ctrl-modified wheel events from pinch gestures arrive. The content point
// under (px, py) stays under it. A zero deltaSign or factor <= 1 leaves t
// unchanged.
func (t Transform) ZoomAt(px, py float64, deltaSign int, invert bool, factor float64) Transform {
	if deltaSign == 0 || factor <= 1 {
		return t
	}
	dir := 1.0
	if deltaSign > 0 {
		dir = -1
	}
	if invert {
		dir = -dir
	}
	anchor := t.ScreenToContent(px, py)
	scale := ClampScale(t.Scale * math.Pow(factor, dir))
	return Transform{
		Scale:   scale,
		OffsetX: px - anchor.X*scale,
		OffsetY: py - anchor.Y*scale,
	}
}

// ZoomBy multiplies the scale by f keeping the content under (px, py) fixed.
func (t Transform) ZoomBy(px, py, f float64) Transform {
	anchor := t.ScreenToContent(px, py)
	scale := ClampScale(t.Scale * f)
	return Transform{
		Scale:   scale,
		OffsetX: px - anchor.X*scale,
		OffsetY: py - anchor.Y*scale,
	}
}

// Pan moves the content by (dx, dy) screen pixels.
func (t Transform) Pan(dx, dy float64) Transform {
	t.OffsetX += dx
	t.OffsetY += dy
	return t
}
