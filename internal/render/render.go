// Package render draws polygon scenes. View produces the editor picture with
// overlays under a viewport transform; Export flattens the polygon fills onto
// the base image at its native size and never reads the viewport.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/example/polyanno/internal/geom"
	"github.com/example/polyanno/internal/polygon"
	"github.com/example/polyanno/internal/theme"
	"github.com/example/polyanno/internal/viewport"
)

const (
	DefaultPointRadius       = 5
	DefaultOutlineWidth      = 2
	DefaultUnselectedOpacity = 0.5
)

// Scene is an immutable description of what to draw. Polygons carry their
// drag offsets; Open is the polygon being drawn, if any.
type Scene struct {
	Base     image.Image
	Polygons []polygon.Polygon
	Open     *polygon.Polygon

	// Cursor is the last pointer position in content space. The draft line
	// of the open polygon runs to it when HasCursor is set.
	Cursor    geom.Point
	HasCursor bool

	SelectedPolygon string
	SelectedPoint   int
}

// Options controls View.
type Options struct {
	Transform viewport.Transform
	Theme     *theme.Theme
	// HideOverlay suppresses outlines, control points and the draft line.
	HideOverlay       bool
	UnselectedOpacity float64
	PointRadius       int
	OutlineWidth      int
}

func (o Options) withDefaults() Options {
	if o.Theme == nil {
		o.Theme = theme.Default()
	}
	if o.Transform.Scale == 0 {
		o.Transform = viewport.Identity()
	}
	if o.UnselectedOpacity <= 0 || o.UnselectedOpacity > 1 {
		o.UnselectedOpacity = DefaultUnselectedOpacity
	}
	if o.PointRadius <= 0 {
		o.PointRadius = DefaultPointRadius
	}
	if o.OutlineWidth <= 0 {
		o.OutlineWidth = DefaultOutlineWidth
	}
	return o
}

// View draws the editor picture of sc into dst.
func View(dst *image.RGBA, sc Scene, opts Options) {
	opts = opts.withDefaults()
	t := opts.Transform
	drawCheckerboard(dst, dst.Bounds(), 8, opts.Theme.CheckerLight, opts.Theme.CheckerDark)

	if sc.Base != nil {
		b := sc.Base.Bounds()
		x0, y0 := t.ContentToScreen(geom.Pt(0, 0))
		x1, y1 := t.ContentToScreen(geom.Pt(float64(b.Dx()), float64(b.Dy())))
		r := image.Rect(int(x0), int(y0), int(x1), int(y1))
		xdraw.NearestNeighbor.Scale(dst, r, sc.Base, b, draw.Over, nil)
	}

	z := vector.NewRasterizer(dst.Bounds().Dx(), dst.Bounds().Dy())
	for _, p := range sc.Polygons {
		col := p.Fill
		if p.ID != sc.SelectedPolygon {
			col = fade(col, opts.UnselectedOpacity)
		}
		fillPolygon(z, dst, t, p.Effective(), col)
	}

	if opts.HideOverlay {
		return
	}

	for _, p := range sc.Polygons {
		pts := screenPoints(t, p.Effective())
		selected := p.ID == sc.SelectedPolygon
		outline := opts.Theme.Outline
		if selected {
			outline = opts.Theme.OutlineSelected
		}
		drawPolyline(dst, pts, true, outline, opts.OutlineWidth)
		for i, pt := range pts {
			fill := opts.Theme.Point
			if selected && i == sc.SelectedPoint {
				fill = opts.Theme.PointSelected
			}
			drawMarker(dst, pt, opts.PointRadius, fill, opts.Theme.PointBorder)
		}
	}

	if sc.Open != nil && len(sc.Open.Points) > 0 {
		pts := screenPoints(t, sc.Open.Points)
		if sc.HasCursor {
			x, y := t.ContentToScreen(sc.Cursor)
			pts = append(pts, image.Pt(int(x), int(y)))
		}
		drawPolyline(dst, pts, false, opts.Theme.Draft, opts.OutlineWidth)
		for _, pt := range screenPoints(t, sc.Open.Points) {
			drawMarker(dst, pt, opts.PointRadius, opts.Theme.Draft, opts.Theme.PointBorder)
		}
	}
}

// Export flattens the closed polygons of sc onto its base image. The result
// has the base image's native size with its origin at (0, 0). The open polygon
// and overlays are never drawn. It returns nil when sc has no base image.
func Export(sc Scene) *image.RGBA {
	if sc.Base == nil {
		return nil
	}
	b := sc.Base.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), sc.Base, b.Min, draw.Src)
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	t := viewport.Identity()
	for _, p := range sc.Polygons {
		if !p.Closed {
			continue
		}
		fillPolygon(z, out, t, p.Effective(), p.Fill)
	}
	return out
}

// Blob is an encoded raster.
type Blob struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// Encode encodes img as PNG.
func Encode(img image.Image) (*Blob, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	b := img.Bounds()
	return &Blob{Data: buf.Bytes(), MIME: "image/png", Width: b.Dx(), Height: b.Dy()}, nil
}

func screenPoints(t viewport.Transform, pts []geom.Point) []image.Point {
	out := make([]image.Point, len(pts))
	for i, p := range pts {
		x, y := t.ContentToScreen(p)
		out[i] = image.Pt(int(x+0.5), int(y+0.5))
	}
	return out
}

// fade scales a premultiplied colour by opacity.
func fade(c color.RGBA, opacity float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * opacity),
		G: uint8(float64(c.G) * opacity),
		B: uint8(float64(c.B) * opacity),
		A: uint8(float64(c.A) * opacity),
	}
}

func fillPolygon(z *vector.Rasterizer, dst *image.RGBA, t viewport.Transform, pts []geom.Point, col color.RGBA) {
	if len(pts) < polygon.MinPoints {
		return
	}
	r := dst.Bounds()
	z.Reset(r.Dx(), r.Dy())
	z.DrawOp = draw.Over
	for i, p := range pts {
		x, y := t.ContentToScreen(p)
		x, y = x-float64(r.Min.X), y-float64(r.Min.Y)
		if i == 0 {
			z.MoveTo(float32(x), float32(y))
		} else {
			z.LineTo(float32(x), float32(y))
		}
	}
	z.ClosePath()
	z.Draw(dst, r, image.NewUniform(col), image.Point{})
}
