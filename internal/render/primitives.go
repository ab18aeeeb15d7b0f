package render

import (
	"image"
	"image/color"
	"math"
)

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.RGBA) {
	rect = rect.Intersect(dst.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.SetRGBA(x, y, light)
			} else {
				dst.SetRGBA(x, y, dark)
			}
		}
	}
}

func setThickPixel(img *image.RGBA, x, y, thick int, col color.RGBA) {
	r := thick / 2
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			if image.Pt(x+dx, y+dy).In(img.Bounds()) {
				img.SetRGBA(x+dx, y+dy, col)
			}
		}
	}
}

// drawLine is Bresenham with a square brush of width thick.
func drawLine(img *image.RGBA, p0, p1 image.Point, col color.RGBA, thick int) {
	x0, y0, x1, y1 := p0.X, p0.Y, p1.X, p1.Y
	dx := int(math.Abs(float64(x1 - x0)))
	dy := int(math.Abs(float64(y1 - y0)))
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		setThickPixel(img, x0, y0, thick, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func drawPolyline(img *image.RGBA, pts []image.Point, closed bool, col color.RGBA, thick int) {
	for i := 1; i < len(pts); i++ {
		drawLine(img, pts[i-1], pts[i], col, thick)
	}
	if closed && len(pts) > 2 {
		drawLine(img, pts[len(pts)-1], pts[0], col, thick)
	}
}

func drawFilledCircle(img *image.RGBA, c image.Point, r int, col color.RGBA) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r && image.Pt(c.X+dx, c.Y+dy).In(img.Bounds()) {
				img.SetRGBA(c.X+dx, c.Y+dy, col)
			}
		}
	}
}

// drawMarker draws a control point: a filled disc with a one pixel ring.
func drawMarker(img *image.RGBA, c image.Point, r int, fill, border color.RGBA) {
	drawFilledCircle(img, c, r, border)
	drawFilledCircle(img, c, r-1, fill)
}
