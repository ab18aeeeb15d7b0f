// Package geom holds the hit-testing geometry used by the polygon editor.
// All coordinates are in content space, the pixel grid of the base image.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a location in content space.
type Point = r2.Vec

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Edge identifies the polygon edge starting at vertex Index and its distance
// from a query point.
type Edge struct {
	Index    int
	Distance float64
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// IsInside reports whether p lies inside the ring described by pts using the
// even-odd rule. Rings with fewer than three points contain nothing.
func IsInside(p Point, pts []Point) bool {
	n := len(pts)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := pts[i], pts[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// DistanceToSegment returns the distance from p to the closed segment ab.
func DistanceToSegment(p, a, b Point) float64 {
	ab := r2.Sub(b, a)
	l2 := r2.Norm2(ab)
	if l2 == 0 {
		return Distance(p, a)
	}
	t := r2.Dot(r2.Sub(p, a), ab) / l2
	t = math.Max(0, math.Min(1, t))
	proj := r2.Add(a, r2.Scale(t, ab))
	return Distance(p, proj)
}

// ClosestEdge finds the edge of the ring pts nearest to p. The ring wraps from
// the last point back to the first. ok is false for fewer than three points.
func ClosestEdge(p Point, pts []Point) (e Edge, ok bool) {
	n := len(pts)
	if n < 3 {
		return Edge{}, false
	}
	e = Edge{Index: -1, Distance: math.Inf(1)}
	for i := 0; i < n; i++ {
		d := DistanceToSegment(p, pts[i], pts[(i+1)%n])
		if d < e.Distance {
			e = Edge{Index: i, Distance: d}
		}
	}
	return e, true
}

// IsNearStart reports whether p is strictly closer than threshold to start.
func IsNearStart(p, start Point, threshold float64) bool {
	return Distance(p, start) < threshold
}

// Translate returns a copy of pts moved by d.
func Translate(pts []Point, d Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = r2.Add(p, d)
	}
	return out
}

// Bounds returns the corners of the axis-aligned bounding box of pts.
func Bounds(pts []Point) (min, max Point) {
	if len(pts) == 0 {
		return Point{}, Point{}
	}
	min, max = pts[0], pts[0]
	for _, p := range pts[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}
