// Package polygon keeps the committed polygons of an edit session and the
// single open polygon being drawn.
package polygon

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/example/polyanno/internal/geom"
)

// MinPoints is the smallest number of points a closed polygon may have.
const MinPoints = 3

var (
	ErrAlreadyDrawing  = errors.New("an open polygon already exists")
	ErrNoOpenPolygon   = errors.New("no open polygon")
	ErrInsidePolygon   = errors.New("point lies inside an existing polygon")
	ErrTooFewPoints    = errors.New("polygon needs at least 3 points")
	ErrNotNearStart    = errors.New("point is not near the start point")
	ErrNotFound        = errors.New("polygon not found")
	ErrIndexOutOfRange = errors.New("point index out of range")
)

// Polygon is a filled region over the base image.
type Polygon struct {
	ID     string
	Points []geom.Point
	Fill   color.RGBA
	Closed bool
	// Offset is the displacement of an in-progress polygon drag. It is zero
	// whenever no drag is active.
	Offset geom.Point
}

// Effective returns the points with the drag offset applied.
func (p Polygon) Effective() []geom.Point {
	if p.Offset == (geom.Point{}) {
		out := make([]geom.Point, len(p.Points))
		copy(out, p.Points)
		return out
	}
	return geom.Translate(p.Points, p.Offset)
}

// Contains reports whether pt is inside the polygon as currently displayed.
// Open polygons contain nothing.
func (p Polygon) Contains(pt geom.Point) bool {
	if !p.Closed || len(p.Points) < MinPoints {
		return false
	}
	return geom.IsInside(r2.Sub(pt, p.Offset), p.Points)
}

// Clone returns a deep copy of p.
func (p Polygon) Clone() Polygon {
	var out Polygon
	if err := copier.CopyWithOption(&out, &p, copier.Option{DeepCopy: true}); err != nil {
		out = p
		out.Points = append([]geom.Point(nil), p.Points...)
	}
	return out
}

// CloneList returns a deep copy of list. A nil or empty list yields nil.
func CloneList(list []Polygon) []Polygon {
	if len(list) == 0 {
		return nil
	}
	var out []Polygon
	if err := copier.CopyWithOption(&out, &list, copier.Option{DeepCopy: true}); err != nil || len(out) != len(list) {
		out = make([]Polygon, len(list))
		for i, p := range list {
			out[i] = p
			out[i].Points = append([]geom.Point(nil), p.Points...)
		}
	}
	return out
}

// Store holds the committed polygons and at most one open polygon. It is not
// safe for concurrent use.
type Store struct {
	polygons []Polygon
	open     *Polygon
	newID    func() string
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the uuid based id generator.
func WithIDGenerator(fn func() string) Option { return func(s *Store) { s.newID = fn } }

// NewStore creates an empty Store.
func NewStore(opts ...Option) *Store {
	s := &Store{newID: uuid.NewString}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Polygons returns a deep copy of the committed polygons in paint order.
func (s *Store) Polygons() []Polygon { return CloneList(s.polygons) }

// Len returns the number of committed polygons.
func (s *Store) Len() int { return len(s.polygons) }

// Get returns a copy of the committed polygon with the given id.
func (s *Store) Get(id string) (Polygon, bool) {
	i := s.index(id)
	if i < 0 {
		return Polygon{}, false
	}
	return s.polygons[i].Clone(), true
}

// Open returns a copy of the open polygon, if any.
func (s *Store) Open() (Polygon, bool) {
	if s.open == nil {
		return Polygon{}, false
	}
	return s.open.Clone(), true
}

// Drawing reports whether an open polygon exists.
func (s *Store) Drawing() bool { return s.open != nil }

func (s *Store) index(id string) int {
	for i := range s.polygons {
		if s.polygons[i].ID == id {
			return i
		}
	}
	return -1
}

// PolygonAt returns the id of the topmost closed polygon containing pt.
func (s *Store) PolygonAt(pt geom.Point) (string, bool) {
	for i := len(s.polygons) - 1; i >= 0; i-- {
		if s.polygons[i].Contains(pt) {
			return s.polygons[i].ID, true
		}
	}
	return "", false
}

// PointAt returns the topmost control point within radius of pt.
func (s *Store) PointAt(pt geom.Point, radius float64) (id string, index int, ok bool) {
	for i := len(s.polygons) - 1; i >= 0; i-- {
		p := s.polygons[i]
		for j, v := range p.Points {
			if geom.Distance(r2.Add(v, p.Offset), pt) <= radius {
				return p.ID, j, true
			}
		}
	}
	return "", -1, false
}

// NearestEdge returns the closed polygon edge closest to pt provided it lies
// within maxDistance. The topmost polygon wins ties.
func (s *Store) NearestEdge(pt geom.Point, maxDistance float64) (id string, edge geom.Edge, ok bool) {
	best := geom.Edge{Index: -1}
	for i := len(s.polygons) - 1; i >= 0; i-- {
		p := s.polygons[i]
		if !p.Closed {
			continue
		}
		e, found := geom.ClosestEdge(pt, p.Effective())
		if !found || e.Distance > maxDistance {
			continue
		}
		if !ok || e.Distance < best.Distance {
			id, best, ok = p.ID, e, true
		}
	}
	return id, best, ok
}

// StartPolygon begins a new open polygon at pt with the given fill colour.
func (s *Store) StartPolygon(pt geom.Point, fill color.RGBA) (string, error) {
	if s.open != nil {
		return "", ErrAlreadyDrawing
	}
	if id, inside := s.PolygonAt(pt); inside {
		return "", fmt.Errorf("start at %v in %s: %w", pt, id, ErrInsidePolygon)
	}
	s.open = &Polygon{ID: s.newID(), Points: []geom.Point{pt}, Fill: fill}
	return s.open.ID, nil
}

// AppendPoint adds pt to the open polygon.
func (s *Store) AppendPoint(pt geom.Point) error {
	if s.open == nil {
		return ErrNoOpenPolygon
	}
	s.open.Points = append(s.open.Points, pt)
	return nil
}

// RemoveLastOpenPoint drops the most recent point of the open polygon. The
// open polygon is abandoned once it has no points left.
func (s *Store) RemoveLastOpenPoint() error {
	if s.open == nil {
		return ErrNoOpenPolygon
	}
	s.open.Points = s.open.Points[:len(s.open.Points)-1]
	if len(s.open.Points) == 0 {
		s.open = nil
	}
	return nil
}

// AbandonOpen discards the open polygon. It reports whether one existed.
func (s *Store) AbandonOpen() bool {
	had := s.open != nil
	s.open = nil
	return had
}

// ClosePolygonAt closes the open polygon when click lies within threshold of
// its first point.
func (s *Store) ClosePolygonAt(click geom.Point, threshold float64) (string, error) {
	if s.open == nil {
		return "", ErrNoOpenPolygon
	}
	if len(s.open.Points) < MinPoints {
		return "", ErrTooFewPoints
	}
	if !geom.IsNearStart(click, s.open.Points[0], threshold) {
		return "", ErrNotNearStart
	}
	return s.ClosePolygon()
}

// ClosePolygon commits the open polygon as a closed polygon.
func (s *Store) ClosePolygon() (string, error) {
	if s.open == nil {
		return "", ErrNoOpenPolygon
	}
	if len(s.open.Points) < MinPoints {
		return "", ErrTooFewPoints
	}
	p := *s.open
	p.Closed = true
	s.polygons = append(s.polygons, p)
	s.open = nil
	return p.ID, nil
}

// InsertPointOnEdge inserts pt after vertex edgeIndex of the polygon.
func (s *Store) InsertPointOnEdge(id string, edgeIndex int, pt geom.Point) (int, error) {
	i := s.index(id)
	if i < 0 {
		return -1, fmt.Errorf("insert into %s: %w", id, ErrNotFound)
	}
	p := &s.polygons[i]
	if edgeIndex < 0 || edgeIndex >= len(p.Points) {
		return -1, fmt.Errorf("insert after %d: %w", edgeIndex, ErrIndexOutOfRange)
	}
	at := edgeIndex + 1
	pts := make([]geom.Point, 0, len(p.Points)+1)
	pts = append(pts, p.Points[:at]...)
	pts = append(pts, r2.Sub(pt, p.Offset))
	pts = append(pts, p.Points[at:]...)
	p.Points = pts
	return at, nil
}

// MovePoint sets the position of a single point.
func (s *Store) MovePoint(id string, index int, pos geom.Point) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("move point of %s: %w", id, ErrNotFound)
	}
	p := &s.polygons[i]
	if index < 0 || index >= len(p.Points) {
		return fmt.Errorf("move point %d: %w", index, ErrIndexOutOfRange)
	}
	p.Points[index] = pos
	return nil
}

// DeletePoint removes a point. When fewer than MinPoints would remain the whole
// polygon is removed instead and polygonDeleted is true.
func (s *Store) DeletePoint(id string, index int) (polygonDeleted bool, err error) {
	i := s.index(id)
	if i < 0 {
		return false, fmt.Errorf("delete point of %s: %w", id, ErrNotFound)
	}
	p := &s.polygons[i]
	if index < 0 || index >= len(p.Points) {
		return false, fmt.Errorf("delete point %d: %w", index, ErrIndexOutOfRange)
	}
	if len(p.Points)-1 < MinPoints {
		s.polygons = append(s.polygons[:i], s.polygons[i+1:]...)
		return true, nil
	}
	pts := make([]geom.Point, 0, len(p.Points)-1)
	pts = append(pts, p.Points[:index]...)
	pts = append(pts, p.Points[index+1:]...)
	p.Points = pts
	return false, nil
}

// MovePolygon sets the drag offset of a polygon. delta is the total
// displacement since the drag started, so repeated calls do not accumulate
// rounding drift.
func (s *Store) MovePolygon(id string, delta geom.Point) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("move %s: %w", id, ErrNotFound)
	}
	s.polygons[i].Offset = delta
	return nil
}

// CommitOffset bakes the drag offset into the points and resets it to zero.
// It reports whether the polygon actually moved.
func (s *Store) CommitOffset(id string) (bool, error) {
	i := s.index(id)
	if i < 0 {
		return false, fmt.Errorf("commit offset of %s: %w", id, ErrNotFound)
	}
	p := &s.polygons[i]
	if p.Offset == (geom.Point{}) {
		return false, nil
	}
	p.Points = geom.Translate(p.Points, p.Offset)
	p.Offset = geom.Point{}
	return true, nil
}

// SetFill recolours a polygon.
func (s *Store) SetFill(id string, fill color.RGBA) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("fill %s: %w", id, ErrNotFound)
	}
	s.polygons[i].Fill = fill
	return nil
}

// DeletePolygon removes a committed polygon.
func (s *Store) DeletePolygon(id string) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	s.polygons = append(s.polygons[:i], s.polygons[i+1:]...)
	return nil
}

// ClearAll empties the committed list. It reports whether anything was
// removed.
func (s *Store) ClearAll() bool {
	had := len(s.polygons) > 0
	s.polygons = nil
	return had
}

// Snapshot returns a deep copy of the committed list with drag offsets baked
// in, suitable for history.
func (s *Store) Snapshot() []Polygon {
	out := CloneList(s.polygons)
	for i := range out {
		if out[i].Offset != (geom.Point{}) {
			out[i].Points = geom.Translate(out[i].Points, out[i].Offset)
			out[i].Offset = geom.Point{}
		}
	}
	return out
}

// Restore replaces the committed list with a copy of snap.
func (s *Store) Restore(snap []Polygon) {
	s.polygons = CloneList(snap)
}
