package polygon

import (
	"errors"
	"fmt"
	"image/color"
	"testing"

	"github.com/example/polyanno/internal/geom"
)

var red = color.RGBA{R: 255, A: 255}

func seqIDs() Option {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("p%d", n)
	})
}

func drawClosed(t *testing.T, s *Store, pts ...geom.Point) string {
	t.Helper()
	if _, err := s.StartPolygon(pts[0], red); err != nil {
		t.Fatalf("start: %v", err)
	}
	for _, p := range pts[1:] {
		if err := s.AppendPoint(p); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	id, err := s.ClosePolygonAt(pts[0], 1)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	return id
}

func checkInvariant(t *testing.T, s *Store) {
	t.Helper()
	for _, p := range s.Polygons() {
		if p.Closed && len(p.Points) < MinPoints {
			t.Fatalf("closed polygon %s has %d points", p.ID, len(p.Points))
		}
	}
}

func TestDrawAndClose(t *testing.T) {
	s := NewStore(seqIDs())
	id := drawClosed(t, s, geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10), geom.Pt(0, 10))
	if s.Drawing() {
		t.Fatal("open polygon should be gone after close")
	}
	p, ok := s.Get(id)
	if !ok || !p.Closed || len(p.Points) != 4 || p.Fill != red {
		t.Fatalf("unexpected polygon %+v", p)
	}
	checkInvariant(t, s)
}

func TestCloseRequiresThreePointsAndProximity(t *testing.T) {
	s := NewStore(seqIDs())
	if _, err := s.StartPolygon(geom.Pt(0, 0), red); err != nil {
		t.Fatal(err)
	}
	_ = s.AppendPoint(geom.Pt(10, 0))
	if _, err := s.ClosePolygonAt(geom.Pt(0, 0), 5); !errors.Is(err, ErrTooFewPoints) {
		t.Fatalf("expected ErrTooFewPoints, got %v", err)
	}
	_ = s.AppendPoint(geom.Pt(10, 10))
	if _, err := s.ClosePolygonAt(geom.Pt(8, 8), 5); !errors.Is(err, ErrNotNearStart) {
		t.Fatalf("expected ErrNotNearStart, got %v", err)
	}
	if s.Len() != 0 || !s.Drawing() {
		t.Fatal("rejected close must not change the store")
	}
	if _, err := s.ClosePolygonAt(geom.Pt(2, 1), 5); err != nil {
		t.Fatalf("close: %v", err)
	}
	if s.Len() != 1 {
		t.Fatal("expected one committed polygon")
	}
}

func TestStartInsideExistingRejected(t *testing.T) {
	s := NewStore(seqIDs())
	drawClosed(t, s, geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10), geom.Pt(0, 10))
	if _, err := s.StartPolygon(geom.Pt(5, 5), red); !errors.Is(err, ErrInsidePolygon) {
		t.Fatalf("expected ErrInsidePolygon, got %v", err)
	}
	if s.Drawing() {
		t.Fatal("no open polygon expected")
	}
	if _, err := s.StartPolygon(geom.Pt(15, 5), red); err != nil {
		t.Fatalf("start outside: %v", err)
	}
	if _, err := s.StartPolygon(geom.Pt(20, 5), red); !errors.Is(err, ErrAlreadyDrawing) {
		t.Fatalf("expected ErrAlreadyDrawing, got %v", err)
	}
}

func TestInsertPointOnEdge(t *testing.T) {
	s := NewStore(seqIDs())
	id := drawClosed(t, s, geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(5, 10))
	gotID, edge, ok := s.NearestEdge(geom.Pt(5, 0), 5)
	if !ok || gotID != id || edge.Index != 0 {
		t.Fatalf("NearestEdge = %q %+v %v", gotID, edge, ok)
	}
	at, err := s.InsertPointOnEdge(id, edge.Index, geom.Pt(5, 0))
	if err != nil {
		t.Fatal(err)
	}
	p, _ := s.Get(id)
	want := []geom.Point{geom.Pt(0, 0), geom.Pt(5, 0), geom.Pt(10, 0), geom.Pt(5, 10)}
	if at != 1 || len(p.Points) != 4 {
		t.Fatalf("inserted at %d, points %v", at, p.Points)
	}
	for i := range want {
		if p.Points[i] != want[i] {
			t.Fatalf("point %d = %v, want %v", i, p.Points[i], want[i])
		}
	}
	if _, _, ok := s.NearestEdge(geom.Pt(50, 50), 5); ok {
		t.Fatal("far click should find no edge")
	}
}

func TestDeletePointCollapsesTriangle(t *testing.T) {
	s := NewStore(seqIDs())
	sq := drawClosed(t, s, geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10), geom.Pt(0, 10))
	tri := drawClosed(t, s, geom.Pt(20, 0), geom.Pt(30, 0), geom.Pt(25, 10))

	deleted, err := s.DeletePoint(sq, 1)
	if err != nil || deleted {
		t.Fatalf("square point delete: deleted=%v err=%v", deleted, err)
	}
	if p, _ := s.Get(sq); len(p.Points) != 3 {
		t.Fatalf("square should have 3 points, has %d", len(p.Points))
	}

	deleted, err = s.DeletePoint(tri, 2)
	if err != nil || !deleted {
		t.Fatalf("triangle point delete: deleted=%v err=%v", deleted, err)
	}
	if _, ok := s.Get(tri); ok {
		t.Fatal("triangle should have been removed")
	}
	checkInvariant(t, s)

	if _, err := s.DeletePoint(sq, 7); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if _, err := s.DeletePoint("nope", 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMovePolygonOffset(t *testing.T) {
	s := NewStore(seqIDs())
	id := drawClosed(t, s, geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10), geom.Pt(0, 10))

	for _, d := range []geom.Point{geom.Pt(1, 1), geom.Pt(3, 2), geom.Pt(20, 5)} {
		if err := s.MovePolygon(id, d); err != nil {
			t.Fatal(err)
		}
	}
	if !hit(s, geom.Pt(25, 10)) || hit(s, geom.Pt(5, 5)) {
		t.Fatal("hit testing should follow the drag offset")
	}
	snap := s.Snapshot()
	if snap[0].Offset != (geom.Point{}) || snap[0].Points[0] != geom.Pt(20, 5) {
		t.Fatalf("snapshot should bake the offset: %+v", snap[0])
	}

	moved, err := s.CommitOffset(id)
	if err != nil || !moved {
		t.Fatalf("commit: moved=%v err=%v", moved, err)
	}
	p, _ := s.Get(id)
	if p.Offset != (geom.Point{}) || p.Points[2] != geom.Pt(30, 15) {
		t.Fatalf("unexpected polygon after commit %+v", p)
	}
	if moved, _ := s.CommitOffset(id); moved {
		t.Fatal("second commit should be a no-op")
	}
}

func hit(s *Store, pt geom.Point) bool {
	_, ok := s.PolygonAt(pt)
	return ok
}

func TestPointAtPrefersTopmost(t *testing.T) {
	s := NewStore(seqIDs())
	drawClosed(t, s, geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10))
	top := drawClosed(t, s, geom.Pt(10, 10), geom.Pt(20, 10), geom.Pt(20, 20))
	id, idx, ok := s.PointAt(geom.Pt(10.5, 10.5), 2)
	if !ok || id != top || idx != 0 {
		t.Fatalf("PointAt = %q %d %v", id, idx, ok)
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	s := NewStore(seqIDs())
	id := drawClosed(t, s, geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10))
	snap := s.Snapshot()
	if err := s.MovePoint(id, 0, geom.Pt(-5, -5)); err != nil {
		t.Fatal(err)
	}
	if snap[0].Points[0] != geom.Pt(0, 0) {
		t.Fatal("snapshot shares memory with the store")
	}
	s.Restore(snap)
	if p, _ := s.Get(id); p.Points[0] != geom.Pt(0, 0) {
		t.Fatalf("restore did not bring back the point: %v", p.Points[0])
	}
	snap[0].Points[1] = geom.Pt(99, 99)
	if p, _ := s.Get(id); p.Points[1] != geom.Pt(10, 0) {
		t.Fatal("restored list shares memory with the snapshot")
	}
}

func TestRemoveLastOpenPoint(t *testing.T) {
	s := NewStore(seqIDs())
	_, _ = s.StartPolygon(geom.Pt(0, 0), red)
	_ = s.AppendPoint(geom.Pt(5, 5))
	if err := s.RemoveLastOpenPoint(); err != nil {
		t.Fatal(err)
	}
	if p, ok := s.Open(); !ok || len(p.Points) != 1 {
		t.Fatalf("expected one open point, got %+v", p)
	}
	_ = s.RemoveLastOpenPoint()
	if s.Drawing() {
		t.Fatal("empty open polygon should be abandoned")
	}
	if err := s.RemoveLastOpenPoint(); !errors.Is(err, ErrNoOpenPolygon) {
		t.Fatalf("expected ErrNoOpenPolygon, got %v", err)
	}
}

func TestClearAllAndDelete(t *testing.T) {
	s := NewStore(seqIDs())
	a := drawClosed(t, s, geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10))
	drawClosed(t, s, geom.Pt(20, 0), geom.Pt(30, 0), geom.Pt(30, 10))
	if err := s.DeletePolygon(a); err != nil {
		t.Fatal(err)
	}
	if err := s.DeletePolygon(a); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !s.ClearAll() || s.Len() != 0 {
		t.Fatal("ClearAll should empty the list")
	}
	if s.ClearAll() {
		t.Fatal("ClearAll on an empty store reports nothing removed")
	}
}
