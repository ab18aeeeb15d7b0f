package editor

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/example/polyanno/internal/geom"
	"github.com/example/polyanno/internal/viewport"
)

type pointerHandler func(x, y float64)

// listeners holds the session wide pointer move and release callbacks that
// drag sessions register on press.
type listeners struct {
	next int
	move map[int]pointerHandler
	up   map[int]pointerHandler
}

// listenerHandle removes one registration. Remove is idempotent.
type listenerHandle struct {
	l  *listeners
	id int
}

func (h *listenerHandle) Remove() {
	if h == nil || h.l == nil {
		return
	}
	delete(h.l.move, h.id)
	delete(h.l.up, h.id)
	h.l = nil
}

func (l *listeners) add(m map[int]pointerHandler, fn pointerHandler) *listenerHandle {
	l.next++
	m[l.next] = fn
	return &listenerHandle{l: l, id: l.next}
}

func (l *listeners) onMove(fn pointerHandler) *listenerHandle {
	if l.move == nil {
		l.move = make(map[int]pointerHandler)
	}
	return l.add(l.move, fn)
}

func (l *listeners) onUp(fn pointerHandler) *listenerHandle {
	if l.up == nil {
		l.up = make(map[int]pointerHandler)
	}
	return l.add(l.up, fn)
}

func (l *listeners) len() int { return len(l.move) + len(l.up) }

func (l *listeners) dispatch(m map[int]pointerHandler, x, y float64) {
	for _, fn := range m {
		fn(x, y)
	}
}

type dragKind int

const (
	dragPoint dragKind = iota
	dragPolygon
	dragPan
)

// dragSession tracks one press-move-release gesture. Positions are derived
// from the press position and the current pointer, never accumulated, so
// long drags do not drift.
type dragSession struct {
	kind      dragKind
	polygonID string
	index     int

	startX, startY float64
	start          geom.Point
	origin         geom.Point
	view           viewport.Transform
	moved          bool

	handles []*listenerHandle
}

func (s *Session) beginDrag(d *dragSession) {
	d.handles = append(d.handles,
		s.listeners.onMove(func(x, y float64) { s.dragMove(d, x, y) }),
		s.listeners.onUp(func(x, y float64) {
			s.dragMove(d, x, y)
			s.endDrag(true)
		}),
	)
	s.drag = d
}

func (s *Session) dragMove(d *dragSession, x, y float64) {
	if x != d.startX || y != d.startY {
		d.moved = true
	}
	cur := s.view.ScreenToContent(x, y)
	switch d.kind {
	case dragPan:
		s.view = d.view.Pan(x-d.startX, y-d.startY)
	case dragPoint:
		_ = s.store.MovePoint(d.polygonID, d.index, r2.Add(d.origin, r2.Sub(cur, d.start)))
	case dragPolygon:
		_ = s.store.MovePolygon(d.polygonID, r2.Sub(cur, d.start))
	}
}

// endDrag releases the active drag session. With commit the gesture's result
// is kept and recorded in history when something moved; without it the
// geometry and view return to their state at press.
func (s *Session) endDrag(commit bool) {
	d := s.drag
	if d == nil {
		return
	}
	s.drag = nil
	for _, h := range d.handles {
		h.Remove()
	}

	if !commit {
		switch d.kind {
		case dragPan:
			s.view = d.view
		case dragPoint:
			_ = s.store.MovePoint(d.polygonID, d.index, d.origin)
		case dragPolygon:
			_ = s.store.MovePolygon(d.polygonID, geom.Point{})
		}
		return
	}

	switch d.kind {
	case dragPoint:
		if p, ok := s.store.Get(d.polygonID); ok && d.index < len(p.Points) && p.Points[d.index] != d.origin {
			s.commit()
		}
	case dragPolygon:
		if moved, err := s.store.CommitOffset(d.polygonID); err == nil && moved {
			s.commit()
		}
	}
}
