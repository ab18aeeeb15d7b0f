// Package editor interprets pointer and keyboard input over a polygon store.
// A Session owns the viewport, the selection, the undo history and the active
// drag gesture of one editing session. It performs no I/O and is not safe for
// concurrent use; hosts call it from their event loop.
package editor

import (
	"image"
	"image/color"
	"log"
	"unicode"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/polyanno/internal/geom"
	"github.com/example/polyanno/internal/history"
	"github.com/example/polyanno/internal/polygon"
	"github.com/example/polyanno/internal/render"
	"github.com/example/polyanno/internal/theme"
	"github.com/example/polyanno/internal/viewport"
)

// State is the gesture state of a Session.
type State int

const (
	Idle State = iota
	Drawing
	PointSelected
	PolygonSelected
	DraggingPoint
	DraggingPolygon
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case PointSelected:
		return "point selected"
	case PolygonSelected:
		return "polygon selected"
	case DraggingPoint:
		return "dragging point"
	case DraggingPolygon:
		return "dragging polygon"
	}
	return "unknown"
}

// Selection names the selected polygon and, optionally, one of its points.
// PointIndex is -1 when no point is selected.
type Selection struct {
	PolygonID  string
	PointIndex int
}

var noSelection = Selection{PointIndex: -1}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool { return s.PolygonID == "" }

// Config holds the tunables of a Session. Distances are in content pixels.
type Config struct {
	CloseThreshold    float64
	InsertThreshold   float64
	HitRadius         float64
	ZoomFactor        float64
	Margin            float64
	UnselectedOpacity float64
	HistoryLimit      int
}

// DefaultConfig returns the standard tunables.
func DefaultConfig() Config {
	return Config{
		CloseThreshold:    10,
		InsertThreshold:   10,
		HitRadius:         6,
		ZoomFactor:        viewport.DefaultZoomFactor,
		Margin:            20,
		UnselectedOpacity: render.DefaultUnselectedOpacity,
	}
}

// DefaultFill is the fill given to new polygons when none is configured.
var DefaultFill = color.RGBA{R: 128, A: 128}

const (
	keyPanStep    = 10
	keyZoomFactor = 1.25
)

// Session is an EditorSession: the explicit state of one editing session.
type Session struct {
	cfg    Config
	store  *polygon.Store
	hist   *history.History[[]polygon.Polygon]
	view   viewport.Transform
	base   image.Image
	theme  *theme.Theme
	fill   color.RGBA
	onFill func(color.RGBA)

	containerW, containerH float64

	sel           Selection
	overlayHidden bool
	cursor        geom.Point
	hasCursor     bool

	drag      *dragSession
	listeners listeners

	storeOpts []polygon.Option
}

// Option configures a Session.
type Option func(*Session)

// WithConfig replaces the default tunables.
func WithConfig(c Config) Option { return func(s *Session) { s.cfg = c } }

// WithFill sets the fill colour of new polygons.
func WithFill(c color.RGBA) Option { return func(s *Session) { s.fill = c } }

// WithFillListener registers fn to be called whenever the default fill colour
// changes, so hosts can persist it.
func WithFillListener(fn func(color.RGBA)) Option { return func(s *Session) { s.onFill = fn } }

// WithTheme sets the overlay colours used by ViewOptions.
func WithTheme(t *theme.Theme) Option { return func(s *Session) { s.theme = t } }

// WithIDGenerator replaces the polygon id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Session) { s.storeOpts = append(s.storeOpts, polygon.WithIDGenerator(fn)) }
}

// New creates a Session with no base image.
func New(opts ...Option) *Session {
	s := &Session{
		cfg:   DefaultConfig(),
		fill:  DefaultFill,
		theme: theme.Default(),
		view:  viewport.Identity(),
		sel:   noSelection,
	}
	for _, o := range opts {
		o(s)
	}
	if s.cfg.ZoomFactor <= 1 {
		s.cfg.ZoomFactor = viewport.DefaultZoomFactor
	}
	s.store = polygon.NewStore(s.storeOpts...)
	s.hist = history.New(s.store.Snapshot(), polygon.CloneList, s.cfg.HistoryLimit)
	return s
}

// SetImage loads a new base image. Polygons, history and any gesture in
// progress are discarded and the view is refitted.
func (s *Session) SetImage(img image.Image) {
	s.endDrag(false)
	s.store.AbandonOpen()
	s.store.ClearAll()
	s.hist.Reset(s.store.Snapshot())
	s.sel = noSelection
	s.base = img
	s.Fit()
}

// Image returns the base image.
func (s *Session) Image() image.Image { return s.base }

// Resize records the container size and refits the view.
func (s *Session) Resize(w, h int) {
	s.containerW, s.containerH = float64(w), float64(h)
	s.Fit()
}

// Fit fits the base image inside the container.
func (s *Session) Fit() {
	w, h := s.contentSize()
	s.view = viewport.FitToContainer(s.containerW, s.containerH, w, h, s.cfg.Margin)
}

func (s *Session) contentSize() (float64, float64) {
	if s.base == nil {
		return 0, 0
	}
	b := s.base.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (s *Session) inBounds(p geom.Point) bool {
	w, h := s.contentSize()
	return p.X >= 0 && p.Y >= 0 && p.X <= w && p.Y <= h
}

// Transform returns the current viewport transform.
func (s *Session) Transform() viewport.Transform { return s.view }

// SetTransform replaces the viewport transform. The scale is clamped.
func (s *Session) SetTransform(t viewport.Transform) {
	t.Scale = viewport.ClampScale(t.Scale)
	s.view = t
}

// State returns the current gesture state.
func (s *Session) State() State {
	if d := s.drag; d != nil && d.moved {
		switch d.kind {
		case dragPoint:
			return DraggingPoint
		case dragPolygon:
			return DraggingPolygon
		}
	}
	switch {
	case s.store.Drawing():
		return Drawing
	case s.sel.Empty():
		return Idle
	case s.sel.PointIndex >= 0:
		return PointSelected
	}
	return PolygonSelected
}

// Selection returns the current selection.
func (s *Session) Selection() Selection { return s.sel }

// Polygons returns a copy of the committed polygons in paint order.
func (s *Session) Polygons() []polygon.Polygon { return s.store.Polygons() }

// Polygon returns a copy of the committed polygon with the given id.
func (s *Session) Polygon(id string) (polygon.Polygon, bool) { return s.store.Get(id) }

// OpenPolygon returns a copy of the polygon being drawn.
func (s *Session) OpenPolygon() (polygon.Polygon, bool) { return s.store.Open() }

// OverlayHidden reports whether overlays are currently suppressed.
func (s *Session) OverlayHidden() bool { return s.overlayHidden }

// ActiveListeners returns the number of pointer listeners registered by drag
// sessions. It is zero whenever no gesture is in progress.
func (s *Session) ActiveListeners() int { return s.listeners.len() }

func (s *Session) CanUndo() bool { return s.hist.CanUndo() }
func (s *Session) CanRedo() bool { return s.hist.CanRedo() }

// FillColor returns the fill given to new polygons.
func (s *Session) FillColor() color.RGBA { return s.fill }

// SetFillColor changes the fill given to new polygons and notifies the fill
// listener.
func (s *Session) SetFillColor(c color.RGBA) {
	if c == s.fill {
		return
	}
	s.fill = c
	if s.onFill != nil {
		s.onFill(c)
	}
}

// SetPolygonFill recolours a committed polygon.
func (s *Session) SetPolygonFill(id string, c color.RGBA) bool {
	p, ok := s.store.Get(id)
	if !ok || p.Fill == c {
		return false
	}
	if err := s.store.SetFill(id, c); err != nil {
		return false
	}
	s.commit()
	return true
}

func (s *Session) commit() { s.hist.Commit(s.store.Snapshot()) }

// Undo restores the previous snapshot. An open polygon and any drag in
// progress are abandoned first.
func (s *Session) Undo() bool {
	s.endDrag(false)
	s.store.AbandonOpen()
	snap, ok := s.hist.Undo()
	if !ok {
		return false
	}
	s.store.Restore(snap)
	s.resolveSelection()
	return true
}

// Redo re-applies the next snapshot.
func (s *Session) Redo() bool {
	s.endDrag(false)
	s.store.AbandonOpen()
	snap, ok := s.hist.Redo()
	if !ok {
		return false
	}
	s.store.Restore(snap)
	s.resolveSelection()
	return true
}

// resolveSelection drops the parts of the selection that no longer exist.
func (s *Session) resolveSelection() {
	p, ok := s.store.Get(s.sel.PolygonID)
	if !ok {
		s.sel = noSelection
		return
	}
	if s.sel.PointIndex >= len(p.Points) {
		s.sel.PointIndex = -1
	}
}

// ClearAll removes every polygon.
func (s *Session) ClearAll() {
	s.endDrag(false)
	s.store.AbandonOpen()
	s.sel = noSelection
	if s.store.ClearAll() {
		s.commit()
	}
}

// Cancel aborts the gesture in progress: an active drag is reverted, the open
// polygon is abandoned and the selection cleared.
func (s *Session) Cancel() {
	s.endDrag(false)
	s.store.AbandonOpen()
	s.sel = noSelection
}

// Abandon ends the session's gesture state when the host goes away. Committed
// polygons are kept.
func (s *Session) Abandon() {
	s.endDrag(false)
	s.store.AbandonOpen()
}

// ClosePolygon closes the open polygon regardless of where the pointer is.
func (s *Session) ClosePolygon() bool {
	if _, err := s.store.ClosePolygon(); err != nil {
		return false
	}
	s.sel = noSelection
	s.commit()
	return true
}

// DeleteSelection removes the selected point, or the selected polygon when no
// point is selected.
func (s *Session) DeleteSelection() bool {
	if s.sel.Empty() {
		return false
	}
	if s.sel.PointIndex >= 0 {
		return s.deletePoint(s.sel.PolygonID, s.sel.PointIndex)
	}
	return s.deletePolygon(s.sel.PolygonID)
}

func (s *Session) deletePoint(id string, idx int) bool {
	removed, err := s.store.DeletePoint(id, idx)
	if err != nil {
		return false
	}
	if s.sel.PolygonID == id {
		switch {
		case removed:
			s.sel = noSelection
		case s.sel.PointIndex == idx:
			s.sel.PointIndex = -1
		case s.sel.PointIndex > idx:
			s.sel.PointIndex--
		}
	}
	s.commit()
	return true
}

func (s *Session) deletePolygon(id string) bool {
	if err := s.store.DeletePolygon(id); err != nil {
		return false
	}
	if s.sel.PolygonID == id {
		s.sel = noSelection
	}
	s.commit()
	return true
}

// HandleMouse applies a pointer event given in screen coordinates.
func (s *Session) HandleMouse(e mouse.Event) {
	x, y := float64(e.X), float64(e.Y)
	s.cursor, s.hasCursor = s.view.ScreenToContent(x, y), true

	if e.Button.IsWheel() {
		if e.Direction == mouse.DirRelease {
			return
		}
		sign := 0
		switch e.Button {
		case mouse.ButtonWheelUp:
			sign = -1
		case mouse.ButtonWheelDown:
			sign = 1
		}
		s.view = s.view.ZoomAt(x, y, sign, e.Modifiers&(key.ModControl|key.ModMeta) != 0, s.cfg.ZoomFactor)
		return
	}

	switch e.Direction {
	case mouse.DirPress:
		s.press(x, y, e.Button, e.Modifiers)
	case mouse.DirRelease:
		s.listeners.dispatch(s.listeners.up, x, y)
	case mouse.DirNone:
		s.listeners.dispatch(s.listeners.move, x, y)
	}
}

func (s *Session) press(x, y float64, b mouse.Button, mods key.Modifiers) {
	// A press while a drag is still registered means its release was lost.
	s.endDrag(true)
	pt := s.view.ScreenToContent(x, y)

	switch b {
	case mouse.ButtonMiddle:
		s.beginDrag(&dragSession{kind: dragPan, startX: x, startY: y, start: pt, view: s.view})
	case mouse.ButtonRight:
		s.rightPress(pt)
	case mouse.ButtonLeft:
		s.leftPress(x, y, pt, mods&key.ModShift != 0)
	}
}

func (s *Session) leftPress(x, y float64, pt geom.Point, shift bool) {
	if s.store.Drawing() {
		if _, err := s.store.ClosePolygonAt(pt, s.cfg.CloseThreshold); err == nil {
			s.sel = noSelection
			s.commit()
			return
		}
		if s.inBounds(pt) {
			_ = s.store.AppendPoint(pt)
		}
		return
	}

	if shift {
		s.insertPoint(pt)
		return
	}

	if id, idx, ok := s.store.PointAt(pt, s.cfg.HitRadius); ok {
		p, _ := s.store.Get(id)
		s.sel = Selection{PolygonID: id, PointIndex: idx}
		s.beginDrag(&dragSession{
			kind: dragPoint, polygonID: id, index: idx,
			startX: x, startY: y, start: pt, origin: p.Points[idx], view: s.view,
		})
		return
	}

	if id, ok := s.store.PolygonAt(pt); ok {
		s.sel = Selection{PolygonID: id, PointIndex: -1}
		s.beginDrag(&dragSession{
			kind: dragPolygon, polygonID: id, index: -1,
			startX: x, startY: y, start: pt, view: s.view,
		})
		return
	}

	if !s.inBounds(pt) {
		return
	}
	if _, err := s.store.StartPolygon(pt, s.fill); err == nil {
		s.sel = noSelection
	}
}

func (s *Session) insertPoint(pt geom.Point) {
	id, edge, ok := s.store.NearestEdge(pt, s.cfg.InsertThreshold)
	if !ok {
		return
	}
	idx, err := s.store.InsertPointOnEdge(id, edge.Index, pt)
	if err != nil {
		return
	}
	s.sel = Selection{PolygonID: id, PointIndex: idx}
	s.commit()
}

func (s *Session) rightPress(pt geom.Point) {
	if s.store.Drawing() {
		return
	}
	if id, idx, ok := s.store.PointAt(pt, s.cfg.HitRadius); ok {
		s.deletePoint(id, idx)
		return
	}
	if id, ok := s.store.PolygonAt(pt); ok {
		s.deletePolygon(id)
	}
}

// HandleKey applies a keyboard event. It reports whether the event was used.
func (s *Session) HandleKey(e key.Event) bool {
	if e.Code == key.CodeTab {
		switch e.Direction {
		case key.DirPress:
			s.overlayHidden = true
		case key.DirRelease:
			s.overlayHidden = false
		}
		return true
	}
	if e.Direction == key.DirRelease {
		return false
	}

	ctrl := e.Modifiers&(key.ModControl|key.ModMeta) != 0
	shift := e.Modifiers&key.ModShift != 0
	r := unicode.ToLower(e.Rune)

	switch {
	case ctrl && (e.Code == key.CodeZ || r == 'z'):
		if shift {
			s.Redo()
		} else {
			s.Undo()
		}
		return true
	case ctrl && (e.Code == key.CodeY || r == 'y'):
		s.Redo()
		return true
	case ctrl:
		return false
	}

	switch e.Code {
	case key.CodeDeleteBackspace:
		if s.store.Drawing() {
			_ = s.store.RemoveLastOpenPoint()
			return true
		}
		s.DeleteSelection()
		return true
	case key.CodeDeleteForward:
		s.DeleteSelection()
		return true
	case key.CodeReturnEnter, key.CodeKeypadEnter:
		s.ClosePolygon()
		return true
	case key.CodeEscape:
		s.Cancel()
		return true
	case key.CodeLeftArrow:
		s.view = s.view.Pan(keyPanStep, 0)
		return true
	case key.CodeRightArrow:
		s.view = s.view.Pan(-keyPanStep, 0)
		return true
	case key.CodeUpArrow:
		s.view = s.view.Pan(0, keyPanStep)
		return true
	case key.CodeDownArrow:
		s.view = s.view.Pan(0, -keyPanStep)
		return true
	}

	switch r {
	case '+', '=':
		s.view = s.view.ZoomBy(s.containerW/2, s.containerH/2, keyZoomFactor)
		return true
	case '-', '_':
		s.view = s.view.ZoomBy(s.containerW/2, s.containerH/2, 1/keyZoomFactor)
		return true
	case 'f':
		s.Fit()
		return true
	}
	return false
}

// Scene returns a snapshot of everything View needs to draw the session. It
// shares no memory with the session.
func (s *Session) Scene() render.Scene {
	sc := render.Scene{
		Base:            s.base,
		Polygons:        s.store.Polygons(),
		Cursor:          s.cursor,
		HasCursor:       s.hasCursor,
		SelectedPolygon: s.sel.PolygonID,
		SelectedPoint:   s.sel.PointIndex,
	}
	if p, ok := s.store.Open(); ok {
		sc.Open = &p
	}
	return sc
}

// ViewOptions returns the render options matching the session's view.
func (s *Session) ViewOptions() render.Options {
	return render.Options{
		Transform:         s.view,
		Theme:             s.theme,
		HideOverlay:       s.overlayHidden,
		UnselectedOpacity: s.cfg.UnselectedOpacity,
	}
}

// Rasterize flattens the committed polygons onto the base image at its native
// size. It returns nil when no base image is loaded.
func (s *Session) Rasterize() *image.RGBA {
	return render.Export(render.Scene{Base: s.base, Polygons: s.store.Polygons()})
}

// ExportImage returns the flattened image encoded as PNG, or nil when no base
// image is loaded.
func (s *Session) ExportImage() *render.Blob {
	img := s.Rasterize()
	if img == nil {
		return nil
	}
	b, err := render.Encode(img)
	if err != nil {
		log.Printf("export: %v", err)
		return nil
	}
	return b
}
