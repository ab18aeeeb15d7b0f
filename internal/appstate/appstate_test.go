package appstate

import (
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"golang.org/x/mobile/event/key"

	"github.com/example/polyanno/internal/editor"
	"github.com/example/polyanno/internal/geom"
	"github.com/example/polyanno/internal/polygon"
	"github.com/example/polyanno/internal/render"
	"github.com/example/polyanno/internal/theme"
	"github.com/example/polyanno/internal/viewport"
)

func TestActionFor(t *testing.T) {
	tests := []struct {
		name string
		e    key.Event
		want action
	}{
		{"save", key.Event{Rune: 's', Code: key.CodeS, Modifiers: key.ModControl, Direction: key.DirPress}, actionSave},
		{"copy", key.Event{Rune: 'c', Code: key.CodeC, Modifiers: key.ModControl, Direction: key.DirPress}, actionCopy},
		{"copy list", key.Event{Rune: 'C', Code: key.CodeC, Modifiers: key.ModControl | key.ModShift, Direction: key.DirPress}, actionCopyList},
		{"quit", key.Event{Rune: 'q', Code: key.CodeQ, Direction: key.DirPress}, actionQuit},
		{"quit released", key.Event{Rune: 'q', Code: key.CodeQ, Direction: key.DirRelease}, actionNone},
		{"undo passes through", key.Event{Rune: 'z', Code: key.CodeZ, Modifiers: key.ModControl, Direction: key.DirPress}, actionNone},
		{"plain c passes through", key.Event{Rune: 'c', Code: key.CodeC, Direction: key.DirPress}, actionNone},
	}
	for _, tt := range tests {
		if got := actionFor(tt.e); got != tt.want {
			t.Errorf("%s: got %v want %v", tt.name, got, tt.want)
		}
	}
}

func TestDescribePolygons(t *testing.T) {
	list := []polygon.Polygon{
		{
			ID:     "a",
			Points: []geom.Point{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(5, 7.5)},
			Fill:   editor.DefaultFill,
			Closed: true,
			Offset: geom.Pt(1, 1),
		},
	}
	got := DescribePolygons(list)
	want := "a fill=#FF000080 1,1 11,1 6,8.5\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if DescribePolygons(nil) != "" {
		t.Fatal("expected empty description")
	}
}

func TestStatusLine(t *testing.T) {
	now := time.Now()
	st := paintState{state: editor.Drawing, polygons: 1, zoom: 1.5, fill: editor.DefaultFill}
	line := st.statusLine(now)
	for _, want := range []string{"drawing", "1 polygon ", "zoom 150%", "#FF000080", shortcutHint} {
		if !strings.Contains(line, want) {
			t.Errorf("status %q missing %q", line, want)
		}
	}
	st.message = "saved /tmp/out.png"
	st.messageUntil = now.Add(time.Second)
	if got := st.statusLine(now); got != st.message {
		t.Fatalf("status = %q", got)
	}
	if got := st.statusLine(now.Add(2 * time.Second)); got == st.message {
		t.Fatal("expired message still shown")
	}
}

func TestRenderFrameLayout(t *testing.T) {
	th := theme.Default()
	base := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for i := range base.Pix {
		base.Pix[i] = 0xFF
	}
	st := paintState{
		width:  40,
		height: 40,
		scene:  render.Scene{Base: base},
		opts:   render.Options{Transform: viewport.Identity(), Theme: th},
		theme:  th,
		zoom:   1,
	}
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	renderFrame(dst, st, time.Now())
	if got := dst.RGBAAt(5, 5); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("base pixel = %v", got)
	}
	if got := dst.RGBAAt(39, 39); got != th.StatusBackground {
		t.Fatalf("status pixel = %v want %v", got, th.StatusBackground)
	}
	if got := dst.RGBAAt(20, 40-statusHeight); got != th.Foreground {
		t.Fatalf("status border = %v", got)
	}
}

func TestInitialSize(t *testing.T) {
	if w, h := initialSize(nil); w != 800 || h != 600 {
		t.Fatalf("default size = %dx%d", w, h)
	}
	if w, h := initialSize(image.NewRGBA(image.Rect(0, 0, 500, 400))); w != 500 || h != 400+statusHeight {
		t.Fatalf("size = %dx%d", w, h)
	}
	if w, h := initialSize(image.NewRGBA(image.Rect(0, 0, 5000, 50))); w != maxWindowWidth || h != minWindowHeight {
		t.Fatalf("clamped size = %dx%d", w, h)
	}
	if canvasHeight(10) != 0 || canvasHeight(100) != 100-statusHeight {
		t.Fatal("canvasHeight")
	}
}

func TestSaveWithoutOutput(t *testing.T) {
	s := editor.New()
	a := New(WithSession(s))
	var msgs []string
	a.save(func(m string) { msgs = append(msgs, m) })
	a.copyList(func(m string) { msgs = append(msgs, m) })
	if len(msgs) != 2 || msgs[0] != "no output file configured" || msgs[1] != "no polygons to copy" {
		t.Fatalf("messages = %q", msgs)
	}
}

func TestSaveWritesFile(t *testing.T) {
	s := editor.New()
	s.SetImage(image.NewRGBA(image.Rect(0, 0, 16, 16)))
	out := t.TempDir() + "/out.png"
	a := New(WithSession(s), WithOutput(out, ""))
	done := make(chan string, 1)
	a.save(func(m string) { done <- m })
	a.jobs.Wait()
	if msg := <-done; !strings.HasPrefix(msg, "saved ") {
		t.Fatalf("message = %q", msg)
	}
}
