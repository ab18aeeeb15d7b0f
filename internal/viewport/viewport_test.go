package viewport

import (
	"math"
	"testing"

	"github.com/example/polyanno/internal/geom"
)

func near(a, b geom.Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestFitToContainer(t *testing.T) {
	tr := FitToContainer(800, 600, 400, 200, 20)
	// (800-40)/400 = 1.9, (600-40)/200 = 2.8
	if tr.Scale != 1.9 {
		t.Fatalf("scale = %v, want 1.9", tr.Scale)
	}
	if tr.OffsetX != (800-400*1.9)/2 || tr.OffsetY != (600-200*1.9)/2 {
		t.Fatalf("content not centred: %+v", tr)
	}
}

func TestFitScaleZeroDimension(t *testing.T) {
	cases := [][4]float64{
		{0, 600, 100, 100},
		{800, 0, 100, 100},
		{800, 600, 0, 100},
		{800, 600, 100, 0},
	}
	for _, c := range cases {
		if got := FitScale(c[0], c[1], c[2], c[3], 10); got != 1 {
			t.Fatalf("FitScale(%v) = %v, want 1", c, got)
		}
	}
	if got := FitToContainer(0, 0, 10, 10, 0); got != Identity() {
		t.Fatalf("expected identity, got %+v", got)
	}
}

func TestScreenContentRoundTrip(t *testing.T) {
	tr := Transform{Scale: 2.5, OffsetX: 13, OffsetY: -7}
	p := tr.ScreenToContent(100, 40)
	x, y := tr.ContentToScreen(p)
	if math.Abs(x-100) > 1e-9 || math.Abs(y-40) > 1e-9 {
		t.Fatalf("round trip gave %v,%v", x, y)
	}
	if !near(p, geom.Pt((100-13)/2.5, (40+7)/2.5)) {
		t.Fatalf("unexpected content point %v", p)
	}
}

func TestZoomAtBounds(t *testing.T) {
	tr := Identity()
	for i := 0; i < 500; i++ {
		tr = tr.ZoomAt(50, 50, -1, false, DefaultZoomFactor)
	}
	if tr.Scale != MaxScale {
		t.Fatalf("scale = %v, want exactly %v", tr.Scale, MaxScale)
	}
	for i := 0; i < 1000; i++ {
		tr = tr.ZoomAt(50, 50, 1, false, DefaultZoomFactor)
	}
	if tr.Scale != MinScale {
		t.Fatalf("scale = %v, want exactly %v", tr.Scale, MinScale)
	}
}

func TestZoomAtKeepsAnchor(t *testing.T) {
	tr := Transform{Scale: 1.3, OffsetX: 20, OffsetY: 35}
	px, py := 217.0, 93.0
	before := tr.ScreenToContent(px, py)
	for _, step := range []struct {
		sign   int
		invert bool
	}{{-1, false}, {-1, false}, {1, true}, {1, false}, {-1, true}} {
		tr = tr.ZoomAt(px, py, step.sign, step.invert, DefaultZoomFactor)
		if after := tr.ScreenToContent(px, py); !near(before, after) {
			t.Fatalf("anchor drifted: %v -> %v", before, after)
		}
	}
}

func TestZoomAtDirection(t *testing.T) {
	tr := Identity()
	if in := tr.ZoomAt(0, 0, -1, false, 2); in.Scale != 2 {
		t.Fatalf("wheel up should zoom in, got %v", in.Scale)
	}
	if out := tr.ZoomAt(0, 0, -1, true, 2); out.Scale != 0.5 {
		t.Fatalf("modifier should invert, got %v", out.Scale)
	}
	if same := tr.ZoomAt(0, 0, 0, false, 2); same != tr {
		t.Fatalf("zero delta should be a no-op")
	}
}

func TestZoomAtCapKeepsAnchor(t *testing.T) {
	tr := Transform{Scale: MaxScale, OffsetX: -300, OffsetY: -120}
	before := tr.ScreenToContent(40, 60)
	tr = tr.ZoomAt(40, 60, -1, false, DefaultZoomFactor)
	if tr.Scale != MaxScale || !near(before, tr.ScreenToContent(40, 60)) {
		t.Fatalf("zoom past the cap moved the view: %+v", tr)
	}
}

func TestPan(t *testing.T) {
	tr := Identity().Pan(5, -3)
	if tr.OffsetX != 5 || tr.OffsetY != -3 || tr.Scale != 1 {
		t.Fatalf("unexpected pan %+v", tr)
	}
}
