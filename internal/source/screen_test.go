package source

import (
	"image"
	"image/color"
	"testing"
)

func testMonitors() []MonitorInfo {
	return []MonitorInfo{
		{Index: 0, Name: "HDMI-1", Rect: image.Rect(0, 0, 1920, 1080)},
		{Index: 1, Name: "eDP-1", Rect: image.Rect(1920, 0, 3200, 800), Primary: true},
	}
}

func TestFindMonitor(t *testing.T) {
	tests := []struct {
		selector string
		want     string
		wantErr  bool
	}{
		{"", "HDMI-1", false},
		{"primary", "eDP-1", false},
		{"1", "eDP-1", false},
		{"#0", "HDMI-1", false},
		{"edp", "eDP-1", false},
		{"5", "", true},
		{"dvi", "", true},
	}
	for _, tt := range tests {
		got, err := FindMonitor(testMonitors(), tt.selector)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q: expected error, got %v", tt.selector, got.Name)
			}
			continue
		}
		if err != nil || got.Name != tt.want {
			t.Errorf("%q: got %q, %v; want %q", tt.selector, got.Name, err, tt.want)
		}
	}
	if _, err := FindMonitor(nil, ""); err != errNoMonitors {
		t.Fatalf("empty list err = %v", err)
	}
}

func TestCropToRect(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 20, 10))
	src.Set(12, 3, color.RGBA{B: 255, A: 255})
	out, err := cropToRect(src, image.Rect(10, 0, 30, 10))
	if err != nil {
		t.Fatalf("cropToRect: %v", err)
	}
	if out.Bounds() != image.Rect(0, 0, 10, 10) {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	if got := out.RGBAAt(2, 3); got.B != 255 {
		t.Fatalf("pixel = %v", got)
	}
	if _, err := cropToRect(src, image.Rect(50, 50, 60, 60)); err == nil {
		t.Fatal("expected error for disjoint rect")
	}
}
