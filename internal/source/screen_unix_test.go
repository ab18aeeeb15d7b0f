//go:build linux || freebsd || openbsd || netbsd || dragonfly

package source

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/jezek/xgb/xproto"
)

func TestRunningOnWayland(t *testing.T) {
	t.Setenv("XDG_SESSION_TYPE", "wayland")
	t.Setenv("WAYLAND_DISPLAY", "")
	if !runningOnWayland() {
		t.Fatalf("expected wayland session when XDG_SESSION_TYPE=wayland")
	}

	t.Setenv("XDG_SESSION_TYPE", "x11")
	t.Setenv("WAYLAND_DISPLAY", "wayland-0")
	if !runningOnWayland() {
		t.Fatalf("expected wayland session when WAYLAND_DISPLAY is set")
	}

	t.Setenv("WAYLAND_DISPLAY", "")
	if runningOnWayland() {
		t.Fatalf("did not expect wayland session when indicators are absent")
	}
}

func TestPortalResponseImageErrors(t *testing.T) {
	tests := map[string][]interface{}{
		"short":   {uint32(0)},
		"denied":  {uint32(1), map[string]dbus.Variant{}},
		"no uri":  {uint32(0), map[string]dbus.Variant{}},
		"bad uri": {uint32(0), map[string]dbus.Variant{"uri": dbus.MakeVariant("http://example.com/a.png")}},
	}
	for name, body := range tests {
		if _, err := portalResponseImage(body); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestXImageToRGBA(t *testing.T) {
	setup := &xproto.SetupInfo{PixmapFormats: []xproto.Format{{Depth: 24, BitsPerPixel: 32}}}
	reply := &xproto.GetImageReply{
		Depth: 24,
		Data: []byte{
			1, 2, 3, 0, 4, 5, 6, 0,
			7, 8, 9, 0, 10, 11, 12, 0,
		},
	}
	img, err := xImageToRGBA(setup, reply, 2, 2, "screen")
	if err != nil {
		t.Fatalf("xImageToRGBA: %v", err)
	}
	if got := img.RGBAAt(1, 1); got.R != 12 || got.G != 11 || got.B != 10 || got.A != 255 {
		t.Fatalf("pixel = %v", got)
	}

	reply.Depth = 16
	if _, err := xImageToRGBA(setup, reply, 2, 2, "screen"); err == nil {
		t.Fatal("expected error for unknown depth")
	}
	if _, err := xImageToRGBA(setup, &xproto.GetImageReply{Depth: 24}, 2, 2, "screen"); err == nil {
		t.Fatal("expected error for empty data")
	}
}
