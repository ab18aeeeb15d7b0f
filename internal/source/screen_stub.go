//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package source

import (
	"fmt"
	"image"
)

func captureScreen() (*image.RGBA, error) {
	return nil, fmt.Errorf("screen capture is not supported on this platform")
}

func listMonitors() ([]MonitorInfo, error) {
	return nil, fmt.Errorf("monitor listing is not supported on this platform")
}
