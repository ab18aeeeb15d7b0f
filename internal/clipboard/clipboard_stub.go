//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import "fmt"

func WritePNG([]byte) error {
	return fmt.Errorf("clipboard image operations are not supported on this platform")
}

func ReadImageData() ([]byte, error) {
	return nil, fmt.Errorf("clipboard image operations are not supported on this platform")
}

func WriteText(string) error {
	return fmt.Errorf("clipboard text operations are not supported on this platform")
}
