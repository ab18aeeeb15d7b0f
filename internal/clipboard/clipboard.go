// Package clipboard exchanges images and text with the desktop clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
)

// ErrNoImage is returned when the clipboard holds no image.
var ErrNoImage = errors.New("clipboard does not contain image data")

// WriteImage encodes img as PNG and publishes it to the clipboard.
func WriteImage(img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode clipboard image: %w", err)
	}
	return WritePNG(buf.Bytes())
}
