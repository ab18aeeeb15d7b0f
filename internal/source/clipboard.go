package source

import (
	"fmt"
	"image"

	"github.com/example/polyanno/internal/clipboard"
)

// FromClipboard decodes the image currently held by the clipboard.
func FromClipboard() (*image.RGBA, error) {
	data, err := clipboard.ReadImageData()
	if err != nil {
		return nil, err
	}
	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("clipboard: %w", err)
	}
	return img, nil
}
