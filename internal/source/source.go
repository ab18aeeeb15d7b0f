// Package source acquires the base image of an editing session: from a file,
// from the clipboard or from the screen.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupported is returned for data that is not an image format this
// package can decode.
var ErrUnsupported = errors.New("unsupported image format")

var decodable = map[string]bool{
	"png":  true,
	"jpg":  true,
	"gif":  true,
	"bmp":  true,
	"tif":  true,
	"webp": true,
}

// Sniff returns the file extension of the image format held in data.
func Sniff(data []byte) (string, error) {
	kind, err := filetype.Match(data)
	if err != nil {
		return "", fmt.Errorf("sniff: %w", err)
	}
	if kind == filetype.Unknown {
		return "", ErrUnsupported
	}
	if !decodable[kind.Extension] {
		return "", fmt.Errorf("%s (%s): %w", kind.Extension, kind.MIME.Value, ErrUnsupported)
	}
	return kind.Extension, nil
}

// Decode sniffs and decodes data into an RGBA image with its origin at (0, 0).
func Decode(data []byte) (*image.RGBA, error) {
	if _, err := Sniff(data); err != nil {
		return nil, err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	return toRGBA(img), nil
}

// Load reads and decodes the image file at path.
func Load(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
