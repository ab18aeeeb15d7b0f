package main

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"

	"github.com/example/polyanno/internal/source"
)

// imageSource selects where the base image comes from. Exactly one of file,
// clipboard or capture may be set.
type imageSource struct {
	file          string
	fromClipboard bool
	capture       string
	display       string
}

var errNoSource = errors.New("an image is required: use -file, -from-clipboard or -capture screen")

// captureScreenFn is swapped out in tests.
var captureScreenFn = source.Screen

func (s imageSource) validate() error {
	n := 0
	if s.file != "" {
		n++
	}
	if s.fromClipboard {
		n++
	}
	if s.capture != "" {
		n++
		if s.capture != "screen" {
			return fmt.Errorf("unsupported capture target %q", s.capture)
		}
	}
	switch {
	case n == 0:
		return errNoSource
	case n > 1:
		return fmt.Errorf("-file, -from-clipboard and -capture are mutually exclusive")
	}
	return nil
}

// load returns the base image and a short label describing it.
func (s imageSource) load() (*image.RGBA, string, error) {
	if err := s.validate(); err != nil {
		return nil, "", err
	}
	switch {
	case s.fromClipboard:
		img, err := source.FromClipboard()
		if err != nil {
			return nil, "", fmt.Errorf("failed to read clipboard image: %w", err)
		}
		return img, "clipboard", nil
	case s.capture != "":
		img, err := captureScreenFn(s.display)
		if err != nil {
			return nil, "", fmt.Errorf("failed to capture screen: %w", err)
		}
		return img, "screen", nil
	}
	img, err := source.Load(s.file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}
	return img, filepath.Base(s.file), nil
}
