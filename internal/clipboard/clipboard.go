// Package clipboard moves exports and pasted images through the system
// clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
)

type format int

const (
	fmtText format = iota
	fmtImage
)

var errEmpty = errors.New("clipboard is empty")

// WriteImage publishes img as PNG.
func WriteImage(img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode clipboard image: %w", err)
	}
	return write(fmtImage, buf.Bytes())
}

// ReadImage returns the image on the clipboard.
func ReadImage() (image.Image, error) {
	data, err := read(fmtImage)
	if err != nil {
		return nil, err
	}
	return decodeImage(data)
}

// WriteText publishes UTF-8 text.
func WriteText(text string) error {
	return write(fmtText, []byte(text))
}

// ReadText returns the text on the clipboard.
func ReadText() (string, error) {
	data, err := read(fmtText)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errEmpty
	}
	return string(data), nil
}

func decodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, errEmpty
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode clipboard image: %w", err)
	}
	return img, nil
}
