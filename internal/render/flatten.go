// Package render turns a note and its overlay into raster and PDF exports.
package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/example/inkpad/internal/overlay"
)

const (
	MinWidth  = 640
	MinHeight = 200
	padding   = 8
)

// Options tune Flatten.
type Options struct {
	Width      int
	TextSize   float64
	Background color.Color
	Foreground color.Color
}

func (o Options) normalized() Options {
	if o.Width < MinWidth {
		o.Width = MinWidth
	}
	if o.TextSize <= 0 {
		o.TextSize = DefaultTextSize
	}
	if o.Background == nil {
		o.Background = color.White
	}
	if o.Foreground == nil {
		o.Foreground = color.Black
	}
	return o
}

// Flatten renders the note body, then images in insertion order with
// their opacity, then strokes in insertion order onto one canvas.
func Flatten(doc *overlay.Document, body string, width int) (*image.RGBA, error) {
	return FlattenWith(doc, body, Options{Width: width})
}

// FlattenWith is Flatten with explicit options.
func FlattenWith(doc *overlay.Document, body string, opts Options) (*image.RGBA, error) {
	img, err := flattenBase(doc, body, opts)
	if err != nil {
		return nil, err
	}
	for _, s := range doc.Strokes {
		DrawStroke(img, s, image.Point{})
	}
	return img, nil
}

// flattenBase draws everything except strokes.
func flattenBase(doc *overlay.Document, body string, opts Options) (*image.RGBA, error) {
	opts = opts.normalized()
	text, err := LayoutText(PlainText(body), opts.Width-2*padding, opts.TextSize)
	if err != nil {
		return nil, err
	}
	height := max(MinHeight, text.Height()+padding+20)
	if b := doc.Bounds(); b.Max.Y > height {
		height = b.Max.Y
	}
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	text.Draw(img, image.Pt(padding, padding), opts.Foreground)
	for _, im := range doc.Images {
		DrawImage(img, im, image.Point{})
	}
	return img, nil
}

// DrawImage composites the composed bitmap of im at its position shifted
// by -origin, honouring its opacity.
func DrawImage(dst draw.Image, im *overlay.ImageOverlay, origin image.Point) {
	if im.Opacity <= 0 {
		return
	}
	src := im.Composed()
	r := im.Bounds().Sub(origin)
	if im.Opacity >= 1 {
		draw.Draw(dst, r, src, src.Bounds().Min, draw.Over)
		return
	}
	mask := image.NewUniform(color.Alpha{A: uint8(im.Opacity*255 + 0.5)})
	draw.DrawMask(dst, r, src, src.Bounds().Min, mask, image.Point{}, draw.Over)
}
