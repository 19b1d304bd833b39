package overlay

import "image"

// Document is the overlay of one note: strokes, images and the current
// image selection. The selection is either -1 or a valid index.
type Document struct {
	Strokes  []Stroke
	Images   []*ImageOverlay
	selected int
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{selected: -1}
}

// Selected returns the selected image index.
func (d *Document) Selected() (int, bool) {
	if d.selected < 0 || d.selected >= len(d.Images) {
		return -1, false
	}
	return d.selected, true
}

// SelectedImage returns the selected image or nil.
func (d *Document) SelectedImage() *ImageOverlay {
	if i, ok := d.Selected(); ok {
		return d.Images[i]
	}
	return nil
}

// Select marks image i as selected. Out of range indexes clear the selection.
func (d *Document) Select(i int) {
	if i < 0 || i >= len(d.Images) {
		d.selected = -1
		return
	}
	d.selected = i
}

// Deselect clears the selection.
func (d *Document) Deselect() { d.selected = -1 }

// AddStroke appends a committed stroke.
func (d *Document) AddStroke(s Stroke) { d.Strokes = append(d.Strokes, s) }

// PopStroke removes and returns the last stroke.
func (d *Document) PopStroke() (Stroke, bool) {
	n := len(d.Strokes)
	if n == 0 {
		return Stroke{}, false
	}
	s := d.Strokes[n-1]
	d.Strokes = d.Strokes[:n-1]
	return s, true
}

// ReplaceStrokes swaps the whole stroke collection and returns the old one.
func (d *Document) ReplaceStrokes(s []Stroke) []Stroke {
	old := d.Strokes
	d.Strokes = s
	return old
}

// AddImage appends an image on top and returns its index.
func (d *Document) AddImage(im *ImageOverlay) int {
	d.Images = append(d.Images, im)
	return len(d.Images) - 1
}

// RemoveImage deletes image i. Removing the selected image clears the
// selection; a selection above i shifts down with its image.
func (d *Document) RemoveImage(i int) (*ImageOverlay, bool) {
	if i < 0 || i >= len(d.Images) {
		return nil, false
	}
	im := d.Images[i]
	d.Images = append(d.Images[:i], d.Images[i+1:]...)
	switch {
	case d.selected == i:
		d.selected = -1
	case d.selected > i:
		d.selected--
	}
	return im, true
}

// ImageAt returns the top-most image whose bounds contain the document
// point p.
func (d *Document) ImageAt(p image.Point) (int, bool) {
	for i := len(d.Images) - 1; i >= 0; i-- {
		if p.In(d.Images[i].Bounds()) {
			return i, true
		}
	}
	return -1, false
}

// Bounds covers every stroke and image in the document.
func (d *Document) Bounds() image.Rectangle {
	var r image.Rectangle
	for _, s := range d.Strokes {
		r = r.Union(s.Bounds())
	}
	for _, im := range d.Images {
		r = r.Union(im.Bounds())
	}
	return r
}
