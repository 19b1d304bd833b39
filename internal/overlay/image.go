package overlay

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	"github.com/google/uuid"
)

const (
	MinScale = 0.1
	MaxScale = 8.0
)

// ImageOverlay is an embedded bitmap placed over the note. The composed
// bitmap always reflects the current source, scale and angle.
type ImageOverlay struct {
	ID      uuid.UUID
	Pos     image.Point
	Opacity float64

	source   *image.RGBA
	composed *image.RGBA
	scale    float64
	angle    float64
}

// NewImageOverlay wraps src at pos with identity transform and full opacity.
func NewImageOverlay(src image.Image, pos image.Point) *ImageOverlay {
	im := &ImageOverlay{
		ID:      uuid.New(),
		Pos:     pos,
		Opacity: 1,
		source:  clone.AsRGBA(src),
		scale:   1,
	}
	im.recompose()
	return im
}

func (im *ImageOverlay) Source() *image.RGBA   { return im.source }
func (im *ImageOverlay) Composed() *image.RGBA { return im.composed }
func (im *ImageOverlay) Scale() float64        { return im.scale }
func (im *ImageOverlay) Angle() float64        { return im.angle }

// Bounds is the document-space rectangle covered by the composed bitmap.
func (im *ImageOverlay) Bounds() image.Rectangle {
	b := im.composed.Bounds()
	return image.Rectangle{Min: im.Pos, Max: im.Pos.Add(b.Size())}
}

// SetScale clamps s to [MinScale, MaxScale] and recomposes.
func (im *ImageOverlay) SetScale(s float64) {
	im.SetTransform(s, im.angle)
}

// SetAngle rotates the image clockwise by deg degrees from its source.
func (im *ImageOverlay) SetAngle(deg float64) {
	im.SetTransform(im.scale, deg)
}

// SetTransform sets scale and angle together with a single recompose.
func (im *ImageOverlay) SetTransform(scale, angle float64) {
	scale = ClampScale(scale)
	if scale == im.scale && angle == im.angle && im.composed != nil {
		return
	}
	im.scale = scale
	im.angle = angle
	im.recompose()
}

// SetOpacity clamps o to [0, 1].
func (im *ImageOverlay) SetOpacity(o float64) {
	im.Opacity = math.Max(0, math.Min(1, o))
}

// ReplaceSource swaps the bitmap, as after a crop, and resets the transform.
func (im *ImageOverlay) ReplaceSource(src image.Image) {
	im.source = clone.AsRGBA(src)
	im.scale = 1
	im.angle = 0
	im.recompose()
}

func (im *ImageOverlay) recompose() {
	im.composed = Compose(im.source, im.scale, im.angle)
}

// ClampScale limits a scale factor to the supported range.
func ClampScale(s float64) float64 {
	if math.IsNaN(s) {
		return 1
	}
	return math.Max(MinScale, math.Min(MaxScale, s))
}

// Compose renders src scaled by scale and rotated clockwise by angle
// degrees. The result never aliases src.
func Compose(src *image.RGBA, scale, angle float64) *image.RGBA {
	b := src.Bounds()
	if b.Empty() {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	w := int(math.Max(1, math.Round(float64(b.Dx())*scale)))
	h := int(math.Max(1, math.Round(float64(b.Dy())*scale)))
	var out *image.RGBA
	if w == b.Dx() && h == b.Dy() {
		out = clone.AsRGBA(src)
	} else {
		out = transform.Resize(src, w, h, transform.Linear)
	}
	if math.Mod(angle, 360) != 0 {
		out = transform.Rotate(out, angle, &transform.RotationOptions{ResizeBounds: true})
	}
	return out
}

// CropImage returns the part of src inside sel. Selections narrower or
// shorter than two pixels, or outside the bitmap, return src unchanged.
func CropImage(src *image.RGBA, sel image.Rectangle) *image.RGBA {
	sel = sel.Canon()
	if sel.Dx() < 2 || sel.Dy() < 2 {
		return src
	}
	r := sel.Intersect(src.Bounds())
	if r.Empty() {
		return src
	}
	return transform.Crop(src, r)
}

// CenterSelection is the default crop selection: 70% of size, centred.
func CenterSelection(size image.Point) image.Rectangle {
	w := int(float64(size.X) * 0.7)
	h := int(float64(size.Y) * 0.7)
	x := (size.X - w) / 2
	y := (size.Y - h) / 2
	return image.Rect(x, y, x+w, y+h)
}

// Cropper chooses a crop rectangle for a bitmap. Returning false cancels.
type Cropper interface {
	Crop(src *image.RGBA) (image.Rectangle, bool)
}

// CropperFunc adapts a function to Cropper.
type CropperFunc func(src *image.RGBA) (image.Rectangle, bool)

func (f CropperFunc) Crop(src *image.RGBA) (image.Rectangle, bool) { return f(src) }

// CenterCropper accepts the default centred selection without asking.
type CenterCropper struct{}

func (CenterCropper) Crop(src *image.RGBA) (image.Rectangle, bool) {
	return CenterSelection(src.Bounds().Size()).Add(src.Bounds().Min), true
}
