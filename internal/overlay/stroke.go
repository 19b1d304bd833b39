package overlay

import (
	"image"
	"image/color"

	"github.com/example/inkpad/internal/geom"
)

// Stroke is one freehand path in document space. Strokes are not
// modified after they are committed; erasing produces new strokes.
type Stroke struct {
	Points []image.Point
	Color  color.RGBA
	Width  int
	Alpha  uint8
	Mode   Mode
}

// Visible reports whether the stroke has enough points to be drawn.
func (s Stroke) Visible() bool { return len(s.Points) >= 2 }

// Clone returns a copy that shares no point storage with s.
func (s Stroke) Clone() Stroke {
	s.Points = append([]image.Point(nil), s.Points...)
	return s
}

// Paint returns the colour strokes are rendered with: the straight RGB
// of Color under the stroke alpha.
func (s Stroke) Paint() color.NRGBA {
	return color.NRGBA{R: s.Color.R, G: s.Color.G, B: s.Color.B, A: s.Alpha}
}

// Bounds returns the area covered by the stroke including its width.
func (s Stroke) Bounds() image.Rectangle {
	r := geom.Bounds(s.Points)
	if r.Empty() {
		return r
	}
	pad := s.Width/2 + 1
	return r.Inset(-pad)
}

func (s Stroke) withPoints(pts []image.Point) Stroke {
	s.Points = pts
	return s
}

// Smooth applies a 0.25/0.5/0.25 moving average to interior points.
// Endpoints are kept exactly and lists shorter than three are copied.
func Smooth(pts []image.Point) []image.Point {
	out := append([]image.Point(nil), pts...)
	if len(pts) < 3 {
		return out
	}
	for i := 1; i < len(pts)-1; i++ {
		a, b, c := pts[i-1], pts[i], pts[i+1]
		out[i] = image.Pt(
			int(0.25*float64(a.X)+0.5*float64(b.X)+0.25*float64(c.X)),
			int(0.25*float64(a.Y)+0.5*float64(b.Y)+0.25*float64(c.Y)),
		)
	}
	return out
}

// CloneStrokes deep-copies a stroke collection.
func CloneStrokes(in []Stroke) []Stroke {
	if in == nil {
		return nil
	}
	out := make([]Stroke, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}
