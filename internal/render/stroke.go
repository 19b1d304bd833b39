package render

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/example/inkpad/internal/overlay"
)

const capSegments = 24

// DrawStroke paints s onto dst with round caps and joins. Points are
// shifted by -origin first. The whole stroke is one coverage mask, so
// translucent strokes do not darken where they cross themselves.
func DrawStroke(dst draw.Image, s overlay.Stroke, origin image.Point) {
	if !s.Visible() {
		return
	}
	area := s.Bounds().Sub(origin).Intersect(dst.Bounds())
	if area.Empty() {
		return
	}
	z := vector.NewRasterizer(area.Dx(), area.Dy())
	r := math.Max(0.5, float64(s.Width)/2)
	shift := origin.Add(area.Min)
	pt := func(p image.Point) (float64, float64) {
		return float64(p.X - shift.X), float64(p.Y - shift.Y)
	}
	for i, p := range s.Points {
		x, y := pt(p)
		addDisc(z, x, y, r)
		if i == 0 {
			continue
		}
		px, py := pt(s.Points[i-1])
		addSegment(z, px, py, x, y, r)
	}
	z.Draw(dst, area, image.NewUniform(s.Paint()), image.Point{})
}

// Every sub-path is wound the same way so overlapping pieces add up
// instead of cancelling.

func addSegment(z *vector.Rasterizer, x0, y0, x1, y1, r float64) {
	dx, dy := x1-x0, y1-y0
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*r, dx/l*r
	z.MoveTo(float32(x0-nx), float32(y0-ny))
	z.LineTo(float32(x1-nx), float32(y1-ny))
	z.LineTo(float32(x1+nx), float32(y1+ny))
	z.LineTo(float32(x0+nx), float32(y0+ny))
	z.ClosePath()
}

func addDisc(z *vector.Rasterizer, cx, cy, r float64) {
	z.MoveTo(float32(cx+r), float32(cy))
	for i := 1; i < capSegments; i++ {
		a := 2 * math.Pi * float64(i) / capSegments
		z.LineTo(float32(cx+r*math.Cos(a)), float32(cy+r*math.Sin(a)))
	}
	z.ClosePath()
}
