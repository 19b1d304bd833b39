package overlay

import (
	"image"

	"github.com/example/inkpad/internal/geom"
)

// EraseRadius trims every stroke by the eraser path. A point within radius
// of any eraser point is removed and each run of surviving points becomes
// its own stroke. Runs shorter than two points are dropped. The radius is
// never smaller than MinEraserRadius.
func EraseRadius(strokes []Stroke, path []image.Point, radius int) []Stroke {
	if radius < MinEraserRadius {
		radius = MinEraserRadius
	}
	out := make([]Stroke, 0, len(strokes))
	for _, s := range strokes {
		out = append(out, splitStroke(s, path, radius)...)
	}
	return out
}

func splitStroke(s Stroke, path []image.Point, radius int) []Stroke {
	var parts []Stroke
	var run []image.Point
	flush := func() {
		if len(run) >= 2 {
			parts = append(parts, s.withPoints(run))
		}
		run = nil
	}
	for _, p := range s.Points {
		if geom.Near(p, path, radius) {
			flush()
			continue
		}
		run = append(run, p)
	}
	flush()
	return parts
}

// EraseLasso removes, whole, every stroke with at least one point inside
// the closed polygon traced by path. Other strokes are returned untouched.
func EraseLasso(strokes []Stroke, path []image.Point) []Stroke {
	out := make([]Stroke, 0, len(strokes))
	for _, s := range strokes {
		if !anyInside(s.Points, path) {
			out = append(out, s.Clone())
		}
	}
	return out
}

func anyInside(pts, poly []image.Point) bool {
	for _, p := range pts {
		if geom.InPolygon(p, poly) {
			return true
		}
	}
	return false
}
