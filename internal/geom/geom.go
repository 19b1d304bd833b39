// Package geom converts between document and viewport coordinates and
// provides the small point tests shared by the overlay engine.
package geom

import "image"

// ToDocument maps a viewport point into document space for the given
// vertical scroll offset.
func ToDocument(p image.Point, scrollY int) image.Point {
	return image.Pt(p.X, p.Y+scrollY)
}

// ToViewport is the inverse of ToDocument.
func ToViewport(p image.Point, scrollY int) image.Point {
	return image.Pt(p.X, p.Y-scrollY)
}

// RectToViewport shifts a document rectangle into viewport space.
func RectToViewport(r image.Rectangle, scrollY int) image.Rectangle {
	return r.Sub(image.Pt(0, scrollY))
}

// DistSq returns the squared euclidean distance between a and b.
func DistSq(a, b image.Point) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// Manhattan returns |dx|+|dy| between a and b.
func Manhattan(a, b image.Point) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y)
}

// Near reports whether p lies within r of any point in path.
func Near(p image.Point, path []image.Point, r int) bool {
	r2 := r * r
	for _, q := range path {
		if DistSq(p, q) <= r2 {
			return true
		}
	}
	return false
}

// InPolygon reports whether p lies inside poly using the even-odd ray
// casting rule. Polygons with fewer than three vertices contain nothing.
func InPolygon(p image.Point, poly []image.Point) bool {
	n := len(poly)
	if n < 3 {
		return false
	}
	x, y := float64(p.X), float64(p.Y)
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		xi, yi := float64(poly[i].X), float64(poly[i].Y)
		xj, yj := float64(poly[j].X), float64(poly[j].Y)
		if (yi > y) != (yj > y) {
			cross := (xj-xi)*(y-yi)/(yj-yi+1e-9) + xi
			if x < cross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// Bounds returns the smallest rectangle containing all points, or the
// zero rectangle for an empty slice.
func Bounds(pts []image.Point) image.Rectangle {
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: pts[0], Max: pts[0].Add(image.Pt(1, 1))}
	for _, p := range pts[1:] {
		r = r.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
	}
	return r
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
