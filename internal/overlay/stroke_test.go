package overlay

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pts(xy ...int) []image.Point {
	out := make([]image.Point, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, image.Pt(xy[i], xy[i+1]))
	}
	return out
}

func penStroke(p []image.Point) Stroke {
	return Stroke{Points: p, Color: color.RGBA{A: 255}, Width: 4, Alpha: 255, Mode: ModePen}
}

func TestSmooth(t *testing.T) {
	assert.Equal(t, pts(1, 1, 5, 5), Smooth(pts(1, 1, 5, 5)))
	assert.Empty(t, Smooth(nil))
	assert.Equal(t, pts(0, 0, 5, 2, 10, 0), Smooth(pts(0, 0, 5, 4, 10, 0)))
	// truncation toward zero
	assert.Equal(t, pts(0, 0, -1, 0, -3, 0), Smooth(pts(0, 0, -1, 0, -3, 0)))
}

func TestSmoothKeepsEndpoints(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 3; n < 40; n++ {
		in := make([]image.Point, n)
		for i := range in {
			in[i] = image.Pt(rng.Intn(2000)-1000, rng.Intn(2000)-1000)
		}
		out := Smooth(in)
		require.Len(t, out, n)
		assert.Equal(t, in[0], out[0])
		assert.Equal(t, in[n-1], out[n-1])
	}
}

func TestSmoothDoesNotAlias(t *testing.T) {
	in := pts(0, 0, 4, 4)
	out := Smooth(in)
	out[0] = image.Pt(9, 9)
	assert.Equal(t, image.Pt(0, 0), in[0])
}

func TestEraseRadiusSimple(t *testing.T) {
	s := penStroke(pts(0, 0, 10, 0, 20, 0, 30, 0))
	out := EraseRadius([]Stroke{s}, pts(20, 0), 5)
	require.Len(t, out, 1)
	assert.Equal(t, pts(0, 0, 10, 0), out[0].Points)
	assert.Equal(t, ModePen, out[0].Mode)
	assert.Equal(t, 4, out[0].Width)
}

func TestEraseRadiusSplits(t *testing.T) {
	s := penStroke(pts(0, 0, 10, 0, 20, 0, 30, 0, 40, 0, 50, 0))
	out := EraseRadius([]Stroke{s}, pts(25, 0), 5)
	require.Len(t, out, 2)
	assert.Equal(t, pts(0, 0, 10, 0), out[0].Points)
	assert.Equal(t, pts(40, 0, 50, 0), out[1].Points)
}

func TestEraseRadiusMinimum(t *testing.T) {
	s := penStroke(pts(0, 0, 4, 0, 40, 0, 50, 0))
	out := EraseRadius([]Stroke{s}, pts(0, 0), 1)
	require.Len(t, out, 1)
	assert.Equal(t, pts(40, 0, 50, 0), out[0].Points)
}

func TestEraseRadiusEmpty(t *testing.T) {
	assert.Empty(t, EraseRadius(nil, pts(1, 1), 10))
	s := penStroke(pts(0, 0, 1, 1))
	assert.Equal(t, []Stroke{s}, EraseRadius([]Stroke{s}, nil, 10))
}

func TestEraseRadiusNeverGrows(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		n, m := 2+rng.Intn(30), rng.Intn(5)
		var in []image.Point
		for j := 0; j < n; j++ {
			in = append(in, image.Pt(rng.Intn(200), rng.Intn(200)))
		}
		var path []image.Point
		for j := 0; j < m; j++ {
			path = append(path, image.Pt(rng.Intn(200), rng.Intn(200)))
		}
		out := EraseRadius([]Stroke{penStroke(in)}, path, rng.Intn(40))
		total := 0
		for _, s := range out {
			assert.True(t, s.Visible())
			total += len(s.Points)
		}
		assert.LessOrEqual(t, total, len(in))
	}
}

func TestEraseLasso(t *testing.T) {
	square := pts(0, 0, 100, 0, 100, 100, 0, 100)
	inside := penStroke(pts(300, 300, 50, 50, 400, 400))
	outside := penStroke(pts(210, 10, 250, 90, 300, 50))
	out := EraseLasso([]Stroke{inside, outside}, square)
	require.Len(t, out, 1)
	assert.Equal(t, outside.Points, out[0].Points)
}

func TestEraseLassoAllOrNothing(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	poly := pts(20, 20, 120, 30, 90, 140, 10, 100)
	for i := 0; i < 100; i++ {
		n := 2 + rng.Intn(10)
		var in []image.Point
		for j := 0; j < n; j++ {
			in = append(in, image.Pt(rng.Intn(300), rng.Intn(300)))
		}
		out := EraseLasso([]Stroke{penStroke(in)}, poly)
		if anyInside(in, poly) {
			assert.Empty(t, out)
		} else {
			require.Len(t, out, 1)
			assert.Equal(t, in, out[0].Points)
		}
	}
}

func TestStrokePaintAndBounds(t *testing.T) {
	s := Stroke{Points: pts(10, 10, 20, 30), Color: color.RGBA{1, 2, 3, 255}, Width: 6, Alpha: 110}
	assert.Equal(t, color.NRGBA{1, 2, 3, 110}, s.Paint())
	assert.Equal(t, image.Rect(6, 6, 25, 35), s.Bounds())
	assert.False(t, Stroke{Points: pts(1, 1)}.Visible())
}
