package render

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/inkpad/internal/overlay"
)

func white(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello\r\nworld\n", "hello\nworld"},
		{"paragraphs", "<p>One &amp; two</p>\n<p>three<br/>four</p>", "One & two\nthree\nfour"},
		{"qt document", `<!DOCTYPE HTML><html><head><meta name="qrichtext" content="1" /><style type="text/css">p, li { white-space: pre-wrap; }</style></head><body style=" font-size:10pt;"><p style="margin:0px;">Lecture <b>notes</b></p></body></html>`, "Lecture notes"},
		{"list", "<ul><li>a</li><li>b</li></ul>", "• a\n• b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}

func TestWrapText(t *testing.T) {
	face, err := faceForSize(12)
	require.NoError(t, err)
	lines := WrapText(face, "the quick brown fox jumps over the lazy dog", 60)
	assert.Greater(t, len(lines), 1)
	for _, l := range lines {
		assert.NotEmpty(t, l)
	}
	assert.Equal(t, []string{"a", "", "b"}, WrapText(face, "a\n\nb", 500))
}

func TestDrawStroke(t *testing.T) {
	img := white(100, 100)
	s := overlay.Stroke{
		Points: []image.Point{{20, 50}, {80, 50}},
		Color:  color.RGBA{255, 0, 0, 255},
		Width:  10,
		Alpha:  255,
		Mode:   overlay.ModePen,
	}
	DrawStroke(img, s, image.Point{})
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(50, 50))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(17, 50), "round cap")
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(50, 60))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(5, 5))
}

func TestDrawStrokeTranslucentOverlap(t *testing.T) {
	// the path doubles back so the middle is covered by several pieces
	s := overlay.Stroke{
		Points: []image.Point{{10, 50}, {90, 50}, {10, 50}, {90, 50}},
		Color:  color.RGBA{0, 0, 255, 255},
		Width:  8,
		Alpha:  110,
		Mode:   overlay.ModeMarker,
	}
	single := s
	single.Points = single.Points[:2]

	a := white(100, 100)
	DrawStroke(a, s, image.Point{})
	b := white(100, 100)
	DrawStroke(b, single, image.Point{})
	assert.Equal(t, b.RGBAAt(50, 50), a.RGBAAt(50, 50))
	assert.NotEqual(t, color.RGBA{255, 255, 255, 255}, a.RGBAAt(50, 50))
}

func TestDrawStrokeTranslucentColor(t *testing.T) {
	tests := []struct {
		name  string
		color color.RGBA
		alpha uint8
		want  color.RGBA
	}{
		{"marker", color.RGBA{0xff, 0xeb, 0x3b, 0xff}, 110, color.RGBA{255, 246, 170, 255}},
		{"half red", color.RGBA{255, 0, 0, 255}, 128, color.RGBA{255, 127, 127, 255}},
		{"opaque", color.RGBA{0x55, 0x55, 0x55, 0xff}, 255, color.RGBA{0x55, 0x55, 0x55, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := white(100, 100)
			s := overlay.Stroke{
				Points: []image.Point{{10, 50}, {90, 50}},
				Color:  tt.color,
				Width:  14,
				Alpha:  tt.alpha,
				Mode:   overlay.ModeMarker,
			}
			DrawStroke(img, s, image.Point{})
			got := img.RGBAAt(50, 50)
			assert.InDelta(t, tt.want.R, got.R, 2, "red %v", got)
			assert.InDelta(t, tt.want.G, got.G, 2, "green %v", got)
			assert.InDelta(t, tt.want.B, got.B, 2, "blue %v", got)
			assert.Equal(t, uint8(255), got.A)
		})
	}
}

func TestDrawStrokeOrigin(t *testing.T) {
	img := white(50, 50)
	s := overlay.Stroke{Points: []image.Point{{10, 110}, {40, 110}}, Color: color.RGBA{A: 255}, Width: 4, Alpha: 255}
	DrawStroke(img, s, image.Pt(0, 100))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(25, 10))
	DrawStroke(img, s, image.Pt(0, 500))
}

func TestFlattenLayout(t *testing.T) {
	doc := overlay.NewDocument()
	img, err := Flatten(doc, "", 100)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, MinWidth, MinHeight), img.Bounds())
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(300, 100))

	doc.AddStroke(overlay.Stroke{Points: []image.Point{{10, 900}, {50, 900}}, Color: color.RGBA{A: 255}, Width: 2, Alpha: 255})
	img, err = Flatten(doc, "", 800)
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.GreaterOrEqual(t, img.Bounds().Dy(), 902)
}

func TestFlattenOrder(t *testing.T) {
	doc := overlay.NewDocument()
	red := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for i := 0; i < len(red.Pix); i += 4 {
		copy(red.Pix[i:], []byte{255, 0, 0, 255})
	}
	doc.AddImage(overlay.NewImageOverlay(red, image.Pt(100, 100)))
	half := overlay.NewImageOverlay(red, image.Pt(300, 100))
	half.SetOpacity(0.5)
	doc.AddImage(half)
	doc.AddStroke(overlay.Stroke{
		Points: []image.Point{{90, 120}, {150, 120}},
		Color:  color.RGBA{0, 0, 255, 255},
		Width:  6,
		Alpha:  255,
		Mode:   overlay.ModePen,
	})

	img, err := Flatten(doc, "<p>hello</p>", 640)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(110, 110))
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, img.RGBAAt(120, 120), "strokes over images")
	got := img.RGBAAt(320, 110)
	assert.Equal(t, uint8(255), got.R)
	assert.InDelta(t, 127, int(got.G), 2)

	// some text pixel was drawn in the top-left
	dark := false
	for y := 0; y < 30 && !dark; y++ {
		for x := 0; x < 60; x++ {
			if img.RGBAAt(x, y).R < 128 {
				dark = true
				break
			}
		}
	}
	assert.True(t, dark)
}

func TestWritePDF(t *testing.T) {
	doc := overlay.NewDocument()
	doc.AddStroke(overlay.Stroke{
		Points: []image.Point{{10, 10}, {50, 60}, {90, 20}},
		Color:  color.RGBA{0xff, 0xeb, 0x3b, 0xff},
		Width:  14,
		Alpha:  110,
		Mode:   overlay.ModeMarker,
	})
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, doc, "Title\n\nbody", Options{Width: 640}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
