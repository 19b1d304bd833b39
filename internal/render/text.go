package render

import (
	"fmt"
	"html"
	"image"
	"image/color"
	"math"
	"regexp"
	"strings"
	"sync"

	strip "github.com/grokify/html-strip-tags-go"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultTextSize is the point size note text is flattened at.
const DefaultTextSize = 14

var (
	fontOnce      sync.Once
	goregularFont *opentype.Font
	fontErr       error
	faces         sync.Map // map[float64]font.Face
)

func faceForSize(size float64) (font.Face, error) {
	if size <= 0 {
		size = DefaultTextSize
	}
	fontOnce.Do(func() {
		goregularFont, fontErr = opentype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fmt.Errorf("parse font: %w", fontErr)
	}
	if face, ok := faces.Load(size); ok {
		return face.(font.Face), nil
	}
	face, err := opentype.NewFace(goregularFont, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	faces.Store(size, face)
	return face, nil
}

var (
	hiddenBlocks = regexp.MustCompile(`(?is)<!doctype[^>]*>|<!--.*?-->|<(?:head|style|script)\b.*?</(?:head|style|script)>`)
	lineBreaks   = regexp.MustCompile(`(?i)<br\s*/?>|</(?:p|div|li|tr|h[1-6])>`)
	listItems    = regexp.MustCompile(`(?i)<li\b[^>]*>`)
	spaces       = regexp.MustCompile(`[ \t\r\n\f]+`)
)

// PlainText reduces a rich-text note body to plain text, one paragraph per
// line. Bodies without markup are returned with only line endings
// normalised.
func PlainText(body string) string {
	if !strings.Contains(body, "<") {
		return strings.TrimRight(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	}
	s := hiddenBlocks.ReplaceAllString(body, "")
	s = spaces.ReplaceAllString(s, " ")
	s = listItems.ReplaceAllString(s, "• ")
	s = lineBreaks.ReplaceAllString(s, "\n")
	s = html.UnescapeString(strip.StripTags(s))
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}

// WrapText breaks text into lines no wider than width pixels in face.
// Words wider than width are placed on their own line.
func WrapText(face font.Face, text string, width int) []string {
	d := &font.Drawer{Face: face}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if d.MeasureString(candidate).Ceil() > width {
				out = append(out, line)
				line = w
				continue
			}
			line = candidate
		}
		out = append(out, line)
	}
	return out
}

// TextBlock is wrapped text ready to draw.
type TextBlock struct {
	Lines      []string
	face       font.Face
	lineHeight int
	ascent     int
}

// LayoutText wraps text to width at the given point size.
func LayoutText(text string, width int, size float64) (*TextBlock, error) {
	face, err := faceForSize(size)
	if err != nil {
		return nil, err
	}
	m := face.Metrics()
	lh := m.Height.Ceil()
	if lh <= 0 {
		lh = int(math.Ceil(size * 1.2))
	}
	tb := &TextBlock{face: face, lineHeight: lh, ascent: m.Ascent.Ceil()}
	if strings.TrimSpace(text) != "" {
		tb.Lines = WrapText(face, text, width)
	}
	return tb, nil
}

// Height is the pixel height of the laid out block.
func (tb *TextBlock) Height() int { return len(tb.Lines) * tb.lineHeight }

// Draw renders the block with its top-left corner at at.
func (tb *TextBlock) Draw(dst *image.RGBA, at image.Point, col color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: tb.face}
	for i, l := range tb.Lines {
		d.Dot = fixed.P(at.X, at.Y+tb.ascent+i*tb.lineHeight)
		d.DrawString(l)
	}
}
