package editor

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/inkpad/internal/overlay"
	"github.com/example/inkpad/internal/theme"
)

const (
	titleHeight  = 24
	bottomHeight = 24
	buttonHeight = 24
	swatchSize   = 16
)

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button is a clickable element of the chrome.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton keeps a rendered copy of each state of the wrapped Button.
type CacheButton struct {
	Button
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		img := image.NewRGBA(cb.Button.Rect())
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [3]*image.RGBA{}
	}
}

// ToolButton selects a tool.
type ToolButton struct {
	label    string
	tool     overlay.Tool
	rect     image.Rectangle
	theme    *theme.Theme
	onSelect func(overlay.Tool)
}

func (tb *ToolButton) Draw(dst *image.RGBA, state ButtonState) {
	fill(dst, tb.rect, stateColor(tb.theme, state))
	label(dst, tb.rect.Min.X+4, tb.rect.Min.Y+16, tb.label, tb.theme.ButtonText)
}

func (tb *ToolButton) Rect() image.Rectangle     { return tb.rect }
func (tb *ToolButton) SetRect(r image.Rectangle) { tb.rect = r }

func (tb *ToolButton) Activate() {
	if tb.onSelect != nil {
		tb.onSelect(tb.tool)
	}
}

// Shortcut is a labelled entry of the status bar.
type Shortcut struct {
	label  string
	action string
	rect   image.Rectangle
}

func (s *Shortcut) Draw(dst *image.RGBA, th *theme.Theme, state ButtonState) {
	fill(dst, s.rect, stateColor(th, state))
	drawRect(dst, s.rect, th.Border)
	label(dst, s.rect.Min.X+2, s.rect.Min.Y+14, s.label, th.ButtonText)
}

func stateColor(th *theme.Theme, state ButtonState) color.RGBA {
	switch state {
	case StateHover:
		return th.ButtonHover
	case StatePressed:
		return th.ButtonPress
	}
	return th.Button
}

func fill(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func label(dst draw.Image, x, y int, s string, c color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: basicfont.Face7x13, Dot: fixed.P(x, y)}
	d.DrawString(s)
}

func labelWidth(s string) int {
	return (&font.Drawer{Face: basicfont.Face7x13}).MeasureString(s).Ceil()
}

func drawRect(dst draw.Image, r image.Rectangle, c color.Color) {
	u := image.NewUniform(c)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}

// drawDashedRect outlines r with alternating colours.
func drawDashedRect(dst *image.RGBA, r image.Rectangle, dash int, c1, c2 color.RGBA) {
	pick := func(i int) color.RGBA {
		if (i/dash)%2 == 0 {
			return c1
		}
		return c2
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		dst.SetRGBA(x, r.Min.Y, pick(x-r.Min.X))
		dst.SetRGBA(x, r.Max.Y-1, pick(x-r.Min.X))
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		dst.SetRGBA(r.Min.X, y, pick(y-r.Min.Y))
		dst.SetRGBA(r.Max.X-1, y, pick(y-r.Min.Y))
	}
}

// toolbar lays out the tool buttons, the colour swatch of the active mode
// and the width readout down the left edge.
type toolbar struct {
	theme   *theme.Theme
	width   int
	buttons []*CacheButton
	swatch  image.Rectangle
}

var toolLabels = []struct {
	label string
	tool  overlay.Tool
}{
	{"T:Text", overlay.ToolText},
	{"1:Pencil", overlay.ToolPencil},
	{"2:Pen", overlay.ToolPen},
	{"3:Marker", overlay.ToolMarker},
	{"4:Eraser", overlay.ToolEraser},
}

func newToolbar(th *theme.Theme, onSelect func(overlay.Tool)) *toolbar {
	tb := &toolbar{theme: th, width: 48}
	for _, l := range toolLabels {
		if w := labelWidth(l.label) + 8; w > tb.width {
			tb.width = w
		}
		tb.buttons = append(tb.buttons, &CacheButton{Button: &ToolButton{label: l.label, tool: l.tool, theme: th, onSelect: onSelect}})
	}
	return tb
}

func (tb *toolbar) layout() {
	y := titleHeight
	for _, b := range tb.buttons {
		b.SetRect(image.Rect(0, y, tb.width, y+buttonHeight))
		y += buttonHeight
	}
	tb.swatch = image.Rect(4, y+4, 4+swatchSize, y+4+swatchSize)
}

// hit returns the button under p.
func (tb *toolbar) hit(p image.Point) (*CacheButton, bool) {
	for _, b := range tb.buttons {
		if p.In(b.Rect()) {
			return b, true
		}
	}
	return nil, false
}

func (tb *toolbar) draw(dst *image.RGBA, height int, settings *overlay.Settings, hover int) {
	tb.layout()
	fill(dst, image.Rect(0, titleHeight, tb.width, height-bottomHeight), tb.theme.Chrome)
	for i, b := range tb.buttons {
		state := StateDefault
		if b.Button.(*ToolButton).tool == settings.Tool {
			state = StatePressed
		} else if i == hover {
			state = StateHover
		}
		b.Draw(dst, state)
	}
	if settings.Tool == overlay.ToolText {
		return
	}
	width := settings.EraserWidth
	if m, ok := settings.Tool.Mode(); ok {
		col, w, _ := settings.Style(m)
		fill(dst, tb.swatch, col)
		drawRect(dst, tb.swatch, tb.theme.Border)
		width = w
	} else {
		label(dst, tb.swatch.Min.X, tb.swatch.Max.Y-3, string(settings.EraserMode)[:1], tb.theme.ChromeText)
	}
	label(dst, tb.swatch.Max.X+4, tb.swatch.Max.Y-3, strconv.Itoa(width), tb.theme.ChromeText)
}
