package overlay

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Mode tags the pen a stroke was drawn with.
type Mode string

const (
	ModePencil Mode = "pencil"
	ModePen    Mode = "pen"
	ModeMarker Mode = "marker"
)

// Modes lists the drawing modes in toolbar order.
var Modes = []Mode{ModePencil, ModePen, ModeMarker}

// ParseMode maps a stored mode tag to a Mode. Unknown tags report false.
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModePencil:
		return ModePencil, true
	case ModePen:
		return ModePen, true
	case ModeMarker:
		return ModeMarker, true
	}
	return ModePen, false
}

// Tool is the active input tool. ToolText means no drawing tool is active
// and pointer input falls through to the text layer.
type Tool int

const (
	ToolText Tool = iota
	ToolPencil
	ToolPen
	ToolMarker
	ToolEraser
)

var toolNames = map[Tool]string{
	ToolText:   "text",
	ToolPencil: "pencil",
	ToolPen:    "pen",
	ToolMarker: "marker",
	ToolEraser: "eraser",
}

func (t Tool) String() string {
	if n, ok := toolNames[t]; ok {
		return n
	}
	return fmt.Sprintf("tool(%d)", int(t))
}

// Drawing reports whether the tool captures pointer paths.
func (t Tool) Drawing() bool { return t != ToolText }

// Mode returns the stroke mode produced by the tool.
func (t Tool) Mode() (Mode, bool) {
	switch t {
	case ToolPencil:
		return ModePencil, true
	case ToolPen:
		return ModePen, true
	case ToolMarker:
		return ModeMarker, true
	}
	return "", false
}

// ParseTool looks a tool up by name.
func ParseTool(s string) (Tool, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for t, n := range toolNames {
		if n == name {
			return t, nil
		}
	}
	return ToolText, fmt.Errorf("unknown tool %q", s)
}

// EraserMode selects the eraser algorithm.
type EraserMode string

const (
	EraserNormal EraserMode = "normal"
	EraserLasso  EraserMode = "lasso"
)

// ParseEraserMode accepts anything starting with "l" as lasso.
func ParseEraserMode(s string) EraserMode {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(s)), "l") {
		return EraserLasso
	}
	return EraserNormal
}

// MinEraserRadius is the smallest radius the radius eraser uses.
const MinEraserRadius = 4

// Settings is the per-session tool state held by a Surface. Sessions do
// not share Settings unless a caller hands the same value to both.
type Settings struct {
	Tool        Tool
	Colors      map[Mode]color.RGBA
	Widths      map[Mode]int
	Alphas      map[Mode]uint8
	EraserWidth int
	EraserMode  EraserMode
}

// DefaultSettings returns the stock palette.
func DefaultSettings() *Settings {
	return &Settings{
		Tool: ToolText,
		Colors: map[Mode]color.RGBA{
			ModePencil: {0x55, 0x55, 0x55, 0xff},
			ModePen:    {0x00, 0x00, 0x00, 0xff},
			ModeMarker: {0xff, 0xeb, 0x3b, 0xff},
		},
		Widths:      map[Mode]int{ModePencil: 2, ModePen: 4, ModeMarker: 14},
		Alphas:      map[Mode]uint8{ModePencil: 255, ModePen: 255, ModeMarker: 110},
		EraserWidth: 20,
		EraserMode:  EraserNormal,
	}
}

// Clone returns an independent copy.
func (s *Settings) Clone() *Settings {
	c := &Settings{
		Tool:        s.Tool,
		Colors:      make(map[Mode]color.RGBA, len(s.Colors)),
		Widths:      make(map[Mode]int, len(s.Widths)),
		Alphas:      make(map[Mode]uint8, len(s.Alphas)),
		EraserWidth: s.EraserWidth,
		EraserMode:  s.EraserMode,
	}
	for k, v := range s.Colors {
		c.Colors[k] = v
	}
	for k, v := range s.Widths {
		c.Widths[k] = v
	}
	for k, v := range s.Alphas {
		c.Alphas[k] = v
	}
	return c
}

// Style returns the colour, width and alpha new strokes of mode get.
func (s *Settings) Style(m Mode) (color.RGBA, int, uint8) {
	col, ok := s.Colors[m]
	if !ok {
		col = color.RGBA{A: 0xff}
	}
	w := s.Widths[m]
	if w < 1 {
		w = 1
	}
	a, ok := s.Alphas[m]
	if !ok {
		a = 255
	}
	return col, w, a
}

// SetWidth changes the width of a tool, never below one pixel.
func (s *Settings) SetWidth(t Tool, w int) {
	if w < 1 {
		w = 1
	}
	if t == ToolEraser {
		s.EraserWidth = w
		return
	}
	if m, ok := t.Mode(); ok {
		s.Widths[m] = w
	}
}

// EraserRadius is the radius the radius eraser applies.
func (s *Settings) EraserRadius() int {
	if s.EraserWidth < MinEraserRadius {
		return MinEraserRadius
	}
	return s.EraserWidth
}

// Prefs is the persisted form of the user-adjustable parts of Settings.
type Prefs struct {
	Colors     map[string]string `json:"colors"`
	Widths     map[string]int    `json:"widths"`
	EraserMode string            `json:"eraser_mode"`
}

// Prefs snapshots the colours, widths and eraser mode.
func (s *Settings) Prefs() Prefs {
	p := Prefs{
		Colors:     map[string]string{},
		Widths:     map[string]int{},
		EraserMode: string(s.EraserMode),
	}
	for _, m := range Modes {
		p.Colors[string(m)] = Hex(s.Colors[m])
		p.Widths[string(m)] = s.Widths[m]
	}
	p.Widths["eraser"] = s.EraserWidth
	return p
}

// ApplyPrefs overlays stored preferences. Malformed entries are ignored.
func (s *Settings) ApplyPrefs(p Prefs) {
	for _, m := range Modes {
		if hx, ok := p.Colors[string(m)]; ok {
			if c, err := ParseColor(hx); err == nil {
				c.A = 0xff
				s.Colors[m] = c
			}
		}
		if w, ok := p.Widths[string(m)]; ok && w > 0 {
			s.Widths[m] = w
		}
	}
	if w, ok := p.Widths["eraser"]; ok && w > 0 {
		s.EraserWidth = w
	}
	switch EraserMode(p.EraserMode) {
	case EraserNormal, EraserLasso:
		s.EraserMode = EraserMode(p.EraserMode)
	}
}

// ParseColor accepts CSS colour names and #rrggbb / #rrggbbaa values.
func ParseColor(s string) (color.RGBA, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	if c, ok := colornames.Map[name]; ok {
		return c, nil
	}
	if !strings.HasPrefix(name, "#") || (len(name) != 7 && len(name) != 9) {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	var parts [4]uint8
	parts[3] = 0xff
	for i := 0; i < (len(name)-1)/2; i++ {
		v, err := strconv.ParseUint(name[1+2*i:3+2*i], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q", s)
		}
		parts[i] = uint8(v)
	}
	return color.RGBA{parts[0], parts[1], parts[2], parts[3]}, nil
}

// Hex formats the RGB channels of c as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
