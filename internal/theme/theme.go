// Package theme holds the colour schemes of the note editor window.
package theme

import (
	"image/color"
	"sort"
)

// Theme is the palette of the editor chrome and canvas.
type Theme struct {
	Name string

	Chrome     color.RGBA // title, tool and status bars
	ChromeText color.RGBA

	Button      color.RGBA
	ButtonHover color.RGBA
	ButtonPress color.RGBA
	ButtonText  color.RGBA
	Border      color.RGBA

	Paper     color.RGBA // canvas behind the note
	PaperText color.RGBA

	Selection   color.RGBA // frame and resize handle of the selected image
	Delete      color.RGBA
	Message     color.RGBA
	MessageText color.RGBA
}

// Default returns the light theme.
func Default() *Theme {
	return &Theme{
		Name:        "default",
		Chrome:      color.RGBA{220, 220, 220, 255},
		ChromeText:  color.RGBA{0, 0, 0, 255},
		Button:      color.RGBA{200, 200, 200, 255},
		ButtonHover: color.RGBA{180, 180, 180, 255},
		ButtonPress: color.RGBA{150, 150, 150, 255},
		ButtonText:  color.RGBA{0, 0, 0, 255},
		Border:      color.RGBA{0, 0, 0, 255},
		Paper:       color.RGBA{255, 255, 255, 255},
		PaperText:   color.RGBA{0, 0, 0, 255},
		Selection:   color.RGBA{0x21, 0x96, 0xf3, 255},
		Delete:      color.RGBA{0xe5, 0x39, 0x35, 255},
		Message:     color.RGBA{0x30, 0x30, 0x30, 0xe0},
		MessageText: color.RGBA{255, 255, 255, 255},
	}
}

// Dark returns a dark chrome around a dim paper.
func Dark() *Theme {
	t := Default()
	t.Name = "dark"
	t.Chrome = color.RGBA{0x26, 0x26, 0x26, 255}
	t.ChromeText = color.RGBA{0xe0, 0xe0, 0xe0, 255}
	t.Button = color.RGBA{0x3a, 0x3a, 0x3a, 255}
	t.ButtonHover = color.RGBA{0x4a, 0x4a, 0x4a, 255}
	t.ButtonPress = color.RGBA{0x5e, 0x5e, 0x5e, 255}
	t.ButtonText = color.RGBA{0xe0, 0xe0, 0xe0, 255}
	t.Border = color.RGBA{0x80, 0x80, 0x80, 255}
	t.Paper = color.RGBA{0xf2, 0xef, 0xe6, 255}
	return t
}

// HighContrast returns black chrome with white text and yellow accents.
func HighContrast() *Theme {
	t := Default()
	t.Name = "high_contrast"
	t.Chrome = color.RGBA{0, 0, 0, 255}
	t.ChromeText = color.RGBA{255, 255, 255, 255}
	t.Button = color.RGBA{0, 0, 0, 255}
	t.ButtonHover = color.RGBA{0x40, 0x40, 0x00, 255}
	t.ButtonPress = color.RGBA{0xff, 0xff, 0x00, 255}
	t.ButtonText = color.RGBA{255, 255, 255, 255}
	t.Border = color.RGBA{255, 255, 255, 255}
	t.Selection = color.RGBA{0xff, 0xff, 0x00, 255}
	return t
}

var builtin = map[string]func() *Theme{
	"default":       Default,
	"dark":          Dark,
	"high_contrast": HighContrast,
}

// Names lists the built in themes.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
