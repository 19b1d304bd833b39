package editor

import (
	"image"
	"image/color"
	"log"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/example/inkpad/internal/overlay"
	"github.com/example/inkpad/internal/render"
)

const textPadding = 8

var lassoColor = color.RGBA{0x60, 0x60, 0x60, 0xff}

var statusShortcuts = []struct {
	label  string
	action string
}{
	{"^Z Undo", actUndo},
	{"^Y Redo", actRedo},
	{"^S Save", actSave},
	{"^V Paste", actPaste},
	{"^C Copy", actCopy},
	{"L Lasso", actLasso},
	{"C Colour", actColor},
	{"[ ] Width", actWider},
}

// render paints the whole window into dst.
func (e *Editor) render(dst *image.RGBA) {
	th := e.theme
	b := dst.Bounds()
	fill(dst, b, th.Chrome)
	title := e.title()
	if e.sess.Dirty() {
		title += " *"
	}
	label(dst, 6, 16, title, th.ChromeText)
	tool := e.surface().Settings.Tool.String()
	label(dst, b.Dx()-labelWidth(tool)-6, 16, tool, th.ChromeText)

	e.bar.draw(dst, b.Dy(), e.surface().Settings, e.hoverTool)

	canvas := e.canvasRect()
	if !canvas.Empty() {
		view := image.NewRGBA(image.Rect(0, 0, canvas.Dx(), canvas.Dy()))
		fill(view, view.Bounds(), th.Paper)
		e.drawCanvas(view)
		xdraw.Copy(dst, canvas.Min, view, view.Bounds(), xdraw.Src, nil)
	}
	if e.crop != nil {
		e.drawCrop(dst)
	}

	e.drawStatus(dst)
	e.drawMessage(dst)
}

// drawCanvas paints the note as seen through the viewport: text, images,
// strokes, the gesture in progress and the selected image's controls.
func (e *Editor) drawCanvas(view *image.RGBA) {
	th := e.theme
	surf := e.surface()
	origin := image.Pt(0, surf.ScrollY)

	if tb := e.textBlock(view.Bounds().Dx() - 2*textPadding); tb != nil {
		tb.Draw(view, image.Pt(textPadding, textPadding-surf.ScrollY), th.PaperText)
	}
	for _, im := range surf.Doc.Images {
		render.DrawImage(view, im, origin)
	}
	for _, s := range surf.Doc.Strokes {
		render.DrawStroke(view, s, origin)
	}
	e.drawPending(view, origin)

	sel, ok := surf.Doc.Selected()
	if !ok {
		return
	}
	r := surf.Doc.Images[sel].Bounds().Sub(origin)
	drawDashedRect(view, r, 4, th.Selection, th.Paper)

	crop := surf.CropButton(sel)
	fill(view, crop, th.Button)
	drawRect(view, crop, th.Border)
	label(view, crop.Min.X+6, crop.Min.Y+15, "Crop", th.ButtonText)

	del := surf.DeleteButton(sel)
	fill(view, del, th.Delete)
	label(view, del.Min.X+6, del.Min.Y+14, "x", th.MessageText)

	fill(view, surf.ResizeHandle(sel), th.Selection)
}

func (e *Editor) drawPending(view *image.RGBA, origin image.Point) {
	surf := e.surface()
	pts := surf.Pending()
	if len(pts) < 2 {
		return
	}
	switch surf.State() {
	case overlay.StateDrawing:
		m, ok := surf.Settings.Tool.Mode()
		if !ok {
			return
		}
		col, w, a := surf.Settings.Style(m)
		render.DrawStroke(view, overlay.Stroke{Points: pts, Color: col, Width: w, Alpha: a, Mode: m}, origin)
	case overlay.StateErasing:
		trail := overlay.Stroke{Points: pts, Color: lassoColor, Width: 1, Alpha: 0xff}
		if surf.Settings.EraserMode == overlay.EraserNormal {
			trail.Width = 2 * surf.Settings.EraserRadius()
			trail.Alpha = 0x40
		}
		render.DrawStroke(view, trail, origin)
	}
}

// textBlock lays out the plain note body, reusing the previous layout
// while neither the body nor the width changed.
func (e *Editor) textBlock(width int) *render.TextBlock {
	body := e.sess.Content
	if !e.plainBody {
		body = render.PlainText(body)
	}
	if e.layout.block != nil && e.layout.body == body && e.layout.width == width {
		return e.layout.block
	}
	tb, err := render.LayoutText(body, width, render.DefaultTextSize)
	if err != nil {
		log.Printf("layout text: %v", err)
		return nil
	}
	e.layout.body, e.layout.width, e.layout.block = body, width, tb
	return tb
}

func (e *Editor) drawStatus(dst *image.RGBA) {
	b := dst.Bounds()
	top := b.Dy() - bottomHeight
	fill(dst, image.Rect(0, top, b.Dx(), b.Dy()), e.theme.Chrome)
	e.shortcuts = e.shortcuts[:0]
	entries := statusShortcuts
	if e.crop != nil {
		entries = cropShortcuts
	}
	x := 4
	for _, s := range entries {
		w := labelWidth(s.label) + 6
		if x+w > b.Dx() {
			break
		}
		sc := Shortcut{label: s.label, action: s.action, rect: image.Rect(x, top+3, x+w, top+bottomHeight-3)}
		sc.Draw(dst, e.theme, StateDefault)
		e.shortcuts = append(e.shortcuts, sc)
		x += w + 4
	}
}

func (e *Editor) drawMessage(dst *image.RGBA) {
	if e.message == "" || !e.now().Before(e.messageUntil) {
		return
	}
	lines := strings.Split(e.message, "\n")
	w := 0
	for _, l := range lines {
		w = max(w, labelWidth(l))
	}
	h := len(lines) * 16
	b := dst.Bounds()
	box := image.Rect(0, 0, w+20, h+12).Add(image.Pt((b.Dx()-w-20)/2, (b.Dy()-h-12)/2))
	fill(dst, box, e.theme.Message)
	for i, l := range lines {
		label(dst, box.Min.X+10, box.Min.Y+18+i*16, l, e.theme.MessageText)
	}
}
