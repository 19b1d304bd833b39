package editor

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/inkpad/internal/overlay"
)

const (
	handleSize = 8
	cropMargin = 20
)

type cropAction int

const (
	cropNone cropAction = iota
	cropMove
	cropResizeTL
	cropResizeT
	cropResizeTR
	cropResizeR
	cropResizeBR
	cropResizeB
	cropResizeBL
	cropResizeL
)

var cropShortcuts = []struct {
	label  string
	action string
}{
	{"Enter Crop", actCropAccept},
	{"Esc Cancel", actCropCancel},
}

func cropHandleRects(rect image.Rectangle) []image.Rectangle {
	hs := handleSize / 2
	cx := (rect.Min.X + rect.Max.X) / 2
	cy := (rect.Min.Y + rect.Max.Y) / 2
	return []image.Rectangle{
		image.Rect(rect.Min.X-hs, rect.Min.Y-hs, rect.Min.X+hs, rect.Min.Y+hs), // tl
		image.Rect(cx-hs, rect.Min.Y-hs, cx+hs, rect.Min.Y+hs),                 // t
		image.Rect(rect.Max.X-hs, rect.Min.Y-hs, rect.Max.X+hs, rect.Min.Y+hs), // tr
		image.Rect(rect.Max.X-hs, cy-hs, rect.Max.X+hs, cy+hs),                 // r
		image.Rect(rect.Max.X-hs, rect.Max.Y-hs, rect.Max.X+hs, rect.Max.Y+hs), // br
		image.Rect(cx-hs, rect.Max.Y-hs, cx+hs, rect.Max.Y+hs),                 // b
		image.Rect(rect.Min.X-hs, rect.Max.Y-hs, rect.Min.X+hs, rect.Max.Y+hs), // bl
		image.Rect(rect.Min.X-hs, cy-hs, rect.Min.X+hs, cy+hs),                 // l
	}
}

// cropSelection is the state of the crop dialog. rect is in source
// coordinates; the bitmap is shown scaled by zoom inside view.
type cropSelection struct {
	src  *image.RGBA
	rect image.Rectangle
	view image.Rectangle
	zoom float64

	mode      cropAction
	start     image.Point
	startRect image.Rectangle
}

// newCropSelection fits src into area, never enlarging it, and starts
// from the centred default selection.
func newCropSelection(src *image.RGBA, area image.Rectangle) *cropSelection {
	b := src.Bounds()
	c := &cropSelection{
		src:  src,
		rect: overlay.CenterSelection(b.Size()).Add(b.Min),
	}
	c.fit(area)
	return c
}

func (c *cropSelection) fit(area image.Rectangle) {
	b := c.src.Bounds()
	inner := area.Inset(cropMargin)
	c.zoom = 1
	if b.Dx() > 0 && b.Dy() > 0 && inner.Dx() > 0 && inner.Dy() > 0 {
		c.zoom = math.Min(1, math.Min(float64(inner.Dx())/float64(b.Dx()), float64(inner.Dy())/float64(b.Dy())))
	}
	w := int(float64(b.Dx()) * c.zoom)
	h := int(float64(b.Dy()) * c.zoom)
	at := image.Pt(area.Min.X+(area.Dx()-w)/2, area.Min.Y+(area.Dy()-h)/2)
	c.view = image.Rectangle{Min: at, Max: at.Add(image.Pt(w, h))}
}

func (c *cropSelection) toView(p image.Point) image.Point {
	d := p.Sub(c.src.Bounds().Min)
	return c.view.Min.Add(image.Pt(int(math.Round(float64(d.X)*c.zoom)), int(math.Round(float64(d.Y)*c.zoom))))
}

func (c *cropSelection) toSource(p image.Point) image.Point {
	d := p.Sub(c.view.Min)
	return c.src.Bounds().Min.Add(image.Pt(int(math.Round(float64(d.X)/c.zoom)), int(math.Round(float64(d.Y)/c.zoom))))
}

// viewRect is the selection in window coordinates.
func (c *cropSelection) viewRect() image.Rectangle {
	return image.Rectangle{Min: c.toView(c.rect.Min), Max: c.toView(c.rect.Max)}
}

func (c *cropSelection) press(p image.Point) {
	action := cropNone
	for i, hr := range cropHandleRects(c.viewRect()) {
		if p.In(hr) {
			action = cropAction(i + int(cropResizeTL))
			break
		}
	}
	if action == cropNone {
		if !c.rect.Empty() && p.In(c.viewRect()) {
			action = cropMove
		} else {
			action = cropResizeBR
			sp := c.toSource(p)
			c.rect = image.Rectangle{Min: sp, Max: sp}
		}
	}
	c.mode = action
	c.start = p
	c.startRect = c.rect
}

// drag applies the movement since press to the selection.
func (c *cropSelection) drag(p image.Point) {
	if c.mode == cropNone {
		return
	}
	dx := int(math.Round(float64(p.X-c.start.X) / c.zoom))
	dy := int(math.Round(float64(p.Y-c.start.Y) / c.zoom))
	r := c.startRect
	switch c.mode {
	case cropMove:
		r = r.Add(image.Pt(dx, dy))
		r = r.Sub(overshoot(r, c.src.Bounds()))
	case cropResizeTL:
		r.Min.X += dx
		r.Min.Y += dy
	case cropResizeT:
		r.Min.Y += dy
	case cropResizeTR:
		r.Min.Y += dy
		r.Max.X += dx
	case cropResizeR:
		r.Max.X += dx
	case cropResizeBR:
		r.Max.X += dx
		r.Max.Y += dy
	case cropResizeB:
		r.Max.Y += dy
	case cropResizeBL:
		r.Min.X += dx
		r.Max.Y += dy
	case cropResizeL:
		r.Min.X += dx
	}
	c.rect = r.Canon().Intersect(c.src.Bounds())
}

func (c *cropSelection) release(p image.Point) {
	c.drag(p)
	c.mode = cropNone
}

// overshoot is how far r sticks out of bounds, for moving it back inside.
func overshoot(r, bounds image.Rectangle) image.Point {
	var d image.Point
	switch {
	case r.Min.X < bounds.Min.X:
		d.X = r.Min.X - bounds.Min.X
	case r.Max.X > bounds.Max.X:
		d.X = r.Max.X - bounds.Max.X
	}
	switch {
	case r.Min.Y < bounds.Min.Y:
		d.Y = r.Min.Y - bounds.Min.Y
	case r.Max.Y > bounds.Max.Y:
		d.Y = r.Max.Y - bounds.Max.Y
	}
	return d
}

// Crop shows src in a modal selection with move and resize handles.
// Enter accepts the selection and Esc cancels. Without a window the
// centred default is used.
func (e *Editor) Crop(src *image.RGBA) (image.Rectangle, bool) {
	if e.next == nil {
		return overlay.CenterCropper{}.Crop(src)
	}
	e.crop = newCropSelection(src, e.canvasRect())
	defer func() { e.crop = nil }()
	e.repaint()
	for {
		switch ev := e.next().(type) {
		case mouse.Event:
			if done, ok := e.cropMouse(ev); done {
				return e.cropResult(ok)
			}
		case key.Event:
			if ev.Direction == key.DirRelease {
				continue
			}
			switch ev.Code {
			case key.CodeReturnEnter, key.CodeKeypadEnter:
				return e.cropResult(true)
			case key.CodeEscape:
				return e.cropResult(false)
			}
		case size.Event:
			e.width, e.height = ev.WidthPx, ev.HeightPx
			e.crop.fit(e.canvasRect())
			e.repaint()
		case paint.Event:
			e.repaint()
		case postEvent:
			ev.fn()
		case lifecycle.Event:
			if ev.To == lifecycle.StageDead {
				e.dead = true
				return e.cropResult(false)
			}
		}
	}
}

func (e *Editor) cropResult(ok bool) (image.Rectangle, bool) {
	if !ok {
		return image.Rectangle{}, false
	}
	return e.crop.rect, true
}

// cropMouse drives the selection. done reports a click on one of the
// status bar shortcuts, ok whether it accepted.
func (e *Editor) cropMouse(ev mouse.Event) (done, ok bool) {
	p := image.Pt(int(ev.X), int(ev.Y))
	switch ev.Direction {
	case mouse.DirPress:
		if ev.Button != mouse.ButtonLeft {
			return false, false
		}
		for _, sc := range e.shortcuts {
			if p.In(sc.rect) {
				return true, sc.action == actCropAccept
			}
		}
		e.crop.press(p)
	case mouse.DirRelease:
		if e.crop.mode == cropNone {
			return false, false
		}
		e.crop.release(p)
	case mouse.DirNone:
		if e.crop.mode == cropNone {
			return false, false
		}
		e.crop.drag(p)
	}
	e.repaint()
	return false, false
}

// drawCrop covers the canvas with the crop dialog.
func (e *Editor) drawCrop(dst *image.RGBA) {
	th := e.theme
	c := e.crop
	fill(dst, e.canvasRect(), th.Chrome)
	xdraw.ApproxBiLinear.Scale(dst, c.view, c.src, c.src.Bounds(), draw.Src, nil)
	dim := image.NewUniform(color.RGBA{0, 0, 0, 0x60})
	sel := c.viewRect()
	for _, r := range []image.Rectangle{
		image.Rect(c.view.Min.X, c.view.Min.Y, c.view.Max.X, sel.Min.Y),
		image.Rect(c.view.Min.X, sel.Max.Y, c.view.Max.X, c.view.Max.Y),
		image.Rect(c.view.Min.X, sel.Min.Y, sel.Min.X, sel.Max.Y),
		image.Rect(sel.Max.X, sel.Min.Y, c.view.Max.X, sel.Max.Y),
	} {
		draw.Draw(dst, r.Intersect(c.view), dim, image.Point{}, draw.Over)
	}
	if sel.Empty() {
		return
	}
	drawDashedRect(dst, sel, 4, th.Selection, th.Paper)
	for _, hr := range cropHandleRects(sel) {
		fill(dst, hr, th.Paper)
		drawRect(dst, hr, th.Selection)
	}
}
