package editor

import (
	"context"
	"image"
	"image/color"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/inkpad/internal/codec"
	"github.com/example/inkpad/internal/overlay"
	"github.com/example/inkpad/internal/session"
	"github.com/example/inkpad/internal/store"
	"github.com/example/inkpad/internal/theme"
)

var red = color.RGBA{0xff, 0x00, 0x00, 0xff}

type harness struct {
	*Editor
	store *store.Store
	clock time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "notes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	id, err := st.CreateNote(ctx, 1, nil, "Lecture", "<p>hi</p>")
	require.NoError(t, err)

	h := &harness{store: st, clock: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	h.Editor = New(WithSize(800, 600))
	h.now = func() time.Time { return h.clock }
	media := codec.NewMedia(filepath.Join(dir, "media"), codec.NamingOrdinal)
	sess, err := session.Open(ctx, st, media, 1, id, session.Options{Surface: h.SurfaceOptions()})
	require.NoError(t, err)
	h.attach(sess)
	return h
}

// canvas converts a canvas point to a window point.
func (h *harness) canvas(x, y int) image.Point {
	return image.Pt(x, y).Add(h.canvasRect().Min)
}

func (h *harness) click(p image.Point) bool {
	down := h.handleMouse(mouse.Event{X: float32(p.X), Y: float32(p.Y), Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	up := h.handleMouse(mouse.Event{X: float32(p.X), Y: float32(p.Y), Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
	return down || up
}

func (h *harness) drag(path ...image.Point) {
	first := path[0]
	h.handleMouse(mouse.Event{X: float32(first.X), Y: float32(first.Y), Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	for _, p := range path[1:] {
		h.handleMouse(mouse.Event{X: float32(p.X), Y: float32(p.Y)})
	}
	last := path[len(path)-1]
	h.handleMouse(mouse.Event{X: float32(last.X), Y: float32(last.Y), Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
}

func (h *harness) pickTool(t overlay.Tool) {
	for _, b := range h.bar.buttons {
		if b.Button.(*ToolButton).tool == t {
			h.click(b.Rect().Min.Add(image.Pt(2, 2)))
			return
		}
	}
}

func (h *harness) press(r rune, code key.Code, mods key.Modifiers) (quit, repaint bool) {
	return h.handleKey(key.Event{Rune: r, Code: code, Modifiers: mods, Direction: key.DirPress})
}

func (h *harness) snapshot() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 800, 600))
	h.render(img)
	return img
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		ev       key.Event
		textMode bool
		want     string
		ok       bool
	}{
		{"undo", key.Event{Rune: 'z', Modifiers: key.ModControl}, false, actUndo, true},
		{"undo while typing", key.Event{Rune: 'z', Modifiers: key.ModControl}, true, actUndo, true},
		{"redo", key.Event{Rune: 'Z', Modifiers: key.ModControl | key.ModShift}, false, actRedo, true},
		{"pen", key.Event{Rune: '2'}, false, actPen, true},
		{"digits are text while typing", key.Event{Rune: '2'}, true, "", false},
		{"shifted bracket", key.Event{Rune: ']', Modifiers: key.ModShift}, false, actWider, true},
		{"backspace deletes image", key.Event{Rune: -1, Code: key.CodeDeleteBackspace}, false, actDelete, true},
		{"backspace edits text", key.Event{Rune: -1, Code: key.CodeDeleteBackspace}, true, "", false},
		{"escape", key.Event{Rune: -1, Code: key.CodeEscape}, true, actText, true},
		{"alt ignored", key.Event{Rune: 'z', Modifiers: key.ModAlt}, false, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := lookup(tt.ev, tt.textMode)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEditText(t *testing.T) {
	body, ok := editText("ab", key.Event{Rune: 'c'})
	assert.True(t, ok)
	assert.Equal(t, "abc", body)

	body, ok = editText("añ", key.Event{Rune: -1, Code: key.CodeDeleteBackspace})
	assert.True(t, ok)
	assert.Equal(t, "a", body)

	body, ok = editText("a", key.Event{Rune: '\r', Code: key.CodeReturnEnter})
	assert.True(t, ok)
	assert.Equal(t, "a\n", body)

	_, ok = editText("", key.Event{Rune: -1, Code: key.CodeDeleteBackspace})
	assert.False(t, ok)
	_, ok = editText("a", key.Event{Rune: 'v', Modifiers: key.ModControl})
	assert.False(t, ok)
}

func TestToolbarSelectsTool(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, overlay.ToolText, h.surface().Settings.Tool)
	h.pickTool(overlay.ToolMarker)
	assert.Equal(t, overlay.ToolMarker, h.surface().Settings.Tool)

	_, repaint := h.press(-1, key.CodeEscape, 0)
	assert.True(t, repaint)
	assert.Equal(t, overlay.ToolText, h.surface().Settings.Tool)
}

func TestDrawAndUndo(t *testing.T) {
	h := newHarness(t)
	h.pickTool(overlay.ToolPen)
	h.drag(h.canvas(10, 10), h.canvas(30, 20), h.canvas(50, 10))

	doc := h.surface().Doc
	require.Len(t, doc.Strokes, 1)
	assert.Equal(t, image.Pt(10, 10), doc.Strokes[0].Points[0])
	assert.True(t, h.sess.Dirty())

	h.press('z', key.CodeZ, key.ModControl)
	assert.Empty(t, doc.Strokes)
	h.press('y', key.CodeY, key.ModControl)
	assert.Len(t, doc.Strokes, 1)
}

func TestClickOutsideCanvasIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.pickTool(overlay.ToolPen)
	h.drag(image.Pt(300, 5), image.Pt(350, 8))
	assert.Empty(t, h.surface().Doc.Strokes)
	assert.Equal(t, overlay.StateIdle, h.surface().State())
}

func TestTapReturnsToText(t *testing.T) {
	h := newHarness(t)
	h.pickTool(overlay.ToolPencil)
	h.click(h.canvas(100, 100))
	assert.Equal(t, overlay.ToolText, h.surface().Settings.Tool)
	assert.Equal(t, "text mode: type to edit the note", h.message)
}

func TestTyping(t *testing.T) {
	h := newHarness(t)
	_, repaint := h.press('x', key.CodeX, 0)
	assert.True(t, repaint)
	assert.Equal(t, "hix", h.sess.Content)

	h.press(-1, key.CodeDeleteBackspace, 0)
	h.press('\r', key.CodeReturnEnter, 0)
	h.press('2', key.Code2, 0)
	assert.Equal(t, "hi\n2", h.sess.Content)
	assert.Equal(t, overlay.ToolText, h.surface().Settings.Tool)
	assert.True(t, h.sess.Dirty())

	quit, _ := h.press('q', key.CodeQ, 0)
	assert.False(t, quit)
	quit, _ = h.press('q', key.CodeQ, key.ModControl)
	assert.True(t, quit)
}

func TestDeleteNeedsSecondClick(t *testing.T) {
	h := newHarness(t)
	surf := h.surface()
	surf.InsertImage(image.NewRGBA(image.Rect(0, 0, 100, 80)))
	require.Len(t, surf.Doc.Images, 1)

	btn := surf.DeleteButton(0)
	at := h.canvas(btn.Min.X+4, btn.Min.Y+4)

	h.click(at)
	assert.Len(t, surf.Doc.Images, 1)
	assert.Equal(t, "click delete again to remove the image", h.message)

	h.clock = h.clock.Add(3 * time.Second)
	h.click(at)
	assert.Len(t, surf.Doc.Images, 1, "an expired confirmation starts over")

	h.clock = h.clock.Add(time.Second)
	h.click(at)
	assert.Empty(t, surf.Doc.Images)
}

func TestDeleteKey(t *testing.T) {
	h := newHarness(t)
	surf := h.surface()
	surf.InsertImage(image.NewRGBA(image.Rect(0, 0, 20, 20)))
	h.pickTool(overlay.ToolEraser)

	h.press(-1, key.CodeDeleteForward, 0)
	assert.Len(t, surf.Doc.Images, 1)
	h.press(-1, key.CodeDeleteForward, 0)
	assert.Empty(t, surf.Doc.Images)
}

func TestWidthColorAndLassoKeys(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	settings := h.surface().Settings

	h.pickTool(overlay.ToolEraser)
	h.press(']', key.CodeRightSquareBracket, 0)
	assert.Equal(t, 22, settings.EraserWidth)
	h.press('[', key.CodeLeftSquareBracket, 0)
	h.press('[', key.CodeLeftSquareBracket, 0)
	assert.Equal(t, 18, settings.EraserWidth)

	h.press('l', key.CodeL, 0)
	assert.Equal(t, overlay.EraserLasso, settings.EraserMode)

	h.pickTool(overlay.ToolPen)
	h.press('c', key.CodeC, 0)
	assert.Equal(t, palette[1], settings.Colors[overlay.ModePen])

	prefs, err := h.store.ToolPrefs(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "lasso", prefs.EraserMode)
	assert.Equal(t, 18, prefs.Widths["eraser"])
	assert.Equal(t, "#555555", prefs.Colors["pen"])
}

func TestWheelScroll(t *testing.T) {
	h := newHarness(t)
	wheel := func(b mouse.Button) {
		h.handleMouse(mouse.Event{X: 200, Y: 200, Button: b, Direction: mouse.DirStep})
	}
	wheel(mouse.ButtonWheelDown)
	wheel(mouse.ButtonWheelDown)
	assert.Equal(t, 2*scrollStep, h.surface().ScrollY)
	wheel(mouse.ButtonWheelUp)
	wheel(mouse.ButtonWheelUp)
	wheel(mouse.ButtonWheelUp)
	assert.Equal(t, 0, h.surface().ScrollY)
}

func TestRender(t *testing.T) {
	h := newHarness(t)
	h.surface().Settings.Colors[overlay.ModePen] = red
	h.pickTool(overlay.ToolPen)
	h.drag(h.canvas(100, 100), h.canvas(150, 100), h.canvas(200, 100))

	img := h.snapshot()
	assert.Equal(t, theme.Default().Chrome, img.RGBAAt(2, 2))
	at := h.canvas(150, 100)
	assert.Equal(t, red, img.RGBAAt(at.X, at.Y))

	h.scroll(50)
	img = h.snapshot()
	assert.Equal(t, theme.Default().Paper, img.RGBAAt(at.X, at.Y))
	scrolled := h.canvas(150, 50)
	assert.Equal(t, red, img.RGBAAt(scrolled.X, scrolled.Y))
}

func TestStatusShortcuts(t *testing.T) {
	h := newHarness(t)
	h.pickTool(overlay.ToolPen)
	h.drag(h.canvas(10, 10), h.canvas(40, 40))
	require.Len(t, h.surface().Doc.Strokes, 1)

	h.snapshot()
	require.NotEmpty(t, h.shortcuts)
	undo := h.shortcuts[0]
	require.Equal(t, actUndo, undo.action)
	assert.True(t, h.click(undo.rect.Min.Add(image.Pt(2, 2))))
	assert.Empty(t, h.surface().Doc.Strokes)
}

func TestSaveKey(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.press('!', key.Code1, key.ModShift)
	h.press('s', key.CodeS, key.ModControl)
	assert.False(t, h.sess.Dirty())
	assert.Equal(t, "saved Lecture", h.message)

	n, err := h.store.GetNote(ctx, 1, h.sess.NoteID)
	require.NoError(t, err)
	assert.Equal(t, "hi!", n.Content)
}

func TestPostAfterCloseDoesNotBlock(t *testing.T) {
	h := newHarness(t)
	h.close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 64; i++ {
			h.Post(func() {})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Post blocked after the window closed")
	}
}

func leftPress(p image.Point) mouse.Event {
	return mouse.Event{X: float32(p.X), Y: float32(p.Y), Button: mouse.ButtonLeft, Direction: mouse.DirPress}
}

func leftRelease(p image.Point) mouse.Event {
	return mouse.Event{X: float32(p.X), Y: float32(p.Y), Button: mouse.ButtonLeft, Direction: mouse.DirRelease}
}

func moveTo(p image.Point) mouse.Event {
	return mouse.Event{X: float32(p.X), Y: float32(p.Y)}
}

// script feeds the window events produced by steps, one per call, and
// renders off screen.
func (h *harness) script(t *testing.T, steps ...func() any) {
	h.repaint = func() { h.snapshot() }
	h.next = func() any {
		if len(steps) == 0 {
			t.Fatal("event loop asked for more events than scripted")
		}
		step := steps[0]
		steps = steps[1:]
		return step()
	}
}

func (h *harness) clickCrop() {
	btn := h.surface().CropButton(0)
	h.click(h.canvas(btn.Min.X+4, btn.Min.Y+4))
}

func TestCropDragHandle(t *testing.T) {
	h := newHarness(t)
	surf := h.surface()
	surf.InsertImage(image.NewRGBA(image.Rect(0, 0, 100, 80)))

	var grab image.Point
	h.script(t,
		func() any {
			require.NotNil(t, h.crop)
			assert.Equal(t, image.Rect(15, 12, 85, 68), h.crop.rect, "starts from the centred default")
			grab = h.crop.viewRect().Max
			return leftPress(grab)
		},
		func() any { return moveTo(grab.Add(image.Pt(-20, -10))) },
		func() any { return leftRelease(grab.Add(image.Pt(-20, -10))) },
		func() any { return key.Event{Code: key.CodeReturnEnter, Direction: key.DirPress} },
	)
	h.clickCrop()

	assert.Nil(t, h.crop)
	assert.Equal(t, image.Pt(50, 46), surf.Doc.Images[0].Source().Bounds().Size())
	assert.True(t, h.sess.Dirty())
}

func TestCropCancel(t *testing.T) {
	h := newHarness(t)
	surf := h.surface()
	surf.InsertImage(image.NewRGBA(image.Rect(0, 0, 100, 80)))

	var grab image.Point
	h.script(t,
		func() any {
			grab = h.crop.viewRect().Min
			return leftPress(grab)
		},
		func() any { return leftRelease(grab.Add(image.Pt(30, 30))) },
		func() any { return key.Event{Code: key.CodeEscape, Direction: key.DirPress} },
	)
	h.clickCrop()

	assert.Nil(t, h.crop)
	assert.Equal(t, image.Pt(100, 80), surf.Doc.Images[0].Source().Bounds().Size())
}

func TestCropMoveAndAcceptFromStatusBar(t *testing.T) {
	h := newHarness(t)
	surf := h.surface()
	surf.InsertImage(image.NewRGBA(image.Rect(0, 0, 100, 80)))

	var grab image.Point
	h.script(t,
		func() any {
			r := h.crop.viewRect()
			grab = r.Min.Add(r.Size().Div(2))
			return leftPress(grab)
		},
		func() any { return leftRelease(grab.Add(image.Pt(100, 100))) },
		func() any {
			assert.Equal(t, image.Rect(30, 24, 100, 80), h.crop.rect, "moved against the bottom right edge")
			for _, sc := range h.shortcuts {
				if sc.action == actCropAccept {
					return leftPress(sc.rect.Min.Add(image.Pt(2, 2)))
				}
			}
			t.Fatal("no accept shortcut while cropping")
			return nil
		},
	)
	h.clickCrop()

	src := surf.Doc.Images[0].Source()
	assert.Equal(t, image.Pt(70, 56), src.Bounds().Size())
}

func TestCropSelectionHandles(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 80))
	tests := []struct {
		name     string
		from, to image.Point // source coordinates
		want     image.Rectangle
	}{
		{"top left", image.Pt(15, 12), image.Pt(25, 17), image.Rect(25, 17, 85, 68)},
		{"left past right", image.Pt(15, 40), image.Pt(115, 40), image.Rect(85, 12, 100, 68)},
		{"new selection", image.Pt(2, 2), image.Pt(10, 9), image.Rect(2, 2, 10, 9)},
		{"move clamps", image.Pt(50, 40), image.Pt(0, -10), image.Rect(0, 0, 70, 56)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCropSelection(src, image.Rect(0, 0, 200, 200))
			require.Equal(t, 1.0, c.zoom)
			c.press(c.toView(tt.from))
			c.release(c.toView(tt.to))
			assert.Equal(t, tt.want, c.rect)
			assert.Equal(t, cropNone, c.mode)
		})
	}
}
