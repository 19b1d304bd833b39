// Package editor is the interactive note window: a shiny window hosting
// an annotation surface over the note text.
package editor

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/inkpad/internal/clipboard"
	"github.com/example/inkpad/internal/notify"
	"github.com/example/inkpad/internal/overlay"
	"github.com/example/inkpad/internal/render"
	"github.com/example/inkpad/internal/session"
	"github.com/example/inkpad/internal/theme"
)

const (
	scrollStep     = 40
	messageTimeout = 2 * time.Second
)

// palette is cycled through with the colour key.
var palette = []color.RGBA{
	{0x00, 0x00, 0x00, 0xff},
	{0x55, 0x55, 0x55, 0xff},
	{0xe5, 0x39, 0x35, 0xff},
	{0x1e, 0x88, 0xe5, 0xff},
	{0x43, 0xa0, 0x47, 0xff},
	{0xff, 0xeb, 0x3b, 0xff},
	{0xff, 0x98, 0x00, 0xff},
	{0x8e, 0x24, 0xaa, 0xff},
}

// postEvent carries work from another goroutine onto the event loop.
type postEvent struct{ fn func() }

// Editor owns the window state. Everything except Post runs on the
// event loop.
type Editor struct {
	theme       *theme.Theme
	notifier    *notify.Notifier
	exportWidth int
	now         func() time.Time

	posts    chan func()
	stopped  chan struct{}
	stopOnce sync.Once
	sess     *session.Session
	bar      *toolbar

	// next and repaint are bound to the window while it is open.
	next    func() any
	repaint func()
	crop    *cropSelection
	dead    bool

	width, height int
	hoverTool     int
	shortcuts     []Shortcut

	message      string
	messageUntil time.Time

	pendingDelete int
	pendingUntil  time.Time

	plainBody bool
	layout    struct {
		body  string
		width int
		block *render.TextBlock
	}
	err error
}

// Option modifies an Editor during creation.
type Option func(*Editor)

// WithNotifier reports saves and copies through n.
func WithNotifier(n *notify.Notifier) Option { return func(e *Editor) { e.notifier = n } }

// WithExportWidth sets the width of images copied to the clipboard.
func WithExportWidth(w int) Option { return func(e *Editor) { e.exportWidth = w } }

// WithTheme sets the colour scheme. A nil theme keeps the default.
func WithTheme(t *theme.Theme) Option {
	return func(e *Editor) {
		if t != nil {
			e.theme = t
		}
	}
}

// WithSize sets the initial window size.
func WithSize(w, h int) Option { return func(e *Editor) { e.width, e.height = w, h } }

// New creates an Editor. Call Run with a session to show it.
func New(opts ...Option) *Editor {
	e := &Editor{
		theme:         theme.Default(),
		exportWidth:   render.MinWidth,
		now:           time.Now,
		posts:         make(chan func(), 16),
		stopped:       make(chan struct{}),
		width:         1000,
		height:        760,
		hoverTool:     -1,
		pendingDelete: -1,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Post queues fn to run on the event loop. It is safe to call from any
// goroutine. Once the window is closing fn is dropped.
func (e *Editor) Post(fn func()) {
	select {
	case <-e.stopped:
	case e.posts <- fn:
	}
}

func (e *Editor) stop() {
	e.stopOnce.Do(func() { close(e.stopped) })
}

// SurfaceOptions are the surface callbacks the editor needs.
func (e *Editor) SurfaceOptions() []overlay.SurfaceOption {
	return []overlay.SurfaceOption{
		overlay.WithConfirm(e.confirmDelete),
		overlay.WithPassThrough(e.passThrough),
		overlay.WithCropper(e),
	}
}

// Saved is the session save hook.
func (e *Editor) Saved(err error) {
	if err != nil {
		e.flash("save failed: " + err.Error())
	}
}

// Run shows the window until it is closed. The session is saved on exit.
func (e *Editor) Run(sess *session.Session) error {
	e.attach(sess)
	driver.Main(e.main)
	return e.err
}

func (e *Editor) attach(sess *session.Session) {
	e.sess = sess
	e.bar = newToolbar(e.theme, e.selectTool)
	e.bar.layout()
}

func (e *Editor) surface() *overlay.Surface { return e.sess.Surface }

func (e *Editor) title() string {
	t := strings.TrimSpace(e.sess.Title)
	if t == "" {
		t = session.UntitledTitle
	}
	return t
}

func (e *Editor) main(s screen.Screen) {
	defer e.stop()
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: e.width, Height: e.height, Title: e.title() + " - inkpad"})
	if err != nil {
		e.err = fmt.Errorf("new window: %w", err)
		return
	}
	defer w.Release()
	e.next = w.NextEvent
	e.repaint = func() { e.paint(s, w) }

	go func() {
		for {
			select {
			case fn := <-e.posts:
				w.Send(postEvent{fn})
			case <-e.stopped:
				return
			}
		}
	}()

	for {
		switch ev := e.next().(type) {
		case postEvent:
			ev.fn()
			w.Send(paint.Event{})
		case lifecycle.Event:
			if ev.To == lifecycle.StageDead {
				e.close()
				return
			}
		case size.Event:
			e.width, e.height = ev.WidthPx, ev.HeightPx
			w.Send(paint.Event{})
		case paint.Event:
			e.paint(s, w)
		case mouse.Event:
			repaint := e.handleMouse(ev)
			if e.dead {
				e.close()
				return
			}
			if repaint {
				w.Send(paint.Event{})
			}
		case key.Event:
			quit, repaint := e.handleKey(ev)
			if quit {
				e.close()
				return
			}
			if repaint {
				w.Send(paint.Event{})
			}
		case error:
			log.Print(ev)
		}
	}
}

func (e *Editor) close() {
	e.stop()
	if err := e.sess.Close(context.Background()); err != nil {
		e.err = err
	}
}

func (e *Editor) paint(s screen.Screen, w screen.Window) {
	b, err := s.NewBuffer(image.Pt(e.width, e.height))
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	e.render(b.RGBA())
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// canvasRect is the window area the note is shown in.
func (e *Editor) canvasRect() image.Rectangle {
	return image.Rect(e.bar.width, titleHeight, e.width, e.height-bottomHeight)
}

func (e *Editor) flash(msg string) {
	log.Print(msg)
	e.message = msg
	e.messageUntil = e.now().Add(messageTimeout)
}

func (e *Editor) confirmDelete(i int) bool {
	if e.pendingDelete == i && e.now().Before(e.pendingUntil) {
		e.pendingDelete = -1
		return true
	}
	e.pendingDelete = i
	e.pendingUntil = e.now().Add(messageTimeout)
	e.flash("click delete again to remove the image")
	return false
}

func (e *Editor) passThrough(image.Point) {
	if e.surface().Settings.Tool == overlay.ToolText {
		e.flash("text mode: type to edit the note")
	}
}

func (e *Editor) selectTool(t overlay.Tool) {
	e.surface().SetTool(t)
}

func (e *Editor) scroll(dy int) {
	s := e.surface()
	s.ScrollY = max(0, s.ScrollY+dy)
}

func (e *Editor) handleMouse(ev mouse.Event) bool {
	p := image.Pt(int(ev.X), int(ev.Y))
	switch ev.Button {
	case mouse.ButtonWheelUp:
		e.scroll(-scrollStep)
		return true
	case mouse.ButtonWheelDown:
		e.scroll(scrollStep)
		return true
	}
	surf := e.surface()
	canvas := e.canvasRect()
	vp := p.Sub(canvas.Min)

	switch ev.Direction {
	case mouse.DirPress:
		if ev.Button != mouse.ButtonLeft {
			return false
		}
		if b, ok := e.bar.hit(p); ok {
			b.Activate()
			return true
		}
		for _, sc := range e.shortcuts {
			if p.In(sc.rect) {
				_, repaint := e.run(sc.action)
				return repaint
			}
		}
		if !p.In(canvas) {
			return false
		}
		surf.PointerDown(vp)
		return true
	case mouse.DirRelease:
		if surf.State() == overlay.StateIdle {
			return false
		}
		surf.PointerUp(vp)
		return true
	case mouse.DirNone:
		if surf.State() != overlay.StateIdle {
			surf.PointerMove(vp)
			return true
		}
		hover := -1
		for i, b := range e.bar.buttons {
			if p.In(b.Rect()) {
				hover = i
			}
		}
		if hover != e.hoverTool {
			e.hoverTool = hover
			return true
		}
	}
	return false
}

func (e *Editor) handleKey(ev key.Event) (quit, repaint bool) {
	if ev.Direction == key.DirRelease {
		return false, false
	}
	textMode := e.surface().Settings.Tool == overlay.ToolText
	if action, ok := lookup(ev, textMode); ok {
		return e.run(action)
	}
	if !textMode {
		return false, false
	}
	body := e.sess.Content
	if !e.plainBody {
		body = render.PlainText(body)
	}
	body, changed := editText(body, ev)
	if !changed {
		return false, false
	}
	e.plainBody = true
	e.sess.SetText(e.sess.Title, body)
	return false, true
}

// run performs a named action.
func (e *Editor) run(action string) (quit, repaint bool) {
	surf := e.surface()
	settings := surf.Settings
	switch action {
	case actQuit:
		return true, false
	case actUndo:
		surf.Undo()
	case actRedo:
		surf.Redo()
	case actSave:
		e.save()
	case actPaste:
		e.paste()
	case actCopy:
		e.copy()
	case actText:
		e.selectTool(overlay.ToolText)
	case actPencil:
		e.selectTool(overlay.ToolPencil)
	case actPen:
		e.selectTool(overlay.ToolPen)
	case actMarker:
		e.selectTool(overlay.ToolMarker)
	case actEraser:
		e.selectTool(overlay.ToolEraser)
	case actLasso:
		if settings.EraserMode == overlay.EraserLasso {
			settings.EraserMode = overlay.EraserNormal
		} else {
			settings.EraserMode = overlay.EraserLasso
		}
		e.flash("eraser: " + string(settings.EraserMode))
		e.sess.SettingsChanged()
	case actWider, actNarrower:
		e.adjustWidth(action == actWider)
	case actColor:
		e.cycleColor()
	case actDelete:
		if i, ok := surf.Doc.Selected(); ok {
			surf.DeleteImage(i)
		}
	case actScrollUp:
		e.scroll(-scrollStep)
	case actScrollDown:
		e.scroll(scrollStep)
	default:
		return false, false
	}
	return false, true
}

func (e *Editor) adjustWidth(wider bool) {
	settings := e.surface().Settings
	tool := settings.Tool
	cur := settings.EraserWidth
	if m, ok := tool.Mode(); ok {
		_, cur, _ = settings.Style(m)
	} else if tool != overlay.ToolEraser {
		return
	}
	step := 1
	if cur >= 8 {
		step = 2
	}
	if !wider {
		step = -step
	}
	settings.SetWidth(tool, cur+step)
	e.sess.SettingsChanged()
}

func (e *Editor) cycleColor() {
	settings := e.surface().Settings
	m, ok := settings.Tool.Mode()
	if !ok {
		return
	}
	next := 0
	for i, c := range palette {
		if c == settings.Colors[m] {
			next = (i + 1) % len(palette)
			break
		}
	}
	settings.Colors[m] = palette[next]
	e.sess.SettingsChanged()
}

func (e *Editor) save() {
	if err := e.sess.Save(context.Background()); err != nil {
		e.flash("save failed: " + err.Error())
		return
	}
	e.notifier.Saved(e.title())
	e.flash("saved " + e.title())
}

func (e *Editor) paste() {
	img, err := clipboard.ReadImage()
	if err != nil {
		e.flash("paste: " + err.Error())
		return
	}
	e.surface().InsertImage(img)
}

func (e *Editor) copy() {
	img, err := render.Flatten(e.surface().Doc, e.sess.Content, e.exportWidth)
	if err != nil {
		e.flash("copy: " + err.Error())
		return
	}
	if err := clipboard.WriteImage(img); err != nil {
		e.flash("copy: " + err.Error())
		return
	}
	e.notifier.Copied("note image")
	e.flash("note copied to clipboard")
}
