package overlay

import (
	"image"
	"math"

	"github.com/example/inkpad/internal/geom"
)

// State is the interaction state of a Surface.
type State int

const (
	StateIdle State = iota
	StateDrawing
	StateErasing
	StateDragging
	StateResizing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDrawing:
		return "drawing"
	case StateErasing:
		return "erasing"
	case StateDragging:
		return "dragging"
	case StateResizing:
		return "resizing"
	}
	return "unknown"
}

// Hit identifies what a pointer position lands on.
type Hit int

const (
	HitNone Hit = iota
	HitDelete
	HitCrop
	HitResize
	HitImage
)

const (
	cropButtonW   = 46
	cropButtonH   = 22
	deleteButton  = 18
	resizeHandle  = 16
	tapMaxTravel  = 6
	resizeDivisor = 240.0
)

// InsertOffset is where new images land relative to the viewport top-left.
var InsertOffset = image.Pt(40, 40)

// Surface routes pointer input to a Document. It owns the interaction
// state machine and records undoable changes in its History. Pointer
// coordinates are in viewport space; ScrollY maps them to the document.
type Surface struct {
	Doc      *Document
	History  *History
	Settings *Settings
	ScrollY  int

	cropper       Cropper
	confirm       func(index int) bool
	onChange      func()
	onPassThrough func(p image.Point)

	state      State
	points     []image.Point
	press      image.Point
	active     int
	grab       image.Point
	startScale float64
}

// SurfaceOption configures a Surface.
type SurfaceOption func(*Surface)

// WithCropper sets the collaborator asked for a crop rectangle.
func WithCropper(c Cropper) SurfaceOption { return func(s *Surface) { s.cropper = c } }

// WithConfirm sets the callback asked before an image is deleted.
func WithConfirm(fn func(index int) bool) SurfaceOption {
	return func(s *Surface) { s.confirm = fn }
}

// WithOnChange registers the change notification.
func WithOnChange(fn func()) SurfaceOption { return func(s *Surface) { s.onChange = fn } }

// WithPassThrough registers the handler for clicks the overlay does not
// consume. It receives the viewport point.
func WithPassThrough(fn func(p image.Point)) SurfaceOption {
	return func(s *Surface) { s.onPassThrough = fn }
}

// WithHistory shares an existing history.
func WithHistory(h *History) SurfaceOption { return func(s *Surface) { s.History = h } }

// NewSurface wraps doc. A nil doc or settings is replaced by a fresh one.
func NewSurface(doc *Document, settings *Settings, opts ...SurfaceOption) *Surface {
	if doc == nil {
		doc = NewDocument()
	}
	if settings == nil {
		settings = DefaultSettings()
	}
	s := &Surface{
		Doc:      doc,
		History:  NewHistory(),
		Settings: settings,
		cropper:  CenterCropper{},
		active:   -1,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// State returns the current interaction state.
func (s *Surface) State() State { return s.state }

// Pending returns the document points gathered by an in-progress draw or
// erase gesture.
func (s *Surface) Pending() []image.Point { return s.points }

// SetTool switches the active tool and abandons any gesture in progress.
func (s *Surface) SetTool(t Tool) {
	s.Settings.Tool = t
	s.reset()
}

func (s *Surface) reset() {
	s.state = StateIdle
	s.points = nil
	s.active = -1
}

func (s *Surface) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

func (s *Surface) toDoc(p image.Point) image.Point { return geom.ToDocument(p, s.ScrollY) }

// viewRect returns the viewport rectangle of image i.
func (s *Surface) viewRect(i int) image.Rectangle {
	return geom.RectToViewport(s.Doc.Images[i].Bounds(), s.ScrollY)
}

// CropButton returns the viewport rectangle of the crop button for image i.
func (s *Surface) CropButton(i int) image.Rectangle {
	r := s.viewRect(i)
	y := r.Min.Y - 28
	if y < 2 {
		y = r.Min.Y + 6
	}
	return image.Rect(r.Min.X+6, y, r.Min.X+6+cropButtonW, y+cropButtonH)
}

// DeleteButton returns the viewport rectangle of the delete button.
func (s *Surface) DeleteButton(i int) image.Rectangle {
	r := s.viewRect(i)
	x := r.Max.X - 1 - 24
	return image.Rect(x, r.Min.Y+6, x+deleteButton, r.Min.Y+6+deleteButton)
}

// ResizeHandle returns the viewport rectangle of the resize handle.
func (s *Surface) ResizeHandle(i int) image.Rectangle {
	r := s.viewRect(i)
	return image.Rect(r.Max.X-resizeHandle, r.Max.Y-resizeHandle, r.Max.X, r.Max.Y)
}

// HitTest classifies a viewport point. Controls of the selected image come
// first, in delete, crop, resize order, then images top-most first.
func (s *Surface) HitTest(p image.Point) (Hit, int) {
	if sel, ok := s.Doc.Selected(); ok {
		switch {
		case p.In(s.DeleteButton(sel)):
			return HitDelete, sel
		case p.In(s.CropButton(sel)):
			return HitCrop, sel
		case p.In(s.ResizeHandle(sel)):
			return HitResize, sel
		}
	}
	if i, ok := s.Doc.ImageAt(s.toDoc(p)); ok {
		return HitImage, i
	}
	return HitNone, -1
}

// PointerDown starts a gesture at viewport point p.
func (s *Surface) PointerDown(p image.Point) {
	hit, idx := s.HitTest(p)
	switch hit {
	case HitDelete:
		s.reset()
		s.DeleteImage(idx)
		return
	case HitCrop:
		s.reset()
		s.CropImage(idx)
		return
	case HitResize:
		s.state = StateResizing
		s.active = idx
		s.press = p
		s.startScale = s.Doc.Images[idx].Scale()
		return
	case HitImage:
		if !s.Settings.Tool.Drawing() {
			s.Doc.Select(idx)
			s.state = StateDragging
			s.active = idx
			s.grab = s.toDoc(p).Sub(s.Doc.Images[idx].Pos)
			return
		}
	}
	s.Doc.Deselect()
	if !s.Settings.Tool.Drawing() {
		s.reset()
		if s.onPassThrough != nil {
			s.onPassThrough(p)
		}
		return
	}
	s.press = p
	s.points = []image.Point{s.toDoc(p)}
	if s.Settings.Tool == ToolEraser {
		s.state = StateErasing
	} else {
		s.state = StateDrawing
	}
}

// PointerMove continues the current gesture.
func (s *Surface) PointerMove(p image.Point) {
	switch s.state {
	case StateDrawing, StateErasing:
		s.points = append(s.points, s.toDoc(p))
	case StateDragging:
		s.Doc.Images[s.active].Pos = s.toDoc(p).Sub(s.grab)
	case StateResizing:
		d := p.Sub(s.press)
		factor := math.Max(MinScale, 1+float64(d.X+d.Y)/resizeDivisor)
		s.Doc.Images[s.active].SetScale(s.startScale * factor)
	}
}

// PointerUp finishes the current gesture at viewport point p.
func (s *Surface) PointerUp(p image.Point) {
	state := s.state
	pts := s.points
	press := s.press
	s.reset()
	switch state {
	case StateDrawing:
		if len(pts) < 2 {
			s.tap(p)
			return
		}
		s.commitStroke(pts)
	case StateErasing:
		if len(pts) < 2 && geom.Manhattan(p, press) < tapMaxTravel {
			s.tap(p)
			return
		}
		s.commitErase(pts)
	case StateDragging, StateResizing:
		s.changed()
	}
}

// tap hands a click that drew nothing back to the text layer.
func (s *Surface) tap(p image.Point) {
	s.Settings.Tool = ToolText
	if s.onPassThrough != nil {
		s.onPassThrough(p)
	}
}

func (s *Surface) commitStroke(pts []image.Point) {
	mode, ok := s.Settings.Tool.Mode()
	if !ok {
		mode = ModePen
	}
	col, width, alpha := s.Settings.Style(mode)
	s.Doc.AddStroke(Stroke{
		Points: Smooth(pts),
		Color:  col,
		Width:  width,
		Alpha:  alpha,
		Mode:   mode,
	})
	s.History.RecordStrokeAdd()
	s.changed()
}

func (s *Surface) commitErase(path []image.Point) {
	before := s.Doc.Strokes
	var after []Stroke
	if s.Settings.EraserMode == EraserLasso {
		after = EraseLasso(before, path)
	} else {
		after = EraseRadius(before, path, s.Settings.EraserRadius())
	}
	s.Doc.ReplaceStrokes(after)
	s.History.RecordEraseBatch(before)
	s.changed()
}

// Erase runs the configured eraser along a document-space path as if it
// had been traced with the pointer.
func (s *Surface) Erase(path []image.Point) {
	s.reset()
	s.commitErase(append([]image.Point(nil), path...))
}

// InsertImage places img near the top-left of the viewport, selects it and
// records the insertion.
func (s *Surface) InsertImage(img image.Image) int {
	s.reset()
	im := NewImageOverlay(img, s.toDoc(InsertOffset))
	idx := s.Doc.AddImage(im)
	s.Doc.Select(idx)
	s.History.RecordImageAdd(idx)
	s.changed()
	return idx
}

// DeleteImage removes image i after confirmation. Deletion is not
// recorded in the history.
func (s *Surface) DeleteImage(i int) bool {
	if i < 0 || i >= len(s.Doc.Images) {
		return false
	}
	if s.confirm != nil && !s.confirm(i) {
		return false
	}
	s.Doc.RemoveImage(i)
	s.changed()
	return true
}

// CropImage asks the cropper for a selection and replaces the source of
// image i. Degenerate selections leave the image untouched.
func (s *Surface) CropImage(i int) bool {
	if i < 0 || i >= len(s.Doc.Images) || s.cropper == nil {
		return false
	}
	im := s.Doc.Images[i]
	sel, ok := s.cropper.Crop(im.Source())
	if !ok {
		return false
	}
	out := CropImage(im.Source(), sel)
	if out == im.Source() {
		return false
	}
	im.ReplaceSource(out)
	s.changed()
	return true
}

// Undo reverts the last recorded action.
func (s *Surface) Undo() bool {
	s.reset()
	if !s.History.Undo(s.Doc) {
		return false
	}
	s.changed()
	return true
}

// Redo reapplies the last undone action.
func (s *Surface) Redo() bool {
	s.reset()
	if !s.History.Redo(s.Doc) {
		return false
	}
	s.changed()
	return true
}
