package overlay

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	changes int
	taps    []image.Point
}

func newSurface(t *testing.T, opts ...SurfaceOption) (*Surface, *recorder) {
	t.Helper()
	rec := &recorder{}
	opts = append([]SurfaceOption{
		WithOnChange(func() { rec.changes++ }),
		WithPassThrough(func(p image.Point) { rec.taps = append(rec.taps, p) }),
	}, opts...)
	return NewSurface(nil, nil, opts...), rec
}

func drag(s *Surface, path ...image.Point) {
	s.PointerDown(path[0])
	for _, p := range path[1:] {
		s.PointerMove(p)
	}
	s.PointerUp(path[len(path)-1])
}

func TestDrawCommitsSmoothedStroke(t *testing.T) {
	s, rec := newSurface(t)
	s.SetTool(ToolMarker)
	s.ScrollY = 100

	s.PointerDown(image.Pt(0, 0))
	assert.Equal(t, StateDrawing, s.State())
	s.PointerMove(image.Pt(5, 4))
	s.PointerMove(image.Pt(10, 0))
	s.PointerUp(image.Pt(10, 0))

	assert.Equal(t, StateIdle, s.State())
	require.Len(t, s.Doc.Strokes, 1)
	st := s.Doc.Strokes[0]
	assert.Equal(t, pts(0, 100, 5, 102, 10, 100), st.Points)
	assert.Equal(t, ModeMarker, st.Mode)
	assert.Equal(t, 14, st.Width)
	assert.Equal(t, uint8(110), st.Alpha)
	assert.Equal(t, color.RGBA{0xff, 0xeb, 0x3b, 0xff}, st.Color)
	assert.Equal(t, 1, rec.changes)
	assert.True(t, s.History.CanUndo())
}

func TestTapPassesThrough(t *testing.T) {
	s, rec := newSurface(t)
	s.SetTool(ToolPen)
	s.PointerDown(image.Pt(30, 30))
	s.PointerUp(image.Pt(31, 30))

	assert.Empty(t, s.Doc.Strokes)
	assert.Equal(t, ToolText, s.Settings.Tool)
	assert.Equal(t, []image.Point{{31, 30}}, rec.taps)
	assert.Zero(t, rec.changes)
	assert.False(t, s.History.CanUndo())
}

func TestClickWithoutToolDeselects(t *testing.T) {
	s, rec := newSurface(t)
	s.InsertImage(solid(50, 50, color.RGBA{A: 255}))
	_, ok := s.Doc.Selected()
	require.True(t, ok)

	s.PointerDown(image.Pt(400, 400))
	_, ok = s.Doc.Selected()
	assert.False(t, ok)
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, []image.Point{{400, 400}}, rec.taps)
}

func TestEraseGesture(t *testing.T) {
	s, _ := newSurface(t)
	s.Doc.AddStroke(penStroke(pts(0, 0, 10, 0, 20, 0, 30, 0)))
	s.SetTool(ToolEraser)
	s.Settings.EraserWidth = 5

	drag(s, image.Pt(20, 0), image.Pt(20, 0))
	require.Len(t, s.Doc.Strokes, 1)
	assert.Equal(t, pts(0, 0, 10, 0), s.Doc.Strokes[0].Points)

	require.True(t, s.Undo())
	assert.Len(t, s.Doc.Strokes[0].Points, 4)
	require.True(t, s.Redo())
	assert.Len(t, s.Doc.Strokes[0].Points, 2)
}

func TestLassoGesture(t *testing.T) {
	s, rec := newSurface(t)
	s.Doc.AddStroke(penStroke(pts(50, 50, 60, 60)))
	s.Doc.AddStroke(penStroke(pts(250, 10, 260, 20)))
	s.SetTool(ToolEraser)
	s.Settings.EraserMode = EraserLasso

	drag(s, image.Pt(0, 0), image.Pt(100, 0), image.Pt(100, 100), image.Pt(0, 100))
	require.Len(t, s.Doc.Strokes, 1)
	assert.Equal(t, pts(250, 10, 260, 20), s.Doc.Strokes[0].Points)
	assert.Equal(t, 1, rec.changes)
}

func TestEraseOnEmptyCollection(t *testing.T) {
	s, _ := newSurface(t)
	s.Erase(pts(1, 1, 2, 2))
	assert.Empty(t, s.Doc.Strokes)
}

func TestInsertImageSelectsAndRecords(t *testing.T) {
	s, rec := newSurface(t)
	s.ScrollY = 300
	idx := s.InsertImage(solid(20, 10, color.RGBA{A: 255}))
	assert.Equal(t, 0, idx)
	assert.Equal(t, image.Pt(40, 340), s.Doc.Images[0].Pos)
	sel, ok := s.Doc.Selected()
	assert.True(t, ok)
	assert.Equal(t, 0, sel)
	assert.Equal(t, 1, rec.changes)

	require.True(t, s.Undo())
	assert.Empty(t, s.Doc.Images)
	_, ok = s.Doc.Selected()
	assert.False(t, ok)
}

func TestDragImage(t *testing.T) {
	s, rec := newSurface(t)
	s.InsertImage(solid(100, 100, color.RGBA{A: 255}))
	s.Doc.Deselect()

	s.PointerDown(image.Pt(60, 60))
	assert.Equal(t, StateDragging, s.State())
	s.PointerMove(image.Pt(80, 90))
	assert.Equal(t, image.Pt(60, 70), s.Doc.Images[0].Pos)
	s.PointerUp(image.Pt(80, 90))
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, 2, rec.changes)
	undo, _ := s.History.Len()
	assert.Equal(t, 1, undo)
}

func TestDrawingToolDrawsOverImages(t *testing.T) {
	s, _ := newSurface(t)
	s.InsertImage(solid(100, 100, color.RGBA{A: 255}))
	s.Doc.Deselect()
	s.SetTool(ToolPen)
	drag(s, image.Pt(60, 60), image.Pt(70, 70))
	assert.Len(t, s.Doc.Strokes, 1)
	assert.Equal(t, image.Pt(40, 40), s.Doc.Images[0].Pos)
}

func TestTopMostImageWins(t *testing.T) {
	s, _ := newSurface(t)
	s.InsertImage(solid(100, 100, color.RGBA{A: 255}))
	s.InsertImage(solid(100, 100, color.RGBA{A: 255}))
	s.Doc.Deselect()
	hit, idx := s.HitTest(image.Pt(70, 70))
	assert.Equal(t, HitImage, hit)
	assert.Equal(t, 1, idx)
}

func TestResizeClamps(t *testing.T) {
	s, _ := newSurface(t)
	s.InsertImage(solid(100, 100, color.RGBA{A: 255}))
	handle := s.ResizeHandle(0)
	start := handle.Min.Add(image.Pt(2, 2))

	hit, _ := s.HitTest(start)
	require.Equal(t, HitResize, hit)

	// factor 1 + 4560/240 = 20
	s.PointerDown(start)
	assert.Equal(t, StateResizing, s.State())
	s.PointerMove(start.Add(image.Pt(4560, 0)))
	assert.Equal(t, 8.0, s.Doc.Images[0].Scale())
	s.PointerUp(start.Add(image.Pt(4560, 0)))

	s.Doc.Images[0].SetScale(0.1)
	handle = s.ResizeHandle(0)
	start = handle.Min.Add(image.Pt(8, 8))
	s.PointerDown(start)
	require.Equal(t, StateResizing, s.State())
	s.PointerMove(start.Sub(image.Pt(1000, 1000)))
	assert.Equal(t, 0.1, s.Doc.Images[0].Scale())
	s.PointerUp(start)

	undo, _ := s.History.Len()
	assert.Equal(t, 1, undo)
}

func TestDeleteSelectedImage(t *testing.T) {
	var asked []int
	s, rec := newSurface(t, WithConfirm(func(i int) bool { asked = append(asked, i); return true }))
	s.InsertImage(solid(100, 100, color.RGBA{A: 255}))
	s.InsertImage(solid(200, 200, color.RGBA{A: 255}))
	before := len(s.Doc.Images)

	btn := s.DeleteButton(1)
	hit, idx := s.HitTest(btn.Min)
	require.Equal(t, HitDelete, hit)
	require.Equal(t, 1, idx)

	s.PointerDown(btn.Min)
	assert.Equal(t, []int{1}, asked)
	assert.Len(t, s.Doc.Images, before-1)
	_, ok := s.Doc.Selected()
	assert.False(t, ok)
	assert.Equal(t, 3, rec.changes)
	undo, _ := s.History.Len()
	assert.Equal(t, 2, undo)
}

func TestDeleteDeclined(t *testing.T) {
	s, _ := newSurface(t, WithConfirm(func(int) bool { return false }))
	s.InsertImage(solid(100, 100, color.RGBA{A: 255}))
	s.PointerDown(s.DeleteButton(0).Min)
	assert.Len(t, s.Doc.Images, 1)
}

func TestCropButton(t *testing.T) {
	s, rec := newSurface(t)
	s.ScrollY = 0
	s.InsertImage(solid(100, 100, color.RGBA{A: 255}))
	s.Doc.Images[0].SetScale(2)

	btn := s.CropButton(0)
	// image top is 40 so the button sits above it
	assert.Equal(t, image.Rect(46, 12, 92, 34), btn)
	hit, _ := s.HitTest(btn.Min)
	require.Equal(t, HitCrop, hit)

	s.PointerDown(btn.Min)
	im := s.Doc.Images[0]
	assert.Equal(t, image.Pt(70, 70), im.Source().Bounds().Size())
	assert.Equal(t, 1.0, im.Scale())
	assert.Equal(t, 2, rec.changes)
}

func TestCropButtonFallsInsideNearTop(t *testing.T) {
	s, _ := newSurface(t)
	s.InsertImage(solid(100, 100, color.RGBA{A: 255}))
	s.Doc.Images[0].Pos = image.Pt(10, 10)
	assert.Equal(t, image.Rect(16, 16, 62, 38), s.CropButton(0))
}

func TestDegenerateCropIsNoop(t *testing.T) {
	cropper := CropperFunc(func(*image.RGBA) (image.Rectangle, bool) {
		return image.Rect(5, 5, 6, 50), true
	})
	s, rec := newSurface(t, WithCropper(cropper))
	s.InsertImage(solid(100, 100, color.RGBA{A: 255}))
	s.Doc.Images[0].SetScale(2)
	assert.False(t, s.CropImage(0))
	assert.Equal(t, 2.0, s.Doc.Images[0].Scale())
	assert.Equal(t, 1, rec.changes)
}

func TestDeleteButtonPriority(t *testing.T) {
	s, _ := newSurface(t)
	// a narrow image makes the crop and delete buttons overlap
	s.InsertImage(solid(40, 100, color.RGBA{A: 255}))
	s.Doc.Images[0].Pos = image.Pt(0, 0)
	p := image.Pt(20, 10)
	require.True(t, p.In(s.DeleteButton(0)))
	require.True(t, p.In(s.CropButton(0)))
	hit, _ := s.HitTest(p)
	assert.Equal(t, HitDelete, hit)
}

func TestUndoRedoThroughSurface(t *testing.T) {
	s, _ := newSurface(t)
	s.SetTool(ToolPen)
	for i := 0; i < 4; i++ {
		drag(s, image.Pt(i*10, 0), image.Pt(i*10, 20), image.Pt(i*10, 40))
		s.SetTool(ToolPen)
	}
	want := CloneStrokes(s.Doc.Strokes)
	for s.Undo() {
	}
	assert.Empty(t, s.Doc.Strokes)
	for s.Redo() {
	}
	assert.Equal(t, want, s.Doc.Strokes)
}
