package overlay

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUndoRedoSymmetry(t *testing.T) {
	for _, n := range []int{1, 2, 5, 12} {
		doc := NewDocument()
		h := NewHistory()
		for i := 0; i < n; i++ {
			doc.AddStroke(penStroke(pts(i, 0, i, 10)))
			h.RecordStrokeAdd()
		}
		original := CloneStrokes(doc.Strokes)
		for i := 0; i < n; i++ {
			require.True(t, h.Undo(doc))
		}
		assert.Empty(t, doc.Strokes)
		for i := 0; i < n; i++ {
			require.True(t, h.Redo(doc))
		}
		assert.Equal(t, original, doc.Strokes)
		undo, redo := h.Len()
		assert.Equal(t, n, undo)
		assert.Zero(t, redo)
	}
}

func TestUndoRedoEmptyIsNoop(t *testing.T) {
	doc := NewDocument()
	h := NewHistory()
	assert.False(t, h.Undo(doc))
	assert.False(t, h.Redo(doc))
	assert.Empty(t, doc.Strokes)
}

func TestRecordClearsRedo(t *testing.T) {
	doc := NewDocument()
	h := NewHistory()
	doc.AddStroke(penStroke(pts(0, 0, 1, 1)))
	h.RecordStrokeAdd()
	require.True(t, h.Undo(doc))
	assert.True(t, h.CanRedo())
	doc.AddStroke(penStroke(pts(5, 5, 6, 6)))
	h.RecordStrokeAdd()
	assert.False(t, h.CanRedo())
	assert.False(t, h.Redo(doc))
	require.Len(t, doc.Strokes, 1)
	assert.Equal(t, pts(5, 5, 6, 6), doc.Strokes[0].Points)
}

func TestUndoEraseBatch(t *testing.T) {
	doc := NewDocument()
	h := NewHistory()
	doc.AddStroke(penStroke(pts(0, 0, 10, 0, 20, 0, 30, 0)))
	h.RecordStrokeAdd()
	before := doc.Strokes
	doc.ReplaceStrokes(EraseRadius(before, pts(20, 0), 5))
	h.RecordEraseBatch(before)

	require.True(t, h.Undo(doc))
	require.Len(t, doc.Strokes, 1)
	assert.Len(t, doc.Strokes[0].Points, 4)

	require.True(t, h.Redo(doc))
	require.Len(t, doc.Strokes, 1)
	assert.Equal(t, pts(0, 0, 10, 0), doc.Strokes[0].Points)

	require.True(t, h.Undo(doc))
	require.True(t, h.Undo(doc))
	assert.Empty(t, doc.Strokes)
}

func TestUndoImageAdd(t *testing.T) {
	doc := NewDocument()
	h := NewHistory()
	im := NewImageOverlay(image.NewRGBA(image.Rect(0, 0, 4, 4)), image.Pt(40, 40))
	idx := doc.AddImage(im)
	doc.Select(idx)
	h.RecordImageAdd(idx)

	require.True(t, h.Undo(doc))
	assert.Empty(t, doc.Images)
	_, ok := doc.Selected()
	assert.False(t, ok)

	require.True(t, h.Redo(doc))
	require.Len(t, doc.Images, 1)
	assert.Same(t, im, doc.Images[0])
}

func TestMixedHistory(t *testing.T) {
	doc := NewDocument()
	h := NewHistory()
	doc.AddStroke(penStroke(pts(0, 0, 1, 1)))
	h.RecordStrokeAdd()
	idx := doc.AddImage(NewImageOverlay(image.NewRGBA(image.Rect(0, 0, 2, 2)), image.Point{}))
	h.RecordImageAdd(idx)
	doc.AddStroke(penStroke(pts(2, 2, 3, 3)))
	h.RecordStrokeAdd()

	require.True(t, h.Undo(doc))
	assert.Len(t, doc.Strokes, 1)
	assert.Len(t, doc.Images, 1)
	require.True(t, h.Undo(doc))
	assert.Empty(t, doc.Images)
	require.True(t, h.Undo(doc))
	assert.Empty(t, doc.Strokes)
	assert.False(t, h.Undo(doc))
}
