package overlay

// Kind tags an undo entry.
type Kind int

const (
	KindStrokeAdd Kind = iota
	KindImageAdd
	KindEraseBatch
)

func (k Kind) String() string {
	switch k {
	case KindStrokeAdd:
		return "stroke-add"
	case KindImageAdd:
		return "image-add"
	case KindEraseBatch:
		return "erase-batch"
	}
	return "unknown"
}

// Entry is one reversible operation. Only the payload matching Kind is set:
// Stroke and Image hold values removed by undo and waiting for redo, Index
// is the slot an image was added at, Strokes is an erase snapshot.
type Entry struct {
	Kind    Kind
	Stroke  Stroke
	Image   *ImageOverlay
	Index   int
	Strokes []Stroke
}

// History is a linear undo/redo log. Recording a new action drops any
// pending redo entries. Image drag, resize, crop and delete are never
// recorded.
type History struct {
	undo []Entry
	redo []Entry
}

// NewHistory returns an empty history.
func NewHistory() *History { return &History{} }

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Len returns the undo and redo stack depths.
func (h *History) Len() (undo, redo int) { return len(h.undo), len(h.redo) }

func (h *History) record(e Entry) {
	h.undo = append(h.undo, e)
	h.redo = nil
}

// RecordStrokeAdd notes that a stroke was appended.
func (h *History) RecordStrokeAdd() { h.record(Entry{Kind: KindStrokeAdd}) }

// RecordImageAdd notes that an image was appended at index.
func (h *History) RecordImageAdd(index int) { h.record(Entry{Kind: KindImageAdd, Index: index}) }

// RecordEraseBatch stores the stroke collection as it was before an erase.
func (h *History) RecordEraseBatch(previous []Stroke) {
	h.record(Entry{Kind: KindEraseBatch, Strokes: previous})
}

// Clear drops both stacks.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}

// Undo reverts the latest entry on doc. It reports whether anything
// changed; an empty stack is a no-op.
func (h *History) Undo(doc *Document) bool {
	e, ok := pop(&h.undo)
	if !ok {
		return false
	}
	switch e.Kind {
	case KindStrokeAdd:
		s, ok := doc.PopStroke()
		if !ok {
			return false
		}
		h.redo = append(h.redo, Entry{Kind: KindStrokeAdd, Stroke: s})
	case KindImageAdd:
		im, ok := doc.RemoveImage(len(doc.Images) - 1)
		if !ok {
			return false
		}
		h.redo = append(h.redo, Entry{Kind: KindImageAdd, Image: im, Index: e.Index})
	case KindEraseBatch:
		current := doc.ReplaceStrokes(e.Strokes)
		h.redo = append(h.redo, Entry{Kind: KindEraseBatch, Strokes: current})
	}
	return true
}

// Redo reapplies the most recently undone entry.
func (h *History) Redo(doc *Document) bool {
	e, ok := pop(&h.redo)
	if !ok {
		return false
	}
	switch e.Kind {
	case KindStrokeAdd:
		doc.AddStroke(e.Stroke)
		h.undo = append(h.undo, Entry{Kind: KindStrokeAdd})
	case KindImageAdd:
		idx := doc.AddImage(e.Image)
		h.undo = append(h.undo, Entry{Kind: KindImageAdd, Index: idx})
	case KindEraseBatch:
		current := doc.ReplaceStrokes(e.Strokes)
		h.undo = append(h.undo, Entry{Kind: KindEraseBatch, Strokes: current})
	}
	return true
}

func pop(stack *[]Entry) (Entry, bool) {
	n := len(*stack)
	if n == 0 {
		return Entry{}, false
	}
	e := (*stack)[n-1]
	*stack = (*stack)[:n-1]
	return e, true
}
