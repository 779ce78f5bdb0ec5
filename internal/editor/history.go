package editor

import "bluedoc/pkg/bluedoc"

const DefaultHistoryDepth = 200

type snapshot struct {
	doc   *bluedoc.Document
	caret Position
}

// History keeps whole-document snapshots for undo and redo.
type History struct {
	undo  []snapshot
	redo  []snapshot
	depth int
}

func NewHistory(depth int) *History {
	if depth <= 0 {
		depth = DefaultHistoryDepth
	}
	return &History{
		undo:  make([]snapshot, 0, 64),
		redo:  make([]snapshot, 0, 64),
		depth: depth,
	}
}

// Push records s before a mutation and forgets anything that could be redone.
func (h *History) Push(s *State) {
	h.undo = appendBounded(h.undo, capture(s), h.depth)
	h.redo = h.redo[:0]
}

func (h *History) Undo(s *State) bool {
	if len(h.undo) == 0 {
		return false
	}
	last := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = appendBounded(h.redo, capture(s), h.depth)
	restore(s, last)
	return true
}

func (h *History) Redo(s *State) bool {
	if len(h.redo) == 0 {
		return false
	}
	last := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = appendBounded(h.undo, capture(s), h.depth)
	restore(s, last)
	return true
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }

func (h *History) CanRedo() bool { return len(h.redo) > 0 }

func (h *History) Reset() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}

func capture(s *State) snapshot {
	s.Normalize()
	return snapshot{doc: bluedoc.CloneDocument(s.Doc), caret: s.caretPos()}
}

func restore(s *State, snap snapshot) {
	s.Doc = snap.doc
	s.CurrentBlock = snap.caret.Block
	s.CaretByte = snap.caret.Byte
	s.pending = nil
	s.ClearSelection()
	s.Normalize()
}

func appendBounded(stack []snapshot, snap snapshot, depth int) []snapshot {
	stack = append(stack, snap)
	if len(stack) > depth {
		stack = stack[len(stack)-depth:]
	}
	return stack
}
