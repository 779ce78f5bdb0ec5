package editor

import (
	"strings"

	"bluedoc/pkg/bluedoc"
)

// Position addresses a byte offset inside a block.
type Position struct {
	Block int
	Byte  int
}

type State struct {
	Doc          *bluedoc.Document
	CurrentBlock int
	CaretByte    int

	selectionAnchor    Position
	selectionAnchored  bool
	selectionIsVisible bool

	// pending is the typing style set from the toolbar while no text is
	// selected. It only applies while the caret stays at pendingAt.
	pending   *bluedoc.StyleAttr
	pendingAt Position
}

func NewState(doc *bluedoc.Document) *State {
	if doc == nil {
		doc = bluedoc.NewDocument("")
	}
	s := &State{Doc: doc}
	s.Normalize()
	return s
}

func (s *State) Normalize() {
	if s.Doc == nil {
		s.Doc = bluedoc.NewDocument("")
	}
	if s.Doc.Resources == nil {
		s.Doc.Resources = map[string]bluedoc.Resource{}
	}
	if len(s.Doc.Blocks) == 0 {
		s.Doc.Blocks = append(s.Doc.Blocks, bluedoc.NewBlock(bluedoc.AlignLeft))
	}
	for i := range s.Doc.Blocks {
		b := &s.Doc.Blocks[i]
		if b.UTF8 == nil {
			b.UTF8 = []byte{}
		}
		b.Runs = bluedoc.NormalizeRuns(len(b.UTF8), b.Runs)
	}
	s.CurrentBlock = max(0, min(s.CurrentBlock, len(s.Doc.Blocks)-1))
	s.CaretByte = clampToRuneBoundary(s.CurrentBlockText(), s.CaretByte)
	if s.selectionAnchored {
		s.selectionAnchor = s.clampPosition(s.selectionAnchor)
		s.selectionIsVisible = comparePos(s.selectionAnchor, s.caretPos()) != 0
	}
}

func (s *State) BlockCount() int {
	if s.Doc == nil {
		return 0
	}
	return len(s.Doc.Blocks)
}

func (s *State) Caret() Position {
	return s.caretPos()
}

func (s *State) CurrentText() string {
	return string(s.CurrentBlockText())
}

func (s *State) CurrentBlockText() []byte {
	if s.Doc == nil || s.CurrentBlock < 0 || s.CurrentBlock >= len(s.Doc.Blocks) {
		return nil
	}
	return s.Doc.Blocks[s.CurrentBlock].UTF8
}

// BlockText returns the raw text of block i, image placeholders included.
func (s *State) BlockText(i int) []byte {
	if s.Doc == nil || i < 0 || i >= len(s.Doc.Blocks) {
		return nil
	}
	return s.Doc.Blocks[i].UTF8
}

func (s *State) AllBlockTexts() []string {
	s.Normalize()
	out := make([]string, 0, len(s.Doc.Blocks))
	for _, b := range s.Doc.Blocks {
		out = append(out, string(b.UTF8))
	}
	return out
}

func (s *State) SetCurrentBlock(index int) {
	s.SetCaret(index, s.CaretByte)
}

func (s *State) SetCaret(block, bytePos int) {
	s.beginMove()
	block = max(0, min(block, len(s.Doc.Blocks)-1))
	s.CurrentBlock = block
	s.CaretByte = clampToRuneBoundary(s.Doc.Blocks[block].UTF8, bytePos)
	if s.selectionAnchored {
		s.selectionIsVisible = comparePos(s.selectionAnchor, s.caretPos()) != 0
	}
}

func (s *State) MoveBlock(delta int) {
	s.SetCurrentBlock(s.CurrentBlock + delta)
}

func (s *State) MoveCaretLeft() {
	s.beginMove()
	if s.CaretByte <= 0 {
		if s.CurrentBlock > 0 {
			s.CurrentBlock--
			s.CaretByte = len(s.CurrentBlockText())
		}
		return
	}
	s.CaretByte = previousRuneBoundary(s.CurrentBlockText(), s.CaretByte)
}

func (s *State) MoveCaretRight() {
	s.beginMove()
	text := s.CurrentBlockText()
	if s.CaretByte >= len(text) {
		if s.CurrentBlock < len(s.Doc.Blocks)-1 {
			s.CurrentBlock++
			s.CaretByte = 0
		}
		return
	}
	s.CaretByte = nextRuneBoundary(text, s.CaretByte)
}

func (s *State) MoveCaretWordLeft() {
	s.beginMove()
	if s.CaretByte <= 0 {
		s.MoveCaretLeft()
		return
	}
	s.CaretByte = wordStartBefore(s.CurrentBlockText(), s.CaretByte)
}

func (s *State) MoveCaretWordRight() {
	s.beginMove()
	text := s.CurrentBlockText()
	if s.CaretByte >= len(text) {
		s.MoveCaretRight()
		return
	}
	s.CaretByte = wordEndAfter(text, s.CaretByte)
}

func (s *State) MoveCaretToLineStart() {
	s.beginMove()
	s.CaretByte = 0
}

func (s *State) MoveCaretToLineEnd() {
	s.beginMove()
	s.CaretByte = len(s.CurrentBlockText())
}

func (s *State) MoveCaretToDocumentStart() {
	s.SetCaret(0, 0)
}

func (s *State) MoveCaretToDocumentEnd() {
	s.Normalize()
	last := len(s.Doc.Blocks) - 1
	s.SetCaret(last, len(s.Doc.Blocks[last].UTF8))
}

func (s *State) HasSelection() bool {
	s.Normalize()
	return s.selectionIsVisible
}

func (s *State) EnsureSelectionAnchor() {
	s.Normalize()
	if s.selectionAnchored {
		return
	}
	s.selectionAnchor = s.caretPos()
	s.selectionAnchored = true
	s.selectionIsVisible = false
}

func (s *State) UpdateSelectionFromCaret() {
	s.Normalize()
	if !s.selectionAnchored {
		s.selectionAnchor = s.caretPos()
		s.selectionAnchored = true
	}
	s.selectionIsVisible = comparePos(s.selectionAnchor, s.caretPos()) != 0
}

func (s *State) ClearSelection() {
	s.selectionAnchored = false
	s.selectionIsVisible = false
}

func (s *State) SelectionRange() (Position, Position, bool) {
	s.Normalize()
	if !s.selectionIsVisible {
		return Position{}, Position{}, false
	}
	a := s.selectionAnchor
	b := s.caretPos()
	if comparePos(a, b) <= 0 {
		return a, b, true
	}
	return b, a, true
}

func (s *State) SelectAll() {
	s.beginMove()
	s.selectionAnchor = Position{}
	s.selectionAnchored = true
	last := len(s.Doc.Blocks) - 1
	s.CurrentBlock = last
	s.CaretByte = len(s.Doc.Blocks[last].UTF8)
	s.selectionIsVisible = comparePos(s.selectionAnchor, s.caretPos()) != 0
}

// SelectedText returns the selection as plain text, one line per block.
// Images have no textual form and are dropped.
func (s *State) SelectedText() string {
	start, end, ok := s.SelectionRange()
	if !ok {
		return ""
	}
	var out strings.Builder
	for b := start.Block; b <= end.Block; b++ {
		text := s.Doc.Blocks[b].UTF8
		from, to := 0, len(text)
		if b == start.Block {
			from = start.Byte
		}
		if b == end.Block {
			to = end.Byte
		}
		if b > start.Block {
			out.WriteByte('\n')
		}
		out.WriteString(strings.ReplaceAll(string(text[from:to]), string(bluedoc.ObjectReplacement), ""))
	}
	return out.String()
}

func (s *State) beginMove() {
	s.Normalize()
	s.pending = nil
}

func (s *State) caretPos() Position {
	return Position{Block: s.CurrentBlock, Byte: s.CaretByte}
}

func (s *State) clampPosition(p Position) Position {
	if s.Doc == nil || len(s.Doc.Blocks) == 0 {
		return Position{}
	}
	p.Block = max(0, min(p.Block, len(s.Doc.Blocks)-1))
	p.Byte = clampToRuneBoundary(s.Doc.Blocks[p.Block].UTF8, p.Byte)
	return p
}

func comparePos(a, b Position) int {
	switch {
	case a.Block < b.Block:
		return -1
	case a.Block > b.Block:
		return 1
	case a.Byte < b.Byte:
		return -1
	case a.Byte > b.Byte:
		return 1
	}
	return 0
}
