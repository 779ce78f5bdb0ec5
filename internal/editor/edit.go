package editor

import (
	"errors"
	"strings"
	"unicode/utf8"

	"bluedoc/pkg/bluedoc"
)

var ErrInvalidText = errors.New("editor: text must be valid UTF-8")

// InsertText inserts plain text at the caret using the current character
// format. Newlines start new blocks that keep the current alignment.
func (s *State) InsertText(input string) error {
	if input == "" {
		return nil
	}
	if !utf8.ValidString(input) {
		return ErrInvalidText
	}
	s.Normalize()
	input = strings.ReplaceAll(input, "\r\n", "\n")
	input = strings.ReplaceAll(input, "\r", "\n")
	input = strings.ReplaceAll(input, string(bluedoc.ObjectReplacement), "")

	s.DeleteSelection()
	attr := s.currentStyleAttr().TextAttr()
	align := s.Doc.Blocks[s.CurrentBlock].Align
	lines := strings.Split(input, "\n")
	frag := make([]bluedoc.Block, 0, len(lines))
	for _, line := range lines {
		frag = append(frag, textBlock(align, line, attr))
	}
	s.insertBlocks(frag)
	return nil
}

// InsertTextAtCaret is the typing entry point.
func (s *State) InsertTextAtCaret(input string) error {
	return s.InsertText(input)
}

func (s *State) SplitBlockAtCaret() {
	_ = s.InsertText("\n")
}

func (s *State) Backspace() {
	s.Normalize()
	if s.DeleteSelection() {
		return
	}
	if s.CaretByte > 0 {
		start := previousRuneBoundary(s.CurrentBlockText(), s.CaretByte)
		s.deleteRange(s.CurrentBlock, start, s.CaretByte)
		s.CaretByte = start
		return
	}
	s.joinWithPrevious()
}

func (s *State) DeleteForward() {
	s.Normalize()
	if s.DeleteSelection() {
		return
	}
	text := s.CurrentBlockText()
	if s.CaretByte < len(text) {
		s.deleteRange(s.CurrentBlock, s.CaretByte, nextRuneBoundary(text, s.CaretByte))
		return
	}
	if s.CurrentBlock < len(s.Doc.Blocks)-1 {
		s.mergeBlocks(s.CurrentBlock, s.CurrentBlock+1)
	}
}

func (s *State) DeleteWordBackward() {
	s.Normalize()
	if s.DeleteSelection() {
		return
	}
	if s.CaretByte == 0 {
		s.joinWithPrevious()
		return
	}
	start := previousWordBoundary(s.CurrentBlockText(), s.CaretByte)
	s.deleteRange(s.CurrentBlock, start, s.CaretByte)
	s.CaretByte = start
}

func (s *State) DeleteWordForward() {
	s.Normalize()
	if s.DeleteSelection() {
		return
	}
	text := s.CurrentBlockText()
	if s.CaretByte >= len(text) {
		if s.CurrentBlock < len(s.Doc.Blocks)-1 {
			s.mergeBlocks(s.CurrentBlock, s.CurrentBlock+1)
		}
		return
	}
	s.deleteRange(s.CurrentBlock, s.CaretByte, nextWordBoundary(text, s.CaretByte))
}

func (s *State) DeleteSelection() bool {
	start, end, ok := s.SelectionRange()
	if !ok {
		return false
	}
	if start.Block == end.Block {
		s.deleteRange(start.Block, start.Byte, end.Byte)
	} else {
		first := s.Doc.Blocks[start.Block]
		last := s.Doc.Blocks[end.Block]
		merged := bluedoc.Block{Align: first.Align}
		appendClip(&merged, first, 0, start.Byte)
		appendClip(&merged, last, end.Byte, len(last.UTF8))
		if len(merged.UTF8) == 0 {
			merged.Runs = []bluedoc.StyleRun{{Attr: s.charAt(start.Block, start.Byte).TextAttr()}}
		}
		s.Doc.Blocks[start.Block] = merged
		s.Doc.Blocks = append(s.Doc.Blocks[:start.Block+1], s.Doc.Blocks[end.Block+1:]...)
	}
	s.CurrentBlock = start.Block
	s.CaretByte = start.Byte
	s.ClearSelection()
	s.Normalize()
	return true
}

func (s *State) joinWithPrevious() {
	if s.CurrentBlock == 0 {
		return
	}
	prevLen := len(s.Doc.Blocks[s.CurrentBlock-1].UTF8)
	s.mergeBlocks(s.CurrentBlock-1, s.CurrentBlock)
	s.CurrentBlock--
	s.CaretByte = prevLen
}

// insertBlocks splices frag into the document at the caret. The first
// fragment block joins the text left of the caret, the last one takes the
// text right of it. The caret ends after the inserted content.
func (s *State) insertBlocks(frag []bluedoc.Block) {
	if len(frag) == 0 {
		return
	}
	s.DeleteSelection()
	bi, pos := s.CurrentBlock, s.CaretByte
	cur := s.Doc.Blocks[bi]

	head := bluedoc.Block{Align: cur.Align}
	appendClip(&head, cur, 0, pos)
	appendClip(&head, frag[0], 0, len(frag[0].UTF8))

	if len(frag) == 1 {
		caret := len(head.UTF8)
		appendClip(&head, cur, pos, len(cur.UTF8))
		s.Doc.Blocks[bi] = finishBlock(head, cur)
		s.CaretByte = caret
		s.ClearSelection()
		return
	}

	lastFrag := frag[len(frag)-1]
	tail := bluedoc.Block{Align: cur.Align}
	appendClip(&tail, lastFrag, 0, len(lastFrag.UTF8))
	caret := len(tail.UTF8)
	appendClip(&tail, cur, pos, len(cur.UTF8))

	out := make([]bluedoc.Block, 0, len(s.Doc.Blocks)+len(frag)-1)
	out = append(out, s.Doc.Blocks[:bi]...)
	out = append(out, finishBlock(head, frag[0]))
	for _, mid := range frag[1 : len(frag)-1] {
		out = append(out, finishBlock(bluedoc.Block{Align: mid.Align, UTF8: mid.UTF8, Runs: mid.Runs}, mid))
	}
	out = append(out, finishBlock(tail, lastFrag))
	out = append(out, s.Doc.Blocks[bi+1:]...)
	s.Doc.Blocks = out

	s.CurrentBlock = bi + len(frag) - 1
	s.CaretByte = caret
	s.ClearSelection()
}

func (s *State) deleteRange(block, start, end int) {
	b := s.Doc.Blocks[block]
	text := b.UTF8
	start = clampToRuneBoundary(text, start)
	end = clampToRuneBoundary(text, end)
	if start > end {
		start, end = end, start
	}
	out := bluedoc.Block{Align: b.Align}
	appendClip(&out, b, 0, start)
	appendClip(&out, b, end, len(text))
	if len(out.UTF8) == 0 {
		out.Runs = []bluedoc.StyleRun{{Attr: s.charAt(block, start).TextAttr()}}
	}
	s.Doc.Blocks[block] = finishBlock(out, b)
}

func (s *State) mergeBlocks(left, right int) {
	if s.Doc == nil || left < 0 || right <= left || right >= len(s.Doc.Blocks) {
		return
	}
	l, r := s.Doc.Blocks[left], s.Doc.Blocks[right]
	merged := bluedoc.Block{Align: l.Align}
	appendClip(&merged, l, 0, len(l.UTF8))
	appendClip(&merged, r, 0, len(r.UTF8))
	s.Doc.Blocks[left] = finishBlock(merged, l)
	s.Doc.Blocks = append(s.Doc.Blocks[:right], s.Doc.Blocks[right+1:]...)
}

// appendClip appends src[from:to] with its styles to dst.
func appendClip(dst *bluedoc.Block, src bluedoc.Block, from, to int) {
	if from >= to {
		return
	}
	shift := len(dst.UTF8)
	dst.UTF8 = append(dst.UTF8, src.UTF8[from:to]...)
	dst.Runs = append(dst.Runs, bluedoc.ClipRuns(len(src.UTF8), src.Runs, from, to, shift)...)
}

// finishBlock normalizes b. An empty result keeps the typing style of
// styleSrc so an emptied paragraph still remembers its format.
func finishBlock(b bluedoc.Block, styleSrc bluedoc.Block) bluedoc.Block {
	if b.UTF8 == nil {
		b.UTF8 = []byte{}
	}
	if len(b.UTF8) == 0 && len(b.Runs) == 0 {
		attr := bluedoc.DefaultAttr()
		if len(styleSrc.Runs) > 0 {
			attr = styleSrc.Runs[0].Attr
		}
		b.Runs = []bluedoc.StyleRun{{Attr: attr.TextAttr()}}
	}
	b.Runs = bluedoc.NormalizeRuns(len(b.UTF8), b.Runs)
	return b
}

func textBlock(align bluedoc.Alignment, text string, attr bluedoc.StyleAttr) bluedoc.Block {
	b := bluedoc.Block{Align: align, UTF8: []byte(text)}
	b.Runs = []bluedoc.StyleRun{{Start: 0, End: uint32(len(b.UTF8)), Attr: attr}}
	return b
}
