package editor

import "bluedoc/pkg/bluedoc"

func (s *State) SetBold(on bool) {
	s.applyStyleMutation(func(attr *bluedoc.StyleAttr) { attr.Bold = on })
}

func (s *State) SetItalic(on bool) {
	s.applyStyleMutation(func(attr *bluedoc.StyleAttr) { attr.Italic = on })
}

func (s *State) ToggleBold() {
	s.SetBold(!s.CurrentStyleAttr().Bold)
}

func (s *State) ToggleItalic() {
	s.SetItalic(!s.CurrentStyleAttr().Italic)
}

// SetFontSize clamps pt to the supported point range.
func (s *State) SetFontSize(pt int) {
	size := uint16(max(int(bluedoc.MinFontSizePt), min(pt, int(bluedoc.MaxFontSizePt))))
	s.applyStyleMutation(func(attr *bluedoc.StyleAttr) { attr.FontSizePt = size })
}

// SetAlignment aligns every block touched by the selection, or the caret block.
func (s *State) SetAlignment(a bluedoc.Alignment) {
	s.Normalize()
	first, last := s.CurrentBlock, s.CurrentBlock
	if start, end, ok := s.SelectionRange(); ok {
		first, last = start.Block, end.Block
	}
	for i := first; i <= last; i++ {
		s.Doc.Blocks[i].Align = a
	}
}

func (s *State) CurrentAlignment() bluedoc.Alignment {
	s.Normalize()
	return s.Doc.Blocks[s.CurrentBlock].Align
}

// CurrentStyleAttr is the format new text would get: the pending toolbar
// style, the first selected character, or the character before the caret.
func (s *State) CurrentStyleAttr() bluedoc.StyleAttr {
	return s.currentStyleAttr()
}

// CharFormatAt returns the format a caret at pos reports.
func (s *State) CharFormatAt(pos Position) bluedoc.StyleAttr {
	s.Normalize()
	pos = s.clampPosition(pos)
	return s.charBefore(pos.Block, pos.Byte)
}

func (s *State) BlockRuns(index int) []bluedoc.StyleRun {
	s.Normalize()
	if index < 0 || index >= len(s.Doc.Blocks) {
		return nil
	}
	return append([]bluedoc.StyleRun(nil), s.Doc.Blocks[index].Runs...)
}

func (s *State) BlockAlignment(index int) bluedoc.Alignment {
	if s.Doc == nil || index < 0 || index >= len(s.Doc.Blocks) {
		return bluedoc.AlignLeft
	}
	return s.Doc.Blocks[index].Align
}

func (s *State) currentStyleAttr() bluedoc.StyleAttr {
	s.Normalize()
	if s.pending != nil && s.pendingAt == s.caretPos() {
		return *s.pending
	}
	if start, _, ok := s.SelectionRange(); ok {
		return s.charAt(start.Block, start.Byte)
	}
	return s.charBefore(s.CurrentBlock, s.CaretByte)
}

// charAt is the attr of the character starting at byte pos.
func (s *State) charAt(block, pos int) bluedoc.StyleAttr {
	if s.Doc == nil || block < 0 || block >= len(s.Doc.Blocks) {
		return bluedoc.DefaultAttr()
	}
	b := s.Doc.Blocks[block]
	r, _ := bluedoc.RunAt(len(b.UTF8), b.Runs, pos)
	return r.Attr.Clone()
}

func (s *State) charBefore(block, pos int) bluedoc.StyleAttr {
	if pos > 0 && block >= 0 && block < len(s.Doc.Blocks) {
		pos = previousRuneBoundary(s.Doc.Blocks[block].UTF8, pos)
	}
	return s.charAt(block, pos)
}

func (s *State) applyStyleMutation(mut func(*bluedoc.StyleAttr)) {
	s.Normalize()
	if start, end, ok := s.SelectionRange(); ok {
		for b := start.Block; b <= end.Block; b++ {
			from, to := 0, len(s.Doc.Blocks[b].UTF8)
			if b == start.Block {
				from = start.Byte
			}
			if b == end.Block {
				to = end.Byte
			}
			s.applyStyleToBlockRange(b, from, to, mut)
		}
		return
	}

	if len(s.CurrentBlockText()) == 0 {
		s.applyStyleToBlockRange(s.CurrentBlock, 0, 0, mut)
		return
	}
	attr := s.currentStyleAttr().TextAttr()
	mut(&attr)
	s.pending = &attr
	s.pendingAt = s.caretPos()
}

func (s *State) applyStyleToBlockRange(blockIndex, start, end int, mut func(*bluedoc.StyleAttr)) {
	b := &s.Doc.Blocks[blockIndex]
	textLen := len(b.UTF8)
	start = max(0, min(start, textLen))
	end = max(0, min(end, textLen))
	if start > end {
		start, end = end, start
	}
	if textLen == 0 {
		attr := b.Runs[0].Attr.Clone()
		mut(&attr)
		b.Runs = []bluedoc.StyleRun{{Attr: bluedoc.NormalizeAttr(attr)}}
		return
	}
	if start == end {
		return
	}

	runs := make([]bluedoc.StyleRun, 0, len(b.Runs)+2)
	for _, r := range b.Runs {
		rs, re := int(r.Start), int(r.End)
		if re <= start || rs >= end {
			runs = append(runs, r)
			continue
		}
		if rs < start {
			runs = append(runs, bluedoc.StyleRun{Start: uint32(rs), End: uint32(start), Attr: r.Attr.Clone()})
			rs = start
		}
		midEnd := min(re, end)
		attr := r.Attr.Clone()
		mut(&attr)
		runs = append(runs, bluedoc.StyleRun{Start: uint32(rs), End: uint32(midEnd), Attr: bluedoc.NormalizeAttr(attr)})
		if re > end {
			runs = append(runs, bluedoc.StyleRun{Start: uint32(end), End: uint32(re), Attr: r.Attr.Clone()})
		}
	}
	b.Runs = bluedoc.NormalizeRuns(textLen, runs)
}
