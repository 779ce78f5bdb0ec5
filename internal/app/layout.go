package app

import (
	"image"
	"math"
	"unicode"
	"unicode/utf8"

	"golang.org/x/image/font"

	"bluedoc/internal/editor"
	"bluedoc/pkg/bluedoc"
)

const (
	docPadding = 8
	lineGap    = 4
	minLineH   = 16
)

type lineSegment struct {
	start int
	end   int
	text  string
	attr  bluedoc.StyleAttr
	face  font.Face
	width int

	// set for image objects
	image  *imageEntry
	format bluedoc.ImageFormat
	height int
}

func (s lineSegment) isImage() bool { return s.image != nil }

// lineLayout is one visual line of a block, covering block bytes
// [start, end). Coordinates are in document space: x from the left edge of
// the content box, y from its top before scrolling.
type lineLayout struct {
	block    int
	start    int
	end      int
	last     bool
	text     []byte
	segments []lineSegment
	x        int
	y        int
	height   int
	ascent   int
	width    int
}

func (l lineLayout) baseline() int { return l.y + l.ascent }

// wrapPiece is a stretch of one run that is never split across lines: a word
// with its trailing blanks, an image, or a single rune of an overlong word.
type wrapPiece struct {
	run   int
	start int
	end   int
	width int
	ink   int
}

func (p wrapPiece) blank() int { return max(0, p.width-p.ink) }

// layoutDocument wraps every block to a content box viewW wide and records
// the document extent.
func (a *App) layoutDocument(viewW int) {
	a.lines = a.lines[:0]
	wrapW := viewW - 2*docPadding
	if viewW <= 0 {
		wrapW = math.MaxInt
	}
	wrapW = max(wrapW, 1)
	y := docPadding
	docW := 0
	for bi := 0; bi < a.state.BlockCount(); bi++ {
		align := a.state.BlockAlignment(bi)
		for _, ll := range a.layoutBlock(bi, wrapW) {
			ll.y = y
			switch align {
			case bluedoc.AlignCenter:
				ll.x = max(docPadding, (viewW-ll.width)/2)
			case bluedoc.AlignRight:
				ll.x = max(docPadding, viewW-docPadding-ll.width)
			default:
				ll.x = docPadding
			}
			a.lines = append(a.lines, ll)
			docW = max(docW, ll.x+ll.width+docPadding)
			y += ll.height + lineGap
		}
	}
	a.docSize = image.Pt(docW, y+docPadding)
}

// layoutBlock breaks block bi into lines no wider than wrapW. Words wider
// than a line are broken between runes; images too wide stay on a line of
// their own.
func (a *App) layoutBlock(bi, wrapW int) []lineLayout {
	text := a.state.BlockText(bi)
	var runs []lineSegment
	for _, run := range bluedoc.NormalizeRuns(len(text), a.state.BlockRuns(bi)) {
		attr := bluedoc.NormalizeAttr(run.Attr)
		seg := lineSegment{
			start: int(run.Start),
			end:   int(run.End),
			attr:  attr,
			face:  a.fonts.face(int(attr.FontSizePt), attr.Bold, attr.Italic),
		}
		if attr.IsImage() {
			size := a.images.displaySize(a.state.Doc, *attr.Image)
			seg.image = a.images.lookup(a.state.Doc, attr.Image.Source)
			seg.format = *attr.Image
			seg.format.Width, seg.format.Height = size.X, size.Y
			seg.width, seg.height = size.X, size.Y
		}
		runs = append(runs, seg)
	}

	pieces := splitPieces(runs, text, wrapW)
	if len(pieces) == 0 {
		ll := buildLine(bi, text, runs, nil)
		ll.last = true
		return []lineLayout{ll}
	}
	var lines []lineLayout
	from, lineW := 0, 0
	for i, p := range pieces {
		if i > from && lineW+p.ink > wrapW {
			lines = append(lines, buildLine(bi, text, runs, pieces[from:i]))
			from, lineW = i, 0
		}
		lineW += p.width
	}
	lines = append(lines, buildLine(bi, text, runs, pieces[from:]))
	lines[len(lines)-1].last = true
	return lines
}

func splitPieces(runs []lineSegment, text []byte, wrapW int) []wrapPiece {
	var pieces []wrapPiece
	for ri, seg := range runs {
		if seg.isImage() {
			pieces = append(pieces, wrapPiece{run: ri, start: seg.start, end: seg.end, width: seg.width, ink: seg.width})
			continue
		}
		for pos := seg.start; pos < seg.end; {
			inkEnd, end := wordEnd(text, pos, seg.end)
			ink := measureString(seg.face, string(text[pos:inkEnd]))
			if ink <= wrapW {
				w := measureString(seg.face, string(text[pos:end]))
				pieces = append(pieces, wrapPiece{run: ri, start: pos, end: end, width: w, ink: ink})
				pos = end
				continue
			}
			for pos < end {
				_, size := utf8.DecodeRune(text[pos:end])
				w := measureString(seg.face, string(text[pos:pos+size]))
				pieces = append(pieces, wrapPiece{run: ri, start: pos, end: pos + size, width: w, ink: w})
				pos += size
			}
		}
	}
	return pieces
}

// wordEnd scans from pos over one word and then its trailing blanks,
// returning where the word ends and where the blanks end.
func wordEnd(text []byte, pos, limit int) (inkEnd, end int) {
	for pos < limit {
		r, size := utf8.DecodeRune(text[pos:limit])
		if unicode.IsSpace(r) {
			break
		}
		pos += size
	}
	inkEnd = pos
	for pos < limit {
		r, size := utf8.DecodeRune(text[pos:limit])
		if !unicode.IsSpace(r) {
			break
		}
		pos += size
	}
	return inkEnd, pos
}

// buildLine joins consecutive pieces of the same run into segments. A line
// with no pieces is an empty block measured with its first run. The line
// width leaves out trailing blanks.
func buildLine(bi int, text []byte, runs []lineSegment, pieces []wrapPiece) lineLayout {
	ll := lineLayout{block: bi, text: text}
	if len(pieces) == 0 {
		if len(runs) > 0 {
			seg := runs[0]
			seg.start, seg.end, seg.width = 0, 0, 0
			ll.segments = append(ll.segments, seg)
		}
	} else {
		ll.start, ll.end = pieces[0].start, pieces[len(pieces)-1].end
		for i := 0; i < len(pieces); {
			j := i + 1
			for j < len(pieces) && pieces[j].run == pieces[i].run {
				j++
			}
			seg := runs[pieces[i].run]
			seg.start, seg.end = pieces[i].start, pieces[j-1].end
			if !seg.isImage() {
				seg.text = string(text[seg.start:seg.end])
				seg.width = measureString(seg.face, seg.text)
			}
			ll.segments = append(ll.segments, seg)
			i = j
		}
	}
	descent := 0
	for _, seg := range ll.segments {
		m := seg.face.Metrics()
		if seg.isImage() {
			ll.ascent = max(ll.ascent, seg.height)
		} else {
			ll.ascent = max(ll.ascent, m.Ascent.Round())
		}
		descent = max(descent, m.Descent.Round())
		ll.width += seg.width
	}
	if len(pieces) > 0 {
		ll.width = max(0, ll.width-pieces[len(pieces)-1].blank())
	}
	ll.height = max(minLineH, ll.ascent+descent+2)
	return ll
}

// lineForBlock returns the first line of block.
func (a *App) lineForBlock(block int) (lineLayout, bool) {
	for _, ll := range a.lines {
		if ll.block == block {
			return ll, true
		}
	}
	return lineLayout{}, false
}

// lineIndexFor returns the index of the line showing pos. A position at a
// wrap point belongs to the line below.
func (a *App) lineIndexFor(pos editor.Position) (int, bool) {
	for i, ll := range a.lines {
		if ll.block == pos.Block && (pos.Byte < ll.end || ll.last) {
			return i, true
		}
	}
	return 0, false
}

func (a *App) lineForCaret() (lineLayout, bool) {
	i, ok := a.lineIndexFor(a.state.Caret())
	if !ok {
		return lineLayout{}, false
	}
	return a.lines[i], true
}

// moveCaretLine moves the caret to the visual line delta lines away, keeping
// its x position.
func (a *App) moveCaretLine(delta int) {
	i, ok := a.lineIndexFor(a.state.Caret())
	if !ok {
		a.state.MoveBlock(delta)
		return
	}
	j := min(max(i+delta, 0), len(a.lines)-1)
	cur, next := a.lines[i], a.lines[j]
	x := cur.x + lineAdvance(cur, a.state.CaretByte)
	a.state.SetCaret(next.block, byteAtX(next, x-next.x))
}

// lineAt returns the line whose band contains y, clamping to the first and
// last lines.
func (a *App) lineAt(y int) (lineLayout, bool) {
	if len(a.lines) == 0 {
		return lineLayout{}, false
	}
	for _, ll := range a.lines {
		if y < ll.y+ll.height+lineGap {
			return ll, true
		}
	}
	return a.lines[len(a.lines)-1], true
}

// positionAt maps a document point to the nearest caret position.
func (a *App) positionAt(pt image.Point) editor.Position {
	ll, ok := a.lineAt(pt.Y)
	if !ok {
		return a.state.Caret()
	}
	return editor.Position{Block: ll.block, Byte: byteAtX(ll, pt.X-ll.x)}
}

// segmentAt returns the segment drawn under pt, if any.
func (a *App) segmentAt(pt image.Point) (lineLayout, lineSegment, bool) {
	for _, ll := range a.lines {
		if pt.Y < ll.y || pt.Y >= ll.y+ll.height {
			continue
		}
		x := ll.x
		for _, seg := range ll.segments {
			if pt.X >= x && pt.X < x+seg.width {
				return ll, seg, true
			}
			x += seg.width
		}
		return lineLayout{}, lineSegment{}, false
	}
	return lineLayout{}, lineSegment{}, false
}

// imageBox returns the document rectangle an image segment occupies.
func imageBox(ll lineLayout, segX int, seg lineSegment) image.Rectangle {
	return image.Rect(segX, ll.baseline()-seg.height, segX+seg.width, ll.baseline())
}

func (a *App) segmentX(ll lineLayout, target lineSegment) int {
	x := ll.x
	for _, seg := range ll.segments {
		if seg.start == target.start {
			return x
		}
		x += seg.width
	}
	return x
}

// lineAdvance is the x offset of block byte pos within ll.
func lineAdvance(ll lineLayout, pos int) int {
	if pos <= ll.start {
		return 0
	}
	adv := 0
	for _, seg := range ll.segments {
		if pos >= seg.end {
			adv += seg.width
			continue
		}
		if pos <= seg.start {
			break
		}
		if !seg.isImage() {
			adv += measureString(seg.face, string(ll.text[seg.start:pos]))
		}
		break
	}
	return adv
}

// byteAtX returns the block byte nearest relX within ll. Positions past the
// end of a wrapped line stay on that line.
func byteAtX(ll lineLayout, relX int) int {
	limit := ll.end
	if !ll.last && limit > ll.start {
		_, size := utf8.DecodeLastRune(ll.text[ll.start:limit])
		limit -= size
	}
	if relX <= 0 {
		return ll.start
	}
	x := 0
	for _, seg := range ll.segments {
		if relX > x+seg.width {
			x += seg.width
			continue
		}
		if seg.isImage() {
			if relX < x+seg.width/2 {
				return seg.start
			}
			return min(seg.end, limit)
		}
		pos := seg.start
		runX := x
		rest := ll.text[seg.start:seg.end]
		for len(rest) > 0 {
			r, size := utf8.DecodeRune(rest)
			rw := measureString(seg.face, string(r))
			if relX < runX+rw/2 {
				return min(pos, limit)
			}
			runX += rw
			pos += size
			rest = rest[size:]
		}
		return min(seg.end, limit)
	}
	return limit
}
