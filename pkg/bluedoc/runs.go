package bluedoc

import "sort"

// NormalizeRuns returns runs that cover [0, textLen) without gaps or overlaps,
// with equal neighbours merged. An empty text keeps a single 0..0 run so the
// block remembers its typing style.
func NormalizeRuns(textLen int, runs []StyleRun) []StyleRun {
	if textLen < 0 {
		textLen = 0
	}
	if len(runs) == 0 {
		return []StyleRun{{Start: 0, End: uint32(textLen), Attr: DefaultAttr()}}
	}
	clean := make([]StyleRun, 0, len(runs))
	for _, r := range runs {
		start := min(int(r.Start), textLen)
		end := min(int(r.End), textLen)
		if start > end {
			start, end = end, start
		}
		if textLen > 0 && start == end {
			continue
		}
		if textLen == 0 && !(start == 0 && end == 0) {
			continue
		}
		clean = append(clean, StyleRun{Start: uint32(start), End: uint32(end), Attr: NormalizeAttr(r.Attr)})
	}
	if len(clean) == 0 {
		return []StyleRun{{Start: 0, End: uint32(textLen), Attr: DefaultAttr()}}
	}
	if textLen == 0 {
		return []StyleRun{{Start: 0, End: 0, Attr: clean[0].Attr.TextAttr()}}
	}

	sort.SliceStable(clean, func(i, j int) bool {
		if clean[i].Start == clean[j].Start {
			return clean[i].End < clean[j].End
		}
		return clean[i].Start < clean[j].Start
	})

	merged := make([]StyleRun, 0, len(clean))
	var cursor uint32
	for _, r := range clean {
		if r.End <= cursor {
			continue
		}
		if r.Start < cursor {
			r.Start = cursor
		}
		if r.Start > cursor {
			merged = appendRun(merged, StyleRun{Start: cursor, End: r.Start, Attr: DefaultAttr()})
		}
		merged = appendRun(merged, r)
		cursor = r.End
	}
	if int(cursor) < textLen {
		merged = appendRun(merged, StyleRun{Start: cursor, End: uint32(textLen), Attr: DefaultAttr()})
	}
	return merged
}

func appendRun(runs []StyleRun, r StyleRun) []StyleRun {
	if n := len(runs); n > 0 && runs[n-1].End == r.Start && AttrsEqual(runs[n-1].Attr, r.Attr) {
		runs[n-1].End = r.End
		return runs
	}
	return append(runs, r)
}

// ClipRuns cuts [from, to) out of runs and rebases it to start at shift.
func ClipRuns(textLen int, runs []StyleRun, from, to, shift int) []StyleRun {
	from = max(0, min(from, textLen))
	to = max(0, min(to, textLen))
	if from > to {
		from, to = to, from
	}
	out := make([]StyleRun, 0, len(runs))
	for _, r := range NormalizeRuns(textLen, runs) {
		rs, re := int(r.Start), int(r.End)
		if re <= from || rs >= to {
			continue
		}
		rs = max(rs, from)
		re = min(re, to)
		out = append(out, StyleRun{Start: uint32(rs - from + shift), End: uint32(re - from + shift), Attr: r.Attr.Clone()})
	}
	return out
}

// RunAt returns the run covering byte pos. A position at the end of the text
// resolves to the last run.
func RunAt(textLen int, runs []StyleRun, pos int) (StyleRun, int) {
	runs = NormalizeRuns(textLen, runs)
	if textLen == 0 {
		return runs[0], 0
	}
	probe := max(0, min(pos, textLen-1))
	for i, r := range runs {
		if int(r.Start) <= probe && probe < int(r.End) {
			return r, i
		}
	}
	return runs[len(runs)-1], len(runs) - 1
}
