package editor

import (
	"unicode"
	"unicode/utf8"
)

func clampToRuneBoundary(text []byte, pos int) int {
	if pos <= 0 {
		return 0
	}
	if pos >= len(text) {
		return len(text)
	}
	for pos > 0 && !utf8.RuneStart(text[pos]) {
		pos--
	}
	return pos
}

func previousRuneBoundary(text []byte, pos int) int {
	pos = clampToRuneBoundary(text, pos)
	if pos == 0 {
		return 0
	}
	_, size := utf8.DecodeLastRune(text[:pos])
	return pos - max(size, 1)
}

func nextRuneBoundary(text []byte, pos int) int {
	pos = clampToRuneBoundary(text, pos)
	if pos >= len(text) {
		return len(text)
	}
	_, size := utf8.DecodeRune(text[pos:])
	return pos + max(size, 1)
}

// scanBack moves left from pos while keep holds for the rune before it.
func scanBack(text []byte, pos int, keep func(rune) bool) int {
	for pos > 0 {
		r, size := utf8.DecodeLastRune(text[:pos])
		if !keep(r) {
			break
		}
		pos -= max(size, 1)
	}
	return pos
}

func scanForward(text []byte, pos int, keep func(rune) bool) int {
	for pos < len(text) {
		r, size := utf8.DecodeRune(text[pos:])
		if !keep(r) {
			break
		}
		pos += max(size, 1)
	}
	return pos
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func notWordRune(r rune) bool { return !isWordRune(r) }

func notSpace(r rune) bool { return !unicode.IsSpace(r) }

// wordStartBefore is the caret target of Ctrl+Left.
func wordStartBefore(text []byte, pos int) int {
	pos = clampToRuneBoundary(text, pos)
	pos = scanBack(text, pos, notWordRune)
	return scanBack(text, pos, isWordRune)
}

// wordEndAfter is the caret target of Ctrl+Right.
func wordEndAfter(text []byte, pos int) int {
	pos = clampToRuneBoundary(text, pos)
	pos = scanForward(text, pos, notWordRune)
	return scanForward(text, pos, isWordRune)
}

// previousWordBoundary and nextWordBoundary delimit Ctrl+Backspace and
// Ctrl+Delete, which split on whitespace.
func previousWordBoundary(text []byte, pos int) int {
	pos = clampToRuneBoundary(text, pos)
	pos = scanBack(text, pos, unicode.IsSpace)
	return scanBack(text, pos, notSpace)
}

func nextWordBoundary(text []byte, pos int) int {
	pos = clampToRuneBoundary(text, pos)
	pos = scanForward(text, pos, unicode.IsSpace)
	return scanForward(text, pos, notSpace)
}
