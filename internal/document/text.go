package document

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"hilite/internal/registry"
)

// offset computes the byte offset of pos in doc. Characters count UTF-16
// code units as LSP positions do. Lines and characters past the end are
// clamped.
func offset(doc string, pos registry.Position) int {
	lines := strings.Split(doc, "\n")
	line := int(pos.Line)
	if line >= len(lines) {
		return len(doc)
	}

	off := 0
	// Sum bytes for all lines before the target line (including newline)
	for i := 0; i < line; i++ {
		off += len(lines[i]) + 1
	}
	return off + byteColumn(lines[line], pos.Character)
}

// byteColumn converts a UTF-16 column into a byte index within line.
func byteColumn(line string, character uint32) int {
	var units uint32
	for i, r := range line {
		if units >= character {
			return i
		}
		units += utf16Len(r)
	}
	return len(line)
}

// characterAt converts a byte index within line into a UTF-16 column.
func characterAt(line string, byteIdx int) uint32 {
	var units uint32
	for _, r := range line[:byteIdx] {
		units += utf16Len(r)
	}
	return units
}

func utf16Len(r rune) uint32 {
	if r > 0xFFFF {
		return 2
	}
	return 1
}

// applyEdit replaces rng in doc with text.
func applyEdit(doc string, rng registry.Range, text string) string {
	start := offset(doc, rng.Start)
	end := offset(doc, rng.End)
	if end < start {
		start, end = end, start
	}
	return doc[:start] + text + doc[end:]
}

// TextInRange returns the part of doc covered by rng.
func TextInRange(doc string, rng registry.Range) string {
	start := offset(doc, rng.Start)
	end := offset(doc, rng.End)
	if end < start {
		return ""
	}
	return doc[start:end]
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// WordRangeAt returns the range of the word touching pos. A position right
// after the last character of a word still belongs to it.
func WordRangeAt(doc string, pos registry.Position) (registry.Range, bool) {
	lines := strings.Split(doc, "\n")
	if int(pos.Line) >= len(lines) {
		return registry.Range{}, false
	}
	line := strings.TrimSuffix(lines[pos.Line], "\r")
	at := byteColumn(line, pos.Character)

	start := at
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(line[:start])
		if !isWordRune(r) {
			break
		}
		start -= size
	}
	end := at
	for end < len(line) {
		r, size := utf8.DecodeRuneInString(line[end:])
		if !isWordRune(r) {
			break
		}
		end += size
	}
	if start == end {
		return registry.Range{}, false
	}

	return registry.Range{
		Start: registry.Position{Line: pos.Line, Character: characterAt(line, start)},
		End:   registry.Position{Line: pos.Line, Character: characterAt(line, end)},
	}, true
}
