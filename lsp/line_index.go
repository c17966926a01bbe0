package lsp

import (
	"sort"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/jsa/js/syntax"
)

// LineIndex converts between byte offsets and LSP positions, whose
// character is counted in UTF-16 code units. "\n", "\r\n" and "\r" all end
// a line.
type LineIndex struct {
	text  string
	lines []int
}

func NewLineIndex(text string) *LineIndex {
	lines := []int{0}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			lines = append(lines, i+1)
		case '\n':
			lines = append(lines, i+1)
		}
	}
	return &LineIndex{text: text, lines: lines}
}

// LineCount returns the number of lines; text ending in a newline has an
// empty last line.
func (li *LineIndex) LineCount() int {
	return len(li.lines)
}

// Position returns the position of a byte offset. Offsets past the end of
// the text are clamped.
func (li *LineIndex) Position(offset int) protocol.Position {
	offset = min(max(offset, 0), len(li.text))
	line := sort.Search(len(li.lines), func(i int) bool { return li.lines[i] > offset }) - 1
	col := 0
	for _, r := range li.text[li.lines[line]:offset] {
		col += utf16Len(r)
	}
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(col)}
}

// Offset returns the byte offset of a position. Characters past the end
// of a line map to the end of that line and lines past the end of the text
// map to its end.
func (li *LineIndex) Offset(pos protocol.Position) int {
	line := int(pos.Line)
	if line >= len(li.lines) {
		return len(li.text)
	}
	start, end := li.lines[line], li.lineEnd(line)
	want := int(pos.Character)
	col := 0
	for i, r := range li.text[start:end] {
		if col >= want {
			return start + i
		}
		col += utf16Len(r)
	}
	return end
}

// lineEnd is the offset of the line terminator of line, or the end of the
// text for the last line.
func (li *LineIndex) lineEnd(line int) int {
	if line+1 >= len(li.lines) {
		return len(li.text)
	}
	end := li.lines[line+1] - 1
	if end > li.lines[line] && li.text[end] == '\n' && li.text[end-1] == '\r' {
		end--
	}
	return end
}

func (li *LineIndex) Range(r syntax.TextRange) protocol.Range {
	return protocol.Range{Start: li.Position(r.Start), End: li.Position(r.End)}
}

func (li *LineIndex) TextRange(r protocol.Range) syntax.TextRange {
	start, end := li.Offset(r.Start), li.Offset(r.End)
	if end < start {
		start, end = end, start
	}
	return syntax.NewRange(start, end)
}

// EndPosition is the position just past the last character.
func (li *LineIndex) EndPosition() protocol.Position {
	return li.Position(len(li.text))
}

func utf16Len(r rune) int {
	if r == utf8.RuneError {
		return 1
	}
	if r >= 0x10000 {
		return 2
	}
	return 1
}
