package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/jsa/js/syntax"
)

// a CRLF line, a line with a two byte and a four byte rune ended by a bare
// CR, and a LF line.
const mixedText = "a\r\nbé\U0001F600c\rd\n"

func pos(line, char uint32) protocol.Position {
	return protocol.Position{Line: line, Character: char}
}

func TestLineIndexPosition(t *testing.T) {
	t.Parallel()

	li := NewLineIndex(mixedText)
	assert.Equal(t, 4, li.LineCount())

	tests := []struct {
		offset int
		want   protocol.Position
	}{
		{0, pos(0, 0)},
		{1, pos(0, 1)},
		{3, pos(1, 0)},
		{4, pos(1, 1)},
		{6, pos(1, 2)},
		{10, pos(1, 4)},
		{11, pos(1, 5)},
		{12, pos(2, 0)},
		{13, pos(2, 1)},
		{14, pos(3, 0)},
		{99, pos(3, 0)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, li.Position(tt.offset), "offset %d", tt.offset)
	}
	assert.Equal(t, pos(3, 0), li.EndPosition())
}

func TestLineIndexOffset(t *testing.T) {
	t.Parallel()

	li := NewLineIndex(mixedText)
	tests := []struct {
		pos  protocol.Position
		want int
	}{
		{pos(0, 0), 0},
		{pos(0, 99), 1},
		{pos(1, 2), 6},
		{pos(1, 3), 10},
		{pos(1, 4), 10},
		{pos(2, 5), 13},
		{pos(9, 0), 14},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, li.Offset(tt.pos), "position %v", tt.pos)
	}
}

func TestLineIndexRoundTrip(t *testing.T) {
	t.Parallel()

	li := NewLineIndex(mixedText)
	for _, offset := range []int{0, 1, 3, 4, 6, 10, 11, 12, 13, 14} {
		assert.Equal(t, offset, li.Offset(li.Position(offset)), "offset %d", offset)
	}

	rng := syntax.NewRange(4, 11)
	assert.Equal(t, protocol.Range{Start: pos(1, 1), End: pos(1, 5)}, li.Range(rng))
	assert.Equal(t, rng, li.TextRange(li.Range(rng)))
	assert.Equal(t, rng, li.TextRange(protocol.Range{Start: pos(1, 5), End: pos(1, 1)}))
}

func TestLineIndexEmpty(t *testing.T) {
	t.Parallel()

	li := NewLineIndex("")
	assert.Equal(t, 1, li.LineCount())
	assert.Equal(t, pos(0, 0), li.Position(0))
	assert.Equal(t, 0, li.Offset(pos(3, 3)))
}

func TestUrlInterner(t *testing.T) {
	t.Parallel()

	in := NewUrlInterner()
	a := in.Intern("file:///a.js")
	b := in.Intern("file:///b.js")
	assert.EqualValues(t, 0, a)
	assert.EqualValues(t, 1, b)
	assert.Equal(t, a, in.Intern("file:///a.js"))
	assert.Equal(t, 2, in.Len())

	id, ok := in.Get("file:///b.js")
	assert.True(t, ok)
	assert.Equal(t, b, id)
	_, ok = in.Get("file:///c.js")
	assert.False(t, ok)

	assert.Equal(t, "file:///a.js", in.Lookup(a))
	assert.Equal(t, "file:///b.js", in.Lookup(b))
}
