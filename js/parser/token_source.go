package parser

import (
	"strings"

	"github.com/dhamidi/jsa/js/syntax"
)

// TokenSource is the parser's view of the lexed input: trivia is skipped,
// lookahead is random access and peeking never changes state.
type TokenSource struct {
	text   string
	raw    []Token
	tokens []int // indexes into raw of the non-trivia tokens, ending with EOF
	pos    int
}

func NewTokenSource(text string, raw []Token) *TokenSource {
	ts := &TokenSource{text: text, raw: raw}
	for i, tok := range raw {
		if !tok.Kind.IsTrivia() {
			ts.tokens = append(ts.tokens, i)
		}
	}
	if len(ts.tokens) == 0 || raw[ts.tokens[len(ts.tokens)-1]].Kind != syntax.KindEOF {
		panic("parser: token stream must end with EOF")
	}
	return ts
}

// Cur returns the kind of the current token.
func (ts *TokenSource) Cur() syntax.Kind {
	return ts.Nth(0)
}

// Nth returns the kind of the token n positions ahead.
func (ts *TokenSource) Nth(n int) syntax.Kind {
	return ts.nthToken(n).Kind
}

func (ts *TokenSource) nthToken(n int) Token {
	i := ts.pos + n
	if i >= len(ts.tokens) {
		i = len(ts.tokens) - 1
	}
	return ts.raw[ts.tokens[i]]
}

func (ts *TokenSource) CurToken() Token {
	return ts.nthToken(0)
}

func (ts *TokenSource) CurRange() syntax.TextRange {
	return ts.nthToken(0).Range
}

func (ts *TokenSource) NthText(n int) string {
	return ts.nthToken(n).Range.Slice(ts.text)
}

// HasPrecedingLineBreak reports whether a line terminator sits between
// the previous significant token and the current one.
func (ts *TokenSource) HasPrecedingLineBreak() bool {
	return ts.hasLineBreakBefore(ts.pos)
}

// HasNthPrecedingLineBreak is HasPrecedingLineBreak for the n-th token.
func (ts *TokenSource) HasNthPrecedingLineBreak(n int) bool {
	return ts.hasLineBreakBefore(ts.pos + n)
}

func (ts *TokenSource) hasLineBreakBefore(pos int) bool {
	if pos >= len(ts.tokens) {
		pos = len(ts.tokens) - 1
	}
	end := ts.tokens[pos]
	start := 0
	if pos > 0 {
		start = ts.tokens[pos-1] + 1
	}
	for i := start; i < end; i++ {
		tok := ts.raw[i]
		if tok.Kind == syntax.KindNewline {
			return true
		}
		if tok.Kind == syntax.KindComment && strings.ContainsAny(tok.Range.Slice(ts.text), "\n\r") {
			return true
		}
	}
	return false
}

// Bump advances past the current token. Bumping EOF is a no-op.
func (ts *TokenSource) Bump() {
	if ts.Cur() != syntax.KindEOF {
		ts.pos++
	}
}

// Position returns the index of the current significant token.
func (ts *TokenSource) Position() int {
	return ts.pos
}

func (ts *TokenSource) rewind(pos int) {
	ts.pos = pos
}

// RangeOf returns the text range covered by the significant tokens in
// [start, end). An empty span yields an empty range at the start token.
func (ts *TokenSource) RangeOf(start, end int) syntax.TextRange {
	if start >= end {
		tok := ts.raw[ts.tokens[min(start, len(ts.tokens)-1)]]
		return syntax.EmptyRange(tok.Range.Start)
	}
	first := ts.raw[ts.tokens[start]]
	last := ts.raw[ts.tokens[min(end, len(ts.tokens))-1]]
	return syntax.TextRange{Start: first.Range.Start, End: last.Range.End}
}

func (ts *TokenSource) Text() string {
	return ts.text
}
