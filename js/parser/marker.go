package parser

import (
	"fmt"

	"github.com/dhamidi/jsa/js/syntax"
)

// GrammarError is raised (as a panic) when a grammar rule breaks the
// parser protocol. It indicates a bug in the parser, never bad input.
type GrammarError struct {
	Message string
}

func (e *GrammarError) Error() string {
	return "parser: grammar error: " + e.Message
}

func grammarBug(format string, args ...any) {
	panic(&GrammarError{Message: fmt.Sprintf(format, args...)})
}

// Marker is an open node. It must be completed or abandoned exactly once,
// and markers close in the reverse order they were opened.
type Marker struct {
	pos   int32
	start int
}

// Start opens a marker at the current token.
func (p *Parser) Start() Marker {
	pos := int32(len(p.events))
	p.events = append(p.events, Event{Kind: EventStart, Syntax: syntax.KindTombstone})
	p.open = append(p.open, pos)
	return Marker{pos: pos, start: p.source.Position()}
}

func (p *Parser) close(pos int32, op string) {
	if len(p.open) == 0 || p.open[len(p.open)-1] != pos {
		grammarBug("%s of marker %d out of order (open: %v)", op, pos, p.open)
	}
	p.open = p.open[:len(p.open)-1]
}

// Complete closes m as a node of the given kind. The node may be empty.
func (m Marker) Complete(p *Parser, kind syntax.Kind) CompletedMarker {
	p.close(m.pos, "completion")
	p.patch(m.pos)
	p.events[m.pos].Syntax = kind
	finish := int32(len(p.events))
	p.events = append(p.events, Event{Kind: EventFinish})
	return CompletedMarker{
		startPos:  m.pos,
		finishPos: finish,
		start:     m.start,
		end:       p.source.Position(),
		kind:      kind,
	}
}

// Abandon drops m without creating a node. Its children become children
// of the enclosing node.
func (m Marker) Abandon(p *Parser) {
	p.close(m.pos, "abandon")
	p.patch(m.pos)
	p.events[m.pos].Syntax = syntax.KindTombstone
}

// CompletedMarker is a node whose kind is recorded in the event log but
// whose tree node has not been built yet.
type CompletedMarker struct {
	startPos  int32
	finishPos int32
	start     int
	end       int
	kind      syntax.Kind
}

func (m CompletedMarker) Kind() syntax.Kind {
	return m.kind
}

// IsZero reports whether m is the zero value rather than a completed node.
func (m CompletedMarker) IsZero() bool {
	return m.kind == syntax.KindTombstone
}

// Range returns the text covered by the node's significant tokens.
func (m CompletedMarker) Range(p *Parser) syntax.TextRange {
	return p.source.RangeOf(m.start, m.end)
}

func (m CompletedMarker) Text(p *Parser) string {
	return m.Range(p).Slice(p.source.Text())
}

// ChangeKind retags the node after the fact, for example to turn an
// expression into an unknown node once an enclosing rule rejects it.
func (m *CompletedMarker) ChangeKind(p *Parser, kind syntax.Kind) {
	p.patch(m.startPos)
	p.events[m.startPos].Syntax = kind
	m.kind = kind
}

// Precede opens a new marker that will wrap this node, e.g. the left
// operand of a binary expression discovered after parsing the operand.
func (m CompletedMarker) Precede(p *Parser) Marker {
	outer := p.Start()
	outer.start = m.start
	p.patch(m.startPos)
	p.events[m.startPos].ForwardParent = outer.pos - m.startPos
	return outer
}

// UndoCompletion reopens the node as a marker so it can be abandoned.
func (m CompletedMarker) UndoCompletion(p *Parser) Marker {
	if p.events[m.startPos].ForwardParent != 0 {
		grammarBug("undoing completion of a preceded marker")
	}
	p.patch(m.startPos)
	p.events[m.startPos].Syntax = syntax.KindTombstone
	p.patch(m.finishPos)
	p.events[m.finishPos] = Event{Kind: EventTombstone}
	p.open = append(p.open, m.startPos)
	return Marker{pos: m.startPos, start: m.start}
}
