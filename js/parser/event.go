package parser

import (
	"fmt"

	"github.com/dhamidi/jsa/js/syntax"
)

type EventKind uint8

const (
	EventTombstone EventKind = iota
	EventStart
	EventFinish
	EventToken
	EventMissing
	EventError
)

var eventKindNames = map[EventKind]string{
	EventTombstone: "Tombstone",
	EventStart:     "Start",
	EventFinish:    "Finish",
	EventToken:     "Token",
	EventMissing:   "Missing",
	EventError:     "Error",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Event is one entry of the flat log the parser writes. The tree is built
// from the log after parsing, so node kinds stay editable until then.
type Event struct {
	Kind EventKind
	// Syntax is the node kind of a Start event (KindTombstone while the
	// marker is open or after it was abandoned) or the kind of a Token.
	Syntax syntax.Kind
	// ForwardParent is the distance from a Start event to the Start event
	// of the node created by Precede, which wraps this one.
	ForwardParent int32
	// Diagnostic indexes the parser's diagnostics for Error events.
	Diagnostic int32
}

func (e Event) String() string {
	switch e.Kind {
	case EventStart:
		if e.ForwardParent != 0 {
			return fmt.Sprintf("Start(%s, forward %d)", e.Syntax, e.ForwardParent)
		}
		return fmt.Sprintf("Start(%s)", e.Syntax)
	case EventToken:
		return fmt.Sprintf("Token(%s)", e.Syntax)
	case EventError:
		return fmt.Sprintf("Error(%d)", e.Diagnostic)
	}
	return e.Kind.String()
}

// treeSink replays an event log into a syntax.Builder. Trivia between
// significant tokens is attached to the innermost node open when the next
// token or node starts, so nodes never begin or end with trivia.
type treeSink struct {
	text        string
	raw         []Token
	pos         int
	builder     *syntax.Builder
	diagnostics []*Diagnostic
}

func buildTree(text string, raw []Token, events []Event, diagnostics []*Diagnostic) (*syntax.Tree, []*Diagnostic) {
	s := &treeSink{
		text:    text,
		raw:     raw,
		builder: syntax.NewBuilder(),
	}
	events = append([]Event(nil), events...)

	var forwardParents []syntax.Kind
	for i := range events {
		ev := events[i]
		switch ev.Kind {
		case EventTombstone:
		case EventStart:
			forwardParents = forwardParents[:0]
			forwardParents = append(forwardParents, ev.Syntax)
			idx := int32(i)
			fp := ev.ForwardParent
			for fp != 0 {
				idx += fp
				parent := events[idx]
				fp = parent.ForwardParent
				forwardParents = append(forwardParents, parent.Syntax)
				events[idx] = Event{Kind: EventTombstone}
			}
			for j := len(forwardParents) - 1; j >= 0; j-- {
				if forwardParents[j] != syntax.KindTombstone {
					s.startNode(forwardParents[j])
				}
			}
		case EventFinish:
			s.finishNode()
		case EventToken:
			s.token(ev.Syntax)
		case EventMissing:
			s.builder.Missing()
		case EventError:
			s.diagnostics = append(s.diagnostics, diagnostics[ev.Diagnostic])
		}
	}
	return s.builder.Finish(), s.diagnostics
}

func (s *treeSink) flushTrivia() {
	for s.pos < len(s.raw) && s.raw[s.pos].Kind.IsTrivia() {
		tok := s.raw[s.pos]
		s.builder.Token(tok.Kind, tok.Range.Slice(s.text))
		s.pos++
	}
}

func (s *treeSink) startNode(kind syntax.Kind) {
	if s.builder.Depth() > 0 {
		s.flushTrivia()
	}
	s.builder.StartNode(kind)
}

func (s *treeSink) finishNode() {
	if s.builder.Depth() == 1 {
		// Closing the root: everything left is trailing trivia.
		for s.pos < len(s.raw) && s.raw[s.pos].Kind != syntax.KindEOF {
			tok := s.raw[s.pos]
			s.builder.Token(tok.Kind, tok.Range.Slice(s.text))
			s.pos++
		}
	}
	s.builder.FinishNode()
}

func (s *treeSink) token(kind syntax.Kind) {
	s.flushTrivia()
	if s.pos >= len(s.raw) || s.raw[s.pos].Kind == syntax.KindEOF {
		grammarBug("token event past the end of input")
	}
	tok := s.raw[s.pos]
	s.builder.Token(kind, tok.Range.Slice(s.text))
	s.pos++
}
