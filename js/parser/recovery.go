package parser

import (
	"errors"

	"github.com/dhamidi/jsa/js/syntax"
)

var (
	// ErrRecoveryAlreadyRecovered is returned when the parser already sits
	// on a safe token, so there is nothing to skip.
	ErrRecoveryAlreadyRecovered = errors.New("parser: recovery not needed at a safe token")
	// ErrRecoveryEOF is returned when recovery reached the end of input
	// without finding a safe token.
	ErrRecoveryEOF = errors.New("parser: recovery reached end of input")
)

// ParseRecovery skips unexpected tokens into a single unknown node.
type ParseRecovery struct {
	// Kind is the unknown node kind wrapping the skipped tokens.
	Kind syntax.Kind
	// Recovery is the set of safe tokens recovery stops at.
	Recovery syntax.KindSet
	// LineBreak stops recovery before a token preceded by a line break.
	LineBreak bool
}

func NewParseRecovery(kind syntax.Kind, recovery syntax.KindSet) ParseRecovery {
	return ParseRecovery{Kind: kind, Recovery: recovery}
}

func (r ParseRecovery) EnableRecoveryOnLineBreak() ParseRecovery {
	r.LineBreak = true
	return r
}

func (r ParseRecovery) atSafe(p *Parser) bool {
	return p.AtTS(r.Recovery) || (r.LineBreak && p.HasPrecedingLineBreak())
}

// Recover consumes tokens up to the next safe token. Only tokens are
// consumed; nested constructs are never parsed. When tokens were skipped
// before reaching the end of input the node is still completed so no text
// is lost, and it is returned together with ErrRecoveryEOF. The returned
// marker IsZero when nothing was consumed.
func (r ParseRecovery) Recover(p *Parser) (CompletedMarker, error) {
	if p.At(syntax.KindEOF) {
		return CompletedMarker{}, ErrRecoveryEOF
	}
	if r.atSafe(p) {
		return CompletedMarker{}, ErrRecoveryAlreadyRecovered
	}
	m := p.Start()
	for !p.At(syntax.KindEOF) {
		p.BumpAny()
		if r.atSafe(p) {
			return m.Complete(p, r.Kind), nil
		}
	}
	return m.Complete(p, r.Kind), ErrRecoveryEOF
}
