package parser

import (
	"errors"

	"github.com/dhamidi/jsa/js/syntax"
)

func (p *Parser) parseRoot() CompletedMarker {
	m := p.Start()
	p.parseStatementList(syntax.KindEOF, true)
	return m.Complete(p, syntax.KindRoot)
}

func (p *Parser) parseExpressionRoot() CompletedMarker {
	m := p.Start()
	p.parseExpression().OrMissingWithError(p, expectedExpression)
	if !p.At(syntax.KindEOF) {
		rest := NewParseRecovery(syntax.KindUnknown, syntax.KindSet{})
		recovered, _ := rest.Recover(p)
		p.Error(NewDiagnostic("unexpected tokens after expression").Primary(recovered.Range(p), ""))
	}
	return m.Complete(p, syntax.KindRoot)
}

func expectedExpression(p *Parser, rng syntax.TextRange) *Diagnostic {
	return NewDiagnostic(expectedAny("an expression")).Primary(rng, "")
}

func expectedStatement(p *Parser, rng syntax.TextRange) *Diagnostic {
	return NewDiagnostic(expectedAny("a statement")).Primary(rng, "")
}

func expectedBinding(p *Parser, rng syntax.TextRange) *Diagnostic {
	return NewDiagnostic(expectedAny("an identifier", "an array pattern", "an object pattern")).Primary(rng, "")
}

func expectedIdentifier(p *Parser, rng syntax.TextRange) *Diagnostic {
	return NewDiagnostic(expectedAny("an identifier")).Primary(rng, "")
}

// parseSeparatedList parses comma separated elements up to end. Elements
// the rule cannot parse are skipped into unknown nodes by recovery, which
// must treat commas and end as safe.
func (p *Parser) parseSeparatedList(kind, end syntax.Kind, recovery ParseRecovery, expected string, element func() ParsedSyntax) CompletedMarker {
	list := p.Start()
	var progress ParserProgress
	for !p.At(end) && !p.At(syntax.KindEOF) {
		progress.AssertProgressing(p)
		if element().IsAbsent() {
			recovered, err := recovery.Recover(p)
			if recovered.IsZero() {
				p.Error(NewDiagnostic(expectedAny(expected)).Primary(p.CurRange(), ""))
				if !errors.Is(err, ErrRecoveryAlreadyRecovered) || !p.At(syntax.KindComma) {
					break
				}
			} else {
				p.Error(NewDiagnostic(expectedAny(expected)).Primary(recovered.Range(p), ""))
			}
		}
		if p.At(end) {
			break
		}
		if !p.Eat(syntax.KindComma) {
			if p.AtTS(recovery.Recovery) || p.At(syntax.KindEOF) {
				break
			}
			p.Error(NewDiagnostic(expectedToken(syntax.KindComma)).Primary(p.CurRange(), ""))
		}
	}
	return list.Complete(p, kind)
}
