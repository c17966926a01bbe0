package parser

import (
	"fmt"

	"github.com/dhamidi/jsa/js/syntax"
)

var bindingRecovery = NewParseRecovery(syntax.KindUnknownBinding, syntax.NewKindSet(
	syntax.KindComma,
	syntax.KindRBracket,
	syntax.KindRBrace,
	syntax.KindEq,
	syntax.KindSemicolon,
	syntax.KindRParen,
))

// parseBinding parses an identifier, array pattern or object pattern.
func (p *Parser) parseBinding() ParsedSyntax {
	switch {
	case p.At(syntax.KindLBracket):
		return p.parseArrayBindingPattern()
	case p.At(syntax.KindLBrace) && p.State.AllowObjectExpr:
		return p.parseObjectBindingPattern()
	case p.At(syntax.KindIdent):
		return p.parseIdentifierBinding().OrInvalidToUnknown(p, syntax.KindUnknownBinding)
	}
	return Absent
}

// parseIdentifierBinding parses an identifier that introduces a name. The
// binding is invalid when the name is:
//   - `eval` or `arguments` in strict mode
//   - `let` inside a let or const declaration
//   - already bound in the same let or const declaration list
//   - `yield` in a generator or in strict mode
//   - `await` in an async function or a module
//
// An invalid binding is still returned as present since its token was
// consumed.
func (p *Parser) parseIdentifierBinding() ParsedConditional {
	parsed := p.parseIdentifier(syntax.KindIdentifierBinding)
	c, ok := parsed.Ok()
	if !ok || c.IsInvalid() {
		return parsed
	}
	ident := c.CompletedMarker()
	name := ident.Text(p)

	if StrictMode.IsSupported(p) && (name == "eval" || name == "arguments") {
		p.Error(NewDiagnostic(fmt.Sprintf("illegal use of `%s` as an identifier in strict mode", name)).
			Primary(ident.Range(p), ""))
		return PresentConditional(Invalid(ident))
	}

	if p.State.ShouldRecordNames {
		if name == "let" {
			p.Error(NewDiagnostic("`let` cannot be declared as a variable name inside of a let or const declaration").
				Primary(ident.Range(p), "rename the let variable here"))
			return PresentConditional(Invalid(ident))
		}
		if first, seen := p.State.NameMap[name]; seen {
			p.Error(NewDiagnostic("declarations inside of a `let` or `const` declaration may not have duplicates").
				Primary(ident.Range(p), fmt.Sprintf("a second declaration of %s is not allowed", name)).
				AddSecondary(first, fmt.Sprintf("%s is first declared here", name)))
			return PresentConditional(Invalid(ident))
		}
		if p.State.NameMap == nil {
			p.State.NameMap = map[string]syntax.TextRange{}
		}
		p.State.NameMap[name] = ident.Range(p)
	}
	if name == "eval" || name == "arguments" {
		p.sloppyBindings = append(p.sloppyBindings, ident)
	}
	return PresentConditional(Valid(ident))
}

// strictenBindings invalidates the eval and arguments bindings recorded
// in p.sloppyBindings[from:to]. A function whose body starts with a
// "use strict" directive is strict from its name on.
func (p *Parser) strictenBindings(from, to int) {
	for _, ident := range p.sloppyBindings[from:to] {
		if p.events[ident.startPos].Syntax != syntax.KindIdentifierBinding {
			continue
		}
		p.Error(NewDiagnostic(fmt.Sprintf("illegal use of `%s` as an identifier in strict mode", ident.Text(p))).
			Primary(ident.Range(p), ""))
		ident.ChangeKind(p, syntax.KindUnknownBinding)
	}
}

// parseBindingWithOptionalDefault parses a binding followed by an optional
// `= default`.
func (p *Parser) parseBindingWithOptionalDefault() ParsedSyntax {
	binding := p.parseBinding()
	if !p.At(syntax.KindEq) {
		return binding
	}
	m := binding.PrecedeOrMissingWithError(p, expectedBinding)
	p.Bump(syntax.KindEq)
	p.WithState(func(s *State) {
		s.NoIn = false
		s.AllowObjectExpr = true
	}, func() {
		p.parseAssignmentExpression().OrMissingWithError(p, expectedExpression)
	})
	return Present(m.Complete(p, syntax.KindBindingWithDefault))
}

func (p *Parser) parseArrayBindingPattern() ParsedSyntax {
	m := p.Start()
	p.Bump(syntax.KindLBracket)
	p.parseSeparatedList(syntax.KindArrayBindingElementList, syntax.KindRBracket, bindingRecovery,
		"an identifier, an object pattern, an array pattern or a rest pattern", p.parseArrayBindingElement)
	p.ExpectRequired(syntax.KindRBracket)
	return Present(m.Complete(p, syntax.KindArrayBindingPattern))
}

func (p *Parser) parseArrayBindingElement() ParsedSyntax {
	switch p.Cur() {
	case syntax.KindComma:
		return Present(p.Start().Complete(p, syntax.KindArrayHole))
	case syntax.KindEllipsis:
		m := p.Start()
		p.Bump(syntax.KindEllipsis)
		p.parseBinding().OrMissingWithError(p, expectedBinding)
		rest := m.Complete(p, syntax.KindArrayRestBinding)
		switch {
		case p.At(syntax.KindEq):
			p.Error(NewDiagnostic("rest element cannot have a default").Primary(rest.Range(p), ""))
		case p.At(syntax.KindComma):
			p.Error(NewDiagnostic("rest element must be the last element").Primary(rest.Range(p), ""))
		}
		return Present(rest)
	}
	return p.parseBindingWithOptionalDefault()
}

func (p *Parser) parseObjectBindingPattern() ParsedSyntax {
	m := p.Start()
	p.Bump(syntax.KindLBrace)
	p.parseSeparatedList(syntax.KindObjectBindingMemberList, syntax.KindRBrace, bindingRecovery,
		"an identifier, a property binding or a rest pattern", p.parseObjectBindingMember)
	p.ExpectRequired(syntax.KindRBrace)
	return Present(m.Complete(p, syntax.KindObjectBindingPattern))
}

func (p *Parser) parseObjectBindingMember() ParsedSyntax {
	if p.At(syntax.KindEllipsis) {
		m := p.Start()
		p.Bump(syntax.KindEllipsis)
		p.parseIdentifierBinding().OrInvalidToUnknown(p, syntax.KindUnknownBinding).OrMissingWithError(p, expectedIdentifier)
		rest := m.Complete(p, syntax.KindObjectRestBinding)
		if p.At(syntax.KindComma) {
			p.Error(NewDiagnostic("rest element must be the last element").Primary(rest.Range(p), ""))
		}
		return Present(rest)
	}

	if p.At(syntax.KindIdent) && !p.NthAt(1, syntax.KindColon) {
		binding := p.parseIdentifierBinding().OrInvalidToUnknown(p, syntax.KindUnknownBinding)
		m := binding.Precede(p)
		p.parseInitializerClause().OrMissing(p)
		return Present(m.Complete(p, syntax.KindShorthandPropertyBinding))
	}

	name := p.parseMemberName()
	if name.IsAbsent() {
		return Absent
	}
	m := name.Precede(p)
	p.ExpectRequired(syntax.KindColon)
	p.parseBinding().OrMissingWithError(p, expectedBinding)
	p.parseInitializerClause().OrMissing(p)
	return Present(m.Complete(p, syntax.KindPropertyBinding))
}
