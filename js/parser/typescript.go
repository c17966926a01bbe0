package parser

import "github.com/dhamidi/jsa/js/syntax"

func typeScriptOnly(what string) MarkerErrorBuilder {
	return func(p *Parser, m CompletedMarker) *Diagnostic {
		return NewDiagnostic(what+" are a TypeScript only feature").
			Primary(m.Range(p), "convert this file to a TypeScript file or remove the syntax")
	}
}

func expectedType(p *Parser, rng syntax.TextRange) *Diagnostic {
	return NewDiagnostic(expectedAny("a type")).Primary(rng, "")
}

// parseTypeAnnotationSlot fills the optional type annotation slot of a
// declarator or parameter. Outside TypeScript files the annotation is
// kept as an Unknown node.
func (p *Parser) parseTypeAnnotationSlot() {
	p.parseTsTypeAnnotation().
		ExclusiveFor(TypeScript, p, typeScriptOnly("type annotations")).
		OrInvalidToUnknown(p, syntax.KindUnknown).
		OrMissing(p)
}

func (p *Parser) parseTsTypeAnnotation() ParsedSyntax {
	if !p.At(syntax.KindColon) {
		return Absent
	}
	m := p.Start()
	p.Bump(syntax.KindColon)
	p.parseTsType().OrMissingWithError(p, expectedType)
	return Present(m.Complete(p, syntax.KindTsTypeAnnotation))
}

// parseTsType parses a type reference. Only simple named types are
// supported.
func (p *Parser) parseTsType() ParsedSyntax {
	switch p.Cur() {
	case syntax.KindIdent, syntax.KindNullKw, syntax.KindVoidKw, syntax.KindThisKw:
		m := p.Start()
		p.BumpAny()
		return Present(m.Complete(p, syntax.KindTsReferenceType))
	}
	return Absent
}

func (p *Parser) parseTsAsExpression(left CompletedMarker) CompletedMarker {
	m := left.Precede(p)
	p.BumpRemap(syntax.KindAsKw)
	p.parseTsType().OrMissingWithError(p, expectedType)
	as := Present(m.Complete(p, syntax.KindTsAsExpression))
	return as.ExclusiveFor(TypeScript, p, typeScriptOnly("type assertion expressions")).
		OrInvalidToUnknown(p, syntax.KindUnknownExpression).
		Unwrap()
}

func (p *Parser) parseTsNonNullExpression(left CompletedMarker) CompletedMarker {
	m := left.Precede(p)
	p.Bump(syntax.KindBang)
	nonNull := Present(m.Complete(p, syntax.KindTsNonNullExpression))
	return nonNull.ExclusiveFor(TypeScript, p, typeScriptOnly("non-null assertions")).
		OrInvalidToUnknown(p, syntax.KindUnknownExpression).
		Unwrap()
}
