package parser

import (
	"github.com/dhamidi/jsa/js/syntax"
)

var assignmentOperators = syntax.NewKindSet(
	syntax.KindEq,
	syntax.KindPlusEq,
	syntax.KindMinusEq,
	syntax.KindStarEq,
	syntax.KindSlashEq,
	syntax.KindPercentEq,
	syntax.KindAmpEq,
	syntax.KindPipeEq,
	syntax.KindCaretEq,
	syntax.KindShlEq,
	syntax.KindShrEq,
	syntax.KindUShrEq,
	syntax.KindStar2Eq,
	syntax.KindAmp2Eq,
	syntax.KindPipe2Eq,
	syntax.KindQuestion2Eq,
)

var assignmentTargets = syntax.NewKindSet(
	syntax.KindIdentifierExpression,
	syntax.KindStaticMemberExpression,
	syntax.KindComputedMemberExpression,
	syntax.KindTsNonNullExpression,
	syntax.KindArrayExpression,
	syntax.KindObjectExpression,
	syntax.KindParenthesizedExpression,
)

var elementRecovery = NewParseRecovery(syntax.KindUnknownExpression, syntax.NewKindSet(
	syntax.KindComma,
	syntax.KindRParen,
	syntax.KindRBracket,
	syntax.KindRBrace,
	syntax.KindSemicolon,
))

var memberRecovery = NewParseRecovery(syntax.KindUnknownMember, syntax.NewKindSet(
	syntax.KindComma,
	syntax.KindRBrace,
	syntax.KindSemicolon,
))

// parseExpression parses a comma separated sequence of assignment
// expressions.
func (p *Parser) parseExpression() ParsedSyntax {
	left := p.parseAssignmentExpression()
	if left.IsAbsent() {
		return left
	}
	for p.At(syntax.KindComma) {
		m := left.Precede(p)
		p.Bump(syntax.KindComma)
		p.parseAssignmentExpression().OrMissingWithError(p, expectedExpression)
		left = Present(m.Complete(p, syntax.KindSequenceExpression))
	}
	return left
}

func (p *Parser) parseAssignmentExpression() ParsedSyntax {
	if arrow := p.parseArrowFunction(); arrow.IsPresent() {
		return arrow
	}
	left := p.parseConditionalExpression()
	if left.IsAbsent() || !p.AtTS(assignmentOperators) {
		return left
	}

	target := left.Unwrap()
	switch {
	case !assignmentTargets.Contains(target.Kind()):
		p.Error(NewDiagnostic("invalid assignment target").Primary(target.Range(p), ""))
		target.ChangeKind(p, syntax.KindUnknownExpression)
	case target.Kind() == syntax.KindIdentifierExpression && p.State.Strict:
		if name := target.Text(p); name == "eval" || name == "arguments" {
			p.Errorf(target.Range(p), "cannot assign to `%s` in strict mode", name)
			target.ChangeKind(p, syntax.KindUnknownExpression)
		}
	}

	m := target.Precede(p)
	p.BumpAny()
	p.parseAssignmentExpression().OrMissingWithError(p, expectedExpression)
	return Present(m.Complete(p, syntax.KindAssignmentExpression))
}

// parseArrowFunction recognizes an arrow function. A parenthesized
// parameter list is parsed speculatively: if no `=>` follows, or the list
// had errors, the parser rewinds and the caller parses an expression.
func (p *Parser) parseArrowFunction() ParsedSyntax {
	async := false
	switch {
	case p.At(syntax.KindIdent) && p.NthAt(1, syntax.KindArrow):
	case p.AtContextual("async") && p.NthAt(1, syntax.KindIdent) && p.NthAt(2, syntax.KindArrow):
		async = true
	case p.AtContextual("async") && p.NthAt(1, syntax.KindLParen):
		async = true
	case p.At(syntax.KindLParen):
	default:
		return Absent
	}
	if async && p.source.HasNthPrecedingLineBreak(1) {
		return Absent
	}

	checkpoint := p.Checkpoint()
	m := p.Start()
	if async {
		p.BumpRemap(syntax.KindAsyncKw)
	} else {
		p.Missing()
	}

	ok := false
	sloppy := len(p.sloppyBindings)
	strict := p.State.Strict
	p.WithState(func(s *State) {
		s.ShouldRecordNames = false
		s.NameMap = nil
		s.InFunction = true
		s.InAsync = async
		s.InGenerator = false
		s.AllowObjectExpr = true
		s.NoIn = false
	}, func() {
		if p.At(syntax.KindLParen) {
			p.parseParameters()
			if len(p.diags) > checkpoint.diagnostics {
				return
			}
		} else {
			p.parseIdentifierBinding().OrInvalidToUnknown(p, syntax.KindUnknownBinding).Unwrap()
		}
		if !p.At(syntax.KindArrow) || p.HasPrecedingLineBreak() {
			return
		}
		end := len(p.sloppyBindings)
		p.Bump(syntax.KindArrow)
		if p.At(syntax.KindLBrace) {
			p.parseFunctionBody()
			if !strict && p.State.Strict {
				p.strictenBindings(sloppy, end)
			}
		} else {
			p.parseAssignmentExpression().OrMissingWithError(p, expectedExpression)
		}
		ok = true
	})
	if !ok {
		p.Rewind(checkpoint)
		return Absent
	}
	return Present(m.Complete(p, syntax.KindArrowFunctionExpression))
}

func (p *Parser) parseConditionalExpression() ParsedSyntax {
	test := p.parseBinaryExpression(0)
	if test.IsAbsent() || !p.At(syntax.KindQuestion) {
		return test
	}
	m := test.Precede(p)
	p.Bump(syntax.KindQuestion)
	p.WithState(func(s *State) { s.NoIn = false }, func() {
		p.parseAssignmentExpression().OrMissingWithError(p, expectedExpression)
	})
	p.ExpectRequired(syntax.KindColon)
	p.parseAssignmentExpression().OrMissingWithError(p, expectedExpression)
	return Present(m.Complete(p, syntax.KindConditionalExpression))
}

const relationalPrecedence = 8

func binaryPrecedence(kind syntax.Kind, noIn bool) int {
	switch kind {
	case syntax.KindQuestion2:
		return 1
	case syntax.KindPipe2:
		return 2
	case syntax.KindAmp2:
		return 3
	case syntax.KindPipe:
		return 4
	case syntax.KindCaret:
		return 5
	case syntax.KindAmp:
		return 6
	case syntax.KindEq2, syntax.KindNeq, syntax.KindEq3, syntax.KindNeq2:
		return 7
	case syntax.KindLT, syntax.KindGT, syntax.KindLTEq, syntax.KindGTEq, syntax.KindInstanceofKw:
		return relationalPrecedence
	case syntax.KindInKw:
		if noIn {
			return 0
		}
		return relationalPrecedence
	case syntax.KindShl, syntax.KindShr, syntax.KindUShr:
		return 9
	case syntax.KindPlus, syntax.KindMinus:
		return 10
	case syntax.KindStar, syntax.KindSlash, syntax.KindPercent:
		return 11
	case syntax.KindStar2:
		return 12
	}
	return 0
}

// parseBinaryExpression climbs operator precedence. Each operator wraps the
// already parsed left operand with Precede.
func (p *Parser) parseBinaryExpression(minPrecedence int) ParsedSyntax {
	operand := p.parseUnaryExpression()
	if operand.IsAbsent() {
		return operand
	}
	left := operand.Unwrap()
	for {
		if p.AtContextual("as") && !p.HasPrecedingLineBreak() && relationalPrecedence > minPrecedence {
			left = p.parseTsAsExpression(left)
			continue
		}
		precedence := binaryPrecedence(p.Cur(), p.State.NoIn)
		if precedence == 0 || precedence <= minPrecedence {
			break
		}
		kind := syntax.KindBinaryExpression
		switch p.Cur() {
		case syntax.KindAmp2, syntax.KindPipe2, syntax.KindQuestion2:
			kind = syntax.KindLogicalExpression
		}
		right := precedence
		if p.At(syntax.KindStar2) {
			right--
		}
		m := left.Precede(p)
		p.BumpAny()
		p.parseBinaryExpression(right).OrMissingWithError(p, expectedExpression)
		left = m.Complete(p, kind)
	}
	return Present(left)
}

func (p *Parser) parseUnaryExpression() ParsedSyntax {
	switch p.Cur() {
	case syntax.KindBang, syntax.KindTilde, syntax.KindPlus, syntax.KindMinus,
		syntax.KindTypeofKw, syntax.KindVoidKw, syntax.KindDeleteKw:
		m := p.Start()
		p.BumpAny()
		p.parseUnaryExpression().OrMissingWithError(p, expectedExpression)
		return Present(m.Complete(p, syntax.KindUnaryExpression))
	case syntax.KindPlus2, syntax.KindMinus2:
		m := p.Start()
		p.BumpAny()
		p.parseUnaryExpression().OrMissingWithError(p, expectedExpression)
		return Present(m.Complete(p, syntax.KindPreUpdateExpression))
	}
	if p.AtContextual("await") && (p.State.InAsync || p.module) {
		m := p.Start()
		p.BumpRemap(syntax.KindAwaitKw)
		p.parseUnaryExpression().OrMissingWithError(p, expectedExpression)
		return Present(m.Complete(p, syntax.KindAwaitExpression))
	}

	operand := p.parseLeftHandSideExpression()
	if operand.IsAbsent() {
		return operand
	}
	if (p.At(syntax.KindPlus2) || p.At(syntax.KindMinus2)) && !p.HasPrecedingLineBreak() {
		m := operand.Precede(p)
		p.BumpAny()
		return Present(m.Complete(p, syntax.KindPostUpdateExpression))
	}
	return operand
}

func (p *Parser) parseLeftHandSideExpression() ParsedSyntax {
	var callee ParsedSyntax
	if p.At(syntax.KindNewKw) {
		callee = p.parseNewExpression()
	} else {
		callee = p.parsePrimaryExpression()
	}
	if callee.IsAbsent() {
		return callee
	}
	return Present(p.parseMemberRest(callee.Unwrap(), true))
}

func (p *Parser) parseNewExpression() ParsedSyntax {
	m := p.Start()
	p.Bump(syntax.KindNewKw)
	var callee ParsedSyntax
	if p.At(syntax.KindNewKw) {
		callee = p.parseNewExpression()
	} else {
		callee = p.parsePrimaryExpression()
	}
	if c, ok := callee.Ok(); ok {
		p.parseMemberRest(c, false)
	} else {
		callee.OrMissingWithError(p, expectedExpression)
	}
	if p.At(syntax.KindLParen) {
		p.parseCallArguments()
	} else {
		p.Missing()
	}
	return Present(m.Complete(p, syntax.KindNewExpression))
}

// parseMemberRest parses member accesses, calls and non-null assertions
// following lhs.
func (p *Parser) parseMemberRest(lhs CompletedMarker, allowCall bool) CompletedMarker {
	for {
		switch {
		case p.At(syntax.KindDot),
			p.At(syntax.KindQuestionDot) && !p.NthAt(1, syntax.KindLBracket) && !p.NthAt(1, syntax.KindLParen):
			m := lhs.Precede(p)
			p.BumpAny()
			if p.At(syntax.KindIdent) || p.Cur().IsKeyword() {
				p.BumpRemap(syntax.KindIdent)
			} else {
				p.Error(expectedIdentifier(p, p.CurRange()))
				p.Missing()
			}
			lhs = m.Complete(p, syntax.KindStaticMemberExpression)
		case p.At(syntax.KindLBracket):
			m := lhs.Precede(p)
			p.Bump(syntax.KindLBracket)
			p.WithState(func(s *State) {
				s.NoIn = false
				s.AllowObjectExpr = true
			}, func() {
				p.parseExpression().OrMissingWithError(p, expectedExpression)
			})
			p.ExpectRequired(syntax.KindRBracket)
			lhs = m.Complete(p, syntax.KindComputedMemberExpression)
		case allowCall && p.At(syntax.KindLParen):
			m := lhs.Precede(p)
			p.parseCallArguments()
			lhs = m.Complete(p, syntax.KindCallExpression)
		case p.At(syntax.KindBang) && !p.HasPrecedingLineBreak():
			lhs = p.parseTsNonNullExpression(lhs)
		default:
			return lhs
		}
	}
}

func (p *Parser) parseCallArguments() {
	m := p.Start()
	p.Bump(syntax.KindLParen)
	p.WithState(func(s *State) {
		s.NoIn = false
		s.AllowObjectExpr = true
	}, func() {
		p.parseSeparatedList(syntax.KindArgumentList, syntax.KindRParen, elementRecovery, "an argument", p.parseArgument)
	})
	p.ExpectRequired(syntax.KindRParen)
	m.Complete(p, syntax.KindCallArguments)
}

func (p *Parser) parseArgument() ParsedSyntax {
	if p.At(syntax.KindEllipsis) {
		return p.parseSpreadElement()
	}
	return p.parseAssignmentExpression()
}

func (p *Parser) parseSpreadElement() ParsedSyntax {
	m := p.Start()
	p.Bump(syntax.KindEllipsis)
	p.parseAssignmentExpression().OrMissingWithError(p, expectedExpression)
	return Present(m.Complete(p, syntax.KindSpreadElement))
}

func (p *Parser) parsePrimaryExpression() ParsedSyntax {
	switch p.Cur() {
	case syntax.KindThisKw:
		m := p.Start()
		p.Bump(syntax.KindThisKw)
		return Present(m.Complete(p, syntax.KindThisExpression))
	case syntax.KindTrueKw, syntax.KindFalseKw, syntax.KindNullKw,
		syntax.KindNumber, syntax.KindString, syntax.KindRegex, syntax.KindTemplate:
		m := p.Start()
		p.BumpAny()
		return Present(m.Complete(p, syntax.KindLiteralExpression))
	case syntax.KindFunctionKw:
		return Present(p.parseFunction(syntax.KindFunctionExpression))
	case syntax.KindLParen:
		m := p.Start()
		p.Bump(syntax.KindLParen)
		p.WithState(func(s *State) {
			s.NoIn = false
			s.AllowObjectExpr = true
		}, func() {
			p.parseExpression().OrMissingWithError(p, expectedExpression)
		})
		p.ExpectRequired(syntax.KindRParen)
		return Present(m.Complete(p, syntax.KindParenthesizedExpression))
	case syntax.KindLBracket:
		return p.parseArrayExpression()
	case syntax.KindLBrace:
		if p.State.AllowObjectExpr {
			return p.parseObjectExpression()
		}
	case syntax.KindIdent:
		if p.atAsyncFunction() {
			return Present(p.parseFunction(syntax.KindFunctionExpression))
		}
		return p.parseIdentifier(syntax.KindIdentifierExpression).OrInvalidToUnknown(p, syntax.KindUnknownExpression)
	}
	return Absent
}

// parseIdentifier parses an identifier as a node of kind. `yield` and
// `await` are rejected where they are reserved.
func (p *Parser) parseIdentifier(kind syntax.Kind) ParsedConditional {
	if !p.At(syntax.KindIdent) {
		return ParsedConditional{}
	}
	name := p.CurText()
	m := p.Start()
	p.Bump(syntax.KindIdent)
	ident := m.Complete(p, kind)

	switch {
	case name == "yield" && p.State.InGenerator:
		p.Error(NewDiagnostic("illegal use of `yield` as an identifier in generator function").Primary(ident.Range(p), ""))
		return PresentConditional(Invalid(ident))
	case name == "yield" && p.State.Strict:
		p.Error(NewDiagnostic("illegal use of `yield` as an identifier in strict mode").Primary(ident.Range(p), ""))
		return PresentConditional(Invalid(ident))
	case name == "await" && p.State.InAsync:
		p.Error(NewDiagnostic("illegal use of `await` as an identifier in an async context").Primary(ident.Range(p), ""))
		return PresentConditional(Invalid(ident))
	case name == "await" && p.module:
		p.Error(NewDiagnostic("illegal use of `await` as an identifier inside of a module").Primary(ident.Range(p), ""))
		return PresentConditional(Invalid(ident))
	}
	return PresentConditional(Valid(ident))
}

func (p *Parser) parseArrayExpression() ParsedSyntax {
	m := p.Start()
	p.Bump(syntax.KindLBracket)
	p.WithState(func(s *State) {
		s.NoIn = false
		s.AllowObjectExpr = true
	}, func() {
		p.parseSeparatedList(syntax.KindArrayElementList, syntax.KindRBracket, elementRecovery, "an expression", func() ParsedSyntax {
			switch p.Cur() {
			case syntax.KindComma:
				return Present(p.Start().Complete(p, syntax.KindArrayHole))
			case syntax.KindEllipsis:
				return p.parseSpreadElement()
			}
			return p.parseAssignmentExpression()
		})
	})
	p.ExpectRequired(syntax.KindRBracket)
	return Present(m.Complete(p, syntax.KindArrayExpression))
}

func (p *Parser) parseObjectExpression() ParsedSyntax {
	m := p.Start()
	p.Bump(syntax.KindLBrace)
	p.WithState(func(s *State) {
		s.NoIn = false
	}, func() {
		p.parseSeparatedList(syntax.KindObjectMemberList, syntax.KindRBrace, memberRecovery, "an object member", p.parseObjectMember)
	})
	p.ExpectRequired(syntax.KindRBrace)
	return Present(m.Complete(p, syntax.KindObjectExpression))
}

func (p *Parser) parseObjectMember() ParsedSyntax {
	if p.At(syntax.KindEllipsis) {
		return p.parseSpreadElement()
	}
	if p.At(syntax.KindIdent) && (p.NthAt(1, syntax.KindComma) || p.NthAt(1, syntax.KindRBrace)) {
		m := p.Start()
		p.Bump(syntax.KindIdent)
		return Present(m.Complete(p, syntax.KindShorthandPropertyObjectMember))
	}
	name := p.parseMemberName()
	if name.IsAbsent() {
		return Absent
	}
	m := name.Precede(p)
	p.ExpectRequired(syntax.KindColon)
	p.parseAssignmentExpression().OrMissingWithError(p, expectedExpression)
	return Present(m.Complete(p, syntax.KindPropertyObjectMember))
}

// parseMemberName parses a property name: an identifier, keyword, string
// or number, or a computed `[expr]` name.
func (p *Parser) parseMemberName() ParsedSyntax {
	switch {
	case p.At(syntax.KindLBracket):
		m := p.Start()
		p.Bump(syntax.KindLBracket)
		p.WithState(func(s *State) {
			s.NoIn = false
			s.AllowObjectExpr = true
		}, func() {
			p.parseAssignmentExpression().OrMissingWithError(p, expectedExpression)
		})
		p.ExpectRequired(syntax.KindRBracket)
		return Present(m.Complete(p, syntax.KindComputedMemberName))
	case p.At(syntax.KindIdent), p.Cur().IsKeyword(), p.At(syntax.KindString), p.At(syntax.KindNumber):
		m := p.Start()
		p.BumpAny()
		return Present(m.Complete(p, syntax.KindLiteralMemberName))
	}
	return Absent
}
