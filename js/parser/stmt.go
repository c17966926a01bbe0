package parser

import (
	"errors"
	"strings"

	"github.com/dhamidi/jsa/js/syntax"
)

var statementRecovery = NewParseRecovery(syntax.KindUnknownStatement, syntax.NewKindSet(
	syntax.KindSemicolon,
	syntax.KindLBrace,
	syntax.KindRBrace,
	syntax.KindVarKw,
	syntax.KindConstKw,
	syntax.KindIfKw,
	syntax.KindWhileKw,
	syntax.KindForKw,
	syntax.KindReturnKw,
	syntax.KindBreakKw,
	syntax.KindContinueKw,
	syntax.KindWithKw,
	syntax.KindDebuggerKw,
	syntax.KindFunctionKw,
)).EnableRecoveryOnLineBreak()

// parseStatementList parses statements until end. Tokens that cannot start
// a statement are skipped into UnknownStatement nodes; a safe token that
// still cannot start a statement is consumed on its own so the loop always
// advances.
func (p *Parser) parseStatementList(end syntax.Kind, directives bool) CompletedMarker {
	list := p.Start()
	if directives {
		p.parseDirectives()
	}
	var progress ParserProgress
	for !p.At(end) && !p.At(syntax.KindEOF) {
		progress.AssertProgressing(p)
		if p.parseStatement().IsPresent() {
			continue
		}
		recovered, err := statementRecovery.Recover(p)
		if recovered.IsZero() {
			if !errors.Is(err, ErrRecoveryAlreadyRecovered) {
				break
			}
			m := p.Start()
			p.BumpAny()
			recovered = m.Complete(p, syntax.KindUnknownStatement)
		}
		p.Error(expectedStatement(p, recovered.Range(p)))
	}
	return list.Complete(p, syntax.KindStatementList)
}

func (p *Parser) parseDirectives() {
	for p.At(syntax.KindString) && p.atDirectiveEnd() {
		m := p.Start()
		text := p.CurText()
		p.Bump(syntax.KindString)
		p.parseSemicolon()
		m.Complete(p, syntax.KindDirective)
		if isUseStrict(text) {
			p.State.Strict = true
		}
	}
}

func (p *Parser) atDirectiveEnd() bool {
	switch p.Nth(1) {
	case syntax.KindSemicolon, syntax.KindRBrace, syntax.KindEOF:
		return true
	}
	return p.source.HasNthPrecedingLineBreak(1)
}

// parseSemicolon consumes a statement terminator. Automatic semicolon
// insertion applies before `}`, at the end of input and after a line
// break; the slot is Missing then.
func (p *Parser) parseSemicolon() {
	if p.Eat(syntax.KindSemicolon) {
		return
	}
	if !p.At(syntax.KindRBrace) && !p.At(syntax.KindEOF) && !p.HasPrecedingLineBreak() {
		p.Error(NewDiagnostic(expectedToken(syntax.KindSemicolon)).Primary(p.CurRange(), ""))
	}
	p.Missing()
}

func (p *Parser) parseStatement() ParsedSyntax {
	switch p.Cur() {
	case syntax.KindSemicolon:
		m := p.Start()
		p.Bump(syntax.KindSemicolon)
		return Present(m.Complete(p, syntax.KindEmptyStatement))
	case syntax.KindLBrace:
		return p.parseBlockStatement()
	case syntax.KindVarKw, syntax.KindConstKw:
		return p.parseVariableStatement()
	case syntax.KindIfKw:
		return p.parseIfStatement()
	case syntax.KindWhileKw:
		return p.parseWhileStatement()
	case syntax.KindForKw:
		return p.parseForStatement()
	case syntax.KindReturnKw:
		return p.parseReturnStatement()
	case syntax.KindBreakKw:
		return p.parseJumpStatement(syntax.KindBreakKw, syntax.KindBreakStatement)
	case syntax.KindContinueKw:
		return p.parseJumpStatement(syntax.KindContinueKw, syntax.KindContinueStatement)
	case syntax.KindWithKw:
		return p.parseWithStatement()
	case syntax.KindDebuggerKw:
		m := p.Start()
		p.Bump(syntax.KindDebuggerKw)
		p.parseSemicolon()
		return Present(m.Complete(p, syntax.KindDebuggerStatement))
	case syntax.KindFunctionKw:
		return Present(p.parseFunction(syntax.KindFunctionDeclaration))
	case syntax.KindIdent:
		if p.atLetDeclaration() {
			return p.parseVariableStatement()
		}
		if p.atAsyncFunction() {
			return Present(p.parseFunction(syntax.KindFunctionDeclaration))
		}
	}
	return p.parseExpressionStatement()
}

// atLetDeclaration distinguishes `let x` from `let` used as an identifier.
func (p *Parser) atLetDeclaration() bool {
	if !p.AtContextual("let") {
		return false
	}
	switch p.Nth(1) {
	case syntax.KindIdent, syntax.KindLBracket, syntax.KindLBrace:
		return true
	}
	return false
}

func (p *Parser) atAsyncFunction() bool {
	return p.AtContextual("async") && p.NthAt(1, syntax.KindFunctionKw) && !p.source.HasNthPrecedingLineBreak(1)
}

func (p *Parser) parseExpressionStatement() ParsedSyntax {
	expr := p.parseExpression()
	if expr.IsAbsent() {
		return Absent
	}
	m := expr.Precede(p)
	p.parseSemicolon()
	return Present(m.Complete(p, syntax.KindExpressionStatement))
}

func (p *Parser) parseBlockStatement() ParsedSyntax {
	if !p.At(syntax.KindLBrace) {
		return Absent
	}
	m := p.Start()
	p.Bump(syntax.KindLBrace)
	p.parseStatementList(syntax.KindRBrace, false)
	p.ExpectRequired(syntax.KindRBrace)
	return Present(m.Complete(p, syntax.KindBlockStatement))
}

func (p *Parser) parseVariableStatement() ParsedSyntax {
	m := p.Start()
	p.parseVariableDeclaration()
	p.parseSemicolon()
	return Present(m.Complete(p, syntax.KindVariableStatement))
}

// parseVariableDeclaration parses `var`, `let` or `const` and its
// declarator list. Names bound by let and const are recorded so duplicates
// within this one list are reported.
func (p *Parser) parseVariableDeclaration() CompletedMarker {
	m := p.Start()
	var keyword syntax.Kind
	switch {
	case p.At(syntax.KindVarKw), p.At(syntax.KindConstKw):
		keyword = p.Cur()
		p.Bump(keyword)
	case p.AtContextual("let"):
		keyword = syntax.KindLetKw
		p.BumpRemap(syntax.KindLetKw)
	default:
		grammarBug("variable declaration at %s", p.Cur())
	}

	p.WithState(func(s *State) {
		s.ShouldRecordNames = keyword != syntax.KindVarKw
		s.NameMap = map[string]syntax.TextRange{}
	}, func() {
		list := p.Start()
		for {
			if p.parseVariableDeclarator(keyword).IsAbsent() {
				p.Error(expectedBinding(p, p.CurRange()))
				break
			}
			if !p.Eat(syntax.KindComma) {
				break
			}
		}
		list.Complete(p, syntax.KindVariableDeclaratorList)
	})
	return m.Complete(p, syntax.KindVariableDeclaration)
}

func (p *Parser) parseVariableDeclarator(keyword syntax.Kind) ParsedSyntax {
	binding := p.parseBinding()
	if binding.IsAbsent() {
		return Absent
	}
	m := binding.Precede(p)
	p.parseTypeAnnotationSlot()
	if p.parseInitializerClause().IsAbsent() {
		p.Missing()
		if keyword == syntax.KindConstKw {
			p.Error(NewDiagnostic("const declarations must have an initialized value").
				Primary(binding.Unwrap().Range(p), "this variable needs to be initialized"))
		}
	}
	return Present(m.Complete(p, syntax.KindVariableDeclarator))
}

func (p *Parser) parseInitializerClause() ParsedSyntax {
	if !p.At(syntax.KindEq) {
		return Absent
	}
	m := p.Start()
	p.Bump(syntax.KindEq)
	p.parseAssignmentExpression().OrMissingWithError(p, expectedExpression)
	return Present(m.Complete(p, syntax.KindInitializerClause))
}

func (p *Parser) parseParenthesizedCondition() {
	p.ExpectRequired(syntax.KindLParen)
	p.WithState(func(s *State) {
		s.NoIn = false
		s.AllowObjectExpr = true
	}, func() {
		p.parseExpression().OrMissingWithError(p, expectedExpression)
	})
	p.ExpectRequired(syntax.KindRParen)
}

func (p *Parser) parseIfStatement() ParsedSyntax {
	m := p.Start()
	p.Bump(syntax.KindIfKw)
	p.parseParenthesizedCondition()
	p.parseStatement().OrMissingWithError(p, expectedStatement)
	if p.At(syntax.KindElseKw) {
		e := p.Start()
		p.Bump(syntax.KindElseKw)
		p.parseStatement().OrMissingWithError(p, expectedStatement)
		e.Complete(p, syntax.KindElseClause)
	} else {
		p.Missing()
	}
	return Present(m.Complete(p, syntax.KindIfStatement))
}

func (p *Parser) parseWhileStatement() ParsedSyntax {
	m := p.Start()
	p.Bump(syntax.KindWhileKw)
	p.parseParenthesizedCondition()
	p.parseStatement().OrMissingWithError(p, expectedStatement)
	return Present(m.Complete(p, syntax.KindWhileStatement))
}

func (p *Parser) parseForStatement() ParsedSyntax {
	m := p.Start()
	p.Bump(syntax.KindForKw)
	p.ExpectRequired(syntax.KindLParen)

	switch {
	case p.At(syntax.KindVarKw), p.At(syntax.KindConstKw), p.atLetDeclaration():
		p.WithState(func(s *State) { s.NoIn = true }, func() {
			p.parseVariableDeclaration()
		})
	default:
		p.WithState(func(s *State) { s.NoIn = true }, func() {
			p.parseExpression().OrMissing(p)
		})
	}
	p.ExpectRequired(syntax.KindSemicolon)
	p.parseExpression().OrMissing(p)
	p.ExpectRequired(syntax.KindSemicolon)
	p.parseExpression().OrMissing(p)
	p.ExpectRequired(syntax.KindRParen)
	p.parseStatement().OrMissingWithError(p, expectedStatement)
	return Present(m.Complete(p, syntax.KindForStatement))
}

func (p *Parser) parseReturnStatement() ParsedSyntax {
	m := p.Start()
	kw := p.CurRange()
	p.Bump(syntax.KindReturnKw)
	if !p.State.InFunction {
		p.Error(NewDiagnostic("illegal return statement outside of a function").Primary(kw, ""))
	}
	if p.At(syntax.KindSemicolon) || p.At(syntax.KindRBrace) || p.At(syntax.KindEOF) || p.HasPrecedingLineBreak() {
		p.Missing()
	} else {
		p.parseExpression().OrMissingWithError(p, expectedExpression)
	}
	p.parseSemicolon()
	return Present(m.Complete(p, syntax.KindReturnStatement))
}

func (p *Parser) parseJumpStatement(keyword, kind syntax.Kind) ParsedSyntax {
	m := p.Start()
	p.Bump(keyword)
	p.parseSemicolon()
	return Present(m.Complete(p, kind))
}

// parseWithStatement parses a `with` statement, which is rejected in
// strict mode and then kept as an UnknownStatement.
func (p *Parser) parseWithStatement() ParsedSyntax {
	m := p.Start()
	p.Bump(syntax.KindWithKw)
	p.parseParenthesizedCondition()
	p.parseStatement().OrMissingWithError(p, expectedStatement)
	with := Present(m.Complete(p, syntax.KindWithStatement))
	return with.Excluding(StrictMode, p, func(p *Parser, m CompletedMarker) *Diagnostic {
		return NewDiagnostic("`with` statements are not allowed in strict mode").Primary(m.Range(p), "")
	}).OrInvalidToUnknown(p, syntax.KindUnknownStatement)
}

// parseFunction parses a function declaration or expression: optional
// `async`, `function`, optional `*`, name, parameters and body.
func (p *Parser) parseFunction(kind syntax.Kind) CompletedMarker {
	m := p.Start()
	async := false
	if p.AtContextual("async") {
		p.BumpRemap(syntax.KindAsyncKw)
		async = true
	} else {
		p.Missing()
	}
	p.Bump(syntax.KindFunctionKw)
	generator := p.Eat(syntax.KindStar)
	if !generator {
		p.Missing()
	}

	sloppy := len(p.sloppyBindings)
	strict := p.State.Strict
	p.WithState(func(s *State) {
		s.ShouldRecordNames = false
		s.NameMap = nil
	}, func() {
		name := p.parseIdentifierBinding().OrInvalidToUnknown(p, syntax.KindUnknownBinding)
		if kind == syntax.KindFunctionDeclaration {
			name.OrMissingWithError(p, func(p *Parser, rng syntax.TextRange) *Diagnostic {
				return NewDiagnostic("expected a name for the function in a function declaration, but found none").Primary(rng, "")
			})
		} else {
			name.OrMissing(p)
		}
	})

	p.WithState(func(s *State) {
		s.ShouldRecordNames = false
		s.NameMap = nil
		s.InFunction = true
		s.InAsync = async
		s.InGenerator = generator
		s.AllowObjectExpr = true
		s.NoIn = false
	}, func() {
		p.parseParameters()
		end := len(p.sloppyBindings)
		p.parseFunctionBody()
		if !strict && p.State.Strict {
			p.strictenBindings(sloppy, end)
		}
	})
	return m.Complete(p, kind)
}

func (p *Parser) parseFunctionBody() {
	m := p.Start()
	if !p.Expect(syntax.KindLBrace) {
		p.Missing()
		p.Start().Complete(p, syntax.KindStatementList)
		p.Missing()
		m.Complete(p, syntax.KindFunctionBody)
		return
	}
	p.parseStatementList(syntax.KindRBrace, true)
	p.ExpectRequired(syntax.KindRBrace)
	m.Complete(p, syntax.KindFunctionBody)
}

var parameterRecovery = NewParseRecovery(syntax.KindUnknownBinding, syntax.NewKindSet(
	syntax.KindComma,
	syntax.KindRParen,
	syntax.KindLBrace,
	syntax.KindRBrace,
	syntax.KindSemicolon,
	syntax.KindArrow,
))

func (p *Parser) parseParameters() {
	m := p.Start()
	if !p.Expect(syntax.KindLParen) {
		p.Missing()
		p.Start().Complete(p, syntax.KindParameterList)
		p.Missing()
		m.Complete(p, syntax.KindParameters)
		return
	}
	p.parseSeparatedList(syntax.KindParameterList, syntax.KindRParen, parameterRecovery, "a parameter", p.parseFormalParameter)
	p.ExpectRequired(syntax.KindRParen)
	m.Complete(p, syntax.KindParameters)
}

func (p *Parser) parseFormalParameter() ParsedSyntax {
	if p.At(syntax.KindEllipsis) {
		m := p.Start()
		p.Bump(syntax.KindEllipsis)
		p.parseBinding().OrMissingWithError(p, expectedBinding)
		p.parseTypeAnnotationSlot()
		rest := m.Complete(p, syntax.KindRestParameter)
		if p.At(syntax.KindComma) {
			p.Error(NewDiagnostic("rest parameter must be the last parameter").Primary(rest.Range(p), ""))
		}
		return Present(rest)
	}
	binding := p.parseBinding()
	if binding.IsAbsent() {
		return Absent
	}
	m := binding.Precede(p)
	p.parseTypeAnnotationSlot()
	p.parseInitializerClause().OrMissing(p)
	return Present(m.Complete(p, syntax.KindFormalParameter))
}

func isUseStrict(text string) bool {
	return strings.Trim(text, `"'`) == "use strict"
}
