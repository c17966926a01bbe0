package parser

import (
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/jsa/js/syntax"
)

// Token is one lexed token. Trivia tokens are kept so that the token
// ranges tile the whole input.
type Token struct {
	Kind  syntax.Kind
	Range syntax.TextRange
}

type Lexer struct {
	input  []byte
	pos    int
	prev   syntax.Kind
	errors []*Diagnostic
}

func NewLexer(input []byte) *Lexer {
	return &Lexer{
		input: input,
		prev:  syntax.KindTombstone,
	}
}

// Errors returns the diagnostics for malformed tokens seen so far.
func (l *Lexer) Errors() []*Diagnostic {
	return l.errors
}

// Tokenize lexes text completely. The last token is always KindEOF.
func Tokenize(text string) ([]Token, []*Diagnostic) {
	l := NewLexer([]byte(text))
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == syntax.KindEOF {
			break
		}
	}
	return tokens, l.errors
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) error(start int, msg string) {
	l.errors = append(l.errors, NewDiagnostic(msg).Primary(syntax.TextRange{Start: start, End: l.pos}, ""))
}

func (l *Lexer) NextToken() Token {
	tok := l.scan()
	if !tok.Kind.IsTrivia() {
		l.prev = tok.Kind
	}
	return tok
}

func (l *Lexer) scan() Token {
	start := l.pos
	if l.atEnd() {
		return Token{Kind: syntax.KindEOF, Range: syntax.EmptyRange(start)}
	}

	ch := l.peek()

	switch {
	case ch == '\n' || ch == '\r':
		return l.scanNewline(start)
	case ch == ' ' || ch == '\t' || ch == '\v' || ch == '\f':
		return l.scanWhitespace(start)
	case ch == '/' && l.peekN(1) == '/':
		return l.scanLineComment(start)
	case ch == '/' && l.peekN(1) == '*':
		return l.scanBlockComment(start)
	case ch == '/' && l.regexAllowed():
		return l.scanRegex(start)
	case isIdentStart(ch):
		return l.scanIdentOrKeyword(start)
	case ch >= utf8.RuneSelf:
		r, size := utf8.DecodeRune(l.input[l.pos:])
		if unicode.IsLetter(r) {
			return l.scanIdentOrKeyword(start)
		}
		if unicode.IsSpace(r) {
			l.advanceN(size)
			return l.token(syntax.KindWhitespace, start)
		}
		l.advanceN(size)
		l.error(start, "unexpected character")
		return l.token(syntax.KindErrorToken, start)
	case isDigit(ch) || (ch == '.' && isDigit(l.peekN(1))):
		return l.scanNumber(start)
	case ch == '"' || ch == '\'':
		return l.scanString(start, ch)
	case ch == '`':
		return l.scanTemplate(start)
	}

	return l.scanPunctuation(start)
}

func (l *Lexer) token(kind syntax.Kind, start int) Token {
	return Token{Kind: kind, Range: syntax.TextRange{Start: start, End: l.pos}}
}

func (l *Lexer) scanNewline(start int) Token {
	for l.peek() == '\n' || l.peek() == '\r' {
		l.advance()
	}
	return l.token(syntax.KindNewline, start)
}

func (l *Lexer) scanWhitespace(start int) Token {
	for {
		ch := l.peek()
		if ch == ' ' || ch == '\t' || ch == '\v' || ch == '\f' {
			l.advance()
		} else {
			break
		}
	}
	return l.token(syntax.KindWhitespace, start)
}

func (l *Lexer) scanLineComment(start int) Token {
	l.advanceN(2)
	for !l.atEnd() && l.peek() != '\n' && l.peek() != '\r' {
		l.advance()
	}
	return l.token(syntax.KindComment, start)
}

func (l *Lexer) scanBlockComment(start int) Token {
	l.advanceN(2)
	for {
		if l.atEnd() {
			l.error(start, "unterminated block comment")
			break
		}
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			break
		}
		l.advance()
	}
	return l.token(syntax.KindComment, start)
}

func (l *Lexer) scanIdentOrKeyword(start int) Token {
	for !l.atEnd() {
		ch := l.peek()
		if isIdentPart(ch) {
			l.advance()
			continue
		}
		if ch >= utf8.RuneSelf {
			r, size := utf8.DecodeRune(l.input[l.pos:])
			if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) {
				l.advanceN(size)
				continue
			}
		}
		break
	}
	literal := string(l.input[start:l.pos])
	return l.token(syntax.LookupKeyword(literal), start)
}

func (l *Lexer) scanNumber(start int) Token {
	if l.peek() == '0' {
		switch l.peekN(1) {
		case 'x', 'X':
			l.advanceN(2)
			l.scanDigits(isHexDigit)
			return l.finishNumber(start)
		case 'o', 'O':
			l.advanceN(2)
			l.scanDigits(func(c byte) bool { return c >= '0' && c <= '7' })
			return l.finishNumber(start)
		case 'b', 'B':
			l.advanceN(2)
			l.scanDigits(func(c byte) bool { return c == '0' || c == '1' })
			return l.finishNumber(start)
		}
	}

	l.scanDigits(isDigit)
	if l.peek() == '.' {
		l.advance()
		l.scanDigits(isDigit)
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		next := l.peekN(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekN(2))) {
			l.advanceN(2)
			l.scanDigits(isDigit)
		}
	}
	return l.finishNumber(start)
}

func (l *Lexer) scanDigits(accept func(byte) bool) {
	for accept(l.peek()) || (l.peek() == '_' && accept(l.peekN(1))) {
		l.advance()
	}
}

func (l *Lexer) finishNumber(start int) Token {
	if l.peek() == 'n' {
		l.advance()
	}
	if isIdentStart(l.peek()) {
		for isIdentPart(l.peek()) {
			l.advance()
		}
		l.error(start, "identifier starts immediately after numeric literal")
		return l.token(syntax.KindErrorToken, start)
	}
	return l.token(syntax.KindNumber, start)
}

func (l *Lexer) scanString(start int, quote byte) Token {
	l.advance()
	for {
		if l.atEnd() || l.peek() == '\n' || l.peek() == '\r' {
			l.error(start, "unterminated string literal")
			return l.token(syntax.KindString, start)
		}
		ch := l.advance()
		if ch == '\\' {
			if l.peek() == '\r' && l.peekN(1) == '\n' {
				l.advance()
			}
			l.advance()
			continue
		}
		if ch == quote {
			return l.token(syntax.KindString, start)
		}
	}
}

// scanTemplate consumes a whole template literal, substitutions included,
// as a single token.
func (l *Lexer) scanTemplate(start int) Token {
	l.advance()
	depth := 0
	for {
		if l.atEnd() {
			l.error(start, "unterminated template literal")
			return l.token(syntax.KindTemplate, start)
		}
		ch := l.advance()
		switch {
		case ch == '\\':
			l.advance()
		case ch == '$' && l.peek() == '{' && depth == 0:
			l.advance()
			depth++
		case ch == '{' && depth > 0:
			depth++
		case ch == '}' && depth > 0:
			depth--
		case ch == '`' && depth == 0:
			return l.token(syntax.KindTemplate, start)
		}
	}
}

func (l *Lexer) regexAllowed() bool {
	switch l.prev {
	case syntax.KindIdent, syntax.KindNumber, syntax.KindString, syntax.KindTemplate,
		syntax.KindRegex, syntax.KindRParen, syntax.KindRBracket, syntax.KindRBrace,
		syntax.KindThisKw, syntax.KindTrueKw, syntax.KindFalseKw, syntax.KindNullKw,
		syntax.KindPlus2, syntax.KindMinus2:
		return false
	}
	return true
}

func (l *Lexer) scanRegex(start int) Token {
	l.advance()
	inClass := false
	for {
		if l.atEnd() || l.peek() == '\n' || l.peek() == '\r' {
			l.error(start, "unterminated regex literal")
			return l.token(syntax.KindRegex, start)
		}
		ch := l.advance()
		switch {
		case ch == '\\':
			l.advance()
		case ch == '[':
			inClass = true
		case ch == ']':
			inClass = false
		case ch == '/' && !inClass:
			for isIdentPart(l.peek()) {
				l.advance()
			}
			return l.token(syntax.KindRegex, start)
		}
	}
}

var punctuators = []struct {
	text string
	kind syntax.Kind
}{
	{">>>=", syntax.KindUShrEq},
	{"===", syntax.KindEq3},
	{"!==", syntax.KindNeq2},
	{"**=", syntax.KindStar2Eq},
	{"...", syntax.KindEllipsis},
	{"<<=", syntax.KindShlEq},
	{">>=", syntax.KindShrEq},
	{">>>", syntax.KindUShr},
	{"&&=", syntax.KindAmp2Eq},
	{"||=", syntax.KindPipe2Eq},
	{"??=", syntax.KindQuestion2Eq},
	{"=>", syntax.KindArrow},
	{"==", syntax.KindEq2},
	{"!=", syntax.KindNeq},
	{"<=", syntax.KindLTEq},
	{">=", syntax.KindGTEq},
	{"**", syntax.KindStar2},
	{"++", syntax.KindPlus2},
	{"--", syntax.KindMinus2},
	{"&&", syntax.KindAmp2},
	{"||", syntax.KindPipe2},
	{"??", syntax.KindQuestion2},
	{"?.", syntax.KindQuestionDot},
	{"<<", syntax.KindShl},
	{">>", syntax.KindShr},
	{"+=", syntax.KindPlusEq},
	{"-=", syntax.KindMinusEq},
	{"*=", syntax.KindStarEq},
	{"/=", syntax.KindSlashEq},
	{"%=", syntax.KindPercentEq},
	{"&=", syntax.KindAmpEq},
	{"|=", syntax.KindPipeEq},
	{"^=", syntax.KindCaretEq},
	{"(", syntax.KindLParen},
	{")", syntax.KindRParen},
	{"{", syntax.KindLBrace},
	{"}", syntax.KindRBrace},
	{"[", syntax.KindLBracket},
	{"]", syntax.KindRBracket},
	{";", syntax.KindSemicolon},
	{",", syntax.KindComma},
	{".", syntax.KindDot},
	{":", syntax.KindColon},
	{"?", syntax.KindQuestion},
	{"=", syntax.KindEq},
	{"<", syntax.KindLT},
	{">", syntax.KindGT},
	{"+", syntax.KindPlus},
	{"-", syntax.KindMinus},
	{"*", syntax.KindStar},
	{"/", syntax.KindSlash},
	{"%", syntax.KindPercent},
	{"!", syntax.KindBang},
	{"~", syntax.KindTilde},
	{"&", syntax.KindAmp},
	{"|", syntax.KindPipe},
	{"^", syntax.KindCaret},
}

func (l *Lexer) scanPunctuation(start int) Token {
	rest := l.input[l.pos:]
	for _, p := range punctuators {
		if len(rest) < len(p.text) || string(rest[:len(p.text)]) != p.text {
			continue
		}
		// a?.5 is a conditional, not optional chaining
		if p.kind == syntax.KindQuestionDot && isDigit(l.peekN(2)) {
			continue
		}
		l.advanceN(len(p.text))
		return l.token(p.kind, start)
	}
	l.advance()
	l.error(start, "unexpected character")
	return l.token(syntax.KindErrorToken, start)
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
