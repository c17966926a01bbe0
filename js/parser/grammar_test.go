package parser

import (
	"os"
	"sort"
	"testing"
	"unicode"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/jsa/js/syntax"
)

// grouping productions of the reference grammar that build no node of
// their own
var grammarGroups = map[string]bool{
	"Statement": true, "Parameter": true, "Expression": true, "Assignment": true,
	"AssignOp": true, "Conditional": true, "Binary": true, "BinaryOp": true,
	"Operand": true, "Unary": true, "Postfix": true, "LeftHandSide": true,
	"Argument": true, "Primary": true, "ArrayElement": true, "ObjectMember": true,
	"MemberName": true, "Binding": true, "ArrayBindingElement": true,
	"ObjectBindingMember": true, "TsType": true,
}

func loadGrammar(t *testing.T) ebnf.Grammar {
	t.Helper()
	f, err := os.Open("testdata/grammar.ebnf")
	if err != nil {
		t.Fatalf("open grammar: %v", err)
	}
	defer f.Close()

	grammar, err := ebnf.Parse("grammar.ebnf", f)
	if err != nil {
		t.Fatalf("parse grammar: %v", err)
	}
	return grammar
}

func TestGrammarVerifies(t *testing.T) {
	grammar := loadGrammar(t)
	if err := ebnf.Verify(grammar, "Root"); err != nil {
		t.Fatalf("verify grammar: %v", err)
	}
}

func TestGrammarProductionsNameKinds(t *testing.T) {
	grammar := loadGrammar(t)
	for name := range grammar {
		if !isSyntactic(name) || grammarGroups[name] {
			continue
		}
		if _, ok := syntax.KindFromName(name); !ok {
			t.Errorf("production %s names no node kind", name)
		}
	}
}

func TestGrammarTokensLex(t *testing.T) {
	grammar := loadGrammar(t)
	literals := make(map[string]bool)
	for name, prod := range grammar {
		if isSyntactic(name) {
			collectTokens(prod.Expr, literals)
		}
	}
	sorted := make([]string, 0, len(literals))
	for lit := range literals {
		sorted = append(sorted, lit)
	}
	sort.Strings(sorted)

	for _, lit := range sorted {
		// after an identifier a slash is division, never a regex
		src := "a " + lit
		tokens, errs := Tokenize(src)
		if len(errs) > 0 {
			t.Errorf("%q: lexer errors: %v", lit, errs[0].Message)
			continue
		}
		var significant []Token
		for _, tok := range tokens {
			if !tok.Kind.IsTrivia() {
				significant = append(significant, tok)
			}
		}
		if len(significant) != 3 {
			t.Errorf("%q: lexed into %d tokens, want 1", lit, len(significant)-2)
			continue
		}
		tok := significant[1]
		if tok.Kind == syntax.KindErrorToken {
			t.Errorf("%q: lexed as an error token", lit)
		}
		if got := tok.Range.Slice(src); got != lit {
			t.Errorf("%q: token text is %q", lit, got)
		}
	}
}

func isSyntactic(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}

func collectTokens(expr ebnf.Expression, into map[string]bool) {
	switch e := expr.(type) {
	case ebnf.Alternative:
		for _, x := range e {
			collectTokens(x, into)
		}
	case ebnf.Sequence:
		for _, x := range e {
			collectTokens(x, into)
		}
	case *ebnf.Group:
		collectTokens(e.Body, into)
	case *ebnf.Option:
		collectTokens(e.Body, into)
	case *ebnf.Repetition:
		collectTokens(e.Body, into)
	case *ebnf.Token:
		into[e.String] = true
	}
}
