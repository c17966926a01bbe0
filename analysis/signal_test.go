package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/jsa/js/parser"
	"github.com/dhamidi/jsa/js/syntax"
)

// tokenAt returns the first token of the parsed text with the given text.
func tokenAt(t *testing.T, root syntax.Node, text string) syntax.Token {
	t.Helper()
	for tok := range root.DescendantTokens() {
		if tok.Text() == text {
			return tok
		}
	}
	t.Fatalf("no token %q", text)
	return syntax.Token{}
}

func replace(old syntax.Token, text string) Replacement {
	return Replacement{Old: old.Element(), New: syntax.MakeToken(syntax.KindIdent, text).Element()}
}

func TestApplyReplacements(t *testing.T) {
	t.Parallel()

	text := "let a = b + c;"
	root := parser.Parse(text).Root()
	a, b, c := tokenAt(t, root, "a"), tokenAt(t, root, "b"), tokenAt(t, root, "c")

	out, err := ApplyReplacements(text, []Replacement{replace(c, "z"), replace(a, "x")})
	require.NoError(t, err)
	assert.Equal(t, "let x = b + z;", out)

	out, err = ApplyReplacements(text, nil)
	require.NoError(t, err)
	assert.Equal(t, text, out)

	_, err = ApplyReplacements(text, []Replacement{replace(b, "x"), replace(b, "y")})
	assert.ErrorIs(t, err, ErrOverlappingReplacements)

	_, err = ApplyReplacements("le", []Replacement{replace(c, "z")})
	assert.Error(t, err)
}

func TestApplyFixes(t *testing.T) {
	t.Parallel()

	h := New()
	text := "if (a == b && c == d) { x = e < f; }"
	h.SetFileText(0, text)
	sig, err := h.Analyze(0, rangePtr(0, len(text)))
	require.NoError(t, err)

	out, applied, err := ApplyFixes(text, sig)
	require.NoError(t, err)
	assert.Equal(t, 2, applied)
	assert.Equal(t, "if (a === b && c === d) { x = e < f; }", out)
}

func TestApplyFixesSkipsConflicts(t *testing.T) {
	t.Parallel()

	text := "a + b"
	root := parser.Parse(text).Root()
	a := tokenAt(t, root, "a")
	diag := []Diagnostic{{Range: a.Range(), Message: "m"}}
	sig := Signal{Actions: []Action{
		{Title: "first", Replacements: []Replacement{replace(a, "x")}, Diagnostics: diag},
		{Title: "second", Replacements: []Replacement{replace(a, "y")}, Diagnostics: diag},
		{Title: "refactor", Replacements: []Replacement{replace(tokenAt(t, root, "b"), "q")}},
	}}
	out, applied, err := ApplyFixes(text, sig)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	assert.Equal(t, "x + b", out)
}

func TestSignalMerge(t *testing.T) {
	t.Parallel()

	var s Signal
	s.Merge(Signal{Diagnostics: []Diagnostic{{Message: "one"}}})
	s.Merge(Signal{Diagnostics: []Diagnostic{{Message: "two"}}, Actions: []Action{{Title: "fix"}}})
	assert.Equal(t, []Diagnostic{{Message: "one"}, {Message: "two"}}, s.Diagnostics)
	assert.Len(t, s.Actions, 1)
}
