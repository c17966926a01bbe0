package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/dhamidi/jsa/js/parser"
	"github.com/dhamidi/jsa/js/syntax"
)

// tokenTexts concatenates every token of an encoded node in order.
func tokenTexts(node gjson.Result) string {
	if tok := node.Get("token"); tok.Exists() {
		return tok.String()
	}
	var sb strings.Builder
	node.Get("children").ForEach(func(_, child gjson.Result) bool {
		sb.WriteString(tokenTexts(child))
		return true
	})
	return sb.String()
}

func TestASTJSONEncoder(t *testing.T) {
	t.Parallel()

	input := "let x, x; // done"
	var buf bytes.Buffer
	require.NoError(t, NewASTJSONEncoder(&buf).Encode(parser.Parse(input)))
	body := buf.Bytes()
	require.True(t, gjson.ValidBytes(body))

	assert.Equal(t, "Root", gjson.GetBytes(body, "root.kind").String())
	assert.Equal(t, int64(0), gjson.GetBytes(body, "root.range.start").Int())
	assert.Equal(t, int64(len(input)), gjson.GetBytes(body, "root.range.end").Int())
	assert.Equal(t, "letx,x;", tokenTexts(gjson.GetBytes(body, "root")))

	diags := gjson.GetBytes(body, "diagnostics")
	require.Equal(t, int64(1), diags.Get("#").Int())
	assert.Equal(t, int64(7), diags.Get("0.range.start").Int())
	assert.Equal(t, int64(4), diags.Get("0.secondary.0.range.start").Int())
	assert.Equal(t, "x is first declared here", diags.Get("0.secondary.0.message").String())
}

func TestASTJSONEncoderWithTrivia(t *testing.T) {
	t.Parallel()

	inputs := []string{"", "let a = 1; // c", "if (a) {\n  b()\n}", ") ( let"}
	for _, input := range inputs {
		var buf bytes.Buffer
		require.NoError(t, NewASTJSONEncoder(&buf).WithTrivia().Encode(parser.Parse(input)))
		assert.Equal(t, input, tokenTexts(gjson.GetBytes(buf.Bytes(), "root")), "input %q", input)
	}
}

func TestASTJSONEncoderMissing(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, NewASTJSONEncoder(&buf).Encode(parser.Parse("a +")))
	missing := 0
	var walk func(gjson.Result)
	walk = func(n gjson.Result) {
		if n.Get("missing").Bool() {
			missing++
			assert.Equal(t, n.Get("range.start").Int(), n.Get("range.end").Int())
		}
		n.Get("children").ForEach(func(_, c gjson.Result) bool {
			walk(c)
			return true
		})
	}
	walk(gjson.GetBytes(buf.Bytes(), "root"))
	assert.Positive(t, missing)
	assert.NotEmpty(t, gjson.GetBytes(buf.Bytes(), "diagnostics").Array())
}

func TestTreeTextEncoder(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, NewTreeTextEncoder(&buf).Encode(parser.Parse("let x, x;")))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Root@0..9\n"), out)
	assert.Contains(t, out, "error\t7..8\tdeclarations inside of a `let` or `const` declaration may not have duplicates\n")
	assert.Contains(t, out, "  note\t4..5\tx is first declared here\n")
}

func TestNewEncoder(t *testing.T) {
	t.Parallel()

	for _, name := range Formats {
		enc, err := NewEncoder(name, &bytes.Buffer{})
		require.NoError(t, err)
		assert.NotNil(t, enc)
	}
	_, err := NewEncoder("xml", &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown format")
}

func TestLineEncoder(t *testing.T) {
	t.Parallel()

	result := parser.Parse("a == b; c;")
	nodes := func(yield func(syntax.Node) bool) {
		for n := range result.Root().Descendants() {
			if n.Kind() == syntax.KindIdentifierExpression && !yield(n) {
				return
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, NewLineEncoder(&buf).EncodeNodes(nodes))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"IdentifierExpression\t0..1\t\"a\"",
		"IdentifierExpression\t5..6\t\"b\"",
		"IdentifierExpression\t8..9\t\"c\"",
	}, lines)
}
