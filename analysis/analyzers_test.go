package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/jsa/js/syntax"
)

func analyzeWith(t *testing.T, a Analyzer, text string, cursor *syntax.TextRange) Signal {
	t.Helper()
	h := New(WithAnalyzers(a))
	h.SetFileText(0, text)
	sig, err := h.Analyze(0, cursor)
	require.NoError(t, err)
	return sig
}

func TestAllCaps(t *testing.T) {
	t.Parallel()

	sig := analyzeWith(t, AllCaps{}, "let X = 1;", nil)
	require.Len(t, sig.Diagnostics, 1)
	assert.Equal(t, syntax.NewRange(4, 5), sig.Diagnostics[0].Range)
	assert.Equal(t, "the name X is in all caps", sig.Diagnostics[0].Message)
	assert.Empty(t, sig.Actions)
}

func TestAllCapsNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text  string
		names []string
	}{
		{"let a = 1;", nil},
		{"let Ab = 1;", nil},
		{"const MAX_SIZE = 1, min = 2;", []string{"MAX_SIZE"}},
		{"var _ = 1, $ = 2, A1 = 3;", []string{"A1"}},
		{"function f(X, y) {}", []string{"X"}},
		{"function F() {}", []string{"F"}},
		{"let {A, b: [C]} = o;", []string{"A", "C"}},
		{"X = 1;", nil},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			sig := analyzeWith(t, AllCaps{}, tt.text, nil)
			var names []string
			for _, d := range sig.Diagnostics {
				names = append(names, d.Range.Slice(tt.text))
			}
			assert.Equal(t, tt.names, names)
		})
	}
}

func TestDoubleEq(t *testing.T) {
	t.Parallel()

	text := "a == b"
	op := syntax.NewRange(2, 4)
	tests := []struct {
		name    string
		cursor  *syntax.TextRange
		actions int
	}{
		{"no cursor", nil, 0},
		{"cursor on operator", rangePtr(2, 4), 1},
		{"caret inside operator", rangePtr(3, 3), 1},
		{"cursor covering expression", rangePtr(0, 6), 1},
		{"cursor elsewhere", rangePtr(0, 1), 0},
		{"cursor ending at operator", rangePtr(0, 2), 0},
		{"cursor starting after operator", rangePtr(4, 6), 0},
		{"cursor overlapping operator", rangePtr(1, 3), 1},
		{"caret before operator", rangePtr(2, 2), 1},
		{"caret after operator", rangePtr(4, 4), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sig := analyzeWith(t, DoubleEq{}, text, tt.cursor)
			require.Len(t, sig.Diagnostics, 1)
			assert.Equal(t, op, sig.Diagnostics[0].Range)
			assert.Equal(t, "do not use == operator", sig.Diagnostics[0].Message)
			require.Len(t, sig.Actions, tt.actions)
			if tt.actions == 0 {
				return
			}
			action := sig.Actions[0]
			assert.Equal(t, "Change to ===", action.Title)
			assert.Equal(t, sig.Diagnostics, action.Diagnostics)
			require.Len(t, action.Replacements, 1)
			assert.Equal(t, op, action.Replacements[0].Range())
			assert.Equal(t, "===", action.Replacements[0].Text())

			fixed, err := ApplyReplacements(text, action.Replacements)
			require.NoError(t, err)
			assert.Equal(t, "a === b", fixed)
		})
	}
}

func TestDoubleEqIgnoresOtherOperators(t *testing.T) {
	t.Parallel()

	sig := analyzeWith(t, DoubleEq{}, "a === b; a != b; a = b;", rangePtr(0, 23))
	assert.Empty(t, sig.Diagnostics)
	assert.Empty(t, sig.Actions)
}

func TestSwapCondIsAnInvolution(t *testing.T) {
	t.Parallel()

	text := "a < b"
	sig := analyzeWith(t, SwapCond{}, text, rangePtr(0, 5))
	assert.Empty(t, sig.Diagnostics)
	require.Len(t, sig.Actions, 1)
	require.Len(t, sig.Actions[0].Replacements, 2)

	swapped, err := ApplyReplacements(text, sig.Actions[0].Replacements)
	require.NoError(t, err)
	assert.Equal(t, "b < a", swapped)

	sig = analyzeWith(t, SwapCond{}, swapped, rangePtr(0, 5))
	require.Len(t, sig.Actions, 1)
	restored, err := ApplyReplacements(swapped, sig.Actions[0].Replacements)
	require.NoError(t, err)
	assert.Equal(t, text, restored)
}

func TestSwapCondNeedsCursor(t *testing.T) {
	t.Parallel()

	assert.Empty(t, analyzeWith(t, SwapCond{}, "a < b", nil).Actions)
	// The expression is not inside the cursor range.
	assert.Empty(t, analyzeWith(t, SwapCond{}, "a < b", rangePtr(0, 3)).Actions)
	// A missing operand cannot be swapped.
	assert.Empty(t, analyzeWith(t, SwapCond{}, "a <", rangePtr(0, 3)).Actions)
}

func TestSwapCondNested(t *testing.T) {
	t.Parallel()

	text := "x = (a + b) * c;"
	sig := analyzeWith(t, SwapCond{}, text, rangePtr(4, 15))
	require.Len(t, sig.Actions, 2)

	outer, err := ApplyReplacements(text, sig.Actions[0].Replacements)
	require.NoError(t, err)
	assert.Equal(t, "x = c * (a + b);", outer)

	inner, err := ApplyReplacements(text, sig.Actions[1].Replacements)
	require.NoError(t, err)
	assert.Equal(t, "x = (b + a) * c;", inner)
}

func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	h := New()
	text := "let A = b == c;"
	h.SetFileText(0, text)
	sig, err := h.Analyze(0, rangePtr(8, 14))
	require.NoError(t, err)

	var messages []string
	for _, d := range sig.Diagnostics {
		messages = append(messages, d.Message)
	}
	assert.Equal(t, []string{"the name A is in all caps", "do not use == operator"}, messages)

	var titles []string
	for _, a := range sig.Actions {
		titles = append(titles, a.Title)
	}
	assert.Equal(t, []string{"Change to ===", "Swap operands"}, titles)
}
