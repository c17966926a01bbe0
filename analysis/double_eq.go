package analysis

import "github.com/dhamidi/jsa/js/syntax"

// DoubleEq flags loose equality. When the cursor covers part of the
// operator, or is a caret touching it, it also offers to replace it with
// strict equality.
type DoubleEq struct{}

func (DoubleEq) Name() string { return "double-equals" }

func (DoubleEq) Analyze(ctx *Context) (Signal, error) {
	var signal Signal
	for expr := range ctx.QueryNodes(syntax.KindBinaryExpression) {
		op, ok := expr.SlotToken(1)
		if !ok || op.Kind() != syntax.KindEq2 {
			continue
		}
		diag := Diagnostic{Range: op.Range(), Message: "do not use == operator"}
		signal.Diagnostics = append(signal.Diagnostics, diag)

		if ctx.Cursor == nil || !cursorOn(*ctx.Cursor, op.Range()) {
			continue
		}
		signal.Actions = append(signal.Actions, Action{
			Title: "Change to ===",
			Replacements: []Replacement{{
				Old: op.Element(),
				New: syntax.MakeToken(syntax.KindEq3, "===").Element(),
			}},
			Diagnostics: []Diagnostic{diag},
		})
	}
	return signal, nil
}

func cursorOn(cursor, rng syntax.TextRange) bool {
	if cursor.IsEmpty() {
		return rng.Contains(cursor.Start) || cursor.Start == rng.End
	}
	return cursor.Start < rng.End && rng.Start < cursor.End
}
