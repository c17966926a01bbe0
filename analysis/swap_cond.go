package analysis

import "github.com/dhamidi/jsa/js/syntax"

// SwapCond offers to swap the operands of every binary expression inside
// the cursor range. Applying the action twice restores the original text.
type SwapCond struct{}

func (SwapCond) Name() string { return "swap-condition" }

func (SwapCond) Analyze(ctx *Context) (Signal, error) {
	var signal Signal
	if ctx.Cursor == nil {
		return signal, nil
	}
	for expr := range ctx.QueryNodesInRange(*ctx.Cursor, syntax.KindBinaryExpression) {
		lhs, okL := expr.SlotNode(0)
		rhs, okR := expr.SlotNode(2)
		if !okL || !okR {
			continue
		}
		signal.Actions = append(signal.Actions, Action{
			Title: "Swap operands",
			Replacements: []Replacement{
				{Old: lhs.Element(), New: rhs.Element()},
				{Old: rhs.Element(), New: lhs.Element()},
			},
		})
	}
	return signal, nil
}
