package analysis

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dhamidi/jsa/js/syntax"
)

// AllCaps flags declared names written entirely in upper case.
type AllCaps struct{}

func (AllCaps) Name() string { return "all-caps" }

func (AllCaps) Analyze(ctx *Context) (Signal, error) {
	var signal Signal
	for binding := range ctx.QueryNodes(syntax.KindIdentifierBinding) {
		tok, ok := binding.FirstToken()
		if !ok || !isAllCaps(tok.Text()) {
			continue
		}
		signal.Diagnostics = append(signal.Diagnostics, Diagnostic{
			Range:   tok.Range(),
			Message: fmt.Sprintf("the name %s is in all caps", tok.Text()),
		})
	}
	return signal, nil
}

func isAllCaps(name string) bool {
	return strings.ToUpper(name) == name && strings.IndexFunc(name, unicode.IsLetter) >= 0
}
