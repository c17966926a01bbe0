package analysis

import (
	"errors"
	"fmt"
	"slices"
)

var ErrUnknownAnalyzer = errors.New("unknown analyzer")

// Analyzer inspects one file and reports diagnostics and actions.
type Analyzer interface {
	Name() string
	Analyze(ctx *Context) (Signal, error)
}

// DefaultAnalyzers returns every built-in analyzer in host order.
func DefaultAnalyzers() []Analyzer {
	return []Analyzer{AllCaps{}, DoubleEq{}, SwapCond{}}
}

// AnalyzerNames lists the names of the built-in analyzers in host order.
func AnalyzerNames() []string {
	var names []string
	for _, a := range DefaultAnalyzers() {
		names = append(names, a.Name())
	}
	return names
}

// SelectAnalyzers returns the built-in analyzers named in names. The
// result keeps host order no matter how names is ordered.
func SelectAnalyzers(names []string) ([]Analyzer, error) {
	known := AnalyzerNames()
	for _, name := range names {
		if !slices.Contains(known, name) {
			return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownAnalyzer, name, known)
		}
	}
	var selected []Analyzer
	for _, a := range DefaultAnalyzers() {
		if slices.Contains(names, a.Name()) {
			selected = append(selected, a)
		}
	}
	return selected, nil
}
