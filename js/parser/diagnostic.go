package parser

import (
	"fmt"
	"slices"

	"github.com/dhamidi/jsa/js/syntax"
)

// Label attaches a message to a source range of a diagnostic.
type Label struct {
	Range   syntax.TextRange
	Message string
}

// Diagnostic is a parse error. Range is the primary range; secondary
// labels point at related code, such as the first declaration of a
// duplicated name.
type Diagnostic struct {
	Message   string
	Range     syntax.TextRange
	Label     string
	Secondary []Label
	hasRange  bool
}

func NewDiagnostic(msg string) *Diagnostic {
	return &Diagnostic{Message: msg}
}

// Primary sets the primary range and its label.
func (d *Diagnostic) Primary(rng syntax.TextRange, label string) *Diagnostic {
	d.Range = rng
	d.Label = label
	d.hasRange = true
	return d
}

// AddSecondary appends a secondary label.
func (d *Diagnostic) AddSecondary(rng syntax.TextRange, label string) *Diagnostic {
	d.Secondary = append(d.Secondary, Label{Range: rng, Message: label})
	return d
}

func (d *Diagnostic) Equal(other *Diagnostic) bool {
	return d.Message == other.Message &&
		d.Range == other.Range &&
		d.Label == other.Label &&
		slices.Equal(d.Secondary, other.Secondary)
}

func (d *Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Range, d.Message)
}

func (d *Diagnostic) Error() string {
	return d.String()
}

func expectedToken(kind syntax.Kind) string {
	return fmt.Sprintf("expected `%s`", kind)
}

func expectedAny(names ...string) string {
	switch len(names) {
	case 0:
		return "unexpected token"
	case 1:
		return "expected " + names[0]
	}
	msg := "expected "
	for i, name := range names {
		switch {
		case i == len(names)-1:
			msg += " or " + name
		case i > 0:
			msg += ", " + name
		default:
			msg += name
		}
	}
	return msg
}
