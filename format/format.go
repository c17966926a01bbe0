// Package format renders parse results and node lists for the command
// line.
package format

import (
	"fmt"
	"io"

	"github.com/dhamidi/jsa/js/parser"
)

type Encoder interface {
	Encode(result *parser.Result) error
}

// Formats lists the names accepted by NewEncoder.
var Formats = []string{"text", "json"}

func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "text":
		return NewTreeTextEncoder(w), nil
	case "json":
		return NewASTJSONEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format %q (want one of %v)", name, Formats)
}
