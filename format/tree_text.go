package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/jsa/js/parser"
)

// TreeTextEncoder writes the indented tree dump followed by one line per
// diagnostic.
type TreeTextEncoder struct {
	w io.Writer
}

func NewTreeTextEncoder(w io.Writer) *TreeTextEncoder {
	return &TreeTextEncoder{w: w}
}

func (e *TreeTextEncoder) Encode(result *parser.Result) error {
	text, err := e.MarshalText(result)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeTextEncoder) MarshalText(result *parser.Result) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(result.Root().StringWithRanges())
	for _, d := range result.Diagnostics {
		fmt.Fprintf(&sb, "error\t%s\t%s\n", d.Range, d.Message)
		for _, l := range d.Secondary {
			fmt.Fprintf(&sb, "  note\t%s\t%s\n", l.Range, l.Message)
		}
	}
	return []byte(sb.String()), nil
}
