package format

import (
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/dhamidi/jsa/js/syntax"
)

// LineEncoder writes one tab separated line per node: kind, range and
// the node's trimmed source text, quoted.
type LineEncoder struct {
	w io.Writer
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) EncodeNodes(nodes iter.Seq[syntax.Node]) error {
	text, err := e.MarshalText(nodes)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText(nodes iter.Seq[syntax.Node]) ([]byte, error) {
	var sb strings.Builder
	for n := range nodes {
		fmt.Fprintf(&sb, "%s\t%s\t%s\n", n.Kind(), n.Range(), strconv.Quote(n.TrimmedText()))
	}
	return []byte(sb.String()), nil
}
