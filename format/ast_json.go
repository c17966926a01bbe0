package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/jsa/js/parser"
	"github.com/dhamidi/jsa/js/syntax"
)

// ASTJSONEncoder writes a parse result as an indented JSON document.
type ASTJSONEncoder struct {
	w      io.Writer
	trivia bool
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

// WithTrivia includes whitespace and comment tokens in the output.
func (e *ASTJSONEncoder) WithTrivia() *ASTJSONEncoder {
	e.trivia = true
	return e
}

func (e *ASTJSONEncoder) Encode(result *parser.Result) error {
	text, err := e.MarshalText(result)
	if err != nil {
		return err
	}
	if _, err := e.w.Write(text); err != nil {
		return err
	}
	_, err = io.WriteString(e.w, "\n")
	return err
}

func (e *ASTJSONEncoder) MarshalText(result *parser.Result) ([]byte, error) {
	doc := astJSONDocument{
		Root:        e.nodeToJSON(result.Root()),
		Diagnostics: []astJSONDiagnostic{},
	}
	for _, d := range result.Diagnostics {
		doc.Diagnostics = append(doc.Diagnostics, diagnosticToJSON(d))
	}
	return json.MarshalIndent(doc, "", "  ")
}

type astJSONDocument struct {
	Root        *astJSONNode        `json:"root"`
	Diagnostics []astJSONDiagnostic `json:"diagnostics"`
}

type astJSONNode struct {
	Kind     string         `json:"kind"`
	Range    astJSONRange   `json:"range"`
	Token    *string        `json:"token,omitempty"`
	Missing  bool           `json:"missing,omitempty"`
	Children []*astJSONNode `json:"children,omitempty"`
}

type astJSONRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type astJSONDiagnostic struct {
	Message   string         `json:"message"`
	Range     astJSONRange   `json:"range"`
	Label     string         `json:"label,omitempty"`
	Secondary []astJSONLabel `json:"secondary,omitempty"`
}

type astJSONLabel struct {
	Message string       `json:"message"`
	Range   astJSONRange `json:"range"`
}

func rangeToJSON(r syntax.TextRange) astJSONRange {
	return astJSONRange{Start: r.Start, End: r.End}
}

func diagnosticToJSON(d *parser.Diagnostic) astJSONDiagnostic {
	jd := astJSONDiagnostic{
		Message: d.Message,
		Range:   rangeToJSON(d.Range),
		Label:   d.Label,
	}
	for _, l := range d.Secondary {
		jd.Secondary = append(jd.Secondary, astJSONLabel{Message: l.Message, Range: rangeToJSON(l.Range)})
	}
	return jd
}

func (e *ASTJSONEncoder) nodeToJSON(n syntax.Node) *astJSONNode {
	jn := &astJSONNode{
		Kind:    n.Kind().String(),
		Range:   rangeToJSON(n.Range()),
		Missing: n.IsMissing(),
	}
	for child := range n.Children() {
		if node, ok := child.AsNode(); ok {
			jn.Children = append(jn.Children, e.nodeToJSON(node))
			continue
		}
		if child.Kind().IsTrivia() && !e.trivia {
			continue
		}
		text := child.Text()
		jn.Children = append(jn.Children, &astJSONNode{
			Kind:  child.Kind().String(),
			Range: rangeToJSON(child.Range()),
			Token: &text,
		})
	}
	return jn
}
