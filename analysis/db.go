package analysis

import (
	"fmt"
	"slices"

	"github.com/dhamidi/jsa/js/parser"
	"github.com/dhamidi/jsa/js/syntax"
	"github.com/dhamidi/jsa/query"
)

// FileID identifies a source file inside one AnalysisHost.
type FileID uint32

func (f FileID) String() string {
	return fmt.Sprintf("file %d", uint32(f))
}

// FileOptions selects the parser features used for a file.
type FileOptions struct {
	TypeScript bool
	Module     bool
}

func (o FileOptions) parserOptions(file FileID) []parser.Option {
	opts := []parser.Option{parser.WithFileID(int(file))}
	if o.TypeScript {
		opts = append(opts, parser.WithTypeScript())
	}
	if o.Module {
		opts = append(opts, parser.WithModule())
	}
	return opts
}

type nodesKey struct {
	File  FileID
	Kinds syntax.KindSet
}

func (k nodesKey) String() string {
	return fmt.Sprintf("%s, %s", k.File, k.Kinds)
}

type nodesInRangeKey struct {
	File  FileID
	Kinds syntax.KindSet
	Range syntax.TextRange
}

func (k nodesInRangeKey) String() string {
	return fmt.Sprintf("%s, %s, %s", k.File, k.Kinds, k.Range)
}

// The source database. Inputs are set by the host; everything else is
// derived on demand and memoized per key.
var (
	fileText    = query.NewInput[FileID, string]("file_text")
	fileOptions = query.NewInput[FileID, FileOptions]("file_options")

	parseQuery = query.NewDerived("parse", func(db *query.Database, file FileID) *parser.Result {
		text, _ := fileText.Get(db, file)
		opts, _ := fileOptions.Get(db, file)
		return parser.Parse(text, opts.parserOptions(file)...)
	}, (*parser.Result).Equal)

	nodesQuery = query.NewDerived("nodes", func(db *query.Database, key nodesKey) []syntax.Node {
		root := parseQuery.Get(db, key.File).Root()
		var nodes []syntax.Node
		for node := range root.Descendants() {
			if key.Kinds.Contains(node.Kind()) {
				nodes = append(nodes, node)
			}
		}
		return nodes
	}, sameNodes)

	nodesInRangeQuery = query.NewDerived("nodes_in_range", func(db *query.Database, key nodesInRangeKey) []syntax.Node {
		var nodes []syntax.Node
		for _, node := range nodesQuery.Get(db, nodesKey{File: key.File, Kinds: key.Kinds}) {
			if key.Range.ContainsRange(node.Range()) {
				nodes = append(nodes, node)
			}
		}
		return nodes
	}, sameNodes)
)

// sameNodes compares node lists by shape and text, not by tree identity,
// so a reparse that leaves the matched nodes alone is cut off here.
func sameNodes(a, b []syntax.Node) bool {
	return slices.EqualFunc(a, b, func(x, y syntax.Node) bool {
		return x.Kind() == y.Kind() && x.Range() == y.Range() && x.Text() == y.Text()
	})
}
