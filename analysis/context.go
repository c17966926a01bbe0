package analysis

import (
	"iter"
	"slices"

	"github.com/dhamidi/jsa/js/syntax"
	"github.com/dhamidi/jsa/query"
)

// Context is what an analyzer sees of the file it runs on. Cursor is nil
// for whole-file passes.
type Context struct {
	File   FileID
	Cursor *syntax.TextRange

	db *query.Database
}

// Text returns the source text of the file.
func (c *Context) Text() string {
	text, _ := fileText.Get(c.db, c.File)
	return text
}

// Root returns the root node of the file's syntax tree.
func (c *Context) Root() syntax.Node {
	return parseQuery.Get(c.db, c.File).Root()
}

// QueryNodes yields every node of one of kinds in source order.
func (c *Context) QueryNodes(kinds ...syntax.Kind) iter.Seq[syntax.Node] {
	return slices.Values(nodesQuery.Get(c.db, nodesKey{File: c.File, Kinds: syntax.NewKindSet(kinds...)}))
}

// QueryNodesInRange is QueryNodes restricted to nodes lying entirely
// inside rng.
func (c *Context) QueryNodesInRange(rng syntax.TextRange, kinds ...syntax.Kind) iter.Seq[syntax.Node] {
	key := nodesInRangeKey{File: c.File, Kinds: syntax.NewKindSet(kinds...), Range: rng}
	return slices.Values(nodesInRangeQuery.Get(c.db, key))
}
