package syntax

import (
	"fmt"
	"strings"
)

// Builder assembles a Tree bottom-up. Nodes are opened and closed in
// strict nesting order; tokens append their text and advance the offset.
type Builder struct {
	text   strings.Builder
	offset int
	elems  []element
	stack  []int32
	root   int32
}

func NewBuilder() *Builder {
	return &Builder{root: none}
}

func (b *Builder) push(kind Kind, token bool, rng TextRange) int32 {
	id := int32(len(b.elems))
	e := element{
		kind:   kind,
		token:  token,
		parent: none,
		first:  none,
		last:   none,
		next:   none,
		prev:   none,
		rng:    rng,
	}
	if len(b.stack) > 0 {
		parent := b.stack[len(b.stack)-1]
		e.parent = parent
		if last := b.elems[parent].last; last != none {
			b.elems[last].next = id
			e.prev = last
		} else {
			b.elems[parent].first = id
		}
		b.elems[parent].last = id
	} else if !token {
		if b.root != none {
			panic("syntax: tree already has a root node")
		}
		b.root = id
	} else {
		panic(fmt.Sprintf("syntax: token %s outside of any node", kind))
	}
	b.elems = append(b.elems, e)
	return id
}

func (b *Builder) StartNode(kind Kind) {
	id := b.push(kind, false, EmptyRange(b.offset))
	b.stack = append(b.stack, id)
}

func (b *Builder) FinishNode() {
	if len(b.stack) == 0 {
		panic("syntax: FinishNode without open node")
	}
	id := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	b.elems[id].rng.End = b.offset
}

func (b *Builder) Token(kind Kind, text string) {
	start := b.offset
	b.text.WriteString(text)
	b.offset += len(text)
	b.push(kind, true, TextRange{Start: start, End: b.offset})
}

// Missing appends an empty placeholder node so the enclosing node keeps a
// fixed number of slots.
func (b *Builder) Missing() {
	b.push(KindMissing, false, EmptyRange(b.offset))
}

// Depth returns the number of currently open nodes.
func (b *Builder) Depth() int {
	return len(b.stack)
}

func (b *Builder) Finish() *Tree {
	if len(b.stack) != 0 {
		panic(fmt.Sprintf("syntax: %d nodes left open", len(b.stack)))
	}
	if b.root == none {
		panic("syntax: tree has no root node")
	}
	return &Tree{
		text:  b.text.String(),
		elems: b.elems,
		root:  b.root,
	}
}
