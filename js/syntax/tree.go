package syntax

import (
	"iter"
	"strings"
)

const none int32 = -1

// element is one arena slot. Nodes and tokens live in the same arena and
// refer to each other by index, so handles never point into each other.
type element struct {
	kind   Kind
	token  bool
	parent int32
	first  int32
	last   int32
	next   int32
	prev   int32
	rng    TextRange
}

// Tree is an immutable syntax tree. Nothing mutates a Tree after Finish,
// so handles into it may be shared freely within one goroutine.
type Tree struct {
	text  string
	elems []element
	root  int32
}

func (t *Tree) Root() Node {
	return Node{tree: t, id: t.root}
}

// Text returns the complete source text the tree was built from.
func (t *Tree) Text() string {
	return t.text
}

// Len returns the number of elements (nodes and tokens) in the tree.
func (t *Tree) Len() int {
	return len(t.elems)
}

// Equal reports whether both trees have the same shape, kinds and text.
func (t *Tree) Equal(other *Tree) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil {
		return false
	}
	if t.text != other.text || t.root != other.root || len(t.elems) != len(other.elems) {
		return false
	}
	for i := range t.elems {
		if t.elems[i] != other.elems[i] {
			return false
		}
	}
	return true
}

// Element is a handle to either a node or a token.
type Element struct {
	tree *Tree
	id   int32
}

func (e Element) IsZero() bool {
	return e.tree == nil
}

func (e Element) IsNode() bool {
	return e.tree != nil && !e.tree.elems[e.id].token
}

func (e Element) IsToken() bool {
	return e.tree != nil && e.tree.elems[e.id].token
}

func (e Element) AsNode() (Node, bool) {
	if !e.IsNode() {
		return Node{}, false
	}
	return Node(e), true
}

func (e Element) AsToken() (Token, bool) {
	if !e.IsToken() {
		return Token{}, false
	}
	return Token(e), true
}

func (e Element) Kind() Kind {
	return e.tree.elems[e.id].kind
}

func (e Element) Range() TextRange {
	return e.tree.elems[e.id].rng
}

func (e Element) Text() string {
	return e.Range().Slice(e.tree.text)
}

func (e Element) Parent() (Node, bool) {
	p := e.tree.elems[e.id].parent
	if p == none {
		return Node{}, false
	}
	return Node{tree: e.tree, id: p}, true
}

func (e Element) NextSibling() (Element, bool) {
	return e.tree.at(e.tree.elems[e.id].next)
}

func (e Element) PrevSibling() (Element, bool) {
	return e.tree.at(e.tree.elems[e.id].prev)
}

func (t *Tree) at(id int32) (Element, bool) {
	if id == none {
		return Element{}, false
	}
	return Element{tree: t, id: id}, true
}

// Node is a handle to an interior node. Two handles are equal when they
// refer to the same node of the same tree.
type Node struct {
	tree *Tree
	id   int32
}

func (n Node) IsZero() bool {
	return n.tree == nil
}

func (n Node) Tree() *Tree {
	return n.tree
}

func (n Node) Element() Element {
	return Element(n)
}

func (n Node) Kind() Kind {
	return n.tree.elems[n.id].kind
}

// IsMissing reports whether n is an empty placeholder for an absent slot.
func (n Node) IsMissing() bool {
	return n.Kind() == KindMissing
}

func (n Node) Range() TextRange {
	return n.tree.elems[n.id].rng
}

// Text returns the source text of n including interior trivia.
func (n Node) Text() string {
	return n.Range().Slice(n.tree.text)
}

// TrimmedText returns the text of n without leading and trailing trivia.
func (n Node) TrimmedText() string {
	return n.TrimmedRange().Slice(n.tree.text)
}

// TrimmedRange is the range from the first to the last non-trivia token.
func (n Node) TrimmedRange() TextRange {
	var first, last Token
	found := false
	for tok := range n.DescendantTokens() {
		if tok.Kind().IsTrivia() {
			continue
		}
		if !found {
			first = tok
			found = true
		}
		last = tok
	}
	if !found {
		return EmptyRange(n.Range().Start)
	}
	return TextRange{Start: first.Range().Start, End: last.Range().End}
}

func (n Node) Parent() (Node, bool) {
	return Element(n).Parent()
}

func (n Node) NextSibling() (Element, bool) {
	return Element(n).NextSibling()
}

func (n Node) PrevSibling() (Element, bool) {
	return Element(n).PrevSibling()
}

func (n Node) FirstChild() (Element, bool) {
	return n.tree.at(n.tree.elems[n.id].first)
}

func (n Node) LastChild() (Element, bool) {
	return n.tree.at(n.tree.elems[n.id].last)
}

// Children yields every child element in source order, trivia included.
func (n Node) Children() iter.Seq[Element] {
	return func(yield func(Element) bool) {
		for id := n.tree.elems[n.id].first; id != none; id = n.tree.elems[id].next {
			if !yield(Element{tree: n.tree, id: id}) {
				return
			}
		}
	}
}

// Slots returns the non-trivia children of n. Missing placeholders are
// included, so fixed-arity kinds always yield Kind.Slots() elements.
func (n Node) Slots() []Element {
	var slots []Element
	for child := range n.Children() {
		if child.Kind().IsTrivia() {
			continue
		}
		slots = append(slots, child)
	}
	return slots
}

// Slot returns the i-th non-trivia child of n.
func (n Node) Slot(i int) (Element, bool) {
	for child := range n.Children() {
		if child.Kind().IsTrivia() {
			continue
		}
		if i == 0 {
			return child, true
		}
		i--
	}
	return Element{}, false
}

// SlotNode returns the i-th slot when it is a node that is not a missing
// placeholder.
func (n Node) SlotNode(i int) (Node, bool) {
	e, ok := n.Slot(i)
	if !ok {
		return Node{}, false
	}
	node, ok := e.AsNode()
	if !ok || node.IsMissing() {
		return Node{}, false
	}
	return node, true
}

// SlotToken returns the i-th slot when it is a token.
func (n Node) SlotToken(i int) (Token, bool) {
	e, ok := n.Slot(i)
	if !ok {
		return Token{}, false
	}
	return e.AsToken()
}

func (n Node) ChildNodes() []Node {
	var nodes []Node
	for child := range n.Children() {
		if node, ok := child.AsNode(); ok {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// ChildTokens returns the direct token children of n, trivia excluded.
func (n Node) ChildTokens() []Token {
	var tokens []Token
	for child := range n.Children() {
		if tok, ok := child.AsToken(); ok && !tok.Kind().IsTrivia() {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// FirstToken returns the first non-trivia token below n.
func (n Node) FirstToken() (Token, bool) {
	for tok := range n.DescendantTokens() {
		if !tok.Kind().IsTrivia() {
			return tok, true
		}
	}
	return Token{}, false
}

func (n Node) FirstChildOfKind(kind Kind) (Node, bool) {
	for child := range n.Children() {
		if node, ok := child.AsNode(); ok && node.Kind() == kind {
			return node, true
		}
	}
	return Node{}, false
}

func (n Node) TokenOfKind(kind Kind) (Token, bool) {
	for child := range n.Children() {
		if tok, ok := child.AsToken(); ok && tok.Kind() == kind {
			return tok, true
		}
	}
	return Token{}, false
}

// Descendants yields n and every node below it in preorder, which is
// source order.
func (n Node) Descendants() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		n.walk(func(e Element) bool {
			if node, ok := e.AsNode(); ok {
				return yield(node)
			}
			return true
		})
	}
}

// DescendantTokens yields every token below n in source order.
func (n Node) DescendantTokens() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		n.walk(func(e Element) bool {
			if tok, ok := e.AsToken(); ok {
				return yield(tok)
			}
			return true
		})
	}
}

func (n Node) walk(visit func(Element) bool) {
	elems := n.tree.elems
	id := n.id
	for {
		if !visit(Element{tree: n.tree, id: id}) {
			return
		}
		if elems[id].first != none {
			id = elems[id].first
			continue
		}
		for id != n.id && elems[id].next == none {
			id = elems[id].parent
		}
		if id == n.id {
			return
		}
		id = elems[id].next
	}
}

// CoveringElement returns the deepest element whose range covers rng.
func (n Node) CoveringElement(rng TextRange) Element {
	current := Element(n)
	for {
		node, ok := current.AsNode()
		if !ok {
			return current
		}
		var next Element
		found := false
		for child := range node.Children() {
			if child.Range().ContainsRange(rng) && !child.Range().IsEmpty() {
				next = child
				found = true
				break
			}
		}
		if !found {
			return current
		}
		current = next
	}
}

func (n Node) String() string {
	var sb strings.Builder
	n.write(&sb, 0, false)
	return sb.String()
}

// StringWithRanges renders the tree like String and adds text ranges.
func (n Node) StringWithRanges() string {
	var sb strings.Builder
	n.write(&sb, 0, true)
	return sb.String()
}

func (n Node) write(sb *strings.Builder, indent int, showRanges bool) {
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString(n.Kind().String())
	if showRanges {
		sb.WriteString("@" + n.Range().String())
	}
	sb.WriteString("\n")
	for child := range n.Children() {
		if node, ok := child.AsNode(); ok {
			node.write(sb, indent+1, showRanges)
			continue
		}
		if child.Kind().IsTrivia() {
			continue
		}
		sb.WriteString(strings.Repeat("  ", indent+1))
		sb.WriteString(child.Kind().String())
		if showRanges {
			sb.WriteString("@" + child.Range().String())
		}
		sb.WriteString(" " + quote(child.Text()) + "\n")
	}
}

func quote(s string) string {
	return "\"" + strings.NewReplacer("\\", "\\\\", "\"", "\\\"", "\n", "\\n").Replace(s) + "\""
}

// Token is a handle to a leaf token.
type Token struct {
	tree *Tree
	id   int32
}

func (t Token) IsZero() bool {
	return t.tree == nil
}

func (t Token) Element() Element {
	return Element(t)
}

func (t Token) Kind() Kind {
	return t.tree.elems[t.id].kind
}

func (t Token) Range() TextRange {
	return t.tree.elems[t.id].rng
}

func (t Token) Text() string {
	return t.Range().Slice(t.tree.text)
}

func (t Token) Parent() (Node, bool) {
	return Element(t).Parent()
}

// NextToken returns the token following t in source order, trivia
// included.
func (t Token) NextToken() (Token, bool) {
	elems := t.tree.elems
	id := t.id
	for {
		for elems[id].next == none {
			id = elems[id].parent
			if id == none {
				return Token{}, false
			}
		}
		id = elems[id].next
		for !elems[id].token && elems[id].first != none {
			id = elems[id].first
		}
		if elems[id].token {
			return Token{tree: t.tree, id: id}, true
		}
	}
}

// MakeToken creates a detached token. Analyzers use it to describe
// replacement text that does not exist in any parsed tree.
func MakeToken(kind Kind, text string) Token {
	tree := &Tree{
		text: text,
		elems: []element{{
			kind:   kind,
			token:  true,
			parent: none,
			first:  none,
			last:   none,
			next:   none,
			prev:   none,
			rng:    TextRange{Start: 0, End: len(text)},
		}},
		root: none,
	}
	return Token{tree: tree, id: 0}
}
