package parser

import (
	"fmt"
	"maps"
	"slices"

	"github.com/dhamidi/jsa/js/syntax"
)

type Option func(*Parser)

// WithTypeScript enables TypeScript-only syntax such as type annotations
// and `as` expressions.
func WithTypeScript() Option {
	return func(p *Parser) {
		p.typescript = true
	}
}

// WithModule parses the input as a module: strict mode is on from the
// first token and `await` is reserved.
func WithModule() Option {
	return func(p *Parser) {
		p.module = true
		p.State.Strict = true
	}
}

func WithFileID(id int) Option {
	return func(p *Parser) {
		p.fileID = id
	}
}

type parseFunc func(*Parser) CompletedMarker

// State is the mutable context grammar rules consult. It is saved by
// Checkpoint and restored by Rewind.
type State struct {
	Strict bool
	// ShouldRecordNames enables duplicate detection through NameMap.
	ShouldRecordNames bool
	// NameMap holds the names bound so far in the current let/const
	// declaration list, with the range of their first binding.
	NameMap map[string]syntax.TextRange
	// AllowObjectExpr is false where a `{` must not start an object
	// literal or object pattern.
	AllowObjectExpr bool
	InFunction      bool
	InAsync         bool
	InGenerator     bool
	// NoIn disables `in` as a binary operator, as in for-statement heads.
	NoIn bool
}

func (s State) clone() State {
	if s.NameMap != nil {
		s.NameMap = maps.Clone(s.NameMap)
	}
	return s
}

type patch struct {
	pos   int32
	event Event
}

type Parser struct {
	fileID     int
	typescript bool
	module     bool
	text       string
	raw        []Token
	lexErrors  []*Diagnostic
	source     *TokenSource
	events     []Event
	diags      []*Diagnostic
	open       []int32
	patches    []patch
	entry      parseFunc
	// eval and arguments bindings accepted in sloppy mode, revisited when
	// a function body turns out to be strict
	sloppyBindings []CompletedMarker

	State State
}

// Result is the outcome of a parse: a tree that covers every byte of the
// input and the errors found along the way.
type Result struct {
	FileID      int
	Tree        *syntax.Tree
	Diagnostics []*Diagnostic
	Events      []Event
}

// Root returns the root node of the tree.
func (r *Result) Root() syntax.Node {
	return r.Tree.Root()
}

func (r *Result) Equal(other *Result) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.Tree.Equal(other.Tree) &&
		slices.EqualFunc(r.Diagnostics, other.Diagnostics, (*Diagnostic).Equal)
}

func newParser(text string, entry parseFunc, opts []Option) *Parser {
	p := &Parser{
		text:  text,
		entry: entry,
		State: State{AllowObjectExpr: true},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.raw, p.lexErrors = Tokenize(text)
	p.source = NewTokenSource(text, p.raw)
	return p
}

// Parse parses a script or module.
func Parse(text string, opts ...Option) *Result {
	return newParser(text, (*Parser).parseRoot, opts).Finish()
}

// ParseExpression parses a single expression wrapped in a Root node.
func ParseExpression(text string, opts ...Option) *Result {
	return newParser(text, (*Parser).parseExpressionRoot, opts).Finish()
}

// Finish runs the entry rule and builds the tree.
func (p *Parser) Finish() *Result {
	p.entry(p)
	if len(p.open) != 0 {
		grammarBug("unclosed markers at end of input: %v", p.open)
	}
	tree, diagnostics := buildTree(p.text, p.raw, p.events, p.diags)
	all := append(slices.Clone(p.lexErrors), diagnostics...)
	slices.SortStableFunc(all, func(a, b *Diagnostic) int {
		return a.Range.Start - b.Range.Start
	})
	return &Result{
		FileID:      p.fileID,
		Tree:        tree,
		Diagnostics: all,
		Events:      p.events,
	}
}

// SafeParse is Parse, but turns grammar errors into an error value.
func SafeParse(text string, opts ...Option) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			gerr, ok := r.(*GrammarError)
			if !ok {
				panic(r)
			}
			err = gerr
		}
	}()
	return Parse(text, opts...), nil
}

func (p *Parser) Cur() syntax.Kind {
	return p.source.Cur()
}

func (p *Parser) Nth(n int) syntax.Kind {
	return p.source.Nth(n)
}

func (p *Parser) At(kind syntax.Kind) bool {
	return p.source.Cur() == kind
}

func (p *Parser) NthAt(n int, kind syntax.Kind) bool {
	return p.source.Nth(n) == kind
}

// AtTS reports whether the current token is in set.
func (p *Parser) AtTS(set syntax.KindSet) bool {
	return set.Contains(p.source.Cur())
}

// AtContextual reports whether the current token is the identifier name,
// used for contextual keywords like `let` and `async`.
func (p *Parser) AtContextual(name string) bool {
	return p.NthAtContextual(0, name)
}

func (p *Parser) NthAtContextual(n int, name string) bool {
	return p.source.Nth(n) == syntax.KindIdent && p.source.NthText(n) == name
}

func (p *Parser) CurRange() syntax.TextRange {
	return p.source.CurRange()
}

func (p *Parser) CurText() string {
	return p.source.NthText(0)
}

func (p *Parser) HasPrecedingLineBreak() bool {
	return p.source.HasPrecedingLineBreak()
}

func (p *Parser) TypeScript() bool {
	return p.typescript
}

func (p *Parser) Module() bool {
	return p.module
}

// Bump consumes the current token, which must be of the given kind.
func (p *Parser) Bump(kind syntax.Kind) {
	if p.Cur() != kind {
		grammarBug("bump %s at %s %s", kind, p.Cur(), p.CurRange())
	}
	p.doBump(kind)
}

// BumpRemap consumes the current token recording it as kind, e.g. an
// identifier consumed as a contextual keyword.
func (p *Parser) BumpRemap(kind syntax.Kind) {
	if p.Cur() == syntax.KindEOF {
		grammarBug("bump %s at end of input", kind)
	}
	p.doBump(kind)
}

// BumpAny consumes the current token whatever its kind.
func (p *Parser) BumpAny() {
	if p.Cur() == syntax.KindEOF {
		grammarBug("bump at end of input")
	}
	p.doBump(p.Cur())
}

func (p *Parser) doBump(kind syntax.Kind) {
	p.events = append(p.events, Event{Kind: EventToken, Syntax: kind})
	p.source.Bump()
}

// Eat consumes the current token if it has the given kind.
func (p *Parser) Eat(kind syntax.Kind) bool {
	if !p.At(kind) {
		return false
	}
	p.doBump(kind)
	return true
}

// Expect eats kind or reports an error.
func (p *Parser) Expect(kind syntax.Kind) bool {
	if p.Eat(kind) {
		return true
	}
	p.Error(p.ErrBuilder(expectedToken(kind)).Primary(p.CurRange(), ""))
	return false
}

// ExpectRequired eats kind or reports an error and fills the slot with a
// Missing placeholder.
func (p *Parser) ExpectRequired(kind syntax.Kind) bool {
	if p.Expect(kind) {
		return true
	}
	p.Missing()
	return false
}

// Missing records an empty placeholder for an absent optional or required
// child.
func (p *Parser) Missing() {
	p.events = append(p.events, Event{Kind: EventMissing})
}

func (p *Parser) ErrBuilder(msg string) *Diagnostic {
	return NewDiagnostic(msg)
}

// Error records a diagnostic. A diagnostic without a primary range is
// placed at the current token.
func (p *Parser) Error(d *Diagnostic) {
	if !d.hasRange {
		d.Primary(p.CurRange(), "")
	}
	idx := int32(len(p.diags))
	p.diags = append(p.diags, d)
	p.events = append(p.events, Event{Kind: EventError, Diagnostic: idx})
}

func (p *Parser) Errorf(rng syntax.TextRange, format string, args ...any) {
	p.Error(p.ErrBuilder(fmt.Sprintf(format, args...)).Primary(rng, ""))
}

func (p *Parser) Text(rng syntax.TextRange) string {
	return rng.Slice(p.text)
}

func (p *Parser) patch(pos int32) {
	p.patches = append(p.patches, patch{pos: pos, event: p.events[pos]})
}

// Checkpoint captures everything Rewind needs to undo a speculative parse.
type Checkpoint struct {
	events      int
	diagnostics int
	position    int
	open        []int32
	patches     int
	sloppy      int
	state       State
}

func (p *Parser) Checkpoint() Checkpoint {
	return Checkpoint{
		events:      len(p.events),
		diagnostics: len(p.diags),
		position:    p.source.Position(),
		open:        slices.Clone(p.open),
		patches:     len(p.patches),
		sloppy:      len(p.sloppyBindings),
		state:       p.State.clone(),
	}
}

// Rewind restores the parser to c. Events, diagnostics and state changes
// made after the checkpoint are discarded.
func (p *Parser) Rewind(c Checkpoint) {
	for i := len(p.patches) - 1; i >= c.patches; i-- {
		pt := p.patches[i]
		if int(pt.pos) < c.events {
			p.events[pt.pos] = pt.event
		}
	}
	p.patches = p.patches[:c.patches]
	p.events = p.events[:c.events]
	p.diags = p.diags[:c.diagnostics]
	p.sloppyBindings = p.sloppyBindings[:c.sloppy]
	p.open = c.open
	p.source.rewind(c.position)
	p.State = c.state
}

// WithState runs f with a modified copy of the state and restores the
// previous state afterwards.
func (p *Parser) WithState(modify func(*State), f func()) {
	saved := p.State
	modify(&p.State)
	defer func() { p.State = saved }()
	f()
}

// ParserProgress guards list loops: a loop iteration that consumes no
// token is a grammar bug and would never terminate.
type ParserProgress struct {
	last int
	set  bool
}

// AssertProgressing panics when the parser is at the same token as on the
// previous call.
func (pp *ParserProgress) AssertProgressing(p *Parser) {
	pos := p.source.Position()
	if pp.set && pos <= pp.last && p.Cur() != syntax.KindEOF {
		grammarBug("parser did not advance at %s %s", p.Cur(), p.CurRange())
	}
	pp.last = pos
	pp.set = true
}

// HasProgressed reports whether the parser moved since the last call.
func (pp *ParserProgress) HasProgressed(p *Parser) bool {
	pos := p.source.Position()
	progressed := !pp.set || pos > pp.last
	pp.last = pos
	pp.set = true
	return progressed
}
