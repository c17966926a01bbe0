// Package parser provides an error-tolerant parser for JavaScript and
// TypeScript source text.
//
// # Overview
//
// The parser always produces a tree that covers every byte of its input,
// including whitespace and comments, no matter how malformed the input is.
// It is designed for editor tooling where incomplete code is the norm.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│   Parser    │────▶│    Sink     │
//	│  (string)   │     │  (tokens)   │     │  (events)   │     │   (tree)    │
//	└─────────────┘     └─────────────┘     └─────────────┘     └─────────────┘
//	                                               │
//	                                               ▼
//	                                        ┌─────────────┐
//	                                        │ Diagnostics │
//	                                        └─────────────┘
//
// Grammar rules never build nodes directly. They write a flat log of
// events (start node, token, finish node, missing slot, error) through
// markers:
//
//	m := p.Start()
//	p.Bump(syntax.KindIfKw)
//	...
//	m.Complete(p, syntax.KindIfStatement)
//
// Because the tree is built from the log after parsing, a node's kind is
// not final until the enclosing rule finishes. CompletedMarker.Precede
// wraps an already parsed node in a new parent (binary operators) and
// CompletedMarker.ChangeKind retags a node (an invalid assignment target
// becomes an UnknownExpression).
//
// # Parse Results
//
// Rules return a ParsedSyntax, which is absent exactly when the rule
// consumed no input. Callers must decide what an absent value means:
//
//	p.parseExpression().OrMissingWithError(p, expectedExpression)
//
// Syntax that parsed but is not allowed in the current context is a
// ConditionalSyntax. A `with` statement in strict mode is parsed in full,
// reported, and kept in the tree as an UnknownStatement:
//
//	with.Excluding(StrictMode, p, errorBuilder).
//		OrInvalidToUnknown(p, syntax.KindUnknownStatement)
//
// # Fixed Arity
//
// Every node kind with a fixed shape has the same number of slots in every
// tree. Absent optional or required children are recorded as Missing
// nodes, so a consumer can address children by slot index.
//
// # Error Recovery
//
// The parser never panics on malformed input. ParseRecovery skips tokens
// into a single unknown node until it reaches a safe token, such as a
// statement keyword or a closing brace. Recovery only consumes tokens; it
// never parses nested constructs, so it always terminates.
//
// Panics are reserved for grammar bugs: bumping a token of the wrong kind,
// completing markers out of order or a list loop that stops advancing.
// These raise a *GrammarError; SafeParse converts it into an error.
//
// # Speculative Parsing
//
// Checkpoint and Rewind let a rule try one reading and fall back to
// another. Arrow functions are parsed this way: `(a, b)` is first tried as
// a parameter list and rewound to a parenthesized expression when no `=>`
// follows.
package parser
