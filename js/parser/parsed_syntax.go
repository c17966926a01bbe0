package parser

import "github.com/dhamidi/jsa/js/syntax"

// ErrorBuilder creates the diagnostic for a failed parse at rng.
type ErrorBuilder func(p *Parser, rng syntax.TextRange) *Diagnostic

// MarkerErrorBuilder creates the diagnostic for a node rejected in the
// current context.
type MarkerErrorBuilder func(p *Parser, m CompletedMarker) *Diagnostic

// ParsedSyntax is the result of a parse rule. A rule returns an absent
// value if and only if it consumed no input.
type ParsedSyntax struct {
	marker  CompletedMarker
	present bool
}

// Absent is the result of a rule that did not apply at the current token.
var Absent = ParsedSyntax{}

func Present(m CompletedMarker) ParsedSyntax {
	return ParsedSyntax{marker: m, present: true}
}

func (s ParsedSyntax) IsPresent() bool {
	return s.present
}

func (s ParsedSyntax) IsAbsent() bool {
	return !s.present
}

// Ok returns the marker and whether it is present.
func (s ParsedSyntax) Ok() (CompletedMarker, bool) {
	return s.marker, s.present
}

// Unwrap returns the marker, panicking when absent.
func (s ParsedSyntax) Unwrap() CompletedMarker {
	if !s.present {
		grammarBug("unwrap of absent syntax")
	}
	return s.marker
}

// Kind returns the node kind, or KindTombstone when absent.
func (s ParsedSyntax) Kind() syntax.Kind {
	if !s.present {
		return syntax.KindTombstone
	}
	return s.marker.kind
}

// OrMissing returns the marker or fills the slot with Missing.
func (s ParsedSyntax) OrMissing(p *Parser) (CompletedMarker, bool) {
	if !s.present {
		p.Missing()
	}
	return s.marker, s.present
}

// OrMissingWithError is OrMissing that also reports an error at the current
// token when absent.
func (s ParsedSyntax) OrMissingWithError(p *Parser, build ErrorBuilder) (CompletedMarker, bool) {
	if !s.present {
		p.Missing()
		p.Error(build(p, p.CurRange()))
	}
	return s.marker, s.present
}

// Precede wraps the syntax in a new marker, or starts a fresh marker when
// absent.
func (s ParsedSyntax) Precede(p *Parser) Marker {
	if s.present {
		return s.marker.Precede(p)
	}
	return p.Start()
}

// PrecedeOrMissing is Precede that records a Missing first slot when
// absent.
func (s ParsedSyntax) PrecedeOrMissing(p *Parser) Marker {
	if s.present {
		return s.marker.Precede(p)
	}
	m := p.Start()
	p.Missing()
	return m
}

func (s ParsedSyntax) PrecedeOrMissingWithError(p *Parser, build ErrorBuilder) Marker {
	if s.present {
		return s.marker.Precede(p)
	}
	p.Error(build(p, p.CurRange()))
	m := p.Start()
	p.Missing()
	return m
}

// OrRecover returns the syntax if present. Otherwise it runs recovery and
// reports exactly one diagnostic: on the recovered span when recovery
// consumed tokens, at the current token when it did not. A slot that
// recovery could not fill is recorded as Missing.
func (s ParsedSyntax) OrRecover(p *Parser, recovery ParseRecovery, build ErrorBuilder) (CompletedMarker, error) {
	if s.present {
		return s.marker, nil
	}
	recovered, err := recovery.Recover(p)
	if recovered.IsZero() {
		p.Error(build(p, p.CurRange()))
		p.Missing()
		return recovered, err
	}
	p.Error(build(p, recovered.Range(p)))
	return recovered, err
}

// Abandon undoes the node if present, leaving its children in the parent.
func (s ParsedSyntax) Abandon(p *Parser) {
	if s.present {
		s.marker.UndoCompletion(p).Abandon(p)
	}
}

func (s ParsedSyntax) IntoValid() ParsedConditional {
	if !s.present {
		return ParsedConditional{}
	}
	return ParsedConditional{syntax: Valid(s.marker), present: true}
}

// ExclusiveFor keeps the syntax valid only when feature is supported and
// reports an error otherwise.
func (s ParsedSyntax) ExclusiveFor(feature SyntaxFeature, p *Parser, build MarkerErrorBuilder) ParsedConditional {
	return s.restrict(feature.IsSupported(p), p, build)
}

func (s ParsedSyntax) ExclusiveForNoError(feature SyntaxFeature, p *Parser) ParsedConditional {
	return s.restrict(feature.IsSupported(p), p, nil)
}

// Excluding keeps the syntax valid only when feature is not supported.
func (s ParsedSyntax) Excluding(feature SyntaxFeature, p *Parser, build MarkerErrorBuilder) ParsedConditional {
	return s.restrict(feature.IsUnsupported(p), p, build)
}

func (s ParsedSyntax) ExcludingNoError(feature SyntaxFeature, p *Parser) ParsedConditional {
	return s.restrict(feature.IsUnsupported(p), p, nil)
}

func (s ParsedSyntax) restrict(valid bool, p *Parser, build MarkerErrorBuilder) ParsedConditional {
	if !s.present {
		return ParsedConditional{}
	}
	if valid {
		return ParsedConditional{syntax: Valid(s.marker), present: true}
	}
	if build != nil {
		p.Error(build(p, s.marker))
	}
	return ParsedConditional{syntax: Invalid(s.marker), present: true}
}

// ConditionalSyntax is syntax that was parsed but may be invalid in the
// current context. Callers must resolve an invalid value explicitly.
type ConditionalSyntax struct {
	marker CompletedMarker
	valid  bool
}

func Valid(m CompletedMarker) ConditionalSyntax {
	return ConditionalSyntax{marker: m, valid: true}
}

func Invalid(m CompletedMarker) ConditionalSyntax {
	return ConditionalSyntax{marker: m}
}

func (c ConditionalSyntax) IsValid() bool {
	return c.valid
}

func (c ConditionalSyntax) IsInvalid() bool {
	return !c.valid
}

func (c ConditionalSyntax) CompletedMarker() CompletedMarker {
	return c.marker
}

// InvalidSyntax returns the invalid value, or false when the syntax is
// valid.
func (c ConditionalSyntax) InvalidSyntax() (InvalidSyntax, bool) {
	return InvalidSyntax{marker: c.marker}, !c.valid
}

// OrInvalidToUnknown retags invalid syntax as the given unknown kind.
func (c ConditionalSyntax) OrInvalidToUnknown(p *Parser, unknown syntax.Kind) CompletedMarker {
	if c.valid {
		return c.marker
	}
	return InvalidSyntax{marker: c.marker}.OrToUnknown(p, unknown)
}

// Unwrap returns the marker of valid syntax and panics on invalid syntax.
func (c ConditionalSyntax) Unwrap() CompletedMarker {
	if !c.valid {
		grammarBug("unwrap of invalid %s", c.marker.kind)
	}
	return c.marker
}

// ParsedConditional is an optional ConditionalSyntax.
type ParsedConditional struct {
	syntax  ConditionalSyntax
	present bool
}

func PresentConditional(c ConditionalSyntax) ParsedConditional {
	return ParsedConditional{syntax: c, present: true}
}

func (s ParsedConditional) IsPresent() bool {
	return s.present
}

func (s ParsedConditional) IsAbsent() bool {
	return !s.present
}

func (s ParsedConditional) Ok() (ConditionalSyntax, bool) {
	return s.syntax, s.present
}

// OrInvalidToUnknown folds the conditional back into a ParsedSyntax.
func (s ParsedConditional) OrInvalidToUnknown(p *Parser, unknown syntax.Kind) ParsedSyntax {
	if !s.present {
		return Absent
	}
	return Present(s.syntax.OrInvalidToUnknown(p, unknown))
}

// InvalidSyntax is a node that is not allowed where it appears.
type InvalidSyntax struct {
	marker CompletedMarker
}

func (s InvalidSyntax) OrToUnknown(p *Parser, unknown syntax.Kind) CompletedMarker {
	m := s.marker
	m.ChangeKind(p, unknown)
	return m
}

func (s InvalidSyntax) Abandon(p *Parser) {
	s.marker.UndoCompletion(p).Abandon(p)
}

func (s InvalidSyntax) Precede(p *Parser) Marker {
	return s.marker.Precede(p)
}
