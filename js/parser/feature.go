package parser

// SyntaxFeature is a language feature enabled or disabled by the parsing
// context.
type SyntaxFeature int

const (
	StrictMode SyntaxFeature = iota
	SloppyMode
	TypeScript
	Module
)

func (f SyntaxFeature) String() string {
	switch f {
	case StrictMode:
		return "strict mode"
	case SloppyMode:
		return "sloppy mode"
	case TypeScript:
		return "TypeScript"
	case Module:
		return "module"
	}
	return "unknown feature"
}

func (f SyntaxFeature) IsSupported(p *Parser) bool {
	switch f {
	case StrictMode:
		return p.State.Strict
	case SloppyMode:
		return !p.State.Strict
	case TypeScript:
		return p.typescript
	case Module:
		return p.module
	}
	return false
}

func (f SyntaxFeature) IsUnsupported(p *Parser) bool {
	return !f.IsSupported(p)
}
