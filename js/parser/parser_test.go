package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/jsa/js/syntax"
)

// shape renders the node structure of n, leaving out tokens:
// (BinaryExpression LiteralExpression LiteralExpression)
func shape(n syntax.Node) string {
	children := n.ChildNodes()
	if len(children) == 0 {
		return n.Kind().String()
	}
	parts := []string{n.Kind().String()}
	for _, c := range children {
		parts = append(parts, shape(c))
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func firstOfKind(root syntax.Node, kind syntax.Kind) (syntax.Node, bool) {
	for n := range root.Descendants() {
		if n.Kind() == kind {
			return n, true
		}
	}
	return syntax.Node{}, false
}

func countKind(root syntax.Node, kind syntax.Kind) int {
	count := 0
	for n := range root.Descendants() {
		if n.Kind() == kind {
			count++
		}
	}
	return count
}

func messages(r *Result) []string {
	var msgs []string
	for _, d := range r.Diagnostics {
		msgs = append(msgs, d.Message)
	}
	return msgs
}

// malformedInputs exercise recovery paths. Parsing them must never panic.
var malformedInputs = []string{
	"",
	"   ",
	"// only a comment",
	"let",
	"let x =",
	"if (",
	"function (",
	"({",
	"[",
	"a +",
	"let [a, = 1",
	"x = {a: }",
	"for (;;",
	"`unterminated",
	"'str",
	"/* open",
	"a ? b",
	"a.",
	"new",
	"(a, b) =>",
	"async (",
	"@#",
	"let {a: } = 1",
	")))",
	"}}}",
	"function f(a b) {}",
	"let x: = 1",
	"a\n++b",
	"f(,,)",
	"[...]",
	"({...})",
	"let [...a, b] = c",
	"function f(...a, b) {}",
	"while",
	"return return",
	"a = = b",
	"x => {",
	"async x =>",
	"const",
	"var 1 = 2;",
	"{ let a; let a; }",
	"if (a) else b",
	"a?.b?.[c]",
	"1 as",
	"with",
}

var wellFormedInputs = []string{
	"let a = 1;",
	"var x = 1, y = x + 2;",
	"const {a, b: [c, d = 2], ...rest} = obj;",
	"function f(a, b = 1, ...c) { return a + b; }",
	"async function g() { await x; }",
	"function* h() {}",
	"if (a) { b(); } else if (c) d(); else e();",
	"for (let i = 0; i < 10; i++) { continue; }",
	"while (true) break;",
	"x = a ? b : c;",
	"const f = (a, b) => a + b;",
	"const g = async x => { return x; };",
	"new Foo(1, ...args).bar[baz]();",
	"a ??= b || c && d ?? e;",
	"delete a.b, typeof c, void 0;",
	"'use strict';\nlet x = /re/g.test(s);",
	"({a: 1, b, [c]: 2, ...d});",
	"[1, , ...xs];",
	"debugger;",
	"with (o) { p; }",
}

func TestParseIsLossless(t *testing.T) {
	inputs := append(append([]string{}, malformedInputs...), wellFormedInputs...)
	for _, input := range inputs {
		for _, ts := range []bool{false, true} {
			var opts []Option
			if ts {
				opts = append(opts, WithTypeScript())
			}
			t.Run(input, func(t *testing.T) {
				result, err := SafeParse(input, opts...)
				if err != nil {
					t.Fatalf("SafeParse(%q) = %v", input, err)
				}
				if got := result.Tree.Text(); got != input {
					t.Errorf("tree text = %q, want %q", got, input)
				}
				if got := result.Root().Range(); got != syntax.NewRange(0, len(input)) {
					t.Errorf("root range = %v", got)
				}
				if result.Root().Kind() != syntax.KindRoot {
					t.Errorf("root kind = %v", result.Root().Kind())
				}
			})
		}
	}
}

func TestParseFixedArity(t *testing.T) {
	inputs := append(append([]string{}, malformedInputs...), wellFormedInputs...)
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			for _, opts := range [][]Option{nil, {WithTypeScript()}, {WithModule()}} {
				result := Parse(input, opts...)
				for n := range result.Root().Descendants() {
					want := n.Kind().Slots()
					if want < 0 {
						continue
					}
					if got := len(n.Slots()); got != want {
						t.Errorf("%v %v has %d slots, want %d\n%s", n.Kind(), n.Range(), got, want, result.Root())
					}
				}
			}
		})
	}
}

func TestWellFormedInputsHaveNoDiagnostics(t *testing.T) {
	for _, input := range wellFormedInputs {
		t.Run(input, func(t *testing.T) {
			result := Parse(input)
			if len(result.Diagnostics) != 0 {
				t.Errorf("diagnostics: %v\n%s", result.Diagnostics, result.Root())
			}
			if n := countKind(result.Root(), syntax.KindUnknownStatement); n != 0 {
				t.Errorf("%d unknown statements", n)
			}
		})
	}
}

func TestParseDeterministic(t *testing.T) {
	for _, input := range append(append([]string{}, malformedInputs...), wellFormedInputs...) {
		a, b := Parse(input), Parse(input)
		if !a.Equal(b) {
			t.Errorf("parsing %q twice gave different results", input)
		}
	}
}

func expressionShape(t *testing.T, src string, opts ...Option) string {
	t.Helper()
	result := Parse(src, opts...)
	stmt, ok := firstOfKind(result.Root(), syntax.KindExpressionStatement)
	if !ok {
		t.Fatalf("no expression statement in %q:\n%s", src, result.Root())
	}
	expr, ok := stmt.SlotNode(0)
	if !ok {
		t.Fatalf("expression statement without expression in %q", src)
	}
	return shape(expr)
}

func TestExpressionShapes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(BinaryExpression LiteralExpression (BinaryExpression LiteralExpression LiteralExpression))"},
		{"1 * 2 + 3", "(BinaryExpression (BinaryExpression LiteralExpression LiteralExpression) LiteralExpression)"},
		{"a - b - c", "(BinaryExpression (BinaryExpression IdentifierExpression IdentifierExpression) IdentifierExpression)"},
		{"a ** b ** c", "(BinaryExpression IdentifierExpression (BinaryExpression IdentifierExpression IdentifierExpression))"},
		{"a && b || c", "(LogicalExpression (LogicalExpression IdentifierExpression IdentifierExpression) IdentifierExpression)"},
		{"a == b === c", "(BinaryExpression (BinaryExpression IdentifierExpression IdentifierExpression) IdentifierExpression)"},
		{"a = b = c", "(AssignmentExpression IdentifierExpression (AssignmentExpression IdentifierExpression IdentifierExpression))"},
		{"a ? b : c", "(ConditionalExpression IdentifierExpression IdentifierExpression IdentifierExpression)"},
		{"f(a)(b)", "(CallExpression (CallExpression IdentifierExpression (CallArguments (ArgumentList IdentifierExpression))) (CallArguments (ArgumentList IdentifierExpression)))"},
		{"a.b[c]", "(ComputedMemberExpression (StaticMemberExpression IdentifierExpression) IdentifierExpression)"},
		{"x => x", "(ArrowFunctionExpression Missing IdentifierBinding IdentifierExpression)"},
		{"(a, b) => a", "(ArrowFunctionExpression Missing (Parameters (ParameterList (FormalParameter IdentifierBinding Missing Missing) (FormalParameter IdentifierBinding Missing Missing))) IdentifierExpression)"},
		{"(a, b)", "(ParenthesizedExpression (SequenceExpression IdentifierExpression IdentifierExpression))"},
		{"-a++", "(UnaryExpression (PostUpdateExpression IdentifierExpression))"},
		{"new Foo(1)", "(NewExpression IdentifierExpression (CallArguments (ArgumentList LiteralExpression)))"},
		{"[1, , ...a]", "(ArrayExpression (ArrayElementList LiteralExpression ArrayHole (SpreadElement IdentifierExpression)))"},
		{"({a: 1, b})", "(ParenthesizedExpression (ObjectExpression (ObjectMemberList (PropertyObjectMember LiteralMemberName LiteralExpression) ShorthandPropertyObjectMember)))"},
		{"a.if", "(StaticMemberExpression IdentifierExpression)"},
		{"this", "ThisExpression"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if diff := cmp.Diff(tt.expected, expressionShape(t, tt.input)); diff != "" {
				t.Errorf("shape mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStatementShapes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"if (a) b; else c;", "(IfStatement IdentifierExpression (ExpressionStatement IdentifierExpression) (ElseClause (ExpressionStatement IdentifierExpression)))"},
		{"if (a) b", "(IfStatement IdentifierExpression (ExpressionStatement IdentifierExpression Missing) Missing)"},
		{"while (a) {}", "(WhileStatement IdentifierExpression (BlockStatement StatementList))"},
		{"return", "(ReturnStatement Missing Missing)"},
		{"let a;", "(VariableStatement (VariableDeclaration (VariableDeclaratorList (VariableDeclarator IdentifierBinding Missing Missing))))"},
		{"for (;;) ;", "(ForStatement Missing Missing Missing EmptyStatement)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := Parse(tt.input)
			list := result.Root().ChildNodes()[0]
			stmts := list.ChildNodes()
			if len(stmts) == 0 {
				t.Fatalf("no statements:\n%s", result.Root())
			}
			if diff := cmp.Diff(tt.expected, shape(stmts[0])); diff != "" {
				t.Errorf("shape mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAutomaticSemicolonInsertion(t *testing.T) {
	tests := []struct {
		input      string
		statements int
		errors     int
	}{
		{"a\nb", 2, 0},
		{"a; b;", 2, 0},
		{"a b", 2, 1},
		{"{ a }", 1, 0},
		{"a /* x\n */ b", 2, 0},
		{"return\nx", 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := Parse(tt.input)
			list := result.Root().ChildNodes()[0]
			if got := len(list.ChildNodes()); got != tt.statements {
				t.Errorf("statements = %d, want %d\n%s", got, tt.statements, result.Root())
			}
			if got := len(result.Diagnostics); got != tt.errors {
				t.Errorf("diagnostics = %v, want %d", result.Diagnostics, tt.errors)
			}
		})
	}
}

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		opts     []Option
		expected []string
	}{
		{"invalid assignment target", "1 = 2", nil, []string{"invalid assignment target"}},
		{"assign to eval in strict mode", "'use strict'; eval = 1", nil, []string{"cannot assign to `eval` in strict mode"}},
		{"assign to eval in sloppy mode", "eval = 1", nil, nil},
		{"return outside function", "return 1", nil, []string{"illegal return statement outside of a function"}},
		{"return inside function", "function f() { return 1 }", nil, nil},
		{"return inside arrow", "() => { return 1 }", nil, nil},
		{"uninitialized const", "const a;", nil, []string{"const declarations must have an initialized value"}},
		{"missing semicolon", "a b", nil, []string{"expected `;`"}},
		{"missing closing paren", "f(a", nil, []string{"expected `)`"}},
		{"missing function name", "function () {}", nil, []string{"expected a name for the function in a function declaration, but found none"}},
		{"rest parameter not last", "function f(...a, b) {}", nil, []string{"rest parameter must be the last parameter"}},
		{"with in strict mode", "'use strict'; with (a) {}", nil, []string{"`with` statements are not allowed in strict mode"}},
		{"with in module", "with (a) {}", []Option{WithModule()}, []string{"`with` statements are not allowed in strict mode"}},
		{"with in sloppy mode", "with (a) {}", nil, nil},
		{"strict mode ends with the function", "function f() { 'use strict'; } with (a) {}", nil, nil},
		{"type annotation in JavaScript", "let x: number = 1;", nil, []string{"type annotations are a TypeScript only feature"}},
		{"type annotation in TypeScript", "let x: number = 1;", []Option{WithTypeScript()}, nil},
		{"as in JavaScript", "a as T", nil, []string{"type assertion expressions are a TypeScript only feature"}},
		{"as in TypeScript", "a as T", []Option{WithTypeScript()}, nil},
		{"non-null in JavaScript", "a!", nil, []string{"non-null assertions are a TypeScript only feature"}},
		{"non-null in TypeScript", "a!.b", []Option{WithTypeScript()}, nil},
		{"stray closing brace", "}", nil, []string{"expected a statement"}},
		{"lexer error", "a @", nil, []string{"unexpected character", "expected `;`", "expected a statement"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse(tt.input, tt.opts...)
			if diff := cmp.Diff(tt.expected, messages(result)); diff != "" {
				t.Errorf("diagnostics mismatch (-want +got):\n%s\n%s", diff, result.Root())
			}
		})
	}
}

func TestConditionalSyntaxBecomesUnknown(t *testing.T) {
	tests := []struct {
		input string
		opts  []Option
		kind  syntax.Kind
	}{
		{"'use strict'; with (a) {}", nil, syntax.KindUnknownStatement},
		{"with (a) {}", nil, syntax.KindWithStatement},
		{"let x: T;", nil, syntax.KindUnknown},
		{"let x: T;", []Option{WithTypeScript()}, syntax.KindTsTypeAnnotation},
		{"a as T", nil, syntax.KindUnknownExpression},
		{"a as T", []Option{WithTypeScript()}, syntax.KindTsAsExpression},
		{"a!", []Option{WithTypeScript()}, syntax.KindTsNonNullExpression},
		{"1 = 2", nil, syntax.KindUnknownExpression},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := Parse(tt.input, tt.opts...)
			if _, ok := firstOfKind(result.Root(), tt.kind); !ok {
				t.Errorf("no %v node in\n%s", tt.kind, result.Root())
			}
		})
	}
}

func TestStatementRecovery(t *testing.T) {
	result := Parse(") ) x; y;")
	if got := countKind(result.Root(), syntax.KindUnknownStatement); got != 1 {
		t.Errorf("unknown statements = %d, want 1\n%s", got, result.Root())
	}
	if got := len(result.Diagnostics); got != 1 {
		t.Errorf("diagnostics = %v, want 1", result.Diagnostics)
	}
	unknown, _ := firstOfKind(result.Root(), syntax.KindUnknownStatement)
	if got := unknown.Text(); got != ") ) x" {
		t.Errorf("unknown text = %q", got)
	}
	if _, ok := firstOfKind(result.Root(), syntax.KindExpressionStatement); !ok {
		t.Error("parsing should resume after recovery")
	}
}

func TestParseExpression(t *testing.T) {
	result := ParseExpression("a + 1")
	if len(result.Diagnostics) != 0 {
		t.Errorf("diagnostics: %v", result.Diagnostics)
	}
	if got := shape(result.Root()); got != "(Root (BinaryExpression IdentifierExpression LiteralExpression))" {
		t.Errorf("shape = %s", got)
	}

	result = ParseExpression("a b c")
	if diff := cmp.Diff([]string{"unexpected tokens after expression"}, messages(result)); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	if result.Tree.Text() != "a b c" {
		t.Errorf("tree text = %q", result.Tree.Text())
	}
}

func TestDiagnosticsSortedByPosition(t *testing.T) {
	result := Parse("let x = @;\nconst y;")
	for i := 1; i < len(result.Diagnostics); i++ {
		if result.Diagnostics[i-1].Range.Start > result.Diagnostics[i].Range.Start {
			t.Errorf("diagnostics out of order: %v", result.Diagnostics)
		}
	}
}

func TestFileID(t *testing.T) {
	if got := Parse("a", WithFileID(7)).FileID; got != 7 {
		t.Errorf("FileID = %d, want 7", got)
	}
}
