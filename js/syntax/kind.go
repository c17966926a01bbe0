package syntax

// Kind identifies every element of a syntax tree: tokens, trivia and
// nodes share one enumeration so the parser can retag either.
type Kind uint16

const (
	KindTombstone Kind = iota
	KindEOF

	// Trivia
	KindWhitespace
	KindNewline
	KindComment

	// Literal tokens
	KindIdent
	KindNumber
	KindString
	KindTemplate
	KindRegex
	KindErrorToken

	// Keywords
	KindBreakKw
	KindConstKw
	KindContinueKw
	KindDebuggerKw
	KindDeleteKw
	KindElseKw
	KindFalseKw
	KindForKw
	KindFunctionKw
	KindIfKw
	KindInKw
	KindInstanceofKw
	KindNewKw
	KindNullKw
	KindReturnKw
	KindThisKw
	KindTrueKw
	KindTypeofKw
	KindVarKw
	KindVoidKw
	KindWhileKw
	KindWithKw

	// Contextual keywords. The lexer emits KindIdent for these; the
	// parser remaps them when it consumes them in keyword position.
	KindLetKw
	KindAsyncKw
	KindAwaitKw
	KindYieldKw
	KindAsKw

	// Punctuation
	KindLParen
	KindRParen
	KindLBrace
	KindRBrace
	KindLBracket
	KindRBracket
	KindSemicolon
	KindComma
	KindDot
	KindEllipsis
	KindColon
	KindQuestion
	KindQuestionDot
	KindArrow

	// Operators
	KindEq
	KindEq2
	KindEq3
	KindNeq
	KindNeq2
	KindLT
	KindLTEq
	KindGT
	KindGTEq
	KindPlus
	KindMinus
	KindStar
	KindStar2
	KindSlash
	KindPercent
	KindPlus2
	KindMinus2
	KindBang
	KindTilde
	KindAmp
	KindAmp2
	KindPipe
	KindPipe2
	KindCaret
	KindQuestion2
	KindShl
	KindShr
	KindUShr
	KindPlusEq
	KindMinusEq
	KindStarEq
	KindSlashEq
	KindPercentEq
	KindAmpEq
	KindPipeEq
	KindCaretEq
	KindShlEq
	KindShrEq
	KindUShrEq
	KindStar2Eq
	KindAmp2Eq
	KindPipe2Eq
	KindQuestion2Eq

	// Root and lists
	KindRoot
	KindStatementList
	KindVariableDeclaratorList
	KindParameterList
	KindArgumentList
	KindArrayElementList
	KindObjectMemberList
	KindArrayBindingElementList
	KindObjectBindingMemberList

	// Statements
	KindDirective
	KindVariableStatement
	KindVariableDeclaration
	KindVariableDeclarator
	KindInitializerClause
	KindExpressionStatement
	KindBlockStatement
	KindEmptyStatement
	KindIfStatement
	KindElseClause
	KindWhileStatement
	KindForStatement
	KindReturnStatement
	KindBreakStatement
	KindContinueStatement
	KindWithStatement
	KindDebuggerStatement
	KindFunctionDeclaration
	KindParameters
	KindFormalParameter
	KindRestParameter
	KindFunctionBody

	// Expressions
	KindIdentifierExpression
	KindLiteralExpression
	KindThisExpression
	KindArrayExpression
	KindArrayHole
	KindObjectExpression
	KindPropertyObjectMember
	KindShorthandPropertyObjectMember
	KindSpreadElement
	KindLiteralMemberName
	KindComputedMemberName
	KindParenthesizedExpression
	KindFunctionExpression
	KindArrowFunctionExpression
	KindCallExpression
	KindCallArguments
	KindNewExpression
	KindStaticMemberExpression
	KindComputedMemberExpression
	KindUnaryExpression
	KindAwaitExpression
	KindPreUpdateExpression
	KindPostUpdateExpression
	KindBinaryExpression
	KindLogicalExpression
	KindConditionalExpression
	KindAssignmentExpression
	KindSequenceExpression

	// Bindings
	KindIdentifierBinding
	KindArrayBindingPattern
	KindObjectBindingPattern
	KindBindingWithDefault
	KindArrayRestBinding
	KindPropertyBinding
	KindShorthandPropertyBinding
	KindObjectRestBinding

	// TypeScript
	KindTsTypeAnnotation
	KindTsReferenceType
	KindTsAsExpression
	KindTsNonNullExpression

	// Recovery
	KindUnknown
	KindUnknownStatement
	KindUnknownExpression
	KindUnknownBinding
	KindUnknownMember
	KindMissing

	kindCount
)

type kindInfo struct {
	name  string
	slots int
}

// Slot counts of -1 mark variable-arity kinds (lists, unknown nodes and the
// root). Tokens have zero slots.
var kindInfos = [kindCount]kindInfo{
	KindTombstone:    {"Tombstone", 0},
	KindEOF:          {"EOF", 0},
	KindWhitespace:   {"Whitespace", 0},
	KindNewline:      {"Newline", 0},
	KindComment:      {"Comment", 0},
	KindIdent:        {"Ident", 0},
	KindNumber:       {"Number", 0},
	KindString:       {"String", 0},
	KindTemplate:     {"Template", 0},
	KindRegex:        {"Regex", 0},
	KindErrorToken:   {"ErrorToken", 0},
	KindBreakKw:      {"break", 0},
	KindConstKw:      {"const", 0},
	KindContinueKw:   {"continue", 0},
	KindDebuggerKw:   {"debugger", 0},
	KindDeleteKw:     {"delete", 0},
	KindElseKw:       {"else", 0},
	KindFalseKw:      {"false", 0},
	KindForKw:        {"for", 0},
	KindFunctionKw:   {"function", 0},
	KindIfKw:         {"if", 0},
	KindInKw:         {"in", 0},
	KindInstanceofKw: {"instanceof", 0},
	KindNewKw:        {"new", 0},
	KindNullKw:       {"null", 0},
	KindReturnKw:     {"return", 0},
	KindThisKw:       {"this", 0},
	KindTrueKw:       {"true", 0},
	KindTypeofKw:     {"typeof", 0},
	KindVarKw:        {"var", 0},
	KindVoidKw:       {"void", 0},
	KindWhileKw:      {"while", 0},
	KindWithKw:       {"with", 0},
	KindLetKw:        {"let", 0},
	KindAsyncKw:      {"async", 0},
	KindAwaitKw:      {"await", 0},
	KindYieldKw:      {"yield", 0},
	KindAsKw:         {"as", 0},
	KindLParen:       {"(", 0},
	KindRParen:       {")", 0},
	KindLBrace:       {"{", 0},
	KindRBrace:       {"}", 0},
	KindLBracket:     {"[", 0},
	KindRBracket:     {"]", 0},
	KindSemicolon:    {";", 0},
	KindComma:        {",", 0},
	KindDot:          {".", 0},
	KindEllipsis:     {"...", 0},
	KindColon:        {":", 0},
	KindQuestion:     {"?", 0},
	KindQuestionDot:  {"?.", 0},
	KindArrow:        {"=>", 0},
	KindEq:           {"=", 0},
	KindEq2:          {"==", 0},
	KindEq3:          {"===", 0},
	KindNeq:          {"!=", 0},
	KindNeq2:         {"!==", 0},
	KindLT:           {"<", 0},
	KindLTEq:         {"<=", 0},
	KindGT:           {">", 0},
	KindGTEq:         {">=", 0},
	KindPlus:         {"+", 0},
	KindMinus:        {"-", 0},
	KindStar:         {"*", 0},
	KindStar2:        {"**", 0},
	KindSlash:        {"/", 0},
	KindPercent:      {"%", 0},
	KindPlus2:        {"++", 0},
	KindMinus2:       {"--", 0},
	KindBang:         {"!", 0},
	KindTilde:        {"~", 0},
	KindAmp:          {"&", 0},
	KindAmp2:         {"&&", 0},
	KindPipe:         {"|", 0},
	KindPipe2:        {"||", 0},
	KindCaret:        {"^", 0},
	KindQuestion2:    {"??", 0},
	KindShl:          {"<<", 0},
	KindShr:          {">>", 0},
	KindUShr:         {">>>", 0},
	KindPlusEq:       {"+=", 0},
	KindMinusEq:      {"-=", 0},
	KindStarEq:       {"*=", 0},
	KindSlashEq:      {"/=", 0},
	KindPercentEq:    {"%=", 0},
	KindAmpEq:        {"&=", 0},
	KindPipeEq:       {"|=", 0},
	KindCaretEq:      {"^=", 0},
	KindShlEq:        {"<<=", 0},
	KindShrEq:        {">>=", 0},
	KindUShrEq:       {">>>=", 0},
	KindStar2Eq:      {"**=", 0},
	KindAmp2Eq:       {"&&=", 0},
	KindPipe2Eq:      {"||=", 0},
	KindQuestion2Eq:  {"??=", 0},

	KindRoot:                    {"Root", -1},
	KindStatementList:           {"StatementList", -1},
	KindVariableDeclaratorList:  {"VariableDeclaratorList", -1},
	KindParameterList:           {"ParameterList", -1},
	KindArgumentList:            {"ArgumentList", -1},
	KindArrayElementList:        {"ArrayElementList", -1},
	KindObjectMemberList:        {"ObjectMemberList", -1},
	KindArrayBindingElementList: {"ArrayBindingElementList", -1},
	KindObjectBindingMemberList: {"ObjectBindingMemberList", -1},

	KindDirective:           {"Directive", 2},
	KindVariableStatement:   {"VariableStatement", 2},
	KindVariableDeclaration: {"VariableDeclaration", 2},
	KindVariableDeclarator:  {"VariableDeclarator", 3},
	KindInitializerClause:   {"InitializerClause", 2},
	KindExpressionStatement: {"ExpressionStatement", 2},
	KindBlockStatement:      {"BlockStatement", 3},
	KindEmptyStatement:      {"EmptyStatement", 1},
	KindIfStatement:         {"IfStatement", 6},
	KindElseClause:          {"ElseClause", 2},
	KindWhileStatement:      {"WhileStatement", 5},
	KindForStatement:        {"ForStatement", 9},
	KindReturnStatement:     {"ReturnStatement", 3},
	KindBreakStatement:      {"BreakStatement", 2},
	KindContinueStatement:   {"ContinueStatement", 2},
	KindWithStatement:       {"WithStatement", 5},
	KindDebuggerStatement:   {"DebuggerStatement", 2},
	KindFunctionDeclaration: {"FunctionDeclaration", 6},
	KindParameters:          {"Parameters", 3},
	KindFormalParameter:     {"FormalParameter", 3},
	KindRestParameter:       {"RestParameter", 3},
	KindFunctionBody:        {"FunctionBody", 3},

	KindIdentifierExpression:          {"IdentifierExpression", 1},
	KindLiteralExpression:             {"LiteralExpression", 1},
	KindThisExpression:                {"ThisExpression", 1},
	KindArrayExpression:               {"ArrayExpression", 3},
	KindArrayHole:                     {"ArrayHole", 0},
	KindObjectExpression:              {"ObjectExpression", 3},
	KindPropertyObjectMember:          {"PropertyObjectMember", 3},
	KindShorthandPropertyObjectMember: {"ShorthandPropertyObjectMember", 1},
	KindSpreadElement:                 {"SpreadElement", 2},
	KindLiteralMemberName:             {"LiteralMemberName", 1},
	KindComputedMemberName:            {"ComputedMemberName", 3},
	KindParenthesizedExpression:       {"ParenthesizedExpression", 3},
	KindFunctionExpression:            {"FunctionExpression", 6},
	KindArrowFunctionExpression:       {"ArrowFunctionExpression", 4},
	KindCallExpression:                {"CallExpression", 2},
	KindCallArguments:                 {"CallArguments", 3},
	KindNewExpression:                 {"NewExpression", 3},
	KindStaticMemberExpression:        {"StaticMemberExpression", 3},
	KindComputedMemberExpression:      {"ComputedMemberExpression", 4},
	KindUnaryExpression:               {"UnaryExpression", 2},
	KindAwaitExpression:               {"AwaitExpression", 2},
	KindPreUpdateExpression:           {"PreUpdateExpression", 2},
	KindPostUpdateExpression:          {"PostUpdateExpression", 2},
	KindBinaryExpression:              {"BinaryExpression", 3},
	KindLogicalExpression:             {"LogicalExpression", 3},
	KindConditionalExpression:         {"ConditionalExpression", 5},
	KindAssignmentExpression:          {"AssignmentExpression", 3},
	KindSequenceExpression:            {"SequenceExpression", 3},

	KindIdentifierBinding:        {"IdentifierBinding", 1},
	KindArrayBindingPattern:      {"ArrayBindingPattern", 3},
	KindObjectBindingPattern:     {"ObjectBindingPattern", 3},
	KindBindingWithDefault:       {"BindingWithDefault", 3},
	KindArrayRestBinding:         {"ArrayRestBinding", 2},
	KindPropertyBinding:          {"PropertyBinding", 4},
	KindShorthandPropertyBinding: {"ShorthandPropertyBinding", 2},
	KindObjectRestBinding:        {"ObjectRestBinding", 2},

	KindTsTypeAnnotation:    {"TsTypeAnnotation", 2},
	KindTsReferenceType:     {"TsReferenceType", 1},
	KindTsAsExpression:      {"TsAsExpression", 3},
	KindTsNonNullExpression: {"TsNonNullExpression", 2},

	KindUnknown:           {"Unknown", -1},
	KindUnknownStatement:  {"UnknownStatement", -1},
	KindUnknownExpression: {"UnknownExpression", -1},
	KindUnknownBinding:    {"UnknownBinding", -1},
	KindUnknownMember:     {"UnknownMember", -1},
	KindMissing:           {"Missing", 0},
}

func (k Kind) String() string {
	if k < kindCount && kindInfos[k].name != "" {
		return kindInfos[k].name
	}
	return "Unknown"
}

// IsToken reports whether k is a token kind, trivia included.
func (k Kind) IsToken() bool {
	return k > KindTombstone && k < KindRoot
}

func (k Kind) IsTrivia() bool {
	return k == KindWhitespace || k == KindNewline || k == KindComment
}

func (k Kind) IsKeyword() bool {
	return k >= KindBreakKw && k <= KindAsKw
}

func (k Kind) IsList() bool {
	return k >= KindStatementList && k <= KindObjectBindingMemberList
}

func (k Kind) IsUnknown() bool {
	return k >= KindUnknown && k <= KindUnknownMember
}

// Slots returns the fixed number of child slots a node of kind k has, or
// -1 when the kind has variable arity.
func (k Kind) Slots() int {
	if k >= kindCount {
		return -1
	}
	return kindInfos[k].slots
}

// KindFromName is the inverse of String for node and token kinds.
func KindFromName(name string) (Kind, bool) {
	for k := Kind(0); k < kindCount; k++ {
		if kindInfos[k].name == name {
			return k, true
		}
	}
	return 0, false
}

var keywords = map[string]Kind{
	"break":      KindBreakKw,
	"const":      KindConstKw,
	"continue":   KindContinueKw,
	"debugger":   KindDebuggerKw,
	"delete":     KindDeleteKw,
	"else":       KindElseKw,
	"false":      KindFalseKw,
	"for":        KindForKw,
	"function":   KindFunctionKw,
	"if":         KindIfKw,
	"in":         KindInKw,
	"instanceof": KindInstanceofKw,
	"new":        KindNewKw,
	"null":       KindNullKw,
	"return":     KindReturnKw,
	"this":       KindThisKw,
	"true":       KindTrueKw,
	"typeof":     KindTypeofKw,
	"var":        KindVarKw,
	"void":       KindVoidKw,
	"while":      KindWhileKw,
	"with":       KindWithKw,
}

// LookupKeyword returns the reserved keyword kind for ident, or KindIdent.
// Contextual keywords such as let and async are always identifiers here.
func LookupKeyword(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return KindIdent
}

// KindSet is a comparable bit set of kinds. It doubles as a token set for
// the parser and as the kind predicate in query keys.
type KindSet [(kindCount + 63) / 64]uint64

func NewKindSet(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s[k/64] |= 1 << (k % 64)
	}
	return s
}

func (s KindSet) Contains(k Kind) bool {
	if k >= kindCount {
		return false
	}
	return s[k/64]&(1<<(k%64)) != 0
}

func (s KindSet) Union(other KindSet) KindSet {
	for i := range s {
		s[i] |= other[i]
	}
	return s
}

func (s KindSet) IsEmpty() bool {
	for _, w := range s {
		if w != 0 {
			return false
		}
	}
	return true
}

func (s KindSet) Kinds() []Kind {
	var kinds []Kind
	for k := Kind(0); k < kindCount; k++ {
		if s.Contains(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func (s KindSet) String() string {
	result := "{"
	for i, k := range s.Kinds() {
		if i > 0 {
			result += ", "
		}
		result += k.String()
	}
	return result + "}"
}
