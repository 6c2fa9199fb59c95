package js

import "verdant/internal/syntax"

const (
	_ syntax.Kind = iota // Tombstone

	// пунктуация
	LParen
	RParen
	LCurly
	RCurly
	LBrack
	RBrack
	Semicolon
	Comma
	Dot
	Dot3
	Question
	QuestionDot
	Colon
	Arrow
	Eq
	Eq2
	Eq3
	Neq
	Neq2
	Lt
	Gt
	LtEq
	GtEq
	Plus
	Minus
	Star
	Star2
	Slash
	Percent
	Plus2
	Minus2
	Bang
	Tilde
	Amp
	Pipe
	Caret
	Amp2
	Pipe2
	Question2
	Shl
	Shr
	UShr
	PlusEq
	MinusEq
	StarEq
	Star2Eq
	SlashEq
	PercentEq
	AmpEq
	PipeEq
	CaretEq
	ShlEq
	ShrEq
	UShrEq
	Amp2Eq
	Pipe2Eq
	Question2Eq

	// ключевые слова
	VarKw
	LetKw
	ConstKw
	FunctionKw
	AsyncKw
	AwaitKw
	ReturnKw
	IfKw
	ElseKw
	WhileKw
	ForKw
	BreakKw
	ContinueKw
	ThrowKw
	DebuggerKw
	ImportKw
	ExportKw
	FromKw
	AsKw
	DefaultKw
	TrueKw
	FalseKw
	NullKw
	ThisKw
	NewKw
	TypeofKw
	VoidKw
	DeleteKw
	InKw
	InstanceofKw
	OfKw

	// литералы и прочие токены
	Ident
	NumberLiteral
	StringLiteral
	RegexLiteral
	Backtick
	TemplateChunk
	DollarCurly
	GritMetavariable
	ErrorToken
	Whitespace
	Newline
	Comment
	MultilineComment
	EOF

	// узлы
	Module
	Script
	ModuleItemList
	StatementList

	Import
	ImportBareClause
	ImportDefaultClause
	ImportNamespaceClause
	ImportNamedClause
	NamedImportSpecifiers
	NamedImportSpecifierList
	NamedImportSpecifier
	ShorthandNamedImportSpecifier
	LiteralExportName
	ModuleSource
	Export
	ExportDefaultExpressionClause
	ExportNamedClause
	ExportNamedSpecifierList
	ExportNamedSpecifier

	VariableStatement
	VariableDeclaration
	VariableDeclaratorList
	VariableDeclarator
	InitializerClause
	FunctionDeclaration
	Parameters
	ParameterList
	FormalParameter
	RestParameter
	FunctionBody
	ReturnStatement
	IfStatement
	ElseClause
	WhileStatement
	ForStatement
	BlockStatement
	EmptyStatement
	DebuggerStatement
	ExpressionStatement
	BreakStatement
	ContinueStatement
	ThrowStatement

	IdentifierBinding
	IdentifierExpression
	IdentifierAssignment
	ThisExpression
	AssignmentExpression
	ConditionalExpression
	LogicalExpression
	BinaryExpression
	UnaryExpression
	AwaitExpression
	PreUpdateExpression
	PostUpdateExpression
	CallExpression
	CallArguments
	CallArgumentList
	NewExpression
	StaticMemberExpression
	ComputedMemberExpression
	ParenthesizedExpression
	NumberLiteralExpression
	StringLiteralExpression
	BooleanLiteralExpression
	NullLiteralExpression
	RegexLiteralExpression
	TemplateExpression
	TemplateElementList
	TemplateChunkElement
	TemplateElement
	ArrayExpression
	ArrayElementList
	ArrayHole
	ObjectExpression
	ObjectMemberList
	PropertyObjectMember
	ShorthandPropertyObjectMember
	MethodObjectMember
	LiteralMemberName
	ComputedMemberName
	Spread
	ArrowFunctionExpression
	FunctionExpression
	Metavariable

	Bogus
	BogusStatement
	BogusExpression
	BogusMember
	BogusBinding
	BogusParameter
	BogusAssignment
	BogusImportClause

	kindCount
)

var kindNames = [kindCount]string{
	LParen:      "L_PAREN",
	RParen:      "R_PAREN",
	LCurly:      "L_CURLY",
	RCurly:      "R_CURLY",
	LBrack:      "L_BRACK",
	RBrack:      "R_BRACK",
	Semicolon:   "SEMICOLON",
	Comma:       "COMMA",
	Dot:         "DOT",
	Dot3:        "DOT3",
	Question:    "QUESTION",
	QuestionDot: "QUESTIONDOT",
	Colon:       "COLON",
	Arrow:       "FAT_ARROW",
	Eq:          "EQ",
	Eq2:         "EQ2",
	Eq3:         "EQ3",
	Neq:         "NEQ",
	Neq2:        "NEQ2",
	Lt:          "L_ANGLE",
	Gt:          "R_ANGLE",
	LtEq:        "LTEQ",
	GtEq:        "GTEQ",
	Plus:        "PLUS",
	Minus:       "MINUS",
	Star:        "STAR",
	Star2:       "STAR2",
	Slash:       "SLASH",
	Percent:     "PERCENT",
	Plus2:       "PLUS2",
	Minus2:      "MINUS2",
	Bang:        "BANG",
	Tilde:       "TILDE",
	Amp:         "AMP",
	Pipe:        "PIPE",
	Caret:       "CARET",
	Amp2:        "AMP2",
	Pipe2:       "PIPE2",
	Question2:   "QUESTION2",
	Shl:         "SHL",
	Shr:         "SHR",
	UShr:        "USHR",
	PlusEq:      "PLUSEQ",
	MinusEq:     "MINUSEQ",
	StarEq:      "STAREQ",
	Star2Eq:     "STAR2EQ",
	SlashEq:     "SLASHEQ",
	PercentEq:   "PERCENTEQ",
	AmpEq:       "AMPEQ",
	PipeEq:      "PIPEEQ",
	CaretEq:     "CARETEQ",
	ShlEq:       "SHLEQ",
	ShrEq:       "SHREQ",
	UShrEq:      "USHREQ",
	Amp2Eq:      "AMP2EQ",
	Pipe2Eq:     "PIPE2EQ",
	Question2Eq: "QUESTION2EQ",

	VarKw:        "VAR_KW",
	LetKw:        "LET_KW",
	ConstKw:      "CONST_KW",
	FunctionKw:   "FUNCTION_KW",
	AsyncKw:      "ASYNC_KW",
	AwaitKw:      "AWAIT_KW",
	ReturnKw:     "RETURN_KW",
	IfKw:         "IF_KW",
	ElseKw:       "ELSE_KW",
	WhileKw:      "WHILE_KW",
	ForKw:        "FOR_KW",
	BreakKw:      "BREAK_KW",
	ContinueKw:   "CONTINUE_KW",
	ThrowKw:      "THROW_KW",
	DebuggerKw:   "DEBUGGER_KW",
	ImportKw:     "IMPORT_KW",
	ExportKw:     "EXPORT_KW",
	FromKw:       "FROM_KW",
	AsKw:         "AS_KW",
	DefaultKw:    "DEFAULT_KW",
	TrueKw:       "TRUE_KW",
	FalseKw:      "FALSE_KW",
	NullKw:       "NULL_KW",
	ThisKw:       "THIS_KW",
	NewKw:        "NEW_KW",
	TypeofKw:     "TYPEOF_KW",
	VoidKw:       "VOID_KW",
	DeleteKw:     "DELETE_KW",
	InKw:         "IN_KW",
	InstanceofKw: "INSTANCEOF_KW",
	OfKw:         "OF_KW",

	Ident:            "IDENT",
	NumberLiteral:    "JS_NUMBER_LITERAL",
	StringLiteral:    "JS_STRING_LITERAL",
	RegexLiteral:     "JS_REGEX_LITERAL",
	Backtick:         "BACKTICK",
	TemplateChunk:    "TEMPLATE_CHUNK",
	DollarCurly:      "DOLLAR_CURLY",
	GritMetavariable: "GRIT_METAVARIABLE",
	ErrorToken:       "ERROR_TOKEN",
	Whitespace:       "WHITESPACE",
	Newline:          "NEWLINE",
	Comment:          "COMMENT",
	MultilineComment: "MULTILINE_COMMENT",
	EOF:              "EOF",

	Module:         "JS_MODULE",
	Script:         "JS_SCRIPT",
	ModuleItemList: "JS_MODULE_ITEM_LIST",
	StatementList:  "JS_STATEMENT_LIST",

	Import:                        "JS_IMPORT",
	ImportBareClause:              "JS_IMPORT_BARE_CLAUSE",
	ImportDefaultClause:           "JS_IMPORT_DEFAULT_CLAUSE",
	ImportNamespaceClause:         "JS_IMPORT_NAMESPACE_CLAUSE",
	ImportNamedClause:             "JS_IMPORT_NAMED_CLAUSE",
	NamedImportSpecifiers:         "JS_NAMED_IMPORT_SPECIFIERS",
	NamedImportSpecifierList:      "JS_NAMED_IMPORT_SPECIFIER_LIST",
	NamedImportSpecifier:          "JS_NAMED_IMPORT_SPECIFIER",
	ShorthandNamedImportSpecifier: "JS_SHORTHAND_NAMED_IMPORT_SPECIFIER",
	LiteralExportName:             "JS_LITERAL_EXPORT_NAME",
	ModuleSource:                  "JS_MODULE_SOURCE",
	Export:                        "JS_EXPORT",
	ExportDefaultExpressionClause: "JS_EXPORT_DEFAULT_EXPRESSION_CLAUSE",
	ExportNamedClause:             "JS_EXPORT_NAMED_CLAUSE",
	ExportNamedSpecifierList:      "JS_EXPORT_NAMED_SPECIFIER_LIST",
	ExportNamedSpecifier:          "JS_EXPORT_NAMED_SPECIFIER",

	VariableStatement:      "JS_VARIABLE_STATEMENT",
	VariableDeclaration:    "JS_VARIABLE_DECLARATION",
	VariableDeclaratorList: "JS_VARIABLE_DECLARATOR_LIST",
	VariableDeclarator:     "JS_VARIABLE_DECLARATOR",
	InitializerClause:      "JS_INITIALIZER_CLAUSE",
	FunctionDeclaration:    "JS_FUNCTION_DECLARATION",
	Parameters:             "JS_PARAMETERS",
	ParameterList:          "JS_PARAMETER_LIST",
	FormalParameter:        "JS_FORMAL_PARAMETER",
	RestParameter:          "JS_REST_PARAMETER",
	FunctionBody:           "JS_FUNCTION_BODY",
	ReturnStatement:        "JS_RETURN_STATEMENT",
	IfStatement:            "JS_IF_STATEMENT",
	ElseClause:             "JS_ELSE_CLAUSE",
	WhileStatement:         "JS_WHILE_STATEMENT",
	ForStatement:           "JS_FOR_STATEMENT",
	BlockStatement:         "JS_BLOCK_STATEMENT",
	EmptyStatement:         "JS_EMPTY_STATEMENT",
	DebuggerStatement:      "JS_DEBUGGER_STATEMENT",
	ExpressionStatement:    "JS_EXPRESSION_STATEMENT",
	BreakStatement:         "JS_BREAK_STATEMENT",
	ContinueStatement:      "JS_CONTINUE_STATEMENT",
	ThrowStatement:         "JS_THROW_STATEMENT",

	IdentifierBinding:             "JS_IDENTIFIER_BINDING",
	IdentifierExpression:          "JS_IDENTIFIER_EXPRESSION",
	IdentifierAssignment:          "JS_IDENTIFIER_ASSIGNMENT",
	ThisExpression:                "JS_THIS_EXPRESSION",
	AssignmentExpression:          "JS_ASSIGNMENT_EXPRESSION",
	ConditionalExpression:         "JS_CONDITIONAL_EXPRESSION",
	LogicalExpression:             "JS_LOGICAL_EXPRESSION",
	BinaryExpression:              "JS_BINARY_EXPRESSION",
	UnaryExpression:               "JS_UNARY_EXPRESSION",
	AwaitExpression:               "JS_AWAIT_EXPRESSION",
	PreUpdateExpression:           "JS_PRE_UPDATE_EXPRESSION",
	PostUpdateExpression:          "JS_POST_UPDATE_EXPRESSION",
	CallExpression:                "JS_CALL_EXPRESSION",
	CallArguments:                 "JS_CALL_ARGUMENTS",
	CallArgumentList:              "JS_CALL_ARGUMENT_LIST",
	NewExpression:                 "JS_NEW_EXPRESSION",
	StaticMemberExpression:        "JS_STATIC_MEMBER_EXPRESSION",
	ComputedMemberExpression:      "JS_COMPUTED_MEMBER_EXPRESSION",
	ParenthesizedExpression:       "JS_PARENTHESIZED_EXPRESSION",
	NumberLiteralExpression:       "JS_NUMBER_LITERAL_EXPRESSION",
	StringLiteralExpression:       "JS_STRING_LITERAL_EXPRESSION",
	BooleanLiteralExpression:      "JS_BOOLEAN_LITERAL_EXPRESSION",
	NullLiteralExpression:         "JS_NULL_LITERAL_EXPRESSION",
	RegexLiteralExpression:        "JS_REGEX_LITERAL_EXPRESSION",
	TemplateExpression:            "JS_TEMPLATE_EXPRESSION",
	TemplateElementList:           "JS_TEMPLATE_ELEMENT_LIST",
	TemplateChunkElement:          "JS_TEMPLATE_CHUNK_ELEMENT",
	TemplateElement:               "JS_TEMPLATE_ELEMENT",
	ArrayExpression:               "JS_ARRAY_EXPRESSION",
	ArrayElementList:              "JS_ARRAY_ELEMENT_LIST",
	ArrayHole:                     "JS_ARRAY_HOLE",
	ObjectExpression:              "JS_OBJECT_EXPRESSION",
	ObjectMemberList:              "JS_OBJECT_MEMBER_LIST",
	PropertyObjectMember:          "JS_PROPERTY_OBJECT_MEMBER",
	ShorthandPropertyObjectMember: "JS_SHORTHAND_PROPERTY_OBJECT_MEMBER",
	MethodObjectMember:            "JS_METHOD_OBJECT_MEMBER",
	LiteralMemberName:             "JS_LITERAL_MEMBER_NAME",
	ComputedMemberName:            "JS_COMPUTED_MEMBER_NAME",
	Spread:                        "JS_SPREAD",
	ArrowFunctionExpression:       "JS_ARROW_FUNCTION_EXPRESSION",
	FunctionExpression:            "JS_FUNCTION_EXPRESSION",
	Metavariable:                  "JS_METAVARIABLE",

	Bogus:             "JS_BOGUS",
	BogusStatement:    "JS_BOGUS_STATEMENT",
	BogusExpression:   "JS_BOGUS_EXPRESSION",
	BogusMember:       "JS_BOGUS_MEMBER",
	BogusBinding:      "JS_BOGUS_BINDING",
	BogusParameter:    "JS_BOGUS_PARAMETER",
	BogusAssignment:   "JS_BOGUS_ASSIGNMENT",
	BogusImportClause: "JS_BOGUS_IMPORT_CLAUSE",
}

var keywords = map[string]syntax.Kind{
	"var":        VarKw,
	"let":        LetKw,
	"const":      ConstKw,
	"function":   FunctionKw,
	"async":      AsyncKw,
	"await":      AwaitKw,
	"return":     ReturnKw,
	"if":         IfKw,
	"else":       ElseKw,
	"while":      WhileKw,
	"for":        ForKw,
	"break":      BreakKw,
	"continue":   ContinueKw,
	"throw":      ThrowKw,
	"debugger":   DebuggerKw,
	"import":     ImportKw,
	"export":     ExportKw,
	"from":       FromKw,
	"as":         AsKw,
	"default":    DefaultKw,
	"true":       TrueKw,
	"false":      FalseKw,
	"null":       NullKw,
	"this":       ThisKw,
	"new":        NewKw,
	"typeof":     TypeofKw,
	"void":       VoidKw,
	"delete":     DeleteKw,
	"in":         InKw,
	"instanceof": InstanceofKw,
	"of":         OfKw,
}

// language describes JS kinds to the generic tree.
type language struct {
	syntax.KindTable
}

// Language is the JS kind set.
var Language syntax.Language = language{syntax.KindTable{
	Names: kindNames[:],
	Trivia: map[syntax.Kind]syntax.TriviaPieceKind{
		Whitespace:       syntax.TriviaWhitespace,
		Newline:          syntax.TriviaNewline,
		Comment:          syntax.TriviaSingleLineComment,
		MultilineComment: syntax.TriviaMultiLineComment,
	},
	Bogus: map[syntax.Kind]bool{
		Bogus: true, BogusStatement: true, BogusExpression: true, BogusMember: true,
		BogusBinding: true, BogusParameter: true, BogusAssignment: true, BogusImportClause: true,
	},
	Lists: map[syntax.Kind]bool{
		ModuleItemList: true, StatementList: true, NamedImportSpecifierList: true,
		ExportNamedSpecifierList: true, VariableDeclaratorList: true, ParameterList: true,
		CallArgumentList: true, TemplateElementList: true, ArrayElementList: true,
		ObjectMemberList: true,
	},
	Roots: map[syntax.Kind]bool{Module: true, Script: true},
}}

func (language) Name() string { return "js" }
func (language) EOF() syntax.Kind { return EOF }

func (language) ToBogus(k syntax.Kind) syntax.Kind {
	switch {
	case IsStatement(k):
		return BogusStatement
	case IsExpression(k):
		return BogusExpression
	case k == PropertyObjectMember || k == ShorthandPropertyObjectMember || k == MethodObjectMember:
		return BogusMember
	case k == IdentifierBinding:
		return BogusBinding
	case k == FormalParameter || k == RestParameter:
		return BogusParameter
	case k == IdentifierAssignment:
		return BogusAssignment
	case k >= ImportBareClause && k <= ImportNamedClause:
		return BogusImportClause
	default:
		return Bogus
	}
}

// TokenText spells punctuation and keywords for diagnostics.
func (language) TokenText(k syntax.Kind) string {
	if k >= LParen && k <= Question2Eq {
		return punctText[k]
	}
	for text, kw := range keywords {
		if kw == k {
			return text
		}
	}
	return ""
}

var punctText = map[syntax.Kind]string{
	LParen: "(", RParen: ")", LCurly: "{", RCurly: "}", LBrack: "[", RBrack: "]",
	Semicolon: ";", Comma: ",", Dot: ".", Dot3: "...", Question: "?", QuestionDot: "?.",
	Colon: ":", Arrow: "=>", Eq: "=", Eq2: "==", Eq3: "===", Neq: "!=", Neq2: "!==",
	Lt: "<", Gt: ">", LtEq: "<=", GtEq: ">=", Plus: "+", Minus: "-", Star: "*",
	Star2: "**", Slash: "/", Percent: "%", Plus2: "++", Minus2: "--", Bang: "!",
	Tilde: "~", Amp: "&", Pipe: "|", Caret: "^", Amp2: "&&", Pipe2: "||",
	Question2: "??", Shl: "<<", Shr: ">>", UShr: ">>>", PlusEq: "+=", MinusEq: "-=",
	StarEq: "*=", Star2Eq: "**=", SlashEq: "/=", PercentEq: "%=", AmpEq: "&=",
	PipeEq: "|=", CaretEq: "^=", ShlEq: "<<=", ShrEq: ">>=", UShrEq: ">>>=",
	Amp2Eq: "&&=", Pipe2Eq: "||=", Question2Eq: "??=",
}

// IsKeyword reports reserved and contextual keyword tokens.
func IsKeyword(k syntax.Kind) bool { return k >= VarKw && k <= OfKw }

// IsStatement reports the statement node kinds.
func IsStatement(k syntax.Kind) bool {
	switch k {
	case VariableStatement, FunctionDeclaration, ReturnStatement, IfStatement,
		WhileStatement, ForStatement, BlockStatement, EmptyStatement, DebuggerStatement,
		ExpressionStatement, BreakStatement, ContinueStatement, ThrowStatement,
		Import, Export, BogusStatement:
		return true
	}
	return false
}

// IsExpression reports the expression node kinds.
func IsExpression(k syntax.Kind) bool {
	switch k {
	case IdentifierExpression, ThisExpression, AssignmentExpression, ConditionalExpression,
		LogicalExpression, BinaryExpression, UnaryExpression, AwaitExpression,
		PreUpdateExpression, PostUpdateExpression, CallExpression, NewExpression,
		StaticMemberExpression, ComputedMemberExpression, ParenthesizedExpression,
		NumberLiteralExpression, StringLiteralExpression, BooleanLiteralExpression,
		NullLiteralExpression, RegexLiteralExpression, TemplateExpression, ArrayExpression,
		ObjectExpression, ArrowFunctionExpression, FunctionExpression, Metavariable,
		BogusExpression:
		return true
	}
	return false
}

// IsFunction reports the nodes that open a function scope.
func IsFunction(k syntax.Kind) bool {
	switch k {
	case FunctionDeclaration, FunctionExpression, ArrowFunctionExpression, MethodObjectMember:
		return true
	}
	return false
}
