package json

import "verdant/internal/syntax"

const (
	_ syntax.Kind = iota // Tombstone

	// токены
	LCurly
	RCurly
	LBrack
	RBrack
	Colon
	Comma
	StringLiteral
	NumberLiteral
	TrueKw
	FalseKw
	NullKw
	Ident
	ErrorToken
	Whitespace
	Newline
	Comment
	MultilineComment
	EOF

	// узлы
	Root
	NumberValue
	StringValue
	BooleanValue
	NullValue
	ArrayValue
	ArrayElementList
	ObjectValue
	MemberList
	Member
	MemberName
	Bogus
	BogusValue
	BogusMember

	kindCount
)

var kindNames = [kindCount]string{
	LCurly:           "L_CURLY",
	RCurly:           "R_CURLY",
	LBrack:           "L_BRACK",
	RBrack:           "R_BRACK",
	Colon:            "COLON",
	Comma:            "COMMA",
	StringLiteral:    "JSON_STRING_LITERAL",
	NumberLiteral:    "JSON_NUMBER_LITERAL",
	TrueKw:           "TRUE_KW",
	FalseKw:          "FALSE_KW",
	NullKw:           "NULL_KW",
	Ident:            "IDENT",
	ErrorToken:       "ERROR_TOKEN",
	Whitespace:       "WHITESPACE",
	Newline:          "NEWLINE",
	Comment:          "COMMENT",
	MultilineComment: "MULTILINE_COMMENT",
	EOF:              "EOF",
	Root:             "JSON_ROOT",
	NumberValue:      "JSON_NUMBER_VALUE",
	StringValue:      "JSON_STRING_VALUE",
	BooleanValue:     "JSON_BOOLEAN_VALUE",
	NullValue:        "JSON_NULL_VALUE",
	ArrayValue:       "JSON_ARRAY_VALUE",
	ArrayElementList: "JSON_ARRAY_ELEMENT_LIST",
	ObjectValue:      "JSON_OBJECT_VALUE",
	MemberList:       "JSON_MEMBER_LIST",
	Member:           "JSON_MEMBER",
	MemberName:       "JSON_MEMBER_NAME",
	Bogus:            "JSON_BOGUS",
	BogusValue:       "JSON_BOGUS_VALUE",
	BogusMember:      "JSON_BOGUS_MEMBER",
}

var tokenTexts = map[syntax.Kind]string{
	LCurly:  "{",
	RCurly:  "}",
	LBrack:  "[",
	RBrack:  "]",
	Colon:   ":",
	Comma:   ",",
	TrueKw:  "true",
	FalseKw: "false",
	NullKw:  "null",
}

// language describes JSON kinds to the generic tree.
type language struct {
	syntax.KindTable
}

// Language is the JSON kind set.
var Language syntax.Language = language{syntax.KindTable{
	Names: kindNames[:],
	Trivia: map[syntax.Kind]syntax.TriviaPieceKind{
		Whitespace:       syntax.TriviaWhitespace,
		Newline:          syntax.TriviaNewline,
		Comment:          syntax.TriviaSingleLineComment,
		MultilineComment: syntax.TriviaMultiLineComment,
	},
	Bogus: map[syntax.Kind]bool{Bogus: true, BogusValue: true, BogusMember: true},
	Lists: map[syntax.Kind]bool{ArrayElementList: true, MemberList: true},
	Roots: map[syntax.Kind]bool{Root: true},
}}

func (language) Name() string { return "json" }
func (language) EOF() syntax.Kind { return EOF }

func (language) ToBogus(k syntax.Kind) syntax.Kind {
	switch {
	case IsValue(k):
		return BogusValue
	case k == Member || k == BogusMember:
		return BogusMember
	default:
		return Bogus
	}
}

// TokenText spells punctuation and keywords for diagnostics.
func (language) TokenText(k syntax.Kind) string {
	return tokenTexts[k]
}

// IsValue reports the node kinds that can stand where a value is expected.
func IsValue(k syntax.Kind) bool {
	switch k {
	case NumberValue, StringValue, BooleanValue, NullValue, ArrayValue, ObjectValue, BogusValue:
		return true
	}
	return false
}
