package syntax

import "fmt"

// Kind is the raw representation of a language's token and node kinds.
type Kind uint16

// Tombstone is reserved in every language: it marks abandoned parser events.
const Tombstone Kind = 0

// Language describes the closed kind set of one grammar.
type Language interface {
	Name() string
	KindName(k Kind) string
	// IsTrivia reports lexer kinds that never reach the parser.
	IsTrivia(k Kind) bool
	IsBogus(k Kind) bool
	IsList(k Kind) bool
	IsRoot(k Kind) bool
	// ToBogus maps a production kind to the bogus kind used when it fails.
	ToBogus(k Kind) Kind
	EOF() Kind
	// TriviaPiece maps a trivia token kind produced by the lexer to its piece kind.
	TriviaPiece(k Kind) (TriviaPieceKind, bool)
}

// KindString renders k through lang, falling back to the raw number.
func KindString(lang Language, k Kind) string {
	if lang != nil {
		if name := lang.KindName(k); name != "" {
			return name
		}
	}
	if k == Tombstone {
		return "TOMBSTONE"
	}
	return fmt.Sprintf("Kind(%d)", uint16(k))
}

// KindTable is a helper for languages that describe their kinds with flat tables.
type KindTable struct {
	Names  []string
	Trivia map[Kind]TriviaPieceKind
	Bogus  map[Kind]bool
	Lists  map[Kind]bool
	Roots  map[Kind]bool
}

func (t KindTable) KindName(k Kind) string {
	if int(k) < len(t.Names) {
		return t.Names[k]
	}
	return ""
}

func (t KindTable) IsTrivia(k Kind) bool {
	_, ok := t.Trivia[k]
	return ok
}

func (t KindTable) TriviaPiece(k Kind) (TriviaPieceKind, bool) {
	p, ok := t.Trivia[k]
	return p, ok
}

func (t KindTable) IsBogus(k Kind) bool { return t.Bogus[k] }
func (t KindTable) IsList(k Kind) bool { return t.Lists[k] }
func (t KindTable) IsRoot(k Kind) bool { return t.Roots[k] }
