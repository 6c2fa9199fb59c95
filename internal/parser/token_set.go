package parser

import (
	"strings"

	"verdant/internal/syntax"
)

const tokenSetWords = 8

// TokenSet is a bitset of up to 512 kinds.
type TokenSet [tokenSetWords]uint64

// EmptySet contains nothing.
var EmptySet TokenSet

// NewTokenSet builds a set from kinds.
func NewTokenSet(kinds ...syntax.Kind) TokenSet {
	var s TokenSet
	for _, k := range kinds {
		s = s.With(k)
	}
	return s
}

func (s TokenSet) With(k syntax.Kind) TokenSet {
	if int(k) >= tokenSetWords*64 {
		panic("parser: kind does not fit into a TokenSet")
	}
	s[k/64] |= 1 << (k % 64)
	return s
}

func (s TokenSet) Union(other TokenSet) TokenSet {
	for i := range s {
		s[i] |= other[i]
	}
	return s
}

func (s TokenSet) Contains(k syntax.Kind) bool {
	if int(k) >= tokenSetWords*64 {
		return false
	}
	return s[k/64]&(1<<(k%64)) != 0
}

func (s TokenSet) IsEmpty() bool {
	return s == EmptySet
}

// Kinds lists members in ascending order.
func (s TokenSet) Kinds() []syntax.Kind {
	var out []syntax.Kind
	for i, w := range s {
		for b := 0; w != 0; b++ {
			if w&1 != 0 {
				out = append(out, syntax.Kind(i*64+b))
			}
			w >>= 1
		}
	}
	return out
}

// Format renders the set through lang, e.g. "`,`, `}`" style names.
func (s TokenSet) Format(lang syntax.Language) string {
	kinds := s.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = syntax.KindString(lang, k)
	}
	return strings.Join(names, ", ")
}
