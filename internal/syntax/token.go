package syntax

import (
	"fmt"
	"iter"
	"strings"

	"verdant/internal/source"
)

// Token is a red handle on a green token.
type Token struct {
	green  *GreenToken
	parent *Node
	index  int
	offset source.TextSize
}

// TokenKey identifies a token position within one tree.
type TokenKey struct {
	green  *GreenToken
	offset source.TextSize
}

func (t *Token) Kind() Kind { return t.green.kind }
func (t *Token) Green() *GreenToken { return t.green }
func (t *Token) Parent() *Node { return t.parent }
func (t *Token) Index() int { return t.index }
func (t *Token) Key() TokenKey { return TokenKey{green: t.green, offset: t.offset} }
func (t *Token) isElement() {}

// Is reports whether both handles point at the same token of the same tree.
func (t *Token) Is(other *Token) bool {
	return other != nil && t.Key() == other.Key() && t.parent.Root().green == other.parent.Root().green
}

// TextRange covers the token including its trivia.
func (t *Token) TextRange() source.TextRange {
	return source.RangeAt(t.offset, t.green.TextLen())
}

// TextTrimmedRange covers the token text only.
func (t *Token) TextTrimmedRange() source.TextRange {
	r := t.TextRange()
	return source.TextRange{Start: r.Start + t.green.leadingLen(), End: r.End - t.green.trailingLen()}
}

// Text returns the token text with trivia.
func (t *Token) Text() string { return t.green.text }

// TextTrimmed returns the token text without trivia.
func (t *Token) TextTrimmed() string { return t.green.TextTrimmed() }

// LeadingTrivia returns the positioned leading trivia.
func (t *Token) LeadingTrivia() []Trivia {
	return expandTrivia(t.green.LeadingText(), t.offset, t.green.leading)
}

// TrailingTrivia returns the positioned trailing trivia.
func (t *Token) TrailingTrivia() []Trivia {
	return expandTrivia(t.green.TrailingText(), t.TextTrimmedRange().End, t.green.trailing)
}

// HasLeadingNewline reports whether a newline precedes the token.
func (t *Token) HasLeadingNewline() bool {
	for _, p := range t.green.leading {
		if p.Kind == TriviaNewline {
			return true
		}
	}
	return false
}

// HasLeadingComments reports whether a comment is attached before the token.
func (t *Token) HasLeadingComments() bool {
	for _, p := range t.green.leading {
		if p.Kind.IsComment() {
			return true
		}
	}
	return false
}

func (t *Token) NextSiblingOrToken() Element {
	if t.index+1 >= t.parent.ChildCount() {
		return nil
	}
	return t.parent.childAt(t.index + 1)
}

func (t *Token) PrevSiblingOrToken() Element {
	if t.index == 0 {
		return nil
	}
	return t.parent.childAt(t.index - 1)
}

// NextToken returns the following token in document order.
func (t *Token) NextToken() *Token {
	parent, index := t.parent, t.index
	for parent != nil {
		for i := index + 1; i < parent.ChildCount(); i++ {
			switch el := parent.childAt(i).(type) {
			case *Token:
				return el
			case *Node:
				if first := el.FirstToken(); first != nil {
					return first
				}
			}
		}
		index, parent = parent.index, parent.parent
	}
	return nil
}

// PrevToken returns the preceding token in document order.
func (t *Token) PrevToken() *Token {
	parent, index := t.parent, t.index
	for parent != nil {
		for i := index - 1; i >= 0; i-- {
			switch el := parent.childAt(i).(type) {
			case *Token:
				return el
			case *Node:
				if last := el.LastToken(); last != nil {
					return last
				}
			}
		}
		index, parent = parent.index, parent.parent
	}
	return nil
}

// Ancestors yields the parent node and every node above it.
func (t *Token) Ancestors() iter.Seq[*Node] {
	return t.parent.Ancestors()
}

// ReplaceWith substitutes the green token and returns the new root.
func (t *Token) ReplaceWith(green *GreenToken) *Node {
	return replaceUp(t.parent, t.index, green, t.parent.lang)
}

func (t *Token) String() string {
	var b strings.Builder
	b.WriteString(KindString(t.parent.lang, t.Kind()))
	b.WriteByte('@')
	b.WriteString(t.TextRange().String())
	fmt.Fprintf(&b, " %q", t.TextTrimmed())
	return b.String()
}
