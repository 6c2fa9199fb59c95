package syntax

import (
	"encoding/binary"
	"strings"

	"github.com/cespare/xxhash/v2"

	"verdant/internal/source"
)

// GreenElement is either a *GreenNode or a *GreenToken.
type GreenElement interface {
	Kind() Kind
	TextLen() source.TextSize
	greenHash() uint64
	writeText(b *strings.Builder)
}

// GreenToken is an immutable token with its trivia. Text holds leading trivia,
// the token itself and trailing trivia, in that order.
type GreenToken struct {
	kind     Kind
	text     string
	leading  []TriviaPiece
	trailing []TriviaPiece
	hash     uint64
}

// GreenChild is a child element together with its offset inside the parent.
type GreenChild struct {
	RelOffset source.TextSize
	Element   GreenElement
}

// GreenNode is an immutable interior node.
type GreenNode struct {
	kind     Kind
	textLen  source.TextSize
	children []GreenChild
	hash     uint64
}

// NewGreenToken builds a token without consulting a cache. leading and trailing must
// describe a prefix and a suffix of text.
func NewGreenToken(kind Kind, text string, leading, trailing []TriviaPiece) *GreenToken {
	if piecesLen(leading)+piecesLen(trailing) > source.SizeOf(len(text)) {
		panic("syntax: trivia longer than token text")
	}
	t := &GreenToken{kind: kind, text: text, leading: leading, trailing: trailing}
	t.hash = hashToken(kind, text, leading, trailing)
	return t
}

// NewGreenNode builds a node without consulting a cache.
func NewGreenNode(kind Kind, children []GreenElement) *GreenNode {
	n := &GreenNode{kind: kind, children: make([]GreenChild, len(children))}
	for i, c := range children {
		n.children[i] = GreenChild{RelOffset: n.textLen, Element: c}
		n.textLen += c.TextLen()
	}
	n.hash = hashNode(kind, children)
	return n
}

func hashToken(kind Kind, text string, leading, trailing []TriviaPiece) uint64 {
	d := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint16(buf[:2], uint16(kind))
	_, _ = d.Write(buf[:2])
	_, _ = d.WriteString(text)
	for _, list := range [2][]TriviaPiece{leading, trailing} {
		binary.LittleEndian.PutUint32(buf[:4], uint32(len(list)))
		_, _ = d.Write(buf[:4])
		for _, p := range list {
			buf[0] = byte(p.Kind)
			binary.LittleEndian.PutUint32(buf[1:5], uint32(p.Len))
			_, _ = d.Write(buf[:5])
		}
	}
	return d.Sum64()
}

func hashNode(kind Kind, children []GreenElement) uint64 {
	d := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint16(buf[:2], uint16(kind))
	_, _ = d.Write(buf[:2])
	for _, c := range children {
		binary.LittleEndian.PutUint64(buf[:], c.greenHash())
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

func (t *GreenToken) Kind() Kind { return t.kind }
func (t *GreenToken) TextLen() source.TextSize { return source.SizeOf(len(t.text)) }
func (t *GreenToken) greenHash() uint64 { return t.hash }
func (t *GreenToken) writeText(b *strings.Builder) { b.WriteString(t.text) }

// Text returns the full text including trivia.
func (t *GreenToken) Text() string { return t.text }

// LeadingTrivia returns the leading pieces. The slice must not be modified.
func (t *GreenToken) LeadingTrivia() []TriviaPiece { return t.leading }
func (t *GreenToken) TrailingTrivia() []TriviaPiece { return t.trailing }

func (t *GreenToken) leadingLen() source.TextSize { return piecesLen(t.leading) }
func (t *GreenToken) trailingLen() source.TextSize { return piecesLen(t.trailing) }

// TextTrimmed returns the token text without trivia.
func (t *GreenToken) TextTrimmed() string {
	return t.text[t.leadingLen() : source.SizeOf(len(t.text))-t.trailingLen()]
}

// LeadingText and TrailingText return the raw trivia text.
func (t *GreenToken) LeadingText() string { return t.text[:t.leadingLen()] }
func (t *GreenToken) TrailingText() string {
	return t.text[source.SizeOf(len(t.text))-t.trailingLen():]
}

// WithLeading returns a copy of t whose leading trivia is replaced.
func (t *GreenToken) WithLeading(text string, pieces []TriviaPiece) *GreenToken {
	return NewGreenToken(t.kind, text+t.TextTrimmed()+t.TrailingText(), pieces, t.trailing)
}

// WithTrailing returns a copy of t whose trailing trivia is replaced.
func (t *GreenToken) WithTrailing(text string, pieces []TriviaPiece) *GreenToken {
	return NewGreenToken(t.kind, t.LeadingText()+t.TextTrimmed()+text, t.leading, pieces)
}

func (t *GreenToken) equal(o *GreenToken) bool {
	if t.kind != o.kind || t.text != o.text || len(t.leading) != len(o.leading) || len(t.trailing) != len(o.trailing) {
		return false
	}
	for i := range t.leading {
		if t.leading[i] != o.leading[i] {
			return false
		}
	}
	for i := range t.trailing {
		if t.trailing[i] != o.trailing[i] {
			return false
		}
	}
	return true
}

func (n *GreenNode) Kind() Kind { return n.kind }
func (n *GreenNode) TextLen() source.TextSize { return n.textLen }
func (n *GreenNode) greenHash() uint64 { return n.hash }

func (n *GreenNode) writeText(b *strings.Builder) {
	for _, c := range n.children {
		c.Element.writeText(b)
	}
}

// Children returns the children with their relative offsets. The slice must not be modified.
func (n *GreenNode) Children() []GreenChild { return n.children }

// Elements returns a fresh slice of the child elements.
func (n *GreenNode) Elements() []GreenElement {
	out := make([]GreenElement, len(n.children))
	for i, c := range n.children {
		out[i] = c.Element
	}
	return out
}

// Text concatenates the text of every token below n.
func (n *GreenNode) Text() string {
	var b strings.Builder
	b.Grow(int(n.textLen))
	n.writeText(&b)
	return b.String()
}

// ReplaceChild returns a copy of n where child i is replaced by el.
func (n *GreenNode) ReplaceChild(i int, el GreenElement) *GreenNode {
	elems := n.Elements()
	elems[i] = el
	return NewGreenNode(n.kind, elems)
}

// FirstToken and LastToken find the outermost tokens of a green subtree.
func (n *GreenNode) FirstToken() *GreenToken {
	for _, c := range n.children {
		switch el := c.Element.(type) {
		case *GreenToken:
			return el
		case *GreenNode:
			if t := el.FirstToken(); t != nil {
				return t
			}
		}
	}
	return nil
}

func (n *GreenNode) LastToken() *GreenToken {
	for i := len(n.children) - 1; i >= 0; i-- {
		switch el := n.children[i].Element.(type) {
		case *GreenToken:
			return el
		case *GreenNode:
			if t := el.LastToken(); t != nil {
				return t
			}
		}
	}
	return nil
}

// replaceEdgeToken rebuilds the path to the first (first=true) or last token of n,
// substituting the token with fn(token).
func replaceEdgeToken(el GreenElement, first bool, fn func(*GreenToken) *GreenToken) GreenElement {
	switch el := el.(type) {
	case *GreenToken:
		return fn(el)
	case *GreenNode:
		idx := make([]int, 0, len(el.children))
		for i := range el.children {
			idx = append(idx, i)
		}
		if !first {
			for l, r := 0, len(idx)-1; l < r; l, r = l+1, r-1 {
				idx[l], idx[r] = idx[r], idx[l]
			}
		}
		for _, i := range idx {
			child := el.children[i].Element
			if n, ok := child.(*GreenNode); ok && n.FirstToken() == nil {
				continue
			}
			return el.ReplaceChild(i, replaceEdgeToken(child, first, fn))
		}
	}
	return el
}
