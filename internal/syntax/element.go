package syntax

import "verdant/internal/source"

// Element is either a *Node or a *Token.
type Element interface {
	Kind() Kind
	TextRange() source.TextRange
	TextTrimmedRange() source.TextRange
	Parent() *Node
	Index() int
	isElement()
}

// AsNode and AsToken are small helpers for type switches over Element.
func AsNode(el Element) (*Node, bool) {
	n, ok := el.(*Node)
	return n, ok
}

func AsToken(el Element) (*Token, bool) {
	t, ok := el.(*Token)
	return t, ok
}

// GreenOf returns the green element behind a red one.
func GreenOf(el Element) GreenElement {
	switch el := el.(type) {
	case *Node:
		return el.green
	case *Token:
		return el.green
	}
	return nil
}

// SameElement compares two red handles by position.
func SameElement(a, b Element) bool {
	switch a := a.(type) {
	case *Node:
		b, ok := b.(*Node)
		return ok && a.Is(b)
	case *Token:
		b, ok := b.(*Token)
		return ok && a.Is(b)
	}
	return false
}
