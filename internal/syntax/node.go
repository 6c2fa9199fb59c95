package syntax

import (
	"iter"
	"strings"

	"verdant/internal/source"
)

// Node is a red handle on a green node: it knows its parent and absolute offset.
// Handles are created while navigating; compare them with Key, not by pointer.
type Node struct {
	green  *GreenNode
	parent *Node
	index  int
	offset source.TextSize
	lang   Language
}

// NodeKey identifies a node position within one tree.
type NodeKey struct {
	green  *GreenNode
	offset source.TextSize
}

// NewRoot wraps a green root into a red tree.
func NewRoot(lang Language, green *GreenNode) *Node {
	return &Node{green: green, lang: lang}
}

func (n *Node) Kind() Kind { return n.green.kind }
func (n *Node) Green() *GreenNode { return n.green }
func (n *Node) Parent() *Node { return n.parent }
func (n *Node) Language() Language { return n.lang }
func (n *Node) Key() NodeKey { return NodeKey{green: n.green, offset: n.offset} }
func (n *Node) Index() int { return n.index }
func (n *Node) isElement() {}

// Is reports whether both handles point at the same position of the same tree.
func (n *Node) Is(other *Node) bool {
	return other != nil && n.green == other.green && n.offset == other.offset && n.Root().green == other.Root().green
}

// TextRange includes the leading trivia of the first token and the trailing
// trivia of the last one.
func (n *Node) TextRange() source.TextRange {
	return source.RangeAt(n.offset, n.green.textLen)
}

// TextTrimmedRange excludes the outer trivia.
func (n *Node) TextTrimmedRange() source.TextRange {
	first, last := n.FirstToken(), n.LastToken()
	if first == nil {
		return source.EmptyAt(n.offset)
	}
	return source.TextRange{Start: first.TextTrimmedRange().Start, End: last.TextTrimmedRange().End}
}

// Text returns the full text of the subtree.
func (n *Node) Text() string { return n.green.Text() }

// TextTrimmed returns the text without the outer trivia.
func (n *Node) TextTrimmed() string {
	r := n.TextTrimmedRange().Sub(n.offset)
	return r.Slice(n.Text())
}

// Root walks up to the tree root.
func (n *Node) Root() *Node {
	for n.parent != nil {
		n = n.parent
	}
	return n
}

func (n *Node) childAt(i int) Element {
	c := n.green.children[i]
	off := n.offset + c.RelOffset
	switch el := c.Element.(type) {
	case *GreenNode:
		return &Node{green: el, parent: n, index: i, offset: off, lang: n.lang}
	case *GreenToken:
		return &Token{green: el, parent: n, index: i, offset: off}
	}
	return nil
}

// ChildCount counts nodes and tokens.
func (n *Node) ChildCount() int { return len(n.green.children) }

// ChildAt returns the i-th child element.
func (n *Node) ChildAt(i int) Element { return n.childAt(i) }

// ChildrenWithTokens returns every child element in order.
func (n *Node) ChildrenWithTokens() []Element {
	out := make([]Element, len(n.green.children))
	for i := range n.green.children {
		out[i] = n.childAt(i)
	}
	return out
}

// Children returns the child nodes only.
func (n *Node) Children() []*Node {
	var out []*Node
	for i, c := range n.green.children {
		if _, ok := c.Element.(*GreenNode); ok {
			out = append(out, n.childAt(i).(*Node))
		}
	}
	return out
}

func (n *Node) FirstChild() *Node {
	for i, c := range n.green.children {
		if _, ok := c.Element.(*GreenNode); ok {
			return n.childAt(i).(*Node)
		}
	}
	return nil
}

func (n *Node) LastChild() *Node {
	for i := len(n.green.children) - 1; i >= 0; i-- {
		if _, ok := n.green.children[i].Element.(*GreenNode); ok {
			return n.childAt(i).(*Node)
		}
	}
	return nil
}

// NextSiblingOrToken returns the following element of the parent.
func (n *Node) NextSiblingOrToken() Element {
	if n.parent == nil || n.index+1 >= n.parent.ChildCount() {
		return nil
	}
	return n.parent.childAt(n.index + 1)
}

func (n *Node) PrevSiblingOrToken() Element {
	if n.parent == nil || n.index == 0 {
		return nil
	}
	return n.parent.childAt(n.index - 1)
}

func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	for i := n.index + 1; i < n.parent.ChildCount(); i++ {
		if node, ok := n.parent.childAt(i).(*Node); ok {
			return node
		}
	}
	return nil
}

func (n *Node) PrevSibling() *Node {
	if n.parent == nil {
		return nil
	}
	for i := n.index - 1; i >= 0; i-- {
		if node, ok := n.parent.childAt(i).(*Node); ok {
			return node
		}
	}
	return nil
}

// FirstToken returns the first token of the subtree, or nil for an empty node.
func (n *Node) FirstToken() *Token {
	for i := range n.green.children {
		switch el := n.childAt(i).(type) {
		case *Token:
			return el
		case *Node:
			if t := el.FirstToken(); t != nil {
				return t
			}
		}
	}
	return nil
}

func (n *Node) LastToken() *Token {
	for i := len(n.green.children) - 1; i >= 0; i-- {
		switch el := n.childAt(i).(type) {
		case *Token:
			return el
		case *Node:
			if t := el.LastToken(); t != nil {
				return t
			}
		}
	}
	return nil
}

// Ancestors yields n and then every parent up to the root.
func (n *Node) Ancestors() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for cur := n; cur != nil; cur = cur.parent {
			if !yield(cur) {
				return
			}
		}
	}
}

// Descendants yields n and every node below it in preorder.
func (n *Node) Descendants() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for ev := range n.Preorder() {
			if ev.Kind == WalkEnter && !yield(ev.Node) {
				return
			}
		}
	}
}

// DescendantTokens yields every token of the subtree in document order.
func (n *Node) DescendantTokens() iter.Seq[*Token] {
	return func(yield func(*Token) bool) {
		n.walkTokens(yield)
	}
}

func (n *Node) walkTokens(yield func(*Token) bool) bool {
	for i := range n.green.children {
		switch el := n.childAt(i).(type) {
		case *Token:
			if !yield(el) {
				return false
			}
		case *Node:
			if !el.walkTokens(yield) {
				return false
			}
		}
	}
	return true
}

// FindChild returns the first child node accepted by pred.
func (n *Node) FindChild(pred func(Kind) bool) *Node {
	for i, c := range n.green.children {
		if g, ok := c.Element.(*GreenNode); ok && pred(g.kind) {
			return n.childAt(i).(*Node)
		}
	}
	return nil
}

// FindToken returns the first direct child token of the given kind.
func (n *Node) FindToken(kind Kind) *Token {
	for i, c := range n.green.children {
		if t, ok := c.Element.(*GreenToken); ok && t.kind == kind {
			return n.childAt(i).(*Token)
		}
	}
	return nil
}

// CoveringElement returns the deepest element whose full range contains r.
func (n *Node) CoveringElement(r source.TextRange) Element {
	if !n.TextRange().ContainsRange(r) {
		return nil
	}
	var cur Element = n
	for {
		node, ok := cur.(*Node)
		if !ok {
			return cur
		}
		var next Element
		for i := range node.green.children {
			child := node.childAt(i)
			cr := child.TextRange()
			if cr.ContainsRange(r) && !(r.Empty() && cr.Empty()) {
				next = child
				break
			}
		}
		if next == nil {
			return cur
		}
		cur = next
	}
}

// TokenAtOffset returns the token whose full range contains offset. At a
// boundary between two tokens the right one wins; at the end of the text the
// last token is returned.
func (n *Node) TokenAtOffset(offset source.TextSize) *Token {
	if !n.TextRange().ContainsInclusive(offset) {
		return nil
	}
	var last *Token
	for t := range n.DescendantTokens() {
		if t.TextRange().Contains(offset) {
			return t
		}
		last = t
	}
	return last
}

// ReplaceWith substitutes the green node under n and returns the new root.
func (n *Node) ReplaceWith(green *GreenNode) *Node {
	return replaceUp(n.parent, n.index, green, n.lang)
}

func replaceUp(parent *Node, index int, el GreenElement, lang Language) *Node {
	for parent != nil {
		g := parent.green.ReplaceChild(index, el)
		el = g
		index = parent.index
		parent = parent.parent
	}
	return NewRoot(lang, el.(*GreenNode))
}

func (n *Node) String() string {
	var b strings.Builder
	b.WriteString(KindString(n.lang, n.Kind()))
	b.WriteByte('@')
	b.WriteString(n.TextRange().String())
	return b.String()
}
