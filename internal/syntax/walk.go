package syntax

import "iter"

// WalkKind tells whether a walk event enters or leaves an element.
type WalkKind uint8

const (
	WalkEnter WalkKind = iota
	WalkLeave
)

func (k WalkKind) String() string {
	if k == WalkEnter {
		return "Enter"
	}
	return "Leave"
}

// WalkEvent is emitted by Preorder for every node.
type WalkEvent struct {
	Kind WalkKind
	Node *Node
}

// Preorder yields Enter and Leave events for every node of the subtree,
// depth first and left to right.
func (n *Node) Preorder() iter.Seq[WalkEvent] {
	return func(yield func(WalkEvent) bool) {
		n.preorder(yield)
	}
}

func (n *Node) preorder(yield func(WalkEvent) bool) bool {
	if !yield(WalkEvent{Kind: WalkEnter, Node: n}) {
		return false
	}
	for i, c := range n.green.children {
		if _, ok := c.Element.(*GreenNode); !ok {
			continue
		}
		if !n.childAt(i).(*Node).preorder(yield) {
			return false
		}
	}
	return yield(WalkEvent{Kind: WalkLeave, Node: n})
}

// ElementEvent is emitted by PreorderWithTokens. Tokens only get an Enter event.
type ElementEvent struct {
	Kind    WalkKind
	Element Element
}

func (n *Node) PreorderWithTokens() iter.Seq[ElementEvent] {
	return func(yield func(ElementEvent) bool) {
		n.preorderWithTokens(yield)
	}
}

func (n *Node) preorderWithTokens(yield func(ElementEvent) bool) bool {
	if !yield(ElementEvent{Kind: WalkEnter, Element: n}) {
		return false
	}
	for i := range n.green.children {
		switch el := n.childAt(i).(type) {
		case *Node:
			if !el.preorderWithTokens(yield) {
				return false
			}
		case *Token:
			if !yield(ElementEvent{Kind: WalkEnter, Element: el}) {
				return false
			}
		}
	}
	return yield(ElementEvent{Kind: WalkLeave, Element: n})
}
