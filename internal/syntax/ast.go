package syntax

import (
	"errors"
	"fmt"
)

// AstNode is implemented by every typed view over a Node.
type AstNode interface {
	Syntax() *Node
}

// ErrMissingRequiredChild is matched by every *MissingChildError.
var ErrMissingRequiredChild = errors.New("missing required child")

// MissingChildError is returned by typed accessors when a mandatory child is
// absent, which only happens in trees produced by error recovery.
type MissingChildError struct {
	Parent Kind
	Child  string
	Range  string
}

func (e *MissingChildError) Error() string {
	return fmt.Sprintf("node Kind(%d)@%s has no %s", uint16(e.Parent), e.Range, e.Child)
}

func (e *MissingChildError) Is(target error) bool {
	return target == ErrMissingRequiredChild
}

// Missing builds the error for a missing child of n.
func Missing(n *Node, child string) error {
	return &MissingChildError{Parent: n.Kind(), Child: child, Range: n.TextRange().String()}
}

// RequiredNode returns the first child accepted by pred or a missing-child error.
func RequiredNode(n *Node, child string, pred func(Kind) bool) (*Node, error) {
	if c := n.FindChild(pred); c != nil {
		return c, nil
	}
	return nil, Missing(n, child)
}

// RequiredToken returns the first child token of kind or a missing-child error.
func RequiredToken(n *Node, child string, kind Kind) (*Token, error) {
	if t := n.FindToken(kind); t != nil {
		return t, nil
	}
	return nil, Missing(n, child)
}

// FindTokenOf returns the first child token whose kind is accepted by pred.
func FindTokenOf(n *Node, pred func(Kind) bool) *Token {
	for i, c := range n.green.children {
		if t, ok := c.Element.(*GreenToken); ok && pred(t.kind) {
			return n.childAt(i).(*Token)
		}
	}
	return nil
}

// ChildrenOf returns the child nodes accepted by pred.
func ChildrenOf(n *Node, pred func(Kind) bool) []*Node {
	var out []*Node
	for _, c := range n.Children() {
		if pred(c.Kind()) {
			out = append(out, c)
		}
	}
	return out
}

// KindIs builds a predicate accepting exactly the listed kinds.
func KindIs(kinds ...Kind) func(Kind) bool {
	return func(k Kind) bool {
		for _, want := range kinds {
			if k == want {
				return true
			}
		}
		return false
	}
}

// AncestorOf returns the closest strict ancestor of n accepted by pred.
func AncestorOf(n *Node, pred func(Kind) bool) *Node {
	for p := n.parent; p != nil; p = p.parent {
		if pred(p.Kind()) {
			return p
		}
	}
	return nil
}
