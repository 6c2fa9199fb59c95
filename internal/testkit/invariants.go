package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"verdant/internal/diag"
	"verdant/internal/source"
	"verdant/internal/syntax"
)

// CheckTreeInvariants runs the structural invariants every parse must hold:
// 1) the tree prints back to exactly the input text
// 2) the root spans the whole input
// 3) children of every node are contiguous and tile the parent range
// 4) trimmed ranges lie inside full ranges
// 5) every diagnostic range lies inside the input
func CheckTreeInvariants(root *syntax.Node, text string, diags []diag.Diagnostic) error {
	if root == nil {
		return fmt.Errorf("nil root")
	}
	if got := root.Text(); got != text {
		return fmt.Errorf("tree is not lossless: got %q, want %q", got, text)
	}
	textLen, err := safecast.Conv[source.TextSize](len(text))
	if err != nil {
		return fmt.Errorf("len text overflow: %w", err)
	}
	if r := root.TextRange(); r.Start != 0 || r.End != textLen {
		return fmt.Errorf("root range %v does not cover text of length %d", r, textLen)
	}

	for ev := range root.PreorderWithTokens() {
		if ev.Kind != syntax.WalkEnter {
			continue
		}
		if err := checkTrimmed(ev.Element); err != nil {
			return err
		}
		n, ok := syntax.AsNode(ev.Element)
		if !ok {
			continue
		}
		if err := checkChildren(n); err != nil {
			return err
		}
	}

	for _, d := range diags {
		r := d.Range()
		if r.Start > r.End || r.End > textLen {
			return fmt.Errorf("diagnostic %q has range %v outside text of length %d", d.Message.String(), r, textLen)
		}
	}
	return nil
}

func checkTrimmed(el syntax.Element) error {
	full, trimmed := el.TextRange(), el.TextTrimmedRange()
	if !full.ContainsRange(trimmed) {
		return fmt.Errorf("%v: trimmed range %v is outside %v", el.Kind(), trimmed, full)
	}
	return nil
}

func checkChildren(n *syntax.Node) error {
	r := n.TextRange()
	pos := r.Start
	for _, child := range n.ChildrenWithTokens() {
		if child == nil {
			continue
		}
		cr := child.TextRange()
		if cr.Start != pos {
			return fmt.Errorf("%v: child %v starts at %d, expected %d", n.Kind(), child.Kind(), cr.Start, pos)
		}
		if child.Parent() == nil || !child.Parent().Is(n) {
			return fmt.Errorf("%v: child %v has wrong parent", n.Kind(), child.Kind())
		}
		pos = cr.End
	}
	// пустые узлы (отсутствующие ветки) имеют нулевую длину
	if pos != r.End {
		return fmt.Errorf("%v: children end at %d, node ends at %d", n.Kind(), pos, r.End)
	}
	return nil
}
