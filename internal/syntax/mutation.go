package syntax

import (
	"verdant/internal/source"
)

type mutationOp uint8

const (
	opReplace mutationOp = iota // пустой elems означает удаление
	opInsertBefore
	opInsertAfter
)

type change struct {
	op     mutationOp
	target Element
	elems  []GreenElement
}

// BatchMutation records edits against a root. Nothing is applied until Commit.
// When an element is replaced or removed, edits recorded on its descendants
// are dropped: the outermost change wins.
type BatchMutation struct {
	root    *Node
	changes []change
}

// CommitResult describes how the committed tree differs from the original text.
type CommitResult struct {
	// Range covers every changed part of the original text.
	Range source.TextRange
	// Edit turns the original text into the new one; nil when they are equal.
	Edit source.TextEdit
}

func NewBatchMutation(root *Node) *BatchMutation {
	return &BatchMutation{root: root}
}

func (m *BatchMutation) Root() *Node { return m.root }

// IsEmpty reports whether no change was recorded.
func (m *BatchMutation) IsEmpty() bool { return len(m.changes) == 0 }

// Len counts recorded changes.
func (m *BatchMutation) Len() int { return len(m.changes) }

// ReplaceNode replaces prev with next, moving the leading trivia of prev's first
// token and the trailing trivia of its last token onto next.
func (m *BatchMutation) ReplaceNode(prev *Node, next *GreenNode) {
	var el GreenElement = next
	if first := prev.green.FirstToken(); first != nil {
		el = replaceEdgeToken(el, true, func(t *GreenToken) *GreenToken {
			return t.WithLeading(first.LeadingText(), first.leading)
		})
	}
	if last := prev.green.LastToken(); last != nil {
		el = replaceEdgeToken(el, false, func(t *GreenToken) *GreenToken {
			return t.WithTrailing(last.TrailingText(), last.trailing)
		})
	}
	m.record(opReplace, prev, el)
}

// ReplaceNodeDiscardTrivia replaces prev with next as is.
func (m *BatchMutation) ReplaceNodeDiscardTrivia(prev *Node, next *GreenNode) {
	m.record(opReplace, prev, next)
}

// RemoveNode removes n together with its trivia.
func (m *BatchMutation) RemoveNode(n *Node) {
	m.record(opReplace, n)
}

// ReplaceToken replaces prev with next as is.
func (m *BatchMutation) ReplaceToken(prev *Token, next *GreenToken) {
	m.record(opReplace, prev, next)
}

// ReplaceTokenTransferTrivia replaces prev with next, keeping prev's trivia.
func (m *BatchMutation) ReplaceTokenTransferTrivia(prev *Token, next *GreenToken) {
	g := prev.green
	tok := NewGreenToken(next.kind, g.LeadingText()+next.TextTrimmed()+g.TrailingText(), g.leading, g.trailing)
	m.record(opReplace, prev, tok)
}

// RemoveToken removes t together with its trivia.
func (m *BatchMutation) RemoveToken(t *Token) {
	m.record(opReplace, t)
}

// ReplaceElement replaces prev with next, or removes it when next is nil.
func (m *BatchMutation) ReplaceElement(prev Element, next GreenElement) {
	if next == nil {
		m.record(opReplace, prev)
		return
	}
	m.record(opReplace, prev, next)
}

// InsertBefore inserts elems as siblings in front of target.
func (m *BatchMutation) InsertBefore(target Element, elems ...GreenElement) {
	if len(elems) > 0 {
		m.record(opInsertBefore, target, elems...)
	}
}

// InsertAfter inserts elems as siblings after target.
func (m *BatchMutation) InsertAfter(target Element, elems ...GreenElement) {
	if len(elems) > 0 {
		m.record(opInsertAfter, target, elems...)
	}
}

func (m *BatchMutation) record(op mutationOp, target Element, elems ...GreenElement) {
	if target == nil {
		panic("syntax: mutation target is nil")
	}
	if op != opReplace && target.Parent() == nil {
		panic("syntax: cannot insert siblings of the root")
	}
	m.changes = append(m.changes, change{op: op, target: target, elems: elems})
}

// Commit builds the new root and the text edit. Committing an empty batch returns
// the original root and a nil result.
func (m *BatchMutation) Commit() (*Node, *CommitResult) {
	if len(m.changes) == 0 {
		return m.root, nil
	}
	changes := m.effectiveChanges()

	newRoot := m.rebuild(changes)
	oldText := m.root.Text()
	newText := newRoot.Text()

	indels := make(source.TextEdit, 0, len(changes))
	primary := changes[0].originalRange()
	for _, c := range changes {
		r := c.originalRange()
		primary = primary.Cover(r)
		indels = append(indels, source.Indel{Delete: r, Insert: greenText(c.elems)})
	}
	edit := indels.Normalize(oldText)
	if edit.Apply(oldText) != newText {
		// вставки в одной точке на разных уровнях дерева могут упорядочиться иначе
		whole := source.TrimCommon(oldText, source.Indel{
			Delete: source.RangeAt(0, source.SizeOf(len(oldText))),
			Insert: newText,
		})
		edit = source.TextEdit{whole}.Normalize(oldText)
	}
	return newRoot, &CommitResult{Range: primary, Edit: edit}
}

// CommitWithTextEdit is Commit for callers that only need the edit.
func (m *BatchMutation) CommitWithTextEdit() (*Node, source.TextEdit) {
	root, res := m.Commit()
	if res == nil {
		return root, nil
	}
	return root, res.Edit
}

func (c change) originalRange() source.TextRange {
	r := c.target.TextRange()
	switch c.op {
	case opInsertBefore:
		return source.EmptyAt(r.Start)
	case opInsertAfter:
		return source.EmptyAt(r.End)
	}
	return r
}

type elementKey struct {
	node  NodeKey
	token TokenKey
}

func keyOf(el Element) elementKey {
	switch el := el.(type) {
	case *Node:
		return elementKey{node: el.Key()}
	case *Token:
		return elementKey{token: el.Key()}
	}
	return elementKey{}
}

// effectiveChanges drops changes under a replaced element and collapses repeated
// replacements of one element into the last one.
func (m *BatchMutation) effectiveChanges() []change {
	replaced := make(map[NodeKey]bool)
	lastReplace := make(map[elementKey]int)
	for i, c := range m.changes {
		if c.op != opReplace {
			continue
		}
		lastReplace[keyOf(c.target)] = i
		if n, ok := c.target.(*Node); ok {
			replaced[n.Key()] = true
		}
	}

	out := make([]change, 0, len(m.changes))
	for i, c := range m.changes {
		if c.op == opReplace && lastReplace[keyOf(c.target)] != i {
			continue
		}
		covered := false
		for p := c.target.Parent(); p != nil; p = p.parent {
			if replaced[p.Key()] {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, c)
		}
	}
	return out
}

type childEdits struct {
	before   []GreenElement
	replaced bool
	with     []GreenElement
	after    []GreenElement
}

func (m *BatchMutation) rebuild(changes []change) *Node {
	edits := make(map[NodeKey]map[int]*childEdits)
	dirty := make(map[NodeKey]bool)

	for _, c := range changes {
		parent := c.target.Parent()
		if parent == nil {
			// замена корня целиком
			if len(c.elems) != 1 {
				panic("syntax: the root must be replaced by exactly one node")
			}
			g, ok := c.elems[0].(*GreenNode)
			if !ok {
				panic("syntax: the root must be replaced by a node")
			}
			return NewRoot(m.root.lang, g)
		}
		byIndex := edits[parent.Key()]
		if byIndex == nil {
			byIndex = make(map[int]*childEdits)
			edits[parent.Key()] = byIndex
		}
		ce := byIndex[c.target.Index()]
		if ce == nil {
			ce = &childEdits{}
			byIndex[c.target.Index()] = ce
		}
		switch c.op {
		case opReplace:
			ce.replaced, ce.with = true, c.elems
		case opInsertBefore:
			ce.before = append(ce.before, c.elems...)
		case opInsertAfter:
			ce.after = append(ce.after, c.elems...)
		}
		for p := parent; p != nil; p = p.parent {
			dirty[p.Key()] = true
		}
	}

	var build func(n *Node) *GreenNode
	build = func(n *Node) *GreenNode {
		if !dirty[n.Key()] {
			return n.green
		}
		byIndex := edits[n.Key()]
		elems := make([]GreenElement, 0, n.ChildCount())
		for i := range n.green.children {
			ce := byIndex[i]
			if ce != nil {
				elems = append(elems, ce.before...)
			}
			switch {
			case ce != nil && ce.replaced:
				elems = append(elems, ce.with...)
			default:
				if child, ok := n.childAt(i).(*Node); ok {
					elems = append(elems, build(child))
				} else {
					elems = append(elems, n.green.children[i].Element)
				}
			}
			if ce != nil {
				elems = append(elems, ce.after...)
			}
		}
		return NewGreenNode(n.green.kind, elems)
	}
	return NewRoot(m.root.lang, build(m.root))
}
