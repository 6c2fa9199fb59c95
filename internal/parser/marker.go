package parser

import (
	"verdant/internal/source"
	"verdant/internal/syntax"
)

// Marker is an open node: a Start event whose kind is filled in by Complete.
type Marker struct {
	pos   int
	start source.TextSize
}

// Start offset of the node (the token that was current when it was opened).
func (m Marker) Start() source.TextSize { return m.start }

// Complete closes the node as kind.
func (m Marker) Complete(p Stream, kind syntax.Kind) CompletedMarker {
	c := p.base()
	c.events[m.pos].NodeKind = kind
	finish := c.push(Event{Kind: EventFinish})
	end := m.start
	if c.consumed && c.lastEnd > m.start {
		end = c.lastEnd
	}
	return CompletedMarker{startPos: m.pos, finishPos: finish, kind: kind, rng: source.TextRange{Start: m.start, End: end}}
}

// Abandon drops the node; its children become children of the enclosing node.
func (m Marker) Abandon(p Stream) {
	c := p.base()
	if m.pos == len(c.events)-1 {
		if ev := c.events[m.pos]; ev.Kind == EventStart && ev.NodeKind == syntax.Tombstone && ev.ForwardParent == 0 {
			c.events = c.events[:m.pos]
		}
	}
}

// CompletedMarker is a finished node that can still be wrapped or re-kinded.
type CompletedMarker struct {
	startPos  int
	finishPos int
	kind      syntax.Kind
	rng       source.TextRange
}

func (m CompletedMarker) Kind() syntax.Kind { return m.kind }

// Range is the trimmed range of the node; empty when it holds no tokens.
func (m CompletedMarker) Range() source.TextRange { return m.rng }

// Precede opens a new marker that, once completed, wraps this node.
func (m CompletedMarker) Precede(p Stream) Marker {
	c := p.base()
	pos := c.push(tombstone())
	c.events[m.startPos].ForwardParent = pos - m.startPos
	return Marker{pos: pos, start: m.rng.Start}
}

// ChangeKind rewrites the node kind.
func (m *CompletedMarker) ChangeKind(p Stream, kind syntax.Kind) {
	p.base().events[m.startPos].NodeKind = kind
	m.kind = kind
}

// ChangeToBogus turns the node into the bogus kind the language maps it to.
func (m *CompletedMarker) ChangeToBogus(p Stream) {
	m.ChangeKind(p, p.Language().ToBogus(m.kind))
}

// UndoCompletion reopens the node.
func (m CompletedMarker) UndoCompletion(p Stream) Marker {
	c := p.base()
	c.events[m.startPos].NodeKind = syntax.Tombstone
	c.events[m.startPos].ForwardParent = 0
	c.events[m.finishPos] = tombstone()
	return Marker{pos: m.startPos, start: m.rng.Start}
}
