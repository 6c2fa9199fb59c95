package parser

import (
	"verdant/internal/source"
	"verdant/internal/syntax"
)

// EventKind distinguishes parser events.
type EventKind uint8

const (
	// EventStart opens a node; a Tombstone kind means the marker was abandoned.
	EventStart EventKind = iota
	EventFinish
	EventToken
)

// Event is one step of the parse. Start events may carry a forward parent:
// the relative index of a later Start that must be opened before this one
// (that is how Precede wraps an already completed node).
type Event struct {
	Kind EventKind
	// NodeKind: вид узла для Start, вид токена для Token
	NodeKind      syntax.Kind
	ForwardParent int
	// End is the end offset of the token, trivia excluded.
	End source.TextSize
}

func tombstone() Event {
	return Event{Kind: EventStart, NodeKind: syntax.Tombstone}
}

// TreeSink receives the resolved event stream.
type TreeSink interface {
	StartNode(kind syntax.Kind)
	Token(kind syntax.Kind, end source.TextSize)
	FinishNode()
}

// ProcessEvents replays events into sink, resolving forward parents and
// skipping abandoned starts. events is consumed.
func ProcessEvents(events []Event, sink TreeSink) {
	var forward []syntax.Kind
	for i := range events {
		ev := events[i]
		events[i] = tombstone()
		switch ev.Kind {
		case EventStart:
			if ev.NodeKind == syntax.Tombstone && ev.ForwardParent == 0 {
				continue
			}
			forward = append(forward, ev.NodeKind)
			idx, fp := i, ev.ForwardParent
			for fp != 0 {
				idx += fp
				parent := events[idx]
				events[idx] = tombstone()
				forward = append(forward, parent.NodeKind)
				fp = parent.ForwardParent
			}
			// самый внешний родитель открывается первым
			for j := len(forward) - 1; j >= 0; j-- {
				if forward[j] != syntax.Tombstone {
					sink.StartNode(forward[j])
				}
			}
			forward = forward[:0]
		case EventFinish:
			sink.FinishNode()
		case EventToken:
			sink.Token(ev.NodeKind, ev.End)
		}
	}
}
