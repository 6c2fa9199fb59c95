package analyzer

import (
	"verdant/internal/syntax"
)

// Phase orders the traversals of one run.
type Phase uint8

const (
	PhaseSyntax Phase = iota
	PhaseSemantic

	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseSyntax:
		return "syntax"
	case PhaseSemantic:
		return "semantic"
	}
	return "unknown"
}

// Visitor observes every Enter and Leave event of one phase traversal.
type Visitor interface {
	Visit(ev syntax.WalkEvent, ctx *VisitorContext)
}

// Finisher is implemented by visitors that need a hook after the traversal,
// e.g. to insert the service they built.
type Finisher interface {
	Finish(ctx *VisitorContext)
}

// VisitorContext is what a visitor sees during a traversal.
type VisitorContext struct {
	Root     *syntax.Node
	Phase    Phase
	Services *ServiceBag
	Options  *AnalyzerOptions

	engine  queueSink
	visitor int
}

type queueSink interface {
	enqueue(phase Phase, visitor int, m QueryMatch)
}

// MatchQuery publishes m for routing once the traversal is over.
func (c *VisitorContext) MatchQuery(m QueryMatch) {
	c.engine.enqueue(c.Phase, c.visitor, m)
}

type visitorEntry struct {
	key   any
	build func() Visitor
}

// VisitorRegistry collects the visitors of every enabled rule, per phase and in
// registration order. Registering a key twice is a no-op.
type VisitorRegistry struct {
	phases [phaseCount][]visitorEntry
	keys   map[any]bool
	nodes  [phaseCount]*nodeKinds
}

func newVisitorRegistry() *VisitorRegistry {
	return &VisitorRegistry{keys: make(map[any]bool)}
}

// Add registers build under key for phase.
func (r *VisitorRegistry) Add(phase Phase, key any, build func() Visitor) {
	if r.keys[key] {
		return
	}
	r.keys[key] = true
	r.phases[phase] = append(r.phases[phase], visitorEntry{key: key, build: build})
}

// WantNodes asks for the node visitor of phase to publish nodes of kinds. No
// kinds means every node.
func (r *VisitorRegistry) WantNodes(phase Phase, kinds ...syntax.Kind) {
	set := r.nodes[phase]
	if set == nil {
		set = &nodeKinds{kinds: make(map[syntax.Kind]bool)}
		r.nodes[phase] = set
		r.Add(phase, nodeVisitorKey{phase}, func() Visitor { return &nodeVisitor{set: set} })
	}
	if len(kinds) == 0 {
		set.all = true
	}
	for _, k := range kinds {
		set.kinds[k] = true
	}
}

// Len returns the number of visitors registered for phase.
func (r *VisitorRegistry) Len(phase Phase) int { return len(r.phases[phase]) }

func (r *VisitorRegistry) build(phase Phase) []Visitor {
	out := make([]Visitor, len(r.phases[phase]))
	for i, e := range r.phases[phase] {
		out[i] = e.build()
	}
	return out
}

type nodeVisitorKey struct{ phase Phase }

type nodeKinds struct {
	all   bool
	kinds map[syntax.Kind]bool
}

// nodeVisitor publishes every wanted node on Enter.
type nodeVisitor struct {
	set *nodeKinds
}

func (v *nodeVisitor) Visit(ev syntax.WalkEvent, ctx *VisitorContext) {
	if ev.Kind != syntax.WalkEnter {
		return
	}
	if v.set.all || v.set.kinds[ev.Node.Kind()] {
		ctx.MatchQuery(ev.Node)
	}
}
