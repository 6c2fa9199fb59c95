package analyzer

import (
	"cmp"
	"fmt"
	"reflect"
	"runtime/debug"
	"slices"
	"strconv"

	"verdant/internal/diag"
	"verdant/internal/syntax"
	"verdant/internal/trace"
)

// State is the lifecycle of an Engine.
type State uint8

const (
	StateUninitialized State = iota
	StateRegistered
	StateRunning
	StateDraining
	StateComplete
	StateHalted
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRegistered:
		return "registered"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateComplete:
		return "complete"
	case StateHalted:
		return "halted"
	}
	return "unknown"
}

// Stats counts what one run did.
type Stats struct {
	Rules      int
	Visitors   int
	Matches    int
	Signals    int
	Suppressed int
}

// Params are the inputs of one run.
type Params struct {
	Root    *syntax.Node
	Filter  AnalysisFilter
	Options *AnalyzerOptions
	// Suppressions parses comments; nil disables suppression comments.
	Suppressions SuppressionParser
	// Services seeds the service bag before the first phase.
	Services func(*ServiceBag)
}

type routeKey struct {
	phase Phase
	typ   reflect.Type
}

type routeEntry struct {
	rule  int
	kinds map[syntax.Kind]bool // nil accepts every node kind
}

type queuedMatch struct {
	match   QueryMatch
	visitor int
	seq     int
}

// Engine analyzes one root. It is single-use and not safe for concurrent use;
// run one engine per file.
type Engine[B any] struct {
	root     *syntax.Node
	filter   AnalysisFilter
	options  *AnalyzerOptions
	services *ServiceBag
	visitors *VisitorRegistry
	rules    []boundRule
	phases   []Phase // фаза каждого правила из rules
	routes   map[routeKey][]routeEntry
	queue    []queuedMatch
	seq      int

	suppressions *suppressionSet
	serviceErrs  map[RuleKey]bool
	errs         []error

	state   State
	phase   Phase
	started bool
	stats   Stats
	tracer  trace.Tracer
	span    uint64
}

// New filters rules, decodes their options, installs their visitors and scans
// suppression comments. Options errors are kept and returned by Run.
func New[B any](rules *RuleSet, p Params) *Engine[B] {
	opts := p.Options
	if opts == nil {
		opts = &AnalyzerOptions{}
	}
	e := &Engine[B]{
		root:        p.Root,
		filter:      p.Filter,
		options:     opts,
		services:    NewServiceBag(),
		visitors:    newVisitorRegistry(),
		routes:      make(map[routeKey][]routeEntry),
		serviceErrs: make(map[RuleKey]bool),
		tracer:      opts.Tracer,
		span:        opts.TraceParent,
	}
	if e.tracer == nil {
		e.tracer = trace.Nop
	}
	sp := trace.Begin(e.tracer, trace.ScopePhase, "analyze:register", e.span)

	for _, entry := range rules.entries {
		meta := entry.metadata()
		if !p.Filter.Allows(meta) {
			continue
		}
		b, err := entry.bind(opts.ruleOptions(meta.Key()))
		if err != nil {
			e.errs = append(e.errs, err)
			continue
		}
		idx := len(e.rules)
		e.rules = append(e.rules, b)
		q := entry.queryable()
		q.BuildVisitors(e.visitors, p.Root)
		rt := q.Route()
		e.phases = append(e.phases, rt.Phase)
		key := routeKey{phase: rt.Phase, typ: rt.Type}
		e.routes[key] = append(e.routes[key], routeEntry{rule: idx, kinds: kindSet(rt.Kinds)})
	}
	if p.Services != nil {
		p.Services(e.services)
	}
	e.suppressions = scanSuppressions(p.Root, p.Suppressions, rules.knows)

	e.stats.Rules = len(e.rules)
	for ph := PhaseSyntax; ph < phaseCount; ph++ {
		e.stats.Visitors += e.visitors.Len(ph)
	}
	e.state = StateRegistered
	sp.WithExtra("rules", strconv.Itoa(e.stats.Rules)).End("")
	return e
}

func kindSet(kinds []syntax.Kind) map[syntax.Kind]bool {
	if len(kinds) == 0 {
		return nil
	}
	set := make(map[syntax.Kind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return set
}

// Services exposes the bag so hosts can insert services before Run.
func (e *Engine[B]) Services() *ServiceBag { return e.services }

// State returns the lifecycle state and the current phase.
func (e *Engine[B]) State() (State, Phase) { return e.state, e.phase }

func (e *Engine[B]) Stats() Stats { return e.stats }

// Run executes every phase and delivers signals to sink. It returns the
// sink's Break value, if any, and the engine errors collected on the way.
func (e *Engine[B]) Run(sink Sink[B]) (*B, []error) {
	if e.state != StateRegistered || e.started {
		return nil, append(e.errs, fmt.Errorf("analyzer: Run called in state %s", e.state))
	}
	e.started = true
	for phase := PhaseSyntax; phase < phaseCount; phase++ {
		if brk, halted := e.runPhase(phase, sink); halted {
			return brk, e.errs
		}
		if brk, halted := e.flushSuppressions(phase, sink); halted {
			return brk, e.errs
		}
	}
	e.state = StateComplete
	return nil, e.errs
}

// Analyze builds an engine and runs it.
func Analyze[B any](rules *RuleSet, p Params, sink Sink[B]) (*B, []error) {
	return New[B](rules, p).Run(sink)
}

func (e *Engine[B]) runPhase(phase Phase, sink Sink[B]) (*B, bool) {
	e.phase = phase
	visitors := e.visitors.build(phase)
	if len(visitors) == 0 {
		return nil, false
	}

	e.state = StateRunning
	sp := trace.Begin(e.tracer, trace.ScopePhase, "analyze:"+phase.String(), e.span)
	ctxs := make([]VisitorContext, len(visitors))
	for i := range visitors {
		ctxs[i] = VisitorContext{
			Root:     e.root,
			Phase:    phase,
			Services: e.services,
			Options:  e.options,
			engine:   e,
			visitor:  i,
		}
	}
	for ev := range e.root.Preorder() {
		for i, v := range visitors {
			v.Visit(ev, &ctxs[i])
		}
	}
	for i, v := range visitors {
		if f, ok := v.(Finisher); ok {
			f.Finish(&ctxs[i])
		}
	}
	sp.WithExtra("matches", strconv.Itoa(len(e.queue))).End("")

	e.state = StateDraining
	drain := trace.Begin(e.tracer, trace.ScopePhase, "drain:"+phase.String(), e.span)
	brk, halted := e.drain(phase, drain.ID(), sink)
	drain.WithExtra("signals", strconv.Itoa(e.stats.Signals)).End("")
	if halted {
		e.state = StateHalted
		return brk, true
	}
	e.state = StateRegistered
	return nil, false
}

func (e *Engine[B]) enqueue(_ Phase, visitor int, m QueryMatch) {
	e.queue = append(e.queue, queuedMatch{match: m, visitor: visitor, seq: e.seq})
	e.seq++
}

// drain hands queued matches to rules in document order. Ties keep visitor
// registration order, then publication order.
func (e *Engine[B]) drain(phase Phase, span uint64, sink Sink[B]) (*B, bool) {
	queue := e.queue
	e.queue = nil
	slices.SortStableFunc(queue, func(a, b queuedMatch) int {
		if c := cmp.Compare(a.match.TextRange().Start, b.match.TextRange().Start); c != 0 {
			return c
		}
		if c := cmp.Compare(a.visitor, b.visitor); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})

	inv := &invocation{root: e.root, services: e.services, options: e.options, actions: e.filter.Actions}
	for _, qm := range queue {
		if !e.filter.inRange(qm.match.TextRange()) {
			continue
		}
		e.stats.Matches++
		for _, idx := range e.route(phase, qm.match) {
			signals, err := e.invoke(e.rules[idx], inv, qm.match, span)
			if err != nil {
				e.recordError(err)
			}
			for _, sig := range signals {
				if e.suppressions.suppress(sig) {
					e.stats.Suppressed++
					continue
				}
				e.stats.Signals++
				if cf := sink(sig); cf.IsBreak() {
					v := cf.Value()
					return &v, true
				}
			}
		}
	}
	return nil, false
}

func (e *Engine[B]) route(phase Phase, m QueryMatch) []int {
	entries := e.routes[routeKey{phase: phase, typ: reflect.TypeOf(m)}]
	if len(entries) == 0 {
		return nil
	}
	var kind syntax.Kind
	n, isNode := m.(*syntax.Node)
	if isNode {
		kind = n.Kind()
	}
	out := make([]int, 0, len(entries))
	for _, r := range entries {
		if isNode && r.kinds != nil && !r.kinds[kind] {
			continue
		}
		out = append(out, r.rule)
	}
	return out
}

// invoke runs one rule on one match. With the panic barrier on, a panic
// becomes a RulePanicError and an internal diagnostic at the match.
func (e *Engine[B]) invoke(r boundRule, inv *invocation, m QueryMatch, parent uint64) (signals []*Signal, err error) {
	meta := r.metadata()
	sp := trace.Begin(e.tracer, trace.ScopeRule, "rule:"+meta.Key().String(), parent)
	defer sp.End("")
	if e.options.PanicBarrier {
		defer func() {
			if v := recover(); v != nil {
				perr := &RulePanicError{Rule: meta.Key(), Value: v, Stack: debug.Stack()}
				d := diag.New(diag.CategoryInternalPanic, diag.SevError, m.TextRange(),
					diag.Markup(diag.Text("rule "), diag.Code(meta.Key().String()), diag.Text(" panicked")))
				d = d.WithNote(diag.Msgf("%v", v)).
					WithTags(diag.TagInternal).
					WithFooter(diag.Msgf("this is a bug in verdant, not in the analyzed file"))
				if e.options.FilePath != "" {
					d = d.WithFilePath(e.options.FilePath)
				}
				signals = []*Signal{{Rule: meta.Key(), Category: diag.CategoryInternalPanic, Range: m.TextRange(), Diagnostic: &d}}
				err = perr
			}
		}()
	}
	return r.invoke(inv, m)
}

func (e *Engine[B]) recordError(err error) {
	if se, ok := err.(*ServiceError); ok {
		// один раз на правило, а не на каждое совпадение
		if e.serviceErrs[se.Rule] {
			return
		}
		e.serviceErrs[se.Rule] = true
	}
	e.errs = append(e.errs, err)
}

// flushSuppressions delivers the suppression diagnostics due at the end of
// phase: malformed directives after the first phase and suppressions that no
// later phase can use.
func (e *Engine[B]) flushSuppressions(phase Phase, sink Sink[B]) (*B, bool) {
	var diags []diag.Diagnostic
	if phase == PhaseSyntax {
		diags = slices.Clone(e.suppressions.diags)
	}
	diags = append(diags, e.suppressions.unused(e.settledAfter(phase))...)
	slices.SortStableFunc(diags, diag.Compare)
	for i := range diags {
		d := diags[i]
		if !e.filter.inRange(d.Range()) {
			continue
		}
		if e.options.FilePath != "" {
			d = d.WithFilePath(e.options.FilePath)
		}
		e.stats.Signals++
		sig := &Signal{Category: d.Category, Range: d.Range(), Diagnostic: &d}
		if cf := sink(sig); cf.IsBreak() {
			v := cf.Value()
			e.state = StateHalted
			return &v, true
		}
	}
	return nil, false
}

// settledAfter reports whether a suppressed category can no longer be used
// once phase is over: it covers an enabled rule and none of those rules runs
// in a later phase. Suppressions of rules that did not run are not unused.
func (e *Engine[B]) settledAfter(phase Phase) func(diag.Category) bool {
	return func(c diag.Category) bool {
		covers := false
		for i, r := range e.rules {
			if !c.Covers(r.metadata().DiagnosticCategory()) {
				continue
			}
			if e.phases[i] > phase {
				return false
			}
			covers = true
		}
		return covers
	}
}
