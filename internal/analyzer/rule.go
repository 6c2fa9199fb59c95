package analyzer

import (
	"errors"

	"verdant/internal/diag"
	"verdant/internal/syntax"
)

// Rule is a compiled-in lint rule. Q is the query output, S the per-hit state
// and O the options type.
type Rule[Q, S, O any] interface {
	Metadata() RuleMetadata
	Query() Query[Q]
	// Run inspects ctx.Query() and returns one state per hit.
	Run(ctx *RuleContext[Q, O]) []S
	// Diagnostic returns nil to drop the state.
	Diagnostic(ctx *RuleContext[Q, O], state S) *RuleDiagnostic
}

// ActionRule is a Rule that can offer fixes. Action is only called when the
// filter's ActionFilter allows the rule's FixKind.
type ActionRule[Q, S, O any] interface {
	Rule[Q, S, O]
	Action(ctx *RuleContext[Q, O], state S) []RuleAction
}

// OptionsDefaulter lets a rule provide non-zero defaults that configured
// options are decoded onto.
type OptionsDefaulter[O any] interface {
	DefaultOptions() O
}

// RuleContext is the view a rule gets of one match.
type RuleContext[Q, O any] struct {
	query    Q
	root     *syntax.Node
	services *ServiceBag
	options  O
	analyzer *AnalyzerOptions
	meta     RuleMetadata
}

func (c *RuleContext[Q, O]) Query() Q { return c.query }
func (c *RuleContext[Q, O]) Root() *syntax.Node { return c.root }
func (c *RuleContext[Q, O]) Services() *ServiceBag { return c.services }
func (c *RuleContext[Q, O]) Options() O { return c.options }
func (c *RuleContext[Q, O]) Metadata() RuleMetadata { return c.meta }
func (c *RuleContext[Q, O]) FilePath() string { return c.analyzer.FilePath }
func (c *RuleContext[Q, O]) Globals() []string { return c.analyzer.Globals }
func (c *RuleContext[Q, O]) PreferredQuote() QuoteStyle { return c.analyzer.PreferredQuote }
func (c *RuleContext[Q, O]) JsxRuntime() JsxRuntime { return c.analyzer.JsxRuntime }
func (c *RuleContext[Q, O]) NewMutation() *syntax.BatchMutation {
	return syntax.NewBatchMutation(c.root)
}

// Action wraps a mutation as a quick fix whose applicability follows the
// rule's FixKind.
func (c *RuleContext[Q, O]) Action(msg diag.Message, m *syntax.BatchMutation) RuleAction {
	app := ApplicabilityMaybeIncorrect
	if c.meta.FixKind == FixSafe {
		app = ApplicabilityAlways
	}
	return RuleAction{Kind: ActionQuickFix, Applicability: app, Message: msg, Mutation: m}
}

// ruleEntry is a registered rule with its type parameters erased.
type ruleEntry interface {
	metadata() RuleMetadata
	queryable() Queryable
	bind(raw RuleOptions) (boundRule, error)
}

// boundRule is a rule with decoded options, ready to run on matches.
type boundRule interface {
	metadata() RuleMetadata
	invoke(inv *invocation, m QueryMatch) ([]*Signal, error)
}

type invocation struct {
	root     *syntax.Node
	services *ServiceBag
	options  *AnalyzerOptions
	actions  ActionFilter
}

type registered[Q, S, O any] struct {
	rule Rule[Q, S, O]
	meta RuleMetadata
}

func (r *registered[Q, S, O]) metadata() RuleMetadata { return r.meta }
func (r *registered[Q, S, O]) queryable() Queryable { return r.rule.Query() }

func (r *registered[Q, S, O]) bind(raw RuleOptions) (boundRule, error) {
	var def O
	if d, ok := r.rule.(OptionsDefaulter[O]); ok {
		def = d.DefaultOptions()
	}
	opts, err := DecodeOptions(raw.Options, def)
	if err != nil {
		return nil, &OptionsError{Rule: r.meta.Key(), Err: err}
	}
	meta := r.meta
	if raw.Severity != nil {
		meta.Severity = *raw.Severity
	}
	return &bound[Q, S, O]{rule: r.rule, query: r.rule.Query(), meta: meta, options: opts}, nil
}

type bound[Q, S, O any] struct {
	rule    Rule[Q, S, O]
	query   Query[Q]
	meta    RuleMetadata
	options O
}

func (b *bound[Q, S, O]) metadata() RuleMetadata { return b.meta }

func (b *bound[Q, S, O]) invoke(inv *invocation, m QueryMatch) ([]*Signal, error) {
	q, err := b.query.Unwrap(inv.services, m)
	if err != nil {
		var se *ServiceError
		if errors.As(err, &se) {
			return nil, &ServiceError{Rule: b.meta.Key(), Service: se.Service}
		}
		// узел не того вида после восстановления: просто нет совпадения
		return nil, nil
	}
	ctx := &RuleContext[Q, O]{
		query:    q,
		root:     inv.root,
		services: inv.services,
		options:  b.options,
		analyzer: inv.options,
		meta:     b.meta,
	}
	states := b.rule.Run(ctx)
	if len(states) == 0 {
		return nil, nil
	}

	actionRule, hasActions := b.rule.(ActionRule[Q, S, O])
	wantActions := hasActions && inv.actions.Allows(b.meta.FixKind)
	category := b.meta.DiagnosticCategory()

	out := make([]*Signal, 0, len(states))
	for _, st := range states {
		sig := &Signal{Rule: b.meta.Key(), Category: category, Range: m.TextRange()}
		if rd := b.rule.Diagnostic(ctx, st); rd != nil {
			d := rd.build(category, b.meta.Severity, inv.options.FilePath)
			sig.Diagnostic = &d
			sig.Range = rd.Range
		} else if b.meta.Category != CategoryAction {
			continue
		}
		if wantActions {
			sig.Actions = actionRule.Action(ctx, st)
		}
		if sig.Diagnostic == nil && len(sig.Actions) == 0 {
			continue
		}
		out = append(out, sig)
	}
	return out, nil
}
