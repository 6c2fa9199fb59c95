package jsanalyze

import (
	"fmt"
	"reflect"

	"verdant/internal/analyzer"
	"verdant/internal/diag"
	"verdant/internal/lang/js"
	"verdant/internal/source"
	"verdant/internal/syntax"
)

// AsyncWithoutAwait is published by the await visitor for every async
// function whose own body never awaits.
type AsyncWithoutAwait struct {
	Function js.FunctionNode
}

func (m AsyncWithoutAwait) TextRange() source.TextRange { return m.Function.Syntax().TextRange() }

// awaitVisitor keeps one frame per enclosing function; an await marks only
// the innermost one.
type awaitVisitor struct {
	frames []awaitFrame
}

type awaitFrame struct {
	fn     js.FunctionNode
	async  bool
	awaits bool
}

type awaitVisitorKey struct{}

func (v *awaitVisitor) Visit(ev syntax.WalkEvent, ctx *analyzer.VisitorContext) {
	n := ev.Node
	fn, isFn := js.CastFunction(n)
	switch {
	case isFn && ev.Kind == syntax.WalkEnter:
		v.frames = append(v.frames, awaitFrame{fn: fn, async: fn.AsyncToken() != nil})
	case isFn:
		top := v.frames[len(v.frames)-1]
		v.frames = v.frames[:len(v.frames)-1]
		if top.async && !top.awaits {
			ctx.MatchQuery(AsyncWithoutAwait{Function: top.fn})
		}
	case n.Kind() == js.AwaitExpression && ev.Kind == syntax.WalkEnter && len(v.frames) > 0:
		v.frames[len(v.frames)-1].awaits = true
	}
}

type asyncQuery struct{}

func (asyncQuery) BuildVisitors(r *analyzer.VisitorRegistry, _ *syntax.Node) {
	r.Add(analyzer.PhaseSyntax, awaitVisitorKey{}, func() analyzer.Visitor { return &awaitVisitor{} })
}

func (asyncQuery) Route() analyzer.Route {
	return analyzer.Route{Phase: analyzer.PhaseSyntax, Type: reflect.TypeFor[AsyncWithoutAwait]()}
}

func (asyncQuery) Unwrap(_ *analyzer.ServiceBag, m analyzer.QueryMatch) (AsyncWithoutAwait, error) {
	a, ok := m.(AsyncWithoutAwait)
	if !ok {
		return AsyncWithoutAwait{}, fmt.Errorf("async query: unexpected match %T", m)
	}
	return a, nil
}

type useAwait struct{}

func (useAwait) Metadata() analyzer.RuleMetadata {
	return analyzer.RuleMetadata{
		Group:    "suspicious",
		Name:     "useAwait",
		Category: analyzer.CategoryLint,
		Severity: diag.SevWarning,
		Version:  "1.0.0",
		Sources:  []analyzer.RuleSource{{Tool: "eslint", Rule: "require-await"}},
		Docs:     "Ensure async functions utilize await.",
	}
}

func (useAwait) Query() analyzer.Query[AsyncWithoutAwait] { return asyncQuery{} }

func (useAwait) Run(ctx *analyzer.RuleContext[AsyncWithoutAwait, analyzer.NoOptions]) []*syntax.Token {
	if tok := ctx.Query().Function.AsyncToken(); tok != nil {
		return []*syntax.Token{tok}
	}
	return nil
}

func (useAwait) Diagnostic(ctx *analyzer.RuleContext[AsyncWithoutAwait, analyzer.NoOptions], async *syntax.Token) *analyzer.RuleDiagnostic {
	d := analyzer.NewRuleDiagnostic(async.TextTrimmedRange(), diag.Markup(
		diag.Text("This "), diag.Code("async"), diag.Text(" function lacks an "), diag.Code("await"), diag.Text(" expression."),
	))
	if name := ctx.Query().Function.Name(); name != nil {
		d.Detail(name.TextTrimmedRange(), diag.Markup(diag.Code(name.TextTrimmed()), diag.Text(" is declared here.")))
	}
	return d.Note(diag.Markup(
		diag.Text("Remove this "), diag.Code("async"), diag.Text(" modifier, or add an "), diag.Code("await"), diag.Text(" expression in the function."),
	))
}
