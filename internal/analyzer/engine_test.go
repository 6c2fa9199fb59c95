package analyzer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"verdant/internal/diag"
	"verdant/internal/lang/json"
	"verdant/internal/source"
	"verdant/internal/syntax"
)

func TestRulesRunInRegistrationOrderPerMatch(t *testing.T) {
	set := testRules(withMember("a"), withMember("b"))
	signals, errs := collect(t, set, `{"x": 1, "y": 2}`, AnalysisFilter{}, nil)
	require.Empty(t, errs)
	require.Equal(t, []string{"lint/test/a", "lint/test/b", "lint/test/a", "lint/test/b"}, categories(signals))
	require.Equal(t, []string{
		"a: `\"x\": 1`",
		"b: `\"x\": 1`",
		"a: `\"y\": 2`",
		"b: `\"y\": 2`",
	}, messages(signals))
	require.Equal(t, source.NewRange(1, 7), signals[0].Range)
	require.Equal(t, diag.SevWarning, signals[0].Diagnostic.Severity)
}

func TestBreakSurfacesSinkValue(t *testing.T) {
	var members []string
	for i := range 10 {
		members = append(members, fmt.Sprintf(`"m%d": %d`, i, i))
	}
	root := parseJSON(t, "{"+strings.Join(members, ", ")+"}")

	e := New[int](testRules(withMember("a")), Params{Root: root})
	delivered := 0
	brk, errs := e.Run(func(*Signal) ControlFlow[int] {
		delivered++
		return Break(42)
	})
	require.Empty(t, errs)
	require.NotNil(t, brk)
	require.Equal(t, 42, *brk)
	require.Equal(t, 1, delivered)
	state, _ := e.State()
	require.Equal(t, StateHalted, state)
}

func TestEngineLifecycle(t *testing.T) {
	e := New[struct{}](testRules(withMember("a"), withMember("b")), Params{Root: parseJSON(t, `{"x": 1, "y": 2}`)})
	state, phase := e.State()
	require.Equal(t, StateRegistered, state)
	require.Equal(t, PhaseSyntax, phase)

	sink := func(*Signal) ControlFlow[struct{}] { return Continue[struct{}]() }
	_, errs := e.Run(sink)
	require.Empty(t, errs)
	state, _ = e.State()
	require.Equal(t, StateComplete, state)
	require.Equal(t, Stats{Rules: 2, Visitors: 1, Matches: 2, Signals: 4}, e.Stats())

	_, errs = e.Run(sink)
	require.Len(t, errs, 1)
}

func TestFilterSelectsRules(t *testing.T) {
	set := testRules(withMember("a"), withMember("b"))
	text := `{"x": 1}`

	signals, _ := collect(t, set, text, AnalysisFilter{Enabled: []RuleFilter{{Group: "test", Name: "b"}}}, nil)
	require.Equal(t, []string{"lint/test/b"}, categories(signals))

	signals, _ = collect(t, set, text, AnalysisFilter{Disabled: []RuleFilter{{Group: "test"}}}, nil)
	require.Empty(t, signals)

	signals, _ = collect(t, set, text, AnalysisFilter{Categories: Categories(CategoryAction)}, nil)
	require.Empty(t, signals)
}

func TestRangeFilterSkipsMatches(t *testing.T) {
	r := source.NewRange(9, 15)
	signals, _ := collect(t, testRules(withMember("a")), `{"x": 1, "y": 2}`, AnalysisFilter{Range: &r}, nil)
	require.Equal(t, []string{"a: `\"y\": 2`"}, messages(signals))
}

func TestActionsFollowActionFilter(t *testing.T) {
	set := testRules(func(s *RuleSet) { Register[*syntax.Node, struct{}, NoOptions](s, numberRule{}) })
	text := `{"a": 1, "b": 0}`

	signals, _ := collect(t, set, text, AnalysisFilter{}, nil)
	require.Len(t, signals, 1)
	require.Empty(t, signals[0].Actions)

	for _, filter := range []ActionFilter{ActionsSafeOnly, ActionsAll} {
		signals, _ = collect(t, set, text, AnalysisFilter{Actions: filter}, nil)
		require.Len(t, signals, 1)
		require.Len(t, signals[0].Actions, 1)

		action := signals[0].Actions[0]
		require.Equal(t, ApplicabilityAlways, action.Applicability)
		require.Equal(t, "use zero", action.Message.String())

		preview, res, err := PreviewAction(action)
		require.NoError(t, err)
		require.Equal(t, `{"a": 0, "b": 0}`, preview.Text())
		require.Equal(t, source.NewRange(6, 7), res.Range)

		out, edit, err := ApplyAction(text, action)
		require.NoError(t, err)
		require.Equal(t, `{"a": 0, "b": 0}`, out)
		require.Len(t, edit, 1)

		// исходное дерево не меняется
		require.Equal(t, text, action.Mutation.Root().Text())
		_, _, err = ApplyAction(`{"a": 2}`, action)
		require.ErrorIs(t, err, ErrStaleAction)
	}
}

type limitOptions struct {
	Max   int    `msgpack:"max"`
	Label string `msgpack:"label"`
}

type limitRule struct{}

func (limitRule) Metadata() RuleMetadata {
	return RuleMetadata{Group: "test", Name: "limit", Category: CategoryLint, Severity: diag.SevWarning}
}

func (limitRule) DefaultOptions() limitOptions { return limitOptions{Max: 3, Label: "max"} }

func (limitRule) Query() Query[*syntax.Node] {
	return NewAst(func(n *syntax.Node) (*syntax.Node, bool) { return n, true }, json.Root)
}

func (limitRule) Run(ctx *RuleContext[*syntax.Node, limitOptions]) []int {
	return []int{ctx.Options().Max}
}

func (limitRule) Diagnostic(ctx *RuleContext[*syntax.Node, limitOptions], max int) *RuleDiagnostic {
	return NewRuleDiagnostic(ctx.Query().TextTrimmedRange(), diag.Msgf("%s=%d", ctx.Options().Label, max))
}

func TestRuleOptionsDecoding(t *testing.T) {
	set := testRules(func(s *RuleSet) { Register[*syntax.Node, int, limitOptions](s, limitRule{}) }, withMember("a"))
	key := RuleKey{Group: "test", Name: "limit"}
	text := `{"x": 1}`

	signals, errs := collect(t, set, text, AnalysisFilter{}, nil)
	require.Empty(t, errs)
	require.Equal(t, "max=3", messages(signals)[0])

	opts := &AnalyzerOptions{Rules: map[RuleKey]RuleOptions{key: {Options: map[string]any{"max": int64(5)}}}}
	signals, errs = collect(t, set, text, AnalysisFilter{}, opts)
	require.Empty(t, errs)
	require.Equal(t, "max=5", messages(signals)[0])

	sev := diag.SevError
	opts = &AnalyzerOptions{Rules: map[RuleKey]RuleOptions{key: {Severity: &sev}}}
	signals, _ = collect(t, set, text, AnalysisFilter{}, opts)
	require.Equal(t, diag.SevError, signals[0].Diagnostic.Severity)

	// неизвестное поле: правило выключается, остальные работают
	opts = &AnalyzerOptions{Rules: map[RuleKey]RuleOptions{key: {Options: map[string]any{"bogus": true}}}}
	signals, errs = collect(t, set, text, AnalysisFilter{}, opts)
	require.Len(t, errs, 1)
	var oe *OptionsError
	require.ErrorAs(t, errs[0], &oe)
	require.Equal(t, key, oe.Rule)
	require.Equal(t, []string{"lint/test/a"}, categories(signals))

	d, ok := ErrorDiagnostic(errs[0])
	require.True(t, ok)
	require.Equal(t, diag.CategoryConfiguration, d.Category)
}

func TestNoOptionsRejectsConfiguredOptions(t *testing.T) {
	_, err := DecodeOptions(map[string]any{"x": 1}, NoOptions{})
	require.Error(t, err)
	got, err := DecodeOptions[limitOptions](nil, limitOptions{Max: 1})
	require.NoError(t, err)
	require.Equal(t, 1, got.Max)
}

func TestPanicBarrier(t *testing.T) {
	set := testRules(func(s *RuleSet) {
		Register[*syntax.Node, string, NoOptions](s, memberRule{name: "p", panics: true})
	}, withMember("a"))
	text := `{"boom": 1, "y": 2}`

	signals, errs := collect(t, set, text, AnalysisFilter{}, &AnalyzerOptions{PanicBarrier: true})
	require.Equal(t, []string{"internalError/panic", "lint/test/a", "lint/test/p", "lint/test/a"}, categories(signals))
	require.Len(t, errs, 1)
	var pe *RulePanicError
	require.ErrorAs(t, errs[0], &pe)
	require.Equal(t, RuleKey{Group: "test", Name: "p"}, pe.Rule)
	require.NotEmpty(t, pe.Stack)
	require.True(t, signals[0].Diagnostic.Tags.Has(diag.TagInternal))
	require.Len(t, signals[0].Diagnostic.Footers, 1)

	d, ok := ErrorDiagnostic(errs[0])
	require.True(t, ok)
	require.Equal(t, diag.CategoryInternalPanic, d.Category)
	require.Equal(t, diag.SevFatal, d.Severity)
	require.True(t, d.Tags.Has(diag.TagInternal))
	require.Len(t, d.Footers, 1)

	require.Panics(t, func() {
		collect(t, set, text, AnalysisFilter{}, nil)
	})
}

type memberCount struct{ n int }

type countKey struct{}

type countVisitor struct{ n int }

func (v *countVisitor) Visit(ev syntax.WalkEvent, _ *VisitorContext) {
	if ev.Kind == syntax.WalkEnter && ev.Node.Kind() == json.Member {
		v.n++
	}
}

func (v *countVisitor) Finish(ctx *VisitorContext) {
	Insert(ctx.Services, &memberCount{n: v.n})
}

func provideCount(r *VisitorRegistry, _ *syntax.Node) {
	r.Add(PhaseSyntax, countKey{}, func() Visitor { return &countVisitor{} })
}

type countRule struct {
	provider func(*VisitorRegistry, *syntax.Node)
}

func (countRule) Metadata() RuleMetadata {
	return RuleMetadata{Group: "test", Name: "count", Category: CategoryLint, Severity: diag.SevInfo}
}

func (r countRule) Query() Query[*syntax.Node] {
	return NewSemantic[*syntax.Node, *memberCount](r.provider, func(n *syntax.Node) (*syntax.Node, bool) { return n, true }, json.Member)
}

func (countRule) Run(ctx *RuleContext[*syntax.Node, NoOptions]) []int {
	c, _ := Get[*memberCount](ctx.Services())
	return []int{c.n}
}

func (countRule) Diagnostic(ctx *RuleContext[*syntax.Node, NoOptions], n int) *RuleDiagnostic {
	return NewRuleDiagnostic(ctx.Query().TextTrimmedRange(), diag.Msgf("members: %d", n))
}

func TestServicesFlowBetweenPhases(t *testing.T) {
	set := testRules(func(s *RuleSet) {
		Register[*syntax.Node, int, NoOptions](s, countRule{provider: provideCount})
	})
	signals, errs := collect(t, set, `{"x": 1, "y": [2]}`, AnalysisFilter{}, nil)
	require.Empty(t, errs)
	require.Equal(t, []string{"members: 2", "members: 2"}, messages(signals))
}

func TestMissingServiceReportedOnce(t *testing.T) {
	set := testRules(func(s *RuleSet) {
		Register[*syntax.Node, int, NoOptions](s, countRule{})
	})
	signals, errs := collect(t, set, `{"x": 1, "y": 2}`, AnalysisFilter{}, nil)
	require.Empty(t, signals)
	require.Len(t, errs, 1)
	var se *ServiceError
	require.ErrorAs(t, errs[0], &se)
	require.Equal(t, "count", se.Rule.Name)
	require.True(t, errors.As(errs[0], &se))

	d, ok := ErrorDiagnostic(errs[0])
	require.True(t, ok)
	require.Equal(t, diag.CategoryInternalServiceMissing, d.Category)
	require.Equal(t, diag.SevError, d.Severity)
}

// arrayDepth is published by depthVisitor when it leaves a nested array.
type arrayDepth struct {
	node  *syntax.Node
	depth int
}

func (m arrayDepth) TextRange() source.TextRange { return m.node.TextTrimmedRange() }

type depthVisitor struct{ depth int }

func (v *depthVisitor) Visit(ev syntax.WalkEvent, ctx *VisitorContext) {
	if ev.Node.Kind() != json.ArrayValue {
		return
	}
	if ev.Kind == syntax.WalkEnter {
		v.depth++
		return
	}
	if v.depth >= 2 {
		ctx.MatchQuery(arrayDepth{node: ev.Node, depth: v.depth})
	}
	v.depth--
}

type depthQuery struct{}

func (depthQuery) BuildVisitors(r *VisitorRegistry, _ *syntax.Node) {
	r.Add(PhaseSyntax, depthQuery{}, func() Visitor { return &depthVisitor{} })
}

func (depthQuery) Route() Route {
	return Route{Phase: PhaseSyntax, Type: reflect.TypeFor[arrayDepth]()}
}

func (depthQuery) Unwrap(_ *ServiceBag, m QueryMatch) (arrayDepth, error) {
	return m.(arrayDepth), nil
}

type depthRule struct{}

func (depthRule) Metadata() RuleMetadata {
	return RuleMetadata{Group: "test", Name: "depth", Category: CategoryLint, Severity: diag.SevInfo}
}

func (depthRule) Query() Query[arrayDepth] { return depthQuery{} }

func (depthRule) Run(ctx *RuleContext[arrayDepth, NoOptions]) []int {
	return []int{ctx.Query().depth}
}

func (depthRule) Diagnostic(ctx *RuleContext[arrayDepth, NoOptions], depth int) *RuleDiagnostic {
	return NewRuleDiagnostic(ctx.Query().TextRange(), diag.Msgf("depth %d", depth))
}

func TestCustomVisitorMatchesAreRoutedByType(t *testing.T) {
	set := testRules(func(s *RuleSet) {
		Register[arrayDepth, int, NoOptions](s, depthRule{})
	}, withMember("a"))
	signals, errs := collect(t, set, `[[1], [[2]]]`, AnalysisFilter{}, nil)
	require.Empty(t, errs)
	// в документном порядке, хотя публикуются на выходе из узла
	require.Equal(t, []string{"depth 2", "depth 2", "depth 3"}, messages(signals))
}

func TestDeterministicSignals(t *testing.T) {
	set := testRules(withMember("a"), withMember("b"), func(s *RuleSet) {
		Register[*syntax.Node, struct{}, NoOptions](s, numberRule{})
	})
	text := "{\n  // ignore lint/test/b: noise\n  \"x\": 1,\n  \"y\": [3, {\"z\": 4}]\n}"
	render := func() []string {
		signals, _ := collect(t, set, text, AnalysisFilter{Actions: ActionsAll}, nil)
		var out []string
		for _, s := range signals {
			line := fmt.Sprintf("%s %s", s.Category, s.Range)
			for _, a := range s.Actions {
				line += " " + a.Message.String()
			}
			out = append(out, line)
		}
		return out
	}
	first := render()
	require.NotEmpty(t, first)
	for range 5 {
		require.Equal(t, first, render())
	}
}

func TestRegisterTwicePanics(t *testing.T) {
	require.Panics(t, func() { testRules(withMember("a"), withMember("a")) })
}
