package analyzer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"verdant/internal/diag"
	"verdant/internal/lang/json"
	"verdant/internal/syntax"
)

// memberRule reports every JSON member.
type memberRule struct {
	name   string
	fix    FixKind
	panics bool
}

func (r memberRule) Metadata() RuleMetadata {
	return RuleMetadata{Group: "test", Name: r.name, Category: CategoryLint, Severity: diag.SevWarning, FixKind: r.fix}
}

func (r memberRule) Query() Query[*syntax.Node] {
	return NewAst(func(n *syntax.Node) (*syntax.Node, bool) { return n, true }, json.Member)
}

func (r memberRule) Run(ctx *RuleContext[*syntax.Node, NoOptions]) []string {
	if r.panics && strings.Contains(ctx.Query().Text(), "boom") {
		panic("boom")
	}
	return []string{ctx.Query().TextTrimmed()}
}

func (r memberRule) Diagnostic(ctx *RuleContext[*syntax.Node, NoOptions], state string) *RuleDiagnostic {
	return NewRuleDiagnostic(ctx.Query().TextTrimmedRange(), diag.Markup(diag.Text(r.name+": "), diag.Code(state)))
}

// numberRule offers to replace every number with 0.
type numberRule struct{}

func (numberRule) Metadata() RuleMetadata {
	return RuleMetadata{Group: "test", Name: "zero", Category: CategoryLint, Severity: diag.SevInfo, FixKind: FixSafe}
}

func (numberRule) Query() Query[*syntax.Node] {
	return NewAst(func(n *syntax.Node) (*syntax.Node, bool) { return n, true }, json.NumberValue)
}

func (numberRule) Run(ctx *RuleContext[*syntax.Node, NoOptions]) []struct{} {
	if ctx.Query().TextTrimmed() == "0" {
		return nil
	}
	return []struct{}{{}}
}

func (numberRule) Diagnostic(ctx *RuleContext[*syntax.Node, NoOptions], _ struct{}) *RuleDiagnostic {
	return NewRuleDiagnostic(ctx.Query().TextTrimmedRange(), diag.Markup(diag.Text("non-zero number")))
}

func (numberRule) Action(ctx *RuleContext[*syntax.Node, NoOptions], _ struct{}) []RuleAction {
	tok := ctx.Query().FindToken(json.NumberLiteral)
	if tok == nil {
		return nil
	}
	m := ctx.NewMutation()
	m.ReplaceTokenTransferTrivia(tok, syntax.NewToken(json.NumberLiteral, "0"))
	return []RuleAction{ctx.Action(diag.Markup(diag.Text("use zero")), m)}
}

func testRules(rules ...func(*RuleSet)) *RuleSet {
	set := NewRuleSet("json")
	for _, r := range rules {
		r(set)
	}
	return set
}

func withMember(name string) func(*RuleSet) {
	return func(s *RuleSet) { Register[*syntax.Node, string, NoOptions](s, memberRule{name: name}) }
}

func parseJSON(t *testing.T, text string) *syntax.Node {
	t.Helper()
	parsed := json.Parse(text, json.ParseOptions{AllowComments: true}, nil)
	require.Empty(t, parsed.Diagnostics)
	return parsed.Root
}

// parseTestSuppression understands `// ignore[-start|-end|-all] <categories>: <why>`.
func parseTestSuppression(text string) ([]SuppressionComment, error) {
	body, ok := strings.CutPrefix(text, "//")
	if !ok {
		body = strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/")
	}
	head, why, found := strings.Cut(strings.TrimSpace(body), ":")
	fields := strings.Fields(head)
	if len(fields) == 0 {
		return nil, nil
	}
	kinds := map[string]SuppressionKind{
		"ignore":       SuppressLine,
		"ignore-start": SuppressRangeStart,
		"ignore-end":   SuppressRangeEnd,
		"ignore-all":   SuppressAll,
	}
	kind, ok := kinds[fields[0]]
	if !ok {
		return nil, nil
	}
	if !found || strings.TrimSpace(why) == "" {
		return nil, errors.New("suppression comments need an explanation")
	}
	var cats []diag.Category
	for _, f := range fields[1:] {
		cats = append(cats, diag.Category(f))
	}
	return []SuppressionComment{{Kind: kind, Categories: cats, Explanation: strings.TrimSpace(why)}}, nil
}

func collect(t *testing.T, set *RuleSet, text string, filter AnalysisFilter, opts *AnalyzerOptions) ([]*Signal, []error) {
	t.Helper()
	var out []*Signal
	p := Params{Root: parseJSON(t, text), Filter: filter, Options: opts, Suppressions: parseTestSuppression}
	brk, errs := Analyze[struct{}](set, p, func(s *Signal) ControlFlow[struct{}] {
		out = append(out, s)
		return Continue[struct{}]()
	})
	require.Nil(t, brk)
	return out, errs
}

func categories(signals []*Signal) []string {
	out := make([]string, len(signals))
	for i, s := range signals {
		out[i] = string(s.Category)
	}
	return out
}

func messages(signals []*Signal) []string {
	var out []string
	for _, s := range signals {
		if s.Diagnostic != nil {
			out = append(out, s.Diagnostic.Message.String())
		}
	}
	return out
}
