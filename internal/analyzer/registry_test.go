package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"verdant/internal/diag"
	"verdant/internal/syntax"
)

func TestMetadataRegistry(t *testing.T) {
	jsonRules := testRules(withMember("b"), withMember("a"))
	other := NewRuleSet("js")
	Register[*syntax.Node, string, NoOptions](other, memberRule{name: "a"})
	Register[*syntax.Node, struct{}, NoOptions](other, numberRule{})

	reg := NewMetadataRegistry(jsonRules, other)
	require.Equal(t, 4, reg.Len())

	var names []string
	reg.ForEach(func(m RuleMetadata) { names = append(names, m.Key().String()+"@"+m.Language) })
	require.Equal(t, []string{"test/a@js", "test/a@json", "test/b@json", "test/zero@js"}, names)
	require.Equal(t, []string{"test"}, reg.Groups())

	m, ok := reg.Find("test", "zero")
	require.True(t, ok)
	require.Equal(t, FixSafe, m.FixKind)
	require.Equal(t, diag.Category("lint/test/zero"), m.DiagnosticCategory())
	_, ok = reg.Find("test", "nope")
	require.False(t, ok)

	require.Len(t, reg.Filter(AnalysisFilter{Enabled: []RuleFilter{{Group: "test", Name: "a"}}}), 2)
}

func TestParseRuleFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    RuleFilter
		wantErr bool
	}{
		{in: "style", want: RuleFilter{Group: "style"}},
		{in: "style/useConst", want: RuleFilter{Group: "style", Name: "useConst"}},
		{in: "lint/style/useConst", want: RuleFilter{Group: "style", Name: "useConst"}},
		{in: "", wantErr: true},
		{in: "a/b/c", wantErr: true},
		{in: "style/", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseRuleFilter(tt.in)
		if tt.wantErr {
			require.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got)
	}
}

func TestCategoriesAndActionFilter(t *testing.T) {
	var all RuleCategories
	require.True(t, all.Contains(CategoryAction))
	lint := Categories(CategoryLint, CategorySyntax)
	require.True(t, lint.Contains(CategoryLint))
	require.False(t, lint.Contains(CategoryAction))
	require.Equal(t, "syntax|lint", lint.String())

	require.False(t, ActionsNone.Allows(FixSafe))
	require.True(t, ActionsSafeOnly.Allows(FixSafe))
	require.False(t, ActionsSafeOnly.Allows(FixUnsafe))
	require.True(t, ActionsAll.Allows(FixUnsafe))
	require.False(t, ActionsAll.Allows(FixNone))
}

func TestActionCategoryForAssists(t *testing.T) {
	m := RuleMetadata{Group: "source", Name: "useQuotes", Category: CategoryAction}
	require.Equal(t, diag.Category("assist/source/useQuotes"), m.DiagnosticCategory())
}

func TestServiceBag(t *testing.T) {
	bag := NewServiceBag()
	_, ok := Get[*memberCount](bag)
	require.False(t, ok)
	Insert(bag, &memberCount{n: 3})
	got, ok := Get[*memberCount](bag)
	require.True(t, ok)
	require.Equal(t, 3, got.n)
	_, ok = Get[memberCount](bag)
	require.False(t, ok)
}
