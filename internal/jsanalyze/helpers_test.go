package jsanalyze

import (
	"testing"

	"github.com/stretchr/testify/require"

	"verdant/internal/analyzer"
	"verdant/internal/lang/js"
)

func parseModule(t *testing.T, text string) *js.Parsed {
	t.Helper()
	parsed := js.Parse(text, js.ModuleFile(), js.ParserOptions{}, nil)
	require.Empty(t, parsed.Diagnostics, "parse %q", text)
	return parsed
}

// lint runs the named rules with every action enabled.
func lint(t *testing.T, text string, opts *analyzer.AnalyzerOptions, rules ...string) []*analyzer.Signal {
	t.Helper()
	return lintParsed(t, parseModule(t, text), opts, rules...)
}

func lintParsed(t *testing.T, parsed *js.Parsed, opts *analyzer.AnalyzerOptions, rules ...string) []*analyzer.Signal {
	t.Helper()
	filter := analyzer.AnalysisFilter{Actions: analyzer.ActionsAll}
	for _, r := range rules {
		f, err := analyzer.ParseRuleFilter(r)
		require.NoError(t, err)
		filter.Enabled = append(filter.Enabled, f)
	}
	var out []*analyzer.Signal
	brk, errs := Analyze[struct{}](parsed, filter, opts, func(s *analyzer.Signal) analyzer.ControlFlow[struct{}] {
		out = append(out, s)
		return analyzer.Continue[struct{}]()
	})
	require.Nil(t, brk)
	require.Empty(t, errs)
	return out
}

func messages(signals []*analyzer.Signal) []string {
	var out []string
	for _, s := range signals {
		if s.Diagnostic != nil {
			out = append(out, s.Diagnostic.Message.String())
		}
	}
	return out
}

// applyFirst applies the first action of sig to text.
func applyFirst(t *testing.T, text string, sig *analyzer.Signal) string {
	t.Helper()
	require.NotEmpty(t, sig.Actions)
	out, _, err := analyzer.ApplyAction(text, sig.Actions[0])
	require.NoError(t, err)
	return out
}
