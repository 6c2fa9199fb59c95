package jsanalyze

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"verdant/internal/analyzer"
	"verdant/internal/diag"
	"verdant/internal/lang/js"
	"verdant/internal/source"
)

func TestNoDoubleEqualsFix(t *testing.T) {
	text := "a == b"
	signals := lint(t, text, nil, "suspicious/noDoubleEquals")
	require.Len(t, signals, 1)

	sig := signals[0]
	require.Equal(t, diag.Category("lint/suspicious/noDoubleEquals"), sig.Category)
	require.Equal(t, source.NewRange(2, 4), sig.Range)
	require.Equal(t, source.NewRange(2, 4), sig.Diagnostic.Range())
	require.Len(t, sig.Actions, 1)
	require.Equal(t, analyzer.ApplicabilityAlways, sig.Actions[0].Applicability)
	require.Equal(t, "a === b", applyFirst(t, text, sig))

	root, res, err := analyzer.PreviewAction(sig.Actions[0])
	require.NoError(t, err)
	require.Equal(t, "a === b", root.Text())
	require.Equal(t, "a === b", res.Edit.Apply(text))
}

func TestNoDoubleEqualsNull(t *testing.T) {
	text := "if (a != null) { b = a == null; }"
	require.Empty(t, lint(t, text, nil, "suspicious/noDoubleEquals"))

	opts := &analyzer.AnalyzerOptions{Rules: map[analyzer.RuleKey]analyzer.RuleOptions{
		{Group: "suspicious", Name: "noDoubleEquals"}: {Options: map[string]any{"ignoreNull": false}},
	}}
	signals := lint(t, text, opts, "suspicious/noDoubleEquals")
	require.Len(t, signals, 2)
	require.Equal(t, "Use `!==` instead of `!=`", signals[0].Diagnostic.Message.String())
	require.Equal(t, "if (a !== null) { b = a == null; }", applyFirst(t, text, signals[0]))
}

func TestUseConst(t *testing.T) {
	text := "let x = 1;\nlet y = 1;\ny = 2;\nlet z;\nfor (let i = 0; i < 3; i++) {}\nlet p = 1, q = 2;\n"
	signals := lint(t, text, nil, "style/useConst")
	require.Len(t, signals, 2)
	require.Equal(t, source.NewRange(0, 3), signals[0].Range)

	out := applyFirst(t, text, signals[0])
	require.True(t, strings.HasPrefix(out, "const x = 1;\n"))
	require.Contains(t, applyFirst(t, text, signals[1]), "const p = 1, q = 2;")
}

func TestSuppressedUseConst(t *testing.T) {
	text := "// biome-ignore lint/style/useConst: explanation\nlet x = 1;"
	require.Empty(t, lint(t, text, nil, "style/useConst"))

	text = "// verdant-ignore lint/style: explanation\nlet x = 1;\nlet y = 2;"
	signals := lint(t, text, nil, "style/useConst")
	require.Len(t, signals, 1)
	require.Equal(t, "lint/style/useConst", string(signals[0].Category))
	require.Contains(t, signals[0].Diagnostic.Message.String(), "`let`")
}

func TestUnusedSuppressionIsReported(t *testing.T) {
	text := "// verdant-ignore lint/suspicious/noDebugger: not here\nlet x = 1;\nx = 2;"
	signals := lint(t, text, nil, "style/useConst", "suspicious/noDebugger")
	require.Len(t, signals, 1)
	require.Equal(t, diag.CategorySuppressionsUnused, signals[0].Category)
}

func TestNoDebugger(t *testing.T) {
	text := "if (a) debugger;\ndebugger;\n"
	signals := lint(t, text, nil, "suspicious/noDebugger")
	require.Len(t, signals, 2)
	require.Equal(t, analyzer.ApplicabilityMaybeIncorrect, signals[0].Actions[0].Applicability)
	require.Equal(t, "if (a) ;\ndebugger;\n", applyFirst(t, text, signals[0]))
	require.Equal(t, "if (a) debugger;\n", applyFirst(t, text, signals[1]))
}

func TestUseAwait(t *testing.T) {
	text := "async function f() { return 1; }\n" +
		"async function g() { await f(); }\n" +
		"const h = async () => { const i = async () => { await g(); }; };\n"
	signals := lint(t, text, nil, "suspicious/useAwait")
	require.Len(t, signals, 2)
	require.Equal(t, source.NewRange(0, 5), signals[0].Range)
	require.Equal(t, "`f` is declared here.", signals[0].Diagnostic.Related[0].Message.String())

	h := source.TextSize(strings.Index(text, "async () => { const"))
	require.Equal(t, source.NewRange(h, h+5), signals[1].Range)
	require.Empty(t, signals[1].Actions)
}

func TestNoUnusedVariables(t *testing.T) {
	text := "import {used} from \"m\";\n" +
		"const a = 1;\n" +
		"let b = 2;\n" +
		"b = 3;\n" +
		"export const c = a;\n" +
		"function f(x, y, _z) { return y; }\n" +
		"const k = 1;\n" +
		"export {k};\n"
	signals := lint(t, text, nil, "correctness/noUnusedVariables")
	require.Equal(t, []string{
		"This variable `b` is unused.",
		"This function `f` is unused.",
	}, messages(signals))
	require.True(t, signals[0].Diagnostic.Tags.Has(diag.TagUnnecessary))
	require.Contains(t, applyFirst(t, text, signals[0]), "let _b = 2;\n_b = 3;\n")
}

func TestNoUnusedVariablesTrailingParameters(t *testing.T) {
	text := "export function f(a, b, c) { return a; }\n"
	signals := lint(t, text, nil, "correctness/noUnusedVariables")
	require.Equal(t, []string{
		"This parameter `b` is unused.",
		"This parameter `c` is unused.",
	}, messages(signals))
}

func TestNoUnusedVariablesScriptGlobals(t *testing.T) {
	parsed := js.Parse("var top = 1;\nfunction g() { var inner = 1; }\n", js.ScriptFile(), js.ParserOptions{}, nil)
	require.Empty(t, parsed.Diagnostics)
	signals := lintParsed(t, parsed, nil, "correctness/noUnusedVariables")
	require.Equal(t, []string{"This variable `inner` is unused."}, messages(signals))
}

func TestNoUndeclaredVariables(t *testing.T) {
	text := "foo(bar);\ntypeof baz;\nconsole.log(1);\nlet q = 1;\nq = qq;\n"
	signals := lint(t, text, nil, "correctness/noUndeclaredVariables")
	require.Equal(t, []string{
		"The `foo` variable is undeclared.",
		"The `bar` variable is undeclared.",
		"The `qq` variable is undeclared.",
	}, messages(signals))

	signals = lint(t, text, &analyzer.AnalyzerOptions{Globals: []string{"foo"}}, "correctness/noUndeclaredVariables")
	require.Len(t, signals, 2)
}

func TestNoExcessiveNesting(t *testing.T) {
	text := "function f(a) {\n" +
		"  if (a) {\n" +
		"    while (a) {\n" +
		"      if (a) { a = 0; }\n" +
		"    }\n" +
		"  }\n" +
		"}\n"
	require.Empty(t, lint(t, text, nil, "complexity/noExcessiveNesting"))

	opts := &analyzer.AnalyzerOptions{Rules: map[analyzer.RuleKey]analyzer.RuleOptions{
		{Group: "complexity", Name: "noExcessiveNesting"}: {Options: map[string]any{"maxDepth": int64(2)}},
	}}
	signals := lint(t, text, opts, "complexity/noExcessiveNesting")
	require.Len(t, signals, 1)
	inner := source.TextSize(strings.Index(text, "if (a) { a"))
	require.Equal(t, source.NewRange(inner, inner+2), signals[0].Range)
	require.Equal(t, "This statement is nested 3 levels deep; the maximum allowed is 2.", signals[0].Diagnostic.Message.String())

	chain := "if (a) {} else if (b) {} else if (c) {}"
	opts.Rules[analyzer.RuleKey{Group: "complexity", Name: "noExcessiveNesting"}] = analyzer.RuleOptions{Options: map[string]any{"maxDepth": int64(1)}}
	require.Empty(t, lint(t, chain, opts, "complexity/noExcessiveNesting"))
}

func TestNoVar(t *testing.T) {
	text := "var x = 1;\nlet y = 2;\n"
	signals := lint(t, text, nil, "style/noVar")
	require.Len(t, signals, 1)
	require.Equal(t, "let x = 1;\nlet y = 2;\n", applyFirst(t, text, signals[0]))
}

func TestUseQuotes(t *testing.T) {
	text := "import x from 'm';\nconst s = 'a\"b';\nconst u = 'it\\'s';\n"
	signals := lint(t, text, nil, "style/useQuotes")
	require.Len(t, signals, 2)
	for _, s := range signals {
		require.Nil(t, s.Diagnostic)
		require.Equal(t, diag.Category("assist/style/useQuotes"), s.Category)
	}
	require.Equal(t, "import x from \"m\";\nconst s = 'a\"b';\nconst u = 'it\\'s';\n", applyFirst(t, text, signals[0]))
	require.Contains(t, applyFirst(t, text, signals[1]), `const u = "it's";`)

	single := &analyzer.AnalyzerOptions{PreferredQuote: analyzer.QuoteSingle}
	require.Empty(t, lint(t, text, single, "style/useQuotes"))

	// без действий ассистенту нечего предложить
	filter := analyzer.AnalysisFilter{Enabled: []analyzer.RuleFilter{{Group: "style", Name: "useQuotes"}}}
	var got int
	_, errs := Analyze[struct{}](parseModule(t, text), filter, nil, func(*analyzer.Signal) analyzer.ControlFlow[struct{}] {
		got++
		return analyzer.Continue[struct{}]()
	})
	require.Empty(t, errs)
	require.Zero(t, got)
}

func TestRequote(t *testing.T) {
	require.Equal(t, "it's", requote(`it\'s`, '\''))
	require.Equal(t, `a\nb`, requote(`a\nb`, '"'))
	require.Equal(t, `say "hi"`, requote(`say \"hi\"`, '"'))
}

func TestRulesAreRegistered(t *testing.T) {
	set := Rules()
	require.Same(t, set, Rules())
	require.Equal(t, 9, set.Len())

	reg := analyzer.NewMetadataRegistry(set)
	meta, ok := reg.Find("style", "useQuotes")
	require.True(t, ok)
	require.Equal(t, analyzer.CategoryAction, meta.Category)
	require.Equal(t, Language, meta.Language)
	require.Equal(t, []string{"complexity", "correctness", "style", "suspicious"}, reg.Groups())
}

func TestAllRulesTogether(t *testing.T) {
	text := "var n = 1;\nif (n == 2) { debugger; }\n"
	signals := lint(t, text, nil)
	var cats []string
	for _, s := range signals {
		cats = append(cats, string(s.Category))
	}
	require.Equal(t, []string{
		"lint/style/noVar",
		"lint/suspicious/noDoubleEquals",
		"lint/suspicious/noDebugger",
	}, cats)
}
