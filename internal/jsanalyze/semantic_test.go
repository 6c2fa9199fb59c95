package jsanalyze

import (
	"testing"

	"github.com/stretchr/testify/require"

	"verdant/internal/analyzer"
)

func TestSemanticModelScopes(t *testing.T) {
	text := "var a = 1;\n" +
		"function f(p) {\n" +
		"  let a = p;\n" +
		"  { const b = a; }\n" +
		"  return a + g;\n" +
		"}\n"
	model := BuildModel(parseModule(t, text).Root)

	kinds := make([]ScopeKind, 0, len(model.Scopes()))
	for _, s := range model.Scopes() {
		kinds = append(kinds, s.Kind)
	}
	require.Equal(t, []ScopeKind{ScopeModule, ScopeFunction, ScopeBlock}, kinds)

	global := model.Global()
	outer := global.Lookup("a")
	require.NotNil(t, outer)
	require.Equal(t, BindingVar, outer.Kind)
	require.Empty(t, outer.References)
	require.Equal(t, BindingFunction, global.Lookup("f").Kind)

	fn := model.Scopes()[1]
	inner := fn.Lookup("a")
	require.Equal(t, BindingLet, inner.Kind)
	require.Len(t, inner.References, 2)
	require.Equal(t, BindingParameter, fn.Lookup("p").Kind)
	require.True(t, fn.Lookup("p").IsRead())

	block := model.Scopes()[2]
	require.Equal(t, BindingConst, block.Lookup("b").Kind)
	require.Same(t, fn, block.Parent)

	require.Len(t, model.Unresolved(), 1)
	require.Equal(t, "g", model.Unresolved()[0].Name)
}

func TestSemanticModelHoistingAndWrites(t *testing.T) {
	text := "x = 1;\nx += 2;\nvar x;\nfunction g() { if (x) { var y = 1; } return y; }\n"
	model := BuildModel(parseModule(t, text).Root)

	x := model.Global().Lookup("x")
	require.NotNil(t, x)
	require.Len(t, x.References, 3)
	require.Equal(t, 2, x.Writes())
	require.False(t, x.References[0].Read)
	require.True(t, x.References[1].Read)

	// var поднимается до области функции, а не блока
	g := model.Scopes()[1]
	require.Equal(t, ScopeFunction, g.Kind)
	require.NotNil(t, g.Lookup("y"))
	require.Empty(t, model.Unresolved())
}

func TestSemanticModelImportsAndExports(t *testing.T) {
	text := "import def, {a as b, c} from \"m\";\nimport * as ns from \"n\";\nconst k = 1;\nexport {k as key};\nexport {z} from \"o\";\n"
	model := BuildModel(parseModule(t, text).Root)

	for _, name := range []string{"def", "b", "c", "ns"} {
		bind := model.Global().Lookup(name)
		require.NotNil(t, bind, name)
		require.Equal(t, BindingImport, bind.Kind, name)
	}
	require.Nil(t, model.Global().Lookup("a"))
	require.True(t, model.Global().Lookup("k").Exported)
	require.Empty(t, model.Unresolved())
}

func TestSemanticModelNormalizesNames(t *testing.T) {
	// "é" как одна кодовая точка и как e + комбинирующий акцент
	text := "let caf\u00e9 = 1;\ncafe\u0301;\n"
	model := BuildModel(parseModule(t, text).Root)
	require.Empty(t, model.Unresolved())
	require.Len(t, model.Bindings()[0].References, 1)
}

func TestSemanticServiceIsInserted(t *testing.T) {
	parsed := parseModule(t, "let a = 1;")
	e := analyzer.New[struct{}](Rules(), Params(parsed, analyzer.AnalysisFilter{Enabled: []analyzer.RuleFilter{{Group: "style", Name: "useConst"}}}, nil))
	_, errs := e.Run(func(*analyzer.Signal) analyzer.ControlFlow[struct{}] { return analyzer.Continue[struct{}]() })
	require.Empty(t, errs)

	model, ok := analyzer.Get[*SemanticModel](e.Services())
	require.True(t, ok)
	require.Len(t, model.Bindings(), 1)
	require.Equal(t, 1, e.Stats().Signals)
}
