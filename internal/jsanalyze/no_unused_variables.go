package jsanalyze

import (
	"strings"

	"verdant/internal/analyzer"
	"verdant/internal/diag"
	"verdant/internal/lang/js"
	"verdant/internal/syntax"
)

type noUnusedVariables struct{}

func (noUnusedVariables) Metadata() analyzer.RuleMetadata {
	return analyzer.RuleMetadata{
		Group:    "correctness",
		Name:     "noUnusedVariables",
		Category: analyzer.CategoryLint,
		Severity: diag.SevWarning,
		Version:  "1.0.0",
		FixKind:  analyzer.FixUnsafe,
		Sources:  []analyzer.RuleSource{{Tool: "eslint", Rule: "no-unused-vars"}},
		Docs:     "Disallow unused variables.",
	}
}

func (noUnusedVariables) Query() analyzer.Query[js.IdentifierNode] {
	return analyzer.NewSemantic[js.IdentifierNode, *SemanticModel](provideModel, js.CastIdentifier, js.IdentifierBinding)
}

func (noUnusedVariables) Run(ctx *analyzer.RuleContext[js.IdentifierNode, analyzer.NoOptions]) []*Binding {
	model, _ := analyzer.Get[*SemanticModel](ctx.Services())
	b := model.BindingOf(ctx.Query().Syntax())
	// о повторных объявлениях сообщаем один раз, на первом
	if b == nil || !b.Node.Is(ctx.Query().Syntax()) || !isUnused(model, b) {
		return nil
	}
	return []*Binding{b}
}

func isUnused(model *SemanticModel, b *Binding) bool {
	switch {
	case strings.HasPrefix(b.Name, "_"), b.Exported, b.IsRead():
		return false
	case b.Kind == BindingImport:
		return false
	case b.Kind == BindingFunction && b.Node.Parent().Kind() == js.FunctionExpression:
		// имя функционального выражения нужно для стека вызовов
		return false
	case b.Scope.Kind == ScopeModule && !isModule(model.Root()):
		// глобальные имена скрипта видны другим скриптам
		return false
	case b.Kind == BindingParameter:
		return !laterParameterUsed(model, b)
	}
	return true
}

func isModule(root *syntax.Node) bool { return root.Kind() == js.Module }

// laterParameterUsed: a parameter can only be dropped if every parameter
// after it is unused too.
func laterParameterUsed(model *SemanticModel, b *Binding) bool {
	fn, ok := js.CastFunction(b.Scope.Node)
	if !ok {
		return false
	}
	seen := false
	for _, p := range fn.Parameters() {
		id := p
		if p.Kind() != js.IdentifierBinding {
			id = p.FindChild(syntax.KindIs(js.IdentifierBinding))
		}
		if id == nil {
			continue
		}
		if id.Is(b.Node) {
			seen = true
			continue
		}
		if other := model.BindingOf(id); seen && other != nil && (other.IsRead() || strings.HasPrefix(other.Name, "_")) {
			return true
		}
	}
	return false
}

func (noUnusedVariables) Diagnostic(_ *analyzer.RuleContext[js.IdentifierNode, analyzer.NoOptions], b *Binding) *analyzer.RuleDiagnostic {
	what := "variable"
	switch b.Kind {
	case BindingFunction:
		what = "function"
	case BindingParameter:
		what = "parameter"
	}
	d := analyzer.NewRuleDiagnostic(b.Node.TextTrimmedRange(), diag.Markup(
		diag.Text("This "+what+" "), diag.Code(b.Name), diag.Text(" is unused."),
	)).WithTags(diag.TagUnnecessary)
	if w := b.Writes(); w > 0 {
		d.Note(diag.Msgf("It is assigned %d time(s) but never read.", w))
	}
	return d.Note(diag.Markup(
		diag.Text("Unused variables are often the result of an incomplete refactoring."),
	))
}

// Action prefixes the binding and every write to it with `_`.
func (noUnusedVariables) Action(ctx *analyzer.RuleContext[js.IdentifierNode, analyzer.NoOptions], b *Binding) []analyzer.RuleAction {
	m := ctx.NewMutation()
	rename := func(n *syntax.Node) {
		if tok := n.FindToken(js.Ident); tok != nil {
			m.ReplaceTokenTransferTrivia(tok, syntax.NewToken(js.Ident, "_"+tok.TextTrimmed()))
		}
	}
	for _, decl := range b.Declarations {
		rename(decl)
	}
	for _, ref := range b.References {
		rename(ref.Node)
	}
	if m.IsEmpty() {
		return nil
	}
	return []analyzer.RuleAction{ctx.Action(diag.Markup(
		diag.Text("If this is intentional, prepend "), diag.Code(b.Name), diag.Text(" with an underscore."),
	), m)}
}
