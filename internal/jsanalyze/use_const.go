package jsanalyze

import (
	"verdant/internal/analyzer"
	"verdant/internal/diag"
	"verdant/internal/lang/js"
	"verdant/internal/syntax"
)

type useConst struct{}

func (useConst) Metadata() analyzer.RuleMetadata {
	return analyzer.RuleMetadata{
		Group:       "style",
		Name:        "useConst",
		Category:    analyzer.CategoryLint,
		Severity:    diag.SevWarning,
		Version:     "1.0.0",
		Recommended: true,
		FixKind:     analyzer.FixSafe,
		Sources:     []analyzer.RuleSource{{Tool: "eslint", Rule: "prefer-const"}},
		Docs:        "Require const declarations for variables that are only assigned once.",
	}
}

func (useConst) Query() analyzer.Query[js.VariableDeclarationNode] {
	return analyzer.NewSemantic[js.VariableDeclarationNode, *SemanticModel](provideModel, js.CastVariableDeclaration, js.VariableDeclaration)
}

// constCandidate is a `let` whose every declarator could be const.
type constCandidate struct {
	let      *syntax.Token
	bindings []*syntax.Node
}

func (useConst) Run(ctx *analyzer.RuleContext[js.VariableDeclarationNode, analyzer.NoOptions]) []constCandidate {
	decl := ctx.Query()
	let := decl.KindToken()
	if let == nil || let.Kind() != js.LetKw {
		return nil
	}
	// for (let i = 0; ...; i++) почти всегда переприсваивается; пропускаем заголовок
	if p := decl.Syntax().Parent(); p != nil && p.Kind() == js.ForStatement {
		return nil
	}
	model, _ := analyzer.Get[*SemanticModel](ctx.Services())
	st := constCandidate{let: let}
	for _, d := range decl.Declarators() {
		binding, err := d.Binding()
		if err != nil || d.Initializer() == nil {
			return nil
		}
		b := model.BindingOf(binding)
		if b == nil || b.Writes() > 0 || len(b.Declarations) > 1 {
			return nil
		}
		st.bindings = append(st.bindings, binding)
	}
	if len(st.bindings) == 0 {
		return nil
	}
	return []constCandidate{st}
}

func (useConst) Diagnostic(_ *analyzer.RuleContext[js.VariableDeclarationNode, analyzer.NoOptions], st constCandidate) *analyzer.RuleDiagnostic {
	d := analyzer.NewRuleDiagnostic(st.let.TextTrimmedRange(), diag.Markup(
		diag.Text("This "), diag.Code("let"), diag.Text(" declares variables that are only assigned once."),
	))
	for _, b := range st.bindings {
		d.Detail(b.TextTrimmedRange(), diag.Markup(diag.Code(b.TextTrimmed()), diag.Text(" is never reassigned.")))
	}
	return d
}

func (useConst) Action(ctx *analyzer.RuleContext[js.VariableDeclarationNode, analyzer.NoOptions], st constCandidate) []analyzer.RuleAction {
	m := ctx.NewMutation()
	m.ReplaceTokenTransferTrivia(st.let, syntax.NewToken(js.ConstKw, "const"))
	return []analyzer.RuleAction{ctx.Action(diag.Markup(diag.Text("Use "), diag.Code("const"), diag.Text(" instead.")), m)}
}
