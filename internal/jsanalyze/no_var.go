package jsanalyze

import (
	"verdant/internal/analyzer"
	"verdant/internal/diag"
	"verdant/internal/lang/js"
	"verdant/internal/syntax"
)

type noVar struct{}

func (noVar) Metadata() analyzer.RuleMetadata {
	return analyzer.RuleMetadata{
		Group:       "style",
		Name:        "noVar",
		Category:    analyzer.CategoryLint,
		Severity:    diag.SevWarning,
		Version:     "1.0.0",
		Recommended: true,
		FixKind:     analyzer.FixUnsafe,
		Sources:     []analyzer.RuleSource{{Tool: "eslint", Rule: "no-var"}},
		Docs:        "Disallow the use of `var`.",
	}
}

func (noVar) Query() analyzer.Query[js.VariableDeclarationNode] {
	return analyzer.NewAst(js.CastVariableDeclaration, js.VariableDeclaration)
}

func (noVar) Run(ctx *analyzer.RuleContext[js.VariableDeclarationNode, analyzer.NoOptions]) []*syntax.Token {
	if kw := ctx.Query().KindToken(); kw != nil && kw.Kind() == js.VarKw {
		return []*syntax.Token{kw}
	}
	return nil
}

func (noVar) Diagnostic(_ *analyzer.RuleContext[js.VariableDeclarationNode, analyzer.NoOptions], kw *syntax.Token) *analyzer.RuleDiagnostic {
	return analyzer.NewRuleDiagnostic(kw.TextTrimmedRange(), diag.Markup(
		diag.Text("Use "), diag.Code("let"), diag.Text(" or "), diag.Code("const"), diag.Text(" instead of "), diag.Code("var"), diag.Text("."),
	)).Note(diag.Markup(
		diag.Code("var"), diag.Text(" is function scoped; "), diag.Code("let"), diag.Text(" is block scoped and may change where the name is visible."),
	))
}

func (noVar) Action(ctx *analyzer.RuleContext[js.VariableDeclarationNode, analyzer.NoOptions], kw *syntax.Token) []analyzer.RuleAction {
	m := ctx.NewMutation()
	m.ReplaceTokenTransferTrivia(kw, syntax.NewToken(js.LetKw, "let"))
	return []analyzer.RuleAction{ctx.Action(diag.Markup(diag.Text("Use "), diag.Code("let"), diag.Text(" instead.")), m)}
}
