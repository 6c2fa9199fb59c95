package jsanalyze

import (
	"verdant/internal/analyzer"
	"verdant/internal/diag"
	"verdant/internal/lang/js"
)

type noUndeclaredVariables struct{}

func (noUndeclaredVariables) Metadata() analyzer.RuleMetadata {
	return analyzer.RuleMetadata{
		Group:    "correctness",
		Name:     "noUndeclaredVariables",
		Category: analyzer.CategoryLint,
		Severity: diag.SevError,
		Version:  "1.0.0",
		Sources:  []analyzer.RuleSource{{Tool: "eslint", Rule: "no-undef"}},
		Docs:     "Prevents the usage of variables that haven't been declared inside the document.",
	}
}

func (noUndeclaredVariables) Query() analyzer.Query[js.IdentifierNode] {
	return analyzer.NewSemantic[js.IdentifierNode, *SemanticModel](provideModel, js.CastIdentifier, js.IdentifierExpression, js.IdentifierAssignment)
}

func (noUndeclaredVariables) Run(ctx *analyzer.RuleContext[js.IdentifierNode, analyzer.NoOptions]) []*Reference {
	model, _ := analyzer.Get[*SemanticModel](ctx.Services())
	ref := model.ReferenceOf(ctx.Query().Syntax())
	if ref == nil || ref.Binding != nil || ref.InTypeof || isGlobal(ref.Name, ctx.Globals()) {
		return nil
	}
	return []*Reference{ref}
}

func (noUndeclaredVariables) Diagnostic(_ *analyzer.RuleContext[js.IdentifierNode, analyzer.NoOptions], ref *Reference) *analyzer.RuleDiagnostic {
	return analyzer.NewRuleDiagnostic(ref.Node.TextTrimmedRange(), diag.Markup(
		diag.Text("The "), diag.Code(ref.Name), diag.Text(" variable is undeclared."),
	)).Note(diag.Markup(
		diag.Text("If "), diag.Code(ref.Name), diag.Text(" is a global provided by the environment, list it under "), diag.Code("globals"), diag.Text(" in verdant.toml."),
	))
}
