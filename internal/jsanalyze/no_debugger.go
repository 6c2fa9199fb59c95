package jsanalyze

import (
	"verdant/internal/analyzer"
	"verdant/internal/diag"
	"verdant/internal/lang/js"
	"verdant/internal/syntax"
)

type noDebugger struct{}

func (noDebugger) Metadata() analyzer.RuleMetadata {
	return analyzer.RuleMetadata{
		Group:       "suspicious",
		Name:        "noDebugger",
		Category:    analyzer.CategoryLint,
		Severity:    diag.SevError,
		Version:     "1.0.0",
		Recommended: true,
		FixKind:     analyzer.FixUnsafe,
		Sources:     []analyzer.RuleSource{{Tool: "eslint", Rule: "no-debugger"}},
		Docs:        "Disallow the use of `debugger`.",
	}
}

func (noDebugger) Query() analyzer.Query[*syntax.Node] {
	return analyzer.NewAst(castNode, js.DebuggerStatement)
}

func (noDebugger) Run(_ *analyzer.RuleContext[*syntax.Node, analyzer.NoOptions]) []struct{} {
	return []struct{}{{}}
}

func (noDebugger) Diagnostic(ctx *analyzer.RuleContext[*syntax.Node, analyzer.NoOptions], _ struct{}) *analyzer.RuleDiagnostic {
	return analyzer.NewRuleDiagnostic(ctx.Query().TextTrimmedRange(), diag.Markup(
		diag.Text("This is an unexpected use of the "), diag.Code("debugger"), diag.Text(" statement."),
	))
}

// Action removes the statement; where a statement is syntactically required
// (`if (x) debugger;`) it becomes an empty statement.
func (noDebugger) Action(ctx *analyzer.RuleContext[*syntax.Node, analyzer.NoOptions], _ struct{}) []analyzer.RuleAction {
	stmt := ctx.Query()
	m := ctx.NewMutation()
	if p := stmt.Parent(); p != nil && js.Language.IsList(p.Kind()) {
		m.RemoveNode(stmt)
	} else {
		m.ReplaceNode(stmt, syntax.NewNode(js.EmptyStatement, syntax.NewToken(js.Semicolon, ";")))
	}
	return []analyzer.RuleAction{ctx.Action(diag.Markup(diag.Text("Remove "), diag.Code("debugger"), diag.Text(".")), m)}
}

func castNode(n *syntax.Node) (*syntax.Node, bool) { return n, true }
