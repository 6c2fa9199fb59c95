package jsanalyze

import (
	"verdant/internal/analyzer"
	"verdant/internal/diag"
	"verdant/internal/lang/js"
	"verdant/internal/syntax"
)

// NestingOptions configures complexity/noExcessiveNesting.
type NestingOptions struct {
	MaxDepth int `msgpack:"maxDepth"`
}

type noExcessiveNesting struct{}

func (noExcessiveNesting) Metadata() analyzer.RuleMetadata {
	return analyzer.RuleMetadata{
		Group:    "complexity",
		Name:     "noExcessiveNesting",
		Category: analyzer.CategoryLint,
		Severity: diag.SevWarning,
		Version:  "1.0.0",
		Sources:  []analyzer.RuleSource{{Tool: "eslint", Rule: "max-depth"}},
		Docs:     "Limit how deeply control statements may nest inside one function.",
	}
}

func (noExcessiveNesting) DefaultOptions() NestingOptions { return NestingOptions{MaxDepth: 4} }

func (noExcessiveNesting) Query() analyzer.Query[*syntax.Node] {
	return analyzer.NewAst(castNode, js.IfStatement, js.WhileStatement, js.ForStatement)
}

// Run reports only the statement that first crosses the limit, not each
// deeper one.
func (noExcessiveNesting) Run(ctx *analyzer.RuleContext[*syntax.Node, NestingOptions]) []int {
	stmt := ctx.Query()
	if isElseIf(stmt) {
		return nil
	}
	depth := nestingDepth(stmt)
	if limit := ctx.Options().MaxDepth; limit > 0 && depth == limit+1 {
		return []int{depth}
	}
	return nil
}

// nestingDepth counts stmt and the control statements around it up to the
// enclosing function. `else if` continues its chain instead of nesting.
func nestingDepth(stmt *syntax.Node) int {
	depth := 1
	for p := stmt.Parent(); p != nil && !js.IsFunction(p.Kind()); p = p.Parent() {
		switch p.Kind() {
		case js.IfStatement:
			if !isElseIf(p) {
				depth++
			}
		case js.WhileStatement, js.ForStatement:
			depth++
		}
	}
	return depth
}

func isElseIf(stmt *syntax.Node) bool {
	p := stmt.Parent()
	return stmt.Kind() == js.IfStatement && p != nil && p.Kind() == js.ElseClause
}

func (noExcessiveNesting) Diagnostic(ctx *analyzer.RuleContext[*syntax.Node, NestingOptions], depth int) *analyzer.RuleDiagnostic {
	stmt := ctx.Query()
	r := stmt.TextTrimmedRange()
	if kw := stmt.FirstToken(); kw != nil {
		r = kw.TextTrimmedRange()
	}
	return analyzer.NewRuleDiagnostic(r, diag.Msgf(
		"This statement is nested %d levels deep; the maximum allowed is %d.", depth, ctx.Options().MaxDepth,
	)).Note(diag.Markup(diag.Text("Extract the inner logic into a function or return early.")))
}
