package jsanalyze

import (
	"verdant/internal/analyzer"
	"verdant/internal/diag"
	"verdant/internal/lang/js"
	"verdant/internal/syntax"
)

// DoubleEqualsOptions configures suspicious/noDoubleEquals.
type DoubleEqualsOptions struct {
	// IgnoreNull allows `== null` and `!= null`, which also match undefined.
	IgnoreNull bool `msgpack:"ignoreNull"`
}

type noDoubleEquals struct{}

func (noDoubleEquals) Metadata() analyzer.RuleMetadata {
	return analyzer.RuleMetadata{
		Group:       "suspicious",
		Name:        "noDoubleEquals",
		Category:    analyzer.CategoryLint,
		Severity:    diag.SevError,
		Version:     "1.0.0",
		Recommended: true,
		FixKind:     analyzer.FixSafe,
		Sources:     []analyzer.RuleSource{{Tool: "eslint", Rule: "eqeqeq"}},
		Docs:        "Require the use of `===` and `!==`.",
	}
}

func (noDoubleEquals) DefaultOptions() DoubleEqualsOptions {
	return DoubleEqualsOptions{IgnoreNull: true}
}

func (noDoubleEquals) Query() analyzer.Query[js.BinaryExpressionNode] {
	return analyzer.NewAst(js.CastBinaryExpression, js.BinaryExpression)
}

func (noDoubleEquals) Run(ctx *analyzer.RuleContext[js.BinaryExpressionNode, DoubleEqualsOptions]) []*syntax.Token {
	expr := ctx.Query()
	op, err := expr.Operator()
	if err != nil || op.Kind() != js.Eq2 && op.Kind() != js.Neq {
		return nil
	}
	if ctx.Options().IgnoreNull && (isNullLiteral(expr.Left) || isNullLiteral(expr.Right)) {
		return nil
	}
	return []*syntax.Token{op}
}

func isNullLiteral(side func() (*syntax.Node, error)) bool {
	n, err := side()
	return err == nil && n.Kind() == js.NullLiteralExpression
}

func (noDoubleEquals) Diagnostic(ctx *analyzer.RuleContext[js.BinaryExpressionNode, DoubleEqualsOptions], op *syntax.Token) *analyzer.RuleDiagnostic {
	strict := strictOperator(op)
	d := analyzer.NewRuleDiagnostic(op.TextTrimmedRange(), diag.Markup(
		diag.Text("Use "), diag.Code(strict), diag.Text(" instead of "), diag.Code(op.TextTrimmed()),
	))
	if ctx.Options().IgnoreNull {
		d.Note(diag.Markup(
			diag.Code(op.TextTrimmed()), diag.Text(" is only allowed when comparing against "), diag.Code("null"),
		))
	}
	return d.Note(diag.Markup(
		diag.Text("Using "), diag.Code(strict), diag.Text(" may be unsafe if you are relying on type coercion."),
	))
}

func (noDoubleEquals) Action(ctx *analyzer.RuleContext[js.BinaryExpressionNode, DoubleEqualsOptions], op *syntax.Token) []analyzer.RuleAction {
	strict := strictOperator(op)
	kind := js.Eq3
	if op.Kind() == js.Neq {
		kind = js.Neq2
	}
	m := ctx.NewMutation()
	m.ReplaceTokenTransferTrivia(op, syntax.NewToken(kind, strict))
	return []analyzer.RuleAction{ctx.Action(diag.Markup(diag.Text("Use "), diag.Code(strict)), m)}
}

func strictOperator(op *syntax.Token) string {
	if op.Kind() == js.Neq {
		return "!=="
	}
	return "==="
}
