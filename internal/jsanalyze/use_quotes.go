package jsanalyze

import (
	"strings"

	"verdant/internal/analyzer"
	"verdant/internal/diag"
	"verdant/internal/lang/js"
	"verdant/internal/syntax"
)

// useQuotes is an assist: it never reports, it only offers to rewrite string
// literals to the preferred quote.
type useQuotes struct{}

func (useQuotes) Metadata() analyzer.RuleMetadata {
	return analyzer.RuleMetadata{
		Group:    "style",
		Name:     "useQuotes",
		Category: analyzer.CategoryAction,
		Severity: diag.SevInfo,
		Version:  "1.0.0",
		FixKind:  analyzer.FixSafe,
		Docs:     "Rewrite string literals to the preferred quote style.",
	}
}

func (useQuotes) Query() analyzer.Query[*syntax.Token] {
	return analyzer.NewAst(castStringToken, js.StringLiteralExpression, js.ModuleSource)
}

func castStringToken(n *syntax.Node) (*syntax.Token, bool) {
	tok := n.FindToken(js.StringLiteral)
	return tok, tok != nil
}

func (useQuotes) Run(ctx *analyzer.RuleContext[*syntax.Token, analyzer.NoOptions]) []string {
	tok := ctx.Query()
	text := tok.TextTrimmed()
	want := ctx.PreferredQuote().Char()
	if len(text) < 2 || text[0] == want {
		return nil
	}
	body := text[1 : len(text)-1]
	// переписываем только если новых экранирований не появится
	if strings.IndexByte(body, want) >= 0 {
		return nil
	}
	return []string{string(want) + requote(body, text[0]) + string(want)}
}

// requote drops the escapes of the old quote; the body holds no bare new quote.
func requote(body string, old byte) string {
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			if body[i+1] != old {
				b.WriteByte('\\')
			}
			b.WriteByte(body[i+1])
			i++
			continue
		}
		b.WriteByte(body[i])
	}
	return b.String()
}

func (useQuotes) Diagnostic(*analyzer.RuleContext[*syntax.Token, analyzer.NoOptions], string) *analyzer.RuleDiagnostic {
	return nil
}

func (useQuotes) Action(ctx *analyzer.RuleContext[*syntax.Token, analyzer.NoOptions], text string) []analyzer.RuleAction {
	m := ctx.NewMutation()
	m.ReplaceTokenTransferTrivia(ctx.Query(), syntax.NewToken(js.StringLiteral, text))
	return []analyzer.RuleAction{ctx.Action(diag.Markup(diag.Text("Use "), diag.Code(text), diag.Text(".")), m)}
}
