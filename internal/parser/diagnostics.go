package parser

import (
	"strings"

	"verdant/internal/diag"
	"verdant/internal/source"
	"verdant/internal/syntax"
)

// Expected builds "expected `what` but instead found `cur`".
func Expected(p Stream, what string) diag.Message {
	return diag.Markup(diag.Text("expected "), diag.Code(what), diag.Text(" but instead ")).
		Append(found(p)...)
}

// ExpectedAny lists several alternatives: "expected `a`, `b` or `c` ...".
func ExpectedAny(p Stream, names ...string) diag.Message {
	msg := diag.Markup(diag.Text("expected "))
	for i, n := range names {
		switch {
		case i == 0:
		case i == len(names)-1:
			msg = msg.Append(diag.Text(" or "))
		default:
			msg = msg.Append(diag.Text(", "))
		}
		msg = msg.Append(diag.Code(n))
	}
	return msg.Append(diag.Text(" but instead ")).Append(found(p)...)
}

// ExpectedNode is a DiagnosticBuilder for a missing production, e.g. "an
// expression". The found part quotes the text at r.
func ExpectedNode(name string) DiagnosticBuilder {
	return func(p Stream, r source.TextRange) diag.Message {
		msg := diag.Markup(diag.Text("expected " + name + " but instead "))
		if r.Empty() {
			return msg.Append(found(p)...)
		}
		return msg.Append(diag.Text("found "), diag.Code(strings.TrimSpace(r.Slice(p.Source()))))
	}
}

func found(p Stream) []diag.MarkupNode {
	if p.AtEOF() {
		return []diag.MarkupNode{diag.Text("the file ends")}
	}
	text := strings.TrimSpace(p.CurText())
	return []diag.MarkupNode{diag.Text("found "), diag.Code(text)}
}

// TokenTexter is implemented by languages that can spell a token kind
// (`,` instead of COMMA) for diagnostics.
type TokenTexter interface {
	TokenText(k syntax.Kind) string
}

// DisplayKind spells k for a diagnostic.
func DisplayKind(lang syntax.Language, k syntax.Kind) string {
	if t, ok := lang.(TokenTexter); ok {
		if s := t.TokenText(k); s != "" {
			return s
		}
	}
	return syntax.KindString(lang, k)
}
