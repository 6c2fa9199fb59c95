package lexer

import (
	"verdant/internal/diag"
	"verdant/internal/source"
	"verdant/internal/syntax"
)

// Token is one lexed token, trivia included.
type Token struct {
	Kind  syntax.Kind
	Range source.TextRange
	Flags TokenFlags
}

// Tokenize drives lx under the regular context until EOF. The EOF token is the
// last element of the result.
func Tokenize[C comparable](lx Lexer[C], eof syntax.Kind, regular C) ([]Token, []diag.Diagnostic) {
	var out []Token
	for {
		kind := lx.NextToken(regular)
		out = append(out, Token{Kind: kind, Range: lx.CurrentRange(), Flags: lx.CurrentFlags()})
		if kind == eof {
			return out, lx.Finish()
		}
	}
}
