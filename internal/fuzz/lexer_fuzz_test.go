package fuzztests

import (
	"testing"

	"verdant/internal/lang/js"
	jsonlang "verdant/internal/lang/json"
	"verdant/internal/lexer"
	"verdant/internal/source"
)

// checkTokens asserts that tokens, trivia included, tile text without gaps
// and end with a single empty EOF token.
func checkTokens(t *testing.T, text string, tokens []lexer.Token) {
	t.Helper()
	if len(tokens) == 0 {
		t.Fatalf("no tokens for %q", text)
	}
	var pos source.TextSize
	for i, tok := range tokens {
		if tok.Range.Start != pos {
			t.Fatalf("token %d (%v) starts at %d, want %d", i, tok.Kind, tok.Range.Start, pos)
		}
		if tok.Range.End < tok.Range.Start {
			t.Fatalf("token %d has inverted range %v", i, tok.Range)
		}
		if tok.Range.Empty() && i != len(tokens)-1 {
			t.Fatalf("empty non-EOF token %d (%v) at %d", i, tok.Kind, pos)
		}
		pos = tok.Range.End
	}
	if pos != source.SizeOf(len(text)) {
		t.Fatalf("tokens cover %d of %d bytes", pos, len(text))
	}
}

func FuzzJSTokens(f *testing.F) {
	addJSSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		text := clampInput(input)
		tokens, _ := js.Tokenize(text, js.ParserOptions{GritMetavariables: true})
		checkTokens(t, text, tokens)
	})
}

func FuzzJSONTokens(f *testing.F) {
	addJSONSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		text := clampInput(input)
		tokens, _ := jsonlang.Tokenize(text, jsonlang.ParseOptions{AllowComments: true})
		checkTokens(t, text, tokens)
	})
}
