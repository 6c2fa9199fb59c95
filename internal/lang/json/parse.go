package json

import (
	"verdant/internal/diag"
	"verdant/internal/lexer"
	"verdant/internal/parser"
	"verdant/internal/syntax"
)

// ParseOptions relax the strict JSON grammar.
type ParseOptions struct {
	// AllowComments accepts `//` and `/* */` comments (JSONC).
	AllowComments bool
	// AllowTrailingCommas accepts a comma after the last member or element.
	AllowTrailingCommas bool
}

// Parsed is the result of a parse: a lossless tree and everything reported on the way.
type Parsed struct {
	Root        *syntax.Node
	Diagnostics []diag.Diagnostic
}

// Tree returns the typed root.
func (p *Parsed) Tree() RootNode { return RootNode{p.Root} }

func (p *Parsed) HasErrors() bool {
	for _, d := range p.Diagnostics {
		if d.Severity >= diag.SevError {
			return true
		}
	}
	return false
}

// Parse never fails: malformed input yields bogus nodes and diagnostics. Trees
// built with the same cache share identical green subtrees; cache may be nil.
func Parse(text string, opts ParseOptions, cache *syntax.NodeCache) *Parsed {
	lx := NewLexer(text, opts.AllowComments)
	p := parser.New(lexer.NewTokenSource[struct{}](lx, Language, struct{}{}))
	grammar{opts: opts}.parseRoot(p)
	green, diags := p.FinishTree(cache)
	return &Parsed{Root: syntax.NewRoot(Language, green), Diagnostics: diags}
}

// Tokenize lexes text without parsing it, trivia included.
func Tokenize(text string, opts ParseOptions) ([]lexer.Token, []diag.Diagnostic) {
	return lexer.Tokenize[struct{}](NewLexer(text, opts.AllowComments), EOF, struct{}{})
}
