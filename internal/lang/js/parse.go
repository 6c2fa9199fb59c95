package js

import (
	"verdant/internal/diag"
	"verdant/internal/lexer"
	"verdant/internal/parser"
	"verdant/internal/syntax"
)

// Parsed is a parsed JS file: the lossless tree, the source it was parsed as
// and every lexer and parser diagnostic.
type Parsed struct {
	Root        *syntax.Node
	Source      FileSource
	Diagnostics []diag.Diagnostic
}

func (p *Parsed) HasErrors() bool {
	for _, d := range p.Diagnostics {
		if d.Severity >= diag.SevError {
			return true
		}
	}
	return false
}

// Parse never fails. Syntax errors end up as bogus nodes plus diagnostics, the
// tree text always equals text. cache may be nil.
func Parse(text string, src FileSource, opts ParserOptions, cache *syntax.NodeCache) *Parsed {
	lx := NewLexer(text, opts)
	p := &jsParser{
		Parser: parser.New(lexer.NewTokenSource[Context](lx, Language, CtxRegular)),
		source: src,
		opts:   opts,
	}
	p.parseProgram()
	green, diags := p.FinishTree(cache)
	return &Parsed{Root: syntax.NewRoot(Language, green), Source: src, Diagnostics: diags}
}

// Tokenize lexes text in the regular context. Regex literals and template
// bodies need the parser to pick the context and come out as plain tokens.
func Tokenize(text string, opts ParserOptions) ([]lexer.Token, []diag.Diagnostic) {
	return lexer.Tokenize[Context](NewLexer(text, opts), EOF, CtxRegular)
}
