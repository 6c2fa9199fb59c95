package lexer

import (
	"verdant/internal/diag"
	"verdant/internal/source"
	"verdant/internal/syntax"
)

// LookaheadToken is one buffered token.
type LookaheadToken struct {
	Kind  syntax.Kind
	Range source.TextRange
	Flags TokenFlags
	after Checkpoint // состояние лексера сразу после этого токена
}

func (t LookaheadToken) HasPrecedingLineBreak() bool {
	return t.Flags.HasPrecedingLineBreak()
}

// BufferedLexer wraps a lexer with n-token lookahead. Lookahead is always
// lexed under the regular context; asking for any other context discards the
// buffer and rewinds the inner lexer to the end of the current token.
type BufferedLexer[C comparable] struct {
	inner   Lexer[C]
	regular C
	current LookaheadToken
	buffer  []LookaheadToken
	// afterCurrent is set while the inner lexer runs ahead of current.
	afterCurrent *Checkpoint
}

// BufferedCheckpoint restores a BufferedLexer.
type BufferedCheckpoint struct {
	inner   Checkpoint
	current LookaheadToken
}

// Position of the end of the current token.
func (cp BufferedCheckpoint) Position() source.TextSize {
	return cp.current.Range.End
}

func NewBufferedLexer[C comparable](inner Lexer[C], regular C) *BufferedLexer[C] {
	return &BufferedLexer[C]{inner: inner, regular: regular}
}

func (b *BufferedLexer[C]) Inner() Lexer[C] { return b.inner }
func (b *BufferedLexer[C]) Current() syntax.Kind { return b.current.Kind }
func (b *BufferedLexer[C]) CurrentRange() source.TextRange { return b.current.Range }
func (b *BufferedLexer[C]) CurrentFlags() TokenFlags { return b.current.Flags }
func (b *BufferedLexer[C]) Source() string { return b.inner.Source() }

// NextToken advances to the next token, reusing the lookahead buffer when ctx
// is the regular context.
func (b *BufferedLexer[C]) NextToken(ctx C) syntax.Kind {
	if ctx == b.regular && len(b.buffer) > 0 {
		next := b.buffer[0]
		b.buffer = b.buffer[1:]
		if len(b.buffer) == 0 {
			b.afterCurrent = nil
		} else {
			after := next.after
			b.afterCurrent = &after
		}
		b.current = next
		return next.Kind
	}
	b.resetLookahead()
	kind := b.inner.NextToken(ctx)
	b.current = b.snapshot(kind)
	return kind
}

// Lookahead returns the n-th token after the current one (n >= 1), lexing
// more tokens on demand. Past the end the lexer keeps producing EOF.
func (b *BufferedLexer[C]) Lookahead(n int) LookaheadToken {
	if n <= 0 {
		return b.current
	}
	for len(b.buffer) < n {
		if b.afterCurrent == nil {
			cp := b.inner.Checkpoint()
			b.afterCurrent = &cp
		}
		kind := b.inner.NextToken(b.regular)
		b.buffer = append(b.buffer, b.snapshot(kind))
	}
	return b.buffer[n-1]
}

func (b *BufferedLexer[C]) snapshot(kind syntax.Kind) LookaheadToken {
	return LookaheadToken{
		Kind:  kind,
		Range: b.inner.CurrentRange(),
		Flags: b.inner.CurrentFlags(),
		after: b.inner.Checkpoint(),
	}
}

func (b *BufferedLexer[C]) resetLookahead() {
	if b.afterCurrent != nil {
		b.inner.Rewind(*b.afterCurrent)
		b.afterCurrent = nil
	}
	b.buffer = b.buffer[:0]
}

// ReLex lexes the current token again under ctx, discarding the lookahead.
func (b *BufferedLexer[C]) ReLex(ctx C) syntax.Kind {
	b.resetLookahead()
	kind := b.inner.ReLex(ctx)
	b.current = b.snapshot(kind)
	return kind
}

func (b *BufferedLexer[C]) Checkpoint() BufferedCheckpoint {
	inner := b.inner.Checkpoint()
	if b.afterCurrent != nil {
		inner = *b.afterCurrent
	}
	return BufferedCheckpoint{inner: inner, current: b.current}
}

func (b *BufferedLexer[C]) Rewind(cp BufferedCheckpoint) {
	b.inner.Rewind(cp.inner)
	b.buffer = b.buffer[:0]
	b.afterCurrent = nil
	b.current = cp.current
}

// Finish drains the inner lexer's diagnostics. Lookahead past the current
// token is discarded first so its diagnostics do not leak.
func (b *BufferedLexer[C]) Finish() []diag.Diagnostic {
	b.resetLookahead()
	return b.inner.Finish()
}
