package lexer

import (
	"verdant/internal/diag"
	"verdant/internal/source"
	"verdant/internal/syntax"
)

// TokenFlags describe facts about a token that are not part of its kind.
type TokenFlags uint8

const (
	// FlagPrecedingLineBreak: между предыдущим значимым токеном и этим был перевод строки
	FlagPrecedingLineBreak TokenFlags = 1 << iota
	// FlagUnicodeEscape: идентификатор содержит \uXXXX
	FlagUnicodeEscape
)

func (f TokenFlags) HasPrecedingLineBreak() bool { return f&FlagPrecedingLineBreak != 0 }
func (f TokenFlags) HasUnicodeEscape() bool { return f&FlagUnicodeEscape != 0 }

// Checkpoint is a full snapshot of a lexer built on Base.
type Checkpoint struct {
	Position     source.TextSize
	CurrentStart source.TextSize
	CurrentKind  syntax.Kind
	CurrentFlags TokenFlags
	AfterNewline bool
	DiagCount    int
	// State is reserved for language specific modes (template depth and so on).
	State uint32
}

// Lexer is the contract every language lexer implements. C selects a
// sub-lexer mode; languages without modes use struct{}.
type Lexer[C comparable] interface {
	// NextToken advances past exactly one token, trivia included.
	NextToken(ctx C) syntax.Kind
	Current() syntax.Kind
	CurrentRange() source.TextRange
	CurrentFlags() TokenFlags
	// Position is the offset right after the current token.
	Position() source.TextSize
	Checkpoint() Checkpoint
	Rewind(cp Checkpoint)
	// ReLex rewinds to the start of the current token and lexes it again under ctx.
	ReLex(ctx C) syntax.Kind
	Source() string
	// Finish drains the collected diagnostics.
	Finish() []diag.Diagnostic
}

// Base is the shared state languages embed in their lexers. It tracks the
// current token and everything Checkpoint has to restore; the language only
// decides what a token is.
type Base struct {
	Cursor
	eof          syntax.Kind
	current      syntax.Kind
	start        source.TextSize
	flags        TokenFlags
	afterNewline bool
	diags        []diag.Diagnostic
	// State is saved and restored together with the checkpoint.
	State uint32
}

// NewBase prepares lexer state over text; eof is the language's end token kind.
func NewBase(text string, eof syntax.Kind) Base {
	return Base{Cursor: NewCursor(text), eof: eof, current: syntax.Tombstone}
}

func (b *Base) Current() syntax.Kind { return b.current }
func (b *Base) CurrentFlags() TokenFlags { return b.flags }
func (b *Base) Position() source.TextSize { return b.Off }
func (b *Base) Source() string { return b.Text }

func (b *Base) CurrentRange() source.TextRange {
	return source.TextRange{Start: b.start, End: b.Off}
}

// CurrentText returns the source text of the current token.
func (b *Base) CurrentText() string {
	return b.Text[b.start:b.Off]
}

// StartToken begins a new token at the cursor.
func (b *Base) StartToken() {
	b.start = b.Off
	b.flags = 0
	if b.afterNewline {
		b.flags |= FlagPrecedingLineBreak
	}
}

// SetFlag adds a flag to the token being lexed.
func (b *Base) SetFlag(f TokenFlags) {
	b.flags |= f
}

// Emit finishes a significant token.
func (b *Base) Emit(kind syntax.Kind) syntax.Kind {
	b.current = kind
	b.afterNewline = false
	return kind
}

// EmitTrivia finishes a trivia token; newline marks that the trivia contained
// a line terminator, which flags the next significant token.
func (b *Base) EmitTrivia(kind syntax.Kind, newline bool) syntax.Kind {
	b.current = kind
	if newline {
		b.afterNewline = true
	}
	return kind
}

// EmitEOF finishes the stream; calling it again keeps returning EOF.
func (b *Base) EmitEOF() syntax.Kind {
	b.StartToken()
	return b.Emit(b.eof)
}

// Error records a lexer diagnostic.
func (b *Base) Error(r source.TextRange, format string, args ...any) {
	b.diags = append(b.diags, diag.NewError(diag.CategoryLex, r, format, args...))
}

// Report appends a prepared diagnostic.
func (b *Base) Report(d diag.Diagnostic) {
	b.diags = append(b.diags, d)
}

func (b *Base) Checkpoint() Checkpoint {
	return Checkpoint{
		Position:     b.Off,
		CurrentStart: b.start,
		CurrentKind:  b.current,
		CurrentFlags: b.flags,
		AfterNewline: b.afterNewline,
		DiagCount:    len(b.diags),
		State:        b.State,
	}
}

func (b *Base) Rewind(cp Checkpoint) {
	b.Off = cp.Position
	b.start = cp.CurrentStart
	b.current = cp.CurrentKind
	b.flags = cp.CurrentFlags
	b.afterNewline = cp.AfterNewline
	b.State = cp.State
	if cp.DiagCount <= len(b.diags) {
		b.diags = b.diags[:cp.DiagCount]
	}
}

// RewindToTokenStart prepares a re-lex of the current token: diagnostics it
// produced are dropped and the line break state is restored from its flags.
func (b *Base) RewindToTokenStart() {
	for len(b.diags) > 0 && b.diags[len(b.diags)-1].Range().Start >= b.start {
		b.diags = b.diags[:len(b.diags)-1]
	}
	b.Off = b.start
	b.afterNewline = b.flags.HasPrecedingLineBreak()
}

func (b *Base) Finish() []diag.Diagnostic {
	out := b.diags
	b.diags = nil
	return out
}
