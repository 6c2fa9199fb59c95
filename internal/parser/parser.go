package parser

import (
	"fmt"
	"slices"

	"verdant/internal/diag"
	"verdant/internal/lexer"
	"verdant/internal/source"
	"verdant/internal/syntax"
)

// Stream is the context-free view of a parser. Markers, recovery and the
// list helpers only need this much.
type Stream interface {
	Language() syntax.Language
	Source() string
	Cur() syntax.Kind
	CurRange() source.TextRange
	CurText() string
	Nth(n int) syntax.Kind
	NthAt(n int, kind syntax.Kind) bool
	At(kind syntax.Kind) bool
	AtTS(set TokenSet) bool
	AtEOF() bool
	HasPrecedingLineBreak() bool
	Bump(kind syntax.Kind)
	BumpAny()
	Eat(kind syntax.Kind) bool
	Expect(kind syntax.Kind) bool
	Error(msg diag.Message)
	ErrorAt(r source.TextRange, msg diag.Message)
	Start() Marker
	Checkpoint() Checkpoint
	Rewind(cp Checkpoint)
	IsSpeculative() bool
	base() *core
}

// core is the part of the parser that does not depend on the lexer context.
type core struct {
	lang        syntax.Language
	events      []Event
	diags       []diag.Diagnostic
	lastEnd     source.TextSize // конец последнего съеденного значимого токена
	consumed    bool
	speculative bool
}

func (s *core) push(ev Event) int {
	s.events = append(s.events, ev)
	return len(s.events) - 1
}

// report drops an error that starts where the previous one did: the first
// error at a position is the useful one, the rest are cascades.
func (s *core) report(d diag.Diagnostic) {
	if n := len(s.diags); n > 0 && s.diags[n-1].Range().Start == d.Range().Start {
		return
	}
	s.diags = append(s.diags, d)
}

// Checkpoint captures the parser state for a later Rewind.
type Checkpoint struct {
	eventPos  int
	diagCount int
	lastEnd   source.TextSize
	consumed  bool
	source    lexer.TokenSourceCheckpoint
}

// EventPos is the number of events at the checkpoint.
func (cp Checkpoint) EventPos() int { return cp.eventPos }

// DiagCount is the number of diagnostics at the checkpoint.
func (cp Checkpoint) DiagCount() int { return cp.diagCount }

// Position is the start of the current token at the checkpoint.
func (cp Checkpoint) Position() source.TextSize { return cp.source.Position() }

// Parser drives a TokenSource and records events. C is the lexer context type.
type Parser[C comparable] struct {
	core
	src *lexer.TokenSource[C]
}

// New creates a parser reading from src.
func New[C comparable](src *lexer.TokenSource[C]) *Parser[C] {
	return &Parser[C]{
		core: core{lang: src.Language()},
		src:  src,
	}
}

func (p *Parser[C]) base() *core { return &p.core }

func (p *Parser[C]) Language() syntax.Language { return p.lang }
func (p *Parser[C]) Source() string { return p.src.Source() }
func (p *Parser[C]) Cur() syntax.Kind { return p.src.Current() }
func (p *Parser[C]) CurRange() source.TextRange { return p.src.CurrentRange() }
func (p *Parser[C]) CurText() string { return p.src.CurrentText() }
func (p *Parser[C]) Nth(n int) syntax.Kind { return p.src.Nth(n) }
func (p *Parser[C]) NthAt(n int, kind syntax.Kind) bool { return p.src.Nth(n) == kind }
func (p *Parser[C]) At(kind syntax.Kind) bool { return p.Cur() == kind }
func (p *Parser[C]) AtTS(set TokenSet) bool { return set.Contains(p.Cur()) }
func (p *Parser[C]) AtEOF() bool { return p.Cur() == p.lang.EOF() }
func (p *Parser[C]) IsSpeculative() bool { return p.speculative }

// HasPrecedingLineBreak reports a newline between the previous token and the current one.
func (p *Parser[C]) HasPrecedingLineBreak() bool {
	return p.src.HasPrecedingLineBreak()
}

func (p *Parser[C]) HasNthPrecedingLineBreak(n int) bool {
	return p.src.HasNthPrecedingLineBreak(n)
}

// LastEnd is the end of the previously consumed token.
func (p *Parser[C]) LastEnd() (source.TextSize, bool) {
	return p.lastEnd, p.consumed
}

func (p *Parser[C]) pushToken(kind syntax.Kind, ctx C) {
	r := p.CurRange()
	p.push(Event{Kind: EventToken, NodeKind: kind, End: r.End})
	if kind != p.lang.EOF() {
		p.lastEnd = r.End
		p.consumed = true
	}
	p.src.BumpWithContext(ctx)
}

// Bump consumes the current token, which must be kind.
func (p *Parser[C]) Bump(kind syntax.Kind) {
	if !p.At(kind) {
		panic(fmt.Sprintf("parser: bump %s at %s", syntax.KindString(p.lang, kind), syntax.KindString(p.lang, p.Cur())))
	}
	p.BumpAny()
}

// BumpAny consumes whatever token is current.
func (p *Parser[C]) BumpAny() {
	var regular C
	p.pushToken(p.Cur(), regular)
}

// BumpTS consumes the current token, which must be in set.
func (p *Parser[C]) BumpTS(set TokenSet) {
	if !p.AtTS(set) {
		panic(fmt.Sprintf("parser: bump of a set at %s", syntax.KindString(p.lang, p.Cur())))
	}
	p.BumpAny()
}

// BumpRemap consumes the current token but records it as kind
// (contextual keywords lexed as identifiers).
func (p *Parser[C]) BumpRemap(kind syntax.Kind) {
	var regular C
	p.pushToken(kind, regular)
}

// BumpWithContext consumes the current token and lexes the next one under ctx.
func (p *Parser[C]) BumpWithContext(kind syntax.Kind, ctx C) {
	if !p.At(kind) {
		panic(fmt.Sprintf("parser: bump %s at %s", syntax.KindString(p.lang, kind), syntax.KindString(p.lang, p.Cur())))
	}
	p.pushToken(kind, ctx)
}

// Eat consumes the current token if it is kind.
func (p *Parser[C]) Eat(kind syntax.Kind) bool {
	if !p.At(kind) {
		return false
	}
	p.BumpAny()
	return true
}

// Expect consumes kind or reports it as missing.
func (p *Parser[C]) Expect(kind syntax.Kind) bool {
	if p.Eat(kind) {
		return true
	}
	p.ErrorAt(p.MissingRange(), Expected(p, DisplayKind(p.lang, kind)))
	return false
}

// ExpectWithContext is Expect that lexes the following token under ctx.
func (p *Parser[C]) ExpectWithContext(kind syntax.Kind, ctx C) bool {
	if p.At(kind) {
		p.BumpWithContext(kind, ctx)
		return true
	}
	p.ErrorAt(p.MissingRange(), Expected(p, DisplayKind(p.lang, kind)))
	return false
}

// MissingRange is where a missing token is reported: right after the previous
// token, or at the current token when nothing was consumed yet.
func (p *Parser[C]) MissingRange() source.TextRange {
	if p.consumed {
		return source.EmptyAt(p.lastEnd)
	}
	return p.CurRange()
}

// Error reports msg at the current token.
func (p *Parser[C]) Error(msg diag.Message) {
	p.ErrorAt(p.CurRange(), msg)
}

func (p *Parser[C]) ErrorAt(r source.TextRange, msg diag.Message) {
	p.report(diag.New(diag.CategoryParse, diag.SevError, r, msg))
}

// Errorf is a plain-text shortcut for Error.
func (p *Parser[C]) Errorf(format string, args ...any) {
	p.Error(diag.Msgf(format, args...))
}

// Start opens a marker at the current token.
func (p *Parser[C]) Start() Marker {
	pos := p.push(tombstone())
	return Marker{pos: pos, start: p.CurRange().Start}
}

func (p *Parser[C]) Checkpoint() Checkpoint {
	return Checkpoint{
		eventPos:  len(p.events),
		diagCount: len(p.diags),
		lastEnd:   p.lastEnd,
		consumed:  p.consumed,
		source:    p.src.Checkpoint(),
	}
}

func (p *Parser[C]) Rewind(cp Checkpoint) {
	p.events = p.events[:cp.eventPos]
	p.diags = p.diags[:cp.diagCount]
	p.lastEnd = cp.lastEnd
	p.consumed = cp.consumed
	p.src.Rewind(cp.source)
}

// Speculate runs fn with recovery disabled.
func (p *Parser[C]) Speculate(fn func() bool) bool {
	prev := p.speculative
	p.speculative = true
	defer func() { p.speculative = prev }()
	return fn()
}

// ReLex lexes the current token again under ctx.
func (p *Parser[C]) ReLex(ctx C) syntax.Kind {
	return p.src.ReLex(ctx)
}

// EventCount is the number of recorded events.
func (p *Parser[C]) EventCount() int { return len(p.events) }

// Diagnostics returns the parser diagnostics reported so far.
func (p *Parser[C]) Diagnostics() []diag.Diagnostic { return p.diags }

// Finish hands out the events, the trivia list and every diagnostic
// (lexer and parser) sorted by position.
func (p *Parser[C]) Finish() ([]Event, []lexer.TriviaEntry, []diag.Diagnostic) {
	trivia, lexDiags := p.src.Finish()
	diags := append(slices.Clip(lexDiags), p.diags...)
	slices.SortStableFunc(diags, func(a, b diag.Diagnostic) int {
		return a.Range().Compare(b.Range())
	})
	return p.events, trivia, diags
}
