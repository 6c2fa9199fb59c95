package lexer

import (
	"verdant/internal/diag"
	"verdant/internal/source"
	"verdant/internal/syntax"
)

// TriviaEntry is one trivia token seen by the token source.
type TriviaEntry struct {
	Kind     syntax.TriviaPieceKind
	Range    source.TextRange
	Trailing bool
}

// TokenSource hides trivia from the parser. Trivia is recorded in a flat list
// and tagged: trivia on the same line after a significant token is trailing,
// a newline and everything after it up to the next token is leading.
type TokenSource[C comparable] struct {
	lexer  *BufferedLexer[C]
	lang   syntax.Language
	trivia []TriviaEntry
}

// TokenSourceCheckpoint restores a TokenSource.
type TokenSourceCheckpoint struct {
	lexer     BufferedCheckpoint
	triviaLen int
}

// Position is the start of the current non-trivia token.
func (cp TokenSourceCheckpoint) Position() source.TextSize {
	return cp.lexer.current.Range.Start
}

// NewTokenSource positions the source on the first significant token.
func NewTokenSource[C comparable](lx Lexer[C], lang syntax.Language, regular C) *TokenSource[C] {
	ts := &TokenSource[C]{
		lexer: NewBufferedLexer(lx, regular),
		lang:  lang,
	}
	ts.nextNonTrivia(regular, true)
	return ts
}

func (s *TokenSource[C]) nextNonTrivia(ctx C, first bool) {
	trailing := !first
	for {
		kind := s.lexer.NextToken(ctx)
		piece, ok := s.lang.TriviaPiece(kind)
		if !ok {
			return
		}
		if piece == syntax.TriviaNewline {
			trailing = false
		}
		s.trivia = append(s.trivia, TriviaEntry{Kind: piece, Range: s.lexer.CurrentRange(), Trailing: trailing})
	}
}

func (s *TokenSource[C]) Language() syntax.Language { return s.lang }
func (s *TokenSource[C]) Current() syntax.Kind { return s.lexer.Current() }
func (s *TokenSource[C]) CurrentRange() source.TextRange { return s.lexer.CurrentRange() }
func (s *TokenSource[C]) CurrentFlags() TokenFlags { return s.lexer.CurrentFlags() }
func (s *TokenSource[C]) Source() string { return s.lexer.Source() }

// Position is the start offset of the current token.
func (s *TokenSource[C]) Position() source.TextSize { return s.lexer.CurrentRange().Start }

func (s *TokenSource[C]) CurrentText() string {
	return s.CurrentRange().Slice(s.lexer.Source())
}

// HasPrecedingLineBreak reports a line break between the previous and the current token.
func (s *TokenSource[C]) HasPrecedingLineBreak() bool {
	return s.lexer.CurrentFlags().HasPrecedingLineBreak()
}

// Bump advances past the current token under the regular context.
func (s *TokenSource[C]) Bump() {
	s.BumpWithContext(s.lexer.regular)
}

// BumpWithContext lexes the next token under ctx.
func (s *TokenSource[C]) BumpWithContext(ctx C) {
	if s.Current() == s.lang.EOF() {
		return
	}
	s.nextNonTrivia(ctx, false)
}

// SkipAsTrivia turns the current token into skipped trivia.
func (s *TokenSource[C]) SkipAsTrivia() {
	s.SkipAsTriviaWithContext(s.lexer.regular)
}

func (s *TokenSource[C]) SkipAsTriviaWithContext(ctx C) {
	if s.Current() == s.lang.EOF() {
		return
	}
	s.trivia = append(s.trivia, TriviaEntry{Kind: syntax.TriviaSkipped, Range: s.CurrentRange()})
	s.nextNonTrivia(ctx, true)
}

// nthToken finds the n-th significant token ahead; 0 is the current one.
func (s *TokenSource[C]) nthToken(n int) LookaheadToken {
	if n == 0 {
		return s.lexer.current
	}
	eof := s.lang.EOF()
	for i := 1; ; i++ {
		tok := s.lexer.Lookahead(i)
		if s.lang.IsTrivia(tok.Kind) {
			continue
		}
		n--
		if n == 0 || tok.Kind == eof {
			return tok
		}
	}
}

// Nth returns the kind of the n-th significant token ahead; Nth(0) == Current().
func (s *TokenSource[C]) Nth(n int) syntax.Kind {
	return s.nthToken(n).Kind
}

func (s *TokenSource[C]) NthNonTriviaRange(n int) source.TextRange {
	return s.nthToken(n).Range
}

func (s *TokenSource[C]) HasNthPrecedingLineBreak(n int) bool {
	return s.nthToken(n).HasPrecedingLineBreak()
}

// ReLex lexes the current token again under ctx and returns its new kind.
func (s *TokenSource[C]) ReLex(ctx C) syntax.Kind {
	return s.lexer.ReLex(ctx)
}

func (s *TokenSource[C]) Checkpoint() TokenSourceCheckpoint {
	return TokenSourceCheckpoint{lexer: s.lexer.Checkpoint(), triviaLen: len(s.trivia)}
}

func (s *TokenSource[C]) Rewind(cp TokenSourceCheckpoint) {
	s.lexer.Rewind(cp.lexer)
	if cp.triviaLen <= len(s.trivia) {
		s.trivia = s.trivia[:cp.triviaLen]
	}
}

// Trivia returns the trivia recorded so far.
func (s *TokenSource[C]) Trivia() []TriviaEntry { return s.trivia }

// Finish returns the trivia list and the lexer diagnostics.
func (s *TokenSource[C]) Finish() ([]TriviaEntry, []diag.Diagnostic) {
	return s.trivia, s.lexer.Finish()
}
