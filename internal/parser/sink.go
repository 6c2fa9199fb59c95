package parser

import (
	"fmt"

	"verdant/internal/diag"
	"verdant/internal/lexer"
	"verdant/internal/source"
	"verdant/internal/syntax"
)

// LosslessTreeSink builds a green tree from events, attaching every trivia
// entry to a token so that the tree text equals the source text.
type LosslessTreeSink struct {
	text    string
	trivia  []lexer.TriviaEntry
	next    int // следующая непривязанная trivia
	pos     source.TextSize
	depth   int
	builder *syntax.GreenBuilder
	pieces  []syntax.TriviaPiece
}

var _ TreeSink = (*LosslessTreeSink)(nil)

// NewLosslessTreeSink creates a sink over text; cache may be nil.
func NewLosslessTreeSink(text string, trivia []lexer.TriviaEntry, cache *syntax.NodeCache) *LosslessTreeSink {
	return &LosslessTreeSink{
		text:    text,
		trivia:  trivia,
		builder: syntax.NewGreenBuilder(cache),
	}
}

func (s *LosslessTreeSink) StartNode(kind syntax.Kind) {
	s.depth++
	s.builder.StartNode(kind)
}

func (s *LosslessTreeSink) FinishNode() {
	s.depth--
	s.builder.FinishNode()
}

// Token attaches the leading trivia before the token and the trailing trivia
// after it, then emits the token with its full text.
func (s *LosslessTreeSink) Token(kind syntax.Kind, end source.TextSize) {
	start := s.pos
	s.eatTrivia(false)
	leading := len(s.pieces)
	s.pos = end
	s.eatTrivia(true)

	text := s.text[start:s.pos]
	s.builder.Token(kind, text, clonePieces(s.pieces[:leading]), clonePieces(s.pieces[leading:]))
	s.pieces = s.pieces[:0]
}

func (s *LosslessTreeSink) eatTrivia(trailing bool) {
	for s.next < len(s.trivia) {
		t := s.trivia[s.next]
		if t.Trailing != trailing || t.Range.Start != s.pos {
			return
		}
		s.pieces = append(s.pieces, syntax.TriviaPiece{Kind: t.Kind, Len: t.Range.Len()})
		s.pos = t.Range.End
		s.next++
	}
}

// Finish returns the root. Every byte of the text must have been attached.
func (s *LosslessTreeSink) Finish() (*syntax.GreenNode, error) {
	if s.depth != 0 {
		return nil, fmt.Errorf("unbalanced events: %d nodes left open", s.depth)
	}
	if int(s.pos) != len(s.text) || s.next != len(s.trivia) {
		return nil, fmt.Errorf("tree covers %d of %d bytes (%d of %d trivia attached)",
			s.pos, len(s.text), s.next, len(s.trivia))
	}
	return s.builder.Finish(), nil
}

func clonePieces(p []syntax.TriviaPiece) []syntax.TriviaPiece {
	if len(p) == 0 {
		return nil
	}
	return append([]syntax.TriviaPiece(nil), p...)
}

// BuildTree replays events into a LosslessTreeSink.
func BuildTree(text string, events []Event, trivia []lexer.TriviaEntry, cache *syntax.NodeCache) (*syntax.GreenNode, error) {
	sink := NewLosslessTreeSink(text, trivia, cache)
	ProcessEvents(events, sink)
	return sink.Finish()
}

// FinishTree finishes the parse and builds the green tree. A tree that does not
// cover the text is a grammar bug, not a user error, so it panics.
func (p *Parser[C]) FinishTree(cache *syntax.NodeCache) (*syntax.GreenNode, []diag.Diagnostic) {
	events, trivia, diags := p.Finish()
	green, err := BuildTree(p.Source(), events, trivia, cache)
	if err != nil {
		panic(fmt.Errorf("%s parser: %w", p.lang.Name(), err))
	}
	return green, diags
}
