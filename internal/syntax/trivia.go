package syntax

import "verdant/internal/source"

// TriviaPieceKind classifies a run of trivia attached to a token.
type TriviaPieceKind uint8

const (
	TriviaWhitespace TriviaPieceKind = iota
	TriviaNewline
	TriviaSingleLineComment
	TriviaMultiLineComment
	// TriviaSkipped covers bytes dropped by the lexer or parser.
	TriviaSkipped
)

func (k TriviaPieceKind) String() string {
	switch k {
	case TriviaWhitespace:
		return "Whitespace"
	case TriviaNewline:
		return "Newline"
	case TriviaSingleLineComment:
		return "SingleLineComment"
	case TriviaMultiLineComment:
		return "MultiLineComment"
	case TriviaSkipped:
		return "Skipped"
	default:
		return "Unknown"
	}
}

// IsComment reports comment pieces.
func (k TriviaPieceKind) IsComment() bool {
	return k == TriviaSingleLineComment || k == TriviaMultiLineComment
}

// TriviaPiece is the green form of trivia: only kind and length.
type TriviaPiece struct {
	Kind TriviaPieceKind
	Len  source.TextSize
}

func piecesLen(pieces []TriviaPiece) source.TextSize {
	var n source.TextSize
	for _, p := range pieces {
		n += p.Len
	}
	return n
}

// Trivia is a positioned piece of trivia read from a red token.
type Trivia struct {
	Kind  TriviaPieceKind
	Text  string
	Range source.TextRange
}

// IsNewline and IsComment are shortcuts used by suppression scanners.
func (t Trivia) IsNewline() bool { return t.Kind == TriviaNewline }
func (t Trivia) IsComment() bool { return t.Kind.IsComment() }

func expandTrivia(text string, start source.TextSize, pieces []TriviaPiece) []Trivia {
	if len(pieces) == 0 {
		return nil
	}
	out := make([]Trivia, 0, len(pieces))
	var off source.TextSize
	for _, p := range pieces {
		r := source.RangeAt(off, p.Len)
		out = append(out, Trivia{Kind: p.Kind, Text: r.Slice(text), Range: r.Add(start)})
		off += p.Len
	}
	return out
}
