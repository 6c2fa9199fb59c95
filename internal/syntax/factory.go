package syntax

import (
	"strings"

	"verdant/internal/source"
)

// NewToken creates a detached green token without trivia.
func NewToken(kind Kind, text string) *GreenToken {
	return NewGreenToken(kind, text, nil, nil)
}

// NewTokenWithTrivia creates a detached green token. Only Kind and Text of the
// trivia values are used.
func NewTokenWithTrivia(kind Kind, leading []Trivia, text string, trailing []Trivia) *GreenToken {
	var b strings.Builder
	lp := make([]TriviaPiece, 0, len(leading))
	for _, t := range leading {
		b.WriteString(t.Text)
		lp = append(lp, TriviaPiece{Kind: t.Kind, Len: source.SizeOf(len(t.Text))})
	}
	b.WriteString(text)
	tp := make([]TriviaPiece, 0, len(trailing))
	for _, t := range trailing {
		b.WriteString(t.Text)
		tp = append(tp, TriviaPiece{Kind: t.Kind, Len: source.SizeOf(len(t.Text))})
	}
	return NewGreenToken(kind, b.String(), lp, tp)
}

// NewNode creates a detached green node.
func NewNode(kind Kind, children ...GreenElement) *GreenNode {
	return NewGreenNode(kind, children)
}

// Whitespace is a shortcut for a single whitespace trivia value.
func Whitespace(text string) Trivia {
	return Trivia{Kind: TriviaWhitespace, Text: text}
}

func greenText(elems []GreenElement) string {
	var b strings.Builder
	for _, el := range elems {
		el.writeText(&b)
	}
	return b.String()
}
