package diag

import (
	"fmt"
	"strings"
)

// MarkupKind tags a piece of a diagnostic message.
type MarkupKind uint8

const (
	MarkupText MarkupKind = iota
	MarkupEmphasis
	MarkupCode
	MarkupLink
)

// MarkupNode is one inline element of a message.
type MarkupNode struct {
	Kind MarkupKind `json:"kind" msgpack:"kind"`
	Text string     `json:"text" msgpack:"text"`
	Href string     `json:"href,omitempty" msgpack:"href,omitempty"`
}

// Message is a flat sequence of inline markup. Renderers decide how each kind
// looks; String drops the markup.
type Message []MarkupNode

func Text(s string) MarkupNode { return MarkupNode{Kind: MarkupText, Text: s} }
func Emphasis(s string) MarkupNode { return MarkupNode{Kind: MarkupEmphasis, Text: s} }
func Code(s string) MarkupNode { return MarkupNode{Kind: MarkupCode, Text: s} }

func Link(text, href string) MarkupNode {
	return MarkupNode{Kind: MarkupLink, Text: text, Href: href}
}

// Markup builds a message from nodes.
func Markup(nodes ...MarkupNode) Message {
	return Message(nodes)
}

// Msgf builds a plain-text message.
func Msgf(format string, args ...any) Message {
	return Message{Text(fmt.Sprintf(format, args...))}
}

// String renders the message as plain text; code spans keep their backticks.
func (m Message) String() string {
	var b strings.Builder
	for _, n := range m {
		if n.Kind == MarkupCode {
			b.WriteByte('`')
			b.WriteString(n.Text)
			b.WriteByte('`')
			continue
		}
		b.WriteString(n.Text)
	}
	return b.String()
}

// Append returns a new message with nodes added.
func (m Message) Append(nodes ...MarkupNode) Message {
	out := make(Message, 0, len(m)+len(nodes))
	out = append(out, m...)
	return append(out, nodes...)
}
