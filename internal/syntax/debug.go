package syntax

import (
	"fmt"
	"strings"
)

// DebugString dumps the subtree one element per line, tokens with their trivia.
//
//	JSON_ROOT@0..3
//	  JSON_NUMBER_VALUE@0..2
//	    JSON_NUMBER_LITERAL@0..2 "1" [] [Whitespace(" ")]
//	  EOF@2..3 "" [Newline("\n")] []
func (n *Node) DebugString() string {
	var b strings.Builder
	depth := 0
	for ev := range n.PreorderWithTokens() {
		switch el := ev.Element.(type) {
		case *Node:
			if ev.Kind == WalkLeave {
				depth--
				continue
			}
			writeIndent(&b, depth)
			b.WriteString(el.String())
			b.WriteByte('\n')
			depth++
		case *Token:
			writeIndent(&b, depth)
			fmt.Fprintf(&b, "%s@%s %q %s %s\n",
				KindString(n.lang, el.Kind()), el.TextRange(), el.TextTrimmed(),
				formatTrivia(el.LeadingTrivia()), formatTrivia(el.TrailingTrivia()))
		}
	}
	return b.String()
}

func writeIndent(b *strings.Builder, depth int) {
	for range depth {
		b.WriteString("  ")
	}
}

func formatTrivia(list []Trivia) string {
	parts := make([]string, len(list))
	for i, t := range list {
		parts[i] = fmt.Sprintf("%s(%q)", t.Kind, t.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
