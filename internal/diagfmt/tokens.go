package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"verdant/internal/source"
	"verdant/internal/syntax"
)

type TokenOutput struct {
	Kind     string           `json:"kind"`
	Text     string           `json:"text,omitempty"`
	Range    source.TextRange `json:"range"`
	Leading  []string         `json:"leading,omitempty"`
	Trailing []string         `json:"trailing,omitempty"`
}

func triviaKinds(list []syntax.Trivia) []string {
	if len(list) == 0 {
		return nil
	}
	out := make([]string, len(list))
	for i, t := range list {
		out[i] = t.Kind.String()
	}
	return out
}

// FormatTokensPretty выводит токены дерева в человекочитаемом формате
func FormatTokensPretty(w io.Writer, root *syntax.Node, f *source.File) error {
	i := 0
	for tok := range root.DescendantTokens() {
		i++
		r := tok.TextTrimmedRange()
		startPos, endPos := f.Position(r.Start), f.Position(r.End)

		if _, err := fmt.Fprintf(w, "%3d: %-24s", i, syntax.KindString(root.Language(), tok.Kind())); err != nil {
			return err
		}
		if text := tok.TextTrimmed(); text != "" {
			fmt.Fprintf(w, " %q", text)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d", startPos.Line, startPos.Col, endPos.Line, endPos.Col)

		if leading := triviaKinds(tok.LeadingTrivia()); len(leading) > 0 {
			fmt.Fprintf(w, " (leading: %s)", strings.Join(leading, ", "))
		}
		if trailing := triviaKinds(tok.TrailingTrivia()); len(trailing) > 0 {
			fmt.Fprintf(w, " (trailing: %s)", strings.Join(trailing, ", "))
		}
		fmt.Fprintln(w)
	}
	return nil
}

// FormatTokensJSON выводит токены дерева в JSON формате
func FormatTokensJSON(w io.Writer, root *syntax.Node) error {
	output := make([]TokenOutput, 0)
	for tok := range root.DescendantTokens() {
		output = append(output, TokenOutput{
			Kind:     syntax.KindString(root.Language(), tok.Kind()),
			Text:     tok.TextTrimmed(),
			Range:    tok.TextTrimmedRange(),
			Leading:  triviaKinds(tok.LeadingTrivia()),
			Trailing: triviaKinds(tok.TrailingTrivia()),
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
