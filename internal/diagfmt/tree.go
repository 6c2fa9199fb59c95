package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"verdant/internal/source"
	"verdant/internal/syntax"
)

// TreeNodeOutput is one element of a syntax tree in JSON output. Tokens have
// Text and no children.
type TreeNodeOutput struct {
	Kind     string           `json:"kind"`
	Range    source.TextRange `json:"range"`
	Text     string           `json:"text,omitempty"`
	Children []TreeNodeOutput `json:"children,omitempty"`
}

// FormatTreePretty draws the tree with box-drawing connectors.
func FormatTreePretty(w io.Writer, root *syntax.Node) error {
	lang := root.Language()
	if _, err := fmt.Fprintf(w, "%s (range: %s)\n", syntax.KindString(lang, root.Kind()), root.TextRange()); err != nil {
		return err
	}
	formatChildrenPretty(w, root, lang, "")
	return nil
}

func formatChildrenPretty(w io.Writer, n *syntax.Node, lang syntax.Language, prefix string) {
	children := n.ChildrenWithTokens()
	for i, el := range children {
		isLast := i == len(children)-1
		branch, next := "├─ ", "│  "
		if isLast {
			branch, next = "└─ ", "   "
		}
		switch el := el.(type) {
		case *syntax.Node:
			fmt.Fprintf(w, "%s%s%s (range: %s)\n", prefix, branch, syntax.KindString(lang, el.Kind()), el.TextRange())
			formatChildrenPretty(w, el, lang, prefix+next)
		case *syntax.Token:
			fmt.Fprintf(w, "%s%s%s %q (range: %s)\n", prefix, branch, syntax.KindString(lang, el.Kind()), el.TextTrimmed(), el.TextTrimmedRange())
		case nil:
			fmt.Fprintf(w, "%s%s<missing>\n", prefix, branch)
		}
	}
}

// FormatTreeJSON выводит дерево в JSON формате
func FormatTreeJSON(w io.Writer, root *syntax.Node) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildTreeOutput(root, root.Language()))
}

func buildTreeOutput(n *syntax.Node, lang syntax.Language) TreeNodeOutput {
	out := TreeNodeOutput{
		Kind:  syntax.KindString(lang, n.Kind()),
		Range: n.TextRange(),
	}
	for _, el := range n.ChildrenWithTokens() {
		switch el := el.(type) {
		case *syntax.Node:
			out.Children = append(out.Children, buildTreeOutput(el, lang))
		case *syntax.Token:
			out.Children = append(out.Children, TreeNodeOutput{
				Kind:  syntax.KindString(lang, el.Kind()),
				Range: el.TextTrimmedRange(),
				Text:  el.TextTrimmed(),
			})
		}
	}
	return out
}
