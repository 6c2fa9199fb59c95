package parser

import (
	"verdant/internal/syntax"
)

// NodeList parses a list without separators. P is the concrete parser type of
// the grammar so elements can use its context-specific methods.
type NodeList[P Stream] interface {
	ListKind() syntax.Kind
	ParseElement(p P) ParsedSyntax
	IsAtListEnd(p P) bool
	// Recover handles a failed element; an error stops the list.
	Recover(p P, parsed ParsedSyntax) error
}

// SeparatedList parses elements separated by Separator().
type SeparatedList[P Stream] interface {
	NodeList[P]
	Separator() syntax.Kind
	AllowTrailingSeparator() bool
}

// ParseNodeList parses elements until the list end or EOF.
func ParseNodeList[P Stream](p P, l NodeList[P]) CompletedMarker {
	m := p.Start()
	var progress Progress
	for !p.AtEOF() && !l.IsAtListEnd(p) {
		progress.AssertProgressing(p)
		parsed := l.ParseElement(p)
		if err := l.Recover(p, parsed); err != nil {
			break
		}
	}
	return m.Complete(p, l.ListKind())
}

// ParseSeparatedList parses separated elements. A missing separator is
// reported once and the element that follows it is turned into its bogus
// kind, so the tree shows exactly where the list went wrong.
func ParseSeparatedList[P Stream](p P, l SeparatedList[P]) CompletedMarker {
	m := p.Start()
	var progress Progress
	first := true
	for !p.AtEOF() && !l.IsAtListEnd(p) {
		missingSeparator := false
		if first {
			first = false
		} else {
			if !p.Expect(l.Separator()) {
				missingSeparator = true
			} else if l.AllowTrailingSeparator() && l.IsAtListEnd(p) {
				break
			}
		}
		progress.AssertProgressing(p)

		parsed := l.ParseElement(p)
		if parsed.IsAbsent() && p.At(l.Separator()) {
			// пустой элемент: разделитель будет съеден на следующей итерации
			p.Error(ExpectedNode("an element")(p, p.CurRange()))
			continue
		}
		if missingSeparator && parsed.IsPresent() {
			parsed = parsed.ChangeToBogus(p)
		}
		if err := l.Recover(p, parsed); err != nil {
			break
		}
	}
	return m.Complete(p, l.ListKind())
}
