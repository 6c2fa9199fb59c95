package analyzer

import (
	"slices"

	"verdant/internal/diag"
	"verdant/internal/source"
	"verdant/internal/syntax"
)

// SuppressionKind is the scope of a suppression comment.
type SuppressionKind uint8

const (
	// SuppressLine covers the node that starts at the next token.
	SuppressLine SuppressionKind = iota
	SuppressRangeStart
	SuppressRangeEnd
	// SuppressAll covers the whole file; it must sit at the top of the file.
	SuppressAll
)

func (k SuppressionKind) String() string {
	switch k {
	case SuppressLine:
		return "line"
	case SuppressRangeStart:
		return "rangeStart"
	case SuppressRangeEnd:
		return "rangeEnd"
	case SuppressAll:
		return "all"
	}
	return "unknown"
}

// SuppressionComment is one directive found in a comment.
type SuppressionComment struct {
	Kind SuppressionKind
	// Categories are the suppressed categories; none means every rule.
	Categories  []diag.Category
	Explanation string
}

// SuppressionParser parses the full text of one comment. It returns no
// directives for ordinary comments and an error for malformed directives.
type SuppressionParser func(comment string) ([]SuppressionComment, error)

type suppressedCategory struct {
	category diag.Category // "" is every rule
	used     bool
	reported bool
}

type suppression struct {
	kind    SuppressionKind
	comment source.TextRange
	covered source.TextRange
	entries []suppressedCategory
}

type suppressionSet struct {
	items []*suppression
	// diags are parse, incorrect and unknownRule diagnostics found while scanning.
	diags []diag.Diagnostic
}

type suppressionScanner struct {
	set     *suppressionSet
	root    *syntax.Node
	parse   SuppressionParser
	known   func(diag.Category) bool
	open    []*suppression
	pending []*suppression
	first   *syntax.Token
}

func scanSuppressions(root *syntax.Node, parse SuppressionParser, known func(diag.Category) bool) *suppressionSet {
	set := &suppressionSet{}
	if parse == nil || root == nil {
		return set
	}
	s := &suppressionScanner{set: set, root: root, parse: parse, known: known, first: root.FirstToken()}
	for tok := range root.DescendantTokens() {
		// комментарий в хвосте предыдущего токена относится к этому токену
		for _, sup := range s.pending {
			sup.covered = coveredBy(tok)
		}
		s.pending = s.pending[:0]
		for _, tr := range tok.LeadingTrivia() {
			if tr.IsComment() {
				s.comment(tr, tok, true)
			}
		}
		for _, tr := range tok.TrailingTrivia() {
			if tr.IsComment() {
				s.comment(tr, tok, false)
			}
		}
	}
	end := root.TextRange().End
	for _, sup := range s.open {
		sup.covered.End = end
		s.report(diag.CategorySuppressionsIncorrect, diag.SevError, sup.comment,
			diag.Markup(diag.Text("this range suppression is never closed")))
	}
	slices.SortStableFunc(set.diags, diag.Compare)
	return set
}

func (s *suppressionScanner) comment(tr syntax.Trivia, tok *syntax.Token, leading bool) {
	directives, err := s.parse(tr.Text)
	if err != nil {
		s.report(diag.CategorySuppressionsParse, diag.SevError, tr.Range, diag.Msgf("%v", err))
		return
	}
	for _, d := range directives {
		sup := &suppression{kind: d.Kind, comment: tr.Range}
		if !s.categories(sup, d.Categories) {
			continue
		}
		switch d.Kind {
		case SuppressLine:
			if leading {
				sup.covered = coveredBy(tok)
			} else {
				s.pending = append(s.pending, sup)
			}
			s.set.items = append(s.set.items, sup)
		case SuppressRangeStart:
			sup.covered = source.TextRange{Start: tr.Range.Start, End: tr.Range.End}
			s.open = append(s.open, sup)
			s.set.items = append(s.set.items, sup)
		case SuppressRangeEnd:
			s.closeRange(sup)
		case SuppressAll:
			if !leading || !tok.Is(s.first) {
				s.report(diag.CategorySuppressionsIncorrect, diag.SevError, tr.Range,
					diag.Markup(diag.Text("file-wide suppressions must be placed at the top of the file")))
				continue
			}
			sup.covered = s.root.TextRange()
			s.set.items = append(s.set.items, sup)
		}
	}
}

// categories validates the categories of a directive. It returns false when
// nothing known is left to suppress.
func (s *suppressionScanner) categories(sup *suppression, cats []diag.Category) bool {
	if len(cats) == 0 {
		sup.entries = []suppressedCategory{{}}
		return true
	}
	for _, c := range cats {
		if sup.kind != SuppressRangeEnd && !s.known(c) {
			s.report(diag.CategorySuppressionsUnknownRule, diag.SevWarning, sup.comment,
				diag.Markup(diag.Text("unknown rule "), diag.Code(string(c))))
			continue
		}
		sup.entries = append(sup.entries, suppressedCategory{category: c})
	}
	return len(sup.entries) > 0
}

// closeRange pairs an end directive with the innermost open start that names
// the same categories.
func (s *suppressionScanner) closeRange(end *suppression) {
	for i := len(s.open) - 1; i >= 0; i-- {
		start := s.open[i]
		if !sameCategories(start.entries, end.entries) {
			continue
		}
		start.covered.End = end.comment.End
		s.open = slices.Delete(s.open, i, i+1)
		return
	}
	s.report(diag.CategorySuppressionsIncorrect, diag.SevError, end.comment,
		diag.Markup(diag.Text("this range suppression end has no matching start")))
}

func sameCategories(a, b []suppressedCategory) bool {
	if len(a) != len(b) {
		return false
	}
	for _, x := range a {
		if !slices.ContainsFunc(b, func(y suppressedCategory) bool { return y.category == x.category }) {
			return false
		}
	}
	return true
}

func (s *suppressionScanner) report(cat diag.Category, sev diag.Severity, r source.TextRange, msg diag.Message) {
	s.set.diags = append(s.set.diags, diag.New(cat, sev, r, msg))
}

// coveredBy returns the trimmed range of the outermost node that starts at
// tok, stopping below lists and the root.
func coveredBy(tok *syntax.Token) source.TextRange {
	start := tok.TextTrimmedRange().Start
	covered := tok.TextTrimmedRange()
	lang := tok.Parent().Language()
	for n := tok.Parent(); n != nil; n = n.Parent() {
		if lang.IsRoot(n.Kind()) || n.TextTrimmedRange().Start != start {
			break
		}
		if !lang.IsList(n.Kind()) {
			covered = n.TextTrimmedRange()
		}
	}
	return covered
}

// suppress reports whether sig falls under a suppression and marks every
// suppression that covers it as used. Internal diagnostics are never suppressed.
func (s *suppressionSet) suppress(sig *Signal) bool {
	if sig.Diagnostic != nil && sig.Diagnostic.Tags.Has(diag.TagInternal) {
		return false
	}
	hit := false
	for _, sup := range s.items {
		if !sup.covered.Contains(sig.Range.Start) {
			continue
		}
		for i := range sup.entries {
			if sup.entries[i].category.Covers(sig.Category) {
				sup.entries[i].used = true
				hit = true
			}
		}
	}
	return hit
}

// unused returns a diagnostic for every suppressed category that never
// matched and that settled reports can no longer match. Each category is
// reported once.
func (s *suppressionSet) unused(settled func(diag.Category) bool) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, sup := range s.items {
		for i := range sup.entries {
			e := &sup.entries[i]
			if e.used || e.reported || !settled(e.category) {
				continue
			}
			e.reported = true
			msg := diag.Markup(diag.Text("suppression comment has no effect"))
			d := diag.New(diag.CategorySuppressionsUnused, diag.SevWarning, sup.comment, msg).WithTags(diag.TagUnnecessary)
			if e.category != "" {
				d = d.WithNote(diag.Markup(diag.Text("no "), diag.Code(string(e.category)), diag.Text(" diagnostic was raised in the suppressed range")))
			}
			out = append(out, d)
		}
	}
	return out
}
