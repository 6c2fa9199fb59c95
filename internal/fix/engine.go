package fix

// todo: интеграция с git:
// По умолчанию создавать .bak только для незатрекинных файлов.
// Флаг --staged-only (работать по git diff --name-only --staged).

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"slices"

	"verdant/internal/analyzer"
	"verdant/internal/diag"
	"verdant/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	// ApplyModeSafe applies every fix that is always safe.
	ApplyModeSafe ApplyMode = iota
	// ApplyModeUnsafe also applies fixes that may change behaviour.
	ApplyModeUnsafe
	// ApplyModeOnce applies the first safe fix, or the first fix at all.
	ApplyModeOnce
	ApplyModeID
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
}

// Candidate is a fix proposed for one text. Its edit is expressed against
// that text.
type Candidate struct {
	ID            string
	Title         string
	Category      diag.Category
	Range         source.TextRange
	Applicability analyzer.Applicability
	Edit          source.TextEdit

	order int
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID            string
	Title         string
	Category      diag.Category
	Applicability analyzer.Applicability
	EditCount     int
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
}

// ApplyResult aggregates applied fixes, skipped ones and the new text.
type ApplyResult struct {
	Text    string
	Applied []AppliedFix
	Skipped []SkippedFix
}

// EditCount is the number of replacements performed.
func (r *ApplyResult) EditCount() int {
	n := 0
	for _, a := range r.Applied {
		n += a.EditCount
	}
	return n
}

// Apply selects a subset of candidates according to opts and applies them to
// text. Candidates whose edits overlap an already accepted fix are skipped;
// the caller is expected to re-analyze and try again.
func Apply(text string, candidates []Candidate, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{
		Text:    text,
		Applied: make([]AppliedFix, 0),
		Skipped: make([]SkippedFix, 0),
	}
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}

	cands := slices.Clone(candidates)
	for i := range cands {
		if cands[i].order == 0 {
			cands[i].order = i + 1
		}
	}
	sortCandidates(cands)

	selected, selectionSkips := selectCandidates(cands, opts)
	result.Skipped = append(result.Skipped, selectionSkips...)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	out, applied, skipped := applyCandidates(text, selected)
	result.Text = out
	result.Applied = append(result.Applied, applied...)
	result.Skipped = append(result.Skipped, skipped...)
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

// sortCandidates orders candidates by range start, range end, insertion
// order and finally ID, so that selection is deterministic.
func sortCandidates(candidates []Candidate) {
	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		if c := a.Range.Compare(b.Range); c != 0 {
			return c
		}
		if c := cmp.Compare(a.order, b.order); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func selectCandidates(candidates []Candidate, opts ApplyOptions) ([]Candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		for _, cand := range candidates {
			if cand.ID == opts.TargetID {
				return []Candidate{cand}, nil
			}
		}
		return nil, []SkippedFix{{
			ID:     opts.TargetID,
			Reason: "fix id not found",
		}}
	case ApplyModeSafe, ApplyModeUnsafe:
		selected := make([]Candidate, 0, len(candidates))
		skipped := make([]SkippedFix, 0)
		for _, cand := range candidates {
			if cand.Applicability == analyzer.ApplicabilityAlways || opts.Mode == ApplyModeUnsafe {
				selected = append(selected, cand)
				continue
			}
			skipped = append(skipped, SkippedFix{
				ID:     cand.ID,
				Title:  cand.Title,
				Reason: fmt.Sprintf("applicability is %s", cand.Applicability),
			})
		}
		return selected, skipped
	case ApplyModeOnce:
		var fallback *Candidate
		for i := range candidates {
			cand := candidates[i]
			if cand.Applicability == analyzer.ApplicabilityAlways {
				return []Candidate{cand}, nil
			}
			if fallback == nil {
				fallback = &cand
			}
		}
		if fallback != nil {
			return []Candidate{*fallback}, nil
		}
		return nil, nil
	default:
		return nil, nil
	}
}

func applyCandidates(text string, selected []Candidate) (string, []AppliedFix, []SkippedFix) {
	accepted := make(source.TextEdit, 0)
	applied := make([]AppliedFix, 0, len(selected))
	skipped := make([]SkippedFix, 0)
	size := source.SizeOf(len(text))

	for _, cand := range selected {
		var skipReason string
		switch {
		case cand.Edit.IsEmpty():
			skipReason = "fix has no edits"
		case !editInBounds(cand.Edit, size):
			skipReason = "edit span out of range"
		case conflictsWithExisting(accepted, cand.Edit):
			skipReason = "conflicts with previously applied edits"
		}
		if skipReason != "" {
			skipped = append(skipped, SkippedFix{
				ID:     cand.ID,
				Title:  cand.Title,
				Reason: skipReason,
			})
			continue
		}
		for _, in := range cand.Edit {
			accepted = insertIndelSorted(accepted, in)
		}
		applied = append(applied, AppliedFix{
			ID:            cand.ID,
			Title:         cand.Title,
			Category:      cand.Category,
			Applicability: cand.Applicability,
			EditCount:     len(cand.Edit),
		})
	}
	return accepted.Apply(text), applied, skipped
}

func editInBounds(edit source.TextEdit, size source.TextSize) bool {
	for _, in := range edit {
		if in.Delete.Start > in.Delete.End || in.Delete.End > size {
			return false
		}
	}
	return true
}

func conflictsWithExisting(existing, edit source.TextEdit) bool {
	for _, prev := range existing {
		for _, cand := range edit {
			if spansConflict(prev.Delete, cand.Delete) {
				return true
			}
		}
	}
	return false
}

// spansConflict reports whether two replacement ranges overlap.
// Ranges are half-open. Two insertions never conflict; an insertion conflicts
// with a deletion that strictly contains its position or starts at it.
func spansConflict(a, b source.TextRange) bool {
	if a.Empty() && b.Empty() {
		return false
	}
	if a.Empty() {
		return b.Start <= a.Start && a.Start < b.End
	}
	if b.Empty() {
		return a.Start <= b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}

// insertIndelSorted keeps edits ordered by start; insertions at the same
// offset stay in arrival order.
func insertIndelSorted(edits source.TextEdit, in source.Indel) source.TextEdit {
	idx, _ := slices.BinarySearchFunc(edits, in, func(e, t source.Indel) int {
		if e.Delete.Start <= t.Delete.Start {
			return -1
		}
		return 1
	})
	return slices.Insert(edits, idx, in)
}

// WriteFile replaces path with data, keeping the file mode when the file
// already exists.
func WriteFile(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
