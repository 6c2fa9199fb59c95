package analyzer

import (
	"fmt"
	"strings"

	"verdant/internal/source"
)

// RuleFilter selects a whole group or a single rule.
type RuleFilter struct {
	Group string
	Name  string // empty selects the whole group
}

// ParseRuleFilter accepts "group", "group/name" and the category spellings
// "lint/group" and "lint/group/name".
func ParseRuleFilter(s string) (RuleFilter, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "lint/")
	s = strings.TrimPrefix(s, "assist/")
	parts := strings.Split(s, "/")
	switch {
	case len(parts) == 1 && parts[0] != "":
		return RuleFilter{Group: parts[0]}, nil
	case len(parts) == 2 && parts[0] != "" && parts[1] != "":
		return RuleFilter{Group: parts[0], Name: parts[1]}, nil
	}
	return RuleFilter{}, fmt.Errorf("invalid rule filter %q: expected <group> or <group>/<name>", s)
}

func (f RuleFilter) Matches(key RuleKey) bool {
	if f.Group != key.Group {
		return false
	}
	return f.Name == "" || f.Name == key.Name
}

func (f RuleFilter) String() string {
	if f.Name == "" {
		return f.Group
	}
	return f.Group + "/" + f.Name
}

// AnalysisFilter decides which rules run and where.
type AnalysisFilter struct {
	// Enabled restricts the run to matching rules; nil runs every rule.
	Enabled []RuleFilter
	// Disabled wins over Enabled.
	Disabled   []RuleFilter
	Categories RuleCategories
	// Range limits matches to those intersecting it; nil is the whole file.
	Range   *source.TextRange
	Actions ActionFilter
}

// Allows reports whether the rule passes the category and name filters.
func (f AnalysisFilter) Allows(m RuleMetadata) bool {
	if !f.Categories.Contains(m.Category) {
		return false
	}
	key := m.Key()
	for _, d := range f.Disabled {
		if d.Matches(key) {
			return false
		}
	}
	if f.Enabled == nil {
		return true
	}
	for _, e := range f.Enabled {
		if e.Matches(key) {
			return true
		}
	}
	return false
}

func (f AnalysisFilter) inRange(r source.TextRange) bool {
	if f.Range == nil {
		return true
	}
	return f.Range.Overlaps(r)
}
