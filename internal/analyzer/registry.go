package analyzer

import (
	"fmt"
	"slices"
	"strings"

	"verdant/internal/diag"
)

// RuleSet is the compiled-in rule list of one language, in registration order.
type RuleSet struct {
	language string
	entries  []ruleEntry
	keys     map[RuleKey]bool
}

func NewRuleSet(language string) *RuleSet {
	return &RuleSet{language: language, keys: make(map[RuleKey]bool)}
}

// Register appends rule to set. Registering two rules with the same key is a
// programming error and panics. The type arguments cannot be inferred from a
// rule value, callers spell them out.
func Register[Q, S, O any](set *RuleSet, rule Rule[Q, S, O]) {
	meta := rule.Metadata()
	if meta.Language == "" {
		meta.Language = set.language
	}
	key := meta.Key()
	if set.keys[key] {
		panic(fmt.Sprintf("analyzer: rule %s registered twice for %s", key, set.language))
	}
	set.keys[key] = true
	set.entries = append(set.entries, &registered[Q, S, O]{rule: rule, meta: meta})
}

func (s *RuleSet) Language() string { return s.language }
func (s *RuleSet) Len() int { return len(s.entries) }

// Metadata returns the metadata of every rule in registration order.
func (s *RuleSet) Metadata() []RuleMetadata {
	out := make([]RuleMetadata, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.metadata()
	}
	return out
}

// knows reports whether a suppression category names at least one rule of
// the set.
func (s *RuleSet) knows(c diag.Category) bool {
	for _, e := range s.entries {
		if c.Covers(e.metadata().DiagnosticCategory()) {
			return true
		}
	}
	return false
}

// MetadataRegistry is the table of every compiled-in rule across languages,
// ordered by group, name and language.
type MetadataRegistry struct {
	entries []RuleMetadata
}

func NewMetadataRegistry(sets ...*RuleSet) *MetadataRegistry {
	r := &MetadataRegistry{}
	for _, s := range sets {
		r.entries = append(r.entries, s.Metadata()...)
	}
	slices.SortStableFunc(r.entries, func(a, b RuleMetadata) int {
		if c := strings.Compare(a.Group, b.Group); c != 0 {
			return c
		}
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Language, b.Language)
	})
	return r
}

func (r *MetadataRegistry) Len() int { return len(r.entries) }

func (r *MetadataRegistry) All() []RuleMetadata { return slices.Clone(r.entries) }

func (r *MetadataRegistry) ForEach(fn func(RuleMetadata)) {
	for _, m := range r.entries {
		fn(m)
	}
}

// Find returns the first rule named group/name, whatever its language.
func (r *MetadataRegistry) Find(group, name string) (RuleMetadata, bool) {
	for _, m := range r.entries {
		if m.Group == group && m.Name == name {
			return m, true
		}
	}
	return RuleMetadata{}, false
}

// Groups returns the sorted distinct group names.
func (r *MetadataRegistry) Groups() []string {
	var out []string
	for _, m := range r.entries {
		if len(out) == 0 || out[len(out)-1] != m.Group {
			out = append(out, m.Group)
		}
	}
	return out
}

// Filter returns the rules a filter lets through.
func (r *MetadataRegistry) Filter(f AnalysisFilter) []RuleMetadata {
	var out []RuleMetadata
	for _, m := range r.entries {
		if f.Allows(m) {
			out = append(out, m)
		}
	}
	return out
}
