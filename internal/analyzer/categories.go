package analyzer

import "strings"

// RuleCategories is a set of RuleCategory values. The zero value means every
// category.
type RuleCategories uint8

const AllCategories RuleCategories = 1<<CategorySyntax | 1<<CategoryLint | 1<<CategoryAction | 1<<CategoryTransformation

// Categories builds a set.
func Categories(cs ...RuleCategory) RuleCategories {
	var set RuleCategories
	for _, c := range cs {
		set |= 1 << c
	}
	return set
}

func (s RuleCategories) Contains(c RuleCategory) bool {
	if s == 0 {
		return true
	}
	return s&(1<<c) != 0
}

func (s RuleCategories) String() string {
	if s == 0 || s == AllCategories {
		return "all"
	}
	var parts []string
	for c := CategorySyntax; c <= CategoryTransformation; c++ {
		if s&(1<<c) != 0 {
			parts = append(parts, c.String())
		}
	}
	return strings.Join(parts, "|")
}

// ActionFilter says which actions the caller wants built.
type ActionFilter uint8

const (
	ActionsNone ActionFilter = iota
	ActionsSafeOnly
	ActionsAll
)

// Allows reports whether a rule with the given fix kind should have its
// actions computed. Rules with FixNone never do.
func (f ActionFilter) Allows(kind FixKind) bool {
	switch f {
	case ActionsSafeOnly:
		return kind == FixSafe
	case ActionsAll:
		return kind != FixNone
	}
	return false
}

func (f ActionFilter) String() string {
	switch f {
	case ActionsNone:
		return "none"
	case ActionsSafeOnly:
		return "safe"
	case ActionsAll:
		return "all"
	}
	return "unknown"
}
