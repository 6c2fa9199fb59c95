package analyzer

import (
	"fmt"

	"verdant/internal/diag"
)

// RuleCategory says what kind of output a rule produces.
type RuleCategory uint8

const (
	// CategorySyntax rules report syntax problems the parser accepted.
	CategorySyntax RuleCategory = iota
	CategoryLint
	// CategoryAction rules offer code actions (assists), usually without a diagnostic.
	CategoryAction
	CategoryTransformation
)

func (c RuleCategory) String() string {
	switch c {
	case CategorySyntax:
		return "syntax"
	case CategoryLint:
		return "lint"
	case CategoryAction:
		return "action"
	case CategoryTransformation:
		return "transformation"
	}
	return "unknown"
}

// FixKind is the strongest fix a rule may offer.
type FixKind uint8

const (
	FixNone FixKind = iota
	// FixSafe fixes never change behaviour and may be applied without review.
	FixSafe
	FixUnsafe
)

func (k FixKind) String() string {
	switch k {
	case FixNone:
		return "none"
	case FixSafe:
		return "safe"
	case FixUnsafe:
		return "unsafe"
	}
	return "unknown"
}

// RuleKey names a rule inside its language.
type RuleKey struct {
	Group string
	Name  string
}

func (k RuleKey) String() string { return k.Group + "/" + k.Name }

// RuleSource points at an equivalent rule of another tool, e.g. ESLint "eqeqeq".
type RuleSource struct {
	Tool string
	Rule string
}

func (s RuleSource) String() string { return fmt.Sprintf("%s/%s", s.Tool, s.Rule) }

// RuleMetadata is the static description of a rule.
type RuleMetadata struct {
	Group       string
	Name        string
	Category    RuleCategory
	Severity    diag.Severity
	Language    string
	Version     string
	Recommended bool
	FixKind     FixKind
	Sources     []RuleSource
	Docs        string
}

func (m RuleMetadata) Key() RuleKey { return RuleKey{Group: m.Group, Name: m.Name} }

// DiagnosticCategory is the category signals of this rule carry:
// "assist/<group>/<name>" for actions, "lint/<group>/<name>" otherwise.
func (m RuleMetadata) DiagnosticCategory() diag.Category {
	if m.Category == CategoryAction {
		return diag.ActionCategory(m.Group, m.Name)
	}
	return diag.LintCategory(m.Group, m.Name)
}
