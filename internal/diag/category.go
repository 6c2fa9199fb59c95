package diag

import "strings"

// Category is a hierarchical slash-separated tag such as "lint/suspicious/noDebugger".
type Category string

const (
	CategoryParse                   Category = "parse"
	CategoryLex                     Category = "lex"
	CategorySuppressionsUnused      Category = "suppressions/unused"
	CategorySuppressionsParse       Category = "suppressions/parse"
	CategorySuppressionsIncorrect   Category = "suppressions/incorrect"
	CategorySuppressionsUnknownRule Category = "suppressions/unknownRule"
	CategoryConfiguration           Category = "configuration"
	CategoryInternalPanic           Category = "internalError/panic"
	CategoryInternalServiceMissing  Category = "internalError/serviceMissing"
	CategoryIO                      Category = "io"
)

var categoryDescription = map[Category]string{
	CategoryParse:                   "syntax error",
	CategoryLex:                     "invalid token",
	CategorySuppressionsUnused:      "suppression comment has no effect",
	CategorySuppressionsParse:       "malformed suppression comment",
	CategorySuppressionsIncorrect:   "unbalanced suppression range",
	CategorySuppressionsUnknownRule: "suppression names an unknown rule",
	CategoryConfiguration:           "invalid configuration",
	CategoryInternalPanic:           "a rule panicked",
	CategoryInternalServiceMissing:  "a required service is unavailable",
	CategoryIO:                      "file could not be read or written",
}

// LintCategory builds the category of a lint rule.
func LintCategory(group, name string) Category {
	return Category("lint/" + group + "/" + name)
}

// ActionCategory builds the category of an assist rule.
func ActionCategory(group, name string) Category {
	return Category("assist/" + group + "/" + name)
}

func (c Category) String() string { return string(c) }

// Segments splits the category at slashes.
func (c Category) Segments() []string {
	if c == "" {
		return nil
	}
	return strings.Split(string(c), "/")
}

// Covers reports whether c names other or one of its ancestors, matching whole
// segments: "lint/style" covers "lint/style/useConst" but not "lint/styles".
func (c Category) Covers(other Category) bool {
	if c == "" {
		return true
	}
	if c == other {
		return true
	}
	return strings.HasPrefix(string(other), string(c)+"/")
}

// Title returns a short description for built-in categories.
func (c Category) Title() string {
	if desc, ok := categoryDescription[c]; ok {
		return desc
	}
	return ""
}
