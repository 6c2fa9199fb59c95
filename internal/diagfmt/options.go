package diagfmt

import (
	"verdant/internal/diag"
	"verdant/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode maps a flag value to a PathMode.
func ParsePathMode(s string) (PathMode, bool) {
	switch s {
	case "auto", "":
		return PathModeAuto, true
	case "absolute":
		return PathModeAbsolute, true
	case "relative":
		return PathModeRelative, true
	case "basename":
		return PathModeBasename, true
	}
	return PathModeAuto, false
}

func (m PathMode) String() string {
	switch m {
	case PathModeAbsolute:
		return "absolute"
	case PathModeRelative:
		return "relative"
	case PathModeBasename:
		return "basename"
	default:
		return "auto"
	}
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color       bool
	Context     int8
	PathMode    PathMode
	Width       uint8 // максимальная ширина строки, 0 - не ограничено
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool
	Fixes       Fixes
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool
	Fixes            Fixes
}

// Suggestion is a code action offered for a diagnostic.
type Suggestion struct {
	Title string
	Safe  bool
	Edit  source.TextEdit
}

// FixKey ties suggestions to the diagnostic they were offered for.
type FixKey struct {
	Path     string
	Category diag.Category
	Start    source.TextSize
}

// Fixes maps diagnostics to their suggestions.
type Fixes map[FixKey][]Suggestion

// KeyOf returns the key under which suggestions for d are stored.
func KeyOf(d diag.Diagnostic) FixKey {
	return FixKey{Path: d.Location.Path, Category: d.Category, Start: d.Location.Range.Start}
}

// Add records s for d.
func (f Fixes) Add(d diag.Diagnostic, s Suggestion) {
	k := KeyOf(d)
	f[k] = append(f[k], s)
}

func (f Fixes) For(d diag.Diagnostic) []Suggestion {
	if f == nil {
		return nil
	}
	return f[KeyOf(d)]
}
