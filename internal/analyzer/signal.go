package analyzer

import (
	"verdant/internal/diag"
	"verdant/internal/source"
	"verdant/internal/syntax"
)

// RuleDiagnostic is what a rule reports for one state. The engine fills in
// the category, severity and file path.
type RuleDiagnostic struct {
	Range   source.TextRange
	Message diag.Message
	Details []diag.Related
	Notes   []diag.Message
	Footers []diag.Message
	Tags    diag.Tags
}

func NewRuleDiagnostic(r source.TextRange, msg diag.Message) *RuleDiagnostic {
	return &RuleDiagnostic{Range: r, Message: msg}
}

// Detail adds a secondary location.
func (d *RuleDiagnostic) Detail(r source.TextRange, msg diag.Message) *RuleDiagnostic {
	d.Details = append(d.Details, diag.Related{Location: diag.Location{Range: r}, Message: msg})
	return d
}

func (d *RuleDiagnostic) Note(msg diag.Message) *RuleDiagnostic {
	d.Notes = append(d.Notes, msg)
	return d
}

func (d *RuleDiagnostic) Footer(msg diag.Message) *RuleDiagnostic {
	d.Footers = append(d.Footers, msg)
	return d
}

func (d *RuleDiagnostic) WithTags(t diag.Tags) *RuleDiagnostic {
	d.Tags |= t
	return d
}

func (d *RuleDiagnostic) build(category diag.Category, sev diag.Severity, path string) diag.Diagnostic {
	out := diag.New(category, sev, d.Range, d.Message)
	out.Related = d.Details
	out.Notes = d.Notes
	out.Footers = d.Footers
	out.Tags = d.Tags
	if path != "" {
		out = out.WithFilePath(path)
	}
	return out
}

// ActionKind is the editor category of a code action.
type ActionKind uint8

const (
	ActionQuickFix ActionKind = iota
	ActionRefactor
	ActionSource
)

func (k ActionKind) String() string {
	switch k {
	case ActionQuickFix:
		return "quickfix"
	case ActionRefactor:
		return "refactor"
	case ActionSource:
		return "source"
	}
	return "unknown"
}

type Applicability uint8

const (
	// ApplicabilityAlways actions may be applied without review.
	ApplicabilityAlways Applicability = iota
	ApplicabilityMaybeIncorrect
)

func (a Applicability) String() string {
	if a == ApplicabilityAlways {
		return "always"
	}
	return "maybeIncorrect"
}

// RuleAction is a proposed edit. The mutation is recorded against the analyzed
// root and is never applied by the engine.
type RuleAction struct {
	Kind          ActionKind
	Applicability Applicability
	Message       diag.Message
	Mutation      *syntax.BatchMutation
}

// Signal is one unit of analyzer output handed to the sink: a rule hit, an
// action-only assist, or an engine-produced diagnostic (suppressions, panics).
type Signal struct {
	// Rule is zero for engine-produced signals.
	Rule     RuleKey
	Category diag.Category
	Range    source.TextRange
	// Diagnostic is nil for assists that only offer actions.
	Diagnostic *diag.Diagnostic
	Actions    []RuleAction
}

// ControlFlow is returned by the sink for every signal.
type ControlFlow[B any] struct {
	brk   bool
	value B
}

func Continue[B any]() ControlFlow[B] { return ControlFlow[B]{} }
func Break[B any](v B) ControlFlow[B] { return ControlFlow[B]{brk: true, value: v} }

func (c ControlFlow[B]) IsBreak() bool { return c.brk }
func (c ControlFlow[B]) Value() B { return c.value }

// Sink receives every signal in order. Returning Break stops the run.
type Sink[B any] func(sig *Signal) ControlFlow[B]
