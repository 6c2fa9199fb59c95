package fix

import (
	"errors"
	"strings"
	"testing"

	"verdant/internal/analyzer"
	"verdant/internal/jsanalyze"
	"verdant/internal/lang/js"
	"verdant/internal/source"
)

func replace(id string, start, end source.TextSize, text string, app analyzer.Applicability) Candidate {
	r := source.NewRange(start, end)
	return Candidate{ID: id, Title: id, Range: r, Applicability: app, Edit: source.Replace(r, text)}
}

func TestApplySkipsConflictingEdits(t *testing.T) {
	cands := []Candidate{
		replace("a", 1, 3, "X", analyzer.ApplicabilityAlways),
		replace("b", 2, 4, "Y", analyzer.ApplicabilityAlways),
		replace("c", 0, 0, "<", analyzer.ApplicabilityAlways),
	}
	res, err := Apply("abcdef", cands, ApplyOptions{Mode: ApplyModeSafe})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "<aXdef" {
		t.Fatalf("unexpected text %q", res.Text)
	}
	if len(res.Applied) != 2 || res.Applied[0].ID != "c" || res.Applied[1].ID != "a" {
		t.Fatalf("unexpected applied fixes: %+v", res.Applied)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].ID != "b" {
		t.Fatalf("expected b to be skipped, got %+v", res.Skipped)
	}
	if res.Skipped[0].Reason != "conflicts with previously applied edits" {
		t.Fatalf("unexpected reason %q", res.Skipped[0].Reason)
	}
	if res.EditCount() != 2 {
		t.Fatalf("expected 2 edits, got %d", res.EditCount())
	}
}

func TestApplyModes(t *testing.T) {
	cands := []Candidate{
		replace("unsafe", 0, 1, "U", analyzer.ApplicabilityMaybeIncorrect),
		replace("safe", 2, 3, "S", analyzer.ApplicabilityAlways),
	}

	res, err := Apply("abc", cands, ApplyOptions{Mode: ApplyModeSafe})
	if err != nil {
		t.Fatalf("safe: %v", err)
	}
	if res.Text != "abS" {
		t.Fatalf("safe: unexpected text %q", res.Text)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "applicability is maybeIncorrect" {
		t.Fatalf("safe: unexpected skips %+v", res.Skipped)
	}

	res, err = Apply("abc", cands, ApplyOptions{Mode: ApplyModeUnsafe})
	if err != nil || res.Text != "UbS" {
		t.Fatalf("unsafe: got %q, %v", res.Text, err)
	}

	res, err = Apply("abc", cands, ApplyOptions{Mode: ApplyModeOnce})
	if err != nil || res.Text != "abS" {
		t.Fatalf("once: got %q, %v", res.Text, err)
	}

	res, err = Apply("abc", cands, ApplyOptions{Mode: ApplyModeID, TargetID: "unsafe"})
	if err != nil || res.Text != "Ubc" {
		t.Fatalf("id: got %q, %v", res.Text, err)
	}

	_, err = Apply("abc", cands, ApplyOptions{Mode: ApplyModeID, TargetID: "missing"})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
}

func TestApplyRejectsOutOfRange(t *testing.T) {
	res, err := Apply("ab", []Candidate{replace("far", 1, 5, "", analyzer.ApplicabilityAlways)}, ApplyOptions{})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
	if res.Text != "ab" || res.Skipped[0].Reason != "edit span out of range" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestSpansConflict(t *testing.T) {
	tests := []struct {
		a, b source.TextRange
		want bool
	}{
		{source.NewRange(1, 1), source.NewRange(1, 1), false},
		{source.NewRange(1, 1), source.NewRange(1, 3), true},
		{source.NewRange(3, 3), source.NewRange(1, 3), false},
		{source.NewRange(1, 3), source.NewRange(3, 5), false},
		{source.NewRange(1, 4), source.NewRange(3, 5), true},
	}
	for _, tt := range tests {
		if got := spansConflict(tt.a, tt.b); got != tt.want {
			t.Errorf("spansConflict(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
		if got := spansConflict(tt.b, tt.a); got != tt.want {
			t.Errorf("spansConflict(%s, %s) = %v, want %v", tt.b, tt.a, got, tt.want)
		}
	}
}

func collect(t *testing.T, text string) *Collector {
	t.Helper()
	parsed := js.Parse(text, js.ModuleFile(), js.ParserOptions{}, nil)
	if len(parsed.Diagnostics) != 0 {
		t.Fatalf("parse %q: %v", text, parsed.Diagnostics)
	}
	c := NewCollector(text)
	filter := analyzer.AnalysisFilter{Actions: analyzer.ActionsAll}
	_, errs := jsanalyze.Analyze[struct{}](parsed, filter, nil, func(sig *analyzer.Signal) analyzer.ControlFlow[struct{}] {
		c.Add(sig)
		return analyzer.Continue[struct{}]()
	})
	if len(errs) != 0 {
		t.Fatalf("analyze: %v", errs)
	}
	return c
}

func TestCollectorFromAnalyzer(t *testing.T) {
	text := "var a = 1;\nif (a == 2) { debugger; }\n"

	res, err := collect(t, text).Apply(ApplyOptions{Mode: ApplyModeSafe})
	if err != nil {
		t.Fatalf("safe: %v", err)
	}
	if res.Text != "var a = 1;\nif (a === 2) { debugger; }\n" {
		t.Fatalf("safe: unexpected text %q", res.Text)
	}

	res, err = collect(t, text).Apply(ApplyOptions{Mode: ApplyModeUnsafe})
	if err != nil {
		t.Fatalf("unsafe: %v", err)
	}
	if !strings.HasPrefix(res.Text, "let a = 1;\nif (a === 2) {") || strings.Contains(res.Text, "debugger") {
		t.Fatalf("unsafe: unexpected text %q", res.Text)
	}
	if len(res.Applied) != 3 {
		t.Fatalf("unsafe: expected 3 fixes, got %+v", res.Applied)
	}
}

func TestCollectorSkipsDuplicateFixIDs(t *testing.T) {
	text := "a == b"
	parsed := js.Parse(text, js.ModuleFile(), js.ParserOptions{}, nil)
	c := NewCollector(text)
	filter := analyzer.AnalysisFilter{
		Enabled: []analyzer.RuleFilter{{Group: "suspicious", Name: "noDoubleEquals"}},
		Actions: analyzer.ActionsAll,
	}
	jsanalyze.Analyze[struct{}](parsed, filter, nil, func(sig *analyzer.Signal) analyzer.ControlFlow[struct{}] {
		c.Add(sig)
		c.Add(sig)
		return analyzer.Continue[struct{}]()
	})
	if c.Len() != 1 {
		t.Fatalf("expected 1 candidate, got %d", c.Len())
	}
	skips := c.Skipped()
	if len(skips) != 1 || skips[0].Reason != "duplicate fix id" {
		t.Fatalf("expected duplicate fix skip, got %+v", skips)
	}
	if skips[0].ID != "lint/suspicious/noDoubleEquals-2-0" {
		t.Fatalf("unexpected id %q", skips[0].ID)
	}
}
