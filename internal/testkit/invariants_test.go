package testkit

import (
	"strings"
	"testing"

	"verdant/internal/diag"
	"verdant/internal/lang/js"
	"verdant/internal/lang/json"
	"verdant/internal/source"
)

func TestCheckTreeInvariants(t *testing.T) {
	text := "{\"a\": [1, 2], // c\n \"b\": null}\n"
	parsed := json.Parse(text, json.ParseOptions{AllowComments: true}, nil)
	if err := CheckTreeInvariants(parsed.Root, text, parsed.Diagnostics); err != nil {
		t.Fatalf("valid tree rejected: %v", err)
	}

	jsText := "let a = b ? c : d;\nfunction f() { return }\n"
	jsParsed := js.Parse(jsText, js.ModuleFile(), js.ParserOptions{}, nil)
	if err := CheckTreeInvariants(jsParsed.Root, jsText, jsParsed.Diagnostics); err != nil {
		t.Fatalf("valid js tree rejected: %v", err)
	}
}

func TestCheckTreeInvariantsReportsViolations(t *testing.T) {
	text := "[1, 2]"
	parsed := json.Parse(text, json.ParseOptions{}, nil)

	err := CheckTreeInvariants(parsed.Root, text+" ", nil)
	if err == nil || !strings.Contains(err.Error(), "not lossless") {
		t.Fatalf("expected losslessness error, got %v", err)
	}

	bad := diag.NewError(diag.CategoryParse, source.NewRange(2, 40), "out of range")
	err = CheckTreeInvariants(parsed.Root, text, []diag.Diagnostic{bad})
	if err == nil || !strings.Contains(err.Error(), "outside text") {
		t.Fatalf("expected range error, got %v", err)
	}

	if err := CheckTreeInvariants(nil, "", nil); err == nil {
		t.Fatal("nil root must be rejected")
	}
}
