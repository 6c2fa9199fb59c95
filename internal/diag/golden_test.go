package diag

import (
	"testing"

	"verdant/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	const src = "a\nb\n"
	diags := []Diagnostic{
		New(CategoryParse, SevWarning, source.NewRange(2, 3), Msgf("another")).
			WithFilePath("./testdata/sample.js").WithFileSourceCode(src),
		New(LintCategory("suspicious", "noDebugger"), SevError, source.NewRange(0, 1), Msgf("first line\nsecond")).
			WithRelated(source.NewRange(2, 3), Msgf("note line")).
			WithFilePath("testdata/sample.js").WithFileSourceCode(src),
	}

	expected := "error lint/suspicious/noDebugger testdata/sample.js:1:1 first line second\n" +
		"note lint/suspicious/noDebugger testdata/sample.js:2:1 note line\n" +
		"warning parse testdata/sample.js:2:1 another"

	if got := FormatGoldenDiagnostics(diags, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatGoldenWithoutSource(t *testing.T) {
	d := NewError(CategoryParse, source.NewRange(8, 8), "expected `,`")
	if got := FormatGoldenDiagnostics([]Diagnostic{d}, false); got != "error parse :0:8 expected `,`" {
		t.Fatalf("got %q", got)
	}
}
