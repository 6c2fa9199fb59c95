package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"verdant/internal/diag"
	"verdant/internal/lang/js"
	"verdant/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	text := "let a = 1;\nfoo == bar;\n"
	d := doubleEquals("test.js", source.NewRange(15, 17)).
		WithFileSourceCode(text).
		WithNote(diag.Msgf("a note")).
		WithTags(diag.TagUnnecessary)
	bag := diag.NewBag(10)
	bag.Add(d)
	bag.Add(diag.New(diag.CategoryParse, diag.SevWarning, source.NewRange(0, 3), diag.Msgf("warn")).WithFilePath("test.js"))

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
	}
	if err := JSON(&buf, bag, nil, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 2 || output.Errors != 1 || output.Warnings != 1 {
		t.Fatalf("unexpected counters: %+v", output)
	}

	got := output.Diagnostics[0]
	if got.Severity != "error" || got.Category != "lint/suspicious/noDoubleEquals" {
		t.Errorf("unexpected severity/category: %s %s", got.Severity, got.Category)
	}
	if got.Message != "Use `===` instead of `==`" {
		t.Errorf("unexpected message %q", got.Message)
	}
	if len(got.Markup) != 4 || got.Markup[1].Kind != diag.MarkupCode {
		t.Errorf("unexpected markup %+v", got.Markup)
	}
	loc := got.Location
	if loc.File != "test.js" || loc.StartByte != 15 || loc.EndByte != 17 {
		t.Errorf("unexpected location %+v", loc)
	}
	if loc.StartLine != 2 || loc.StartCol != 5 || loc.EndLine != 2 || loc.EndCol != 7 {
		t.Errorf("unexpected positions %+v", loc)
	}
	if len(got.Notes) != 1 || got.Notes[0] != "a note" {
		t.Errorf("unexpected notes %v", got.Notes)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "unnecessary" {
		t.Errorf("unexpected tags %v", got.Tags)
	}

	// второй диагностике исходник не приложен: только байтовые смещения
	if second := output.Diagnostics[1].Location; second.File != "test.js" || second.StartLine != 0 {
		t.Errorf("unexpected location without source %+v", second)
	}
}

func TestJSONMaxLimit(t *testing.T) {
	bag := diag.NewBag(0)
	for range 5 {
		bag.Add(doubleEquals("m.js", source.NewRange(2, 4)))
	}
	out := BuildDiagnosticsOutput(bag, nil, JSONOpts{Max: 3})
	if out.Count != 3 || len(out.Diagnostics) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", out.Count)
	}
}

func TestJSONFixPreview(t *testing.T) {
	text := "let a = 1;\nfoo == bar;\n"
	d := doubleEquals("fix.js", source.NewRange(15, 17)).WithFileSourceCode(text)
	bag := diag.NewBag(0)
	bag.Add(d)

	fixes := Fixes{}
	fixes.Add(d, Suggestion{Title: "Use ===", Safe: true, Edit: source.Replace(source.NewRange(15, 17), "===")})
	out := BuildDiagnosticsOutput(bag, nil, JSONOpts{IncludeFixes: true, IncludePreviews: true, Fixes: fixes})

	got := out.Diagnostics[0].Fixes
	if len(got) != 1 || got[0].Applicability != "safe" || len(got[0].Edits) != 1 {
		t.Fatalf("unexpected fixes %+v", got)
	}
	edit := got[0].Edits[0]
	if edit.NewText != "===" || edit.Location.StartByte != 15 {
		t.Fatalf("unexpected edit %+v", edit)
	}
	if strings.Join(edit.BeforeLines, "\n") != "foo == bar;" || strings.Join(edit.AfterLines, "\n") != "foo === bar;" {
		t.Fatalf("unexpected preview %v -> %v", edit.BeforeLines, edit.AfterLines)
	}
}

func TestFormatTree(t *testing.T) {
	parsed := js.Parse("a;", js.ModuleFile(), js.ParserOptions{}, nil)

	var buf bytes.Buffer
	if err := FormatTreePretty(&buf, parsed.Root); err != nil {
		t.Fatalf("FormatTreePretty: %v", err)
	}
	if !strings.Contains(buf.String(), "└─ ") || !strings.Contains(buf.String(), `"a"`) {
		t.Fatalf("unexpected tree:\n%s", buf.String())
	}

	buf.Reset()
	if err := FormatTreeJSON(&buf, parsed.Root); err != nil {
		t.Fatalf("FormatTreeJSON: %v", err)
	}
	var tree TreeNodeOutput
	if err := json.Unmarshal(buf.Bytes(), &tree); err != nil {
		t.Fatalf("invalid tree JSON: %v", err)
	}
	if tree.Range != source.NewRange(0, 2) || len(tree.Children) == 0 {
		t.Fatalf("unexpected root %+v", tree)
	}
}

func TestFormatTokens(t *testing.T) {
	parsed := js.Parse("let x = 1; // c\n", js.ModuleFile(), js.ParserOptions{}, nil)
	f := source.NewFileSet()
	file := f.Get(f.AddVirtual("t.js", []byte("let x = 1; // c\n")))

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, parsed.Root, file); err != nil {
		t.Fatalf("FormatTokensPretty: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// let x = 1 ; EOF
	if len(lines) != 6 {
		t.Fatalf("expected 6 tokens, got:\n%s", buf.String())
	}
	if !strings.Contains(lines[4], "(trailing: Whitespace, SingleLineComment)") {
		t.Fatalf("expected trailing comment on `;`, got %q", lines[4])
	}

	buf.Reset()
	if err := FormatTokensJSON(&buf, parsed.Root); err != nil {
		t.Fatalf("FormatTokensJSON: %v", err)
	}
	var toks []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &toks); err != nil {
		t.Fatalf("invalid token JSON: %v", err)
	}
	if len(toks) != 6 || toks[0].Text != "let" || toks[5].Leading[0] != "Newline" {
		t.Fatalf("unexpected tokens %+v", toks)
	}
}
