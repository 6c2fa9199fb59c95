package diagfmt

import (
	"encoding/json"
	"io"

	"verdant/internal/diag"
	"verdant/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string          `json:"file"`
	StartByte source.TextSize `json:"start_byte"`
	EndByte   source.TextSize `json:"end_byte"`
	StartLine uint32          `json:"start_line,omitempty"`
	StartCol  uint32          `json:"start_col,omitempty"`
	EndLine   uint32          `json:"end_line,omitempty"`
	EndCol    uint32          `json:"end_col,omitempty"`
}

// RelatedJSON is a secondary location with its message.
type RelatedJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// FixEditJSON представляет одно редактирование для JSON
type FixEditJSON struct {
	Location    LocationJSON `json:"location"`
	NewText     string       `json:"new_text"`
	BeforeLines []string     `json:"before_lines,omitempty"`
	AfterLines  []string     `json:"after_lines,omitempty"`
}

// FixJSON представляет предложение по исправлению для JSON
type FixJSON struct {
	Title         string        `json:"title"`
	Applicability string        `json:"applicability"`
	Edits         []FixEditJSON `json:"edits,omitempty"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string        `json:"severity"`
	Category string        `json:"category"`
	Message  string        `json:"message"`
	Markup   diag.Message  `json:"markup,omitempty"`
	Location LocationJSON  `json:"location"`
	Related  []RelatedJSON `json:"related,omitempty"`
	Notes    []string      `json:"notes,omitempty"`
	Footers  []string      `json:"footers,omitempty"`
	Tags     []string      `json:"tags,omitempty"`
	Fixes    []FixJSON     `json:"fixes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
}

// makeLocation создаёт LocationJSON из Location
func makeLocation(f *source.File, loc diag.Location, opts JSONOpts, baseDir string) LocationJSON {
	out := LocationJSON{
		File:      loc.Path,
		StartByte: loc.Range.Start,
		EndByte:   loc.Range.End,
	}
	if f == nil {
		return out
	}
	out.File = formatPath(f, opts.PathMode, baseDir)

	// Добавляем позиции строк/колонок если требуется
	if opts.IncludePositions {
		startPos := f.Position(min(loc.Range.Start, f.Len()))
		endPos := f.Position(min(loc.Range.End, f.Len()))
		out.StartLine = startPos.Line
		out.StartCol = startPos.Col
		out.EndLine = endPos.Line
		out.EndCol = endPos.Col
	}
	return out
}

func tagNames(t diag.Tags) []string {
	var out []string
	if t.Has(diag.TagVerbose) {
		out = append(out, "verbose")
	}
	if t.Has(diag.TagInternal) {
		out = append(out, "internal")
	}
	if t.Has(diag.TagUnnecessary) {
		out = append(out, "unnecessary")
	}
	if t.Has(diag.TagDeprecated) {
		out = append(out, "deprecated")
	}
	return out
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	files := newFileLookup(fs)
	baseDir := files.baseDir()
	items := bag.Items()
	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}

	diagnostics := make([]DiagnosticJSON, 0, maxItems)
	output := DiagnosticsOutput{}
	for _, d := range items[:maxItems] {
		f := files.get(d.Location.Path, d.SourceCode)
		out := DiagnosticJSON{
			Severity: d.Severity.String(),
			Category: string(d.Category),
			Message:  d.Message.String(),
			Markup:   d.Message,
			Location: makeLocation(f, d.Location, opts, baseDir),
			Tags:     tagNames(d.Tags),
		}
		switch {
		case d.Severity >= diag.SevError:
			output.Errors++
		case d.Severity == diag.SevWarning:
			output.Warnings++
		}

		for _, rel := range d.Related {
			rf := f
			if rel.Location.Path != d.Location.Path {
				rf = files.get(rel.Location.Path, "")
			}
			out.Related = append(out.Related, RelatedJSON{
				Message:  rel.Message.String(),
				Location: makeLocation(rf, rel.Location, opts, baseDir),
			})
		}

		if opts.IncludeNotes {
			for _, n := range d.Notes {
				out.Notes = append(out.Notes, n.String())
			}
			for _, n := range d.Footers {
				out.Footers = append(out.Footers, n.String())
			}
		}

		if opts.IncludeFixes {
			for _, s := range opts.Fixes.For(d) {
				out.Fixes = append(out.Fixes, buildFixJSON(f, d.Location.Path, s, opts, baseDir))
			}
		}

		diagnostics = append(diagnostics, out)
	}

	output.Diagnostics = diagnostics
	output.Count = len(diagnostics)
	return output
}

func buildFixJSON(f *source.File, path string, s Suggestion, opts JSONOpts, baseDir string) FixJSON {
	out := FixJSON{Title: s.Title, Applicability: "unsafe"}
	if s.Safe {
		out.Applicability = "safe"
	}
	var preview fixEditPreview
	havePreview := false
	if opts.IncludePreviews && f != nil {
		p, err := buildFixEditPreview(f, s.Edit)
		preview, havePreview = p, err == nil
	}
	for i, in := range s.Edit {
		edit := FixEditJSON{
			Location: makeLocation(f, diag.Location{Path: path, Range: in.Delete}, opts, baseDir),
			NewText:  in.Insert,
		}
		// превью целиком относится к первому редактированию
		if i == 0 && havePreview {
			edit.BeforeLines = preview.before
			edit.AfterLines = preview.after
		}
		out.Edits = append(out.Edits, edit)
	}
	return out
}

// JSON форматирует диагностики в JSON формат.
// Выводит массив диагностик с полной информацией о местоположении, заметках и исправлениях.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	output := BuildDiagnosticsOutput(bag, fs, opts)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
