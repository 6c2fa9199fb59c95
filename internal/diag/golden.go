package diag

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"verdant/internal/source"
)

type goldenDiagnostic struct {
	Severity string
	Category string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatGoldenDiagnostics renders diagnostics into a stable, single-line-per-entry
// representation suitable for golden files. Positions are resolved against the
// attached source code; diagnostics without it fall back to byte offsets.
func FormatGoldenDiagnostics(diags []Diagnostic, includeRelated bool) string {
	if len(diags) == 0 {
		return ""
	}
	rendered := make([]goldenDiagnostic, 0, len(diags))
	for _, d := range diags {
		rendered = appendDiagnostic(rendered, d, includeRelated)
	}

	slices.SortStableFunc(rendered, func(a, b goldenDiagnostic) int {
		switch {
		case a.Path != b.Path:
			return strings.Compare(a.Path, b.Path)
		case a.Line != b.Line:
			return int(a.Line) - int(b.Line)
		case a.Column != b.Column:
			return int(a.Column) - int(b.Column)
		case a.Severity != b.Severity:
			return strings.Compare(a.Severity, b.Severity)
		case a.Category != b.Category:
			return strings.Compare(a.Category, b.Category)
		}
		return strings.Compare(a.Message, b.Message)
	})

	var b strings.Builder
	for i, d := range rendered {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity, d.Category, d.Path, d.Line, d.Column, d.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func appendDiagnostic(out []goldenDiagnostic, d Diagnostic, includeRelated bool) []goldenDiagnostic {
	pos := resolve(d.SourceCode, d.Location.Range.Start)
	out = append(out, goldenDiagnostic{
		Severity: d.Severity.String(),
		Category: string(d.Category),
		Path:     normalizePath(d.Location.Path),
		Line:     pos.Line,
		Column:   pos.Col,
		Message:  sanitizeMessage(d.Message.String()),
	})
	if !includeRelated {
		return out
	}
	for _, rel := range d.Related {
		rpos := resolve(d.SourceCode, rel.Location.Range.Start)
		out = append(out, goldenDiagnostic{
			Severity: "note",
			Category: string(d.Category),
			Path:     normalizePath(rel.Location.Path),
			Line:     rpos.Line,
			Column:   rpos.Col,
			Message:  sanitizeMessage(rel.Message.String()),
		})
	}
	return out
}

func resolve(text string, off source.TextSize) source.LineCol {
	if text == "" {
		// без исходника: строка 0, колонка = байтовое смещение
		return source.LineCol{Line: 0, Col: uint32(off)}
	}
	return source.LineColAt(text, off)
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
