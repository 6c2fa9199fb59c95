package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"verdant/internal/diag"
	"verdant/internal/source"
)

const tabWidth = 4

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <category>: <Message>
// затем контекст строки с подчёркиванием ^^^ по Range, затем related, notes и fixes.
// Файлы ищутся в fs по пути, иначе берётся SourceCode самой диагностики.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	files := newFileLookup(fs)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, d, files, p, opts)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, files *fileLookup, p palette, opts PrettyOpts) {
	f := files.get(d.Location.Path, d.SourceCode)
	sev := p.severity(d.Severity).Sprint(strings.ToUpper(d.Severity.String()))
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.path.Sprint(formatLocation(f, d.Location, opts.PathMode, files.baseDir())),
		sev, p.category.Sprint(string(d.Category)), renderMessage(d.Message, p))
	if f != nil {
		writeSnippet(w, f, d.Location.Range, p.severity(d.Severity), opts)
	}

	for _, rel := range d.Related {
		rf := f
		if rel.Location.Path != d.Location.Path {
			rf = files.get(rel.Location.Path, "")
		}
		fmt.Fprintf(w, "  --> %s: %s\n",
			p.path.Sprint(formatLocation(rf, rel.Location, opts.PathMode, files.baseDir())),
			renderMessage(rel.Message, p))
		if rf != nil {
			writeSnippet(w, rf, rel.Location.Range, p.note, opts)
		}
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  = %s %s\n", p.note.Sprint("note:"), renderMessage(n, p))
		}
		for _, n := range d.Footers {
			fmt.Fprintf(w, "  = %s\n", renderMessage(n, p))
		}
	}

	if opts.ShowFixes {
		for i, s := range opts.Fixes.For(d) {
			writeSuggestion(w, i+1, s, f, p, opts)
		}
	}
}

func writeSuggestion(w io.Writer, idx int, s Suggestion, f *source.File, p palette, opts PrettyOpts) {
	kind := "unsafe"
	if s.Safe {
		kind = "safe"
	}
	fmt.Fprintf(w, "  fix #%d (%s): %s\n", idx, kind, s.Title)
	for _, in := range s.Edit {
		loc := in.Delete.String()
		if f != nil {
			pos := f.Position(in.Delete.Start)
			loc = fmt.Sprintf("%d:%d", pos.Line, pos.Col)
		}
		fmt.Fprintf(w, "    %s apply=%q\n", loc, in.Insert)
	}
	if !opts.ShowPreview || f == nil {
		return
	}
	preview, err := buildFixEditPreview(f, s.Edit)
	if err != nil {
		return
	}
	fmt.Fprintln(w, "    preview:")
	for _, line := range preview.before {
		fmt.Fprintf(w, "      %s\n", p.del.Sprint("- "+clip(expandTabs(line), opts.Width)))
	}
	for _, line := range preview.after {
		fmt.Fprintf(w, "      %s\n", p.add.Sprint("+ "+clip(expandTabs(line), opts.Width)))
	}
}

// writeSnippet prints the lines around r with a caret underline below the
// first line of the range.
func writeSnippet(w io.Writer, f *source.File, r source.TextRange, caret *color.Color, opts PrettyOpts) {
	if r.Start > f.Len() {
		return
	}
	start := f.Position(r.Start)
	end := f.Position(min(r.End, f.Len()))
	ctx := max(int(opts.Context), 0)
	first := max(1, int(start.Line)-ctx)
	last := min(len(f.LineIdx)+1, int(start.Line)+ctx)
	gutter := len(strconv.Itoa(last)) + 1

	for ln := first; ln <= last; ln++ {
		line := f.GetLine(uint32(ln))
		fmt.Fprintf(w, "%*d | %s\n", gutter, ln, clip(expandTabs(line), opts.Width))
		if ln != int(start.Line) {
			continue
		}
		from := min(int(start.Col)-1, len(line))
		to := len(line)
		if end.Line == start.Line {
			to = min(int(end.Col)-1, len(line))
		}
		to = max(to, from)
		pad := runewidth.StringWidth(expandTabs(line[:from]))
		width := max(1, runewidth.StringWidth(expandTabs(line[from:to])))
		fmt.Fprintf(w, "%*s | %s%s\n", gutter, "", strings.Repeat(" ", pad), caret.Sprint(strings.Repeat("^", width)))
	}
}

func renderMessage(m diag.Message, p palette) string {
	var b strings.Builder
	for _, n := range m {
		switch n.Kind {
		case diag.MarkupCode:
			b.WriteString(p.code.Sprint("`" + n.Text + "`"))
		case diag.MarkupEmphasis:
			b.WriteString(p.emphasis.Sprint(n.Text))
		case diag.MarkupLink:
			b.WriteString(n.Text)
			if n.Href != "" {
				b.WriteString(" (" + n.Href + ")")
			}
		default:
			b.WriteString(n.Text)
		}
	}
	return b.String()
}

func formatLocation(f *source.File, loc diag.Location, mode PathMode, baseDir string) string {
	if f == nil {
		if loc.Path == "" {
			return "<unknown>"
		}
		return loc.Path
	}
	pos := f.Position(min(loc.Range.Start, f.Len()))
	return fmt.Sprintf("%s:%d:%d", formatPath(f, mode, baseDir), pos.Line, pos.Col)
}

func formatPath(f *source.File, mode PathMode, baseDir string) string {
	return f.FormatPath(mode.String(), baseDir)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

// clip обрезает строку по ширине терминала, 0 - без ограничения
func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	return runewidth.Truncate(s, int(width), "...")
}

type palette struct {
	err, warn, info, hint *color.Color
	path, category, code  *color.Color
	emphasis, note        *color.Color
	add, del              *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:      mk(color.FgRed, color.Bold),
		warn:     mk(color.FgYellow, color.Bold),
		info:     mk(color.FgBlue, color.Bold),
		hint:     mk(color.FgCyan),
		path:     mk(color.Bold),
		category: mk(color.FgMagenta),
		code:     mk(color.FgCyan),
		emphasis: mk(color.Bold),
		note:     mk(color.FgBlue),
		add:      mk(color.FgGreen),
		del:      mk(color.FgRed),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch {
	case s >= diag.SevError:
		return p.err
	case s == diag.SevWarning:
		return p.warn
	case s == diag.SevInfo:
		return p.info
	default:
		return p.hint
	}
}

// fileLookup finds the text a diagnostic points into.
type fileLookup struct {
	fs      *source.FileSet
	scratch *source.FileSet
}

func newFileLookup(fs *source.FileSet) *fileLookup {
	return &fileLookup{fs: fs, scratch: source.NewFileSet()}
}

func (l *fileLookup) baseDir() string {
	if l.fs != nil {
		return l.fs.BaseDir()
	}
	return l.scratch.BaseDir()
}

func (l *fileLookup) get(path, text string) *source.File {
	if l.fs != nil && path != "" {
		if f, ok := l.fs.GetByPath(path); ok {
			return f
		}
	}
	if text == "" {
		return nil
	}
	if path == "" {
		path = "<input>"
	}
	if f, ok := l.scratch.GetByPath(path); ok && string(f.Content) == text {
		return f
	}
	return l.scratch.Get(l.scratch.AddVirtual(path, []byte(text)))
}
