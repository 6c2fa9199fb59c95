package diag

import (
	"slices"

	"verdant/internal/source"
)

// Tags carry editor-facing hints about a diagnostic.
type Tags uint8

const (
	TagVerbose Tags = 1 << iota
	TagInternal
	TagUnnecessary
	TagDeprecated
)

func (t Tags) Has(tag Tags) bool { return t&tag != 0 }

// Location points into a file. Path may be empty for diagnostics produced before
// the host attached one.
type Location struct {
	Path  string           `json:"path,omitempty" msgpack:"path,omitempty"`
	Range source.TextRange `json:"range" msgpack:"range"`
}

// Related is a secondary location with its own message.
type Related struct {
	Location Location `json:"location" msgpack:"location"`
	Message  Message  `json:"message" msgpack:"message"`
}

// Diagnostic is a structured finding. Nothing here is pre-rendered: formatters in
// internal/diagfmt turn it into text.
type Diagnostic struct {
	Category Category  `json:"category" msgpack:"category"`
	Severity Severity  `json:"severity" msgpack:"severity"`
	Location Location  `json:"location" msgpack:"location"`
	Message  Message   `json:"message" msgpack:"message"`
	Related  []Related `json:"related,omitempty" msgpack:"related,omitempty"`
	Notes    []Message `json:"notes,omitempty" msgpack:"notes,omitempty"`
	Footers  []Message `json:"footers,omitempty" msgpack:"footers,omitempty"`
	Tags     Tags      `json:"tags,omitempty" msgpack:"tags,omitempty"`
	// SourceCode is the text Location.Range points into, when the host attached it.
	SourceCode string `json:"-" msgpack:"-"`
}

func New(category Category, sev Severity, r source.TextRange, msg Message) Diagnostic {
	return Diagnostic{
		Category: category,
		Severity: sev,
		Location: Location{Range: r},
		Message:  msg,
	}
}

// NewError is a shortcut for SevError diagnostics with a plain-text message.
func NewError(category Category, r source.TextRange, format string, args ...any) Diagnostic {
	return New(category, SevError, r, Msgf(format, args...))
}

// Range returns the primary range.
func (d Diagnostic) Range() source.TextRange { return d.Location.Range }

// The With* builders return a modified copy and never touch the receiver's slices.

func (d Diagnostic) WithFilePath(path string) Diagnostic {
	d.Location.Path = path
	if len(d.Related) > 0 {
		d.Related = slices.Clone(d.Related)
		for i := range d.Related {
			if d.Related[i].Location.Path == "" {
				d.Related[i].Location.Path = path
			}
		}
	}
	return d
}

func (d Diagnostic) WithFileSourceCode(text string) Diagnostic {
	d.SourceCode = text
	return d
}

func (d Diagnostic) WithCategory(c Category) Diagnostic {
	d.Category = c
	return d
}

func (d Diagnostic) WithSeverity(s Severity) Diagnostic {
	d.Severity = s
	return d
}

func (d Diagnostic) WithTags(t Tags) Diagnostic {
	d.Tags |= t
	return d
}

func (d Diagnostic) WithRelated(r source.TextRange, msg Message) Diagnostic {
	d.Related = append(slices.Clip(d.Related), Related{Location: Location{Path: d.Location.Path, Range: r}, Message: msg})
	return d
}

func (d Diagnostic) WithNote(msg Message) Diagnostic {
	d.Notes = append(slices.Clip(d.Notes), msg)
	return d
}

func (d Diagnostic) WithFooter(msg Message) Diagnostic {
	d.Footers = append(slices.Clip(d.Footers), msg)
	return d
}

// Position resolves the start of the primary range against SourceCode.
// It returns the zero LineCol when no source is attached.
func (d Diagnostic) Position() source.LineCol {
	if d.SourceCode == "" {
		return source.LineCol{}
	}
	return source.LineColAt(d.SourceCode, d.Location.Range.Start)
}
