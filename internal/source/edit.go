package source

import (
	"slices"
	"strings"
)

// Indel is a single replacement: the bytes covered by Delete are replaced with Insert.
type Indel struct {
	Delete TextRange
	Insert string
}

// TextEdit is a sorted, non-overlapping list of replacements against one text.
type TextEdit []Indel

// Replace builds an edit made of a single replacement.
func Replace(r TextRange, text string) TextEdit {
	return TextEdit{{Delete: r, Insert: text}}
}

// IsEmpty reports whether the edit changes nothing.
func (e TextEdit) IsEmpty() bool {
	return len(e) == 0
}

// Range returns the smallest range of the original text touched by the edit.
func (e TextEdit) Range() (TextRange, bool) {
	if len(e) == 0 {
		return TextRange{}, false
	}
	r := e[0].Delete
	for _, in := range e[1:] {
		r = r.Cover(in.Delete)
	}
	return r, true
}

// Apply returns text with every replacement applied. An edit whose indels
// are out of order or overlap is normalized against text first.
func (e TextEdit) Apply(text string) string {
	if len(e) == 0 {
		return text
	}
	if !e.ordered() {
		e = e.Normalize(text)
	}
	var b strings.Builder
	b.Grow(len(text))
	var last TextSize
	for _, in := range e {
		b.WriteString(text[last:in.Delete.Start])
		b.WriteString(in.Insert)
		last = in.Delete.End
	}
	b.WriteString(text[last:])
	return b.String()
}

// ordered reports whether every indel starts at or after the end of the previous one.
func (e TextEdit) ordered() bool {
	for i := 1; i < len(e); i++ {
		if e[i].Delete.Start < e[i-1].Delete.End {
			return false
		}
	}
	return true
}

// Normalize sorts the indels, merges touching ones and trims each replacement down
// to the bytes that actually change. original is the text the edit applies to.
func (e TextEdit) Normalize(original string) TextEdit {
	if len(e) == 0 {
		return nil
	}
	sorted := slices.Clone(e)
	slices.SortStableFunc(sorted, func(a, b Indel) int {
		return a.Delete.Compare(b.Delete)
	})

	merged := make(TextEdit, 0, len(sorted))
	for _, in := range sorted {
		if n := len(merged); n > 0 && merged[n-1].Delete.End >= in.Delete.Start {
			prev := &merged[n-1]
			// склеиваем соседние замены, не теряя байтов между ними
			if in.Delete.Start > prev.Delete.End {
				prev.Insert += original[prev.Delete.End:in.Delete.Start]
			}
			prev.Insert += in.Insert
			prev.Delete.End = max(prev.Delete.End, in.Delete.End)
			continue
		}
		merged = append(merged, in)
	}

	out := merged[:0]
	for _, in := range merged {
		in = TrimCommon(original, in)
		if in.Delete.Empty() && in.Insert == "" {
			continue
		}
		out = append(out, in)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// TrimCommon shrinks a replacement by dropping the prefix and suffix it shares with
// the text it replaces.
func TrimCommon(original string, in Indel) Indel {
	old := original[in.Delete.Start:in.Delete.End]
	ins := in.Insert

	prefix := 0
	for prefix < len(old) && prefix < len(ins) && old[prefix] == ins[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(old)-prefix && suffix < len(ins)-prefix &&
		old[len(old)-1-suffix] == ins[len(ins)-1-suffix] {
		suffix++
	}

	return Indel{
		Delete: TextRange{
			Start: in.Delete.Start + SizeOf(prefix),
			End:   in.Delete.End - SizeOf(suffix),
		},
		Insert: ins[prefix : len(ins)-suffix],
	}
}
