package diagfmt

import (
	"fmt"
	"strings"

	"verdant/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
	line   uint32 // номер первой строки блока
}

// buildFixEditPreview returns the whole lines touched by edit, before and
// after it is applied.
func buildFixEditPreview(f *source.File, edit source.TextEdit) (fixEditPreview, error) {
	if f == nil {
		return fixEditPreview{}, fmt.Errorf("nil file")
	}
	r, ok := edit.Range()
	if !ok {
		return fixEditPreview{}, fmt.Errorf("empty edit")
	}
	if r.End > f.Len() {
		return fixEditPreview{}, fmt.Errorf("edit range %s out of file bounds", r)
	}

	startPos := f.Position(r.Start)
	endPos := f.Position(r.End)
	blockStart := lineStartOffset(f, startPos.Line)
	blockEnd := max(lineEndOffsetInclusive(f, endPos.Line), blockStart)

	text := f.Text()
	original := text[blockStart:blockEnd]

	shifted := make(source.TextEdit, len(edit))
	for i, in := range edit {
		shifted[i] = source.Indel{Delete: in.Delete.Sub(blockStart), Insert: in.Insert}
	}

	return fixEditPreview{
		before: splitPreviewLines(original),
		after:  splitPreviewLines(shifted.Apply(original)),
		line:   startPos.Line,
	}, nil
}

func splitPreviewLines(text string) []string {
	if text == "" {
		return nil
	}
	// хвостовой \n не даёт отдельной пустой строки
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func lineStartOffset(f *source.File, line uint32) source.TextSize {
	if line <= 1 {
		return 0
	}
	idx := line - 2
	if int(idx) < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	return f.Len()
}

func lineEndOffsetInclusive(f *source.File, line uint32) source.TextSize {
	if line == 0 {
		return 0
	}
	idx := line - 1
	if int(idx) < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	return f.Len()
}
