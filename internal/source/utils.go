package source

import (
	"bytes"
	"slices"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func removeBOM(content []byte) ([]byte, bool) {
	if bytes.HasPrefix(content, utf8BOM) {
		return content[len(utf8BOM):], true
	}
	return content, false
}

// RestoreBOM prepends the BOM again for files that had one on load.
func RestoreBOM(content []byte, flags FileFlags) []byte {
	if flags&FileHadBOM == 0 {
		return content
	}
	out := make([]byte, 0, len(content)+len(utf8BOM))
	out = append(out, utf8BOM...)
	return append(out, content...)
}

func hasCRLF(content []byte) bool {
	return bytes.Contains(content, []byte("\r\n"))
}

func buildLineIndex(content []byte) []TextSize {
	out := make([]TextSize, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' {
			out = append(out, SizeOf(i))
		}
	}
	return out
}

func toLineCol(lineIdx []TextSize, off TextSize) LineCol {
	// количество переводов строк строго до off и есть номер строки (0-based)
	line, _ := slices.BinarySearch(lineIdx, off)
	var startOff TextSize
	if line > 0 {
		startOff = lineIdx[line-1] + 1
	}
	return LineCol{Line: uint32(SizeOf(line + 1)), Col: uint32(off-startOff) + 1}
}

// LineColAt resolves offset against text without building a File.
func LineColAt(text string, offset TextSize) LineCol {
	if int(offset) > len(text) {
		offset = SizeOf(len(text))
	}
	line := uint32(1)
	start := 0
	for i := 0; i < int(offset); i++ {
		if text[i] == '\n' {
			line++
			start = i + 1
		}
	}
	return LineCol{Line: line, Col: uint32(SizeOf(int(offset)-start)) + 1}
}
