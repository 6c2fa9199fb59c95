package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска
	// FileHadBOM is set when a UTF-8 BOM was stripped on load; writers put it back.
	FileHadBOM
	// FileHasCRLF is set when the content uses \r\n line endings. Content is kept as is.
	FileHasCRLF
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []TextSize // смещения всех '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, в байтах
}

// Text returns the file content as a string.
func (f *File) Text() string {
	return string(f.Content)
}

// Len returns the content length.
func (f *File) Len() TextSize {
	return SizeOf(len(f.Content))
}

// Position converts a byte offset into a line/column pair.
func (f *File) Position(offset TextSize) LineCol {
	return toLineCol(f.LineIdx, offset)
}
