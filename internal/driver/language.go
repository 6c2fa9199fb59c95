package driver

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"verdant/internal/lang/js"
)

// Language is the parser a file is routed to.
type Language uint8

const (
	LangUnknown Language = iota
	LangJS
	LangJSON
)

func (l Language) String() string {
	switch l {
	case LangJS:
		return "js"
	case LangJSON:
		return "json"
	}
	return "unknown"
}

// FileKind describes how a file is parsed.
type FileKind struct {
	Language Language
	// JS is set for LangJS.
	JS js.FileSource
	// JSONC enables comments and trailing commas for LangJSON.
	JSONC bool
}

// DetectLanguage maps a path to its parser by extension.
func DetectLanguage(path string) (FileKind, bool) {
	if src, ok := js.FileSourceFromPath(path); ok {
		return FileKind{Language: LangJS, JS: src}, true
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FileKind{Language: LangJSON}, true
	case ".jsonc":
		return FileKind{Language: LangJSON, JSONC: true}, true
	}
	return FileKind{}, false
}

// skipDirs are never descended into when expanding directories.
var skipDirs = []string{".git", "node_modules", ".cache"}

// ListFiles expands paths into the files verdant can analyze. Directories are
// walked recursively; files named explicitly are kept even when their
// extension is unknown so the caller can report them. ignore filters both.
func ListFiles(paths []string, ignore func(string) bool) ([]string, error) {
	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if ignore == nil || !ignore(root) {
				files = append(files, root)
			}
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && slices.Contains(skipDirs, d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if _, ok := DetectLanguage(path); !ok {
				return nil
			}
			if ignore != nil && ignore(path) {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	// Сортируем для детерминированного порядка
	slices.Sort(files)
	return slices.Compact(files), nil
}
