package driver

import (
	"context"
	"fmt"

	"verdant/internal/config"
	"verdant/internal/diag"
	"verdant/internal/source"
	"verdant/internal/syntax"
	"verdant/internal/trace"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Kind    FileKind
	Root    *syntax.Node
	Bag     *diag.Bag
}

// Parse loads and parses one file without running rules. It backs the
// tokenize and parse commands.
func Parse(ctx context.Context, filePath string, cfg *config.Config, maxDiagnostics int) (*ParseResult, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	kind, ok := DetectLanguage(filePath)
	if !ok {
		return nil, fmt.Errorf("%s: %s", filePath, SkipUnsupported)
	}
	fs := source.NewFileSet()
	fileID, err := fs.Load(filePath)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	tracer := trace.FromContext(ctx)
	parsed := parseFile(file, kind, cfg, nil, nil, tracer, trace.ParentID(ctx))

	bag := diag.NewBag(maxDiagnostics)
	for _, d := range parsed.Diagnostics {
		if !bag.Add(d.WithFilePath(file.Path)) {
			break
		}
	}
	bag.Sort()

	return &ParseResult{
		FileSet: fs,
		File:    file,
		Kind:    kind,
		Root:    parsed.Root,
		Bag:     bag,
	}, nil
}
