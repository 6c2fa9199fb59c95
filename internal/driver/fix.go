package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"verdant/internal/analyzer"
	"verdant/internal/diag"
	"verdant/internal/fix"
	"verdant/internal/source"
	"verdant/internal/syntax"
	"verdant/internal/trace"
)

// DefaultMaxPasses bounds the fix loop of one file.
const DefaultMaxPasses = 10

// SkipSyntaxErrors is why files that do not parse cleanly are not fixed.
const SkipSyntaxErrors = "syntax errors"

var errSyntax = errors.New("text has syntax errors")

// FixOptions configures FixFiles.
type FixOptions struct {
	Options
	// Unsafe also applies actions that may change behaviour.
	Unsafe bool
	// MaxPasses bounds re-analysis rounds per file; 0 is DefaultMaxPasses.
	MaxPasses int
	// DryRun computes the fixed text without writing it.
	DryRun bool
}

// FixResult is the outcome of fixing one file.
type FixResult struct {
	Path    string
	Applied []fix.AppliedFix
	// Skipped lists fixes left out in the last pass.
	Skipped []fix.SkippedFix
	Passes  int
	// Converged is false when MaxPasses ran out while fixes were still applying.
	Converged bool
	Changed   bool
	Text      string
	// NotFixed is why the file was left alone, as in FileResult.Skipped.
	NotFixed string
	// Err is a load or write failure; other files are unaffected.
	Err error
}

// FixFiles applies fixes to every file until no further fix applies. Each
// pass re-parses and re-analyzes the text produced by the previous one, so
// fixes skipped for overlapping an applied edit get another chance.
func FixFiles(ctx context.Context, paths []string, opts FixOptions, jobs int) ([]*FixResult, error) {
	if opts.Unsafe {
		opts.Actions = analyzer.ActionsAll
	} else {
		opts.Actions = analyzer.ActionsSafeOnly
	}
	s, err := opts.prepare()
	if err != nil {
		return nil, err
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "fix_files", trace.ParentID(ctx))
	defer span.End("")
	ctx = trace.WithSpan(ctx, span)

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]*FixResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(paths))))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = fixFile(gctx, path, s, opts)
			return nil
		})
	}
	err = g.Wait()
	return results, err
}

func fixFile(ctx context.Context, path string, s *settings, opts FixOptions) *FixResult {
	res := &FixResult{Path: path}
	fs := source.NewFileSet()
	file, skipped := loadFile(fs, path, s.cfg, opts.Timer)
	if skipped != nil {
		res.NotFixed = skipped.Skipped
		if skipped.Skipped == SkipLoadFailed {
			res.Err = fmt.Errorf("%s: %s", path, skipped.Diagnostics[0].Message.String())
		}
		return res
	}
	kind, _ := DetectLanguage(path)

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "fix", trace.ParentID(ctx)).WithExtra("path", path)
	defer func() {
		span.WithExtra("applied", fmt.Sprint(len(res.Applied))).End("")
	}()

	mode := fix.ApplyModeSafe
	if opts.Unsafe {
		mode = fix.ApplyModeUnsafe
	}
	maxPasses := opts.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}

	text := file.Text()
	goodText, goodApplied := text, 0
	// кэш узлов переживает проходы: неизменённые поддеревья переиспользуются
	cache := syntax.NewNodeCache()
	for res.Passes < maxPasses {
		if ctx.Err() != nil {
			break
		}
		res.Passes++
		applied, skippedFixes, next, err := fixPass(ctx, path, text, kind, s, cache, mode, opts, span.ID())
		if errors.Is(err, errSyntax) {
			// исходный файл не разбирается, либо прошлый проход его сломал: откат
			if res.Passes == 1 {
				res.NotFixed = SkipSyntaxErrors
			}
			text, res.Applied = goodText, res.Applied[:goodApplied]
			break
		}
		res.Skipped = skippedFixes
		if errors.Is(err, fix.ErrNoFixes) {
			res.Converged = true
			break
		}
		if err != nil {
			res.Err = err
			return res
		}
		goodText, goodApplied = text, len(res.Applied)
		res.Applied = append(res.Applied, applied...)
		if next == text {
			res.Converged = true
			break
		}
		text = next
	}

	res.Text = text
	res.Changed = text != file.Text()
	if res.Changed && !opts.DryRun {
		if err := fix.WriteFile(path, source.RestoreBOM([]byte(text), file.Flags)); err != nil {
			res.Err = fmt.Errorf("%s: %w", path, err)
		}
	}
	return res
}

// fixPass analyzes text once and applies the fixes it offers.
func fixPass(ctx context.Context, path, text string, kind FileKind, s *settings, cache *syntax.NodeCache, mode fix.ApplyMode, opts FixOptions, parent uint64) ([]fix.AppliedFix, []fix.SkippedFix, string, error) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(path, []byte(text)))
	tracer := trace.FromContext(ctx)
	parsed := parseFile(file, kind, s.cfg, cache, opts.Timer, tracer, parent)
	if slices.ContainsFunc(parsed.Diagnostics, func(d diag.Diagnostic) bool { return d.Severity >= diag.SevError }) {
		return nil, nil, text, errSyntax
	}

	mark := opts.Timer.Begin("analyze")
	aopts := s.cfg.AnalyzerOptions(path)
	aopts.Tracer = tracer
	aopts.TraceParent = parent
	collector := fix.NewCollector(text)
	sink := func(sig *analyzer.Signal) analyzer.ControlFlow[struct{}] {
		if ctx.Err() != nil {
			return analyzer.Break(struct{}{})
		}
		collector.Add(sig)
		return analyzer.Continue[struct{}]()
	}
	runEngine(parsed, s.filter, aopts, sink)
	mark.End()

	fixMark := opts.Timer.Begin("fix")
	defer fixMark.End()
	res, err := collector.Apply(fix.ApplyOptions{Mode: mode})
	if err != nil {
		var skipped []fix.SkippedFix
		if res != nil {
			skipped = res.Skipped
		}
		return nil, skipped, text, err
	}
	return res.Applied, res.Skipped, res.Text, nil
}
