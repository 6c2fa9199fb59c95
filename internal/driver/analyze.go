package driver

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sync"

	"verdant/internal/analyzer"
	"verdant/internal/config"
	"verdant/internal/diag"
	"verdant/internal/diagfmt"
	"verdant/internal/jsanalyze"
	"verdant/internal/jsonanalyze"
	"verdant/internal/lang/js"
	"verdant/internal/lang/json"
	"verdant/internal/observ"
	"verdant/internal/source"
	"verdant/internal/syntax"
	"verdant/internal/trace"
	"verdant/internal/version"
)

// Registry is the metadata of every compiled-in rule.
var Registry = sync.OnceValue(func() *analyzer.MetadataRegistry {
	return analyzer.NewMetadataRegistry(jsanalyze.Rules(), jsonanalyze.Rules())
})

// Options configures analysis runs.
type Options struct {
	// Config is the loaded verdant.toml; nil uses the defaults.
	Config *config.Config
	// Only replaces the configured rule selection when not empty.
	Only []analyzer.RuleFilter
	// Skip disables rules on top of the configuration.
	Skip []analyzer.RuleFilter
	// Actions selects the fixes built for each diagnostic.
	Actions analyzer.ActionFilter
	// MaxDiagnostics caps diagnostics per file; 0 is unlimited.
	MaxDiagnostics int

	Cache    *ResultCache
	Timer    *observ.Timer
	Observer Observer
}

// FileResult is the outcome of analyzing one file.
type FileResult struct {
	Path string
	Kind FileKind
	// File is nil when the file could not be loaded.
	File        *source.File
	Diagnostics []diag.Diagnostic
	Fixes       diagfmt.Fixes
	Stats       analyzer.Stats
	Cached      bool
	// Skipped is why the file was not analyzed; empty for analyzed files.
	Skipped string
}

// Bag collects the diagnostics into a bag limited to max.
func (r *FileResult) Bag(max int) *diag.Bag {
	bag := diag.NewBag(max)
	bag.AddAll(r.Diagnostics)
	return bag
}

func (r *FileResult) HasErrors() bool {
	return slices.ContainsFunc(r.Diagnostics, func(d diag.Diagnostic) bool {
		return d.Severity >= diag.SevError
	})
}

// Reasons a file is not analyzed.
const (
	SkipUnsupported = "unsupported file type"
	SkipTooLarge    = "file too large"
	SkipLoadFailed  = "failed to load file"
	SkipCanceled    = "canceled"
)

// settings is everything derived from Options once per run.
type settings struct {
	cfg         *config.Config
	filter      analyzer.AnalysisFilter
	filterKey   string
	fingerprint string
}

func (o Options) prepare() (*settings, error) {
	cfg := o.Config
	if cfg == nil {
		cfg = config.Default()
	}
	reg := Registry()
	filter, err := cfg.Filter(reg)
	if err != nil {
		return nil, err
	}
	for _, rf := range slices.Concat(o.Only, o.Skip) {
		if !knownFilter(reg, rf) {
			return nil, fmt.Errorf("unknown rule or group %q", rf.String())
		}
	}
	if len(o.Only) > 0 {
		filter.Enabled = slices.Clone(o.Only)
		filter.Categories = 0
	}
	filter.Disabled = append(filter.Disabled, o.Skip...)
	filter.Actions = o.Actions

	fp, err := cfg.Fingerprint()
	if err != nil {
		return nil, err
	}
	return &settings{
		cfg:         cfg,
		filter:      filter,
		filterKey:   fmt.Sprintf("%v|%v|%v|%d", filter.Enabled, filter.Disabled, filter.Categories, filter.Actions),
		fingerprint: fp,
	}, nil
}

func knownFilter(reg *analyzer.MetadataRegistry, rf analyzer.RuleFilter) bool {
	if rf.Name != "" {
		_, ok := reg.Find(rf.Group, rf.Name)
		return ok
	}
	return slices.Contains(reg.Groups(), rf.Group)
}

// AnalyzeFile loads, parses and analyzes one file. Problems with the file
// itself are reported as diagnostics; the error is for invalid options.
func AnalyzeFile(ctx context.Context, path string, opts Options) (*FileResult, error) {
	s, err := opts.prepare()
	if err != nil {
		return nil, err
	}
	fs := source.NewFileSet()
	file, res := loadFile(fs, path, s.cfg, opts.Timer)
	if res != nil {
		return res, nil
	}
	kind, _ := DetectLanguage(path)
	return analyzeLoaded(ctx, file, kind, s, opts), nil
}

// loadFile reads path into fs. A non-nil result means the file is not
// analyzed and explains why.
func loadFile(fs *source.FileSet, path string, cfg *config.Config, timer *observ.Timer) (*source.File, *FileResult) {
	mark := timer.Begin("load")
	defer mark.End()

	kind, ok := DetectLanguage(path)
	res := &FileResult{Path: path, Kind: kind}
	if !ok {
		res.Skipped = SkipUnsupported
		res.Diagnostics = []diag.Diagnostic{
			diag.New(diag.CategoryIO, diag.SevWarning, source.TextRange{},
				diag.Msgf("unsupported file type, only JavaScript and JSON files are analyzed")).WithFilePath(path),
		}
		return nil, res
	}
	info, err := os.Stat(path)
	if err == nil && info.Size() > cfg.MaxSize() {
		res.Skipped = SkipTooLarge
		res.Diagnostics = []diag.Diagnostic{
			diag.New(diag.CategoryIO, diag.SevWarning, source.TextRange{},
				diag.Msgf("file is %d bytes, larger than the %d bytes limit", info.Size(), cfg.MaxSize())).
				WithFilePath(path).
				WithNote(diag.Markup(diag.Text("raise "), diag.Code("files.max_size"), diag.Text(" to analyze it"))),
		}
		return nil, res
	}
	var id source.FileID
	if err == nil {
		id, err = fs.Load(path)
	}
	if err != nil {
		res.Skipped = SkipLoadFailed
		res.Diagnostics = []diag.Diagnostic{
			diag.NewError(diag.CategoryIO, source.TextRange{}, "failed to load file: %v", err).WithFilePath(path),
		}
		return nil, res
	}
	return fs.Get(id), nil
}

// analyzeLoaded runs parse and analysis for a file already in memory,
// consulting the result cache first.
func analyzeLoaded(ctx context.Context, file *source.File, kind FileKind, s *settings, opts Options) *FileResult {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "file", trace.ParentID(ctx)).WithExtra("path", file.Path)
	res := &FileResult{Path: file.Path, Kind: kind, File: file, Fixes: diagfmt.Fixes{}}
	defer func() {
		span.WithExtra("diagnostics", fmt.Sprint(len(res.Diagnostics))).End(res.Skipped)
	}()

	key := resultKey(Digest(file.Hash), file.Path, kind, s.fingerprint, s.filterKey, version.CacheKey())
	if p, ok := opts.Cache.Get(key); ok {
		applyPayload(res, p)
		res.limit(opts.MaxDiagnostics)
		trace.Point(tracer, trace.ScopePhase, "cache_hit", file.Path, span.ID())
		return res
	}

	parsed := parseFile(file, kind, s.cfg, nil, opts.Timer, tracer, span.ID())
	for _, d := range parsed.Diagnostics {
		res.Diagnostics = append(res.Diagnostics, d.WithFilePath(file.Path))
	}

	mark := opts.Timer.Begin("analyze")
	aopts := s.cfg.AnalyzerOptions(file.Path)
	aopts.Tracer = tracer
	aopts.TraceParent = span.ID()
	text := file.Text()
	sink := func(sig *analyzer.Signal) analyzer.ControlFlow[struct{}] {
		select {
		case <-ctx.Done():
			return analyzer.Break(struct{}{})
		default:
		}
		res.addSignal(sig, text)
		return analyzer.Continue[struct{}]()
	}
	outcome, errs := runEngine(parsed, s.filter, aopts, sink)
	res.Stats = outcome.stats
	mark.End()

	for _, err := range errs {
		d, ok := analyzer.ErrorDiagnostic(err)
		if !ok {
			d = diag.NewError(diag.CategoryInternalPanic, source.TextRange{}, "%v", err).WithTags(diag.TagInternal)
		}
		res.Diagnostics = append(res.Diagnostics, d.WithFilePath(file.Path))
	}

	slices.SortStableFunc(res.Diagnostics, diag.Compare)
	if outcome.stopped || ctx.Err() != nil {
		res.Skipped = SkipCanceled
		res.limit(opts.MaxDiagnostics)
		return res
	}
	// в кэш попадает полный результат, лимит у каждого запуска свой
	if err := opts.Cache.Put(key, payloadFromResult(res)); err != nil {
		trace.Point(tracer, trace.ScopePhase, "cache_error", err.Error(), span.ID())
	}
	res.limit(opts.MaxDiagnostics)
	return res
}

func (r *FileResult) limit(max int) {
	if max > 0 && len(r.Diagnostics) > max {
		r.Diagnostics = r.Diagnostics[:max]
	}
}

// addSignal records the diagnostic of sig and the fixes its actions offer.
// Signals without a diagnostic are assists and only matter to FixFiles.
func (r *FileResult) addSignal(sig *analyzer.Signal, text string) {
	if sig.Diagnostic == nil {
		return
	}
	d := *sig.Diagnostic
	if d.Location.Path == "" {
		d = d.WithFilePath(r.Path)
	}
	r.Diagnostics = append(r.Diagnostics, d)
	for _, a := range sig.Actions {
		_, edit, err := analyzer.ApplyAction(text, a)
		if err != nil || edit.IsEmpty() {
			continue
		}
		r.Fixes.Add(d, diagfmt.Suggestion{
			Title: a.Message.String(),
			Safe:  a.Applicability == analyzer.ApplicabilityAlways,
			Edit:  edit,
		})
	}
}

// parsedFile is a parse result of either language.
type parsedFile struct {
	Root        *syntax.Node
	Diagnostics []diag.Diagnostic
	js          *js.Parsed
	json        *json.Parsed
}

// parseFile parses file per kind. cache may be nil.
func parseFile(file *source.File, kind FileKind, cfg *config.Config, cache *syntax.NodeCache, timer *observ.Timer, tracer trace.Tracer, parent uint64) *parsedFile {
	mark := timer.Begin("parse")
	span := trace.Begin(tracer, trace.ScopePhase, "parse", parent)
	defer func() {
		span.End("")
		mark.End()
	}()

	if kind.Language == LangJSON {
		parsed := json.Parse(file.Text(), cfg.JSONParseOptions(kind.JSONC), cache)
		return &parsedFile{Root: parsed.Root, Diagnostics: parsed.Diagnostics, json: parsed}
	}
	parsed := js.Parse(file.Text(), kind.JS, cfg.JSParserOptions(), cache)
	return &parsedFile{Root: parsed.Root, Diagnostics: parsed.Diagnostics, js: parsed}
}

type engineOutcome struct {
	stats   analyzer.Stats
	stopped bool
}

// runEngine runs the rule set of the parsed file's language.
func runEngine[B any](p *parsedFile, filter analyzer.AnalysisFilter, opts *analyzer.AnalyzerOptions, sink analyzer.Sink[B]) (engineOutcome, []error) {
	var e *analyzer.Engine[B]
	if p.js != nil {
		e = analyzer.New[B](jsanalyze.Rules(), jsanalyze.Params(p.js, filter, opts))
	} else {
		e = analyzer.New[B](jsonanalyze.Rules(), jsonanalyze.Params(p.json, filter, opts))
	}
	brk, errs := e.Run(sink)
	return engineOutcome{stats: e.Stats(), stopped: brk != nil}, errs
}
