package driver

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"verdant/internal/source"
	"verdant/internal/trace"
)

// AnalyzeFiles анализирует файлы параллельно, не больше jobs одновременно.
// Результаты идут в порядке paths. Каждый файл получает свой движок анализатора.
// The returned FileSet holds every file that was loaded; renderers look
// snippets up in it. After cancellation the results of files that never
// started are nil.
func AnalyzeFiles(ctx context.Context, paths []string, opts Options, jobs int) (*source.FileSet, []*FileResult, error) {
	s, err := opts.prepare()
	if err != nil {
		return nil, nil, err
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "analyze_files", trace.ParentID(ctx))
	defer span.End("")
	ctx = trace.WithSpan(ctx, span)

	fileSet := source.NewFileSet()
	results := make([]*FileResult, len(paths))
	if len(paths) == 0 {
		return fileSet, results, nil
	}

	// Предзагружаем все файлы последовательно: FileSet присваивает ID по порядку
	files := make([]*source.File, len(paths))
	for i, path := range paths {
		file, skipped := loadFile(fileSet, path, s.cfg, opts.Timer)
		if skipped != nil {
			results[i] = skipped
			continue
		}
		files[i] = file
	}

	// Настраиваем параллелизм
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		if results[i] != nil {
			opts.Observer.emit(FileEvent{Path: path, Index: i, Total: len(paths), Status: FileDone, Result: results[i]})
			continue
		}
		g.Go(func() error {
			// Проверка отмены
			if err := gctx.Err(); err != nil {
				return err
			}
			opts.Observer.emit(FileEvent{Path: path, Index: i, Total: len(paths), Status: FileStart})
			start := time.Now()

			kind, _ := DetectLanguage(path)
			// индекс i уникален для горутины, мьютекс не нужен
			results[i] = analyzeLoaded(gctx, files[i], kind, s, opts)

			opts.Observer.emit(FileEvent{
				Path:    path,
				Index:   i,
				Total:   len(paths),
				Status:  FileDone,
				Elapsed: time.Since(start),
				Result:  results[i],
			})
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}
