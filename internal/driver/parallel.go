package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"bgql/internal/observ"
)

// DirOptions настраивает обход директории
type DirOptions struct {
	Options
	// Jobs bounds concurrent files; <= 0 means GOMAXPROCS.
	Jobs  int
	Cache *DiskCache
	Sink  ProgressSink
}

// FileResult is the outcome for one document of a directory run.
type FileResult struct {
	Path   string
	Result *Result
	// Err is set when the file could not be read at all.
	Err error
}

// ListSchemaFiles возвращает отсортированный список всех *.bgql файлов в директории
func ListSchemaFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, Extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// DiagnoseDir runs every *.bgql file under dir as its own root document.
// Each file gets its own FileSet and bag; results come back in path order.
func DiagnoseDir(ctx context.Context, dir string, opts DirOptions) ([]FileResult, error) {
	files, err := ListSchemaFiles(dir)
	if err != nil {
		return nil, err
	}
	return DiagnoseFiles(ctx, files, opts)
}

// DiagnoseFiles is DiagnoseDir over an explicit file list.
func DiagnoseFiles(ctx context.Context, files []string, opts DirOptions) ([]FileResult, error) {
	if len(files) == 0 {
		return nil, nil
	}
	emit := func(ev Event) {
		if opts.Sink != nil {
			opts.Sink.OnEvent(ev)
		}
	}
	for _, path := range files {
		emit(Event{File: path, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]FileResult, len(files))
	modCache := NewModuleCache(len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			fileOpts := opts.Options
			if fileOpts.Loader == nil {
				root := filepath.Dir(path)
				fileOpts.Loader = modCache.Wrap(NewDirLoader(root), root)
			}
			fileOpts.Observer = func(ev PhaseEvent) {
				if ev.Status == PhaseStart {
					emit(Event{File: path, Phase: ev.Name, Status: StatusWorking})
				}
			}
			res, err := DiagnoseFileCached(path, fileOpts, opts.Cache)
			results[i] = FileResult{Path: path, Result: res, Err: err}

			status := StatusDone
			switch {
			case err != nil || !res.Success():
				status = StatusError
			case res.Cached:
				status = StatusCached
			}
			emit(Event{File: path, Status: status, Err: err, Elapsed: time.Since(start)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// AggregateTimings sums per-file phase timings of a directory run.
func AggregateTimings(results []FileResult) observ.Report {
	reports := make([]observ.Report, 0, len(results))
	for _, fr := range results {
		if fr.Result != nil && fr.Result.Timing != nil {
			reports = append(reports, *fr.Result.Timing)
		}
	}
	return observ.Aggregate(reports...)
}
