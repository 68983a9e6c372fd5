package driver

import (
	"fmt"
	"path/filepath"

	"bgql/internal/ast"
	"bgql/internal/config"
	"bgql/internal/diag"
	"bgql/internal/lexer"
	"bgql/internal/modules"
	"bgql/internal/observ"
	"bgql/internal/parser"
	"bgql/internal/result"
	"bgql/internal/sema"
	"bgql/internal/source"
	"bgql/internal/symbols"
)

// Options содержит опции одного прогона конвейера
type Options struct {
	// Config supplies limits, lints and the nullability mode; the zero value means config.Default().
	Config           config.Config
	Stage            Stage
	Loader           modules.Loader
	IgnoreWarnings   bool
	WarningsAsErrors bool
	EnableTimings    bool
	Observer         PhaseObserver
}

// Result keeps every intermediate product so renderers can pick what they need.
// Fields past the requested Stage stay nil.
type Result struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	ASTFile ast.FileID
	Graph   *modules.Graph
	Symbols *symbols.Table
	Checked sema.Result
	Bag     *diag.Bag
	// Output is assembled for StageAll only.
	Output result.ParseResult
	Timing *observ.Report
	Cached bool
}

// Success mirrors ParseResult.success for any stage.
func (r *Result) Success() bool {
	return r != nil && r.Bag != nil && !r.Bag.HasErrors()
}

// DiagnoseSource runs the pipeline over in-memory text.
func DiagnoseSource(name, text string, opts Options) *Result {
	fs := source.NewFileSet()
	fileID := fs.AddSource(name, text)
	return Run(fs, fileID, opts)
}

// DiagnoseFile loads path from disk; without a loader, `mod name;` is served
// by a DirLoader rooted at the file's directory.
func DiagnoseFile(path string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	if opts.Loader == nil {
		opts.Loader = NewDirLoader(filepath.Dir(path))
	}
	return Run(fs, fileID, opts), nil
}

// Run drives one document through the stages up to opts.Stage. It never panics:
// an internal failure becomes an INT9001 error diagnostic.
func Run(fs *source.FileSet, fileID source.FileID, opts Options) (res *Result) {
	if opts.Stage == "" {
		opts.Stage = StageAll
	}
	cfg := opts.Config
	if cfg == (config.Config{}) {
		cfg = config.Default()
	}

	res = &Result{
		FileSet: fs,
		File:    fs.Get(fileID),
		Bag:     diag.NewBag(cfg.Limits.MaxDiagnostics),
	}
	var timer *observ.Timer
	if opts.EnableTimings {
		timer = observ.NewTimer()
	}
	ph := newPhases(timer, opts.Observer)

	defer func() {
		if r := recover(); r != nil {
			reportInternal(res.Bag, source.Span{File: fileID, Start: 0, End: 0}, r)
			salvage(res, fs, cfg)
			finishBag(res.Bag, opts)
			res.Output = result.Assemble(result.Input{
				Builder:         res.Builder,
				Graph:           res.Graph,
				Symbols:         res.Symbols,
				Checked:         res.Checked,
				Bag:             res.Bag,
				Files:           fs,
				NullableDefault: cfg.Compat.NullableDefault,
			})
		}
		if timer != nil {
			report := timer.Report()
			res.Timing = &report
		}
	}()

	// одинаковые диагностики попадают в bag один раз
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})
	lexOpts := lexer.Options{Reporter: rep, MaxTokens: cfg.Limits.MaxTokens}
	parseOpts := parser.Options{Reporter: rep, MaxDepth: cfg.Limits.MaxDepth}

	if opts.Stage == StageTokenize {
		idx := ph.begin("tokenize")
		tokens := lexer.New(res.File, lexOpts).Tokenize()
		ph.end(idx, "tokenize", fmt.Sprintf("tokens=%d", len(tokens)))
		finishBag(res.Bag, opts)
		return res
	}

	idx := ph.begin("parse")
	res.Builder = ast.NewBuilder(ast.Hints{}, nil)
	parsed := parser.ParseFile(lexer.New(res.File, lexOpts), res.Builder, parseOpts)
	res.ASTFile = parsed.File
	note := ""
	if f := res.Builder.Files.Get(parsed.File); f != nil {
		note = fmt.Sprintf("items=%d", len(f.Items))
	}
	ph.end(idx, "parse", note)

	if opts.Stage.Reaches(StageModules) {
		idx = ph.begin("modules")
		res.Graph = modules.Resolve(fs, res.Builder, parsed.File, modules.Options{
			Loader:   opts.Loader,
			Reporter: rep,
			MaxDepth: cfg.Limits.MaxModuleDepth,
			Parser:   parseOpts,
			Lexer:    lexOpts,
		})
		ph.end(idx, "modules", fmt.Sprintf("modules=%d", len(res.Graph.Modules)))
	}

	if opts.Stage.Reaches(StageSymbols) {
		idx = ph.begin("bind")
		res.Symbols = symbols.Bind(res.Graph, res.Builder, symbols.Options{Reporter: rep})
		ph.end(idx, "bind", "")
	}

	if opts.Stage.Reaches(StageSema) {
		idx = ph.begin("sema")
		semaOpts := SemaOptions(cfg)
		semaOpts.Reporter = rep
		semaOpts.Symbols = res.Symbols
		res.Checked = sema.Check(res.Builder, res.Graph, semaOpts)
		ph.end(idx, "sema", "")
	}

	finishBag(res.Bag, opts)

	if opts.Stage == StageAll {
		idx = ph.begin("assemble")
		res.Output = result.Assemble(result.Input{
			Builder:         res.Builder,
			Graph:           res.Graph,
			Symbols:         res.Symbols,
			Checked:         res.Checked,
			Bag:             res.Bag,
			Files:           fs,
			NullableDefault: cfg.Compat.NullableDefault,
		})
		ph.end(idx, "assemble", fmt.Sprintf("types=%d", len(res.Output.Types)))
	}
	return res
}

// salvage fills the stages a panic cut off so the result still lists what
// was parsed. Repeated stages run without a loader and report nothing: the
// INT9001 diagnostic already marks the run as failed.
func salvage(res *Result, fs *source.FileSet, cfg config.Config) {
	if res.Builder == nil {
		return
	}
	defer func() {
		// вторая паника: отдаём то, что успели собрать
		_ = recover()
	}()
	if res.Graph == nil {
		res.Graph = modules.Resolve(fs, res.Builder, res.ASTFile, modules.Options{
			MaxDepth: cfg.Limits.MaxModuleDepth,
		})
	}
	if res.Symbols == nil {
		res.Symbols = symbols.Bind(res.Graph, res.Builder, symbols.Options{})
	}
}

// SemaOptions maps the [compat] and [lint] tables onto checker options.
func SemaOptions(cfg config.Config) sema.Options {
	return sema.Options{
		NullableDefault:     cfg.Compat.NullableDefault,
		WarnRedundantBang:   cfg.Lint.RedundantBang == config.LintWarn,
		WarnDeprecatedUsage: cfg.Lint.DeprecatedUsage == config.LintWarn,
	}
}

func finishBag(bag *diag.Bag, opts Options) {
	bag.Sort()
	bag.Dedup()
	if opts.IgnoreWarnings {
		bag.Filter(func(d diag.Diagnostic) bool {
			return d.Severity >= diag.SevError
		})
	}
	if opts.WarningsAsErrors {
		bag.Transform(func(d diag.Diagnostic) diag.Diagnostic {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
			return d
		})
		// порядок зависит от severity
		bag.Sort()
	}
}

func reportInternal(bag *diag.Bag, sp source.Span, cause any) {
	d := diag.NewError(diag.InternalFailure, sp, fmt.Sprintf("internal failure: %v", cause))
	if bag.Add(d) {
		return
	}
	overflow := diag.NewBag(1)
	overflow.Add(d)
	bag.Merge(overflow)
}
