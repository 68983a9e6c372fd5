package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"bgql/internal/diagfmt"
	"bgql/internal/driver"
	"bgql/internal/observ"
	"bgql/internal/ui"
	"bgql/internal/version"
)

func newDiagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diag [flags] <file.bgql|directory>",
		Short: "Run diagnostics on a schema document or directory",
		Long: `Run diagnostics to find syntax, module and semantic issues in a schema
document, or in every *.bgql file of a directory (each file is checked as its
own root document).`,
		Args: cobra.ExactArgs(1),
		RunE: runDiagnose,
	}
	addDiagFlags(cmd)
	return cmd
}

func addDiagFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "pretty", "output format (pretty|json|sarif|short)")
	cmd.Flags().String("stages", "all", "diagnostic stages to run (tokenize|syntax|modules|symbols|sema|all)")
	cmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	cmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	cmd.Flags().Bool("nullable-default", false, "GraphQL nullability: bare types are nullable (overrides bgql.toml)")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	cmd.Flags().Bool("with-notes", true, "include diagnostic notes in output")
	cmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	cmd.Flags().Bool("preview", false, "show fix previews (implies --suggest)")
	cmd.Flags().String("path-mode", "auto", "how to print file paths (auto|absolute|relative|basename)")
	cmd.Flags().String("ui", "off", "progress UI for directories (auto|on|off)")
	cmd.Flags().Bool("cache", false, "reuse results from the disk cache for unchanged files")
}

// diagFlags: разобранные флаги команды diag
type diagFlags struct {
	format   string
	opts     driver.Options
	jobs     int
	pretty   diagfmt.PrettyOpts
	json     diagfmt.JSONOpts
	uiMode   uiMode
	useCache bool
}

func readDiagFlags(cmd *cobra.Command, input string) (diagFlags, error) {
	var f diagFlags
	var err error
	flags := cmd.Flags()

	if f.format, err = flags.GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch f.format {
	case "pretty", "json", "sarif", "short":
	default:
		return f, fmt.Errorf("unknown format: %s", f.format)
	}

	stagesStr, err := flags.GetString("stages")
	if err != nil {
		return f, fmt.Errorf("failed to get stages flag: %w", err)
	}
	if f.opts.Stage, err = driver.ParseStage(stagesStr); err != nil {
		return f, err
	}
	if f.opts.IgnoreWarnings, err = flags.GetBool("no-warnings"); err != nil {
		return f, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	if f.opts.WarningsAsErrors, err = flags.GetBool("warnings-as-errors"); err != nil {
		return f, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if f.opts.IgnoreWarnings && f.opts.WarningsAsErrors {
		return f, fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	if f.opts.EnableTimings, err = flags.GetBool("timings"); err != nil {
		return f, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if f.opts.Config, err = loadConfig(cmd, input); err != nil {
		return f, err
	}
	if f.jobs, err = flags.GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}

	withNotes, err := flags.GetBool("with-notes")
	if err != nil {
		return f, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := flags.GetBool("suggest")
	if err != nil {
		return f, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	preview, err := flags.GetBool("preview")
	if err != nil {
		return f, fmt.Errorf("failed to get preview flag: %w", err)
	}
	pathModeStr, err := flags.GetString("path-mode")
	if err != nil {
		return f, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	pathMode, err := diagfmt.ParsePathMode(pathModeStr)
	if err != nil {
		return f, err
	}
	color, err := useColor(cmd, cmd.OutOrStdout())
	if err != nil {
		return f, err
	}
	f.pretty = diagfmt.PrettyOpts{
		Color:       color,
		Context:     1,
		PathMode:    pathMode,
		ShowNotes:   withNotes,
		ShowFixes:   suggest || preview,
		ShowPreview: preview,
	}
	f.json = diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         pathMode,
		IncludeNotes:     withNotes,
		IncludeFixes:     suggest || preview,
		IncludePreviews:  preview,
	}

	uiStr, err := flags.GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.uiMode, err = readUIMode(uiStr); err != nil {
		return f, err
	}
	if f.useCache, err = flags.GetBool("cache"); err != nil {
		return f, fmt.Errorf("failed to get cache flag: %w", err)
	}
	return f, nil
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	input := args[0]
	f, err := readDiagFlags(cmd, input)
	if err != nil {
		return err
	}
	var cache *driver.DiskCache
	if f.useCache {
		if cache, err = driver.OpenDiskCache("bgql"); err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
	}
	failed, err := diagnoseOnce(cmd, input, f, cache)
	if err != nil {
		return err
	}
	if failed {
		return errDiagnostics
	}
	return nil
}

// diagnoseOnce checks input, prints the report and tells whether any file failed.
func diagnoseOnce(cmd *cobra.Command, input string, f diagFlags, cache *driver.DiskCache) (bool, error) {
	st, err := os.Stat(input)
	if err != nil {
		return false, fmt.Errorf("failed to stat path: %w", err)
	}

	var results []driver.FileResult
	if st.IsDir() {
		results, err = diagnoseDir(cmd, input, f, cache)
		if err != nil {
			return false, fmt.Errorf("diagnosis failed: %w", err)
		}
	} else {
		res, err := driver.DiagnoseFileCached(input, f.opts, cache)
		results = []driver.FileResult{{Path: input, Result: res, Err: err}}
	}

	failed := false
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", r.Err)
			failed = true
			continue
		}
		if !r.Result.Success() {
			failed = true
		}
	}
	if err := writeDiagnostics(cmd, cmd.OutOrStdout(), f, results); err != nil {
		return failed, err
	}
	if err := printTimings(cmd, aggregateTimings(results)); err != nil {
		return failed, err
	}
	return failed, nil
}

func diagnoseDir(cmd *cobra.Command, dir string, f diagFlags, cache *driver.DiskCache) ([]driver.FileResult, error) {
	dirOpts := driver.DirOptions{Options: f.opts, Jobs: f.jobs, Cache: cache}
	if !shouldUseTUI(f.uiMode, cmd.ErrOrStderr()) {
		return driver.DiagnoseDir(cmd.Context(), dir, dirOpts)
	}
	files, err := driver.ListSchemaFiles(dir)
	if err != nil {
		return nil, err
	}
	return runDirWithUI(cmd.Context(), cmd.ErrOrStderr(), "bgql diag "+dir, files, dirOpts)
}

type dirOutcome struct {
	results []driver.FileResult
	err     error
}

func runDirWithUI(ctx context.Context, out io.Writer, title string, files []string, opts driver.DirOptions) ([]driver.FileResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan dirOutcome, 1)

	go func() {
		opts.Sink = driver.ChannelSink{Ch: events}
		res, err := driver.DiagnoseFiles(ctx, files, opts)
		outcomeCh <- dirOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// дочитываем события, если UI вышел раньше
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}

func writeDiagnostics(cmd *cobra.Command, w io.Writer, f diagFlags, results []driver.FileResult) error {
	switch f.format {
	case "pretty":
		for _, r := range results {
			if r.Result != nil {
				diagfmt.Pretty(w, r.Result.Bag, r.Result.FileSet, f.pretty)
			}
		}
		quiet, err := cmd.Flags().GetBool("quiet")
		if err != nil {
			return fmt.Errorf("failed to get quiet flag: %w", err)
		}
		if !quiet {
			return writeSummary(w, results)
		}
		return nil
	case "short":
		for _, r := range results {
			if r.Result == nil {
				continue
			}
			if err := diagfmt.Short(w, r.Result.Bag, r.Result.FileSet, f.pretty.ShowNotes); err != nil {
				return err
			}
		}
		return nil
	case "json":
		return writeJSONDiagnostics(w, f.json, results)
	case "sarif":
		inputs := make([]diagfmt.SarifInput, 0, len(results))
		for _, r := range results {
			if r.Result != nil {
				inputs = append(inputs, diagfmt.SarifInput{Bag: r.Result.Bag, Files: r.Result.FileSet})
			}
		}
		meta := diagfmt.SarifRunMeta{
			ToolName:       "bgql",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args,
		}
		return diagfmt.SarifMulti(w, inputs, meta)
	}
	return fmt.Errorf("unknown format: %s", f.format)
}

// fileDiagnostics is one entry of `diag --format json` output.
type fileDiagnostics struct {
	File string `json:"file"`
	diagfmt.DiagnosticsOutput
	Cached bool   `json:"cached,omitempty"`
	Error  string `json:"error,omitempty"`
}

func writeJSONDiagnostics(w io.Writer, opts diagfmt.JSONOpts, results []driver.FileResult) error {
	if len(results) == 1 && results[0].Result != nil {
		r := results[0].Result
		return diagfmt.JSON(w, r.Bag, r.FileSet, opts)
	}
	out := make([]fileDiagnostics, 0, len(results))
	for _, r := range results {
		entry := fileDiagnostics{File: r.Path}
		if r.Err != nil {
			entry.Error = r.Err.Error()
		} else {
			entry.DiagnosticsOutput = diagfmt.BuildDiagnosticsOutput(r.Result.Bag, r.Result.FileSet, opts)
			entry.Cached = r.Result.Cached
		}
		out = append(out, entry)
	}
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeSummary(w io.Writer, results []driver.FileResult) error {
	var errs, warns, files int
	for _, r := range results {
		if r.Result == nil {
			continue
		}
		files++
		for _, d := range r.Result.Bag.Items() {
			switch d.Severity.Label() {
			case "error":
				errs++
			case "warning":
				warns++
			}
		}
	}
	if errs == 0 && warns == 0 {
		_, err := fmt.Fprintf(w, "ok: %s checked\n", countNoun(files, "file"))
		return err
	}
	_, err := fmt.Fprintf(w, "%s, %s in %s\n", countNoun(errs, "error"), countNoun(warns, "warning"), countNoun(files, "file"))
	return err
}

func countNoun(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func aggregateTimings(results []driver.FileResult) *observ.Report {
	if len(results) == 1 {
		if r := results[0].Result; r != nil {
			return r.Timing
		}
		return nil
	}
	report := driver.AggregateTimings(results)
	if len(report.Phases) == 0 {
		return nil
	}
	return &report
}

// printTimings writes the timing table to stderr when --timings is set.
func printTimings(cmd *cobra.Command, report *observ.Report) error {
	show, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	if !show || report == nil {
		return nil
	}
	_, err = io.WriteString(cmd.ErrOrStderr(), report.String())
	return err
}
