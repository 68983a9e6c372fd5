package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bgql/internal/config"
	"bgql/internal/prof"
	"bgql/internal/version"
)

// exitError carries a non-zero exit status without an error message:
// diagnostics were already printed.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

var errDiagnostics = exitError{code: 1}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bgql",
		Short:         "Better GraphQL schema front end",
		Long:          `bgql parses, checks and describes Better GraphQL schema documents`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return startProfiling(cmd)
		},
	}

	rootCmd.AddCommand(newTokenizeCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newDiagCmd())
	rootCmd.AddCommand(newTypesCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", config.DefaultMaxDiagnostics, "maximum number of diagnostics to keep (overrides bgql.toml)")
	rootCmd.PersistentFlags().String("config", "", "path to bgql.toml (default: nearest one above the input)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to file")
	return rootCmd
}

// profiling is the session started by the current command, if any.
var profiling *prof.Session

func startProfiling(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPUProfile, err = flags.GetString("cpu-profile"); err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.MemProfile, err = flags.GetString("mem-profile"); err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !opts.Enabled() {
		return nil
	}
	profiling, err = prof.Start(opts)
	return err
}

func stopProfiling() {
	if err := profiling.Stop(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	profiling = nil
}

func main() {
	err := newRootCmd().Execute()
	stopProfiling()
	if err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

// isTerminal проверяет, является ли writer терминалом
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}

// useColor resolves --color for output written to w.
func useColor(cmd *cobra.Command, w io.Writer) (bool, error) {
	colorFlag, err := cmd.Flags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorFlag {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "auto", "":
		return isTerminal(w) && os.Getenv("NO_COLOR") == "", nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
}

// loadConfig reads --config or the nearest bgql.toml above input and applies
// command-line overrides.
func loadConfig(cmd *cobra.Command, input string) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}

	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Discover(configStartDir(input))
	}
	if err != nil {
		return config.Config{}, err
	}

	if f := cmd.Flags().Lookup("max-diagnostics"); f != nil && f.Changed {
		n, err := cmd.Flags().GetInt("max-diagnostics")
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
		cfg.Limits.MaxDiagnostics = n
	}
	if f := cmd.Flags().Lookup("nullable-default"); f != nil && f.Changed {
		nd, err := cmd.Flags().GetBool("nullable-default")
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to get nullable-default flag: %w", err)
		}
		cfg.Compat.NullableDefault = nd
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func configStartDir(input string) string {
	if input == "" || input == "-" {
		return "."
	}
	if st, err := os.Stat(input); err == nil && st.IsDir() {
		return input
	}
	return filepath.Dir(input)
}
