package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bgql/internal/config"
	"bgql/internal/driver"
	"bgql/internal/result"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] <file.bgql|->",
		Short: "Parse a schema document and print the ParseResult",
		Long: `Parse runs the whole front end over a schema document and prints the
resulting type list, schema roots, fragments and diagnostics. Use - to read
the document from stdin; modules are then resolved against the working directory.`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}
	cmd.Flags().String("format", "json", "output format (json|yaml)")
	cmd.Flags().Bool("compact", false, "emit JSON without indentation")
	cmd.Flags().Bool("nullable-default", false, "GraphQL nullability: bare types are nullable (overrides bgql.toml)")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	input := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	compact, err := cmd.Flags().GetBool("compact")
	if err != nil {
		return fmt.Errorf("failed to get compact flag: %w", err)
	}
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unknown format: %s", format)
	}

	cfg, err := loadConfig(cmd, input)
	if err != nil {
		return err
	}
	res, err := parseInput(cmd, input, cfg)
	if err != nil {
		return err
	}
	if err := printTimings(cmd, res.Timing); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "yaml" {
		err = result.WriteYAML(out, res.Output)
	} else {
		indent := "  "
		if compact {
			indent = ""
		}
		err = result.WriteJSON(out, res.Output, indent)
	}
	if err != nil {
		return err
	}
	if !res.Output.Success {
		return errDiagnostics
	}
	return nil
}

// parseInput runs the full pipeline over a path or, for "-", over stdin.
func parseInput(cmd *cobra.Command, input string, cfg config.Config) (*driver.Result, error) {
	timings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	opts := driver.Options{Config: cfg, EnableTimings: timings}

	if input != "-" {
		return driver.DiagnoseFile(input, opts)
	}
	text, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	opts.Loader = driver.NewDirLoader(wd)
	return driver.DiagnoseSource(filepath.Join(wd, "<stdin>"), string(text), opts), nil
}
