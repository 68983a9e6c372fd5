package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bgql/internal/config"
	"bgql/internal/driver"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create a bgql.toml and a starter schema",
		Long: `Init writes a bgql.toml with the default settings and a starter
schema.bgql into [path] (the current directory when omitted). A missing
directory is created; an existing bgql.toml is never overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
	cmd.Flags().Bool("no-schema", false, "do not create schema.bgql")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	noSchema, err := cmd.Flags().GetBool("no-schema")
	if err != nil {
		return fmt.Errorf("failed to get no-schema flag: %w", err)
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	cfgPath := filepath.Join(target, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("already initialized: %s exists", cfgPath)
	}
	f, err := os.OpenFile(cfgPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", cfgPath, err)
	}
	encErr := config.Default().Encode(f)
	if err := f.Close(); err != nil && encErr == nil {
		encErr = err
	}
	if encErr != nil {
		return fmt.Errorf("failed to write %s: %w", cfgPath, encErr)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized bgql in %s\n", target)
	fmt.Fprintf(out, "  - %s\n", config.FileName)
	if noSchema {
		return nil
	}

	schemaPath := filepath.Join(target, driver.RootName)
	if _, err := os.Stat(schemaPath); err == nil {
		fmt.Fprintf(out, "  - %s (existing)\n", driver.RootName)
		return nil
	}
	if err := os.WriteFile(schemaPath, []byte(starterSchema), 0o644); err != nil { //nolint:gosec // schema files are meant to be readable
		return fmt.Errorf("failed to write %s: %w", schemaPath, err)
	}
	fmt.Fprintf(out, "  - %s\n", driver.RootName)
	return nil
}

const starterSchema = `# Starter schema: run "bgql diag ." to check it.
schema {
  query: Query
}

type Query {
  user(id: ID): Option<User>
  users(first: Int = 10): List<User>
}

type User implements Node {
  id: ID
  name: String
  email: Option<String>
}

interface Node {
  id: ID
}
`
