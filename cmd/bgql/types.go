package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"bgql/internal/result"
)

func newTypesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types [flags] <file.bgql|->",
		Short: "List the declared types of a schema document",
		Args:  cobra.ExactArgs(1),
		RunE:  runTypes,
	}
	cmd.Flags().String("kind", "", "only list types of this kind (e.g. OBJECT, UNION, INPUT_ENUM)")
	cmd.Flags().Bool("nullable-default", false, "GraphQL nullability: bare types are nullable (overrides bgql.toml)")
	return cmd
}

func runTypes(cmd *cobra.Command, args []string) error {
	input := args[0]
	kind, err := cmd.Flags().GetString("kind")
	if err != nil {
		return fmt.Errorf("failed to get kind flag: %w", err)
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

	out := res.Output
	if n := out.Errors(); n > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s, run `bgql diag %s` for details\n", countNoun(n, "error"), input)
	}
	renderTypes(cmd.OutOrStdout(), out, result.Kind(strings.ToUpper(kind)))
	if !out.Success {
		return errDiagnostics
	}
	return nil
}

// renderTypes prints one row per type; an empty kind lists everything.
func renderTypes(w io.Writer, r result.ParseResult, kind result.Kind) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Kind", "Details"})

	shown := 0
	for i := range r.Types {
		ti := &r.Types[i]
		if kind != "" && ti.Kind != kind {
			continue
		}
		t.AppendRow(table.Row{typeName(ti), ti.Kind, typeDetails(ti)})
		shown++
	}
	if shown == 0 {
		_, _ = fmt.Fprintln(w, "(0 types)")
		return
	}
	t.Render()

	if r.Schema != (result.SchemaInfo{}) {
		roots := make([]string, 0, 3)
		for _, root := range []struct{ op, name string }{
			{"query", r.Schema.QueryType},
			{"mutation", r.Schema.MutationType},
			{"subscription", r.Schema.SubscriptionType},
		} {
			if root.name != "" {
				roots = append(roots, root.op+": "+root.name)
			}
		}
		_, _ = fmt.Fprintf(w, "schema { %s }\n", strings.Join(roots, ", "))
	}
	_, _ = fmt.Fprintf(w, "(%s)\n", countNoun(shown, "type"))
}

func typeName(t *result.TypeInfo) string {
	if len(t.TypeParams) == 0 {
		return t.Name
	}
	params := make([]string, len(t.TypeParams))
	for i, p := range t.TypeParams {
		params[i] = p.Name
		if len(p.Bounds) > 0 {
			params[i] += " extends " + strings.Join(p.Bounds, " & ")
		}
	}
	return t.Name + "<" + strings.Join(params, ", ") + ">"
}

// typeDetails summarizes the kind-specific payload in one line.
func typeDetails(t *result.TypeInfo) string {
	var parts []string
	if len(t.Implements) > 0 {
		parts = append(parts, "implements "+strings.Join(t.Implements, " & "))
	}
	if t.Underlying != "" {
		parts = append(parts, "= "+t.Underlying)
	}
	if len(t.Members) > 0 {
		parts = append(parts, "= "+strings.Join(t.Members, " | "))
	}
	if len(t.Fields) > 0 {
		names := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			names[i] = f.Name
		}
		parts = append(parts, countNoun(len(t.Fields), "field")+": "+strings.Join(names, ", "))
	}
	if len(t.Values) > 0 {
		names := make([]string, len(t.Values))
		for i, v := range t.Values {
			names[i] = v.Name
		}
		parts = append(parts, countNoun(len(t.Values), "value")+": "+strings.Join(names, ", "))
	}
	if t.Invalid {
		parts = append(parts, "(invalid)")
	}
	return strings.Join(parts, "; ")
}
