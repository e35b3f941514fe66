package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dshills/docfn-mcp/internal/completion"
	"github.com/dshills/docfn-mcp/internal/registry"
	"github.com/dshills/docfn-mcp/internal/storage"
	"github.com/dshills/docfn-mcp/pkg/types"
)

var searchLimit int

var listCmd = &cobra.Command{
	Use:   "list [pattern...]",
	Short: "List stored functions, optionally filtered by wildcard patterns",
	Example: `  docfn list
  docfn list "Collection.*" "insert*"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		reg := registry.New()
		if _, err := storage.LoadInto(cmd.Context(), store, reg); err != nil {
			return err
		}

		completer, err := completion.New(reg, store, cfg.CacheSize)
		if err != nil {
			return err
		}

		functions := completer.Match(args...)
		if len(functions) == 0 {
			return fmt.Errorf("no functions found")
		}

		tbl := table.NewWriter()
		tbl.SetOutputMirror(cmd.OutOrStdout())
		tbl.AppendHeader(table.Row{"ID", "Kind", "Arguments", "Returns", "Description"})
		for _, fn := range functions {
			tbl.AppendRow(table.Row{fn.ID, kind(fn), formatArgs(fn.Args), fn.ReturnType, fn.Description})
		}
		tbl.Render()
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over stored functions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		completer, err := completion.New(registry.New(), store, cfg.CacheSize)
		if err != nil {
			return err
		}

		results, err := completer.Search(cmd.Context(), strings.Join(args, " "), searchLimit)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			return fmt.Errorf("no results found")
		}

		tbl := table.NewWriter()
		tbl.SetOutputMirror(cmd.OutOrStdout())
		tbl.AppendHeader(table.Row{"ID", "Score", "Source", "Description"})
		for _, r := range results {
			tbl.AppendRow(table.Row{r.Function.ID, fmt.Sprintf("%.3f", r.Score), r.Source, r.Function.Description})
		}
		tbl.Render()
		return nil
	},
}

func kind(fn *types.FunctionDescription) string {
	if fn.IsMethod {
		return "method"
	}
	return "function"
}

// formatArgs renders arguments the way they are declared
func formatArgs(args []types.ArgumentDescription) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		var b strings.Builder
		if a.Collect {
			b.WriteString("...")
		}
		b.WriteString(a.Name)
		if a.Type != "" {
			b.WriteString(": ")
			b.WriteString(a.Type)
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, ", ")
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "Maximum number of results")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
}
