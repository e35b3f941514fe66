package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/docfn-mcp/internal/registry"
	"github.com/dshills/docfn-mcp/pkg/types"
)

var (
	fnArgs   []string
	fnParams []string
	fnJSON   bool
)

var fnCmd = &cobra.Command{
	Use:   "fn <signature> [description]",
	Short: "Render the markup for one signature",
	Example: `  docfn fn "Foo.bar(x: number): string" "Converts x" --arg "The input"
  docfn fn "on(event, cb)" --param event="Event name" --param cb=Handler --json`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		description := ""
		if len(args) > 1 {
			description = args[1]
		}

		params, err := paramFlags(fnArgs, fnParams)
		if err != nil {
			return err
		}

		d := newHelper(registry.New()).Declare(args[0], description, params)
		if !fnJSON {
			fmt.Fprintln(cmd.OutOrStdout(), d.Markup)
			return nil
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	},
}

// paramFlags turns --arg and --param values into parameter descriptions
func paramFlags(positional, named []string) (types.ParamDescriptions, error) {
	if len(positional) > 0 && len(named) > 0 {
		return types.ParamDescriptions{}, fmt.Errorf("use either --arg or --param, not both")
	}
	if len(named) == 0 {
		return types.Positional(positional...), nil
	}

	m := make(map[string]string, len(named))
	for _, kv := range named {
		name, desc, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return types.ParamDescriptions{}, fmt.Errorf("--param expects name=description, got %q", kv)
		}
		m[name] = desc
	}
	return types.Named(m), nil
}

func init() {
	fnCmd.Flags().StringArrayVar(&fnArgs, "arg", nil, "Argument description by position (repeatable)")
	fnCmd.Flags().StringArrayVar(&fnParams, "param", nil, "Argument description as name=description (repeatable)")
	fnCmd.Flags().BoolVar(&fnJSON, "json", false, "Print the full declaration as JSON")
	rootCmd.AddCommand(fnCmd)
}
