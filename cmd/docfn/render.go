package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/docfn-mcp/internal/indexer"
	"github.com/dshills/docfn-mcp/internal/registry"
	"github.com/dshills/docfn-mcp/internal/storage"
)

var (
	renderOut     string
	renderPersist bool
	renderDryRun  bool
	renderWorkers int
	renderInclude []string
	renderExclude []string
)

var renderCmd = &cobra.Command{
	Use:   "render [dir]",
	Short: "Render the documentation templates under dir (default: .)",
	Long: `Render every template under dir that matches the include patterns
(default *.tmpl). Templates call fn to declare signatures:

  {{ fn "Foo.bar(x: number): string" "Converts x" (args "The input") }}

Templates are rendered in path order against one registry, so a function's
first declaration in that order carries its anchor.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}

		flags := cmd.Flags()
		if !flags.Changed("out") {
			renderOut = cfg.OutDir
		}
		if !flags.Changed("persist") {
			renderPersist = cfg.Persist
		}
		if !flags.Changed("workers") {
			renderWorkers = cfg.Workers
		}
		if !flags.Changed("include") {
			renderInclude = cfg.Include
		}
		if !flags.Changed("exclude") {
			renderExclude = cfg.Exclude
		}

		var store storage.Storage
		if renderPersist && !renderDryRun {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			store = s
		}

		idx := indexer.New(newHelper(registry.New()), store, indexer.WithLogger(logger, cfg.Verbose))
		stats, err := idx.RenderDir(cmd.Context(), dir, &indexer.Config{
			Include: renderInclude,
			Exclude: renderExclude,
			OutDir:  renderOut,
			Workers: renderWorkers,
			Persist: store != nil,
			DryRun:  renderDryRun,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Rendered %d files (%d failed) in %v\n", stats.FilesRendered, stats.FilesFailed, stats.Duration)
		fmt.Fprintf(out, "Declarations: %d, registered: %d, duplicates: %d, unparsed: %d\n",
			stats.Declarations, stats.Registered, stats.Duplicates, stats.Unparsed)
		if store != nil {
			fmt.Fprintf(out, "Persisted %d new functions\n", stats.FunctionsPersisted)
		}
		for _, msg := range stats.ErrorMessages {
			fmt.Fprintln(cmd.ErrOrStderr(), msg)
		}

		if stats.FilesFailed > 0 {
			return fmt.Errorf("%d of %d files failed", stats.FilesFailed, stats.FilesFailed+stats.FilesRendered)
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Output directory (default: next to each template)")
	renderCmd.Flags().BoolVar(&renderPersist, "persist", true, "Save declared functions to the store")
	renderCmd.Flags().BoolVar(&renderDryRun, "dry-run", false, "Render without writing outputs or persisting")
	renderCmd.Flags().IntVar(&renderWorkers, "workers", 0, "Concurrent file reads (default: number of CPUs)")
	renderCmd.Flags().StringSliceVar(&renderInclude, "include", nil, "Wildcard patterns for template file names")
	renderCmd.Flags().StringSliceVar(&renderExclude, "exclude", nil, "Wildcard patterns for relative paths to skip")
	rootCmd.AddCommand(renderCmd)
}
