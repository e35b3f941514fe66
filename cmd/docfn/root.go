package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/docfn-mcp/internal/config"
	"github.com/dshills/docfn-mcp/internal/dochelper"
	"github.com/dshills/docfn-mcp/internal/emitter"
	"github.com/dshills/docfn-mcp/internal/parser"
	"github.com/dshills/docfn-mcp/internal/registry"
	"github.com/dshills/docfn-mcp/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:   "docfn",
	Short: "Declare function signatures in documentation and keep a registry of them",
	Long: `docfn renders inline function signatures as <icode> markup, registering
each function the first time it is declared so later mentions can link to it.

Run it as an MCP server (docfn serve), over a directory of documentation
templates (docfn render), or on a single signature (docfn fn).`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var (
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger *log.Logger
)

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: docfn.yaml, docfn.yml or docfn.toml in the working directory)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	// Logs go to stderr; stdout carries rendered output and the MCP protocol
	log.SetOutput(os.Stderr)
	logger = log.New(os.Stderr, "docfn: ", log.LstdFlags)

	c, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		c.Verbose = true
	}
	cfg = c

	if cfg.Verbose && cfg.Source != "" {
		logger.Printf("using config %s", cfg.Source)
	}
	return nil
}

// newHelper builds a Helper from the loaded config around reg
func newHelper(reg *registry.Registry) *dochelper.Helper {
	return dochelper.New(reg,
		dochelper.WithParser(parser.NewWithOptions(parser.Options{SplitMode: cfg.Split()})),
		dochelper.WithEmitter(emitter.NewWithOptions(cfg.Tag, cfg.AnchorPrefix)),
		dochelper.WithLogger(logger, cfg.Verbose),
	)
}

// openStore opens the configured function store
func openStore() (*storage.SQLiteStorage, error) {
	dbPath, err := cfg.ResolveDBPath()
	if err != nil {
		return nil, err
	}
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", dbPath, err)
	}
	return store, nil
}
