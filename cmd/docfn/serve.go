package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/docfn-mcp/internal/mcp"
	"github.com/dshills/docfn-mcp/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Printf("docfn MCP server v%s starting...", version)
		logger.Printf("Build Mode: %s, Driver: %s", storage.BuildMode, storage.DriverName)

		server, err := mcp.NewServer(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to create MCP server: %w", err)
		}

		// Set up graceful shutdown
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		errChan := make(chan error, 1)
		go func() {
			logger.Println("MCP server ready, listening on stdio...")
			errChan <- server.Serve(ctx)
		}()

		select {
		case sig := <-sigChan:
			logger.Printf("Received signal %v, shutting down gracefully...", sig)
			cancel()
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
		}

		logger.Println("Server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
