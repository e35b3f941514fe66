package mcp

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/docfn-mcp/internal/completion"
	"github.com/dshills/docfn-mcp/internal/config"
	"github.com/dshills/docfn-mcp/internal/dochelper"
	"github.com/dshills/docfn-mcp/internal/emitter"
	"github.com/dshills/docfn-mcp/internal/indexer"
	"github.com/dshills/docfn-mcp/internal/parser"
	"github.com/dshills/docfn-mcp/internal/registry"
	"github.com/dshills/docfn-mcp/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "docfn-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies. Each server
// owns one registry, so "first occurrence" is scoped to the session.
type Server struct {
	mcp       *server.MCPServer
	config    *config.Config
	storage   storage.Storage
	registry  *registry.Registry
	helper    *dochelper.Helper
	indexer   *indexer.Indexer
	completer *completion.Completer
	logger    *log.Logger
}

// NewServer creates a new MCP server instance. logger may be nil.
func NewServer(cfg *config.Config, logger *log.Logger) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	dbPath, err := cfg.ResolveDBPath()
	if err != nil {
		return nil, err
	}

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	reg := registry.New()
	helper := dochelper.New(reg,
		dochelper.WithParser(parser.NewWithOptions(parser.Options{SplitMode: cfg.Split()})),
		dochelper.WithEmitter(emitter.NewWithOptions(cfg.Tag, cfg.AnchorPrefix)),
		dochelper.WithLogger(logger, cfg.Verbose),
	)

	completer, err := completion.New(reg, store, cfg.CacheSize)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize completion: %w", err)
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcp:       mcpServer,
		config:    cfg,
		storage:   store,
		registry:  reg,
		helper:    helper,
		indexer:   indexer.New(helper, store, indexer.WithLogger(logger, cfg.Verbose)),
		completer: completer,
		logger:    logger,
	}

	// Register tools
	if err := s.registerTools(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.Close() }()
	return server.ServeStdio(s.mcp)
}

// Close releases the store
func (s *Server) Close() error {
	return s.storage.Close()
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	s.mcp.AddTool(declareFunctionTool(), s.handleDeclareFunction)
	s.mcp.AddTool(getFunctionTool(), s.handleGetFunction)
	s.mcp.AddTool(completeFunctionsTool(), s.handleCompleteFunctions)
	s.mcp.AddTool(searchFunctionsTool(), s.handleSearchFunctions)
	s.mcp.AddTool(renderDocsTool(), s.handleRenderDocs)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
	return nil
}
