package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/docfn-mcp/internal/indexer"
	"github.com/dshills/docfn-mcp/internal/storage"
	"github.com/dshills/docfn-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams    = -32602 // Invalid method parameters
	ErrorCodeInternalError    = -32603 // Internal JSON-RPC error
	ErrorCodeFunctionNotFound = -32001 // No function registered or stored under the id
	ErrorCodeRenderInProgress = -32002 // Another documentation pass is already running
	ErrorCodeEmptyQuery       = -32004 // Query parameter is empty
)

// handleDeclareFunction handles the declare_function tool invocation
func (s *Server) handleDeclareFunction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	// An empty signature is valid input: it simply does not parse
	signature, ok := args["signature"].(string)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "signature parameter is required", map[string]interface{}{
			"param":  "signature",
			"reason": "missing or not a string",
		})
	}
	description := getStringDefault(args, "description", "")

	params, err := paramDescriptions(args)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, err.Error(), nil)
	}

	d := s.helper.Declare(signature, description, params)

	response := map[string]interface{}{
		"markup":     d.Markup,
		"parsed":     d.Parsed,
		"registered": d.Registered,
	}
	if d.ID != "" {
		response["id"] = d.ID
	}
	if d.Function != nil {
		response["function"] = d.Function
		if !d.Registered {
			if stored, ok := s.registry.Get(d.Function.ID); ok {
				response["registered_function"] = stored
			}
		}
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetFunction handles the get_function tool invocation
func (s *Server) handleGetFunction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	id, ok := args["id"].(string)
	if !ok || id == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "id parameter is required", map[string]interface{}{
			"param":  "id",
			"reason": "missing or empty",
		})
	}

	if fn, ok := s.registry.Get(id); ok {
		return mcp.NewToolResultText(formatJSON(map[string]interface{}{
			"origin":   "session",
			"function": fn,
		})), nil
	}

	stored, err := s.storage.GetFunction(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeFunctionNotFound, "function not found", map[string]interface{}{
			"id": id,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get function", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"origin":   "store",
		"source":   stored.Source,
		"function": stored.ToTypesFunction(),
	})), nil
}

// handleCompleteFunctions handles the complete_functions tool invocation
func (s *Server) handleCompleteFunctions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		args = map[string]interface{}{}
	}

	limit := getIntDefault(args, "limit", 20)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	var functions []*types.FunctionDescription
	if pattern := getStringDefault(args, "pattern", ""); pattern != "" {
		functions = s.completer.Match(pattern)
		if len(functions) > limit {
			functions = functions[:limit]
		}
	} else {
		functions = s.completer.Complete(getStringDefault(args, "prefix", ""), limit)
	}

	items := make([]map[string]interface{}, 0, len(functions))
	for _, fn := range functions {
		items = append(items, summarize(fn))
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"count":     len(items),
		"functions": items,
	})), nil
}

// handleSearchFunctions handles the search_functions tool invocation
func (s *Server) handleSearchFunctions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	results, err := s.completer.Search(ctx, query, limit)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	items := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		item := summarize(r.Function)
		item["score"] = r.Score
		if r.Source != "" {
			item["source"] = r.Source
		}
		items = append(items, item)
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"query":   query,
		"count":   len(items),
		"results": items,
	})), nil
}

// handleRenderDocs handles the render_docs tool invocation
func (s *Server) handleRenderDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	if text, ok := args["text"].(string); ok {
		out, stats, err := s.indexer.Render(ctx, "inline", text)
		if errors.Is(err, indexer.ErrPassInProgress) {
			return nil, newMCPError(ErrorCodeRenderInProgress, err.Error(), nil)
		}
		if err != nil {
			return nil, newMCPError(ErrorCodeInvalidParams, "template failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		response := statsResponse(stats)
		response["output"] = out
		return mcp.NewToolResultText(formatJSON(response)), nil
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path or text parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	if err := validatePath(path); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	cfg := &indexer.Config{
		Include: s.config.Include,
		Exclude: s.config.Exclude,
		OutDir:  getStringDefault(args, "out_dir", s.config.OutDir),
		Workers: s.config.Workers,
		Persist: getBoolDefault(args, "persist", false),
		DryRun:  getBoolDefault(args, "dry_run", false),
	}

	stats, err := s.indexer.RenderDir(ctx, path, cfg)
	if errors.Is(err, indexer.ErrPassInProgress) {
		return nil, newMCPError(ErrorCodeRenderInProgress, err.Error(), nil)
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "render failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := statsResponse(stats)
	response["outputs"] = stats.Outputs
	if cfg.Persist {
		response["functions_persisted"] = stats.FunctionsPersisted
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.storage.GetStatus(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"session": map[string]interface{}{
			"functions_count":  s.registry.Len(),
			"registry_version": s.registry.Version(),
			"render_running":   s.indexer.Running(),
			"split_mode":       string(s.config.Split()),
		},
		"store": map[string]interface{}{
			"functions_count": status.FunctionsCount,
			"methods_count":   status.MethodsCount,
			"arguments_count": status.ArgumentsCount,
			"schema_version":  status.SchemaVersion,
			"build_mode":      storage.BuildMode,
		},
		"health": map[string]interface{}{
			"database_accessible": status.DatabaseAccessible,
			"fts_index_built":     status.FTSIndexBuilt,
		},
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// paramDescriptions reads arg_descriptions or param_descriptions
func paramDescriptions(args map[string]interface{}) (types.ParamDescriptions, error) {
	positional, hasPositional := args["arg_descriptions"]
	named, hasNamed := args["param_descriptions"]

	switch {
	case hasPositional && hasNamed:
		return types.ParamDescriptions{}, errors.New("use either arg_descriptions or param_descriptions, not both")
	case hasPositional:
		list, ok := positional.([]interface{})
		if !ok {
			return types.ParamDescriptions{}, errors.New("arg_descriptions must be an array of strings")
		}
		descriptions := make([]string, 0, len(list))
		for _, v := range list {
			s, ok := v.(string)
			if !ok {
				return types.ParamDescriptions{}, errors.New("arg_descriptions must be an array of strings")
			}
			descriptions = append(descriptions, s)
		}
		return types.Positional(descriptions...), nil
	case hasNamed:
		obj, ok := named.(map[string]interface{})
		if !ok {
			return types.ParamDescriptions{}, errors.New("param_descriptions must be an object of strings")
		}
		m := make(map[string]string, len(obj))
		for k, v := range obj {
			s, ok := v.(string)
			if !ok {
				return types.ParamDescriptions{}, fmt.Errorf("param_descriptions[%q] must be a string", k)
			}
			m[k] = s
		}
		return types.Named(m), nil
	}
	return types.ParamDescriptions{}, nil
}

// summarize returns the compact listing form of a function
func summarize(fn *types.FunctionDescription) map[string]interface{} {
	item := map[string]interface{}{
		"id":        fn.ID,
		"arg_count": len(fn.Args),
		"is_method": fn.IsMethod,
	}
	if fn.ReturnType != "" {
		item["return_type"] = fn.ReturnType
	}
	if fn.Description != "" {
		item["description"] = fn.Description
	}
	return item
}

func statsResponse(stats *indexer.Statistics) map[string]interface{} {
	response := map[string]interface{}{
		"files_rendered": stats.FilesRendered,
		"files_failed":   stats.FilesFailed,
		"declarations":   stats.Declarations,
		"registered":     stats.Registered,
		"duplicates":     stats.Duplicates,
		"unparsed":       stats.Unparsed,
		"duration_ms":    stats.Duration.Milliseconds(),
	}

	if len(stats.ErrorMessages) > 0 {
		// Include first few errors
		errorCount := len(stats.ErrorMessages)
		if errorCount > 5 {
			response["errors"] = stats.ErrorMessages[:5]
			response["error_count"] = errorCount
		} else {
			response["errors"] = stats.ErrorMessages
		}
	}
	return response
}

// validatePath checks that a path is an absolute, readable directory
func validatePath(path string) error {
	if path == "" {
		return ErrPathRequired
	}

	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}

	if !info.IsDir() {
		return ErrNotDirectory
	}

	f, err := os.Open(path)
	if err != nil {
		return ErrPathNotReadable
	}
	_ = f.Close()

	return nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// Validation helpers

var (
	ErrPathRequired    = errors.New("path is required")
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrNotDirectory    = errors.New("path is not a directory")
)
