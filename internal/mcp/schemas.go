package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// declareFunctionTool returns the tool definition for declare_function
func declareFunctionTool() mcp.Tool {
	return mcp.Tool{
		Name:        "declare_function",
		Description: "Declare a function signature and get its inline markup. The first declaration of an id registers it and carries the anchor; later ones render without it.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"signature": map[string]interface{}{
					"type":        "string",
					"description": "Signature such as 'Collection.insertMany(...docs: Document[], options): Promise'",
				},
				"description": map[string]interface{}{
					"type":        "string",
					"description": "One-line description, rendered as the title attribute",
				},
				"arg_descriptions": map[string]interface{}{
					"type":        "array",
					"description": "Argument descriptions by position",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"param_descriptions": map[string]interface{}{
					"type":        "object",
					"description": "Argument descriptions by name; numeric keys ('0', '1') match by position",
					"additionalProperties": map[string]interface{}{
						"type": "string",
					},
				},
			},
			Required: []string{"signature"},
		},
	}
}

// getFunctionTool returns the tool definition for get_function
func getFunctionTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_function",
		Description: "Look up a function by id (for example 'Foo.bar') in this session or the store",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Receiver-qualified function id",
				},
			},
			Required: []string{"id"},
		},
	}
}

// completeFunctionsTool returns the tool definition for complete_functions
func completeFunctionsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "complete_functions",
		Description: "List functions declared in this session by id prefix or wildcard pattern",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"prefix": map[string]interface{}{
					"type":        "string",
					"description": "Case-insensitive prefix of the id or bare name",
				},
				"pattern": map[string]interface{}{
					"type":        "string",
					"description": "Wildcard pattern over ids, e.g. 'Collection.*'. Takes precedence over prefix.",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     20,
					"minimum":     1,
					"maximum":     100,
				},
			},
		},
	}
}

// searchFunctionsTool returns the tool definition for search_functions
func searchFunctionsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_functions",
		Description: "Full-text search over stored function ids, names and descriptions",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search terms; each term matches as a prefix",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
			},
			Required: []string{"query"},
		},
	}
}

// renderDocsTool returns the tool definition for render_docs
func renderDocsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "render_docs",
		Description: "Render documentation templates that call fn, either a directory of *.tmpl files or inline template text",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to a directory of templates",
				},
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Inline template text, rendered instead of path",
				},
				"out_dir": map[string]interface{}{
					"type":        "string",
					"description": "Output directory; defaults to the configured out_dir or next to each template",
				},
				"persist": map[string]interface{}{
					"type":        "boolean",
					"description": "Save declared functions to the store after rendering",
					"default":     false,
				},
				"dry_run": map[string]interface{}{
					"type":        "boolean",
					"description": "Render and count declarations without writing files",
					"default":     false,
				},
			},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report session registry and store statistics",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
