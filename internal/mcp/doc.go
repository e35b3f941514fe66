// Package mcp implements the Model Context Protocol (MCP) server for docfn.
//
// The server exposes the function registry to AI assistants writing
// documentation:
//   - declare_function: Declare a signature and get its inline markup
//   - get_function: Look up a function by id in the session or the store
//   - complete_functions: List session functions by prefix or wildcard
//   - search_functions: Full-text search over stored functions
//   - render_docs: Render a directory of templates or inline template text
//   - get_status: Session registry and store statistics
//
// Each server process owns one registry. A function's first declaration in
// the session carries the anchor id; declarations after it reference it.
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// # Tool: declare_function
//
//	Request:
//	{
//	  "name": "declare_function",
//	  "arguments": {
//	    "signature": "Foo.bar(x: number): string",
//	    "description": "Converts x",
//	    "arg_descriptions": ["The input"]
//	  }
//	}
//
//	Response:
//	{
//	  "id": "Foo.bar",
//	  "markup": "<icode id=\"doc-fn-Foo.bar\" title=\"Converts x\">Foo.bar(x: number): string</icode>",
//	  "parsed": true,
//	  "registered": true,
//	  "function": {"id": "Foo.bar", "name": "bar", "methodOf": "Foo", ...}
//	}
//
// A repeated declaration returns "registered": false, no id, and the
// first record as "registered_function".
//
// # Tool: render_docs
//
//	{
//	  "name": "render_docs",
//	  "arguments": {"path": "/abs/docs", "persist": true}
//	}
//
// Pass "text" instead of "path" to render a template held in memory; the
// rendered text is returned as "output".
//
// # MCP Client Configuration
//
//	{
//	  "mcpServers": {
//	    "docfn": {
//	      "command": "/usr/local/bin/docfn",
//	      "args": ["serve"],
//	      "env": {"DOCFN_DB_PATH": "/home/me/.docfn/docfn.db"}
//	    }
//	  }
//	}
//
// # Error Handling
//
// Error codes:
//   - -32602: Invalid params (missing/invalid arguments, template errors)
//   - -32603: Internal error (database, filesystem, etc.)
//   - -32001: Function not found
//   - -32002: Documentation pass in progress
//   - -32004: Empty query
//
// # Logging
//
// The server logs to stderr; stdout is reserved for the protocol.
package mcp
