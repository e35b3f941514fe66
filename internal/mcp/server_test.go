package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/docfn-mcp/internal/config"
	"github.com/dshills/docfn-mcp/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.DBPath = ":memory:"

	s, err := NewServer(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) (map[string]interface{}, error) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args

	result, err := handler(context.Background(), req)
	if err != nil {
		return nil, err
	}
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))
	return out, nil
}

func requireMCPError(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, code, mcpErr.Code)
}

func TestNewServer(t *testing.T) {
	s := newTestServer(t)
	assert.NotNil(t, s.mcp, "MCP server should be initialized")
	assert.NotNil(t, s.storage, "Storage should be initialized")
	assert.NotNil(t, s.indexer, "Indexer should be initialized")
	assert.NotNil(t, s.completer, "Completer should be initialized")
	assert.Same(t, s.registry, s.helper.Registry())
}

func TestNewServer_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.SplitMode = "greedy"
	_, err := NewServer(cfg, nil)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestDeclareFunction(t *testing.T) {
	s := newTestServer(t)

	out, err := call(t, s.handleDeclareFunction, map[string]interface{}{
		"signature":        "Foo.bar(x: number, y): string",
		"description":      "Does bar",
		"arg_descriptions": []interface{}{"the x", "the y"},
	})
	require.NoError(t, err)
	assert.Equal(t, `<icode id="doc-fn-Foo.bar" title="Does bar">Foo.bar(x: number, y): string</icode>`, out["markup"])
	assert.Equal(t, "Foo.bar", out["id"])
	assert.Equal(t, true, out["registered"])

	fn := out["function"].(map[string]interface{})
	assert.Equal(t, "Foo", fn["methodOf"])
	args := fn["args"].([]interface{})
	require.Len(t, args, 2)
	assert.Equal(t, "the y", args[1].(map[string]interface{})["description"])

	// Second declaration keeps the first record
	out, err = call(t, s.handleDeclareFunction, map[string]interface{}{
		"signature":          "Foo.bar(z)",
		"description":        "Other",
		"param_descriptions": map[string]interface{}{"z": "the z"},
	})
	require.NoError(t, err)
	assert.Equal(t, `<icode title="Other">Foo.bar(z)</icode>`, out["markup"])
	assert.Equal(t, false, out["registered"])
	assert.Nil(t, out["id"])
	stored := out["registered_function"].(map[string]interface{})
	assert.Equal(t, "Does bar", stored["description"])

	// Unparseable signatures render verbatim
	out, err = call(t, s.handleDeclareFunction, map[string]interface{}{"signature": "not a signature", "description": "x"})
	require.NoError(t, err)
	assert.Equal(t, "<icode>not a signature</icode>", out["markup"])
	assert.Equal(t, false, out["parsed"])
	assert.Nil(t, out["function"])
}

func TestDeclareFunction_InvalidParams(t *testing.T) {
	s := newTestServer(t)

	_, err := call(t, s.handleDeclareFunction, map[string]interface{}{})
	requireMCPError(t, err, ErrorCodeInvalidParams)

	_, err = call(t, s.handleDeclareFunction, map[string]interface{}{
		"signature":          "f(x)",
		"arg_descriptions":   []interface{}{"a"},
		"param_descriptions": map[string]interface{}{"x": "b"},
	})
	requireMCPError(t, err, ErrorCodeInvalidParams)

	_, err = call(t, s.handleDeclareFunction, map[string]interface{}{
		"signature":        "f(x)",
		"arg_descriptions": []interface{}{1},
	})
	requireMCPError(t, err, ErrorCodeInvalidParams)
	assert.Equal(t, 0, s.registry.Len())
}

func TestGetFunction(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := call(t, s.handleDeclareFunction, map[string]interface{}{"signature": "print(msg)"})
	require.NoError(t, err)

	out, err := call(t, s.handleGetFunction, map[string]interface{}{"id": "print"})
	require.NoError(t, err)
	assert.Equal(t, "session", out["origin"])
	assert.Equal(t, "print", out["function"].(map[string]interface{})["id"])

	// Functions persisted by an earlier session are served from the store
	_, err = s.storage.SaveFunction(ctx, &storage.Function{ID: "old", Name: "old", Label: "old", Source: "legacy.tmpl"})
	require.NoError(t, err)

	out, err = call(t, s.handleGetFunction, map[string]interface{}{"id": "old"})
	require.NoError(t, err)
	assert.Equal(t, "store", out["origin"])
	assert.Equal(t, "legacy.tmpl", out["source"])
	assert.False(t, s.registry.Has("old"))

	_, err = call(t, s.handleGetFunction, map[string]interface{}{"id": "missing"})
	requireMCPError(t, err, ErrorCodeFunctionNotFound)

	_, err = call(t, s.handleGetFunction, map[string]interface{}{})
	requireMCPError(t, err, ErrorCodeInvalidParams)
}

func TestCompleteFunctions(t *testing.T) {
	s := newTestServer(t)
	for _, sig := range []string{"Collection.insertOne(doc)", "Collection.insertMany(...docs)", "print(msg)"} {
		_, err := call(t, s.handleDeclareFunction, map[string]interface{}{"signature": sig})
		require.NoError(t, err)
	}

	out, err := call(t, s.handleCompleteFunctions, map[string]interface{}{"prefix": "ins"})
	require.NoError(t, err)
	assert.Equal(t, float64(2), out["count"])

	out, err = call(t, s.handleCompleteFunctions, map[string]interface{}{"pattern": "Collection.*", "limit": float64(1)})
	require.NoError(t, err)
	items := out["functions"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "Collection.insertMany", items[0].(map[string]interface{})["id"])

	out, err = call(t, s.handleCompleteFunctions, nil)
	require.NoError(t, err)
	assert.Equal(t, float64(3), out["count"])

	_, err = call(t, s.handleCompleteFunctions, map[string]interface{}{"limit": float64(0)})
	requireMCPError(t, err, ErrorCodeInvalidParams)
}

func TestSearchFunctions(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.storage.SaveFunction(ctx, &storage.Function{ID: "print", Name: "print", Label: "print",
		Description: "Writes to the console", Source: "io.tmpl"})
	require.NoError(t, err)

	out, err := call(t, s.handleSearchFunctions, map[string]interface{}{"query": "console"})
	require.NoError(t, err)
	assert.Equal(t, float64(1), out["count"])
	result := out["results"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "print", result["id"])
	assert.Equal(t, "io.tmpl", result["source"])

	_, err = call(t, s.handleSearchFunctions, map[string]interface{}{"query": ""})
	requireMCPError(t, err, ErrorCodeEmptyQuery)

	_, err = call(t, s.handleSearchFunctions, map[string]interface{}{"query": "x", "limit": float64(101)})
	requireMCPError(t, err, ErrorCodeInvalidParams)
}

func TestRenderDocs(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "api.md.tmpl"),
		[]byte(`{{ fn "Foo.bar(x)" "Bars" }} {{ fn "Foo.bar(x)" }}`), 0644))

	out, err := call(t, s.handleRenderDocs, map[string]interface{}{"path": root, "persist": true})
	require.NoError(t, err)
	assert.Equal(t, float64(1), out["files_rendered"])
	assert.Equal(t, float64(1), out["registered"])
	assert.Equal(t, float64(1), out["duplicates"])
	assert.Equal(t, float64(1), out["functions_persisted"])

	rendered, err := os.ReadFile(filepath.Join(root, "api.md"))
	require.NoError(t, err)
	assert.Equal(t, `<icode id="doc-fn-Foo.bar" title="Bars">Foo.bar(x)</icode> <icode>Foo.bar(x)</icode>`, string(rendered))

	stored, err := s.storage.GetFunction(ctx, "Foo.bar")
	require.NoError(t, err)
	assert.Equal(t, "api.md.tmpl", stored.Source)

	// Inline text shares the session registry
	out, err = call(t, s.handleRenderDocs, map[string]interface{}{"text": `{{ fn "Foo.bar(x)" }}{{ fn "baz()" }}`})
	require.NoError(t, err)
	assert.Equal(t, `<icode>Foo.bar(x)</icode><icode id="doc-fn-baz">baz()</icode>`, out["output"])

	_, err = call(t, s.handleRenderDocs, map[string]interface{}{"text": `{{ fn `})
	requireMCPError(t, err, ErrorCodeInvalidParams)

	_, err = call(t, s.handleRenderDocs, map[string]interface{}{"path": "relative/dir"})
	requireMCPError(t, err, ErrorCodeInvalidParams)

	_, err = call(t, s.handleRenderDocs, map[string]interface{}{})
	requireMCPError(t, err, ErrorCodeInvalidParams)
}

func TestGetStatus(t *testing.T) {
	s := newTestServer(t)
	_, err := call(t, s.handleDeclareFunction, map[string]interface{}{"signature": "Foo.bar(x)"})
	require.NoError(t, err)

	out, err := call(t, s.handleGetStatus, map[string]interface{}{})
	require.NoError(t, err)

	session := out["session"].(map[string]interface{})
	assert.Equal(t, float64(1), session["functions_count"])
	assert.Equal(t, float64(1), session["registry_version"])
	assert.Equal(t, "naive", session["split_mode"])

	store := out["store"].(map[string]interface{})
	assert.Equal(t, float64(0), store["functions_count"])

	health := out["health"].(map[string]interface{})
	assert.Equal(t, true, health["database_accessible"])
	assert.Equal(t, true, health["fts_index_built"])
}

func TestValidatePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.NoError(t, validatePath(dir))
	assert.ErrorIs(t, validatePath(""), ErrPathRequired)
	assert.ErrorIs(t, validatePath("rel"), ErrPathNotAbsolute)
	assert.ErrorIs(t, validatePath(filepath.Join(dir, "missing")), ErrPathNotFound)
	assert.ErrorIs(t, validatePath(file), ErrNotDirectory)
}
