package storage

import (
	"context"
	"testing"

	"github.com/dshills/docfn-mcp/internal/registry"
	"github.com/dshills/docfn-mcp/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	// Use in-memory database for testing
	storage, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NotNil(t, storage)
	return storage
}

func sampleFunction() *Function {
	return &Function{
		ID:          "Foo.bar",
		Name:        "bar",
		Label:       "Foo.bar",
		ReturnType:  "string",
		IsMethod:    true,
		MethodOf:    "Foo",
		Description: "Converts a number",
		Source:      "guide.md.tmpl",
		Args: []Argument{
			{Name: "x", Type: "number", Description: "the input"},
			{Name: "rest", Type: "any[]", Collect: true},
		},
	}
}

func TestNewSQLiteStorage(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	assert.NotNil(t, storage)
	assert.NotNil(t, storage.db)
}

func TestClose(t *testing.T) {
	storage := setupTestDB(t)
	err := storage.Close()
	assert.NoError(t, err)
}

func TestSaveFunction(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	fn := sampleFunction()

	inserted, err := storage.SaveFunction(ctx, fn)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.False(t, fn.CreatedAt.IsZero())

	retrieved, err := storage.GetFunction(ctx, "Foo.bar")
	require.NoError(t, err)
	assert.Equal(t, "bar", retrieved.Name)
	assert.Equal(t, "Foo", retrieved.MethodOf)
	assert.True(t, retrieved.IsMethod)
	assert.Equal(t, "string", retrieved.ReturnType)
	assert.Equal(t, "guide.md.tmpl", retrieved.Source)
	require.Len(t, retrieved.Args, 2)
	assert.Equal(t, 0, retrieved.Args[0].Position)
	assert.Equal(t, "the input", retrieved.Args[0].Description)
	assert.Equal(t, "rest", retrieved.Args[1].Name)
	assert.True(t, retrieved.Args[1].Collect)
	assert.Empty(t, retrieved.Args[1].Description)
}

func TestSaveFunction_FirstOccurrenceWins(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	_, err := storage.SaveFunction(ctx, sampleFunction())
	require.NoError(t, err)

	second := sampleFunction()
	second.Description = "Something else"
	second.Args = nil

	inserted, err := storage.SaveFunction(ctx, second)
	require.NoError(t, err)
	assert.False(t, inserted)

	retrieved, err := storage.GetFunction(ctx, "Foo.bar")
	require.NoError(t, err)
	assert.Equal(t, "Converts a number", retrieved.Description)
	assert.Len(t, retrieved.Args, 2)
}

func TestSaveFunction_Invalid(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	tests := []struct {
		name string
		fn   *Function
		want error
	}{
		{"missing name", &Function{ID: "x"}, types.ErrEmptyName},
		{"label differs from id", &Function{ID: "Foo.bar", Name: "bar", Label: "bar", IsMethod: true, MethodOf: "Foo"}, types.ErrLabelMismatch},
		{"receiver without method flag", &Function{ID: "bar", Name: "bar", Label: "bar", MethodOf: "Foo"}, types.ErrMethodWithoutDot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := storage.SaveFunction(context.Background(), tt.fn)
			assert.ErrorIs(t, err, ErrInvalidFunction)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	count, err := storage.CountFunctions(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGetFunction_NotFound(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	_, err := storage.GetFunction(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFunctions(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	for _, id := range []string{"zeta", "alpha"} {
		_, err := storage.SaveFunction(ctx, &Function{ID: id, Name: id, Label: id,
			Args: []Argument{{Name: "a"}}})
		require.NoError(t, err)
	}

	functions, err := storage.ListFunctions(ctx)
	require.NoError(t, err)
	require.Len(t, functions, 2)
	assert.Equal(t, "alpha", functions[0].ID)
	assert.Equal(t, "zeta", functions[1].ID)
	assert.Len(t, functions[0].Args, 1)

	count, err := storage.CountFunctions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSearchFunctions(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	_, err := storage.SaveFunction(ctx, sampleFunction())
	require.NoError(t, err)
	_, err = storage.SaveFunction(ctx, &Function{ID: "print", Name: "print", Label: "print",
		Description: "Writes text to the console"})
	require.NoError(t, err)

	results, err := storage.SearchFunctions(ctx, "conv", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Foo.bar", results[0].Function.ID)
	assert.Len(t, results[0].Function.Args, 2)

	results, err = storage.SearchFunctions(ctx, "print", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "print", results[0].Function.ID)

	results, err = storage.SearchFunctions(ctx, `"):*`, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFTSQuery(t *testing.T) {
	assert.Equal(t, `"Foo"* "bar"*`, ftsQuery("Foo.bar"))
	assert.Equal(t, `"to_string"*`, ftsQuery(` to_string( `))
	assert.Equal(t, "", ftsQuery(`"*():`))
}

func TestGetStatus(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	_, err := storage.SaveFunction(ctx, sampleFunction())
	require.NoError(t, err)

	status, err := storage.GetStatus(ctx)
	require.NoError(t, err)
	assert.True(t, status.DatabaseAccessible)
	assert.True(t, status.FTSIndexBuilt)
	assert.Equal(t, 1, status.FunctionsCount)
	assert.Equal(t, 1, status.MethodsCount)
	assert.Equal(t, 2, status.ArgumentsCount)
	assert.Equal(t, CurrentSchemaVersion, status.SchemaVersion)
}

func TestBeginTx_CommitRollback(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()

	// Test commit
	tx, err := storage.BeginTx(ctx)
	require.NoError(t, err)

	inserted, err := tx.SaveFunction(ctx, &Function{ID: "kept", Name: "kept", Label: "kept"})
	require.NoError(t, err)
	assert.True(t, inserted)

	_, err = tx.BeginTx(ctx)
	assert.ErrorIs(t, err, ErrNestedTx)

	err = tx.Commit()
	require.NoError(t, err)

	_, err = storage.GetFunction(ctx, "kept")
	require.NoError(t, err)

	// Test rollback
	tx2, err := storage.BeginTx(ctx)
	require.NoError(t, err)

	_, err = tx2.SaveFunction(ctx, &Function{ID: "dropped", Name: "dropped", Label: "dropped"})
	require.NoError(t, err)

	err = tx2.Rollback()
	require.NoError(t, err)

	_, err = storage.GetFunction(ctx, "dropped")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveRegistryAndLoadInto(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	reg := registry.New()
	reg.Register(&types.FunctionDescription{ID: "a", Name: "a", Label: "a", Args: []types.ArgumentDescription{{Name: "x"}}})
	reg.Register(&types.FunctionDescription{ID: "B.c", Name: "c", Label: "B.c", IsMethod: true, MethodOf: "B"})

	n, err := SaveRegistry(ctx, storage, reg, StaticSource("session"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = SaveRegistry(ctx, storage, reg, StaticSource("session"))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	loaded := registry.New()
	loaded.Register(&types.FunctionDescription{ID: "a", Name: "a", Label: "a", Description: "already here"})

	n, err = LoadInto(ctx, storage, loaded)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	fn, ok := loaded.Get("a")
	require.True(t, ok)
	assert.Equal(t, "already here", fn.Description)

	fn, ok = loaded.Get("B.c")
	require.True(t, ok)
	assert.True(t, fn.IsMethod)
	assert.Equal(t, "B", fn.MethodOf)
}

func TestSaveRegistry_SourcePerID(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	reg := registry.New()
	reg.Register(&types.FunctionDescription{ID: "a", Name: "a", Label: "a"})
	reg.Register(&types.FunctionDescription{ID: "b", Name: "b", Label: "b"})

	sources := map[string]string{"a": "one.tmpl", "b": "two.tmpl"}
	n, err := SaveRegistry(ctx, storage, reg, func(id string) string { return sources[id] })
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for id, want := range sources {
		fn, err := storage.GetFunction(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, fn.Source)
	}
}

func TestSaveRegistry_InvalidFunctionRollsBack(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	reg := registry.New()
	reg.Register(&types.FunctionDescription{ID: "a", Name: "a", Label: "a"})
	reg.Register(&types.FunctionDescription{ID: "b", Name: "b", Label: "wrong"})

	_, err := SaveRegistry(ctx, storage, reg, nil)
	assert.ErrorIs(t, err, ErrInvalidFunction)

	count, err := storage.CountFunctions(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
