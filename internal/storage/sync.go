package storage

import (
	"context"
	"fmt"

	"github.com/dshills/docfn-mcp/internal/registry"
)

// SourceFunc names the document a function id was declared in
type SourceFunc func(id string) string

// StaticSource tags every function with the same source
func StaticSource(source string) SourceFunc {
	return func(string) string { return source }
}

// SaveRegistry persists every function in reg inside one transaction and
// returns how many were new to the store. Functions already stored keep
// their first persisted description. A nil source leaves Source empty.
func SaveRegistry(ctx context.Context, s Storage, reg *registry.Registry, source SourceFunc) (int, error) {
	if source == nil {
		source = StaticSource("")
	}

	tx, err := s.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for _, fn := range reg.Functions() {
		ok, err := tx.SaveFunction(ctx, FromTypesFunction(fn, source(fn.ID)))
		if err != nil {
			return 0, err
		}
		if ok {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit registry: %w", err)
	}
	return inserted, nil
}

// LoadInto registers every stored function into reg and returns how many
// were new to the registry
func LoadInto(ctx context.Context, s Storage, reg *registry.Registry) (int, error) {
	functions, err := s.ListFunctions(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list functions: %w", err)
	}

	loaded := 0
	for _, fn := range functions {
		if _, ok := reg.Register(fn.ToTypesFunction()); ok {
			loaded++
		}
	}
	return loaded, nil
}
