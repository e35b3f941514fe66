package storage

import (
	"context"
	"time"

	"github.com/dshills/docfn-mcp/pkg/types"
)

// Storage defines the interface for persisting registered functions
type Storage interface {
	// Function operations
	SaveFunction(ctx context.Context, fn *Function) (inserted bool, err error)
	GetFunction(ctx context.Context, id string) (*Function, error)
	ListFunctions(ctx context.Context) ([]*Function, error)
	CountFunctions(ctx context.Context) (int, error)

	// Search operations
	SearchFunctions(ctx context.Context, query string, limit int) ([]SearchResult, error)

	// Status operations
	GetStatus(ctx context.Context) (*Status, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage // Embed Storage interface for transaction operations
}

// Function is a persisted function description
type Function struct {
	ID          string
	Name        string
	Label       string
	ReturnType  string
	IsMethod    bool
	MethodOf    string
	Description string
	Source      string // Documentation source that first declared the function
	Args        []Argument
	CreatedAt   time.Time
}

// Argument is a persisted argument description
type Argument struct {
	Position    int
	Name        string
	Type        string
	Collect     bool
	Description string
}

// SearchResult represents a result from full-text search
type SearchResult struct {
	Function  *Function
	BM25Score float64 // Higher is better
}

// Status contains statistics about the store
type Status struct {
	FunctionsCount     int
	MethodsCount       int
	ArgumentsCount     int
	SchemaVersion      string
	DatabaseAccessible bool
	FTSIndexBuilt      bool
}

// ToTypesFunction converts a storage Function to types.FunctionDescription
func (f *Function) ToTypesFunction() *types.FunctionDescription {
	args := make([]types.ArgumentDescription, 0, len(f.Args))
	for _, a := range f.Args {
		args = append(args, types.ArgumentDescription{
			Name:        a.Name,
			Type:        a.Type,
			Collect:     a.Collect,
			Description: a.Description,
		})
	}
	return &types.FunctionDescription{
		ID:          f.ID,
		Name:        f.Name,
		Label:       f.Label,
		Args:        args,
		ReturnType:  f.ReturnType,
		IsMethod:    f.IsMethod,
		MethodOf:    f.MethodOf,
		Description: f.Description,
	}
}

// FromTypesFunction converts types.FunctionDescription to a storage Function
func FromTypesFunction(fn *types.FunctionDescription, source string) *Function {
	args := make([]Argument, 0, len(fn.Args))
	for i, a := range fn.Args {
		args = append(args, Argument{
			Position:    i,
			Name:        a.Name,
			Type:        a.Type,
			Collect:     a.Collect,
			Description: a.Description,
		})
	}
	return &Function{
		ID:          fn.ID,
		Name:        fn.Name,
		Label:       fn.Label,
		ReturnType:  fn.ReturnType,
		IsMethod:    fn.IsMethod,
		MethodOf:    fn.MethodOf,
		Description: fn.Description,
		Source:      source,
		Args:        args,
	}
}
