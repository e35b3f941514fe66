package registry

import (
	"sort"
	"sync"

	"github.com/dshills/docfn-mcp/pkg/types"
)

// Registry maps function identifiers to their first declared description
type Registry struct {
	mu        sync.RWMutex
	functions map[string]*types.FunctionDescription
	version   uint64
}

// New creates an empty Registry
func New() *Registry {
	return &Registry{
		functions: make(map[string]*types.FunctionDescription),
	}
}

// Register stores fn under its ID unless that ID is already present.
// It returns the ID and true on first occurrence, and "" and false otherwise.
func (r *Registry) Register(fn *types.FunctionDescription) (string, bool) {
	if fn == nil {
		return "", false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.functions[fn.ID]; exists {
		return "", false
	}

	r.functions[fn.ID] = fn.Clone()
	r.version++
	return fn.ID, true
}

// Get returns a copy of the description registered under id
func (r *Registry) Get(id string) (*types.FunctionDescription, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.functions[id]
	if !ok {
		return nil, false
	}
	return fn.Clone(), true
}

// Has reports whether id is registered
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.functions[id]
	return ok
}

// Len returns the number of registered functions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.functions)
}

// Version increases by one with every successful registration
func (r *Registry) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.version
}

// IDs returns all registered identifiers in sorted order
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.functions))
	for id := range r.functions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Functions returns copies of all registered descriptions sorted by ID
func (r *Registry) Functions() []*types.FunctionDescription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*types.FunctionDescription, 0, len(r.functions))
	for _, fn := range r.functions {
		out = append(out, fn.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Snapshot returns a copy of the identifier to description mapping
func (r *Registry) Snapshot() map[string]types.FunctionDescription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]types.FunctionDescription, len(r.functions))
	for id, fn := range r.functions {
		out[id] = *fn.Clone()
	}
	return out
}
