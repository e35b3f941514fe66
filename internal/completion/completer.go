package completion

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/IGLOU-EU/go-wildcard/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/docfn-mcp/internal/registry"
	"github.com/dshills/docfn-mcp/internal/storage"
	"github.com/dshills/docfn-mcp/pkg/types"
)

// DefaultCacheSize is the number of completion results kept when the
// configured size is zero
const DefaultCacheSize = 256

// DefaultLimit applies when a caller passes a non-positive limit
const DefaultLimit = 20

// Result is one search hit
type Result struct {
	Function *types.FunctionDescription
	Score    float64 // Higher is better
	Source   string  // Documentation source, when the hit came from storage
}

// cacheKey includes the registry version so that any registration
// invalidates older entries without an explicit purge
type cacheKey struct {
	prefix  string
	limit   int
	version uint64
}

// Completer answers lookups over a registry and, optionally, a store
type Completer struct {
	registry *registry.Registry
	storage  storage.Storage
	cache    *lru.Cache[cacheKey, []*types.FunctionDescription]
}

// New creates a Completer. store may be nil; cacheSize <= 0 uses DefaultCacheSize.
func New(reg *registry.Registry, store storage.Storage, cacheSize int) (*Completer, error) {
	if reg == nil {
		return nil, errors.New("registry is required")
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	cache, err := lru.New[cacheKey, []*types.FunctionDescription](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}

	return &Completer{
		registry: reg,
		storage:  store,
		cache:    cache,
	}, nil
}

// Complete returns registered functions whose label or bare name starts
// with prefix, ignoring case, sorted by label
func (c *Completer) Complete(prefix string, limit int) []*types.FunctionDescription {
	if limit <= 0 {
		limit = DefaultLimit
	}

	key := cacheKey{prefix: strings.ToLower(prefix), limit: limit, version: c.registry.Version()}
	if cached, ok := c.cache.Get(key); ok {
		return cloneAll(cached)
	}

	matches := make([]*types.FunctionDescription, 0)
	for _, fn := range c.registry.Functions() {
		if strings.HasPrefix(strings.ToLower(fn.Label), key.prefix) ||
			strings.HasPrefix(strings.ToLower(fn.Name), key.prefix) {
			matches = append(matches, fn)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Label < matches[j].Label })
	if len(matches) > limit {
		matches = matches[:limit]
	}

	c.cache.Add(key, matches)
	return cloneAll(matches)
}

// Match returns registered functions whose label matches any of the
// wildcard patterns. No patterns matches everything.
func (c *Completer) Match(patterns ...string) []*types.FunctionDescription {
	functions := c.registry.Functions()
	if len(patterns) == 0 {
		return functions
	}

	out := make([]*types.FunctionDescription, 0, len(functions))
	for _, fn := range functions {
		for _, p := range patterns {
			if wildcard.Match(strings.TrimSpace(p), fn.Label) {
				out = append(out, fn)
				break
			}
		}
	}
	return out
}

// Search runs a full-text query against the store. Without a store it
// falls back to case-insensitive substring matching over the registry.
func (c *Completer) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	if c.storage == nil {
		return c.searchRegistry(query, limit), nil
	}

	hits, err := c.storage.SearchFunctions(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		results = append(results, Result{
			Function: h.Function.ToTypesFunction(),
			Score:    h.BM25Score,
			Source:   h.Function.Source,
		})
	}
	return results, nil
}

func (c *Completer) searchRegistry(query string, limit int) []Result {
	q := strings.ToLower(strings.TrimSpace(query))
	results := make([]Result, 0)
	if q == "" {
		return results
	}

	for _, fn := range c.registry.Functions() {
		var score float64
		if strings.Contains(strings.ToLower(fn.Label), q) {
			score += 2
		}
		if strings.Contains(strings.ToLower(fn.Description), q) {
			score++
		}
		if score > 0 {
			results = append(results, Result{Function: fn, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Purge drops every cached completion
func (c *Completer) Purge() {
	c.cache.Purge()
}

// CacheLen reports the number of cached completions
func (c *Completer) CacheLen() int {
	return c.cache.Len()
}

func cloneAll(in []*types.FunctionDescription) []*types.FunctionDescription {
	out := make([]*types.FunctionDescription, len(in))
	for i, fn := range in {
		out[i] = fn.Clone()
	}
	return out
}
