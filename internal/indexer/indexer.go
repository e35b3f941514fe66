package indexer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/IGLOU-EU/go-wildcard/v2"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/docfn-mcp/internal/dochelper"
	"github.com/dshills/docfn-mcp/internal/storage"
)

// TemplateSuffix is stripped from source names to form output names
const TemplateSuffix = ".tmpl"

// ErrPassInProgress is returned when a pass is requested while another runs
var ErrPassInProgress = errors.New("documentation pass already in progress")

// Indexer runs documentation passes: it renders template sources that call
// fn, declaring every signature against one registry in document order
type Indexer struct {
	helper  *dochelper.Helper
	storage storage.Storage // Optional; nil disables persistence
	logger  *log.Logger
	verbose bool
	lock    IndexLock
}

// Config contains configuration for a documentation pass
type Config struct {
	Include []string // Wildcard patterns matched against file names (default: *.tmpl)
	Exclude []string // Wildcard patterns matched against slash-separated relative paths
	OutDir  string   // Output root; empty writes next to each source
	Workers int      // Concurrent file reads (default: runtime.NumCPU())
	Persist bool     // Save the registry to storage after rendering
	DryRun  bool     // Render and count without writing outputs
}

// Statistics contains statistics about a documentation pass
type Statistics struct {
	FilesRendered      int
	FilesFailed        int
	Declarations       int
	Registered         int
	Duplicates         int
	Unparsed           int
	FunctionsPersisted int
	Outputs            []string
	Duration           time.Duration
	ErrorMessages      []string
}

func (s *Statistics) add(c *counters) {
	s.Declarations += c.declarations
	s.Registered += c.registered
	s.Duplicates += c.duplicates
	s.Unparsed += c.unparsed
}

// Option configures an Indexer
type Option func(*Indexer)

// WithLogger sets the logger for per-file results, printed when verbose is true
func WithLogger(l *log.Logger, verbose bool) Option {
	return func(idx *Indexer) {
		if l != nil {
			idx.logger = l
		}
		idx.verbose = verbose
	}
}

// New creates a new Indexer. store may be nil.
func New(helper *dochelper.Helper, store storage.Storage, opts ...Option) *Indexer {
	if helper == nil {
		helper = dochelper.New(nil)
	}
	idx := &Indexer{
		helper:  helper,
		storage: store,
		logger:  log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Helper returns the helper whose registry the passes declare into
func (idx *Indexer) Helper() *dochelper.Helper {
	return idx.helper
}

// Running reports whether a pass is in progress
func (idx *Indexer) Running() bool {
	return idx.lock.Held()
}

// source is one discovered template
type source struct {
	path    string // As found on disk
	rel     string // Relative to the pass root, slash separated
	content []byte
	err     error
}

// RenderDir renders every matching template under root. Files are read
// concurrently but rendered one at a time in path order, so the first
// declaration of a function is the first one in that order.
func (idx *Indexer) RenderDir(ctx context.Context, root string, config *Config) (*Statistics, error) {
	if !idx.lock.TryAcquire() {
		return nil, ErrPassInProgress
	}
	defer idx.lock.Release()

	if config == nil {
		config = &Config{}
	}
	workers := config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	startTime := time.Now()
	stats := &Statistics{
		Outputs:       make([]string, 0),
		ErrorMessages: make([]string, 0),
	}

	sources, err := discoverFiles(root, config)
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}

	if err := readFiles(ctx, sources, workers); err != nil {
		return nil, fmt.Errorf("failed to read files: %w", err)
	}

	firstSource := make(map[string]string)
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out, c, err := idx.renderSource(src)
		stats.add(c)
		for _, id := range c.firstIDs {
			firstSource[id] = src.rel
		}
		if err != nil {
			stats.FilesFailed++
			stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %v", src.rel, err))
			idx.debugf("render %s failed: %v", src.rel, err)
			continue
		}

		if !config.DryRun {
			outPath := outputPath(root, config.OutDir, src)
			if err := writeOutput(outPath, out); err != nil {
				stats.FilesFailed++
				stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %v", src.rel, err))
				continue
			}
			stats.Outputs = append(stats.Outputs, outPath)
		}

		stats.FilesRendered++
		idx.debugf("rendered %s: %d declarations, %d new", src.rel, c.declarations, c.registered)
	}

	if config.Persist && idx.storage != nil {
		n, err := idx.persist(ctx, firstSource)
		if err != nil {
			return nil, fmt.Errorf("failed to persist functions: %w", err)
		}
		stats.FunctionsPersisted = n
	}

	stats.Duration = time.Since(startTime)
	return stats, nil
}

// Render renders a single template text under name, for callers that hold
// the source in memory
func (idx *Indexer) Render(ctx context.Context, name, text string) (string, *Statistics, error) {
	if !idx.lock.TryAcquire() {
		return "", nil, ErrPassInProgress
	}
	defer idx.lock.Release()

	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	startTime := time.Now()
	stats := &Statistics{
		Outputs:       make([]string, 0),
		ErrorMessages: make([]string, 0),
	}

	out, c, err := idx.renderSource(&source{rel: name, content: []byte(text)})
	stats.add(c)
	stats.Duration = time.Since(startTime)
	if err != nil {
		stats.FilesFailed++
		stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %v", name, err))
		return "", stats, err
	}
	stats.FilesRendered++
	return string(out), stats, nil
}

// renderSource executes one template. Declarations made before a failure
// stay registered.
func (idx *Indexer) renderSource(src *source) ([]byte, *counters, error) {
	c := &counters{}
	if src.err != nil {
		return nil, c, src.err
	}

	tmpl, err := template.New(src.rel).Funcs(funcMap(idx.helper, c)).Parse(string(src.content))
	if err != nil {
		return nil, c, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, nil); err != nil {
		return nil, c, err
	}
	return buf.Bytes(), c, nil
}

// persist saves the registry in one transaction, tagging each function
// with the template that first declared it
func (idx *Indexer) persist(ctx context.Context, firstSource map[string]string) (int, error) {
	return storage.SaveRegistry(ctx, idx.storage, idx.helper.Registry(), func(id string) string {
		return firstSource[id]
	})
}

// discoverFiles finds matching templates under root, sorted by relative path
func discoverFiles(root string, config *Config) ([]*source, error) {
	include := config.Include
	if len(include) == 0 {
		include = []string{"*" + TemplateSuffix}
	}

	var sources []*source
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			// Skip hidden directories
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if rel != "." && matchAny(config.Exclude, rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if !matchAny(include, d.Name()) || matchAny(config.Exclude, rel) {
			return nil
		}

		sources = append(sources, &source{path: path, rel: rel})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].rel < sources[j].rel })
	return sources, nil
}

// readFiles loads every source concurrently. A file that cannot be read is
// recorded on its source and fails alone at render time.
func readFiles(ctx context.Context, sources []*source, workers int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src.content, src.err = os.ReadFile(src.path)
			return nil
		})
	}

	return g.Wait()
}

func matchAny(patterns []string, s string) bool {
	for _, p := range patterns {
		if wildcard.Match(p, s) {
			return true
		}
	}
	return false
}

// outputPath maps a source to its rendered file
func outputPath(root, outDir string, src *source) string {
	name := strings.TrimSuffix(src.rel, TemplateSuffix)
	if name == src.rel {
		name += ".out"
	}
	if outDir == "" {
		return filepath.Join(root, filepath.FromSlash(name))
	}
	return filepath.Join(outDir, filepath.FromSlash(name))
}

func writeOutput(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, content, 0644)
}

func (idx *Indexer) debugf(format string, args ...interface{}) {
	if idx.verbose {
		idx.logger.Printf(format, args...)
	}
}
