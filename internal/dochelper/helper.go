package dochelper

import (
	"io"
	"log"

	"github.com/dshills/docfn-mcp/internal/emitter"
	"github.com/dshills/docfn-mcp/internal/parser"
	"github.com/dshills/docfn-mcp/internal/registry"
	"github.com/dshills/docfn-mcp/internal/resolver"
	"github.com/dshills/docfn-mcp/pkg/types"
)

// Helper declares signatures against one registry
type Helper struct {
	parser   *parser.Parser
	emitter  *emitter.Emitter
	registry *registry.Registry
	logger   *log.Logger
	verbose  bool
}

// Option configures a Helper
type Option func(*Helper)

// WithParser replaces the default naive-split parser
func WithParser(p *parser.Parser) Option {
	return func(h *Helper) {
		if p != nil {
			h.parser = p
		}
	}
}

// WithEmitter replaces the default emitter
func WithEmitter(e *emitter.Emitter) Option {
	return func(h *Helper) {
		if e != nil {
			h.emitter = e
		}
	}
}

// WithLogger sets the logger used for debug output when verbose is true
func WithLogger(l *log.Logger, verbose bool) Option {
	return func(h *Helper) {
		if l != nil {
			h.logger = l
		}
		h.verbose = verbose
	}
}

// New creates a Helper that registers into reg
func New(reg *registry.Registry, opts ...Option) *Helper {
	h := &Helper{
		parser:   parser.New(),
		emitter:  emitter.New(),
		registry: reg,
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.registry == nil {
		h.registry = registry.New()
	}
	return h
}

// Registry returns the registry this Helper declares into
func (h *Helper) Registry() *registry.Registry {
	return h.registry
}

// Fn declares one signature occurrence and returns its markup
func (h *Helper) Fn(signature, description string, params types.ParamDescriptions) string {
	return h.Declare(signature, description, params).Markup
}

// Declare is Fn returning the full outcome of the declaration
func (h *Helper) Declare(signature, description string, params types.ParamDescriptions) types.Declaration {
	fn, ok := h.Describe(signature, description, params)
	if !ok {
		h.debugf("not a signature, rendering verbatim: %q", signature)
		return types.Declaration{
			Markup: h.emitter.Emit(signature, "", ""),
		}
	}

	id, registered := h.registry.Register(fn)
	if !registered {
		h.logDuplicate(fn)
	}

	return types.Declaration{
		Markup:     h.emitter.Emit(signature, description, id),
		ID:         id,
		Parsed:     true,
		Registered: registered,
		Function:   fn,
	}
}

// Describe parses a signature into a function description without registering it
func (h *Helper) Describe(signature, description string, params types.ParamDescriptions) (*types.FunctionDescription, bool) {
	m, ok := h.parser.ParseSignature(signature)
	if !ok {
		return nil, false
	}

	args := resolver.Arguments(h.parser.ParseArgs(m.RawArgs), params)
	return types.NewFunctionDescription(m, args, description), true
}

func (h *Helper) logDuplicate(fn *types.FunctionDescription) {
	if !h.verbose {
		return
	}
	stored, ok := h.registry.Get(fn.ID)
	if ok && fn.Description != "" && fn.Description != stored.Description {
		h.logger.Printf("duplicate %s: keeping first description, dropping %q", fn.ID, fn.Description)
		return
	}
	h.logger.Printf("duplicate %s: not registered", fn.ID)
}

func (h *Helper) debugf(format string, args ...interface{}) {
	if h.verbose {
		h.logger.Printf(format, args...)
	}
}
