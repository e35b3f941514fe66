package parser

import (
	"fmt"
	"strings"

	"github.com/dshills/docfn-mcp/pkg/types"
)

// SplitMode selects how a raw argument list is cut into fragments
type SplitMode string

const (
	// SplitNaive cuts on every comma. Types such as Record<string, number>
	// are broken into two fragments.
	SplitNaive SplitMode = "naive"
	// SplitBalanced ignores commas nested inside (), [], {} and <>.
	SplitBalanced SplitMode = "balanced"
)

// ParseSplitMode converts a configuration string into a SplitMode
func ParseSplitMode(s string) (SplitMode, error) {
	switch SplitMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", SplitNaive:
		return SplitNaive, nil
	case SplitBalanced:
		return SplitBalanced, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSplitMode, s)
	}
}

// Options configures a Parser
type Options struct {
	SplitMode SplitMode
}

// Parser reads signature strings of the form [Receiver.]name[(args)][: ReturnType]
type Parser struct {
	split SplitMode
}

// New creates a Parser using the naive comma split
func New() *Parser {
	return &Parser{split: SplitNaive}
}

// NewWithOptions creates a Parser with explicit options
func NewWithOptions(opts Options) *Parser {
	p := New()
	if opts.SplitMode == SplitBalanced {
		p.split = SplitBalanced
	}
	return p
}

// SplitMode returns the configured argument split mode
func (p *Parser) SplitMode() SplitMode {
	return p.split
}

// ParseSignature splits a signature string into receiver, name, raw argument
// list and return type. It reports false when the text does not have the
// signature shape; that is not an error, since signature text may be prose.
func (p *Parser) ParseSignature(signature string) (types.SignatureMatch, bool) {
	if recv, rest, ok := splitReceiver(signature); ok {
		if m, ok := p.matchTail(rest); ok {
			m.MethodOf = recv
			m.HasReceiverDot = true
			return m, true
		}
	}
	return p.matchTail(signature)
}

// ParseArgs cuts a raw argument list into fragments and reads each one.
// An empty list yields no fragments.
func (p *Parser) ParseArgs(rawArgs string) []types.ArgFragment {
	if rawArgs == "" {
		return nil
	}

	parts := p.splitArgs(rawArgs)
	fragments := make([]types.ArgFragment, 0, len(parts))
	for _, part := range parts {
		fragments = append(fragments, ParseFragment(part))
	}
	return fragments
}
