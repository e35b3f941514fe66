package parser

import (
	"strings"

	"github.com/dshills/docfn-mcp/pkg/types"
)

const collectPrefix = "..."

// ParseFragment reads one raw argument fragment as [...]name[: Type].
// Fragments that do not match are returned as unparsed, keeping the raw text.
func ParseFragment(raw string) types.ArgFragment {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, collectPrefix) {
		if name, typ, ok := matchNameType(s[len(collectPrefix):]); ok {
			return types.ArgFragment{Kind: types.FragmentParsed, Raw: raw, Collect: true, Name: name, Type: typ}
		}
	}

	// "..." alone is a valid name
	if name, typ, ok := matchNameType(s); ok {
		return types.ArgFragment{Kind: types.FragmentParsed, Raw: raw, Name: name, Type: typ}
	}

	return types.ArgFragment{Kind: types.FragmentUnparsed, Raw: raw}
}

// matchNameType reads name[: Type]. The name excludes spaces and colons;
// the type is the opaque, non-empty remainder.
func matchNameType(s string) (name, typ string, ok bool) {
	i := strings.IndexAny(s, " :")
	if i < 0 {
		return s, "", s != ""
	}
	if i == 0 {
		return "", "", false
	}

	rest := trimLeftSpace(s[i:])
	if !strings.HasPrefix(rest, ":") {
		return "", "", false
	}
	typ = trimLeftSpace(rest[1:])
	if typ == "" {
		return "", "", false
	}
	return s[:i], typ, true
}

// splitArgs cuts a raw argument list into fragments according to the split mode
func (p *Parser) splitArgs(raw string) []string {
	if p.split != SplitBalanced {
		return strings.Split(raw, ",")
	}
	return splitBalanced(raw)
}

// splitBalanced cuts on commas outside (), [], {} and <>. An arrow "=>" does
// not close an angle bracket.
func splitBalanced(raw string) []string {
	var parts []string
	depth := 0
	start := 0

	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '(', '[', '{', '<':
			depth++
		case '>':
			if i > 0 && raw[i-1] == '=' {
				continue
			}
			if depth > 0 {
				depth--
			}
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, raw[start:i])
				start = i + 1
			}
		}
	}

	return append(parts, raw[start:])
}
