package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/docfn-mcp/pkg/types"
)

// splitReceiver reads an optional receiver token followed by a dot.
// The receiver may be empty (".name").
func splitReceiver(s string) (recv, rest string, ok bool) {
	i := strings.IndexAny(s, ". (")
	if i < 0 || s[i] != '.' {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

// matchTail reads name[(args)][: ReturnType] and requires it to span all of s.
// The name is read greedily; a shorter name is only tried when what follows
// it is a bare return type, as in "length: number".
func (p *Parser) matchTail(s string) (types.SignatureMatch, bool) {
	n := strings.IndexAny(s, " (")
	if n < 0 {
		n = len(s)
	}
	if n == 0 {
		return types.SignatureMatch{}, false
	}

	if m, ok := p.matchAfterName(s[:n], s[n:]); ok {
		return m, true
	}

	for i := n - 1; i > 0; i-- {
		name := s[:i]
		if r, _ := utf8.DecodeLastRuneInString(name); unicode.IsSpace(r) {
			continue
		}
		if ret, ok := matchReturnType(s[i:]); ok {
			return types.SignatureMatch{Name: name, ReturnType: ret}, true
		}
	}
	return types.SignatureMatch{}, false
}

// matchAfterName reads the optional (args) and return type following name
func (p *Parser) matchAfterName(name, rest string) (types.SignatureMatch, bool) {
	m := types.SignatureMatch{Name: name}

	if strings.HasPrefix(rest, "(") {
		args, after, ok := p.closeParen(rest[1:])
		if !ok {
			return m, false
		}
		m.RawArgs = args
		rest = after
	}

	if rest == "" {
		return m, true
	}

	ret, ok := matchReturnType(rest)
	if !ok {
		return m, false
	}
	m.ReturnType = ret
	return m, true
}

// closeParen finds the parenthesis closing the argument list. s starts just
// after the opening paren.
func (p *Parser) closeParen(s string) (inner, after string, ok bool) {
	if p.split != SplitBalanced {
		i := strings.IndexByte(s, ')')
		if i < 0 {
			return "", "", false
		}
		return s[:i], s[i+1:], true
	}

	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				return s[:i], s[i+1:], true
			}
			depth--
		}
	}
	return "", "", false
}

// matchReturnType reads `: Token` where Token is a single whitespace-free
// run ending the string
func matchReturnType(s string) (string, bool) {
	s = trimLeftSpace(s)
	if !strings.HasPrefix(s, ":") {
		return "", false
	}
	tok := trimLeftSpace(s[1:])
	if tok == "" || strings.IndexFunc(tok, unicode.IsSpace) >= 0 {
		return "", false
	}
	return tok, true
}

func trimLeftSpace(s string) string {
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}
