package indexer

import (
	"fmt"
	"text/template"

	"github.com/dshills/docfn-mcp/internal/dochelper"
	"github.com/dshills/docfn-mcp/pkg/types"
)

// counters accumulates declaration outcomes while one template executes
type counters struct {
	declarations int
	registered   int
	duplicates   int
	unparsed     int
	firstIDs     []string // Ids registered by this template, in document order
}

func (c *counters) record(d types.Declaration) {
	c.declarations++
	switch {
	case !d.Parsed:
		c.unparsed++
	case d.Registered:
		c.registered++
		c.firstIDs = append(c.firstIDs, d.ID)
	default:
		c.duplicates++
	}
}

// funcMap exposes fn, args and params to documentation templates:
//
//	{{ fn "Foo.bar(x: number): string" "Converts x" (args "the input") }}
//	{{ fn "on(event, cb)" "" (params "event" "Event name" "cb" "Handler") }}
func funcMap(h *dochelper.Helper, c *counters) template.FuncMap {
	return template.FuncMap{
		"fn": func(signature string, rest ...interface{}) (string, error) {
			description, params, err := fnArgs(rest)
			if err != nil {
				return "", fmt.Errorf("fn %q: %w", signature, err)
			}
			d := h.Declare(signature, description, params)
			c.record(d)
			return d.Markup, nil
		},
		"args": func(descriptions ...string) types.ParamDescriptions {
			return types.Positional(descriptions...)
		},
		"params": func(pairs ...string) (types.ParamDescriptions, error) {
			if len(pairs)%2 != 0 {
				return types.ParamDescriptions{}, fmt.Errorf("params expects name/description pairs, got %d values", len(pairs))
			}
			m := make(map[string]string, len(pairs)/2)
			for i := 0; i < len(pairs); i += 2 {
				m[pairs[i]] = pairs[i+1]
			}
			return types.Named(m), nil
		},
	}
}

// fnArgs reads the optional description and parameter descriptions that
// follow the signature in a template call
func fnArgs(rest []interface{}) (string, types.ParamDescriptions, error) {
	var (
		description string
		params      types.ParamDescriptions
		haveDesc    bool
		haveParams  bool
	)

	for _, v := range rest {
		switch v := v.(type) {
		case string:
			if haveDesc {
				return "", params, fmt.Errorf("more than one description")
			}
			description, haveDesc = v, true
		case types.ParamDescriptions:
			if haveParams {
				return "", params, fmt.Errorf("more than one set of parameter descriptions")
			}
			params, haveParams = v, true
		case []string:
			if haveParams {
				return "", params, fmt.Errorf("more than one set of parameter descriptions")
			}
			params, haveParams = types.Positional(v...), true
		case map[string]string:
			if haveParams {
				return "", params, fmt.Errorf("more than one set of parameter descriptions")
			}
			params, haveParams = types.Named(v), true
		default:
			return "", params, fmt.Errorf("unexpected argument of type %T", v)
		}
	}
	return description, params, nil
}
