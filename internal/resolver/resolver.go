// Package resolver attaches user-supplied descriptions to parsed arguments.
//
// For the i-th argument named N, a description is looked up by name N first
// and by positional index i second. Positional lists only support the index
// lookup. Named maps support both; the index is looked up as its decimal key
// ("0", "1", ...). Empty descriptions count as absent.
package resolver

import (
	"strconv"

	"github.com/dshills/docfn-mcp/pkg/types"
)

// Describe resolves the description for the fragment at index i
func Describe(frag types.ArgFragment, i int, params types.ParamDescriptions) string {
	if frag.Parsed() {
		if d, ok := params.ByName(frag.Name); ok && d != "" {
			return d
		}
	}

	if params.IsNamed() {
		if d, ok := params.ByName(strconv.Itoa(i)); ok {
			return d
		}
		return ""
	}

	d, _ := params.At(i)
	return d
}

// Arguments turns parsed fragments into argument descriptions
func Arguments(frags []types.ArgFragment, params types.ParamDescriptions) []types.ArgumentDescription {
	args := make([]types.ArgumentDescription, 0, len(frags))
	for i, frag := range frags {
		arg := types.ArgumentDescription{
			Name:        frag.DisplayName(),
			Description: Describe(frag, i, params),
		}
		if frag.Parsed() {
			arg.Type = frag.Type
			arg.Collect = frag.Collect
		}
		args = append(args, arg)
	}
	return args
}
