package resolver

import (
	"testing"

	"github.com/dshills/docfn-mcp/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parsed(name string) types.ArgFragment {
	return types.ArgFragment{Kind: types.FragmentParsed, Raw: name, Name: name}
}

func TestDescribe_NameBeatsIndex(t *testing.T) {
	params := types.Named(map[string]string{"x": "D1", "0": "D2"})
	assert.Equal(t, "D1", Describe(parsed("x"), 0, params))
}

func TestDescribe_NamedFallsBackToIndexKey(t *testing.T) {
	params := types.Named(map[string]string{"0": "D2"})
	assert.Equal(t, "D2", Describe(parsed("x"), 0, params))
	assert.Empty(t, Describe(parsed("y"), 1, params))
}

func TestDescribe_EmptyNamedFallsThrough(t *testing.T) {
	params := types.Named(map[string]string{"x": "", "0": "D2"})
	assert.Equal(t, "D2", Describe(parsed("x"), 0, params))
}

func TestDescribe_Positional(t *testing.T) {
	params := types.Positional("D2")
	assert.Equal(t, "D2", Describe(parsed("x"), 0, params))
	assert.Empty(t, Describe(parsed("y"), 1, params))
}

func TestDescribe_PositionalIgnoresNames(t *testing.T) {
	// A positional list is never consulted by name, even for numeric names
	params := types.Positional("first", "second")
	assert.Equal(t, "first", Describe(parsed("1"), 0, params))
}

func TestDescribe_UnparsedUsesIndexOnly(t *testing.T) {
	frag := types.ArgFragment{Kind: types.FragmentUnparsed, Raw: "a b"}
	params := types.Named(map[string]string{"a b": "by raw text", "0": "by index"})
	assert.Equal(t, "by index", Describe(frag, 0, params))
}

func TestDescribe_NoDescriptions(t *testing.T) {
	assert.Empty(t, Describe(parsed("x"), 0, types.ParamDescriptions{}))
}

func TestArguments(t *testing.T) {
	frags := []types.ArgFragment{
		{Kind: types.FragmentParsed, Raw: "...items: string[]", Collect: true, Name: "items", Type: "string[]"},
		{Kind: types.FragmentUnparsed, Raw: " a b"},
	}
	args := Arguments(frags, types.Positional("the items", "broken"))
	require.Len(t, args, 2)

	assert.Equal(t, types.ArgumentDescription{Name: "items", Type: "string[]", Collect: true, Description: "the items"}, args[0])
	assert.Equal(t, types.ArgumentDescription{Name: " a b", Description: "broken"}, args[1])
}

func TestArguments_Empty(t *testing.T) {
	args := Arguments(nil, types.ParamDescriptions{})
	assert.NotNil(t, args)
	assert.Empty(t, args)
}
