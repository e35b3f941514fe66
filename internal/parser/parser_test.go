package parser

import (
	"testing"

	"github.com/dshills/docfn-mcp/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	p := New()
	assert.NotNil(t, p)
	assert.Equal(t, SplitNaive, p.SplitMode())
}

func TestNewWithOptions(t *testing.T) {
	assert.Equal(t, SplitBalanced, NewWithOptions(Options{SplitMode: SplitBalanced}).SplitMode())
	assert.Equal(t, SplitNaive, NewWithOptions(Options{}).SplitMode())
}

func TestParseSplitMode(t *testing.T) {
	mode, err := ParseSplitMode("")
	require.NoError(t, err)
	assert.Equal(t, SplitNaive, mode)

	mode, err = ParseSplitMode(" Balanced ")
	require.NoError(t, err)
	assert.Equal(t, SplitBalanced, mode)

	_, err = ParseSplitMode("greedy")
	assert.ErrorIs(t, err, ErrUnknownSplitMode)
}

func TestParseSignature(t *testing.T) {
	tests := []struct {
		name      string
		signature string
		want      types.SignatureMatch
	}{
		{
			name:      "method with args and return type",
			signature: "Foo.bar(x: number): string",
			want:      types.SignatureMatch{MethodOf: "Foo", HasReceiverDot: true, Name: "bar", RawArgs: "x: number", ReturnType: "string"},
		},
		{
			name:      "plain function",
			signature: "baz(y)",
			want:      types.SignatureMatch{Name: "baz", RawArgs: "y"},
		},
		{
			name:      "bare name",
			signature: "print",
			want:      types.SignatureMatch{Name: "print"},
		},
		{
			name:      "empty parens",
			signature: "now()",
			want:      types.SignatureMatch{Name: "now"},
		},
		{
			name:      "return type without parens",
			signature: "length: number",
			want:      types.SignatureMatch{Name: "length", ReturnType: "number"},
		},
		{
			name:      "return type with spacing",
			signature: "f(a)  :  T[]",
			want:      types.SignatureMatch{Name: "f", RawArgs: "a", ReturnType: "T[]"},
		},
		{
			name:      "empty receiver",
			signature: ".bar()",
			want:      types.SignatureMatch{HasReceiverDot: true, Name: "bar"},
		},
		{
			name:      "dotted name after receiver",
			signature: "a.b.c()",
			want:      types.SignatureMatch{MethodOf: "a", HasReceiverDot: true, Name: "b.c"},
		},
		{
			name:      "receiver reading fails, retried as plain name",
			signature: "Foo.(x)",
			want:      types.SignatureMatch{Name: "Foo.", RawArgs: "x"},
		},
		{
			name:      "colons inside the name",
			signature: "std::foo(x)",
			want:      types.SignatureMatch{Name: "std::foo", RawArgs: "x"},
		},
		{
			name:      "method name with colon",
			signature: "Foo.on:click(h)",
			want:      types.SignatureMatch{MethodOf: "Foo", HasReceiverDot: true, Name: "on:click", RawArgs: "h"},
		},
		{
			name:      "colon name with return type",
			signature: "a:b(x): number",
			want:      types.SignatureMatch{Name: "a:b", RawArgs: "x", ReturnType: "number"},
		},
		{
			name:      "colon name without parens",
			signature: "a:b",
			want:      types.SignatureMatch{Name: "a:b"},
		},
		{
			name:      "unicode space around return type",
			signature: "f(x):\u00a0T",
			want:      types.SignatureMatch{Name: "f", RawArgs: "x", ReturnType: "T"},
		},
		{
			name:      "dots inside args do not form a receiver",
			signature: "f(x.y)",
			want:      types.SignatureMatch{Name: "f", RawArgs: "x.y"},
		},
	}

	p := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.ParseSignature(tt.signature)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSignature_NoMatch(t *testing.T) {
	inputs := []string{
		"",
		"(x)",
		" leading space",
		"two words",
		"f(unclosed",
		"f(a) trailing",
		"f(a): two words",
		"f(a):",
		"f(a)(b)",
		"f(): number ",
		"f(x): T\u00a0",
	}

	p := New()
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, ok := p.ParseSignature(in)
			assert.False(t, ok)
		})
	}
}

func TestParseSignature_NestedParens(t *testing.T) {
	sig := "on(cb: (e: Event) => void): void"

	_, ok := New().ParseSignature(sig)
	assert.False(t, ok, "naive mode closes the list at the first ')'")

	m, ok := NewWithOptions(Options{SplitMode: SplitBalanced}).ParseSignature(sig)
	require.True(t, ok)
	assert.Equal(t, "cb: (e: Event) => void", m.RawArgs)
	assert.Equal(t, "void", m.ReturnType)
}

func TestParseArgs(t *testing.T) {
	frags := New().ParseArgs("...items: string[], count: number")
	require.Len(t, frags, 2)

	assert.True(t, frags[0].Parsed())
	assert.True(t, frags[0].Collect)
	assert.Equal(t, "items", frags[0].Name)
	assert.Equal(t, "string[]", frags[0].Type)

	assert.True(t, frags[1].Parsed())
	assert.False(t, frags[1].Collect)
	assert.Equal(t, "count", frags[1].Name)
	assert.Equal(t, "number", frags[1].Type)
	assert.Equal(t, " count: number", frags[1].Raw)
}

func TestParseArgs_Empty(t *testing.T) {
	assert.Empty(t, New().ParseArgs(""))
}

func TestParseArgs_NaiveSplitBreaksGenerics(t *testing.T) {
	frags := New().ParseArgs("m: Record<string, number>")
	require.Len(t, frags, 2)

	assert.Equal(t, "m", frags[0].Name)
	assert.Equal(t, "Record<string", frags[0].Type)

	// The tail of the generic reads as a bogus argument name
	assert.True(t, frags[1].Parsed())
	assert.Equal(t, "number>", frags[1].DisplayName())
	assert.Equal(t, " number>", frags[1].Raw)
}

func TestParseArgs_BalancedSplitKeepsGenerics(t *testing.T) {
	p := NewWithOptions(Options{SplitMode: SplitBalanced})
	frags := p.ParseArgs("m: Record<string, number>, cb: (a, b) => void, t: [x, y]")
	require.Len(t, frags, 3)

	assert.Equal(t, "Record<string, number>", frags[0].Type)
	assert.Equal(t, "(a, b) => void", frags[1].Type)
	assert.Equal(t, "[x, y]", frags[2].Type)
}

func TestParseFragment(t *testing.T) {
	tests := []struct {
		raw  string
		want types.ArgFragment
	}{
		{"x", types.ArgFragment{Kind: types.FragmentParsed, Raw: "x", Name: "x"}},
		{"  x  ", types.ArgFragment{Kind: types.FragmentParsed, Raw: "  x  ", Name: "x"}},
		{"x:number", types.ArgFragment{Kind: types.FragmentParsed, Raw: "x:number", Name: "x", Type: "number"}},
		{"x : Array<string>", types.ArgFragment{Kind: types.FragmentParsed, Raw: "x : Array<string>", Name: "x", Type: "Array<string>"}},
		{"...rest", types.ArgFragment{Kind: types.FragmentParsed, Raw: "...rest", Collect: true, Name: "rest"}},
		{"...", types.ArgFragment{Kind: types.FragmentParsed, Raw: "...", Name: "..."}},
		{"o: { a: string }", types.ArgFragment{Kind: types.FragmentParsed, Raw: "o: { a: string }", Name: "o", Type: "{ a: string }"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFragment(tt.raw))
		})
	}
}

func TestParseFragment_Unparsed(t *testing.T) {
	for _, raw := range []string{"", "   ", "a b", "x:", ": number", "... x"} {
		t.Run(raw, func(t *testing.T) {
			frag := ParseFragment(raw)
			assert.False(t, frag.Parsed())
			assert.Equal(t, raw, frag.DisplayName())
			assert.Empty(t, frag.Type)
			assert.False(t, frag.Collect)
		})
	}
}

func BenchmarkParseSignature(b *testing.B) {
	p := New()
	for i := 0; i < b.N; i++ {
		m, _ := p.ParseSignature("Collection.insertMany(...docs: Document[], options: InsertOptions): Promise")
		p.ParseArgs(m.RawArgs)
	}
}

func BenchmarkParseSignature_Balanced(b *testing.B) {
	p := NewWithOptions(Options{SplitMode: SplitBalanced})
	for i := 0; i < b.N; i++ {
		m, _ := p.ParseSignature("Store.on(event: string, cb: (e: Event, ctx: Map<string, any>) => void): void")
		p.ParseArgs(m.RawArgs)
	}
}
