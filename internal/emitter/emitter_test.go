package emitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmit(t *testing.T) {
	tests := []struct {
		name        string
		signature   string
		description string
		id          string
		want        string
	}{
		{
			name:        "id and title",
			signature:   "Foo.bar(x: number): string",
			description: "Does bar",
			id:          "Foo.bar",
			want:        `<icode id="doc-fn-Foo.bar" title="Does bar">Foo.bar(x: number): string</icode>`,
		},
		{
			name:      "id only",
			signature: "baz(y)",
			id:        "baz",
			want:      `<icode id="doc-fn-baz">baz(y)</icode>`,
		},
		{
			name:        "title only",
			signature:   "baz(y)",
			description: "again",
			want:        `<icode title="again">baz(y)</icode>`,
		},
		{
			name:      "neither",
			signature: "just prose",
			want:      `<icode>just prose</icode>`,
		},
		{
			name:      "empty signature",
			signature: "",
			want:      `<icode></icode>`,
		},
		{
			name:        "escaped title, verbatim signature",
			signature:   "get(): Array<T>",
			description: `Returns "all" <items> & more`,
			want:        `<icode title="Returns &#34;all&#34; &lt;items&gt; &amp; more">get(): Array<T></icode>`,
		},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Emit(tt.signature, tt.description, tt.id))
		})
	}
}

func TestNewWithOptions(t *testing.T) {
	e := NewWithOptions("code", "fn-")
	assert.Equal(t, `<code id="fn-f">f()</code>`, e.Emit("f()", "", "f"))

	d := NewWithOptions("", "")
	assert.Equal(t, "doc-fn-f", d.Anchor("f"))
	assert.Equal(t, `<icode>x</icode>`, d.Emit("x", "", ""))
}
