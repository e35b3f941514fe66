// Package emitter renders the inline markup for a declared signature.
//
//	<icode id="doc-fn-Foo.bar" title="Does bar">Foo.bar(x: number): string</icode>
//
// The id attribute is written only when an identifier is given (the first
// occurrence of a function), the title only when a description is given.
// Attribute values are escaped; the signature text is written verbatim.
package emitter

import (
	"html"
	"strings"
)

const (
	// DefaultTag is the inline element wrapping a signature
	DefaultTag = "icode"
	// DefaultAnchorPrefix is prepended to identifiers in the id attribute
	DefaultAnchorPrefix = "doc-fn-"
)

// Emitter writes declaration markup
type Emitter struct {
	tag          string
	anchorPrefix string
}

// New creates an Emitter with the default tag and anchor prefix
func New() *Emitter {
	return &Emitter{tag: DefaultTag, anchorPrefix: DefaultAnchorPrefix}
}

// NewWithOptions creates an Emitter; empty values fall back to the defaults
func NewWithOptions(tag, anchorPrefix string) *Emitter {
	e := New()
	if tag != "" {
		e.tag = tag
	}
	if anchorPrefix != "" {
		e.anchorPrefix = anchorPrefix
	}
	return e
}

// Anchor returns the id attribute value for an identifier
func (e *Emitter) Anchor(id string) string {
	return e.anchorPrefix + id
}

// Emit renders the markup for one declaration. It never fails.
func (e *Emitter) Emit(signature, description, id string) string {
	var b strings.Builder
	b.Grow(len(signature) + len(description) + len(id) + 2*len(e.tag) + 32)

	b.WriteString("<")
	b.WriteString(e.tag)
	if id != "" {
		writeAttr(&b, "id", e.Anchor(id))
	}
	if description != "" {
		writeAttr(&b, "title", description)
	}
	b.WriteString(">")
	b.WriteString(signature)
	b.WriteString("</")
	b.WriteString(e.tag)
	b.WriteString(">")

	return b.String()
}

func writeAttr(b *strings.Builder, name, value string) {
	b.WriteString(" ")
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(value))
	b.WriteString(`"`)
}
