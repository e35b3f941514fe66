package types

// SignatureMatch is the structured split of a signature string:
// [Receiver.]name[(args)][: ReturnType]
type SignatureMatch struct {
	MethodOf       string // Receiver token, empty if absent
	HasReceiverDot bool   // A receiver dot was present (the function is a method)
	Name           string
	RawArgs        string // Text between the parentheses, empty if omitted
	ReturnType     string // Single whitespace-free token, empty if absent
}

// FragmentKind tags the two shapes an argument fragment can take
type FragmentKind int

const (
	// FragmentParsed means the fragment matched [...]name[: Type]
	FragmentParsed FragmentKind = iota
	// FragmentUnparsed means the fragment did not match and is kept verbatim
	FragmentUnparsed
)

// ArgFragment is the parse result of one raw argument fragment.
// Name, Type and Collect are only meaningful for FragmentParsed;
// Raw always holds the original, untrimmed fragment text.
type ArgFragment struct {
	Kind    FragmentKind
	Raw     string
	Collect bool
	Name    string
	Type    string
}

// Parsed reports whether the fragment matched the argument grammar
func (f ArgFragment) Parsed() bool {
	return f.Kind == FragmentParsed
}

// DisplayName returns the argument name, or the raw text for unparsed fragments
func (f ArgFragment) DisplayName() string {
	if f.Kind == FragmentUnparsed {
		return f.Raw
	}
	return f.Name
}

// Declaration is the outcome of declaring one signature occurrence
type Declaration struct {
	Markup     string               `json:"markup"`
	ID         string               `json:"id,omitempty"`       // Empty unless this call registered the function
	Parsed     bool                 `json:"parsed"`             // The signature matched the grammar
	Registered bool                 `json:"registered"`         // First occurrence of the identifier
	Function   *FunctionDescription `json:"function,omitempty"` // Nil when the signature did not parse
}

// Duplicate reports whether the signature parsed but its identifier was already registered
func (d Declaration) Duplicate() bool {
	return d.Parsed && !d.Registered
}
