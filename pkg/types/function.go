package types

// ArgumentDescription describes one declared parameter of a function
type ArgumentDescription struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`        // Empty when no type was declared
	Collect     bool   `json:"collect"`               // Variadic ("...rest") argument
	Description string `json:"description,omitempty"` // Empty when no description was supplied
}

// FunctionDescription describes a function or method as first declared
type FunctionDescription struct {
	// Identification
	ID    string `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label"`

	// Shape
	Args       []ArgumentDescription `json:"args"`
	ReturnType string                `json:"returnType,omitempty"`

	// Receiver
	IsMethod bool   `json:"isMethod"`
	MethodOf string `json:"methodOf,omitempty"` // May be empty for ".name" signatures

	Description string `json:"description,omitempty"`
}

// QualifiedName derives the identifier shared by ID and Label.
// Methods are prefixed with their receiver and a dot, even when the
// receiver itself is empty.
func QualifiedName(methodOf string, isMethod bool, name string) string {
	if !isMethod {
		return name
	}
	return methodOf + "." + name
}

// NewFunctionDescription assembles a FunctionDescription from a signature
// match and its resolved arguments
func NewFunctionDescription(m SignatureMatch, args []ArgumentDescription, description string) *FunctionDescription {
	id := QualifiedName(m.MethodOf, m.HasReceiverDot, m.Name)
	if args == nil {
		args = []ArgumentDescription{}
	}
	return &FunctionDescription{
		ID:          id,
		Name:        m.Name,
		Label:       id,
		Args:        args,
		ReturnType:  m.ReturnType,
		IsMethod:    m.HasReceiverDot,
		MethodOf:    m.MethodOf,
		Description: description,
	}
}

// Clone returns a deep copy so stored descriptions stay immutable
func (f *FunctionDescription) Clone() *FunctionDescription {
	if f == nil {
		return nil
	}
	out := *f
	out.Args = make([]ArgumentDescription, len(f.Args))
	copy(out.Args, f.Args)
	return &out
}

// Validate checks that ID, Label and the receiver fields agree
func (f *FunctionDescription) Validate() error {
	if f.Name == "" {
		return ErrEmptyName
	}

	if !f.IsMethod && f.MethodOf != "" {
		return ErrMethodWithoutDot
	}

	want := QualifiedName(f.MethodOf, f.IsMethod, f.Name)
	if f.ID != want || f.Label != want {
		return ErrLabelMismatch
	}

	return nil
}
