package types

import "errors"

// Domain errors for function description validation
var (
	ErrEmptyName        = errors.New("function name is required")
	ErrLabelMismatch    = errors.New("id and label must equal the receiver-qualified name")
	ErrMethodWithoutDot = errors.New("only methods can have a receiver type")
)
