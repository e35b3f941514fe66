package parser

import "errors"

// ErrUnknownSplitMode is returned for split mode names other than naive or balanced
var ErrUnknownSplitMode = errors.New("unknown split mode")
