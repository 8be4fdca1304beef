package table

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Error code constants for table loading.
const (
	ErrCodeGeneric      = "E101" // Generic/unknown error
	ErrCodeReadFailed   = "E102" // File could not be read
	ErrCodeParseFailed  = "E103" // YAML parse or CUE build failed
	ErrCodeUnknownField = "E104" // Field not part of the table schema
	ErrCodeInvalid      = "E105" // Table failed validation
	ErrCodeUnsupported  = "E106" // File extension is not .yaml, .yml or .cue
	ErrCodeNoFiles      = "E107" // Directory holds no table files
)

// LoadError represents an error that occurred while loading a table.
type LoadError struct {
	Code    string
	Message string
	Path    string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalidf(path, format string, args ...any) *LoadError {
	return &LoadError{Code: ErrCodeInvalid, Message: fmt.Sprintf(format, args...), Path: path}
}

// fromCUEError converts a CUE error, keeping the first position it carries.
func fromCUEError(path, code string, err error) *LoadError {
	le := &LoadError{Code: code, Message: err.Error(), Path: path}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return le
	}
	le.Message = errs[0].Error()
	if positions := errors.Positions(errs[0]); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
