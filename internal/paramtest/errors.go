package paramtest

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode categorizes parametrized-run errors.
type ErrorCode string

const (
	// CodeConfiguration indicates an invalid receiver, worker count, test
	// declaration or variable-name specification. Raised before any
	// invocation.
	CodeConfiguration ErrorCode = "CONFIGURATION"

	// CodeArity indicates a value tuple whose length does not match the
	// number of parametrized names. Raised before any invocation.
	CodeArity ErrorCode = "ARITY"

	// CodeResolution indicates a parameter that could not be bound: not
	// supplied, not parametrized, and not resolvable as a fixture.
	CodeResolution ErrorCode = "RESOLUTION"

	// CodeAssertion indicates failed assertions reported through Check.
	CodeAssertion ErrorCode = "ASSERTION"

	// CodePanic indicates a test body that panicked.
	CodePanic ErrorCode = "PANIC"
)

// Error is a parametrized-run error with structured diagnostics.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Test is the name of the affected test, if known.
	Test string

	// Param is the affected parameter name (resolution errors).
	Param string

	// Index is the affected tuple index (arity errors), or -1.
	Index int

	// Expected and Actual are the arities compared by an arity error.
	Expected int
	Actual   int

	// Details holds every message of an assertion error.
	Details []string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Code, e.Message)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Test != "" {
		fmt.Fprintf(&b, " (test=%s)", e.Test)
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func configErrorf(test, format string, args ...any) *Error {
	return &Error{Code: CodeConfiguration, Message: fmt.Sprintf(format, args...), Test: test, Index: -1}
}

func newArityError(test string, index int, names []string, actual int) *Error {
	return &Error{
		Code: CodeArity,
		Message: fmt.Sprintf("tuple %d has %d value(s), expected %d for parameters [%s]",
			index, actual, len(names), strings.Join(names, ", ")),
		Test:     test,
		Index:    index,
		Expected: len(names),
		Actual:   actual,
	}
}

func newResolutionError(test, param string, cause error) *Error {
	msg := fmt.Sprintf("parameter %q is not supplied, not parametrized, and not a registered fixture", param)
	if cause != nil {
		msg = fmt.Sprintf("cannot resolve fixture for parameter %q", param)
	}
	return &Error{Code: CodeResolution, Message: msg, Test: test, Param: param, Index: -1, Err: cause}
}

// InvocationError is the failure of one invocation: one tuple of one run.
type InvocationError struct {
	Test   string
	Index  int
	Values Tuple
	Err    error
}

// Error implements the error interface.
func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s[%d] %v: %v", e.Test, e.Index, []any(e.Values), e.Err)
}

// Unwrap returns the cause of the failure.
func (e *InvocationError) Unwrap() error {
	return e.Err
}

// FailureSet collects every failed invocation of a parallel run.
//
// Failures are ordered by tuple index, not completion order.
// errors.Is and errors.As see through the set to every failure.
type FailureSet struct {
	Test     string
	Total    int
	Failures []*InvocationError
}

// Error reports the failure count and the first failure.
func (s *FailureSet) Error() string {
	if len(s.Failures) == 0 {
		return fmt.Sprintf("%s: no failures", s.Test)
	}
	if len(s.Failures) == 1 {
		return fmt.Sprintf("%s: 1 of %d invocations failed: %v", s.Test, s.Total, s.Failures[0])
	}
	return fmt.Sprintf("%s: %d of %d invocations failed; first: %v",
		s.Test, len(s.Failures), s.Total, s.Failures[0])
}

// Unwrap exposes every failure to errors.Is and errors.As.
func (s *FailureSet) Unwrap() []error {
	errs := make([]error, len(s.Failures))
	for i, f := range s.Failures {
		errs[i] = f
	}
	return errs
}

// First returns the failure with the lowest tuple index, or nil.
func (s *FailureSet) First() *InvocationError {
	if len(s.Failures) == 0 {
		return nil
	}
	return s.Failures[0]
}

// Len returns the number of failures.
func (s *FailureSet) Len() int {
	return len(s.Failures)
}

// Indexes returns the tuple indexes that failed, in ascending order.
func (s *FailureSet) Indexes() []int {
	idx := make([]int, len(s.Failures))
	for i, f := range s.Failures {
		idx[i] = f.Index
	}
	return idx
}

// hasCode walks the whole error tree, so a FailureSet matches if any of
// its failures carries code.
func hasCode(err error, code ErrorCode) bool {
	if e, ok := err.(*Error); ok && e.Code == code {
		return true
	}
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		if next := u.Unwrap(); next != nil {
			return hasCode(next, code)
		}
	case interface{ Unwrap() []error }:
		for _, next := range u.Unwrap() {
			if hasCode(next, code) {
				return true
			}
		}
	}
	return false
}

// IsConfigurationError reports whether err is, or wraps, a configuration error.
func IsConfigurationError(err error) bool { return hasCode(err, CodeConfiguration) }

// IsArityError reports whether err is, or wraps, an arity error.
func IsArityError(err error) bool { return hasCode(err, CodeArity) }

// IsResolutionError reports whether err is, or wraps, a resolution error.
func IsResolutionError(err error) bool { return hasCode(err, CodeResolution) }

// IsAssertionError reports whether err is, or wraps, an assertion error.
func IsAssertionError(err error) bool { return hasCode(err, CodeAssertion) }

// AsFailureSet extracts the FailureSet of a parallel run.
func AsFailureSet(err error) (*FailureSet, bool) {
	var fs *FailureSet
	if errors.As(err, &fs) {
		return fs, true
	}
	return nil, false
}
