package fixture

import (
	"errors"
	"fmt"
)

// ErrFixtureNotFound is the sentinel wrapped by NotFoundError.
var ErrFixtureNotFound = errors.New("fixture not found")

// NotFoundError reports a lookup of a name that was never registered.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("fixture %q not found: register it with fixture.Register before use", e.Name)
}

func (e *NotFoundError) Unwrap() error { return ErrFixtureNotFound }

// ComputeError reports a producer that failed or panicked.
// Failed computations are never cached.
type ComputeError struct {
	Fixture string
	Err     error
}

func (e *ComputeError) Error() string {
	return fmt.Sprintf("computing fixture %q: %v", e.Fixture, e.Err)
}

func (e *ComputeError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrFixtureNotFound)
}
