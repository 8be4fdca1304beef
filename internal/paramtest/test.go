package paramtest

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
)

// TestCase is the capability a receiver must have to run test bodies.
// *testing.T and *testing.B satisfy it.
type TestCase interface {
	Name() string
	Helper()
}

// Args are the bound arguments of one invocation, by parameter name.
type Args map[string]any

// Names returns the argument names in sorted order.
func (a Args) Names() []string {
	return slices.Sorted(maps.Keys(a))
}

// Lookup returns the argument name converted to T.
func Lookup[T any](args Args, name string) (T, error) {
	var zero T
	v, ok := args[name]
	if !ok {
		return zero, fmt.Errorf("argument %q not bound", name)
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("argument %q is %T, not %T", name, v, zero)
	}
	return t, nil
}

// Arg is like Lookup but panics on a missing or mistyped argument.
// Inside a body the panic is recovered and reported as a PANIC failure.
func Arg[T any](args Args, name string) T {
	v, err := Lookup[T](args, name)
	if err != nil {
		panic(err)
	}
	return v
}

// Body is a test body. It reports failure by returning an error.
type Body func(tc TestCase, args Args) error

// Test declares a test body together with its ordered parameter names.
type Test struct {
	// Name identifies the test in errors and reports. Defaults to the
	// receiver's Name().
	Name string

	// Params are the body's parameter names, in declaration order.
	Params []string

	Body Body
}

// validate checks the declaration itself.
func (t Test) validate() error {
	if t.Body == nil {
		return configErrorf(t.Name, "test has no body")
	}
	seen := make(map[string]bool, len(t.Params))
	for _, p := range t.Params {
		if p == "" {
			return configErrorf(t.Name, "test declares an empty parameter name")
		}
		if seen[p] {
			return configErrorf(t.Name, "test declares parameter %q twice", p)
		}
		seen[p] = true
	}
	return nil
}

// isNilReceiver reports whether tc is nil, including typed-nil pointers.
func isNilReceiver(tc TestCase) bool {
	if tc == nil {
		return true
	}
	v := reflect.ValueOf(tc)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
