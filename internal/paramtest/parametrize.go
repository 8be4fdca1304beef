package paramtest

import (
	"strings"
)

// Tuple is one row of parameter values.
//
// Only a Tuple spreads across several parameters; any other value,
// including slices, is a single parameter value.
type Tuple []any

// T builds a Tuple.
func T(values ...any) Tuple {
	return Tuple(values)
}

// Parametrization configures one parametrized run: variable names, the
// value rows, and the worker count.
type Parametrization struct {
	// Vars is a comma-separated variable-name specification such as
	// "x, y". Empty means auto-detect from the test's parameters.
	Vars string `json:"vars,omitempty"`

	// Values are the rows. Each element is a Tuple or a single value.
	Values []any `json:"values"`

	// Workers is the number of concurrent workers. 1 runs sequentially.
	Workers int `json:"workers"`
}

// Parametrize runs the test once per value, auto-detecting variable names.
func Parametrize(values ...any) Parametrization {
	return Parametrization{Values: values, Workers: 1}
}

// ParametrizeVars runs the test once per value with explicit variable
// names given as a comma-separated specification.
func ParametrizeVars(vars string, values ...any) Parametrization {
	return Parametrization{Vars: vars, Values: values, Workers: 1}
}

// Once runs the test a single time with no parametrized values, which
// binds every parameter from base arguments and fixtures.
func Once() Parametrization {
	return Parametrization{Values: []any{Tuple{}}, Workers: 1}
}

// Parallel returns a copy of p that runs on n workers.
func (p Parametrization) Parallel(n int) Parametrization {
	p.Workers = n
	return p
}

// ParseVars splits a variable-name specification such as "x, y" into its
// names. Malformed specifications return a CONFIGURATION error.
func ParseVars(spec string) ([]string, error) {
	return parseVars("", spec)
}

// parseVars splits "x, y" into ["x", "y"].
// Returns nil for an empty or whitespace-only specification.
func parseVars(test, spec string) ([]string, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}

	parts := strings.Split(spec, ",")
	names := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for i, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			return nil, configErrorf(test, "variable specification %q has an empty name at position %d", spec, i)
		}
		if strings.ContainsAny(name, " \t\n") {
			return nil, configErrorf(test, "variable specification %q has malformed name %q", spec, name)
		}
		if seen[name] {
			return nil, configErrorf(test, "variable specification %q repeats name %q", spec, name)
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, nil
}

// normalize coerces every value row to a Tuple.
func normalize(values []any) []Tuple {
	rows := make([]Tuple, len(values))
	for i, v := range values {
		if t, ok := v.(Tuple); ok {
			rows[i] = t
			continue
		}
		rows[i] = Tuple{v}
	}
	return rows
}
