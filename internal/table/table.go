package table

import (
	"maps"
	"slices"

	"github.com/roach88/testkit/internal/fixture"
	"github.com/roach88/testkit/internal/paramtest"
)

// File is one parametrization table.
type File struct {
	// Name identifies the test the table parametrizes.
	Name string `yaml:"name" json:"name"`

	// Vars is the optional comma-separated variable-name specification.
	Vars string `yaml:"vars,omitempty" json:"vars,omitempty"`

	// Workers is the worker count. 0 means 1.
	Workers int `yaml:"workers,omitempty" json:"workers,omitempty"`

	// Values are the rows. A list row is a tuple.
	Values []any `yaml:"values" json:"values"`

	// Fixtures are static data fixtures registered by name.
	Fixtures map[string]any `yaml:"fixtures,omitempty" json:"fixtures,omitempty"`

	// Path is the file the table was loaded from.
	Path string `yaml:"-" json:"-"`
}

// fields lists the keys a table may contain.
var fields = []string{"name", "vars", "workers", "values", "fixtures"}

// Parametrization converts the table for paramtest.Engine.Run.
func (f *File) Parametrization() paramtest.Parametrization {
	values := make([]any, len(f.Values))
	for i, v := range f.Values {
		if row, ok := v.([]any); ok {
			values[i] = paramtest.Tuple(row)
			continue
		}
		values[i] = v
	}
	return paramtest.Parametrization{
		Vars:    f.Vars,
		Values:  values,
		Workers: f.workers(),
	}
}

func (f *File) workers() int {
	if f.Workers == 0 {
		return 1
	}
	return f.Workers
}

// FixtureNames returns the data fixture names in sorted order.
func (f *File) FixtureNames() []string {
	return slices.Sorted(maps.Keys(f.Fixtures))
}

// RegisterFixtures registers every data fixture of the table with reg.
// Existing registrations of the same names are replaced.
func (f *File) RegisterFixtures(reg *fixture.Registry) {
	for _, name := range f.FixtureNames() {
		reg.Register(fixture.Definition{Name: name, Producer: fixture.Value(f.Fixtures[name])})
	}
}

// validate checks the table after decoding.
func validate(f *File) error {
	if f.Name == "" {
		return invalidf(f.Path, "name is required")
	}
	if f.Workers < 0 {
		return invalidf(f.Path, "workers must be at least 1, got %d", f.Workers)
	}
	if len(f.Values) == 0 {
		return invalidf(f.Path, "values list is required and must be non-empty")
	}

	vars, err := paramtest.ParseVars(f.Vars)
	if err != nil {
		return invalidf(f.Path, "vars: %v", err)
	}
	if len(vars) > 0 {
		for i, v := range f.Values {
			n := 1
			if row, ok := v.([]any); ok {
				n = len(row)
			}
			if n != len(vars) {
				return invalidf(f.Path, "values[%d] has %d value(s), expected %d for vars %q", i, n, len(vars), f.Vars)
			}
		}
	}

	for name := range f.Fixtures {
		if name == "" {
			return invalidf(f.Path, "fixture name must be non-empty")
		}
		if slices.Contains(vars, name) {
			return invalidf(f.Path, "fixture %q is also a variable", name)
		}
	}
	return nil
}
