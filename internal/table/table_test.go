package table

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/testkit/internal/fixture"
	"github.com/roach88/testkit/internal/paramtest"
	"github.com/roach88/testkit/internal/testutil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// =============================================================================
// YAML
// =============================================================================

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "guesses.yaml", `
name: favorite_color_guess
vars: "guess"
values: [orange, yellow, black]
fixtures:
  my_favorite_color: black
`)

	f, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "favorite_color_guess", f.Name)
	assert.Equal(t, path, f.Path)
	assert.Equal(t, []string{"my_favorite_color"}, f.FixtureNames())

	want := paramtest.Parametrization{
		Vars:    "guess",
		Values:  []any{"orange", "yellow", "black"},
		Workers: 1,
	}
	if diff := cmp.Diff(want, f.Parametrization()); diff != "" {
		t.Errorf("Parametrization() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_YAMLTuples(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pairs.yml", `
name: equal_pairs
vars: "x, y"
workers: 3
values:
  - [2, 2]
  - [8, 6]
`)

	f, err := Load(path)
	require.NoError(t, err)

	p := f.Parametrization()
	assert.Equal(t, 3, p.Workers)
	want := []any{paramtest.T(2, 2), paramtest.T(8, 6)}
	if diff := cmp.Diff(want, p.Values); diff != "" {
		t.Errorf("Values mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_YAMLUnknownField(t *testing.T) {
	path := writeFile(t, t.TempDir(), "typo.yaml", `
name: typo
value: [1, 2]
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, ErrCodeParseFailed, Code(err))
	assert.Contains(t, err.Error(), "value")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		msg     string
	}{
		{"missing name", "values: [1]\n", "name is required"},
		{"missing values", "name: t\n", "values list is required"},
		{"negative workers", "name: t\nworkers: -1\nvalues: [1]\n", "workers must be at least 1"},
		{"malformed vars", "name: t\nvars: \"x,,y\"\nvalues: [[1, 2]]\n", "vars:"},
		{"arity", "name: t\nvars: \"x, y\"\nvalues: [[1, 2], [1, 2, 3]]\n", "values[1] has 3 value(s), expected 2"},
		{"scalar row for two vars", "name: t\nvars: \"x, y\"\nvalues: [1]\n", "values[0] has 1 value(s)"},
		{"fixture shadows var", "name: t\nvars: \"x\"\nvalues: [1]\nfixtures:\n  x: 2\n", `fixture "x" is also a variable`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "table.yaml", tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Equal(t, ErrCodeInvalid, Code(err))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

// =============================================================================
// CUE
// =============================================================================

func TestLoad_CUE(t *testing.T) {
	path := writeFile(t, t.TempDir(), "guesses.cue", `
name: "favorite_color_guess"
vars: "x, y"
workers: 2
values: [[1, 2], [3, 4]]
fixtures: my_favorite_color: "black"
`)

	f, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "favorite_color_guess", f.Name)
	assert.Equal(t, map[string]any{"my_favorite_color": "black"}, f.Fixtures)

	p := f.Parametrization()
	assert.Equal(t, 2, p.Workers)
	want := []any{paramtest.T(1, 2), paramtest.T(3, 4)}
	if diff := cmp.Diff(want, p.Values); diff != "" {
		t.Errorf("Values mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_CUEUnknownFieldHasPosition(t *testing.T) {
	path := writeFile(t, t.TempDir(), "typo.cue", `name: "t"
valuez: [1]
`)

	_, err := Load(path)
	require.Error(t, err)

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, ErrCodeUnknownField, le.Code)
	require.True(t, le.Pos.IsValid())
	assert.Equal(t, 2, le.Pos.Line())
}

func TestLoad_CUENotConcrete(t *testing.T) {
	path := writeFile(t, t.TempDir(), "open.cue", `
name: string
values: [1]
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, ErrCodeParseFailed, Code(err))
}

func TestLoad_CUESyntaxError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.cue", "name: \"t\nvalues: [\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, ErrCodeParseFailed, Code(err))
}

// =============================================================================
// Files and directories
// =============================================================================

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeFile(t, t.TempDir(), "table.json", `{}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, ErrCodeUnsupported, Code(err))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ErrCodeReadFailed, Code(err))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "name: a\nvalues: [1]\n")
	writeFile(t, dir, "b.cue", "name: \"b\"\nvalues: [2]\n")
	writeFile(t, dir, "c.yaml", "values: [3]\n")
	writeFile(t, dir, "notes.txt", "ignored")

	files, errs := LoadDir(dir, LoadModeCollectAll)
	require.Len(t, files, 2)
	assert.Equal(t, "a", files[0].Name)
	assert.Equal(t, "b", files[1].Name)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrCodeInvalid, Code(errs[0]))

	_, errs = LoadDir(dir, LoadModeFailFast)
	assert.Len(t, errs, 1)
}

func TestLoadDir_Empty(t *testing.T) {
	_, errs := LoadDir(t.TempDir(), LoadModeCollectAll)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrCodeNoFiles, Code(errs[0]))
}

func TestLoadError_Format(t *testing.T) {
	assert.Equal(t, "E105: bad", (&LoadError{Code: ErrCodeInvalid, Message: "bad"}).Error())
	assert.Equal(t, "t.yaml: E105: bad", (&LoadError{Code: ErrCodeInvalid, Message: "bad", Path: "t.yaml"}).Error())
}

// =============================================================================
// End to end
// =============================================================================

func TestTable_DrivesEngine(t *testing.T) {
	path := writeFile(t, t.TempDir(), "guesses.yaml", `
name: favorite_color_guess
values: [orange, yellow, black]
workers: 2
fixtures:
  my_favorite_color: black
`)
	f, err := Load(path)
	require.NoError(t, err)

	reg := fixture.NewRegistry()
	f.RegisterFixtures(reg)
	e := paramtest.New(fixture.NewCache(reg),
		paramtest.WithRunIDGenerator(testutil.NewFixedRunIDGenerator("")))

	test := paramtest.Test{
		Name:   f.Name,
		Params: []string{"guess", "my_favorite_color"},
		Body: func(_ paramtest.TestCase, args paramtest.Args) error {
			guess := paramtest.Arg[string](args, "guess")
			favorite := paramtest.Arg[string](args, "my_favorite_color")
			if (guess == "black") != (guess == favorite) {
				return errors.New("mismatch")
			}
			return nil
		},
	}

	report, err := e.Run(context.Background(), t, test, nil, f.Parametrization())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Passed())
	assert.Equal(t, []string{"my_favorite_color"}, report.Fixtures)
	assert.Equal(t, "test-run-default", report.RunID)
}
