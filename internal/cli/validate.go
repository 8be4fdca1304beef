package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/testkit/internal/table"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Tables []string          `json:"tables"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidationError is one table that failed to load.
type ValidationError struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file|dir>...",
		Short: "Validate parametrization tables",
		Long: `Validate YAML and CUE parametrization tables.

Directories are searched recursively for .yaml, .yml and .cue files. Every
table is parsed with strict field checking and validated: a name, at least
one value row, a well-formed vars specification with matching row arity,
and data fixtures that do not shadow variables.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return runValidate(rootOpts, formatter, args)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, formatter *OutputFormatter, paths []string) error {
	logger := opts.logger()
	result := ValidationResult{Valid: true}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return outputCommandError(formatter, table.ErrCodeReadFailed, fmt.Sprintf("path not found: %s", path))
		}

		var (
			files []*table.File
			errs  []error
		)
		if info.IsDir() {
			files, errs = table.LoadDir(path, table.LoadModeCollectAll)
		} else {
			f, err := table.Load(path)
			if err != nil {
				errs = append(errs, err)
			} else {
				files = append(files, f)
			}
		}

		for _, f := range files {
			logger.Debug("table valid", "path", f.Path, "name", f.Name, "rows", len(f.Values))
			result.Tables = append(result.Tables, f.Name)
		}
		for _, err := range errs {
			ve := toValidationError(path, err)
			logger.Debug("table invalid", "path", ve.Path, "code", ve.Code)
			result.Errors = append(result.Errors, ve)
		}
	}

	if len(result.Errors) > 0 {
		result.Valid = false
		first := result.Errors[0]
		if err := formatter.Failure(result, first.Code, first.Message, validationText(result)); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
	}

	return formatter.Success(result, fmt.Sprintf("✓ %d table(s) valid\n", len(result.Tables)))
}

func toValidationError(path string, err error) ValidationError {
	var le *table.LoadError
	if !errors.As(err, &le) {
		return ValidationError{Path: path, Code: table.ErrCodeGeneric, Message: err.Error()}
	}

	ve := ValidationError{Path: le.Path, Code: le.Code, Message: le.Message}
	if ve.Path == "" {
		ve.Path = path
	}
	if le.Pos.IsValid() {
		ve.Line = le.Pos.Line()
	}
	return ve
}

func validationText(result ValidationResult) string {
	var b strings.Builder
	fmt.Fprintln(&b, "✗ Validation failed")
	fmt.Fprintln(&b)
	for _, e := range result.Errors {
		if e.Line > 0 {
			fmt.Fprintf(&b, "%s:%d\n", e.Path, e.Line)
		} else {
			fmt.Fprintf(&b, "%s\n", e.Path)
		}
		fmt.Fprintf(&b, "  %s: %s\n\n", e.Code, e.Message)
	}
	return b.String()
}

// outputCommandError writes a command-level error (exit code 2).
func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
