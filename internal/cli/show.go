package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/testkit/internal/paramtest"
	"github.com/roach88/testkit/internal/table"
)

// TableSummary describes one table as paramtest will run it.
type TableSummary struct {
	Name     string   `json:"name"`
	Path     string   `json:"path"`
	Vars     []string `json:"vars"`
	Mode     string   `json:"mode"`
	Workers  int      `json:"workers"`
	Tuples   int      `json:"tuples"`
	Fixtures []string `json:"fixtures"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "show <file>",
		Short:         "Show how a parametrization table will run",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return runShow(rootOpts, formatter, args[0])
		},
	}

	return cmd
}

func runShow(opts *RootOptions, formatter *OutputFormatter, path string) error {
	f, err := table.Load(path)
	if err != nil {
		ve := toValidationError(path, err)
		_ = formatter.Error(ve.Code, ve.Message, ve)
		return WrapExitError(ExitCommandError, "cannot load table", err)
	}

	summary := summarize(f)
	opts.logger().Debug("table loaded", "path", path, "name", summary.Name, "mode", summary.Mode)
	return formatter.Success(summary, summaryText(summary))
}

func summarize(f *table.File) TableSummary {
	p := f.Parametrization()
	// Load has already validated the vars specification.
	vars, _ := paramtest.ParseVars(p.Vars)
	if vars == nil {
		vars = []string{}
	}

	fixtures := f.FixtureNames()
	if fixtures == nil {
		fixtures = []string{}
	}

	mode := paramtest.ModeSequential
	if p.Workers > 1 {
		mode = paramtest.ModeParallel
	}

	return TableSummary{
		Name:     f.Name,
		Path:     f.Path,
		Vars:     vars,
		Mode:     string(mode),
		Workers:  p.Workers,
		Tuples:   len(p.Values),
		Fixtures: fixtures,
	}
}

func summaryText(s TableSummary) string {
	vars := "(auto-detected from test parameters)"
	if len(s.Vars) > 0 {
		vars = strings.Join(s.Vars, ", ")
	}
	fixtures := "(none)"
	if len(s.Fixtures) > 0 {
		fixtures = strings.Join(s.Fixtures, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Table: %s\n", s.Name)
	fmt.Fprintf(&b, "  path:     %s\n", s.Path)
	fmt.Fprintf(&b, "  vars:     %s\n", vars)
	fmt.Fprintf(&b, "  mode:     %s (%d worker(s))\n", s.Mode, s.Workers)
	fmt.Fprintf(&b, "  tuples:   %d\n", s.Tuples)
	fmt.Fprintf(&b, "  fixtures: %s\n", fixtures)
	return b.String()
}
