package paramtest

import "testing"

// RunT runs test on e with t as the receiver and fails t on any error.
// The report is returned for further inspection, and is nil when the run
// was rejected before any invocation.
func (e *Engine) RunT(t *testing.T, test Test, base Args, p Parametrization) *Report {
	t.Helper()

	report, err := e.Run(t.Context(), t, test, base, p)
	if err != nil {
		if fs, ok := AsFailureSet(err); ok {
			for _, f := range fs.Failures {
				t.Errorf("%v", f)
			}
			return report
		}
		t.Errorf("%v", err)
	}
	return report
}

// RunT runs test on the default engine. See Engine.RunT.
func RunT(t *testing.T, test Test, base Args, p Parametrization) *Report {
	t.Helper()
	return Default().RunT(t, test, base, p)
}
