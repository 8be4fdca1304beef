package paramtest

import "fmt"

// Mode is the execution mode of a run.
type Mode string

const (
	ModeSequential Mode = "sequential"
	ModeParallel   Mode = "parallel"
)

// Status is the outcome of one invocation.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// InvocationResult records one tuple's outcome.
type InvocationResult struct {
	Index int `json:"index"`

	// Args holds the parametrized values formatted with %v.
	// Fixture values are not recorded.
	Args map[string]string `json:"args"`

	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Report is the outcome of one parametrized run.
type Report struct {
	RunID       string             `json:"run_id"`
	Test        string             `json:"test"`
	Mode        Mode               `json:"mode"`
	Workers     int                `json:"workers"`
	Vars        []string           `json:"vars"`
	Fixtures    []string           `json:"fixtures"`
	Invocations []InvocationResult `json:"invocations"`
}

// newReport creates a report with every invocation skipped. The engine
// overwrites the status of each invocation it runs.
func newReport(runID, test string, workers int, c Classification, rows []Tuple) *Report {
	mode := ModeSequential
	if workers > 1 {
		mode = ModeParallel
	}

	r := &Report{
		RunID:       runID,
		Test:        test,
		Mode:        mode,
		Workers:     workers,
		Vars:        append([]string{}, c.Parametrized...),
		Fixtures:    append([]string{}, c.Fixtures...),
		Invocations: make([]InvocationResult, len(rows)),
	}
	for i, row := range rows {
		args := make(map[string]string, len(c.Parametrized))
		for j, name := range c.Parametrized {
			args[name] = fmt.Sprintf("%v", row[j])
		}
		r.Invocations[i] = InvocationResult{Index: i, Args: args, Status: StatusSkipped}
	}
	return r
}

// record sets the outcome of invocation i.
// Each index is written by exactly one worker.
func (r *Report) record(i int, failure *InvocationError) {
	if failure != nil {
		r.Invocations[i].Status = StatusFailed
		r.Invocations[i].Error = failure.Error()
		return
	}
	r.Invocations[i].Status = StatusPassed
}

func (r *Report) count(s Status) int {
	n := 0
	for _, inv := range r.Invocations {
		if inv.Status == s {
			n++
		}
	}
	return n
}

// Passed returns the number of passed invocations.
func (r *Report) Passed() int { return r.count(StatusPassed) }

// Failed returns the number of failed invocations.
func (r *Report) Failed() int { return r.count(StatusFailed) }

// Skipped returns the number of invocations that never ran.
func (r *Report) Skipped() int { return r.count(StatusSkipped) }

// OK reports whether every invocation passed.
func (r *Report) OK() bool {
	return r.Passed() == len(r.Invocations)
}

// canonicalMap converts the report for canonical JSON serialization.
func (r *Report) canonicalMap() map[string]any {
	invocations := make([]any, len(r.Invocations))
	for i, inv := range r.Invocations {
		args := make(map[string]any, len(inv.Args))
		for k, v := range inv.Args {
			args[k] = v
		}
		m := map[string]any{
			"index":  inv.Index,
			"args":   args,
			"status": string(inv.Status),
		}
		if inv.Error != "" {
			m["error"] = inv.Error
		}
		invocations[i] = m
	}

	return map[string]any{
		"run_id":      r.RunID,
		"test":        r.Test,
		"mode":        string(r.Mode),
		"workers":     r.Workers,
		"vars":        r.Vars,
		"fixtures":    r.Fixtures,
		"invocations": invocations,
	}
}
