package executor

import (
	"fmt"
	"io"
)

type (
	// Report accumulates the outcome of one run.
	Report struct {
		Results   []*ExecutionResult
		Succeeded int
		Failed    int
	}

	// FailedError is returned by Report.Err when at least one script failed.
	FailedError struct {
		Failed int
		Total  int
	}
)

func (e *FailedError) Error() string {
	return fmt.Sprintf("errors occurred while executing %d of %d scripts", e.Failed, e.Total)
}

func (r *Report) add(result *ExecutionResult) {
	r.Results = append(r.Results, result)

	if result.Status == StatusFailed {
		r.Failed++
		return
	}

	r.Succeeded++
}

// Total is the number of scripts that were executed.
func (r *Report) Total() int {
	return len(r.Results)
}

// Print writes the summary:
//
//	(blank line)
//	Report: 2 succeeded, 0 failed.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Report: %d succeeded, %d failed.\n", r.Succeeded, r.Failed)
}

// Err returns a *FailedError when any script failed, nil otherwise.
func (r *Report) Err() error {
	if r.Failed == 0 {
		return nil
	}

	return &FailedError{Failed: r.Failed, Total: r.Total()}
}
