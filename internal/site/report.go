package site

import (
	"fmt"
	"strings"
)

// DocError is one per-document failure, collected rather than raised so
// sibling documents keep publishing.
type DocError struct {
	Path string
	Err  error
}

// ProjectResult is the outcome of one project's run. Fatal is set for
// config- or layout-level failures that abort the project and the run.
type ProjectResult struct {
	Name      string
	Fatal     error
	DocErrors []DocError
}

// Report is the outcome of a full publish run.
type Report struct {
	Results []ProjectResult
}

// Ok reports whether the run completed without any failure.
func (r *Report) Ok() bool {
	for _, pr := range r.Results {
		if pr.Fatal != nil || len(pr.DocErrors) > 0 {
			return false
		}
	}
	return true
}

// FailureCount counts fatal project failures and per-document failures.
func (r *Report) FailureCount() int {
	n := 0
	for _, pr := range r.Results {
		if pr.Fatal != nil {
			n++
		}
		n += len(pr.DocErrors)
	}
	return n
}

// Summary lists every failure grouped by project.
func (r *Report) Summary() string {
	var b strings.Builder
	for _, pr := range r.Results {
		if pr.Fatal == nil && len(pr.DocErrors) == 0 {
			fmt.Fprintf(&b, "%v: ok\n", pr.Name)
			continue
		}
		if pr.Fatal != nil {
			fmt.Fprintf(&b, "%v: FAILED: %v\n", pr.Name, pr.Fatal)
		} else {
			fmt.Fprintf(&b, "%v: %d document(s) failed\n", pr.Name, len(pr.DocErrors))
		}
		for _, de := range pr.DocErrors {
			fmt.Fprintf(&b, "  %v: %v\n", de.Path, de.Err)
		}
	}
	return b.String()
}
