// internal/collector/report.go
package collector

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Kind names one of the per-repository detail facts.
type Kind string

const (
	KindTags   Kind = "tags"
	KindCommit Kind = "commit"
)

// OutcomeStatus is the result of processing one repository/kind pair.
type OutcomeStatus string

const (
	StatusFetched OutcomeStatus = "fetched"
	StatusSkipped OutcomeStatus = "skipped"
	StatusFailed  OutcomeStatus = "failed"
)

// Outcome records what happened to one repository/kind pair.
type Outcome struct {
	Repo   string
	Kind   Kind
	Status OutcomeStatus
	Err    error
}

// Report collects the outcomes of a detail run in processing order.
type Report struct {
	Outcomes []Outcome
}

func (r *Report) add(repo string, kind Kind, status OutcomeStatus, err error) {
	r.Outcomes = append(r.Outcomes, Outcome{Repo: repo, Kind: kind, Status: status, Err: err})
}

// Count returns the number of outcomes with the given kind and status.
func (r *Report) Count(kind Kind, status OutcomeStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Kind == kind && o.Status == status {
			n++
		}
	}
	return n
}

// Failures returns the failed outcomes.
func (r *Report) Failures() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			failed = append(failed, o)
		}
	}
	return failed
}

// Write prints a per-kind tally followed by every failure.
func (r *Report) Write(w io.Writer) error {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)

	if _, err := bold.Fprintln(w, "Detail collection report"); err != nil {
		return err
	}
	for _, kind := range []Kind{KindTags, KindCommit} {
		if _, err := fmt.Fprintf(w, "  %-7s ", kind); err != nil {
			return err
		}
		if _, err := green.Fprintf(w, "fetched=%d", r.Count(kind, StatusFetched)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, " skipped=%d ", r.Count(kind, StatusSkipped)); err != nil {
			return err
		}
		if _, err := red.Fprintf(w, "failed=%d", r.Count(kind, StatusFailed)); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	failures := r.Failures()
	if len(failures) == 0 {
		return nil
	}
	if _, err := red.Fprintln(w, "Failures (re-run to retry):"); err != nil {
		return err
	}
	for _, f := range failures {
		if _, err := fmt.Fprintf(w, "  %s [%s]: %v\n", f.Repo, f.Kind, f.Err); err != nil {
			return err
		}
	}
	return nil
}
