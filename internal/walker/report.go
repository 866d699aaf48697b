package walker

import (
	"fmt"
	"io"
	"strings"
)

// Status is what happened to one behavior in an attach cycle.
type Status string

const (
	StatusRan          Status = "ran"
	StatusSkipped      Status = "skipped"
	StatusFailed       Status = "failed"
	StatusNotInvokable Status = "not invokable"
)

// Outcome records the result of attaching one behavior.
type Outcome struct {
	Behavior string
	Status   Status
	// Reason explains a skip.
	Reason string
	// Err is set for failed behaviors and wraps the routine's error.
	Err error
}

func (o *Outcome) String() string {
	switch o.Status {
	case StatusSkipped:
		return fmt.Sprintf("%s: %s (%s)", o.Behavior, o.Status, o.Reason)
	case StatusFailed:
		return fmt.Sprintf("%s: %s (%v)", o.Behavior, o.Status, o.Err)
	default:
		return fmt.Sprintf("%s: %s", o.Behavior, o.Status)
	}
}

// Report collects the outcomes of one attach cycle in registration order.
type Report struct {
	Outcomes []*Outcome
}

func (r *Report) add(o *Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Outcome returns the outcome recorded for name.
func (r *Report) Outcome(name string) (*Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Behavior == name {
			return o, true
		}
	}
	return nil, false
}

// Count returns the number of outcomes with the given status.
func (r *Report) Count(status Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// WriteTo renders the report as one line per behavior followed by a summary.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	for _, o := range r.Outcomes {
		b.WriteString(o.String())
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%d behaviors: %d ran, %d skipped, %d failed, %d not invokable\n",
		len(r.Outcomes), r.Count(StatusRan), r.Count(StatusSkipped), r.Count(StatusFailed), r.Count(StatusNotInvokable))

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}
