package core

import "fmt"

// Status is the outcome of a single export action.
type Status int

const (
	StatusOK Status = iota
	StatusFailed
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFailed:
		return "failed"
	case StatusUnavailable:
		return "unavailable"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Result reports what happened to one destination action.
type Result struct {
	Action string
	Status Status
	Reason string
	Err    error
	Detail string // e.g. the saved file path
}

// OK builds a successful result.
func OK(action string) Result {
	return Result{Action: action, Status: StatusOK}
}

// Failed builds a failed result from err.
func Failed(action string, err error) Result {
	r := Result{Action: action, Status: StatusFailed, Err: err}
	if err != nil {
		r.Reason = err.Error()
	}
	return r
}

// Unavailable builds a result for an action that could not run on this platform.
func Unavailable(action string, err error) Result {
	r := Result{Action: action, Status: StatusUnavailable, Err: err}
	if err != nil {
		r.Reason = err.Error()
	}
	return r
}

// WithDetail returns a copy carrying detail.
func (r Result) WithDetail(detail string) Result {
	r.Detail = detail
	return r
}

func (r Result) String() string {
	if r.Reason == "" {
		return fmt.Sprintf("%s: %s", r.Action, r.Status)
	}
	return fmt.Sprintf("%s: %s (%s)", r.Action, r.Status, r.Reason)
}
