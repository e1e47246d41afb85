package resolver

import "fmt"

// AttemptErrorKind classifies why a single candidate was skipped.
type AttemptErrorKind string

const (
	AttemptTimeout        AttemptErrorKind = "timeout"
	AttemptHTTPStatus     AttemptErrorKind = "http_status"
	AttemptMalformedJSON  AttemptErrorKind = "malformed_json"
	AttemptSchemaMismatch AttemptErrorKind = "schema_mismatch"
)

// AttemptError records one failed candidate attempt. Attempt errors stay
// internal to a single resolution; they only cross the boundary as
// diagnostic detail on terminal failure.
type AttemptError struct {
	BaseAddress string           `json:"baseAddress"`
	Kind        AttemptErrorKind `json:"kind"`
	Detail      string           `json:"detail"`
}

func (e AttemptError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.BaseAddress, e.Detail, e.Kind)
}

// AllBackendsFailedError is the terminal failure: every candidate in the
// attempt order was exhausted without an acceptable response. It carries the
// full ordered attempt list; callers never receive partial data instead.
type AllBackendsFailedError struct {
	Attempts []AttemptError
}

func (e *AllBackendsFailedError) Error() string {
	if len(e.Attempts) == 0 {
		return "no upstream instances configured"
	}
	last := e.Attempts[len(e.Attempts)-1].Kind
	return fmt.Sprintf("all %d upstream instance(s) failed (last cause: %s)", len(e.Attempts), last)
}
