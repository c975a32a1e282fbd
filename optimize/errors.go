package optimize

import (
	"errors"
	"fmt"
)

// ErrUnknownResult is returned when the backend cannot determine the status
// of an objective. The caller may retry with different solver settings;
// the optimizer itself never retries.
var ErrUnknownResult = errors.New("solver returned unknown result")

// ErrInternal signals an inconsistency between the backend's reported
// optimum and its model: a confirmed optimum could not be loaded.
// It denotes a defect in the backend or the bridge, not a recoverable
// condition.
var ErrInternal = errors.New("internal inconsistency")

// An UnsupportedGoalError is returned when a goal's kind cannot be compiled
// for the target backend. It is a programming error on the caller's side.
type UnsupportedGoalError struct {
	Backend string
	Goal    *Goal
}

func (e *UnsupportedGoalError) Error() string {
	return fmt.Sprintf("goal %q not supported by backend %q", e.Goal, e.Backend)
}

// An UnboundedError is returned when an optimization cannot be completed
// because no feasible model attains the optimum: either the cost is
// unbounded in the feasible direction, or the optimum is a strict bound
// that models only approach.
type UnboundedError struct {
	// Infinitesimal is true when a finite optimum exists but is never attained.
	Infinitesimal bool
}

func (e *UnboundedError) Error() string {
	if e.Infinitesimal {
		return "the optimal value is infinitesimal"
	}
	return "the optimal value is unbounded"
}
