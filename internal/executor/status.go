package executor

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of one resource during an apply.
type Status string

const (
	// StatusPending means the resource is waiting for its dependencies.
	StatusPending Status = "Pending"

	// StatusResolving means references are being substituted with the
	// resolved attribute values of already-applied dependencies.
	StatusResolving Status = "Resolving"

	// StatusApplying means the provider call is in flight.
	StatusApplying Status = "Applying"

	// StatusApplied is terminal: the provider reconciled the resource and
	// its attributes are recorded.
	StatusApplied Status = "Applied"

	// StatusFailed is terminal: the provider reported an error, or an
	// argument expression could not be evaluated.
	StatusFailed Status = "Failed"

	// StatusSkipped is terminal: a transitive dependency failed, so this
	// resource was never attempted.
	StatusSkipped Status = "Skipped"
)

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusApplied || s == StatusFailed || s == StatusSkipped
}

// validTransitions encodes the per-resource state machine. Skipped is
// reachable straight from Pending because a skipped resource is never
// dispatched at all.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusResolving, StatusSkipped},
	StatusResolving: {StatusApplying, StatusFailed},
	StatusApplying:  {StatusApplied, StatusFailed},
}

// checkTransition panics on an invalid state transition; reaching one is a
// programmer error in the executor, not a user error.
func checkTransition(from, to Status) {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return
		}
	}
	panic(fmt.Sprintf("invalid resource state transition %s -> %s", from, to))
}

// ResourceStatus is one row of the final apply report.
type ResourceStatus struct {
	ID       string
	Status   Status
	Err      error
	Duration time.Duration
}
