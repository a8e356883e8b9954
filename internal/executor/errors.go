package executor

import "fmt"

// ApplyError wraps a failure reported while applying one resource, either
// from argument evaluation or from the provider call itself.
type ApplyError struct {
	Resource string
	Err      error
}

// Error implements the error interface for ApplyError.
func (e *ApplyError) Error() string {
	return fmt.Sprintf("applying %s: %v", e.Resource, e.Err)
}

// Unwrap exposes the underlying provider or evaluation error.
func (e *ApplyError) Unwrap() error {
	return e.Err
}

// UnresolvedOutputError reports an output whose value expression depends
// on a resource that did not reach the Applied state.
type UnresolvedOutputError struct {
	Output   string
	Resource string
}

// Error implements the error interface for UnresolvedOutputError.
func (e *UnresolvedOutputError) Error() string {
	return fmt.Sprintf("output %q depends on %s, which was not applied", e.Output, e.Resource)
}
