package dag

import "fmt"

// UnknownReferenceError reports a reference (attribute traversal or
// depends_on entry) whose target resource is not declared anywhere in the
// stack.
type UnknownReferenceError struct {
	// From identifies the referencing node, or the output name for
	// references inside output expressions.
	From string

	// Target is the unresolved identifier as written by the user.
	Target string
}

// Error implements the error interface for UnknownReferenceError.
func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("%s references undeclared resource %q", e.From, e.Target)
}

// CycleError reports a circular dependency. Member names one node known to
// be part of the cycle, so the user has somewhere to start untangling.
type CycleError struct {
	Member string
}

// Error implements the error interface for CycleError.
func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected involving %q", e.Member)
}
