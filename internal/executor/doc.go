// Package executor applies a validated dependency graph against a
// provider client.
//
// Each resource moves through Pending, Resolving (reference
// substitution), Applying (provider call in flight) and ends in Applied,
// Failed, or Skipped. A failure marks every transitive dependent Skipped
// without attempting it; independent resources continue, and
// already-applied resources are left in place for manual reconciliation.
// There are no retries at this layer.
package executor
