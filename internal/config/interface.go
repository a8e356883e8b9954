package config

import "context"

// Loader translates one or more declaration files into the agnostic Stack
// model. Implementations are format-specific (the HCL loader lives in
// internal/hcl).
type Loader interface {
	// Load reads every declaration file reachable from the given paths and
	// merges them into a single Stack. It fails with a *ParseError on
	// malformed input and with a *DuplicateResourceError when two blocks
	// declare the same (type, name) pair.
	Load(ctx context.Context, paths ...string) (*Stack, error)
}
