package config

import "fmt"

// ParseError reports malformed declaration input. It wraps the underlying
// format-specific error (e.g. HCL diagnostics).
type ParseError struct {
	Err error
}

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing declarations: %v", e.Err)
}

// Unwrap exposes the wrapped format-specific error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// DuplicateResourceError reports two resource blocks declaring the same
// (type, name) pair. Subject may also name a duplicated output.
type DuplicateResourceError struct {
	Subject string
}

// Error implements the error interface for DuplicateResourceError.
func (e *DuplicateResourceError) Error() string {
	return fmt.Sprintf("duplicate declaration of %q", e.Subject)
}
