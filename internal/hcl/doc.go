// Package hcl implements the config.Loader interface for HCL stack files.
// It owns all syntax-level concerns: file discovery, parsing, block
// decoding, and translation into the agnostic config model.
package hcl
