// Package schema defines the HCL-tagged structs that stack files are
// decoded into. These structs are format-specific; the loader translates
// them into the agnostic model in internal/config.
package schema
