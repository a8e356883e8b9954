// Package config holds the format-agnostic model of a declared stack and
// the Loader interface that produces it. Nothing in this package knows
// about HCL syntax beyond carrying unevaluated hcl.Expression values.
package config
