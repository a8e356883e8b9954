// Package app wires the loader, graph builder, executor, and report
// together into the application lifecycle driven by the CLI.
package app
