// Package dag builds and validates the dependency graph of a stack.
//
// A node is created per resource declaration. Edges come from two sources:
// implicit references, discovered by walking the variable traversals of
// every argument expression, and explicit depends_on entries. Build rejects
// dangling references and cycles before any provider call is made;
// TopologicalOrder then produces a deterministic apply order.
package dag
