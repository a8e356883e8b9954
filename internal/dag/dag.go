package dag

import (
	"github.com/vk/stackformgo/internal/config"
)

// Node represents a single resource declaration in the dependency graph.
type Node struct {
	// ID is the node's unique identifier, "resource.<type>.<name>".
	ID string

	// Resource is the declaration this node was created from.
	Resource *config.Resource

	// Deps holds the nodes this node depends on (predecessors).
	Deps map[string]*Node

	// Dependents holds the nodes that depend on this node (successors).
	Dependents map[string]*Node
}

// Graph is the validated dependency graph of one stack: a node per
// resource declaration, edges from both attribute references and explicit
// depends_on entries, plus the stack's outputs. Construction via Build
// guarantees the edge set is acyclic and every reference resolves.
type Graph struct {
	Nodes   map[string]*Node
	Outputs []*config.Output
}

// NodeID returns the graph identifier for a "type.name" resource address.
func NodeID(resourceType, name string) string {
	return "resource." + resourceType + "." + name
}
