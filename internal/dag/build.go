package dag

import (
	"context"

	"github.com/vk/stackformgo/internal/config"
	"github.com/vk/stackformgo/internal/ctxlog"
)

// Build constructs a complete, validated dependency graph from a stack model.
func Build(ctx context.Context, stack *config.Stack) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.")
	graph := &Graph{
		Nodes:   make(map[string]*Node),
		Outputs: stack.Outputs,
	}

	// First pass: create all nodes. Duplicates were rejected at load time,
	// so every declaration maps to exactly one node.
	for _, r := range stack.Resources {
		id := NodeID(r.Type, r.Name)
		graph.Nodes[id] = &Node{
			ID:         id,
			Resource:   r,
			Deps:       make(map[string]*Node),
			Dependents: make(map[string]*Node),
		}
	}
	logger.Debug("Build: Node creation complete.", "node_count", len(graph.Nodes))

	// Second pass: link dependencies from depends_on entries and from
	// attribute reference expressions.
	if err := linkNodes(ctx, graph); err != nil {
		return nil, err
	}
	logger.Debug("Build: Node linking complete.")

	// Output expressions are not graph nodes, but their references must
	// still resolve to declared resources.
	for _, out := range stack.Outputs {
		if err := validateOutputReferences(out, graph); err != nil {
			return nil, err
		}
	}
	logger.Debug("Build: Output reference validation complete.")

	if err := graph.detectCycles(); err != nil {
		return nil, err
	}
	logger.Debug("Build: Cycle detection passed.")

	return graph, nil
}

// validateOutputReferences checks that every resource reference in an
// output's value expression points at a declared resource.
func validateOutputReferences(out *config.Output, graph *Graph) error {
	for _, traversal := range out.Value.Variables() {
		target, ok := traversalTarget(traversal)
		if !ok {
			continue
		}
		if _, declared := graph.Nodes[target.nodeID()]; !declared {
			return &UnknownReferenceError{
				From:   "output." + out.Name,
				Target: target.address(),
			}
		}
	}
	return nil
}

// detectCycles checks for circular dependencies in the graph using
// depth-first search with visiting/visited sets.
func (g *Graph) detectCycles() error {
	visiting := make(map[string]bool)
	visited := make(map[string]bool)

	var visit func(node *Node) error
	visit = func(node *Node) error {
		visiting[node.ID] = true
		for _, dep := range node.Deps {
			if visiting[dep.ID] {
				return &CycleError{Member: dep.ID}
			}
			if !visited[dep.ID] {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		delete(visiting, node.ID)
		visited[node.ID] = true
		return nil
	}

	for _, node := range g.Nodes {
		if !visited[node.ID] {
			if err := visit(node); err != nil {
				return err
			}
		}
	}
	return nil
}
