package dag

import (
	"fmt"

	"github.com/dominikbraun/graph"
)

// TopologicalOrder computes a linearization of the graph in which every
// dependency strictly precedes its dependents. Nodes with no ordering
// constraint between them keep their original declaration order, so
// repeated runs over the same stack produce the same sequence.
func (g *Graph) TopologicalOrder() ([]*Node, error) {
	dg := graph.New(graph.StringHash, graph.Directed())

	for id := range g.Nodes {
		if err := dg.AddVertex(id); err != nil {
			return nil, fmt.Errorf("adding vertex %s: %w", id, err)
		}
	}
	for id, node := range g.Nodes {
		for depID := range node.Deps {
			// depID must be applied before id.
			if err := dg.AddEdge(depID, id); err != nil {
				return nil, fmt.Errorf("adding edge %s -> %s: %w", depID, id, err)
			}
		}
	}

	order, err := graph.StableTopologicalSort(dg, func(a, b string) bool {
		return g.Nodes[a].Resource.DeclIndex < g.Nodes[b].Resource.DeclIndex
	})
	if err != nil {
		// Build already rejects cyclic graphs with a diagnosable
		// CycleError; re-run detection to surface the same error shape for
		// callers that construct graphs by hand.
		if cycleErr := g.detectCycles(); cycleErr != nil {
			return nil, cycleErr
		}
		return nil, fmt.Errorf("topological sort: %w", err)
	}

	nodes := make([]*Node, len(order))
	for i, id := range order {
		nodes[i] = g.Nodes[id]
	}
	return nodes, nil
}
