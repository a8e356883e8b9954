package dag

import (
	"sort"

	"github.com/emicklei/dot"
)

// DOT renders the graph in Graphviz DOT format, for inspection with the
// usual tooling. Nodes and edges are emitted in sorted order so the output
// is stable.
func (g *Graph) DOT() string {
	d := dot.NewGraph(dot.Directed)

	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	dotNodes := make(map[string]dot.Node, len(ids))
	for _, id := range ids {
		n := d.Node(id)
		n.Attr("shape", "box")
		dotNodes[id] = n
	}

	for _, id := range ids {
		node := g.Nodes[id]
		depIDs := make([]string, 0, len(node.Deps))
		for depID := range node.Deps {
			depIDs = append(depIDs, depID)
		}
		sort.Strings(depIDs)
		for _, depID := range depIDs {
			d.Edge(dotNodes[depID], dotNodes[id])
		}
	}

	return d.String()
}
