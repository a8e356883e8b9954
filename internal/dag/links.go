package dag

import (
	"context"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/stackformgo/internal/ctxlog"
)

// refTarget is a resource identity parsed out of an attribute traversal,
// e.g. resource.aws_s3_bucket.images.arn -> {aws_s3_bucket, images}.
type refTarget struct {
	Type string
	Name string
}

func (t refTarget) nodeID() string  { return NodeID(t.Type, t.Name) }
func (t refTarget) address() string { return t.Type + "." + t.Name }

// traversalTarget extracts the referenced resource identity from a
// traversal. The second return value is false for traversals that are not
// resource references (a different root name, or too few parts).
func traversalTarget(traversal hcl.Traversal) (refTarget, bool) {
	if len(traversal) < 3 || traversal.RootName() != "resource" {
		return refTarget{}, false
	}
	typeAttr, typeOk := traversal[1].(hcl.TraverseAttr)
	nameAttr, nameOk := traversal[2].(hcl.TraverseAttr)
	if !typeOk || !nameOk {
		return refTarget{}, false
	}
	return refTarget{Type: typeAttr.Name, Name: nameAttr.Name}, true
}

// linkNodes performs the second pass of graph construction, establishing
// dependency links from both explicit and implicit references.
func linkNodes(ctx context.Context, graph *Graph) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting node linking pass.")

	for _, node := range graph.Nodes {
		if err := linkExplicitDeps(ctx, node, graph); err != nil {
			return err
		}
		for _, expr := range node.Resource.Arguments {
			if err := linkImplicitDeps(ctx, node, expr, graph); err != nil {
				return err
			}
		}
	}
	logger.Debug("Finished node linking pass.")
	return nil
}

// linkExplicitDeps resolves dependencies from a node's depends_on list.
// Entries use the "type.name" address form.
func linkExplicitDeps(ctx context.Context, node *Node, graph *Graph) error {
	logger := ctxlog.FromContext(ctx)
	for _, depAddr := range node.Resource.DependsOn {
		depNode, found := graph.Nodes["resource."+depAddr]
		if !found {
			return &UnknownReferenceError{From: node.ID, Target: depAddr}
		}
		if _, exists := node.Deps[depNode.ID]; !exists {
			logger.Debug("Linking explicit dependency.", "from", node.ID, "to", depNode.ID)
			node.Deps[depNode.ID] = depNode
			depNode.Dependents[node.ID] = node
		}
	}
	return nil
}

// linkImplicitDeps parses an expression for resource traversals and links
// each one as a dependency edge. A traversal naming an undeclared resource
// is an error: references are substituted at apply time, so a dangling one
// could never evaluate.
func linkImplicitDeps(ctx context.Context, node *Node, expr hcl.Expression, graph *Graph) error {
	logger := ctxlog.FromContext(ctx)
	for _, traversal := range expr.Variables() {
		target, ok := traversalTarget(traversal)
		if !ok {
			continue
		}
		depNode, found := graph.Nodes[target.nodeID()]
		if !found {
			return &UnknownReferenceError{From: node.ID, Target: target.address()}
		}
		if depNode == node {
			// A self-reference is a one-node cycle.
			return &CycleError{Member: node.ID}
		}
		if _, exists := node.Deps[depNode.ID]; !exists {
			logger.Debug("Linking implicit dependency.", "from", node.ID, "to", depNode.ID)
			node.Deps[depNode.ID] = depNode
			depNode.Dependents[node.ID] = node
		}
	}
	return nil
}
