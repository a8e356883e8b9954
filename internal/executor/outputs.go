package executor

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/stackformgo/internal/ctxlog"
	"github.com/vk/stackformgo/internal/dag"
)

// ComputeOutputs resolves every output expression against the applied
// state. An output whose expression references a resource that did not
// reach Applied fails with an UnresolvedOutputError.
func (e *Executor) ComputeOutputs(ctx context.Context) (map[string]cty.Value, error) {
	logger := ctxlog.FromContext(ctx)
	evalCtx := e.buildOutputEvalContext()

	results := make(map[string]cty.Value, len(e.graph.Outputs))
	for _, out := range e.graph.Outputs {
		for _, traversal := range out.Value.Variables() {
			target, ok := traversalTargetID(traversal)
			if !ok {
				continue
			}
			run, declared := e.runs[target]
			if !declared {
				// Build validated output references; an unknown one here
				// means the graph and executor disagree.
				return nil, fmt.Errorf("internal error: output %q references unknown node %s", out.Name, target)
			}
			if status, _ := run.currentStatus(); status != StatusApplied {
				return nil, &UnresolvedOutputError{Output: out.Name, Resource: target}
			}
		}

		val, diags := out.Value.Value(evalCtx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("evaluating output %q: %w", out.Name, diags)
		}
		results[out.Name] = val
		logger.Debug("Resolved output.", "output", out.Name)
	}
	return results, nil
}

// traversalTargetID maps a resource traversal to its graph node ID.
func traversalTargetID(traversal hcl.Traversal) (string, bool) {
	if len(traversal) < 3 || traversal.RootName() != "resource" {
		return "", false
	}
	typeAttr, typeOk := traversal[1].(hcl.TraverseAttr)
	nameAttr, nameOk := traversal[2].(hcl.TraverseAttr)
	if !typeOk || !nameOk {
		return "", false
	}
	return dag.NodeID(typeAttr.Name, nameAttr.Name), true
}
