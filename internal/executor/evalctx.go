package executor

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/stackformgo/internal/ctxlog"
	"github.com/vk/stackformgo/internal/dag"
)

// buildEvalContext creates the HCL evaluation context for one node. Only
// the node's direct dependencies are exposed: every reference creates a
// dependency edge, so anything an expression can name is guaranteed to be
// applied and present here.
func (e *Executor) buildEvalContext(ctx context.Context, node *dag.Node) *hcl.EvalContext {
	logger := ctxlog.FromContext(ctx)

	byType := make(map[string]map[string]cty.Value)
	for _, depNode := range node.Deps {
		depRun := e.runs[depNode.ID]
		value, ok := depRun.currentValue()
		if !ok {
			// Ordering guarantees deps are Applied before this node runs.
			continue
		}
		resType := depNode.Resource.Type
		if _, exists := byType[resType]; !exists {
			byType[resType] = make(map[string]cty.Value)
		}
		byType[resType][depNode.Resource.Name] = value
	}

	logger.Debug("Built evaluation context.", "resource", node.ID, "visible_deps", len(node.Deps))
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"resource": resourceVar(byType)},
		Functions: stackFunctions(e.baseDir),
	}
}

// buildOutputEvalContext creates the evaluation context for output
// expressions: every Applied resource in the graph is visible.
func (e *Executor) buildOutputEvalContext() *hcl.EvalContext {
	byType := make(map[string]map[string]cty.Value)
	for _, node := range e.order {
		run := e.runs[node.ID]
		value, ok := run.currentValue()
		if !ok {
			continue
		}
		resType := node.Resource.Type
		if _, exists := byType[resType]; !exists {
			byType[resType] = make(map[string]cty.Value)
		}
		byType[resType][node.Resource.Name] = value
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"resource": resourceVar(byType)},
		Functions: stackFunctions(e.baseDir),
	}
}

// resourceVar assembles the nested `resource.<type>.<name>` object value.
func resourceVar(byType map[string]map[string]cty.Value) cty.Value {
	if len(byType) == 0 {
		return cty.EmptyObjectVal
	}
	typeVals := make(map[string]cty.Value, len(byType))
	for resType, byName := range byType {
		typeVals[resType] = cty.ObjectVal(byName)
	}
	return cty.ObjectVal(typeVals)
}
