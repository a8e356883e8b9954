package executor

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/stackformgo/internal/ctxlog"
	"github.com/vk/stackformgo/internal/ctyconv"
	"github.com/vk/stackformgo/internal/dag"
	"github.com/vk/stackformgo/internal/provider"
	"github.com/vk/stackformgo/internal/state"
)

// Executor applies a validated graph against a provider client. Dispatch
// is concurrency-safe but strictly order-preserving: a resource starts
// only once all of its dependencies are Applied. With a single worker the
// apply is fully sequential in stable topological order.
type Executor struct {
	graph      *dag.Graph
	client     provider.Client
	snapshot   *state.Snapshot
	numWorkers int
	baseDir    string

	order []*dag.Node
	runs  map[string]*nodeRun
	wg    sync.WaitGroup
}

// nodeRun is the executor's mutable bookkeeping for one graph node.
type nodeRun struct {
	node       *dag.Node
	depCount   atomic.Int32
	finishOnce sync.Once

	mu       sync.Mutex
	status   Status
	err      error
	value    cty.Value
	started  time.Time
	duration time.Duration
}

func (r *nodeRun) currentStatus() (Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status, r.err
}

func (r *nodeRun) setStatus(to Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	checkTransition(r.status, to)
	r.status = to
	switch to {
	case StatusResolving:
		r.started = time.Now()
	case StatusApplied, StatusFailed:
		r.duration = time.Since(r.started)
	}
}

func (r *nodeRun) finish(to Status, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	checkTransition(r.status, to)
	r.status = to
	r.err = err
	if !r.started.IsZero() {
		r.duration = time.Since(r.started)
	}
}

func (r *nodeRun) setValue(v cty.Value) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = v
}

func (r *nodeRun) currentValue() (cty.Value, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusApplied {
		return cty.NilVal, false
	}
	return r.value, true
}

// New creates an executor for one apply over the given graph. The snapshot
// is the prior remote state; it is read per resource before the provider
// call and written per successfully applied resource. baseDir anchors
// relative artifact paths in stack expressions.
func New(graph *dag.Graph, client provider.Client, snapshot *state.Snapshot, numWorkers int, baseDir string) (*Executor, error) {
	if numWorkers < 1 {
		numWorkers = 1
	}

	order, err := graph.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	runs := make(map[string]*nodeRun, len(graph.Nodes))
	for _, node := range order {
		run := &nodeRun{node: node, status: StatusPending}
		run.depCount.Store(int32(len(node.Deps)))
		runs[node.ID] = run
	}

	return &Executor{
		graph:      graph,
		client:     client,
		snapshot:   snapshot,
		numWorkers: numWorkers,
		baseDir:    baseDir,
		order:      order,
		runs:       runs,
	}, nil
}

// Order returns the apply order computed for this executor.
func (e *Executor) Order() []*dag.Node {
	return e.order
}

// Run applies every resource in dependency order. On a resource failure
// its transitive dependents are marked Skipped and never attempted, while
// independent resources continue; already-applied resources are left
// as-is. The returned error carries the first root-cause failure; the
// per-resource breakdown is available via Statuses.
func (e *Executor) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	readyChan := make(chan *nodeRun, len(e.runs))

	logger.Debug("Initializing executor, queueing root nodes.")
	rootCount := 0
	for _, node := range e.order {
		run := e.runs[node.ID]
		if run.depCount.Load() == 0 {
			readyChan <- run
			rootCount++
		}
	}
	logger.Debug("Root nodes queued.", "count", rootCount)

	e.wg.Add(len(e.runs))

	logger.Debug("Starting worker pool.", "workers", e.numWorkers)
	for i := 0; i < e.numWorkers; i++ {
		go e.worker(ctx, readyChan, i)
	}

	e.wg.Wait()
	close(readyChan)
	logger.Debug("All nodes reached a terminal state.")

	var failedIDs []string
	var rootCause error
	for _, node := range e.order {
		status, err := e.runs[node.ID].currentStatus()
		if status == StatusFailed {
			logger.Error("Resource failed to apply.", "resource", node.ID, "error", err)
			failedIDs = append(failedIDs, node.ID)
			if rootCause == nil {
				rootCause = err
			}
		}
	}

	if rootCause != nil {
		return fmt.Errorf("apply failed for %s: %w", strings.Join(failedIDs, ", "), rootCause)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("apply interrupted: %w", err)
	}
	return nil
}

// worker is the processing loop for a single concurrent worker.
func (e *Executor) worker(ctx context.Context, readyChan chan *nodeRun, workerID int) {
	logger := ctxlog.FromContext(ctx).With("workerID", workerID)

	for run := range readyChan {
		workerLogger := logger.With("resource", run.node.ID)

		// A queued node may have been skipped by an upstream failure
		// between unlock and pickup.
		if status, _ := run.currentStatus(); status.Terminal() {
			continue
		}

		if ctx.Err() != nil {
			run.finishOnce.Do(func() {
				workerLogger.Warn("Context canceled, resource not attempted.")
				run.finish(StatusSkipped, ctx.Err())
				e.skipDependents(ctx, run, run.node.ID)
				e.wg.Done()
			})
			continue
		}

		err := e.applyNode(ctx, run)
		if err != nil {
			workerLogger.Error("Resource apply failed.", "error", err)
			run.finishOnce.Do(func() {
				run.finish(StatusFailed, err)
				e.skipDependents(ctx, run, run.node.ID)
				e.wg.Done()
			})
			continue
		}

		run.finishOnce.Do(func() {
			run.finish(StatusApplied, nil)
			e.wg.Done()
		})

		for _, dependent := range sortedDependents(run.node) {
			depRun := e.runs[dependent.ID]
			if depRun.depCount.Add(-1) == 0 {
				workerLogger.Debug("Unlocking dependent resource.", "dependent", dependent.ID)
				readyChan <- depRun
			}
		}
	}
}

// skipDependents recursively marks all downstream resources as Skipped.
// Each is finished exactly once; resources already terminal are untouched.
func (e *Executor) skipDependents(ctx context.Context, run *nodeRun, causeID string) {
	logger := ctxlog.FromContext(ctx)
	for _, dependent := range sortedDependents(run.node) {
		depRun := e.runs[dependent.ID]
		depRun.finishOnce.Do(func() {
			logger.Warn("Skipping resource due to upstream failure.",
				"resource", dependent.ID, "failed_dependency", causeID)
			depRun.finish(StatusSkipped, fmt.Errorf("skipped due to upstream failure of %s", causeID))
			e.wg.Done()
			e.skipDependents(ctx, depRun, causeID)
		})
	}
}

// applyNode substitutes references, invokes the provider, and records the
// resulting attributes against the node's identity.
func (e *Executor) applyNode(ctx context.Context, run *nodeRun) error {
	node := run.node
	logger := ctxlog.FromContext(ctx).With("resource", node.ID)

	run.setStatus(StatusResolving)
	evalCtx := e.buildEvalContext(ctx, node)

	args := make(map[string]cty.Value, len(node.Resource.Arguments))
	for _, name := range sortedArgNames(node.Resource.Arguments) {
		val, diags := node.Resource.Arguments[name].Value(evalCtx)
		if diags.HasErrors() {
			return &ApplyError{Resource: node.ID, Err: fmt.Errorf("evaluating argument %q: %w", name, diags)}
		}
		args[name] = val
	}

	prior, _ := e.snapshot.Resource(node.ID)

	logger.Info("Applying resource.")
	run.setStatus(StatusApplying)
	attrs, err := e.client.CreateOrUpdate(ctx, &provider.Request{
		Type:      node.Resource.Type,
		Name:      node.Resource.Name,
		Arguments: args,
		Prior:     prior,
	})
	if err != nil {
		return &ApplyError{Resource: node.ID, Err: err}
	}

	value := cty.ObjectVal(attrs)
	run.setValue(value)

	goAttrs := make(map[string]any, len(attrs))
	for name, val := range attrs {
		converted, convErr := ctyconv.ToGo(val)
		if convErr != nil {
			return &ApplyError{Resource: node.ID, Err: fmt.Errorf("recording attribute %q: %w", name, convErr)}
		}
		goAttrs[name] = converted
	}
	e.snapshot.Put(node.ID, &state.ResourceState{
		Type:       node.Resource.Type,
		Name:       node.Resource.Name,
		Attributes: goAttrs,
	})

	logger.Info("Resource applied.")
	return nil
}

// Statuses returns the per-resource outcome of the apply, in apply order.
func (e *Executor) Statuses() []ResourceStatus {
	statuses := make([]ResourceStatus, 0, len(e.order))
	for _, node := range e.order {
		run := e.runs[node.ID]
		run.mu.Lock()
		statuses = append(statuses, ResourceStatus{
			ID:       node.ID,
			Status:   run.status,
			Err:      run.err,
			Duration: run.duration,
		})
		run.mu.Unlock()
	}
	return statuses
}

// sortedDependents returns a node's dependents in declaration order, so
// unlock and skip cascades are deterministic.
func sortedDependents(node *dag.Node) []*dag.Node {
	dependents := make([]*dag.Node, 0, len(node.Dependents))
	for _, dep := range node.Dependents {
		dependents = append(dependents, dep)
	}
	sort.Slice(dependents, func(i, j int) bool {
		return dependents[i].Resource.DeclIndex < dependents[j].Resource.DeclIndex
	})
	return dependents
}

// sortedArgNames returns argument names in lexical order for deterministic
// evaluation and error reporting.
func sortedArgNames(args map[string]hcl.Expression) []string {
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
