package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/stackformgo/internal/ctxlog"
	"github.com/vk/stackformgo/internal/dag"
	"github.com/vk/stackformgo/internal/executor"
	"github.com/vk/stackformgo/internal/report"
	"github.com/vk/stackformgo/internal/state"
)

// Run executes the main application logic based on the provided
// configuration: load, build the graph, apply, report, compute outputs.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	stack, err := a.loader.Load(ctx, appConfig.StackPath)
	if err != nil {
		return fmt.Errorf("failed to load stack: %w", err)
	}
	a.logger.Info("Stack loaded.", "resources", len(stack.Resources), "outputs", len(stack.Outputs))

	graph, err := dag.Build(ctx, stack)
	if err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}
	a.logger.Debug("Dependency graph built.", "node_count", len(graph.Nodes))

	if appConfig.GraphOnly {
		fmt.Fprint(a.outW, graph.DOT())
		return nil
	}

	snapshot := state.NewSnapshot()
	if appConfig.StatePath != "" {
		snapshot, err = state.Load(appConfig.StatePath)
		if err != nil {
			return fmt.Errorf("failed to load state snapshot: %w", err)
		}
		a.logger.Debug("State snapshot loaded.", "recorded_resources", snapshot.Len())
	}

	exec, err := executor.New(graph, a.client, snapshot, appConfig.WorkerCount, stackBaseDir(appConfig.StackPath))
	if err != nil {
		return fmt.Errorf("failed to prepare apply: %w", err)
	}

	if appConfig.DryRun {
		fmt.Fprintln(a.outW, "Apply order:")
		for i, node := range exec.Order() {
			fmt.Fprintf(a.outW, "  %2d. %s\n", i+1, node.ID)
		}
		return nil
	}

	a.logger.Info("Starting apply.", "resources", len(graph.Nodes), "workers", appConfig.WorkerCount)
	runErr := exec.Run(ctx)

	// Earlier successes are retained even when the apply fails partway:
	// the snapshot is saved before the error is surfaced.
	if appConfig.StatePath != "" {
		if saveErr := snapshot.Save(appConfig.StatePath); saveErr != nil {
			runErr = errors.Join(runErr, fmt.Errorf("failed to save state snapshot: %w", saveErr))
		}
	}

	statuses := exec.Statuses()
	if reportErr := report.WriteStatuses(a.outW, statuses); reportErr != nil {
		runErr = errors.Join(runErr, reportErr)
	}
	a.logger.Info("Apply finished.", "summary", report.Summary(statuses))

	if runErr != nil {
		return runErr
	}

	outputs, err := exec.ComputeOutputs(ctx)
	if err != nil {
		return err
	}
	return report.WriteOutputs(a.outW, outputs)
}

// stackBaseDir resolves the directory that relative artifact paths in
// stack expressions are anchored to.
func stackBaseDir(stackPath string) string {
	info, err := os.Stat(stackPath)
	if err == nil && info.IsDir() {
		return stackPath
	}
	return filepath.Dir(stackPath)
}
