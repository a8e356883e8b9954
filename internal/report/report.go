// Package report renders the user-facing outcome of an apply: a
// per-resource status table and, on full success, the resolved outputs.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/stackformgo/internal/ctyconv"
	"github.com/vk/stackformgo/internal/executor"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

// colorStatus renders a status cell with the conventional color coding.
func colorStatus(s executor.Status) string {
	switch s {
	case executor.StatusApplied:
		return green(string(s))
	case executor.StatusFailed:
		return red(string(s))
	case executor.StatusSkipped:
		return yellow(string(s))
	default:
		return string(s)
	}
}

// WriteStatuses renders the per-resource apply report as a table.
func WriteStatuses(w io.Writer, statuses []executor.ResourceStatus) error {
	table := tablewriter.NewTable(w, tablewriter.WithHeaderAutoFormat(tw.Off))
	table.Header("Resource", "Status", "Duration", "Detail")

	data := make([][]any, len(statuses))
	for i, rs := range statuses {
		detail := ""
		if rs.Err != nil {
			detail = rs.Err.Error()
		}
		duration := ""
		if rs.Duration > 0 {
			duration = rs.Duration.Round(time.Millisecond).String()
		}
		data[i] = []any{rs.ID, colorStatus(rs.Status), duration, detail}
	}

	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("building report table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering report table: %w", err)
	}
	return nil
}

// WriteOutputs renders the resolved outputs, sorted by name.
func WriteOutputs(w io.Writer, outputs map[string]cty.Value) error {
	if len(outputs) == 0 {
		return nil
	}

	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "\nOutputs:")
	for _, name := range names {
		goVal, err := ctyconv.ToGo(outputs[name])
		if err != nil {
			return fmt.Errorf("formatting output %q: %w", name, err)
		}
		fmt.Fprintf(w, "  %s = %v\n", name, goVal)
	}
	return nil
}

// Summary returns a one-line count of the apply outcome.
func Summary(statuses []executor.ResourceStatus) string {
	var applied, failed, skipped int
	for _, rs := range statuses {
		switch rs.Status {
		case executor.StatusApplied:
			applied++
		case executor.StatusFailed:
			failed++
		case executor.StatusSkipped:
			skipped++
		}
	}
	parts := []string{fmt.Sprintf("%d applied", applied)}
	if failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", failed))
	}
	if skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", skipped))
	}
	return strings.Join(parts, ", ")
}
