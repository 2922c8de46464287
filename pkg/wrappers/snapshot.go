package wrappers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/user/isocomply/pkg/engine"
	"github.com/user/isocomply/pkg/report"
)

// SaveSnapshotWrapper implements the Tool interface for saving the current results
type SaveSnapshotWrapper struct {
	Workspace *Workspace
}

func (s *SaveSnapshotWrapper) Name() string {
	return "SaveSnapshot"
}

func (s *SaveSnapshotWrapper) Description() string {
	return "Saves the current assessment results to a snapshot file for future comparison."
}

func (s *SaveSnapshotWrapper) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"filename": map[string]interface{}{
				"type":        "string",
				"description": "Optional filename for the snapshot (default: " + report.DefaultSnapshotPath + ")",
			},
		},
	}
}

func (s *SaveSnapshotWrapper) Execute(ctx context.Context, args map[string]interface{}, progress func(string)) (string, error) {
	if s.Workspace == nil {
		return "Error: workspace not initialized.", nil
	}
	a, err := s.Workspace.Current()
	if err != nil {
		return fmt.Sprintf("Error running assessment: %v", err), nil
	}

	filename := report.DefaultSnapshotPath
	if val := stringArg(args, "filename"); val != "" {
		filename = val
	}

	snap := report.NewSnapshot(a.Results, a.Summary, time.Now())
	if err := report.SaveSnapshot(filename, snap); err != nil {
		return fmt.Sprintf("Error saving snapshot: %v", err), nil
	}
	return fmt.Sprintf("Successfully saved %d control results to snapshot '%s' (id %s).", len(a.Results), filename, snap.ID), nil
}

// DiffSnapshotWrapper implements the Tool interface for comparing current results with a baseline
type DiffSnapshotWrapper struct {
	Workspace *Workspace
}

func (d *DiffSnapshotWrapper) Name() string {
	return "CompareBaseline"
}

func (d *DiffSnapshotWrapper) Description() string {
	return "Compares the current assessment against a previously saved snapshot to identify Improved, Regressed, Added and Removed controls."
}

func (d *DiffSnapshotWrapper) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"filename": map[string]interface{}{
				"type":        "string",
				"description": "Optional filename of the baseline snapshot (default: " + report.DefaultSnapshotPath + ")",
			},
		},
	}
}

func (d *DiffSnapshotWrapper) Execute(ctx context.Context, args map[string]interface{}, progress func(string)) (string, error) {
	if d.Workspace == nil {
		return "Error: workspace not initialized.", nil
	}

	filename := report.DefaultSnapshotPath
	if val := stringArg(args, "filename"); val != "" {
		filename = val
	}

	baseline, err := report.LoadSnapshot(filename)
	if err != nil {
		return fmt.Sprintf("Error loading baseline snapshot '%s': %v. Have you saved a snapshot before?", filename, err), nil
	}
	a, err := d.Workspace.Current()
	if err != nil {
		return fmt.Sprintf("Error running assessment: %v", err), nil
	}

	diff := engine.CompareResults(a.Results, baseline.Results)
	label := fmt.Sprintf("%s, taken %s", filename, baseline.CreatedAt.Format(time.RFC3339))

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Weighted compliance: %.2f%% -> %.2f%%\n\n",
		baseline.Summary.WeightedCompliance, a.Summary.WeightedCompliance))
	sb.WriteString(report.RenderDiff(label, diff))
	return strings.TrimRight(sb.String(), "\n"), nil
}
