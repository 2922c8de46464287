package wrappers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/user/isocomply/pkg/engine"
)

const defaultGapLimit = 20

// GapsWrapper implements the Tool interface for listing compliance gaps
type GapsWrapper struct {
	Workspace *Workspace
}

func (g *GapsWrapper) Name() string {
	return "ShowGaps"
}

func (g *GapsWrapper) Description() string {
	return "Lists controls with missing evidence or policies, highest risk weight first, with the remediation for each."
}

func (g *GapsWrapper) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"limit": map[string]interface{}{
				"type":        "integer",
				"description": "Maximum number of gaps to list (default 20).",
			},
		},
	}
}

func (g *GapsWrapper) Execute(ctx context.Context, args map[string]interface{}, progress func(string)) (string, error) {
	if g.Workspace == nil {
		return "Error: workspace not initialized.", nil
	}
	a, err := g.Workspace.Current()
	if err != nil {
		return fmt.Sprintf("Error running assessment: %v", err), nil
	}

	gapped := prioritized(a.Results)
	if len(gapped) == 0 {
		return "No gaps: every control has its required evidence and policies.", nil
	}
	limit := intArg(args, "limit", defaultGapLimit)
	if limit <= 0 {
		limit = defaultGapLimit
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("GAPS: %d\n", len(gapped)))
	for i, r := range gapped {
		if i >= limit {
			sb.WriteString(fmt.Sprintf("  ... and %d more.\n", len(gapped)-limit))
			break
		}
		sb.WriteString(fmt.Sprintf("  [%s] [w %.1f] %s %s\n", r.Status, r.Weight, r.ControlID, r.Title))
		for _, line := range r.Remediation {
			sb.WriteString(fmt.Sprintf("      - %s\n", line))
		}
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

// prioritized returns the results with gaps, Not Compliant before
// Partially Compliant, then by descending weight. Ties keep result order.
func prioritized(results []engine.EvaluationResult) []engine.EvaluationResult {
	var out []engine.EvaluationResult
	for _, r := range results {
		if r.HasGap() {
			out = append(out, r)
		}
	}
	sortByRisk(out)
	return out
}

func sortByRisk(rs []engine.EvaluationResult) {
	sort.SliceStable(rs, func(i, j int) bool { return riskier(rs[i], rs[j]) })
}

func riskier(a, b engine.EvaluationResult) bool {
	an, bn := a.Status == engine.StatusNotCompliant, b.Status == engine.StatusNotCompliant
	if an != bn {
		return an
	}
	return a.Weight > b.Weight
}
