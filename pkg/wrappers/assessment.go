package wrappers

import (
	"context"
	"fmt"
	"strings"

	"github.com/user/isocomply/pkg/engine"
)

// AssessmentWrapper implements the Tool interface for running the control assessment
type AssessmentWrapper struct {
	Workspace *Workspace
}

func (a *AssessmentWrapper) Name() string {
	return "RunAssessment"
}

func (a *AssessmentWrapper) Description() string {
	return "Evaluates every ISO 27001 control against the evidence index and policy documents and reports the compliance summary. With control_id, reports that control's result only."
}

func (a *AssessmentWrapper) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"control_id": map[string]interface{}{
				"type":        "string",
				"description": "Specific control ID to report (e.g., 'A.5.15'). If omitted, reports all controls.",
			},
		},
	}
}

func (a *AssessmentWrapper) Execute(ctx context.Context, args map[string]interface{}, progress func(string)) (string, error) {
	if a.Workspace == nil {
		return "Error: workspace not initialized.", nil
	}
	if progress != nil {
		progress("Evaluating controls...")
	}

	res, err := a.Workspace.Assess()
	if err != nil {
		return fmt.Sprintf("Error running assessment: %v", err), nil
	}

	if id := stringArg(args, "control_id"); id != "" {
		for _, r := range res.Results {
			if r.ControlID == id {
				return formatResult(r), nil
			}
		}
		return fmt.Sprintf("No control found with ID '%s'.", id), nil
	}

	var sb strings.Builder
	sb.WriteString("Assessment Results:\n\n")
	for _, r := range res.Results {
		sb.WriteString(fmt.Sprintf("[%s] %s: %s (weight %.1f)\n", r.Status, r.ControlID, r.Title, r.Weight))
	}
	s := res.Summary
	sb.WriteString(fmt.Sprintf("\nSummary: %d Controls, %d Compliant, %d Partially Compliant, %d Not Compliant\n",
		s.TotalControls, s.Compliant, s.PartiallyCompliant, s.NotCompliant))
	sb.WriteString(fmt.Sprintf("Compliance: %.2f%%, Weighted Compliance: %.2f%%", s.CompliancePct, s.WeightedCompliance))
	return sb.String(), nil
}

func formatResult(r engine.EvaluationResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %s: %s\n", r.Status, r.ControlID, r.Title))
	sb.WriteString(fmt.Sprintf("  Weight: %.1f, Weighted score: %.2f\n", r.Weight, r.WeightedScore))
	if r.BestPolicyMatch != "" {
		sb.WriteString(fmt.Sprintf("  Best policy match: %s (%.2f)\n", r.BestPolicyMatch, r.MatchScore))
	}
	if len(r.MissingEvidence) > 0 {
		sb.WriteString(fmt.Sprintf("  Missing evidence: %s\n", strings.Join(r.MissingEvidence, ", ")))
	}
	if len(r.MissingPolicies) > 0 {
		sb.WriteString(fmt.Sprintf("  Missing policies: %s\n", strings.Join(r.MissingPolicies, ", ")))
	}
	for _, line := range r.Remediation {
		sb.WriteString(fmt.Sprintf("  Remediation: %s\n", line))
	}
	return strings.TrimRight(sb.String(), "\n")
}
