package wrappers

import (
	"context"
	"fmt"
	"strings"
)

// ExplainWeightWrapper implements the Tool interface for explaining a control's score
type ExplainWeightWrapper struct {
	Workspace *Workspace
}

func (e *ExplainWeightWrapper) Name() string {
	return "ExplainWeight"
}

func (e *ExplainWeightWrapper) Description() string {
	return "Explains a control's risk weight, its status and what it contributes to weighted compliance, and lists the remediation that would raise it."
}

func (e *ExplainWeightWrapper) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"control_id": map[string]interface{}{
				"type":        "string",
				"description": "The control ID to explain (e.g., 'A.8.24').",
			},
		},
		"required": []string{"control_id"},
	}
}

func (e *ExplainWeightWrapper) Execute(ctx context.Context, args map[string]interface{}, progress func(string)) (string, error) {
	if e.Workspace == nil {
		return "Error: workspace not initialized.", nil
	}
	id := stringArg(args, "control_id")
	if id == "" {
		return "Error: control_id is required.", nil
	}

	r, ok, err := e.Workspace.Result(id)
	if err != nil {
		return fmt.Sprintf("Error running assessment: %v", err), nil
	}
	if !ok {
		return fmt.Sprintf("No control found with ID '%s'.", id), nil
	}

	w := e.Workspace.Engine.Weigher()
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s\n", r.ControlID, r.Title))
	if rule, matched := w.Rule(r.Title); matched {
		sb.WriteString(fmt.Sprintf("  Weight %.1f: title contains %q.\n", r.Weight, rule.Keyword))
	} else {
		sb.WriteString(fmt.Sprintf("  Weight %.1f: no keyword rule matches, default weight applies.\n", r.Weight))
	}
	sb.WriteString(fmt.Sprintf("  Status %s earns %.2f of %.2f.\n", r.Status, r.WeightedScore, r.Weight))
	if lost := r.Weight - r.WeightedScore; lost > 0 {
		sb.WriteString(fmt.Sprintf("  Closing the gap recovers %.2f weighted points:\n", lost))
		for _, line := range r.Remediation {
			sb.WriteString(fmt.Sprintf("    - %s\n", line))
		}
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}
