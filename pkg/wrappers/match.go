package wrappers

import (
	"context"
	"fmt"

	"github.com/user/isocomply/pkg/engine"
)

// MatchPolicyWrapper implements the Tool interface for ad-hoc policy matching
type MatchPolicyWrapper struct {
	Workspace *Workspace
}

func (m *MatchPolicyWrapper) Name() string {
	return "MatchPolicy"
}

func (m *MatchPolicyWrapper) Description() string {
	return "Finds the policy document whose text is most similar to the given text and returns its name and similarity score (0-100)."
}

func (m *MatchPolicyWrapper) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"text": map[string]interface{}{
				"type":        "string",
				"description": "Free text, such as a control description, to match against the policy documents.",
			},
		},
		"required": []string{"text"},
	}
}

func (m *MatchPolicyWrapper) Execute(ctx context.Context, args map[string]interface{}, progress func(string)) (string, error) {
	if m.Workspace == nil {
		return "Error: workspace not initialized.", nil
	}
	corpus, err := m.Workspace.Policies()
	if err != nil {
		return fmt.Sprintf("Error loading policies: %v", err), nil
	}

	match := engine.BestPolicyMatch(stringArg(args, "text"), corpus)
	if !match.Found() {
		return fmt.Sprintf("No policy matched (searched %d documents).", len(corpus)), nil
	}
	return fmt.Sprintf("Best policy match: %s (score %.2f)", match.Policy, match.Score), nil
}
