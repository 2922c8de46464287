package engine

import "strings"

// Gap is a flattened view of a control with something missing
type Gap struct {
	ControlID       string `json:"control_id"`
	Title           string `json:"title"`
	MissingEvidence string `json:"missing_evidence"` // "; " separated
	MissingPolicies string `json:"missing_policies"` // "; " separated
	Remediation     string `json:"remediation"`      // " | " separated
}

// Gaps returns one Gap per result with a missing item, in result order.
func Gaps(results []EvaluationResult) []Gap {
	gaps := []Gap{}
	for _, r := range results {
		if !r.HasGap() {
			continue
		}
		gaps = append(gaps, Gap{
			ControlID:       r.ControlID,
			Title:           r.Title,
			MissingEvidence: strings.Join(r.MissingEvidence, "; "),
			MissingPolicies: strings.Join(r.MissingPolicies, "; "),
			Remediation:     strings.Join(r.Remediation, " | "),
		})
	}
	return gaps
}
