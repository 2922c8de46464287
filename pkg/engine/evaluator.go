package engine

import "strings"

// EvaluationResult is the verdict for one control.
type EvaluationResult struct {
	ControlID       string   `json:"control_id"`
	Title           string   `json:"title"`
	Status          Status   `json:"status"`
	Weight          float64  `json:"weight"`
	WeightedScore   float64  `json:"weighted_score"`
	MissingEvidence []string `json:"missing_evidence"`
	MissingPolicies []string `json:"missing_policies"`
	Remediation     []string `json:"remediation"`
	BestPolicyMatch string   `json:"best_policy_match"`
	MatchScore      float64  `json:"match_score"`
}

// HasGap reports whether anything required is missing.
func (r EvaluationResult) HasGap() bool {
	return len(r.MissingEvidence) > 0 || len(r.MissingPolicies) > 0
}

// Evaluator checks mapping records against evidence.
type Evaluator struct {
	Resolver Resolver
	Guidance *Guidance
	Weigher  *Weigher
}

// EvaluateControl evaluates rec against index with loose policy matching,
// default guidance and default weights.
func EvaluateControl(rec MappingRecord, index EvidenceIndex) EvaluationResult {
	ev := &Evaluator{Resolver: Resolver{Index: index}}
	return ev.Evaluate(rec)
}

// Evaluate derives status, missing items, remediation and weighted score for rec.
func (ev *Evaluator) Evaluate(rec MappingRecord) EvaluationResult {
	guidance := ev.Guidance
	if guidance == nil {
		guidance = DefaultGuidance()
	}
	weigher := ev.Weigher
	if weigher == nil {
		weigher = DefaultWeigher()
	}

	missingEvidence := []string{}
	for _, et := range tokens(rec.RequiredEvidence) {
		if !ev.Resolver.HasType(et) {
			missingEvidence = append(missingEvidence, et)
		}
	}
	missingPolicies := []string{}
	for _, pol := range tokens(rec.RequiredPolicies) {
		if !ev.Resolver.HasPolicy(pol) {
			missingPolicies = append(missingPolicies, pol)
		}
	}

	status := DeriveStatus(len(missingEvidence) > 0, len(missingPolicies) > 0)
	weight := weigher.Weight(rec.Title)

	return EvaluationResult{
		ControlID:       rec.ControlID,
		Title:           rec.Title,
		Status:          status,
		Weight:          weight,
		WeightedScore:   WeightedScore(status, weight),
		MissingEvidence: missingEvidence,
		MissingPolicies: missingPolicies,
		Remediation:     guidance.Remediation(rec, missingEvidence, missingPolicies),
		BestPolicyMatch: rec.BestPolicyMatch,
		MatchScore:      rec.MatchScore,
	}
}

// DeriveStatus maps the two "something missing" flags onto a status.
func DeriveStatus(evidenceMissing, policyMissing bool) Status {
	switch {
	case !evidenceMissing && !policyMissing:
		return StatusCompliant
	case evidenceMissing && policyMissing:
		return StatusNotCompliant
	default:
		return StatusPartiallyCompliant
	}
}

// tokens trims each entry, splits comma-joined entries and drops empties.
func tokens(list []string) []string {
	var out []string
	for _, item := range list {
		for _, part := range strings.Split(item, ",") {
			if t := strings.TrimSpace(part); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}
