package engine

// MappingRecord joins a control with its rule requirements and its best
// policy text match. It is a snapshot and is not mutated after creation.
type MappingRecord struct {
	ControlID        string   `json:"control_id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	RequiredEvidence []string `json:"required_evidence"`
	RequiredPolicies []string `json:"required_policies"`
	BestPolicyMatch  string   `json:"best_policy_match"`
	MatchScore       float64  `json:"match_score"`
}

// BuildMappingTable produces one record per control, preserving input order.
// Controls without a rule get empty requirement lists. The best match is
// computed against the whole corpus, independent of required_policies.
func BuildMappingTable(controls []Control, rules RuleTable, corpus PolicyCorpus) []MappingRecord {
	records := make([]MappingRecord, 0, len(controls))
	for _, c := range controls {
		rule := rules[c.ID]
		match := BestPolicyMatch(c.Description, corpus)
		records = append(records, MappingRecord{
			ControlID:        c.ID,
			Title:            c.Title,
			Description:      c.Description,
			RequiredEvidence: cloneStrings(rule.RequiredEvidence),
			RequiredPolicies: cloneStrings(rule.RequiredPolicies),
			BestPolicyMatch:  match.Policy,
			MatchScore:       match.Score,
		})
	}
	return records
}

// cloneStrings copies s so records never alias rule slices. nil becomes empty.
func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
