package engine

// Policy is one named policy document.
type Policy struct {
	Name string `json:"name" yaml:"name"` // file name including extension
	Text string `json:"text" yaml:"text"`
}

// PolicyCorpus is an ordered set of policies. Order decides ties in
// BestPolicyMatch, so loaders must produce it deterministically.
type PolicyCorpus []Policy

// Names returns the policy names in corpus order.
func (c PolicyCorpus) Names() []string {
	names := make([]string, 0, len(c))
	for _, p := range c {
		names = append(names, p.Name)
	}
	return names
}

// Match is the outcome of a best-match search.
type Match struct {
	Policy string  `json:"policy"` // empty when nothing matched
	Score  float64 `json:"score"`
}

// Found reports whether a policy was selected.
func (m Match) Found() bool {
	return m.Policy != ""
}

// BestPolicyMatch scores every policy in the corpus against query and
// returns the highest. The first policy seen wins a tie. An empty corpus
// yields an empty Match with score 0.
func BestPolicyMatch(query string, corpus PolicyCorpus) Match {
	var best Match
	var bestScore float64
	for _, p := range corpus {
		score := Similarity(query, p.Text)
		if score > bestScore {
			bestScore = score
			best.Policy = p.Name
		}
	}
	best.Score = round2(bestScore)
	return best
}
