package engine

import (
	"fmt"
	"strings"
	"time"
)

// WeightRule assigns Weight to controls whose lowercased title contains Keyword.
type WeightRule struct {
	Keyword string  `json:"keyword" yaml:"keyword"`
	Weight  float64 `json:"weight" yaml:"weight"`
}

// DefaultWeightRules is the built-in risk table, checked in order.
var DefaultWeightRules = []WeightRule{
	{Keyword: "access", Weight: 2.0},
	{Keyword: "cryptograph", Weight: 2.0},
	{Keyword: "asset", Weight: 1.5},
	{Keyword: "physical", Weight: 1.5},
}

// DefaultWeight applies when no rule matches.
const DefaultWeight = 1.0

// Weigher assigns risk weights from control titles. The first matching rule wins.
type Weigher struct {
	Rules   []WeightRule
	Default float64
}

// DefaultWeigher returns a Weigher over DefaultWeightRules.
func DefaultWeigher() *Weigher {
	rules := make([]WeightRule, len(DefaultWeightRules))
	copy(rules, DefaultWeightRules)
	return &Weigher{Rules: rules, Default: DefaultWeight}
}

// NewWeigher validates rules and builds a Weigher. Keywords are matched
// lowercased; weights must not be negative.
func NewWeigher(rules []WeightRule, def float64) (*Weigher, error) {
	if def < 0 {
		return nil, fmt.Errorf("default weight must not be negative, got %v", def)
	}
	out := make([]WeightRule, 0, len(rules))
	for i, r := range rules {
		kw := lower.String(strings.TrimSpace(r.Keyword))
		if kw == "" {
			return nil, fmt.Errorf("weight rule %d: empty keyword", i)
		}
		if r.Weight < 0 {
			return nil, fmt.Errorf("weight rule %q: weight must not be negative, got %v", r.Keyword, r.Weight)
		}
		out = append(out, WeightRule{Keyword: kw, Weight: r.Weight})
	}
	return &Weigher{Rules: out, Default: def}, nil
}

// Weight returns the risk weight for title.
func (w *Weigher) Weight(title string) float64 {
	if r, ok := w.Rule(title); ok {
		return r.Weight
	}
	return w.Default
}

// Rule returns the first rule whose keyword occurs in title.
func (w *Weigher) Rule(title string) (WeightRule, bool) {
	t := lower.String(title)
	for _, r := range w.Rules {
		if strings.Contains(t, r.Keyword) {
			return r, true
		}
	}
	return WeightRule{}, false
}

// ControlWeight returns the default risk weight for a control title.
func ControlWeight(title string) float64 {
	return DefaultWeigher().Weight(title)
}

// WeightedScore scales weight by the status credit: 1, 0.5 or 0.
func WeightedScore(status Status, weight float64) float64 {
	switch status {
	case StatusCompliant:
		return weight
	case StatusPartiallyCompliant:
		return 0.5 * weight
	default:
		return 0
	}
}

// Summary aggregates one run.
type Summary struct {
	GeneratedAt        time.Time `json:"generated_at"`
	TotalControls      int       `json:"total_controls"`
	Compliant          int       `json:"compliant"`
	PartiallyCompliant int       `json:"partially_compliant"`
	NotCompliant       int       `json:"not_compliant"`
	CompliancePct      float64   `json:"compliance_pct"`
	WeightedCompliance float64   `json:"weighted_compliance"`
}

// Summarize counts statuses and computes both percentages. An empty result
// set, or a zero total weight, yields 0 for the affected percentage.
func Summarize(results []EvaluationResult, now time.Time) Summary {
	s := Summary{
		GeneratedAt:   now.UTC(),
		TotalControls: len(results),
	}
	var totalWeight, achieved float64
	for _, r := range results {
		switch r.Status {
		case StatusCompliant:
			s.Compliant++
		case StatusPartiallyCompliant:
			s.PartiallyCompliant++
		default:
			s.NotCompliant++
		}
		totalWeight += r.Weight
		achieved += r.WeightedScore
	}
	if s.TotalControls > 0 {
		s.CompliancePct = round2(100 * float64(s.Compliant) / float64(s.TotalControls))
	}
	if totalWeight > 0 {
		s.WeightedCompliance = round2(100 * achieved / totalWeight)
	}
	return s
}
