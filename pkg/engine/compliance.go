package engine

import (
	"time"

	"go.uber.org/zap"
)

// Control represents a single catalog control (e.g. an ISO 27001 Annex A item)
type Control struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// RequirementRule lists what a control needs to be considered implemented
type RequirementRule struct {
	RequiredEvidence []string `json:"required_evidence" yaml:"required_evidence"` // evidence types
	RequiredPolicies []string `json:"required_policies" yaml:"required_policies"` // policy base names
}

// RuleTable maps a control ID to its requirements. A missing entry means no requirements.
type RuleTable map[string]RequirementRule

// Status is the compliance verdict for one control
type Status string

const (
	StatusCompliant          Status = "Compliant"
	StatusPartiallyCompliant Status = "Partially Compliant"
	StatusNotCompliant       Status = "Not Compliant"
)

// rank orders statuses from worst to best.
func (s Status) rank() int {
	switch s {
	case StatusCompliant:
		return 2
	case StatusPartiallyCompliant:
		return 1
	default:
		return 0
	}
}

// Engine runs the mapping, evaluation and scoring passes with one set of options
type Engine struct {
	logger   *zap.Logger
	clock    func() time.Time
	mode     MatchMode
	guidance *Guidance
	weigher  *Weigher
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger used for per-control tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the clock that stamps summaries.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithMatchMode selects loose or strict policy evidence matching.
func WithMatchMode(mode MatchMode) Option {
	return func(e *Engine) {
		e.mode = mode
	}
}

// WithGuidance replaces the remediation text templates.
func WithGuidance(g *Guidance) Option {
	return func(e *Engine) {
		if g != nil {
			e.guidance = g
		}
	}
}

// WithWeigher replaces the title-keyword risk weights.
func WithWeigher(w *Weigher) Option {
	return func(e *Engine) {
		if w != nil {
			e.weigher = w
		}
	}
}

// NewEngine creates a new compliance engine
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger:   zap.NewNop(),
		clock:    time.Now,
		mode:     MatchLoose,
		guidance: DefaultGuidance(),
		weigher:  DefaultWeigher(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Weigher returns the weights the engine scores with.
func (e *Engine) Weigher() *Weigher {
	return e.weigher
}

// Inputs bundles everything a full run consumes
type Inputs struct {
	Controls []Control
	Rules    RuleTable
	Policies PolicyCorpus
	Evidence EvidenceIndex
}

// Assessment is the output of a full run
type Assessment struct {
	Mappings []MappingRecord    `json:"mappings"`
	Results  []EvaluationResult `json:"results"`
	Gaps     []Gap              `json:"gaps"`
	Summary  Summary            `json:"summary"`
}

// BuildMappingTable builds one mapping record per control, in catalog order.
func (e *Engine) BuildMappingTable(controls []Control, rules RuleTable, corpus PolicyCorpus) []MappingRecord {
	records := BuildMappingTable(controls, rules, corpus)
	for _, r := range records {
		e.logger.Debug("mapped control",
			zap.String("control_id", r.ControlID),
			zap.String("best_policy_match", r.BestPolicyMatch),
			zap.Float64("match_score", r.MatchScore),
		)
	}
	return records
}

// Evaluate checks every mapping record against the evidence index and weighs the result.
func (e *Engine) Evaluate(mappings []MappingRecord, index EvidenceIndex) []EvaluationResult {
	ev := &Evaluator{
		Resolver: Resolver{Index: index, Mode: e.mode},
		Guidance: e.guidance,
		Weigher:  e.weigher,
	}
	results := make([]EvaluationResult, 0, len(mappings))
	for _, m := range mappings {
		res := ev.Evaluate(m)
		e.logger.Debug("evaluated control",
			zap.String("control_id", res.ControlID),
			zap.String("status", string(res.Status)),
			zap.Strings("missing_evidence", res.MissingEvidence),
			zap.Strings("missing_policies", res.MissingPolicies),
			zap.Float64("weight", res.Weight),
		)
		results = append(results, res)
	}
	return results
}

// Summarize aggregates results, stamped with the engine clock.
func (e *Engine) Summarize(results []EvaluationResult) Summary {
	return Summarize(results, e.clock())
}

// Run executes mapping, evaluation and aggregation over in.
func (e *Engine) Run(in Inputs) *Assessment {
	mappings := e.BuildMappingTable(in.Controls, in.Rules, in.Policies)
	results := e.Evaluate(mappings, in.Evidence)
	summary := e.Summarize(results)
	e.logger.Info("assessment complete",
		zap.Int("controls", summary.TotalControls),
		zap.Float64("compliance_pct", summary.CompliancePct),
		zap.Float64("weighted_compliance", summary.WeightedCompliance),
	)
	return &Assessment{
		Mappings: mappings,
		Results:  results,
		Gaps:     Gaps(results),
		Summary:  summary,
	}
}
