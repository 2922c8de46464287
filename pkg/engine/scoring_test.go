package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControlWeight(t *testing.T) {
	tests := []struct {
		title string
		want  float64
	}{
		{"Access control", 2.0},
		{"Physical and Access Control", 2.0},
		{"Use of CRYPTOGRAPHY", 2.0},
		{"Inventory of assets", 1.5},
		{"Physical security perimeters", 1.5},
		{"Policies for information security", 1.0},
		{"", 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, ControlWeight(tt.title))
		})
	}
}

func TestWeightedScore(t *testing.T) {
	assert.Equal(t, 2.0, WeightedScore(StatusCompliant, 2.0))
	assert.Equal(t, 0.75, WeightedScore(StatusPartiallyCompliant, 1.5))
	assert.Equal(t, 0.0, WeightedScore(StatusNotCompliant, 2.0))
}

func TestWeightedScoreMonotonic(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("not compliant <= partial <= compliant", prop.ForAll(
		func(w float64) bool {
			nc := WeightedScore(StatusNotCompliant, w)
			pc := WeightedScore(StatusPartiallyCompliant, w)
			c := WeightedScore(StatusCompliant, w)
			return nc <= pc && pc <= c
		},
		gen.Float64Range(0, 100),
	))
	properties.TestingRun(t)
}

func TestNewWeigher(t *testing.T) {
	w, err := NewWeigher([]WeightRule{{Keyword: "  Supplier ", Weight: 3}}, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 3.0, w.Weight("Information security in SUPPLIER relationships"))
	assert.Equal(t, 0.5, w.Weight("Access control"))

	_, err = NewWeigher([]WeightRule{{Keyword: "", Weight: 1}}, 1)
	assert.Error(t, err)
	_, err = NewWeigher([]WeightRule{{Keyword: "x", Weight: -1}}, 1)
	assert.Error(t, err)
	_, err = NewWeigher(nil, -1)
	assert.Error(t, err)
}

func TestSummarizeWeighted(t *testing.T) {
	results := []EvaluationResult{
		{ControlID: "1", Status: StatusCompliant, Weight: 2.0, WeightedScore: 2.0},
		{ControlID: "2", Status: StatusNotCompliant, Weight: 1.0, WeightedScore: 0},
		{ControlID: "3", Status: StatusPartiallyCompliant, Weight: 1.5, WeightedScore: 0.75},
	}
	now := time.Date(2026, 10, 18, 9, 30, 0, 0, time.FixedZone("CEST", 2*3600))

	s := Summarize(results, now)
	assert.Equal(t, 3, s.TotalControls)
	assert.Equal(t, 1, s.Compliant)
	assert.Equal(t, 1, s.PartiallyCompliant)
	assert.Equal(t, 1, s.NotCompliant)
	assert.Equal(t, 33.33, s.CompliancePct)
	assert.Equal(t, 61.11, s.WeightedCompliance)
	assert.Equal(t, time.UTC, s.GeneratedAt.Location())
	assert.True(t, s.GeneratedAt.Equal(now))
}

func TestSummarizeDegenerate(t *testing.T) {
	s := Summarize(nil, time.Now())
	assert.Equal(t, 0, s.TotalControls)
	assert.Equal(t, 0.0, s.CompliancePct)
	assert.Equal(t, 0.0, s.WeightedCompliance)

	zeroWeight := []EvaluationResult{{ControlID: "1", Status: StatusCompliant, Weight: 0, WeightedScore: 0}}
	s = Summarize(zeroWeight, time.Now())
	assert.Equal(t, 100.0, s.CompliancePct)
	assert.Equal(t, 0.0, s.WeightedCompliance)
}

func TestWeigherRule(t *testing.T) {
	w := DefaultWeigher()
	r, ok := w.Rule("Physical and Access Control")
	require.True(t, ok)
	assert.Equal(t, "access", r.Keyword, "first rule in table order wins")

	_, ok = w.Rule("Policies for information security")
	assert.False(t, ok)
}

func TestSummarizeRoundsTiesToEven(t *testing.T) {
	results := make([]EvaluationResult, 800)
	for i := range results {
		results[i] = EvaluationResult{ControlID: fmt.Sprintf("C.%d", i), Status: StatusNotCompliant, Weight: 1}
	}
	results[0].Status = StatusCompliant
	results[0].WeightedScore = 1

	s := Summarize(results, time.Time{})
	assert.Equal(t, 0.12, s.CompliancePct)
	assert.Equal(t, 0.12, s.WeightedCompliance)
}
