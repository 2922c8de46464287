package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateControlStatusTruthTable(t *testing.T) {
	idx := EvidenceIndex{
		{ID: "E1", Type: "config", Name: "sshd_config", Path: "configs/sshd_config"},
		{ID: "E2", Type: "policy", Name: "access_control.txt", Path: "policies/access_control.txt"},
	}
	tests := []struct {
		name            string
		evidence        []string
		policies        []string
		want            Status
		missingEvidence []string
		missingPolicies []string
	}{
		{"nothing missing", []string{"config"}, []string{"access_control"}, StatusCompliant, []string{}, []string{}},
		{"evidence missing", []string{"config", "screenshot"}, []string{"access_control"}, StatusPartiallyCompliant, []string{"screenshot"}, []string{}},
		{"policy missing", []string{"config"}, []string{"backup"}, StatusPartiallyCompliant, []string{}, []string{"backup"}},
		{"both missing", []string{"screenshot"}, []string{"backup"}, StatusNotCompliant, []string{"screenshot"}, []string{"backup"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := EvaluateControl(MappingRecord{
				ControlID:        "A.5.15",
				Title:            "Access control",
				RequiredEvidence: tt.evidence,
				RequiredPolicies: tt.policies,
			}, idx)
			assert.Equal(t, tt.want, res.Status)
			assert.Equal(t, tt.missingEvidence, res.MissingEvidence)
			assert.Equal(t, tt.missingPolicies, res.MissingPolicies)
		})
	}
}

func TestEvaluateControlNoRequirements(t *testing.T) {
	res := EvaluateControl(MappingRecord{ControlID: "A.5.1", Title: "Policies for information security"}, nil)
	assert.Equal(t, StatusCompliant, res.Status)
	assert.Empty(t, res.MissingEvidence)
	assert.Empty(t, res.MissingPolicies)
	assert.Empty(t, res.Remediation)
	assert.False(t, res.HasGap())
	assert.Equal(t, 1.0, res.WeightedScore)
}

func TestEvaluateControlRemediationOrderAndText(t *testing.T) {
	res := EvaluateControl(MappingRecord{
		ControlID:        "A.8.24",
		Title:            "Use of cryptography",
		RequiredEvidence: []string{"config", "key_inventory"},
		RequiredPolicies: []string{"cryptography", "key_management"},
	}, nil)

	require.Len(t, res.Remediation, 2)
	assert.Equal(t, "Provide evidence types: config, key_inventory (e.g., configs, screenshots, inventory)", res.Remediation[0])
	assert.Equal(t, "Publish or update policies: cryptography, key_management (add PDF/TXT to policies/ + reference in evidence_index.json)", res.Remediation[1])
	assert.Equal(t, StatusNotCompliant, res.Status)
	assert.Equal(t, 2.0, res.Weight)
	assert.Equal(t, 0.0, res.WeightedScore)
}

func TestEvaluateControlTrimsJoinedTokens(t *testing.T) {
	idx := EvidenceIndex{{Type: "config"}, {Type: "asset_inventory"}}
	res := EvaluateControl(MappingRecord{
		ControlID:        "A.5.9",
		Title:            "Inventory of information and other associated assets",
		RequiredEvidence: []string{" config , asset_inventory", "", "  "},
	}, idx)
	assert.Equal(t, StatusCompliant, res.Status)
	assert.Equal(t, 1.5, res.Weight)
}

func TestEvaluatorCustomGuidanceAndStrictMode(t *testing.T) {
	g, err := NewGuidance("{{.ControlID}} needs {{.Items}}", "{{.Title}}: write {{.Items}}")
	require.NoError(t, err)

	ev := &Evaluator{
		Resolver: Resolver{
			Index: EvidenceIndex{{Type: "policy", Name: "access_control_policy.txt"}},
			Mode:  MatchStrict,
		},
		Guidance: g,
	}
	res := ev.Evaluate(MappingRecord{
		ControlID:        "A.5.15",
		Title:            "Access control",
		RequiredEvidence: []string{"config"},
		RequiredPolicies: []string{"access"},
	})
	assert.Equal(t, StatusNotCompliant, res.Status)
	assert.Equal(t, []string{"A.5.15 needs config", "Access control: write access"}, res.Remediation)
}

func TestEvaluateCarriesMatch(t *testing.T) {
	res := EvaluateControl(MappingRecord{ControlID: "A.1", BestPolicyMatch: "x.txt", MatchScore: 42.5}, nil)
	assert.Equal(t, "x.txt", res.BestPolicyMatch)
	assert.Equal(t, 42.5, res.MatchScore)
}

func TestDeriveStatus(t *testing.T) {
	assert.Equal(t, StatusCompliant, DeriveStatus(false, false))
	assert.Equal(t, StatusPartiallyCompliant, DeriveStatus(true, false))
	assert.Equal(t, StatusPartiallyCompliant, DeriveStatus(false, true))
	assert.Equal(t, StatusNotCompliant, DeriveStatus(true, true))
}

func TestNewGuidanceRejectsBrokenTemplates(t *testing.T) {
	_, err := NewGuidance("{{.Items", "")
	assert.Error(t, err)

	_, err = NewGuidance("", "{{.Nope}}")
	assert.Error(t, err)

	g, err := NewGuidance("", "")
	require.NoError(t, err)
	assert.NotNil(t, g)
}
