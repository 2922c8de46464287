package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMappingTable(t *testing.T) {
	controls := []Control{
		{ID: "A.5.15", Title: "Access control", Description: "Rules to control access to information"},
		{ID: "A.5.1", Title: "Policies for information security", Description: "Information security policy"},
		{ID: "A.8.13", Title: "Information backup", Description: "Backup copies shall be maintained"},
	}
	rules := RuleTable{
		"A.5.15": {RequiredEvidence: []string{"config"}, RequiredPolicies: []string{"access_control"}},
		"A.8.13": {RequiredEvidence: []string{"backup_log"}},
	}
	corpus := PolicyCorpus{
		{Name: "access_control.txt", Text: "Rules to control access to information and systems"},
		{Name: "infosec_policy.txt", Text: "Information security policy of the organization"},
	}

	records := BuildMappingTable(controls, rules, corpus)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"A.5.15", "A.5.1", "A.8.13"}, []string{records[0].ControlID, records[1].ControlID, records[2].ControlID})

	assert.Equal(t, []string{"config"}, records[0].RequiredEvidence)
	assert.Equal(t, []string{"access_control"}, records[0].RequiredPolicies)
	assert.Equal(t, "access_control.txt", records[0].BestPolicyMatch)
	assert.Greater(t, records[0].MatchScore, 50.0)

	assert.Equal(t, "infosec_policy.txt", records[1].BestPolicyMatch)
	assert.Empty(t, records[1].RequiredEvidence)
	assert.NotNil(t, records[1].RequiredEvidence)
	assert.Empty(t, records[1].RequiredPolicies)

	assert.Equal(t, []string{"backup_log"}, records[2].RequiredEvidence)
	assert.Empty(t, records[2].RequiredPolicies)
}

func TestBuildMappingTableEmptyCorpus(t *testing.T) {
	records := BuildMappingTable([]Control{{ID: "A.1", Description: "x"}}, nil, nil)
	require.Len(t, records, 1)
	assert.Equal(t, "", records[0].BestPolicyMatch)
	assert.Equal(t, 0.0, records[0].MatchScore)
}

func TestBuildMappingTableDoesNotAliasRules(t *testing.T) {
	rules := RuleTable{"A.1": {RequiredEvidence: []string{"config"}}}
	records := BuildMappingTable([]Control{{ID: "A.1"}}, rules, nil)
	records[0].RequiredEvidence[0] = "changed"
	assert.Equal(t, "config", rules["A.1"].RequiredEvidence[0])
}
