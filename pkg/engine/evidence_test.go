package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleIndex() EvidenceIndex {
	return EvidenceIndex{
		{ID: "E1", Type: "policy", Name: "acceptable_use.txt", Path: "policies/acceptable_use.txt"},
		{ID: "E2", Type: "config", Name: "firewall_rules", Path: "configs/firewall.yaml"},
		{ID: "E3", Type: "asset_inventory", Name: "assets", Path: "data/assets.csv"},
		{ID: "E4", Type: "policy", Name: "access_control_policy", Path: "docs/acp.pdf"},
	}
}

func TestEvidenceExistsByType(t *testing.T) {
	idx := sampleIndex()
	assert.True(t, EvidenceExistsByType(idx, "config"))
	assert.True(t, EvidenceExistsByType(idx, "asset_inventory"))
	assert.False(t, EvidenceExistsByType(idx, "Config"), "type match is case-sensitive")
	assert.False(t, EvidenceExistsByType(idx, "screenshot"))
	assert.False(t, EvidenceExistsByType(nil, "config"))
}

func TestEvidenceExistsPolicy(t *testing.T) {
	byName := EvidenceIndex{{ID: "1", Type: "policy", Name: "acceptable_use.txt"}}
	byPath := EvidenceIndex{{ID: "2", Type: "policy", Name: "AUP", Path: "/srv/evidence/policies/acceptable_use.txt"}}
	neither := EvidenceIndex{{ID: "3", Type: "policy", Name: "data_protection.txt", Path: "policies/data_protection.txt"}}

	assert.True(t, EvidenceExistsPolicy(byName, "acceptable_use"))
	assert.True(t, EvidenceExistsPolicy(byPath, "acceptable_use"))
	assert.False(t, EvidenceExistsPolicy(neither, "acceptable_use"))

	assert.True(t, EvidenceExistsPolicy(byName, "acceptable_use.txt"), "suffix is normalized away")
}

func TestEvidenceExistsPolicyEmptyName(t *testing.T) {
	idx := sampleIndex()
	assert.False(t, EvidenceExistsPolicy(idx, ""))
	assert.False(t, EvidenceExistsPolicy(idx, ".txt"))
}

func TestResolverLooseMatchesSubstring(t *testing.T) {
	r := Resolver{Index: sampleIndex(), Mode: MatchLoose}
	assert.True(t, r.HasPolicy("access"), "loose mode accepts access_control_policy")
	assert.True(t, r.HasPolicy("use"), "loose mode accepts any substring")
}

func TestResolverStrict(t *testing.T) {
	r := Resolver{Index: sampleIndex(), Mode: MatchStrict}
	assert.False(t, r.HasPolicy("access"))
	assert.True(t, r.HasPolicy("access_control_policy"))
	assert.True(t, r.HasPolicy("acceptable_use"))
	assert.False(t, r.HasPolicy("use"))

	winPath := Resolver{Index: EvidenceIndex{{Path: `C:\evidence\policies\backup.txt`}}, Mode: MatchStrict}
	assert.True(t, winPath.HasPolicy("backup"))
}

func TestParseMatchMode(t *testing.T) {
	tests := []struct {
		in      string
		want    MatchMode
		wantErr bool
	}{
		{"", MatchLoose, false},
		{"loose", MatchLoose, false},
		{" Strict ", MatchStrict, false},
		{"exact", MatchLoose, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMatchMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "strict", MatchStrict.String())
}
