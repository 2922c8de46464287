package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/isocomply/pkg/engine"
)

func sampleResults() []engine.EvaluationResult {
	return []engine.EvaluationResult{
		{ControlID: "A.5.15", Title: "Access control", Status: engine.StatusCompliant, Weight: 2, WeightedScore: 2,
			MissingEvidence: []string{}, MissingPolicies: []string{}, Remediation: []string{}},
		{ControlID: "A.7.1", Title: "Physical security perimeters", Status: engine.StatusNotCompliant, Weight: 1.5,
			MissingEvidence: []string{"site_plan", "cctv_log"}, MissingPolicies: []string{"physical_security"},
			Remediation: []string{"Provide evidence types: site_plan, cctv_log", "Publish or update policies: physical_security"}},
	}
}

func TestWriteMappingsCSV(t *testing.T) {
	records := []engine.MappingRecord{{
		ControlID:        "A.5.15",
		Title:            "Access control",
		Description:      "Rules, to control access",
		RequiredEvidence: []string{"config", "screenshot"},
		RequiredPolicies: []string{"access_control"},
		BestPolicyMatch:  "access_control.txt",
		MatchScore:       87.5,
	}}
	var buf bytes.Buffer
	require.NoError(t, WriteMappingsCSV(&buf, records))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "required_evidence", rows[0][3])
	assert.Equal(t, []string{"A.5.15", "Access control", "Rules, to control access", "config, screenshot", "access_control", "access_control.txt", "87.5"}, rows[1])
}

func TestWriteMappingsJSONKeepsLists(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMappingsJSON(&buf, []engine.MappingRecord{{ControlID: "A.1", RequiredEvidence: []string{"a, b"}}}))

	var back []engine.MappingRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, []string{"a, b"}, back[0].RequiredEvidence)
}

func TestWriteGapsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGapsCSV(&buf, engine.Gaps(sampleResults())))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"control_id", "title", "missing_evidence", "missing_policies", "remediation"}, rows[0])
	assert.Equal(t, "site_plan; cctv_log", rows[1][2])
	assert.Equal(t, "physical_security", rows[1][3])
	assert.Equal(t, "Provide evidence types: site_plan, cctv_log | Publish or update policies: physical_security", rows[1][4])
}

func TestWriteResultsAndSummaryJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResultsJSON(&buf, sampleResults()))
	assert.Contains(t, buf.String(), `"status": "Not Compliant"`)
	assert.Contains(t, buf.String(), `"missing_evidence": []`)

	buf.Reset()
	s := engine.Summarize(sampleResults(), time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC))
	require.NoError(t, WriteSummaryJSON(&buf, s))
	assert.Contains(t, buf.String(), `"generated_at": "2026-10-18T08:00:00Z"`)
	assert.Contains(t, buf.String(), `"weighted_compliance": 57.14`)
}

func TestWriteMarkdown(t *testing.T) {
	results := sampleResults()
	s := engine.Summarize(results, time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, s, engine.Gaps(results)))
	out := buf.String()
	assert.Contains(t, out, "# ISO 27001 Compliance Summary")
	assert.Contains(t, out, "| Compliance % | 50.00% |")
	assert.Contains(t, out, "| A.7.1 | Physical security perimeters |")
	assert.Contains(t, out, `site_plan, cctv_log \| Publish`)

	buf.Reset()
	require.NoError(t, WriteMarkdown(&buf, engine.Summary{}, nil))
	assert.Contains(t, buf.String(), "No gaps found.")
}

func TestWriteFileCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "gaps.csv")
	err := WriteFile(path, func(w io.Writer) error {
		return WriteGapsCSV(w, nil)
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "control_id,title,missing_evidence,missing_policies,remediation\n", string(data))
}

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.json")
	results := sampleResults()
	snap := NewSnapshot(results, engine.Summarize(results, time.Now()), time.Now())
	require.NoError(t, SaveSnapshot(path, snap))

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, loaded.ID)
	assert.Len(t, loaded.Results, 2)
	assert.Equal(t, engine.StatusNotCompliant, loaded.Results[1].Status)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"id": "nope"}`), 0o644))
	_, err = LoadSnapshot(bad)
	assert.Error(t, err)
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary(engine.Summary{TotalControls: 4, Compliant: 2, PartiallyCompliant: 1, NotCompliant: 1, CompliancePct: 50, WeightedCompliance: 61.54})
	assert.Contains(t, out, "Compliance Summary")
	assert.Contains(t, out, "61.54%")
	assert.Contains(t, out, "50.00%")
}

func TestRenderGaps(t *testing.T) {
	gaps := engine.Gaps(sampleResults())
	out := RenderGaps(gaps, 0)
	assert.Contains(t, out, "A.7.1 Physical security perimeters")
	assert.Equal(t, 2, strings.Count(out, "Fix: "))

	assert.Equal(t, "No gaps found.", RenderGaps(nil, 5))

	many := append(gaps, gaps[0], gaps[0])
	assert.Contains(t, RenderGaps(many, 1), "... and 2 more.")
}

func TestRenderDiff(t *testing.T) {
	d := engine.CompareResults(
		[]engine.EvaluationResult{{ControlID: "A.1", Title: "One", Status: engine.StatusNotCompliant}, {ControlID: "A.3", Status: engine.StatusCompliant}},
		[]engine.EvaluationResult{{ControlID: "A.1", Title: "One", Status: engine.StatusCompliant}, {ControlID: "A.2", Status: engine.StatusCompliant}},
	)
	out := RenderDiff("baseline.json", d)
	assert.Contains(t, out, "REGRESSED: 1")
	assert.Contains(t, out, "A.1 One: Compliant -> Not Compliant")
	assert.Contains(t, out, "ADDED: 1")
	assert.Contains(t, out, "REMOVED: 1")
	assert.Contains(t, out, "was Compliant")
}
