package engine

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

const (
	// DefaultEvidenceGuidance is rendered when required evidence types are missing.
	DefaultEvidenceGuidance = "Provide evidence types: {{.Items}} (e.g., configs, screenshots, inventory)"
	// DefaultPolicyGuidance is rendered when required policies are missing.
	DefaultPolicyGuidance = "Publish or update policies: {{.Items}} (add PDF/TXT to policies/ + reference in evidence_index.json)"
)

// GuidanceData is the value remediation templates are executed against.
// Items is the missing list joined with ", "; Missing holds the raw list.
type GuidanceData struct {
	ControlID string
	Title     string
	Items     string
	Missing   []string
}

// Guidance renders remediation strings for missing evidence and policies
type Guidance struct {
	evidence *template.Template
	policy   *template.Template
}

// DefaultGuidance returns the built-in remediation wording.
func DefaultGuidance() *Guidance {
	g, err := NewGuidance(DefaultEvidenceGuidance, DefaultPolicyGuidance)
	if err != nil {
		panic(err)
	}
	return g
}

// NewGuidance parses both templates and test-renders them so that a broken
// template fails here instead of during evaluation. Empty text selects the default.
func NewGuidance(evidenceTmpl, policyTmpl string) (*Guidance, error) {
	if evidenceTmpl == "" {
		evidenceTmpl = DefaultEvidenceGuidance
	}
	if policyTmpl == "" {
		policyTmpl = DefaultPolicyGuidance
	}
	ev, err := parseGuidance("evidence", evidenceTmpl)
	if err != nil {
		return nil, err
	}
	pol, err := parseGuidance("policy", policyTmpl)
	if err != nil {
		return nil, err
	}
	return &Guidance{evidence: ev, policy: pol}, nil
}

func parseGuidance(name, text string) (*template.Template, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s guidance template: %w", name, err)
	}
	probe := GuidanceData{ControlID: "A.0", Title: "probe", Items: "x, y", Missing: []string{"x", "y"}}
	if err := t.Execute(&bytes.Buffer{}, probe); err != nil {
		return nil, fmt.Errorf("failed to execute %s guidance template: %w", name, err)
	}
	return t, nil
}

// Remediation returns one line per non-empty missing category, evidence first.
func (g *Guidance) Remediation(rec MappingRecord, missingEvidence, missingPolicies []string) []string {
	lines := make([]string, 0, 2)
	if len(missingEvidence) > 0 {
		lines = append(lines, render(g.evidence, rec, missingEvidence))
	}
	if len(missingPolicies) > 0 {
		lines = append(lines, render(g.policy, rec, missingPolicies))
	}
	return lines
}

func render(t *template.Template, rec MappingRecord, missing []string) string {
	data := GuidanceData{
		ControlID: rec.ControlID,
		Title:     rec.Title,
		Items:     strings.Join(missing, ", "),
		Missing:   missing,
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		// Templates are probed in NewGuidance; fall back to the bare list.
		return data.Items
	}
	return buf.String()
}
