package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/user/isocomply/pkg/engine"
)

// WriteFile creates path (and its directory) and streams fn into it.
func WriteFile(path string, fn func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// WriteMappingsJSON writes the mapping table with list fields intact.
func WriteMappingsJSON(w io.Writer, records []engine.MappingRecord) error {
	return writeJSON(w, records)
}

// WriteMappingsCSV writes the mapping table with requirement lists joined by ", ".
func WriteMappingsCSV(w io.Writer, records []engine.MappingRecord) error {
	writer := csv.NewWriter(w)

	header := []string{
		"control_id", "title", "description", "required_evidence",
		"required_policies", "best_policy_match", "match_score",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.ControlID,
			r.Title,
			r.Description,
			strings.Join(r.RequiredEvidence, ", "),
			strings.Join(r.RequiredPolicies, ", "),
			r.BestPolicyMatch,
			strconv.FormatFloat(r.MatchScore, 'f', -1, 64),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteResultsJSON writes evaluation results as an indented JSON list.
func WriteResultsJSON(w io.Writer, results []engine.EvaluationResult) error {
	return writeJSON(w, results)
}

// WriteGapsCSV writes one row per gap.
func WriteGapsCSV(w io.Writer, gaps []engine.Gap) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"control_id", "title", "missing_evidence", "missing_policies", "remediation"}); err != nil {
		return err
	}
	for _, g := range gaps {
		if err := writer.Write([]string{g.ControlID, g.Title, g.MissingEvidence, g.MissingPolicies, g.Remediation}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteSummaryJSON writes the run summary.
func WriteSummaryJSON(w io.Writer, s engine.Summary) error {
	return writeJSON(w, s)
}
