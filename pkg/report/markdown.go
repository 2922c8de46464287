package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/user/isocomply/pkg/engine"
)

// WriteMarkdown renders the summary and gap list as a Markdown document.
func WriteMarkdown(w io.Writer, s engine.Summary, gaps []engine.Gap) error {
	var sb strings.Builder

	sb.WriteString("# ISO 27001 Compliance Summary\n\n")
	sb.WriteString(fmt.Sprintf("Generated at (UTC): %s\n\n", s.GeneratedAt.UTC().Format(time.RFC3339)))

	sb.WriteString("## Compliance Metrics\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Controls | %d |\n", s.TotalControls))
	sb.WriteString(fmt.Sprintf("| Compliant | %d |\n", s.Compliant))
	sb.WriteString(fmt.Sprintf("| Partially Compliant | %d |\n", s.PartiallyCompliant))
	sb.WriteString(fmt.Sprintf("| Not Compliant | %d |\n", s.NotCompliant))
	sb.WriteString(fmt.Sprintf("| Compliance %% | %s%% |\n", formatPct(s.CompliancePct)))
	sb.WriteString(fmt.Sprintf("| Weighted Compliance %% | %s%% |\n", formatPct(s.WeightedCompliance)))

	sb.WriteString("\n## Gaps\n\n")
	if len(gaps) == 0 {
		sb.WriteString("No gaps found.\n")
	} else {
		sb.WriteString("| Control | Title | Missing Evidence | Missing Policies | Remediation |\n")
		sb.WriteString("|---------|-------|------------------|------------------|-------------|\n")
		for _, g := range gaps {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
				escapeCell(g.ControlID),
				escapeCell(g.Title),
				escapeCell(g.MissingEvidence),
				escapeCell(g.MissingPolicies),
				escapeCell(g.Remediation),
			))
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func formatPct(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// escapeCell keeps pipes and newlines from breaking the table.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
