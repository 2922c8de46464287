package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/isocomply/pkg/engine"
)

var (
	compliantColor = lipgloss.Color("#04B575")
	partialColor   = lipgloss.Color("#FFCC00")
	failColor      = lipgloss.Color("#FF5F56")
	subtleColor    = lipgloss.Color("#626262")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(subtleColor).
			Width(34)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtleColor).
			Padding(0, 1)
)

// StatusStyle colors a status label.
func StatusStyle(s engine.Status) lipgloss.Style {
	switch s {
	case engine.StatusCompliant:
		return lipgloss.NewStyle().Foreground(compliantColor)
	case engine.StatusPartiallyCompliant:
		return lipgloss.NewStyle().Foreground(partialColor)
	default:
		return lipgloss.NewStyle().Foreground(failColor)
	}
}

func pctStyle(v float64) lipgloss.Style {
	switch {
	case v >= 80:
		return lipgloss.NewStyle().Foreground(compliantColor).Bold(true)
	case v >= 50:
		return lipgloss.NewStyle().Foreground(partialColor).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(failColor).Bold(true)
	}
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

// RenderSummary formats a summary for the terminal.
func RenderSummary(s engine.Summary) string {
	rows := []string{
		titleStyle.Render("Compliance Summary"),
		"",
		row("Total Controls Evaluated:", fmt.Sprintf("%d", s.TotalControls)),
		row("Compliant:", StatusStyle(engine.StatusCompliant).Render(fmt.Sprintf("%d", s.Compliant))),
		row("Partially Compliant:", StatusStyle(engine.StatusPartiallyCompliant).Render(fmt.Sprintf("%d", s.PartiallyCompliant))),
		row("Not Compliant:", StatusStyle(engine.StatusNotCompliant).Render(fmt.Sprintf("%d", s.NotCompliant))),
		row("Compliance Percentage:", pctStyle(s.CompliancePct).Render(formatPct(s.CompliancePct)+"%")),
		row("Weighted Compliance (Risk-Based):", pctStyle(s.WeightedCompliance).Render(formatPct(s.WeightedCompliance)+"%")),
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// RenderGaps lists gaps one control per block. limit <= 0 lists all.
func RenderGaps(gaps []engine.Gap, limit int) string {
	if len(gaps) == 0 {
		return "No gaps found."
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Gaps (%d controls):\n", len(gaps)))
	for i, g := range gaps {
		if limit > 0 && i >= limit {
			sb.WriteString(fmt.Sprintf("  ... and %d more.\n", len(gaps)-limit))
			break
		}
		sb.WriteString(fmt.Sprintf("- %s %s\n", g.ControlID, g.Title))
		if g.MissingEvidence != "" {
			sb.WriteString(fmt.Sprintf("  Missing evidence: %s\n", g.MissingEvidence))
		}
		if g.MissingPolicies != "" {
			sb.WriteString(fmt.Sprintf("  Missing policies: %s\n", g.MissingPolicies))
		}
		for _, line := range strings.Split(g.Remediation, " | ") {
			sb.WriteString(fmt.Sprintf("  Fix: %s\n", line))
		}
	}
	return sb.String()
}

// RenderDiff formats a baseline comparison.
func RenderDiff(label string, d engine.ResultDiff) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Baseline Comparison (vs %s):\n", label))
	sb.WriteString("--------------------------------------------------\n")

	section := func(title, mark string, changes []engine.StatusChange) {
		sb.WriteString(fmt.Sprintf("%s: %d\n", title, len(changes)))
		for _, c := range changes {
			switch {
			case c.Before != "" && c.After != "":
				sb.WriteString(fmt.Sprintf("  [%s] %s %s: %s -> %s\n", mark, c.ControlID, c.Title, c.Before, c.After))
			case c.After != "":
				sb.WriteString(fmt.Sprintf("  [%s] %s %s: %s\n", mark, c.ControlID, c.Title, c.After))
			default:
				sb.WriteString(fmt.Sprintf("  [%s] %s %s: was %s\n", mark, c.ControlID, c.Title, c.Before))
			}
		}
		sb.WriteString("\n")
	}

	section("REGRESSED", "-", d.Regressed)
	section("IMPROVED", "+", d.Improved)
	section("ADDED", "*", d.Added)
	section("REMOVED", "x", d.Removed)
	sb.WriteString(fmt.Sprintf("UNCHANGED: %d\n", len(d.Unchanged)))
	return sb.String()
}
