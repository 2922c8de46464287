package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/isocomply/pkg/config"
	"github.com/user/isocomply/pkg/engine"
	"github.com/user/isocomply/pkg/ingest"
	"github.com/user/isocomply/pkg/logging"
	"github.com/user/isocomply/pkg/report"
)

const gapPreview = 10

var snapshotPath string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load and validate all inputs and report what was found",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		inv, err := ingest.Load(cfg.Paths)
		if err != nil {
			return err
		}
		printInventory(cmd.OutOrStdout(), inv)
		return nil
	},
}

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Build the control mapping table and write mappings.json and mappings.csv",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, eng, err := setup()
		if err != nil {
			return err
		}
		inv, err := ingest.Load(cfg.Paths)
		if err != nil {
			return err
		}
		mappings := eng.BuildMappingTable(inv.Controls, inv.Rules, inv.Policies)
		if err := writeMappings(cfg.Paths, mappings); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Mapped %d controls -> %s\n", len(mappings), cfg.Paths.OutputFile(config.MappingsJSON))
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate mappings against the evidence index and write results.json and gaps.csv",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, eng, err := setup()
		if err != nil {
			return err
		}
		mappings, err := ingest.LoadMappings(cfg.Paths.OutputFile(config.MappingsJSON))
		if err != nil {
			return fmt.Errorf("%w (run 'isocomply map' first)", err)
		}
		index, err := ingest.LoadEvidenceIndex(cfg.Paths.Evidence)
		if err != nil {
			return err
		}

		results := eng.Evaluate(mappings, index)
		gaps := engine.Gaps(results)
		if err := writeResults(cfg.Paths, results, gaps); err != nil {
			return err
		}
		summary := eng.Summarize(results)
		if err := maybeSnapshot(cmd.OutOrStdout(), results, summary); err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), summary, gaps)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write summary.json and report.md from results.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, eng, err := setup()
		if err != nil {
			return err
		}
		results, err := ingest.LoadResults(cfg.Paths.OutputFile(config.ResultsJSON))
		if err != nil {
			return fmt.Errorf("%w (run 'isocomply check' first)", err)
		}
		summary := eng.Summarize(results)
		if err := writeExport(cfg.Paths, summary, engine.Gaps(results)); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Summary saved: %s\n", cfg.Paths.OutputFile(config.SummaryJSON))
		fmt.Fprintf(out, "Report saved:  %s\n", cfg.Paths.OutputFile(config.ReportMD))
		return nil
	},
}

var runAllCmd = &cobra.Command{
	Use:   "run-all",
	Short: "Run ingest, map, check and export in one pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, eng, err := setup()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		inv, err := ingest.Load(cfg.Paths)
		if err != nil {
			return err
		}
		printInventory(out, inv)

		a := eng.Run(inv.Inputs())
		if err := writeMappings(cfg.Paths, a.Mappings); err != nil {
			return err
		}
		if err := writeResults(cfg.Paths, a.Results, a.Gaps); err != nil {
			return err
		}
		if err := writeExport(cfg.Paths, a.Summary, a.Gaps); err != nil {
			return err
		}
		if err := maybeSnapshot(out, a.Results, a.Summary); err != nil {
			return err
		}

		printSummary(out, a.Summary, a.Gaps)
		fmt.Fprintf(out, "\nResults available in %s\n", cfg.Paths.Output)
		return nil
	},
}

func setup() (*config.Config, *engine.Engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	eng, err := newEngine(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, eng, nil
}

func printInventory(w io.Writer, inv *ingest.Inventory) {
	fmt.Fprintf(w, "Controls loaded: %d\n", len(inv.Controls))
	for i, c := range inv.Controls {
		if i == 3 {
			break
		}
		fmt.Fprintf(w, "  - %s: %s\n", c.ID, c.Title)
	}
	fmt.Fprintf(w, "Requirement rules: %d\n", len(inv.Rules))
	fmt.Fprintf(w, "Policies loaded: %d\n", len(inv.Policies))
	for _, name := range inv.Policies.Names() {
		fmt.Fprintf(w, "  - %s\n", name)
	}
	fmt.Fprintf(w, "Evidence entries: %d\n", len(inv.Evidence))
	fmt.Fprintf(w, "Assets: %s\n", optionalCount(inv.Assets))
	fmt.Fprintf(w, "Risks: %s\n", optionalCount(inv.RiskRegister))
}

func optionalCount(n int) string {
	if n < 0 {
		return "not provided"
	}
	return fmt.Sprint(n)
}

func printSummary(w io.Writer, s engine.Summary, gaps []engine.Gap) {
	fmt.Fprintln(w, report.RenderSummary(s))
	if len(gaps) > 0 {
		fmt.Fprintln(w, report.RenderGaps(gaps, gapPreview))
	}
}

func writeMappings(paths config.Paths, mappings []engine.MappingRecord) error {
	if err := report.WriteFile(paths.OutputFile(config.MappingsJSON), func(w io.Writer) error {
		return report.WriteMappingsJSON(w, mappings)
	}); err != nil {
		return err
	}
	return report.WriteFile(paths.OutputFile(config.MappingsCSV), func(w io.Writer) error {
		return report.WriteMappingsCSV(w, mappings)
	})
}

func writeResults(paths config.Paths, results []engine.EvaluationResult, gaps []engine.Gap) error {
	if err := report.WriteFile(paths.OutputFile(config.ResultsJSON), func(w io.Writer) error {
		return report.WriteResultsJSON(w, results)
	}); err != nil {
		return err
	}
	return report.WriteFile(paths.OutputFile(config.GapsCSV), func(w io.Writer) error {
		return report.WriteGapsCSV(w, gaps)
	})
}

func writeExport(paths config.Paths, summary engine.Summary, gaps []engine.Gap) error {
	if err := report.WriteFile(paths.OutputFile(config.SummaryJSON), func(w io.Writer) error {
		return report.WriteSummaryJSON(w, summary)
	}); err != nil {
		return err
	}
	return report.WriteFile(paths.OutputFile(config.ReportMD), func(w io.Writer) error {
		return report.WriteMarkdown(w, summary, gaps)
	})
}

func maybeSnapshot(w io.Writer, results []engine.EvaluationResult, summary engine.Summary) error {
	if snapshotPath == "" {
		return nil
	}
	snap := report.NewSnapshot(results, summary, time.Now())
	if err := report.SaveSnapshot(snapshotPath, snap); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	logging.Logger.Debugw("snapshot saved", "path", snapshotPath, "id", snap.ID)
	fmt.Fprintf(w, "Snapshot saved: %s\n", snapshotPath)
	return nil
}

func init() {
	checkCmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Also save the results as a baseline snapshot to this file")
	runAllCmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Also save the results as a baseline snapshot to this file")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(mapCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(runAllCmd)
}
