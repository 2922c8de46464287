package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/isocomply/pkg/config"
	"github.com/user/isocomply/pkg/engine"
	"github.com/user/isocomply/pkg/ingest"
	"github.com/user/isocomply/pkg/report"
)

var (
	baselinePath  string
	failOnRegress bool
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare the current results.json against a saved baseline snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		baseline, err := report.LoadSnapshot(baselinePath)
		if err != nil {
			return fmt.Errorf("loading baseline: %w", err)
		}
		current, err := ingest.LoadResults(cfg.Paths.OutputFile(config.ResultsJSON))
		if err != nil {
			return fmt.Errorf("%w (run 'isocomply check' first)", err)
		}

		diff := engine.CompareResults(current, baseline.Results)
		label := fmt.Sprintf("%s (%s)", baselinePath, baseline.CreatedAt.Format("2006-01-02 15:04"))
		fmt.Fprintln(cmd.OutOrStdout(), report.RenderDiff(label, diff))

		if failOnRegress && len(diff.Regressed) > 0 {
			return fmt.Errorf("%d controls regressed since baseline", len(diff.Regressed))
		}
		return nil
	},
}

var matchCmd = &cobra.Command{
	Use:   "match <text>",
	Short: "Find the policy document most similar to the given text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		corpus, err := ingest.LoadPolicies(cfg.Paths.Policies)
		if err != nil {
			return err
		}
		m := engine.BestPolicyMatch(args[0], corpus)
		if !m.Found() {
			fmt.Fprintf(cmd.OutOrStdout(), "No policy matched (%d documents searched)\n", len(corpus))
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.2f\n", m.Policy, m.Score)
		return nil
	},
}

func init() {
	diffCmd.Flags().StringVar(&baselinePath, "baseline", report.DefaultSnapshotPath, "Baseline snapshot file")
	diffCmd.Flags().BoolVar(&failOnRegress, "fail-on-regression", false, "Exit non-zero when any control regressed")

	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(matchCmd)
}
