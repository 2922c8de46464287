package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/isocomply/pkg/adk"
	"github.com/user/isocomply/pkg/config"
	"github.com/user/isocomply/pkg/engine"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration (data paths, scoring, AI provider and keys)",
}

var setKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Manually set API key for a provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, _ := cmd.Flags().GetString("provider")
		key, _ := cmd.Flags().GetString("key")
		if provider == "" || key == "" {
			return fmt.Errorf("--provider and --key are required")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cfg.SetAPIKey(strings.ToLower(provider), key)
		if err := config.SaveConfig(ConfigFile, cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "API key saved for provider: %s\n", provider)
		return nil
	},
}

var setModelCmd = &cobra.Command{
	Use:   "set-model",
	Short: "Manually set the active provider and model",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, _ := cmd.Flags().GetString("provider")
		model, _ := cmd.Flags().GetString("model")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if provider != "" {
			cfg.SelectedProvider = strings.ToLower(provider)
		}
		if model != "" {
			cfg.SelectedModel = model
		}
		if err := config.SaveConfig(ConfigFile, cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Active configuration updated: Provider=%s, Model=%s\n", cfg.SelectedProvider, cfg.SelectedModel)
		return nil
	},
}

var setPathsCmd = &cobra.Command{
	Use:   "set-paths",
	Short: "Set where controls, rules, policies, evidence and outputs live",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		flags := map[string]*string{
			"controls":      &cfg.Paths.Controls,
			"rules":         &cfg.Paths.Rules,
			"policies":      &cfg.Paths.Policies,
			"evidence":      &cfg.Paths.Evidence,
			"assets":        &cfg.Paths.Assets,
			"risk-register": &cfg.Paths.RiskRegister,
			"output":        &cfg.Paths.Output,
		}
		changed := 0
		for name, field := range flags {
			if cmd.Flags().Changed(name) {
				*field, _ = cmd.Flags().GetString(name)
				changed++
			}
		}
		if cmd.Flags().Changed("policy-match") {
			mode, _ := cmd.Flags().GetString("policy-match")
			if _, err := engine.ParseMatchMode(mode); err != nil {
				return err
			}
			cfg.Scoring.PolicyMatch = mode
			changed++
		}
		if changed == 0 {
			return fmt.Errorf("nothing to set; see --help for the available flags")
		}

		if err := config.SaveConfig(ConfigFile, cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		printPaths(cmd, cfg)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective data paths and scoring mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		printPaths(cmd, cfg)
		return nil
	},
}

func printPaths(cmd *cobra.Command, cfg *config.Config) {
	out := cmd.OutOrStdout()
	p := cfg.Paths
	fmt.Fprintf(out, "Controls:      %s\n", p.Controls)
	fmt.Fprintf(out, "Rules:         %s\n", p.Rules)
	fmt.Fprintf(out, "Policies:      %s\n", p.Policies)
	fmt.Fprintf(out, "Evidence:      %s\n", p.Evidence)
	fmt.Fprintf(out, "Assets:        %s\n", p.Assets)
	fmt.Fprintf(out, "Risk register: %s\n", p.RiskRegister)
	fmt.Fprintf(out, "Output:        %s\n", p.Output)
	fmt.Fprintf(out, "Policy match:  %s\n", cfg.Scoring.PolicyMatch)
}

var listModelsCmd = &cobra.Command{
	Use:   "list-models",
	Short: "List available models from the configured provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		provider := cfg.SelectedProvider
		if provider == "" {
			return fmt.Errorf("no provider selected; run 'isocomply config setup'")
		}
		apiKey := cfg.GetAPIKey(provider)
		if apiKey == "" {
			return fmt.Errorf("no API key found for %s", provider)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Fetching models for %s...\n", provider)
		ctx := context.Background()
		p, err := adk.NewProvider(ctx, provider, apiKey, "")
		if err != nil {
			return fmt.Errorf("initializing provider: %w", err)
		}
		if closer, ok := p.(interface{ Close() }); ok {
			defer closer.Close()
		}

		models, err := p.ListModels(ctx)
		if err != nil {
			return fmt.Errorf("fetching models: %w", err)
		}

		fmt.Fprintf(out, "\nAvailable Models (%s):\n", provider)
		for _, m := range models {
			mark := " "
			if m == cfg.SelectedModel {
				mark = "*"
			}
			fmt.Fprintf(out, "%s %s\n", mark, m)
		}
		return nil
	},
}

func init() {
	providers := strings.Join(adk.SupportedProviders, ", ")
	setKeyCmd.Flags().StringP("provider", "p", "", "Provider ("+providers+")")
	setKeyCmd.Flags().StringP("key", "k", "", "API Key")

	setModelCmd.Flags().StringP("provider", "p", "", "Provider ("+providers+")")
	setModelCmd.Flags().StringP("model", "m", "", "Model name")

	setPathsCmd.Flags().String("controls", "", "Control catalog (JSON or YAML)")
	setPathsCmd.Flags().String("rules", "", "Control requirement rules (JSON or YAML)")
	setPathsCmd.Flags().String("policies", "", "Directory of .txt policy documents")
	setPathsCmd.Flags().String("evidence", "", "Evidence index (JSON or YAML)")
	setPathsCmd.Flags().String("assets", "", "Asset inventory CSV (optional)")
	setPathsCmd.Flags().String("risk-register", "", "Risk register CSV (optional)")
	setPathsCmd.Flags().String("output", "", "Directory for generated files")
	setPathsCmd.Flags().String("policy-match", "", "Policy evidence matching: loose or strict")

	configCmd.AddCommand(setKeyCmd)
	configCmd.AddCommand(setModelCmd)
	configCmd.AddCommand(setPathsCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(listModelsCmd)
	rootCmd.AddCommand(configCmd)
}
