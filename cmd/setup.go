package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/isocomply/pkg/adk"
	"github.com/user/isocomply/pkg/config"
	"github.com/user/isocomply/pkg/engine"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	RunE: func(cmd *cobra.Command, args []string) error {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		out := cmd.OutOrStdout()
		ask := func(prompt, def string) string {
			if def != "" {
				fmt.Fprintf(out, "%s [%s] > ", prompt, def)
			} else {
				fmt.Fprintf(out, "%s > ", prompt)
			}
			if !scanner.Scan() {
				return def
			}
			if v := strings.TrimSpace(scanner.Text()); v != "" {
				return v
			}
			return def
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Fprintln(out, "Welcome to isocomply Setup Wizard")
		fmt.Fprintln(out, "---------------------------------")

		// 1. Data locations
		fmt.Fprintln(out, "Step 1: Where do your inputs live? (Enter keeps the current value)")
		p := &cfg.Paths
		p.Controls = ask("Control catalog", p.Controls)
		p.Rules = ask("Requirement rules", p.Rules)
		p.Policies = ask("Policy directory", p.Policies)
		p.Evidence = ask("Evidence index", p.Evidence)
		p.Output = ask("Output directory", p.Output)

		// 2. Policy evidence matching
		fmt.Fprintln(out, "\nStep 2: Policy evidence matching")
		fmt.Fprintln(out, "loose  - a policy is present if any evidence name contains it")
		fmt.Fprintln(out, "strict - the evidence name or file name must equal the policy")
		def := cfg.Scoring.PolicyMatch
		if def == "" {
			def = engine.MatchLoose.String()
		}
		mode := ask("Mode", def)
		if _, err := engine.ParseMatchMode(mode); err != nil {
			return err
		}
		cfg.Scoring.PolicyMatch = mode

		// 3. AI provider for 'assist'
		fmt.Fprintln(out, "\nStep 3: AI assistant (used by 'isocomply assist')")
		fmt.Fprintf(out, "Providers: %s, or 'skip'\n", strings.Join(adk.SupportedProviders, ", "))
		provider := strings.ToLower(ask("Provider", "skip"))
		if provider != "skip" {
			if err := setupProvider(cmd.Context(), cfg, provider, ask, out); err != nil {
				return err
			}
		}

		fmt.Fprintln(out, "\nStep 4: Saving Configuration...")
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := config.SaveConfig(ConfigFile, cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		fmt.Fprintln(out, "---------------------------------")
		fmt.Fprintln(out, "Setup Complete!")
		fmt.Fprintf(out, "Controls: %s\n", p.Controls)
		fmt.Fprintf(out, "Output:   %s\n", p.Output)
		if provider != "skip" {
			fmt.Fprintf(out, "Provider: %s\n", cfg.SelectedProvider)
			fmt.Fprintf(out, "Model:    %s\n", cfg.SelectedModel)
		}
		fmt.Fprintln(out, "You can now run 'isocomply run-all'")
		return nil
	},
}

func setupProvider(ctx context.Context, cfg *config.Config, provider string, ask func(string, string) string, out io.Writer) error {
	known := false
	for _, p := range adk.SupportedProviders {
		known = known || p == provider
	}
	if !known {
		return fmt.Errorf("invalid provider %q", provider)
	}

	apiKey := ask(fmt.Sprintf("API Key for %s", provider), cfg.GetAPIKey(provider))
	if apiKey == "" {
		return fmt.Errorf("API key cannot be empty")
	}

	fmt.Fprintln(out, "Validating key and fetching available models...")
	if ctx == nil {
		ctx = context.Background()
	}
	selectedModel := cfg.SelectedModel
	p, err := adk.NewProvider(ctx, provider, apiKey, "")
	var models []string
	if err == nil {
		models, err = p.ListModels(ctx)
		if closer, ok := p.(interface{ Close() }); ok {
			closer.Close()
		}
	}

	switch {
	case err != nil:
		fmt.Fprintf(out, "Warning: Could not fetch models from API: %v\n", err)
		selectedModel = ask("Model name", selectedModel)
	case len(models) == 0:
		fmt.Fprintln(out, "No models returned by the API.")
		selectedModel = ask("Model name", selectedModel)
	default:
		for i, m := range models {
			fmt.Fprintf(out, "%d. %s\n", i+1, m)
		}
		sel, err := strconv.Atoi(ask("Select model number", "1"))
		if err != nil || sel < 1 || sel > len(models) {
			fmt.Fprintln(out, "Invalid selection. Using first available model.")
			sel = 1
		}
		selectedModel = models[sel-1]
	}

	cfg.SelectedProvider = provider
	cfg.SelectedModel = selectedModel
	cfg.SetAPIKey(provider, apiKey)
	return nil
}

func init() {
	configCmd.AddCommand(setupCmd)
}
