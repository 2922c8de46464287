package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/isocomply/pkg/adk"
	"github.com/user/isocomply/pkg/wrappers"
)

var assistCmd = &cobra.Command{
	Use:     "assist",
	Aliases: []string{"interactive"},
	Short:   "Start an interactive AI session over the assessment",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, eng, err := setup()
		if err != nil {
			return err
		}

		providerName := cfg.SelectedProvider
		if providerName == "" {
			providerName = "gemini"
		}

		apiKey := cfg.GetAPIKey(providerName)
		if apiKey == "" && providerName == "gemini" {
			apiKey = os.Getenv("GOOGLE_API_KEY")
		}
		if apiKey == "" {
			return fmt.Errorf("API key not found; run 'isocomply config setup' to configure your keys")
		}

		out := cmd.OutOrStdout()
		ctx := cmd.Context()
		fmt.Fprintf(out, "Connecting to %s (Model: %s)...\n", providerName, cfg.SelectedModel)

		provider, err := adk.NewProvider(ctx, providerName, apiKey, cfg.SelectedModel)
		if err != nil {
			return fmt.Errorf("creating AI provider: %w", err)
		}
		if closer, ok := provider.(interface{ Close() }); ok {
			defer closer.Close()
		}

		agent := adk.NewAgent(provider)
		ws := wrappers.NewWorkspace(cfg.Paths, eng)
		for _, t := range wrappers.Tools(ws) {
			agent.RegisterTool(t)
		}
		agent.SetSystemPrompt(adk.GetSystemPrompt())

		scanner := bufio.NewScanner(cmd.InOrStdin())
		fmt.Fprintln(out, "\n---------------------------------------------------------")
		fmt.Fprintln(out, "isocomply assistant ready.")
		fmt.Fprintln(out, "Example: 'Which controls should I fix first?'")
		fmt.Fprintln(out, "Example: 'Why is A.8.24 only partially compliant?'")
		fmt.Fprintln(out, "Type 'quit' or 'exit' to stop.")
		fmt.Fprintln(out, "---------------------------------------------------------")

		for {
			fmt.Fprint(out, "\n> ")
			if !scanner.Scan() {
				break
			}
			input := strings.TrimSpace(scanner.Text())
			if input == "quit" || input == "exit" {
				break
			}
			if input == "" {
				continue
			}

			fmt.Fprint(out, "Agent thinking... ")
			resp, err := agent.Chat(ctx, input, func(msg string) {
				fmt.Fprintf(out, "\r\033[K[Progress]: %s\nAgent thinking... ", msg)
			})
			fmt.Fprint(out, "\r\033[K")

			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
			} else {
				fmt.Fprintf(out, "\n[Agent]: %s\n", resp)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(assistCmd)
}
