package cmd

import (
	"github.com/spf13/cobra"
	"github.com/user/isocomply/pkg/config"
	"github.com/user/isocomply/pkg/engine"
	"github.com/user/isocomply/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:   "isocomply",
	Short: "ISO 27001 control, evidence and policy compliance engine",
	Long: `isocomply maps ISO 27001 Annex A controls to their required evidence and
policies, checks an evidence index and policy documents against them, and
reports per-control status, gaps and (weighted) compliance.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.InitLogger(DebugMode)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

var (
	DebugMode  bool
	ConfigFile string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&DebugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&ConfigFile, "config", "", "Config file (default ~/.isocomply/config.yaml)")
}

func loadConfig() (*config.Config, error) {
	return config.LoadConfig(ConfigFile)
}

func newEngine(cfg *config.Config) (*engine.Engine, error) {
	opts, err := cfg.EngineOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts, engine.WithLogger(logging.Base()))
	return engine.NewEngine(opts...), nil
}
