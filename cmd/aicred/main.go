package main

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"

	"github.com/aicred/aicred/cmd/aicred/commands"
	"github.com/aicred/aicred/internal/config"
	"github.com/aicred/aicred/internal/logging"
	"github.com/aicred/aicred/internal/metrics"
)

var (
	version = "0.1.0"
	commit  = "none"
	date    = "unknown"
)

func main() {
	defer memguard.Purge()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		memguard.Purge()
		os.Exit(1)
	}
}

func run() error {
	// Global flags
	var (
		noColor        bool
		debug          bool
		nonInteractive bool
		enableMetrics  bool
		storeDir       string
	)

	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "aicred",
		Short: "Discover and curate GenAI provider credentials",
		Long: `aicred scans your home directory for GenAI API keys and agent
configurations, then walks you through turning the findings into a
curated set of provider instances.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg.Logger = logging.New(debug, noColor)
			cfg.Debug = debug
			cfg.NoColor = noColor
			cfg.NonInteractive = nonInteractive
			cfg.StoreDir = storeDir
			if enableMetrics {
				metrics.InitMetrics()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Non-interactive mode")
	rootCmd.PersistentFlags().BoolVar(&enableMetrics, "metrics", false, "Register Prometheus scan metrics")
	rootCmd.PersistentFlags().StringVar(&storeDir, "store-dir", "", "Override the config directory")

	rootCmd.AddCommand(
		commands.NewScanCommand(cfg),
		commands.NewSetupCommand(cfg),
		commands.NewProvidersCommand(cfg),
		commands.NewScannersCommand(cfg),
		commands.NewInstancesCommand(cfg),
		commands.NewLabelsCommand(cfg),
		commands.NewTagsCommand(cfg),
		commands.NewDoctorCommand(cfg),
		commands.NewVersionCommand(cfg),
		commands.NewCompletionCommand(cfg),
	)

	return rootCmd.Execute()
}
