// Package cli implements the esgrate command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/build-flow-labs/esgrate/internal/platform/config"
	"github.com/build-flow-labs/esgrate/internal/platform/logger"
	"github.com/build-flow-labs/esgrate/schema"
)

var (
	configPath string
	logLevel   string
)

// RootCmd is the esgrate command.
var RootCmd = &cobra.Command{
	Use:   "esgrate",
	Short: "ESG scoring for green financing",
	Long: `esgrate scores ESG self-assessments and maps them onto financing tiers.

It normalizes questionnaire answers onto the scoring rubric, rates the
result A-D, classifies economic activities against the sustainable
taxonomy, and estimates Scope 1 and 2 carbon footprints.

Run "esgrate serve" to expose the same engine over HTTP with assessment
history and achievements.`,
	Version:      schema.Version,
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (env vars override it)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override: debug, info, warn, error")

	RootCmd.AddCommand(scoreCmd)
	RootCmd.AddCommand(assessCmd)
	RootCmd.AddCommand(classifyCmd)
	RootCmd.AddCommand(carbonCmd)
	RootCmd.AddCommand(griCmd)
	RootCmd.AddCommand(historyCmd)
	RootCmd.AddCommand(serveCmd)
	RootCmd.AddCommand(versionCmd)
}

// loadConfig reads --config and builds the logger it describes.
func loadConfig() (config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}
