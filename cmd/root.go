// Package cmd provides the fipe-web command line.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fipe-web/config"
	"fipe-web/logging"
)

const version = "0.1.0"

var (
	cfgFile string
	verbose bool

	settings = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "fipe-web",
	Short: "Web front-end for the FIPE vehicle price catalog",
	Long: `fipe-web serves HTML pages to browse the FIPE catalog by brand,
model and year, charts the price of a model across its years, simulates
vehicle financing and keeps a history of the consulted prices.

Examples:
  fipe-web serve
  fipe-web serve --address :9090 --history-backend redis
  FIPE_CATALOG_TIMEOUT=10s fipe-web serve`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the configuration and builds the logger.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(settings, cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logging: %w", err)
	}
	return cfg, logger, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "fipe-web version %s\n", version)
	},
}
