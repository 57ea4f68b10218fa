// Package cmd defines and implements the CLI commands for the emailsift executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mfalzone/emailsift/internal/config"
	"github.com/mfalzone/emailsift/internal/extract"
	collyfetcher "github.com/mfalzone/emailsift/internal/fetcher/colly"
	"github.com/mfalzone/emailsift/internal/logging"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emailsift",
		Short: "Extract email addresses from a single web page",
		Long: `emailsift fetches one web page over HTTP(S), scans its content for
email addresses (visible text and mailto: links), filters known false
positives, and returns a deduplicated sorted list. It runs either as a
rate-limited HTTP API or as a one-shot CLI extraction.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is built-in defaults + EMAILSIFT_* env)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newExtractCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads configuration for a subcommand run.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// buildService assembles the extraction pipeline from configuration.
func buildService(cfg config.Config, logger *zap.Logger) *extract.Service {
	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent:    cfg.Fetch.UserAgent,
		Timeout:      cfg.FetchTimeout(),
		MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
	})
	return extract.NewService(fetcher, logger)
}

// newLogger builds the zap logger and makes errors fatal; no command can run
// without logging.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}
