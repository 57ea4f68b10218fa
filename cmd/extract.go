package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// newExtractCmd creates the 'extract' subcommand, a one-shot extraction that
// prints the result as JSON to stdout.
func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <url>",
		Short: "Extract emails from a single URL and print JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runExtractCommand,
	}
}

func runExtractCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	service := buildService(cfg, logger)
	result, err := service.Extract(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("extract %s: %w", args[0], err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}
