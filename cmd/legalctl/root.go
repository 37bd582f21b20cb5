package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/yanqian/legal-assistant/internal/infra/config"
	"github.com/yanqian/legal-assistant/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "legalctl",
	Short: "Run the legal document analysis pipeline from the command line",
	Long: `legalctl runs the same summarize, segment and flag pipeline as the API
server against local files, and issues bearer tokens for the API when
authentication is enabled. Configuration is read the same way as the server
(CONFIG_PATH plus environment overrides).`,
	SilenceUsage: true,
}

// loadRuntime returns the shared configuration and a stderr logger so stdout
// stays clean for JSON output.
func loadRuntime(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.NewWithWriter(cmd.ErrOrStderr()), nil
}
