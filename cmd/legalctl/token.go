package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yanqian/legal-assistant/internal/domain/auth"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token [subject]",
	Short: "Issue a bearer token for the analysis API",
	Args:  cobra.ExactArgs(1),
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (defaults to auth.tokenTtl)")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	if cfg.Auth.Secret == "" {
		return errors.New("AUTH_SECRET is not configured")
	}
	ttl := cfg.Auth.TokenTTL
	if tokenTTL > 0 {
		ttl = tokenTTL
	}
	svc := auth.NewService(auth.Config{Secret: cfg.Auth.Secret, TokenTTL: ttl}, logger)
	token, err := svc.Issue(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
