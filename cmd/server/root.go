package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"connectly/internal/config"
)

// Loaded once by PersistentPreRunE and shared by every subcommand.
var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "connectly",
	Short: "Connectly social API server",
	Long: `Connectly serves the posts, comments, likes and tasks API.

Configuration is read from the environment, with an optional .env file
in the working directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		logger = cfg.Logger()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createTokenCmd)
	rootCmd.AddCommand(genCertCmd)
}
