package main

import (
	"time"

	"github.com/spf13/cobra"

	"connectly/internal/database"
	"connectly/internal/queue"
)

var pruneAfter time.Duration

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema and prune expired refresh tokens",
	Long: `Apply the database schema. Every statement is idempotent, so running
migrate against an up-to-date database is a no-op.

Refresh tokens that expired more than --prune-after ago are deleted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		logger.Info("schema applied")

		svc := newServices(db, queue.NopPublisher{})
		_, err = svc.auth.PruneExpiredTokens(ctx, pruneAfter)
		return err
	},
}

func init() {
	migrateCmd.Flags().DurationVar(&pruneAfter, "prune-after", 7*24*time.Hour, "delete refresh tokens expired longer than this")
}
