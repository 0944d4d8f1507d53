package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"connectly/internal/model"
	"connectly/internal/queue"
)

var (
	tokenUsername string
	tokenEmail    string
	tokenPassword string
)

var createTokenCmd = &cobra.Command{
	Use:   "create-token",
	Short: "Create a user if needed and print a token pair",
	Long: `Look up the user by username, registering it with the given email and
password when it does not exist, and print a fresh access/refresh token
pair as JSON.

Examples:
  connectly create-token
  connectly create-token --username alice --email alice@example.com --password s3cret`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate(); err != nil {
			return err
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		svc := newServices(db, queue.NopPublisher{})
		user, created, err := svc.users.GetOrCreate(ctx, &model.RegisterRequest{
			Username: tokenUsername,
			Email:    tokenEmail,
			Password: tokenPassword,
		})
		if err != nil {
			return fmt.Errorf("failed to get or create user: %w", err)
		}
		if created {
			logger.Info("user created", "user_id", user.ID, "username", user.Username)
		}

		pair, err := svc.auth.GenerateTokenPair(ctx, user, "connectly create-token", "")
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(model.LoginResponse{User: user, TokenPair: *pair})
	},
}

func init() {
	createTokenCmd.Flags().StringVar(&tokenUsername, "username", "testuser", "username to look up or create")
	createTokenCmd.Flags().StringVar(&tokenEmail, "email", "test@example.com", "email for a newly created user")
	createTokenCmd.Flags().StringVar(&tokenPassword, "password", "secure_pass123", "password for a newly created user")
}
