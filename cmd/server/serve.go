package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"connectly/internal/database"
	"connectly/internal/handler"
	"connectly/internal/service"
	transport "connectly/internal/transport/http"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Run the HTTP API server until SIGINT or SIGTERM.

HTTPS is used when TLS_CERT_FILE and TLS_KEY_FILE are set. Image uploads
are enabled when the R2_* settings are complete, activity events when
REDIS_URL is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "apply the database schema before serving")
}

func runServe(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if serveMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
	}

	publisher, closePublisher, err := newPublisher(ctx)
	if err != nil {
		return err
	}
	defer closePublisher()

	var uploader handler.ImageUploader
	if cfg.MediaEnabled() {
		media, err := service.NewMediaService(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to init media service: %w", err)
		}
		uploader = media
	} else {
		logger.Info("R2 not configured, image uploads disabled")
	}

	svc := newServices(db, publisher)
	router := transport.NewRouter(transport.RouterConfig{
		AuthHandler:    handler.NewAuthHandler(svc.users, svc.auth, logger),
		UserHandler:    handler.NewUserHandler(svc.users, logger),
		PostHandler:    handler.NewPostHandler(svc.posts, logger),
		LikeHandler:    handler.NewLikeHandler(svc.likes, logger),
		CommentHandler: handler.NewCommentHandler(svc.comments, logger),
		TaskHandler:    handler.NewTaskHandler(svc.tasks, logger),
		MediaHandler:   handler.NewMediaHandler(uploader, logger),
		JWTSecret:      cfg.JWTSecret,
	})

	return transport.Run(ctx, cfg, transport.NewServer(cfg, router), logger)
}
