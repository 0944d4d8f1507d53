package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"connectly/internal/database"
	"connectly/internal/factory"
	"connectly/internal/queue"
	"connectly/internal/redis"
	"connectly/internal/repository"
	"connectly/internal/service"
)

// services is the wired service layer shared by the subcommands.
type services struct {
	users    *service.UserService
	auth     *service.AuthService
	posts    *service.PostService
	likes    *service.LikeService
	comments *service.CommentService
	tasks    *service.TaskService
}

func openDB() (*sqlx.DB, error) {
	db, err := database.Connect(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// newPublisher connects to Redis when REDIS_URL is set. Without it, events
// are dropped. The returned close func is always safe to call.
func newPublisher(ctx context.Context) (queue.Publisher, func(), error) {
	if cfg.RedisURL == "" {
		logger.Info("REDIS_URL not set, activity events disabled")
		return queue.NopPublisher{}, func() {}, nil
	}

	client, err := redis.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info("connected to redis")
	return queue.NewPublisher(client.Client, logger), func() { client.Close() }, nil
}

func newServices(db *sqlx.DB, publisher queue.Publisher) *services {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	f := factory.New(factory.DefaultConfig(), postRepo, taskRepo)

	return &services{
		users:    service.NewUserService(userRepo, logger),
		auth:     service.NewAuthService(repository.NewRefreshTokenRepository(db), userRepo, cfg, logger),
		posts:    service.NewPostService(f, postRepo, userRepo, publisher, logger),
		likes:    service.NewLikeService(repository.NewLikeRepository(db), postRepo, publisher, logger),
		comments: service.NewCommentService(repository.NewCommentRepository(db), postRepo, publisher, logger),
		tasks:    service.NewTaskService(f, taskRepo, userRepo, publisher, logger),
	}
}
