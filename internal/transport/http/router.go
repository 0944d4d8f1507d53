package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"connectly/internal/handler"
	"connectly/internal/httputil"
	authmw "connectly/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	PostHandler    *handler.PostHandler
	LikeHandler    *handler.LikeHandler
	CommentHandler *handler.CommentHandler
	TaskHandler    *handler.TaskHandler
	MediaHandler   *handler.MediaHandler
	JWTSecret      string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/refresh", cfg.AuthHandler.Refresh)
	})

	// Public reads with optional authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.OptionalAuthMiddleware(cfg.JWTSecret))

		r.Get("/users", cfg.UserHandler.List)
		r.Get("/users/{id}", cfg.UserHandler.Get)

		r.Get("/posts", cfg.PostHandler.List)
		r.Get("/posts/{id}", cfg.PostHandler.GetByID)
		r.Get("/posts/{id}/likes", cfg.LikeHandler.Likers)
		r.Get("/posts/{id}/comments", cfg.CommentHandler.List)
	})

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		r.Get("/me", cfg.AuthHandler.Me)
		r.Get("/protected", cfg.AuthHandler.Protected)

		r.Post("/auth/logout", cfg.AuthHandler.Logout)
		r.Post("/auth/logout-all", cfg.AuthHandler.LogoutAll)

		r.Patch("/users/{id}", cfg.UserHandler.Update)
		r.Delete("/users/{id}", cfg.UserHandler.Delete)

		r.Post("/posts", cfg.PostHandler.Create)
		r.Patch("/posts/{id}", cfg.PostHandler.Update)
		r.Delete("/posts/{id}", cfg.PostHandler.Delete)

		r.Post("/posts/{id}/like", cfg.LikeHandler.Like)
		r.Delete("/posts/{id}/like", cfg.LikeHandler.Unlike)

		r.Post("/posts/{id}/comments", cfg.CommentHandler.Create)
		r.Delete("/posts/{id}/comments/{commentId}", cfg.CommentHandler.Delete)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", cfg.TaskHandler.List)
			r.Post("/", cfg.TaskHandler.Create)
			r.Get("/{id}", cfg.TaskHandler.Get)
			r.Patch("/{id}", cfg.TaskHandler.Update)
			r.Delete("/{id}", cfg.TaskHandler.Delete)
		})

		r.Post("/media/images", cfg.MediaHandler.UploadImage)
	})

	return r
}
