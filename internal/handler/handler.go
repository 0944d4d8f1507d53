// Package handler adapts the services to HTTP. Handlers decode the
// request, take the caller's identity from the auth middleware and let
// httputil map domain errors to statuses.
package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"connectly/internal/httputil"
	"connectly/internal/model"
)

// Service contracts consumed by the handlers. The *service types implement them.

type UserService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context, cursor *string, limit int) (*model.UserListResponse, error)
	Update(ctx context.Context, actor model.Identity, id int64, req *model.UpdateUserRequest) (*model.User, error)
	Delete(ctx context.Context, actor model.Identity, id int64) error
}

type AuthService interface {
	GenerateTokenPair(ctx context.Context, user *model.User, deviceInfo, ipAddress string) (*model.TokenPair, error)
	RefreshTokens(ctx context.Context, refreshTokenRaw, deviceInfo, ipAddress string) (*model.TokenPair, int64, error)
	RevokeRefreshToken(ctx context.Context, userID int64, refreshTokenRaw string) error
	RevokeAllUserTokens(ctx context.Context, userID int64) error
}

type PostService interface {
	Create(ctx context.Context, actor model.Identity, req model.CreatePostRequest) (*model.Post, error)
	GetByID(ctx context.Context, postID int64, viewer model.Identity) (*model.Post, error)
	List(ctx context.Context, viewer model.Identity, cursor *string, limit int) (*model.PostListResponse, error)
	Update(ctx context.Context, actor model.Identity, postID int64, req model.UpdatePostRequest) (*model.Post, error)
	Delete(ctx context.Context, actor model.Identity, postID int64) error
}

type LikeService interface {
	Like(ctx context.Context, actor model.Identity, postID int64) (*model.Like, error)
	Unlike(ctx context.Context, actor model.Identity, postID int64) error
	GetLikers(ctx context.Context, postID int64, cursor *string, limit int) (*model.LikersListResponse, error)
}

type CommentService interface {
	Create(ctx context.Context, actor model.Identity, postID int64, req model.CreateCommentRequest) (*model.Comment, error)
	List(ctx context.Context, postID int64, cursor *string, limit int) (*model.CommentListResponse, error)
	Delete(ctx context.Context, actor model.Identity, postID, commentID int64) error
}

type TaskService interface {
	Create(ctx context.Context, actor model.Identity, req model.CreateTaskRequest) (*model.Task, error)
	Get(ctx context.Context, actor model.Identity, taskID int64) (*model.Task, error)
	List(ctx context.Context, actor model.Identity, cursor *string, limit int) (*model.TaskListResponse, error)
	Update(ctx context.Context, actor model.Identity, taskID int64, req model.UpdateTaskRequest) (*model.Task, error)
	Delete(ctx context.Context, actor model.Identity, taskID int64) error
}

type ImageUploader interface {
	UploadImage(ctx context.Context, file io.Reader, size int64, contentType string) (*model.ImageUpload, error)
}

const maxJSONBodyBytes = 1 << 20

// decodeJSON reads a JSON request body into dst, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return false
	}
	return true
}

// pathID parses a numeric URL parameter, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, param, label string) (int64, bool) {
	id, ok := httputil.ParseID(chi.URLParam(r, param))
	if !ok {
		httputil.WriteBadRequest(w, "Invalid "+label+" ID")
	}
	return id, ok
}

func page(w http.ResponseWriter, r *http.Request) (*string, int, bool) {
	cursor, limit, ok := httputil.ParsePage(r)
	if !ok {
		httputil.WriteBadRequest(w, "Invalid limit parameter")
	}
	return cursor, limit, ok
}

// writeServiceError writes domain errors with their mapped status. Anything
// else is logged and answered with a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, message string) {
	if httputil.WriteAppError(w, err) {
		return
	}
	logger.ErrorContext(r.Context(), message, "method", r.Method, "path", r.URL.Path, "err", err)
	httputil.WriteInternalError(w, message)
}

func writeMessage(w http.ResponseWriter, message string) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": message})
}

// clientIP extracts the client IP from the request
func clientIP(r *http.Request) string {
	// Check X-Forwarded-For header (for proxied requests)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// RemoteAddr is "IP:port"
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
