package handler

import (
	"log/slog"
	"net/http"

	"connectly/internal/httputil"
	"connectly/internal/transport/http/middleware"
)

type LikeHandler struct {
	likeService LikeService
	logger      *slog.Logger
}

func NewLikeHandler(likeService LikeService, logger *slog.Logger) *LikeHandler {
	return &LikeHandler{likeService: likeService, logger: logger}
}

// Like handles POST /posts/{id}/like. A repeated like is a 409.
func (h *LikeHandler) Like(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id", "post")
	if !ok {
		return
	}

	like, err := h.likeService.Like(r.Context(), middleware.IdentityFromContext(r.Context()), postID)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to like post")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, like)
}

// Unlike handles DELETE /posts/{id}/like
func (h *LikeHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id", "post")
	if !ok {
		return
	}

	if err := h.likeService.Unlike(r.Context(), middleware.IdentityFromContext(r.Context()), postID); err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to unlike post")
		return
	}
	writeMessage(w, "Post unliked")
}

// Likers handles GET /posts/{id}/likes
func (h *LikeHandler) Likers(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id", "post")
	if !ok {
		return
	}
	cursor, limit, ok := page(w, r)
	if !ok {
		return
	}

	likers, err := h.likeService.GetLikers(r.Context(), postID, cursor, limit)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to get likers")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, likers)
}
