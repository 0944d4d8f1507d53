package handler

import (
	"log/slog"
	"net/http"

	"connectly/internal/httputil"
	"connectly/internal/model"
	"connectly/internal/transport/http/middleware"
)

type CommentHandler struct {
	commentService CommentService
	logger         *slog.Logger
}

func NewCommentHandler(commentService CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{commentService: commentService, logger: logger}
}

// List handles GET /posts/{id}/comments
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id", "post")
	if !ok {
		return
	}
	cursor, limit, ok := page(w, r)
	if !ok {
		return
	}

	comments, err := h.commentService.List(r.Context(), postID, cursor, limit)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to list comments")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, comments)
}

// Create handles POST /posts/{id}/comments
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id", "post")
	if !ok {
		return
	}

	var req model.CreateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.commentService.Create(r.Context(), middleware.IdentityFromContext(r.Context()), postID, req)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to create comment")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, comment)
}

// Delete handles DELETE /posts/{id}/comments/{commentId}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id", "post")
	if !ok {
		return
	}
	commentID, ok := pathID(w, r, "commentId", "comment")
	if !ok {
		return
	}

	if err := h.commentService.Delete(r.Context(), middleware.IdentityFromContext(r.Context()), postID, commentID); err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to delete comment")
		return
	}
	writeMessage(w, "Comment deleted successfully")
}
