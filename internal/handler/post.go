package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"connectly/internal/httputil"
	"connectly/internal/model"
	"connectly/internal/transport/http/middleware"
)

type PostHandler struct {
	postService PostService
	logger      *slog.Logger
}

func NewPostHandler(postService PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		postService: postService,
		logger:      logger,
	}
}

// List handles GET /posts
// Returns posts newest first with cursor pagination.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	cursor, limit, ok := page(w, r)
	if !ok {
		return
	}

	posts, err := h.postService.List(r.Context(), middleware.IdentityFromContext(r.Context()), cursor, limit)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to list posts")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, posts)
}

// Create handles POST /posts
// post_type defaults to text; a title is required here even though the
// factory would default it.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreatePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.PostType == "" {
		req.PostType = string(model.PostTypeText)
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		httputil.WriteAppError(w, model.NewInvalidField("title", "Title is required."))
		return
	}

	post, err := h.postService.Create(r.Context(), middleware.IdentityFromContext(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to create post")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, post)
}

// GetByID handles GET /posts/{id}
func (h *PostHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id", "post")
	if !ok {
		return
	}

	post, err := h.postService.GetByID(r.Context(), postID, middleware.IdentityFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to get post")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, post)
}

// Update handles PATCH /posts/{id}
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id", "post")
	if !ok {
		return
	}

	var req model.UpdatePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := h.postService.Update(r.Context(), middleware.IdentityFromContext(r.Context()), postID, req)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to update post")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, post)
}

// Delete handles DELETE /posts/{id}
// Hard-deletes a post (only owner can delete).
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id", "post")
	if !ok {
		return
	}

	if err := h.postService.Delete(r.Context(), middleware.IdentityFromContext(r.Context()), postID); err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to delete post")
		return
	}
	writeMessage(w, "Post deleted successfully")
}
