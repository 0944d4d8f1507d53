package handler

import (
	"log/slog"
	"net/http"

	"connectly/internal/httputil"
	"connectly/internal/model"
	"connectly/internal/transport/http/middleware"
)

type UserHandler struct {
	userService UserService
	logger      *slog.Logger
}

func NewUserHandler(userService UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// List handles GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	cursor, limit, ok := page(w, r)
	if !ok {
		return
	}

	users, err := h.userService.List(r.Context(), cursor, limit)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to list users")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, users)
}

// Get handles GET /users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to get user")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

// Update handles PATCH /users/{id}. Users may only edit themselves.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}

	var req model.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userService.Update(r.Context(), middleware.IdentityFromContext(r.Context()), userID, &req)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to update user")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

// Delete handles DELETE /users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}

	if err := h.userService.Delete(r.Context(), middleware.IdentityFromContext(r.Context()), userID); err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to delete user")
		return
	}
	writeMessage(w, "User deleted successfully")
}
