package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"connectly/internal/httputil"
	"connectly/internal/model"
	"connectly/internal/transport/http/middleware"
)

// AuthHandler groups auth-related HTTP endpoints and their dependencies.
type AuthHandler struct {
	userService UserService
	authService AuthService
	logger      *slog.Logger
}

func NewAuthHandler(userService UserService, authService AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authService: authService,
		logger:      logger,
	}
}

// Register handles user sign-up
// POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to register user")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, user)
}

// Login handles user login
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		httputil.WriteBadRequest(w, "Username is required")
		return
	}
	if req.Password == "" {
		httputil.WriteBadRequest(w, "Password is required")
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			httputil.WriteUnauthorized(w, "Invalid username or password")
			return
		}
		writeServiceError(w, r, h.logger, err, "Failed to login")
		return
	}

	tokenPair, err := h.authService.GenerateTokenPair(r.Context(), user, r.Header.Get("User-Agent"), clientIP(r))
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to generate tokens")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.LoginResponse{
		User:      user,
		TokenPair: *tokenPair,
	})
}

// Me returns the currently authenticated user
// GET /me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to get user")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// Protected is a minimal authenticated endpoint for checking tokens.
// GET /protected
func (h *AuthHandler) Protected(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, "Authenticated!")
}

// Refresh handles token refresh
// POST /auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req model.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		httputil.WriteBadRequest(w, "Refresh token is required")
		return
	}

	tokenPair, _, err := h.authService.RefreshTokens(r.Context(), req.RefreshToken, r.Header.Get("User-Agent"), clientIP(r))
	if err != nil {
		switch {
		case errors.Is(err, model.ErrRefreshTokenNotFound):
			httputil.WriteUnauthorizedWithCode(w, model.CodeTokenInvalid, "Invalid refresh token")
		case errors.Is(err, model.ErrRefreshTokenExpired):
			httputil.WriteUnauthorizedWithCode(w, model.CodeTokenExpired, "Refresh token has expired")
		case errors.Is(err, model.ErrRefreshTokenReused):
			httputil.WriteUnauthorizedWithCode(w, model.CodeTokenReused, "Refresh token reuse detected. Please login again.")
		default:
			writeServiceError(w, r, h.logger, err, "Failed to refresh tokens")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, tokenPair)
}

// Logout revokes one refresh token of the caller
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		httputil.WriteBadRequest(w, "Refresh token is required")
		return
	}

	// An unknown or foreign token still logs out successfully.
	err := h.authService.RevokeRefreshToken(r.Context(), userID, req.RefreshToken)
	if err != nil && !errors.Is(err, model.ErrRefreshTokenNotFound) {
		writeServiceError(w, r, h.logger, err, "Failed to logout")
		return
	}

	writeMessage(w, "Logged out successfully")
}

// LogoutAll handles logout from all devices
// POST /auth/logout-all
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	if err := h.authService.RevokeAllUserTokens(r.Context(), userID); err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to logout from all devices")
		return
	}

	writeMessage(w, "Logged out from all devices")
}
