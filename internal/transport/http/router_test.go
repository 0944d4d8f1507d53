package http

import (
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"connectly/internal/handler"
)

func testRouter() stdhttp.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(RouterConfig{
		AuthHandler:    handler.NewAuthHandler(nil, nil, logger),
		UserHandler:    handler.NewUserHandler(nil, logger),
		PostHandler:    handler.NewPostHandler(nil, logger),
		LikeHandler:    handler.NewLikeHandler(nil, logger),
		CommentHandler: handler.NewCommentHandler(nil, logger),
		TaskHandler:    handler.NewTaskHandler(nil, logger),
		MediaHandler:   handler.NewMediaHandler(nil, logger),
		JWTSecret:      "test-secret",
	})
}

func TestRouter_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/health", nil))

	assert.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	routes := []struct{ method, path string }{
		{stdhttp.MethodGet, "/me"},
		{stdhttp.MethodGet, "/protected"},
		{stdhttp.MethodPost, "/auth/logout"},
		{stdhttp.MethodPost, "/posts"},
		{stdhttp.MethodPatch, "/posts/1"},
		{stdhttp.MethodDelete, "/posts/1"},
		{stdhttp.MethodPost, "/posts/1/like"},
		{stdhttp.MethodDelete, "/posts/1/comments/2"},
		{stdhttp.MethodGet, "/tasks"},
		{stdhttp.MethodPatch, "/users/1"},
		{stdhttp.MethodPost, "/media/images"},
	}

	router := testRouter()
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(rt.method, rt.path, nil))
			assert.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRouter_InvalidIDOnPublicRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/posts/abc", nil))

	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
}
