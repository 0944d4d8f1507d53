package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"connectly/internal/httputil"
	"connectly/internal/model"
	"connectly/internal/transport/http/middleware"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newRequest builds a request carrying identity and chi URL params given as
// alternating key, value pairs.
func newRequest(method, target string, body any, identity model.Identity, params ...string) *http.Request {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(params); i += 2 {
		rctx.URLParams.Add(params[i], params[i+1])
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if identity.Authenticated() {
		ctx = middleware.WithIdentity(ctx, identity)
	}
	return req.WithContext(ctx)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httputil.ErrorDetail {
	t.Helper()
	var resp httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

type fakeUserService struct {
	registerFn func(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	loginFn    func(ctx context.Context, req *model.LoginRequest) (*model.User, error)
	getByIDFn  func(ctx context.Context, id int64) (*model.User, error)
	updateFn   func(ctx context.Context, actor model.Identity, id int64, req *model.UpdateUserRequest) (*model.User, error)
	deleteFn   func(ctx context.Context, actor model.Identity, id int64) error
}

func (f *fakeUserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	return f.registerFn(ctx, req)
}

func (f *fakeUserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	return f.loginFn(ctx, req)
}

func (f *fakeUserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeUserService) List(ctx context.Context, cursor *string, limit int) (*model.UserListResponse, error) {
	return &model.UserListResponse{Users: []model.User{}}, nil
}

func (f *fakeUserService) Update(ctx context.Context, actor model.Identity, id int64, req *model.UpdateUserRequest) (*model.User, error) {
	return f.updateFn(ctx, actor, id, req)
}

func (f *fakeUserService) Delete(ctx context.Context, actor model.Identity, id int64) error {
	return f.deleteFn(ctx, actor, id)
}

type fakeAuthService struct {
	generateFn func(ctx context.Context, user *model.User, deviceInfo, ipAddress string) (*model.TokenPair, error)
	refreshFn  func(ctx context.Context, raw, deviceInfo, ipAddress string) (*model.TokenPair, int64, error)
	revokeFn   func(ctx context.Context, userID int64, raw string) error

	revokedAll []int64
}

func (f *fakeAuthService) GenerateTokenPair(ctx context.Context, user *model.User, deviceInfo, ipAddress string) (*model.TokenPair, error) {
	return f.generateFn(ctx, user, deviceInfo, ipAddress)
}

func (f *fakeAuthService) RefreshTokens(ctx context.Context, raw, deviceInfo, ipAddress string) (*model.TokenPair, int64, error) {
	return f.refreshFn(ctx, raw, deviceInfo, ipAddress)
}

func (f *fakeAuthService) RevokeRefreshToken(ctx context.Context, userID int64, raw string) error {
	return f.revokeFn(ctx, userID, raw)
}

func (f *fakeAuthService) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	f.revokedAll = append(f.revokedAll, userID)
	return nil
}

type fakePostService struct {
	createFn func(ctx context.Context, actor model.Identity, req model.CreatePostRequest) (*model.Post, error)
	getFn    func(ctx context.Context, postID int64, viewer model.Identity) (*model.Post, error)
	updateFn func(ctx context.Context, actor model.Identity, postID int64, req model.UpdatePostRequest) (*model.Post, error)
	deleteFn func(ctx context.Context, actor model.Identity, postID int64) error
	listFn   func(ctx context.Context, viewer model.Identity, cursor *string, limit int) (*model.PostListResponse, error)
}

func (f *fakePostService) Create(ctx context.Context, actor model.Identity, req model.CreatePostRequest) (*model.Post, error) {
	return f.createFn(ctx, actor, req)
}

func (f *fakePostService) GetByID(ctx context.Context, postID int64, viewer model.Identity) (*model.Post, error) {
	return f.getFn(ctx, postID, viewer)
}

func (f *fakePostService) List(ctx context.Context, viewer model.Identity, cursor *string, limit int) (*model.PostListResponse, error) {
	return f.listFn(ctx, viewer, cursor, limit)
}

func (f *fakePostService) Update(ctx context.Context, actor model.Identity, postID int64, req model.UpdatePostRequest) (*model.Post, error) {
	return f.updateFn(ctx, actor, postID, req)
}

func (f *fakePostService) Delete(ctx context.Context, actor model.Identity, postID int64) error {
	return f.deleteFn(ctx, actor, postID)
}

type fakeLikeService struct {
	likeFn   func(ctx context.Context, actor model.Identity, postID int64) (*model.Like, error)
	unlikeFn func(ctx context.Context, actor model.Identity, postID int64) error
}

func (f *fakeLikeService) Like(ctx context.Context, actor model.Identity, postID int64) (*model.Like, error) {
	return f.likeFn(ctx, actor, postID)
}

func (f *fakeLikeService) Unlike(ctx context.Context, actor model.Identity, postID int64) error {
	return f.unlikeFn(ctx, actor, postID)
}

func (f *fakeLikeService) GetLikers(ctx context.Context, postID int64, cursor *string, limit int) (*model.LikersListResponse, error) {
	return &model.LikersListResponse{Users: []model.UserSummary{}}, nil
}

type fakeCommentService struct {
	createFn func(ctx context.Context, actor model.Identity, postID int64, req model.CreateCommentRequest) (*model.Comment, error)
	deleteFn func(ctx context.Context, actor model.Identity, postID, commentID int64) error
}

func (f *fakeCommentService) Create(ctx context.Context, actor model.Identity, postID int64, req model.CreateCommentRequest) (*model.Comment, error) {
	return f.createFn(ctx, actor, postID, req)
}

func (f *fakeCommentService) List(ctx context.Context, postID int64, cursor *string, limit int) (*model.CommentListResponse, error) {
	return &model.CommentListResponse{Comments: []model.Comment{}}, nil
}

func (f *fakeCommentService) Delete(ctx context.Context, actor model.Identity, postID, commentID int64) error {
	return f.deleteFn(ctx, actor, postID, commentID)
}

type fakeTaskService struct {
	createFn func(ctx context.Context, actor model.Identity, req model.CreateTaskRequest) (*model.Task, error)
	getFn    func(ctx context.Context, actor model.Identity, taskID int64) (*model.Task, error)
	updateFn func(ctx context.Context, actor model.Identity, taskID int64, req model.UpdateTaskRequest) (*model.Task, error)
}

func (f *fakeTaskService) Create(ctx context.Context, actor model.Identity, req model.CreateTaskRequest) (*model.Task, error) {
	return f.createFn(ctx, actor, req)
}

func (f *fakeTaskService) Get(ctx context.Context, actor model.Identity, taskID int64) (*model.Task, error) {
	return f.getFn(ctx, actor, taskID)
}

func (f *fakeTaskService) List(ctx context.Context, actor model.Identity, cursor *string, limit int) (*model.TaskListResponse, error) {
	return &model.TaskListResponse{Tasks: []model.Task{}}, nil
}

func (f *fakeTaskService) Update(ctx context.Context, actor model.Identity, taskID int64, req model.UpdateTaskRequest) (*model.Task, error) {
	return f.updateFn(ctx, actor, taskID, req)
}

func (f *fakeTaskService) Delete(ctx context.Context, actor model.Identity, taskID int64) error {
	return nil
}

type fakeUploader struct {
	uploadFn func(ctx context.Context, file io.Reader, size int64, contentType string) (*model.ImageUpload, error)
}

func (f *fakeUploader) UploadImage(ctx context.Context, file io.Reader, size int64, contentType string) (*model.ImageUpload, error) {
	return f.uploadFn(ctx, file, size, contentType)
}
