package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"connectly/internal/model"
	"connectly/internal/queue"
)

// =============================================================================
// MOCK REPOSITORIES
// =============================================================================
//
// Each mock implements a repository interface with optional function fields.
// A nil field falls back to a neutral default so tests only define what they need.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockUserRepository struct {
	createFn        func(ctx context.Context, user *model.User) error
	getByIDFn       func(ctx context.Context, id int64) (*model.User, error)
	getByUsernameFn func(ctx context.Context, username string) (*model.User, error)
	updateEmailFn   func(ctx context.Context, id int64, email string) (*model.User, error)
	deleteFn        func(ctx context.Context, id int64) error

	createCalls []createCall
	deleteCalls []int64
}

type createCall struct {
	User *model.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, createCall{User: user})
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	_, err := m.GetByID(ctx, id)
	return err == nil, nil
}

func (m *mockUserRepository) List(ctx context.Context, cursor *string, limit int) ([]model.User, *string, error) {
	return []model.User{}, nil, nil
}

func (m *mockUserRepository) UpdateEmail(ctx context.Context, id int64, email string) (*model.User, error) {
	if m.updateEmailFn != nil {
		return m.updateEmailFn(ctx, id, email)
	}
	return &model.User{ID: id, Email: email}, nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id int64) error {
	m.deleteCalls = append(m.deleteCalls, id)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// userStore returns a mock that knows the given users by ID.
func userStore(users ...*model.User) *mockUserRepository {
	byID := make(map[int64]*model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			if u, ok := byID[id]; ok {
				return u, nil
			}
			return nil, model.ErrUserNotFound
		},
	}
}

type mockPostRepository struct {
	insertFn     func(ctx context.Context, post *model.Post) error
	getByIDFn    func(ctx context.Context, postID int64) (*model.Post, error)
	listFn       func(ctx context.Context, cursor *string, limit int) ([]model.Post, *string, error)
	updateFn     func(ctx context.Context, post *model.Post) error
	deleteFn     func(ctx context.Context, postID int64) error
	checkLikesFn func(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error)

	inserted []*model.Post
	updated  []*model.Post
	deleted  []int64
}

func (m *mockPostRepository) InsertPost(ctx context.Context, post *model.Post) error {
	if m.insertFn != nil {
		if err := m.insertFn(ctx, post); err != nil {
			return err
		}
	} else {
		post.ID = int64(len(m.inserted) + 1)
		post.CreatedAt = time.Now()
		post.UpdatedAt = post.CreatedAt
	}
	m.inserted = append(m.inserted, post)
	return nil
}

func (m *mockPostRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, postID)
	}
	return nil, model.ErrPostNotFound
}

func (m *mockPostRepository) List(ctx context.Context, cursor *string, limit int) ([]model.Post, *string, error) {
	if m.listFn != nil {
		return m.listFn(ctx, cursor, limit)
	}
	return []model.Post{}, nil, nil
}

func (m *mockPostRepository) Update(ctx context.Context, post *model.Post) error {
	m.updated = append(m.updated, post)
	if m.updateFn != nil {
		return m.updateFn(ctx, post)
	}
	return nil
}

func (m *mockPostRepository) Delete(ctx context.Context, postID int64) error {
	m.deleted = append(m.deleted, postID)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, postID)
	}
	return nil
}

func (m *mockPostRepository) Exists(ctx context.Context, postID int64) (bool, error) {
	_, err := m.GetByID(ctx, postID)
	return err == nil, nil
}

func (m *mockPostRepository) CheckLikes(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error) {
	if m.checkLikesFn != nil {
		return m.checkLikesFn(ctx, userID, postIDs)
	}
	return map[int64]bool{}, nil
}

// postStore returns a mock that serves a copy of post on every GetByID.
func postStore(post model.Post) *mockPostRepository {
	return &mockPostRepository{
		getByIDFn: func(ctx context.Context, postID int64) (*model.Post, error) {
			if postID != post.ID {
				return nil, model.ErrPostNotFound
			}
			p := post
			p.Metadata = post.Metadata.Clone()
			return &p, nil
		},
	}
}

type mockLikeRepository struct {
	createFn func(ctx context.Context, userID, postID int64) (*model.Like, error)
	deleteFn func(ctx context.Context, userID, postID int64) error
}

func (m *mockLikeRepository) Create(ctx context.Context, userID, postID int64) (*model.Like, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, postID)
	}
	return &model.Like{ID: 1, UserID: userID, PostID: postID}, nil
}

func (m *mockLikeRepository) Delete(ctx context.Context, userID, postID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, postID)
	}
	return nil
}

func (m *mockLikeRepository) GetPostLikers(ctx context.Context, postID int64, cursor *string, limit int) ([]model.UserSummary, *string, error) {
	return nil, nil, nil
}

type mockCommentRepository struct {
	getByIDFn func(ctx context.Context, commentID int64) (*model.Comment, error)

	created []*model.Comment
	deleted []int64
}

func (m *mockCommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	comment.ID = int64(len(m.created) + 1)
	comment.CreatedAt = time.Now()
	m.created = append(m.created, comment)
	return nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, commentID)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepository) GetByPostID(ctx context.Context, postID int64, cursor *string, limit int) ([]model.Comment, *string, error) {
	return []model.Comment{}, nil, nil
}

func (m *mockCommentRepository) Delete(ctx context.Context, commentID int64) error {
	m.deleted = append(m.deleted, commentID)
	return nil
}

type mockTaskRepository struct {
	getByIDFn func(ctx context.Context, taskID int64) (*model.Task, error)
	listFn    func(ctx context.Context, userID int64, cursor *string, limit int) ([]model.Task, *string, error)

	inserted []*model.Task
	updated  []*model.Task
	deleted  []int64
}

func (m *mockTaskRepository) InsertTask(ctx context.Context, task *model.Task) error {
	task.ID = int64(len(m.inserted) + 1)
	m.inserted = append(m.inserted, task)
	return nil
}

func (m *mockTaskRepository) GetByID(ctx context.Context, taskID int64) (*model.Task, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, taskID)
	}
	return nil, model.ErrTaskNotFound
}

func (m *mockTaskRepository) ListByAssignee(ctx context.Context, userID int64, cursor *string, limit int) ([]model.Task, *string, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, cursor, limit)
	}
	return []model.Task{}, nil, nil
}

func (m *mockTaskRepository) Update(ctx context.Context, task *model.Task) error {
	m.updated = append(m.updated, task)
	return nil
}

func (m *mockTaskRepository) Delete(ctx context.Context, taskID int64) error {
	m.deleted = append(m.deleted, taskID)
	return nil
}

type mockRefreshTokenRepository struct {
	tokens        map[string]*model.RefreshToken // by hash
	revoked       []string
	revokedAllFor []int64
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{tokens: make(map[string]*model.RefreshToken)}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	token.CreatedAt = time.Now()
	m.tokens[token.TokenHash] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	if t, ok := m.tokens[tokenHash]; ok {
		return t, nil
	}
	return nil, model.ErrRefreshTokenNotFound
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, id string, replacedBy *string) error {
	m.revoked = append(m.revoked, id)
	for _, t := range m.tokens {
		if t.ID == id && t.RevokedAt == nil {
			now := time.Now()
			t.RevokedAt = &now
			t.ReplacedBy = replacedBy
		}
	}
	return nil
}

func (m *mockRefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID int64) error {
	m.revokedAllFor = append(m.revokedAllFor, userID)
	for _, t := range m.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			now := time.Now()
			t.RevokedAt = &now
		}
	}
	return nil
}

func (m *mockRefreshTokenRepository) DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	return 0, nil
}

// mockPublisher records published events.
type mockPublisher struct {
	events []queue.ActivityEvent
	err    error
}

func (m *mockPublisher) Publish(ctx context.Context, stream string, event queue.ActivityEvent) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.events = append(m.events, event)
	return "1-0", nil
}

func int64Ptr(v int64) *int64    { return &v }
func stringPtr(s string) *string { return &s }
func boolPtr(b bool) *bool       { return &b }
