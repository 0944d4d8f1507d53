package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connectly/internal/model"
)

var alice = model.Identity{UserID: 1, Username: "alice"}

func TestPostHandler_Create(t *testing.T) {
	t.Run("post_type defaults to text", func(t *testing.T) {
		var got model.CreatePostRequest
		svc := &fakePostService{
			createFn: func(ctx context.Context, actor model.Identity, req model.CreatePostRequest) (*model.Post, error) {
				got = req
				return &model.Post{ID: 9, Title: req.Title, PostType: model.PostType(req.PostType)}, nil
			},
		}
		rec := httptest.NewRecorder()

		NewPostHandler(svc, testLogger()).Create(rec, newRequest(http.MethodPost, "/posts", map[string]any{"title": " Hello "}, alice))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "text", got.PostType)
		assert.Equal(t, "Hello", got.Title)
	})

	t.Run("title is required", func(t *testing.T) {
		svc := &fakePostService{}
		rec := httptest.NewRecorder()

		NewPostHandler(svc, testLogger()).Create(rec, newRequest(http.MethodPost, "/posts", map[string]any{"post_type": "text"}, alice))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid_field:title", decodeError(t, rec).Code)
	})

	t.Run("factory errors keep their code", func(t *testing.T) {
		svc := &fakePostService{
			createFn: func(ctx context.Context, actor model.Identity, req model.CreatePostRequest) (*model.Post, error) {
				return nil, model.NewMissingMetadata("file_size", "Image posts require 'file_size' in metadata")
			},
		}
		rec := httptest.NewRecorder()

		NewPostHandler(svc, testLogger()).Create(rec, newRequest(http.MethodPost, "/posts", map[string]any{"post_type": "image", "title": "x"}, alice))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		detail := decodeError(t, rec)
		assert.Equal(t, "missing_metadata:file_size", detail.Code)
		assert.Equal(t, "Image posts require 'file_size' in metadata", detail.Message)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := httptest.NewRecorder()

		NewPostHandler(&fakePostService{}, testLogger()).Create(rec, newRequest(http.MethodPost, "/posts", "{not json", alice))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unexpected error is a 500", func(t *testing.T) {
		svc := &fakePostService{
			createFn: func(ctx context.Context, actor model.Identity, req model.CreatePostRequest) (*model.Post, error) {
				return nil, errors.New("connection refused")
			},
		}
		rec := httptest.NewRecorder()

		NewPostHandler(svc, testLogger()).Create(rec, newRequest(http.MethodPost, "/posts", map[string]any{"title": "x"}, alice))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}

func TestPostHandler_UpdateDelete_Ownership(t *testing.T) {
	svc := &fakePostService{
		updateFn: func(ctx context.Context, actor model.Identity, postID int64, req model.UpdatePostRequest) (*model.Post, error) {
			if !actor.Authenticated() {
				return nil, model.ErrUnauthenticated
			}
			return nil, model.ErrNotPostOwner
		},
		deleteFn: func(ctx context.Context, actor model.Identity, postID int64) error {
			return model.ErrNotPostOwner
		},
	}
	h := NewPostHandler(svc, testLogger())

	rec := httptest.NewRecorder()
	h.Update(rec, newRequest(http.MethodPatch, "/posts/5", map[string]any{"title": "x"}, model.Identity{UserID: 2}, "id", "5"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", decodeError(t, rec).Code)

	rec = httptest.NewRecorder()
	h.Update(rec, newRequest(http.MethodPatch, "/posts/5", map[string]any{"title": "x"}, model.Identity{}, "id", "5"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.Delete(rec, newRequest(http.MethodDelete, "/posts/5", nil, model.Identity{UserID: 2}, "id", "5"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	h.Delete(rec, newRequest(http.MethodDelete, "/posts/abc", nil, model.Identity{UserID: 2}, "id", "abc"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostHandler_GetByID(t *testing.T) {
	svc := &fakePostService{
		getFn: func(ctx context.Context, postID int64, viewer model.Identity) (*model.Post, error) {
			if postID != 5 {
				return nil, model.ErrPostNotFound
			}
			return &model.Post{ID: 5, LikeCount: 2, CommentCount: 1, IsLiked: viewer.UserID == 1}, nil
		},
	}
	h := NewPostHandler(svc, testLogger())

	rec := httptest.NewRecorder()
	h.GetByID(rec, newRequest(http.MethodGet, "/posts/5", nil, alice, "id", "5"))
	require.Equal(t, http.StatusOK, rec.Code)
	var post model.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	assert.True(t, post.IsLiked)
	assert.Equal(t, 2, post.LikeCount)

	rec = httptest.NewRecorder()
	h.GetByID(rec, newRequest(http.MethodGet, "/posts/6", nil, model.Identity{}, "id", "6"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostHandler_List_InvalidLimit(t *testing.T) {
	rec := httptest.NewRecorder()

	NewPostHandler(&fakePostService{}, testLogger()).List(rec, newRequest(http.MethodGet, "/posts?limit=-1", nil, model.Identity{}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLikeHandler(t *testing.T) {
	svc := &fakeLikeService{
		likeFn: func(ctx context.Context, actor model.Identity, postID int64) (*model.Like, error) {
			if actor.UserID == 1 {
				return nil, model.ErrAlreadyLiked
			}
			return &model.Like{ID: 1, UserID: actor.UserID, PostID: postID}, nil
		},
		unlikeFn: func(ctx context.Context, actor model.Identity, postID int64) error {
			return model.ErrNotLiked
		},
	}
	h := NewLikeHandler(svc, testLogger())

	rec := httptest.NewRecorder()
	h.Like(rec, newRequest(http.MethodPost, "/posts/5/like", nil, model.Identity{UserID: 2}, "id", "5"))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.Like(rec, newRequest(http.MethodPost, "/posts/5/like", nil, alice, "id", "5"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "duplicate", decodeError(t, rec).Code)

	rec = httptest.NewRecorder()
	h.Unlike(rec, newRequest(http.MethodDelete, "/posts/5/like", nil, alice, "id", "5"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.Likers(rec, newRequest(http.MethodGet, "/posts/5/likes", nil, model.Identity{}, "id", "5"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"users":[],"has_more":false}`, rec.Body.String())
}

func TestCommentHandler(t *testing.T) {
	svc := &fakeCommentService{
		createFn: func(ctx context.Context, actor model.Identity, postID int64, req model.CreateCommentRequest) (*model.Comment, error) {
			if req.Text == "   " {
				return nil, model.ErrCommentEmpty
			}
			return &model.Comment{ID: 3, PostID: postID, AuthorID: actor.UserID, Text: req.Text}, nil
		},
		deleteFn: func(ctx context.Context, actor model.Identity, postID, commentID int64) error {
			if commentID != 3 {
				return model.ErrCommentNotFound
			}
			return model.ErrNotCommentOwner
		},
	}
	h := NewCommentHandler(svc, testLogger())

	rec := httptest.NewRecorder()
	h.Create(rec, newRequest(http.MethodPost, "/posts/5/comments", map[string]string{"text": "nice"}, alice, "id", "5"))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.Create(rec, newRequest(http.MethodPost, "/posts/5/comments", map[string]string{"text": "   "}, alice, "id", "5"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_field:text", decodeError(t, rec).Code)

	rec = httptest.NewRecorder()
	h.Delete(rec, newRequest(http.MethodDelete, "/posts/5/comments/3", nil, alice, "id", "5", "commentId", "3"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	h.Delete(rec, newRequest(http.MethodDelete, "/posts/5/comments/4", nil, alice, "id", "5", "commentId", "4"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskHandler(t *testing.T) {
	svc := &fakeTaskService{
		createFn: func(ctx context.Context, actor model.Identity, req model.CreateTaskRequest) (*model.Task, error) {
			if req.AssignedTo != nil && *req.AssignedTo == 99 {
				return nil, model.NewNotFound("Assigned user not found.")
			}
			return &model.Task{ID: 1, Title: req.Title, AssignedTo: actor.UserID, TaskType: model.TaskTypeRegular}, nil
		},
		getFn: func(ctx context.Context, actor model.Identity, taskID int64) (*model.Task, error) {
			return nil, model.ErrNotTaskOwner
		},
		updateFn: func(ctx context.Context, actor model.Identity, taskID int64, req model.UpdateTaskRequest) (*model.Task, error) {
			return &model.Task{ID: taskID, Completed: req.Completed != nil && *req.Completed}, nil
		},
	}
	h := NewTaskHandler(svc, testLogger())

	rec := httptest.NewRecorder()
	h.Create(rec, newRequest(http.MethodPost, "/tasks", map[string]any{"title": "Backup"}, alice))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.Create(rec, newRequest(http.MethodPost, "/tasks", map[string]any{"title": "Backup", "assigned_to": 99}, alice))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.Get(rec, newRequest(http.MethodGet, "/tasks/1", nil, alice, "id", "1"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	h.Update(rec, newRequest(http.MethodPatch, "/tasks/1", map[string]any{"completed": true}, alice, "id", "1"))
	require.Equal(t, http.StatusOK, rec.Code)
	var task model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	assert.True(t, task.Completed)
}
