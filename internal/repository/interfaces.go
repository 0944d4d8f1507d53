package repository

import (
	"context"
	"time"

	"connectly/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, cursor *string, limit int) ([]model.User, *string, error)
	UpdateEmail(ctx context.Context, id int64, email string) (*model.User, error)
	Delete(ctx context.Context, id int64) error
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, id string, replacedBy *string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}

type PostRepository interface {
	// InsertPost satisfies factory.PostInserter.
	InsertPost(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, postID int64) (*model.Post, error)
	List(ctx context.Context, cursor *string, limit int) ([]model.Post, *string, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, postID int64) error
	Exists(ctx context.Context, postID int64) (bool, error)
	// CheckLikes checks which posts the user has liked
	CheckLikes(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error)
}

type LikeRepository interface {
	Create(ctx context.Context, userID, postID int64) (*model.Like, error)
	Delete(ctx context.Context, userID, postID int64) error
	GetPostLikers(ctx context.Context, postID int64, cursor *string, limit int) ([]model.UserSummary, *string, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, commentID int64) (*model.Comment, error)
	GetByPostID(ctx context.Context, postID int64, cursor *string, limit int) ([]model.Comment, *string, error)
	Delete(ctx context.Context, commentID int64) error
}

type TaskRepository interface {
	// InsertTask satisfies factory.TaskInserter.
	InsertTask(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, taskID int64) (*model.Task, error)
	ListByAssignee(ctx context.Context, userID int64, cursor *string, limit int) ([]model.Task, *string, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, taskID int64) error
}
