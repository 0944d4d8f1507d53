package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"connectly/internal/model"
)

type likeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Create inserts a like record. Returns ErrAlreadyLiked if duplicate.
func (r *likeRepository) Create(ctx context.Context, userID, postID int64) (*model.Like, error) {
	query := `
		INSERT INTO post_likes (user_id, post_id)
		VALUES ($1, $2)
		RETURNING id, user_id, post_id, created_at
	`
	var like model.Like
	err := r.db.GetContext(ctx, &like, query, userID, postID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.ErrAlreadyLiked
		}
		return nil, fmt.Errorf("insert like: %w", err)
	}
	return &like, nil
}

// Delete removes a like record. Returns ErrNotLiked if not found.
func (r *likeRepository) Delete(ctx context.Context, userID, postID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM post_likes WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrNotLiked
	}
	return nil
}

// GetPostLikers returns paginated users who liked a post, most recent first.
func (r *likeRepository) GetPostLikers(ctx context.Context, postID int64, cursor *string, limit int) ([]model.UserSummary, *string, error) {
	var query string
	var args []interface{}

	if cursor == nil {
		query = `
			SELECT pl.id AS like_id, pl.created_at, u.id, u.username
			FROM post_likes pl
			JOIN users u ON u.id = pl.user_id
			WHERE pl.post_id = $1
			ORDER BY pl.created_at DESC, pl.id DESC
			LIMIT $2
		`
		args = []interface{}{postID, limit + 1}
	} else {
		ts, id, err := parseCursor(*cursor)
		if err != nil {
			return nil, nil, err
		}
		query = `
			SELECT pl.id AS like_id, pl.created_at, u.id, u.username
			FROM post_likes pl
			JOIN users u ON u.id = pl.user_id
			WHERE pl.post_id = $1 AND (pl.created_at, pl.id) < ($2, $3)
			ORDER BY pl.created_at DESC, pl.id DESC
			LIMIT $4
		`
		args = []interface{}{postID, ts, id, limit + 1}
	}

	type likerRow struct {
		model.UserSummary
		LikeID    int64     `db:"like_id"`
		CreatedAt time.Time `db:"created_at"`
	}
	var rows []likerRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, nil, fmt.Errorf("get post likers: %w", err)
	}

	var nextCursor *string
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		c := formatCursor(last.CreatedAt, last.LikeID)
		nextCursor = &c
	}

	users := make([]model.UserSummary, len(rows))
	for i, row := range rows {
		users[i] = row.UserSummary
	}
	return users, nextCursor, nil
}
