package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"connectly/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts a comment and fills in its id and created_at.
func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	query := `
		INSERT INTO post_comments (post_id, author_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query, comment.PostID, comment.AuthorID, comment.Text).
		Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// GetByID retrieves a single comment.
func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	query := `
		SELECT id, post_id, author_id, text, created_at
		FROM post_comments
		WHERE id = $1
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, commentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}

// GetByPostID returns paginated comments for a post, newest first.
func (r *commentRepository) GetByPostID(ctx context.Context, postID int64, cursor *string, limit int) ([]model.Comment, *string, error) {
	var query string
	var args []interface{}

	if cursor == nil {
		query = `
			SELECT c.id, c.post_id, c.author_id, c.text, c.created_at, u.username AS author_username
			FROM post_comments c
			JOIN users u ON u.id = c.author_id
			WHERE c.post_id = $1
			ORDER BY c.created_at DESC, c.id DESC
			LIMIT $2
		`
		args = []interface{}{postID, limit + 1}
	} else {
		ts, id, err := parseCursor(*cursor)
		if err != nil {
			return nil, nil, err
		}
		query = `
			SELECT c.id, c.post_id, c.author_id, c.text, c.created_at, u.username AS author_username
			FROM post_comments c
			JOIN users u ON u.id = c.author_id
			WHERE c.post_id = $1 AND (c.created_at, c.id) < ($2, $3)
			ORDER BY c.created_at DESC, c.id DESC
			LIMIT $4
		`
		args = []interface{}{postID, ts, id, limit + 1}
	}

	type commentRow struct {
		ID             int64     `db:"id"`
		PostID         int64     `db:"post_id"`
		AuthorID       int64     `db:"author_id"`
		Text           string    `db:"text"`
		CreatedAt      time.Time `db:"created_at"`
		AuthorUsername string    `db:"author_username"`
	}

	var rows []commentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, nil, fmt.Errorf("get comments: %w", err)
	}

	comments := make([]model.Comment, len(rows))
	for i, row := range rows {
		comments[i] = model.Comment{
			ID:        row.ID,
			PostID:    row.PostID,
			AuthorID:  row.AuthorID,
			Text:      row.Text,
			CreatedAt: row.CreatedAt,
			Author:    &model.UserSummary{ID: row.AuthorID, Username: row.AuthorUsername},
		}
	}

	var nextCursor *string
	if len(comments) > limit {
		comments = comments[:limit]
		last := comments[len(comments)-1]
		c := formatCursor(last.CreatedAt, last.ID)
		nextCursor = &c
	}
	return comments, nextCursor, nil
}

func (r *commentRepository) Delete(ctx context.Context, commentID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM post_comments WHERE id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}
