package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"connectly/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `
	p.id, p.title, p.content, p.post_type, p.metadata, p.author_id, p.created_at, p.updated_at,
	(SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id) AS like_count,
	(SELECT COUNT(*) FROM post_comments c WHERE c.post_id = p.id) AS comment_count,
	u.username AS author_username
`

// postRow scans a post joined with its (optional) author.
type postRow struct {
	model.Post
	AuthorUsername *string `db:"author_username"`
}

func (row postRow) toPost() model.Post {
	post := row.Post
	if post.AuthorID != nil && row.AuthorUsername != nil {
		post.Author = &model.UserSummary{ID: *post.AuthorID, Username: *row.AuthorUsername}
	}
	if post.Metadata == nil {
		post.Metadata = model.Metadata{}
	}
	return post
}

// InsertPost writes a validated post in a single statement and fills in
// its id and timestamps.
func (r *postRepository) InsertPost(ctx context.Context, post *model.Post) error {
	query := `
		INSERT INTO posts (title, content, post_type, metadata, author_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		post.Title,
		post.Content,
		post.PostType,
		post.Metadata,
		post.AuthorID,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// GetByID retrieves a single post with derived counts.
func (r *postRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	query := `SELECT ` + postColumns + `
		FROM posts p
		LEFT JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`
	var row postRow
	err := r.db.GetContext(ctx, &row, query, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	post := row.toPost()
	return &post, nil
}

// List returns posts newest-first.
func (r *postRepository) List(ctx context.Context, cursor *string, limit int) ([]model.Post, *string, error) {
	var query string
	var args []interface{}

	if cursor == nil {
		query = `SELECT ` + postColumns + `
			FROM posts p
			LEFT JOIN users u ON u.id = p.author_id
			ORDER BY p.created_at DESC, p.id DESC
			LIMIT $1
		`
		args = []interface{}{limit + 1}
	} else {
		ts, id, err := parseCursor(*cursor)
		if err != nil {
			return nil, nil, err
		}
		query = `SELECT ` + postColumns + `
			FROM posts p
			LEFT JOIN users u ON u.id = p.author_id
			WHERE (p.created_at, p.id) < ($1, $2)
			ORDER BY p.created_at DESC, p.id DESC
			LIMIT $3
		`
		args = []interface{}{ts, id, limit + 1}
	}

	var rows []postRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, nil, fmt.Errorf("list posts: %w", err)
	}

	posts := make([]model.Post, len(rows))
	for i, row := range rows {
		posts[i] = row.toPost()
	}

	var nextCursor *string
	if len(posts) > limit {
		posts = posts[:limit]
		last := posts[len(posts)-1]
		c := formatCursor(last.CreatedAt, last.ID)
		nextCursor = &c
	}
	return posts, nextCursor, nil
}

// Update persists the editable fields of a post and refreshes updated_at.
func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	query := `
		UPDATE posts
		SET title = $1, content = $2, post_type = $3, metadata = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		post.Title,
		post.Content,
		post.PostType,
		post.Metadata,
		post.ID,
	).Scan(&post.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrPostNotFound
	}
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete hard-deletes a post. Likes and comments cascade.
func (r *postRepository) Delete(ctx context.Context, postID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

// Exists checks if a post exists.
func (r *postRepository) Exists(ctx context.Context, postID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, postID)
	if err != nil {
		return false, fmt.Errorf("check post exists: %w", err)
	}
	return exists, nil
}

// CheckLikes checks which posts the user has liked.
// Returns a map of post_id -> liked (true/false).
func (r *postRepository) CheckLikes(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	query := `SELECT post_id FROM post_likes WHERE user_id = $1 AND post_id = ANY($2)`
	var likedIDs []int64
	err := r.db.SelectContext(ctx, &likedIDs, query, userID, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("check likes: %w", err)
	}

	for _, id := range postIDs {
		result[id] = false
	}
	for _, id := range likedIDs {
		result[id] = true
	}
	return result, nil
}
