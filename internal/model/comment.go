package model

import (
	"time"
)

// Comment represents a comment on a post.
type Comment struct {
	ID        int64        `db:"id" json:"id"`
	PostID    int64        `db:"post_id" json:"post_id"`
	AuthorID  int64        `db:"author_id" json:"author_id"`
	Text      string       `db:"text" json:"text"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	Author    *UserSummary `db:"-" json:"author,omitempty"` // Joined field
}

// CreateCommentRequest is the request body for creating a comment.
type CreateCommentRequest struct {
	Text string `json:"text"`
}

// CommentListResponse is the paginated comment list response.
type CommentListResponse struct {
	Comments   []Comment `json:"comments"`
	NextCursor *string   `json:"next_cursor,omitempty"`
	HasMore    bool      `json:"has_more"`
}

// Comment constraints
const (
	MaxCommentLength = 2200
)

// Comment errors
var (
	ErrCommentNotFound = NewNotFound("Comment not found.")
	ErrNotCommentOwner = NewForbidden("You can only delete your own comments.")
	ErrCommentEmpty    = NewInvalidField("text", "Comment text cannot be empty.")
	ErrCommentTooLong  = NewInvalidField("text", "Comment text is too long.")
)
