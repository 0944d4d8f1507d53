package model

import (
	"time"
)

// PostType is the kind of content a post carries.
type PostType string

const (
	PostTypeText  PostType = "text"
	PostTypeImage PostType = "image"
	PostTypeVideo PostType = "video"
)

// PostTypes lists the valid post types in display order.
var PostTypes = []PostType{PostTypeText, PostTypeImage, PostTypeVideo}

// Valid reports whether t is one of PostTypes.
func (t PostType) Valid() bool {
	for _, v := range PostTypes {
		if v == t {
			return true
		}
	}
	return false
}

func PostTypeNames() []string {
	names := make([]string, len(PostTypes))
	for i, t := range PostTypes {
		names[i] = string(t)
	}
	return names
}

// Post represents a piece of user content.
type Post struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	PostType  PostType  `db:"post_type" json:"post_type"`
	Metadata  Metadata  `db:"metadata" json:"metadata"`
	AuthorID  *int64    `db:"author_id" json:"author_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// Derived from post_likes / post_comments at read time
	LikeCount    int `db:"like_count" json:"like_count"`
	CommentCount int `db:"comment_count" json:"comment_count"`

	// Joined fields (not in posts table)
	Author  *UserSummary `db:"-" json:"author,omitempty"`
	IsLiked bool         `db:"-" json:"is_liked"`
}

// PostListResponse is the paginated post list response.
type PostListResponse struct {
	Posts      []Post  `json:"posts"`
	NextCursor *string `json:"next_cursor,omitempty"`
	HasMore    bool    `json:"has_more"`
}

// CreatePostRequest is the request body for creating a post.
type CreatePostRequest struct {
	PostType string   `json:"post_type"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// UpdatePostRequest is the request body for a partial post update.
// Nil fields are left unchanged.
type UpdatePostRequest struct {
	PostType *string  `json:"post_type"`
	Title    *string  `json:"title"`
	Content  *string  `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// Post constraints
const (
	MaxPostTitleLength = 255
	DefaultPostTitle   = "Untitled"
)

// Post errors
var (
	ErrPostNotFound = NewNotFound("Post not found.")
	ErrNotPostOwner = NewForbidden("You do not have permission to modify this post.")
	ErrAlreadyLiked = NewDuplicate("You have already liked this post.")
	ErrNotLiked     = NewNotFound("You have not liked this post.")
)
