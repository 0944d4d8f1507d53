package model

import (
	"errors"
	"time"
)

// User is the single identity record used for authentication, authorship
// and task assignment.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	PasswordHashed string    `db:"password_hashed" json:"-"` // "-" hides from JSON output
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// UserSummary is the compact author/liker representation embedded in other responses.
type UserSummary struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
}

// Summary returns the compact representation of u.
func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Username: u.Username}
}

// Identity is the acting identity of a request, as established by the
// auth middleware. The zero value is the anonymous caller.
type Identity struct {
	UserID   int64
	Username string
}

// Authenticated reports whether the identity refers to a user.
func (i Identity) Authenticated() bool {
	return i.UserID != 0
}

// RegisterRequest represents the data needed to register a new user
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the data needed to log in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateUserRequest is the request body for PATCH /users/{id}.
type UpdateUserRequest struct {
	Email *string `json:"email"`
}

// UserListResponse is the paginated user list response.
type UserListResponse struct {
	Users      []User  `json:"users"`
	NextCursor *string `json:"next_cursor,omitempty"`
	HasMore    bool    `json:"has_more"`
}

// User constraints
const (
	MaxUsernameLength = 100
	MaxEmailLength    = 254

	// bcrypt only hashes the first 72 bytes and refuses longer input.
	MaxPasswordBytes = 72
)

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = NewNotFound("User not found.")

	// ErrUsernameExists is returned when attempting to create a user with a taken username
	ErrUsernameExists = NewDuplicate("Username already exists.")

	// ErrEmailExists is returned when attempting to create a user with a taken email
	ErrEmailExists = NewDuplicate("Email already exists.")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")
)
