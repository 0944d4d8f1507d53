package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"connectly/internal/model"
)

// userRepository implements UserRepository using sqlx
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user. Username and email uniqueness are enforced by
// the database.
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (username, email, password_hashed)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query, u.Username, u.Email, u.PasswordHashed).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if constraint, ok := uniqueConstraint(err); ok {
			return duplicateUserError(constraint)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func duplicateUserError(constraint string) error {
	if strings.Contains(constraint, "email") {
		return model.ErrEmailExists
	}
	return model.ErrUsernameExists
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT id, username, email, password_hashed, created_at FROM users WHERE id = $1`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &u, nil
}

// GetByUsername retrieves a user by their username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT id, username, email, password_hashed, created_at FROM users WHERE username = $1`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &u, nil
}

func (r *userRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

// List returns users newest-first.
func (r *userRepository) List(ctx context.Context, cursor *string, limit int) ([]model.User, *string, error) {
	var query string
	var args []interface{}

	if cursor == nil {
		query = `
			SELECT id, username, email, password_hashed, created_at
			FROM users
			ORDER BY created_at DESC, id DESC
			LIMIT $1
		`
		args = []interface{}{limit + 1}
	} else {
		ts, id, err := parseCursor(*cursor)
		if err != nil {
			return nil, nil, err
		}
		query = `
			SELECT id, username, email, password_hashed, created_at
			FROM users
			WHERE (created_at, id) < ($1, $2)
			ORDER BY created_at DESC, id DESC
			LIMIT $3
		`
		args = []interface{}{ts, id, limit + 1}
	}

	users := []model.User{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, nil, fmt.Errorf("list users: %w", err)
	}

	var nextCursor *string
	if len(users) > limit {
		users = users[:limit]
		last := users[len(users)-1]
		c := formatCursor(last.CreatedAt, last.ID)
		nextCursor = &c
	}
	return users, nextCursor, nil
}

func (r *userRepository) UpdateEmail(ctx context.Context, id int64, email string) (*model.User, error) {
	query := `
		UPDATE users SET email = $1
		WHERE id = $2
		RETURNING id, username, email, password_hashed, created_at
	`
	var u model.User
	err := r.db.GetContext(ctx, &u, query, email, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return nil, model.ErrEmailExists
		}
		return nil, fmt.Errorf("update user email: %w", err)
	}
	return &u, nil
}

// Delete removes a user. Posts, comments, likes, tasks and refresh tokens
// go with it via ON DELETE CASCADE.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrUserNotFound
	}
	return nil
}
