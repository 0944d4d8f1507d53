package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"connectly/internal/model"
	"connectly/internal/policy"
	"connectly/internal/repository"
)

// UserService handles business logic for user operations
type UserService struct {
	repo   repository.UserRepository
	logger *slog.Logger
}

func NewUserService(repo repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// Register creates a new user account. Username and email must be unique.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, model.NewInvalidField("username", "Username is required.")
	}
	if utf8.RuneCountInString(username) > model.MaxUsernameLength {
		return nil, model.NewInvalidField("username", fmt.Sprintf("Username must be at most %d characters.", model.MaxUsernameLength))
	}
	email, err := cleanEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, model.NewInvalidField("password", "Password is required.")
	}
	if len(req.Password) > model.MaxPasswordBytes {
		return nil, model.NewInvalidField("password", fmt.Sprintf("Password must be at most %d bytes.", model.MaxPasswordBytes))
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:       username,
		Email:          email,
		PasswordHashed: string(hashedPassword),
	}

	// Uniqueness is enforced by the database; duplicates come back as model errors.
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

func cleanEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", model.NewInvalidField("email", "Email is required.")
	}
	if len(email) > model.MaxEmailLength {
		return "", model.NewInvalidField("email", fmt.Sprintf("Email must be at most %d characters.", model.MaxEmailLength))
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", model.NewInvalidField("email", "Enter a valid email address.")
	}
	return email, nil
}

// Login authenticates a user with username and password.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		// Don't reveal whether username exists or not
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}
	return user, nil
}

// GetOrCreate returns the user with req.Username, registering it first if
// necessary. The bool reports whether a user was created.
func (s *UserService) GetOrCreate(ctx context.Context, req *model.RegisterRequest) (*model.User, bool, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, false, err
	}

	user, err = s.Register(ctx, req)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of users, newest first.
func (s *UserService) List(ctx context.Context, cursor *string, limit int) (*model.UserListResponse, error) {
	users, nextCursor, err := s.repo.List(ctx, cursor, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	return &model.UserListResponse{
		Users:      users,
		NextCursor: nextCursor,
		HasMore:    nextCursor != nil,
	}, nil
}

// Update changes the caller's own account. Only the email is editable.
func (s *UserService) Update(ctx context.Context, actor model.Identity, id int64, req *model.UpdateUserRequest) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.CanAccessUser(actor, user), nil); err != nil {
		return nil, err
	}
	if req.Email == nil {
		return user, nil
	}

	email, err := cleanEmail(*req.Email)
	if err != nil {
		return nil, err
	}
	return s.repo.UpdateEmail(ctx, id, email)
}

// Delete removes the caller's own account and everything it owns.
func (s *UserService) Delete(ctx context.Context, actor model.Identity, id int64) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, policy.CanAccessUser(actor, user), nil); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "user deleted", "user_id", id)
	return nil
}
