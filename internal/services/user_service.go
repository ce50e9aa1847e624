package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joaovitorrios/gerenciador-gastos/internal/auth"
	"github.com/joaovitorrios/gerenciador-gastos/internal/core"
	"github.com/joaovitorrios/gerenciador-gastos/internal/storage"
)

// UserService handles registration and login on top of storage and the
// token issuer.
type UserService struct {
	storage *storage.SQLiteRepository
	auth    *auth.Service
}

func NewUserService(storage *storage.SQLiteRepository, authService *auth.Service) *UserService {
	return &UserService{
		storage: storage,
		auth:    authService,
	}
}

// Register creates a user with a bcrypt hashed password.
func (s *UserService) Register(ctx context.Context, email, password string) (core.User, error) {
	if err := core.ValidateCredentials(email, password); err != nil {
		return core.User{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.storage.CreateUser(ctx, email, hash)
	if err != nil {
		return core.User{}, err
	}

	return user, nil
}

// Login verifies the credentials and returns a signed token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.storage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return "", core.ErrInvalidCredentials
		}
		return "", fmt.Errorf("look up user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		slog.WarnContext(ctx, "Login attempt with wrong password", "email", email)
		return "", core.ErrInvalidCredentials
	}

	token, err := s.auth.IssueToken(user)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	return token, nil
}

// GetUser loads a user by id.
func (s *UserService) GetUser(ctx context.Context, id string) (core.User, error) {
	return s.storage.GetUserByID(ctx, id)
}
