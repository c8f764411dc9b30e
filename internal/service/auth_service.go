package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"finalexam/internal/auth"
	apperrors "finalexam/internal/errors"
	"finalexam/internal/model"
	"finalexam/internal/repository"
	"finalexam/internal/validate"
)

// AuthService handles registration and login.
type AuthService interface {
	Register(ctx context.Context, email, username, password, avatar string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
}

type authService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenService) AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
	}
}

// Register validates inputs, rejects duplicate email or username, stores the
// user with a PBKDF2 hash and issues a session token.
func (s *authService) Register(ctx context.Context, email, username, password, avatar string) (*model.User, string, error) {
	email, err := validate.Email(email)
	if err != nil {
		return nil, "", err
	}
	username, err = validate.String(username, "username", validate.MaxUsernameLength)
	if err != nil {
		return nil, "", err
	}
	password, err = validate.Password(password)
	if err != nil {
		return nil, "", err
	}
	avatar = validate.Truncate(avatar, validate.MaxAvatarLength)

	taken, err := s.users.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, "", fmt.Errorf("check user existence: %w", err)
	}
	if taken {
		return nil, "", apperrors.ErrUserAlreadyExists
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		Avatar:       avatar,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", apperrors.ErrUserAlreadyExists
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Sign(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	return user, token, nil
}

// Login verifies credentials and issues a session token. A missing user and a
// wrong password produce the same error so accounts cannot be enumerated.
// Legacy hashes are transparently upgraded to PBKDF2 before responding.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", apperrors.NewValidation("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	valid, needsRehash := auth.VerifyPassword(password, user.PasswordHash)
	if !valid {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	if needsRehash {
		newHash, err := auth.HashPassword(password)
		if err != nil {
			return nil, "", fmt.Errorf("rehash password: %w", err)
		}
		if err := s.users.UpdatePasswordHash(ctx, user.ID, newHash); err != nil {
			return nil, "", fmt.Errorf("store upgraded hash: %w", err)
		}
		user.PasswordHash = newHash
	}

	token, err := s.tokens.Sign(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	return user, token, nil
}
