package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidshelf/backend/internal/logging"
	"github.com/vidshelf/backend/internal/metrics"
	"github.com/vidshelf/backend/internal/models"
	"github.com/vidshelf/backend/internal/repositories"
)

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID, email string) (models.Token, error)
}

// SignUpInput is the payload accepted when registering.
type SignUpInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=5,maxbytes=72"`
	Name     string `json:"name" validate:"required"`
}

// LoginResult is returned after successful authentication.
type LoginResult struct {
	Token  models.Token
	UserID string
	Name   string
}

// AccountService registers users and exchanges credentials for tokens.
type AccountService struct {
	users     repositories.UserRepository
	hasher    PasswordHasher
	tokens    TokenIssuer
	validator *Validator
	now       func() time.Time
}

// NewAccountService constructs an AccountService.
func NewAccountService(users repositories.UserRepository, hasher PasswordHasher, tokens TokenIssuer, validator *Validator) *AccountService {
	if validator == nil {
		validator = NewValidator()
	}
	return &AccountService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		validator: validator,
		now:       time.Now,
	}
}

// SignUp creates a new account.
func (s *AccountService) SignUp(ctx context.Context, input SignUpInput) (models.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Password = strings.TrimSpace(input.Password)
	input.Name = strings.TrimSpace(input.Name)

	if err := s.validator.Struct(input); err != nil {
		return models.User{}, err
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return models.User{}, invalidField("email", "User already exists")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return models.User{}, err
	}

	now := s.now().UTC()
	user := models.User{
		ID:             uuid.NewString(),
		Email:          input.Email,
		Password:       hash,
		Name:           input.Name,
		FavoriteVideos: []string{},
		OwnedVideos:    []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return models.User{}, invalidField("email", "User already exists")
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	logging.FromContext(ctx).Info("user registered", slog.String("user_id", user.ID))
	return user, nil
}

// Login verifies credentials and issues a session token. Unknown emails and
// wrong passwords both yield ErrInvalidLogin.
func (s *AccountService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			metrics.AuthFailures.WithLabelValues("unknown_email").Inc()
			return LoginResult{}, ErrInvalidLogin
		}
		return LoginResult{}, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, user.Password) {
		metrics.AuthFailures.WithLabelValues("wrong_password").Inc()
		return LoginResult{}, ErrInvalidLogin
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	return LoginResult{Token: token, UserID: user.ID, Name: user.Name}, nil
}
