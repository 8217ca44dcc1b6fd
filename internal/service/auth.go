// Package service holds the business rules between the HTTP handlers and
// the repositories:
//
//	Handler (HTTP) → Service (rules, validation) → Repository (SQLite)
//
// Services take repository interfaces, never *sqlite.DB, so their tests run
// against in-memory fakes. They return apperror values; the handler package
// turns those into status codes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/vitaltrack/internal/apperror"
	"github.com/sakif/vitaltrack/internal/auth"
	"github.com/sakif/vitaltrack/internal/model"
	"github.com/sakif/vitaltrack/internal/repository"
)

// msgBadCredentials is deliberately the same for unknown users and wrong
// passwords so login cannot be used to enumerate usernames.
const msgBadCredentials = "invalid username or password"

// Credentials is the register/login request body.
type Credentials struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=72"`
}

// AuthService registers accounts, checks passwords and issues tokens.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users      repository.UserRepository  → read/write user records
//   - tokens     *auth.TokenService         → generate JWTs
//   - passwords  *auth.PasswordService      → bcrypt hashing
//   - logger     *slog.Logger               → structured logging
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user record and the issued JWT so the handler can
// set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a password account and returns its id.
// A taken username is apperror.ErrConflict; blank fields are apperror.ErrValidation.
func (s *AuthService) Register(ctx context.Context, in Credentials) (int64, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validateStruct(in); err != nil {
		return 0, err
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return 0, apperror.ValidationFailed("password", "password must be 72 bytes or fewer")
		}
		return 0, fmt.Errorf("service/auth: %w", err)
	}

	id, err := s.users.CreateUser(ctx, in.Username, hash)
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return 0, err
		}
		return 0, fmt.Errorf("service/auth: registering %q: %w", in.Username, err)
	}

	s.logger.Info("user registered", slog.Int64("userID", id), slog.String("username", in.Username))
	return id, nil
}

// Login checks the password and issues a token.
//
// Unknown user, wrong password and password-less accounts (the guest,
// GitHub-only users) all produce the same apperror.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, in Credentials) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return nil, apperror.Unauthorized(msgBadCredentials)
	}

	user, err := s.users.GetUserByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized(msgBadCredentials)
		}
		return nil, fmt.Errorf("service/auth: looking up %q: %w", in.Username, err)
	}
	if model.IsGuest(user.ID) {
		return nil, apperror.Unauthorized(msgBadCredentials)
	}

	if err := s.passwords.Verify(user.PasswordHash, in.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			s.logger.Info("failed login", slog.String("username", in.Username))
			return nil, apperror.Unauthorized(msgBadCredentials)
		}
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	return s.issue(user)
}

// LoginOrRegisterGitHub handles the GitHub OAuth callback: the account
// linked to the GitHub id is created on first sign-in and reused afterwards.
//
// It does not set cookies or read the HTTP request; that stays in the handler.
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil {
		return nil, fmt.Errorf("service/auth: GitHub user must not be nil")
	}

	user, err := s.users.UpsertGitHubUser(ctx, ghUser.ID, ghUser.Login)
	if err != nil {
		return nil, fmt.Errorf("service/auth: upserting user (githubID=%d): %w", ghUser.ID, err)
	}

	s.logger.Info("user authenticated via GitHub",
		slog.Int64("userID", user.ID),
		slog.String("login", ghUser.Login),
	)
	return s.issue(user)
}

// GetUserByID returns the account behind /api/me.
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	if model.IsGuest(id) {
		return nil, apperror.Unauthorized("valid authentication required")
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/auth: fetching user %d: %w", id, err)
	}
	return user, nil
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %d: %w", user.ID, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}
