// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Services accept primitives and return domain errors (apperror), never
// HTTP types — the handler translates to status codes. They depend on the
// repository interfaces, not the sqlite package, so tests swap in fakes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/gitfav/internal/apperror"
	"github.com/sakif/gitfav/internal/auth"
	"github.com/sakif/gitfav/internal/model"
	"github.com/sakif/gitfav/internal/repository"
)

// AuthService handles registration, login, and the GitHub OAuth path.
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
// respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new account and issues a token for it, so the client
// is authenticated immediately without a second login round-trip.
//
// The username is optional. An account without one is identified by its
// email everywhere a username would be used, including the token claims.
// When a username IS chosen it must be unique (store-enforced, partial
// index on login).
//
// The flow:
//  1. Validate that email and password are present
//  2. Check the email isn't taken (friendly 409 before paying for bcrypt)
//  3. Hash the password — plaintext is never stored and never logged
//  4. Insert; a UNIQUE violation here also maps to Conflict, and that
//     constraint, not the check in step 2, is what holds under two racing
//     registrations for the same email
//  5. Issue the token
func (s *AuthService) Register(ctx context.Context, email, login, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	login = strings.TrimSpace(login)

	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	// Courtesy pre-check for a specific 409 message. NOT the real duplicate
	// guarantee — see the UNIQUE constraints in the sqlite schema.
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("user", "already exists")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: checking existing email: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", "password is invalid")
	}

	user := &model.User{
		Email:        email,
		Login:        login,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service/auth: creating user %s: %w", email, err)
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("login", tokenLogin(user)),
	)

	token, err := s.tokens.Generate(user.ID, tokenLogin(user))
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %d: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and issues a token.
//
// ENUMERATION RESISTANCE:
// "No such email" and "wrong password" return the exact same error. An
// attacker probing /auth/login cannot learn which emails are registered.
//
// The password check is a hard gate: this function returns on the mismatch
// branch, and the token is generated only below it. There is no code path
// that reports a failed comparison and then signs anyway.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)

	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("service/auth: looking up %s: %w", email, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	token, err := s.tokens.Generate(user.ID, tokenLogin(user))
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %d: %w", user.ID, err)
	}

	s.logger.Info("user logged in",
		slog.Int64("userID", user.ID),
		slog.String("login", user.Login),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// tokenLogin is the login claim carried in the JWT: the chosen username,
// or the email for accounts registered without one.
func tokenLogin(u *model.User) string {
	if u.Login != "" {
		return u.Login
	}
	return u.Email
}

// LoginWithGitHub handles the GitHub OAuth callback: upsert the user keyed
// on their GitHub ID (insert on first login, refresh profile after), then
// issue the same JWT a password login would get.
func (s *AuthService) LoginWithGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil {
		return nil, fmt.Errorf("service/auth: GitHub user must not be nil")
	}

	user := &model.User{
		GitHubID:  ghUser.ID,
		Login:     ghUser.Login,
		Email:     ghUser.Email,
		AvatarURL: ghUser.AvatarURL,
	}

	if err := s.users.UpsertGitHubUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: upserting user (githubID=%d): %w", ghUser.ID, err)
	}

	s.logger.Info("user authenticated via GitHub",
		slog.Int64("userID", user.ID),
		slog.String("login", user.Login),
	)

	token, err := s.tokens.Generate(user.ID, user.Login)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %d: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}
