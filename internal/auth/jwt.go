// Package auth provides JWT token generation and validation for the gitfav API.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. User registers (POST /auth/register) or logs in (POST /auth/login)
// 2. Server verifies credentials and issues a JWT access token in the response
// 3. On subsequent API calls, the client sends "Authorization: Bearer <token>"
// 4. Middleware validates the JWT and sets the identity in the request context
//
// WHY JWT?
// JWT (JSON Web Token) is stateless — the server doesn't need to store session
// data. All the information needed (user ID, login, expiry) is inside the
// signed token. The signature ensures nobody can tamper with it without the
// secret key, and validation requires no database lookup.
//
// The trade-off is revocability: a stolen token stays valid until it expires.
// We accept that — there is no denylist and no refresh flow.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an issued token stays valid.
// 60 days is deliberately long: there is no refresh-token flow, so expiry
// means the user logs in again.
const TokenTTL = 60 * 24 * time.Hour

// Identity is the claim set a verified token resolves to.
// It is what the auth middleware places in the request context.
type Identity struct {
	UserID int64
	Login  string
}

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret key used to sign and verify tokens.
// The same secret must be used for both operations.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
//
// An empty or short secret is a fatal configuration error: a server that
// signs tokens with a guessable key is worse than one that refuses to start.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. It embeds jwt.RegisteredClaims ("sub" holds the
// user ID) plus a custom "login" claim so protected handlers can display the
// username without a user lookup.
type claims struct {
	Login string `json:"login"`
	jwt.RegisteredClaims
}

// Generate creates and signs a new JWT access token for the given identity.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, same key signs and
// verifies. Fine for a single-service deployment like this one.
func (s *TokenService) Generate(userID int64, login string) (string, error) {
	return s.GenerateWithDuration(userID, login, TokenTTL)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Exported so tests can issue already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID int64, login string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Login: login,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    "gitfav",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns the identity it encodes.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired (ExpiresAt is in the future)
//   - Issuer matches "gitfav" (prevents tokens from other apps)
//   - Algorithm is HS256 (prevents algorithm confusion attacks)
//
// Every failure collapses into a single error class. Callers must not
// distinguish expired from tampered to the client — the auth middleware
// answers 401 with the same body either way.
func (s *TokenService) Validate(tokenStr string) (Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			// Reject tokens that aren't signed with HS256
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer("gitfav"),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("auth: invalid token claims")
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return Identity{}, fmt.Errorf("auth: token has no valid subject")
	}

	return Identity{UserID: userID, Login: c.Login}, nil
}
