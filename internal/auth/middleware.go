package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string,
// any package that knows the string can read or shadow your value. A
// package-private key type means only this package can read or write the
// identity in the context.
type contextKey string

const identityKey contextKey = "identity"

// bearerPrefix is the only Authorization scheme we accept.
const bearerPrefix = "Bearer "

// errNoToken means the request presented no bearer credential at all.
// The middleware treats it identically to an invalid token.
var errNoToken = errors.New("auth: no bearer token presented")

// RequireAuth is a middleware that enforces authentication on protected routes.
//
// It reads the JWT from the "Authorization: Bearer <token>" header, validates
// it, and stores the resolved Identity in the request context. A missing
// header, a non-Bearer scheme, and an invalid or expired token all receive
// the same 401 body — the client learns nothing about which check failed.
//
// MIDDLEWARE PATTERN IN GO:
// A middleware is a function that takes an http.Handler and returns a new
// http.Handler wrapping it. Chi applies middlewares in a chain:
// req → M1 → M2 → Handler → M2 → M1 → resp
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := extractIdentity(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}` + "\n"))
				return
			}

			// Store the identity in context so handlers can read it
			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the authenticated identity from the request
// context.
//
// Returns (Identity{}, false) if the request is anonymous.
//
// Usage in handlers:
//
//	identity, ok := auth.IdentityFromContext(r.Context())
//	if !ok {
//	    // anonymous — only possible off RequireAuth-protected routes
//	}
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.UserID > 0
}

// extractIdentity reads and validates the bearer token from the
// Authorization header.
//
// HEADER FORMAT: "Authorization: Bearer eyJhbGciOi..."
// Anything else — absent header, "Basic ..." scheme, empty token — is
// rejected before the JWT library is even consulted.
func extractIdentity(r *http.Request, tokens *TokenService) (Identity, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return Identity{}, errNoToken
	}

	tokenStr := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if tokenStr == "" {
		return Identity{}, errNoToken
	}

	return tokens.Validate(tokenStr)
}
