package server_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/gitfav/internal/config"
	"github.com/sakif/gitfav/internal/server"
)

// newTestServer assembles the full stack — router, middleware, handlers,
// services, in-memory database — the same way main.go does, minus the
// listening socket.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	cfg := config.Config{
		Port:         8080,
		DBPath:       ":memory:",
		JWTSecret:    "test-secret-0123456789abcdef",
		GitHubAPIURL: "https://api.github.com",
	}

	srv, err := server.New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	return srv.Router()
}

func do(router http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// TestRegisterLoginFavoritesFlow walks the happy path a new client takes:
// register, log in, read the (empty) favorites list with the fresh token.
func TestRegisterLoginFavoritesFlow(t *testing.T) {
	router := newTestServer(t)

	// Register
	registered := do(router, http.MethodPost, "/auth/register", "",
		`{"email":"ada@example.com","username":"ada","password":"s3cretpass"}`)
	require.Equal(t, http.StatusCreated, registered.Code)

	// Log in with the same credentials
	loggedIn := do(router, http.MethodPost, "/auth/login", "",
		`{"email":"ada@example.com","password":"s3cretpass"}`)
	require.Equal(t, http.StatusOK, loggedIn.Code)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(loggedIn.Body).Decode(&login))
	require.NotEmpty(t, login.Token)

	// The fresh account has no favorites yet
	favorites := do(router, http.MethodGet, "/user/favorites", login.Token, "")
	assert.Equal(t, http.StatusOK, favorites.Code)
	assert.Equal(t, "[]\n", favorites.Body.String())
}

// TestFavoriteCreateConflictFlow saves a favorite, then tries to save it
// again with the same token.
func TestFavoriteCreateConflictFlow(t *testing.T) {
	router := newTestServer(t)

	registered := do(router, http.MethodPost, "/auth/register", "",
		`{"email":"ada@example.com","username":"ada","password":"s3cretpass"}`)
	require.Equal(t, http.StatusCreated, registered.Code)

	var reg struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(registered.Body).Decode(&reg))

	body := `{"repoId":1296269,"repoName":"octocat/Hello-World","stars":80,"htmlUrl":"https://github.com/octocat/Hello-World"}`

	first := do(router, http.MethodPost, "/user/favorites", reg.Token, body)
	assert.Equal(t, http.StatusCreated, first.Code)

	second := do(router, http.MethodPost, "/user/favorites", reg.Token, body)
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	router := newTestServer(t)

	tests := []struct {
		name   string
		method string
		target string
	}{
		{"list favorites", http.MethodGet, "/user/favorites"},
		{"create favorite", http.MethodPost, "/user/favorites"},
		{"delete favorite", http.MethodDelete, "/user/favorites/1"},
		{"search repos", http.MethodGet, "/user/searchRepo?username=octocat"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(router, tc.method, tc.target, "", "")
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

// Without OAuth credentials the GitHub login routes are not mounted at all.
func TestOAuthRoutesAbsentWhenUnconfigured(t *testing.T) {
	router := newTestServer(t)

	rr := do(router, http.MethodGet, "/auth/github/login", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDuplicateRegistrationConflicts(t *testing.T) {
	router := newTestServer(t)

	first := do(router, http.MethodPost, "/auth/register", "",
		`{"email":"ada@example.com","username":"ada","password":"s3cretpass"}`)
	require.Equal(t, http.StatusCreated, first.Code)

	second := do(router, http.MethodPost, "/auth/register", "",
		`{"email":"ada@example.com","username":"ada2","password":"s3cretpass"}`)
	assert.Equal(t, http.StatusConflict, second.Code)
}
