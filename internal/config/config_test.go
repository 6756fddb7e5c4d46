package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv removes a variable for the duration of the test. t.Setenv first
// so the original value is restored on cleanup, then actually unset it —
// there is no t.Unsetenv.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	unsetenv(t, "JWT_SECRET")

	_, err := Load()
	assert.Error(t, err, "Load() must fail when JWT_SECRET is unset")
}

func TestLoad_RejectsEmptyJWTSecret(t *testing.T) {
	// envconfig's required check passes for set-but-empty — Load must not.
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err, "Load() must fail when JWT_SECRET is empty")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-at-least-16-chars!!")
	for _, key := range []string{"PORT", "DB_PATH", "GITHUB_API_URL", "GITHUB_CLIENT_ID", "GITHUB_CLIENT_SECRET", "GITHUB_CALLBACK_URL"} {
		unsetenv(t, key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "data/gitfav.db", cfg.DBPath)
	assert.Equal(t, "https://api.github.com", cfg.GitHubAPIURL)
	assert.False(t, cfg.OAuthEnabled())
}

func TestLoad_OAuthCredentialsMustBePaired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-at-least-16-chars!!")
	t.Setenv("GITHUB_CLIENT_ID", "abc123")
	unsetenv(t, "GITHUB_CLIENT_SECRET")

	_, err := Load()
	assert.Error(t, err, "client ID without a secret should be rejected")
}

func TestLoad_OAuthEnabledAndDefaultCallback(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-at-least-16-chars!!")
	t.Setenv("PORT", "9191")
	t.Setenv("GITHUB_CLIENT_ID", "abc123")
	t.Setenv("GITHUB_CLIENT_SECRET", "s3cr3t")
	unsetenv(t, "GITHUB_CALLBACK_URL")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.OAuthEnabled())
	assert.Equal(t, "http://localhost:9191/auth/github/callback", cfg.GitHubCallbackURL)
}
