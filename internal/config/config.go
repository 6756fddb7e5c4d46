// Package config loads process-wide configuration from the environment.
//
// A .env file is loaded first if one exists (convenient for local dev), then
// envconfig fills the Config struct from real environment variables, which
// always win over .env values already set in the process.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every knob the server reads at startup.
//
// JWTSecret is required: the server cannot safely issue or verify tokens
// without one, so Load fails hard instead of limping along.
//
// The GitHub OAuth credentials are optional — when absent, the OAuth login
// routes simply aren't registered and email/password auth is the only way in.
type Config struct {
	Port   int    `envconfig:"PORT" default:"8080"`
	DBPath string `envconfig:"DB_PATH" default:"data/gitfav.db"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	GitHubClientID     string `envconfig:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `envconfig:"GITHUB_CLIENT_SECRET"`
	GitHubCallbackURL  string `envconfig:"GITHUB_CALLBACK_URL"`

	// GitHubAPIURL is the base URL of the GitHub REST API. Overridable so
	// tests can point the search proxy at an httptest server.
	GitHubAPIURL string `envconfig:"GITHUB_API_URL" default:"https://api.github.com"`
}

// Load reads the configuration from .env (best effort) and the environment.
func Load() (*Config, error) {
	// Missing .env is not an error — production sets real env vars.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: processing environment: %w", err)
	}

	// envconfig's required check passes for a set-but-empty variable, so
	// guard the fatal case explicitly.
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET must be set")
	}

	if (cfg.GitHubClientID == "") != (cfg.GitHubClientSecret == "") {
		return nil, fmt.Errorf("config: GITHUB_CLIENT_ID and GITHUB_CLIENT_SECRET must be set together")
	}

	if cfg.GitHubCallbackURL == "" {
		cfg.GitHubCallbackURL = fmt.Sprintf("http://localhost:%d/auth/github/callback", cfg.Port)
	}

	return &cfg, nil
}

// OAuthEnabled reports whether GitHub OAuth login is configured.
func (c *Config) OAuthEnabled() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}
