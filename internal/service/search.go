package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/gitfav/internal/apperror"
	"github.com/sakif/gitfav/internal/model"
)

// RepoLister fetches a GitHub user's public repositories.
// Satisfied by *github.Client; tests use a fake.
type RepoLister interface {
	ListUserRepos(ctx context.Context, username string) ([]model.RepoSummary, error)
}

// SearchService proxies repository searches to GitHub.
type SearchService struct {
	repos  RepoLister
	logger *slog.Logger
}

// NewSearchService creates a SearchService.
func NewSearchService(repos RepoLister, logger *slog.Logger) *SearchService {
	return &SearchService{
		repos:  repos,
		logger: logger,
	}
}

// SearchRepos returns summaries of the given GitHub user's repositories.
// An empty username is a validation error; every upstream failure is
// already an ErrUpstream from the client and passes through untouched.
func (s *SearchService) SearchRepos(ctx context.Context, username string) ([]model.RepoSummary, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}

	repos, err := s.repos.ListUserRepos(ctx, username)
	if err != nil {
		s.logger.Error("repo search failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	return repos, nil
}
