package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/gitfav/internal/apperror"
	"github.com/sakif/gitfav/internal/model"
	"github.com/sakif/gitfav/internal/repository"
)

// FavoriteInput is what a client sends to favorite a repository — typically
// a RepoSummary straight from the search endpoint.
type FavoriteInput struct {
	RepoID      int64  `json:"repoId"`
	RepoName    string `json:"repoName"`
	Description string `json:"description"`
	Stars       int    `json:"stars"`
	Language    string `json:"language"`
	HTMLURL     string `json:"htmlUrl"`
}

// FavoriteService handles business logic for favorites.
//
// Every method takes the authenticated user's ID as its first domain
// argument; the service never trusts an owner ID from a request body.
type FavoriteService struct {
	repo   repository.FavoriteRepository
	logger *slog.Logger
}

// NewFavoriteService creates a FavoriteService.
func NewFavoriteService(repo repository.FavoriteRepository, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{
		repo:   repo,
		logger: logger,
	}
}

// List returns the user's favorites, newest first. No favorites is an empty
// list, never an error.
func (s *FavoriteService) List(ctx context.Context, userID int64) ([]model.Favorite, error) {
	favorites, err := s.repo.ListFavorites(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list favorites",
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing favorites: %w", err)
	}

	return favorites, nil
}

// Add validates the input and saves a new favorite for userID.
//
// repo_id, repo_name, and html_url are required; description, stars, and
// language are optional metadata copied from the search result. Favoriting
// the same repository twice returns ErrConflict (from the repository's
// UNIQUE constraint).
func (s *FavoriteService) Add(ctx context.Context, userID int64, input FavoriteInput) (*model.Favorite, error) {
	input.RepoName = strings.TrimSpace(input.RepoName)
	input.HTMLURL = strings.TrimSpace(input.HTMLURL)

	if input.RepoID == 0 {
		return nil, apperror.ValidationFailed("repoId", "repoId is required")
	}
	if input.RepoName == "" {
		return nil, apperror.ValidationFailed("repoName", "repoName is required")
	}
	if input.HTMLURL == "" {
		return nil, apperror.ValidationFailed("htmlUrl", "htmlUrl is required")
	}

	fav := &model.Favorite{
		UserID:      userID,
		RepoID:      input.RepoID,
		RepoName:    input.RepoName,
		Description: strings.TrimSpace(input.Description),
		Stars:       input.Stars,
		Language:    strings.TrimSpace(input.Language),
		HTMLURL:     input.HTMLURL,
	}

	if err := s.repo.CreateFavorite(ctx, fav); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			// Normal outcome, not a failure worth an error log.
			return nil, err
		}
		s.logger.Error("failed to create favorite",
			slog.Int64("userID", userID),
			slog.Int64("repoID", input.RepoID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating favorite: %w", err)
	}

	s.logger.Info("favorite created",
		slog.Int64("userID", userID),
		slog.Int64("repoID", fav.RepoID),
		slog.String("repo", fav.RepoName),
	)

	return fav, nil
}

// Remove deletes the favorite identified by (userID, repoID).
// Returns ErrNotFound when the user has no such favorite — including when
// the favorite exists but belongs to someone else.
func (s *FavoriteService) Remove(ctx context.Context, userID, repoID int64) error {
	if repoID == 0 {
		return apperror.ValidationFailed("repoId", "repoId is required")
	}

	if err := s.repo.DeleteFavorite(ctx, userID, repoID); err != nil {
		return err
	}

	s.logger.Info("favorite deleted",
		slog.Int64("userID", userID),
		slog.Int64("repoID", repoID),
	)
	return nil
}
