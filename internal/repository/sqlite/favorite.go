package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/sakif/gitfav/internal/apperror"
	"github.com/sakif/gitfav/internal/model"
	"github.com/sakif/gitfav/internal/repository"
)

// compile-time check that *DB implements repository.FavoriteRepository
var _ repository.FavoriteRepository = (*DB)(nil)

// OWNERSHIP SCOPING:
// Every statement in this file filters on user_id. That is the whole
// multi-tenancy story: a row belonging to another user is invisible to
// ListFavorites and untouchable by DeleteFavorite, even when the attacker knows the
// repo ID. There is no code path that queries favorites without an owner.

// ListFavorites retrieves all favorites belonging to userID, newest first.
// Returns an empty slice (not nil, not an error) when the user has none.
func (db *DB) ListFavorites(ctx context.Context, userID int64) ([]model.Favorite, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, repo_id, repo_name, description, stars, language, html_url, created_at
		 FROM favorites
		 WHERE user_id = ?
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing favorites for user %d: %w", userID, err)
	}
	defer rows.Close()

	favorites := []model.Favorite{}
	for rows.Next() {
		var f model.Favorite
		if err := rows.Scan(
			&f.ID, &f.UserID, &f.RepoID, &f.RepoName, &f.Description,
			&f.Stars, &f.Language, &f.HTMLURL, &f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning favorite row: %w", err)
		}
		favorites = append(favorites, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating favorites: %w", err)
	}

	return favorites, nil
}

// CreateFavorite inserts a favorite for fav.UserID and fills in the assigned ID.
// A UNIQUE(user_id, repo_id) violation means this user already favorited
// the repo — translated to ErrConflict.
func (db *DB) CreateFavorite(ctx context.Context, fav *model.Favorite) error {
	fav.CreatedAt = time.Now()

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO favorites (user_id, repo_id, repo_name, description, stars, language, html_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		fav.UserID,
		fav.RepoID,
		fav.RepoName,
		fav.Description,
		fav.Stars,
		fav.Language,
		fav.HTMLURL,
		fav.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("favorite", "already exists for this repository")
		}
		return fmt.Errorf("sqlite: creating favorite (user=%d repo=%d): %w", fav.UserID, fav.RepoID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new favorite id: %w", err)
	}
	fav.ID = id

	return nil
}

// DeleteFavorite removes the favorite identified by (userID, repoID).
//
// The WHERE clause matches both columns, so a guessed repo ID belonging to
// someone else deletes nothing and reports NotFound — indistinguishable
// from the repo never having been favorited.
func (db *DB) DeleteFavorite(ctx context.Context, userID, repoID int64) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND repo_id = ?`,
		userID, repoID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting favorite (user=%d repo=%d): %w", userID, repoID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("favorite", fmt.Sprintf("%d", repoID))
	}

	return nil
}
