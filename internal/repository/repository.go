package repository

import (
	"context"

	"github.com/sakif/gitfav/internal/model"
)

// UserRepository is the credential store. Implementations must translate
// unique-constraint violations on email/login into apperror.ErrConflict —
// the database constraint, not the service-level pre-check, is the real
// guarantee against duplicate registrations racing each other.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	// UpsertGitHubUser creates or refreshes an account keyed on its GitHub ID.
	// Used by the OAuth login path.
	UpsertGitHubUser(ctx context.Context, user *model.User) error
}

// FavoriteRepository is ownership-scoped: every method takes the owner's
// user ID and must never return or mutate another user's rows.
type FavoriteRepository interface {
	ListFavorites(ctx context.Context, userID int64) ([]model.Favorite, error)
	CreateFavorite(ctx context.Context, fav *model.Favorite) error
	DeleteFavorite(ctx context.Context, userID, repoID int64) error
}
