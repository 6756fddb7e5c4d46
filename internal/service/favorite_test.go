package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/gitfav/internal/apperror"
	"github.com/sakif/gitfav/internal/model"
)

// fakeFavoriteRepo is an in-memory repository.FavoriteRepository that
// mirrors the real store's ownership scoping and UNIQUE(user_id, repo_id)
// constraint.
type fakeFavoriteRepo struct {
	favorites []model.Favorite
	nextID    int64
	// set to simulate a database failure
	listErr   error
	createErr error
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{nextID: 1}
}

func (f *fakeFavoriteRepo) ListFavorites(_ context.Context, userID int64) ([]model.Favorite, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	result := []model.Favorite{}
	for _, fav := range f.favorites {
		if fav.UserID == userID {
			result = append(result, fav)
		}
	}
	return result, nil
}

func (f *fakeFavoriteRepo) CreateFavorite(_ context.Context, fav *model.Favorite) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.favorites {
		if existing.UserID == fav.UserID && existing.RepoID == fav.RepoID {
			return apperror.Conflict("favorite", "already exists for this repository")
		}
	}
	fav.ID = f.nextID
	f.nextID++
	f.favorites = append(f.favorites, *fav)
	return nil
}

func (f *fakeFavoriteRepo) DeleteFavorite(_ context.Context, userID, repoID int64) error {
	for i, fav := range f.favorites {
		if fav.UserID == userID && fav.RepoID == repoID {
			f.favorites = append(f.favorites[:i], f.favorites[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("favorite", "?")
}

func newTestFavoriteService(repo *fakeFavoriteRepo) *FavoriteService {
	return NewFavoriteService(repo, testLogger())
}

func validInput() FavoriteInput {
	return FavoriteInput{
		RepoID:   42,
		RepoName: "foo",
		HTMLURL:  "https://github.com/example/foo",
		Stars:    7,
		Language: "Go",
	}
}

// =========================================================================
// Add TESTS
// =========================================================================

func TestFavoriteAdd_Success(t *testing.T) {
	svc := newTestFavoriteService(newFakeFavoriteRepo())

	fav, err := svc.Add(context.Background(), 1, validInput())
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if fav.ID == 0 {
		t.Error("Add() did not return the stored record")
	}
	if fav.UserID != 1 {
		t.Errorf("Add() UserID = %d, want 1 (the authenticated user)", fav.UserID)
	}
}

func TestFavoriteAdd_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*FavoriteInput)
	}{
		{"missing repoId", func(in *FavoriteInput) { in.RepoID = 0 }},
		{"missing repoName", func(in *FavoriteInput) { in.RepoName = "  " }},
		{"missing htmlUrl", func(in *FavoriteInput) { in.HTMLURL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestFavoriteService(newFakeFavoriteRepo())
			input := validInput()
			tt.mutate(&input)

			_, err := svc.Add(context.Background(), 1, input)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Add() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestFavoriteAdd_OptionalFieldsMayBeEmpty(t *testing.T) {
	svc := newTestFavoriteService(newFakeFavoriteRepo())

	input := validInput()
	input.Description = ""
	input.Language = ""
	input.Stars = 0

	if _, err := svc.Add(context.Background(), 1, input); err != nil {
		t.Fatalf("Add() with only required fields error = %v", err)
	}
}

func TestFavoriteAdd_DuplicateIsConflict(t *testing.T) {
	svc := newTestFavoriteService(newFakeFavoriteRepo())

	if _, err := svc.Add(context.Background(), 1, validInput()); err != nil {
		t.Fatalf("first Add() error = %v", err)
	}

	_, err := svc.Add(context.Background(), 1, validInput())
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("second Add() error = %v, want ErrConflict", err)
	}
}

// =========================================================================
// List TESTS
// =========================================================================

func TestFavoriteList_EmptyIsNotAnError(t *testing.T) {
	svc := newTestFavoriteService(newFakeFavoriteRepo())

	favs, err := svc.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(favs) != 0 {
		t.Errorf("List() = %d favorites, want 0", len(favs))
	}
}

func TestFavoriteList_ScopedToOwner(t *testing.T) {
	repo := newFakeFavoriteRepo()
	svc := newTestFavoriteService(repo)

	if _, err := svc.Add(context.Background(), 1, validInput()); err != nil {
		t.Fatalf("setup: %v", err)
	}

	// User 2 sees nothing of user 1's favorites.
	favs, err := svc.List(context.Background(), 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(favs) != 0 {
		t.Errorf("List() leaked %d favorites across tenants", len(favs))
	}
}

func TestFavoriteList_RepositoryError(t *testing.T) {
	repo := newFakeFavoriteRepo()
	repo.listErr = errors.New("database is on fire")
	svc := newTestFavoriteService(repo)

	_, err := svc.List(context.Background(), 1)
	if err == nil {
		t.Fatal("List() should propagate repository errors")
	}
}

// =========================================================================
// Remove TESTS
// =========================================================================

func TestFavoriteRemove_Success(t *testing.T) {
	repo := newFakeFavoriteRepo()
	svc := newTestFavoriteService(repo)

	if _, err := svc.Add(context.Background(), 1, validInput()); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if err := svc.Remove(context.Background(), 1, 42); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
}

func TestFavoriteRemove_NotFound(t *testing.T) {
	svc := newTestFavoriteService(newFakeFavoriteRepo())

	err := svc.Remove(context.Background(), 1, 42)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Remove() error = %v, want ErrNotFound", err)
	}
}

func TestFavoriteRemove_CannotTouchAnotherUsersFavorite(t *testing.T) {
	repo := newFakeFavoriteRepo()
	svc := newTestFavoriteService(repo)

	if _, err := svc.Add(context.Background(), 1, validInput()); err != nil {
		t.Fatalf("setup: %v", err)
	}

	// User 2 guesses the repo ID.
	err := svc.Remove(context.Background(), 2, 42)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Remove() error = %v, want ErrNotFound", err)
	}

	// User 1's favorite is untouched.
	favs, _ := svc.List(context.Background(), 1)
	if len(favs) != 1 {
		t.Error("cross-tenant Remove() affected the owner's favorite")
	}
}
