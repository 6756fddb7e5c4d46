package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/gitfav/internal/auth"
	"github.com/sakif/gitfav/internal/service"
)

// FavoriteHandler exposes the per-user favorites collection.
//
// Every route here sits behind auth.RequireAuth, so the authenticated
// identity is always present in the request context. The user ID from the
// token — never anything the client sends in the body or URL — decides
// whose favorites are read or written.
type FavoriteHandler struct {
	favorites *service.FavoriteService
	logger    *slog.Logger
}

func NewFavoriteHandler(favorites *service.FavoriteService, logger *slog.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		favorites: favorites,
		logger:    logger,
	}
}

// HandleList returns the caller's favorites, newest first.
//
// HTTP: GET /user/favorites
//
// An account with no favorites gets 200 and an empty array, not 404.
func (h *FavoriteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	favorites, err := h.favorites.List(r.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("list favorites failed",
			slog.Int64("userID", identity.UserID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, favorites)
}

// HandleCreate saves a repository to the caller's favorites.
//
// HTTP: POST /user/favorites
// BODY: {"repoId": 123, "repoName": "owner/repo", "htmlUrl": "...", ...}
//
// 409 when the repository is already in this user's favorites. The same
// repoId under a different account is fine.
func (h *FavoriteHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	var input service.FavoriteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.logger.Warn("invalid favorite JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	favorite, err := h.favorites.Add(r.Context(), identity.UserID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, favorite)
}

// HandleDelete removes one repository from the caller's favorites.
//
// HTTP: DELETE /user/favorites/{repoID}
//
// repoID is the GitHub repository ID, not our row ID. 404 when the caller
// has no favorite with that ID — including when the favorite belongs to
// someone else, which must be indistinguishable from "never existed".
func (h *FavoriteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	repoID, err := strconv.ParseInt(chi.URLParam(r, "repoID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "repoID must be an integer",
		})
		return
	}

	if err := h.favorites.Remove(r.Context(), identity.UserID, repoID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "favorite removed",
	})
}
