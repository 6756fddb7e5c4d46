package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/gitfav/internal/auth"
	"github.com/sakif/gitfav/internal/service"
)

// SearchHandler proxies public-repository lookups to GitHub.
//
// The route is authenticated even though the data is public: GitHub
// rate-limits by caller, and putting the proxy behind login stops the
// server's quota being burned anonymously.
type SearchHandler struct {
	search *service.SearchService
	logger *slog.Logger
}

func NewSearchHandler(search *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		search: search,
		logger: logger,
	}
}

// HandleSearchRepos lists a GitHub user's public repositories.
//
// HTTP: GET /user/searchRepo?username=octocat
//
// The response rows carry the same field names the favorites endpoints
// use, so the frontend can pass a search result straight to
// POST /user/favorites.
func (h *SearchHandler) HandleSearchRepos(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.IdentityFromContext(r.Context()); !ok {
		writeUnauthorized(w)
		return
	}

	username := r.URL.Query().Get("username")

	repos, err := h.search.SearchRepos(r.Context(), username)
	if err != nil {
		h.logger.Warn("repo search failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, repos)
}
