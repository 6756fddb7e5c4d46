// Package github is a minimal client for the GitHub REST API's repo-listing
// endpoint. It backs the search proxy: given a GitHub username, return a
// summary of that user's public repositories.
//
// Deliberately thin: no retry, no rate-limit handling, no caching. Any
// upstream failure — network, non-200, undecodable body — collapses into a
// single upstream error that handlers surface as a generic 500.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sakif/gitfav/internal/apperror"
	"github.com/sakif/gitfav/internal/model"
)

// DefaultBaseURL is GitHub's public REST API.
const DefaultBaseURL = "https://api.github.com"

// Client calls the GitHub REST API.
//
// The base URL is injectable so tests can point it at an httptest server;
// everything else rides on a plain *http.Client with a request timeout.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the given API base URL. An empty baseURL
// means the public GitHub API.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// repo is the slice of GitHub's repository object we care about.
// GitHub returns a much larger object — we only unmarshal the fields we need.
//
// GitHub API docs: https://docs.github.com/en/rest/repos/repos#list-repositories-for-a-user
type repo struct {
	ID int64 `json:"id"`
	// full_name is the "owner/repo" form ("octocat/Hello-World") — the
	// same shape clients store as repoName when favoriting a result.
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Stars       int    `json:"stargazers_count"`
	Language    string `json:"language"`
	HTMLURL     string `json:"html_url"`
}

// ListUserRepos fetches the public repositories of the given GitHub user and
// reshapes them into RepoSummary values.
//
// GET {base}/users/{username}/repos
//
// The username is path-escaped — it comes straight from a query parameter
// and must not be able to rewrite the request path.
func (c *Client) ListUserRepos(ctx context.Context, username string) ([]model.RepoSummary, error) {
	reqURL := fmt.Sprintf("%s/users/%s/repos", c.baseURL, url.PathEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("github: building request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github: calling %s: %v: %w", reqURL, err, apperror.Upstream("GitHub API unreachable"))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// 404 (no such user), 403 (rate limited), 5xx — all the same to us.
		return nil, fmt.Errorf("github: status %d from %s: %w",
			resp.StatusCode, reqURL, apperror.Upstream("GitHub API request failed"))
	}

	var repos []repo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, fmt.Errorf("github: decoding response: %v: %w", err, apperror.Upstream("GitHub API returned an invalid response"))
	}

	summaries := make([]model.RepoSummary, 0, len(repos))
	for _, r := range repos {
		summaries = append(summaries, model.RepoSummary{
			RepoID:      r.ID,
			RepoName:    r.FullName,
			Description: r.Description,
			Stars:       r.Stars,
			Language:    r.Language,
			HTMLURL:     r.HTMLURL,
		})
	}

	return summaries, nil
}
