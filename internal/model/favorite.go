package model

import "time"

// Favorite is a GitHub repository a user has bookmarked.
//
// RepoID is GitHub's numeric repository ID — stable even if the repo is
// renamed. The (UserID, RepoID) pair is UNIQUE in the database: a user
// cannot favorite the same repository twice. Favorites are created and
// deleted but never updated.
type Favorite struct {
	ID          int64     `json:"id"          db:"id"`
	UserID      int64     `json:"userId"      db:"user_id"`
	RepoID      int64     `json:"repoId"      db:"repo_id"`
	RepoName    string    `json:"repoName"    db:"repo_name"`
	Description string    `json:"description" db:"description"`
	Stars       int       `json:"stars"       db:"stars"`
	Language    string    `json:"language"    db:"language"`
	HTMLURL     string    `json:"htmlUrl"     db:"html_url"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
}

// RepoSummary is one search result from the GitHub repo-listing proxy.
// It is never persisted — it exists only in search responses, shaped so
// the frontend can POST it straight back as a new Favorite.
type RepoSummary struct {
	RepoID      int64  `json:"repoId"`
	RepoName    string `json:"repoName"`
	Description string `json:"description"`
	Stars       int    `json:"stars"`
	Language    string `json:"language"`
	HTMLURL     string `json:"htmlUrl"`
}
