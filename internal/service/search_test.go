package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/gitfav/internal/apperror"
	"github.com/sakif/gitfav/internal/model"
)

// fakeRepoLister records the username it was asked about and returns a
// canned answer.
type fakeRepoLister struct {
	gotUsername string
	repos       []model.RepoSummary
	err         error
}

func (f *fakeRepoLister) ListUserRepos(_ context.Context, username string) ([]model.RepoSummary, error) {
	f.gotUsername = username
	if f.err != nil {
		return nil, f.err
	}
	return f.repos, nil
}

func TestSearchRepos_Success(t *testing.T) {
	lister := &fakeRepoLister{
		repos: []model.RepoSummary{
			{RepoID: 42, RepoName: "foo", HTMLURL: "https://github.com/octocat/foo"},
		},
	}
	svc := NewSearchService(lister, testLogger())

	repos, err := svc.SearchRepos(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("SearchRepos() error = %v", err)
	}
	if lister.gotUsername != "octocat" {
		t.Errorf("queried username = %q, want %q", lister.gotUsername, "octocat")
	}
	if len(repos) != 1 || repos[0].RepoID != 42 {
		t.Errorf("SearchRepos() = %+v", repos)
	}
}

func TestSearchRepos_TrimsUsername(t *testing.T) {
	lister := &fakeRepoLister{}
	svc := NewSearchService(lister, testLogger())

	if _, err := svc.SearchRepos(context.Background(), "  octocat  "); err != nil {
		t.Fatalf("SearchRepos() error = %v", err)
	}
	if lister.gotUsername != "octocat" {
		t.Errorf("queried username = %q, want it trimmed", lister.gotUsername)
	}
}

func TestSearchRepos_EmptyUsername(t *testing.T) {
	svc := NewSearchService(&fakeRepoLister{}, testLogger())

	for _, username := range []string{"", "   "} {
		_, err := svc.SearchRepos(context.Background(), username)
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("SearchRepos(%q) error = %v, want ErrValidation", username, err)
		}
	}
}

func TestSearchRepos_UpstreamErrorPassesThrough(t *testing.T) {
	lister := &fakeRepoLister{err: apperror.Upstream("GitHub API request failed")}
	svc := NewSearchService(lister, testLogger())

	_, err := svc.SearchRepos(context.Background(), "octocat")
	if !errors.Is(err, apperror.ErrUpstream) {
		t.Fatalf("SearchRepos() error = %v, want ErrUpstream", err)
	}
}
