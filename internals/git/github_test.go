package git

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v60/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jadenj13/triage/internals/issue"
)

func newTestGitHubTracker(t *testing.T, mux *http.ServeMux) (*GitHubTracker, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	gh := github.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	gh.BaseURL = base

	info := RepoInfo{Platform: PlatformGitHub, Host: "github.com", Owner: "octo", Repo: "hello"}
	return newGitHubTracker(gh, info), srv
}

func TestGitHubTracker_GetIssue(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/hello/issues/42", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"number": 42, "title": "Crash", "state": "open", "locked": true,
			"html_url": "https://github.com/octo/hello/issues/42",
			"labels": [{"name": "bug", "color": "d73a4a"}],
			"assignees": [{"login": "alice"}]
		}`)
	})
	tr, _ := newTestGitHubTracker(t, mux)

	got, err := tr.GetIssue(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, issue.Issue{
		Number:    42,
		Title:     "Crash",
		URL:       "https://github.com/octo/hello/issues/42",
		State:     issue.StateOpen,
		Locked:    true,
		Labels:    []issue.Label{{Name: "bug", Color: "d73a4a"}},
		Assignees: []issue.User{{Login: "alice"}},
	}, got)
}

func TestGitHubTracker_GetRepositoryAndUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/hello", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name": "hello", "owner": {"login": "octo"},
			"labels_url": "https://api.github.com/repos/octo/hello/labels{/name}"}`)
	})
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"login": "alice"}`)
	})
	tr, _ := newTestGitHubTracker(t, mux)

	repo, err := tr.GetRepository(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello", repo.Name)
	assert.Equal(t, "octo", repo.Owner.Login)
	assert.Equal(t, "https://api.github.com/repos/octo/hello/labels", repo.LabelsEndpoint())

	user, err := tr.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, issue.User{Login: "alice"}, user)
}

func TestGitHubTracker_ListLabels_Paginates(t *testing.T) {
	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/hello/labels", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		switch r.URL.Query().Get("page") {
		case "1":
			w.Header().Set("Link", fmt.Sprintf(`<%s/repos/octo/hello/labels?page=2>; rel="next"`, srvURL))
			fmt.Fprint(w, `[{"name": "bug", "color": "d73a4a"}]`)
		case "2":
			fmt.Fprint(w, `[{"name": "ui", "color": "fef2c0", "description": "Interface"}]`)
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	})
	tr, srv := newTestGitHubTracker(t, mux)
	srvURL = srv.URL

	labels, err := tr.ListLabels(context.Background(), srv.URL+"/repos/octo/hello/labels")
	require.NoError(t, err)
	assert.Equal(t, []issue.Label{
		{Name: "bug", Color: "d73a4a"},
		{Name: "ui", Color: "fef2c0", Description: "Interface"},
	}, labels)
}

func TestGitHubTracker_UpdateIssue(t *testing.T) {
	var body map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /repos/octo/hello/issues/42", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		fmt.Fprint(w, `{"number": 42, "state": "closed", "labels": [{"name": "bug"}]}`)
	})
	tr, _ := newTestGitHubTracker(t, mux)

	labels := []string{"bug"}
	state := issue.StateClosed
	got, err := tr.UpdateIssue(context.Background(), 42, issue.EditCommand{Labels: &labels, State: &state})
	require.NoError(t, err)

	assert.Equal(t, []any{"bug"}, body["labels"])
	assert.Equal(t, "closed", body["state"])
	assert.NotContains(t, body, "assignees", "untouched fields are not sent")
	assert.Equal(t, issue.StateClosed, got.State)
}

func TestGitHubTracker_SetLocked(t *testing.T) {
	var calls []string
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/hello/issues/42/lock", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	tr, _ := newTestGitHubTracker(t, mux)

	require.NoError(t, tr.SetLocked(context.Background(), 42, true))
	require.NoError(t, tr.SetLocked(context.Background(), 42, false))
	assert.Equal(t, []string{http.MethodPut, http.MethodDelete}, calls)
}

func TestGitHubTracker_ErrorsAreWrapped(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	})
	tr, _ := newTestGitHubTracker(t, mux)

	_, err := tr.GetIssue(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "github get issue")

	var ghErr *github.ErrorResponse
	assert.ErrorAs(t, err, &ghErr)
}
