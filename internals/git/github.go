package git

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/go-github/v60/github"
	"golang.org/x/oauth2"

	"github.com/jadenj13/triage/internals/issue"
)

const labelsPerPage = 100

type GitHubTracker struct {
	gh   *github.Client
	info RepoInfo
}

func NewGitHubTracker(ctx context.Context, token string, info RepoInfo) (*GitHubTracker, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	gh := github.NewClient(oauth2.NewClient(ctx, ts))

	// GitHub Enterprise serves the API under /api/v3 on the instance host.
	if info.Host != "github.com" && info.Host != "" {
		base := "https://" + info.Host + "/api/v3/"
		upload := "https://" + info.Host + "/api/uploads/"
		var err error
		gh, err = gh.WithEnterpriseURLs(base, upload)
		if err != nil {
			return nil, fmt.Errorf("github enterprise client: %w", err)
		}
	}
	return newGitHubTracker(gh, info), nil
}

func newGitHubTracker(gh *github.Client, info RepoInfo) *GitHubTracker {
	return &GitHubTracker{gh: gh, info: info}
}

func (t *GitHubTracker) Info() RepoInfo { return t.info }

func (t *GitHubTracker) CurrentUser(ctx context.Context) (issue.User, error) {
	u, _, err := t.gh.Users.Get(ctx, "")
	if err != nil {
		return issue.User{}, fmt.Errorf("github current user: %w", err)
	}
	return issue.User{Login: u.GetLogin()}, nil
}

func (t *GitHubTracker) GetRepository(ctx context.Context) (issue.Repository, error) {
	repo, _, err := t.gh.Repositories.Get(ctx, t.info.Owner, t.info.Repo)
	if err != nil {
		return issue.Repository{}, fmt.Errorf("github get repository: %w", err)
	}
	return issue.Repository{
		Name:      repo.GetName(),
		Owner:     issue.User{Login: repo.GetOwner().GetLogin()},
		LabelsURL: repo.GetLabelsURL(),
	}, nil
}

func (t *GitHubTracker) GetIssue(ctx context.Context, number int) (issue.Issue, error) {
	iss, _, err := t.gh.Issues.Get(ctx, t.info.Owner, t.info.Repo, number)
	if err != nil {
		return issue.Issue{}, fmt.Errorf("github get issue: %w", err)
	}
	return fromGitHubIssue(iss), nil
}

// ListLabels walks every page of the labels endpoint. The endpoint is used
// verbatim so that the URL advertised by the repository is the one fetched.
func (t *GitHubTracker) ListLabels(ctx context.Context, endpoint string) ([]issue.Label, error) {
	var out []issue.Label
	page := 1
	for {
		u, err := pageURL(endpoint, page)
		if err != nil {
			return nil, err
		}
		req, err := t.gh.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("github labels request: %w", err)
		}
		var labels []*github.Label
		resp, err := t.gh.Do(ctx, req, &labels)
		if err != nil {
			return nil, fmt.Errorf("github list labels: %w", err)
		}
		for _, l := range labels {
			out = append(out, issue.Label{
				Name:        l.GetName(),
				Color:       l.GetColor(),
				Description: l.GetDescription(),
			})
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		page = resp.NextPage
	}
}

func (t *GitHubTracker) UpdateIssue(ctx context.Context, number int, edit issue.EditCommand) (issue.Issue, error) {
	req := &github.IssueRequest{
		Labels:    edit.Labels,
		Assignees: edit.Assignees,
	}
	if edit.State != nil {
		req.State = github.String(string(*edit.State))
	}
	iss, _, err := t.gh.Issues.Edit(ctx, t.info.Owner, t.info.Repo, number, req)
	if err != nil {
		return issue.Issue{}, fmt.Errorf("github edit issue: %w", err)
	}
	return fromGitHubIssue(iss), nil
}

func (t *GitHubTracker) SetLocked(ctx context.Context, number int, locked bool) error {
	var err error
	if locked {
		_, err = t.gh.Issues.Lock(ctx, t.info.Owner, t.info.Repo, number, nil)
	} else {
		_, err = t.gh.Issues.Unlock(ctx, t.info.Owner, t.info.Repo, number)
	}
	if err != nil {
		return fmt.Errorf("github set locked=%t: %w", locked, err)
	}
	return nil
}

func fromGitHubIssue(gi *github.Issue) issue.Issue {
	out := issue.Issue{
		Number: gi.GetNumber(),
		Title:  gi.GetTitle(),
		URL:    gi.GetHTMLURL(),
		State:  issue.State(gi.GetState()),
		Locked: gi.GetLocked(),
	}
	for _, l := range gi.Labels {
		out.Labels = append(out.Labels, issue.Label{
			Name:        l.GetName(),
			Color:       l.GetColor(),
			Description: l.GetDescription(),
		})
	}
	for _, u := range gi.Assignees {
		out.Assignees = append(out.Assignees, issue.User{Login: u.GetLogin()})
	}
	return out
}

func pageURL(endpoint string, page int) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid labels endpoint %q: %w", endpoint, err)
	}
	q := u.Query()
	q.Set("per_page", strconv.Itoa(labelsPerPage))
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
