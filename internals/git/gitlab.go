package git

import (
	"context"
	"fmt"
	"net/url"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	"github.com/jadenj13/triage/internals/issue"
)

type GitLabTracker struct {
	gl      *gitlab.Client
	info    RepoInfo
	baseURL string
}

func NewGitLabTracker(token, baseURL string, info RepoInfo) (*GitLabTracker, error) {
	gl, err := gitlab.NewClient(token, gitlab.WithBaseURL(baseURL+"/api/v4"))
	if err != nil {
		return nil, fmt.Errorf("gitlab client: %w", err)
	}
	return &GitLabTracker{gl: gl, info: info, baseURL: baseURL}, nil
}

func (t *GitLabTracker) Info() RepoInfo { return t.info }

func (t *GitLabTracker) pid() string {
	return t.info.Owner + "/" + t.info.Repo
}

// labelsEndpoint mirrors the project labels API path, relative to /api/v4.
func (t *GitLabTracker) labelsEndpoint() string {
	return "projects/" + url.PathEscape(t.pid()) + "/labels"
}

func (t *GitLabTracker) CurrentUser(ctx context.Context) (issue.User, error) {
	u, _, err := t.gl.Users.CurrentUser(gitlab.WithContext(ctx))
	if err != nil {
		return issue.User{}, fmt.Errorf("gitlab current user: %w", err)
	}
	return issue.User{Login: u.Username, ID: u.ID}, nil
}

func (t *GitLabTracker) GetRepository(ctx context.Context) (issue.Repository, error) {
	p, _, err := t.gl.Projects.GetProject(t.pid(), nil, gitlab.WithContext(ctx))
	if err != nil {
		return issue.Repository{}, fmt.Errorf("gitlab get project: %w", err)
	}
	return issue.Repository{
		Name:      p.Path,
		Owner:     issue.User{Login: t.info.Owner},
		LabelsURL: t.labelsEndpoint() + "{/name}",
	}, nil
}

func (t *GitLabTracker) GetIssue(ctx context.Context, number int) (issue.Issue, error) {
	gi, _, err := t.gl.Issues.GetIssue(t.pid(), int64(number), gitlab.WithContext(ctx))
	if err != nil {
		return issue.Issue{}, fmt.Errorf("gitlab get issue: %w", err)
	}
	return fromGitLabIssue(gi), nil
}

func (t *GitLabTracker) ListLabels(ctx context.Context, endpoint string) ([]issue.Label, error) {
	if endpoint != t.labelsEndpoint() {
		return nil, fmt.Errorf("gitlab labels endpoint %q does not belong to %s", endpoint, t.pid())
	}

	var out []issue.Label
	opts := &gitlab.ListLabelsOptions{ListOptions: gitlab.ListOptions{PerPage: labelsPerPage}}
	for {
		labels, resp, err := t.gl.Labels.ListLabels(t.pid(), opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("gitlab list labels: %w", err)
		}
		for _, l := range labels {
			out = append(out, issue.Label{
				Name:        l.Name,
				Color:       trimHash(l.Color),
				Description: l.Description,
			})
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

func (t *GitLabTracker) UpdateIssue(ctx context.Context, number int, edit issue.EditCommand) (issue.Issue, error) {
	opts := &gitlab.UpdateIssueOptions{
		Labels: (*gitlab.LabelOptions)(edit.Labels),
	}
	if edit.Assignees != nil {
		ids, err := t.userIDs(ctx, *edit.Assignees)
		if err != nil {
			return issue.Issue{}, err
		}
		opts.AssigneeIDs = &ids
	}
	if edit.State != nil {
		event := "close"
		if *edit.State == issue.StateOpen {
			event = "reopen"
		}
		opts.StateEvent = gitlab.Ptr(event)
	}

	gi, _, err := t.gl.Issues.UpdateIssue(t.pid(), int64(number), opts, gitlab.WithContext(ctx))
	if err != nil {
		return issue.Issue{}, fmt.Errorf("gitlab update issue: %w", err)
	}
	return fromGitLabIssue(gi), nil
}

func (t *GitLabTracker) SetLocked(ctx context.Context, number int, locked bool) error {
	opts := &gitlab.UpdateIssueOptions{DiscussionLocked: gitlab.Ptr(locked)}
	_, _, err := t.gl.Issues.UpdateIssue(t.pid(), int64(number), opts, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("gitlab set discussion_locked=%t: %w", locked, err)
	}
	return nil
}

// userIDs resolves usernames to the numeric ids GitLab assigns by.
func (t *GitLabTracker) userIDs(ctx context.Context, logins []string) ([]int64, error) {
	ids := make([]int64, 0, len(logins))
	for _, login := range logins {
		users, _, err := t.gl.Users.ListUsers(&gitlab.ListUsersOptions{Username: gitlab.Ptr(login)}, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("gitlab lookup user %q: %w", login, err)
		}
		if len(users) == 0 {
			return nil, fmt.Errorf("gitlab user %q not found", login)
		}
		ids = append(ids, users[0].ID)
	}
	return ids, nil
}

func fromGitLabIssue(gi *gitlab.Issue) issue.Issue {
	out := issue.Issue{
		Number: int(gi.IID), // IID is the project-scoped issue number
		Title:  gi.Title,
		URL:    gi.WebURL,
		State:  issue.StateClosed,
		Locked: gi.DiscussionLocked,
	}
	if gi.State == "opened" {
		out.State = issue.StateOpen
	}
	for _, name := range gi.Labels {
		out.Labels = append(out.Labels, issue.Label{Name: name})
	}
	for _, a := range gi.Assignees {
		out.Assignees = append(out.Assignees, issue.User{Login: a.Username, ID: a.ID})
	}
	return out
}

func trimHash(color string) string {
	if len(color) > 0 && color[0] == '#' {
		return color[1:]
	}
	return color
}
