package git

import (
	"context"

	"github.com/jadenj13/triage/internals/issue"
)

// Tracker is the remote issue tracker for a single repository.
type Tracker interface {
	CurrentUser(ctx context.Context) (issue.User, error)
	GetRepository(ctx context.Context) (issue.Repository, error)
	GetIssue(ctx context.Context, number int) (issue.Issue, error)
	// ListLabels fetches the label collection behind a labels endpoint, as
	// returned by issue.Repository.LabelsEndpoint.
	ListLabels(ctx context.Context, endpoint string) ([]issue.Label, error)
	UpdateIssue(ctx context.Context, number int, edit issue.EditCommand) (issue.Issue, error)
	SetLocked(ctx context.Context, number int, locked bool) error
	Info() RepoInfo
}

type Platform int

const (
	PlatformGitHub Platform = iota
	PlatformGitLab
)

func (p Platform) String() string {
	switch p {
	case PlatformGitHub:
		return "github"
	case PlatformGitLab:
		return "gitlab"
	default:
		return "unknown"
	}
}
