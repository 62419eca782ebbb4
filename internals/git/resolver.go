package git

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

type RepoInfo struct {
	Platform Platform
	Host     string // e.g. "github.com" or "gitlab.mycompany.com"
	Owner    string
	Repo     string
	RawURL   string
}

// IssueRef points at one issue of a repository.
type IssueRef struct {
	Repo   RepoInfo
	Number int
}

// ParseIssueRef accepts an issue URL (…/issues/42, …/-/issues/42) or a
// repository reference plus a separate number argument. A bare "owner/repo"
// resolves to github.com.
func ParseIssueRef(ref string, number string) (IssueRef, error) {
	ref = strings.TrimSpace(ref)
	if !strings.Contains(ref, "://") && !strings.HasPrefix(ref, "git@") {
		ref = strings.TrimPrefix(ref, "/")
		if first, _, _ := strings.Cut(ref, "/"); strings.Contains(first, ".") {
			ref = "https://" + ref
		} else {
			ref = "https://github.com/" + ref
		}
	}

	repoPart, issuePart := splitIssuePath(ref)
	info, err := ParseRepoURL(repoPart)
	if err != nil {
		return IssueRef{}, err
	}

	switch {
	case issuePart != "" && number != "":
		return IssueRef{}, fmt.Errorf("issue number given twice: %q and %q", issuePart, number)
	case issuePart == "" && number == "":
		return IssueRef{}, errors.New("missing issue number")
	case issuePart == "":
		issuePart = number
	}

	n, err := strconv.Atoi(strings.TrimPrefix(issuePart, "#"))
	if err != nil || n <= 0 {
		return IssueRef{}, fmt.Errorf("invalid issue number %q", issuePart)
	}
	return IssueRef{Repo: info, Number: n}, nil
}

func splitIssuePath(raw string) (repo, number string) {
	for _, sep := range []string{"/-/issues/", "/issues/"} {
		if i := strings.Index(raw, sep); i >= 0 {
			return raw[:i], strings.Trim(raw[i+len(sep):], "/")
		}
	}
	return raw, ""
}

func ParseRepoURL(rawURL string) (RepoInfo, error) {
	rawURL = strings.TrimSpace(rawURL)

	if strings.HasPrefix(rawURL, "git@") {
		rawURL = normaliseSSH(rawURL)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return RepoInfo{}, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}

	host := strings.ToLower(u.Hostname())
	platform, err := detectPlatform(host)
	if err != nil {
		return RepoInfo{}, err
	}

	path := strings.Trim(u.Path, "/")
	path = strings.TrimSuffix(path, ".git")

	parts := strings.Split(path, "/")

	switch platform {
	case PlatformGitHub:
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return RepoInfo{}, fmt.Errorf("github URL must have owner and repo: %q", rawURL)
		}
		return RepoInfo{
			Platform: PlatformGitHub,
			Host:     host,
			Owner:    parts[0],
			Repo:     parts[1],
			RawURL:   rawURL,
		}, nil

	case PlatformGitLab:
		if len(parts) < 2 || parts[len(parts)-1] == "" {
			return RepoInfo{}, fmt.Errorf("gitlab URL must have at least namespace and repo: %q", rawURL)
		}
		return RepoInfo{
			Platform: PlatformGitLab,
			Host:     host,
			Owner:    strings.Join(parts[:len(parts)-1], "/"),
			Repo:     parts[len(parts)-1],
			RawURL:   rawURL,
		}, nil
	}

	return RepoInfo{}, fmt.Errorf("unsupported platform for host %q", host)
}

func detectPlatform(host string) (Platform, error) {
	switch {
	case host == "github.com" || strings.HasSuffix(host, ".github.com") || strings.HasPrefix(host, "github."):
		return PlatformGitHub, nil
	case host == "gitlab.com" || strings.Contains(host, "gitlab"):
		return PlatformGitLab, nil
	default:
		return 0, fmt.Errorf("cannot determine platform from host %q, expected a github or gitlab domain", host)
	}
}

func normaliseSSH(s string) string {
	s = strings.TrimPrefix(s, "git@")
	s = strings.Replace(s, ":", "/", 1)
	return "https://" + s
}

type Factory struct {
	githubToken   string
	gitlabToken   string
	gitlabBaseURL string
}

type FactoryOption func(*Factory)

func WithGitLabBaseURL(baseURL string) FactoryOption {
	return func(f *Factory) {
		if baseURL != "" {
			f.gitlabBaseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

func NewFactory(githubToken, gitlabToken string, opts ...FactoryOption) *Factory {
	f := &Factory{
		githubToken:   githubToken,
		gitlabToken:   gitlabToken,
		gitlabBaseURL: "https://gitlab.com",
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

func (f *Factory) TrackerFor(ctx context.Context, info RepoInfo) (Tracker, error) {
	switch info.Platform {
	case PlatformGitHub:
		if f.githubToken == "" {
			return nil, fmt.Errorf("no GitHub token configured")
		}
		return NewGitHubTracker(ctx, f.githubToken, info)

	case PlatformGitLab:
		if f.gitlabToken == "" {
			return nil, fmt.Errorf("no GitLab token configured")
		}
		baseURL := f.gitlabBaseURL
		// For self-hosted: use the URL's scheme+host instead of the default.
		if info.Host != "gitlab.com" {
			parsed, err := url.Parse(info.RawURL)
			if err != nil {
				return nil, fmt.Errorf("invalid URL %q: %w", info.RawURL, err)
			}
			baseURL = parsed.Scheme + "://" + parsed.Host
		}
		return NewGitLabTracker(f.gitlabToken, baseURL, info)
	}

	return nil, fmt.Errorf("unsupported platform: %s", info.Platform)
}
