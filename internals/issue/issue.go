// Package issue holds the issue data model shared by the trackers, the store
// and the settings panel.
package issue

import (
	"slices"
	"strings"
)

type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

type Label struct {
	Name        string
	Color       string // hex without leading '#', e.g. "d73a4a"
	Description string
}

type User struct {
	Login string
	ID    int64 // GitLab needs numeric ids for assignment; zero on GitHub
}

type Repository struct {
	Name  string
	Owner User
	// LabelsURL is a template ending in "{/name}", e.g.
	// https://api.github.com/repos/octo/hello/labels{/name}
	LabelsURL string
}

// LabelsEndpoint returns LabelsURL with the {/name} placeholder removed.
func (r Repository) LabelsEndpoint() string {
	return strings.Replace(r.LabelsURL, "{/name}", "", 1)
}

type Issue struct {
	Number    int
	Title     string
	URL       string
	State     State
	Locked    bool
	Labels    []Label
	Assignees []User
}

func (i Issue) LabelNames() []string {
	names := make([]string, 0, len(i.Labels))
	for _, l := range i.Labels {
		names = append(names, l.Name)
	}
	return names
}

func (i Issue) AssigneeLogins() []string {
	logins := make([]string, 0, len(i.Assignees))
	for _, u := range i.Assignees {
		logins = append(logins, u.Login)
	}
	return logins
}

func (i Issue) HasLabel(name string) bool {
	return slices.ContainsFunc(i.Labels, func(l Label) bool { return l.Name == name })
}

func (i Issue) IsAssigned(login string) bool {
	return slices.ContainsFunc(i.Assignees, func(u User) bool { return u.Login == login })
}

// Clone returns a copy whose slices do not alias the receiver's.
func (i Issue) Clone() Issue {
	i.Labels = slices.Clone(i.Labels)
	i.Assignees = slices.Clone(i.Assignees)
	return i
}
