// Package settings implements the issue settings panel: the labels,
// assignees and lock/state actions of a single issue.
//
// The panel owns no state. It reads a Snapshot from its Source whenever it
// needs one, asks the user through a Prompter, and sends every change to a
// Dispatcher. Each label or assignee change is sent twice over: as an
// EditCommand in wire shape for the remote update, and as a LocalStatePatch
// in display shape for the optimistic local copy.
package settings

import (
	"context"
	"errors"

	"github.com/jadenj13/triage/internals/issue"
)

var (
	ErrNoIssue      = errors.New("settings: no issue loaded")
	ErrNoRepository = errors.New("settings: no repository loaded")
	ErrNoAuthUser   = errors.New("settings: no authenticated user")
)

// Snapshot is the store state the panel renders from.
type Snapshot struct {
	AuthUser        *issue.User
	Repository      *issue.Repository
	Issue           *issue.Issue
	Labels          []issue.Label // every label defined on the repository
	IsEditingIssue  bool
	IsPendingLabels bool
	Err             error // last failed remote action, if any
}

type Source interface {
	Snapshot() Snapshot
}

// Dispatcher carries out remote actions. Calls return immediately; results
// surface through the Source.
type Dispatcher interface {
	FetchLabels(ctx context.Context, url string)
	UpdateIssue(ctx context.Context, owner, repoName string, number int, edit issue.EditCommand, display issue.LocalStatePatch)
	SetIssueLockStatus(ctx context.Context, owner, repoName string, number int, locked bool)
}

// Prompt is a single-choice action sheet.
type Prompt struct {
	Title            string
	Options          []string
	CancelIndex      int
	DestructiveIndex int // -1 for none
}

// Prompter presents a Prompt and later calls done with the chosen index.
// Dismissing the prompt reports CancelIndex.
type Prompter interface {
	Show(p Prompt, done func(index int))
}

const (
	confirmIndex = 0
	cancelIndex  = 1
)

func confirmPrompt(title string, destructive bool) Prompt {
	p := Prompt{
		Title:            title,
		Options:          []string{"Yes", "Cancel"},
		CancelIndex:      cancelIndex,
		DestructiveIndex: -1,
	}
	if destructive {
		p.DestructiveIndex = confirmIndex
	}
	return p
}
