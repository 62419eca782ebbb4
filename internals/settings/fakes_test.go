package settings

import (
	"context"
	"io"
	"log/slog"

	"github.com/jadenj13/triage/internals/issue"
)

type fakeSource struct {
	snap Snapshot
}

func (f *fakeSource) Snapshot() Snapshot { return f.snap }

type updateCall struct {
	Owner, Repo string
	Number      int
	Edit        issue.EditCommand
	Display     issue.LocalStatePatch
}

type lockCall struct {
	Owner, Repo string
	Number      int
	Locked      bool
}

type recordingDispatcher struct {
	fetches []string
	updates []updateCall
	locks   []lockCall
}

func (d *recordingDispatcher) FetchLabels(_ context.Context, url string) {
	d.fetches = append(d.fetches, url)
}

func (d *recordingDispatcher) UpdateIssue(_ context.Context, owner, repoName string, number int, edit issue.EditCommand, display issue.LocalStatePatch) {
	d.updates = append(d.updates, updateCall{owner, repoName, number, edit, display})
}

func (d *recordingDispatcher) SetIssueLockStatus(_ context.Context, owner, repoName string, number int, locked bool) {
	d.locks = append(d.locks, lockCall{owner, repoName, number, locked})
}

// scriptedPrompter records prompts and holds their callbacks until answered.
type scriptedPrompter struct {
	prompts []Prompt
	pending func(int)
}

func (s *scriptedPrompter) Show(p Prompt, done func(int)) {
	s.prompts = append(s.prompts, p)
	s.pending = done
}

func (s *scriptedPrompter) answer(index int) {
	done := s.pending
	s.pending = nil
	done(index)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	src      *fakeSource
	dispatch *recordingDispatcher
	prompter *scriptedPrompter
	panel    *Panel
}

func newFixture(iss issue.Issue, repoLabels ...issue.Label) *fixture {
	src := &fakeSource{snap: Snapshot{
		AuthUser: &issue.User{Login: "alice"},
		Repository: &issue.Repository{
			Name:      "hello",
			Owner:     issue.User{Login: "octo"},
			LabelsURL: "https://api.github.com/repos/octo/hello/labels{/name}",
		},
		Issue:  &iss,
		Labels: repoLabels,
	}}
	f := &fixture{src: src, dispatch: &recordingDispatcher{}, prompter: &scriptedPrompter{}}
	panel, err := NewPanel(f.src, f.dispatch, f.prompter, discardLogger())
	if err != nil {
		panic(err)
	}
	f.panel = panel
	return f
}
