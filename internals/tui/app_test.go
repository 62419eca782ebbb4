package tui

import (
	"context"
	"io"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jadenj13/triage/internals/issue"
	"github.com/jadenj13/triage/internals/settings"
)

type stubSource struct {
	snap settings.Snapshot
}

func (s *stubSource) Snapshot() settings.Snapshot { return s.snap }

type stubDispatcher struct {
	fetches []string
	edits   []issue.EditCommand
	locks   []bool
}

func (d *stubDispatcher) FetchLabels(_ context.Context, url string) {
	d.fetches = append(d.fetches, url)
}

func (d *stubDispatcher) UpdateIssue(_ context.Context, _, _ string, _ int, edit issue.EditCommand, _ issue.LocalStatePatch) {
	d.edits = append(d.edits, edit)
}

func (d *stubDispatcher) SetIssueLockStatus(_ context.Context, _, _ string, _ int, locked bool) {
	d.locks = append(d.locks, locked)
}

func newTestModel(t *testing.T, iss issue.Issue) (*Model, *stubSource, *stubDispatcher) {
	t.Helper()
	src := &stubSource{snap: settings.Snapshot{
		AuthUser:   &issue.User{Login: "alice"},
		Repository: &issue.Repository{Name: "hello", Owner: issue.User{Login: "octo"}, LabelsURL: "https://api.github.com/repos/octo/hello/labels{/name}"},
		Issue:      &iss,
		Labels:     []issue.Label{{Name: "bug", Color: "d73a4a"}, {Name: "ui", Color: "fef2c0"}},
	}}
	d := &stubDispatcher{}
	sheets := NewSheets()
	panel, err := settings.NewPanel(src, d, sheets, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return New(context.Background(), panel, sheets, nil), src, d
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(keyMsg(k))
	}
	return cmd
}

func TestModel_InitMountsPanel(t *testing.T) {
	m, _, d := newTestModel(t, issue.Issue{Number: 1, State: issue.StateOpen})

	assert.Nil(t, m.Init())
	assert.Equal(t, []string{"https://api.github.com/repos/octo/hello/labels"}, d.fetches)
}

func TestModel_ViewRendersSections(t *testing.T) {
	m, _, _ := newTestModel(t, issue.Issue{Number: 1, Title: "Crash on start", State: issue.StateOpen})

	out := m.View()
	for _, want := range []string{"#1 Crash on start", "LABELS", "None yet", "Apply Label", "ASSIGNEES", "Assign Yourself", "Actions", "Lock Issue", "Close Issue"} {
		assert.Contains(t, out, want)
	}
}

func TestModel_CloseIssueConfirmed(t *testing.T) {
	m, _, d := newTestModel(t, issue.Issue{Number: 1, State: issue.StateOpen})

	// Rows: Apply Label, Assign Yourself, Lock Issue, Close Issue.
	press(m, "down", "down", "down", "enter")
	require.True(t, m.sheets.Active())
	assert.Contains(t, m.View(), "Are you sure you want to close this issue?")

	press(m, "enter")

	assert.False(t, m.sheets.Active())
	require.Len(t, d.edits, 1)
	assert.Equal(t, issue.StateClosed, *d.edits[0].State)
}

func TestModel_CloseIssueCancelled(t *testing.T) {
	m, _, d := newTestModel(t, issue.Issue{Number: 1, State: issue.StateOpen})

	press(m, "c")
	require.True(t, m.sheets.Active())
	press(m, "down", "enter")

	assert.False(t, m.sheets.Active())
	assert.Empty(t, d.edits)

	press(m, "c", "esc")
	assert.False(t, m.sheets.Active())
	assert.Empty(t, d.edits)
}

func TestModel_LockShortcut(t *testing.T) {
	m, _, d := newTestModel(t, issue.Issue{Number: 1, State: issue.StateOpen, Locked: true})

	press(m, "L")
	assert.Contains(t, m.View(), "Are you sure you want to unlock this issue?")
	press(m, "enter")

	assert.Equal(t, []bool{true}, d.locks)
}

func TestModel_ApplyLabelSheet(t *testing.T) {
	m, _, d := newTestModel(t, issue.Issue{Number: 1, State: issue.StateOpen})

	press(m, "l")
	require.True(t, m.sheets.Active())
	out := m.View()
	assert.Contains(t, out, "Apply a label to this issue")
	assert.Contains(t, out, "Cancel")

	press(m, "down", "enter")

	require.Len(t, d.edits, 1)
	assert.Equal(t, []string{"ui"}, *d.edits[0].Labels)
}

func TestModel_ApplyLabelWhilePending(t *testing.T) {
	m, src, _ := newTestModel(t, issue.Issue{Number: 1, State: issue.StateOpen})
	src.snap.IsPendingLabels = true

	press(m, "l")

	assert.False(t, m.sheets.Active())
	assert.Contains(t, m.View(), "saving…")
}

func TestModel_RemoveLabelRow(t *testing.T) {
	m, _, d := newTestModel(t, issue.Issue{
		Number: 1,
		State:  issue.StateOpen,
		Labels: []issue.Label{{Name: "bug", Color: "d73a4a"}, {Name: "ui"}},
	})

	press(m, "down", "enter")

	require.Len(t, d.edits, 1)
	assert.Equal(t, []string{"bug"}, *d.edits[0].Labels)
}

func TestModel_AssignSelfHiddenWhenAssigned(t *testing.T) {
	m, _, d := newTestModel(t, issue.Issue{
		Number:    1,
		State:     issue.StateOpen,
		Assignees: []issue.User{{Login: "alice"}},
	})

	assert.NotContains(t, m.View(), "Assign Yourself")
	press(m, "a")
	assert.Empty(t, d.edits)
}

func TestModel_CursorClampsOnStoreChange(t *testing.T) {
	m, src, _ := newTestModel(t, issue.Issue{
		Number: 1,
		State:  issue.StateOpen,
		Labels: []issue.Label{{Name: "bug"}, {Name: "ui"}},
	})
	press(m, "down", "down", "down", "down", "down", "down")
	assert.Equal(t, 5, m.cursor, "bug, ui, Apply Label, Assign Yourself, Lock, Close")

	src.snap.Issue = &issue.Issue{Number: 1, State: issue.StateOpen, Assignees: []issue.User{{Login: "alice"}}}
	m.Update(MsgStoreChanged{})

	assert.Equal(t, 3, m.cursor)
}

func TestModel_ErrorLineAndDismiss(t *testing.T) {
	m, src, _ := newTestModel(t, issue.Issue{Number: 1, State: issue.StateOpen})
	src.snap.Err = assert.AnError
	dismissed := false
	m.dismiss = func() {
		dismissed = true
		src.snap.Err = nil
	}

	assert.Contains(t, m.View(), "error: "+assert.AnError.Error())
	press(m, "esc")

	assert.True(t, dismissed)
	assert.NotContains(t, m.View(), "error:")
}

func TestModel_Quit(t *testing.T) {
	m, _, _ := newTestModel(t, issue.Issue{Number: 1, State: issue.StateOpen})

	cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestSheets_ShowCancelsOpenSheet(t *testing.T) {
	s := NewSheets()
	var got []int
	s.Show(settings.Prompt{Options: []string{"Yes", "Cancel"}, CancelIndex: 1}, func(i int) { got = append(got, i) })
	s.Show(settings.Prompt{Options: []string{"Yes", "Cancel"}, CancelIndex: 1}, func(i int) { got = append(got, i+10) })

	assert.Equal(t, []int{1}, got)
	s.move(-1)
	s.choose()
	assert.Equal(t, []int{1, 11}, got)
	assert.False(t, s.Active())
}
