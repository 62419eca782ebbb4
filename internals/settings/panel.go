package settings

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/jadenj13/triage/internals/issue"
)

type Panel struct {
	src      Source
	dispatch Dispatcher
	prompter Prompter
	log      *slog.Logger
}

// NewPanel fails when the source has no repository, issue or signed-in user
// to show.
func NewPanel(src Source, dispatch Dispatcher, prompter Prompter, log *slog.Logger) (*Panel, error) {
	snap := src.Snapshot()
	switch {
	case snap.Repository == nil:
		return nil, ErrNoRepository
	case snap.Issue == nil:
		return nil, ErrNoIssue
	case snap.AuthUser == nil:
		return nil, ErrNoAuthUser
	}
	return &Panel{src: src, dispatch: dispatch, prompter: prompter, log: log}, nil
}

// Mount requests the repository label collection.
func (p *Panel) Mount(ctx context.Context) {
	repo := p.src.Snapshot().Repository
	url := repo.LabelsEndpoint()
	p.log.Debug("fetching labels", "url", url)
	p.dispatch.FetchLabels(ctx, url)
}

// SubmitEdit sends edit to the remote tracker. A nil display patch means the
// edit's fields look the same on screen as on the wire.
func (p *Panel) SubmitEdit(ctx context.Context, edit issue.EditCommand, display *issue.LocalStatePatch) {
	snap := p.src.Snapshot()
	patch := issue.PatchFromEdit(edit)
	if display != nil {
		patch = *display
	}
	p.dispatch.UpdateIssue(ctx,
		snap.Repository.Owner.Login,
		snap.Repository.Name,
		snap.Issue.Number,
		edit,
		patch,
	)
}

// AddLabel asks which repository label to apply. Nothing is shown while the
// label collection is still loading.
func (p *Panel) AddLabel(ctx context.Context) {
	snap := p.src.Snapshot()
	if snap.IsPendingLabels {
		return
	}

	choices := make([]string, 0, len(snap.Labels))
	for _, l := range snap.Labels {
		choices = append(choices, l.Name)
	}
	prompt := Prompt{
		Title:            "Apply a label to this issue",
		Options:          append(slices.Clone(choices), "Cancel"),
		CancelIndex:      len(choices),
		DestructiveIndex: -1,
	}

	p.prompter.Show(prompt, func(index int) {
		if index < 0 || index >= len(choices) {
			return
		}
		p.applyLabel(ctx, choices[index])
	})
}

func (p *Panel) applyLabel(ctx context.Context, name string) {
	snap := p.src.Snapshot()
	iss := snap.Issue
	if iss.HasLabel(name) {
		return
	}

	label := issue.Label{Name: name}
	if i := slices.IndexFunc(snap.Labels, func(l issue.Label) bool { return l.Name == name }); i >= 0 {
		label = snap.Labels[i]
	}

	names := append(iss.LabelNames(), name)
	labels := append(slices.Clone(iss.Labels), label)

	p.log.Debug("apply label", "issue", iss.Number, "label", name)
	p.SubmitEdit(ctx,
		issue.EditCommand{Labels: &names},
		&issue.LocalStatePatch{Labels: &labels},
	)
}

// RemoveLabel drops every label called name from the issue.
func (p *Panel) RemoveLabel(ctx context.Context, name string) {
	iss := p.src.Snapshot().Issue

	names := slices.DeleteFunc(iss.LabelNames(), func(n string) bool { return n == name })
	labels := slices.DeleteFunc(slices.Clone(iss.Labels), func(l issue.Label) bool { return l.Name == name })

	p.log.Debug("remove label", "issue", iss.Number, "label", name)
	p.SubmitEdit(ctx,
		issue.EditCommand{Labels: &names},
		&issue.LocalStatePatch{Labels: &labels},
	)
}

// CanAssignSelf reports whether the signed-in user is not yet an assignee.
func (p *Panel) CanAssignSelf() bool {
	snap := p.src.Snapshot()
	return !snap.Issue.IsAssigned(snap.AuthUser.Login)
}

func (p *Panel) AssignSelf(ctx context.Context) {
	if !p.CanAssignSelf() {
		return
	}
	snap := p.src.Snapshot()
	iss, me := snap.Issue, *snap.AuthUser

	logins := append(iss.AssigneeLogins(), me.Login)
	users := append(slices.Clone(iss.Assignees), me)

	p.log.Debug("assign self", "issue", iss.Number, "login", me.Login)
	p.SubmitEdit(ctx,
		issue.EditCommand{Assignees: &logins},
		&issue.LocalStatePatch{Assignees: &users},
	)
}

func (p *Panel) Unassign(ctx context.Context, login string) {
	iss := p.src.Snapshot().Issue

	logins := slices.DeleteFunc(iss.AssigneeLogins(), func(l string) bool { return l == login })
	users := slices.DeleteFunc(slices.Clone(iss.Assignees), func(u issue.User) bool { return u.Login == login })

	p.log.Debug("unassign", "issue", iss.Number, "login", login)
	p.SubmitEdit(ctx,
		issue.EditCommand{Assignees: &logins},
		&issue.LocalStatePatch{Assignees: &users},
	)
}

// StateForAction maps a state action to the state it submits. Only the
// literal "open" yields open; "close" and "reopen" both yield closed.
func StateForAction(action string) issue.State {
	if action == "open" {
		return issue.StateOpen
	}
	return issue.StateClosed
}

// ChangeState confirms and then submits the state for action ("close" or
// "reopen").
func (p *Panel) ChangeState(ctx context.Context, action string) {
	prompt := confirmPrompt(fmt.Sprintf("Are you sure you want to %s this issue?", action), true)

	p.prompter.Show(prompt, func(index int) {
		if index != confirmIndex {
			return
		}
		state := StateForAction(action)
		p.log.Debug("change state", "action", action, "state", state)
		p.SubmitEdit(ctx, issue.EditCommand{State: &state}, nil)
	})
}

// StateAction is the action offered for the issue's current state.
func StateAction(iss issue.Issue) string {
	if iss.State == issue.StateOpen {
		return "close"
	}
	return "reopen"
}

func (p *Panel) ToggleState(ctx context.Context) {
	p.ChangeState(ctx, StateAction(*p.src.Snapshot().Issue))
}

// ToggleLock confirms and then asks the dispatcher to flip the lock. The
// dispatcher receives the lock state as it was when the prompt opened.
func (p *Panel) ToggleLock(ctx context.Context) {
	locked := p.src.Snapshot().Issue.Locked
	action := "lock"
	if locked {
		action = "unlock"
	}
	prompt := confirmPrompt(fmt.Sprintf("Are you sure you want to %s this issue?", action), false)

	p.prompter.Show(prompt, func(index int) {
		if index != confirmIndex {
			return
		}
		snap := p.src.Snapshot()
		p.log.Debug("change lock status", "issue", snap.Issue.Number, "locked", locked)
		p.dispatch.SetIssueLockStatus(ctx,
			snap.Repository.Owner.Login,
			snap.Repository.Name,
			snap.Issue.Number,
			locked,
		)
	})
}
