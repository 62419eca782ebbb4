package settings

import (
	"context"

	"github.com/jadenj13/triage/internals/issue"
)

type RowKind int

const (
	RowLabel RowKind = iota
	RowAssignee
	RowApplyLabel
	RowAssignSelf
	RowLock
	RowState
)

type Tone int

const (
	ToneDefault Tone = iota
	ToneDanger
	ToneSuccess
)

type Row struct {
	Kind  RowKind
	Title string
	Key   string // label name or assignee login
	Color string // label color
	Tone  Tone
}

type Section struct {
	Title        string
	Rows         []Row
	Buttons      []Row
	EmptyMessage string // non-empty when Rows is empty
}

type View struct {
	Issue    issue.Issue
	Sections []Section
	Busy     bool
	Err      error
}

const noItemsMessage = "None yet"

func (p *Panel) View() View {
	snap := p.src.Snapshot()
	iss := *snap.Issue

	labels := Section{Title: "LABELS"}
	for _, l := range iss.Labels {
		labels.Rows = append(labels.Rows, Row{Kind: RowLabel, Title: l.Name, Key: l.Name, Color: l.Color})
	}
	labels.Buttons = []Row{{Kind: RowApplyLabel, Title: "Apply Label"}}

	assignees := Section{Title: "ASSIGNEES"}
	for _, u := range iss.Assignees {
		assignees.Rows = append(assignees.Rows, Row{Kind: RowAssignee, Title: u.Login, Key: u.Login})
	}
	if p.CanAssignSelf() {
		assignees.Buttons = []Row{{Kind: RowAssignSelf, Title: "Assign Yourself"}}
	}

	lock := Row{Kind: RowLock, Title: "Lock Issue"}
	if iss.Locked {
		lock.Title = "Unlock issue"
	}
	state := Row{Kind: RowState, Title: "Reopen Issue", Tone: ToneSuccess}
	if iss.State == issue.StateOpen {
		state = Row{Kind: RowState, Title: "Close Issue", Tone: ToneDanger}
	}
	actions := Section{Title: "Actions", Rows: []Row{lock, state}}

	sections := []Section{labels, assignees, actions}
	for i := range sections {
		if len(sections[i].Rows) == 0 {
			sections[i].EmptyMessage = noItemsMessage
		}
	}

	return View{
		Issue:    iss,
		Sections: sections,
		Busy:     snap.IsEditingIssue || snap.IsPendingLabels,
		Err:      snap.Err,
	}
}

// Activate runs the handler behind a row of the view.
func (p *Panel) Activate(ctx context.Context, row Row) {
	switch row.Kind {
	case RowLabel:
		p.RemoveLabel(ctx, row.Key)
	case RowAssignee:
		p.Unassign(ctx, row.Key)
	case RowApplyLabel:
		p.AddLabel(ctx)
	case RowAssignSelf:
		p.AssignSelf(ctx)
	case RowLock:
		p.ToggleLock(ctx)
	case RowState:
		p.ToggleState(ctx)
	}
}
