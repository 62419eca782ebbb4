package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

type Notifier interface {
	NotifyIssueChanged(ctx context.Context, ev IssueEvent) error
}

type IssueEvent struct {
	Repo     string // owner/name
	Number   int
	IssueURL string
	Actor    string // login of the user who made the change
	Change   string // "closed", "reopened", "locked" or "unlocked"
}

// Nop drops every event. Used when no Slack channel is configured.
type Nop struct{}

func (Nop) NotifyIssueChanged(context.Context, IssueEvent) error { return nil }

// poster is the subset of *slack.Client the notifier needs.
type poster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

type SlackNotifier struct {
	client    poster
	channelID string // channel to post issue activity to
}

func NewSlackNotifier(botToken, channelID string) *SlackNotifier {
	return &SlackNotifier{
		client:    slack.New(botToken),
		channelID: channelID,
	}
}

func (n *SlackNotifier) NotifyIssueChanged(ctx context.Context, ev IssueEvent) error {
	_, _, err := n.client.PostMessageContext(ctx, n.channelID,
		slack.MsgOptionText(FormatEvent(ev), false),
	)
	if err != nil {
		return fmt.Errorf("slack notify: %w", err)
	}
	return nil
}

func FormatEvent(ev IssueEvent) string {
	ref := fmt.Sprintf("%s#%d", ev.Repo, ev.Number)
	if ev.IssueURL != "" {
		ref = fmt.Sprintf("<%s|%s>", ev.IssueURL, ref)
	}
	return fmt.Sprintf("%s *%s* %s", emoji(ev.Change), ev.Change, ref) + byline(ev.Actor)
}

func emoji(change string) string {
	switch change {
	case "closed":
		return ":white_check_mark:"
	case "reopened":
		return ":recycle:"
	case "locked":
		return ":lock:"
	case "unlocked":
		return ":unlock:"
	default:
		return ":memo:"
	}
}

func byline(actor string) string {
	if actor == "" {
		return ""
	}
	return " by " + actor
}
