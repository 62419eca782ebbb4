package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jadenj13/triage/internals/config"
	"github.com/jadenj13/triage/internals/git"
	"github.com/jadenj13/triage/internals/logging"
	"github.com/jadenj13/triage/internals/notify"
	"github.com/jadenj13/triage/internals/settings"
	"github.com/jadenj13/triage/internals/store"
	"github.com/jadenj13/triage/internals/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "triage [repo-or-issue-url] <issue-number>",
		Short: "Edit labels, assignees and state of a GitHub or GitLab issue",
		Example: `  triage https://github.com/octo/hello/issues/42
  triage octo/hello 42
  triage https://gitlab.com/grp/app/-/issues/7
  triage 42    # repository from the origin remote of the current checkout`,
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := resolveIssue(cmd.Context(), args)
			if err != nil {
				return err
			}

			if configPath == "" {
				if configPath, err = config.DefaultPath(); err != nil {
					return err
				}
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}

			return run(cmd.Context(), cfg, ref)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/triage/config.toml)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	return cmd
}

// resolveIssue turns the command arguments into an issue reference. A lone
// issue number is resolved against the origin remote of the working directory.
func resolveIssue(ctx context.Context, args []string) (git.IssueRef, error) {
	if len(args) == 2 {
		return git.ParseIssueRef(args[0], args[1])
	}
	if _, err := strconv.Atoi(strings.TrimPrefix(args[0], "#")); err == nil {
		origin, err := git.OriginURL(ctx, ".")
		if err != nil {
			return git.IssueRef{}, err
		}
		return git.ParseIssueRef(origin, args[0])
	}
	return git.ParseIssueRef(args[0], "")
}

func run(parent context.Context, cfg *config.Config, ref git.IssueRef) (err error) {
	log, closeLog, err := logging.New(cfg.Log.File, cfg.LogLevel())
	if err != nil {
		return err
	}
	defer closeInto(&err, "log file", closeLog)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factory := git.NewFactory(cfg.GitHubToken, cfg.GitLabToken, git.WithGitLabBaseURL(cfg.GitLabBaseURL))
	tracker, err := factory.TrackerFor(ctx, ref.Repo)
	if err != nil {
		return err
	}

	var notifier notify.Notifier = notify.Nop{}
	if cfg.SlackEnabled() {
		notifier = notify.NewSlackNotifier(cfg.Slack.BotToken, cfg.Slack.Channel)
	}

	st := store.New(tracker, log,
		store.WithNotifier(notifier),
		store.WithLabelTTL(cfg.LabelCacheTTL()),
	)
	if err := st.Load(ctx, ref.Number); err != nil {
		return err
	}

	sheets := tui.NewSheets()
	panel, err := settings.NewPanel(st, st, sheets, log)
	if err != nil {
		return fmt.Errorf("open issue settings: %w", err)
	}

	log.Info("triage starting",
		"platform", ref.Repo.Platform,
		"repo", ref.Repo.Owner+"/"+ref.Repo.Repo,
		"issue", ref.Number,
	)

	program := tea.NewProgram(tui.New(ctx, panel, sheets, st.DismissError),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	// Send blocks until the event loop reads the message, and store changes
	// can originate inside Update.
	st.Subscribe(func() { go program.Send(tui.MsgStoreChanged{}) })

	if _, err := program.Run(); err != nil {
		log.Error("tui exited with error", "err", err)
		return err
	}

	// Let edits confirmed just before quitting reach the tracker.
	st.Wait()
	log.Info("shutting down")
	return nil
}

// closeInto runs closeFn and reports its failure through errp unless an
// earlier error is already set there.
func closeInto(errp *error, name string, closeFn func() error) {
	if cerr := closeFn(); cerr != nil && *errp == nil {
		*errp = fmt.Errorf("close %s: %w", name, cerr)
	}
}
