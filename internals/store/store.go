// Package store keeps the client-side copy of the issue being edited and
// runs remote actions against a git.Tracker.
//
// Actions are fire-and-forget: each call returns at once and completes on
// its own goroutine. Issue edits are applied to the local copy before the
// remote call; if it fails the issue is re-read from the tracker, or rolled
// back field by field when that read fails too. All state changes
// go through one mutex and subscribers are told after each of them.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/jadenj13/triage/internals/git"
	"github.com/jadenj13/triage/internals/issue"
	"github.com/jadenj13/triage/internals/notify"
	"github.com/jadenj13/triage/internals/settings"
)

var (
	_ settings.Source     = (*Store)(nil)
	_ settings.Dispatcher = (*Store)(nil)
)

var (
	ErrRepoMismatch  = errors.New("store: action targets a repository this store does not track")
	ErrIssueMismatch = errors.New("store: action targets an issue that is not loaded")
)

const DefaultLabelTTL = 10 * time.Minute

type Store struct {
	tracker  git.Tracker
	notifier notify.Notifier
	labels   *cache.Cache // label collections keyed by labels endpoint
	log      *slog.Logger

	mu            sync.RWMutex
	authUser      *issue.User
	repository    *issue.Repository
	issue         *issue.Issue
	repoLabels    []issue.Label
	pendingLabels int
	editing       int
	err           error
	subs          []func()

	wg sync.WaitGroup
}

type Option func(*Store)

func WithNotifier(n notify.Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithLabelTTL sets how long a fetched label collection is reused.
func WithLabelTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.labels = cache.New(ttl, 2*ttl)
		}
	}
}

func New(tracker git.Tracker, log *slog.Logger, opts ...Option) *Store {
	s := &Store{
		tracker:  tracker,
		notifier: notify.Nop{},
		labels:   cache.New(DefaultLabelTTL, 2*DefaultLabelTTL),
		log:      log,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load fetches the signed-in user, the repository and the issue.
func (s *Store) Load(ctx context.Context, number int) error {
	user, err := s.tracker.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	repo, err := s.tracker.GetRepository(ctx)
	if err != nil {
		return fmt.Errorf("load repository: %w", err)
	}
	iss, err := s.tracker.GetIssue(ctx, number)
	if err != nil {
		return fmt.Errorf("load issue #%d: %w", number, err)
	}

	s.update(func() {
		s.authUser = &user
		s.repository = &repo
		s.issue = &iss
	})
	s.log.Info("issue loaded", "repo", repo.Owner.Login+"/"+repo.Name, "issue", iss.Number)
	return nil
}

// Subscribe registers fn to run after every state change. fn runs on the
// goroutine that made the change and must not block.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Wait blocks until every in-flight remote action has finished.
func (s *Store) Wait() {
	s.wg.Wait()
}

func (s *Store) Snapshot() settings.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := settings.Snapshot{
		Labels:          slices.Clone(s.repoLabels),
		IsEditingIssue:  s.editing > 0,
		IsPendingLabels: s.pendingLabels > 0,
		Err:             s.err,
	}
	if s.authUser != nil {
		u := *s.authUser
		snap.AuthUser = &u
	}
	if s.repository != nil {
		r := *s.repository
		snap.Repository = &r
	}
	if s.issue != nil {
		iss := s.issue.Clone()
		snap.Issue = &iss
	}
	return snap
}

// DismissError clears the last recorded failure.
func (s *Store) DismissError() {
	s.update(func() { s.err = nil })
}

// update runs fn under the write lock and then notifies subscribers.
func (s *Store) update(fn func()) {
	s.mu.Lock()
	fn()
	subs := slices.Clone(s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub()
	}
}

func (s *Store) fail(log *slog.Logger, msg string, err error) {
	log.Error(msg, "err", err)
	s.update(func() { s.err = err })
}

func (s *Store) checkTarget(owner, repoName string, number int) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.repository == nil ||
		!strings.EqualFold(s.repository.Owner.Login, owner) ||
		!strings.EqualFold(s.repository.Name, repoName) {
		return fmt.Errorf("%w: %s/%s", ErrRepoMismatch, owner, repoName)
	}
	if s.issue == nil || s.issue.Number != number {
		return fmt.Errorf("%w: #%d", ErrIssueMismatch, number)
	}
	return nil
}

func (s *Store) repoSlug() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.repository == nil {
		return ""
	}
	return s.repository.Owner.Login + "/" + s.repository.Name
}

func (s *Store) actor() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.authUser == nil {
		return ""
	}
	return s.authUser.Login
}

func (s *Store) notify(ctx context.Context, log *slog.Logger, ev notify.IssueEvent) {
	ev.Repo = s.repoSlug()
	ev.Actor = s.actor()
	if err := s.notifier.NotifyIssueChanged(ctx, ev); err != nil {
		log.Warn("failed to send issue notification", "err", err)
	}
}

func requestLogger(log *slog.Logger, action string, number int) *slog.Logger {
	return log.With("request", uuid.NewString(), "action", action, "issue", number)
}
