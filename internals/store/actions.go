package store

import (
	"context"
	"slices"

	"github.com/patrickmn/go-cache"

	"github.com/jadenj13/triage/internals/issue"
	"github.com/jadenj13/triage/internals/notify"
)

// FetchLabels loads the label collection behind url. A collection fetched
// within the label TTL is reused without a remote call.
func (s *Store) FetchLabels(ctx context.Context, url string) {
	if v, ok := s.labels.Get(url); ok {
		labels := v.([]issue.Label)
		s.log.Debug("labels served from cache", "url", url, "count", len(labels))
		s.update(func() { s.repoLabels = slices.Clone(labels) })
		return
	}

	s.update(func() { s.pendingLabels++ })

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		labels, err := s.tracker.ListLabels(ctx, url)
		if err != nil {
			s.log.Error("fetch labels failed", "url", url, "err", err)
			s.update(func() {
				s.pendingLabels--
				s.err = err
			})
			return
		}

		s.labels.Set(url, labels, cache.DefaultExpiration)
		s.log.Info("labels fetched", "url", url, "count", len(labels))
		s.update(func() {
			s.pendingLabels--
			s.repoLabels = slices.Clone(labels)
		})
	}()
}

// UpdateIssue applies display to the local issue at once, sends edit to the
// tracker, and then adopts the tracker's copy of the issue. On failure the
// issue is re-read; only if that also fails are the fields display touched
// reverted. Concurrent updates are not coalesced; the last
// one to finish wins.
func (s *Store) UpdateIssue(ctx context.Context, owner, repoName string, number int, edit issue.EditCommand, display issue.LocalStatePatch) {
	log := requestLogger(s.log, "update", number)
	if err := s.checkTarget(owner, repoName, number); err != nil {
		s.fail(log, "update issue rejected", err)
		return
	}

	var prev issue.Issue
	s.update(func() {
		prev = s.issue.Clone()
		applied := display.Apply(*s.issue)
		s.issue = &applied
		s.editing++
	})
	log.Debug("optimistic update applied")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		updated, err := s.tracker.UpdateIssue(ctx, number, edit)
		if err != nil {
			log.Error("update issue failed, rolling back", "err", err)
			// A later edit may already have landed, so prefer the tracker's
			// copy over the snapshot taken before this one.
			current, getErr := s.tracker.GetIssue(ctx, number)
			if getErr != nil {
				log.Warn("re-read after failed update", "err", getErr)
			}
			s.update(func() {
				s.editing--
				if getErr == nil {
					reconciled := s.withLabelDetails(current)
					s.issue = &reconciled
				} else {
					reverted := display.Revert(*s.issue, prev)
					s.issue = &reverted
				}
				s.err = err
			})
			return
		}

		s.update(func() {
			s.editing--
			reconciled := s.withLabelDetails(updated)
			s.issue = &reconciled
			s.err = nil
		})
		log.Info("issue updated")

		if edit.State != nil && prev.State != updated.State {
			change := "closed"
			if updated.State == issue.StateOpen {
				change = "reopened"
			}
			s.notify(ctx, log, notify.IssueEvent{Number: number, IssueURL: updated.URL, Change: change})
		}
	}()
}

// SetIssueLockStatus flips the lock of the issue whose current lock state
// is locked.
func (s *Store) SetIssueLockStatus(ctx context.Context, owner, repoName string, number int, locked bool) {
	log := requestLogger(s.log, "lock", number)
	if err := s.checkTarget(owner, repoName, number); err != nil {
		s.fail(log, "lock status change rejected", err)
		return
	}

	s.update(func() { s.editing++ })

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		want := !locked
		if err := s.tracker.SetLocked(ctx, number, want); err != nil {
			log.Error("lock status change failed", "locked", want, "err", err)
			s.update(func() {
				s.editing--
				s.err = err
			})
			return
		}

		var url string
		s.update(func() {
			s.editing--
			iss := s.issue.Clone()
			iss.Locked = want
			s.issue = &iss
			s.err = nil
			url = iss.URL
		})
		log.Info("lock status changed", "locked", want)

		change := "unlocked"
		if want {
			change = "locked"
		}
		s.notify(ctx, log, notify.IssueEvent{Number: number, IssueURL: url, Change: change})
	}()
}

// withLabelDetails fills label colors and descriptions the tracker left out
// from the repository label collection. Caller holds s.mu.
func (s *Store) withLabelDetails(iss issue.Issue) issue.Issue {
	for i, l := range iss.Labels {
		if l.Color != "" {
			continue
		}
		if j := slices.IndexFunc(s.repoLabels, func(r issue.Label) bool { return r.Name == l.Name }); j >= 0 {
			iss.Labels[i] = s.repoLabels[j]
		}
	}
	return iss
}
