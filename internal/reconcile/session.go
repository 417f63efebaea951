// Package reconcile keeps one participant's optimistic local edits from being
// clobbered by the shared store's echo of their own write. After a local edit
// is pushed, incoming snapshots have that participant's own slice suppressed
// for a short window; everyone else's changes always flow through.
package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/davidmorenoc/desayunos-backend/internal/groups"
	"github.com/davidmorenoc/desayunos-backend/internal/pricing"
	"github.com/davidmorenoc/desayunos-backend/pkg/logger"
	"github.com/davidmorenoc/desayunos-backend/pkg/metrics"
	"github.com/davidmorenoc/desayunos-backend/pkg/scheduler"
)

type state int

const (
	stateIdle state = iota
	stateEditInFlight
)

type orderWriter interface {
	SetPersonItems(ctx context.Context, groupID, person string, items []pricing.Item) (*groups.Group, error)
}

// Session reconciles store snapshots with one participant's local edits.
// Safe for concurrent use; snapshot delivery and edits can race freely.
type Session struct {
	groupID string
	person  string
	writer  orderWriter
	sched   *scheduler.Keyed
	window  time.Duration
	metrics *metrics.SyncMetrics
	logg    *logger.Logger
	emit    func(*groups.Group)

	mu    sync.Mutex
	st    state
	local groups.ItemList
	view  *groups.Group
}

func (s *Session) windowKey() string {
	return "sync:" + s.groupID + ":" + s.person
}

// SetItems pushes a local edit. The local copy takes effect immediately and
// incoming snapshots stop overwriting this participant's slice until the
// suppression window elapses. A failed write drops the suppression at once so
// the next snapshot restores the store's truth.
func (s *Session) SetItems(ctx context.Context, items []pricing.Item) (*groups.Group, error) {
	s.mu.Lock()
	s.st = stateEditInFlight
	s.local = append(groups.ItemList(nil), items...)
	s.mu.Unlock()

	group, err := s.writer.SetPersonItems(ctx, s.groupID, s.person, items)
	if err != nil {
		s.mu.Lock()
		s.st = stateIdle
		s.local = nil
		s.mu.Unlock()
		s.sched.Cancel(s.windowKey())
		s.metrics.IncWriteFailure()
		if s.logg != nil {
			s.logg.Error(s.logg.WithPersonName(s.logg.WithGroupID(ctx, s.groupID), s.person),
				"order write failed, dropping suppression", err)
		}
		return nil, err
	}

	s.mu.Lock()
	s.view = group.Clone()
	s.mu.Unlock()

	// Consecutive edits restart the window rather than stacking timers.
	s.sched.Schedule(s.windowKey(), s.window, func() {
		s.mu.Lock()
		s.st = stateIdle
		s.local = nil
		s.mu.Unlock()
	})
	return group, nil
}

// ApplySnapshot folds a store snapshot into the session view. While a local
// edit is in flight the participant's own slice keeps the local items; all
// other participants' slices are taken from the snapshot as-is.
func (s *Session) ApplySnapshot(remote *groups.Group) *groups.Group {
	merged := remote.Clone()

	s.mu.Lock()
	if s.st == stateEditInFlight {
		if person, ok := merged.People[s.person]; ok {
			person.Items = append(groups.ItemList(nil), s.local...)
			merged.People[s.person] = person
		}
		s.metrics.IncSuppressed()
	} else {
		s.metrics.IncApplied()
	}
	s.view = merged
	emit := s.emit
	s.mu.Unlock()

	if emit != nil {
		emit(merged.Clone())
	}
	return merged
}

// View returns the last reconciled snapshot, or nil before the first one.
func (s *Session) View() *groups.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Clone()
}

// Close drops any pending suppression window.
func (s *Session) Close() {
	s.sched.Cancel(s.windowKey())
	s.mu.Lock()
	s.st = stateIdle
	s.local = nil
	s.mu.Unlock()
}
