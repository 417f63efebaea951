package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/davidmorenoc/desayunos-backend/internal/groups"
	"github.com/davidmorenoc/desayunos-backend/pkg/logger"
	"github.com/davidmorenoc/desayunos-backend/pkg/metrics"
	"github.com/davidmorenoc/desayunos-backend/pkg/scheduler"
	"github.com/davidmorenoc/desayunos-backend/pkg/sharedstore"
)

// ManagerParams configure the session factory.
type ManagerParams struct {
	Store     sharedstore.Store
	Writer    OrderWriter
	Scheduler *scheduler.Keyed
	Window    time.Duration
	Metrics   *metrics.SyncMetrics
	Logger    *logger.Logger
}

// OrderWriter is the slice of the group service sessions write through.
type OrderWriter = orderWriter

// Manager builds reconciling sessions bound to store subscriptions. One
// session per (group, participant) pair per live connection.
type Manager struct {
	store  sharedstore.Store
	writer OrderWriter
	sched  *scheduler.Keyed
	window time.Duration
	mets   *metrics.SyncMetrics
	logg   *logger.Logger
}

func NewManager(params ManagerParams) (*Manager, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("shared store required")
	}
	if params.Writer == nil {
		return nil, fmt.Errorf("order writer required")
	}
	if params.Scheduler == nil {
		return nil, fmt.Errorf("scheduler required")
	}
	window := params.Window
	if window <= 0 {
		window = time.Second
	}
	return &Manager{
		store:  params.Store,
		writer: params.Writer,
		sched:  params.Scheduler,
		window: window,
		mets:   params.Metrics,
		logg:   params.Logger,
	}, nil
}

// Open starts a session for one participant and subscribes it to the group's
// snapshots. Reconciled snapshots flow to emit; the returned cancel tears
// down both the subscription and the session.
func (m *Manager) Open(ctx context.Context, groupID, person string, emit func(*groups.Group)) (*Session, func(), error) {
	session := m.Session(groupID, person)
	session.emit = emit

	unsubscribe, err := m.store.Subscribe(ctx, groupID, func(raw json.RawMessage) {
		var group groups.Group
		if err := json.Unmarshal(raw, &group); err != nil {
			if m.logg != nil {
				m.logg.Error(m.logg.WithGroupID(ctx, groupID), "bad group snapshot", err)
			}
			return
		}
		session.ApplySnapshot(&group)
	})
	if err != nil {
		session.Close()
		return nil, nil, err
	}

	cancel := func() {
		unsubscribe()
		session.Close()
	}
	return session, cancel, nil
}

// Session builds an unsubscribed session, mostly a seam for tests and for
// callers that feed snapshots by hand.
func (m *Manager) Session(groupID, person string) *Session {
	return &Session{
		groupID: groupID,
		person:  person,
		writer:  m.writer,
		sched:   m.sched,
		window:  m.window,
		metrics: m.mets,
		logg:    m.logg,
	}
}
