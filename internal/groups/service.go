// Package groups maintains the shared group record: who joined, what each
// participant ordered, and the derived totals. Totals are recomputed from the
// current item sets on every change; the stored copies are caches only.
package groups

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/davidmorenoc/desayunos-backend/internal/pricing"
	"github.com/davidmorenoc/desayunos-backend/pkg/config"
	pkgerrors "github.com/davidmorenoc/desayunos-backend/pkg/errors"
	"github.com/davidmorenoc/desayunos-backend/pkg/logger"
	"github.com/davidmorenoc/desayunos-backend/pkg/scheduler"
	"github.com/davidmorenoc/desayunos-backend/pkg/sharedstore"
	"github.com/shopspring/decimal"
)

const cleanupKeyPrefix = "group-cleanup:"

type priceEngine interface {
	Price(items []pricing.Item) pricing.Result
	OptimalPrice(items []pricing.Item) pricing.OptimalResult
}

// ServiceParams configure the group service.
type ServiceParams struct {
	Store     sharedstore.Store
	Engine    priceEngine
	Scheduler *scheduler.Keyed
	Logger    *logger.Logger
	Config    config.GroupsConfig
	Now       func() time.Time
	RandInt   func(n int) int
}

// Service coordinates group lifecycle and per-person order edits.
type Service struct {
	store   sharedstore.Store
	engine  priceEngine
	sched   *scheduler.Keyed
	logg    *logger.Logger
	cfg     config.GroupsConfig
	now     func() time.Time
	randInt func(n int) int

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("shared store required")
	}
	if params.Engine == nil {
		return nil, fmt.Errorf("pricing engine required")
	}
	if params.Scheduler == nil {
		return nil, fmt.Errorf("scheduler required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	randInt := params.RandInt
	if randInt == nil {
		randInt = rand.Intn
	}
	cfg := params.Config
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = "TOMATE"
	}
	if cfg.MaxIDAttempts <= 0 {
		cfg.MaxIDAttempts = 100
	}
	if cfg.CleanupTTL <= 0 {
		cfg.CleanupTTL = 5 * time.Minute
	}
	return &Service{
		store:   params.Store,
		engine:  params.Engine,
		sched:   params.Scheduler,
		logg:    params.Logger,
		cfg:     cfg,
		now:     now,
		randInt: randInt,
		locks:   map[string]*sync.Mutex{},
	}, nil
}

// groupLock returns the mutex serializing mutations of one group. Records are
// written whole, so concurrent read-modify-write cycles on the same group
// would drop each other's edits if they interleaved.
func (s *Service) groupLock(groupID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	lock, ok := s.locks[groupID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[groupID] = lock
	}
	return lock
}

// Create registers a fresh group under a unique id and arms its empty-group
// cleanup timer.
func (s *Service) Create(ctx context.Context) (*Group, error) {
	id, err := s.uniqueID(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	group := &Group{
		ID:           id,
		CreatedAt:    now,
		LastActivity: now,
		People:       map[string]PersonOrder{},
		Total:        decimal.Zero,
	}
	if err := s.store.Write(ctx, id, group); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create group")
	}

	s.scheduleCleanup(id)
	if s.logg != nil {
		s.logg.Info(s.logg.WithGroupID(ctx, id), "group created")
	}
	return group, nil
}

// Join adds a participant to an existing, unpaid group. Participant names
// act as keys and must be unique within the group.
func (s *Service) Join(ctx context.Context, groupID, person string) (*Group, error) {
	lock := s.groupLock(groupID)
	lock.Lock()
	defer lock.Unlock()

	group, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.Paid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "group has already been paid")
	}
	if _, exists := group.People[person]; exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a person with that name already joined")
	}

	now := s.now()
	group.People[person] = PersonOrder{
		Name:     person,
		Items:    ItemList{},
		Total:    decimal.Zero,
		JoinedAt: now,
	}
	group.LastActivity = now

	if err := s.store.Write(ctx, groupID, group); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "join group")
	}

	// Someone is in the group now, so the empty-group timer no longer applies.
	s.sched.Cancel(cleanupKeyPrefix + groupID)
	return group, nil
}

// SetPersonItems replaces a participant's selection wholesale, reprices the
// participant, and refreshes the derived group total.
func (s *Service) SetPersonItems(ctx context.Context, groupID, person string, items []pricing.Item) (*Group, error) {
	lock := s.groupLock(groupID)
	lock.Lock()
	defer lock.Unlock()

	group, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.Paid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "group has already been paid")
	}
	record, exists := group.People[person]
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "person not found in group")
	}

	now := s.now()
	record.Items = append(ItemList(nil), items...)
	record.Total = personTotal(s.engine.Price(items))
	record.UpdatedAt = &now
	group.People[person] = record
	group.LastActivity = now
	group.Total = s.engine.OptimalPrice(s.unionItems(group)).Total

	if err := s.store.Write(ctx, groupID, group); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update person order")
	}
	return group, nil
}

// Snapshot returns the group with freshly derived totals.
func (s *Service) Snapshot(ctx context.Context, groupID string) (*Group, error) {
	group, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return s.RecomputeTotals(group), nil
}

// RecomputeTotals derives every cached total from the current item sets. Pure
// with respect to its input: the returned view is a copy.
func (s *Service) RecomputeTotals(group *Group) *Group {
	out := group.Clone()
	for name, person := range out.People {
		person.Total = personTotal(s.engine.Price(person.Items))
		out.People[name] = person
	}
	out.Total = s.engine.OptimalPrice(s.unionItems(out)).Total
	return out
}

// OptimalPricing prices the union of every participant's items in group mode.
func (s *Service) OptimalPricing(ctx context.Context, groupID string) (pricing.OptimalResult, error) {
	group, err := s.load(ctx, groupID)
	if err != nil {
		return pricing.OptimalResult{}, err
	}
	return s.engine.OptimalPrice(s.unionItems(group)), nil
}

// PricePerson runs single-order pricing over an ad-hoc item set.
func (s *Service) PricePerson(items []pricing.Item) pricing.Result {
	return s.engine.Price(items)
}

// MarkPaid flags the group as settled.
func (s *Service) MarkPaid(ctx context.Context, groupID string) (*Group, error) {
	lock := s.groupLock(groupID)
	lock.Lock()
	defer lock.Unlock()

	group, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.Paid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "group has already been paid")
	}

	now := s.now()
	group.Paid = true
	group.PaidAt = &now
	group.LastActivity = now

	if err := s.store.Write(ctx, groupID, group); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark group paid")
	}
	return group, nil
}

// Delete removes the group record and any pending cleanup.
func (s *Service) Delete(ctx context.Context, groupID string) error {
	lock := s.groupLock(groupID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.load(ctx, groupID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, groupID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete group")
	}
	s.sched.Cancel(cleanupKeyPrefix + groupID)
	return nil
}

// List returns every stored group, totals rederived. Used by the admin
// surface and the cleanup worker.
func (s *Service) List(ctx context.Context) ([]*Group, error) {
	paths, err := s.store.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list groups")
	}
	sort.Strings(paths)

	out := make([]*Group, 0, len(paths))
	for _, path := range paths {
		group, err := s.load(ctx, path)
		if err != nil {
			// Records can vanish between List and Read.
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				continue
			}
			return nil, err
		}
		out = append(out, s.RecomputeTotals(group))
	}
	return out, nil
}

// DeleteIfInactive removes a group that stayed empty past the TTL. Returns
// whether a delete happened.
func (s *Service) DeleteIfInactive(ctx context.Context, groupID string, ttl time.Duration) (bool, error) {
	lock := s.groupLock(groupID)
	lock.Lock()
	defer lock.Unlock()

	group, err := s.load(ctx, groupID)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return false, nil
		}
		return false, err
	}
	if len(group.People) > 0 {
		return false, nil
	}
	if s.now().Sub(group.LastActivity) < ttl {
		return false, nil
	}
	if err := s.store.Delete(ctx, groupID); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cleanup group")
	}
	return true, nil
}

func (s *Service) load(ctx context.Context, groupID string) (*Group, error) {
	var group Group
	if err := s.store.Read(ctx, groupID, &group); err != nil {
		if err == sharedstore.ErrNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "group does not exist or has expired")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read group")
	}
	if group.People == nil {
		group.People = map[string]PersonOrder{}
	}
	return &group, nil
}

// unionItems flattens every participant's valid items, participants ordered
// by join time (name as tie-break) so group pricing is deterministic.
func (s *Service) unionItems(group *Group) []pricing.Item {
	people := make([]PersonOrder, 0, len(group.People))
	for _, person := range group.People {
		people = append(people, person)
	}
	sort.SliceStable(people, func(i, j int) bool {
		if people[i].JoinedAt.Equal(people[j].JoinedAt) {
			return people[i].Name < people[j].Name
		}
		return people[i].JoinedAt.Before(people[j].JoinedAt)
	})

	var items []pricing.Item
	for _, person := range people {
		for _, item := range person.Items {
			if item.Valid() {
				items = append(items, item)
			}
		}
	}
	return items
}

func (s *Service) uniqueID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < s.cfg.MaxIDAttempts; attempt++ {
		id := fmt.Sprintf("%s-%05d", s.cfg.IDPrefix, s.randInt(100000))
		err := s.store.Read(ctx, id, &Group{})
		if err == sharedstore.ErrNotFound {
			return id, nil
		}
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check group id")
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeConflict, "could not allocate a unique group id")
}

func (s *Service) scheduleCleanup(groupID string) {
	s.sched.Schedule(cleanupKeyPrefix+groupID, s.cfg.CleanupTTL, func() {
		ctx := context.Background()
		deleted, err := s.DeleteIfInactive(ctx, groupID, 0)
		if err != nil && s.logg != nil {
			s.logg.Error(s.logg.WithGroupID(ctx, groupID), "empty-group cleanup failed", err)
			return
		}
		if deleted && s.logg != nil {
			s.logg.Info(s.logg.WithGroupID(ctx, groupID), "empty group removed")
		}
	})
}

func personTotal(result pricing.Result) decimal.Decimal {
	if result.Total == nil {
		return decimal.Zero
	}
	return *result.Total
}
