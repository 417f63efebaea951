// Package scheduler provides cancellable delayed callbacks keyed by an
// arbitrary string. Scheduling under an existing key replaces the pending
// callback instead of stacking a second one.
package scheduler

import (
	"sync"
	"time"
)

type entry struct {
	timer      Timer
	generation uint64
}

// Keyed runs at most one pending callback per key.
type Keyed struct {
	mu         sync.Mutex
	clock      Clock
	pending    map[string]*entry
	generation uint64
}

func NewKeyed(clock Clock) *Keyed {
	if clock == nil {
		clock = RealClock()
	}
	return &Keyed{
		clock:   clock,
		pending: map[string]*entry{},
	}
}

// Schedule arms fn to run after delay. A pending callback under the same key
// is cancelled first; the window restarts, it never stacks.
func (k *Keyed) Schedule(key string, delay time.Duration, fn func()) {
	k.mu.Lock()
	if existing, ok := k.pending[key]; ok {
		existing.timer.Stop()
	}
	k.generation++
	gen := k.generation
	e := &entry{generation: gen}
	k.pending[key] = e
	e.timer = k.clock.AfterFunc(delay, func() {
		k.mu.Lock()
		current, ok := k.pending[key]
		if !ok || current.generation != gen {
			k.mu.Unlock()
			return
		}
		delete(k.pending, key)
		k.mu.Unlock()
		fn()
	})
	k.mu.Unlock()
}

// Cancel drops the pending callback for key, reporting whether one existed.
func (k *Keyed) Cancel(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	existing, ok := k.pending[key]
	if !ok {
		return false
	}
	existing.timer.Stop()
	delete(k.pending, key)
	return true
}

// Pending reports whether a callback is armed for key.
func (k *Keyed) Pending(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	_, ok := k.pending[key]
	return ok
}
