package reconcile

import "sync"

// Registry tracks the live session per (group, participant). HTTP edits
// route through the registered session so its suppression window is honored;
// without one they write straight through.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: map[string]*Session{}}
}

func registryKey(groupID, person string) string {
	return groupID + "\x00" + person
}

// Put registers a session and returns a remove func. A newer session for the
// same pair displaces the older registration; removal is a no-op once
// displaced.
func (r *Registry) Put(groupID, person string, session *Session) func() {
	key := registryKey(groupID, person)
	r.mu.Lock()
	r.sessions[key] = session
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		if r.sessions[key] == session {
			delete(r.sessions, key)
		}
		r.mu.Unlock()
	}
}

func (r *Registry) Get(groupID, person string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[registryKey(groupID, person)]
}
