package service

import (
	"sync"

	"github.com/beka-birhanu/vinom-snake-server/service/i"
	"github.com/beka-birhanu/vinom-snake-server/snake"
	"github.com/google/uuid"
)

// Registry maps connection ids to their sessions. Its lock is held only
// for the map operation itself.
type Registry struct {
	sessions map[uuid.UUID]*Session
	sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[uuid.UUID]*Session)}
}

// Create registers a new session for id. A session already registered
// under id is replaced and cancelled.
func (r *Registry) Create(id uuid.UUID, game *snake.Game, sink i.StateSink) *Session {
	s := newSession(id, game, sink)

	r.Lock()
	old, replaced := r.sessions[id]
	r.sessions[id] = s
	r.Unlock()

	if replaced {
		old.cancel()
	}
	return s
}

func (r *Registry) Get(id uuid.UUID) (*Session, bool) {
	r.RLock()
	defer r.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Remove unregisters and cancels the session for id. It reports whether
// one was registered.
func (r *Registry) Remove(id uuid.UUID) bool {
	r.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.Unlock()

	if ok {
		s.cancel()
	}
	return ok
}

// Holds reports whether s is still the session registered under its id.
func (r *Registry) Holds(s *Session) bool {
	current, ok := r.Get(s.id)
	return ok && current == s
}

func (r *Registry) Count() int {
	r.RLock()
	defer r.RUnlock()
	return len(r.sessions)
}

// All returns the registered sessions in no particular order.
func (r *Registry) All() []*Session {
	r.RLock()
	defer r.RUnlock()
	all := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	return all
}

// Clear removes and cancels every session.
func (r *Registry) Clear() {
	r.Lock()
	sessions := r.sessions
	r.sessions = make(map[uuid.UUID]*Session)
	r.Unlock()

	for _, s := range sessions {
		s.cancel()
	}
}
