package services

import (
	"sync"
	"time"
)

// Session binds a connection to its verified identity.
type Session struct {
	ClientID  string
	Identity  Identity
	CreatedAt time.Time
}

// SessionRegistry is the single source of truth for "is this connection logged in".
// A user may hold several sessions, one per connection.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]Session)}
}

// Register binds identity to the client. Fails once the client is closed so a
// login that finishes after disconnect cannot resurrect the session.
func (r *SessionRegistry) Register(c *Client, id Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.Closed() {
		return ErrConnectionClosed
	}
	r.sessions[c.ID] = Session{ClientID: c.ID, Identity: id, CreatedAt: time.Now()}
	return nil
}

func (r *SessionRegistry) Lookup(clientID string) (Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[clientID]
	return s.Identity, ok
}

func (r *SessionRegistry) IsAuthenticated(clientID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[clientID]
	return ok
}

// Remove is idempotent; the second call reports false.
func (r *SessionRegistry) Remove(clientID string) (Identity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[clientID]
	delete(r.sessions, clientID)
	return s.Identity, ok
}

// Sessions returns a copy of every active session.
func (r *SessionRegistry) Sessions() []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}

func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
