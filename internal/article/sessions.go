package article

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sessions maps session ids to views. Views idle for longer than the TTL
// are dropped on the next access.
type Sessions struct {
	resolver *Resolver
	ttl      time.Duration
	now      func() time.Time

	mu    sync.Mutex
	views map[string]*View
}

func NewSessions(resolver *Resolver, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Sessions{
		resolver: resolver,
		ttl:      ttl,
		now:      time.Now,
		views:    make(map[string]*View),
	}
}

// Get returns the view for id, creating a new session when id is empty,
// malformed, unknown or expired. The returned id is the one to use next.
func (s *Sessions) Get(id string) (string, *View) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(now)

	if _, err := uuid.Parse(id); err == nil {
		if v, ok := s.views[id]; ok {
			v.touch(now)
			return id, v
		}
	}

	id = uuid.NewString()
	v := NewView(s.resolver)
	v.touch(now)
	s.views[id] = v
	return id, v
}

// Lookup returns an existing, unexpired view
func (s *Sessions) Lookup(id string) (*View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(s.now())
	v, ok := s.views[id]
	return v, ok
}

// Len reports the number of live sessions
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

func (s *Sessions) sweepLocked(now time.Time) {
	for id, v := range s.views {
		if v.idleSince(now) > s.ttl {
			delete(s.views, id)
		}
	}
}
