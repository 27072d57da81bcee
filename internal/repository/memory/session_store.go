package memory

import (
	"context"
	"time"

	"github.com/Rrens/mika-travel/internal/session"
	"github.com/patrickmn/go-cache"
)

// SessionStore keeps session state in process memory. Sessions expire after
// ttl without activity; state is lost on restart.
type SessionStore struct {
	cache *cache.Cache
}

// NewSessionStore creates a new in-memory session store
func NewSessionStore(ttl time.Duration) *SessionStore {
	cleanup := ttl / 2
	if cleanup <= 0 {
		cleanup = time.Minute
	}
	return &SessionStore{cache: cache.New(ttl, cleanup)}
}

// Load returns a copy of the stored state
func (s *SessionStore) Load(_ context.Context, id string) (*session.State, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, session.ErrNotFound
	}
	state := v.(session.State)
	return &state, nil
}

// Save stores state and restarts its expiry
func (s *SessionStore) Save(_ context.Context, id string, state session.State) error {
	s.cache.Set(id, state, cache.DefaultExpiration)
	return nil
}

// Delete removes a session
func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	return s.cache.ItemCount()
}
