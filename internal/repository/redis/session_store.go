package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/mika-travel/internal/security"
	"github.com/Rrens/mika-travel/internal/session"
	"github.com/redis/go-redis/v9"
)

const sessionPrefix = "session:"

// SessionStore keeps sealed session state in Redis with a sliding TTL
type SessionStore struct {
	client *Client
	sealer *security.Sealer
	ttl    time.Duration
}

// NewSessionStore creates a new session store
func NewSessionStore(client *Client, sealer *security.Sealer, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, sealer: sealer, ttl: ttl}
}

func sessionKey(id string) string {
	return sessionPrefix + id
}

// Load retrieves and decrypts a session
func (s *SessionStore) Load(ctx context.Context, id string) (*session.State, error) {
	data, err := s.client.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	state, err := s.decode(data)
	if err != nil {
		return nil, err
	}
	return state, nil
}

// Save encrypts and stores a session, refreshing its TTL
func (s *SessionStore) Save(ctx context.Context, id string, state session.State) error {
	data, err := s.encode(state)
	if err != nil {
		return err
	}

	if err := s.client.rdb.Set(ctx, sessionKey(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	return nil
}

// Delete removes a session
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.client.rdb.Del(ctx, sessionKey(id)).Err()
}

func (s *SessionStore) encode(state session.State) ([]byte, error) {
	data, err := s.sealer.SealJSON(state)
	if err != nil {
		return nil, fmt.Errorf("failed to seal session: %w", err)
	}
	return data, nil
}

func (s *SessionStore) decode(data []byte) (*session.State, error) {
	var state session.State
	if err := s.sealer.OpenJSON(data, &state); err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	return &state, nil
}
