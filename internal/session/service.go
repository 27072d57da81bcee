package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rrens/mika-travel/internal/domain"
	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned by a Store for unknown or expired sessions
var ErrNotFound = errors.New("session not found")

// Store keeps session state between requests
type Store interface {
	Load(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, id string, state State) error
	Delete(ctx context.Context, id string) error
}

// Action is one transition applied under the session lock
type Action func(ctx context.Context, s State) Result

// Service runs actions against stored sessions, one at a time per session
type Service struct {
	store   Store
	locks   *Locks
	manager *Manager
}

// NewService creates a new session service
func NewService(store Store, manager *Manager) *Service {
	return &Service{
		store:   store,
		locks:   NewLocks(),
		manager: manager,
	}
}

// Do loads the session (or starts a fresh one), applies action and saves
// the result. The session lock is held for the whole cycle.
func (s *Service) Do(ctx context.Context, id string, action Action) (Result, error) {
	release, err := s.locks.Acquire(ctx, id)
	if err != nil {
		return Result{}, fmt.Errorf("acquire session lock: %w", err)
	}
	defer release()

	ctx = log.With().Str("session_id", id).Logger().WithContext(ctx)

	state, err := s.store.Load(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		fresh := s.manager.Fresh()
		state = &fresh
	case err != nil:
		return Result{}, fmt.Errorf("load session: %w", err)
	}

	res := action(ctx, *state)

	if err := s.store.Save(ctx, id, res.State); err != nil {
		return Result{}, fmt.Errorf("save session: %w", err)
	}

	return res, nil
}

// Snapshot returns the current state, creating the session if needed
func (s *Service) Snapshot(ctx context.Context, id string) (Result, error) {
	return s.Do(ctx, id, func(_ context.Context, st State) Result {
		return Result{State: st}
	})
}

func (s *Service) Login(ctx context.Context, id, email, password string) (Result, error) {
	return s.Do(ctx, id, func(ctx context.Context, st State) Result {
		return s.manager.Login(ctx, st, email, password)
	})
}

func (s *Service) Signup(ctx context.Context, id, email, password string) (Result, error) {
	return s.Do(ctx, id, func(ctx context.Context, st State) Result {
		return s.manager.Signup(ctx, st, email, password)
	})
}

// Logout drops the stored session. The next request under the same id
// starts from a fresh anonymous state.
func (s *Service) Logout(ctx context.Context, id string) (Result, error) {
	release, err := s.locks.Acquire(ctx, id)
	if err != nil {
		return Result{}, fmt.Errorf("acquire session lock: %w", err)
	}
	defer release()

	if err := s.store.Delete(ctx, id); err != nil {
		return Result{}, fmt.Errorf("delete session: %w", err)
	}
	return s.manager.Logout(ctx, State{}), nil
}

func (s *Service) OpenChat(ctx context.Context, id string) (Result, error) {
	return s.Do(ctx, id, s.manager.OpenChat)
}

func (s *Service) CloseChat(ctx context.Context, id string) (Result, error) {
	return s.Do(ctx, id, s.manager.CloseChat)
}

func (s *Service) SendChatMessage(ctx context.Context, id, text string) (Result, error) {
	return s.Do(ctx, id, func(ctx context.Context, st State) Result {
		return s.manager.SendChatMessage(ctx, st, text)
	})
}

func (s *Service) GenerateItinerary(ctx context.Context, id string, req domain.TripRequest) (Result, error) {
	return s.Do(ctx, id, func(ctx context.Context, st State) Result {
		return s.manager.GenerateItinerary(ctx, st, req)
	})
}

// Trip finds a trip among the cached trips of the session
func (s *Service) Trip(ctx context.Context, id, tripID string) (*domain.TripRecord, error) {
	res, err := s.Snapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	if !res.State.LoggedIn() {
		return nil, domain.ErrNotAuthenticated
	}
	for i := range res.State.PastTrips {
		if res.State.PastTrips[i].ID.String() == tripID {
			trip := res.State.PastTrips[i]
			return &trip, nil
		}
	}
	if ct := res.State.CurrentTrip; ct != nil && ct.ID.String() == tripID {
		return ct, nil
	}
	return nil, domain.ErrTripNotFound
}
