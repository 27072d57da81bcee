package session

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Rrens/mika-travel/internal/domain"
	"github.com/Rrens/mika-travel/internal/llm"
	"github.com/stretchr/testify/mock"
)

// MockIdentityGateway mocks the IdentityGateway interface
type MockIdentityGateway struct {
	mock.Mock
}

func (m *MockIdentityGateway) Authenticate(ctx context.Context, email, password string) (*domain.Identity, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

func (m *MockIdentityGateway) CreateAccount(ctx context.Context, email, password string) error {
	args := m.Called(ctx, email, password)
	return args.Error(0)
}

// MockGenerator mocks the llm.Generator interface
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}

// fakeRepo is an in-memory message and trip store with injectable failures
type fakeRepo struct {
	mu       sync.Mutex
	messages map[string][]domain.ChatMessage
	trips    map[string][]domain.TripRecord
	calls    int

	appendErr    error
	listMsgErr   error
	createErr    error
	listTripsErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		messages: make(map[string][]domain.ChatMessage),
		trips:    make(map[string][]domain.TripRecord),
	}
}

func (f *fakeRepo) Append(_ context.Context, uid string, message domain.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.appendErr != nil {
		return f.appendErr
	}
	f.messages[uid] = append(f.messages[uid], message)
	return nil
}

func (f *fakeRepo) ListRecent(_ context.Context, uid string, limit int) ([]domain.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.listMsgErr != nil {
		return nil, f.listMsgErr
	}
	all := f.messages[uid]
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return append([]domain.ChatMessage(nil), all...), nil
}

func (f *fakeRepo) Create(_ context.Context, uid string, trip *domain.TripRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.createErr != nil {
		return f.createErr
	}
	f.trips[uid] = append([]domain.TripRecord{*trip}, f.trips[uid]...)
	return nil
}

func (f *fakeRepo) ListByUser(_ context.Context, uid string) ([]domain.TripRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.listTripsErr != nil {
		return nil, f.listTripsErr
	}
	trips := append([]domain.TripRecord{}, f.trips[uid]...)
	slices.SortFunc(trips, func(a, b domain.TripRecord) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return trips, nil
}

func (f *fakeRepo) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// tickingClock advances one second per call
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

// echoGenerator answers every conversation with a fixed reply
type echoGenerator struct {
	reply string
}

func (g echoGenerator) Complete(_ context.Context, messages []llm.Message) (string, error) {
	return g.reply, nil
}
