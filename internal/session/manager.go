package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rrens/mika-travel/internal/domain"
	"github.com/Rrens/mika-travel/internal/llm"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// User-facing confirmations
const (
	MsgSignedUp       = "Account created! Please log in."
	MsgLoggedIn       = "Login successful!"
	MsgTripCreated    = "Itinerary created successfully!"
	MsgLoginRequired  = "You need to log in to chat and save history."
	MsgTripsStale     = "Itinerary saved, but your trip history could not be refreshed."
	MsgMessageNotSent = "Your message could not be saved to history."
	MsgReplyNotSaved  = "Mika's reply could not be saved to history."
	MsgGreetingUnsent = "Your chat history could not be initialized."
)

// Dependencies are the collaborators a Manager calls
type Dependencies struct {
	Identity domain.IdentityGateway
	Messages domain.MessageRepository
	Trips    domain.TripRepository
	// Chat answers the conversation in the chat window
	Chat llm.Generator
	// Planner writes itineraries from a single instruction
	Planner llm.Generator
	Clock   func() time.Time
}

// Manager implements every session transition. It holds no per-session
// data: each operation takes a State and returns the next one.
type Manager struct {
	identity domain.IdentityGateway
	messages domain.MessageRepository
	trips    domain.TripRepository
	chat     llm.Generator
	planner  llm.Generator
	now      func() time.Time
}

// NewManager creates a new session manager
func NewManager(deps Dependencies) *Manager {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Planner == nil {
		deps.Planner = deps.Chat
	}
	return &Manager{
		identity: deps.Identity,
		messages: deps.Messages,
		trips:    deps.Trips,
		chat:     deps.Chat,
		planner:  deps.Planner,
		now:      deps.Clock,
	}
}

// Fresh returns a new anonymous state
func (m *Manager) Fresh() State {
	return NewState(m.now())
}

// Login authenticates and rehydrates chat and trips. Nothing in the state
// changes unless authentication and both loads succeed.
func (m *Manager) Login(ctx context.Context, s State, email, password string) Result {
	email = strings.TrimSpace(email)

	ident, err := m.identity.Authenticate(ctx, email, password)
	if err != nil {
		return m.reject(ctx, s, domain.AuthError("login", err))
	}

	msgs, err := m.messages.ListRecent(ctx, ident.UID, WindowSize)
	if err != nil {
		return m.reject(ctx, s, domain.StoreError("load messages", err))
	}

	trips, err := m.trips.ListByUser(ctx, ident.UID)
	if err != nil {
		return m.reject(ctx, s, domain.StoreError("load trips", err))
	}
	if trips == nil {
		trips = []domain.TripRecord{}
	}

	next := s
	next.User = &domain.User{UID: ident.UID, Email: email, SessionToken: ident.SessionToken}
	next.PastTrips = trips
	next.CurrentTrip = nil

	var notices []Notice
	if len(msgs) == 0 {
		g := greeting(m.now())
		next.Chat = NewWindow(g)
		if err := m.messages.Append(ctx, ident.UID, g); err != nil {
			notices = append(notices, m.warn(ctx, domain.StoreError("save greeting", err), MsgGreetingUnsent))
		}
	} else {
		next.Chat = NewWindow(msgs...)
	}

	notices = append(notices, info("", MsgLoggedIn))
	return Result{State: next, Notices: notices}
}

// Signup creates an account without logging in
func (m *Manager) Signup(ctx context.Context, s State, email, password string) Result {
	if err := m.identity.CreateAccount(ctx, strings.TrimSpace(email), password); err != nil {
		return m.reject(ctx, s, domain.AuthError("signup", err))
	}
	return Result{State: s, Notices: []Notice{info("", MsgSignedUp)}}
}

// Logout resets to a fresh anonymous state
func (m *Manager) Logout(_ context.Context, _ State) Result {
	return Result{State: m.Fresh()}
}

// OpenChat shows the chat dialog for a logged-in user
func (m *Manager) OpenChat(_ context.Context, s State) Result {
	if !s.LoggedIn() {
		return Result{State: s, Notices: []Notice{info(domain.KindAuth, MsgLoginRequired)}}
	}
	s.ChatOpen = true
	return Result{State: s}
}

// CloseChat hides the chat dialog
func (m *Manager) CloseChat(_ context.Context, s State) Result {
	s.ChatOpen = false
	return Result{State: s}
}

// SendChatMessage appends text, asks the chat model to answer the window and
// appends the reply. Persistence failures are warnings; the in-memory window
// keeps the messages either way.
func (m *Manager) SendChatMessage(ctx context.Context, s State, text string) Result {
	if !s.LoggedIn() {
		return Result{State: s, Notices: []Notice{failure(domain.KindAuth, MsgLoginRequired)}}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Result{State: s, Notices: []Notice{failure(KindValidation, "Message cannot be empty.")}}
	}

	uid := s.User.UID
	next := s
	var notices []Notice

	userMsg := domain.ChatMessage{Role: domain.RoleUser, Content: text, Timestamp: m.stamp(next.Chat)}
	next.Chat.Append(userMsg)
	if err := m.messages.Append(ctx, uid, userMsg); err != nil {
		notices = append(notices, m.warn(ctx, domain.StoreError("save message", err), MsgMessageNotSent))
	}

	reply, err := m.chat.Complete(ctx, llm.FromChat(next.Chat.Messages()))
	if err != nil {
		res := m.reject(ctx, next, domain.GenerationError("chat", err))
		res.Notices = append(notices, res.Notices...)
		return res
	}

	assistantMsg := domain.ChatMessage{Role: domain.RoleAssistant, Content: reply, Timestamp: m.stamp(next.Chat)}
	next.Chat.Append(assistantMsg)
	if err := m.messages.Append(ctx, uid, assistantMsg); err != nil {
		notices = append(notices, m.warn(ctx, domain.StoreError("save reply", err), MsgReplyNotSaved))
	}

	return Result{State: next, Notices: notices}
}

// GenerateItinerary asks the planner for an itinerary, stores it as the
// current trip and reloads the trip history. A failed reload keeps the new
// trip and the stale history.
func (m *Manager) GenerateItinerary(ctx context.Context, s State, req domain.TripRequest) Result {
	if !s.LoggedIn() {
		return Result{State: s, Notices: []Notice{failure(domain.KindAuth, MsgLoginRequired)}}
	}

	req = req.Normalize(m.now())
	if err := req.Validate(); err != nil {
		return Result{State: s, Notices: []Notice{failure(KindValidation, validationMessage(err))}}
	}

	prompt := llm.BuildItineraryPrompt(req)
	itinerary, err := m.planner.Complete(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}})
	if err != nil {
		return m.reject(ctx, s, domain.GenerationError("itinerary", err))
	}

	uid := s.User.UID
	trip := domain.NewTripRecord(req, itinerary, m.tripStamp(s))
	if err := m.trips.Create(ctx, uid, &trip); err != nil {
		return m.reject(ctx, s, domain.StoreError("save trip", err))
	}

	next := s
	next.CurrentTrip = &trip

	notices := []Notice{info("", MsgTripCreated)}
	trips, err := m.trips.ListByUser(ctx, uid)
	if err != nil {
		notices = append(notices, m.warn(ctx, domain.StoreError("reload trips", err), MsgTripsStale))
	} else {
		next.PastTrips = trips
	}

	return Result{State: next, Notices: notices}
}

// stamp returns a millisecond timestamp strictly after the newest message in w
func (m *Manager) stamp(w Window) time.Time {
	t := m.now().UTC().Truncate(time.Millisecond)
	if last, ok := w.Last(); ok && !t.After(last.Timestamp) {
		t = last.Timestamp.Add(time.Millisecond)
	}
	return t
}

// tripStamp returns a millisecond timestamp strictly after every trip s
// knows about, so the newest trip sorts first
func (m *Manager) tripStamp(s State) time.Time {
	t := m.now().UTC().Truncate(time.Millisecond)
	latest := lo.Map(s.PastTrips, func(tr domain.TripRecord, _ int) time.Time { return tr.CreatedAt })
	if s.CurrentTrip != nil {
		latest = append(latest, s.CurrentTrip.CreatedAt)
	}
	for _, at := range latest {
		if !t.After(at) {
			t = at.Add(time.Millisecond)
		}
	}
	return t
}

// reject keeps s and reports err as an error notice
func (m *Manager) reject(ctx context.Context, s State, err error) Result {
	log.Ctx(ctx).Warn().Err(err).Str("kind", string(domain.KindOf(err))).Msg("session action failed")
	return Result{State: s, Notices: []Notice{failure(domain.KindOf(err), describe(err))}}
}

func (m *Manager) warn(ctx context.Context, err error, message string) Notice {
	log.Ctx(ctx).Warn().Err(err).Str("kind", string(domain.KindOf(err))).Msg("session action degraded")
	return Notice{Level: LevelWarning, Kind: domain.KindOf(err), Message: message}
}

func info(kind domain.ErrorKind, message string) Notice {
	return Notice{Level: LevelInfo, Kind: kind, Message: message}
}

func failure(kind domain.ErrorKind, message string) Notice {
	return Notice{Level: LevelError, Kind: kind, Message: message}
}

// describe turns a classified error into the text shown to the user
func describe(err error) string {
	var de *domain.Error
	if !errors.As(err, &de) {
		return err.Error()
	}
	switch de.Kind {
	case domain.KindAuth:
		switch {
		case errors.Is(de.Err, domain.ErrInvalidCredentials),
			errors.Is(de.Err, domain.ErrEmailTaken),
			errors.Is(de.Err, domain.ErrWeakPassword),
			errors.Is(de.Err, domain.ErrInvalidEmail):
			return capitalize(de.Err.Error()) + "."
		}
		return fmt.Sprintf("Authentication failed: %v", de.Err)
	case domain.KindGeneration:
		return fmt.Sprintf("Mika could not respond (%s): %v", de.Op, de.Err)
	default:
		return fmt.Sprintf("Storage error (%s): %v", de.Op, de.Err)
	}
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid trip request."
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", fe.Field())
	case "gtefield":
		return "End date must not be before the start date."
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid.", fe.Field())
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
