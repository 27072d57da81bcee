package session

import (
	"time"

	"github.com/Rrens/mika-travel/internal/domain"
)

// Greeting seeds the chat of every fresh session
const Greeting = "Hello 👋! I'm Mika."

// State is everything one browser session sees and mutates
type State struct {
	User        *domain.User        `json:"user,omitempty"`
	Chat        Window              `json:"chat"`
	ChatOpen    bool                `json:"chat_open"`
	CurrentTrip *domain.TripRecord  `json:"current_trip,omitempty"`
	PastTrips   []domain.TripRecord `json:"past_trips"`
}

// NewState returns the anonymous state with a single greeting
func NewState(now time.Time) State {
	return State{
		Chat:      NewWindow(greeting(now)),
		PastTrips: []domain.TripRecord{},
	}
}

// LoggedIn reports whether a user is attached
func (s State) LoggedIn() bool {
	return s.User != nil
}

func greeting(at time.Time) domain.ChatMessage {
	return domain.ChatMessage{
		Role:      domain.RoleAssistant,
		Content:   Greeting,
		Timestamp: at.UTC().Truncate(time.Millisecond),
	}
}

// Level is the severity of a notice
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice kinds beyond the collaborator error kinds
const (
	KindValidation domain.ErrorKind = "validation"
	KindSession    domain.ErrorKind = "session"
)

// Notice is a user-visible message produced by a transition
type Notice struct {
	Level   Level            `json:"level"`
	Kind    domain.ErrorKind `json:"kind,omitempty"`
	Message string           `json:"message"`
}

// Result is the outcome of one transition
type Result struct {
	State   State
	Notices []Notice
}

// Failed reports whether any notice is an error
func (r Result) Failed() bool {
	for _, n := range r.Notices {
		if n.Level == LevelError {
			return true
		}
	}
	return false
}
