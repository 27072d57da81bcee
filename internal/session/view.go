package session

import "github.com/Rrens/mika-travel/internal/domain"

// View is the read-only projection handed to clients
type View struct {
	LoggedIn    bool                 `json:"logged_in"`
	Email       string               `json:"email,omitempty"`
	ChatOpen    bool                 `json:"chat_open"`
	Messages    []domain.ChatMessage `json:"messages"`
	CurrentTrip *domain.TripRecord   `json:"current_trip,omitempty"`
	PastTrips   []domain.TripRecord  `json:"past_trips"`
	Interests   []string             `json:"interests"`
	Paces       []domain.Pace        `json:"paces"`
	Notices     []Notice             `json:"notices"`
}

// Project renders s and the notices of the last action. The chat dialog is
// reported closed while nobody is logged in.
func Project(s State, notices []Notice) View {
	v := View{
		LoggedIn:    s.LoggedIn(),
		ChatOpen:    s.ChatOpen && s.LoggedIn(),
		Messages:    s.Chat.Messages(),
		CurrentTrip: s.CurrentTrip,
		PastTrips:   append([]domain.TripRecord{}, s.PastTrips...),
		Interests:   append([]string(nil), domain.Interests...),
		Paces:       []domain.Pace{domain.PaceRelaxed, domain.PaceNormal, domain.PaceTight},
		Notices:     append([]Notice{}, notices...),
	}
	if s.User != nil {
		v.Email = s.User.Email
	}
	return v
}
