package llm

import (
	"fmt"
	"strings"

	"github.com/Rrens/mika-travel/internal/domain"
	"github.com/samber/lo"
)

// BuildItineraryPrompt creates the single instruction sent for itinerary
// generation. req is expected to be normalized.
func BuildItineraryPrompt(req domain.TripRequest) string {
	return fmt.Sprintf(
		"Generate a detailed %s itinerary from %s to %s from %s to %s, focusing on %s. "+
			"Split by morning, afternoon, and evening with short explanations.",
		strings.ToLower(string(req.Pace)),
		req.Origin,
		req.Destination,
		req.StartDate.Format(domain.DateLayout),
		req.EndDate.Format(domain.DateLayout),
		strings.Join(req.Interests, ", "),
	)
}

// FromChat converts chat history into provider messages, preserving order
func FromChat(history []domain.ChatMessage) []Message {
	return lo.Map(history, func(m domain.ChatMessage, _ int) Message {
		return Message{Role: string(m.Role), Content: m.Content}
	})
}

// SplitLast separates the final message from the preceding history.
// Providers with a chat-session API send history and the last turn separately.
func SplitLast(messages []Message) (history []Message, last Message, ok bool) {
	if len(messages) == 0 {
		return nil, Message{}, false
	}
	return messages[:len(messages)-1], messages[len(messages)-1], true
}

// TrimLeadingAssistant drops assistant turns before the first user turn, for
// providers that require conversations to open with the user.
func TrimLeadingAssistant(messages []Message) []Message {
	for i, m := range messages {
		if m.Role == RoleUser {
			return messages[i:]
		}
	}
	return nil
}
