package session

import (
	"encoding/json"

	"github.com/Rrens/mika-travel/internal/domain"
)

// WindowSize is the number of chat messages kept in a session
const WindowSize = 8

// Window is a fixed-capacity ring of the most recent chat messages.
// Appending to a full window overwrites the oldest message.
type Window struct {
	buf  [WindowSize]domain.ChatMessage
	head int // read position (oldest)
	size int
}

// NewWindow builds a window from msgs in chronological order, keeping only
// the last WindowSize of them.
func NewWindow(msgs ...domain.ChatMessage) Window {
	var w Window
	for _, m := range msgs {
		w.Append(m)
	}
	return w
}

// Append adds m as the newest message and reports whether the oldest was evicted.
func (w *Window) Append(m domain.ChatMessage) bool {
	if w.size < WindowSize {
		w.buf[(w.head+w.size)%WindowSize] = m
		w.size++
		return false
	}
	w.buf[w.head] = m
	w.head = (w.head + 1) % WindowSize
	return true
}

// Len returns the number of messages held
func (w Window) Len() int {
	return w.size
}

// Messages returns a chronological copy of the window contents
func (w Window) Messages() []domain.ChatMessage {
	out := make([]domain.ChatMessage, w.size)
	for i := range out {
		out[i] = w.buf[(w.head+i)%WindowSize]
	}
	return out
}

// Last returns the newest message
func (w Window) Last() (domain.ChatMessage, bool) {
	if w.size == 0 {
		return domain.ChatMessage{}, false
	}
	return w.buf[(w.head+w.size-1)%WindowSize], true
}

// MarshalJSON encodes the window as a chronological array
func (w Window) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.Messages())
}

// UnmarshalJSON decodes a chronological array, keeping the newest WindowSize entries
func (w *Window) UnmarshalJSON(data []byte) error {
	var msgs []domain.ChatMessage
	if err := json.Unmarshal(data, &msgs); err != nil {
		return err
	}
	*w = NewWindow(msgs...)
	return nil
}
