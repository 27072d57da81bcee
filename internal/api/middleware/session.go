package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const SessionIDKey contextKey = "sessionID"

// SessionHeader carries the session id for clients that do not keep cookies
const SessionHeader = "X-Session-ID"

// SessionMiddleware resolves the browser session id from cookie or header
type SessionMiddleware struct {
	cookieName string
	secure     bool
	ttl        time.Duration
}

// NewSessionMiddleware creates a new session middleware
func NewSessionMiddleware(cookieName string, secure bool, ttl time.Duration) *SessionMiddleware {
	return &SessionMiddleware{cookieName: cookieName, secure: secure, ttl: ttl}
}

// Identify attaches a session id to the request context, issuing a new one
// when the client sent none or sent something that is not a uuid
func (m *SessionMiddleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := m.fromRequest(r)
		if !ok {
			id = uuid.NewString()
		}

		http.SetCookie(w, &http.Cookie{
			Name:     m.cookieName,
			Value:    id,
			Path:     "/",
			MaxAge:   int(m.ttl.Seconds()),
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: http.SameSiteLaxMode,
		})
		w.Header().Set(SessionHeader, id)

		ctx := context.WithValue(r.Context(), SessionIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *SessionMiddleware) fromRequest(r *http.Request) (string, bool) {
	if c, err := r.Cookie(m.cookieName); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String(), true
		}
	}
	if h := r.Header.Get(SessionHeader); h != "" {
		if id, err := uuid.Parse(h); err == nil {
			return id.String(), true
		}
	}
	return "", false
}

// GetSessionID gets the session ID from context
func GetSessionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SessionIDKey).(string)
	return id, ok && id != ""
}
