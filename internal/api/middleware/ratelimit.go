package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Rrens/mika-travel/internal/api/response"
	"github.com/rs/zerolog/log"
)

// Limiter decides whether a keyed request fits in the current window
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, int, time.Time, error)
	Limit() int
}

// RateLimitMiddleware handles rate limiting
type RateLimitMiddleware struct {
	limiter Limiter
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(limiter Limiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter}
}

// Limit applies rate limiting based on session ID
func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := GetSessionID(r.Context())
		if !ok {
			response.Error(w, http.StatusBadRequest, "missing session")
			return
		}

		allowed, remaining, resetTime, err := m.limiter.Allow(r.Context(), sessionID)
		if err != nil {
			// If rate limiter fails, allow the request but log the error
			log.Ctx(r.Context()).Warn().Err(err).Msg("rate limiter unavailable")
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(m.limiter.Limit()))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", resetTime.UTC().Format(time.RFC3339))

		if !allowed {
			response.Error(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
