package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoSession(t *testing.T) (http.Handler, *string) {
	var seen string
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetSessionID(r.Context())
		assert.True(t, ok)
		seen = id
	}), &seen
}

func TestIdentify_IssuesNewSession(t *testing.T) {
	next, seen := echoSession(t)
	mw := NewSessionMiddleware("mika_session", false, time.Hour)

	rec := httptest.NewRecorder()
	mw.Identify(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(*seen)
	require.NoError(t, err)
	assert.Equal(t, *seen, rec.Header().Get(SessionHeader))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "mika_session", cookies[0].Name)
	assert.Equal(t, *seen, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 3600, cookies[0].MaxAge)
}

func TestIdentify_ReusesCookieOrHeader(t *testing.T) {
	mw := NewSessionMiddleware("mika_session", false, time.Hour)
	id := uuid.NewString()

	t.Run("cookie", func(t *testing.T) {
		next, seen := echoSession(t)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "mika_session", Value: id})

		mw.Identify(next).ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, id, *seen)
	})

	t.Run("header", func(t *testing.T) {
		next, seen := echoSession(t)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(SessionHeader, id)

		mw.Identify(next).ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, id, *seen)
	})

	t.Run("malformed", func(t *testing.T) {
		next, seen := echoSession(t)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "mika_session", Value: "../../etc"})

		mw.Identify(next).ServeHTTP(httptest.NewRecorder(), req)
		assert.NotEqual(t, "../../etc", *seen)
		_, err := uuid.Parse(*seen)
		assert.NoError(t, err)
	})
}

type fakeLimiter struct {
	allowed bool
	err     error
}

func (f fakeLimiter) Allow(context.Context, string) (bool, int, time.Time, error) {
	return f.allowed, 0, time.Date(2025, 1, 1, 0, 1, 0, 0, time.UTC), f.err
}

func (f fakeLimiter) Limit() int { return 40 }

func TestRateLimit(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	withSession := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		return req.WithContext(context.WithValue(req.Context(), SessionIDKey, "s1"))
	}

	tests := []struct {
		name    string
		limiter fakeLimiter
		want    int
	}{
		{"allowed", fakeLimiter{allowed: true}, http.StatusNoContent},
		{"exceeded", fakeLimiter{allowed: false}, http.StatusTooManyRequests},
		{"limiter down", fakeLimiter{err: errors.New("redis down")}, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewRateLimitMiddleware(tt.limiter).Limit(ok).ServeHTTP(rec, withSession())
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	NewRateLimitMiddleware(fakeLimiter{allowed: true}).Limit(ok).ServeHTTP(rec, withSession())
	assert.Equal(t, "40", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "2025-01-01T00:01:00Z", rec.Header().Get("X-RateLimit-Reset"))
}
