package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Rrens/mika-travel/internal/api"
	"github.com/Rrens/mika-travel/internal/api/handler"
	"github.com/Rrens/mika-travel/internal/api/middleware"
	"github.com/Rrens/mika-travel/internal/config"
	"github.com/Rrens/mika-travel/internal/identity"
	"github.com/Rrens/mika-travel/internal/llm"
	"github.com/Rrens/mika-travel/internal/repository/memory"
	"github.com/Rrens/mika-travel/internal/repository/sqlstore"
	"github.com/Rrens/mika-travel/internal/security"
	"github.com/Rrens/mika-travel/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type echoGenerator struct{}

func (echoGenerator) Complete(_ context.Context, messages []llm.Message) (string, error) {
	return "echo: " + messages[len(messages)-1].Content, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    session.View    `json:"data"`
	Error   json.RawMessage `json:"error"`
}

type client struct {
	t         *testing.T
	handler   http.Handler
	sessionID string
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.sessionID != "" {
		req.Header.Set(middleware.SessionHeader, c.sessionID)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	if id := rec.Header().Get(middleware.SessionHeader); id != "" {
		c.sessionID = id
	}
	return rec
}

func (c *client) view(method, path string, body any) session.View {
	c.t.Helper()
	rec := c.do(method, path, body)
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())

	var env envelope
	require.NoError(c.t, json.NewDecoder(rec.Body).Decode(&env))
	require.True(c.t, env.Success)
	return env.Data
}

func newTestServer(t *testing.T) *client {
	t.Helper()

	db, err := sqlstore.Open(context.Background(), sqlstore.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gateway := identity.NewLocalGateway(
		sqlstore.NewUserRepository(db),
		security.NewJWTManager("test-secret", time.Hour),
	).WithCost(bcrypt.MinCost)

	manager := session.NewManager(session.Dependencies{
		Identity: gateway,
		Messages: sqlstore.NewMessageRepository(db),
		Trips:    sqlstore.NewTripRepository(db),
		Chat:     echoGenerator{},
	})

	cfg := &config.Config{
		Server: config.ServerConfig{
			AllowedOrigins:    []string{"*"},
			MiddlewareTimeout: time.Minute,
		},
		Session: config.SessionConfig{
			CookieName: "mika_session",
			TTL:        time.Hour,
		},
	}

	router := api.NewRouter(cfg, api.Dependencies{
		Sessions:  session.NewService(memory.NewSessionStore(time.Hour), manager),
		LLM:       llm.NewRouter("ollama"),
		Readiness: map[string]handler.Pinger{"storage": db},
	})

	return &client{t: t, handler: router}
}

func TestRouter_FullFlow(t *testing.T) {
	c := newTestServer(t)
	creds := map[string]string{"email": "a@x.com", "password": "secret1"}

	v := c.view(http.MethodGet, "/api/v1/session", nil)
	assert.False(t, v.LoggedIn)
	require.Len(t, v.Messages, 1)
	assert.Equal(t, session.Greeting, v.Messages[0].Content)
	require.NotEmpty(t, c.sessionID)

	v = c.view(http.MethodPost, "/api/v1/session/signup", creds)
	require.Len(t, v.Notices, 1)
	assert.Equal(t, session.MsgSignedUp, v.Notices[0].Message)
	assert.False(t, v.LoggedIn)

	v = c.view(http.MethodPost, "/api/v1/session/login", creds)
	assert.True(t, v.LoggedIn)
	assert.Equal(t, "a@x.com", v.Email)
	require.Len(t, v.Messages, 1)

	v = c.view(http.MethodPost, "/api/v1/session/chat/open", nil)
	assert.True(t, v.ChatOpen)

	v = c.view(http.MethodPost, "/api/v1/session/chat/messages", map[string]string{"text": "hi"})
	require.Len(t, v.Messages, 3)
	assert.Equal(t, "hi", v.Messages[1].Content)
	assert.Equal(t, "echo: hi", v.Messages[2].Content)

	v = c.view(http.MethodPost, "/api/v1/session/trips", map[string]any{
		"origin":      "Hanoi",
		"destination": "Da Nang",
		"start_date":  "2025-03-01",
		"end_date":    "2025-03-03",
		"interests":   []string{"Food", "Nature"},
		"pace":        "Relaxed",
	})
	require.NotNil(t, v.CurrentTrip)
	assert.Contains(t, v.CurrentTrip.Itinerary, "from Hanoi to Da Nang")
	require.Len(t, v.PastTrips, 1)
	assert.Equal(t, v.CurrentTrip.ID, v.PastTrips[0].ID)

	rec := c.do(http.MethodGet, "/api/v1/session/trips/"+v.CurrentTrip.ID.String()+"/calendar.ics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/calendar"))
	assert.Contains(t, rec.Body.String(), "BEGIN:VEVENT")

	rec = c.do(http.MethodGet, "/api/v1/session/trips/00000000-0000-0000-0000-000000000000/calendar.ics", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	v = c.view(http.MethodPost, "/api/v1/session/logout", nil)
	assert.False(t, v.LoggedIn)
	assert.False(t, v.ChatOpen)
	assert.Nil(t, v.CurrentTrip)
	assert.Empty(t, v.PastTrips)

	// Returning user gets the stored history back
	v = c.view(http.MethodPost, "/api/v1/session/login", creds)
	require.Len(t, v.Messages, 3)
	assert.Equal(t, "echo: hi", v.Messages[2].Content)
	assert.Len(t, v.PastTrips, 1)
}

func TestRouter_NoticesInsteadOfErrors(t *testing.T) {
	c := newTestServer(t)

	v := c.view(http.MethodPost, "/api/v1/session/chat/messages", map[string]string{"text": "hi"})
	require.Len(t, v.Notices, 1)
	assert.Equal(t, session.LevelError, v.Notices[0].Level)
	assert.Equal(t, session.MsgLoginRequired, v.Notices[0].Message)

	v = c.view(http.MethodPost, "/api/v1/session/login", map[string]string{"email": "a@x.com", "password": "nope"})
	assert.False(t, v.LoggedIn)
	require.Len(t, v.Notices, 1)
	assert.Equal(t, "Invalid credentials.", v.Notices[0].Message)
}

func TestRouter_BadRequests(t *testing.T) {
	c := newTestServer(t)

	rec := c.do(http.MethodPost, "/api/v1/session/login", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPost, "/api/v1/session/login", map[string]string{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPost, "/api/v1/session/trips", map[string]string{"origin": "A", "destination": "B", "start_date": "03/01/2025"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "start_date")

	rec = c.do(http.MethodGet, "/api/v1/session/trips/abc/calendar.ics", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_Health(t *testing.T) {
	c := newTestServer(t)

	rec := c.do(http.MethodGet, "/api/v1/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"storage":"ok"`)

	rec = c.do(http.MethodGet, "/api/v1/llm-providers", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"default_provider":"ollama"`)
}
