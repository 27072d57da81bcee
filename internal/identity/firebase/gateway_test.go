package firebase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Rrens/mika-travel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler func(w http.ResponseWriter, method string, body passwordRequest)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var body passwordRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			return
		}
		assert.True(t, body.ReturnSecureToken)

		handler(w, r.URL.Path, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": 400, "message": message},
	})
}

func TestGateway_Authenticate(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, path string, body passwordRequest) {
		assert.Equal(t, "/accounts:signInWithPassword", path)
		if body.Password != "secret1" {
			writeError(w, "INVALID_LOGIN_CREDENTIALS")
			return
		}
		json.NewEncoder(w).Encode(authResponse{LocalID: "uid-1", Email: body.Email, IDToken: "id-token"})
	})
	gw := NewGateway("test-key", srv.URL+"/")

	ident, err := gw.Authenticate(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", ident.UID)
	assert.Equal(t, "id-token", ident.SessionToken)

	_, err = gw.Authenticate(context.Background(), "a@b.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestGateway_CreateAccount(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, path string, body passwordRequest) {
		assert.Equal(t, "/accounts:signUp", path)
		switch body.Email {
		case "taken@b.com":
			writeError(w, "EMAIL_EXISTS")
		case "weak@b.com":
			writeError(w, "WEAK_PASSWORD : Password should be at least 6 characters")
		default:
			json.NewEncoder(w).Encode(authResponse{LocalID: "uid-2", Email: body.Email})
		}
	})
	gw := NewGateway("test-key", srv.URL)
	ctx := context.Background()

	assert.NoError(t, gw.CreateAccount(ctx, "new@b.com", "secret1"))
	assert.ErrorIs(t, gw.CreateAccount(ctx, "taken@b.com", "secret1"), domain.ErrEmailTaken)
	assert.ErrorIs(t, gw.CreateAccount(ctx, "weak@b.com", "123"), domain.ErrWeakPassword)
}

func TestMapError(t *testing.T) {
	tests := map[string]error{
		"EMAIL_EXISTS":     domain.ErrEmailTaken,
		"INVALID_EMAIL":    domain.ErrInvalidEmail,
		"EMAIL_NOT_FOUND":  domain.ErrInvalidCredentials,
		"INVALID_PASSWORD": domain.ErrInvalidCredentials,
		"USER_DISABLED":    domain.ErrInvalidCredentials,
	}
	for code, want := range tests {
		assert.ErrorIs(t, mapError(code), want, code)
	}

	err := mapError("TOO_MANY_ATTEMPTS_TRY_LATER : Access blocked")
	assert.EqualError(t, err, "identity toolkit: TOO_MANY_ATTEMPTS_TRY_LATER : Access blocked")
}
