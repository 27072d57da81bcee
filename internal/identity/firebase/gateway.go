// Package firebase authenticates against the Firebase Identity Toolkit REST API.
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Rrens/mika-travel/internal/domain"
)

// DefaultBaseURL is the public Identity Toolkit endpoint
const DefaultBaseURL = "https://identitytoolkit.googleapis.com/v1"

// Gateway implements domain.IdentityGateway over the Identity Toolkit
type Gateway struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewGateway creates a new Firebase gateway
func NewGateway(apiKey, baseURL string) *Gateway {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Gateway{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type passwordRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type authResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Authenticate signs in with email and password
func (g *Gateway) Authenticate(ctx context.Context, email, password string) (*domain.Identity, error) {
	var resp authResponse
	if err := g.post(ctx, "accounts:signInWithPassword", passwordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}, &resp); err != nil {
		return nil, err
	}
	if resp.LocalID == "" {
		return nil, fmt.Errorf("sign in returned no user id")
	}
	return &domain.Identity{UID: resp.LocalID, SessionToken: resp.IDToken}, nil
}

// CreateAccount registers a new email/password user
func (g *Gateway) CreateAccount(ctx context.Context, email, password string) error {
	return g.post(ctx, "accounts:signUp", passwordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}, nil)
}

func (g *Gateway) post(ctx context.Context, method string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s?key=%s", g.baseURL, method, url.QueryEscape(g.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error.Message != "" {
			return mapError(errResp.Error.Message)
		}
		return fmt.Errorf("identity toolkit error (status %d): %s", resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// mapError translates Identity Toolkit error codes. Messages look like
// "WEAK_PASSWORD : Password should be at least 6 characters".
func mapError(message string) error {
	code, _, _ := strings.Cut(message, " ")
	switch code {
	case "EMAIL_EXISTS":
		return domain.ErrEmailTaken
	case "WEAK_PASSWORD":
		return domain.ErrWeakPassword
	case "INVALID_EMAIL", "MISSING_EMAIL":
		return domain.ErrInvalidEmail
	case "INVALID_PASSWORD", "EMAIL_NOT_FOUND", "INVALID_LOGIN_CREDENTIALS", "MISSING_PASSWORD", "USER_DISABLED":
		return domain.ErrInvalidCredentials
	default:
		return fmt.Errorf("identity toolkit: %s", message)
	}
}
