package security_test

import (
	"testing"
	"time"

	"github.com/Rrens/mika-travel/internal/security"
)

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", time.Hour)

	token, err := manager.GenerateSessionToken("uid-42", "test@example.com")
	if err != nil {
		t.Fatalf("failed to generate session token: %v", err)
	}

	if token == "" {
		t.Error("session token is empty")
	}

	claims, err := manager.ValidateSessionToken(token)
	if err != nil {
		t.Fatalf("failed to validate session token: %v", err)
	}

	if claims.Subject != "uid-42" {
		t.Errorf("subject mismatch: got %v, want uid-42", claims.Subject)
	}

	if claims.Email != "test@example.com" {
		t.Errorf("email mismatch: got %v", claims.Email)
	}

	if manager.TokenTTL() != time.Hour {
		t.Errorf("ttl mismatch: got %v", manager.TokenTTL())
	}
}

func TestJWTManager_InvalidToken(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", time.Hour)

	if _, err := manager.ValidateSessionToken("invalid-token"); err == nil {
		t.Error("expected error for invalid token")
	}
}

func TestJWTManager_WrongSecret(t *testing.T) {
	manager1 := security.NewJWTManager("secret-1-with-enough-length!!!!", time.Hour)
	manager2 := security.NewJWTManager("secret-2-with-enough-length!!!!", time.Hour)

	token, err := manager1.GenerateSessionToken("uid-1", "test@example.com")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := manager2.ValidateSessionToken(token); err == nil {
		t.Error("expected error for token signed with different secret")
	}
}

func TestJWTManager_Expired(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", -time.Minute)

	token, err := manager.GenerateSessionToken("uid-1", "test@example.com")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := manager.ValidateSessionToken(token); err == nil {
		t.Error("expected error for expired token")
	}
}
