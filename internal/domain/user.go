package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is the authenticated identity held by a session.
type User struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	SessionToken string `json:"session_token"`
}

// Account represents a stored local account
type Account struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Credentials represents email/password form data
type Credentials struct {
	Email    string `json:"email" validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

// Identity is what the identity gateway returns on successful authentication.
type Identity struct {
	UID          string
	SessionToken string
}

// IdentityGateway verifies credentials and creates accounts.
type IdentityGateway interface {
	Authenticate(ctx context.Context, email, password string) (*Identity, error)
	CreateAccount(ctx context.Context, email, password string) error
}

// UserRepository defines the interface for local account storage
type UserRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByEmail(ctx context.Context, email string) (*Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}
