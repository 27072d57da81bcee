package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rrens/mika-travel/internal/domain"
	"github.com/Rrens/mika-travel/internal/security"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password CreateAccount accepts
const MinPasswordLength = 6

// LocalGateway authenticates against accounts kept in our own user store
type LocalGateway struct {
	users      domain.UserRepository
	jwtManager *security.JWTManager
	validate   *validator.Validate
	cost       int
	now        func() time.Time
}

// NewLocalGateway creates a gateway backed by users
func NewLocalGateway(users domain.UserRepository, jwtManager *security.JWTManager) *LocalGateway {
	return &LocalGateway{
		users:      users,
		jwtManager: jwtManager,
		validate:   validator.New(),
		cost:       bcrypt.DefaultCost,
		now:        time.Now,
	}
}

// WithCost returns a copy hashing with the given bcrypt cost
func (g *LocalGateway) WithCost(cost int) *LocalGateway {
	c := *g
	c.cost = cost
	return &c
}

// CreateAccount registers a new account
func (g *LocalGateway) CreateAccount(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if err := g.validate.Var(email, "required,email,max=255"); err != nil {
		return domain.ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return domain.ErrWeakPassword
	}

	// Check if email already exists
	exists, err := g.users.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return domain.ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), g.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return domain.ErrWeakPassword
		}
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := g.now().UTC()
	account := &domain.Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashed),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := g.users.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// Authenticate verifies the credentials and issues a session token
func (g *LocalGateway) Authenticate(ctx context.Context, email, password string) (*domain.Identity, error) {
	account, err := g.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if account == nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	uid := account.ID.String()
	token, err := g.jwtManager.GenerateSessionToken(uid, account.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	return &domain.Identity{UID: uid, SessionToken: token}, nil
}
