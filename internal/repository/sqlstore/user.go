package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rrens/mika-travel/internal/domain"
	"github.com/google/uuid"
	"github.com/pocketbase/dbx"
)

type userRow struct {
	ID           string `db:"id"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	CreatedAt    int64  `db:"created_at"`
	UpdatedAt    int64  `db:"updated_at"`
}

// UserRepository implements domain.UserRepository
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new account
func (r *UserRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.db.dbx.Insert("users", dbx.Params{
		"id":            account.ID.String(),
		"email":         account.Email,
		"password_hash": account.PasswordHash,
		"created_at":    account.CreatedAt.UnixMilli(),
		"updated_at":    account.UpdatedAt.UnixMilli(),
	}).WithContext(ctx).Execute()
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves an account by email, or nil when none exists
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var row userRow
	err := r.db.dbx.Select("id", "email", "password_hash", "created_at", "updated_at").
		From("users").
		Where(dbx.NewExp("LOWER(email) = {:email}", dbx.Params{"email": strings.ToLower(email)})).
		WithContext(ctx).
		One(&row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", row.ID, err)
	}

	return &domain.Account{
		ID:           id,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		CreatedAt:    time.UnixMilli(row.CreatedAt).UTC(),
		UpdatedAt:    time.UnixMilli(row.UpdatedAt).UTC(),
	}, nil
}

// EmailExists checks if an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int
	err := r.db.dbx.Select("COUNT(*)").
		From("users").
		Where(dbx.NewExp("LOWER(email) = {:email}", dbx.Params{"email": strings.ToLower(email)})).
		WithContext(ctx).
		Row(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}
