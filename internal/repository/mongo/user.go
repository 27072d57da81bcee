package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rrens/mika-travel/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type userDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	EmailLower   string    `bson:"email_lower"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

// UserRepository implements domain.UserRepository
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{coll: db.db.Collection(usersCollection)}
}

// Create inserts a new account
func (r *UserRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.coll.InsertOne(ctx, userDoc{
		ID:           account.ID.String(),
		Email:        account.Email,
		EmailLower:   strings.ToLower(account.Email),
		PasswordHash: account.PasswordHash,
		CreatedAt:    account.CreatedAt,
		UpdatedAt:    account.UpdatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves an account by email, or nil when none exists
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var doc userDoc
	err := r.coll.FindOne(ctx, bson.M{"email_lower": strings.ToLower(email)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", doc.ID, err)
	}

	return &domain.Account{
		ID:           id,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt.UTC(),
		UpdatedAt:    doc.UpdatedAt.UTC(),
	}, nil
}

// EmailExists checks if an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"email_lower": strings.ToLower(email)})
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return n > 0, nil
}
