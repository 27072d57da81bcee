package postgres

import (
	"context"
	"fmt"

	"github.com/Rrens/mika-travel/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TripRepository implements domain.TripRepository
type TripRepository struct {
	pool *pgxpool.Pool
}

// NewTripRepository creates a new trip repository
func NewTripRepository(pool *pgxpool.Pool) *TripRepository {
	return &TripRepository{pool: pool}
}

// Create inserts a trip record for a user
func (r *TripRepository) Create(ctx context.Context, uid string, trip *domain.TripRecord) error {
	query := `
		INSERT INTO trips (id, user_id, origin, destination, start_date, end_date, interests, pace, itinerary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		trip.ID,
		uid,
		trip.Origin,
		trip.Destination,
		trip.StartDate,
		trip.EndDate,
		trip.Interests,
		string(trip.Pace),
		trip.Itinerary,
		trip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}

	return nil
}

// ListByUser retrieves all trips of a user, most recent first
func (r *TripRepository) ListByUser(ctx context.Context, uid string) ([]domain.TripRecord, error) {
	query := `
		SELECT id, origin, destination, start_date, end_date, interests, pace, itinerary, created_at
		FROM trips
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	trips := []domain.TripRecord{}
	for rows.Next() {
		var (
			t    domain.TripRecord
			pace string
		)
		if err := rows.Scan(
			&t.ID,
			&t.Origin,
			&t.Destination,
			&t.StartDate,
			&t.EndDate,
			&t.Interests,
			&pace,
			&t.Itinerary,
			&t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		t.Pace = domain.Pace(pace)
		t.StartDate = t.StartDate.UTC()
		t.EndDate = t.EndDate.UTC()
		t.CreatedAt = t.CreatedAt.UTC()
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}

	return trips, nil
}
