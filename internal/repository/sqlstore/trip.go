package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Rrens/mika-travel/internal/domain"
	"github.com/google/uuid"
	"github.com/pocketbase/dbx"
)

type tripRow struct {
	ID          string `db:"id"`
	Origin      string `db:"origin"`
	Destination string `db:"destination"`
	StartDate   string `db:"start_date"`
	EndDate     string `db:"end_date"`
	Interests   string `db:"interests"`
	Pace        string `db:"pace"`
	Itinerary   string `db:"itinerary"`
	CreatedAt   int64  `db:"created_at"`
}

// TripRepository implements domain.TripRepository
type TripRepository struct {
	db *DB
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db *DB) *TripRepository {
	return &TripRepository{db: db}
}

// Create inserts a trip record for a user
func (r *TripRepository) Create(ctx context.Context, uid string, trip *domain.TripRecord) error {
	interests, err := json.Marshal(trip.Interests)
	if err != nil {
		return fmt.Errorf("failed to marshal interests: %w", err)
	}

	_, err = r.db.dbx.Insert("trips", dbx.Params{
		"id":          trip.ID.String(),
		"user_id":     uid,
		"origin":      trip.Origin,
		"destination": trip.Destination,
		"start_date":  trip.StartDate.Format(domain.DateLayout),
		"end_date":    trip.EndDate.Format(domain.DateLayout),
		"interests":   string(interests),
		"pace":        string(trip.Pace),
		"itinerary":   trip.Itinerary,
		"created_at":  trip.CreatedAt.UnixMilli(),
	}).WithContext(ctx).Execute()
	if err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}
	return nil
}

// ListByUser retrieves all trips of a user, most recent first
func (r *TripRepository) ListByUser(ctx context.Context, uid string) ([]domain.TripRecord, error) {
	var rows []tripRow
	err := r.db.dbx.Select("id", "origin", "destination", "start_date", "end_date", "interests", "pace", "itinerary", "created_at").
		From("trips").
		Where(dbx.HashExp{"user_id": uid}).
		OrderBy("created_at DESC").
		WithContext(ctx).
		All(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	trips := make([]domain.TripRecord, 0, len(rows))
	for _, row := range rows {
		t, err := row.record()
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, nil
}

func (row tripRow) record() (domain.TripRecord, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return domain.TripRecord{}, fmt.Errorf("invalid trip id %q: %w", row.ID, err)
	}
	start, err := time.Parse(domain.DateLayout, row.StartDate)
	if err != nil {
		return domain.TripRecord{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse(domain.DateLayout, row.EndDate)
	if err != nil {
		return domain.TripRecord{}, fmt.Errorf("invalid end date: %w", err)
	}
	var interests []string
	if err := json.Unmarshal([]byte(row.Interests), &interests); err != nil {
		return domain.TripRecord{}, fmt.Errorf("invalid interests: %w", err)
	}

	return domain.TripRecord{
		ID:          id,
		Origin:      row.Origin,
		Destination: row.Destination,
		StartDate:   start,
		EndDate:     end,
		Interests:   interests,
		Pace:        domain.Pace(row.Pace),
		Itinerary:   row.Itinerary,
		CreatedAt:   time.UnixMilli(row.CreatedAt).UTC(),
	}, nil
}
