package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/mika-travel/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type tripDoc struct {
	ID          string    `bson:"_id"`
	UID         string    `bson:"uid"`
	Origin      string    `bson:"origin"`
	Destination string    `bson:"destination"`
	StartDate   string    `bson:"start_date"`
	EndDate     string    `bson:"end_date"`
	Interests   []string  `bson:"interests"`
	Pace        string    `bson:"pace"`
	Itinerary   string    `bson:"itinerary"`
	CreatedAt   time.Time `bson:"created_at"`
}

func toTripDoc(uid string, t *domain.TripRecord) tripDoc {
	return tripDoc{
		ID:          t.ID.String(),
		UID:         uid,
		Origin:      t.Origin,
		Destination: t.Destination,
		StartDate:   t.StartDate.Format(domain.DateLayout),
		EndDate:     t.EndDate.Format(domain.DateLayout),
		Interests:   t.Interests,
		Pace:        string(t.Pace),
		Itinerary:   t.Itinerary,
		CreatedAt:   t.CreatedAt,
	}
}

func (d tripDoc) record() (domain.TripRecord, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.TripRecord{}, fmt.Errorf("invalid trip id %q: %w", d.ID, err)
	}
	start, err := time.Parse(domain.DateLayout, d.StartDate)
	if err != nil {
		return domain.TripRecord{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse(domain.DateLayout, d.EndDate)
	if err != nil {
		return domain.TripRecord{}, fmt.Errorf("invalid end date: %w", err)
	}
	interests := d.Interests
	if interests == nil {
		interests = []string{}
	}
	return domain.TripRecord{
		ID:          id,
		Origin:      d.Origin,
		Destination: d.Destination,
		StartDate:   start,
		EndDate:     end,
		Interests:   interests,
		Pace:        domain.Pace(d.Pace),
		Itinerary:   d.Itinerary,
		CreatedAt:   d.CreatedAt.UTC(),
	}, nil
}

// TripRepository implements domain.TripRepository
type TripRepository struct {
	coll *mongo.Collection
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db *DB) *TripRepository {
	return &TripRepository{coll: db.db.Collection(tripsCollection)}
}

// Create inserts a trip record for a user
func (r *TripRepository) Create(ctx context.Context, uid string, trip *domain.TripRecord) error {
	if _, err := r.coll.InsertOne(ctx, toTripDoc(uid, trip)); err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}
	return nil
}

// ListByUser retrieves all trips of a user, most recent first
func (r *TripRepository) ListByUser(ctx context.Context, uid string) ([]domain.TripRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.coll.Find(ctx, bson.M{"uid": uid}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	var docs []tripDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode trips: %w", err)
	}

	trips := make([]domain.TripRecord, 0, len(docs))
	for _, d := range docs {
		t, err := d.record()
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, nil
}
