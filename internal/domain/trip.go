package domain

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Pace is the travel rhythm requested for an itinerary
type Pace string

const (
	PaceRelaxed Pace = "Relaxed"
	PaceNormal  Pace = "Normal"
	PaceTight   Pace = "Tight"
)

// Interests offered by the trip form
var Interests = []string{"Food", "Museums", "Nature", "Nightlife"}

// DefaultInterest is used when a request carries no interests
const DefaultInterest = "Food"

// DateLayout is the calendar date format used for trip dates
const DateLayout = "2006-01-02"

var validate = validator.New()

// TripRequest represents the itinerary form submission
type TripRequest struct {
	Origin      string    `json:"origin" validate:"required,max=255"`
	Destination string    `json:"destination" validate:"required,max=255"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date" validate:"gtefield=StartDate"`
	Interests   []string  `json:"interests" validate:"max=16,dive,required,max=64"`
	Pace        Pace      `json:"pace" validate:"required,oneof=Relaxed Normal Tight"`
}

// Normalize fills defaults: missing dates fall back to today and the start
// date, interests are trimmed and de-duplicated in first-seen order.
func (r TripRequest) Normalize(today time.Time) TripRequest {
	r.Origin = strings.TrimSpace(r.Origin)
	r.Destination = strings.TrimSpace(r.Destination)
	if r.Pace == "" {
		r.Pace = PaceNormal
	}
	if r.StartDate.IsZero() {
		r.StartDate = today
	}
	if r.EndDate.IsZero() {
		r.EndDate = r.StartDate
	}
	r.StartDate = truncateDay(r.StartDate)
	r.EndDate = truncateDay(r.EndDate)

	interests := lo.Uniq(lo.FilterMap(r.Interests, func(s string, _ int) (string, bool) {
		s = strings.TrimSpace(s)
		return s, s != ""
	}))
	if len(interests) == 0 {
		interests = []string{DefaultInterest}
	}
	r.Interests = interests
	return r
}

// Validate checks the request against its field rules
func (r TripRequest) Validate() error {
	return validate.Struct(r)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TripRecord is a generated itinerary plus the request that produced it
type TripRecord struct {
	ID          uuid.UUID `json:"id"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Interests   []string  `json:"interests"`
	Pace        Pace      `json:"pace"`
	Itinerary   string    `json:"itinerary"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTripRecord builds a record from a normalized request and its itinerary
func NewTripRecord(req TripRequest, itinerary string, createdAt time.Time) TripRecord {
	return TripRecord{
		ID:          uuid.New(),
		Origin:      req.Origin,
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Interests:   append([]string(nil), req.Interests...),
		Pace:        req.Pace,
		Itinerary:   itinerary,
		CreatedAt:   createdAt,
	}
}

// TripRepository defines the interface for per-user trip storage
type TripRepository interface {
	Create(ctx context.Context, uid string, trip *TripRecord) error
	// ListByUser returns all trips, most recent first.
	ListByUser(ctx context.Context, uid string) ([]TripRecord, error)
}
