// Package calendar exports generated trips as iCalendar documents.
package calendar

import (
	"fmt"
	"strings"

	"github.com/Rrens/mika-travel/internal/domain"
	ics "github.com/arran4/golang-ical"
)

const productID = "-//Mika Travel//Itinerary//EN"

// TripCalendar renders trip as a VCALENDAR holding one all-day event
// from the start date through the end date.
func TripCalendar(trip domain.TripRecord) (string, error) {
	if trip.EndDate.Before(trip.StartDate) {
		return "", fmt.Errorf("trip %s ends before it starts", trip.ID)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	event := cal.AddEvent(trip.ID.String() + "@mika-travel")
	event.SetCreatedTime(trip.CreatedAt)
	event.SetDtStampTime(trip.CreatedAt)
	event.SetAllDayStartAt(trip.StartDate)
	// DTEND is exclusive for all-day events
	event.SetAllDayEndAt(trip.EndDate.AddDate(0, 0, 1))
	event.SetSummary(fmt.Sprintf("%s → %s", trip.Origin, trip.Destination))
	event.SetLocation(trip.Destination)
	event.SetDescription(trip.Itinerary)
	if len(trip.Interests) > 0 {
		event.SetProperty(ics.ComponentPropertyCategories, strings.Join(trip.Interests, ","))
	}

	return cal.Serialize(), nil
}

// FileName returns a download name for trip's calendar
func FileName(trip domain.TripRecord) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, trip.Destination)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "trip"
	}
	return fmt.Sprintf("%s-%s.ics", slug, trip.StartDate.Format("20060102"))
}
