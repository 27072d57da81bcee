package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Rrens/mika-travel/internal/api/middleware"
	"github.com/Rrens/mika-travel/internal/api/response"
	"github.com/Rrens/mika-travel/internal/calendar"
	"github.com/Rrens/mika-travel/internal/domain"
	"github.com/Rrens/mika-travel/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// SessionHandler exposes the session actions over HTTP. Every domain
// failure is reported as a notice inside a 200 snapshot.
type SessionHandler struct {
	sessions *session.Service
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *session.Service) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type chatRequest struct {
	Text string `json:"text" validate:"max=4000"`
}

type tripForm struct {
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Interests   []string `json:"interests"`
	Pace        string   `json:"pace"`
}

func (f tripForm) request() (domain.TripRequest, map[string]string) {
	req := domain.TripRequest{
		Origin:      f.Origin,
		Destination: f.Destination,
		Interests:   f.Interests,
		Pace:        domain.Pace(f.Pace),
	}

	errs := make(map[string]string)
	if f.StartDate != "" {
		t, err := time.Parse(domain.DateLayout, f.StartDate)
		if err != nil {
			errs["start_date"] = "must be a date formatted as YYYY-MM-DD"
		}
		req.StartDate = t
	}
	if f.EndDate != "" {
		t, err := time.Parse(domain.DateLayout, f.EndDate)
		if err != nil {
			errs["end_date"] = "must be a date formatted as YYYY-MM-DD"
		}
		req.EndDate = t
	}
	if len(errs) > 0 {
		return req, errs
	}
	return req, nil
}

// Snapshot returns the current session view
func (h *SessionHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	res, err := h.sessions.Snapshot(r.Context(), id)
	h.respond(w, r, res, err)
}

// Signup handles account creation
func (h *SessionHandler) Signup(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	creds, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	res, err := h.sessions.Signup(r.Context(), id, creds.Email, creds.Password)
	h.respond(w, r, res, err)
}

// Login handles user login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	creds, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	res, err := h.sessions.Login(r.Context(), id, creds.Email, creds.Password)
	h.respond(w, r, res, err)
}

// Logout resets the session
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	res, err := h.sessions.Logout(r.Context(), id)
	h.respond(w, r, res, err)
}

// OpenChat shows the chat dialog
func (h *SessionHandler) OpenChat(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	res, err := h.sessions.OpenChat(r.Context(), id)
	h.respond(w, r, res, err)
}

// CloseChat hides the chat dialog
func (h *SessionHandler) CloseChat(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	res, err := h.sessions.CloseChat(r.Context(), id)
	h.respond(w, r, res, err)
}

// SendMessage posts a chat message and waits for Mika's reply
func (h *SessionHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, validationErrors(err))
		return
	}

	res, err := h.sessions.SendChatMessage(r.Context(), id, req.Text)
	h.respond(w, r, res, err)
}

// GenerateItinerary handles the trip form
func (h *SessionHandler) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var form tripForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	req, errs := form.request()
	if errs != nil {
		response.BadRequest(w, errs)
		return
	}

	res, err := h.sessions.GenerateItinerary(r.Context(), id, req)
	h.respond(w, r, res, err)
}

// TripCalendar downloads a trip of the session as an iCalendar file
func (h *SessionHandler) TripCalendar(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	trip, err := h.sessions.Trip(r.Context(), id, chi.URLParam(r, "tripID"))
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		response.Unauthorized(w, "login required")
		return
	case errors.Is(err, domain.ErrTripNotFound):
		response.NotFound(w, "trip not found")
		return
	case err != nil:
		log.Ctx(r.Context()).Error().Err(err).Str("session_id", id).Msg("failed to load session")
		response.InternalError(w, "session unavailable")
		return
	}

	ics, err := calendar.TripCalendar(*trip)
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.Attachment(w, "text/calendar; charset=utf-8", calendar.FileName(*trip), []byte(ics))
}

func (h *SessionHandler) respond(w http.ResponseWriter, r *http.Request, res session.Result, err error) {
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("session action failed")
		response.InternalError(w, "session unavailable")
		return
	}
	response.OK(w, session.Project(res.State, res.Notices))
}

func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.GetSessionID(r.Context())
	if !ok {
		response.BadRequest(w, "missing session")
	}
	return id, ok
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (domain.Credentials, bool) {
	var creds domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		response.BadRequest(w, "invalid request body")
		return creds, false
	}
	creds.Email = strings.TrimSpace(creds.Email)
	if err := validate.Struct(creds); err != nil {
		response.BadRequest(w, validationErrors(err))
		return creds, false
	}
	return creds, true
}

func validationErrors(err error) any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	errs := make(map[string]string)
	for _, e := range verrs {
		field := e.Field()
		tag := e.Tag()
		switch tag {
		case "required":
			errs[field] = "field is required"
		case "email":
			errs[field] = "invalid email format"
		case "max":
			errs[field] = "must be at most " + e.Param() + " characters"
		default:
			errs[field] = "validation failed on " + tag
		}
	}
	return errs
}
