package api

import (
	"net/http"

	"github.com/Rrens/mika-travel/internal/api/handler"
	customMiddleware "github.com/Rrens/mika-travel/internal/api/middleware"
	"github.com/Rrens/mika-travel/internal/config"
	"github.com/Rrens/mika-travel/internal/llm"
	"github.com/Rrens/mika-travel/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Dependencies are the wired components the router exposes
type Dependencies struct {
	Sessions  *session.Service
	LLM       *llm.Router
	Limiter   customMiddleware.Limiter
	Readiness map[string]handler.Pinger
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", customMiddleware.SessionHeader},
		ExposedHeaders:   []string{"X-Request-ID", customMiddleware.SessionHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	sessionMiddleware := customMiddleware.NewSessionMiddleware(
		cfg.Session.CookieName,
		cfg.Session.CookieSecure,
		cfg.Session.TTL,
	)

	sessionHandler := handler.NewSessionHandler(deps.Sessions)
	wsHandler := handler.NewWebSocketHandler(deps.Sessions, cfg.Server.AllowedOrigins, deps.Limiter)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(deps.Readiness))
		r.Get("/llm-providers", handler.ListLLMProviders(deps.LLM))

		r.Route("/session", func(r chi.Router) {
			r.Use(sessionMiddleware.Identify)

			// Long-lived socket; no request timeout. Frames are rate limited
			// one by one inside the handler.
			r.Get("/ws", wsHandler.Serve)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))
				if deps.Limiter != nil {
					r.Use(customMiddleware.NewRateLimitMiddleware(deps.Limiter).Limit)
				}

				r.Get("/", sessionHandler.Snapshot)
				r.Post("/signup", sessionHandler.Signup)
				r.Post("/login", sessionHandler.Login)
				r.Post("/logout", sessionHandler.Logout)

				r.Route("/chat", func(r chi.Router) {
					r.Post("/open", sessionHandler.OpenChat)
					r.Post("/close", sessionHandler.CloseChat)
					r.Post("/messages", sessionHandler.SendMessage)
				})

				r.Route("/trips", func(r chi.Router) {
					r.Post("/", sessionHandler.GenerateItinerary)
					r.Get("/{tripID}/calendar.ics", sessionHandler.TripCalendar)
				})
			})
		})
	})

	return r
}
