package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Rrens/mika-travel/internal/api/response"
	"github.com/Rrens/mika-travel/internal/llm"
)

// Pinger is a dependency that can report its connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck returns readiness status including storage connectivity
func ReadyCheck(deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := make(map[string]string, len(deps))
		ready := true
		for name, dep := range deps {
			if err := dep.Ping(ctx); err != nil {
				status[name] = err.Error()
				ready = false
				continue
			}
			status[name] = "ok"
		}

		if !ready {
			response.ServiceUnavailable(w, status)
			return
		}

		response.OK(w, map[string]any{
			"status": "ready",
			"checks": status,
		})
	}
}

// ListLLMProviders returns available LLM providers
func ListLLMProviders(router *llm.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]any{
			"providers":        router.GetProvidersInfo(),
			"default_provider": router.DefaultProvider(),
		})
	}
}
