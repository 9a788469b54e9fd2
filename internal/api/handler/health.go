package handler

import (
	"context"
	"net/http"

	"github.com/Rrens/smartchat/internal/api/response"
	"github.com/Rrens/smartchat/internal/llm"
)

// Liveness answers GET / with a plain-text banner
func Liveness(message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.Text(w, http.StatusOK, message)
	}
}

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// Pinger is a dependency whose reachability gates readiness
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadyCheck returns readiness status including optional dependencies.
// A nil pinger means there is nothing to wait for.
func ReadyCheck(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p != nil {
			if err := p.Ping(r.Context()); err != nil {
				response.ServiceUnavailable(w, "redis not ready")
				return
			}
		}

		response.OK(w, map[string]string{
			"status": "ready",
		})
	}
}

// ListLLMProviders returns the registered LLM providers
func ListLLMProviders(router *llm.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]any{
			"providers":        router.GetProvidersInfo(),
			"default_provider": router.DefaultProvider(),
		})
	}
}
