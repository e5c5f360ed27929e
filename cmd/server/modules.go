package main

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/JaimeStill/steward/internal/api"
	"github.com/JaimeStill/steward/internal/config"
	"github.com/JaimeStill/steward/internal/infrastructure"
	"github.com/JaimeStill/steward/pkg/metrics"
	"github.com/JaimeStill/steward/pkg/module"
)

// Modules holds the mounted application modules.
type Modules struct {
	API *module.Module
}

// NewModules builds every module. Event subscribers are registered here,
// so it must run before the infrastructure starts.
func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{API: apiModule}, nil
}

// Mount registers every module on router.
func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if pending := infra.Lifecycle.Pending(); len(pending) > 0 {
			writeStatus(w, http.StatusServiceUnavailable, map[string]any{
				"status":  "not ready",
				"pending": pending,
			})
			return
		}
		writeStatus(w, http.StatusOK, map[string]any{"status": "ready"})
	})

	router.HandleNative("GET /metrics", metrics.Handler().ServeHTTP)

	return router
}

func writeStatus(w http.ResponseWriter, code int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
