// Package router wires the HTTP surface: CRUD routes mounted at the root and
// again under the configured API prefix, the health probe, metrics, and
// optional static hosting for the frontend bundle.
package router

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/carebook/carebook/internal/appointments"
	httpmiddleware "github.com/carebook/carebook/internal/http/middleware"
	"github.com/carebook/carebook/internal/providers"
	"github.com/carebook/carebook/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	AppointmentsHandler *appointments.Handler
	ProvidersHandler    *providers.Handler
	MetricsMiddleware   func(http.Handler) http.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string
	APIPrefix           string
	StaticDir           string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.MetricsMiddleware != nil {
		r.Use(cfg.MetricsMiddleware)
	}

	resources := func(api chi.Router) {
		api.Get("/health", healthCheck)
		api.Route("/appointments", cfg.AppointmentsHandler.Routes)
		api.Route("/providers", cfg.ProvidersHandler.Routes)
	}

	resources(r)
	if cfg.APIPrefix != "" {
		r.Route(cfg.APIPrefix, resources)
	}

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.StaticDir != "" {
		serveSPA(r, cfg.StaticDir, cfg.APIPrefix)
	}

	return r
}

// healthCheck is the liveness probe.
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"message":   "API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
