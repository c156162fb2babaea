package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hivelabs/hivesync/internal/services"
)

// NewRouter wires the receiver's HTTP surface. The secret check sits in
// front of every sync route; /health and /metrics stay open.
func NewRouter(auth *services.AuthService, sync *SyncHandler, health *HealthHandler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/health", health.HandleHealth)
	router.Handle("/metrics", promhttp.Handler())

	router.Group(func(r chi.Router) {
		r.Use(RequireSecret(auth))
		r.Post("/sync", sync.HandleSync)
		r.Post("/sync/batch", sync.HandleBatch)
		r.Get("/sync/status", sync.HandleStatus)
	})

	return router
}
