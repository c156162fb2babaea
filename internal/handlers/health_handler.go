package handlers

import (
	"context"
	"net/http"
)

// HealthHandler reports connectivity to the target stores. The ping
// functions are injected so the handler can be exercised without live
// connections.
type HealthHandler struct {
	pingPostgres func(ctx context.Context) error
	pingRedis    func(ctx context.Context) error
}

func NewHealthHandler(pingPostgres, pingRedis func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{
		pingPostgres: pingPostgres,
		pingRedis:    pingRedis,
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Postgres string `json:"postgres"`
	Redis    string `json:"redis"`
}

func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:   "ok",
		Postgres: "connected",
		Redis:    "connected",
	}
	status := http.StatusOK

	if err := h.pingPostgres(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Postgres = "disconnected"
		status = http.StatusServiceUnavailable
	}
	if err := h.pingRedis(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Redis = "disconnected"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}
