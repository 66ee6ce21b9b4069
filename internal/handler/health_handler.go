package handler

import (
	"net/http"
	"time"

	"havenrp-web/internal/container"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	container *container.Container
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(container *container.Container) *HealthHandler {
	return &HealthHandler{
		container: container,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Redis     string    `json:"redis"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	redisStatus := "disabled"
	if h.container.HasRedis() {
		redisStatus = "healthy"
		if err := h.container.RedisClient.Health(r.Context()); err != nil {
			// A dead cache degrades performance, not availability
			h.container.GetLogger().WithError(err).Warn("Redis health check failed")
			redisStatus = "unhealthy"
		}
	}

	respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   "havenrp-web",
		Redis:     redisStatus,
	})
}
