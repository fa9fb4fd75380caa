package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

const healthPingTimeout = 2 * time.Second

type HealthResponse struct {
	Status        string `json:"status" example:"ok"`
	Version       string `json:"version" example:"v1.0.0"`
	UptimeSeconds int64  `json:"uptime_seconds" example:"3600"`
	Error         string `json:"error,omitempty"`
}

type healthHandler struct {
	store     Pinger
	version   string
	startedAt time.Time
}

func newHealthHandler(store Pinger, version string, startedAt time.Time) *healthHandler {
	if startedAt.IsZero() {
		startedAt = time.Now()
	}
	return &healthHandler{store: store, version: version, startedAt: startedAt}
}

// Check godoc
// @Summary Liveness and store connectivity
// @Tags Service
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *healthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthPingTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:        "ok",
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
	}
	if err := h.store.Ping(ctx); err != nil {
		resp.Status = "unavailable"
		resp.Error = err.Error()
		return c.Status(http.StatusServiceUnavailable).JSON(resp)
	}
	return c.Status(http.StatusOK).JSON(resp)
}
