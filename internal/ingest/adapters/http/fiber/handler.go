package fiber

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"telemetry-stats-service/internal/ingest/core/usecase"
	"telemetry-stats-service/internal/platform/observability"
)

type RecordStatsUseCase interface {
	RecordDevices(ctx context.Context, p usecase.Payload, userAgent string) (usecase.Result, error)
	RecordEvents(ctx context.Context, p usecase.Payload) (usecase.Result, error)
	RecordErrors(ctx context.Context, p usecase.Payload) (usecase.Result, error)
}

const (
	kindDevice = "device"
	kindEvent  = "event"
	kindError  = "error"
)

type IngestHandler struct {
	uc      RecordStatsUseCase
	metrics *observability.Metrics
	logger  *slog.Logger
}

func NewIngestHandler(uc RecordStatsUseCase, metrics *observability.Metrics, logger *slog.Logger) *IngestHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestHandler{uc: uc, metrics: metrics, logger: logger}
}

// RecordDevice godoc
// @Summary Record device profile(s)
// @Description Counts one submission per device dimension combination. Missing dimensions are derived from the User-Agent header.
// @Tags Ingest
// @Accept json
// @Produce json
// @Security WriteKey
// @Param request body DeviceRequest true "Device payload"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /device [post]
func (h *IngestHandler) RecordDevice(c *fiber.Ctx) error {
	p, err := usecase.ParsePayload(c.Body(), usecase.FieldDevices)
	if err != nil {
		return h.fail(c, kindDevice, "Failed to update stats", err)
	}

	res, err := h.uc.RecordDevices(c.UserContext(), p, c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return h.fail(c, kindDevice, "Failed to update stats", err)
	}
	return h.ok(c, kindDevice, res)
}

// RecordEvent godoc
// @Summary Record event(s)
// @Description Adds each event's count to the counter of its (event_type, event_data) pair. A single event without event_type rejects the whole submission.
// @Tags Ingest
// @Accept json
// @Produce json
// @Security WriteKey
// @Param request body EventRequest true "Event payload"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /event [post]
func (h *IngestHandler) RecordEvent(c *fiber.Ctx) error {
	p, err := usecase.ParsePayload(c.Body(), usecase.FieldEvents)
	if err != nil {
		return h.fail(c, kindEvent, "Failed to update stats", err)
	}

	res, err := h.uc.RecordEvents(c.UserContext(), p)
	if err != nil {
		return h.fail(c, kindEvent, "Failed to update stats", err)
	}
	return h.ok(c, kindEvent, res)
}

// RecordError godoc
// @Summary Log application error(s)
// @Description Appends one row per error. Every field is optional.
// @Tags Ingest
// @Accept json
// @Produce json
// @Security WriteKey
// @Param request body ErrorRequest true "Error payload"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /error [post]
func (h *IngestHandler) RecordError(c *fiber.Ctx) error {
	p, err := usecase.ParsePayload(c.Body(), usecase.FieldErrors)
	if err != nil {
		return h.fail(c, kindError, "Failed to log error(s)", err)
	}

	res, err := h.uc.RecordErrors(c.UserContext(), p)
	if err != nil {
		return h.fail(c, kindError, "Failed to log error(s)", err)
	}
	return h.ok(c, kindError, res)
}

func (h *IngestHandler) ok(c *fiber.Ctx, kind string, res usecase.Result) error {
	h.metrics.RecordIngested(kind, res.Records)
	return c.Status(http.StatusOK).JSON(MessageResponse{Message: res.Message})
}

// fail maps usecase errors to responses. storeMsg is used for storage
// failures only.
func (h *IngestHandler) fail(c *fiber.Ctx, kind, storeMsg string, err error) error {
	switch {
	case errors.Is(err, usecase.ErrMissingEventType):
		h.metrics.RecordRejected(kind, "missing_event_type")
		h.logger.Debug("submission rejected", slog.String("kind", kind), slog.Any("error", err))
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "Missing event_type in one of the events",
			Details: err.Error(),
		})
	case errors.Is(err, usecase.ErrInvalidPayload),
		errors.Is(err, usecase.ErrInvalidInstallTimestamp):
		h.metrics.RecordRejected(kind, "invalid_request")
		h.logger.Debug("submission rejected", slog.String("kind", kind), slog.Any("error", err))
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "Invalid request",
			Details: err.Error(),
		})
	default:
		h.metrics.RecordRejected(kind, "storage")
		h.logger.Error("store write failed", slog.String("kind", kind), slog.Any("error", err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error:   storeMsg,
			Details: err.Error(),
		})
	}
}
