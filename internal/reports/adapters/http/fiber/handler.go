package fiber

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"telemetry-stats-service/internal/platform/observability"
	"telemetry-stats-service/internal/reports/core/domain"
	"telemetry-stats-service/internal/reports/core/usecase"
)

type GetReportUseCase interface {
	Grouped(ctx context.Context, name string) ([]domain.GroupCount, error)
	Combined(ctx context.Context) (*domain.CombinedReport, error)
	EventDetail(ctx context.Context, in usecase.EventDetailInput) ([]domain.DetailCount, error)
	ListDevices(ctx context.Context, params []usecase.QueryParam) ([]domain.DeviceRow, error)
	ListEvents(ctx context.Context, params []usecase.QueryParam) ([]domain.EventRow, error)
	ListErrors(ctx context.Context, params []usecase.QueryParam) ([]domain.ErrorRow, error)
}

type ReportHandler struct {
	uc      GetReportUseCase
	metrics *observability.Metrics
	logger  *slog.Logger
}

func NewReportHandler(uc GetReportUseCase, metrics *observability.Metrics, logger *slog.Logger) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{uc: uc, metrics: metrics, logger: logger}
}

// GetReport godoc
// @Summary Fetch a report
// @Description Grouped reports (os_name, os_version, os_combined, device_type, device_model, device_brand, network_type, device_language, push_notification_enabled, install_date, event_type, error_code, error_cause, error_message, app_version) return [{"<name>": value, "count": n}].
// @Description "combined" returns every device grouping in one object. "event_detail" groups events of ?type= by the JSON value under ?key=.
// @Description "devices", "events" and "errors" list stored rows; query parameters naming an allowed column filter by equality, all others are ignored.
// @Tags Reports
// @Produce json
// @Security ReportKey
// @Param name path string true "Report name"
// @Param type query string false "Event type (event_detail)"
// @Param key query string false "event_data key (event_detail)"
// @Success 200 {array} GroupCountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /report/{name} [get]
func (h *ReportHandler) GetReport(c *fiber.Ctx) error {
	name := c.Params("name")
	ctx := c.UserContext()

	var (
		result any
		err    error
	)
	switch name {
	case usecase.ReportCombined:
		result, err = h.uc.Combined(ctx)
	case usecase.ReportEventDetail:
		result, err = h.uc.EventDetail(ctx, usecase.EventDetailInput{
			Type: c.Query("type"),
			Key:  c.Query("key"),
		})
	case usecase.ReportDevices:
		result, err = h.uc.ListDevices(ctx, queryParams(c))
	case usecase.ReportEvents:
		result, err = h.uc.ListEvents(ctx, queryParams(c))
	case usecase.ReportErrors:
		result, err = h.uc.ListErrors(ctx, queryParams(c))
	default:
		result, err = h.uc.Grouped(ctx, name)
	}

	if err != nil {
		return h.fail(c, name, err)
	}
	h.metrics.RecordReportQuery(name, "ok")
	return c.Status(http.StatusOK).JSON(result)
}

// NotFound answers /report and /report/<a>/<b>.
func (h *ReportHandler) NotFound(c *fiber.Ctx) error {
	return c.Status(http.StatusNotFound).JSON(ErrorResponse{Error: "Invalid report endpoint"})
}

func (h *ReportHandler) fail(c *fiber.Ctx, name string, err error) error {
	switch {
	case errors.Is(err, usecase.ErrUnknownReport):
		// unknown names are not used as a label
		h.metrics.RecordReportQuery("unknown", "not_found")
		return h.NotFound(c)
	case errors.Is(err, usecase.ErrMissingDetailParams):
		h.metrics.RecordReportQuery(name, "invalid")
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Error: "Missing type or key parameter"})
	default:
		h.metrics.RecordReportQuery(name, "error")
		h.logger.Error("report query failed", slog.String("report", name), slog.Any("error", err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "Failed to fetch data",
			Details: err.Error(),
		})
	}
}

// queryParams returns the raw query parameters in request order, repeated
// keys included.
func queryParams(c *fiber.Ctx) []usecase.QueryParam {
	var params []usecase.QueryParam
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		params = append(params, usecase.QueryParam{Key: string(key), Value: string(value)})
	})
	return params
}
