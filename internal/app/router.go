package app

import (
	"log/slog"
	"time"

	"github.com/coder/quartz"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	"telemetry-stats-service/internal/config"
	ingestHttp "telemetry-stats-service/internal/ingest/adapters/http/fiber"
	ingestStore "telemetry-stats-service/internal/ingest/adapters/store"
	"telemetry-stats-service/internal/ingest/adapters/useragent"
	ingestUsecase "telemetry-stats-service/internal/ingest/core/usecase"
	"telemetry-stats-service/internal/platform/httpx"
	"telemetry-stats-service/internal/platform/observability"
	"telemetry-stats-service/internal/platform/sqlstore"
	reportsHttp "telemetry-stats-service/internal/reports/adapters/http/fiber"
	reportsStore "telemetry-stats-service/internal/reports/adapters/store"
	reportsUsecase "telemetry-stats-service/internal/reports/core/usecase"
)

const welcomeMessage = "Welcome to the telemetry stats service."

// Deps is everything the router needs. Clock and Logger may be nil.
type Deps struct {
	Config    *config.Config
	Store     *sqlstore.Store
	Metrics   *observability.Metrics
	Logger    *slog.Logger
	Clock     quartz.Clock
	Version   string
	StartedAt time.Time
}

// NewRouter wires adapters, usecases and handlers into a fiber app.
func NewRouter(d Deps) *fiber.App {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Adapter-level DB wrappers
	aggregator := ingestStore.NewAggregator(d.Store)
	reportRepository := reportsStore.NewReportRepository(reportsStore.NewSQLDB(d.Store))

	// Usecases
	recordStatsUC := ingestUsecase.NewRecordStatsUseCase(aggregator, useragent.NewParser(), d.Clock)
	getReportUC := reportsUsecase.NewGetReportUseCase(reportRepository)

	app := httpx.NewApp(httpx.Options{
		Logger:           logger,
		CORSAllowOrigins: d.Config.CORSAllowOrigins,
	})

	// unauthenticated
	health := newHealthHandler(d.Store, d.Version, d.StartedAt)
	app.Get("/health", health.Check)
	app.Get("/metrics", adaptor.HTTPHandler(d.Metrics.Handler()))
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	app.Get("/", httpx.RequireAPIKey(), welcome)

	// ingest endpoints
	ingestHandler := ingestHttp.NewIngestHandler(recordStatsUC, d.Metrics, logger)
	writeKey := httpx.RequireWriteKey(d.Config.WriteKeyPrefix)
	app.Post("/device", writeKey, ingestHandler.RecordDevice)
	app.Post("/event", writeKey, ingestHandler.RecordEvent)
	app.Post("/error", writeKey, ingestHandler.RecordError)

	// report endpoints
	reportHandler := reportsHttp.NewReportHandler(getReportUC, d.Metrics, logger)
	reports := app.Group("/report", httpx.RequireReportKey(d.Config.ReportAPIKey))
	reports.Get("/", reportHandler.NotFound)
	reports.Get("/:name", reportHandler.GetReport)
	reports.Get("/*", reportHandler.NotFound)

	app.Use(httpx.MethodNotAllowed)

	return app
}

// welcome godoc
// @Summary Service banner
// @Tags Service
// @Produce json
// @Security APIKey
// @Success 200 {object} ingestHttp.MessageResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Router / [get]
func welcome(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": welcomeMessage})
}
