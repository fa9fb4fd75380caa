package httpx

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Options struct {
	Logger           *slog.Logger
	CORSAllowOrigins string
}

// ErrorResponse is the JSON envelope for every failed request.
type ErrorResponse struct {
	Error   string `json:"error" example:"Failed to fetch data"`
	Details string `json:"details,omitempty" example:"database is locked"`
}

// NewApp builds the fiber app with the shared middleware chain. Routes are
// registered by the caller.
func NewApp(opts Options) *fiber.App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := opts.CORSAllowOrigins
	if origins == "" {
		origins = "*"
	}

	app := fiber.New(fiber.Config{
		AppName:               "telemetry-stats-service",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(RequestLogger(logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET, POST, OPTIONS",
		AllowHeaders: "X-API-Key, Content-Type, User-Agent",
	}))

	return app
}

func errorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "Internal Server Error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
		} else {
			logger.Error("unhandled request error",
				slog.String("method", c.Method()),
				slog.String("path", c.Path()),
				slog.Any("error", err),
			)
		}
		return c.Status(code).JSON(ErrorResponse{Error: msg})
	}
}

// RequestLogger logs one line per request once the handler chain returns.
func RequestLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		level := slog.LevelInfo
		if status >= fiber.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.UserContext(), level, "request",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
		)
		return err
	}
}

// MethodNotAllowed terminates every request no route matched.
func MethodNotAllowed(c *fiber.Ctx) error {
	return c.Status(fiber.StatusMethodNotAllowed).JSON(ErrorResponse{
		Error: "Method Not Allowed or Invalid Endpoint",
	})
}
