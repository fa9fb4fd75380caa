package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/xerrors"

	"telemetry-stats-service/internal/config"
	"telemetry-stats-service/internal/platform/observability"
	"telemetry-stats-service/internal/platform/sqlstore"
)

// Runtime owns the store and the HTTP server for one process lifetime.
type Runtime struct {
	cfg       *config.Config
	logger    *slog.Logger
	version   string
	startedAt time.Time

	store *sqlstore.Store
	app   *fiber.App
}

func New(cfg *config.Config, logger *slog.Logger, version string) *Runtime {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runtime{
		cfg:       cfg,
		logger:    logger,
		version:   version,
		startedAt: time.Now(),
	}
}

// Run serves until ctx is cancelled or the listener fails, then shuts down.
func (r *Runtime) Run(ctx context.Context) error {
	store, err := sqlstore.Open(ctx, sqlstore.Options{
		Driver:          r.cfg.DBDriver,
		DSN:             r.cfg.DBDSN,
		MaxOpenConns:    r.cfg.DBMaxOpenConns,
		MaxIdleConns:    r.cfg.DBMaxIdleConns,
		ConnMaxLifetime: r.cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return xerrors.Errorf("open store: %w", err)
	}
	r.store = store
	r.logger.Info("store opened", slog.String("driver", store.Driver()))

	metrics := observability.New()
	store.OnBatch(metrics.ObserveBatch)

	r.app = NewRouter(Deps{
		Config:    r.cfg,
		Store:     store,
		Metrics:   metrics,
		Logger:    r.logger,
		Version:   r.version,
		StartedAt: r.startedAt,
	})

	serverErr := make(chan error, 1)
	go func() {
		r.logger.Info("listening", slog.String("addr", r.cfg.Addr()), slog.String("version", r.version))
		serverErr <- r.app.Listen(r.cfg.Addr())
	}()

	select {
	case err := <-serverErr:
		closeErr := r.store.Close()
		if err != nil {
			return xerrors.Errorf("http server failed: %w", errors.Join(err, closeErr))
		}
		return closeErr
	case <-ctx.Done():
		r.logger.Info("shutting down")
		return r.shutdown()
	}
}

func (r *Runtime) shutdown() error {
	var joined error

	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.ShutdownTimeout)
	defer cancel()
	if err := r.app.ShutdownWithContext(ctx); err != nil {
		joined = errors.Join(joined, xerrors.Errorf("http shutdown: %w", err))
	}

	if err := r.store.Close(); err != nil {
		joined = errors.Join(joined, xerrors.Errorf("store close: %w", err))
	}

	r.logger.Info("shutdown complete", slog.Duration("uptime", time.Since(r.startedAt)))
	return joined
}
