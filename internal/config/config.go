package config

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
	"golang.org/x/xerrors"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port string `env:"STATS_PORT, default=8080"`

	DBDriver          string        `env:"STATS_DB_DRIVER, default=sqlite"`
	DBDSN             string        `env:"STATS_DB_DSN, default=file:data/stats.db"`
	DBMaxOpenConns    int           `env:"STATS_DB_MAX_OPEN_CONNS, default=20"`
	DBMaxIdleConns    int           `env:"STATS_DB_MAX_IDLE_CONNS, default=10"`
	DBConnMaxLifetime time.Duration `env:"STATS_DB_CONN_MAX_LIFETIME, default=30m"`

	ReportAPIKey   string `env:"STATS_REPORT_API_KEY"`
	WriteKeyPrefix string `env:"STATS_WRITE_KEY_PREFIX, default=RYLS-"`

	LogLevel      string `env:"STATS_LOG_LEVEL, default=info"`
	LogFormat     string `env:"STATS_LOG_FORMAT, default=json"`
	LogFile       string `env:"STATS_LOG_FILE"`
	LogMaxSizeMB  int    `env:"STATS_LOG_MAX_SIZE_MB, default=20"`
	LogMaxBackups int    `env:"STATS_LOG_MAX_BACKUPS, default=10"`
	LogMaxAgeDays int    `env:"STATS_LOG_MAX_AGE_DAYS, default=30"`

	ShutdownTimeout  time.Duration `env:"STATS_SHUTDOWN_TIMEOUT, default=5s"`
	CORSAllowOrigins string        `env:"STATS_CORS_ALLOW_ORIGINS, default=*"`
}

// Load reads the configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads the configuration through l; tests pass a map lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, xerrors.Errorf("load env config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return xerrors.Errorf("unsupported STATS_DB_DRIVER %q", c.DBDriver)
	}
	if c.DBDSN == "" {
		return xerrors.New("STATS_DB_DSN is empty")
	}
	if c.ReportAPIKey == "" {
		return xerrors.New("STATS_REPORT_API_KEY is not set")
	}
	if c.WriteKeyPrefix == "" {
		return xerrors.New("STATS_WRITE_KEY_PREFIX is empty")
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return xerrors.Errorf("unsupported STATS_LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func WriteHelp(w io.Writer, version string) {
	fmt.Fprintf(w, "telemetry-stats-service %s\n\n", version)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  STATS_PORT=8080")
	fmt.Fprintln(w, "  STATS_DB_DRIVER=sqlite            (sqlite | postgres)")
	fmt.Fprintln(w, "  STATS_DB_DSN=file:data/stats.db")
	fmt.Fprintln(w, "  STATS_DB_MAX_OPEN_CONNS=20")
	fmt.Fprintln(w, "  STATS_DB_MAX_IDLE_CONNS=10")
	fmt.Fprintln(w, "  STATS_DB_CONN_MAX_LIFETIME=30m")
	fmt.Fprintln(w, "  STATS_REPORT_API_KEY=             (required)")
	fmt.Fprintln(w, "  STATS_WRITE_KEY_PREFIX=RYLS-")
	fmt.Fprintln(w, "  STATS_LOG_LEVEL=info")
	fmt.Fprintln(w, "  STATS_LOG_FORMAT=json             (json | text)")
	fmt.Fprintln(w, "  STATS_LOG_FILE=")
	fmt.Fprintln(w, "  STATS_LOG_MAX_SIZE_MB=20")
	fmt.Fprintln(w, "  STATS_LOG_MAX_BACKUPS=10")
	fmt.Fprintln(w, "  STATS_LOG_MAX_AGE_DAYS=30")
	fmt.Fprintln(w, "  STATS_SHUTDOWN_TIMEOUT=5s")
	fmt.Fprintln(w, "  STATS_CORS_ALLOW_ORIGINS=*")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  --help")
	fmt.Fprintln(w, "  --version")
}
