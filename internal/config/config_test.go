package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"STATS_REPORT_API_KEY": "RYLS-0009",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "file:data/stats.db", cfg.DBDSN)
	assert.Equal(t, 30*time.Minute, cfg.DBConnMaxLifetime)
	assert.Equal(t, "RYLS-", cfg.WriteKeyPrefix)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "*", cfg.CORSAllowOrigins)
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"STATS_REPORT_API_KEY": "secret",
		"STATS_DB_DRIVER":      "Postgres",
		"STATS_DB_DSN":         "postgres://localhost/stats?sslmode=disable",
		"STATS_PORT":           "9000",
		"STATS_LOG_FORMAT":     "text",
	}))
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, ":9000", cfg.Addr())
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadWith_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing report key", map[string]string{}},
		{"unknown driver", map[string]string{"STATS_REPORT_API_KEY": "k", "STATS_DB_DRIVER": "mysql"}},
		{"bad log format", map[string]string{"STATS_REPORT_API_KEY": "k", "STATS_LOG_FORMAT": "xml"}},
		{"bad duration", map[string]string{"STATS_REPORT_API_KEY": "k", "STATS_SHUTDOWN_TIMEOUT": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(tt.env))
			require.Error(t, err)
		})
	}
}
