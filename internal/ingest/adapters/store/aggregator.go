package store

import (
	"context"

	"telemetry-stats-service/internal/ingest/core/domain"
	"telemetry-stats-service/internal/ingest/core/ports"
	"telemetry-stats-service/internal/platform/sqlstore"
)

type DB interface {
	ExecBatch(ctx context.Context, stmts []sqlstore.Statement) error
}

// Aggregator turns normalized records into counter upserts and error inserts.
type Aggregator struct {
	db DB
}

func NewAggregator(db DB) *Aggregator {
	return &Aggregator{db: db}
}

var _ ports.StatsWriterPort = (*Aggregator)(nil)

// A repeated device tuple bumps its counter by one. The unique constraint on
// the eight dimensions makes this a single atomic statement.
const upsertDeviceSQL = `
INSERT INTO device_stats (
    os_combined,
    device_type,
    device_model,
    device_brand,
    network_type,
    device_language,
    push_notification_enabled,
    install_date,
    count
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1)
ON CONFLICT (os_combined, device_type, device_model, device_brand, network_type,
             device_language, push_notification_enabled, install_date)
DO UPDATE SET count = device_stats.count + 1`

// Events add the submitted count, not 1.
const upsertEventSQL = `
INSERT INTO event_stats (event_type, event_data, count)
VALUES (?, ?, ?)
ON CONFLICT (event_type, event_data)
DO UPDATE SET count = event_stats.count + EXCLUDED.count`

const insertErrorSQL = `
INSERT INTO app_errors (
    error_message,
    error_cause,
    error_code,
    timestamp,
    os_name,
    os_version,
    device_model,
    device_brand,
    app_version,
    stack_trace
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (a *Aggregator) ApplyBatch(ctx context.Context, b domain.Batch) error {
	return a.db.ExecBatch(ctx, Statements(b))
}

// Statements expands a batch into one statement per record, devices first,
// then events, then errors.
func Statements(b domain.Batch) []sqlstore.Statement {
	stmts := make([]sqlstore.Statement, 0, b.Len())

	for _, d := range b.Devices {
		stmts = append(stmts, sqlstore.Statement{
			Query: upsertDeviceSQL,
			Args: []any{
				d.OSCombined,
				d.DeviceType,
				d.DeviceModel,
				d.DeviceBrand,
				d.NetworkType,
				d.DeviceLanguage,
				d.PushNotificationEnabled,
				d.InstallDate,
			},
		})
	}

	for _, e := range b.Events {
		stmts = append(stmts, sqlstore.Statement{
			Query: upsertEventSQL,
			Args:  []any{e.EventType, e.EventData, e.Count},
		})
	}

	for _, e := range b.Errors {
		stmts = append(stmts, sqlstore.Statement{
			Query: insertErrorSQL,
			Args: []any{
				e.ErrorMessage,
				e.ErrorCause,
				e.ErrorCode,
				e.Timestamp,
				e.OSName,
				e.OSVersion,
				e.DeviceModel,
				e.DeviceBrand,
				e.AppVersion,
				e.StackTrace,
			},
		})
	}

	return stmts
}
