package ports

import (
	"context"

	"telemetry-stats-service/internal/ingest/core/domain"
)

type StatsWriterPort interface {
	// ApplyBatch stores every record of b or none of them.
	ApplyBatch(ctx context.Context, b domain.Batch) error
}

type UserAgentParserPort interface {
	Parse(userAgent string) domain.UserAgentInfo
}
