package ports

import (
	"context"

	"telemetry-stats-service/internal/reports/core/domain"
)

const (
	TableDevices = "device_stats"
	TableEvents  = "event_stats"
	TableErrors  = "app_errors"
)

type Aggregate int

const (
	// AggregateSum adds up the stored counters.
	AggregateSum Aggregate = iota
	// AggregateRows counts rows; used where rows are not counters.
	AggregateRows
)

type ValueKind int

const (
	KindText ValueKind = iota
	KindInteger
)

// GroupQuery selects one column of one table to group by. Table and Column
// must be identifiers known at compile time, never caller input.
type GroupQuery struct {
	Table     string
	Column    string
	Kind      ValueKind
	Aggregate Aggregate
}

type FilterOp int

const (
	OpEqual FilterOp = iota
	// OpLeadingWord matches "<value> <word>" where <word> has no space.
	OpLeadingWord
	// OpTrailingWord matches "<anything> <value>".
	OpTrailingWord
)

// Filter is one predicate of a listing. Column follows the same rule as
// GroupQuery.Column; Value is always bound as a parameter.
type Filter struct {
	Column string
	Op     FilterOp
	Value  any
}

// EventDataCount is the summed count of one distinct event_data text.
type EventDataCount struct {
	EventData string
	Count     int64
}

type ReportReaderPort interface {
	// GroupCounts returns rows ordered by value, with Dimension set to the
	// grouped column.
	GroupCounts(ctx context.Context, q GroupQuery) ([]domain.GroupCount, error)
	EventDataCounts(ctx context.Context, eventType string) ([]EventDataCount, error)
	ListDevices(ctx context.Context, filters []Filter) ([]domain.DeviceRow, error)
	ListEvents(ctx context.Context, filters []Filter) ([]domain.EventRow, error)
	ListErrors(ctx context.Context, filters []Filter) ([]domain.ErrorRow, error)
}
