package store

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/xerrors"

	"telemetry-stats-service/internal/reports/core/domain"
	"telemetry-stats-service/internal/reports/core/ports"
)

type RowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DB runs read queries written with `?` placeholders.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error)
}

type ReportRepository struct {
	db DB
}

func NewReportRepository(db DB) *ReportRepository {
	return &ReportRepository{db: db}
}

var _ ports.ReportReaderPort = (*ReportRepository)(nil)

var (
	identifierPattern = regexp.MustCompile(`^[a-z_]+$`)
	knownTables       = map[string]bool{
		ports.TableDevices: true,
		ports.TableEvents:  true,
		ports.TableErrors:  true,
	}
)

// checkIdentifier rejects anything that could not be a plain column name.
// Callers only pass literals from the report catalog; this is the last line
// before text reaches the query.
func checkIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return xerrors.Errorf("invalid identifier %q", name)
	}
	return nil
}

func (r *ReportRepository) GroupCounts(ctx context.Context, q ports.GroupQuery) ([]domain.GroupCount, error) {
	if !knownTables[q.Table] {
		return nil, xerrors.Errorf("unknown table %q", q.Table)
	}
	if err := checkIdentifier(q.Column); err != nil {
		return nil, err
	}

	agg := "SUM(count)"
	if q.Aggregate == ports.AggregateRows {
		agg = "COUNT(*)"
	}
	query := fmt.Sprintf(`
SELECT
    %[1]s,
    %[2]s AS count
FROM %[3]s
GROUP BY %[1]s
ORDER BY %[1]s`, q.Column, agg, q.Table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.GroupCount, 0)
	for rows.Next() {
		var (
			value any
			count int64
		)
		if q.Kind == ports.KindInteger {
			var n int64
			if err := rows.Scan(&n, &count); err != nil {
				return nil, err
			}
			value = n
		} else {
			var s sql.NullString
			if err := rows.Scan(&s, &count); err != nil {
				return nil, err
			}
			value = s.String
		}
		out = append(out, domain.GroupCount{Dimension: q.Column, Value: value, Count: count})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

const eventDataCountsSQL = `
SELECT
    event_data,
    SUM(count) AS count
FROM event_stats
WHERE event_type = ?
GROUP BY event_data
ORDER BY event_data`

func (r *ReportRepository) EventDataCounts(ctx context.Context, eventType string) ([]ports.EventDataCount, error) {
	rows, err := r.db.QueryContext(ctx, eventDataCountsSQL, eventType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ports.EventDataCount
	for rows.Next() {
		var c ports.EventDataCount
		if err := rows.Scan(&c.EventData, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

const selectDevicesSQL = `
SELECT
    id,
    os_combined,
    device_type,
    device_model,
    device_brand,
    network_type,
    device_language,
    push_notification_enabled,
    install_date,
    count
FROM device_stats`

func (r *ReportRepository) ListDevices(ctx context.Context, filters []ports.Filter) ([]domain.DeviceRow, error) {
	where, args, err := buildWhere(filters)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, selectDevicesSQL+where+"\nORDER BY id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.DeviceRow, 0)
	for rows.Next() {
		var d domain.DeviceRow
		if err := rows.Scan(
			&d.ID,
			&d.OSCombined,
			&d.DeviceType,
			&d.DeviceModel,
			&d.DeviceBrand,
			&d.NetworkType,
			&d.DeviceLanguage,
			&d.PushNotificationEnabled,
			&d.InstallDate,
			&d.Count,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

const selectEventsSQL = `
SELECT
    id,
    event_type,
    event_data,
    count
FROM event_stats`

func (r *ReportRepository) ListEvents(ctx context.Context, filters []ports.Filter) ([]domain.EventRow, error) {
	where, args, err := buildWhere(filters)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, selectEventsSQL+where+"\nORDER BY id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.EventRow, 0)
	for rows.Next() {
		var e domain.EventRow
		if err := rows.Scan(&e.ID, &e.EventType, &e.EventData, &e.Count); err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

const selectErrorsSQL = `
SELECT
    id,
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
FROM app_errors`

func (r *ReportRepository) ListErrors(ctx context.Context, filters []ports.Filter) ([]domain.ErrorRow, error) {
	where, args, err := buildWhere(filters)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, selectErrorsSQL+where+"\nORDER BY id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ErrorRow, 0)
	for rows.Next() {
		var e domain.ErrorRow
		if err := rows.Scan(
			&e.ID,
			&e.ErrorMessage,
			&e.ErrorCause,
			&e.ErrorCode,
			&e.Timestamp,
			&e.OSName,
			&e.OSVersion,
			&e.DeviceModel,
			&e.DeviceBrand,
			&e.AppVersion,
			&e.StackTrace,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// buildWhere renders filters as a WHERE clause. Values are always bound.
func buildWhere(filters []ports.Filter) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	clauses := make([]string, 0, len(filters))
	args := make([]any, 0, len(filters))
	for _, f := range filters {
		if err := checkIdentifier(f.Column); err != nil {
			return "", nil, err
		}

		switch f.Op {
		case ports.OpEqual:
			clauses = append(clauses, f.Column+" = ?")
			args = append(args, f.Value)
		case ports.OpLeadingWord:
			v := escapeLike(fmt.Sprint(f.Value))
			clauses = append(clauses, fmt.Sprintf(`(%[1]s LIKE ? ESCAPE '\' AND %[1]s NOT LIKE ? ESCAPE '\')`, f.Column))
			args = append(args, v+" %", v+" % %")
		case ports.OpTrailingWord:
			clauses = append(clauses, f.Column+` LIKE ? ESCAPE '\'`)
			args = append(args, "% "+escapeLike(fmt.Sprint(f.Value)))
		default:
			return "", nil, xerrors.Errorf("unsupported filter op %d", f.Op)
		}
	}
	return "\nWHERE " + strings.Join(clauses, " AND "), args, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
