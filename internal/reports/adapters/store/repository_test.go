package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telemetry-stats-service/internal/platform/sqlstore"
	"telemetry-stats-service/internal/reports/core/ports"
)

// fakeRowScanner implements RowScanner for tests.
type fakeRowScanner struct {
	rows   [][]any
	i      int
	err    error
	closed bool
}

func (f *fakeRowScanner) Next() bool {
	return f.i < len(f.rows)
}

func (f *fakeRowScanner) Scan(dest ...any) error {
	if f.i >= len(f.rows) {
		return errors.New("no more rows")
	}
	row := f.rows[f.i]
	if len(dest) != len(row) {
		return errors.New("dest length mismatch")
	}
	for i := range dest {
		switch d := dest[i].(type) {
		case *int64:
			v, ok := row[i].(int64)
			if !ok {
				return errors.New("type assertion to int64 failed")
			}
			*d = v
		case *string:
			v, ok := row[i].(string)
			if !ok {
				return errors.New("type assertion to string failed")
			}
			*d = v
		case *sql.NullString:
			v, ok := row[i].(string)
			if !ok {
				return errors.New("type assertion to string failed")
			}
			*d = sql.NullString{String: v, Valid: true}
		default:
			return errors.New("unsupported dest type")
		}
	}
	f.i++
	return nil
}

func (f *fakeRowScanner) Err() error {
	return f.err
}

func (f *fakeRowScanner) Close() error {
	f.closed = true
	return nil
}

// fakeDB implements DB interface.
type fakeDB struct {
	QueryFn   func(ctx context.Context, query string, args ...any) (RowScanner, error)
	lastQuery string
	lastArgs  []any
	called    bool
}

func (f *fakeDB) QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error) {
	f.called = true
	f.lastQuery = query
	f.lastArgs = args
	if f.QueryFn != nil {
		return f.QueryFn(ctx, query, args...)
	}
	return &fakeRowScanner{}, nil
}

// ------------------------------------------------------------
// GROUP COUNTS
// ------------------------------------------------------------

func TestGroupCounts_SumOverDevices(t *testing.T) {
	scanner := &fakeRowScanner{rows: [][]any{
		{"Apple", int64(4)},
		{"Google", int64(2)},
	}}
	db := &fakeDB{QueryFn: func(ctx context.Context, query string, args ...any) (RowScanner, error) {
		return scanner, nil
	}}
	repo := NewReportRepository(db)

	rows, err := repo.GroupCounts(context.Background(), ports.GroupQuery{
		Table: ports.TableDevices, Column: "device_brand", Aggregate: ports.AggregateSum,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(db.lastQuery, "SUM(count) AS count") || !strings.Contains(db.lastQuery, "GROUP BY device_brand") {
		t.Errorf("unexpected query: %s", db.lastQuery)
	}
	if len(db.lastArgs) != 0 {
		t.Errorf("grouped query takes no args, got %v", db.lastArgs)
	}
	if len(rows) != 2 || rows[0].Value != "Apple" || rows[1].Count != 2 {
		t.Errorf("unexpected rows %+v", rows)
	}
	if !scanner.closed {
		t.Error("rows must be closed")
	}
}

func TestGroupCounts_CountRowsOverErrors(t *testing.T) {
	db := &fakeDB{}
	repo := NewReportRepository(db)

	rows, err := repo.GroupCounts(context.Background(), ports.GroupQuery{
		Table: ports.TableErrors, Column: "app_version", Aggregate: ports.AggregateRows,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(db.lastQuery, "COUNT(*) AS count") || !strings.Contains(db.lastQuery, "FROM app_errors") {
		t.Errorf("unexpected query: %s", db.lastQuery)
	}
	if rows == nil {
		t.Error("expected empty non-nil slice")
	}
}

func TestGroupCounts_IntegerColumn(t *testing.T) {
	db := &fakeDB{QueryFn: func(ctx context.Context, query string, args ...any) (RowScanner, error) {
		return &fakeRowScanner{rows: [][]any{{int64(1), int64(7)}}}, nil
	}}

	rows, err := NewReportRepository(db).GroupCounts(context.Background(), ports.GroupQuery{
		Table: ports.TableDevices, Column: "push_notification_enabled", Kind: ports.KindInteger,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].Value != int64(1) || rows[0].Count != 7 {
		t.Errorf("unexpected row %+v", rows[0])
	}
}

func TestGroupCounts_RejectsUnknownIdentifiers(t *testing.T) {
	db := &fakeDB{}
	repo := NewReportRepository(db)

	bad := []ports.GroupQuery{
		{Table: "users", Column: "name"},
		{Table: ports.TableDevices, Column: "count) FROM device_stats; --"},
		{Table: ports.TableDevices, Column: "Device_Brand"},
	}
	for _, q := range bad {
		if _, err := repo.GroupCounts(context.Background(), q); err == nil {
			t.Errorf("%+v: expected error", q)
		}
	}
	if db.called {
		t.Error("no query may be issued for invalid identifiers")
	}
}

func TestGroupCounts_PropagatesErrors(t *testing.T) {
	dbErr := errors.New("db down")
	db := &fakeDB{QueryFn: func(ctx context.Context, query string, args ...any) (RowScanner, error) {
		return nil, dbErr
	}}
	_, err := NewReportRepository(db).GroupCounts(context.Background(), ports.GroupQuery{
		Table: ports.TableEvents, Column: "event_type",
	})
	if !errors.Is(err, dbErr) {
		t.Fatalf("expected %v, got %v", dbErr, err)
	}

	iterErr := errors.New("row iteration failed")
	db.QueryFn = func(ctx context.Context, query string, args ...any) (RowScanner, error) {
		return &fakeRowScanner{err: iterErr}, nil
	}
	_, err = NewReportRepository(db).GroupCounts(context.Background(), ports.GroupQuery{
		Table: ports.TableEvents, Column: "event_type",
	})
	if !errors.Is(err, iterErr) {
		t.Fatalf("expected %v, got %v", iterErr, err)
	}
}

// ------------------------------------------------------------
// FILTERS
// ------------------------------------------------------------

func TestBuildWhere(t *testing.T) {
	where, args, err := buildWhere([]ports.Filter{
		{Column: "app_version", Op: ports.OpEqual, Value: "1.2.0"},
		{Column: "os_combined", Op: ports.OpLeadingWord, Value: "100%_sure"},
		{Column: "os_combined", Op: ports.OpTrailingWord, Value: "14"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantWhere := "\nWHERE app_version = ?" +
		` AND (os_combined LIKE ? ESCAPE '\' AND os_combined NOT LIKE ? ESCAPE '\')` +
		` AND os_combined LIKE ? ESCAPE '\'`
	if where != wantWhere {
		t.Errorf("where:\n got %q\nwant %q", where, wantWhere)
	}
	wantArgs := []any{"1.2.0", `100\%\_sure %`, `100\%\_sure % %`, "% 14"}
	if len(args) != len(wantArgs) {
		t.Fatalf("args: got %v", args)
	}
	for i := range wantArgs {
		if args[i] != wantArgs[i] {
			t.Errorf("arg %d: got %q want %q", i, args[i], wantArgs[i])
		}
	}
}

func TestBuildWhere_Empty(t *testing.T) {
	where, args, err := buildWhere(nil)
	if err != nil || where != "" || args != nil {
		t.Errorf("expected empty clause, got %q %v %v", where, args, err)
	}
}

func TestListErrors_FilteredQuery(t *testing.T) {
	db := &fakeDB{QueryFn: func(ctx context.Context, query string, args ...any) (RowScanner, error) {
		return &fakeRowScanner{rows: [][]any{{
			int64(1), "boom", "Unknown cause", "E1", "2025-01-01T00:00:00.000Z",
			"iOS", "17", "iPhone", "Apple", "1.2.0", "No stack trace provided",
		}}}, nil
	}}

	rows, err := NewReportRepository(db).ListErrors(context.Background(), []ports.Filter{
		{Column: "app_version", Op: ports.OpEqual, Value: "1.2.0"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(db.lastQuery, "WHERE app_version = ?") || !strings.HasSuffix(db.lastQuery, "ORDER BY id") {
		t.Errorf("unexpected query: %s", db.lastQuery)
	}
	if len(db.lastArgs) != 1 || db.lastArgs[0] != "1.2.0" {
		t.Errorf("unexpected args: %v", db.lastArgs)
	}
	if len(rows) != 1 || rows[0].ErrorCode != "E1" || rows[0].AppVersion != "1.2.0" {
		t.Errorf("unexpected rows %+v", rows)
	}
}

// ------------------------------------------------------------
// SQLITE
// ------------------------------------------------------------

func TestReportRepository_SQLite(t *testing.T) {
	s, err := sqlstore.Open(context.Background(), sqlstore.Options{
		Driver: sqlstore.DriverSQLite,
		DSN:    "file:" + filepath.Join(t.TempDir(), "stats.db"),
	})
	require.NoError(t, err)
	defer s.Close()

	const insertDevice = `INSERT INTO device_stats (os_combined, device_type, device_model, device_brand,
network_type, device_language, push_notification_enabled, install_date, count)
VALUES (?, 'mobile', 'm', 'b', 'wifi', 'en', ?, '2025-01-01', ?)`
	require.NoError(t, s.ExecBatch(context.Background(), []sqlstore.Statement{
		{Query: insertDevice, Args: []any{"Android 14", 1, 3}},
		{Query: insertDevice, Args: []any{"Android_x 14", 0, 1}},
		{Query: insertDevice, Args: []any{"Windows Phone 10", 0, 2}},
		{Query: insertDevice, Args: []any{"Windows 10", 1, 4}},
		{Query: `INSERT INTO event_stats (event_type, event_data, count) VALUES (?, ?, ?)`, Args: []any{"view", `{"tab":"a"}`, 2}},
		{Query: `INSERT INTO event_stats (event_type, event_data, count) VALUES (?, ?, ?)`, Args: []any{"view", `{"tab":"b"}`, 5}},
		{Query: `INSERT INTO event_stats (event_type, event_data, count) VALUES (?, ?, ?)`, Args: []any{"tap", `{}`, 1}},
	}))

	repo := NewReportRepository(NewSQLDB(s))
	ctx := context.Background()

	android, err := repo.ListDevices(ctx, []ports.Filter{{Column: "os_combined", Op: ports.OpLeadingWord, Value: "Android"}})
	require.NoError(t, err)
	require.Len(t, android, 1)
	assert.Equal(t, "Android 14", android[0].OSCombined)
	assert.EqualValues(t, 3, android[0].Count)

	windows, err := repo.ListDevices(ctx, []ports.Filter{{Column: "os_combined", Op: ports.OpLeadingWord, Value: "Windows"}})
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, "Windows 10", windows[0].OSCombined)

	tens, err := repo.ListDevices(ctx, []ports.Filter{
		{Column: "os_combined", Op: ports.OpTrailingWord, Value: "10"},
		{Column: "push_notification_enabled", Op: ports.OpEqual, Value: 0},
	})
	require.NoError(t, err)
	require.Len(t, tens, 1)
	assert.Equal(t, "Windows Phone 10", tens[0].OSCombined)

	push, err := repo.GroupCounts(ctx, ports.GroupQuery{
		Table: ports.TableDevices, Column: "push_notification_enabled", Kind: ports.KindInteger,
	})
	require.NoError(t, err)
	require.Len(t, push, 2)
	assert.Equal(t, int64(0), push[0].Value)
	assert.EqualValues(t, 3, push[0].Count)
	assert.Equal(t, int64(1), push[1].Value)
	assert.EqualValues(t, 7, push[1].Count)

	views, err := repo.EventDataCounts(ctx, "view")
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, `{"tab":"a"}`, views[0].EventData)
	assert.EqualValues(t, 5, views[1].Count)

	events, err := repo.ListEvents(ctx, []ports.Filter{{Column: "event_type", Op: ports.OpEqual, Value: "tap"}})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "{}", events[0].EventData)
}
