package sqlstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/xerrors"
	"modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const sqlitePragmas = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 10000;
PRAGMA foreign_keys = ON;
`

func init() {
	sqlite.RegisterConnectionHook(func(conn sqlite.ExecQuerierContext, _ string) error {
		_, err := conn.ExecContext(context.Background(), sqlitePragmas, []driver.NamedValue{})
		return err
	})
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Statement is one parameterized write. Queries use `?` placeholders and are
// rebound to the driver's bind style before execution.
type Statement struct {
	Query string
	Args  []any
}

type Store struct {
	db      *sqlx.DB
	driver  string
	observe func(time.Duration)
}

// Open connects to the configured store, verifies the connection and applies
// the schema.
func Open(ctx context.Context, opts Options) (*Store, error) {
	switch opts.Driver {
	case DriverPostgres:
	case DriverSQLite:
		if err := ensureSQLiteDir(opts.DSN); err != nil {
			return nil, err
		}
	default:
		return nil, xerrors.Errorf("unsupported driver %q", opts.Driver)
	}

	db, err := sqlx.Open(opts.Driver, opts.DSN)
	if err != nil {
		return nil, xerrors.Errorf("open %s: %w", opts.Driver, err)
	}

	if opts.Driver == DriverSQLite {
		// single writer; sqlite serializes writes anyway
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(opts.MaxOpenConns)
		db.SetMaxIdleConns(opts.MaxIdleConns)
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, xerrors.Errorf("ping %s: %w", opts.Driver, err)
	}

	s := &Store{db: db, driver: opts.Driver}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func ensureSQLiteDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return xerrors.Errorf("create db dir: %w", err)
	}
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaFor(s.driver)); err != nil {
		return xerrors.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *Store) Driver() string {
	return s.driver
}

// OnBatch registers a callback that receives the duration of every committed
// or failed batch.
func (s *Store) OnBatch(fn func(time.Duration)) {
	s.observe = fn
}

// ExecBatch runs all statements in one transaction. Either every statement
// applies or none does. Identical query texts are prepared once per batch.
func (s *Store) ExecBatch(ctx context.Context, stmts []Statement) (err error) {
	if len(stmts) == 0 {
		return nil
	}

	start := time.Now()
	defer func() {
		if s.observe != nil {
			s.observe(time.Since(start))
		}
	}()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return xerrors.Errorf("begin batch: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	prepared := make(map[string]*sqlx.Stmt, 4)
	defer func() {
		for _, p := range prepared {
			_ = p.Close()
		}
	}()

	for i, st := range stmts {
		p, ok := prepared[st.Query]
		if !ok {
			p, err = tx.PreparexContext(ctx, tx.Rebind(st.Query))
			if err != nil {
				return xerrors.Errorf("prepare statement %d: %w", i, err)
			}
			prepared[st.Query] = p
		}
		if _, err = p.ExecContext(ctx, st.Args...); err != nil {
			return xerrors.Errorf("exec statement %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return xerrors.Errorf("commit batch: %w", err)
	}
	return nil
}

// QueryContext runs a read query written with `?` placeholders.
func (s *Store) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.db.Rebind(query), args...)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
