package store

import (
	"context"
	"database/sql"
)

// Querier is satisfied by *sqlstore.Store.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type sqlDB struct {
	q Querier
}

func NewSQLDB(q Querier) DB {
	return &sqlDB{q: q}
}

func (s *sqlDB) QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
