package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/daddykotex/pdf-edit-bulk/db/sqldb"
)

// querier is the part of *sql.DB a Handle runs on
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Handle struct {
	q querier
}

var _ sqldb.Handle = Handle{}

func (h Handle) Exec(ctx context.Context, query string, args ...any) (sqldb.Result, error) {
	return h.q.ExecContext(ctx, query, args...)
}

func (h Handle) QueryRows(ctx context.Context, query string, args ...any) (sqldb.Rows, error) {
	rows, err := h.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (h Handle) QueryRow(ctx context.Context, query string, args ...any) sqldb.Row {
	return Row{row: h.q.QueryRowContext(ctx, query, args...)}
}

type Row struct {
	row *sql.Row
}

func (r Row) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return sqldb.ErrNoRows
	}
	return err
}
