package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/daddykotex/pdf-edit-bulk/db/sqldb"
)

// querier is the part of *pgxpool.Pool a Handle runs on
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Handle struct {
	q querier
}

var _ sqldb.Handle = Handle{}

func (h Handle) Exec(ctx context.Context, query string, args ...any) (sqldb.Result, error) {
	tag, err := h.q.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return Result{tag: tag}, nil
}

func (h Handle) QueryRows(ctx context.Context, query string, args ...any) (sqldb.Rows, error) {
	rows, err := h.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &Rows{rows: rows}, nil
}

func (h Handle) QueryRow(ctx context.Context, query string, args ...any) sqldb.Row {
	return Row{row: h.q.QueryRow(ctx, query, args...)}
}

type Result struct {
	tag pgconn.CommandTag
}

func (r Result) RowsAffected() (int64, error) {
	return r.tag.RowsAffected(), nil
}

type Row struct {
	row pgx.Row
}

func (r Row) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return sqldb.ErrNoRows
	}
	return err
}

type Rows struct {
	rows pgx.Rows
}

func (r *Rows) Next() bool {
	return r.rows.Next()
}

func (r *Rows) Scan(dest ...any) error {
	return r.rows.Scan(dest...)
}

func (r *Rows) Close() error {
	r.rows.Close()
	return nil
}

func (r *Rows) Err() error {
	return r.rows.Err()
}
