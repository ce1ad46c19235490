package journal

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/daddykotex/pdf-edit-bulk/db/sqldb"
)

//go:embed sql
var sqlFS embed.FS

const stmtGroup = "journal"

var (
	stmtCreate = sqldb.StoreGroupedStmtKey{Group: stmtGroup, StmtName: "create"}.String()
	stmtInsert = sqldb.StoreGroupedStmtKey{Group: stmtGroup, StmtName: "insert"}.String()
	stmtRecent = sqldb.StoreGroupedStmtKey{Group: stmtGroup, StmtName: "recent"}.String()
	stmtPrune  = sqldb.StoreGroupedStmtKey{Group: stmtGroup, StmtName: "prune"}.String()
)

// SQL stores entries in the merge_journal table
type SQL struct {
	h     sqldb.Handle
	stmts *sqldb.RawSQLStore
}

// Ensure SQL implements Journal and Pruner
var (
	_ Journal = (*SQL)(nil)
	_ Pruner  = (*SQL)(nil)
)

// NewSQL loads the statements for dbtype and creates the table if needed
func NewSQL(ctx context.Context, h sqldb.Handle, dbtype string) (*SQL, error) {
	stmts := sqldb.NewRawStore()
	if err := sqldb.LoadGroups(stmts, dbtype, sqldb.GroupFS{Group: stmtGroup, FS: sqlFS}); err != nil {
		return nil, err
	}
	j := &SQL{h: h, stmts: stmts}
	if _, err := h.Exec(ctx, stmts.MustGet(stmtCreate)); err != nil {
		return nil, fmt.Errorf("journal: create table: %w", err)
	}
	return j, nil
}

func (j *SQL) Record(ctx context.Context, e Entry) error {
	_, err := j.h.Exec(ctx, j.stmts.MustGet(stmtInsert),
		e.CreatedAt, e.Source, e.ClientIP, e.Project, e.Prefix, e.Digest,
		e.Pages, e.Matched, e.Missing,
	)
	if err != nil {
		return fmt.Errorf("journal: record: %w", err)
	}
	return nil
}

func (j *SQL) Recent(ctx context.Context, limit int) ([]Entry, error) {
	items, err := sqldb.QueryItems[Entry](ctx, j.h, j.stmts.MustGet(stmtRecent), ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("journal: recent: %w", err)
	}
	entries := make([]Entry, len(items))
	for i, p := range items {
		entries[i] = *p
	}
	return entries, nil
}

func (j *SQL) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := j.h.Exec(ctx, j.stmts.MustGet(stmtPrune), before)
	if err != nil {
		return 0, fmt.Errorf("journal: prune: %w", err)
	}
	return res.RowsAffected()
}
