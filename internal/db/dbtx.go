package db

import (
	"context"
	"database/sql"
)

// DBTX is what the goal, roadmap, task and recalibration repositories query
// through. A plain *sql.DB serves reads; inside WithinTx the same
// repositories are rebuilt on the *sql.Tx so approval and the missed-task
// sweep commit or roll back as one.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
