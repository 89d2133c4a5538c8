package repository

import (
	"context"
	"fmt"

	"github.com/aadipatodia/Scheduler/internal/db"
	"github.com/aadipatodia/Scheduler/internal/domain"
)

// SQLiteAuditRepo stores the per-task change history.
type SQLiteAuditRepo struct {
	db db.DBTX
}

func NewSQLiteAuditRepo(dbtx db.DBTX) *SQLiteAuditRepo {
	return &SQLiteAuditRepo{db: dbtx}
}

func (r *SQLiteAuditRepo) Create(ctx context.Context, e *domain.AuditEntry) error {
	query := `INSERT INTO audit_logs (id, task_id, action, field_name, old_value, new_value, reason, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.TaskID, e.Action, e.FieldName, e.OldValue, e.NewValue, e.Reason, formatTS(e.Timestamp))
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

func (r *SQLiteAuditRepo) ListByTask(ctx context.Context, taskID string) ([]*domain.AuditEntry, error) {
	query := `SELECT id, task_id, action, field_name, old_value, new_value, reason, timestamp
		FROM audit_logs WHERE task_id = ? ORDER BY timestamp, rowid`
	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var ts string
		if err := rows.Scan(&e.ID, &e.TaskID, &e.Action, &e.FieldName, &e.OldValue, &e.NewValue, &e.Reason, &ts); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		if e.Timestamp, err = parseTS(ts); err != nil {
			return nil, fmt.Errorf("parsing audit timestamp: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}
	return entries, nil
}
