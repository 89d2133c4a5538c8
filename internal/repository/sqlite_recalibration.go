package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aadipatodia/Scheduler/internal/db"
	"github.com/aadipatodia/Scheduler/internal/domain"
)

// SQLiteRecalibrationRepo stores missed-task analyses per goal.
type SQLiteRecalibrationRepo struct {
	db db.DBTX
}

func NewSQLiteRecalibrationRepo(dbtx db.DBTX) *SQLiteRecalibrationRepo {
	return &SQLiteRecalibrationRepo{db: dbtx}
}

func (r *SQLiteRecalibrationRepo) Create(ctx context.Context, l *domain.RecalibrationLog) error {
	recs, err := marshalStrings(l.Recommendations)
	if err != nil {
		return err
	}
	affected, err := marshalStrings(l.TasksAffected)
	if err != nil {
		return err
	}
	query := `INSERT INTO recalibration_logs (id, goal_id, reason, severity, recommendations_json, tasks_affected_json,
		adjustment_days, motivation, used_fallback, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		l.ID, l.GoalID, l.Reason, string(l.Severity), recs, affected,
		l.AdjustmentDays, l.Motivation, boolToInt(l.UsedFallback), formatTS(l.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting recalibration log: %w", err)
	}
	return nil
}

func (r *SQLiteRecalibrationRepo) ListByGoal(ctx context.Context, goalID string) ([]*domain.RecalibrationLog, error) {
	query := `SELECT id, goal_id, reason, severity, recommendations_json, tasks_affected_json,
		adjustment_days, motivation, used_fallback, created_at
		FROM recalibration_logs WHERE goal_id = ? ORDER BY created_at DESC, rowid DESC`
	rows, err := r.db.QueryContext(ctx, query, goalID)
	if err != nil {
		return nil, fmt.Errorf("listing recalibration logs: %w", err)
	}
	defer rows.Close()

	var logs []*domain.RecalibrationLog
	for rows.Next() {
		var l domain.RecalibrationLog
		var severity, recs, affected, createdAt string
		var usedFallback int
		if err := rows.Scan(&l.ID, &l.GoalID, &l.Reason, &severity, &recs, &affected,
			&l.AdjustmentDays, &l.Motivation, &usedFallback, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning recalibration log: %w", err)
		}
		l.Severity = domain.Severity(severity)
		l.UsedFallback = usedFallback != 0
		if err := json.Unmarshal([]byte(recs), &l.Recommendations); err != nil {
			return nil, fmt.Errorf("decoding recommendations: %w", err)
		}
		if err := json.Unmarshal([]byte(affected), &l.TasksAffected); err != nil {
			return nil, fmt.Errorf("decoding affected tasks: %w", err)
		}
		if l.CreatedAt, err = parseTS(createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		logs = append(logs, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recalibration logs: %w", err)
	}
	return logs, nil
}

func marshalStrings(vals []string) (string, error) {
	if vals == nil {
		vals = []string{}
	}
	data, err := json.Marshal(vals)
	if err != nil {
		return "", fmt.Errorf("encoding string list: %w", err)
	}
	return string(data), nil
}
