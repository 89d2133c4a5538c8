package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aadipatodia/Scheduler/internal/db"
	"github.com/aadipatodia/Scheduler/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(dbtx db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: dbtx}
}

const taskColumns = `id, goal_id, roadmap_id, phase_index, title, description, category, status, priority, source,
	scheduled_date, completed_at, created_at, updated_at`

// taskOrder lists earliest-scheduled first, unscheduled last, then by priority.
const taskOrder = ` ORDER BY scheduled_date IS NULL, scheduled_date, priority DESC, created_at, id`

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		nullableStringToValue(t.GoalID),
		nullableStringToValue(t.RoadmapID),
		nullableIntToValue(t.PhaseIndex),
		t.Title,
		t.Description,
		string(t.Category),
		int(t.Status),
		t.Priority,
		string(t.Source),
		nullableTimeToString(t.ScheduledDate, dateLayout),
		nullableTimeToString(t.CompletedAt, time.RFC3339),
		formatTS(t.CreatedAt),
		formatTS(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return t, err
}

func (r *SQLiteTaskRepo) List(ctx context.Context, f TaskFilter) ([]*domain.Task, error) {
	var where []string
	var args []any
	if f.GoalID != "" {
		where = append(where, "goal_id = ?")
		args = append(args, f.GoalID)
	}
	if f.Status != nil {
		where = append(where, "status = ?")
		args = append(args, int(*f.Status))
	}
	if f.Source != "" {
		where = append(where, "source = ?")
		args = append(args, string(f.Source))
	}
	if f.From != nil {
		where = append(where, "scheduled_date >= ?")
		args = append(args, f.From.Format(dateLayout))
	}
	if f.To != nil {
		where = append(where, "scheduled_date <= ?")
		args = append(args, f.To.Format(dateLayout))
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	return r.query(ctx, query+taskOrder, args...)
}

func (r *SQLiteTaskRepo) ListOverdue(ctx context.Context, before time.Time) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE status = ? AND scheduled_date IS NOT NULL AND scheduled_date < ?` + taskOrder
	return r.query(ctx, query, int(domain.TaskDue), before.Format(dateLayout))
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET goal_id = ?, roadmap_id = ?, phase_index = ?, title = ?, description = ?, category = ?,
		status = ?, priority = ?, source = ?, scheduled_date = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableStringToValue(t.GoalID),
		nullableStringToValue(t.RoadmapID),
		nullableIntToValue(t.PhaseIndex),
		t.Title,
		t.Description,
		string(t.Category),
		int(t.Status),
		t.Priority,
		string(t.Source),
		nullableTimeToString(t.ScheduledDate, dateLayout),
		nullableTimeToString(t.CompletedAt, time.RFC3339),
		formatTS(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return requireAffected(res, "task", t.ID)
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return requireAffected(res, "task", id)
}

func (r *SQLiteTaskRepo) DeletePendingScheduled(ctx context.Context, goalID string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE goal_id = ? AND source = ? AND status = ?`,
		goalID, string(domain.SourceSchedule), int(domain.TaskDue))
	if err != nil {
		return 0, fmt.Errorf("deleting pending scheduled tasks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted tasks: %w", err)
	}
	return int(n), nil
}

func (r *SQLiteTaskRepo) Count(ctx context.Context, goalID string) (TaskCounts, error) {
	query := `SELECT COUNT(*),
		COALESCE(SUM(CASE WHEN status = 1 THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status = 0 THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status = -1 THEN 1 ELSE 0 END), 0)
		FROM tasks`
	var args []any
	if goalID != "" {
		query += ` WHERE goal_id = ?`
		args = append(args, goalID)
	}
	var c TaskCounts
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&c.Total, &c.Completed, &c.Due, &c.Missed); err != nil {
		return c, fmt.Errorf("counting tasks: %w", err)
	}
	return c, nil
}

func (r *SQLiteTaskRepo) query(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func scanTask(s scanner) (*domain.Task, error) {
	var t domain.Task
	var goalID, roadmapID, scheduledStr, completedStr sql.NullString
	var phaseIndex sql.NullInt64
	var category, source, createdAtStr, updatedAtStr string
	var status int

	err := s.Scan(
		&t.ID, &goalID, &roadmapID, &phaseIndex,
		&t.Title, &t.Description, &category, &status, &t.Priority, &source,
		&scheduledStr, &completedStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.GoalID = nullStringPtr(goalID)
	t.RoadmapID = nullStringPtr(roadmapID)
	t.PhaseIndex = nullIntPtr(phaseIndex)
	t.Category = domain.TaskCategory(category)
	t.Status = domain.TaskStatus(status)
	t.Source = domain.TaskSource(source)
	t.ScheduledDate = parseNullableDate(scheduledStr)
	t.CompletedAt = parseNullableTime(completedStr, time.RFC3339)

	var parseErr error
	if t.CreatedAt, parseErr = parseTS(createdAtStr); parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	if t.UpdatedAt, parseErr = parseTS(updatedAtStr); parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &t, nil
}
