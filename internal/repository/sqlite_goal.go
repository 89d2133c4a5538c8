package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aadipatodia/Scheduler/internal/db"
	"github.com/aadipatodia/Scheduler/internal/domain"
)

// SQLiteGoalRepo implements GoalRepo using a SQLite database.
type SQLiteGoalRepo struct {
	db db.DBTX
}

// NewSQLiteGoalRepo creates a new SQLiteGoalRepo.
func NewSQLiteGoalRepo(dbtx db.DBTX) *SQLiteGoalRepo {
	return &SQLiteGoalRepo{db: dbtx}
}

const goalColumns = `id, title, description, target_date, status, created_at, updated_at`

func (r *SQLiteGoalRepo) Create(ctx context.Context, g *domain.Goal) error {
	query := `INSERT INTO goals (` + goalColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		g.ID,
		g.Title,
		g.Description,
		nullableTimeToString(g.TargetDate, dateLayout),
		string(g.Status),
		formatTS(g.CreatedAt),
		formatTS(g.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting goal: %w", err)
	}
	return nil
}

func (r *SQLiteGoalRepo) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}
	return g, err
}

func (r *SQLiteGoalRepo) List(ctx context.Context, status domain.GoalStatus) ([]*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer rows.Close()

	var goals []*domain.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating goals: %w", err)
	}
	return goals, nil
}

func (r *SQLiteGoalRepo) Update(ctx context.Context, g *domain.Goal) error {
	query := `UPDATE goals SET title = ?, description = ?, target_date = ?, status = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		g.Title,
		g.Description,
		nullableTimeToString(g.TargetDate, dateLayout),
		string(g.Status),
		formatTS(g.UpdatedAt),
		g.ID,
	)
	if err != nil {
		return fmt.Errorf("updating goal: %w", err)
	}
	return requireAffected(res, "goal", g.ID)
}

func (r *SQLiteGoalRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}
	return requireAffected(res, "goal", id)
}

func scanGoal(s scanner) (*domain.Goal, error) {
	var g domain.Goal
	var statusStr, createdAtStr, updatedAtStr string
	var targetDateStr sql.NullString

	if err := s.Scan(&g.ID, &g.Title, &g.Description, &targetDateStr, &statusStr, &createdAtStr, &updatedAtStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning goal: %w", err)
	}

	g.Status = domain.GoalStatus(statusStr)
	g.TargetDate = parseNullableDate(targetDateStr)

	var parseErr error
	if g.CreatedAt, parseErr = parseTS(createdAtStr); parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	if g.UpdatedAt, parseErr = parseTS(updatedAtStr); parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &g, nil
}

// requireAffected maps a zero-row UPDATE or DELETE to ErrNotFound.
func requireAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking %s rows affected: %w", entity, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
	}
	return nil
}
