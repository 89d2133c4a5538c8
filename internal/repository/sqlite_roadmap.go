package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aadipatodia/Scheduler/internal/db"
	"github.com/aadipatodia/Scheduler/internal/domain"
)

// SQLiteRoadmapRepo implements RoadmapRepo. Phases are stored as a JSON
// column alongside the free-text roadmap.
type SQLiteRoadmapRepo struct {
	db db.DBTX
}

func NewSQLiteRoadmapRepo(dbtx db.DBTX) *SQLiteRoadmapRepo {
	return &SQLiteRoadmapRepo{db: dbtx}
}

const roadmapColumns = `id, goal_id, text, phases_json, approved, approved_at, created_at, updated_at`

func (r *SQLiteRoadmapRepo) Create(ctx context.Context, rm *domain.Roadmap) error {
	phases, err := marshalPhases(rm.Phases)
	if err != nil {
		return err
	}
	query := `INSERT INTO roadmaps (` + roadmapColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		rm.ID,
		rm.GoalID,
		rm.Text,
		phases,
		boolToInt(rm.Approved),
		nullableTimeToString(rm.ApprovedAt, time.RFC3339),
		formatTS(rm.CreatedAt),
		formatTS(rm.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting roadmap: %w", err)
	}
	return nil
}

func (r *SQLiteRoadmapRepo) GetByID(ctx context.Context, id string) (*domain.Roadmap, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+roadmapColumns+` FROM roadmaps WHERE id = ?`, id)
	rm, err := scanRoadmap(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("roadmap %s: %w", id, ErrNotFound)
	}
	return rm, err
}

func (r *SQLiteRoadmapRepo) GetByGoal(ctx context.Context, goalID string) (*domain.Roadmap, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+roadmapColumns+` FROM roadmaps WHERE goal_id = ?`, goalID)
	rm, err := scanRoadmap(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("roadmap for goal %s: %w", goalID, ErrNotFound)
	}
	return rm, err
}

func (r *SQLiteRoadmapRepo) Update(ctx context.Context, rm *domain.Roadmap) error {
	phases, err := marshalPhases(rm.Phases)
	if err != nil {
		return err
	}
	query := `UPDATE roadmaps SET text = ?, phases_json = ?, approved = ?, approved_at = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		rm.Text,
		phases,
		boolToInt(rm.Approved),
		nullableTimeToString(rm.ApprovedAt, time.RFC3339),
		formatTS(rm.UpdatedAt),
		rm.ID,
	)
	if err != nil {
		return fmt.Errorf("updating roadmap: %w", err)
	}
	return requireAffected(res, "roadmap", rm.ID)
}

func marshalPhases(phases []domain.Phase) (string, error) {
	if phases == nil {
		phases = []domain.Phase{}
	}
	data, err := json.Marshal(phases)
	if err != nil {
		return "", fmt.Errorf("encoding phases: %w", err)
	}
	return string(data), nil
}

func scanRoadmap(s scanner) (*domain.Roadmap, error) {
	var rm domain.Roadmap
	var phasesJSON, createdAtStr, updatedAtStr string
	var approved int
	var approvedAtStr sql.NullString

	err := s.Scan(&rm.ID, &rm.GoalID, &rm.Text, &phasesJSON, &approved, &approvedAtStr, &createdAtStr, &updatedAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning roadmap: %w", err)
	}

	if err := json.Unmarshal([]byte(phasesJSON), &rm.Phases); err != nil {
		return nil, fmt.Errorf("decoding phases: %w", err)
	}
	rm.Approved = approved != 0
	rm.ApprovedAt = parseNullableTime(approvedAtStr, time.RFC3339)

	var parseErr error
	if rm.CreatedAt, parseErr = parseTS(createdAtStr); parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	if rm.UpdatedAt, parseErr = parseTS(updatedAtStr); parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &rm, nil
}
