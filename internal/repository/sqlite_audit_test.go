package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aadipatodia/Scheduler/internal/domain"
	"github.com/aadipatodia/Scheduler/internal/testutil"
)

func TestAuditRepo_ListByTaskInOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	tasks := NewSQLiteTaskRepo(db)
	audit := NewSQLiteAuditRepo(db)
	ctx := context.Background()

	task := testutil.NewTestTask("Read docs")
	require.NoError(t, tasks.Create(ctx, task))

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	entries := []*domain.AuditEntry{
		{ID: uuid.NewString(), TaskID: task.ID, Action: domain.AuditCreated, Timestamp: base},
		{ID: uuid.NewString(), TaskID: task.ID, Action: domain.AuditUpdated, FieldName: "status", OldValue: "due", NewValue: "completed", Reason: "finished early", Timestamp: base.Add(time.Hour)},
	}
	for _, e := range entries {
		require.NoError(t, audit.Create(ctx, e))
	}

	got, err := audit.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.AuditCreated, got[0].Action)
	assert.Equal(t, "status", got[1].FieldName)
	assert.Equal(t, "finished early", got[1].Reason)
	assert.True(t, base.Add(time.Hour).Equal(got[1].Timestamp))
}

func TestAuditRepo_RequiresExistingTask(t *testing.T) {
	db := testutil.NewTestDB(t)
	audit := NewSQLiteAuditRepo(db)

	err := audit.Create(context.Background(), &domain.AuditEntry{ID: uuid.NewString(), TaskID: "ghost", Action: domain.AuditCreated, Timestamp: time.Now()})
	assert.Error(t, err)
}

func TestRecalibrationRepo_CreateAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	goals := NewSQLiteGoalRepo(db)
	repo := NewSQLiteRecalibrationRepo(db)
	ctx := context.Background()

	goal := testutil.NewTestGoal("Learn Go")
	require.NoError(t, goals.Create(ctx, goal))

	first := &domain.RecalibrationLog{
		ID: uuid.NewString(), GoalID: goal.ID, Reason: "2 missed tasks", Severity: domain.SeverityLow,
		CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	second := &domain.RecalibrationLog{
		ID: uuid.NewString(), GoalID: goal.ID, Reason: "5 missed tasks", Severity: domain.SeverityHigh,
		Recommendations: []string{"Cut scope"}, TasksAffected: []string{"t1", "t2"},
		AdjustmentDays: 4, Motivation: "Keep going", UsedFallback: true,
		CreatedAt: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	logs, err := repo.ListByGoal(ctx, goal.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	latest := logs[0]
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, domain.SeverityHigh, latest.Severity)
	assert.Equal(t, []string{"Cut scope"}, latest.Recommendations)
	assert.Equal(t, []string{"t1", "t2"}, latest.TasksAffected)
	assert.Equal(t, 4, latest.AdjustmentDays)
	assert.Equal(t, "Keep going", latest.Motivation)
	assert.True(t, latest.UsedFallback)

	assert.Empty(t, logs[1].Recommendations)
}
