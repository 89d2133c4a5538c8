package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aadipatodia/Scheduler/internal/domain"
	"github.com/aadipatodia/Scheduler/internal/repository"
	"github.com/aadipatodia/Scheduler/internal/testutil"
)

func newTaskService(h *harness) *taskService {
	return NewTaskService(h.tasks, h.goals, h.audit, h.uow).(*taskService)
}

func TestTaskService_CreateManual(t *testing.T) {
	h := newHarness(t)
	goal := h.seedGoal(t, "Learn Go")
	svc := newTaskService(h)
	ctx := context.Background()

	when := time.Date(2025, time.March, 3, 15, 45, 0, 0, time.Local)
	task := &domain.Task{Title: " Read spec ", GoalID: &goal.ID, Priority: 4, ScheduledDate: &when}
	require.NoError(t, svc.Create(ctx, task))

	got, err := svc.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Read spec", got.Title)
	assert.Equal(t, domain.CategoryDaily, got.Category)
	assert.Equal(t, domain.SourceManual, got.Source)
	assert.Equal(t, domain.TaskDue, got.Status)
	assert.True(t, testutil.Date(2025, time.March, 3).Equal(*got.ScheduledDate))

	history, err := svc.History(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.AuditCreated, history[0].Action)
}

func TestTaskService_CreateValidation(t *testing.T) {
	h := newHarness(t)
	svc := newTaskService(h)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Create(ctx, &domain.Task{Title: ""}), ErrInvalidInput)
	assert.ErrorIs(t, svc.Create(ctx, &domain.Task{Title: "x", Priority: 9}), ErrInvalidInput)
	assert.ErrorIs(t, svc.Create(ctx, &domain.Task{Title: "x", Category: "yearly"}), ErrInvalidInput)

	missing := "no-such-goal"
	assert.ErrorIs(t, svc.Create(ctx, &domain.Task{Title: "x", GoalID: &missing}), repository.ErrNotFound)
}

func TestTaskService_Today(t *testing.T) {
	h := newHarness(t)
	svc := newTaskService(h)
	day := testutil.Date(2025, time.March, 3)

	h.seedTask(t, "due", testutil.WithScheduledDate(day), testutil.WithPriority(1))
	h.seedTask(t, "done", testutil.WithScheduledDate(day), testutil.WithTaskStatus(domain.TaskCompleted), testutil.WithPriority(5))
	h.seedTask(t, "missed", testutil.WithScheduledDate(day), testutil.WithTaskStatus(domain.TaskMissed))
	h.seedTask(t, "tomorrow", testutil.WithScheduledDate(day.AddDate(0, 0, 1)))

	view, err := svc.Today(context.Background(), day.Add(20*time.Hour))
	require.NoError(t, err)

	assert.True(t, day.Equal(view.Date))
	assert.Equal(t, repository.TaskCounts{Total: 3, Completed: 1, Due: 1, Missed: 1}, view.Counts)
	require.Len(t, view.Tasks, 3)
	assert.Equal(t, "done", view.Tasks[0].Title, "highest priority first within a day")
}

func TestTaskService_UpdateAuditsEachField(t *testing.T) {
	h := newHarness(t)
	svc := newTaskService(h)
	ctx := context.Background()
	fixed := time.Date(2025, time.March, 3, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	task := h.seedTask(t, "Read", testutil.WithPriority(2))

	done := domain.TaskCompleted
	updated, err := svc.Update(ctx, task.ID, TaskUpdate{
		Title:    ptr("Read chapter 1"),
		Priority: ptr(4),
		Status:   &done,
		Reason:   "finished early",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)
	assert.True(t, fixed.Equal(*updated.CompletedAt))

	stored := h.mustTask(t, task.ID)
	assert.Equal(t, "Read chapter 1", stored.Title)
	assert.Equal(t, 4, stored.Priority)

	history, err := svc.History(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	byField := map[string]*domain.AuditEntry{}
	for _, e := range history {
		assert.Equal(t, domain.AuditUpdated, e.Action)
		assert.Equal(t, "finished early", e.Reason)
		byField[e.FieldName] = e
	}
	assert.Equal(t, "Read", byField["title"].OldValue)
	assert.Equal(t, "2", byField["priority"].OldValue)
	assert.Equal(t, "4", byField["priority"].NewValue)
	assert.Equal(t, "due", byField["status"].OldValue)
	assert.Equal(t, "completed", byField["status"].NewValue)
}

func TestTaskService_UpdateNoChangeWritesNothing(t *testing.T) {
	h := newHarness(t)
	svc := newTaskService(h)
	ctx := context.Background()
	task := h.seedTask(t, "Read", testutil.WithPriority(2))

	_, err := svc.Update(ctx, task.ID, TaskUpdate{Title: ptr("Read"), Priority: ptr(2)})
	require.NoError(t, err)

	history, err := svc.History(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestTaskService_UpdateRejectsInvalid(t *testing.T) {
	h := newHarness(t)
	svc := newTaskService(h)
	ctx := context.Background()
	task := h.seedTask(t, "Read", testutil.WithPriority(2))

	_, err := svc.Update(ctx, task.ID, TaskUpdate{Title: ptr("New"), Priority: ptr(7)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	bogus := domain.TaskStatus(4)
	_, err = svc.Update(ctx, task.ID, TaskUpdate{Status: &bogus})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Update(ctx, task.ID, TaskUpdate{Title: ptr("  ")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Equal(t, "Read", h.mustTask(t, task.ID).Title)

	_, err = svc.Update(ctx, "missing", TaskUpdate{Title: ptr("x")})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTaskService_Reschedule(t *testing.T) {
	h := newHarness(t)
	svc := newTaskService(h)
	ctx := context.Background()
	task := h.seedTask(t, "Read", testutil.WithScheduledDate(testutil.Date(2025, time.March, 3)))

	_, err := svc.Update(ctx, task.ID, TaskUpdate{ScheduledDate: ptr(testutil.Date(2025, time.March, 5))})
	require.NoError(t, err)

	history, err := svc.History(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "scheduled_date", history[0].FieldName)
	assert.Equal(t, "2025-03-03", history[0].OldValue)
	assert.Equal(t, "2025-03-05", history[0].NewValue)
}

func TestTaskService_DeleteAndHistoryMissing(t *testing.T) {
	h := newHarness(t)
	svc := newTaskService(h)
	ctx := context.Background()
	task := h.seedTask(t, "Read")

	require.NoError(t, svc.Delete(ctx, task.ID))
	_, err := svc.History(ctx, task.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
