package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aadipatodia/Scheduler/internal/db"
	"github.com/aadipatodia/Scheduler/internal/domain"
	"github.com/aadipatodia/Scheduler/internal/intelligence"
	"github.com/aadipatodia/Scheduler/internal/repository"
	"github.com/aadipatodia/Scheduler/internal/scheduler"
	"github.com/aadipatodia/Scheduler/internal/testutil"
)

// harness wires repositories over one in-memory database.
type harness struct {
	db       *sql.DB
	uow      db.UnitOfWork
	goals    *repository.SQLiteGoalRepo
	roadmaps *repository.SQLiteRoadmapRepo
	tasks    *repository.SQLiteTaskRepo
	audit    *repository.SQLiteAuditRepo
	logs     *repository.SQLiteRecalibrationRepo
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &harness{
		db:       database,
		uow:      testutil.NewTestUoW(database),
		goals:    repository.NewSQLiteGoalRepo(database),
		roadmaps: repository.NewSQLiteRoadmapRepo(database),
		tasks:    repository.NewSQLiteTaskRepo(database),
		audit:    repository.NewSQLiteAuditRepo(database),
		logs:     repository.NewSQLiteRecalibrationRepo(database),
	}
}

func (h *harness) seedGoal(t *testing.T, title string, opts ...testutil.GoalOption) *domain.Goal {
	t.Helper()
	g := testutil.NewTestGoal(title, opts...)
	require.NoError(t, h.goals.Create(context.Background(), g))
	return g
}

func (h *harness) seedRoadmap(t *testing.T, goalID string, opts ...testutil.RoadmapOption) *domain.Roadmap {
	t.Helper()
	rm := testutil.NewTestRoadmap(goalID, opts...)
	require.NoError(t, h.roadmaps.Create(context.Background(), rm))
	return rm
}

func (h *harness) seedTask(t *testing.T, title string, opts ...testutil.TaskOption) *domain.Task {
	t.Helper()
	task := testutil.NewTestTask(title, opts...)
	require.NoError(t, h.tasks.Create(context.Background(), task))
	return task
}

func (h *harness) mustTask(t *testing.T, id string) *domain.Task {
	t.Helper()
	task, err := h.tasks.GetByID(context.Background(), id)
	require.NoError(t, err)
	return task
}

// roadmapService builds the concrete service so tests can pin the clock.
func (h *harness) roadmapService(drafter intelligence.RoadmapService, gen scheduler.TextGenerator, now time.Time) *roadmapService {
	svc := NewRoadmapService(h.goals, h.roadmaps, h.uow, drafter, scheduler.NewPlanner(gen, zap.NewNop()), 0).(*roadmapService)
	svc.now = func() time.Time { return now }
	return svc
}

func (h *harness) recalibrationService(analyzer intelligence.MissedTaskAnalyzer, now time.Time) *recalibrationService {
	svc := NewRecalibrationService(h.goals, h.tasks, h.logs, h.uow, analyzer, zap.NewNop()).(*recalibrationService)
	svc.now = func() time.Time { return now }
	return svc
}

// stubDrafter returns a canned draft and records what it was asked.
type stubDrafter struct {
	draft    *intelligence.RoadmapDraft
	err      error
	requests []intelligence.RoadmapRequest
	feedback []string
}

func (d *stubDrafter) Generate(_ context.Context, req intelligence.RoadmapRequest) (*intelligence.RoadmapDraft, error) {
	d.requests = append(d.requests, req)
	if d.err != nil {
		return nil, d.err
	}
	return d.draft, nil
}

func (d *stubDrafter) Refine(_ context.Context, _ *domain.Roadmap, feedback string) (*intelligence.RoadmapDraft, error) {
	d.feedback = append(d.feedback, feedback)
	if d.err != nil {
		return nil, d.err
	}
	return d.draft, nil
}

// stubAnalyzer returns a canned analysis and records its inputs.
type stubAnalyzer struct {
	analysis *intelligence.MissedTaskAnalysis
	inputs   []intelligence.MissedTaskInput
}

func (a *stubAnalyzer) Analyze(_ context.Context, in intelligence.MissedTaskInput) *intelligence.MissedTaskAnalysis {
	a.inputs = append(a.inputs, in)
	if a.analysis == nil {
		return intelligence.DeterministicMissedAnalysis()
	}
	copied := *a.analysis
	return &copied
}

// generatorFunc adapts a function to scheduler.TextGenerator.
type generatorFunc func(ctx context.Context, prompt string) (string, error)

func (f generatorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func ptr[T any](v T) *T { return &v }
