package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/aadipatodia/Scheduler/internal/domain"
	"github.com/aadipatodia/Scheduler/internal/intelligence"
	"github.com/aadipatodia/Scheduler/internal/repository"
	"github.com/aadipatodia/Scheduler/internal/testutil"
)

var sweepNow = time.Date(2025, time.March, 10, 0, 5, 0, 0, time.Local)

func TestSweep_MarksOverdueAndRecalibrates(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	target := testutil.Date(2025, time.April, 30)
	goal := h.seedGoal(t, "Learn Go", testutil.WithTargetDate(target))
	yesterday := testutil.Date(2025, time.March, 9)

	missedA := h.seedTask(t, "Study: Syntax", testutil.WithGoal(goal.ID), testutil.WithScheduledDate(yesterday))
	missedB := h.seedTask(t, "Practice: Syntax", testutil.WithGoal(goal.ID), testutil.WithScheduledDate(yesterday.AddDate(0, 0, -2)))
	doneOld := h.seedTask(t, "Review: Syntax", testutil.WithGoal(goal.ID), testutil.WithScheduledDate(yesterday), testutil.WithTaskStatus(domain.TaskCompleted))
	upcoming := h.seedTask(t, "Study: Types in depth", testutil.WithGoal(goal.ID), testutil.WithScheduledDate(testutil.Date(2025, time.March, 12)), testutil.WithPriority(3))
	today := h.seedTask(t, "Today's task", testutil.WithGoal(goal.ID), testutil.WithScheduledDate(testutil.Date(2025, time.March, 10)))
	loose := h.seedTask(t, "Loose end", testutil.WithScheduledDate(yesterday))

	analyzer := &stubAnalyzer{analysis: &intelligence.MissedTaskAnalysis{
		Severity:                 domain.SeverityHigh,
		Recommendations:          []string{"Cut scope"},
		TimelineAdjustmentNeeded: true,
		SuggestedAdjustmentDays:  5,
		PriorityTasks:            []string{"study: types"},
		MotivationMessage:        "Onwards",
	}}
	svc := h.recalibrationService(analyzer, sweepNow)

	res, err := svc.Sweep(ctx, sweepNow)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Marked)
	for _, id := range []string{missedA.ID, missedB.ID, loose.ID} {
		assert.Equal(t, domain.TaskMissed, h.mustTask(t, id).Status)
	}
	assert.Equal(t, domain.TaskCompleted, h.mustTask(t, doneOld.ID).Status)
	assert.Equal(t, domain.TaskDue, h.mustTask(t, today.ID).Status)

	require.Len(t, analyzer.inputs, 1)
	in := analyzer.inputs[0]
	assert.Equal(t, "Learn Go", in.GoalTitle)
	assert.Equal(t, 51, in.DaysRemaining)
	assert.ElementsMatch(t, []string{"Study: Syntax", "Practice: Syntax"}, in.MissedTitles)

	require.Len(t, res.Goals, 1)
	rec := res.Goals[0]
	assert.Equal(t, 2, rec.Missed)
	assert.Equal(t, []string{upcoming.ID}, rec.Boosted)
	assert.Equal(t, 4, h.mustTask(t, upcoming.ID).Priority)

	storedGoal, err := h.goals.GetByID(ctx, goal.ID)
	require.NoError(t, err)
	assert.True(t, target.AddDate(0, 0, 5).Equal(*storedGoal.TargetDate))

	logs, err := svc.ListLogs(ctx, goal.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Missed 2 tasks", logs[0].Reason)
	assert.Equal(t, domain.SeverityHigh, logs[0].Severity)
	assert.Equal(t, 5, logs[0].AdjustmentDays)
	assert.Equal(t, "Onwards", logs[0].Motivation)
	assert.ElementsMatch(t, []string{missedA.ID, missedB.ID}, logs[0].TasksAffected)
	assert.False(t, logs[0].UsedFallback)

	audit, err := h.audit.ListByTask(ctx, missedA.ID)
	require.NoError(t, err)
	require.Len(t, audit, 1)
	assert.Equal(t, domain.AuditMissed, audit[0].Action)
}

func TestSweep_NothingOverdue(t *testing.T) {
	h := newHarness(t)
	goal := h.seedGoal(t, "Learn Go")
	h.seedTask(t, "later", testutil.WithGoal(goal.ID), testutil.WithScheduledDate(testutil.Date(2025, time.March, 20)))
	analyzer := &stubAnalyzer{}
	svc := h.recalibrationService(analyzer, sweepNow)

	res, err := svc.Sweep(context.Background(), sweepNow)
	require.NoError(t, err)
	assert.Zero(t, res.Marked)
	assert.Empty(t, res.Goals)
	assert.Empty(t, analyzer.inputs)
}

func TestSweep_FallbackAnalysisKeepsDeadline(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	target := testutil.Date(2025, time.April, 30)
	goal := h.seedGoal(t, "Learn Go", testutil.WithTargetDate(target))
	h.seedTask(t, "old", testutil.WithGoal(goal.ID), testutil.WithScheduledDate(testutil.Date(2025, time.March, 1)))
	svc := h.recalibrationService(&stubAnalyzer{}, sweepNow)

	res, err := svc.Sweep(ctx, sweepNow)
	require.NoError(t, err)
	require.Len(t, res.Goals, 1)
	assert.True(t, res.Goals[0].Log.UsedFallback)
	assert.Equal(t, domain.SeverityMedium, res.Goals[0].Log.Severity)
	assert.Equal(t, "Missed 1 task", res.Goals[0].Log.Reason)

	storedGoal, err := h.goals.GetByID(ctx, goal.ID)
	require.NoError(t, err)
	assert.True(t, target.Equal(*storedGoal.TargetDate))
}

func TestRecalibrate_NoTargetDateIgnoresAdjustment(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	goal := h.seedGoal(t, "Learn Go")
	h.seedTask(t, "gone", testutil.WithGoal(goal.ID), testutil.WithTaskStatus(domain.TaskMissed))
	analyzer := &stubAnalyzer{analysis: &intelligence.MissedTaskAnalysis{
		Severity: domain.SeverityLow, TimelineAdjustmentNeeded: true, SuggestedAdjustmentDays: 10,
	}}
	svc := h.recalibrationService(analyzer, sweepNow)

	rec, err := svc.RecalibrateGoal(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Missed)
	assert.Equal(t, 0, rec.Log.AdjustmentDays)
	assert.Equal(t, defaultDaysRemaining, analyzer.inputs[0].DaysRemaining)

	storedGoal, err := h.goals.GetByID(ctx, goal.ID)
	require.NoError(t, err)
	assert.Nil(t, storedGoal.TargetDate)
}

func TestRecalibrateGoal_NoMissedTasks(t *testing.T) {
	h := newHarness(t)
	goal := h.seedGoal(t, "Learn Go")
	analyzer := &stubAnalyzer{}
	svc := h.recalibrationService(analyzer, sweepNow)

	rec, err := svc.RecalibrateGoal(context.Background(), goal.ID)
	require.NoError(t, err)
	assert.Zero(t, rec.Missed)
	assert.Nil(t, rec.Log)
	assert.Empty(t, analyzer.inputs)

	_, err = svc.RecalibrateGoal(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBoostPriorities(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	goal := h.seedGoal(t, "Learn Go")
	now := time.Now().UTC().Truncate(time.Second)

	capped := h.seedTask(t, "Study: Maps", testutil.WithGoal(goal.ID), testutil.WithPriority(5), testutil.WithScheduledDate(testutil.Date(2025, 3, 1)))
	maps2 := h.seedTask(t, "Practice: Maps", testutil.WithGoal(goal.ID), testutil.WithPriority(2), testutil.WithScheduledDate(testutil.Date(2025, 3, 2)))
	var many []*domain.Task
	for i := 0; i < 7; i++ {
		many = append(many, h.seedTask(t, "Chapter "+string(rune('A'+i)), testutil.WithGoal(goal.ID), testutil.WithPriority(1), testutil.WithScheduledDate(testutil.Date(2025, 3, 3+i))))
	}
	h.seedTask(t, "Missed maps", testutil.WithGoal(goal.ID), testutil.WithTaskStatus(domain.TaskMissed))

	boosted, err := boostPriorities(ctx, h.tasks, goal.ID, []string{"MAPS", "maps"}, now)
	require.NoError(t, err)
	assert.Equal(t, []string{maps2.ID}, boosted, "first match is at max priority; the second suggestion moves on")
	assert.Equal(t, 5, h.mustTask(t, capped.ID).Priority)
	assert.Equal(t, 3, h.mustTask(t, maps2.ID).Priority)

	boosted, err = boostPriorities(ctx, h.tasks, goal.ID, []string{"Chapter", "Chapter", "Chapter", "Chapter", "Chapter", "Chapter", "Chapter"}, now)
	require.NoError(t, err)
	assert.Len(t, boosted, maxPriorityBoosts)
	assert.Equal(t, 2, h.mustTask(t, many[4].ID).Priority)
	assert.Equal(t, 1, h.mustTask(t, many[5].ID).Priority)
}

func TestTitlePrefixMatchesFirstFiftyRunes(t *testing.T) {
	long := "Build a production-ready REST API with authentication and rate limiting"
	assert.Equal(t, 50, len([]rune(titlePrefix(long, priorityMatchPrefix))))
	assert.Equal(t, "short", titlePrefix("  short ", priorityMatchPrefix))
}

func TestUntilNextMidnight(t *testing.T) {
	now := time.Date(2025, time.March, 10, 23, 0, 0, 0, time.Local)
	assert.Equal(t, time.Hour, untilNextMidnight(now))
}

func TestRunDaily_StopsOnCancel(t *testing.T) {
	h := newHarness(t)
	svc := h.recalibrationService(&stubAnalyzer{}, sweepNow)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.RunDaily(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("RunDaily did not stop after cancel")
	}
}

func TestRunDaily_SweepsAtMidnight(t *testing.T) {
	h := newHarness(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	goal := h.seedGoal(t, "Learn Go")
	task := h.seedTask(t, "old", testutil.WithGoal(goal.ID), testutil.WithScheduledDate(testutil.Date(2025, time.March, 1)))

	justBeforeMidnight := time.Date(2025, time.March, 9, 23, 59, 59, int(990*time.Millisecond), time.Local)
	svc := h.recalibrationService(&stubAnalyzer{}, justBeforeMidnight)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.RunDaily(ctx) }()

	require.Eventually(t, func() bool {
		got, err := h.tasks.GetByID(context.Background(), task.ID)
		return err == nil && got.Status == domain.TaskMissed
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("RunDaily did not stop after cancel")
	}
}
