package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aadipatodia/Scheduler/internal/db"
	"github.com/aadipatodia/Scheduler/internal/domain"
	"github.com/aadipatodia/Scheduler/internal/intelligence"
	"github.com/aadipatodia/Scheduler/internal/repository"
)

const (
	// maxPriorityBoosts limits how many suggested tasks are bumped per run.
	maxPriorityBoosts = 5
	// priorityMatchPrefix is how much of a suggested title must appear in a
	// task title for it to match.
	priorityMatchPrefix = 50
)

type recalibrationService struct {
	goals    repository.GoalRepo
	tasks    repository.TaskRepo
	logs     repository.RecalibrationRepo
	uow      db.UnitOfWork
	analyzer intelligence.MissedTaskAnalyzer
	log      *zap.Logger
	observer UseCaseObserver
	now      func() time.Time
}

func NewRecalibrationService(
	goals repository.GoalRepo,
	tasks repository.TaskRepo,
	logs repository.RecalibrationRepo,
	uow db.UnitOfWork,
	analyzer intelligence.MissedTaskAnalyzer,
	log *zap.Logger,
	observers ...UseCaseObserver,
) RecalibrationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &recalibrationService{
		goals:    goals,
		tasks:    tasks,
		logs:     logs,
		uow:      uow,
		analyzer: analyzer,
		log:      log.Named("recalibration"),
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
	}
}

func (s *recalibrationService) Sweep(ctx context.Context, now time.Time) (res *SweepResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"day": localDay(now).Format("2006-01-02")}
	defer observe(ctx, s.observer, "missed-task-sweep", startedAt, fields, &err)

	overdue, err := s.tasks.ListOverdue(ctx, localDay(now))
	if err != nil {
		return nil, err
	}
	res = &SweepResult{}
	if len(overdue) == 0 {
		return res, nil
	}

	ts := now.UTC()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txAudit := repository.NewSQLiteAuditRepo(tx)
		for _, t := range overdue {
			t.SetStatus(domain.TaskMissed, ts)
			if err := txTasks.Update(ctx, t); err != nil {
				return err
			}
			entry := newAuditEntry(t.ID, domain.AuditMissed, "status", domain.TaskDue.String(), domain.TaskMissed.String(), "scheduled date passed", ts)
			if err := txAudit.Create(ctx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Marked = len(overdue)
	fields["marked"] = res.Marked

	var order []string
	byGoal := make(map[string][]*domain.Task)
	for _, t := range overdue {
		if t.GoalID == nil {
			continue
		}
		if _, seen := byGoal[*t.GoalID]; !seen {
			order = append(order, *t.GoalID)
		}
		byGoal[*t.GoalID] = append(byGoal[*t.GoalID], t)
	}

	for _, goalID := range order {
		rec, err := s.recalibrate(ctx, goalID, byGoal[goalID], now)
		if err != nil {
			s.log.Warn("goal recalibration failed", zap.String("goal_id", goalID), zap.Error(err))
			continue
		}
		res.Goals = append(res.Goals, *rec)
	}
	fields["goals"] = len(res.Goals)
	return res, nil
}

func (s *recalibrationService) RecalibrateGoal(ctx context.Context, goalID string) (rec *GoalRecalibration, err error) {
	startedAt := time.Now()
	fields := map[string]any{"goal_id": goalID}
	defer observe(ctx, s.observer, "recalibrate-goal", startedAt, fields, &err)

	if _, err := s.goals.GetByID(ctx, goalID); err != nil {
		return nil, err
	}
	missedStatus := domain.TaskMissed
	missed, err := s.tasks.List(ctx, repository.TaskFilter{GoalID: goalID, Status: &missedStatus})
	if err != nil {
		return nil, err
	}
	fields["missed"] = len(missed)
	if len(missed) == 0 {
		return &GoalRecalibration{GoalID: goalID}, nil
	}
	return s.recalibrate(ctx, goalID, missed, s.now())
}

func (s *recalibrationService) recalibrate(ctx context.Context, goalID string, missed []*domain.Task, now time.Time) (*GoalRecalibration, error) {
	goal, err := s.goals.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}

	titles := make([]string, len(missed))
	ids := make([]string, len(missed))
	for i, t := range missed {
		titles[i] = t.Title
		ids[i] = t.ID
	}
	analysis := s.analyzer.Analyze(ctx, intelligence.MissedTaskInput{
		GoalTitle:       goal.Title,
		GoalDescription: goal.Description,
		DaysRemaining:   daysUntil(now, goal.TargetDate),
		MissedTitles:    titles,
	})

	ts := now.UTC()
	rec := &GoalRecalibration{GoalID: goalID, Missed: len(missed)}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txGoals := repository.NewSQLiteGoalRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)

		applied := 0
		if adj := analysis.AdjustmentDays(); adj > 0 {
			g, err := txGoals.GetByID(ctx, goalID)
			if err != nil {
				return err
			}
			if g.ExtendTarget(adj, ts) {
				if err := txGoals.Update(ctx, g); err != nil {
					return err
				}
				applied = adj
			}
		}

		boosted, err := boostPriorities(ctx, txTasks, goalID, analysis.PriorityTasks, ts)
		if err != nil {
			return err
		}
		rec.Boosted = boosted

		entry := &domain.RecalibrationLog{
			ID:              uuid.New().String(),
			GoalID:          goalID,
			Reason:          missedReason(len(missed)),
			Severity:        analysis.Severity,
			Recommendations: analysis.Recommendations,
			TasksAffected:   ids,
			AdjustmentDays:  applied,
			Motivation:      analysis.MotivationMessage,
			UsedFallback:    analysis.UsedFallback,
			CreatedAt:       ts,
		}
		if err := repository.NewSQLiteRecalibrationRepo(tx).Create(ctx, entry); err != nil {
			return err
		}
		rec.Log = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("goal recalibrated",
		zap.String("goal_id", goalID),
		zap.Int("missed", len(missed)),
		zap.String("severity", string(analysis.Severity)),
		zap.Int("adjustment_days", rec.Log.AdjustmentDays),
		zap.Int("boosted", len(rec.Boosted)),
		zap.Bool("fallback", analysis.UsedFallback),
	)
	return rec, nil
}

// boostPriorities raises by one the priority of the first pending task whose
// title contains each suggested title's prefix, case-insensitively. Each task
// is considered at most once.
func boostPriorities(ctx context.Context, tasks repository.TaskRepo, goalID string, suggested []string, now time.Time) ([]string, error) {
	if len(suggested) == 0 {
		return nil, nil
	}
	due := domain.TaskDue
	pending, err := tasks.List(ctx, repository.TaskFilter{GoalID: goalID, Status: &due})
	if err != nil {
		return nil, err
	}

	var boosted []string
	considered := make(map[string]bool)
	for i, title := range suggested {
		if i == maxPriorityBoosts {
			break
		}
		needle := strings.ToLower(titlePrefix(title, priorityMatchPrefix))
		if needle == "" {
			continue
		}
		for _, t := range pending {
			if considered[t.ID] || !strings.Contains(strings.ToLower(t.Title), needle) {
				continue
			}
			considered[t.ID] = true
			if t.BoostPriority(now) {
				if err := tasks.Update(ctx, t); err != nil {
					return nil, err
				}
				boosted = append(boosted, t.ID)
			}
			break
		}
	}
	return boosted, nil
}

func missedReason(n int) string {
	if n == 1 {
		return "Missed 1 task"
	}
	return fmt.Sprintf("Missed %d tasks", n)
}

func (s *recalibrationService) RunDaily(ctx context.Context) error {
	s.log.Info("daily recalibration loop started")
	for {
		timer := time.NewTimer(untilNextMidnight(s.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("daily recalibration loop stopped")
			return nil
		case <-timer.C:
		}

		res, err := s.Sweep(ctx, s.now())
		if err != nil {
			s.log.Error("daily sweep failed", zap.Error(err))
			continue
		}
		s.log.Info("daily sweep finished", zap.Int("marked", res.Marked), zap.Int("goals", len(res.Goals)))
	}
}

// untilNextMidnight is the wait from now until the next local midnight.
func untilNextMidnight(now time.Time) time.Duration {
	local := now.Local()
	return domain.StartOfDay(local).AddDate(0, 0, 1).Sub(local)
}

func (s *recalibrationService) ListLogs(ctx context.Context, goalID string) ([]*domain.RecalibrationLog, error) {
	return s.logs.ListByGoal(ctx, goalID)
}
