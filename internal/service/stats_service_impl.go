package service

import (
	"context"
	"time"

	"github.com/aadipatodia/Scheduler/internal/domain"
	"github.com/aadipatodia/Scheduler/internal/repository"
	"github.com/aadipatodia/Scheduler/internal/scheduler"
)

type statsService struct {
	goals repository.GoalRepo
	tasks repository.TaskRepo
	now   func() time.Time
}

func NewStatsService(goals repository.GoalRepo, tasks repository.TaskRepo) StatsService {
	return &statsService{goals: goals, tasks: tasks, now: time.Now}
}

func (s *statsService) Overview(ctx context.Context) (*Overview, error) {
	goals, err := s.goals.List(ctx, "")
	if err != nil {
		return nil, err
	}
	counts, err := s.tasks.Count(ctx, "")
	if err != nil {
		return nil, err
	}

	now := s.now()
	ov := &Overview{TotalGoals: len(goals), Tasks: counts}
	if counts.Total > 0 {
		ov.CompletionRate = float64(counts.Completed) / float64(counts.Total) * 100
	}
	for _, g := range goals {
		switch g.Status {
		case domain.GoalActive:
			ov.ActiveGoals++
		case domain.GoalCompleted:
			ov.CompletedGoals++
		}
		gp, err := s.progress(ctx, g, now)
		if err != nil {
			return nil, err
		}
		ov.Goals = append(ov.Goals, *gp)
	}
	return ov, nil
}

func (s *statsService) GoalProgress(ctx context.Context, goalID string) (*GoalProgress, error) {
	g, err := s.goals.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	return s.progress(ctx, g, s.now())
}

func (s *statsService) progress(ctx context.Context, g *domain.Goal, now time.Time) (*GoalProgress, error) {
	counts, err := s.tasks.Count(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	risk := scheduler.ComputeGoalRisk(scheduler.GoalRiskInput{
		Now:        now,
		StartedAt:  g.CreatedAt,
		TargetDate: g.TargetDate,
		Total:      counts.Total,
		Completed:  counts.Completed,
		Missed:     counts.Missed,
	})
	return &GoalProgress{Goal: g, Counts: counts, Risk: risk}, nil
}
