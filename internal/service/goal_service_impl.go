package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aadipatodia/Scheduler/internal/domain"
	"github.com/aadipatodia/Scheduler/internal/repository"
)

type goalService struct {
	goals repository.GoalRepo
	now   func() time.Time
}

func NewGoalService(goals repository.GoalRepo) GoalService {
	return &goalService{goals: goals, now: time.Now}
}

func (s *goalService) Create(ctx context.Context, g *domain.Goal) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	g.Title = strings.TrimSpace(g.Title)
	g.Description = strings.TrimSpace(g.Description)
	if g.Status == "" {
		g.Status = domain.GoalActive
	}
	if err := g.Validate(); err != nil {
		return invalid(err)
	}
	now := s.now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now
	return s.goals.Create(ctx, g)
}

func (s *goalService) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	return s.goals.GetByID(ctx, id)
}

func (s *goalService) List(ctx context.Context, status domain.GoalStatus) ([]*domain.Goal, error) {
	if status != "" && !domain.ValidGoalStatuses[string(status)] {
		return nil, invalid(fmt.Errorf("unknown goal status %q", status))
	}
	return s.goals.List(ctx, status)
}

func (s *goalService) Update(ctx context.Context, g *domain.Goal) error {
	g.Title = strings.TrimSpace(g.Title)
	if err := g.Validate(); err != nil {
		return invalid(err)
	}
	g.UpdatedAt = s.now().UTC()
	return s.goals.Update(ctx, g)
}

func (s *goalService) Delete(ctx context.Context, id string) error {
	return s.goals.Delete(ctx, id)
}
