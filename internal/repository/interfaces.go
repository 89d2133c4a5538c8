package repository

import (
	"context"
	"time"

	"github.com/aadipatodia/Scheduler/internal/domain"
)

type GoalRepo interface {
	Create(ctx context.Context, g *domain.Goal) error
	GetByID(ctx context.Context, id string) (*domain.Goal, error)
	// List returns goals with the given status, or all goals when status is empty.
	List(ctx context.Context, status domain.GoalStatus) ([]*domain.Goal, error)
	Update(ctx context.Context, g *domain.Goal) error
	Delete(ctx context.Context, id string) error
}

type RoadmapRepo interface {
	Create(ctx context.Context, r *domain.Roadmap) error
	GetByID(ctx context.Context, id string) (*domain.Roadmap, error)
	GetByGoal(ctx context.Context, goalID string) (*domain.Roadmap, error)
	Update(ctx context.Context, r *domain.Roadmap) error
}

// TaskFilter narrows List. Zero fields do not filter.
type TaskFilter struct {
	GoalID string
	Status *domain.TaskStatus
	Source domain.TaskSource
	// From and To bound scheduled_date inclusively (calendar days).
	From *time.Time
	To   *time.Time
}

// TaskCounts summarises tasks by status.
type TaskCounts struct {
	Total     int
	Completed int
	Due       int
	Missed    int
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, f TaskFilter) ([]*domain.Task, error)
	// ListOverdue returns due tasks scheduled before the given day.
	ListOverdue(ctx context.Context, before time.Time) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
	// DeletePendingScheduled removes a goal's generated tasks that are still due.
	DeletePendingScheduled(ctx context.Context, goalID string) (int, error)
	Count(ctx context.Context, goalID string) (TaskCounts, error)
}

type AuditRepo interface {
	Create(ctx context.Context, e *domain.AuditEntry) error
	ListByTask(ctx context.Context, taskID string) ([]*domain.AuditEntry, error)
}

type RecalibrationRepo interface {
	Create(ctx context.Context, l *domain.RecalibrationLog) error
	ListByGoal(ctx context.Context, goalID string) ([]*domain.RecalibrationLog, error)
}
