package service

import (
	"context"
	"time"

	"github.com/aadipatodia/Scheduler/internal/domain"
	"github.com/aadipatodia/Scheduler/internal/importer"
	"github.com/aadipatodia/Scheduler/internal/repository"
	"github.com/aadipatodia/Scheduler/internal/scheduler"
)

type GoalService interface {
	Create(ctx context.Context, g *domain.Goal) error
	GetByID(ctx context.Context, id string) (*domain.Goal, error)
	List(ctx context.Context, status domain.GoalStatus) ([]*domain.Goal, error)
	Update(ctx context.Context, g *domain.Goal) error
	Delete(ctx context.Context, id string) error
}

// SchedulePreview is a computed but unsaved schedule for a goal's roadmap.
type SchedulePreview struct {
	Goal      *domain.Goal
	Roadmap   *domain.Roadmap
	StartDate time.Time
	TotalDays int
	Schedule  scheduler.Schedule
}

// Date returns the calendar date of a schedule day (1-based).
func (p *SchedulePreview) Date(day int) time.Time {
	return p.StartDate.AddDate(0, 0, day-1)
}

// ApprovalResult holds the outcome of approving a roadmap.
type ApprovalResult struct {
	Roadmap        *domain.Roadmap
	Tasks          []*domain.Task
	Replaced       int
	TotalDays      int
	Source         scheduler.ScheduleSource
	FallbackReason string
}

type RoadmapService interface {
	// Generate drafts a roadmap for a goal with the LLM and stores it unapproved.
	Generate(ctx context.Context, goalID, extraContext string) (*domain.Roadmap, error)
	// Refine revises a roadmap from feedback; the result needs re-approval.
	Refine(ctx context.Context, roadmapID, feedback string) (*domain.Roadmap, error)
	// ImportPhases stores phases from a JSON or YAML file as the goal's roadmap.
	ImportPhases(ctx context.Context, goalID, path string) (*domain.Roadmap, error)
	ImportPhaseFile(ctx context.Context, goalID string, file *importer.PhaseFile) (*domain.Roadmap, error)
	GetByID(ctx context.Context, id string) (*domain.Roadmap, error)
	GetByGoal(ctx context.Context, goalID string) (*domain.Roadmap, error)
	Preview(ctx context.Context, goalID string) (*SchedulePreview, error)
	Approve(ctx context.Context, roadmapID string) (*ApprovalResult, error)
}

// TaskUpdate lists the fields to change. Nil fields are left alone.
type TaskUpdate struct {
	Title         *string
	Description   *string
	Status        *domain.TaskStatus
	Priority      *int
	Category      *domain.TaskCategory
	ScheduledDate *time.Time
	Reason        string
}

// DayView is the task list for one calendar day.
type DayView struct {
	Date   time.Time
	Tasks  []*domain.Task
	Counts repository.TaskCounts
}

type TaskService interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter repository.TaskFilter) ([]*domain.Task, error)
	Today(ctx context.Context, date time.Time) (*DayView, error)
	Update(ctx context.Context, id string, upd TaskUpdate) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
	History(ctx context.Context, id string) ([]*domain.AuditEntry, error)
}

// GoalRecalibration is the outcome of recalibrating one goal.
type GoalRecalibration struct {
	GoalID  string
	Missed  int
	Boosted []string
	Log     *domain.RecalibrationLog
}

// SweepResult summarises one missed-task sweep.
type SweepResult struct {
	Marked int
	Goals  []GoalRecalibration
}

type RecalibrationService interface {
	// Sweep marks every due task scheduled before now's date as missed and
	// recalibrates each affected goal.
	Sweep(ctx context.Context, now time.Time) (*SweepResult, error)
	// RecalibrateGoal analyses all of a goal's missed tasks on demand.
	RecalibrateGoal(ctx context.Context, goalID string) (*GoalRecalibration, error)
	// RunDaily sweeps at every local midnight until ctx is done.
	RunDaily(ctx context.Context) error
	ListLogs(ctx context.Context, goalID string) ([]*domain.RecalibrationLog, error)
}

// GoalProgress is a goal with its task counts and risk assessment.
type GoalProgress struct {
	Goal   *domain.Goal
	Counts repository.TaskCounts
	Risk   scheduler.GoalRiskResult
}

// Overview aggregates progress across all goals.
type Overview struct {
	TotalGoals     int
	ActiveGoals    int
	CompletedGoals int
	Tasks          repository.TaskCounts
	CompletionRate float64
	Goals          []GoalProgress
}

type StatsService interface {
	Overview(ctx context.Context) (*Overview, error)
	GoalProgress(ctx context.Context, goalID string) (*GoalProgress, error)
}
