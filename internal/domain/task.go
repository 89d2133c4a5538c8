package domain

import (
	"fmt"
	"time"
)

type Task struct {
	ID            string
	GoalID        *string
	RoadmapID     *string
	PhaseIndex    *int
	Title         string
	Description   string
	Category      TaskCategory
	Status        TaskStatus
	Priority      int
	Source        TaskSource
	ScheduledDate *time.Time
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks user-editable fields.
func (t *Task) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("task title is required")
	}
	if t.Priority < MinPriority || t.Priority > MaxPriority {
		return fmt.Errorf("priority must be between %d and %d, got %d", MinPriority, MaxPriority, t.Priority)
	}
	if t.Category != "" && !ValidTaskCategories[string(t.Category)] {
		return fmt.Errorf("invalid category %q (expected daily, weekly or milestone)", t.Category)
	}
	return nil
}

// SetStatus transitions the task and maintains CompletedAt.
func (t *Task) SetStatus(s TaskStatus, now time.Time) {
	if s == TaskCompleted && t.Status != TaskCompleted {
		t.CompletedAt = &now
	}
	if s != TaskCompleted {
		t.CompletedAt = nil
	}
	t.Status = s
	t.UpdatedAt = now
}

// IsOverdue reports whether a due task was scheduled before the start of today.
func (t *Task) IsOverdue(today time.Time) bool {
	if t.Status != TaskDue || t.ScheduledDate == nil {
		return false
	}
	return t.ScheduledDate.Before(StartOfDay(today))
}

// BoostPriority raises priority by one, capped at MaxPriority.
func (t *Task) BoostPriority(now time.Time) bool {
	if t.Priority >= MaxPriority {
		return false
	}
	t.Priority++
	t.UpdatedAt = now
	return true
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
