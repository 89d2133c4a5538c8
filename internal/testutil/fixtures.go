package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/aadipatodia/Scheduler/internal/domain"
)

// now truncates to seconds, matching the RFC3339 precision of stored timestamps.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// Date returns local midnight for the given calendar day.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// Goal options
type GoalOption func(*domain.Goal)

func WithTargetDate(d time.Time) GoalOption {
	return func(g *domain.Goal) {
		g.TargetDate = &d
	}
}

func WithGoalStatus(s domain.GoalStatus) GoalOption {
	return func(g *domain.Goal) {
		g.Status = s
	}
}

func WithGoalDescription(desc string) GoalOption {
	return func(g *domain.Goal) {
		g.Description = desc
	}
}

func WithGoalCreatedAt(t time.Time) GoalOption {
	return func(g *domain.Goal) {
		g.CreatedAt = t
		g.UpdatedAt = t
	}
}

func NewTestGoal(title string, opts ...GoalOption) *domain.Goal {
	ts := now()
	g := &domain.Goal{
		ID:        uuid.New().String(),
		Title:     title,
		Status:    domain.GoalActive,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Roadmap options
type RoadmapOption func(*domain.Roadmap)

func WithPhases(phases ...domain.Phase) RoadmapOption {
	return func(r *domain.Roadmap) {
		r.Phases = phases
	}
}

func WithApproved(at time.Time) RoadmapOption {
	return func(r *domain.Roadmap) {
		r.Approved = true
		r.ApprovedAt = &at
	}
}

// SamplePhases is a three-phase roadmap: 2 weeks, 1 month, then an
// unparseable timeline.
func SamplePhases() []domain.Phase {
	return []domain.Phase{
		{Title: "Foundations", Timeline: "2 Weeks", Goal: "Learn the basics", Tasks: []string{"Syntax", "Types"}},
		{Title: "Projects", Timeline: "1 Month", Goal: "Build things", Tasks: []string{"CLI tool", "Web service"}},
		{Title: "Polish", Timeline: "when ready", Goal: "Ship it", Tasks: []string{"Portfolio"}},
	}
}

func NewTestRoadmap(goalID string, opts ...RoadmapOption) *domain.Roadmap {
	ts := now()
	r := &domain.Roadmap{
		ID:        uuid.New().String(),
		GoalID:    goalID,
		Text:      "## Roadmap",
		Phases:    SamplePhases(),
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Task options
type TaskOption func(*domain.Task)

func WithGoal(goalID string) TaskOption {
	return func(t *domain.Task) {
		t.GoalID = &goalID
	}
}

func WithScheduledDate(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.ScheduledDate = &d
	}
}

func WithTaskStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithPriority(p int) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func WithCategory(c domain.TaskCategory) TaskOption {
	return func(t *domain.Task) {
		t.Category = c
	}
}

// WithSchedule marks the task as generated from a roadmap phase.
func WithSchedule(roadmapID string, phaseIndex int) TaskOption {
	return func(t *domain.Task) {
		t.RoadmapID = &roadmapID
		t.PhaseIndex = &phaseIndex
		t.Source = domain.SourceSchedule
	}
}

func NewTestTask(title string, opts ...TaskOption) *domain.Task {
	ts := now()
	t := &domain.Task{
		ID:        uuid.New().String(),
		Title:     title,
		Category:  domain.CategoryDaily,
		Status:    domain.TaskDue,
		Priority:  3,
		Source:    domain.SourceManual,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}
