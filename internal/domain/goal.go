package domain

import (
	"fmt"
	"strings"
	"time"
)

type Goal struct {
	ID          string
	Title       string
	Description string
	TargetDate  *time.Time
	Status      GoalStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the fields a goal must carry before it is stored.
func (g *Goal) Validate() error {
	title := strings.TrimSpace(g.Title)
	if title == "" {
		return fmt.Errorf("goal title is required")
	}
	if len(title) > 255 {
		return fmt.Errorf("goal title must be at most 255 characters")
	}
	if g.Status != "" && !ValidGoalStatuses[string(g.Status)] {
		return fmt.Errorf("invalid goal status %q", g.Status)
	}
	return nil
}

// ExtendTarget pushes the target date out by days. No-op without a target date.
func (g *Goal) ExtendTarget(days int, now time.Time) bool {
	if g.TargetDate == nil || days <= 0 {
		return false
	}
	extended := g.TargetDate.AddDate(0, 0, days)
	g.TargetDate = &extended
	g.UpdatedAt = now
	return true
}

// ShortID returns the first 8 characters of the ID for display.
func (g *Goal) ShortID() string {
	if len(g.ID) >= 8 {
		return g.ID[:8]
	}
	return g.ID
}
