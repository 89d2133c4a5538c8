package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/aadipatodia/Scheduler/internal/domain"
	"github.com/aadipatodia/Scheduler/internal/repository"
)

// resolveGoal finds a goal by full ID, unique ID prefix or exact title.
func resolveGoal(ctx context.Context, app *App, input string) (*domain.Goal, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("goal ID is required")
	}
	if g, err := app.Goals.GetByID(ctx, input); err == nil {
		return g, nil
	}

	goals, err := app.Goals.List(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, g := range goals {
		if strings.EqualFold(g.Title, input) {
			return g, nil
		}
	}
	var matches []*domain.Goal
	for _, g := range goals {
		if strings.HasPrefix(g.ID, strings.ToLower(input)) {
			matches = append(matches, g)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("goal %q: %w", input, repository.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("goal ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveTask finds a task by full ID or unique ID prefix.
func resolveTask(ctx context.Context, app *App, input string) (*domain.Task, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("task ID is required")
	}
	if t, err := app.Tasks.GetByID(ctx, input); err == nil {
		return t, nil
	}

	tasks, err := app.Tasks.List(ctx, repository.TaskFilter{})
	if err != nil {
		return nil, err
	}
	var matches []*domain.Task
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, strings.ToLower(input)) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("task %q: %w", input, repository.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("task ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
