package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aadipatodia/Scheduler/internal/db"
	"github.com/aadipatodia/Scheduler/internal/domain"
	"github.com/aadipatodia/Scheduler/internal/repository"
)

type taskService struct {
	tasks repository.TaskRepo
	goals repository.GoalRepo
	audit repository.AuditRepo
	uow   db.UnitOfWork
	now   func() time.Time
}

func NewTaskService(tasks repository.TaskRepo, goals repository.GoalRepo, audit repository.AuditRepo, uow db.UnitOfWork) TaskService {
	return &taskService{tasks: tasks, goals: goals, audit: audit, uow: uow, now: time.Now}
}

func (s *taskService) Create(ctx context.Context, t *domain.Task) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	t.Title = strings.TrimSpace(t.Title)
	if t.Category == "" {
		t.Category = domain.CategoryDaily
	}
	if t.Source == "" {
		t.Source = domain.SourceManual
	}
	if err := t.Validate(); err != nil {
		return invalid(err)
	}
	if t.GoalID != nil {
		if _, err := s.goals.GetByID(ctx, *t.GoalID); err != nil {
			return err
		}
	}
	if t.ScheduledDate != nil {
		d := localDay(*t.ScheduledDate)
		t.ScheduledDate = &d
	}

	now := s.now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == domain.TaskCompleted {
		t.CompletedAt = &now
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteTaskRepo(tx).Create(ctx, t); err != nil {
			return err
		}
		entry := newAuditEntry(t.ID, domain.AuditCreated, "", "", "", "", now)
		return repository.NewSQLiteAuditRepo(tx).Create(ctx, entry)
	})
}

func (s *taskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *taskService) List(ctx context.Context, filter repository.TaskFilter) ([]*domain.Task, error) {
	return s.tasks.List(ctx, filter)
}

func (s *taskService) Today(ctx context.Context, date time.Time) (*DayView, error) {
	day := localDay(date)
	tasks, err := s.tasks.List(ctx, repository.TaskFilter{From: &day, To: &day})
	if err != nil {
		return nil, err
	}

	view := &DayView{Date: day, Tasks: tasks}
	for _, t := range tasks {
		view.Counts.Total++
		switch t.Status {
		case domain.TaskCompleted:
			view.Counts.Completed++
		case domain.TaskDue:
			view.Counts.Due++
		case domain.TaskMissed:
			view.Counts.Missed++
		}
	}
	return view, nil
}

type fieldChange struct {
	field, from, to string
}

func (s *taskService) Update(ctx context.Context, id string, upd TaskUpdate) (*domain.Task, error) {
	var updated *domain.Task
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		t, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		changes, err := applyTaskUpdate(t, upd, now)
		if err != nil {
			return err
		}
		updated = t
		if len(changes) == 0 {
			return nil
		}

		t.UpdatedAt = now
		if err := txTasks.Update(ctx, t); err != nil {
			return err
		}
		txAudit := repository.NewSQLiteAuditRepo(tx)
		for _, c := range changes {
			if err := txAudit.Create(ctx, newAuditEntry(t.ID, domain.AuditUpdated, c.field, c.from, c.to, upd.Reason, now)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// applyTaskUpdate mutates t and returns one change per field whose value
// actually differs.
func applyTaskUpdate(t *domain.Task, upd TaskUpdate, now time.Time) ([]fieldChange, error) {
	var changes []fieldChange
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return nil, invalid(errors.New("task title is required"))
		}
		if title != t.Title {
			changes = append(changes, fieldChange{"title", t.Title, title})
			t.Title = title
		}
	}
	if upd.Description != nil && *upd.Description != t.Description {
		changes = append(changes, fieldChange{"description", t.Description, *upd.Description})
		t.Description = *upd.Description
	}
	if upd.Priority != nil && *upd.Priority != t.Priority {
		if *upd.Priority < domain.MinPriority || *upd.Priority > domain.MaxPriority {
			return nil, invalid(errors.New("priority must be between 0 and 5"))
		}
		changes = append(changes, fieldChange{"priority", strconv.Itoa(t.Priority), strconv.Itoa(*upd.Priority)})
		t.Priority = *upd.Priority
	}
	if upd.Category != nil && *upd.Category != t.Category {
		if !domain.ValidTaskCategories[string(*upd.Category)] {
			return nil, invalid(errors.New("category must be daily, weekly or milestone"))
		}
		changes = append(changes, fieldChange{"category", string(t.Category), string(*upd.Category)})
		t.Category = *upd.Category
	}
	if upd.ScheduledDate != nil {
		d := localDay(*upd.ScheduledDate)
		if t.ScheduledDate == nil || !t.ScheduledDate.Equal(d) {
			changes = append(changes, fieldChange{"scheduled_date", formatDate(t.ScheduledDate), formatDate(&d)})
			t.ScheduledDate = &d
		}
	}
	if upd.Status != nil && *upd.Status != t.Status {
		if upd.Status.String() == "unknown" {
			return nil, invalid(errors.New("status must be missed, due or completed"))
		}
		changes = append(changes, fieldChange{"status", t.Status.String(), upd.Status.String()})
		t.SetStatus(*upd.Status, now)
	}
	return changes, nil
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	return s.tasks.Delete(ctx, id)
}

func (s *taskService) History(ctx context.Context, id string) ([]*domain.AuditEntry, error) {
	if _, err := s.tasks.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.audit.ListByTask(ctx, id)
}
