package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aadipatodia/Scheduler/internal/db"
	"github.com/aadipatodia/Scheduler/internal/domain"
	"github.com/aadipatodia/Scheduler/internal/importer"
	"github.com/aadipatodia/Scheduler/internal/intelligence"
	"github.com/aadipatodia/Scheduler/internal/repository"
	"github.com/aadipatodia/Scheduler/internal/scheduler"
)

type roadmapService struct {
	goals        repository.GoalRepo
	roadmaps     repository.RoadmapRepo
	uow          db.UnitOfWork
	drafter      intelligence.RoadmapService
	planner      *scheduler.Planner
	daysPerPhase int
	observer     UseCaseObserver
	now          func() time.Time
}

func NewRoadmapService(
	goals repository.GoalRepo,
	roadmaps repository.RoadmapRepo,
	uow db.UnitOfWork,
	drafter intelligence.RoadmapService,
	planner *scheduler.Planner,
	daysPerPhase int,
	observers ...UseCaseObserver,
) RoadmapService {
	return &roadmapService{
		goals:        goals,
		roadmaps:     roadmaps,
		uow:          uow,
		drafter:      drafter,
		planner:      planner,
		daysPerPhase: daysPerPhase,
		observer:     useCaseObserverOrNoop(observers),
		now:          time.Now,
	}
}

func (s *roadmapService) Generate(ctx context.Context, goalID, extraContext string) (rm *domain.Roadmap, err error) {
	startedAt := time.Now()
	fields := map[string]any{"goal_id": goalID}
	defer observe(ctx, s.observer, "generate-roadmap", startedAt, fields, &err)

	goal, err := s.goals.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	existing, err := s.existingRoadmap(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Approved {
		return nil, ErrRoadmapAlreadyApproved
	}

	draft, err := s.drafter.Generate(ctx, intelligence.RoadmapRequest{
		GoalTitle:       goal.Title,
		GoalDescription: goal.Description,
		TargetDate:      goal.TargetDate,
		Context:         extraContext,
	})
	if err != nil {
		return nil, err
	}
	fields["phases"] = len(draft.Phases)
	fields["structured"] = draft.Structured

	return s.save(ctx, goalID, existing, draft.Text, draft.Phases)
}

func (s *roadmapService) Refine(ctx context.Context, roadmapID, feedback string) (rm *domain.Roadmap, err error) {
	startedAt := time.Now()
	fields := map[string]any{"roadmap_id": roadmapID}
	defer observe(ctx, s.observer, "refine-roadmap", startedAt, fields, &err)

	if strings.TrimSpace(feedback) == "" {
		return nil, invalid(errors.New("feedback is required"))
	}
	rm, err = s.roadmaps.GetByID(ctx, roadmapID)
	if err != nil {
		return nil, err
	}

	draft, err := s.drafter.Refine(ctx, rm, feedback)
	if err != nil {
		return nil, err
	}
	fields["phases"] = len(draft.Phases)

	rm.Revise(draft.Text, draft.Phases, s.now().UTC())
	if err := s.roadmaps.Update(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

func (s *roadmapService) ImportPhases(ctx context.Context, goalID, path string) (*domain.Roadmap, error) {
	file, err := importer.LoadPhaseFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading phase file: %w", err)
	}
	return s.ImportPhaseFile(ctx, goalID, file)
}

func (s *roadmapService) ImportPhaseFile(ctx context.Context, goalID string, file *importer.PhaseFile) (rm *domain.Roadmap, err error) {
	startedAt := time.Now()
	fields := map[string]any{"goal_id": goalID}
	defer observe(ctx, s.observer, "import-phases", startedAt, fields, &err)

	if errs := importer.ValidatePhaseFile(file); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	if _, err := s.goals.GetByID(ctx, goalID); err != nil {
		return nil, err
	}
	existing, err := s.existingRoadmap(ctx, goalID)
	if err != nil {
		return nil, err
	}

	text, phases := importer.Convert(file)
	fields["phases"] = len(phases)
	return s.save(ctx, goalID, existing, text, phases)
}

func (s *roadmapService) GetByID(ctx context.Context, id string) (*domain.Roadmap, error) {
	return s.roadmaps.GetByID(ctx, id)
}

func (s *roadmapService) GetByGoal(ctx context.Context, goalID string) (*domain.Roadmap, error) {
	return s.roadmaps.GetByGoal(ctx, goalID)
}

func (s *roadmapService) Preview(ctx context.Context, goalID string) (*SchedulePreview, error) {
	goal, err := s.goals.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	rm, err := s.roadmaps.GetByGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if len(rm.Phases) == 0 {
		return nil, ErrNoPhases
	}
	return s.buildPreview(ctx, goal, rm, s.now()), nil
}

func (s *roadmapService) Approve(ctx context.Context, roadmapID string) (res *ApprovalResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"roadmap_id": roadmapID}
	defer observe(ctx, s.observer, "approve-roadmap", startedAt, fields, &err)

	rm, err := s.roadmaps.GetByID(ctx, roadmapID)
	if err != nil {
		return nil, err
	}
	if len(rm.Phases) == 0 {
		return nil, ErrNoPhases
	}
	goal, err := s.goals.GetByID(ctx, rm.GoalID)
	if err != nil {
		return nil, err
	}

	// The schedule is built before the transaction opens; generation may
	// take as long as the LLM timeout.
	now := s.now()
	preview := s.buildPreview(ctx, goal, rm, now)
	tasks := scheduledTasks(preview, now.UTC())
	fields["tasks"] = len(tasks)
	fields["source"] = string(preview.Schedule.Source)

	var replaced int
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txAudit := repository.NewSQLiteAuditRepo(tx)
		txRoadmaps := repository.NewSQLiteRoadmapRepo(tx)

		n, err := txTasks.DeletePendingScheduled(ctx, goal.ID)
		if err != nil {
			return err
		}
		replaced = n

		for _, t := range tasks {
			if err := txTasks.Create(ctx, t); err != nil {
				return fmt.Errorf("creating task %q: %w", t.Title, err)
			}
			entry := newAuditEntry(t.ID, domain.AuditScheduled, "scheduled_date", "", formatDate(t.ScheduledDate), "roadmap approved", t.CreatedAt)
			if err := txAudit.Create(ctx, entry); err != nil {
				return err
			}
		}

		approved := *rm
		approved.Approve(now.UTC())
		if err := txRoadmaps.Update(ctx, &approved); err != nil {
			return err
		}
		rm = &approved
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["replaced"] = replaced

	return &ApprovalResult{
		Roadmap:        rm,
		Tasks:          tasks,
		Replaced:       replaced,
		TotalDays:      preview.TotalDays,
		Source:         preview.Schedule.Source,
		FallbackReason: preview.Schedule.FallbackReason,
	}, nil
}

func (s *roadmapService) existingRoadmap(ctx context.Context, goalID string) (*domain.Roadmap, error) {
	rm, err := s.roadmaps.GetByGoal(ctx, goalID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return rm, err
}

func (s *roadmapService) save(ctx context.Context, goalID string, existing *domain.Roadmap, text string, phases []domain.Phase) (*domain.Roadmap, error) {
	now := s.now().UTC()
	if existing != nil {
		existing.Revise(text, phases, now)
		if err := s.roadmaps.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	rm := &domain.Roadmap{
		ID:        uuid.New().String(),
		GoalID:    goalID,
		Text:      text,
		Phases:    phases,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.roadmaps.Create(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

func (s *roadmapService) buildPreview(ctx context.Context, goal *domain.Goal, rm *domain.Roadmap, now time.Time) *SchedulePreview {
	start := localDay(now)
	budget := scheduler.DayBudget(start, goal.TargetDate, len(rm.Phases), s.daysPerPhase)
	sched := s.planner.BuildSchedule(ctx, rm.Phases, goal.Title, budget)
	scheduler.SortDailyTasks(sched.Tasks)

	total := 0
	if n := len(sched.Ranges); n > 0 {
		total = sched.Ranges[n-1].EndDay
	}
	return &SchedulePreview{
		Goal:      goal,
		Roadmap:   rm,
		StartDate: start,
		TotalDays: total,
		Schedule:  sched,
	}
}

// scheduledTasks turns the preview's day-stamped tasks into task rows dated
// from the preview's start day.
func scheduledTasks(p *SchedulePreview, now time.Time) []*domain.Task {
	tasks := make([]*domain.Task, 0, len(p.Schedule.Tasks))
	for _, dt := range p.Schedule.Tasks {
		date := p.Date(dt.Day)
		phase := dt.PhaseIndex
		tasks = append(tasks, &domain.Task{
			ID:            uuid.New().String(),
			GoalID:        &p.Goal.ID,
			RoadmapID:     &p.Roadmap.ID,
			PhaseIndex:    &phase,
			Title:         dt.Title,
			Description:   dt.Description,
			Category:      domain.CategoryDaily,
			Status:        domain.TaskDue,
			Priority:      dt.Priority,
			Source:        domain.SourceSchedule,
			ScheduledDate: &date,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	return tasks
}
