package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/aadipatodia/Scheduler/internal/domain"
	"github.com/aadipatodia/Scheduler/internal/llm"
)

// TextGenerator produces raw text for a prompt. Implementations own their
// retries and timeouts; the planner calls Generate exactly once per schedule.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ScheduleSource records which path produced a schedule.
type ScheduleSource string

const (
	SourceGenerator ScheduleSource = "generator"
	SourceFallback  ScheduleSource = "fallback"
)

// Schedule is the result of BuildSchedule. Tasks are not sorted.
type Schedule struct {
	Ranges         []domain.DayRange
	Tasks          []domain.DailyTask
	Source         ScheduleSource
	FallbackReason string
}

// Planner turns roadmap phases into a day-stamped task schedule.
type Planner struct {
	gen TextGenerator
	log *zap.Logger
}

// NewPlanner creates a Planner. A nil generator means every schedule is
// built by the deterministic distributor.
func NewPlanner(gen TextGenerator, log *zap.Logger) *Planner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Planner{gen: gen, log: log.Named("planner")}
}

var errNoGenerator = errors.New("no text generator configured")

// BuildSchedule allocates totalDays across phases, asks the generator for a
// schedule that respects those ranges, and falls back to Distribute per
// phase when the generator fails or returns nothing usable. Generated days
// are always clamped into their phase's range.
func (p *Planner) BuildSchedule(ctx context.Context, phases []domain.Phase, goalTitle string, totalDays int) Schedule {
	ranges := AllocateRanges(phases, totalDays)
	if len(phases) == 0 {
		return Schedule{Ranges: ranges, Tasks: []domain.DailyTask{}, Source: SourceFallback, FallbackReason: "no phases"}
	}

	tasks, err := p.generate(ctx, phases, goalTitle, ranges)
	if err == nil {
		return Schedule{Ranges: ranges, Tasks: tasks, Source: SourceGenerator}
	}

	p.log.Warn("daily task generation failed, using fallback distribution",
		zap.String("goal", goalTitle),
		zap.Int("phases", len(phases)),
		zap.Int("total_days", ranges[len(ranges)-1].EndDay),
		zap.Error(err),
	)
	return Schedule{
		Ranges:         ranges,
		Tasks:          FallbackSchedule(phases, ranges),
		Source:         SourceFallback,
		FallbackReason: err.Error(),
	}
}

// FallbackSchedule applies Distribute to every phase and concatenates the
// results in phase order.
func FallbackSchedule(phases []domain.Phase, ranges []domain.DayRange) []domain.DailyTask {
	out := make([]domain.DailyTask, 0)
	for i, phase := range phases {
		out = append(out, Distribute(phase, i, ranges[i])...)
	}
	return out
}

func (p *Planner) generate(ctx context.Context, phases []domain.Phase, goalTitle string, ranges []domain.DayRange) ([]domain.DailyTask, error) {
	if p.gen == nil {
		return nil, errNoGenerator
	}
	raw, err := p.gen.Generate(ctx, BuildDailyTasksPrompt(goalTitle, phases, ranges))
	if err != nil {
		return nil, fmt.Errorf("generating daily tasks: %w", err)
	}
	items, err := ParseGeneratedTasks(raw)
	if err != nil {
		return nil, err
	}
	tasks := ClampGeneratedTasks(items, ranges)
	if len(tasks) == 0 {
		return nil, fmt.Errorf("%w: no task fits a phase", llm.ErrInvalidOutput)
	}
	return tasks, nil
}

// GeneratedTask is one item of a generator reply before validation.
type GeneratedTask struct {
	Day         int    `json:"day"`
	PhaseIndex  *int   `json:"phase_index"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
}

type generatedReply struct {
	Tasks []GeneratedTask `json:"tasks"`
}

func nonEmptyReply(r generatedReply) error {
	if len(r.Tasks) == 0 {
		return errors.New("tasks list is empty")
	}
	return nil
}

func nonEmptyList(items []GeneratedTask) error {
	if len(items) == 0 {
		return errors.New("task array is empty")
	}
	return nil
}

// ParseGeneratedTasks strictly decodes a generator reply, accepting either
// {"tasks": [...]} or a bare top-level array. An object without a tasks list
// is rejected even if it nests some other array. Any shape mismatch is an
// error wrapping llm.ErrInvalidOutput.
func ParseGeneratedTasks(raw string) ([]GeneratedTask, error) {
	if llm.LeadsWithArray(raw) {
		return llm.ExtractJSONArray[GeneratedTask](raw, nonEmptyList)
	}
	reply, err := llm.ExtractJSON[generatedReply](raw, nonEmptyReply)
	if err != nil {
		return nil, err
	}
	return reply.Tasks, nil
}

// ClampGeneratedTasks validates generated items against ranges. Items with
// a missing or out-of-range phase_index or a blank title are dropped; day is
// clamped into the phase's range and priority into 1..5 (unset becomes 3).
func ClampGeneratedTasks(items []GeneratedTask, ranges []domain.DayRange) []domain.DailyTask {
	out := make([]domain.DailyTask, 0, len(items))
	for _, it := range items {
		if it.PhaseIndex == nil || *it.PhaseIndex < 0 || *it.PhaseIndex >= len(ranges) {
			continue
		}
		title := strings.TrimSpace(it.Title)
		if title == "" {
			continue
		}
		idx := *it.PhaseIndex
		out = append(out, domain.DailyTask{
			Day:         ranges[idx].Clamp(it.Day),
			PhaseIndex:  idx,
			Title:       title,
			Description: strings.TrimSpace(it.Description),
			Priority:    clampPriority(it.Priority),
		})
	}
	return out
}

func clampPriority(p int) int {
	switch {
	case p == 0:
		return 3
	case p < 1:
		return 1
	case p > 5:
		return 5
	default:
		return p
	}
}
