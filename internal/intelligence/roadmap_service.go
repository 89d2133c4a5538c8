package intelligence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aadipatodia/Scheduler/internal/domain"
	"github.com/aadipatodia/Scheduler/internal/importer"
	"github.com/aadipatodia/Scheduler/internal/llm"
)

// RoadmapRequest describes the goal a roadmap is drafted for.
type RoadmapRequest struct {
	GoalTitle       string
	GoalDescription string
	TargetDate      *time.Time
	Context         string
}

// RoadmapDraft is a generated roadmap. Structured is false when the model
// ignored the JSON contract and the phases were recovered from prose.
type RoadmapDraft struct {
	Text       string
	Phases     []domain.Phase
	Structured bool
}

// RoadmapService drafts and revises roadmaps with an LLM.
type RoadmapService interface {
	// Generate drafts a roadmap for a goal.
	Generate(ctx context.Context, req RoadmapRequest) (*RoadmapDraft, error)

	// Refine revises an existing roadmap according to user feedback.
	Refine(ctx context.Context, current *domain.Roadmap, feedback string) (*RoadmapDraft, error)
}

type roadmapService struct {
	client   llm.LLMClient
	observer llm.Observer
}

// NewRoadmapService creates a RoadmapService backed by an LLM client.
func NewRoadmapService(client llm.LLMClient, observer llm.Observer) RoadmapService {
	if observer == nil {
		observer = llm.NoopObserver{}
	}
	return &roadmapService{client: client, observer: observer}
}

type roadmapReply struct {
	Roadmap string         `json:"roadmap"`
	Phases  []domain.Phase `json:"phases"`
}

func validateRoadmapReply(r roadmapReply) error {
	if strings.TrimSpace(r.Roadmap) == "" && len(r.Phases) == 0 {
		return fmt.Errorf("roadmap and phases are both empty")
	}
	return nil
}

func (s *roadmapService) Generate(ctx context.Context, req RoadmapRequest) (*RoadmapDraft, error) {
	if s.client == nil {
		return nil, llm.ErrNotConfigured
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Goal: %s\n", req.GoalTitle)
	if d := strings.TrimSpace(req.GoalDescription); d != "" {
		fmt.Fprintf(&b, "Description: %s\n", d)
	}
	if req.TargetDate != nil {
		fmt.Fprintf(&b, "Target date: %s\n", req.TargetDate.Format("2006-01-02"))
	}
	if c := strings.TrimSpace(req.Context); c != "" {
		fmt.Fprintf(&b, "\nAdditional context: %s\n", c)
	}

	return s.draft(ctx, llm.TaskRoadmap, roadmapSystemPrompt, b.String())
}

func (s *roadmapService) Refine(ctx context.Context, current *domain.Roadmap, feedback string) (*RoadmapDraft, error) {
	if s.client == nil {
		return nil, llm.ErrNotConfigured
	}
	if strings.TrimSpace(feedback) == "" {
		return nil, fmt.Errorf("feedback is required")
	}

	phasesJSON, err := json.MarshalIndent(current.Phases, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding current phases: %w", err)
	}
	prompt := fmt.Sprintf("Current roadmap:\n%s\n\nCurrent phases:\n%s\n\nRequested changes: %s\n\nPlease provide an updated roadmap.",
		current.Text, phasesJSON, feedback)

	return s.draft(ctx, llm.TaskRefine, refineSystemPrompt, prompt)
}

func (s *roadmapService) draft(ctx context.Context, task llm.TaskType, system, prompt string) (*RoadmapDraft, error) {
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         task,
		SystemPrompt: system,
		UserPrompt:   prompt,
		JSON:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("generating roadmap: %w", err)
	}
	return parseRoadmapReply(resp.Text)
}

// parseRoadmapReply accepts the JSON contract, or plain roadmap prose whose
// phases are recovered by the markdown extractor.
func parseRoadmapReply(raw string) (*RoadmapDraft, error) {
	if reply, err := llm.ExtractJSON[roadmapReply](raw, validateRoadmapReply); err == nil {
		phases := cleanPhases(reply.Phases)
		text := strings.TrimSpace(reply.Roadmap)
		if len(phases) == 0 {
			phases = importer.ExtractPhases(text)
		}
		if text == "" {
			text = importer.RenderMarkdown(phases)
		}
		return &RoadmapDraft{Text: text, Phases: phases, Structured: true}, nil
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, fmt.Errorf("%w: empty roadmap", llm.ErrInvalidOutput)
	}
	return &RoadmapDraft{Text: text, Phases: importer.ExtractPhases(text)}, nil
}

func cleanPhases(phases []domain.Phase) []domain.Phase {
	out := make([]domain.Phase, 0, len(phases))
	for _, p := range phases {
		p.Title = strings.TrimSpace(p.Title)
		if p.Title == "" {
			continue
		}
		p.Timeline = strings.TrimSpace(p.Timeline)
		p.Goal = strings.TrimSpace(p.Goal)
		out = append(out, p)
	}
	return out
}
