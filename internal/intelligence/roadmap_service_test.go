package intelligence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aadipatodia/Scheduler/internal/domain"
	"github.com/aadipatodia/Scheduler/internal/llm"
)

func TestRoadmapGenerate_StructuredReply(t *testing.T) {
	client := &scriptedClient{response: "```json\n" + `{
	  "roadmap": "## Phase 1: Basics (2 Weeks)\n- Tour",
	  "phases": [
	    {"title": " Basics ", "timeline": "2 Weeks", "goal": "Learn syntax", "tasks": ["Tour"]},
	    {"title": "", "timeline": "1 Week"},
	    {"title": "Projects", "timeline": "1 Month"}
	  ]
	}` + "\n```"}
	svc := NewRoadmapService(client, nil)

	target := time.Date(2025, 6, 30, 0, 0, 0, 0, time.Local)
	draft, err := svc.Generate(context.Background(), RoadmapRequest{
		GoalTitle:       "Learn Go",
		GoalDescription: "Backend focus",
		TargetDate:      &target,
		Context:         "Two hours a day",
	})

	require.NoError(t, err)
	assert.True(t, draft.Structured)
	assert.Equal(t, "## Phase 1: Basics (2 Weeks)\n- Tour", draft.Text)
	assert.Equal(t, []domain.Phase{
		{Title: "Basics", Timeline: "2 Weeks", Goal: "Learn syntax", Tasks: []string{"Tour"}},
		{Title: "Projects", Timeline: "1 Month"},
	}, draft.Phases)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.Equal(t, llm.TaskRoadmap, req.Task)
	assert.True(t, req.JSON)
	assert.Contains(t, req.UserPrompt, "Goal: Learn Go")
	assert.Contains(t, req.UserPrompt, "Description: Backend focus")
	assert.Contains(t, req.UserPrompt, "Target date: 2025-06-30")
	assert.Contains(t, req.UserPrompt, "Additional context: Two hours a day")
}

func TestRoadmapGenerate_ProseReplyRecoversPhases(t *testing.T) {
	prose := "Here is your plan.\n\n## Phase 1: Basics (2 Weeks)\n- Tour of Go\n\n## Phase 2: Projects (1 Month)\n- Build a CLI"
	svc := NewRoadmapService(&scriptedClient{response: prose}, llm.NoopObserver{})

	draft, err := svc.Generate(context.Background(), RoadmapRequest{GoalTitle: "Learn Go"})

	require.NoError(t, err)
	assert.False(t, draft.Structured)
	assert.Equal(t, prose, draft.Text)
	require.Len(t, draft.Phases, 2)
	assert.Equal(t, "Basics", draft.Phases[0].Title)
	assert.Equal(t, "1 Month", draft.Phases[1].Timeline)
}

func TestRoadmapGenerate_PhasesOnlyRendersText(t *testing.T) {
	svc := NewRoadmapService(&scriptedClient{response: `{"phases":[{"title":"Basics","timeline":"1 Week"}]}`}, nil)

	draft, err := svc.Generate(context.Background(), RoadmapRequest{GoalTitle: "Learn Go"})

	require.NoError(t, err)
	assert.Equal(t, "## Phase 1: Basics (1 Week)\n", draft.Text)
}

func TestRoadmapGenerate_Errors(t *testing.T) {
	_, err := NewRoadmapService(nil, nil).Generate(context.Background(), RoadmapRequest{GoalTitle: "x"})
	assert.ErrorIs(t, err, llm.ErrNotConfigured)

	_, err = NewRoadmapService(&scriptedClient{err: llm.ErrTimeout}, nil).Generate(context.Background(), RoadmapRequest{GoalTitle: "x"})
	assert.ErrorIs(t, err, llm.ErrTimeout)

	_, err = NewRoadmapService(&scriptedClient{response: "   "}, nil).Generate(context.Background(), RoadmapRequest{GoalTitle: "x"})
	assert.ErrorIs(t, err, llm.ErrInvalidOutput)
}

func TestRoadmapRefine(t *testing.T) {
	client := &scriptedClient{response: `{"roadmap":"Revised","phases":[{"title":"Basics","timeline":"3 Weeks"}]}`}
	svc := NewRoadmapService(client, nil)
	current := &domain.Roadmap{Text: "Original plan", Phases: []domain.Phase{{Title: "Basics", Timeline: "2 Weeks"}}}

	draft, err := svc.Refine(context.Background(), current, "slow down")

	require.NoError(t, err)
	assert.Equal(t, "Revised", draft.Text)
	assert.Equal(t, "3 Weeks", draft.Phases[0].Timeline)

	req := client.requests[0]
	assert.Equal(t, llm.TaskRefine, req.Task)
	assert.Contains(t, req.UserPrompt, "Original plan")
	assert.Contains(t, req.UserPrompt, `"timeline": "2 Weeks"`)
	assert.Contains(t, req.UserPrompt, "Requested changes: slow down")
}

func TestRoadmapRefine_RequiresFeedback(t *testing.T) {
	client := &scriptedClient{response: "{}"}
	_, err := NewRoadmapService(client, nil).Refine(context.Background(), &domain.Roadmap{}, "  ")
	assert.ErrorContains(t, err, "feedback is required")
	assert.Empty(t, client.requests)
}
