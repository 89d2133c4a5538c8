package intelligence

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aadipatodia/Scheduler/internal/domain"
	"github.com/aadipatodia/Scheduler/internal/llm"
)

func TestMissedAnalyzer_ParsesReply(t *testing.T) {
	client := &scriptedClient{response: `Sure! {"severity":" HIGH ","recommendations":["Cut scope",""],
		"timeline_adjustment_needed":true,"suggested_adjustment_days":7,
		"priority_tasks":["Study: Syntax"],"motivation_message":"You got this"}`}
	a := NewMissedTaskAnalyzer(client)

	got := a.Analyze(context.Background(), MissedTaskInput{GoalTitle: "Learn Go", DaysRemaining: 20, MissedTitles: []string{"Study: Syntax"}})

	assert.Equal(t, domain.SeverityHigh, got.Severity)
	assert.Equal(t, []string{"Cut scope"}, got.Recommendations)
	assert.Equal(t, 7, got.AdjustmentDays())
	assert.Equal(t, []string{"Study: Syntax"}, got.PriorityTasks)
	assert.Equal(t, "You got this", got.MotivationMessage)
	assert.False(t, got.UsedFallback)

	require.Len(t, client.requests, 1)
	assert.Equal(t, llm.TaskMissedAnalysis, client.requests[0].Task)
}

func TestMissedAnalyzer_Fallbacks(t *testing.T) {
	tests := []struct {
		name   string
		client llm.LLMClient
	}{
		{"no client", nil},
		{"llm down", &scriptedClient{err: llm.ErrOllamaUnavailable}},
		{"not json", &scriptedClient{response: "I think you should rest."}},
		{"bad severity", &scriptedClient{response: `{"severity":"catastrophic"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewMissedTaskAnalyzer(tt.client).Analyze(context.Background(), MissedTaskInput{GoalTitle: "Learn Go"})
			assert.Equal(t, DeterministicMissedAnalysis(), got)
		})
	}
}

func TestDeterministicMissedAnalysis(t *testing.T) {
	got := DeterministicMissedAnalysis()
	assert.Equal(t, domain.SeverityMedium, got.Severity)
	assert.Equal(t, []string{"Review and prioritize remaining tasks", "Focus on core objectives"}, got.Recommendations)
	assert.Equal(t, 0, got.AdjustmentDays())
	assert.Empty(t, got.PriorityTasks)
	assert.Equal(t, "Keep going! Small adjustments can get you back on track.", got.MotivationMessage)
	assert.True(t, got.UsedFallback)
}

func TestMissedAnalysis_AdjustmentDays(t *testing.T) {
	assert.Equal(t, 0, (&MissedTaskAnalysis{SuggestedAdjustmentDays: 5}).AdjustmentDays())
	assert.Equal(t, 5, (&MissedTaskAnalysis{TimelineAdjustmentNeeded: true, SuggestedAdjustmentDays: 5}).AdjustmentDays())

	a := &MissedTaskAnalysis{Severity: "low", TimelineAdjustmentNeeded: true, SuggestedAdjustmentDays: -3}
	normalizeAnalysis(a)
	assert.Equal(t, 0, a.AdjustmentDays())
	assert.Equal(t, fallbackMotivation, a.MotivationMessage)

	a.SuggestedAdjustmentDays = 10_000
	normalizeAnalysis(a)
	assert.Equal(t, maxAdjustmentDays, a.AdjustmentDays())
}

func TestBuildMissedPrompt_LimitsTitles(t *testing.T) {
	titles := make([]string, 15)
	for i := range titles {
		titles[i] = fmt.Sprintf("task-%02d", i)
	}
	prompt := buildMissedPrompt(MissedTaskInput{GoalTitle: "Learn Go", GoalDescription: "backend", DaysRemaining: 12, MissedTitles: titles})

	assert.Contains(t, prompt, "Goal: Learn Go: backend")
	assert.Contains(t, prompt, "Days remaining: 12")
	assert.Contains(t, prompt, "Missed 15 tasks:")
	assert.Contains(t, prompt, "- task-09")
	assert.NotContains(t, prompt, "task-10")
	assert.Equal(t, 10, strings.Count(prompt, "\n- "))
}
