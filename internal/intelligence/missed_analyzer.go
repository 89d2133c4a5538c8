package intelligence

import (
	"context"
	"fmt"
	"strings"

	"github.com/aadipatodia/Scheduler/internal/domain"
	"github.com/aadipatodia/Scheduler/internal/llm"
)

const (
	// maxMissedInPrompt bounds how many missed titles are sent to the model.
	maxMissedInPrompt = 10
	// maxAdjustmentDays caps a single deadline extension.
	maxAdjustmentDays = 365
)

// MissedTaskInput summarises the missed work for one goal.
type MissedTaskInput struct {
	GoalTitle       string
	GoalDescription string
	DaysRemaining   int
	MissedTitles    []string
}

// MissedTaskAnalysis is the recalibration advice for one goal.
type MissedTaskAnalysis struct {
	Severity                 domain.Severity `json:"severity"`
	Recommendations          []string        `json:"recommendations"`
	TimelineAdjustmentNeeded bool            `json:"timeline_adjustment_needed"`
	SuggestedAdjustmentDays  int             `json:"suggested_adjustment_days"`
	PriorityTasks            []string        `json:"priority_tasks"`
	MotivationMessage        string          `json:"motivation_message"`
	UsedFallback             bool            `json:"-"`
}

// AdjustmentDays is the deadline extension the analysis asks for, or zero.
func (a *MissedTaskAnalysis) AdjustmentDays() int {
	if !a.TimelineAdjustmentNeeded || a.SuggestedAdjustmentDays <= 0 {
		return 0
	}
	return a.SuggestedAdjustmentDays
}

// MissedTaskAnalyzer turns missed tasks into recalibration advice.
type MissedTaskAnalyzer interface {
	// Analyze never fails: when the model is unavailable or replies with
	// unusable output the deterministic analysis is returned.
	Analyze(ctx context.Context, in MissedTaskInput) *MissedTaskAnalysis
}

type missedTaskAnalyzer struct {
	client llm.LLMClient
}

// NewMissedTaskAnalyzer creates an analyzer. A nil client always yields the
// deterministic analysis.
func NewMissedTaskAnalyzer(client llm.LLMClient) MissedTaskAnalyzer {
	return &missedTaskAnalyzer{client: client}
}

func (a *missedTaskAnalyzer) Analyze(ctx context.Context, in MissedTaskInput) *MissedTaskAnalysis {
	if a.client == nil {
		return DeterministicMissedAnalysis()
	}

	resp, err := a.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskMissedAnalysis,
		SystemPrompt: missedTasksSystemPrompt,
		UserPrompt:   buildMissedPrompt(in),
		JSON:         true,
	})
	if err != nil {
		return DeterministicMissedAnalysis()
	}

	analysis, err := llm.ExtractJSON[MissedTaskAnalysis](resp.Text, validateMissedAnalysis)
	if err != nil {
		return DeterministicMissedAnalysis()
	}
	normalizeAnalysis(&analysis)
	return &analysis
}

func buildMissedPrompt(in MissedTaskInput) string {
	var b strings.Builder
	goal := in.GoalTitle
	if d := strings.TrimSpace(in.GoalDescription); d != "" {
		goal += ": " + d
	}
	fmt.Fprintf(&b, "Goal: %s\n", goal)
	fmt.Fprintf(&b, "Days remaining: %d\n\n", in.DaysRemaining)
	fmt.Fprintf(&b, "Missed %d tasks:\n", len(in.MissedTitles))
	for i, title := range in.MissedTitles {
		if i == maxMissedInPrompt {
			break
		}
		fmt.Fprintf(&b, "- %s\n", title)
	}
	b.WriteString("\nAnalyze and provide recalibration recommendations in JSON format.")
	return b.String()
}

func validateMissedAnalysis(a MissedTaskAnalysis) error {
	switch domain.Severity(strings.ToLower(strings.TrimSpace(string(a.Severity)))) {
	case domain.SeverityLow, domain.SeverityMedium, domain.SeverityHigh:
		return nil
	default:
		return fmt.Errorf("severity %q is not low, medium or high", a.Severity)
	}
}

func normalizeAnalysis(a *MissedTaskAnalysis) {
	a.Severity = domain.Severity(strings.ToLower(strings.TrimSpace(string(a.Severity))))
	if a.SuggestedAdjustmentDays < 0 {
		a.SuggestedAdjustmentDays = 0
	}
	if a.SuggestedAdjustmentDays > maxAdjustmentDays {
		a.SuggestedAdjustmentDays = maxAdjustmentDays
	}
	a.Recommendations = nonBlank(a.Recommendations)
	a.PriorityTasks = nonBlank(a.PriorityTasks)
	if strings.TrimSpace(a.MotivationMessage) == "" {
		a.MotivationMessage = fallbackMotivation
	}
}

func nonBlank(items []string) []string {
	var out []string
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

const fallbackMotivation = "Keep going! Small adjustments can get you back on track."

// DeterministicMissedAnalysis is the advice used when no model reply is
// usable. It never moves the deadline.
func DeterministicMissedAnalysis() *MissedTaskAnalysis {
	return &MissedTaskAnalysis{
		Severity:          domain.SeverityMedium,
		Recommendations:   []string{"Review and prioritize remaining tasks", "Focus on core objectives"},
		MotivationMessage: fallbackMotivation,
		UsedFallback:      true,
	}
}
