package intelligence

import (
	"context"

	"github.com/aadipatodia/Scheduler/internal/llm"
	"github.com/aadipatodia/Scheduler/internal/scheduler"
)

// ScheduleGenerator adapts an LLMClient to the planner's TextGenerator.
type ScheduleGenerator struct {
	client llm.LLMClient
}

var _ scheduler.TextGenerator = (*ScheduleGenerator)(nil)

// NewScheduleGenerator returns nil when client is nil so the planner goes
// straight to its fallback distribution.
func NewScheduleGenerator(client llm.LLMClient) scheduler.TextGenerator {
	if client == nil {
		return nil
	}
	return &ScheduleGenerator{client: client}
}

func (g *ScheduleGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskDailyTasks,
		SystemPrompt: scheduler.DailyTasksSystemPrompt,
		UserPrompt:   prompt,
		JSON:         true,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
