package scheduler

import (
	"fmt"
	"strings"

	"github.com/aadipatodia/Scheduler/internal/domain"
)

// DailyTasksSystemPrompt frames the daily-task generation call.
const DailyTasksSystemPrompt = `You turn an approved roadmap into a concrete day-by-day task schedule.

RULES:
1. Every phase has a fixed day range. A phase's tasks MUST NOT fall outside its range.
2. Produce about two tasks per day, each completable in one sitting.
3. Tasks build on each other; early days cover fundamentals.
4. Priority is an integer from 1 to 5 (5 is highest).

Return ONLY a JSON object of this shape, no prose and no code fences:
{"tasks": [{"day": 1, "phase_index": 0, "title": "Short task title", "description": "What done looks like", "priority": 4}]}`

// BuildDailyTasksPrompt states each phase's exact day range so the generator
// can place tasks. Ranges must align with phases by index.
func BuildDailyTasksPrompt(goalTitle string, phases []domain.Phase, ranges []domain.DayRange) string {
	total := 0
	if len(ranges) > 0 {
		total = ranges[len(ranges)-1].EndDay
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Goal: %s\n", goalTitle)
	fmt.Fprintf(&b, "Total days: %d\n\n", total)
	b.WriteString("Phases:\n")
	for i, p := range phases {
		r := ranges[i]
		fmt.Fprintf(&b, "- phase_index %d: %q, days %d-%d (%d days). Tasks MUST be on days %d through %d only.\n",
			i, p.Title, r.StartDay, r.EndDay, r.Duration, r.StartDay, r.EndDay)
		if g := strings.TrimSpace(p.Goal); g != "" {
			fmt.Fprintf(&b, "  goal: %s\n", g)
		}
		for _, t := range p.Tasks {
			fmt.Fprintf(&b, "  task: %s\n", t)
		}
		for _, c := range p.SuccessCriteria {
			fmt.Fprintf(&b, "  success: %s\n", c)
		}
	}
	b.WriteString("\nGenerate the daily schedule in JSON format.")
	return b.String()
}
