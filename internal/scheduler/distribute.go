package scheduler

import (
	"strings"

	"github.com/aadipatodia/Scheduler/internal/domain"
)

// tasksPerDay is the density the fallback distributor aims for.
const tasksPerDay = 2

type framing struct {
	prefix   string
	priority int
}

var framings = []framing{
	{"Study", 5},
	{"Practice", 4},
	{"Review", 3},
}

const (
	continuePrefix   = "Continue"
	continuePriority = 3
)

type draftTask struct {
	title    string
	priority int
}

// Distribute spreads a phase's tasks across its day range without an external
// generator. Short task lists are expanded with framing prefixes until the
// phase holds roughly two tasks per day; longer lists are used as authored.
func Distribute(phase domain.Phase, phaseIndex int, r domain.DayRange) []domain.DailyTask {
	authored := phaseTaskTitles(phase)
	if len(authored) == 0 || r.Duration < 1 {
		return []domain.DailyTask{}
	}

	target := max(r.Duration*tasksPerDay, len(authored))
	drafts := expandTasks(authored, target)

	m := len(drafts)
	out := make([]domain.DailyTask, m)
	for j, d := range drafts {
		out[j] = domain.DailyTask{
			Day:         r.Clamp(r.StartDay + (j*r.Duration)/m),
			PhaseIndex:  phaseIndex,
			Title:       d.title,
			Description: phaseDescription(phase),
			Priority:    d.priority,
		}
	}
	return out
}

func expandTasks(authored []string, target int) []draftTask {
	if len(authored) >= target {
		out := make([]draftTask, len(authored))
		for i, t := range authored {
			out[i] = draftTask{title: t, priority: max(5-i, 1)}
		}
		return out
	}

	out := make([]draftTask, 0, target)
	for _, t := range authored {
		for _, f := range framings {
			if len(out) >= target {
				return out
			}
			out = append(out, draftTask{title: f.prefix + ": " + t, priority: f.priority})
		}
	}

	for attempt := 0; len(out) < target && attempt < 2*target; attempt++ {
		t := authored[attempt%len(authored)]
		out = append(out, draftTask{title: continuePrefix + ": " + t, priority: continuePriority})
	}
	return out
}

// phaseTaskTitles returns the non-blank authored tasks. A phase without any
// tasks is scheduled against its goal, or its title when it has no goal.
func phaseTaskTitles(phase domain.Phase) []string {
	titles := make([]string, 0, len(phase.Tasks))
	for _, t := range phase.Tasks {
		if t = strings.TrimSpace(t); t != "" {
			titles = append(titles, t)
		}
	}
	if len(titles) > 0 {
		return titles
	}
	for _, alt := range []string{phase.Goal, phase.Title} {
		if alt = strings.TrimSpace(alt); alt != "" {
			return []string{alt}
		}
	}
	return nil
}

func phaseDescription(phase domain.Phase) string {
	if g := strings.TrimSpace(phase.Goal); g != "" {
		return g
	}
	return phase.Title
}
