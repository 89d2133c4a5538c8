package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aadipatodia/Scheduler/internal/domain"
)

func titles(tasks []domain.DailyTask) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func TestDistribute_ExpandsShortTaskList(t *testing.T) {
	phase := domain.Phase{Title: "Basics", Goal: "Learn syntax", Tasks: []string{"Variables", "Loops"}}
	r := domain.DayRange{StartDay: 1, EndDay: 5, Duration: 5}

	out := Distribute(phase, 0, r)

	require.Len(t, out, 10)
	assert.Equal(t, []string{
		"Study: Variables", "Practice: Variables", "Review: Variables",
		"Study: Loops", "Practice: Loops", "Review: Loops",
		"Continue: Variables", "Continue: Loops", "Continue: Variables", "Continue: Loops",
	}, titles(out))

	priorities := make([]int, len(out))
	days := make([]int, len(out))
	for i, dt := range out {
		priorities[i] = dt.Priority
		days[i] = dt.Day
		assert.Equal(t, "Learn syntax", dt.Description)
	}
	assert.Equal(t, []int{5, 4, 3, 5, 4, 3, 3, 3, 3, 3}, priorities)
	assert.Equal(t, []int{1, 1, 2, 2, 3, 3, 4, 4, 5, 5}, days)
}

func TestDistribute_LongListUsedAsAuthored(t *testing.T) {
	phase := domain.Phase{Title: "Sprint", Tasks: []string{"a", "b", "c", "d", "e", "f"}}
	r := domain.DayRange{StartDay: 8, EndDay: 9, Duration: 2}

	out := Distribute(phase, 1, r)

	require.Len(t, out, 6)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, titles(out))
	for i, want := range []int{5, 4, 3, 2, 1, 1} {
		assert.Equal(t, want, out[i].Priority)
	}
	for i, want := range []int{8, 8, 8, 9, 9, 9} {
		assert.Equal(t, want, out[i].Day)
	}
}

func TestDistribute_ExactTarget(t *testing.T) {
	phase := domain.Phase{Tasks: []string{"one", "two"}}
	out := Distribute(phase, 0, domain.DayRange{StartDay: 3, EndDay: 3, Duration: 1})
	assert.Equal(t, []string{"one", "two"}, titles(out))
}

func TestDistribute_NoTasksUsesGoal(t *testing.T) {
	phase := domain.Phase{Title: "Capstone", Goal: "Ship a project"}
	out := Distribute(phase, 0, domain.DayRange{StartDay: 1, EndDay: 1, Duration: 1})
	assert.Equal(t, []string{"Study: Ship a project", "Practice: Ship a project"}, titles(out))
}

func TestDistribute_NoTasksNoGoalUsesTitle(t *testing.T) {
	phase := domain.Phase{Title: "Capstone", Tasks: []string{"  "}}
	out := Distribute(phase, 0, domain.DayRange{StartDay: 1, EndDay: 1, Duration: 1})
	assert.Equal(t, "Study: Capstone", out[0].Title)
}

func TestDistribute_EmptyPhase(t *testing.T) {
	out := Distribute(domain.Phase{}, 0, domain.DayRange{StartDay: 1, EndDay: 3, Duration: 3})
	assert.Empty(t, out)
}
