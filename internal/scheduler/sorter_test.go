package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aadipatodia/Scheduler/internal/domain"
)

func TestSortDailyTasks(t *testing.T) {
	tasks := []domain.DailyTask{
		{Day: 3, PhaseIndex: 1, Title: "c", Priority: 3},
		{Day: 1, PhaseIndex: 0, Title: "b", Priority: 3},
		{Day: 1, PhaseIndex: 0, Title: "a", Priority: 3},
		{Day: 1, PhaseIndex: 0, Title: "z", Priority: 5},
		{Day: 2, PhaseIndex: 1, Title: "y", Priority: 1},
		{Day: 2, PhaseIndex: 0, Title: "x", Priority: 1},
	}

	SortDailyTasks(tasks)

	assert.Equal(t, []string{"z", "a", "b", "x", "y", "c"}, titles(tasks))
}
