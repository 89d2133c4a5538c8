package scheduler

import (
	"sort"

	"github.com/aadipatodia/Scheduler/internal/domain"
)

// SortDailyTasks orders a schedule deterministically:
// 1. Day: earliest first
// 2. Phase index: ascending
// 3. Priority: higher first
// 4. Title: lexical ascending
func SortDailyTasks(tasks []domain.DailyTask) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		if a.PhaseIndex != b.PhaseIndex {
			return a.PhaseIndex < b.PhaseIndex
		}
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.Title < b.Title
	})
}
