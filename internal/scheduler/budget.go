package scheduler

import (
	"math"
	"time"
)

// DefaultDaysPerPhase is the per-phase budget used when a goal has no deadline.
const DefaultDaysPerPhase = 7

// DayBudget returns the number of days a schedule may span. With a target
// date the budget runs from now through the target day inclusive; without one
// (or with a target already past) each phase gets daysPerPhase days. The
// result is never smaller than phaseCount.
func DayBudget(now time.Time, target *time.Time, phaseCount, daysPerPhase int) int {
	if daysPerPhase <= 0 {
		daysPerPhase = DefaultDaysPerPhase
	}
	budget := phaseCount * daysPerPhase
	if target != nil {
		if days := daysBetween(now, *target) + 1; days > 0 {
			budget = days
		}
	}
	return max(budget, phaseCount)
}

// daysBetween counts calendar days between the dates of a and b.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(math.Round(end.Sub(start).Hours() / 24))
}
