package domain

// DayRange is the contiguous span of days allotted to one phase.
// Days are 1-based; day 1 is the approval day.
type DayRange struct {
	StartDay int `json:"start_day"`
	EndDay   int `json:"end_day"`
	Duration int `json:"duration"`
}

// Contains reports whether day falls inside the range.
func (r DayRange) Contains(day int) bool {
	return day >= r.StartDay && day <= r.EndDay
}

// Clamp pulls day to the nearest boundary of the range.
func (r DayRange) Clamp(day int) int {
	if day < r.StartDay {
		return r.StartDay
	}
	if day > r.EndDay {
		return r.EndDay
	}
	return day
}

// DailyTask is one day-stamped action item derived from a phase.
type DailyTask struct {
	Day         int    `json:"day"`
	PhaseIndex  int    `json:"phase_index"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
}
