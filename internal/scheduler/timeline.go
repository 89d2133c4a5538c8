package scheduler

import (
	"regexp"
	"strconv"
)

const (
	daysPerWeek  = 7
	daysPerMonth = 30

	// maxTimelineDays bounds a single parsed timeline to 100 years. Longer
	// phrases are treated as unknown so phase sums cannot overflow.
	maxTimelineDays = 100 * 365
)

type timelinePattern struct {
	re *regexp.Regexp
	// days converts the submatches into a day count.
	days func(m []string) int
}

// timelinePatterns are tried in order; the first match wins.
var timelinePatterns = []timelinePattern{
	{regexp.MustCompile(`(?i)(\d+)\s*weeks?`), scaled(daysPerWeek)},
	{regexp.MustCompile(`(?i)weeks?\s*(\d+)\s*[-–]\s*(\d+)`), span(daysPerWeek)},
	{regexp.MustCompile(`(?i)weeks?\s*(\d+)`), fixed(daysPerWeek)},
	{regexp.MustCompile(`(?i)(\d+)\s*months?`), scaled(daysPerMonth)},
	{regexp.MustCompile(`(?i)months?\s*(\d+)\s*[-–]\s*(\d+)`), span(daysPerMonth)},
	{regexp.MustCompile(`(?i)months?\s*(\d+)`), fixed(daysPerMonth)},
	{regexp.MustCompile(`(?i)(\d+)\s*days?`), scaled(1)},
}

// ParseTimeline estimates the number of days described by a free-text
// timeline phrase such as "2 Weeks", "Month 1-2" or "10 days".
// ok is false when the phrase matches no known pattern or yields a count
// that is non-positive or above maxTimelineDays.
func ParseTimeline(text string) (days int, ok bool) {
	for _, p := range timelinePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		days = p.days(m)
		if days <= 0 || days > maxTimelineDays {
			return 0, false
		}
		return days, true
	}
	return 0, false
}

func scaled(unit int) func([]string) int {
	return func(m []string) int {
		n := atoi(m[1])
		if n > maxTimelineDays/unit {
			return 0
		}
		return n * unit
	}
}

func span(unit int) func([]string) int {
	return func(m []string) int {
		n := atoi(m[2]) - atoi(m[1])
		if n < 0 || n >= maxTimelineDays/unit {
			return 0
		}
		return (n + 1) * unit
	}
}

func fixed(days int) func([]string) int {
	return func([]string) int {
		return days
	}
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		// Only reachable on overflow; \d+ guarantees digits.
		return 0
	}
	return n
}
