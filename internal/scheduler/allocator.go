package scheduler

import (
	"fmt"
	"math"

	"github.com/aadipatodia/Scheduler/internal/domain"
)

// AllocateRanges splits totalDays across phases in proportion to their parsed
// timelines and returns one contiguous DayRange per phase, starting at day 1.
//
// Phases with an unknown timeline share whatever the known phases leave over
// (at least one day each). If the resulting durations do not sum to the
// budget they are rescaled and the rounding drift is corrected round-robin.
// A budget smaller than the phase count is raised to one day per phase.
func AllocateRanges(phases []domain.Phase, totalDays int) []domain.DayRange {
	n := len(phases)
	if n == 0 {
		return []domain.DayRange{}
	}
	if totalDays < n {
		totalDays = n
	}

	parsed := make([]int, n)
	known := make([]bool, n)
	knownSum, unknownCount := 0, 0
	for i, p := range phases {
		if d, ok := ParseTimeline(p.Timeline); ok {
			parsed[i] = d
			known[i] = true
			knownSum += d
		} else {
			unknownCount++
		}
	}

	var durations []int
	switch {
	case unknownCount == n:
		durations = evenSplit(totalDays, n)
	case unknownCount > 0:
		leftover := max(totalDays-knownSum, unknownCount)
		shares := evenSplit(leftover, unknownCount)
		durations = make([]int, n)
		next := 0
		for i := range phases {
			if known[i] {
				durations[i] = parsed[i]
				continue
			}
			durations[i] = shares[next]
			next++
		}
	default:
		durations = parsed
	}

	durations = fitToBudget(durations, totalDays)
	return toRanges(durations)
}

// evenSplit divides total into n parts; the first total mod n parts get one
// extra day so the sum is exact.
func evenSplit(total, n int) []int {
	base, extra := total/n, total%n
	out := make([]int, n)
	for i := range out {
		out[i] = base
		if i < extra {
			out[i]++
		}
	}
	return out
}

// fitToBudget rescales durations so they sum to exactly total.
// Requires total >= len(durations).
func fitToBudget(durations []int, total int) []int {
	sum := sumInts(durations)
	if sum == total {
		return durations
	}

	n := len(durations)
	out := make([]int, n)
	factor := float64(total) / float64(sum)
	for i, d := range durations {
		out[i] = max(int(math.Round(float64(d)*factor)), 1)
	}
	assertMinimumDay(out)

	// Correct rounding drift one day at a time, cycling through phases.
	sum = sumInts(out)
	for i := 0; sum != total; i++ {
		idx := i % n
		if sum < total {
			out[idx]++
			sum++
		} else if out[idx] > 1 {
			out[idx]--
			sum--
		}
		assertMinimumDay(out)
	}
	return out
}

func toRanges(durations []int) []domain.DayRange {
	ranges := make([]domain.DayRange, len(durations))
	start := 1
	for i, d := range durations {
		ranges[i] = domain.DayRange{
			StartDay: start,
			EndDay:   start + d - 1,
			Duration: d,
		}
		start += d
	}
	return ranges
}

// assertMinimumDay panics if any phase lost its last day. Reaching it means
// the correction loop is broken, not that the input was bad.
func assertMinimumDay(durations []int) {
	for i, d := range durations {
		if d < 1 {
			panic(fmt.Sprintf("scheduler: phase %d allocated %d days", i, d))
		}
	}
}

func sumInts(vals []int) int {
	total := 0
	for _, v := range vals {
		total += v
	}
	return total
}
