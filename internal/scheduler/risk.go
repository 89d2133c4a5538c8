package scheduler

import (
	"math"
	"time"

	"github.com/aadipatodia/Scheduler/internal/domain"
)

const (
	// Completion may trail elapsed time by this many points before a goal
	// is flagged.
	atRiskGapPct    = 10.0
	criticalGapPct  = 30.0
	atRiskMissedPct = 30.0
)

type GoalRiskInput struct {
	Now        time.Time
	StartedAt  time.Time
	TargetDate *time.Time
	Total      int
	Completed  int
	Missed     int
}

type GoalRiskResult struct {
	Level         domain.RiskLevel
	DaysLeft      *int
	CompletionPct float64
	ElapsedPct    float64
	MissedPct     float64
}

// ComputeGoalRisk compares task completion against the share of the goal's
// timeline already spent.
func ComputeGoalRisk(input GoalRiskInput) GoalRiskResult {
	result := GoalRiskResult{Level: domain.RiskOnTrack}

	// Nothing scheduled => nothing to fall behind on
	if input.Total == 0 {
		return result
	}
	result.CompletionPct = pct(input.Completed, input.Total)
	result.MissedPct = pct(input.Missed, input.Total)
	done := input.Completed >= input.Total

	// No target date => only the missed ratio can raise a flag
	if input.TargetDate == nil {
		if !done && result.MissedPct >= atRiskMissedPct {
			result.Level = domain.RiskAtRisk
		}
		return result
	}

	daysLeft := int(math.Ceil(input.TargetDate.Sub(input.Now).Hours() / 24))
	result.DaysLeft = &daysLeft

	// Past due with work remaining
	if daysLeft <= 0 {
		result.ElapsedPct = 100
		if !done {
			result.Level = domain.RiskCritical
		}
		return result
	}

	span := input.TargetDate.Sub(input.StartedAt)
	if span > 0 {
		elapsed := input.Now.Sub(input.StartedAt)
		result.ElapsedPct = math.Min(100, math.Max(0, float64(elapsed)/float64(span)*100))
	}

	gap := result.ElapsedPct - result.CompletionPct
	switch {
	case done:
		result.Level = domain.RiskOnTrack
	case gap >= criticalGapPct:
		result.Level = domain.RiskCritical
	case gap >= atRiskGapPct || result.MissedPct >= atRiskMissedPct:
		result.Level = domain.RiskAtRisk
	}
	return result
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
