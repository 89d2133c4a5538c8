package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/aadipatodia/Scheduler/internal/domain"
	"github.com/aadipatodia/Scheduler/internal/service"
)

const statsProgressBarWidth = 10

// FormatOverview renders the cross-goal dashboard.
func FormatOverview(ov *service.Overview, now time.Time) string {
	var b strings.Builder

	headers := []string{"GOAL", "STATUS", "PROGRESS", "RISK", "TARGET"}
	rows := make([][]string, 0, len(ov.Goals))
	var critical, atRisk, onTrack int
	for _, gp := range ov.Goals {
		pct := gp.Risk.CompletionPct / 100
		rows = append(rows, []string{
			Bold(Truncate(gp.Goal.Title, 40)),
			GoalStatusPill(gp.Goal.Status),
			RenderProgress(pct, statsProgressBarWidth),
			RiskIndicator(gp.Risk.Level),
			DueDateStyled(gp.Goal.TargetDate, now),
		})
		if gp.Goal.Status != domain.GoalActive {
			continue
		}
		switch gp.Risk.Level {
		case domain.RiskCritical:
			critical++
		case domain.RiskAtRisk:
			atRisk++
		default:
			onTrack++
		}
	}
	if len(rows) > 0 {
		b.WriteString(RenderTable(headers, rows))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Goals: %d total, %d active, %d completed\n", ov.TotalGoals, ov.ActiveGoals, ov.CompletedGoals)
	fmt.Fprintf(&b, "Tasks: %d total, %s, %s, %s\n", ov.Tasks.Total,
		StyleGreen.Render(fmt.Sprintf("%d done", ov.Tasks.Completed)),
		StyleBlue.Render(fmt.Sprintf("%d due", ov.Tasks.Due)),
		StyleRed.Render(fmt.Sprintf("%d missed", ov.Tasks.Missed)),
	)
	fmt.Fprintf(&b, "Completion rate: %.1f%%\n", ov.CompletionRate)
	if len(rows) > 0 {
		fmt.Fprintf(&b, "%s, %s, %s\n",
			StyleRed.Render(fmt.Sprintf("%d Critical", critical)),
			StyleYellow.Render(fmt.Sprintf("%d At Risk", atRisk)),
			StyleGreen.Render(fmt.Sprintf("%d On Track", onTrack)),
		)
	}

	return RenderBox("Overview", strings.TrimRight(b.String(), "\n"))
}
