package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/aadipatodia/Scheduler/internal/domain"
	"github.com/aadipatodia/Scheduler/internal/service"
)

const goalProgressBarWidth = 10

// FormatGoalList renders goals as a table.
func FormatGoalList(goals []*domain.Goal, now time.Time) string {
	headers := []string{"ID", "TITLE", "STATUS", "TARGET"}
	rows := make([][]string, 0, len(goals))
	for _, g := range goals {
		rows = append(rows, []string{
			Dim(ShortID(g.ID)),
			Bold(Truncate(g.Title, 48)),
			GoalStatusPill(g.Status),
			DueDateStyled(g.TargetDate, now),
		})
	}
	return RenderTable(headers, rows)
}

// FormatGoalDetail renders one goal with its progress and roadmap state.
// rm may be nil when no roadmap exists yet.
func FormatGoalDetail(gp *service.GoalProgress, rm *domain.Roadmap, now time.Time) string {
	g := gp.Goal
	var b strings.Builder

	b.WriteString(Bold(g.Title) + "  " + GoalStatusPill(g.Status) + "\n")
	if g.Description != "" {
		b.WriteString(StyleFg.Render(g.Description) + "\n")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  %s\n", Dim("ID:      "), g.ID)
	fmt.Fprintf(&b, "%s  %s\n", Dim("Target:  "), DueDateStyled(g.TargetDate, now))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Created: "), g.CreatedAt.Local().Format(dateLayout))

	b.WriteString("\n")
	c := gp.Counts
	pct := 0.0
	if c.Total > 0 {
		pct = float64(c.Completed) / float64(c.Total)
	}
	fmt.Fprintf(&b, "%s  %s\n", Dim("Progress:"), RenderProgress(pct, goalProgressBarWidth))
	fmt.Fprintf(&b, "%s  %d total, %s, %s, %s\n", Dim("Tasks:   "), c.Total,
		StyleGreen.Render(fmt.Sprintf("%d done", c.Completed)),
		StyleBlue.Render(fmt.Sprintf("%d due", c.Due)),
		StyleRed.Render(fmt.Sprintf("%d missed", c.Missed)),
	)
	fmt.Fprintf(&b, "%s  %s\n", Dim("Risk:    "), RiskIndicator(gp.Risk.Level))

	b.WriteString("\n")
	switch {
	case rm == nil:
		b.WriteString(Dim("No roadmap yet. Run 'scheduler roadmap generate " + ShortID(g.ID) + "'.") + "\n")
	case rm.Approved:
		fmt.Fprintf(&b, "%s  %s, %d phases\n", Dim("Roadmap: "), StyleGreen.Render("approved"), len(rm.Phases))
	default:
		fmt.Fprintf(&b, "%s  %s, %d phases\n", Dim("Roadmap: "), StyleYellow.Render("draft"), len(rm.Phases))
	}

	return RenderBox("Goal", strings.TrimRight(b.String(), "\n"))
}
