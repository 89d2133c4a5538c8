package formatter

import (
	"fmt"
	"strings"

	"github.com/aadipatodia/Scheduler/internal/domain"
	"github.com/aadipatodia/Scheduler/internal/service"
)

// FormatRecalibration renders the outcome of recalibrating one goal.
func FormatRecalibration(goalTitle string, rec *service.GoalRecalibration) string {
	var b strings.Builder
	if rec.Log == nil {
		fmt.Fprintf(&b, "%s %s has no missed tasks. Nothing to recalibrate.\n", StyleGreen.Render("✔"), Bold(goalTitle))
		return b.String()
	}
	l := rec.Log
	fmt.Fprintf(&b, "%s  %s  %s\n", Bold(goalTitle), SeverityBadge(l.Severity), Dim(l.Reason))
	if l.UsedFallback {
		b.WriteString(Dim("  (model unavailable, standard advice shown)") + "\n")
	}
	if len(l.Recommendations) > 0 {
		b.WriteString("\n")
		for _, r := range l.Recommendations {
			b.WriteString("  • " + r + "\n")
		}
	}
	if l.AdjustmentDays > 0 {
		b.WriteString("\n  " + StyleYellow.Render(fmt.Sprintf("Target date extended by %d days", l.AdjustmentDays)) + "\n")
	}
	if len(rec.Boosted) > 0 {
		fmt.Fprintf(&b, "  %s\n", StyleBlue.Render(fmt.Sprintf("Raised priority of %d upcoming tasks", len(rec.Boosted))))
	}
	if l.Motivation != "" {
		b.WriteString("\n  " + StylePurple.Render(l.Motivation) + "\n")
	}
	return b.String()
}

// FormatSweep renders a missed-task sweep. titles maps goal IDs to titles.
func FormatSweep(res *service.SweepResult, titles map[string]string) string {
	if res.Marked == 0 {
		return Dim("No overdue tasks.") + "\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Marked %d overdue tasks as missed.\n", res.Marked)
	for i := range res.Goals {
		rec := &res.Goals[i]
		title := titles[rec.GoalID]
		if title == "" {
			title = ShortID(rec.GoalID)
		}
		b.WriteString("\n" + FormatRecalibration(title, rec))
	}
	return b.String()
}

// FormatRecalibrationLogs lists past recalibrations newest first.
func FormatRecalibrationLogs(logs []*domain.RecalibrationLog) string {
	if len(logs) == 0 {
		return Dim("No recalibrations yet.") + "\n"
	}
	headers := []string{"WHEN", "SEVERITY", "REASON", "ADJUSTED"}
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		adjusted := Dim("--")
		if l.AdjustmentDays > 0 {
			adjusted = fmt.Sprintf("+%dd", l.AdjustmentDays)
		}
		rows = append(rows, []string{
			Dim(l.CreatedAt.Local().Format("2006-01-02 15:04")),
			SeverityBadge(l.Severity),
			l.Reason,
			adjusted,
		})
	}
	return RenderTable(headers, rows)
}
