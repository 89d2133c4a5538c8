package formatter

import (
	"fmt"
	"strings"

	"github.com/aadipatodia/Scheduler/internal/domain"
	"github.com/aadipatodia/Scheduler/internal/service"
)

const dayProgressBarWidth = 20

// FormatTaskList renders tasks as a table.
func FormatTaskList(tasks []*domain.Task) string {
	headers := []string{"ID", "DATE", "STATUS", "PRI", "TITLE"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			Dim(ShortID(t.ID)),
			optionalDate(t.ScheduledDate),
			TaskStatusPill(t.Status),
			PriorityLabel(t.Priority),
			Truncate(t.Title, 60),
		})
	}
	return RenderTable(headers, rows)
}

// FormatDayView renders one day's checklist with completion counts.
func FormatDayView(v *service.DayView) string {
	var b strings.Builder
	b.WriteString(Header(HumanDate(v.Date)) + "\n\n")

	if len(v.Tasks) == 0 {
		b.WriteString(Dim("No tasks scheduled.") + "\n")
		return b.String()
	}

	for _, t := range v.Tasks {
		box := StyleBlue.Render("[ ]")
		title := Bold(t.Title)
		switch t.Status {
		case domain.TaskCompleted:
			box = StyleGreen.Render("[✔]")
			title = Dim(t.Title)
		case domain.TaskMissed:
			box = StyleRed.Render("[✖]")
			title = StyleRed.Render(t.Title)
		}
		fmt.Fprintf(&b, "%s %s %s  %s\n", box, PriorityLabel(t.Priority), title, Dim(ShortID(t.ID)))
		if t.Description != "" {
			b.WriteString("       " + StyleFg.Render(Truncate(t.Description, 80)) + "\n")
		}
	}

	c := v.Counts
	pct := 0.0
	if c.Total > 0 {
		pct = float64(c.Completed) / float64(c.Total)
	}
	b.WriteString("\n" + RenderProgress(pct, dayProgressBarWidth) + "  ")
	fmt.Fprintf(&b, "%d/%d done", c.Completed, c.Total)
	if c.Missed > 0 {
		b.WriteString(", " + StyleRed.Render(fmt.Sprintf("%d missed", c.Missed)))
	}
	b.WriteString("\n")
	return b.String()
}

// FormatTaskHistory renders a task's audit trail oldest first.
func FormatTaskHistory(entries []*domain.AuditEntry) string {
	if len(entries) == 0 {
		return Dim("No history.") + "\n"
	}
	headers := []string{"WHEN", "ACTION", "CHANGE", "REASON"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		change := ""
		if e.FieldName != "" {
			change = fmt.Sprintf("%s: %s → %s", e.FieldName, orDash(e.OldValue), orDash(e.NewValue))
		}
		rows = append(rows, []string{
			Dim(e.Timestamp.Local().Format("2006-01-02 15:04")),
			e.Action,
			change,
			Dim(e.Reason),
		})
	}
	return RenderTable(headers, rows)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
