package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/aadipatodia/Scheduler/internal/domain"
)

const dateLayout = "2006-01-02"

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDateFrom describes t relative to now in whole calendar days.
func RelativeDateFrom(t time.Time, now time.Time) string {
	days := calendarDays(now, t)

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// DueDateStyled renders a target date with urgency coloring relative to now.
func DueDateStyled(t *time.Time, now time.Time) string {
	if t == nil {
		return Dim("--")
	}
	days := calendarDays(now, *t)
	date := StyleFg.Render(t.Format(dateLayout))
	switch {
	case days <= 2:
		date = StyleRed.Render(t.Format(dateLayout))
	case days <= 7:
		date = StyleYellow.Render(t.Format(dateLayout))
	}
	return date + " " + Dim("("+RelativeDateFrom(*t, now)+")")
}

func calendarDays(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(math.Round(b.Sub(a).Hours() / 24))
}

// HumanDate returns a friendly absolute date such as "Mon, Mar 3".
func HumanDate(t time.Time) string {
	return t.Format("Mon, Jan 2 2006")
}

// GoalStatusPill returns a colored indicator for a goal status.
func GoalStatusPill(status domain.GoalStatus) string {
	switch status {
	case domain.GoalActive:
		return StyleGreen.Render("● Active")
	case domain.GoalCompleted:
		return StyleDim.Render("✔ Completed")
	case domain.GoalAbandoned:
		return StyleDim.Render("✖ Abandoned")
	default:
		return StyleDim.Render(string(status))
	}
}

// TaskStatusPill returns a colored indicator for a task status.
func TaskStatusPill(status domain.TaskStatus) string {
	switch status {
	case domain.TaskCompleted:
		return StyleGreen.Render("✔ done")
	case domain.TaskMissed:
		return StyleRed.Render("✖ missed")
	case domain.TaskDue:
		return StyleBlue.Render("○ due")
	default:
		return StyleDim.Render(status.String())
	}
}

// PriorityLabel renders a 0-5 priority, highlighting the top two levels.
func PriorityLabel(p int) string {
	label := fmt.Sprintf("P%d", p)
	switch {
	case p >= 5:
		return StyleRed.Render(label)
	case p == 4:
		return StyleYellow.Render(label)
	default:
		return StyleFg.Render(label)
	}
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// ShortID returns the first 8 characters of an ID for display.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// optionalDate formats a nullable date or a dim placeholder.
func optionalDate(t *time.Time) string {
	if t == nil {
		return Dim("--")
	}
	return t.Format(dateLayout)
}
