package formatter

import (
	"fmt"
	"strings"

	"github.com/aadipatodia/Scheduler/internal/domain"
	"github.com/aadipatodia/Scheduler/internal/scheduler"
	"github.com/aadipatodia/Scheduler/internal/service"
)

// FormatRoadmap renders a roadmap's phases as a tree. Roadmaps without
// structured phases fall back to their raw text.
func FormatRoadmap(rm *domain.Roadmap) string {
	var b strings.Builder

	state := StyleYellow.Render("draft, not yet approved")
	if rm.Approved && rm.ApprovedAt != nil {
		state = StyleGreen.Render("approved " + rm.ApprovedAt.Local().Format(dateLayout))
	}
	fmt.Fprintf(&b, "%s  %s\n", Dim("Roadmap "+ShortID(rm.ID)), state)
	b.WriteString("\n")

	if len(rm.Phases) == 0 {
		b.WriteString(strings.TrimSpace(rm.Text) + "\n")
		return b.String()
	}

	b.WriteString(RenderTree(PhaseTree(rm.Phases)))
	return b.String()
}

// PhaseTree flattens phases into tree lines: each phase heading followed by
// its goal, tasks and success criteria.
func PhaseTree(phases []domain.Phase) []TreeItem {
	var items []TreeItem
	for i, p := range phases {
		items = append(items, TreeItem{
			Title:  Bold(fmt.Sprintf("Phase %d: %s", i+1, p.Title)),
			Detail: p.Timeline,
		})

		var children []string
		if p.Goal != "" {
			children = append(children, StyleFg.Render("Goal: "+p.Goal))
		}
		children = append(children, p.Tasks...)
		for _, c := range p.SuccessCriteria {
			children = append(children, StyleGreen.Render("✓ ")+Dim(c))
		}
		for j, c := range children {
			items = append(items, TreeItem{Title: c, Level: 1, IsLast: j == len(children)-1})
		}
	}
	return items
}

// FormatSchedulePreview renders a computed schedule as a table of dated tasks.
func FormatSchedulePreview(p *service.SchedulePreview) string {
	var b strings.Builder
	b.WriteString(previewSummary(p) + "\n\n")

	headers := []string{"DAY", "DATE", "PHASE", "PRI", "TASK"}
	rows := make([][]string, 0, len(p.Schedule.Tasks))
	for _, t := range p.Schedule.Tasks {
		rows = append(rows, []string{
			fmt.Sprintf("%d", t.Day),
			Dim(p.Date(t.Day).Format(dateLayout)),
			phaseLabel(p.Roadmap.Phases, t.PhaseIndex),
			PriorityLabel(t.Priority),
			Truncate(t.Title, 60),
		})
	}
	b.WriteString(RenderTable(headers, rows))
	return b.String()
}

// FormatScheduleDay renders the tasks planned for one day of a preview.
func FormatScheduleDay(p *service.SchedulePreview, day int) string {
	var b strings.Builder
	date := p.Date(day)
	b.WriteString(Header(fmt.Sprintf("Day %d of %d  %s", day, p.TotalDays, HumanDate(date))) + "\n\n")

	found := false
	for _, t := range p.Schedule.Tasks {
		if t.Day != day {
			continue
		}
		found = true
		fmt.Fprintf(&b, "%s %s  %s\n", PriorityLabel(t.Priority), Bold(t.Title), Dim(phaseLabel(p.Roadmap.Phases, t.PhaseIndex)))
		if t.Description != "" {
			b.WriteString("   " + StyleFg.Render(t.Description) + "\n")
		}
	}
	if !found {
		b.WriteString(Dim("Nothing planned.") + "\n")
	}
	return b.String()
}

func previewSummary(p *service.SchedulePreview) string {
	end := p.Date(p.TotalDays)
	line := fmt.Sprintf("%s  %d days, %s to %s, %d tasks",
		Bold(p.Goal.Title), p.TotalDays,
		p.StartDate.Format(dateLayout), end.Format(dateLayout),
		len(p.Schedule.Tasks),
	)
	return line + "\n" + sourceNote(p.Schedule.Source, p.Schedule.FallbackReason)
}

func sourceNote(src scheduler.ScheduleSource, reason string) string {
	if src == scheduler.SourceFallback {
		note := "Built by the deterministic distributor"
		if reason != "" {
			note += " (" + reason + ")"
		}
		return StyleYellow.Render(note)
	}
	return Dim("Generated by the language model")
}

func phaseLabel(phases []domain.Phase, idx int) string {
	if idx < 0 || idx >= len(phases) {
		return fmt.Sprintf("Phase %d", idx+1)
	}
	return Truncate(fmt.Sprintf("%d. %s", idx+1, phases[idx].Title), 24)
}

// FormatApproval summarises the tasks written by approving a roadmap.
func FormatApproval(res *service.ApprovalResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Roadmap %s approved\n", StyleGreen.Render("✔"), ShortID(res.Roadmap.ID))
	fmt.Fprintf(&b, "  %d tasks scheduled over %d days", len(res.Tasks), res.TotalDays)
	if res.Replaced > 0 {
		fmt.Fprintf(&b, ", %d pending tasks replaced", res.Replaced)
	}
	b.WriteString("\n  " + sourceNote(res.Source, res.FallbackReason) + "\n")
	return b.String()
}
