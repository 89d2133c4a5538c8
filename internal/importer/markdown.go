package importer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aadipatodia/Scheduler/internal/domain"
)

var (
	headingRe      = regexp.MustCompile(`^#{1,6}\s+(.+)$`)
	boldLineRe     = regexp.MustCompile(`^\*\*(.+?)\*\*:?\s*$`)
	phasePrefixRe  = regexp.MustCompile(`(?i)^(?:phase|stage|milestone|step)\b\s*(\d+)?\s*([:.)\-–—])?\s*(.*)$`)
	numberedRe     = regexp.MustCompile(`(?i)^phase\s+\d+\s*[:.\-–—]\s*(.+)$`)
	parentheticRe  = regexp.MustCompile(`^(.*?)\s*\(([^()]*)\)\s*$`)
	bulletRe       = regexp.MustCompile(`^(?:[-*+•]|\d+[.)])\s+(.*)$`)
	labelRe        = regexp.MustCompile(`(?i)^(?:\*\*)?\s*(timeline|duration|timeframe|goal|objective|focus|key tasks|tasks|deliverables|success criteria)\s*(?:\*\*)?\s*:\s*(?:\*\*)?\s*(.*)$`)
	criteriaHeadRe = regexp.MustCompile(`(?i)success criteria`)
	tasksHeadRe    = regexp.MustCompile(`(?i)tasks|deliverables`)
)

type listMode int

const (
	modeTasks listMode = iota
	modeCriteria
)

// ExtractPhases recovers phases from free-form roadmap markdown. A phase
// starts at a heading or bold line naming a phase, stage, milestone or step;
// bullets below it become tasks until a success criteria section begins.
// Returns nil when no phase heading is found.
func ExtractPhases(text string) []domain.Phase {
	var phases []domain.Phase
	var cur *domain.Phase
	mode := modeTasks

	flush := func() {
		if cur != nil {
			phases = append(phases, *cur)
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if title, ok := phaseHeading(line); ok {
			flush()
			p := splitTimeline(title)
			cur = &p
			mode = modeTasks
			continue
		}
		if cur == nil {
			continue
		}

		if m := headingRe.FindStringSubmatch(line); m != nil {
			mode = sectionMode(m[1], mode)
			continue
		}

		item := line
		isBullet := false
		if m := bulletRe.FindStringSubmatch(line); m != nil {
			item = m[1]
			isBullet = true
		}

		if m := labelRe.FindStringSubmatch(item); m != nil {
			value := stripBold(m[2])
			switch strings.ToLower(m[1]) {
			case "timeline", "duration", "timeframe":
				if value != "" {
					cur.Timeline = value
				}
			case "goal", "objective", "focus":
				if value != "" {
					cur.Goal = value
				}
			case "success criteria":
				mode = modeCriteria
				appendItem(cur, mode, value)
			default:
				mode = modeTasks
				appendItem(cur, mode, value)
			}
			continue
		}

		if isBullet {
			appendItem(cur, mode, stripBold(item))
			continue
		}
		if m := boldLineRe.FindStringSubmatch(line); m != nil {
			mode = sectionMode(m[1], mode)
			continue
		}
		if cur.Goal == "" {
			cur.Goal = stripBold(line)
		}
	}
	flush()
	return phases
}

func phaseHeading(line string) (string, bool) {
	var text string
	if m := headingRe.FindStringSubmatch(line); m != nil {
		text = stripBold(m[1])
	} else if m := boldLineRe.FindStringSubmatch(line); m != nil {
		text = strings.TrimSpace(m[1])
	} else if m := numberedRe.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(strings.TrimSuffix(stripBold(m[1]), ":")), true
	} else {
		return "", false
	}

	m := phasePrefixRe.FindStringSubmatch(text)
	if m == nil || (m[1] == "" && m[2] != ":") {
		return "", false
	}
	title := strings.TrimSpace(strings.TrimSuffix(m[3], ":"))
	if title == "" {
		title = strings.TrimSpace(strings.TrimSuffix(text, ":"))
	}
	return title, true
}

func splitTimeline(title string) domain.Phase {
	if m := parentheticRe.FindStringSubmatch(title); m != nil && strings.TrimSpace(m[1]) != "" {
		return domain.Phase{Title: strings.TrimSpace(m[1]), Timeline: strings.TrimSpace(m[2])}
	}
	return domain.Phase{Title: title}
}

func sectionMode(heading string, current listMode) listMode {
	switch {
	case criteriaHeadRe.MatchString(heading):
		return modeCriteria
	case tasksHeadRe.MatchString(heading):
		return modeTasks
	default:
		return current
	}
}

func appendItem(p *domain.Phase, mode listMode, item string) {
	if item == "" {
		return
	}
	if mode == modeCriteria {
		p.SuccessCriteria = append(p.SuccessCriteria, item)
		return
	}
	p.Tasks = append(p.Tasks, item)
}

func stripBold(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "**", ""))
}

// RenderMarkdown writes phases as roadmap markdown that ExtractPhases reads
// back unchanged.
func RenderMarkdown(phases []domain.Phase) string {
	var b strings.Builder
	for i, p := range phases {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "## Phase %d: %s", i+1, p.Title)
		if p.Timeline != "" {
			fmt.Fprintf(&b, " (%s)", p.Timeline)
		}
		b.WriteString("\n")
		if p.Goal != "" {
			fmt.Fprintf(&b, "\nGoal: %s\n", p.Goal)
		}
		if len(p.Tasks) > 0 {
			b.WriteString("\nTasks:\n")
			for _, t := range p.Tasks {
				fmt.Fprintf(&b, "- %s\n", t)
			}
		}
		if len(p.SuccessCriteria) > 0 {
			b.WriteString("\nSuccess criteria:\n")
			for _, c := range p.SuccessCriteria {
				fmt.Fprintf(&b, "- %s\n", c)
			}
		}
	}
	return b.String()
}
