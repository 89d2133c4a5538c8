package importer

import (
	"strings"

	"github.com/aadipatodia/Scheduler/internal/domain"
)

// Convert turns a validated PhaseFile into the roadmap text and phases to
// store. Call ValidatePhaseFile first; Convert assumes the file is valid.
func Convert(file *PhaseFile) (string, []domain.Phase) {
	phases := make([]domain.Phase, 0, len(file.Phases))
	for _, p := range file.Phases {
		phases = append(phases, domain.Phase{
			Title:           strings.TrimSpace(p.Title),
			Timeline:        strings.TrimSpace(p.Timeline),
			Goal:            strings.TrimSpace(p.Goal),
			Tasks:           trimAll(p.Tasks),
			SuccessCriteria: trimAll(p.SuccessCriteria),
		})
	}

	text := strings.TrimSpace(file.Roadmap)
	if text == "" {
		text = RenderMarkdown(phases)
	}
	return text, phases
}

func trimAll(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, s := range items {
		out = append(out, strings.TrimSpace(s))
	}
	return out
}
