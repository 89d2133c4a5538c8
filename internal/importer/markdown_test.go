package importer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/aadipatodia/Scheduler/internal/domain"
)

const generatedRoadmap = `# Roadmap: Become a Go developer

This plan is ambitious but doable.

## Phase 1: Foundations (Weeks 1-2)
**Goal:** Get comfortable with the language.

**Key Tasks:**
- Complete the **Tour of Go**
- Write 10 small programs

**Success Criteria:**
- Can explain interfaces

## Phase 2 - Real Projects
Timeline: 1 Month
Objective: Build things people use.
1. Build a CLI tool
2. Build a web service

### Success criteria
* Two repos on GitHub

**Phase 3: Job Search**
- Polish portfolio

## Final thoughts
- Keep going
`

func TestExtractPhases_GeneratedRoadmap(t *testing.T) {
	got := ExtractPhases(generatedRoadmap)
	want := []domain.Phase{
		{
			Title:           "Foundations",
			Timeline:        "Weeks 1-2",
			Goal:            "Get comfortable with the language.",
			Tasks:           []string{"Complete the Tour of Go", "Write 10 small programs"},
			SuccessCriteria: []string{"Can explain interfaces"},
		},
		{
			Title:           "Real Projects",
			Timeline:        "1 Month",
			Goal:            "Build things people use.",
			Tasks:           []string{"Build a CLI tool", "Build a web service"},
			SuccessCriteria: []string{"Two repos on GitHub"},
		},
		{
			Title: "Job Search",
			Tasks: []string{"Polish portfolio", "Keep going"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ExtractPhases mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractPhases_PlainPhaseLines(t *testing.T) {
	got := ExtractPhases("Phase 1: Basics\n- read\nPhase 2: Practice (3 weeks)\n- build")
	assert.Equal(t, []domain.Phase{
		{Title: "Basics", Tasks: []string{"read"}},
		{Title: "Practice", Timeline: "3 weeks", Tasks: []string{"build"}},
	}, got)
}

func TestExtractPhases_NoPhases(t *testing.T) {
	assert.Nil(t, ExtractPhases("## Phases\nJust some prose.\n- a bullet"))
	assert.Nil(t, ExtractPhases(""))
}

func TestRenderMarkdown_RoundTrip(t *testing.T) {
	phases := []domain.Phase{
		{Title: "Foundations", Timeline: "2 Weeks", Goal: "Basics", Tasks: []string{"Syntax", "Types"}, SuccessCriteria: []string{"Quiz passed"}},
		{Title: "Projects", Timeline: "Month 1-2", Tasks: []string{"CLI tool"}},
		{Title: "Polish"},
	}
	if diff := cmp.Diff(phases, ExtractPhases(RenderMarkdown(phases))); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
