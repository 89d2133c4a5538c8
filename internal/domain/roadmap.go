package domain

import "time"

// Phase is one stage of a roadmap. Timeline is free text ("2 Weeks",
// "Month 1-2") interpreted by the scheduler.
type Phase struct {
	Title           string   `json:"title" yaml:"title"`
	Timeline        string   `json:"timeline" yaml:"timeline"`
	Goal            string   `json:"goal" yaml:"goal"`
	Tasks           []string `json:"tasks" yaml:"tasks"`
	SuccessCriteria []string `json:"success_criteria" yaml:"success_criteria"`
}

type Roadmap struct {
	ID         string
	GoalID     string
	Text       string
	Phases     []Phase
	Approved   bool
	ApprovedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Approve marks the roadmap approved at now.
func (r *Roadmap) Approve(now time.Time) {
	r.Approved = true
	r.ApprovedAt = &now
	r.UpdatedAt = now
}

// Revise replaces the roadmap content and clears approval.
func (r *Roadmap) Revise(text string, phases []Phase, now time.Time) {
	r.Text = text
	r.Phases = phases
	r.Approved = false
	r.ApprovedAt = nil
	r.UpdatedAt = now
}
