package api

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aadipatodia/Scheduler/internal/domain"
	"github.com/aadipatodia/Scheduler/internal/repository"
	"github.com/aadipatodia/Scheduler/internal/scheduler"
	"github.com/aadipatodia/Scheduler/internal/service"
)

const dateLayout = "2006-01-02"

// parseDate reads a calendar date as local midnight.
func parseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return d, nil
}

func dateString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func timestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// Goals

type goalRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	TargetDate  *string `json:"target_date"`
	Status      string  `json:"status"`
}

// goalPatch holds optional goal fields. An empty target_date clears it.
type goalPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	TargetDate  *string `json:"target_date"`
	Status      *string `json:"status"`
}

type goalResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	TargetDate  *string `json:"target_date"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func newGoalResponse(g *domain.Goal) goalResponse {
	return goalResponse{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		TargetDate:  dateString(g.TargetDate),
		Status:      string(g.Status),
		CreatedAt:   *timestamp(&g.CreatedAt),
		UpdatedAt:   *timestamp(&g.UpdatedAt),
	}
}

// Roadmaps

type generateRequest struct {
	Context string `json:"context"`
}

type refineRequest struct {
	Feedback string `json:"feedback"`
}

type roadmapResponse struct {
	ID         string         `json:"id"`
	GoalID     string         `json:"goal_id"`
	Roadmap    string         `json:"roadmap"`
	Phases     []domain.Phase `json:"phases"`
	Approved   bool           `json:"approved"`
	ApprovedAt *string        `json:"approved_at"`
	CreatedAt  string         `json:"created_at"`
	UpdatedAt  string         `json:"updated_at"`
}

func newRoadmapResponse(r *domain.Roadmap) roadmapResponse {
	phases := r.Phases
	if phases == nil {
		phases = []domain.Phase{}
	}
	return roadmapResponse{
		ID:         r.ID,
		GoalID:     r.GoalID,
		Roadmap:    r.Text,
		Phases:     phases,
		Approved:   r.Approved,
		ApprovedAt: timestamp(r.ApprovedAt),
		CreatedAt:  *timestamp(&r.CreatedAt),
		UpdatedAt:  *timestamp(&r.UpdatedAt),
	}
}

type previewTask struct {
	Day         int    `json:"day"`
	Date        string `json:"date"`
	PhaseIndex  int    `json:"phase_index"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
}

type previewResponse struct {
	GoalID         string            `json:"goal_id"`
	RoadmapID      string            `json:"roadmap_id"`
	StartDate      string            `json:"start_date"`
	TotalDays      int               `json:"total_days"`
	Source         string            `json:"source"`
	FallbackReason string            `json:"fallback_reason,omitempty"`
	Ranges         []domain.DayRange `json:"ranges"`
	Tasks          []previewTask     `json:"tasks"`
}

func newPreviewResponse(p *service.SchedulePreview) previewResponse {
	resp := previewResponse{
		GoalID:         p.Goal.ID,
		RoadmapID:      p.Roadmap.ID,
		StartDate:      p.StartDate.Format(dateLayout),
		TotalDays:      p.TotalDays,
		Source:         string(p.Schedule.Source),
		FallbackReason: p.Schedule.FallbackReason,
		Ranges:         p.Schedule.Ranges,
		Tasks:          make([]previewTask, 0, len(p.Schedule.Tasks)),
	}
	for _, t := range p.Schedule.Tasks {
		resp.Tasks = append(resp.Tasks, previewTask{
			Day:         t.Day,
			Date:        p.Date(t.Day).Format(dateLayout),
			PhaseIndex:  t.PhaseIndex,
			Title:       t.Title,
			Description: t.Description,
			Priority:    t.Priority,
		})
	}
	return resp
}

type approvalResponse struct {
	Roadmap        roadmapResponse `json:"roadmap"`
	TasksCreated   int             `json:"tasks_created"`
	TasksReplaced  int             `json:"tasks_replaced"`
	TotalDays      int             `json:"total_days"`
	Source         string          `json:"source"`
	FallbackReason string          `json:"fallback_reason,omitempty"`
}

func newApprovalResponse(res *service.ApprovalResult) approvalResponse {
	return approvalResponse{
		Roadmap:        newRoadmapResponse(res.Roadmap),
		TasksCreated:   len(res.Tasks),
		TasksReplaced:  res.Replaced,
		TotalDays:      res.TotalDays,
		Source:         string(res.Source),
		FallbackReason: res.FallbackReason,
	}
}

// Tasks

// statusValue accepts a task status as a number (-1, 0, 1) or a word.
type statusValue domain.TaskStatus

func (s *statusValue) UnmarshalJSON(data []byte) error {
	raw := string(bytes.TrimSpace(data))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	st, ok := domain.ParseTaskStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !ok {
		return fmt.Errorf("invalid task status %s", data)
	}
	*s = statusValue(st)
	return nil
}

type taskRequest struct {
	GoalID        *string `json:"goal_id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Priority      *int    `json:"priority"`
	ScheduledDate *string `json:"scheduled_date"`
}

type taskPatch struct {
	Title         *string      `json:"title"`
	Description   *string      `json:"description"`
	Status        *statusValue `json:"status"`
	Priority      *int         `json:"priority"`
	Category      *string      `json:"category"`
	ScheduledDate *string      `json:"scheduled_date"`
	Reason        string       `json:"reason"`
}

func (p taskPatch) toUpdate() (service.TaskUpdate, error) {
	upd := service.TaskUpdate{
		Title:       p.Title,
		Description: p.Description,
		Priority:    p.Priority,
		Reason:      p.Reason,
	}
	if p.Status != nil {
		st := domain.TaskStatus(*p.Status)
		upd.Status = &st
	}
	if p.Category != nil {
		c := domain.TaskCategory(*p.Category)
		upd.Category = &c
	}
	if p.ScheduledDate != nil {
		d, err := parseDate(*p.ScheduledDate)
		if err != nil {
			return upd, err
		}
		upd.ScheduledDate = &d
	}
	return upd, nil
}

type taskResponse struct {
	ID            string  `json:"id"`
	GoalID        *string `json:"goal_id"`
	RoadmapID     *string `json:"roadmap_id"`
	PhaseIndex    *int    `json:"phase_index"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Status        int     `json:"status"`
	StatusLabel   string  `json:"status_label"`
	Priority      int     `json:"priority"`
	Source        string  `json:"source"`
	ScheduledDate *string `json:"scheduled_date"`
	CompletedAt   *string `json:"completed_at"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func newTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:            t.ID,
		GoalID:        t.GoalID,
		RoadmapID:     t.RoadmapID,
		PhaseIndex:    t.PhaseIndex,
		Title:         t.Title,
		Description:   t.Description,
		Category:      string(t.Category),
		Status:        int(t.Status),
		StatusLabel:   t.Status.String(),
		Priority:      t.Priority,
		Source:        string(t.Source),
		ScheduledDate: dateString(t.ScheduledDate),
		CompletedAt:   timestamp(t.CompletedAt),
		CreatedAt:     *timestamp(&t.CreatedAt),
		UpdatedAt:     *timestamp(&t.UpdatedAt),
	}
}

func newTaskResponses(tasks []*domain.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, newTaskResponse(t))
	}
	return out
}

type countsResponse struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Due       int `json:"due"`
	Missed    int `json:"missed"`
}

func newCountsResponse(c repository.TaskCounts) countsResponse {
	return countsResponse{Total: c.Total, Completed: c.Completed, Due: c.Due, Missed: c.Missed}
}

type dayResponse struct {
	Date   string         `json:"date"`
	Tasks  []taskResponse `json:"tasks"`
	Counts countsResponse `json:"counts"`
}

type auditResponse struct {
	ID        string `json:"id"`
	TaskID    string `json:"task_id"`
	Action    string `json:"action"`
	FieldName string `json:"field_name,omitempty"`
	OldValue  string `json:"old_value,omitempty"`
	NewValue  string `json:"new_value,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Timestamp string `json:"timestamp"`
}

func newAuditResponses(entries []*domain.AuditEntry) []auditResponse {
	out := make([]auditResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditResponse{
			ID:        e.ID,
			TaskID:    e.TaskID,
			Action:    e.Action,
			FieldName: e.FieldName,
			OldValue:  e.OldValue,
			NewValue:  e.NewValue,
			Reason:    e.Reason,
			Timestamp: *timestamp(&e.Timestamp),
		})
	}
	return out
}

// Recalibration and stats

type recalibrationLogResponse struct {
	ID              string   `json:"id"`
	GoalID          string   `json:"goal_id"`
	Reason          string   `json:"reason"`
	Severity        string   `json:"severity"`
	Recommendations []string `json:"recommendations"`
	TasksAffected   []string `json:"tasks_affected"`
	AdjustmentDays  int      `json:"adjustment_days"`
	Motivation      string   `json:"motivation_message"`
	UsedFallback    bool     `json:"used_fallback"`
	CreatedAt       string   `json:"created_at"`
}

func newRecalibrationLogResponse(l *domain.RecalibrationLog) *recalibrationLogResponse {
	if l == nil {
		return nil
	}
	return &recalibrationLogResponse{
		ID:              l.ID,
		GoalID:          l.GoalID,
		Reason:          l.Reason,
		Severity:        string(l.Severity),
		Recommendations: l.Recommendations,
		TasksAffected:   l.TasksAffected,
		AdjustmentDays:  l.AdjustmentDays,
		Motivation:      l.Motivation,
		UsedFallback:    l.UsedFallback,
		CreatedAt:       *timestamp(&l.CreatedAt),
	}
}

type recalibrationResponse struct {
	GoalID  string                    `json:"goal_id"`
	Missed  int                       `json:"missed"`
	Boosted []string                  `json:"boosted"`
	Log     *recalibrationLogResponse `json:"log"`
}

func newRecalibrationResponse(r *service.GoalRecalibration) recalibrationResponse {
	boosted := r.Boosted
	if boosted == nil {
		boosted = []string{}
	}
	return recalibrationResponse{
		GoalID:  r.GoalID,
		Missed:  r.Missed,
		Boosted: boosted,
		Log:     newRecalibrationLogResponse(r.Log),
	}
}

type riskResponse struct {
	Level         string  `json:"level"`
	DaysLeft      *int    `json:"days_left"`
	CompletionPct float64 `json:"completion_pct"`
	ElapsedPct    float64 `json:"elapsed_pct"`
	MissedPct     float64 `json:"missed_pct"`
}

func newRiskResponse(r scheduler.GoalRiskResult) riskResponse {
	return riskResponse{
		Level:         string(r.Level),
		DaysLeft:      r.DaysLeft,
		CompletionPct: r.CompletionPct,
		ElapsedPct:    r.ElapsedPct,
		MissedPct:     r.MissedPct,
	}
}

type progressResponse struct {
	Goal   goalResponse   `json:"goal"`
	Counts countsResponse `json:"counts"`
	Risk   riskResponse   `json:"risk"`
}

func newProgressResponse(gp *service.GoalProgress) progressResponse {
	return progressResponse{
		Goal:   newGoalResponse(gp.Goal),
		Counts: newCountsResponse(gp.Counts),
		Risk:   newRiskResponse(gp.Risk),
	}
}

type overviewResponse struct {
	TotalGoals     int                `json:"total_goals"`
	ActiveGoals    int                `json:"active_goals"`
	CompletedGoals int                `json:"completed_goals"`
	TotalTasks     int                `json:"total_tasks"`
	CompletedTasks int                `json:"completed_tasks"`
	MissedTasks    int                `json:"missed_tasks"`
	DueTasks       int                `json:"due_tasks"`
	CompletionRate float64            `json:"completion_rate"`
	Goals          []progressResponse `json:"goals"`
}

func newOverviewResponse(ov *service.Overview) overviewResponse {
	resp := overviewResponse{
		TotalGoals:     ov.TotalGoals,
		ActiveGoals:    ov.ActiveGoals,
		CompletedGoals: ov.CompletedGoals,
		TotalTasks:     ov.Tasks.Total,
		CompletedTasks: ov.Tasks.Completed,
		MissedTasks:    ov.Tasks.Missed,
		DueTasks:       ov.Tasks.Due,
		CompletionRate: ov.CompletionRate,
		Goals:          make([]progressResponse, 0, len(ov.Goals)),
	}
	for i := range ov.Goals {
		resp.Goals = append(resp.Goals, newProgressResponse(&ov.Goals[i]))
	}
	return resp
}
