package domain

import "time"

// AuditEntry records one change to a task.
type AuditEntry struct {
	ID        string
	TaskID    string
	Action    string
	FieldName string
	OldValue  string
	NewValue  string
	Reason    string
	Timestamp time.Time
}

const (
	AuditCreated   = "created"
	AuditUpdated   = "updated"
	AuditScheduled = "scheduled"
	AuditMissed    = "missed"
)

// RecalibrationLog records the outcome of analysing a goal's missed tasks.
type RecalibrationLog struct {
	ID              string
	GoalID          string
	Reason          string
	Severity        Severity
	Recommendations []string
	TasksAffected   []string
	AdjustmentDays  int
	Motivation      string
	UsedFallback    bool
	CreatedAt       time.Time
}
