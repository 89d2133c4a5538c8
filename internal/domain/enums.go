package domain

type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalAbandoned GoalStatus = "abandoned"
)

// ValidGoalStatuses is the canonical set of accepted goal status strings.
var ValidGoalStatuses = map[string]bool{
	"active": true, "completed": true, "abandoned": true,
}

// TaskStatus mirrors the integer status stored for tasks:
// -1 missed, 0 due, 1 completed.
type TaskStatus int

const (
	TaskMissed    TaskStatus = -1
	TaskDue       TaskStatus = 0
	TaskCompleted TaskStatus = 1
)

func (s TaskStatus) String() string {
	switch s {
	case TaskMissed:
		return "missed"
	case TaskDue:
		return "due"
	case TaskCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// ParseTaskStatus accepts either the word form ("due") or the integer form ("0").
func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch s {
	case "missed", "-1":
		return TaskMissed, true
	case "due", "0":
		return TaskDue, true
	case "completed", "done", "1":
		return TaskCompleted, true
	default:
		return 0, false
	}
}

type TaskCategory string

const (
	CategoryDaily     TaskCategory = "daily"
	CategoryWeekly    TaskCategory = "weekly"
	CategoryMilestone TaskCategory = "milestone"
)

// ValidTaskCategories is the canonical set of accepted task category strings.
var ValidTaskCategories = map[string]bool{
	"daily": true, "weekly": true, "milestone": true,
}

// TaskSource records whether a task was entered by hand or produced by
// approving a roadmap. Only schedule tasks are replaced on re-approval.
type TaskSource string

const (
	SourceManual   TaskSource = "manual"
	SourceSchedule TaskSource = "schedule"
)

type RiskLevel string

const (
	RiskOnTrack  RiskLevel = "on_track"
	RiskAtRisk   RiskLevel = "at_risk"
	RiskCritical RiskLevel = "critical"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Priority bounds shared by manual and scheduled tasks.
const (
	MinPriority = 0
	MaxPriority = 5
)
