package service

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aadipatodia/Scheduler/internal/domain"
)

// defaultDaysRemaining stands in for the time left on goals without a target date.
const defaultDaysRemaining = 90

// localDay returns local midnight of now's calendar date.
func localDay(now time.Time) time.Time {
	return domain.StartOfDay(now.Local())
}

// daysUntil counts calendar days from now to target, or returns
// defaultDaysRemaining when there is no target.
func daysUntil(now time.Time, target *time.Time) int {
	if target == nil {
		return defaultDaysRemaining
	}
	ny, nm, nd := now.Local().Date()
	ty, tm, td := target.Date()
	a := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// titlePrefix returns at most n runes of s.
func titlePrefix(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func newAuditEntry(taskID, action, field, oldValue, newValue, reason string, now time.Time) *domain.AuditEntry {
	return &domain.AuditEntry{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		Action:    action,
		FieldName: field,
		OldValue:  oldValue,
		NewValue:  newValue,
		Reason:    reason,
		Timestamp: now,
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
