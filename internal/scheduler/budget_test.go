package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayBudget(t *testing.T) {
	now := time.Date(2025, 3, 1, 18, 30, 0, 0, time.Local)
	inMonth := time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC)
	sameDay := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	past := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		target       *time.Time
		phases       int
		daysPerPhase int
		want         int
	}{
		{"no target uses per-phase default", nil, 3, 7, 21},
		{"non-positive per-phase falls back to 7", nil, 2, 0, 14},
		{"target inclusive of today", &inMonth, 3, 7, 30},
		{"target today", &sameDay, 1, 7, 1},
		{"target today with more phases", &sameDay, 4, 7, 4},
		{"target in the past uses default", &past, 2, 5, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DayBudget(now, tt.target, tt.phases, tt.daysPerPhase))
		})
	}
}
