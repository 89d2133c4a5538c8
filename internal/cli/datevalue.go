package cli

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// dateValue is a pflag.Value holding an optional calendar date at local
// midnight. It accepts YYYY-MM-DD, "today", "tomorrow" and "yesterday".
type dateValue struct {
	t   *time.Time
	now func() time.Time
}

func newDateValue(now func() time.Time) *dateValue {
	if now == nil {
		now = time.Now
	}
	return &dateValue{now: now}
}

func (d *dateValue) String() string {
	if d == nil || d.t == nil {
		return ""
	}
	return d.t.Format(dateLayout)
}

func (d *dateValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	today := startOfLocalDay(d.now())
	var t time.Time
	switch s {
	case "":
		d.t = nil
		return nil
	case "today":
		t = today
	case "tomorrow":
		t = today.AddDate(0, 0, 1)
	case "yesterday":
		t = today.AddDate(0, 0, -1)
	default:
		parsed, err := time.ParseInLocation(dateLayout, s, time.Local)
		if err != nil {
			return fmt.Errorf("expected YYYY-MM-DD, today, tomorrow or yesterday")
		}
		t = parsed
	}
	d.t = &t
	return nil
}

func (d *dateValue) Type() string { return "date" }

// Time returns the parsed date or nil when the flag was not set.
func (d *dateValue) Time() *time.Time { return d.t }

func startOfLocalDay(t time.Time) time.Time {
	y, m, day := t.Local().Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.Local)
}
