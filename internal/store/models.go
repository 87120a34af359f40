package store

import "time"

// DateLayout is the calendar-date key format used for history and daily
// statistics. Dates are always derived from UTC.
const DateLayout = "2006-01-02"

// DateKey returns the UTC calendar date of t.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

type CompletedTask struct {
	ID              string
	Name            string
	DurationMinutes int
	SessionCount    int // ordinal completion count for Name, 1-based
	CompletedAt     time.Time
	Date            string
}

type DailyStats struct {
	Date           string
	Sessions       int
	TotalMinutes   int
	TasksCompleted int
	LastUpdated    time.Time
}

type Interval struct {
	ID             int64
	Mode           string // work, short_break, long_break
	PlannedSeconds int
	TaskName       string
	Status         string // running, completed, cancelled
	StartedAt      time.Time
	FinishedAt     *time.Time
}

type Setting struct {
	Key   string
	Value string
}
