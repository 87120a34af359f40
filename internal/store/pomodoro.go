package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Interval statuses.
const (
	IntervalRunning   = "running"
	IntervalCompleted = "completed"
	IntervalCancelled = "cancelled"
)

// StartInterval records the start of a work or break countdown.
func (s *Store) StartInterval(mode string, plannedSeconds int, taskName string) (*Interval, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO intervals (mode, planned_seconds, task_name, status, started_at)
		 VALUES (?, ?, ?, 'running', ?)`,
		mode, plannedSeconds, taskName, now,
	)
	if err != nil {
		return nil, fmt.Errorf("start interval: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetInterval(id)
}

func (s *Store) GetInterval(id int64) (*Interval, error) {
	iv := &Interval{}
	var startedAt string
	var finishedAt sql.NullString

	err := s.db.QueryRow(
		`SELECT id, mode, planned_seconds, task_name, status, started_at, finished_at
		 FROM intervals WHERE id = ?`, id,
	).Scan(&iv.ID, &iv.Mode, &iv.PlannedSeconds, &iv.TaskName, &iv.Status, &startedAt, &finishedAt)
	if err != nil {
		return nil, fmt.Errorf("get interval %d: %w", id, err)
	}
	iv.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	if finishedAt.Valid {
		t, _ := time.Parse(time.RFC3339, finishedAt.String)
		iv.FinishedAt = &t
	}
	return iv, nil
}

// FinishInterval closes a running interval with status. Intervals that are
// already finished are left untouched.
func (s *Store) FinishInterval(id int64, status string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE intervals SET status = ?, finished_at = ? WHERE id = ? AND status = 'running'`,
		status, now, id,
	)
	if err != nil {
		return fmt.Errorf("finish interval %d: %w", id, err)
	}
	return nil
}

// IntervalStats counts finished intervals started in [from, to).
func (s *Store) IntervalStats(from, to time.Time) (completed, cancelled int, err error) {
	err = s.db.QueryRow(`
		SELECT
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'cancelled' THEN 1 ELSE 0 END), 0)
		FROM intervals
		WHERE started_at >= ? AND started_at < ?`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	).Scan(&completed, &cancelled)
	return
}
