package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetDailyStats returns the record for date. ok is false when no record
// has been written for that date yet.
func (s *Store) GetDailyStats(date string) (ds DailyStats, ok bool, err error) {
	var lastUpdated string
	err = s.db.QueryRow(
		`SELECT date, sessions, total_minutes, tasks_completed, last_updated
		 FROM daily_stats WHERE date = ?`, date,
	).Scan(&ds.Date, &ds.Sessions, &ds.TotalMinutes, &ds.TasksCompleted, &lastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return DailyStats{Date: date}, false, nil
	}
	if err != nil {
		return DailyStats{}, false, fmt.Errorf("get daily stats %s: %w", date, err)
	}
	ds.LastUpdated, _ = time.Parse(time.RFC3339, lastUpdated)
	return ds, true, nil
}

func (s *Store) PutDailyStats(ds DailyStats) error {
	_, err := s.db.Exec(
		`INSERT INTO daily_stats (date, sessions, total_minutes, tasks_completed, last_updated)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET
			sessions = excluded.sessions,
			total_minutes = excluded.total_minutes,
			tasks_completed = excluded.tasks_completed,
			last_updated = excluded.last_updated`,
		ds.Date, ds.Sessions, ds.TotalMinutes, ds.TasksCompleted,
		ds.LastUpdated.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("put daily stats %s: %w", ds.Date, err)
	}
	return nil
}

// ListDailyStats returns stored records with from <= date <= to, oldest first.
func (s *Store) ListDailyStats(from, to string) ([]DailyStats, error) {
	rows, err := s.db.Query(
		`SELECT date, sessions, total_minutes, tasks_completed, last_updated
		 FROM daily_stats WHERE date >= ? AND date <= ? ORDER BY date`, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list daily stats: %w", err)
	}
	defer rows.Close()

	var out []DailyStats
	for rows.Next() {
		var ds DailyStats
		var lastUpdated string
		if err := rows.Scan(&ds.Date, &ds.Sessions, &ds.TotalMinutes, &ds.TasksCompleted, &lastUpdated); err != nil {
			return nil, err
		}
		ds.LastUpdated, _ = time.Parse(time.RFC3339, lastUpdated)
		out = append(out, ds)
	}
	return out, rows.Err()
}

// DailyTotals sums every stored daily record.
func (s *Store) DailyTotals() (sessions, minutes, tasks int, err error) {
	err = s.db.QueryRow(`
		SELECT COALESCE(SUM(sessions), 0), COALESCE(SUM(total_minutes), 0), COALESCE(SUM(tasks_completed), 0)
		FROM daily_stats`,
	).Scan(&sessions, &minutes, &tasks)
	if err != nil {
		err = fmt.Errorf("daily totals: %w", err)
	}
	return
}
