package store

import (
	"fmt"
	"time"
)

func (s *Store) AppendCompletedTask(t CompletedTask) error {
	_, err := s.db.Exec(
		`INSERT INTO completed_tasks (id, name, duration_minutes, session_count, completed_at, date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.DurationMinutes, t.SessionCount,
		t.CompletedAt.UTC().Format(time.RFC3339), t.Date,
	)
	if err != nil {
		return fmt.Errorf("insert completed task: %w", err)
	}
	return nil
}

// ListCompletedTasks returns the full history in completion order.
func (s *Store) ListCompletedTasks() ([]CompletedTask, error) {
	rows, err := s.db.Query(
		`SELECT id, name, duration_minutes, session_count, completed_at, date
		 FROM completed_tasks ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("list completed tasks: %w", err)
	}
	defer rows.Close()

	var tasks []CompletedTask
	for rows.Next() {
		var t CompletedTask
		var completedAt string
		if err := rows.Scan(&t.ID, &t.Name, &t.DurationMinutes, &t.SessionCount, &completedAt, &t.Date); err != nil {
			return nil, err
		}
		t.CompletedAt, _ = time.Parse(time.RFC3339, completedAt)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) ClearCompletedTasks() error {
	_, err := s.db.Exec(`DELETE FROM completed_tasks`)
	if err != nil {
		return fmt.Errorf("clear completed tasks: %w", err)
	}
	return nil
}
