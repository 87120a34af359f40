package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/pomo/internal/store"
)

// ToCSV writes one row per completed task.
func ToCSV(tasks []store.CompletedTask, path string) error {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			t.ID,
			t.Name,
			t.Date,
			t.CompletedAt.UTC().Format(time.RFC3339),
			strconv.Itoa(t.DurationMinutes),
			formatDuration(int64(t.DurationMinutes) * 60),
			strconv.Itoa(t.SessionCount),
		})
	}
	return writeCSV(path, []string{"ID", "Task", "Date", "Completed At", "Duration (min)", "Duration", "Session"}, rows)
}

// DailyToCSV writes one row per day.
func DailyToCSV(days []store.DailyStats, path string) error {
	rows := make([][]string, 0, len(days))
	for _, d := range days {
		rows = append(rows, []string{
			d.Date,
			strconv.Itoa(d.Sessions),
			strconv.Itoa(d.TotalMinutes),
			strconv.Itoa(d.TasksCompleted),
		})
	}
	return writeCSV(path, []string{"Date", "Sessions", "Minutes", "Tasks"}, rows)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
