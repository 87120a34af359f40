// Package export writes completed-task history and daily statistics to
// CSV, JSON or YAML files.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/pomo/internal/store"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported formats in menu order.
var Formats = []Format{FormatCSV, FormatJSON, FormatYAML}

// ParseFormat accepts a format name case-insensitively; "yml" means YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Data is everything an export contains.
type Data struct {
	Tasks []store.CompletedTask
	Days  []store.DailyStats
}

// Write exports data to path in the given format. CSV carries the task
// history only; use DailyToCSV for the daily table.
func Write(format Format, data Data, path string) error {
	switch format {
	case FormatCSV:
		return ToCSV(data.Tasks, path)
	case FormatJSON:
		return ToJSON(data, path)
	case FormatYAML:
		return ToYAML(data, path)
	}
	return fmt.Errorf("unknown export format %q", format)
}

// DefaultFileName is pomo-export-YYYYMMDD-HHMMSS.<format>.
func DefaultFileName(format Format, now time.Time) string {
	return fmt.Sprintf("pomo-export-%s.%s", now.Format("20060102-150405"), format)
}

type document struct {
	ExportedAt string     `json:"exported_at" yaml:"exported_at"`
	Count      int        `json:"count" yaml:"count"`
	Tasks      []docTask  `json:"tasks" yaml:"tasks"`
	Daily      []docDaily `json:"daily" yaml:"daily"`
}

type docTask struct {
	ID              string `json:"id" yaml:"id"`
	Name            string `json:"name" yaml:"name"`
	DurationMinutes int    `json:"duration_minutes" yaml:"duration_minutes"`
	Duration        string `json:"duration" yaml:"duration"`
	SessionCount    int    `json:"session_count" yaml:"session_count"`
	CompletedAt     string `json:"completed_at" yaml:"completed_at"`
	Date            string `json:"date" yaml:"date"`
}

type docDaily struct {
	Date           string `json:"date" yaml:"date"`
	Sessions       int    `json:"sessions" yaml:"sessions"`
	TotalMinutes   int    `json:"total_minutes" yaml:"total_minutes"`
	TasksCompleted int    `json:"tasks_completed" yaml:"tasks_completed"`
	LastUpdated    string `json:"last_updated,omitempty" yaml:"last_updated,omitempty"`
}

func buildDocument(data Data) document {
	doc := document{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(data.Tasks),
	}
	for _, t := range data.Tasks {
		doc.Tasks = append(doc.Tasks, docTask{
			ID:              t.ID,
			Name:            t.Name,
			DurationMinutes: t.DurationMinutes,
			Duration:        formatDuration(int64(t.DurationMinutes) * 60),
			SessionCount:    t.SessionCount,
			CompletedAt:     t.CompletedAt.UTC().Format(time.RFC3339),
			Date:            t.Date,
		})
	}
	for _, d := range data.Days {
		updated := ""
		if !d.LastUpdated.IsZero() {
			updated = d.LastUpdated.UTC().Format(time.RFC3339)
		}
		doc.Daily = append(doc.Daily, docDaily{
			Date:           d.Date,
			Sessions:       d.Sessions,
			TotalMinutes:   d.TotalMinutes,
			TasksCompleted: d.TasksCompleted,
			LastUpdated:    updated,
		})
	}
	return doc
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// HistorySource and DailySource are satisfied by *ledger.Ledger and
// *stats.Store.
type HistorySource interface {
	History() []store.CompletedTask
}

type DailySource interface {
	Now() time.Time
	Range(from, to time.Time) []store.DailyStats
}

// Collect gathers the full history and one daily record per day from the
// first completion to today, or the last week when there is no history.
func Collect(h HistorySource, d DailySource) Data {
	tasks := h.History()
	to := d.Now()
	from := to.AddDate(0, 0, -6)
	for _, t := range tasks {
		if day, err := time.Parse(store.DateLayout, t.Date); err == nil && day.Before(from) {
			from = day
		}
	}
	return Data{Tasks: tasks, Days: d.Range(from, to)}
}
