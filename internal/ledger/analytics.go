package ledger

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sadopc/pomo/internal/store"
)

// Summary aggregates all completions of one task name.
type Summary struct {
	Name          string `json:"name"`
	TotalDuration int    `json:"totalDuration"`
	SessionCount  int    `json:"sessionCount"`
}

// TaskStats describes the completions of one task name.
type TaskStats struct {
	Name            string    `json:"name"`
	TotalDuration   int       `json:"totalDuration"`
	SessionCount    int       `json:"sessionCount"`
	AverageDuration float64   `json:"averageDuration"`
	LastCompleted   time.Time `json:"lastCompleted"`
}

// StreakInfo counts consecutive calendar days with a completed task.
type StreakInfo struct {
	Current int `json:"currentStreak"`
	Longest int `json:"longestStreak"`
}

// MostProductive returns up to limit task names ordered by total duration,
// descending. Equal totals keep the order the names first appeared in.
func (l *Ledger) MostProductive(limit int) ([]Summary, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit %d must be positive", ErrInvalidInput, limit)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	index := make(map[string]int)
	var out []Summary
	for _, t := range l.history {
		i, ok := index[t.Name]
		if !ok {
			i = len(out)
			index[t.Name] = i
			out = append(out, Summary{Name: t.Name})
		}
		out[i].TotalDuration += t.DurationMinutes
		out[i].SessionCount++
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].TotalDuration > out[b].TotalDuration
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Stats returns the figures for one task name. A name with no history
// yields zeroed stats.
func (l *Ledger) Stats(name string) (TaskStats, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return TaskStats{}, fmt.Errorf("%w: task name is empty", ErrInvalidInput)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := TaskStats{Name: name}
	for _, t := range l.history {
		if t.Name != name {
			continue
		}
		ts.TotalDuration += t.DurationMinutes
		ts.SessionCount++
		if t.CompletedAt.After(ts.LastCompleted) {
			ts.LastCompleted = t.CompletedAt
		}
	}
	if ts.SessionCount > 0 {
		avg := float64(ts.TotalDuration) / float64(ts.SessionCount)
		ts.AverageDuration = math.Round(avg*100) / 100
	}
	return ts, nil
}

// CompletedOn returns the tasks completed on the given calendar date.
func (l *Ledger) CompletedOn(date string) []store.CompletedTask {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []store.CompletedTask
	for _, t := range l.history {
		if t.Date == date {
			out = append(out, t)
		}
	}
	return out
}

// ProductivityScore blends today's task count and average duration into a
// 0-100 score, each half capped at 50 points.
func (l *Ledger) ProductivityScore() int {
	l.mu.Lock()
	today := store.DateKey(l.now())
	count, total := 0, 0
	for _, t := range l.history {
		if t.Date == today {
			count++
			total += t.DurationMinutes
		}
	}
	l.mu.Unlock()

	if count == 0 {
		return 0
	}
	avg := float64(total) / float64(count)
	score := math.Min(float64(count*10), 50) + math.Min(avg*2, 50)
	return int(math.Round(score))
}

// Streak computes the current and longest runs of consecutive active days.
// The current run only counts if the last active day is today or yesterday.
func (l *Ledger) Streak() StreakInfo {
	l.mu.Lock()
	today := store.DateKey(l.now())
	seen := make(map[string]bool)
	var dates []time.Time
	for _, t := range l.history {
		if seen[t.Date] {
			continue
		}
		seen[t.Date] = true
		d, err := time.Parse(store.DateLayout, t.Date)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	l.mu.Unlock()

	if len(dates) == 0 {
		return StreakInfo{}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	info := StreakInfo{Longest: 1}
	run := 1
	for i := 1; i < len(dates); i++ {
		if daysBetween(dates[i-1], dates[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > info.Longest {
			info.Longest = run
		}
	}

	todayDate, _ := time.Parse(store.DateLayout, today)
	last := dates[len(dates)-1]
	if gap := daysBetween(last, todayDate); gap < 0 || gap > 1 {
		return info
	}
	info.Current = 1
	for i := len(dates) - 1; i > 0; i-- {
		if daysBetween(dates[i-1], dates[i]) != 1 {
			break
		}
		info.Current++
	}
	return info
}

func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}
