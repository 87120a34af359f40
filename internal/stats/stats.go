// Package stats keeps per-day session counters keyed by UTC calendar date.
package stats

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/sadopc/pomo/internal/store"
)

// WeekDays is the length of the Weekly window.
const WeekDays = 7

// Backend persists daily records. *store.Store implements it.
type Backend interface {
	GetDailyStats(date string) (store.DailyStats, bool, error)
	PutDailyStats(store.DailyStats) error
	ListDailyStats(from, to string) ([]store.DailyStats, error)
	DailyTotals() (sessions, minutes, tasks int, err error)
}

// Store aggregates daily statistics. Every method degrades to in-memory
// values instead of failing when the backend is unavailable.
type Store struct {
	mu      sync.Mutex
	backend Backend
	logger  *slog.Logger
	now     func() time.Time

	// days holds every record written by this process; it answers reads
	// the backend cannot.
	days map[string]store.DailyStats
}

// New probes backend once. A nil backend, or one that fails the probe,
// leaves the store in memory-only mode.
func New(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Store{
		backend: backend,
		logger:  logger,
		now:     time.Now,
		days:    make(map[string]store.DailyStats),
	}
	if backend == nil {
		logger.Warn("statistics persistence unavailable, keeping statistics in memory")
		return s
	}
	today := store.DateKey(s.now())
	if _, _, err := backend.GetDailyStats(today); err != nil {
		logger.Warn("statistics persistence unavailable, keeping statistics in memory", "err", err)
		s.backend = nil
	}
	return s
}

// SetClock replaces the time source.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Now returns the current time from the store's clock.
func (s *Store) Now() time.Time {
	return s.clock()
}

// Available reports whether records are being persisted.
func (s *Store) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend != nil
}

// Today returns today's record, zeroed if nothing was written yet. Reads
// never persist anything.
func (s *Store) Today() store.DailyStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	ds, _ := s.load(store.DateKey(s.now()))
	return ds
}

// IncrementSession adds one finished work session to today.
func (s *Store) IncrementSession() bool {
	return s.update(func(ds *store.DailyStats) { ds.Sessions++ })
}

// AddMinutes adds focused minutes to today. Non-positive values are ignored.
func (s *Store) AddMinutes(minutes int) bool {
	if minutes <= 0 {
		return false
	}
	return s.update(func(ds *store.DailyStats) { ds.TotalMinutes += minutes })
}

// IncrementTasks adds one completed task to today.
func (s *Store) IncrementTasks() bool {
	return s.update(func(ds *store.DailyStats) { ds.TasksCompleted++ })
}

// RecordSession applies a finished work session of the given length in a
// single write.
func (s *Store) RecordSession(minutes int) bool {
	return s.update(func(ds *store.DailyStats) {
		ds.Sessions++
		if minutes > 0 {
			ds.TotalMinutes += minutes
		}
	})
}

// ResetDaily zeroes today's record.
func (s *Store) ResetDaily() bool {
	return s.update(func(ds *store.DailyStats) {
		ds.Sessions = 0
		ds.TotalMinutes = 0
		ds.TasksCompleted = 0
	})
}

// Weekly returns the last seven days, oldest first, today included.
// Missing days are zeroed placeholders.
func (s *Store) Weekly() []store.DailyStats {
	today := s.clock()
	return s.Range(today.AddDate(0, 0, -(WeekDays - 1)), today)
}

// Range returns one record per calendar day in [from, to], oldest first.
func (s *Store) Range(from, to time.Time) []store.DailyStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	first := dayStart(from)
	last := dayStart(to)
	if last.Before(first) {
		return nil
	}

	stored := make(map[string]store.DailyStats)
	if s.backend != nil {
		list, err := s.backend.ListDailyStats(store.DateKey(first), store.DateKey(last))
		if err != nil {
			s.logger.Debug("list daily stats", "err", err)
		}
		for _, ds := range list {
			stored[ds.Date] = ds
		}
	}

	var out []store.DailyStats
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		key := store.DateKey(d)
		if ds, ok := stored[key]; ok {
			out = append(out, ds)
		} else if ds, ok := s.days[key]; ok {
			out = append(out, ds)
		} else {
			out = append(out, store.DailyStats{Date: key})
		}
	}
	return out
}

// Totals sums sessions, minutes and tasks over every recorded day.
func (s *Store) Totals() (sessions, minutes, tasks int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.backend != nil {
		a, b, c, err := s.backend.DailyTotals()
		if err == nil {
			return a, b, c
		}
		s.logger.Debug("daily totals", "err", err)
	}
	for _, ds := range s.days {
		sessions += ds.Sessions
		minutes += ds.TotalMinutes
		tasks += ds.TasksCompleted
	}
	return
}

func (s *Store) clock() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now()
}

// load returns the record for date from the backend, then from records
// written by this process, then a zeroed placeholder. A non-nil error means
// the backend could not be read and the result may be stale. Caller holds s.mu.
func (s *Store) load(date string) (store.DailyStats, error) {
	var readErr error
	if s.backend != nil {
		ds, ok, err := s.backend.GetDailyStats(date)
		switch {
		case err != nil:
			s.logger.Debug("get daily stats", "date", date, "err", err)
			readErr = err
		case ok:
			return ds, nil
		}
	}
	if ds, ok := s.days[date]; ok {
		return ds, readErr
	}
	return store.DailyStats{Date: date}, readErr
}

// update applies fn to today's record and persists it. It reports whether
// the write reached the backend. When the stored record cannot be read the
// change stays in memory so the stored counters are never overwritten.
func (s *Store) update(fn func(*store.DailyStats)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	ds, readErr := s.load(store.DateKey(now))
	fn(&ds)
	ds.LastUpdated = now
	s.days[ds.Date] = ds

	if s.backend == nil || readErr != nil {
		return false
	}
	if err := s.backend.PutDailyStats(ds); err != nil {
		s.logger.Debug("put daily stats", "date", ds.Date, "err", err)
		return false
	}
	return true
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
