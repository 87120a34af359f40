// Package ledger records the current task and the history of completed
// tasks, and derives per-task and per-day productivity figures from it.
package ledger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/pomo/internal/store"
)

// Backend persists completed tasks. *store.Store implements it.
type Backend interface {
	AppendCompletedTask(store.CompletedTask) error
	ListCompletedTasks() ([]store.CompletedTask, error)
	ClearCompletedTasks() error
}

// Task is the single task a work session is attributed to.
type Task struct {
	ID        string
	Name      string
	StartedAt time.Time
}

// Ledger holds the current task and an in-memory copy of the history. When
// the backend is missing or fails at load time the ledger keeps working in
// memory only.
type Ledger struct {
	mu      sync.Mutex
	backend Backend
	logger  *slog.Logger
	now     func() time.Time

	current *Task
	history []store.CompletedTask
}

// New loads the history from backend. A nil backend, or one that fails to
// load, leaves the ledger in memory-only mode.
func New(backend Backend, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	l := &Ledger{
		backend: backend,
		logger:  logger,
		now:     time.Now,
	}
	if backend == nil {
		logger.Warn("task history persistence unavailable, keeping history in memory")
		return l
	}
	history, err := backend.ListCompletedTasks()
	if err != nil {
		logger.Warn("task history persistence unavailable, keeping history in memory", "err", err)
		l.backend = nil
		return l
	}
	l.history = history
	return l
}

// SetClock replaces the time source.
func (l *Ledger) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// Available reports whether completed tasks are being persisted.
func (l *Ledger) Available() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.backend != nil
}

// Reload replaces the in-memory history with the backend's copy.
func (l *Ledger) Reload() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.backend == nil {
		return nil
	}
	history, err := l.backend.ListCompletedTasks()
	if err != nil {
		return fmt.Errorf("reload history: %w", err)
	}
	l.history = history
	return nil
}

// SetCurrent makes name the current task, silently replacing any task that
// was not completed.
func (l *Ledger) SetCurrent(name string) (Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Task{}, fmt.Errorf("%w: task name is empty", ErrInvalidInput)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = &Task{
		ID:        uuid.New().String(),
		Name:      name,
		StartedAt: l.now(),
	}
	return *l.current, nil
}

// Current returns the current task, if any.
func (l *Ledger) Current() (Task, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return Task{}, false
	}
	return *l.current, true
}

// ClearCurrent drops the current task without recording it.
func (l *Ledger) ClearCurrent() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = nil
}

// CompleteCurrent turns the current task into a completed record, appends
// it to the history and clears the current task.
func (l *Ledger) CompleteCurrent(durationMinutes int) (store.CompletedTask, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return store.CompletedTask{}, fmt.Errorf("%w: no current task", ErrIllegalState)
	}
	if durationMinutes <= 0 {
		return store.CompletedTask{}, fmt.Errorf("%w: duration %d must be positive", ErrInvalidInput, durationMinutes)
	}

	count := 1
	for _, t := range l.history {
		if t.Name == l.current.Name {
			count++
		}
	}

	now := l.now()
	rec := store.CompletedTask{
		ID:              l.current.ID,
		Name:            l.current.Name,
		DurationMinutes: durationMinutes,
		SessionCount:    count,
		CompletedAt:     now,
		Date:            store.DateKey(now),
	}
	l.history = append(l.history, rec)
	l.current = nil

	if l.backend != nil {
		if err := l.backend.AppendCompletedTask(rec); err != nil {
			l.logger.Debug("persist completed task", "id", rec.ID, "err", err)
		}
	}
	return rec, nil
}

// History returns every completed task in completion order.
func (l *Ledger) History() []store.CompletedTask {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]store.CompletedTask(nil), l.history...)
}

// Recent returns up to n completed tasks, newest first.
func (l *Ledger) Recent(n int) []store.CompletedTask {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 {
		return nil
	}
	if n > len(l.history) {
		n = len(l.history)
	}
	out := make([]store.CompletedTask, 0, n)
	for i := len(l.history) - 1; i >= len(l.history)-n; i-- {
		out = append(out, l.history[i])
	}
	return out
}

// ClearHistory empties the history. It reports whether the backend was
// cleared as well.
func (l *Ledger) ClearHistory() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.history = nil
	if l.backend == nil {
		return false
	}
	if err := l.backend.ClearCompletedTasks(); err != nil {
		l.logger.Debug("clear persisted history", "err", err)
		return false
	}
	return true
}
