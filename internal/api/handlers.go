package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sadopc/pomo/internal/ledger"
	"github.com/sadopc/pomo/internal/store"
)

type dailyResponse struct {
	Date           string    `json:"date"`
	Sessions       int       `json:"sessions"`
	TotalMinutes   int       `json:"totalMinutes"`
	TasksCompleted int       `json:"tasksCompleted"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

type taskResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"durationMinutes"`
	SessionCount    int       `json:"sessionCount"`
	CompletedAt     time.Time `json:"completedAt"`
	Date            string    `json:"date"`
}

func toDaily(ds store.DailyStats) dailyResponse {
	return dailyResponse{
		Date:           ds.Date,
		Sessions:       ds.Sessions,
		TotalMinutes:   ds.TotalMinutes,
		TasksCompleted: ds.TasksCompleted,
		LastUpdated:    ds.LastUpdated,
	}
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toDaily(s.stats.Today()))
}

func (s *Server) handleWeekly(w http.ResponseWriter, r *http.Request) {
	week := s.stats.Weekly()
	out := make([]dailyResponse, 0, len(week))
	for _, ds := range week {
		out = append(out, toDaily(ds))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleResetDaily(w http.ResponseWriter, r *http.Request) {
	persisted := s.stats.ResetDaily()
	writeJSON(w, http.StatusOK, map[string]any{
		"today":     toDaily(s.stats.Today()),
		"persisted": persisted,
	})
}

// handleTasks lists the history newest first. ?limit=N keeps the N most
// recent.
func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	history := s.ledger.History()
	limit := len(history)
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	recent := s.ledger.Recent(limit)
	out := make([]taskResponse, 0, len(recent))
	for _, t := range recent {
		out = append(out, taskResponse{
			ID:              t.ID,
			Name:            t.Name,
			DurationMinutes: t.DurationMinutes,
			SessionCount:    t.SessionCount,
			CompletedAt:     t.CompletedAt,
			Date:            t.Date,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTopTasks(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}
	top, err := s.ledger.MostProductive(limit)
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}
	if top == nil {
		top = []ledger.Summary{}
	}
	writeJSON(w, http.StatusOK, top)
}

func (s *Server) handleTaskStats(w http.ResponseWriter, r *http.Request) {
	ts, err := s.ledger.Stats(r.URL.Query().Get("name"))
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.Streak())
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"score": s.ledger.ProductivityScore()})
}

func (s *Server) writeLedgerError(w http.ResponseWriter, err error) {
	if errors.Is(err, ledger.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Error("ledger request failed", "err", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}
