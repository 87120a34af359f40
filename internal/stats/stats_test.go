package stats

import (
	"errors"
	"testing"
	"time"

	"github.com/sadopc/pomo/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

type brokenBackend struct{ err error }

func (b brokenBackend) GetDailyStats(string) (store.DailyStats, bool, error) {
	return store.DailyStats{}, false, b.err
}
func (b brokenBackend) PutDailyStats(store.DailyStats) error { return b.err }
func (b brokenBackend) ListDailyStats(string, string) ([]store.DailyStats, error) {
	return nil, b.err
}
func (b brokenBackend) DailyTotals() (int, int, int, error) { return 0, 0, 0, b.err }

var day = time.Date(2026, 8, 12, 15, 0, 0, 0, time.UTC)

func newAt(t *testing.T, backend Backend, at time.Time) *Store {
	t.Helper()
	s := New(backend, nil)
	s.SetClock(func() time.Time { return at })
	return s
}

func TestTodayLazyAndIdempotent(t *testing.T) {
	db := newTestStore(t)
	s := newAt(t, db, day)

	first := s.Today()
	second := s.Today()
	if first != second {
		t.Fatalf("reads differ: %+v vs %+v", first, second)
	}
	if first.Date != "2026-08-12" || first.Sessions != 0 || first.TotalMinutes != 0 || first.TasksCompleted != 0 {
		t.Fatalf("expected zeroed record, got %+v", first)
	}
	if _, ok, _ := db.GetDailyStats("2026-08-12"); ok {
		t.Fatal("a read should not persist the lazy record")
	}
}

func TestIncrementSessionPersists(t *testing.T) {
	db := newTestStore(t)
	s := newAt(t, db, day)

	if !s.IncrementSession() {
		t.Fatal("expected persisted write")
	}
	s.IncrementSession()

	ds, ok, err := db.GetDailyStats("2026-08-12")
	if err != nil || !ok {
		t.Fatalf("stored record: ok=%v err=%v", ok, err)
	}
	if ds.Sessions != 2 {
		t.Fatalf("Sessions = %d", ds.Sessions)
	}
	if !ds.LastUpdated.Equal(day) {
		t.Fatalf("LastUpdated = %v", ds.LastUpdated)
	}
	if s.Today().Sessions != 2 {
		t.Fatal("Today should reflect the increments")
	}
}

func TestRecordSessionAndTasks(t *testing.T) {
	s := newAt(t, newTestStore(t), day)
	s.RecordSession(25)
	s.RecordSession(25)
	s.IncrementTasks()
	s.AddMinutes(5)
	if s.AddMinutes(0) {
		t.Fatal("AddMinutes(0) should be ignored")
	}

	ds := s.Today()
	if ds.Sessions != 2 || ds.TotalMinutes != 55 || ds.TasksCompleted != 1 {
		t.Fatalf("today = %+v", ds)
	}
}

func TestResetDaily(t *testing.T) {
	db := newTestStore(t)
	s := newAt(t, db, day)
	s.RecordSession(25)
	s.IncrementTasks()

	if !s.ResetDaily() {
		t.Fatal("expected persisted reset")
	}
	ds := s.Today()
	if ds.Sessions != 0 || ds.TotalMinutes != 0 || ds.TasksCompleted != 0 {
		t.Fatalf("after reset: %+v", ds)
	}
	stored, _, _ := db.GetDailyStats("2026-08-12")
	if stored.Sessions != 0 {
		t.Fatal("reset should persist")
	}
}

func TestWeekly(t *testing.T) {
	db := newTestStore(t)
	db.PutDailyStats(store.DailyStats{Date: "2026-08-06", Sessions: 9, LastUpdated: day}) // oldest day in window
	db.PutDailyStats(store.DailyStats{Date: "2026-08-07", Sessions: 3, LastUpdated: day})
	db.PutDailyStats(store.DailyStats{Date: "2026-08-10", Sessions: 1, TotalMinutes: 25, LastUpdated: day})

	s := newAt(t, db, day)
	s.IncrementSession()

	week := s.Weekly()
	if len(week) != WeekDays {
		t.Fatalf("expected %d days, got %d", WeekDays, len(week))
	}
	wantDates := []string{"2026-08-06", "2026-08-07", "2026-08-08", "2026-08-09", "2026-08-10", "2026-08-11", "2026-08-12"}
	for i, d := range wantDates {
		if week[i].Date != d {
			t.Fatalf("week[%d].Date = %s, want %s", i, week[i].Date, d)
		}
	}
	if week[0].Sessions != 9 || week[1].Sessions != 3 || week[4].TotalMinutes != 25 || week[6].Sessions != 1 {
		t.Fatalf("unexpected week: %+v", week)
	}
	if week[2].Sessions != 0 {
		t.Fatal("missing day should be a zeroed placeholder")
	}

	// Weekly never writes placeholders.
	list, _ := db.ListDailyStats("2026-08-01", "2026-08-31")
	if len(list) != 4 {
		t.Fatalf("store has %d records, want 4", len(list))
	}
}

func TestRangeInverted(t *testing.T) {
	s := newAt(t, nil, day)
	if s.Range(day, day.AddDate(0, 0, -1)) != nil {
		t.Fatal("inverted range should be empty")
	}
}

func TestTotals(t *testing.T) {
	db := newTestStore(t)
	s := newAt(t, db, day)
	s.RecordSession(25)
	s.SetClock(func() time.Time { return day.AddDate(0, 0, 1) })
	s.RecordSession(50)
	s.IncrementTasks()

	sessions, minutes, tasks := s.Totals()
	if sessions != 2 || minutes != 75 || tasks != 1 {
		t.Fatalf("totals = %d/%d/%d", sessions, minutes, tasks)
	}
}

func TestNilBackendDegrades(t *testing.T) {
	s := newAt(t, nil, day)
	if s.Available() {
		t.Fatal("nil backend should be unavailable")
	}
	if s.IncrementSession() {
		t.Fatal("memory-only write should report false")
	}
	if s.Today().Sessions != 1 {
		t.Fatal("memory-only write should still count")
	}
	if len(s.Weekly()) != WeekDays {
		t.Fatal("weekly should still return seven days")
	}
	if sessions, _, _ := s.Totals(); sessions != 1 {
		t.Fatalf("memory totals = %d", sessions)
	}
}

func TestBrokenBackendDetectedAtStartup(t *testing.T) {
	s := newAt(t, brokenBackend{err: errors.New("no storage")}, day)
	if s.Available() {
		t.Fatal("failed probe should mark persistence unavailable")
	}
	if s.RecordSession(25) {
		t.Fatal("write should report false")
	}
	if ds := s.Today(); ds.Sessions != 1 || ds.TotalMinutes != 25 {
		t.Fatalf("today = %+v", ds)
	}
	if s.ResetDaily() {
		t.Fatal("reset should report false")
	}
}

// flakyBackend fails the next failGets reads and passes everything else
// through to the real store.
type flakyBackend struct {
	*store.Store
	failGets int
	puts     int
}

func (f *flakyBackend) GetDailyStats(date string) (store.DailyStats, bool, error) {
	if f.failGets > 0 {
		f.failGets--
		return store.DailyStats{}, false, errors.New("database is locked")
	}
	return f.Store.GetDailyStats(date)
}

func (f *flakyBackend) PutDailyStats(ds store.DailyStats) error {
	f.puts++
	return f.Store.PutDailyStats(ds)
}

func TestFailedReadDoesNotOverwriteStoredDay(t *testing.T) {
	db := newTestStore(t)
	seed := store.DailyStats{Date: store.DateKey(day), Sessions: 5, TotalMinutes: 125, TasksCompleted: 2, LastUpdated: day}
	if err := db.PutDailyStats(seed); err != nil {
		t.Fatal(err)
	}
	backend := &flakyBackend{Store: db}
	s := newAt(t, backend, day)

	backend.failGets = 1
	if s.IncrementSession() {
		t.Fatal("write after a failed read should report false")
	}
	if backend.puts != 0 {
		t.Fatalf("puts = %d, want no write after a failed read", backend.puts)
	}
	stored, _, err := db.GetDailyStats(seed.Date)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Sessions != 5 || stored.TotalMinutes != 125 || stored.TasksCompleted != 2 {
		t.Fatalf("stored = %+v, want the seeded counters", stored)
	}

	if !s.IncrementSession() {
		t.Fatal("write after a good read should persist")
	}
	if ds := s.Today(); ds.Sessions != 6 || ds.TotalMinutes != 125 {
		t.Fatalf("today = %+v, want 6 sessions and 125 minutes", ds)
	}
}
