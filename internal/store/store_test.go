package store

import (
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/pomo.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen; must not re-migrate.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

func TestDateKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	// 2026-03-02 05:00 at +10 is 2026-03-01 19:00 UTC.
	ts := time.Date(2026, 3, 2, 5, 0, 0, 0, loc)
	if got := DateKey(ts); got != "2026-03-01" {
		t.Fatalf("DateKey = %s, want 2026-03-01", got)
	}
}

// ============================================================
// Completed task history
// ============================================================

func TestAppendAndListCompletedTasks(t *testing.T) {
	s := newTestStore(t)
	at := time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)

	for i, name := range []string{"Write report", "Review", "Write report"} {
		err := s.AppendCompletedTask(CompletedTask{
			ID:              name + string(rune('a'+i)),
			Name:            name,
			DurationMinutes: 25,
			SessionCount:    1,
			CompletedAt:     at.Add(time.Duration(i) * time.Hour),
			Date:            DateKey(at),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	tasks, err := s.ListCompletedTasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	// Insertion order is preserved.
	if tasks[0].Name != "Write report" || tasks[1].Name != "Review" {
		t.Fatalf("unexpected order: %s, %s", tasks[0].Name, tasks[1].Name)
	}
	if !tasks[2].CompletedAt.Equal(at.Add(2 * time.Hour)) {
		t.Fatalf("CompletedAt round trip: got %v", tasks[2].CompletedAt)
	}
	if tasks[0].Date != "2026-05-04" {
		t.Fatalf("unexpected date %q", tasks[0].Date)
	}
}

func TestListCompletedTasksEmpty(t *testing.T) {
	s := newTestStore(t)
	tasks, err := s.ListCompletedTasks()
	if err != nil {
		t.Fatal(err)
	}
	if tasks != nil {
		t.Fatalf("expected nil slice, got %d items", len(tasks))
	}
}

func TestAppendCompletedTaskRejectsNonPositiveDuration(t *testing.T) {
	s := newTestStore(t)
	err := s.AppendCompletedTask(CompletedTask{
		ID: "x", Name: "Bad", DurationMinutes: 0, SessionCount: 1,
		CompletedAt: time.Now(), Date: DateKey(time.Now()),
	})
	if err == nil {
		t.Fatal("expected check constraint error")
	}
}

func TestAppendCompletedTaskDuplicateID(t *testing.T) {
	s := newTestStore(t)
	task := CompletedTask{
		ID: "same", Name: "A", DurationMinutes: 5, SessionCount: 1,
		CompletedAt: time.Now(), Date: DateKey(time.Now()),
	}
	if err := s.AppendCompletedTask(task); err != nil {
		t.Fatal(err)
	}
	if err := s.AppendCompletedTask(task); err == nil {
		t.Fatal("expected unique constraint error")
	}
}

func TestClearCompletedTasks(t *testing.T) {
	s := newTestStore(t)
	s.AppendCompletedTask(CompletedTask{
		ID: "1", Name: "A", DurationMinutes: 5, SessionCount: 1,
		CompletedAt: time.Now(), Date: DateKey(time.Now()),
	})
	if err := s.ClearCompletedTasks(); err != nil {
		t.Fatal(err)
	}
	tasks, _ := s.ListCompletedTasks()
	if len(tasks) != 0 {
		t.Fatal("history should be empty")
	}
}

// ============================================================
// Daily statistics
// ============================================================

func TestGetDailyStatsMissing(t *testing.T) {
	s := newTestStore(t)
	ds, ok, err := s.GetDailyStats("2026-01-01")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("missing date should report ok=false")
	}
	if ds.Date != "2026-01-01" || ds.Sessions != 0 {
		t.Fatalf("unexpected zero record: %+v", ds)
	}
}

func TestPutDailyStatsUpsert(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	s.PutDailyStats(DailyStats{Date: "2026-01-01", Sessions: 1, TotalMinutes: 25, LastUpdated: now})
	s.PutDailyStats(DailyStats{Date: "2026-01-01", Sessions: 2, TotalMinutes: 50, TasksCompleted: 1, LastUpdated: now})

	ds, ok, err := s.GetDailyStats("2026-01-01")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if ds.Sessions != 2 || ds.TotalMinutes != 50 || ds.TasksCompleted != 1 {
		t.Fatalf("unexpected record: %+v", ds)
	}
	if !ds.LastUpdated.Equal(now) {
		t.Fatalf("LastUpdated = %v, want %v", ds.LastUpdated, now)
	}
}

func TestListDailyStatsRange(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	for _, d := range []string{"2026-01-03", "2026-01-01", "2026-01-05", "2026-01-09"} {
		s.PutDailyStats(DailyStats{Date: d, Sessions: 1, LastUpdated: now})
	}

	out, err := s.ListDailyStats("2026-01-01", "2026-01-05")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 records, got %d", len(out))
	}
	if out[0].Date != "2026-01-01" || out[2].Date != "2026-01-05" {
		t.Fatalf("expected oldest first, got %s..%s", out[0].Date, out[2].Date)
	}
}

func TestDailyTotals(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	s.PutDailyStats(DailyStats{Date: "2026-01-01", Sessions: 2, TotalMinutes: 50, TasksCompleted: 2, LastUpdated: now})
	s.PutDailyStats(DailyStats{Date: "2026-01-02", Sessions: 1, TotalMinutes: 25, TasksCompleted: 0, LastUpdated: now})

	sessions, minutes, tasks, err := s.DailyTotals()
	if err != nil {
		t.Fatal(err)
	}
	if sessions != 3 || minutes != 75 || tasks != 2 {
		t.Fatalf("totals = %d/%d/%d", sessions, minutes, tasks)
	}
}

// ============================================================
// Intervals
// ============================================================

func TestIntervalLifecycle(t *testing.T) {
	s := newTestStore(t)

	iv, err := s.StartInterval("work", 1500, "Write report")
	if err != nil {
		t.Fatal(err)
	}
	if iv.Status != IntervalRunning {
		t.Fatalf("expected running, got %s", iv.Status)
	}
	if iv.PlannedSeconds != 1500 || iv.TaskName != "Write report" || iv.Mode != "work" {
		t.Fatalf("unexpected values: %+v", iv)
	}
	if iv.FinishedAt != nil {
		t.Fatal("FinishedAt should be nil")
	}

	if err := s.FinishInterval(iv.ID, IntervalCompleted); err != nil {
		t.Fatal(err)
	}
	done, _ := s.GetInterval(iv.ID)
	if done.Status != IntervalCompleted || done.FinishedAt == nil {
		t.Fatal("interval should be completed with timestamp")
	}

	// A finished interval keeps its first status.
	s.FinishInterval(iv.ID, IntervalCancelled)
	again, _ := s.GetInterval(iv.ID)
	if again.Status != IntervalCompleted {
		t.Fatalf("status changed after finish: %s", again.Status)
	}
}

func TestGetIntervalNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetInterval(999); err == nil {
		t.Fatal("expected error for missing interval")
	}
}

func TestIntervalStats(t *testing.T) {
	s := newTestStore(t)

	a, _ := s.StartInterval("work", 1500, "")
	s.FinishInterval(a.ID, IntervalCompleted)
	b, _ := s.StartInterval("short_break", 300, "")
	s.FinishInterval(b.ID, IntervalCancelled)
	s.StartInterval("work", 1500, "") // still running

	now := time.Now()
	completed, cancelled, err := s.IntervalStats(now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if completed != 1 || cancelled != 1 {
		t.Fatalf("completed=%d cancelled=%d", completed, cancelled)
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsDefaults(t *testing.T) {
	s := newTestStore(t)

	defaults := map[string]string{
		"work_minutes":               "25",
		"break_minutes":              "5",
		"long_break_minutes":         "15",
		"sessions_before_long_break": "4",
		"sound_enabled":              "true",
		"dark_mode":                  "false",
	}

	for k, expected := range defaults {
		val, err := s.GetSetting(k)
		if err != nil {
			t.Fatalf("GetSetting(%q): %v", k, err)
		}
		if val != expected {
			t.Fatalf("GetSetting(%q) = %q, want %q", k, val, expected)
		}
	}
}

func TestSetSettingOverwrite(t *testing.T) {
	s := newTestStore(t)

	s.SetSetting("work_minutes", "50")
	s.SetSetting("work_minutes", "45")
	val, _ := s.GetSetting("work_minutes")
	if val != "45" {
		t.Fatalf("expected 45, got %s", val)
	}
}

func TestSetSettings(t *testing.T) {
	s := newTestStore(t)
	err := s.SetSettings([]Setting{
		{Key: "work_minutes", Value: "30"},
		{Key: "custom", Value: "x"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := s.GetSetting("work_minutes"); v != "30" {
		t.Fatalf("work_minutes = %s", v)
	}
	if v, _ := s.GetSetting("custom"); v != "x" {
		t.Fatalf("custom = %s", v)
	}
}

func TestGetSettingNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetSetting("nonexistent"); err == nil {
		t.Fatal("expected error for missing setting")
	}
}

func TestGetAllSettingsSorted(t *testing.T) {
	s := newTestStore(t)
	all, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) < 6 {
		t.Fatalf("expected at least 6 default settings, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Key >= all[i].Key {
			t.Fatalf("settings not sorted: %s >= %s", all[i-1].Key, all[i].Key)
		}
	}
}

func TestCloseStore(t *testing.T) {
	s, _ := NewMemory()
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
