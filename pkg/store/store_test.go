package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/daviddao/countdown/pkg/model"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New(%q): %v", dbPath, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustCreateRun(t *testing.T, s *Store, id string, total int64, started time.Time) *model.Run {
	t.Helper()
	r := &model.Run{
		ID:           id,
		TotalSeconds: total,
		Remaining:    total,
		Status:       model.RunRunning,
		StartedAt:    started,
	}
	if err := s.CreateRun(r); err != nil {
		t.Fatalf("CreateRun(%s): %v", id, err)
	}
	return r
}

// --- Run tests ---

func TestCreateAndGetRun(t *testing.T) {
	s := newTestStore(t)
	want := &model.Run{
		ID:           "run_a",
		TotalSeconds: 90,
		Remaining:    90,
		Status:       model.RunRunning,
		Preset:       "tea",
		StartedAt:    t0,
	}
	if err := s.CreateRun(want); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	got, err := s.GetRun("run_a")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.TotalSeconds != 90 || got.Remaining != 90 || got.Status != model.RunRunning || got.Preset != "tea" {
		t.Fatalf("GetRun = %+v", got)
	}
	if !got.StartedAt.Equal(t0) {
		t.Fatalf("StartedAt = %v, want %v", got.StartedAt, t0)
	}
	if got.Finished() {
		t.Fatal("new run should not be finished")
	}
}

func TestCreateRun_Validation(t *testing.T) {
	s := newTestStore(t)
	if err := s.CreateRun(&model.Run{Status: model.RunRunning, StartedAt: t0}); err == nil {
		t.Error("expected error for empty id")
	}
	if err := s.CreateRun(&model.Run{ID: "run_x", Status: "idle", StartedAt: t0}); err == nil {
		t.Error("expected error for invalid status")
	}
	mustCreateRun(t, s, "run_dup", 5, t0)
	if err := s.CreateRun(&model.Run{ID: "run_dup", Status: model.RunRunning, StartedAt: t0}); err == nil {
		t.Error("expected error for duplicate id")
	}
}

func TestGetRun_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetRun("run_missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetRun missing: err = %v, want ErrNotFound", err)
	}
}

func TestUpdateRun(t *testing.T) {
	s := newTestStore(t)
	mustCreateRun(t, s, "run_a", 60, t0)

	if err := s.UpdateRun("run_a", model.RunPaused, 42); err != nil {
		t.Fatalf("UpdateRun: %v", err)
	}
	got, _ := s.GetRun("run_a")
	if got.Status != model.RunPaused || got.Remaining != 42 {
		t.Fatalf("after update: %+v", got)
	}

	if err := s.UpdateRun("run_missing", model.RunPaused, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateRun missing: err = %v, want ErrNotFound", err)
	}
	if err := s.UpdateRun("run_a", "bogus", 1); err == nil {
		t.Fatal("UpdateRun with invalid status should fail")
	}
}

func TestFinishRun(t *testing.T) {
	s := newTestStore(t)
	mustCreateRun(t, s, "run_a", 60, t0)
	end := t0.Add(time.Minute)

	if err := s.FinishRun("run_a", model.RunRunning, 0, end); err == nil {
		t.Fatal("FinishRun with non-final status should fail")
	}
	if err := s.FinishRun("run_a", model.RunExpired, 0, end); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}
	got, _ := s.GetRun("run_a")
	if got.Status != model.RunExpired || got.Remaining != 0 || !got.Finished() {
		t.Fatalf("after finish: %+v", got)
	}
	if !got.EndedAt.Equal(end) {
		t.Fatalf("EndedAt = %v, want %v", got.EndedAt, end)
	}
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 5; i++ {
		mustCreateRun(t, s, fmt.Sprintf("run_%d", i), int64(10+i), t0.Add(time.Duration(i)*time.Minute))
	}

	runs, err := s.ListRuns(3, "")
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	for i, want := range []string{"run_4", "run_3", "run_2"} {
		if runs[i].ID != want {
			t.Errorf("runs[%d] = %s, want %s", i, runs[i].ID, want)
		}
	}
}

func TestListRuns_FilterByStatus(t *testing.T) {
	s := newTestStore(t)
	mustCreateRun(t, s, "run_a", 10, t0)
	mustCreateRun(t, s, "run_b", 10, t0.Add(time.Second))
	mustCreateRun(t, s, "run_c", 10, t0.Add(2*time.Second))
	s.FinishRun("run_a", model.RunExpired, 0, t0.Add(10*time.Second))
	s.FinishRun("run_c", model.RunReset, 4, t0.Add(8*time.Second))

	cases := []struct {
		status model.RunStatus
		want   []string
	}{
		{model.RunExpired, []string{"run_a"}},
		{model.RunReset, []string{"run_c"}},
		{model.RunRunning, []string{"run_b"}},
		{model.RunPaused, nil},
		{"", []string{"run_c", "run_b", "run_a"}},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			runs, err := s.ListRuns(0, tc.status)
			if err != nil {
				t.Fatalf("ListRuns: %v", err)
			}
			if len(runs) != len(tc.want) {
				t.Fatalf("got %d runs, want %d", len(runs), len(tc.want))
			}
			for i := range runs {
				if runs[i].ID != tc.want[i] {
					t.Errorf("runs[%d] = %s, want %s", i, runs[i].ID, tc.want[i])
				}
			}
		})
	}
}

func TestCountRuns(t *testing.T) {
	s := newTestStore(t)
	if n := s.CountRuns(); n != 0 {
		t.Fatalf("empty store CountRuns = %d", n)
	}
	mustCreateRun(t, s, "run_a", 1, t0)
	mustCreateRun(t, s, "run_b", 1, t0)
	if n := s.CountRuns(); n != 2 {
		t.Fatalf("CountRuns = %d, want 2", n)
	}
}

// --- Event tests ---

func TestInsertAndListEvents(t *testing.T) {
	s := newTestStore(t)
	mustCreateRun(t, s, "run_a", 30, t0)
	mustCreateRun(t, s, "run_b", 30, t0)

	kinds := []model.EventKind{model.EventStart, model.EventPause, model.EventResume, model.EventReset}
	var lastID int64
	for i, k := range kinds {
		id, err := s.InsertEvent(&model.Event{
			RunID:     "run_a",
			Kind:      k,
			Remaining: int64(30 - i),
			CreatedAt: t0.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("InsertEvent: %v", err)
		}
		if id <= lastID {
			t.Fatalf("event IDs not increasing: %d after %d", id, lastID)
		}
		lastID = id
	}
	s.InsertEvent(&model.Event{RunID: "run_b", Kind: model.EventStart, Remaining: 30, CreatedAt: t0})

	events, err := s.ListEvents("run_a")
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != len(kinds) {
		t.Fatalf("got %d events, want %d", len(events), len(kinds))
	}
	for i, e := range events {
		if e.Kind != kinds[i] || e.Remaining != int64(30-i) || e.RunID != "run_a" {
			t.Errorf("events[%d] = %+v", i, e)
		}
		if !e.CreatedAt.Equal(t0.Add(time.Duration(i) * time.Second)) {
			t.Errorf("events[%d].CreatedAt = %v", i, e.CreatedAt)
		}
	}

	none, err := s.ListEvents("run_missing")
	if err != nil || len(none) != 0 {
		t.Fatalf("ListEvents missing run = %v, %v", none, err)
	}
}

func TestStore_ReopenKeepsHistory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	mustCreateRun(t, s, "run_a", 10, t0)
	s.Close()

	s2, err := New(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	if n := s2.CountRuns(); n != 1 {
		t.Fatalf("CountRuns after reopen = %d, want 1", n)
	}
}
