package model

import (
	"strings"
	"testing"
	"time"
)

func TestState_Valid(t *testing.T) {
	cases := []struct {
		state  State
		expect bool
	}{
		{StateIdle, true},
		{StateRunning, true},
		{StatePaused, true},
		{StateExpired, true},
		{State(""), false},
		{State("stopped"), false},
	}
	for _, tc := range cases {
		t.Run(string(tc.state), func(t *testing.T) {
			if got := tc.state.Valid(); got != tc.expect {
				t.Fatalf("State(%q).Valid() = %v, want %v", tc.state, got, tc.expect)
			}
		})
	}
}

func TestRunStatus_Valid(t *testing.T) {
	for _, s := range []RunStatus{RunRunning, RunPaused, RunExpired, RunReset} {
		if !s.Valid() {
			t.Errorf("RunStatus(%q).Valid() = false", s)
		}
	}
	if RunStatus("idle").Valid() {
		t.Error(`RunStatus("idle").Valid() = true`)
	}
}

func TestRun_Finished(t *testing.T) {
	r := Run{ID: "run_x", Status: RunRunning}
	if r.Finished() {
		t.Fatal("run without EndedAt should not be finished")
	}
	now := time.Now()
	r.EndedAt = &now
	if !r.Finished() {
		t.Fatal("run with EndedAt should be finished")
	}
}

func TestNewRunID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewRunID()
		if !strings.HasPrefix(id, "run_") {
			t.Fatalf("NewRunID() = %q, want run_ prefix", id)
		}
		if seen[id] {
			t.Fatalf("duplicate run ID %q", id)
		}
		seen[id] = true
	}
}
