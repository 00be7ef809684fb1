// Package model defines the core domain types for countdown.
//
// A countdown moves through four states:
//
//   - Idle: nothing is counting; the duration inputs are editable.
//   - Running: a one-second tick decrements the remaining seconds.
//   - Paused: the remaining seconds are frozen and no tick is active.
//   - Expired: the count reached zero. Only a reset leaves this state.
//
// Every countdown started from Idle is a Run. Runs and the events that
// happen during them are recorded in an append-only history, which is
// read back for display only and never used to restore a countdown.
package model

import (
	"time"

	"github.com/google/uuid"
)

// State is the countdown engine state.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
	StateExpired State = "expired"
)

// Valid reports whether s is one of the four engine states.
func (s State) Valid() bool {
	switch s {
	case StateIdle, StateRunning, StatePaused, StateExpired:
		return true
	}
	return false
}

// Command is a user intent (or the internal tick) applied to the engine.
type Command string

const (
	CmdStart       Command = "start"
	CmdPauseToggle Command = "pause_toggle"
	CmdReset       Command = "reset"
	CmdTick        Command = "tick"

	// CmdEdit marks a change to the duration inputs.
	CmdEdit Command = "edit"
)

// EventKind enumerates the types of events in the history log.
type EventKind string

const (
	EventStart  EventKind = "start"
	EventPause  EventKind = "pause"
	EventResume EventKind = "resume"
	EventReset  EventKind = "reset"
	EventExpire EventKind = "expire"
)

// RunStatus is the recorded status of a run. A run is open while running
// or paused and closed once it expires or is reset.
type RunStatus string

const (
	RunRunning RunStatus = "running"
	RunPaused  RunStatus = "paused"
	RunExpired RunStatus = "expired"
	RunReset   RunStatus = "reset"
)

// Valid reports whether s is a known run status.
func (s RunStatus) Valid() bool {
	switch s {
	case RunRunning, RunPaused, RunExpired, RunReset:
		return true
	}
	return false
}

// Run is one countdown, from a successful start until it expires or is
// reset.
type Run struct {
	ID           string     `json:"id"`
	TotalSeconds int64      `json:"total_seconds"`
	Remaining    int64      `json:"remaining_seconds"`
	Status       RunStatus  `json:"status"`
	Preset       string     `json:"preset,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
}

// Finished reports whether the run reached a final state.
func (r Run) Finished() bool { return r.EndedAt != nil }

// Event is a single entry in the history log.
type Event struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"run_id"`
	Kind      EventKind `json:"kind"`
	Remaining int64     `json:"remaining_seconds"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRunID returns a fresh identifier for a countdown run.
func NewRunID() string {
	return "run_" + uuid.NewString()
}
