package store

import (
	"log"

	"github.com/daviddao/countdown/pkg/clock"
	"github.com/daviddao/countdown/pkg/engine"
	"github.com/daviddao/countdown/pkg/model"
)

// Recorder writes countdown transitions into the history. Register
// Recorder.Observe with engine.WithObserver. History is best effort: a
// failed write is logged and the countdown carries on.
type Recorder struct {
	store  StoreInterface
	clock  clock.Clock
	log    *log.Logger
	preset string

	run  *model.Run
	last int64
}

// NewRecorder returns a recorder writing to s. A nil clock uses the wall
// clock; a nil logger drops write failures silently.
func NewRecorder(s StoreInterface, clk clock.Clock, logger *log.Logger) *Recorder {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Recorder{store: s, clock: clk, log: logger}
}

// SetPreset labels runs started from now on.
func (r *Recorder) SetPreset(name string) { r.preset = name }

// Current returns the ID of the open run, or "".
func (r *Recorder) Current() string {
	if r.run == nil {
		return ""
	}
	return r.run.ID
}

// Observe is an engine.Observer.
func (r *Recorder) Observe(tr engine.Transition, _ engine.Snapshot) {
	defer func() { r.last = tr.Remaining }()
	if !tr.Changed || tr.From == tr.To {
		return
	}

	switch {
	case tr.From == model.StateIdle && tr.To == model.StateRunning:
		r.begin(tr.Remaining)
	case tr.From == model.StateRunning && tr.To == model.StatePaused:
		r.event(model.EventPause, tr.Remaining)
		r.update(model.RunPaused, tr.Remaining)
	case tr.From == model.StatePaused && tr.To == model.StateRunning:
		r.event(model.EventResume, tr.Remaining)
		r.update(model.RunRunning, tr.Remaining)
	case tr.To == model.StateExpired:
		r.event(model.EventExpire, 0)
		r.finish(model.RunExpired, 0)
	case tr.To == model.StateIdle && tr.From == model.StateExpired:
		// The run was closed when it expired.
		r.run = nil
	case tr.To == model.StateIdle:
		r.event(model.EventReset, r.last)
		r.finish(model.RunReset, r.last)
	}
}

func (r *Recorder) begin(total int64) {
	now := r.clock.Now()
	run := &model.Run{
		ID:           model.NewRunID(),
		TotalSeconds: total,
		Remaining:    total,
		Status:       model.RunRunning,
		Preset:       r.preset,
		StartedAt:    now,
	}
	if err := r.store.CreateRun(run); err != nil {
		r.logf("history: create run: %v", err)
		r.run = nil
		return
	}
	r.run = run
	r.event(model.EventStart, total)
}

func (r *Recorder) event(kind model.EventKind, remaining int64) {
	if r.run == nil {
		return
	}
	e := &model.Event{
		RunID:     r.run.ID,
		Kind:      kind,
		Remaining: remaining,
		CreatedAt: r.clock.Now(),
	}
	if _, err := r.store.InsertEvent(e); err != nil {
		r.logf("history: %s event for %s: %v", kind, r.run.ID, err)
	}
}

func (r *Recorder) update(status model.RunStatus, remaining int64) {
	if r.run == nil {
		return
	}
	if err := r.store.UpdateRun(r.run.ID, status, remaining); err != nil {
		r.logf("history: update %s: %v", r.run.ID, err)
	}
}

func (r *Recorder) finish(status model.RunStatus, remaining int64) {
	if r.run == nil {
		return
	}
	if err := r.store.FinishRun(r.run.ID, status, remaining, r.clock.Now()); err != nil {
		r.logf("history: finish %s: %v", r.run.ID, err)
	}
	r.run = nil
}

func (r *Recorder) logf(format string, args ...any) {
	if r.log != nil {
		r.log.Printf(format, args...)
	}
}
