// Package engine implements the countdown state machine.
//
// An Engine moves between four states (see model.State) in response to
// three commands (Start, PauseToggle, Reset) and an internal Tick. Every
// command is total: when its guard fails it is a no-op, reported through
// Transition.Changed, never an error.
//
// The Engine owns its tick source. A ticker exists exactly while the state
// is Running: it is acquired on entering Running and released on every
// exit from Running, including the exit caused by the final tick. Both
// happen in setState, so no transition can leak a ticker.
//
// Engine is not goroutine-safe. Use Loop to drive it from commands and
// ticks arriving concurrently.
package engine

import (
	"log"
	"time"

	"github.com/daviddao/countdown/pkg/clock"
	"github.com/daviddao/countdown/pkg/duration"
	"github.com/daviddao/countdown/pkg/model"
)

// DefaultInterval is the countdown cadence: one tick per second.
const DefaultInterval = time.Second

// Transition describes the effect of one command or tick.
type Transition struct {
	Command   model.Command `json:"command"`
	From      model.State   `json:"from"`
	To        model.State   `json:"to"`
	Remaining int64         `json:"remaining_seconds"`
	Changed   bool          `json:"changed"`
}

// Controls is the enablement policy a front-end applies to its widgets.
type Controls struct {
	StartEnabled  bool   `json:"start_enabled"`
	PauseEnabled  bool   `json:"pause_enabled"`
	PauseLabel    string `json:"pause_label"`
	ResetEnabled  bool   `json:"reset_enabled"`
	InputsEnabled bool   `json:"inputs_enabled"`
}

// Snapshot is a read-only copy of the engine state for rendering.
type Snapshot struct {
	State     model.State       `json:"state"`
	Remaining int64             `json:"remaining_seconds"`
	Display   duration.Display  `json:"display"`
	Text      string            `json:"text"`
	Duration  duration.Duration `json:"-"`
	Controls  Controls          `json:"controls"`
	Ticking   bool              `json:"ticking"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithInterval overrides the tick period.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithLogger logs transitions to l. A nil logger disables logging.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithDebug additionally logs every tick.
func WithDebug(debug bool) Option {
	return func(e *Engine) { e.debug = debug }
}

// Engine is the countdown state machine.
type Engine struct {
	clock    clock.Clock
	interval time.Duration
	log      *log.Logger
	debug    bool

	state     model.State
	remaining int64
	duration  duration.Duration
	ticker    clock.Ticker
}

// New returns an Idle engine with an all-zero duration.
func New(clk clock.Clock, opts ...Option) *Engine {
	if clk == nil {
		clk = clock.Real{}
	}
	e := &Engine{
		clock:    clk,
		interval: DefaultInterval,
		state:    model.StateIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

// Start begins a countdown from the current duration. It only acts in Idle
// and only when the duration totals more than zero seconds.
func (e *Engine) Start() Transition {
	tr := e.begin(model.CmdStart)
	if e.state != model.StateIdle {
		return e.finish(tr)
	}
	total := e.duration.TotalSeconds()
	if total <= 0 {
		return e.finish(tr)
	}
	e.remaining = total
	e.setState(model.StateRunning)
	return e.finish(tr)
}

// PauseToggle pauses a running countdown or resumes a paused one.
// In Idle and Expired it does nothing.
func (e *Engine) PauseToggle() Transition {
	tr := e.begin(model.CmdPauseToggle)
	switch e.state {
	case model.StateRunning:
		e.setState(model.StatePaused)
	case model.StatePaused:
		e.setState(model.StateRunning)
	}
	return e.finish(tr)
}

// Reset returns to Idle from any state, zeroing the remaining count and
// the duration. Repeated resets are no-ops.
func (e *Engine) Reset() Transition {
	tr := e.begin(model.CmdReset)
	e.setState(model.StateIdle)
	e.remaining = 0
	e.duration.Reset()
	return e.finish(tr)
}

// Tick applies one elapsed interval. Ticks outside Running are ignored.
func (e *Engine) Tick() Transition {
	tr := e.begin(model.CmdTick)
	if e.state != model.StateRunning {
		return e.finish(tr)
	}
	if e.debug && e.log != nil {
		e.log.Printf("seconds left: %d", e.remaining)
	}
	if e.remaining > 1 {
		e.remaining--
		return e.finish(tr)
	}
	e.remaining = 0
	e.setState(model.StateExpired)
	return e.finish(tr)
}

// Apply dispatches a command by name. CmdTick is accepted so a caller can
// replay a tick it received itself.
func (e *Engine) Apply(cmd model.Command) Transition {
	switch cmd {
	case model.CmdStart:
		return e.Start()
	case model.CmdPauseToggle:
		return e.PauseToggle()
	case model.CmdReset:
		return e.Reset()
	case model.CmdTick:
		return e.Tick()
	}
	tr := e.begin(cmd)
	return e.finish(tr)
}

// ---------------------------------------------------------------------------
// Duration edits (Idle only)
// ---------------------------------------------------------------------------

// SetField stores raw input into one duration field. It reports false,
// leaving the duration untouched, when the engine is not Idle or the
// field name is unknown.
func (e *Engine) SetField(name duration.Name, raw string) bool {
	if e.state != model.StateIdle {
		return false
	}
	d := e.duration
	if err := d.SetField(name, raw); err != nil {
		return false
	}
	e.duration = d
	return true
}

// SetDuration replaces the whole duration. Idle only.
func (e *Engine) SetDuration(d duration.Duration) bool {
	if e.state != model.StateIdle {
		return false
	}
	e.duration = d
	return true
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// State returns the current state.
func (e *Engine) State() model.State { return e.state }

// Remaining returns the remaining seconds.
func (e *Engine) Remaining() int64 { return e.remaining }

// Duration returns the configured duration.
func (e *Engine) Duration() duration.Duration { return e.duration }

// Display derives hours/minutes/seconds from the remaining count.
func (e *Engine) Display() duration.Display { return duration.Split(e.remaining) }

// Ticking reports whether a tick source is held.
func (e *Engine) Ticking() bool { return e.ticker != nil }

// TickC returns the active tick channel, or nil when not Running. A nil
// channel blocks forever, so a select over TickC never fires outside
// Running.
func (e *Engine) TickC() <-chan time.Time {
	if e.ticker == nil {
		return nil
	}
	return e.ticker.C()
}

// Controls returns the widget enablement for the current state.
func (e *Engine) Controls() Controls {
	c := Controls{
		StartEnabled:  e.state == model.StateIdle,
		PauseEnabled:  e.state == model.StateRunning || e.state == model.StatePaused,
		PauseLabel:    "Pause",
		ResetEnabled:  true,
		InputsEnabled: e.state == model.StateIdle,
	}
	if e.state == model.StatePaused {
		c.PauseLabel = "Resume"
	}
	return c
}

// Snapshot copies the engine state.
func (e *Engine) Snapshot() Snapshot {
	d := e.Display()
	return Snapshot{
		State:     e.state,
		Remaining: e.remaining,
		Display:   d,
		Text:      d.String(),
		Duration:  e.duration,
		Controls:  e.Controls(),
		Ticking:   e.Ticking(),
	}
}

// ---------------------------------------------------------------------------
// Internals
// ---------------------------------------------------------------------------

// setState is the only place the state changes. Entering Running acquires
// the tick; any other target releases it.
func (e *Engine) setState(to model.State) {
	if to == model.StateRunning {
		e.acquireTick()
	} else {
		e.releaseTick()
	}
	e.state = to
}

func (e *Engine) acquireTick() {
	if e.ticker != nil {
		return
	}
	e.ticker = e.clock.NewTicker(e.interval)
}

func (e *Engine) releaseTick() {
	if e.ticker == nil {
		return
	}
	e.ticker.Stop()
	e.ticker = nil
}

type pending struct {
	tr       Transition
	duration duration.Duration
}

func (e *Engine) begin(cmd model.Command) pending {
	return pending{
		tr: Transition{
			Command:   cmd,
			From:      e.state,
			Remaining: e.remaining,
		},
		duration: e.duration,
	}
}

func (e *Engine) finish(p pending) Transition {
	tr := p.tr
	tr.Changed = tr.From != e.state || tr.Remaining != e.remaining || p.duration != e.duration
	tr.To = e.state
	tr.Remaining = e.remaining
	if tr.Changed && tr.From != tr.To && e.log != nil {
		e.log.Printf("countdown %s: %s -> %s (remaining %s)",
			tr.Command, tr.From, tr.To, duration.Split(tr.Remaining))
	}
	return tr
}
