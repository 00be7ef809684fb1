package engine

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/daviddao/countdown/pkg/duration"
	"github.com/daviddao/countdown/pkg/model"
)

// ErrStopped is returned by Loop methods once Run has returned.
var ErrStopped = errors.New("engine: loop stopped")

// Observer is called from the loop goroutine after every command and tick,
// including no-ops. It must not call back into the Loop.
type Observer func(Transition, Snapshot)

// Loop serializes commands and ticks for one Engine through a single
// goroutine. A tick and a command never run concurrently, and a ticker
// released by a command is never read again, so no tick is processed
// after the countdown leaves Running.
type Loop struct {
	engine    *Engine
	reqs      chan request
	done      chan struct{}
	started   atomic.Bool
	observers []Observer
}

type request struct {
	apply func(*Engine) Transition
	reply chan Snapshot
	quiet bool
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithObserver registers an observer. Observers run in registration order.
func WithObserver(o Observer) LoopOption {
	return func(l *Loop) {
		if o != nil {
			l.observers = append(l.observers, o)
		}
	}
}

// NewLoop wraps e. After Run starts, only the loop goroutine may touch e.
func NewLoop(e *Engine, opts ...LoopOption) *Loop {
	l := &Loop{
		engine: e,
		reqs:   make(chan request),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run processes commands and ticks until ctx is cancelled. On the way out
// a countdown still in progress is reset so its ticker is released. Run
// may be called only once.
func (l *Loop) Run(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return errors.New("engine: loop already running")
	}
	defer close(l.done)

	for {
		select {
		case <-ctx.Done():
			if l.engine.State() == model.StateRunning || l.engine.State() == model.StatePaused {
				l.notify(l.engine.Reset())
			}
			return ctx.Err()
		case req := <-l.reqs:
			tr := req.apply(l.engine)
			if req.quiet {
				req.reply <- l.engine.Snapshot()
				continue
			}
			req.reply <- l.notify(tr)
		case <-l.engine.TickC():
			l.notify(l.engine.Tick())
		}
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} { return l.done }

func (l *Loop) notify(tr Transition) Snapshot {
	snap := l.engine.Snapshot()
	for _, o := range l.observers {
		o(tr, snap)
	}
	return snap
}

func (l *Loop) submit(ctx context.Context, apply func(*Engine) Transition) (Snapshot, error) {
	return l.send(ctx, request{apply: apply, reply: make(chan Snapshot, 1)})
}

func (l *Loop) send(ctx context.Context, req request) (Snapshot, error) {
	select {
	case l.reqs <- req:
	case <-l.done:
		return Snapshot{}, ErrStopped
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
	// The loop always replies once it has accepted a request.
	return <-req.reply, nil
}

// Do applies a command and returns the resulting snapshot.
func (l *Loop) Do(ctx context.Context, cmd model.Command) (Snapshot, error) {
	return l.submit(ctx, func(e *Engine) Transition { return e.Apply(cmd) })
}

// Start is shorthand for Do(ctx, model.CmdStart).
func (l *Loop) Start(ctx context.Context) (Snapshot, error) { return l.Do(ctx, model.CmdStart) }

// PauseToggle is shorthand for Do(ctx, model.CmdPauseToggle).
func (l *Loop) PauseToggle(ctx context.Context) (Snapshot, error) {
	return l.Do(ctx, model.CmdPauseToggle)
}

// Reset is shorthand for Do(ctx, model.CmdReset).
func (l *Loop) Reset(ctx context.Context) (Snapshot, error) { return l.Do(ctx, model.CmdReset) }

// SetField edits one duration field. The edit is ignored unless Idle.
func (l *Loop) SetField(ctx context.Context, name duration.Name, raw string) (Snapshot, error) {
	return l.submit(ctx, func(e *Engine) Transition {
		tr := e.begin(model.CmdEdit)
		e.SetField(name, raw)
		return e.finish(tr)
	})
}

// SetDuration replaces the duration. The edit is ignored unless Idle.
func (l *Loop) SetDuration(ctx context.Context, d duration.Duration) (Snapshot, error) {
	return l.submit(ctx, func(e *Engine) Transition {
		tr := e.begin(model.CmdEdit)
		e.SetDuration(d)
		return e.finish(tr)
	})
}

// Snapshot returns the current state as seen by the loop. Observers are
// not called.
func (l *Loop) Snapshot(ctx context.Context) (Snapshot, error) {
	return l.send(ctx, request{
		apply: func(e *Engine) Transition { return Transition{} },
		reply: make(chan Snapshot, 1),
		quiet: true,
	})
}
