// Package clock abstracts the periodic tick source that drives a countdown.
//
// Production code uses Real, which wraps time.Ticker. Tests use Fake, which
// only delivers ticks when Advance is called, so countdown behavior can be
// checked without sleeping.
//
// A Ticker's channel has capacity 1, matching time.Ticker: a consumer that
// falls behind loses ticks rather than queuing them. After Stop returns no
// further tick is sent, although one already buffered may remain. Consumers
// that must not observe a tick after Stop stop reading the channel in the
// same goroutine that calls Stop.
package clock

import "time"

// Clock creates tickers and reports the current time.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// NewTicker returns a Ticker that delivers a tick every d. d must be > 0.
	NewTicker(d time.Duration) Ticker
}

// Ticker is a cancellable repeating timer.
type Ticker interface {
	// C returns the tick channel.
	C() <-chan time.Time

	// Stop turns the ticker off. Stop is idempotent and does not close C.
	Stop()
}

// Real is the Clock backed by the time package.
type Real struct{}

// Now implements Clock.
func (Real) Now() time.Time { return time.Now() }

// NewTicker implements Clock using time.NewTicker.
func (Real) NewTicker(d time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(d)}
}

type realTicker struct {
	t *time.Ticker
}

func (r *realTicker) C() <-chan time.Time { return r.t.C }
func (r *realTicker) Stop()               { r.t.Stop() }
