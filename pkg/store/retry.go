// retry.go retries history writes that fail on transient SQLite errors.
//
// busy_timeout covers SQLITE_BUSY at the connection level. A `ct history`
// reader holding the WAL can still surface SQLITE_LOCKED or a short read
// (error 522) to a writer, so writes back off and try again.
package store

import (
	"math/rand"
	"strings"
	"time"
)

// retryPolicy controls how often and how long a write is retried.
type retryPolicy struct {
	retries int
	base    time.Duration
	ceiling time.Duration
}

var defaultRetryPolicy = retryPolicy{
	retries: 3,
	base:    25 * time.Millisecond,
	ceiling: 250 * time.Millisecond,
}

// transientMarkers are substrings of modernc.org/sqlite error messages
// that indicate contention rather than a broken statement.
var transientMarkers = []string{
	"SQLITE_BUSY",
	"SQLITE_LOCKED",
	"IOERR_SHORT_READ",
	"database is locked",
	"database table is locked",
	"(5)",
	"(6)",
	"(522)",
}

// isTransient reports whether err is worth retrying.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, m := range transientMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// retryOp calls fn until it succeeds, fails permanently, or the policy's
// retries are used up. The last error is returned.
func retryOp(p retryPolicy, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = fn(); err == nil || !isTransient(err) {
			return err
		}
		if attempt >= p.retries {
			return err
		}
		time.Sleep(p.delay(attempt))
	}
}

// delay is base*2^attempt capped at ceiling, plus up to base of jitter.
func (p retryPolicy) delay(attempt int) time.Duration {
	d := p.base << uint(attempt)
	if d > p.ceiling || d <= 0 {
		d = p.ceiling
	}
	if p.base > 0 {
		d += time.Duration(rand.Int63n(int64(p.base)))
	}
	return d
}
