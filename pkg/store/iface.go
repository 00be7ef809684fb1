// iface.go defines StoreInterface so the recorder and the cmd layer can
// run against a fake history in tests.
package store

import (
	"time"

	"github.com/daviddao/countdown/pkg/model"
)

// StoreInterface is the set of history operations. *Store implements it.
type StoreInterface interface {
	Close() error

	// --- Runs ---

	// CreateRun inserts a new run.
	CreateRun(r *model.Run) error

	// UpdateRun records the status and remaining seconds of an open run.
	UpdateRun(id string, status model.RunStatus, remaining int64) error

	// FinishRun closes a run as expired or reset.
	FinishRun(id string, status model.RunStatus, remaining int64, endedAt time.Time) error

	GetRun(id string) (*model.Run, error)

	// ListRuns returns runs newest first, optionally filtered by status.
	ListRuns(limit int, status model.RunStatus) ([]model.Run, error)

	CountRuns() int64

	// --- Events ---

	// InsertEvent appends an event. Returns the row ID.
	InsertEvent(e *model.Event) (int64, error)

	// ListEvents returns a run's events in order.
	ListEvents(runID string) ([]model.Event, error)
}

var _ StoreInterface = (*Store)(nil)
