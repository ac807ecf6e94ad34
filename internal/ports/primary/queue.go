package primary

import (
	"context"
	"time"

	"github.com/example/quill/internal/ports/secondary"
)

// PendingWrite is one queued ledger mutation. Immutable after creation;
// consumed exactly once by the drain loop.
type PendingWrite struct {
	ID         string
	Kind       string
	Selector   secondary.Selector
	Text       string
	EnqueuedAt time.Time
}

// QueueService is the single local writer to the ledger. Writes are
// applied FIFO, one at a time, only while the generation gate reports
// idle; a failed write is logged and skipped, never blocking the rest of
// the queue.
type QueueService interface {
	// Enqueue appends a write and starts the drain loop if it is not
	// already running. Always succeeds; returns the write id.
	Enqueue(kind string, sel secondary.Selector, text string) string

	// Pending returns the number of not-yet-applied writes.
	Pending() int

	// Flush blocks until the queue empties or ctx is cancelled.
	Flush(ctx context.Context) error

	// Clear drops all pending writes and stops the drain loop. Applied
	// writes are not rolled back.
	Clear()
}
