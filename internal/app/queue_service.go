package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/quill/internal/ports/primary"
	"github.com/example/quill/internal/ports/secondary"
)

// defaultGateTimeout bounds how long one drain tick waits for the gate
// before proceeding anyway.
const defaultGateTimeout = 20 * time.Second

// flushPollInterval is how often Flush re-checks for an empty queue.
const flushPollInterval = 50 * time.Millisecond

// QueueServiceImpl implements the QueueService interface: an in-memory
// FIFO of pending ledger writes drained by a single loop that respects
// the generation gate.
type QueueServiceImpl struct {
	store  secondary.LedgerStore
	gate   *Gate
	clock  secondary.Clock
	logger *slog.Logger

	gateTimeout time.Duration

	mu       sync.Mutex
	queue    []primary.PendingWrite
	draining bool
	// gen increments on every Clear. A drain loop carries the gen it
	// was started under and exits the moment it no longer matches, so a
	// Clear-then-Enqueue can never leave two loops writing at once.
	gen uint64
}

// NewQueueService creates a QueueService with injected dependencies.
// gateTimeout <= 0 falls back to the default.
func NewQueueService(store secondary.LedgerStore, gate *Gate, clock secondary.Clock, logger *slog.Logger, gateTimeout time.Duration) *QueueServiceImpl {
	if gateTimeout <= 0 {
		gateTimeout = defaultGateTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QueueServiceImpl{
		store:       store,
		gate:        gate,
		clock:       clock,
		logger:      logger,
		gateTimeout: gateTimeout,
	}
}

// Enqueue appends a write to the queue and starts the drain loop if one
// is not already running. Enqueue while a loop runs only appends; there
// is never a second loop.
func (q *QueueServiceImpl) Enqueue(kind string, sel secondary.Selector, text string) string {
	w := primary.PendingWrite{
		ID:         uuid.NewString(),
		Kind:       kind,
		Selector:   sel,
		Text:       text,
		EnqueuedAt: q.clock.Now(),
	}

	q.mu.Lock()
	q.queue = append(q.queue, w)
	startLoop := !q.draining
	if startLoop {
		q.draining = true
	}
	gen := q.gen
	q.mu.Unlock()

	if startLoop {
		go q.drainLoop(gen)
	}
	q.logger.Debug("write enqueued", "id", w.ID, "kind", kind, "selector", string(sel))
	return w.ID
}

// Pending returns the number of not-yet-applied writes.
func (q *QueueServiceImpl) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}

// Flush blocks until the queue empties or ctx is cancelled.
func (q *QueueServiceImpl) Flush(ctx context.Context) error {
	for {
		if q.Pending() == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("flush interrupted with %d writes pending: %w", q.Pending(), err)
		}
		q.clock.Sleep(ctx, flushPollInterval)
	}
}

// Clear drops all pending writes and stops the drain loop. Used for
// explicit user-initiated resets; already-applied writes stay applied.
func (q *QueueServiceImpl) Clear() {
	q.mu.Lock()
	dropped := len(q.queue)
	q.queue = nil
	q.gen++
	q.draining = false
	q.mu.Unlock()

	if dropped > 0 {
		q.logger.Info("write queue cleared", "dropped", dropped)
	}
}

// drainLoop applies queued writes one at a time. Each tick waits for the
// generation gate; on timeout it proceeds anyway, since blocking the
// queue indefinitely is worse than an occasional race with the
// generator. Individual write failures are logged and skipped so one bad
// write cannot starve the rest of the queue.
func (q *QueueServiceImpl) drainLoop(gen uint64) {
	ctx := context.Background()
	for {
		q.mu.Lock()
		if q.gen != gen {
			// Cleared since this loop started; a later Enqueue owns
			// a fresh loop.
			q.mu.Unlock()
			return
		}
		if len(q.queue) == 0 {
			q.draining = false
			q.mu.Unlock()
			return
		}
		q.mu.Unlock()

		if !q.gate.WaitUntilIdle(ctx, q.gateTimeout) {
			q.logger.Warn("generation gate still busy after timeout, writing anyway",
				"timeout", q.gateTimeout)
		}

		q.mu.Lock()
		if q.gen != gen {
			q.mu.Unlock()
			return
		}
		if len(q.queue) == 0 {
			q.draining = false
			q.mu.Unlock()
			return
		}
		w := q.queue[0]
		q.queue = q.queue[1:]
		q.mu.Unlock()

		if err := q.store.WriteSlice(ctx, w.Selector, w.Text); err != nil {
			q.logger.Error("failed to apply ledger write",
				"id", w.ID, "kind", w.Kind, "selector", string(w.Selector), "error", err)
			continue
		}
		q.logger.Debug("ledger write applied", "id", w.ID, "kind", w.Kind)
	}
}
