package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/quill/internal/ports/secondary"
)

// defaultGatePollInterval is how often WaitUntilIdle re-reads the signals.
const defaultGatePollInterval = 250 * time.Millisecond

// Gate is the best-effort detector of whether the external generator is
// currently producing ledger text. It ORs however many host signals are
// configured; any one reporting busy makes the gate busy, and a signal
// that cannot be read counts as idle so that absent host instrumentation
// never deadlocks the write queue. The gate narrows the race window with
// the generator; it cannot eliminate it.
type Gate struct {
	signals      []secondary.GenerationSignal
	clock        secondary.Clock
	pollInterval time.Duration
	logger       *slog.Logger
}

// NewGate creates a gate over the given signals. pollInterval <= 0 falls
// back to the default sub-second interval.
func NewGate(clock secondary.Clock, logger *slog.Logger, pollInterval time.Duration, signals ...secondary.GenerationSignal) *Gate {
	if pollInterval <= 0 {
		pollInterval = defaultGatePollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		signals:      signals,
		clock:        clock,
		pollInterval: pollInterval,
		logger:       logger,
	}
}

// Busy reports whether any signal currently reads busy.
func (g *Gate) Busy(ctx context.Context) bool {
	for _, sig := range g.signals {
		busy, known := sig.Busy(ctx)
		if known && busy {
			return true
		}
	}
	return false
}

// WaitUntilIdle polls Busy until the gate reads idle, returning true the
// moment it does. It returns false once timeout elapses while still busy,
// or when ctx is cancelled. Timing out is an expected condition, not an
// error: the caller decides whether to proceed anyway or re-queue.
func (g *Gate) WaitUntilIdle(ctx context.Context, timeout time.Duration) bool {
	deadline := g.clock.Now().Add(timeout)
	for {
		if !g.Busy(ctx) {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		remaining := deadline.Sub(g.clock.Now())
		if remaining <= 0 {
			g.logger.Debug("generation gate still busy at timeout", "timeout", timeout)
			return false
		}
		// The final sleep is clamped so the wait resolves at the
		// deadline, not at the next poll tick past it.
		g.clock.Sleep(ctx, min(g.pollInterval, remaining))
	}
}
