package secondary

import (
	"context"
	"time"
)

// GenerationSignal is one independently-sourced reading of whether the
// external generator is currently producing ledger text. Hosts expose
// these unevenly (a send-in-progress flag, a busy marker, a group-chat
// flag); the gate ORs however many are present.
type GenerationSignal interface {
	// Name identifies the signal in logs.
	Name() string
	// Busy returns the current reading. known=false means the signal
	// could not be read at all; the gate treats that as idle rather
	// than blocking the queue on absent instrumentation.
	Busy(ctx context.Context) (busy bool, known bool)
}

// EventSource delivers discrete host events ("ledger changed") that
// trigger an immediate parse pass instead of waiting for the next poll
// tick. Optional: the engine falls back to pure polling without one.
type EventSource interface {
	// Events returns the channel change notifications arrive on.
	Events() <-chan struct{}
	// Close releases the underlying watcher.
	Close() error
}

// Clock abstracts time for merge stamping and gate polling, so tests can
// drive both deterministically.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration)
}
