// Package primary defines the driving-side ports: the service interfaces
// the CLI (and any other front end) programs against.
package primary

import (
	"context"

	"github.com/example/quill/internal/core/tally"
	"github.com/example/quill/internal/ports/secondary"
)

// DomainState is a read-only snapshot of one domain's accumulated state,
// handed to change subscribers and the status surface.
type DomainState struct {
	Domain string
	// Latest is true for latest-only (scalar) domains.
	Latest bool
	Items  []tally.Item
	Scalar string
}

// StateChangedHook is invoked after every merge that produced a change.
// newly holds exactly the records that appeared in that pass, in ledger
// order; it is empty for scalar (latest-only) domains.
type StateChangedHook func(domain string, state DomainState, newly []tally.Item)

// PassResult summarizes one parse pass.
type PassResult struct {
	// NewlyAppeared maps domain name to the records first seen in this
	// pass. Domains with nothing new are absent.
	NewlyAppeared map[string][]tally.Item
	// ScalarsChanged lists latest-only domains whose value moved.
	ScalarsChanged []string
}

// EngineService owns the format registry and all per-domain accumulated
// state for one session.
type EngineService interface {
	// RunParsePass re-reads the ledger slice and merges every configured
	// domain. Malformed tokens degrade to empty fields; a parse pass
	// only fails when the ledger itself cannot be read.
	RunParsePass(ctx context.Context, sel secondary.Selector) (*PassResult, error)

	// Watch runs parse passes until ctx is cancelled: one poll ticker,
	// plus an immediate pass whenever the event source fires.
	Watch(ctx context.Context, sel secondary.Selector) error

	// DomainState returns a snapshot of one domain's state.
	DomainState(domain string) (DomainState, bool)

	// Domains lists the configured domain names in table order.
	Domains() []string

	// Subscribe registers a change hook. Not safe to call concurrently
	// with Watch; subscribe before starting the loop.
	Subscribe(hook StateChangedHook)

	// ResetSession clears all accumulated state. The next pass rebuilds
	// from the ledger alone.
	ResetSession()

	// PostBoardContent merges incoming forum sub-document text against
	// the pinned ledger slice and enqueues the merged result for
	// writing. Returns the pending write id.
	PostBoardContent(ctx context.Context, incomingText string) (string, error)
}
