// Package secondary defines the driven-side ports: interfaces the engine
// consumes, implemented by adapters (sqlite chat store, filesystem ledger).
package secondary

import "context"

// Selector identifies a logical region of the host's ledger.
type Selector string

const (
	// SelectorFirst addresses the earliest ledger entry. The forum
	// sub-document is pinned there by convention.
	SelectorFirst Selector = "first"
	// SelectorLast addresses the most recent ledger entry, where the
	// external generator appends.
	SelectorLast Selector = "last"
	// SelectorAll addresses the whole ledger, concatenated in order.
	SelectorAll Selector = "all"
)

// LedgerStore is the boundary to the host's shared text ledger.
//
// ReadSlice must tolerate an empty or absent ledger by returning "" with
// a nil error. WriteSlice must be safe to call repeatedly with identical
// text. Reads are unsynchronized; writes are expected to arrive only from
// the engine's write queue, but the external generator may append to the
// ledger at any time regardless.
type LedgerStore interface {
	ReadSlice(ctx context.Context, sel Selector) (string, error)
	WriteSlice(ctx context.Context, sel Selector, text string) error
}
