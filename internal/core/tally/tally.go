// Package tally contains the pure accumulation logic that turns repeated
// full parses of the ledger into stable per-domain state. This is part of
// the Functional Core - no I/O, only pure functions and in-memory state.
//
// The ledger is re-parsed from scratch on every pass, so the same token is
// seen many times. Each record is reduced to a timestamp-free signature;
// a domain's state keeps the set of signatures it has already absorbed and
// appends only records whose signature is unseen.
package tally

import (
	"strings"

	"github.com/example/quill/internal/core/markup"
)

// sigSeparator joins signature parts. U+001F is not producible by the
// token syntax, so parts cannot collide across the join.
const sigSeparator = "\x1f"

// Signature derives a stable dedup key from the given parts. Identical
// parts always produce identical signatures; callers must only feed it
// fields that are stable across re-parses (never merge-time timestamps).
func Signature(parts ...string) string {
	return strings.Join(parts, sigSeparator)
}

// RecordSignature computes a record's signature from the named fields, in
// order. Missing fields contribute "" - a partially generated record still
// gets a well-defined signature.
func RecordSignature(rec markup.Record, fieldNames ...string) string {
	parts := make([]string, len(fieldNames))
	for i, name := range fieldNames {
		parts[i] = rec.Field(name)
	}
	return Signature(parts...)
}

// Item is one accumulated record together with the signature it was
// deduplicated by.
type Item struct {
	Record    markup.Record
	Signature string
}

// State is the accumulated state of one domain (danmaku list, gift list,
// hot-search list). Items only grow, in ledger-source order; they are never
// reordered or deleted within a session.
type State struct {
	items []Item
	known map[string]struct{}
}

// NewState creates an empty domain state.
func NewState() *State {
	return &State{known: make(map[string]struct{})}
}

// Items returns the accumulated items in append order. The returned slice
// is shared; callers must not mutate it.
func (s *State) Items() []Item {
	return s.items
}

// Len returns the number of accumulated items.
func (s *State) Len() int {
	return len(s.items)
}

// Merge absorbs one batch of freshly extracted records. Records whose
// signature (computed over sigFields) is already known are skipped; unseen
// ones are appended in batch order, which by the extractor's contract is
// ledger-source order. The returned slice holds exactly the newly appeared
// items, in that same order. Merging an identical batch twice is a no-op
// the second time.
func (s *State) Merge(records []markup.Record, sigFields ...string) []Item {
	var newly []Item
	for _, rec := range records {
		sig := RecordSignature(rec, sigFields...)
		if _, seen := s.known[sig]; seen {
			continue
		}
		item := Item{Record: rec, Signature: sig}
		s.items = append(s.items, item)
		s.known[sig] = struct{}{}
		newly = append(newly, item)
	}
	return newly
}

// Reset clears the state. Called on session end; the next session rebuilds
// from the ledger alone.
func (s *State) Reset() {
	s.items = nil
	s.known = make(map[string]struct{})
}

// Scalar is a latest-only domain value (live caption, viewer count).
// Only the newest non-empty extraction is meaningful; an in-progress
// generation pass may transiently lack the token entirely, and that
// absence must never blank out the last known value.
type Scalar struct {
	value string
}

// Replace installs a new value unless it is empty or whitespace-only.
// It reports whether the value changed.
func (s *Scalar) Replace(v string) bool {
	if strings.TrimSpace(v) == "" {
		return false
	}
	if v == s.value {
		return false
	}
	s.value = v
	return true
}

// Value returns the last non-empty value installed, or "".
func (s *Scalar) Value() string {
	return s.value
}

// Reset clears the scalar.
func (s *Scalar) Reset() {
	s.value = ""
}
