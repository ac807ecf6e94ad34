package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/example/quill/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockLedgerStore implements secondary.LedgerStore for testing.
type mockLedgerStore struct {
	mu     sync.Mutex
	slices map[secondary.Selector]string
	writes []appliedWrite
	// writeErrFor fails writes whose text equals the key.
	writeErrFor map[string]error
	// onWrite, when set, runs after each successful write (under lock).
	onWrite func(sel secondary.Selector, text string)
}

type appliedWrite struct {
	sel  secondary.Selector
	text string
}

func newMockLedgerStore() *mockLedgerStore {
	return &mockLedgerStore{
		slices:      make(map[secondary.Selector]string),
		writeErrFor: make(map[string]error),
	}
}

func (m *mockLedgerStore) ReadSlice(ctx context.Context, sel secondary.Selector) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Absent ledger reads as empty, never as an error.
	return m.slices[sel], nil
}

func (m *mockLedgerStore) WriteSlice(ctx context.Context, sel secondary.Selector, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.writeErrFor[text]; err != nil {
		return err
	}
	m.slices[sel] = text
	m.writes = append(m.writes, appliedWrite{sel: sel, text: text})
	if m.onWrite != nil {
		m.onWrite(sel, text)
	}
	return nil
}

func (m *mockLedgerStore) appliedTexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	texts := make([]string, len(m.writes))
	for i, w := range m.writes {
		texts[i] = w.text
	}
	return texts
}

func (m *mockLedgerStore) setSlice(sel secondary.Selector, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slices[sel] = text
}

// fakeSignal implements secondary.GenerationSignal with a settable state.
type fakeSignal struct {
	mu    sync.Mutex
	name  string
	busy  bool
	known bool
}

func newFakeSignal(name string, busy, known bool) *fakeSignal {
	return &fakeSignal{name: name, busy: busy, known: known}
}

func (s *fakeSignal) Name() string {
	return s.name
}

func (s *fakeSignal) Busy(ctx context.Context) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy, s.known
}

func (s *fakeSignal) set(busy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = busy
	s.known = true
}

// fakeClock implements secondary.Clock over virtual time: Sleep advances
// the clock instead of blocking, so timeout paths run instantly.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// fakeEventSource implements secondary.EventSource with a hand-driven
// channel.
type fakeEventSource struct {
	ch chan struct{}
}

func newFakeEventSource() *fakeEventSource {
	return &fakeEventSource{ch: make(chan struct{}, 1)}
}

func (s *fakeEventSource) Events() <-chan struct{} { return s.ch }

func (s *fakeEventSource) Close() error { return nil }

func (s *fakeEventSource) emit() { s.ch <- struct{}{} }

// mockQueue implements primary.QueueService, recording enqueued writes.
type mockQueue struct {
	mu    sync.Mutex
	kinds []string
	sels  []secondary.Selector
	texts []string
}

func (m *mockQueue) Enqueue(kind string, sel secondary.Selector, text string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kinds = append(m.kinds, kind)
	m.sels = append(m.sels, sel)
	m.texts = append(m.texts, text)
	return fmt.Sprintf("write-%d", len(m.texts))
}

func (m *mockQueue) Pending() int { return 0 }

func (m *mockQueue) Flush(ctx context.Context) error { return nil }

func (m *mockQueue) Clear() {}
