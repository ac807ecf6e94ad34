package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/example/quill/internal/core/board"
	"github.com/example/quill/internal/core/markup"
	"github.com/example/quill/internal/core/tally"
	"github.com/example/quill/internal/ports/primary"
	"github.com/example/quill/internal/ports/secondary"
)

// defaultPollInterval is the fallback cadence for Watch when no event
// source is wired and the caller did not configure an interval.
const defaultPollInterval = 3 * time.Second

// DomainMode selects how extracted records fold into domain state.
type DomainMode int

const (
	// ModeAccumulate keeps every distinct record, deduplicated by
	// signature.
	ModeAccumulate DomainMode = iota
	// ModeLatest keeps only a single scalar value, replaced by each
	// newer non-empty record.
	ModeLatest
)

// DomainSpec binds a state domain to the markup format that feeds it.
type DomainSpec struct {
	Name   string
	Format string
	Mode   DomainMode

	// SigFields are the record fields that form the dedup signature in
	// ModeAccumulate.
	SigFields []string
	// ScalarField is the field read in ModeLatest.
	ScalarField string
}

// DefaultDomains returns the built-in domain table.
func DefaultDomains() []DomainSpec {
	return []DomainSpec{
		{Name: "comment", Format: markup.FormatComment, Mode: ModeAccumulate,
			SigFields: []string{markup.FieldAuthor, markup.FieldContent, markup.FieldKind}},
		{Name: "danmaku", Format: markup.FormatDanmaku, Mode: ModeAccumulate,
			SigFields: []string{markup.FieldAuthor, markup.FieldContent}},
		{Name: "gift", Format: markup.FormatGift, Mode: ModeAccumulate,
			SigFields: []string{markup.FieldAuthor, markup.FieldKind, markup.FieldCount}},
		{Name: "hotsearch", Format: markup.FormatHotSearch, Mode: ModeAccumulate,
			SigFields: []string{markup.FieldContent}},
		{Name: "viewers", Format: markup.FormatViewers, Mode: ModeLatest,
			ScalarField: markup.FieldCount},
		{Name: "caption", Format: markup.FormatCaption, Mode: ModeLatest,
			ScalarField: markup.FieldContent},
	}
}

type domainState struct {
	spec   DomainSpec
	state  *tally.State
	scalar *tally.Scalar
}

func (ds *domainState) snapshot() primary.DomainState {
	if ds.spec.Mode == ModeLatest {
		return primary.DomainState{Domain: ds.spec.Name, Latest: true, Scalar: ds.scalar.Value()}
	}
	return primary.DomainState{Domain: ds.spec.Name, Items: ds.state.Items()}
}

type firedChange struct {
	domain string
	state  primary.DomainState
	newly  []tally.Item
}

// EngineServiceImpl implements the EngineService interface: it reads a
// ledger slice, extracts markup records, and folds them into per-domain
// session state.
type EngineServiceImpl struct {
	registry *markup.Registry
	store    secondary.LedgerStore
	queue    primary.QueueService
	events   secondary.EventSource
	clock    secondary.Clock
	logger   *slog.Logger

	pollInterval time.Duration

	mu      sync.Mutex
	domains []*domainState
	hooks   []primary.StateChangedHook
}

// NewEngineService creates an EngineService with injected dependencies.
// A nil events source disables the fast path; pollInterval <= 0 falls
// back to the default; nil domains installs the built-in table.
func NewEngineService(registry *markup.Registry, store secondary.LedgerStore, queue primary.QueueService, events secondary.EventSource, clock secondary.Clock, logger *slog.Logger, pollInterval time.Duration, domains []DomainSpec) *EngineServiceImpl {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	if domains == nil {
		domains = DefaultDomains()
	}

	states := make([]*domainState, 0, len(domains))
	for _, spec := range domains {
		ds := &domainState{spec: spec}
		if spec.Mode == ModeLatest {
			ds.scalar = &tally.Scalar{}
		} else {
			ds.state = tally.NewState()
		}
		states = append(states, ds)
	}

	return &EngineServiceImpl{
		registry:     registry,
		store:        store,
		queue:        queue,
		events:       events,
		clock:        clock,
		logger:       logger,
		pollInterval: pollInterval,
		domains:      states,
	}
}

// RunParsePass reads the selected ledger slice, extracts every configured
// format, and merges the results into session state. The pass is
// idempotent: re-reading unchanged text yields an empty result.
func (s *EngineServiceImpl) RunParsePass(ctx context.Context, sel secondary.Selector) (*primary.PassResult, error) {
	text, err := s.store.ReadSlice(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger slice: %w", err)
	}

	result := &primary.PassResult{NewlyAppeared: make(map[string][]tally.Item)}
	var changes []firedChange

	s.mu.Lock()
	for _, ds := range s.domains {
		records, err := s.registry.Extract(text, ds.spec.Format)
		if err != nil {
			s.mu.Unlock()
			return nil, fmt.Errorf("failed to extract %q records: %w", ds.spec.Format, err)
		}
		if len(records) == 0 {
			continue
		}
		if ds.spec.Mode == ModeLatest {
			newest := records[len(records)-1].Field(ds.spec.ScalarField)
			if ds.scalar.Replace(newest) {
				result.ScalarsChanged = append(result.ScalarsChanged, ds.spec.Name)
				changes = append(changes, firedChange{domain: ds.spec.Name, state: ds.snapshot()})
			}
			continue
		}
		fresh := ds.state.Merge(records, ds.spec.SigFields...)
		if len(fresh) > 0 {
			result.NewlyAppeared[ds.spec.Name] = fresh
			changes = append(changes, firedChange{domain: ds.spec.Name, state: ds.snapshot(), newly: fresh})
		}
	}
	hooks := make([]primary.StateChangedHook, len(s.hooks))
	copy(hooks, s.hooks)
	s.mu.Unlock()

	if len(changes) > 0 {
		for _, hook := range hooks {
			for _, c := range changes {
				hook(c.domain, c.state, c.newly)
			}
		}
		s.logger.Debug("parse pass picked up changes",
			"domains_changed", len(result.NewlyAppeared),
			"scalars_changed", len(result.ScalarsChanged))
	}
	return result, nil
}

// Watch runs parse passes until ctx is cancelled. When an event source
// is wired, ledger-change events trigger an immediate pass; the poll
// ticker always runs as a backstop for missed events.
func (s *EngineServiceImpl) Watch(ctx context.Context, sel secondary.Selector) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	var events <-chan struct{}
	if s.events != nil {
		events = s.events.Events()
	}

	if _, err := s.RunParsePass(ctx, sel); err != nil {
		s.logger.Warn("initial parse pass failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-events:
			if _, err := s.RunParsePass(ctx, sel); err != nil {
				s.logger.Warn("parse pass failed", "error", err)
			}
		case <-ticker.C:
			if _, err := s.RunParsePass(ctx, sel); err != nil {
				s.logger.Warn("parse pass failed", "error", err)
			}
		}
	}
}

// Subscribe registers a hook invoked for each domain changed by a pass.
// Hooks run on the calling goroutine of RunParsePass.
func (s *EngineServiceImpl) Subscribe(hook primary.StateChangedHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// Domains lists configured domain names in table order.
func (s *EngineServiceImpl) Domains() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.domains))
	for _, ds := range s.domains {
		names = append(names, ds.spec.Name)
	}
	return names
}

// DomainState returns a snapshot of one domain's session state.
func (s *EngineServiceImpl) DomainState(name string) (primary.DomainState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ds := range s.domains {
		if ds.spec.Name == name {
			return ds.snapshot(), true
		}
	}
	return primary.DomainState{}, false
}

// ResetSession drops all accumulated state, starting a fresh session.
func (s *EngineServiceImpl) ResetSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ds := range s.domains {
		if ds.scalar != nil {
			ds.scalar.Reset()
		} else {
			ds.state.Reset()
		}
	}
	s.logger.Info("session state reset")
}

// PostBoardContent merges incoming board text into the pinned slice and
// enqueues the merged result for writing. The merge happens at enqueue
// time against the current pinned content; existing threads win over
// regenerated ones.
func (s *EngineServiceImpl) PostBoardContent(ctx context.Context, incoming string) (string, error) {
	existing, err := s.store.ReadSlice(ctx, secondary.SelectorFirst)
	if err != nil {
		return "", fmt.Errorf("failed to read pinned slice: %w", err)
	}
	merged, err := board.MergeSerialized(existing, incoming, s.registry, s.clock.Now())
	if err != nil {
		return "", fmt.Errorf("failed to merge board content: %w", err)
	}
	return s.queue.Enqueue("board", secondary.SelectorFirst, merged), nil
}
