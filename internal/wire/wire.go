// Package wire provides dependency injection for the quill application.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"log/slog"
	"os"
	"sync"

	cliadapter "github.com/example/quill/internal/adapters/cli"
	"github.com/example/quill/internal/adapters/filesystem"
	"github.com/example/quill/internal/adapters/sqlite"
	"github.com/example/quill/internal/app"
	"github.com/example/quill/internal/config"
	"github.com/example/quill/internal/core/markup"
	"github.com/example/quill/internal/db"
	"github.com/example/quill/internal/ports/primary"
	"github.com/example/quill/internal/ports/secondary"
)

var (
	registry      *markup.Registry
	ledgerStore   secondary.LedgerStore
	engineService primary.EngineService
	queueService  primary.QueueService
	once          sync.Once
)

// EngineService returns the singleton EngineService instance.
func EngineService() primary.EngineService {
	once.Do(initServices)
	return engineService
}

// QueueService returns the singleton QueueService instance.
func QueueService() primary.QueueService {
	once.Do(initServices)
	return queueService
}

// Registry returns the singleton format registry (built-ins plus any
// custom formats from the config).
func Registry() *markup.Registry {
	once.Do(initServices)
	return registry
}

// LedgerStore returns the configured ledger backend.
func LedgerStore() secondary.LedgerStore {
	once.Do(initServices)
	return ledgerStore
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to resolve working directory: %v", err)
	}
	cfg := config.LoadOrDefault(cwd)

	registry = markup.NewRegistry()
	for _, f := range cfg.CustomFormats {
		if err := registry.Register(f.Name, f.Pattern, f.Fields); err != nil {
			log.Fatalf("failed to register custom format: %v", err)
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	clock := app.NewSystemClock()

	var signals []secondary.GenerationSignal
	var events secondary.EventSource

	switch cfg.Backend {
	case config.BackendFile:
		if cfg.Ledger == "" {
			log.Fatalf("file backend requires ledger_path in .quill/config.json")
		}
		ledgerStore = filesystem.NewFileLedger(cfg.Ledger)
		signals = append(signals, filesystem.NewLockSignal(cfg.LockMarkerPath()))
		if w, err := filesystem.NewWatcher(cfg.Ledger); err != nil {
			logger.Warn("ledger watcher unavailable, falling back to polling", "error", err)
		} else {
			events = w
		}
	default:
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			log.Fatalf("failed to open chat store: %v", err)
		}
		ledgerStore = sqlite.NewChatStore(database)
		signals = append(signals, sqlite.NewMetaSignal(database))
	}

	gate := app.NewGate(clock, logger, cfg.GatePollInterval(), signals...)
	queueService = app.NewQueueService(ledgerStore, gate, clock, logger, cfg.GateTimeout())
	engineService = app.NewEngineService(
		registry, ledgerStore, queueService, events, clock, logger,
		cfg.PollInterval(), nil)
}

// EngineAdapter returns a new EngineAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func EngineAdapter() *cliadapter.EngineAdapter {
	return EngineAdapterWithOutput(os.Stdout)
}

// EngineAdapterWithOutput returns a new EngineAdapter writing to the given
// output. This variant allows testing or alternate output destinations.
func EngineAdapterWithOutput(out io.Writer) *cliadapter.EngineAdapter {
	once.Do(initServices)
	return cliadapter.NewEngineAdapter(engineService, out)
}
