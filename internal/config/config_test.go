package config

import (
	"testing"
	"time"
)

func TestSaveAndLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg := &Config{
		Version:        "1",
		Backend:        BackendFile,
		Ledger:         "/tmp/ledger.txt",
		PollIntervalMS: 2000,
		CustomFormats: []FormatDef{
			{Name: "myComment", Pattern: `\[评论\|([^|]+)\|([^\]]+)\]`, Fields: []string{"author", "body"}},
		},
	}

	if err := SaveConfig(dir, cfg); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if loaded.Backend != BackendFile {
		t.Errorf("Backend = %q, want %q", loaded.Backend, BackendFile)
	}
	if loaded.Ledger != "/tmp/ledger.txt" {
		t.Errorf("Ledger = %q, want %q", loaded.Ledger, "/tmp/ledger.txt")
	}
	if len(loaded.CustomFormats) != 1 || loaded.CustomFormats[0].Name != "myComment" {
		t.Errorf("CustomFormats = %+v, want the saved myComment entry", loaded.CustomFormats)
	}
	if got := loaded.PollInterval(); got != 2*time.Second {
		t.Errorf("PollInterval() = %v, want 2s", got)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(t.TempDir()); err == nil {
		t.Error("LoadConfig() on missing file error = nil, want error")
	}
}

func TestLoadOrDefaultFallsBack(t *testing.T) {
	cfg := LoadOrDefault(t.TempDir())
	if cfg.Backend != BackendSqlite {
		t.Errorf("default Backend = %q, want %q", cfg.Backend, BackendSqlite)
	}
}

func TestDurationZeroMeansServiceDefault(t *testing.T) {
	cfg := Default()
	if cfg.PollInterval() != 0 || cfg.GateTimeout() != 0 || cfg.GatePollInterval() != 0 {
		t.Error("empty config durations should be 0 (service defaults apply)")
	}
}

func TestLockMarkerPathDefault(t *testing.T) {
	cfg := &Config{Ledger: "/tmp/ledger.txt"}
	if got := cfg.LockMarkerPath(); got != "/tmp/ledger.txt.generating" {
		t.Errorf("LockMarkerPath() = %q, want ledger-adjacent default", got)
	}

	cfg.LockMarker = "/tmp/busy"
	if got := cfg.LockMarkerPath(); got != "/tmp/busy" {
		t.Errorf("LockMarkerPath() = %q, want explicit %q", got, "/tmp/busy")
	}
}
