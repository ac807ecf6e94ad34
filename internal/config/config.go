package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Ledger backend names.
const (
	BackendSqlite = "sqlite"
	BackendFile   = "file"
)

// FormatDef is one custom token format registered at startup, alongside
// the built-in table.
type FormatDef struct {
	Name    string   `json:"name"`
	Pattern string   `json:"pattern"`
	Fields  []string `json:"fields"`
}

// Config represents the flat quill configuration
type Config struct {
	Version    string `json:"version"`
	Backend    string `json:"backend"`               // "sqlite" or "file"
	DBPath     string `json:"db_path,omitempty"`     // sqlite backend; empty = ~/.quill/quill.db
	Ledger     string `json:"ledger_path,omitempty"` // file backend transcript
	LockMarker string `json:"lock_marker,omitempty"` // file backend busy marker; empty = "<ledger>.generating"

	PollIntervalMS     int `json:"poll_interval_ms,omitempty"`
	GatePollIntervalMS int `json:"gate_poll_interval_ms,omitempty"`
	GateTimeoutMS      int `json:"gate_timeout_ms,omitempty"`

	CustomFormats []FormatDef `json:"custom_formats,omitempty"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Version: "1",
		Backend: BackendSqlite,
	}
}

// LoadConfig reads .quill/config.json from the specified directory.
// Resolution order: cwd only (no home fallback).
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".quill", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault reads the config, falling back to Default when the file
// is absent.
func LoadOrDefault(dir string) *Config {
	cfg, err := LoadConfig(dir)
	if err != nil {
		return Default()
	}
	return cfg
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	quillDir := filepath.Join(dir, ".quill")
	if err := os.MkdirAll(quillDir, 0755); err != nil {
		return fmt.Errorf("failed to create .quill dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(quillDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// PollInterval returns the engine poll cadence, or 0 for the service
// default.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// GatePollInterval returns the gate poll cadence, or 0 for the default.
func (c *Config) GatePollInterval() time.Duration {
	return time.Duration(c.GatePollIntervalMS) * time.Millisecond
}

// GateTimeout returns the drain-tick gate timeout, or 0 for the default.
func (c *Config) GateTimeout() time.Duration {
	return time.Duration(c.GateTimeoutMS) * time.Millisecond
}

// LockMarkerPath returns the busy-marker path for the file backend.
func (c *Config) LockMarkerPath() string {
	if c.LockMarker != "" {
		return c.LockMarker
	}
	return c.Ledger + ".generating"
}
