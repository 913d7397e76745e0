package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"
)

// Config is the daemon's static configuration. It is loaded with
// defaults → config file → CLI flag precedence.
type Config struct {
	MaxEntries       int    `json:"max_entries"`
	AuditDBPath      string `json:"audit_db_path"`
	StatsPath        string `json:"stats_path"`
	SchedulerSliceMS int    `json:"scheduler_slice_ms"`
}

// DefaultConfig returns the configuration used when no file and no
// flag overrides are given.
func DefaultConfig() Config {
	return Config{
		MaxEntries:       4096,
		AuditDBPath:      "",
		StatsPath:        "flowtabled.stats.json",
		SchedulerSliceMS: 5,
	}
}

// LoadConfig reads a HUJSON (JSON-with-comments) config file and
// merges it over DefaultConfig. An empty path is not an error; it
// simply means "use the defaults."
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(raw)
	if err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return cfg, fmt.Errorf("config: decode %s: %w", path, err)
	}

	return cfg, nil
}
