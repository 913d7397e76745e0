package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/natefinch/atomic"

	"github.com/ofcore/flowtable/internal/flow"
	"github.com/ofcore/flowtable/pkg/hmap"
)

// Diagnostics is a point-in-time report of table status and index
// health. It is explicitly not table state: a flow table cannot be
// reconstructed from it, only observed.
type Diagnostics struct {
	GeneratedAt time.Time   `json:"generated_at"`
	Status      flow.Status `json:"status"`
	MaxEntries  int         `json:"max_entries"`
	FreeCount   int         `json:"free_count"`
	IDIndex     hmap.Stats  `json:"id_index"`
	Priority    hmap.Stats  `json:"priority_index"`
	Match       hmap.Stats  `json:"match_index"`
}

// writeDiagnostics serializes snap as JSON and writes it to path via
// an atomic rename, so a concurrent reader never observes a partially
// written file.
func writeDiagnostics(path string, snap Diagnostics) error {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")

	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("diagnostics: encode: %w", err)
	}

	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("diagnostics: write %s: %w", path, err)
	}

	return nil
}
