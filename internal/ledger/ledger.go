// Package ledger tracks which remote memories have already been processed
// by the memory network cycle.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Version is the current ledger schema version. A mismatch on load
// discards the file and starts fresh.
const Version = 1

// FileName is the fixed ledger filename inside the workspace memory
// directory. The leading dot keeps it out of markdown sync walks.
const FileName = ".memory-network-state.json"

// Ledger is the durable processing state.
type Ledger struct {
	ProcessedIDs map[string]string `json:"processedIds"`
	LastScanAt   *string           `json:"lastScanAt"`
	Version      int               `json:"version"`
}

func newLedger() *Ledger {
	return &Ledger{
		ProcessedIDs: map[string]string{},
		Version:      Version,
	}
}

// Manager owns the ledger file for one workspace.
type Manager struct {
	path   string
	state  *Ledger
	logger *zap.Logger
}

// NewManager loads (or initializes) the ledger under dir. The directory
// is created if absent. A missing, corrupt, or version-mismatched file is
// a recoverable condition: the manager starts with a fresh ledger and
// logs a warning.
func NewManager(dir string, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create memory dir: %w", err)
	}

	m := &Manager{
		path:   filepath.Join(dir, FileName),
		logger: logger.With(zap.String("component", "ledger")),
	}
	m.state = m.load()
	return m, nil
}

func (m *Manager) load() *Ledger {
	b, err := os.ReadFile(m.path)
	if err != nil {
		if !os.IsNotExist(err) {
			m.logger.Warn("ledger unreadable, starting fresh", zap.Error(err))
		}
		return newLedger()
	}

	var l Ledger
	if err := json.Unmarshal(b, &l); err != nil {
		m.logger.Warn("ledger corrupt, starting fresh", zap.Error(err))
		return newLedger()
	}
	if l.Version != Version {
		m.logger.Warn("ledger version mismatch, starting fresh",
			zap.Int("found", l.Version), zap.Int("expected", Version))
		return newLedger()
	}
	if l.ProcessedIDs == nil {
		l.ProcessedIDs = map[string]string{}
	}
	return &l
}

// IsProcessed reports whether id has already been processed.
func (m *Manager) IsProcessed(id string) bool {
	_, ok := m.state.ProcessedIDs[id]
	return ok
}

// MarkProcessed records ids as processed, returning how many were newly
// added. Re-marking an already-processed id is a no-op for that id.
func (m *Manager) MarkProcessed(ids []string) int {
	now := time.Now().UTC().Format(time.RFC3339)
	added := 0
	for _, id := range ids {
		if _, ok := m.state.ProcessedIDs[id]; ok {
			continue
		}
		m.state.ProcessedIDs[id] = now
		added++
	}
	return added
}

// UpdateLastScan sets the last-scan timestamp to now.
func (m *Manager) UpdateLastScan() {
	now := time.Now().UTC().Format(time.RFC3339)
	m.state.LastScanAt = &now
}

// TotalProcessed returns the number of processed ids.
func (m *Manager) TotalProcessed() int {
	return len(m.state.ProcessedIDs)
}

// LastScanAt returns the most recent scan timestamp, or "" if never scanned.
func (m *Manager) LastScanAt() string {
	if m.state.LastScanAt == nil {
		return ""
	}
	return *m.state.LastScanAt
}

// Save persists the ledger atomically: write to a temp file in the same
// directory, then rename over the canonical path, so a crash mid-write
// can never leave a torn file. Failures are logged, not returned; the
// in-memory state simply isn't durable until a later successful save.
func (m *Manager) Save() {
	b, err := json.MarshalIndent(m.state, "", "  ")
	if err != nil {
		m.logger.Error("ledger encode failed", zap.Error(err))
		return
	}

	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		m.logger.Error("ledger write failed", zap.Error(err))
		os.Remove(tmp)
		return
	}
	if err := os.Rename(tmp, m.path); err != nil {
		m.logger.Error("ledger rename failed", zap.Error(err))
		os.Remove(tmp)
	}
}

// CompleteResult reports the outcome of a Complete call.
type CompleteResult struct {
	New   int `json:"new"`
	Total int `json:"total"`
}

// Complete marks ids processed, stamps the scan time, and saves, in that
// order. A crash between marking and saving at worst re-processes the
// same batch on the next run; entity writes are merge-only so that is safe.
func (m *Manager) Complete(ids []string) CompleteResult {
	added := m.MarkProcessed(ids)
	m.UpdateLastScan()
	m.Save()
	return CompleteResult{New: added, Total: m.TotalProcessed()}
}
