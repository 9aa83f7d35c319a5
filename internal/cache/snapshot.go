// Package cache persists the last fetched server data so screens can render
// immediately on startup while fresh data loads in the background.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"codemailx/internal/campaign"
	"codemailx/internal/logging"
)

// SnapshotVersion is the current schema version for snapshot.json.
// A version mismatch discards the file rather than migrating it.
const SnapshotVersion = "1.0"

// Snapshot is the cached server state. Every field may be stale; stale data
// is for display only and never feeds the quota gate.
type Snapshot struct {
	Version   string `json:"version"`
	FetchedAt string `json:"fetched_at,omitempty"`

	Campaigns []campaign.Campaign  `json:"campaigns,omitempty"`
	Templates []campaign.Template  `json:"templates,omitempty"`
	HRs       []campaign.HRContact `json:"hrs,omitempty"`
	Companies []campaign.Company   `json:"companies,omitempty"`
	Dashboard *campaign.Dashboard  `json:"dashboard,omitempty"`
}

// Age returns how long ago the snapshot was taken, or zero when unknown.
func (s *Snapshot) Age() time.Duration {
	if s == nil || s.FetchedAt == "" {
		return 0
	}
	t, err := time.Parse(time.RFC3339, s.FetchedAt)
	if err != nil {
		return 0
	}
	return time.Since(t)
}

// Store handles loading/saving the snapshot file.
type Store struct {
	mu       sync.RWMutex
	path     string
	snapshot *Snapshot
}

// NewStore creates a store rooted at the given state directory.
func NewStore(stateDir string) *Store {
	return &Store{
		path: filepath.Join(stateDir, "snapshot.json"),
	}
}

// Load reads the snapshot from disk. A missing, unreadable or
// version-mismatched file yields an empty snapshot, never an error: the
// cache is best-effort.
func (s *Store) Load() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.CacheError("read snapshot: %v", err)
		}
		s.snapshot = &Snapshot{Version: SnapshotVersion}
		return s.snapshot
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil || snap.Version != SnapshotVersion {
		logging.Cache("discarding snapshot: version=%q err=%v", snap.Version, err)
		s.snapshot = &Snapshot{Version: SnapshotVersion}
		return s.snapshot
	}

	s.snapshot = &snap
	logging.Cache("loaded snapshot: campaigns=%d templates=%d hrs=%d", len(snap.Campaigns), len(snap.Templates), len(snap.HRs))
	return s.snapshot
}

// Get returns the current snapshot, loading it on first use.
func (s *Store) Get() *Snapshot {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()
	if snap != nil {
		return snap
	}
	return s.Load()
}

// Update applies fn to the snapshot under the lock and persists the result.
func (s *Store) Update(fn func(*Snapshot)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot == nil {
		s.snapshot = &Snapshot{Version: SnapshotVersion}
	}
	fn(s.snapshot)
	s.snapshot.Version = SnapshotVersion
	s.snapshot.FetchedAt = time.Now().Format(time.RFC3339)
	return s.save()
}

// Clear removes the snapshot from memory and disk.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = &Snapshot{Version: SnapshotVersion}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove snapshot: %w", err)
	}
	return nil
}

func (s *Store) save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(s.snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}
