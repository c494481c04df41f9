// Package journal persists a per-run history of processed directories so an
// operator can answer "what happened to that download" without scrolling logs.
package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Outcomes recorded per directory.
const (
	OutcomeSorted    = "sorted"
	OutcomeManual    = "manual-fallback"
	OutcomeSkipped   = "skipped"
	OutcomeDuplicate = "duplicate"
	OutcomeFailed    = "failed"
)

// Entry is one processed directory.
type Entry struct {
	Dir        string    `json:"dir"`
	Signature  string    `json:"signature,omitempty"`
	Kind       string    `json:"kind,omitempty"`
	Hint       string    `json:"hint,omitempty"`
	Outcome    string    `json:"outcome"`
	Error      string    `json:"error,omitempty"`
	Bytes      int64     `json:"bytes,omitempty"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Journal manages the history file. Safe for concurrent use.
type Journal struct {
	mu      sync.RWMutex
	entries []Entry
	path    string
	logger  *log.Logger
}

// Open loads (or starts) the journal stored at path. A missing or empty file
// is not an error; a corrupt one is reported and replaced on the next save.
func Open(path string, logger *log.Logger) (*Journal, error) {
	if logger == nil {
		logger = log.New()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	j := &Journal{entries: []Entry{}, path: path, logger: logger}
	if err := j.load(); err != nil {
		j.logger.Warnf("Failed to load journal from %s: %v. Starting with empty history.", path, err)
	}
	return j, nil
}

func (j *Journal) load() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	data, err := os.ReadFile(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read journal file %s: %w", j.path, err)
	}
	if len(data) == 0 {
		return nil
	}

	var loaded []Entry
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal journal file %s: %w", j.path, err)
	}
	j.entries = loaded
	return nil
}

func (j *Journal) save() error {
	data, err := json.MarshalIndent(j.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal journal: %w", err)
	}
	if err := os.WriteFile(j.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write journal file %s: %w", j.path, err)
	}
	return nil
}

// Record appends one entry and saves. The timestamp is stamped here so
// callers never have to remember it.
func (j *Journal) Record(entry Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	entry.FinishedAt = time.Now().UTC()
	j.entries = append(j.entries, entry)
	return j.save()
}

// Entries returns a copy of the full history, oldest first.
func (j *Journal) Entries() []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Recent returns the newest n entries, oldest of those first.
func (j *Journal) Recent(n int) []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if n <= 0 || n > len(j.entries) {
		n = len(j.entries)
	}
	out := make([]Entry, n)
	copy(out, j.entries[len(j.entries)-n:])
	return out
}
