// Package session stores per-upload tables as temp CSV files keyed by a
// generated session id. Files live under a single directory and are reaped
// after a TTL, so an abandoned upload never leaks disk space.
//
// The store is the only component that touches disk; the cleaning core stays
// I/O-free.
package session

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"contactcleaner/internal/table"
)

// ErrNotFound is returned when no table is stored under the given id.
var ErrNotFound = errors.New("session: not found")

const cleanedSuffix = "_cleaned"

// Store persists tables under dir, one CSV file per session id.
type Store struct {
	dir string
}

// NewStore creates the storage directory if needed and returns a Store.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("session: create store dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Put stores the uploaded table and returns its new session id.
func (s *Store) Put(t table.Table) (string, error) {
	id := uuid.NewString()
	if err := s.write(s.path(id, false), t); err != nil {
		return "", err
	}
	return id, nil
}

// PutCleaned stores the cleaned table for an existing session.
func (s *Store) PutCleaned(id string, t table.Table) error {
	if err := validateID(id); err != nil {
		return err
	}
	return s.write(s.path(id, true), t)
}

// Get loads the uploaded table for the session.
func (s *Store) Get(id string) (table.Table, error) {
	return s.read(id, false)
}

// GetCleaned loads the cleaned table for the session.
func (s *Store) GetCleaned(id string) (table.Table, error) {
	return s.read(id, true)
}

// Remove deletes both the uploaded and cleaned files for the session.
// Missing files are not an error.
func (s *Store) Remove(id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	for _, cleaned := range []bool{false, true} {
		if err := os.Remove(s.path(id, cleaned)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("session: remove %s: %w", id, err)
		}
	}
	return nil
}

// CleanupOld removes stored files older than maxAge and returns how many
// were deleted.
func (s *Store) CleanupOld(maxAge time.Duration) int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0
	}

	removed := 0
	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".csv" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if os.Remove(filepath.Join(s.dir, entry.Name())) == nil {
				removed++
			}
		}
	}
	return removed
}

// StartCleanup runs CleanupOld every interval until ctx is cancelled.
// Run it from main in a goroutine.
func (s *Store) StartCleanup(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.CleanupOld(maxAge); n > 0 {
				slog.Info("session store cleanup", "removed", n)
			}
		}
	}
}

// validateID rejects anything that is not a generated uuid, which also rules
// out path traversal through a crafted id.
func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("session: invalid id %q: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) path(id string, cleaned bool) string {
	name := id
	if cleaned {
		name += cleanedSuffix
	}
	return filepath.Join(s.dir, name+".csv")
}

func (s *Store) write(path string, t table.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("session: create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if err := t.WriteCSV(f); err != nil {
		return fmt.Errorf("session: write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// read parses a stored file back into a table. Stored files are our own
// canonical comma-delimited UTF-8, so no sniffing is involved.
func (s *Store) read(id string, cleaned bool) (table.Table, error) {
	if err := validateID(id); err != nil {
		return table.Table{}, err
	}

	f, err := os.Open(s.path(id, cleaned))
	if err != nil {
		if os.IsNotExist(err) {
			return table.Table{}, ErrNotFound
		}
		return table.Table{}, fmt.Errorf("session: open %s: %w", id, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return table.Table{}, fmt.Errorf("session: parse %s: %w", id, err)
	}
	if len(records) == 0 {
		return table.Table{}, ErrNotFound
	}

	t := table.Table{Headers: records[0], Rows: records[1:]}
	t.NormalizeShape()
	return t, nil
}
