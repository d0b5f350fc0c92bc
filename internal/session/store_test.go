package session

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"contactcleaner/internal/table"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func sampleTable() table.Table {
	return table.Table{
		Headers: []string{"First Name", "Email"},
		Rows: [][]string{
			{"Alice", "a@x.com"},
			{"Bob, Jr.", "b@y.com"},
		},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)

	id, err := s.Put(sampleTable())
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(got, sampleTable()) {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestStoreCleanedRoundTrip(t *testing.T) {
	s := newTestStore(t)

	id, err := s.Put(sampleTable())
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	cleaned := table.Table{Headers: []string{"Email"}, Rows: [][]string{{"a@x.com"}}}
	if err := s.PutCleaned(id, cleaned); err != nil {
		t.Fatalf("PutCleaned: %v", err)
	}

	got, err := s.GetCleaned(id)
	if err != nil {
		t.Fatalf("GetCleaned: %v", err)
	}
	if !reflect.DeepEqual(got, cleaned) {
		t.Errorf("cleaned round trip mismatch: %+v", got)
	}

	// The uploaded table is still there untouched.
	orig, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get after PutCleaned: %v", err)
	}
	if !reflect.DeepEqual(orig, sampleTable()) {
		t.Errorf("original overwritten: %+v", orig)
	}
}

func TestStoreGetMissing(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Get("550e8400-e29b-41d4-a716-446655440000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(unknown id) err = %v, want ErrNotFound", err)
	}
}

func TestStoreRejectsNonUUID(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Get("../../../etc/passwd"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(traversal id) err = %v, want ErrNotFound", err)
	}
	if err := s.Remove("not-a-uuid"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove(bad id) err = %v, want ErrNotFound", err)
	}
}

func TestStoreRemove(t *testing.T) {
	s := newTestStore(t)

	id, err := s.Put(sampleTable())
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.PutCleaned(id, sampleTable()); err != nil {
		t.Fatalf("PutCleaned: %v", err)
	}

	if err := s.Remove(id); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := s.Get(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Remove err = %v, want ErrNotFound", err)
	}
	if _, err := s.GetCleaned(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetCleaned after Remove err = %v, want ErrNotFound", err)
	}

	// Removing again is not an error.
	if err := s.Remove(id); err != nil {
		t.Errorf("second Remove: %v", err)
	}
}

func TestStoreCleanupOld(t *testing.T) {
	s := newTestStore(t)

	oldID, err := s.Put(sampleTable())
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	freshID, err := s.Put(sampleTable())
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Age the first file past the TTL.
	oldPath := filepath.Join(s.dir, oldID+".csv")
	stale := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(oldPath, stale, stale); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	if removed := s.CleanupOld(time.Hour); removed != 1 {
		t.Errorf("CleanupOld removed %d files, want 1", removed)
	}
	if _, err := s.Get(oldID); !errors.Is(err, ErrNotFound) {
		t.Errorf("stale session still readable: %v", err)
	}
	if _, err := s.Get(freshID); err != nil {
		t.Errorf("fresh session removed: %v", err)
	}
}
