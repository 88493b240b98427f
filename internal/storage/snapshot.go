package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// SnapshotFileName is the single file the latest Schumann image is written to
const SnapshotFileName = "schumann_image.jpg"

// SnapshotStore keeps the most recently fetched image in one overwritten file
type SnapshotStore struct {
	mu   sync.Mutex
	path string
}

// NewSnapshotStore creates the directory if needed and returns a store writing dir/SnapshotFileName
func NewSnapshotStore(dir string) (*SnapshotStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &SnapshotStore{path: filepath.Join(dir, SnapshotFileName)}, nil
}

// Path returns the snapshot file location
func (s *SnapshotStore) Path() string {
	return s.path
}

// Save replaces the snapshot atomically so readers never observe a partial file
func (s *SnapshotStore) Save(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Load returns the current snapshot contents
func (s *SnapshotStore) Load() ([]byte, error) {
	return os.ReadFile(s.path)
}
