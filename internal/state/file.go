package state

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// FileStore persists run state as a pretty-printed JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at the given path. The parent
// directory is created if missing.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("state file path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	log.Printf("[FileStore] Using state file: %s", path)
	return &FileStore{path: path}, nil
}

// Load reads the run state from disk.
func (s *FileStore) Load(ctx context.Context) (RunState, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return RunState{}, ErrNotFound
	}
	if err != nil {
		return RunState{}, fmt.Errorf("failed to read state file: %w", err)
	}

	var st RunState
	if err := json.Unmarshal(data, &st); err != nil {
		return RunState{}, fmt.Errorf("failed to parse state file: %w", err)
	}
	applyDefaults(&st)
	return st, nil
}

// Save writes the run state atomically via a temp file and rename.
func (s *FileStore) Save(ctx context.Context, st RunState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error { return nil }
