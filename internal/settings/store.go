// Package settings persists the tuner's Settings aggregate and serializes
// every read-merge-write through a single writer.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/leandrodaf/tuner/sdk/contracts"
)

// FileName is the settings file name inside the config directory.
const FileName = "settings.json"

// FileStore keeps Settings as pretty-printed JSON in a single file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store at path. The file and its directory are created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file location.
func (s *FileStore) Path() string {
	return s.path
}

// GetSettings reads the file. A missing file yields empty Settings and no error.
func (s *FileStore) GetSettings(ctx context.Context) (contracts.Settings, error) {
	if err := ctx.Err(); err != nil {
		return contracts.Settings{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return contracts.Settings{}, nil
	}
	if err != nil {
		return contracts.Settings{}, fmt.Errorf("read settings %s: %w", s.path, err)
	}

	var out contracts.Settings
	if err := json.Unmarshal(b, &out); err != nil {
		return contracts.Settings{}, fmt.Errorf("decode settings %s: %w", s.path, err)
	}
	return out, nil
}

// SetSettings replaces the file contents with st. The write goes through a
// temporary file and a rename so a crash never leaves a truncated file.
func (s *FileStore) SetSettings(ctx context.Context, st contracts.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".settings-*.json")
	if err != nil {
		return fmt.Errorf("create temp settings: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace settings %s: %w", s.path, err)
	}
	return nil
}

// MemoryStore keeps Settings in memory.
type MemoryStore struct {
	mu       sync.Mutex
	settings contracts.Settings
	writes   int
}

// NewMemoryStore returns a store seeded with initial.
func NewMemoryStore(initial contracts.Settings) *MemoryStore {
	return &MemoryStore{settings: initial}
}

func (m *MemoryStore) GetSettings(ctx context.Context) (contracts.Settings, error) {
	if err := ctx.Err(); err != nil {
		return contracts.Settings{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings, nil
}

func (m *MemoryStore) SetSettings(ctx context.Context, st contracts.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = st
	m.writes++
	return nil
}

// Writes returns how many times SetSettings succeeded.
func (m *MemoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
