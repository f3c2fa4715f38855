// Package tablestate holds the view-state engines behind the dashboard's
// data grids: page numbering, pinned columns, indentation and hierarchical
// visibility, each persisting its preferences per table id.
package tablestate

import (
	"encoding/json"
	"os"
	"sync"
)

// Storage persists per-table view preferences.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// FileStorage is a JSON-file-backed Storage. Read and write failures degrade
// to defaults instead of propagating; preferences are never load-bearing.
type FileStorage struct {
	path string

	mu   sync.Mutex
	data map[string]string
}

// NewFileStorage loads the preference file if it exists.
func NewFileStorage(path string) *FileStorage {
	f := &FileStorage{path: path, data: map[string]string{}}
	if raw, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(raw, &f.data); err != nil || f.data == nil {
			f.data = map[string]string{}
		}
	}
	return f
}

func (f *FileStorage) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *FileStorage) Set(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value

	raw, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(f.path, raw, 0o644)
}

// MemoryStorage is an in-memory Storage for tests and ephemeral sessions.
type MemoryStorage struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: map[string]string{}}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MemoryStorage) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}
