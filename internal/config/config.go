// Package config persists per-repository workflow settings and resolves
// platform credentials.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	errs "github.com/lcgerke/gitflow/internal/errors"
)

// Store is a flat key/value configuration store
type Store interface {
	// Read returns the value for key. The boolean reports whether the key
	// is present at all.
	Read(key string) (string, bool, error)
	Write(key, value string) error
	Keys() ([]string, error)
}

// FileStore keeps configuration in a single JSON document on disk
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the JSON file at path. The file is
// created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// RepositoryPath returns the settings file location for a working directory.
// Settings live inside .git so they travel with the clone, not the platform.
func RepositoryPath(workdir string) string {
	return filepath.Join(workdir, ".git", "gitflow.json")
}

func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, errs.ConfigRead(s.path, err)
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, errs.ConfigRead(s.path, err)
	}
	return values, nil
}

func (s *FileStore) save(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return errs.ConfigWrite(s.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errs.ConfigWrite(s.path, err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0644); err != nil {
		return errs.ConfigWrite(s.path, err)
	}
	return nil
}

// Read returns the value stored under key
func (s *FileStore) Read(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

// Write stores value under key, creating the file when needed
func (s *FileStore) Write(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

// Keys lists the stored keys in sorted order
func (s *FileStore) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// MemStore is an in-memory Store for tests
type MemStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemStore creates an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{values: map[string]string{}}
}

func (s *MemStore) Read(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *MemStore) Write(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemStore) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
