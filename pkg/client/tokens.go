package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// TokenStore persists the signed-in user between runs.
type TokenStore interface {
	// Load returns the stored user, or nil when nobody is signed in.
	Load() (*User, error)
	Save(u *User) error
	Clear() error
}

// MemoryStore keeps the user in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	user *User
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil, nil
	}
	u := *s.user
	return &u, nil
}

func (s *MemoryStore) Save(u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.user = &cp
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	return nil
}

// FileStore keeps the user as JSON in a file readable only by its owner.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a FileStore at path. The file is created on first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return &u, nil
}

func (s *FileStore) Save(u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
