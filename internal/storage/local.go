package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage archives snapshots as files in a directory. It is the default
// when no Azure account is configured, so the service runs unchanged in
// development.
type LocalStorage struct {
	dir string
}

var _ StorageInterface = (*LocalStorage)(nil)

// NewLocalStorage creates the directory-backed archive.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if dir == "" {
		return nil, fmt.Errorf("snapshot directory is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

func (s *LocalStorage) Store(filename string, data []byte) error {
	return os.WriteFile(filepath.Join(s.dir, filename), data, 0644)
}

func (s *LocalStorage) Retrieve(filename string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.dir, filename))
}

func (s *LocalStorage) List(prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if prefix == "" || strings.HasPrefix(entry.Name(), prefix) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func (s *LocalStorage) Delete(filename string) error {
	return os.Remove(filepath.Join(s.dir, filename))
}
