package stamp

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one <name>.stamp file per exporter under its directory.
// This is the default backend and matches what a user sees on disk: delete
// the stamp file and the next run re-exports everything.
type FileStore struct {
	dir string
}

// NewFileStore creates the stamp directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create stamp directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+".stamp")
}

func (s *FileStore) Load(name string) (string, error) {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoStamp
	}
	if err != nil {
		return "", fmt.Errorf("read stamp %s: %w", name, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileStore) Commit(name, fingerprint string) error {
	if err := os.WriteFile(s.path(name), []byte(fingerprint+"\n"), 0644); err != nil {
		return fmt.Errorf("write stamp %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
