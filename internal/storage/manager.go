package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pbi-visuals/templates/internal/models"
)

// Store defines the interface for writing extracted templates.
type Store interface {
	EnsureDir(name string) (string, error)
	SaveJSON(dir, name string, v any) (*models.FileInfo, error)
}

// LocalStore implements Store under a root directory on the local filesystem.
type LocalStore struct {
	root   string
	indent string
}

// NewLocalStore creates a new LocalStore, creating root if needed.
func NewLocalStore(root, indent string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &LocalStore{
		root:   root,
		indent: indent,
	}, nil
}

// Root returns the root directory.
func (s *LocalStore) Root() string {
	return s.root
}

// EnsureDir creates the named subdirectory of root if it does not exist and
// returns its path.
func (s *LocalStore) EnsureDir(name string) (string, error) {
	dir, err := s.resolve(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return dir, nil
}

// SaveJSON writes v as indented JSON to dir/name, where dir is relative to root.
func (s *LocalStore) SaveJSON(dir, name string, v any) (*models.FileInfo, error) {
	target, err := s.resolve(filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}

	data, err := models.EncodeIndent(v, s.indent)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", name, err)
	}

	if err := os.WriteFile(target, data, 0644); err != nil {
		return nil, fmt.Errorf("writing file: %w", err)
	}

	return &models.FileInfo{
		Name:      name,
		Path:      target,
		Size:      int64(len(data)),
		WrittenAt: time.Now(),
	}, nil
}

// resolve joins name onto root and rejects results outside root.
func (s *LocalStore) resolve(name string) (string, error) {
	target := filepath.Join(s.root, name)
	rel, err := filepath.Rel(s.root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes output directory: %s", name)
	}
	return target, nil
}

// ReplaceFile writes data to a temporary file next to path and renames it
// over path, so readers never observe a partially written file. The existing
// file's permissions are kept.
func ReplaceFile(path string, data []byte) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	tempPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.New().String()))

	f, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
