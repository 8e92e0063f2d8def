package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

const (
	dirPerms  = 0o755
	filePerms = 0o644
)

// FileSystem lays records out as <root>/<id>/<name>.
type FileSystem struct {
	root string
}

// NewFileSystem creates root if needed.
func NewFileSystem(root string) (*FileSystem, error) {
	if root == "" {
		return nil, errors.New("store root is empty")
	}
	if err := os.MkdirAll(root, dirPerms); err != nil {
		return nil, fmt.Errorf("create store root: %w", err)
	}
	return &FileSystem{root: root}, nil
}

func (f *FileSystem) Root() string { return f.root }

func (f *FileSystem) CreateRecord(_ context.Context, id string) error {
	return os.MkdirAll(filepath.Join(f.root, id), dirPerms)
}

func (f *FileSystem) RecordExists(_ context.Context, id string) (bool, error) {
	info, err := os.Stat(filepath.Join(f.root, id))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// WriteFile replaces the file in one rename; readers see the old or the
// new content, never a prefix.
func (f *FileSystem) WriteFile(_ context.Context, id, name string, data []byte) error {
	path := filepath.Join(f.root, id, name)
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return err
	}
	// atomic.WriteFile keeps the temp file's 0600 mode on new files
	return os.Chmod(path, filePerms)
}

func (f *FileSystem) ReadFile(_ context.Context, id, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(f.root, id, name))
}

func (f *FileSystem) ListRecords(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}
