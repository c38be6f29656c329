package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/serroba/shortlink-client/internal/identity"
	"gopkg.in/yaml.v3"
)

// FileStorage keeps values in a YAML document on disk. Every Set rewrites the whole file.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage creates a file-backed storage at path. The file is created on first Set.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path returns the location of the backing file.
func (f *FileStorage) Path() string {
	return f.path
}

func (f *FileStorage) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return "", err
	}

	value, ok := values[key]
	if !ok {
		return "", identity.ErrNotFound
	}

	return value, nil
}

func (f *FileStorage) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}

	values[key] = value

	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}

	if err = os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}

	// Written to a sibling file, then renamed into place.
	tmp := f.path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}

	return os.Rename(tmp, f.path)
}

func (f *FileStorage) read() (map[string]string, error) {
	values := make(map[string]string)

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return values, nil
		}

		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}

	if err = yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}

	if values == nil {
		values = make(map[string]string)
	}

	return values, nil
}

var _ identity.Storage = (*FileStorage)(nil)
