package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"fintrack/internal/logger"
)

// FileCache persists all values as one JSON object in a file, rewritten on
// every change. Concurrent processes sharing a file overwrite each other.
type FileCache struct {
	*store
	path string
}

// OpenFile loads the cache stored at path. A missing file yields an empty
// cache; an unreadable one is discarded with a warning.
func OpenFile(path string) (*FileCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	values := make(map[string]json.RawMessage)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &values); err != nil {
			logger.Get().Warnw("discarding corrupt cache file", "path", path, "error", err)
			values = make(map[string]json.RawMessage)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("reading cache file: %w", err)
	}

	fc := &FileCache{path: path}
	fc.store = newStore(values, fc.write)
	return fc, nil
}

// Path returns the file backing the cache.
func (c *FileCache) Path() string { return c.path }

func (c *FileCache) write(values map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".cache-*.json")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("replacing cache file: %w", err)
	}
	return nil
}
