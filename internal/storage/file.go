package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// FileLocationCache keeps every location in one JSON object on disk. Each Get
// reads the whole file and each Set rewrites it.
type FileLocationCache struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

func NewFileLocationCache(fsys afero.Fs, path string) *FileLocationCache {
	return &FileLocationCache{fs: fsys, path: path}
}

func (c *FileLocationCache) Get(_ context.Context, city string) (Location, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.read()
	if err != nil {
		return Location{}, false, err
	}

	loc, ok := entries[Key(city)]
	return loc, ok, nil
}

func (c *FileLocationCache) Set(_ context.Context, city string, loc Location) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.read()
	if err != nil {
		return err
	}
	entries[Key(city)] = loc

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode location file: %w", err)
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := c.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create location dir: %w", err)
		}
	}

	if err := afero.WriteFile(c.fs, c.path, data, 0o644); err != nil {
		return fmt.Errorf("write location file: %w", err)
	}
	return nil
}

func (c *FileLocationCache) Close() error { return nil }

func (c *FileLocationCache) read() (map[string]Location, error) {
	data, err := afero.ReadFile(c.fs, c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]Location), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read location file: %w", err)
	}

	entries := make(map[string]Location)
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode location file: %w", err)
	}
	return entries, nil
}
