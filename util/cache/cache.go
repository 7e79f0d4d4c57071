// Package cache keeps small string values, such as verified contract ABIs,
// in memory and optionally mirrors them to a JSON file.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type Cache struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

type fileContent struct {
	Data map[string]string `json:"Data"`
}

// New returns a cache backed by the file at path. An empty path keeps the
// cache in memory only. A missing or unreadable file starts an empty cache.
func New(path string) *Cache {
	c := &Cache{
		path: path,
		data: map[string]string{},
	}
	if path == "" {
		return c
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("couldn't read cache file", "path", path, "error", err)
		}
		return c
	}
	fc := fileContent{}
	if err := json.Unmarshal(content, &fc); err != nil {
		slog.Warn("couldn't decode cache file", "path", path, "error", err)
		return c
	}
	for k, v := range fc.Data {
		c.data[strings.ToLower(k)] = v
	}
	return c
}

// Get looks key up case-insensitively.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, found := c.data[strings.ToLower(key)]
	return value, found
}

// Set stores value under key and persists the cache when it is file backed.
// The value stays cached in memory even if persisting fails.
func (c *Cache) Set(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[strings.ToLower(key)] = value
	return c.persist()
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

func (c *Cache) persist() error {
	if c.path == "" {
		return nil
	}
	jsonData, err := json.MarshalIndent(fileContent{Data: c.data}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("couldn't create cache dir: %w", err)
	}
	return os.WriteFile(c.path, jsonData, 0o644)
}
