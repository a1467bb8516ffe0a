// Package cache persists which repositories were clean at which remote head.
// A repository whose remote HEAD has not moved since its last clean scan can
// be skipped without cloning.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	xxhash "github.com/cespare/xxhash/v2"

	"github.com/secretsweep/secretsweep/internal/types"
)

// DB is the on-disk shape: locator key (hashed) -> head commit of the last
// clean scan.
type DB struct {
	Entries map[string]string `json:"entries"`
}

// DefaultPath places the cache under XDG_CACHE_HOME or ~/.cache.
func DefaultPath() string {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home == "" {
			return ""
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "secretsweep", "clean.json")
}

// Cache is a concurrency-safe view over the DB. Jobs consult and update it
// from multiple workers.
type Cache struct {
	path string

	mu    sync.Mutex
	db    DB
	dirty bool
}

// Open loads the cache at path, starting empty when the file is missing or
// unreadable. A broken cache only costs a rescan.
func Open(path string) *Cache {
	c := &Cache{path: path, db: DB{Entries: map[string]string{}}}
	b, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	var db DB
	if err := json.Unmarshal(b, &db); err != nil || db.Entries == nil {
		return c
	}
	c.db = db
	return c
}

// CleanAt reports whether the repository was clean the last time it was
// scanned at exactly this head.
func (c *Cache) CleanAt(locator types.Locator, head string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return head != "" && c.db.Entries[key(locator)] == head
}

// MarkClean records a clean scan of the repository at the given head.
func (c *Cache) MarkClean(locator types.Locator, head string) {
	if head == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.db.Entries[key(locator)] = head
	c.dirty = true
}

// Save writes the cache back to disk if anything changed.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty || c.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(c.db, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.path, b, 0o644); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// key hashes the locator so URLs with credentials or odd characters never
// appear verbatim in the cache file.
func key(locator types.Locator) string {
	sum := xxhash.Sum64String(string(locator))
	var buf [16]byte
	const hex = "0123456789abcdef"
	for i := 15; i >= 0; i-- {
		buf[i] = hex[sum&0xF]
		sum >>= 4
	}
	return string(buf[:])
}
