package covers

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Cache is a flat on-disk store mapping cache keys to cover image files.
// Files are named {key}{ext}; automatically fetched covers are always .jpg,
// manual inserts keep whatever extension the source had. The cache never
// expires anything on its own: the user curates the directory by hand.
type Cache struct {
	dir string
}

// NewCache creates a cache rooted at dir. The directory is created lazily on
// the first store.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

// Dir returns the cache root directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Lookup returns the cached bytes for key, matching any extension. Read
// errors are treated as a miss: an unreadable cache file must never abort a
// run.
func (c *Cache) Lookup(key string) ([]byte, bool) {
	path, ok := c.Path(key)
	if !ok {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("Cached cover unreadable, treating as miss", "key", key, "path", path, "error", err)
		return nil, false
	}
	return data, true
}

// Path returns the on-disk path of the cached cover for key, if one exists.
// The scan is extension-agnostic; the first match in lexical order wins.
// Leftover temporary files from an interrupted store are never a match.
func (c *Cache) Path(key string) (string, bool) {
	matches, _ := filepath.Glob(filepath.Join(c.dir, key+".*"))
	sort.Strings(matches)
	for _, m := range matches {
		if !strings.HasSuffix(m, ".tmp") {
			return m, true
		}
	}
	return "", false
}

// Store writes data to {dir}/{key}{ext} via a temporary file and an atomic
// rename, so an interrupted run never leaves a partially written cover
// visible. Storing the same key twice overwrites: last write wins.
func (c *Cache) Store(key string, data []byte, ext string) error {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	destPath := filepath.Join(c.dir, key+ext)
	tempPath := destPath + ".tmp"

	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write cover file: %w", err)
	}

	if err := os.Rename(tempPath, destPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to move cover into place: %w", err)
	}

	return nil
}

// Remove deletes every cached file for key, regardless of extension. Only
// manual re-insertion uses this, so a stale .jpg cannot shadow a fresh .png
// in the extension-agnostic lookup.
func (c *Cache) Remove(key string) error {
	matches, _ := filepath.Glob(filepath.Join(c.dir, key+".*"))
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			return fmt.Errorf("failed to remove cached cover: %w", err)
		}
	}
	return nil
}

// Entries lists the keys currently present in the cache with their file
// paths. Used by cache inspection; order is lexical by filename.
func (c *Cache) Entries() ([]Entry, error) {
	matches, err := filepath.Glob(filepath.Join(c.dir, "*.*"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	var entries []Entry
	for _, m := range matches {
		if strings.HasSuffix(m, ".tmp") {
			continue
		}
		name := filepath.Base(m)
		ext := filepath.Ext(name)
		entries = append(entries, Entry{
			Key:  strings.TrimSuffix(name, ext),
			Path: m,
		})
	}
	return entries, nil
}

// Entry is one cached cover file.
type Entry struct {
	Key  string
	Path string
}
