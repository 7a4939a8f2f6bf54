package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// current schema version - increment when the cached Manifest layout changes
const cacheSchemaVersion uint16 = 1

// DiskCache stores decoded manifests keyed by the SHA-256 of their content.
// A nil *DiskCache is valid and disables caching. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

type cachePayload struct {
	Schema   uint16    `msgpack:"schema"`
	Manifest *Manifest `msgpack:"manifest"`
}

// Digest is the cache key of a manifest.
type Digest [sha256.Size]byte

// OpenDiskCache opens the cache under $XDG_CACHE_HOME/<app> (or ~/.cache/<app>).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "manifests", hex.EncodeToString(key[:])+".mp")
}

// Load returns the manifest at path, decoding it only on a cache miss.
func (c *DiskCache) Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	key := Digest(sha256.Sum256(data))
	if m, ok, err := c.Get(key); err == nil && ok {
		m.Path = path
		return m, nil
	}
	m, err := Parse(path, data)
	if err != nil {
		return nil, err
	}
	// a cache write failure only costs a re-parse next time
	_ = c.Put(key, m) //nolint:errcheck
	return m, nil
}

// Put serializes and writes a manifest to the disk cache.
func (c *DiskCache) Put(key Digest, m *Manifest) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := msgpack.NewEncoder(f).Encode(&cachePayload{Schema: cacheSchemaVersion, Manifest: m}); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, p)
}

// Get reads a cached manifest. Entries written by another schema are misses.
func (c *DiskCache) Get(key Digest) (*Manifest, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != cacheSchemaVersion || payload.Manifest == nil {
		return nil, false, nil
	}
	return payload.Manifest, true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "manifests"))
}
