package kanon

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"iql/internal/source"
)

// Bump when cachedScore changes shape; stale entries are treated as misses.
const cacheSchemaVersion uint16 = 1

// DiskCache persists leaf scores keyed by model, statement and corpus so
// that re-running a query over an unchanged document costs nothing.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

type cachedScore struct {
	Schema uint16
	Score  float64
	Starts []uint32
	Ends   []uint32
}

// OpenDiskCache initializes and returns a disk cache at the standard
// XDG location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt is OpenDiskCache with an explicit directory, for tests
// and the --cache-dir flag.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// CacheKey identifies one scoring call.
func CacheKey(model, statement, corpus string) [sha256.Size]byte {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(statement))
	h.Write([]byte{0})
	h.Write([]byte(corpus))
	var key [sha256.Size]byte
	copy(key[:], h.Sum(nil))
	return key
}

func (c *DiskCache) pathFor(key [sha256.Size]byte) string {
	// "scores" subdirectory keeps the cache root tidy and easy to clear.
	return filepath.Join(c.dir, "scores", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes a score to the disk cache. The write goes
// through a temp file and a rename so readers never see a partial entry.
func (c *DiskCache) Put(key [sha256.Size]byte, score float64, spans []source.Span) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload := cachedScore{Schema: cacheSchemaVersion, Score: score}
	for _, s := range spans {
		payload.Starts = append(payload.Starts, s.Start)
		payload.Ends = append(payload.Ends, s.End)
	}

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a cached score. A missing file, decode failure or schema
// mismatch is a miss, not an error.
func (c *DiskCache) Get(key [sha256.Size]byte) (float64, []source.Span, bool) {
	if c == nil {
		return 0, nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		return 0, nil, false
	}
	defer f.Close()

	var payload cachedScore
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return 0, nil, false
	}
	if payload.Schema != cacheSchemaVersion || len(payload.Starts) != len(payload.Ends) {
		return 0, nil, false
	}

	spans := make([]source.Span, len(payload.Starts))
	for i := range payload.Starts {
		spans[i] = source.Span{Start: payload.Starts[i], End: payload.Ends[i]}
	}
	return payload.Score, spans, true
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}
