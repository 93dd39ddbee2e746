package dataset

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spektr-org/hrpulse/engine"
)

// Observer receives cache and load events. metrics.Metrics implements it.
type Observer interface {
	ObserveCacheHit()
	ObserveCacheMiss()
	ObserveLoad(duration time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveCacheHit()                 {}
func (nopObserver) ObserveCacheMiss()                {}
func (nopObserver) ObserveLoad(time.Duration, error) {}

// cacheKey identifies one version of a file on disk.
type cacheKey struct {
	modTime time.Time
	size    int64
}

type cacheEntry struct {
	key cacheKey
	ds  *Dataset
}

// Cache holds parsed datasets keyed by absolute path. An entry is reused
// while the file's mtime and size are unchanged. Safe for concurrent use;
// a given file version is parsed at most once.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]cacheEntry
	opts     []Option
	observer Observer
	logger   *zap.Logger
}

// NewCache creates an empty cache. opts apply to every load.
func NewCache(observer Observer, logger *zap.Logger, opts ...Option) *Cache {
	if observer == nil {
		observer = nopObserver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		entries:  make(map[string]cacheEntry),
		opts:     append([]Option{WithLogger(logger)}, opts...),
		observer: observer,
		logger:   logger,
	}
}

// Get returns the dataset for path, loading it on first use or after the
// file changed.
func (c *Cache) Get(path string) (*Dataset, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &engine.LoadError{Path: path, Reason: "cannot resolve path", Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		reason := "cannot stat file"
		if errors.Is(err, fs.ErrNotExist) {
			reason = "file not found"
		}
		return nil, &engine.LoadError{Path: path, Reason: reason, Err: err}
	}
	key := cacheKey{modTime: info.ModTime(), size: info.Size()}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[abs]; ok && e.key == key {
		c.observer.ObserveCacheHit()
		return e.ds, nil
	}
	c.observer.ObserveCacheMiss()

	start := time.Now()
	ds, err := Load(abs, c.opts...)
	c.observer.ObserveLoad(time.Since(start), err)
	if err != nil {
		delete(c.entries, abs)
		return nil, err
	}

	c.entries[abs] = cacheEntry{key: cacheKey{modTime: ds.ModTime, size: ds.Size}, ds: ds}
	c.logger.Info("Dataset loaded",
		zap.String("path", abs),
		zap.Int("rows", ds.Len()),
		zap.Duration("duration", time.Since(start)))
	return ds, nil
}

// Invalidate drops the entry for path.
func (c *Cache) Invalidate(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	c.mu.Lock()
	delete(c.entries, abs)
	c.mu.Unlock()
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Len returns the number of cached datasets.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
