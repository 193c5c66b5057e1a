package wpfs

import (
	"context"
	"os"
	"path"
	"strings"
	"sync"
	"time"
)

// ============================================================================
// In-Memory Cache
// ============================================================================

type cacheEntry struct {
	value      any
	expiration time.Time
	hasExpiry  bool
}

func (e *cacheEntry) expired(now time.Time) bool {
	return e.hasExpiry && now.After(e.expiration)
}

// CacheStatistics contains cache performance metrics.
type CacheStatistics struct {
	Hits    int64
	Misses  int64
	Size    int64
	HitRate float64
}

// MemoryCache is a thread-safe in-memory cache with TTL-based expiration.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	hits    int64
	misses  int64
}

// NewMemoryCache creates a new in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*cacheEntry)}
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || entry.expired(time.Now()) {
		if ok {
			delete(c.entries, key)
		}
		c.misses++
		return nil, false
	}
	c.hits++
	return entry.value, true
}

// Set stores a value. A TTL of 0 means no expiration.
func (c *MemoryCache) Set(key string, value any, ttl time.Duration) {
	entry := &cacheEntry{value: value}
	if ttl > 0 {
		entry.expiration = time.Now().Add(ttl)
		entry.hasExpiry = true
	}
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
}

// Delete removes a value and reports whether it was present.
func (c *MemoryCache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	delete(c.entries, key)
	return ok
}

// DeleteFunc removes every key for which match returns true.
func (c *MemoryCache) DeleteFunc(match func(key string) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for key := range c.entries {
		if match(key) {
			delete(c.entries, key)
			n++
		}
	}
	return n
}

// Clear removes all values from the cache.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// Stats returns cache statistics.
func (c *MemoryCache) Stats() CacheStatistics {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}
	return CacheStatistics{
		Hits:    c.hits,
		Misses:  c.misses,
		Size:    int64(len(c.entries)),
		HitRate: hitRate,
	}
}

// ============================================================================
// CachingHost
// ============================================================================

// CachingHost wraps a Host and caches file contents and existence lookups.
// Writes through the wrapper invalidate the affected paths; changes made
// behind its back need Invalidate or InvalidatePrefix.
type CachingHost struct {
	Host
	cache *MemoryCache
	ttl   time.Duration
}

// NewCachingHost wraps host. A zero ttl keeps entries until invalidated.
func NewCachingHost(host Host, ttl time.Duration) *CachingHost {
	return &CachingHost{Host: host, cache: NewMemoryCache(), ttl: ttl}
}

// Unwrap returns the underlying Host.
func (c *CachingHost) Unwrap() Host { return c.Host }

// Stats returns cache statistics.
func (c *CachingHost) Stats() CacheStatistics { return c.cache.Stats() }

const (
	keyContents = "contents:"
	keyExists   = "exists:"
	keyIsFile   = "isfile:"
	keyIsDir    = "isdir:"
)

var cacheKinds = []string{keyContents, keyExists, keyIsFile, keyIsDir}

// abs resolves p against the wrapped host's working directory so that
// every spelling of a path shares one cache key.
func (c *CachingHost) abs(ctx context.Context, p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if !path.IsAbs(p) {
		cwd, err := c.Host.Cwd(context.WithoutCancel(ctx))
		if err != nil {
			cwd = "/"
		}
		p = path.Join(cwd, p)
	}
	return path.Clean(p)
}

// Invalidate implements CanInvalidate
func (c *CachingHost) Invalidate(p string) bool {
	return c.invalidate(context.Background(), p)
}

func (c *CachingHost) invalidate(ctx context.Context, p string) bool {
	p = c.abs(ctx, p)
	found := false
	for _, kind := range cacheKinds {
		if c.cache.Delete(kind + p) {
			found = true
		}
	}
	return found
}

// InvalidatePrefix implements CanInvalidate
func (c *CachingHost) InvalidatePrefix(dir string) int {
	return c.invalidatePrefix(context.Background(), dir)
}

func (c *CachingHost) invalidatePrefix(ctx context.Context, dir string) int {
	dir = c.abs(ctx, dir)
	prefix := strings.TrimRight(dir, "/") + "/"
	return c.cache.DeleteFunc(func(key string) bool {
		_, p, _ := strings.Cut(key, ":")
		return p == dir || strings.HasPrefix(p, prefix)
	})
}

func (c *CachingHost) flag(ctx context.Context, kind, p string, lookup func(context.Context, string) bool) bool {
	key := kind + c.abs(ctx, p)
	if v, ok := c.cache.Get(key); ok {
		return v.(bool)
	}
	v := lookup(ctx, p)
	c.cache.Set(key, v, c.ttl)
	return v
}

func (c *CachingHost) Exists(ctx context.Context, path string) bool {
	return c.flag(ctx, keyExists, path, c.Host.Exists)
}

func (c *CachingHost) IsFile(ctx context.Context, path string) bool {
	return c.flag(ctx, keyIsFile, path, c.Host.IsFile)
}

func (c *CachingHost) IsDir(ctx context.Context, path string) bool {
	return c.flag(ctx, keyIsDir, path, c.Host.IsDir)
}

func (c *CachingHost) GetContents(ctx context.Context, file string) ([]byte, error) {
	key := keyContents + c.abs(ctx, file)
	if v, ok := c.cache.Get(key); ok {
		return append([]byte(nil), v.([]byte)...), nil
	}
	data, err := c.Host.GetContents(ctx, file)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, append([]byte(nil), data...), c.ttl)
	return data, nil
}

func (c *CachingHost) PutContents(ctx context.Context, file string, contents []byte, mode os.FileMode) error {
	defer c.invalidate(ctx, file)
	return c.Host.PutContents(ctx, file, contents, mode)
}

func (c *CachingHost) Copy(ctx context.Context, src, dst string, overwrite bool, mode os.FileMode) error {
	defer c.invalidate(ctx, dst)
	return c.Host.Copy(ctx, src, dst, overwrite, mode)
}

func (c *CachingHost) Move(ctx context.Context, src, dst string, overwrite bool) error {
	defer c.invalidatePrefix(ctx, src)
	defer c.invalidatePrefix(ctx, dst)
	return c.Host.Move(ctx, src, dst, overwrite)
}

func (c *CachingHost) Delete(ctx context.Context, file string, recursive bool, typ EntryType) error {
	defer c.invalidatePrefix(ctx, file)
	return c.Host.Delete(ctx, file, recursive, typ)
}

func (c *CachingHost) Touch(ctx context.Context, file string, mtime, atime time.Time) error {
	defer c.invalidate(ctx, file)
	return c.Host.Touch(ctx, file, mtime, atime)
}

func (c *CachingHost) Mkdir(ctx context.Context, path string, mode os.FileMode, owner, group string) error {
	defer c.invalidate(ctx, path)
	return c.Host.Mkdir(ctx, path, mode, owner, group)
}

func (c *CachingHost) Rmdir(ctx context.Context, path string, recursive bool) error {
	defer c.invalidatePrefix(ctx, path)
	return c.Host.Rmdir(ctx, path, recursive)
}

// Close closes the underlying host when it holds resources.
func (c *CachingHost) Close() error {
	if closer, ok := c.Host.(CanClose); ok {
		return closer.Close()
	}
	return nil
}

var (
	_ Host          = (*CachingHost)(nil)
	_ CanInvalidate = (*CachingHost)(nil)
)
