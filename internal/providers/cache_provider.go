package providers

import (
	"statcache/internal/structures"
	"unsafe"

	"github.com/coocood/freecache"
)

// CacheProviderInterface caches encoded GET responses. Writes to a record
// must Del the matching key so the next read goes back to the accessor.
// Set keeps value for at most ttlSeconds, capped by the configured cache
// TTL; ttlSeconds <= 0 stores nothing.
type CacheProviderInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttlSeconds int)
	Del(key string)
}

type CacheProvider struct {
	cache *freecache.Cache
	ttl   int
}

func NewCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	if !conf.Cache.Enabled || conf.Cache.Size <= 0 {
		logger.Infof(TypeApp, "Response cache disabled")
		return &noopCache{}
	}

	sizeBytes := conf.Cache.Size * 1024 * 1024
	ttl := max(conf.Cache.TTL, 1)

	logger.Infof(TypeApp, "Response cache initialized: %dMB, TTL=%ds", conf.Cache.Size, ttl)

	return &CacheProvider{
		cache: freecache.NewCache(sizeBytes),
		ttl:   ttl,
	}
}

// unsafeStringToBytes converts string to []byte without allocation.
// Safe when the result is only read (not modified), which is the case
// for freecache, which copies keys internally.
func unsafeStringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func (c *CacheProvider) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get(unsafeStringToBytes(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *CacheProvider) Set(key string, value []byte, ttlSeconds int) {
	expire := min(ttlSeconds, c.ttl)
	if expire <= 0 {
		return
	}
	_ = c.cache.Set(unsafeStringToBytes(key), value, expire)
}

func (c *CacheProvider) Del(key string) {
	c.cache.Del(unsafeStringToBytes(key))
}

type noopCache struct{}

func (n *noopCache) Get(_ string) ([]byte, bool)   { return nil, false }
func (n *noopCache) Set(_ string, _ []byte, _ int) {}
func (n *noopCache) Del(_ string)                  {}
