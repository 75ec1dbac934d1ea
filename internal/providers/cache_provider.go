package providers

import (
	"github.com/coocood/freecache"
	"go.uber.org/atomic"
	"strconv"
	"trd/internal/structures"
	"unsafe"
)

// CacheProviderInterface holds derived read views (rendered JSON payloads)
// computed from the latest persisted snapshot. Every entry belongs to a
// generation; Invalidate advances the generation, so nothing cached before
// the call is ever served after it returns.
type CacheProviderInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Generation() uint64
	SetForGeneration(gen uint64, key string, value []byte) bool
	Invalidate()
}

type CacheProvider struct {
	cache *freecache.Cache
	ttl   int
	gen   atomic.Uint64
}

func NewCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	if !conf.Cache.Enabled || conf.Cache.Size <= 0 {
		logger.Infof(TypeApp, "Cache disabled")
		return &noopCache{}
	}

	sizeBytes := conf.Cache.Size * 1024 * 1024
	ttl := max(int(conf.Cache.TTL.Seconds()), 0)

	logger.Infof(TypeApp, "Cache initialized: %dMB, TTL=%ds", conf.Cache.Size, ttl)

	return &CacheProvider{
		cache: freecache.NewCache(sizeBytes),
		ttl:   ttl,
	}
}

// unsafeStringToBytes converts string to []byte without allocation.
// Safe when the result is only read (not modified), which is the case
// for freecache; it copies keys internally.
func unsafeStringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func generationKey(gen uint64, key string) string {
	return strconv.FormatUint(gen, 10) + ":" + key
}

func (c *CacheProvider) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get(unsafeStringToBytes(generationKey(c.gen.Load(), key)))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *CacheProvider) Set(key string, value []byte) {
	c.SetForGeneration(c.gen.Load(), key, value)
}

func (c *CacheProvider) Generation() uint64 {
	return c.gen.Load()
}

// SetForGeneration stores value only if gen is still current. A value whose
// computation began before an Invalidate is dropped; even if the race is
// lost here, the key carries the old generation and is unreachable.
func (c *CacheProvider) SetForGeneration(gen uint64, key string, value []byte) bool {
	if gen != c.gen.Load() {
		return false
	}
	_ = c.cache.Set(unsafeStringToBytes(generationKey(gen, key)), value, c.ttl)
	return true
}

func (c *CacheProvider) Invalidate() {
	c.gen.Inc()
	c.cache.Clear()
}

type noopCache struct{}

func (n *noopCache) Get(_ string) ([]byte, bool)                        { return nil, false }
func (n *noopCache) Set(_ string, _ []byte)                             {}
func (n *noopCache) Generation() uint64                                 { return 0 }
func (n *noopCache) SetForGeneration(_ uint64, _ string, _ []byte) bool { return false }
func (n *noopCache) Invalidate()                                        {}
