package providers

import (
	"sync"
	"testing"
	"time"
	"trd/internal/structures"

	"github.com/stretchr/testify/assert"
)

// local mock logger to avoid import cycle with testutil
type cacheTestLogger struct{}

func (m *cacheTestLogger) Errorf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *cacheTestLogger) Warnf(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *cacheTestLogger) Debugf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *cacheTestLogger) Infof(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *cacheTestLogger) Fatalf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *cacheTestLogger) Close()                                        {}

func cacheConfig(enabled bool, size int, ttl time.Duration) *structures.Config {
	return &structures.Config{
		Cache: structures.CacheConfig{
			Enabled: enabled,
			Size:    size,
			TTL:     ttl,
		},
	}
}

func TestCacheProvider_DisabledReturnsNoop(t *testing.T) {
	c := NewCacheProvider(cacheConfig(false, 10, 5*time.Second), &cacheTestLogger{})
	_, ok := c.Get("any")
	assert.False(t, ok)
	assert.IsType(t, &noopCache{}, c)
}

func TestCacheProvider_ZeroSizeReturnsNoop(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 0, 5*time.Second), &cacheTestLogger{})
	assert.IsType(t, &noopCache{}, c)
}

func TestCacheProvider_SetAndGet(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 1, 5*time.Second), &cacheTestLogger{})

	c.Set("news:all", []byte("value1"))
	val, ok := c.Get("news:all")
	assert.True(t, ok)
	assert.Equal(t, []byte("value1"), val)
}

func TestCacheProvider_Miss(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 1, 5*time.Second), &cacheTestLogger{})

	val, ok := c.Get("nonexistent")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestCacheProvider_InvalidateDropsEntries(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 1, 0), &cacheTestLogger{})
	c.Set("news:all", []byte("old"))

	before := c.Generation()
	c.Invalidate()

	assert.Equal(t, before+1, c.Generation())
	_, ok := c.Get("news:all")
	assert.False(t, ok)
}

func TestCacheProvider_StaleGenerationWriteIsDropped(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 1, 0), &cacheTestLogger{})

	// A reader captures the generation, then new data lands before it stores.
	gen := c.Generation()
	c.Invalidate()
	stored := c.SetForGeneration(gen, "news:all", []byte("computed from old snapshot"))

	assert.False(t, stored)
	_, ok := c.Get("news:all")
	assert.False(t, ok)

	assert.True(t, c.SetForGeneration(c.Generation(), "news:all", []byte("fresh")))
	val, ok := c.Get("news:all")
	assert.True(t, ok)
	assert.Equal(t, []byte("fresh"), val)
}

func TestCacheProvider_ConcurrentInvalidate(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 1, 0), &cacheTestLogger{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Set("k", []byte("v"))
			c.Get("k")
		}()
		go func() {
			defer wg.Done()
			c.Invalidate()
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(8), c.Generation())
}

func TestNoopCache_AlwaysMiss(t *testing.T) {
	c := &noopCache{}
	c.Set("key1", []byte("value1"))
	c.Invalidate()

	val, ok := c.Get("key1")
	assert.False(t, ok)
	assert.Nil(t, val)
	assert.False(t, c.SetForGeneration(0, "key1", nil))
}

func TestCacheProvider_TTLExpiry(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 1, 1*time.Second), &cacheTestLogger{})

	c.Set("key1", []byte("value1"))
	_, ok := c.Get("key1")
	assert.True(t, ok)

	time.Sleep(2100 * time.Millisecond)

	_, ok = c.Get("key1")
	assert.False(t, ok)
}
