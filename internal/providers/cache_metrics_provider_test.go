package providers

import (
	"statcache/internal/structures"
	"testing"

	"github.com/stretchr/testify/assert"
)

type cacheMetricsTestInner struct {
	data map[string][]byte
}

func (c *cacheMetricsTestInner) Get(key string) ([]byte, bool) {
	v, ok := c.data[key]
	return v, ok
}
func (c *cacheMetricsTestInner) Set(key string, value []byte, _ int) {
	c.data[key] = value
}
func (c *cacheMetricsTestInner) Del(key string) {
	delete(c.data, key)
}

func TestMetricsCacheProvider_Hit(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{"key1": []byte("val1")}}
	metrics := &providerTestMetrics{}
	cache := &MetricsCacheProvider{inner: inner, metrics: metrics}

	val, ok := cache.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, []byte("val1"), val)
	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, 0, metrics.misses)
}

func TestMetricsCacheProvider_Miss(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{}}
	metrics := &providerTestMetrics{}
	cache := &MetricsCacheProvider{inner: inner, metrics: metrics}

	val, ok := cache.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, val)
	assert.Equal(t, 0, metrics.hits)
	assert.Equal(t, 1, metrics.misses)
}

func TestMetricsCacheProvider_SetAndDelDelegate(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{}}
	metrics := &providerTestMetrics{}
	cache := &MetricsCacheProvider{inner: inner, metrics: metrics}

	cache.Set("key2", []byte("val2"), 60)
	val, ok := inner.Get("key2")
	assert.True(t, ok)
	assert.Equal(t, []byte("val2"), val)

	cache.Del("key2")
	_, ok = inner.Get("key2")
	assert.False(t, ok)
	assert.Equal(t, 0, metrics.hits+metrics.misses)
}

func TestMetricsCacheProvider_MultipleOperations(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{"a": []byte("1")}}
	metrics := &providerTestMetrics{}
	cache := &MetricsCacheProvider{inner: inner, metrics: metrics}

	cache.Get("a") // hit
	cache.Get("b") // miss
	cache.Get("a") // hit
	cache.Get("c") // miss

	assert.Equal(t, 2, metrics.hits)
	assert.Equal(t, 2, metrics.misses)
}

func TestNewInstrumentedCacheProvider_DisabledIsUnwrapped(t *testing.T) {
	conf := &structures.Config{Cache: structures.CacheConfig{Enabled: false}}
	metrics := &providerTestMetrics{}

	c := NewInstrumentedCacheProvider(conf, &providerTestLogger{}, metrics)
	assert.IsType(t, &noopCache{}, c)

	c.Get("x")
	assert.Equal(t, 0, metrics.misses)
}

func TestNewInstrumentedCacheProvider_EnabledIsWrapped(t *testing.T) {
	conf := &structures.Config{Cache: structures.CacheConfig{Enabled: true, Size: 1, TTL: 5}}
	metrics := &providerTestMetrics{}

	c := NewInstrumentedCacheProvider(conf, &providerTestLogger{}, metrics)
	assert.IsType(t, &MetricsCacheProvider{}, c)

	c.Get("x")
	assert.Equal(t, 1, metrics.misses)
}
