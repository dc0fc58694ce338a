package calc

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	gometrics "github.com/rcrowley/go-metrics"
)

// Cache keeps postfix forms of recently converted infix expressions.
type Cache struct {
	cache   *ttlcache.Cache[string, string]
	size    gometrics.Gauge
	closeWg sync.WaitGroup
}

func newCache(capacity uint64, ttl time.Duration, size gometrics.Gauge) *Cache {
	opts := []ttlcache.Option[string, string]{
		ttlcache.WithTTL[string, string](ttl),
	}
	if capacity > 0 {
		opts = append(opts, ttlcache.WithCapacity[string, string](capacity))
	}
	ret := &Cache{
		cache: ttlcache.New(opts...),
		size:  size,
	}
	ret.cache.OnInsertion(func(ctx context.Context, i *ttlcache.Item[string, string]) {
		ret.size.Update(int64(ret.cache.Len()))
	})
	ret.cache.OnEviction(func(ctx context.Context, er ttlcache.EvictionReason, i *ttlcache.Item[string, string]) {
		ret.size.Update(int64(ret.cache.Len()))
	})
	return ret
}

func (c *Cache) start() {
	c.closeWg.Add(1)
	go func() {
		defer c.closeWg.Done()
		c.cache.Start()
	}()
}

func (c *Cache) stop() {
	c.cache.Stop()
	c.closeWg.Wait()
}

func (c *Cache) Set(infix string, postfix string) {
	c.cache.Set(infix, postfix, ttlcache.DefaultTTL)
}

// Get returns the cached postfix of infix.
func (c *Cache) Get(infix string) (string, bool) {
	item := c.cache.Get(infix, ttlcache.WithDisableTouchOnHit[string, string]())
	if item == nil {
		return "", false
	}
	return item.Value(), true
}

func (c *Cache) Len() int {
	return c.cache.Len()
}

func (c *Cache) Clear() {
	c.cache.DeleteAll()
}
